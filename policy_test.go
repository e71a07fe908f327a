package bbweaver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Engine_Policy(t *testing.T) {
	t.Run("should keep rendered tags and drop everything else", func(t *testing.T) {
		engine := NewEngine(StrictTagSet(), WithBareTags())
		out := engine.Policy().Sanitize(engine.Render("[b]bold[/b]<script>alert(1)</script><i onclick=x>i</i>"))

		assert.Contains(t, out, "<b>bold</b>")
		assert.Contains(t, out, "<i>i</i>")
		assert.NotContains(t, out, "script")
		assert.NotContains(t, out, "onclick")
	})

	t.Run("should keep allowed attributes", func(t *testing.T) {
		engine := NewEngine([]*TagDefinition{MustTagDefinition("a", []string{"href", "title"}, false)})
		out := engine.Policy().Sanitize(engine.Render(`[a href="https://example.com" title=home]x[/a]`))

		assert.Contains(t, out, `href="https://example.com"`)
		assert.Contains(t, out, `title="home"`)
	})

	t.Run("should follow later changes to the allow-list", func(t *testing.T) {
		engine := NewEngine(StrictTagSet())
		engine.RemoveAllowedTag("b")
		out := engine.Policy().Sanitize("<b>x</b><i>y</i>")

		assert.NotContains(t, out, "<b>")
		assert.Contains(t, out, "<i>y</i>")
	})
}
