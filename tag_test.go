package bbweaver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_TagDefinition(t *testing.T) {
	t.Run("should build a definition with collapsed attributes", func(t *testing.T) {
		tag, err := NewTagDefinition("a", []string{"title", "href", "title"}, false)
		require.NoError(t, err)
		assert.Equal(t, "a", tag.Name())
		assert.False(t, tag.SelfClosing())
		assert.Equal(t, []string{"href", "title"}, tag.AllowedAttributes())
	})

	t.Run("should reject an empty name", func(t *testing.T) {
		_, err := NewTagDefinition("", nil, false)
		require.ErrorIs(t, err, ErrEmptyTagName)
	})

	t.Run("should reject names that are not HTML element names", func(t *testing.T) {
		for _, name := range []string{"b r", "1b", "<b>", "b]", "é", "-x", "a/b"} {
			_, err := NewTagDefinition(name, nil, false)
			require.ErrorIs(t, err, ErrInvalidTagName, name)

			var defErr *DefinitionError
			require.ErrorAs(t, err, &defErr)
			assert.Equal(t, name, defErr.Name)
		}
	})

	t.Run("should accept custom element names", func(t *testing.T) {
		_, err := NewTagDefinition("my-widget_2", nil, true)
		assert.NoError(t, err)
	})

	t.Run("should reject attribute names that can never match", func(t *testing.T) {
		for _, attr := range []string{"", "on click", "a=b", `x"`} {
			_, err := NewTagDefinition("a", []string{attr}, false)
			require.ErrorIs(t, err, ErrInvalidAttributeName, attr)
		}
	})

	t.Run("should test attribute membership case-sensitively", func(t *testing.T) {
		tag := MustTagDefinition("a", []string{"href"}, false)
		assert.True(t, tag.IsAttributeAllowed("href"))
		assert.False(t, tag.IsAttributeAllowed("HREF"))
		assert.False(t, tag.IsAttributeAllowed("title"))
	})

	t.Run("should add and remove attributes idempotently", func(t *testing.T) {
		tag := MustTagDefinition("a", nil, false)
		require.NoError(t, tag.AddAllowedAttribute("href"))
		require.NoError(t, tag.AddAllowedAttribute("href"))
		assert.Equal(t, []string{"href"}, tag.AllowedAttributes())

		tag.RemoveAllowedAttribute("href")
		tag.RemoveAllowedAttribute("href")
		tag.RemoveAllowedAttribute("never-there")
		assert.Empty(t, tag.AllowedAttributes())

		assert.ErrorIs(t, tag.AddAllowedAttribute("bad name"), ErrInvalidAttributeName)
	})

	t.Run("should clone independently", func(t *testing.T) {
		tag := MustTagDefinition("img", []string{"src"}, true)
		c := tag.Clone()
		require.NoError(t, c.AddAllowedAttribute("alt"))
		assert.False(t, tag.IsAttributeAllowed("alt"))
		assert.True(t, c.SelfClosing())
	})

	t.Run("should see attribute changes made after registration", func(t *testing.T) {
		tag := MustTagDefinition("a", nil, false)
		engine := NewEngine([]*TagDefinition{tag})
		assert.Equal(t, `<a >x</a>`, engine.Render(`[a href=/]x[/a]`))

		require.NoError(t, tag.AddAllowedAttribute("href"))
		assert.Equal(t, `<a href="/">x</a>`, engine.Render(`[a href=/]x[/a]`))
	})

	t.Run("should panic from MustTagDefinition on invalid input", func(t *testing.T) {
		assert.Panics(t, func() { MustTagDefinition("", nil, false) })
	})
}
