package bbweaver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const forumTagSet = `
tags:
  - name: b
  - name: quote
    attributes: [author]
  - name: a
    attributes:
      - href
      - title
  - name: img
    attributes: [src, alt]
    self_closing: true
`

func Test_TagSet(t *testing.T) {
	t.Run("should parse definitions in document order", func(t *testing.T) {
		tags, err := ParseTagSet([]byte(forumTagSet))
		require.NoError(t, err)
		require.Len(t, tags, 4)

		assert.Equal(t, "b", tags[0].Name())
		assert.Equal(t, []string{"author"}, tags[1].AllowedAttributes())
		assert.Equal(t, []string{"href", "title"}, tags[2].AllowedAttributes())
		assert.True(t, tags[3].SelfClosing())
	})

	t.Run("should drive an engine", func(t *testing.T) {
		tags, err := LoadTagSet(strings.NewReader(forumTagSet))
		require.NoError(t, err)
		engine := NewEngine(tags)
		out := engine.Render(`[quote author=bo]see [img src=x.png onerror=y][/quote]`)
		assert.Equal(t, `<quote author="bo">see <img src="x.png"/></quote>`, out)
	})

	t.Run("should keep duplicates for the engine to resolve", func(t *testing.T) {
		tags, err := ParseTagSet([]byte("tags:\n  - name: b\n  - name: b\n    attributes: [class]\n"))
		require.NoError(t, err)
		require.Len(t, tags, 2)

		engine := NewEngine(tags)
		require.Len(t, engine.AllowedTags(), 1)
		assert.True(t, engine.AllowedTags()[0].IsAttributeAllowed("class"))
	})

	t.Run("should report the position of an invalid entry", func(t *testing.T) {
		doc := "tags:\n  - name: b\n  - name: \"b r\"\n"
		_, err := ParseTagSet([]byte(doc))
		require.Error(t, err)

		var tsErr *TagSetError
		require.True(t, errors.As(err, &tsErr))
		assert.Equal(t, 3, tsErr.Pos.Line)
		assert.ErrorIs(t, err, ErrInvalidTagName)
		assert.Contains(t, tsErr.Context, `-> 3:`)
	})

	t.Run("should reject unknown keys in an entry", func(t *testing.T) {
		doc := "tags:\n  - name: img\n    attributes: [src]\n    selfclosing: true\n"
		_, err := ParseTagSet([]byte(doc))

		var tsErr *TagSetError
		require.ErrorAs(t, err, &tsErr)
		assert.Equal(t, `unknown key "selfclosing" in tag entry`, tsErr.Message)
		assert.Equal(t, Position{Line: 4, Column: 5}, tsErr.Pos)
		assert.Contains(t, tsErr.Context, "-> 4:")
	})

	t.Run("should report malformed YAML", func(t *testing.T) {
		_, err := ParseTagSet([]byte("tags: [b\n"))
		var tsErr *TagSetError
		require.ErrorAs(t, err, &tsErr)
		assert.Equal(t, "malformed tag set", tsErr.Message)
	})

	t.Run("should reject documents of the wrong shape", func(t *testing.T) {
		_, err := ParseTagSet([]byte("- b\n- i\n"))
		assert.ErrorContains(t, err, "must be a mapping")

		_, err = ParseTagSet([]byte("tags: b\n"))
		assert.ErrorContains(t, err, `"tags" must be a list`)

		_, err = ParseTagSet([]byte("tags:\n  - name: [b]\n"))
		assert.ErrorContains(t, err, "invalid tag entry")
	})

	t.Run("should accept empty documents", func(t *testing.T) {
		tags, err := ParseTagSet(nil)
		require.NoError(t, err)
		assert.Empty(t, tags)

		tags, err = ParseTagSet([]byte("other: 1\n"))
		require.NoError(t, err)
		assert.Empty(t, tags)
	})

	t.Run("should load from a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tags.yaml")
		require.NoError(t, os.WriteFile(path, []byte(forumTagSet), 0o644))

		tags, err := LoadTagSetFile(path)
		require.NoError(t, err)
		assert.Len(t, tags, 4)

		_, err = LoadTagSetFile(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("should marshal a set that parses back to the same definitions", func(t *testing.T) {
		data, err := MarshalTagSet(DefaultTagSet())
		require.NoError(t, err)
		assert.Contains(t, string(data), "self_closing: true")

		tags, err := ParseTagSet(data)
		require.NoError(t, err)
		want := DefaultTagSet()
		require.Len(t, tags, len(want))
		for i := range want {
			assert.Equal(t, want[i].Name(), tags[i].Name())
			assert.Equal(t, want[i].AllowedAttributes(), tags[i].AllowedAttributes())
			assert.Equal(t, want[i].SelfClosing(), tags[i].SelfClosing())
		}
	})

	t.Run("should return fresh built-in sets", func(t *testing.T) {
		a := DefaultTagSet()
		require.NoError(t, a[0].AddAllowedAttribute("class"))
		assert.False(t, DefaultTagSet()[0].IsAttributeAllowed("class"))
	})
}
