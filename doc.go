// Package bbweaver renders a constrained bracket-tag markup dialect
// (for example "[b ]text[/b]") to HTML, passing through only the tags and
// attributes on an explicit allow-list.
//
// # Overview
//
// A [TagDefinition] names one recognized tag, the attributes it may carry
// and whether it is self-closing. An [Engine] holds an ordered set of
// definitions, unique by name, and [Engine.Render] rewrites matching
// tokens:
//
//	[name ATTRS]BODY[/name]  ->  <name ATTRS>BODY</name>
//	[name ATTRS]             ->  <name ATTRS/>          (self-closing)
//
// Tag names match case-insensitively and are emitted as defined. The
// opening token needs a space after the name unless [WithBareTags] is
// used. The body may span lines and ends at the first matching closing
// token, so same-name nesting is not balanced. Definitions are applied
// one after another, each over the previous output, which lets different
// tags nest.
//
// # Attributes
//
// Attributes are read as name="value" or name=value pairs; pairs whose
// name is not allowed on the tag are dropped, the rest are re-emitted as
// name="value". Values are copied verbatim unless [WithAttributeEscaping]
// is set, and may be checked with a [ValidatorRegistry].
//
// # Escaping
//
// A bracket directly preceded by the escape marker (a backslash by
// default, see [WithEscapeMarker]) is never matched.
//
// # Security
//
// Render only governs the bracket syntax. Everything else, including raw
// HTML in the input, is returned as is: escape the text before rendering
// or sanitize the result, for example with [Engine.Policy].
//
// # Example
//
//	e := bbweaver.NewEngine(bbweaver.DefaultTagSet(), bbweaver.WithBareTags())
//	out := e.Render(`[a href="https://example.com"]home[/a]`)
package bbweaver
