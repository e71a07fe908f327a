package bbweaver

import (
	"regexp"
	"slices"
	"strings"
)

// tagNameRe is the subset of HTML element names a definition may emit.
var tagNameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// TagDefinition describes one recognized bracket tag: the name used to
// match it (case-insensitively) and to emit it (verbatim), the attributes
// it may carry, and whether it is self-closing.
//
// A definition is shared with every Engine it is added to. Mutating its
// attribute set while a Render is in flight is the caller's concern.
type TagDefinition struct {
	name        string
	attrs       map[string]struct{}
	selfClosing bool
}

// NewTagDefinition validates name and attrs and returns a new definition.
// Duplicate attributes collapse.
func NewTagDefinition(name string, attrs []string, selfClosing bool) (*TagDefinition, error) {
	if name == "" {
		return nil, &DefinitionError{Name: name, Err: ErrEmptyTagName}
	}
	if !tagNameRe.MatchString(name) {
		return nil, &DefinitionError{Name: name, Err: ErrInvalidTagName}
	}
	t := &TagDefinition{
		name:        name,
		attrs:       make(map[string]struct{}, len(attrs)),
		selfClosing: selfClosing,
	}
	for _, a := range attrs {
		if !validAttributeName(a) {
			return nil, &DefinitionError{Name: name, Attribute: a, Err: ErrInvalidAttributeName}
		}
		t.attrs[a] = struct{}{}
	}
	return t, nil
}

// MustTagDefinition is like NewTagDefinition but panics on error.
// It is intended for package-level tag tables.
func MustTagDefinition(name string, attrs []string, selfClosing bool) *TagDefinition {
	t, err := NewTagDefinition(name, attrs, selfClosing)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the tag name as it is emitted.
func (t *TagDefinition) Name() string { return t.name }

// SelfClosing reports whether the tag has no body and no closing token.
func (t *TagDefinition) SelfClosing() bool { return t.selfClosing }

// AllowedAttributes returns the allowed attribute names in sorted order.
func (t *TagDefinition) AllowedAttributes() []string {
	out := make([]string, 0, len(t.attrs))
	for a := range t.attrs {
		out = append(out, a)
	}
	slices.Sort(out)
	return out
}

// IsAttributeAllowed is an exact, case-sensitive membership test.
func (t *TagDefinition) IsAttributeAllowed(attr string) bool {
	_, ok := t.attrs[attr]
	return ok
}

// AddAllowedAttribute allows attr on this tag. Adding an attribute twice is a no-op.
// It returns ErrInvalidAttributeName, wrapped, for names that could never match.
func (t *TagDefinition) AddAllowedAttribute(attr string) error {
	if !validAttributeName(attr) {
		return &DefinitionError{Name: t.name, Attribute: attr, Err: ErrInvalidAttributeName}
	}
	t.attrs[attr] = struct{}{}
	return nil
}

// RemoveAllowedAttribute disallows attr. Removing an absent attribute is a no-op.
func (t *TagDefinition) RemoveAllowedAttribute(attr string) {
	delete(t.attrs, attr)
}

// Clone returns an independent copy of t.
func (t *TagDefinition) Clone() *TagDefinition {
	c := &TagDefinition{
		name:        t.name,
		attrs:       make(map[string]struct{}, len(t.attrs)),
		selfClosing: t.selfClosing,
	}
	for a := range t.attrs {
		c.attrs[a] = struct{}{}
	}
	return c
}

// validAttributeName rejects names the attribute grammar can never produce.
func validAttributeName(a string) bool {
	return a != "" && !strings.ContainsAny(a, " =\"\t\n\r")
}
