package bbweaver

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// A tag-set document lists tag definitions:
//
//	tags:
//	  - name: a
//	    attributes: [href, title]
//	  - name: img
//	    attributes: [src, alt]
//	    self_closing: true
type tagSetDocument struct {
	Tags []tagSpec `yaml:"tags"`
}

type tagSpec struct {
	Name        string   `yaml:"name"`
	Attributes  []string `yaml:"attributes,omitempty,flow"`
	SelfClosing bool     `yaml:"self_closing,omitempty"`
}

// ParseTagSet decodes a YAML tag-set document. Definitions are returned in
// document order; duplicates are kept and resolved by the Engine, where
// the later one wins. Errors carry the position of the offending entry.
func ParseTagSet(data []byte) ([]*TagDefinition, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &TagSetError{Message: "malformed tag set", Err: err}
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, NewTagSetError(nodePos(doc), "tag set must be a mapping with a \"tags\" key", string(data), nil)
	}

	var list *yaml.Node
	for i := 0; i+1 < len(doc.Content); i += 2 {
		if doc.Content[i].Value == "tags" {
			list = doc.Content[i+1]
		}
	}
	if list == nil {
		return nil, nil
	}
	if list.Kind != yaml.SequenceNode {
		return nil, NewTagSetError(nodePos(list), "\"tags\" must be a list", string(data), nil)
	}

	tags := make([]*TagDefinition, 0, len(list.Content))
	for _, n := range list.Content {
		if key := unknownKey(n); key != nil {
			return nil, NewTagSetError(nodePos(key), fmt.Sprintf("unknown key %q in tag entry", key.Value), string(data), nil)
		}
		var spec tagSpec
		if err := n.Decode(&spec); err != nil {
			return nil, NewTagSetError(nodePos(n), "invalid tag entry", string(data), err)
		}
		t, err := NewTagDefinition(spec.Name, spec.Attributes, spec.SelfClosing)
		if err != nil {
			return nil, NewTagSetError(nodePos(n), "invalid tag definition", string(data), err)
		}
		tags = append(tags, t)
	}
	return tags, nil
}

// LoadTagSet reads and parses a tag-set document from r.
func LoadTagSet(r io.Reader) ([]*TagDefinition, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading tag set: %w", err)
	}
	return ParseTagSet(data)
}

// LoadTagSetFile reads and parses the tag-set document at path.
func LoadTagSetFile(path string) ([]*TagDefinition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening tag set: %w", err)
	}
	defer f.Close()
	return LoadTagSet(f)
}

// MarshalTagSet encodes tags as a tag-set document.
func MarshalTagSet(tags []*TagDefinition) ([]byte, error) {
	doc := tagSetDocument{Tags: make([]tagSpec, 0, len(tags))}
	for _, t := range tags {
		doc.Tags = append(doc.Tags, tagSpec{
			Name:        t.Name(),
			Attributes:  t.AllowedAttributes(),
			SelfClosing: t.SelfClosing(),
		})
	}
	return yaml.Marshal(&doc)
}

// unknownKey returns the first key of a tag entry mapping that tagSpec
// does not define, or nil.
func unknownKey(n *yaml.Node) *yaml.Node {
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i < len(n.Content); i += 2 {
		switch n.Content[i].Value {
		case "name", "attributes", "self_closing":
		default:
			return n.Content[i]
		}
	}
	return nil
}

func nodePos(n *yaml.Node) Position {
	return Position{Line: n.Line, Column: n.Column}
}

// DefaultTagSet returns a fresh copy of a general-purpose tag set covering
// inline formatting, quotes, code, lists, links and images.
func DefaultTagSet() []*TagDefinition {
	return []*TagDefinition{
		MustTagDefinition("b", nil, false),
		MustTagDefinition("i", nil, false),
		MustTagDefinition("u", nil, false),
		MustTagDefinition("s", nil, false),
		MustTagDefinition("em", nil, false),
		MustTagDefinition("strong", nil, false),
		MustTagDefinition("code", []string{"class"}, false),
		MustTagDefinition("pre", nil, false),
		MustTagDefinition("blockquote", []string{"cite"}, false),
		MustTagDefinition("p", []string{"class"}, false),
		MustTagDefinition("span", []string{"class"}, false),
		MustTagDefinition("ul", nil, false),
		MustTagDefinition("ol", nil, false),
		MustTagDefinition("li", nil, false),
		MustTagDefinition("a", []string{"href", "title"}, false),
		MustTagDefinition("img", []string{"src", "alt", "title", "width", "height"}, true),
		MustTagDefinition("br", nil, true),
		MustTagDefinition("hr", nil, true),
	}
}

// StrictTagSet returns a fresh copy of a minimal tag set: inline
// formatting only, no attributes. Suitable for comments.
func StrictTagSet() []*TagDefinition {
	return []*TagDefinition{
		MustTagDefinition("b", nil, false),
		MustTagDefinition("i", nil, false),
		MustTagDefinition("u", nil, false),
		MustTagDefinition("s", nil, false),
		MustTagDefinition("em", nil, false),
		MustTagDefinition("strong", nil, false),
	}
}
