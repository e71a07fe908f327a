package bbweaver

import (
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
)

// Engine rewrites allowed bracket tags to HTML. Definitions are unique by
// name and applied in registration order; each one is a full pass over
// the output of the previous pass, which is how different tags nest.
//
// An Engine is safe for concurrent use. Render works on a snapshot of the
// definition list taken when it starts.
type Engine struct {
	mu     sync.RWMutex
	byName map[string]*TagDefinition
	order  []string

	marker      string
	bare        bool
	escapeAttrs bool
	validators  *ValidatorRegistry
	sink        EventSink
	logger      *slog.Logger
}

// DefaultEscapeMarker is the sequence that, placed directly before a
// bracket, keeps it from being matched.
const DefaultEscapeMarker = `\`

func NewEngine(tags []*TagDefinition, opts ...Option) *Engine {
	e := &Engine{
		byName: make(map[string]*TagDefinition, len(tags)),
		marker: DefaultEscapeMarker,
		sink:   discardSink{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(e)
	}
	for _, t := range tags {
		e.addLocked(t)
	}
	return e
}

// AddAllowedTag registers tag. An existing definition with the same name
// is dropped first, so the last registration wins and moves to the end
// of the order. It returns e so calls can be chained.
func (e *Engine) AddAllowedTag(tag *TagDefinition) *Engine {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.addLocked(tag)
	return e
}

// RemoveAllowedTag unregisters the definition called name, if any.
func (e *Engine) RemoveAllowedTag(name string) *Engine {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.removeLocked(name)
	return e
}

// IsAllowed reports whether a definition called name is registered.
// Names are compared exactly.
func (e *Engine) IsAllowed(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.byName[name]
	return ok
}

// AllowedTags returns the registered definitions in application order.
func (e *Engine) AllowedTags() []*TagDefinition {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshotLocked()
}

// SetAllowedTags replaces every definition with tags, deduplicated by name.
func (e *Engine) SetAllowedTags(tags []*TagDefinition) *Engine {
	e.mu.Lock()
	defer e.mu.Unlock()
	clear(e.byName)
	e.order = e.order[:0]
	for _, t := range tags {
		e.addLocked(t)
	}
	return e
}

// Render rewrites every allowed bracket tag in input to HTML and returns
// the result. Text that does not match an allowed tag, including escaped
// brackets and malformed tokens, is returned unchanged. Render never fails.
func (e *Engine) Render(input string) string {
	e.mu.RLock()
	defs := e.snapshotLocked()
	e.mu.RUnlock()

	out := input
	for _, def := range defs {
		out = e.renderTag(out, def)
	}
	return out
}

// renderTag is a single left-to-right pass for def. Emitted HTML goes
// into a fresh buffer, so a replacement is never rescanned by the same pass.
func (e *Engine) renderTag(src string, def *TagDefinition) string {
	s := &scanner{src: src, marker: e.marker, bare: e.bare}

	var b strings.Builder
	last, rewrote := 0, false
	for {
		m, ok := s.next(last, def)
		if !ok {
			break
		}
		if !rewrote {
			b.Grow(len(src) + 16)
			rewrote = true
		}
		b.WriteString(src[last:m.start])
		e.writeElement(&b, def, m)
		last = m.end
	}
	if !rewrote {
		return src
	}
	b.WriteString(src[last:])
	return b.String()
}

// writeElement emits the HTML for one match. The space after the name is
// written even when no attribute survives filtering.
func (e *Engine) writeElement(b *strings.Builder, def *TagDefinition, m match) {
	attrs := e.filterAttributes(def, m.attrs)

	b.WriteByte('<')
	b.WriteString(def.Name())
	b.WriteByte(' ')
	writeAttributes(b, attrs, e.escapeAttrs)
	if def.SelfClosing() {
		b.WriteString("/>")
	} else {
		b.WriteByte('>')
		b.WriteString(m.body)
		b.WriteString("</")
		b.WriteString(def.Name())
		b.WriteByte('>')
	}

	e.sink.OnEvent(TagRenderedEvent{
		Tag:         def.Name(),
		SelfClosing: def.SelfClosing(),
		Attributes:  slices.Clone(attrs),
	})
}

func (e *Engine) addLocked(tag *TagDefinition) {
	if tag == nil {
		return
	}
	e.removeLocked(tag.Name())
	e.byName[tag.Name()] = tag
	e.order = append(e.order, tag.Name())
}

func (e *Engine) removeLocked(name string) {
	if _, ok := e.byName[name]; !ok {
		return
	}
	delete(e.byName, name)
	e.order = slices.DeleteFunc(e.order, func(n string) bool { return n == name })
}

func (e *Engine) snapshotLocked() []*TagDefinition {
	out := make([]*TagDefinition, 0, len(e.order))
	for _, n := range e.order {
		out = append(out, e.byName[n])
	}
	return out
}
