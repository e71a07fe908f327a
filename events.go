package bbweaver

type Event interface{ isEvent() }

// Attribute is one attribute kept on an emitted element, in discovery order.
type Attribute struct {
	Name  string
	Value string
}

// TagRenderedEvent is emitted for every bracket tag rewritten to HTML.
type TagRenderedEvent struct {
	Tag         string // definition name, as emitted
	SelfClosing bool
	Attributes  []Attribute
}

func (TagRenderedEvent) isEvent() {}

// DropReason tells why an attribute did not reach the output.
type DropReason string

const (
	DropNotAllowed DropReason = "not_allowed"
	DropInvalid    DropReason = "invalid_value"
)

// AttributeDroppedEvent is emitted for every attribute filtered out of a tag.
type AttributeDroppedEvent struct {
	Tag       string
	Attribute string
	Value     string
	Reason    DropReason
	Err       error // set when Reason is DropInvalid
}

func (AttributeDroppedEvent) isEvent() {}

// ===== Sink =====

// EventSink receives events synchronously during Render. A sink attached to
// an engine shared between goroutines must be safe for concurrent use.
type EventSink interface {
	OnEvent(ev Event)
}

type EventSinkFunc func(ev Event)

func (f EventSinkFunc) OnEvent(ev Event) { f(ev) }

type discardSink struct{}

func (discardSink) OnEvent(Event) {}
