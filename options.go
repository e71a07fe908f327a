package bbweaver

import "log/slog"

// Option configures an Engine.
type Option func(*Engine)

// WithEscapeMarker sets the sequence that, placed directly before a
// bracket, prevents it from being matched. An empty marker disables escaping.
func WithEscapeMarker(marker string) Option {
	return func(e *Engine) { e.marker = marker }
}

// WithBareTags also accepts openings without attributes, such as "[b]",
// which the default grammar leaves untouched because it requires a space
// after the tag name.
func WithBareTags() Option {
	return func(e *Engine) { e.bare = true }
}

// WithAttributeEscaping HTML-escapes attribute values before they are
// emitted. By default values are copied verbatim.
func WithAttributeEscaping() Option {
	return func(e *Engine) { e.escapeAttrs = true }
}

// WithValidators drops attributes whose value fails a validator in r.
func WithValidators(r *ValidatorRegistry) Option {
	return func(e *Engine) { e.validators = r }
}

// WithEventSink delivers TagRenderedEvent and AttributeDroppedEvent to sink.
func WithEventSink(sink EventSink) Option {
	return func(e *Engine) {
		if sink != nil {
			e.sink = sink
		}
	}
}

// WithLogger sets the logger used for debug records about dropped attributes.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}
