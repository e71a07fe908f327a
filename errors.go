package bbweaver

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyTagName is returned when a tag definition is built without a name.
	ErrEmptyTagName = errors.New("tag name is empty")

	// ErrInvalidTagName is returned when a tag name cannot be emitted as an HTML element name.
	ErrInvalidTagName = errors.New("tag name is not a valid HTML element name")

	// ErrInvalidAttributeName is returned when an allowed attribute could never be matched.
	ErrInvalidAttributeName = errors.New("attribute name is not valid")
)

// Position represents a position in a tag-set document.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
}

// String returns a string representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// DefinitionError reports why a tag definition could not be constructed.
type DefinitionError struct {
	Name      string // Tag name as given by the caller
	Attribute string // Offending attribute, if the failure is attribute related
	Err       error  // One of the sentinel errors above
}

// Error implements the error interface.
func (e *DefinitionError) Error() string {
	if e.Attribute != "" {
		return fmt.Sprintf("tag %q: attribute %q: %v", e.Name, e.Attribute, e.Err)
	}
	return fmt.Sprintf("tag %q: %v", e.Name, e.Err)
}

func (e *DefinitionError) Unwrap() error { return e.Err }

// TagSetError represents an error found while decoding a tag-set document.
type TagSetError struct {
	Pos     Position // Position where the error occurred
	Message string   // Error message
	Context string   // Surrounding content for context
	Err     error    // Underlying cause, if any
}

// Error implements the error interface.
func (e *TagSetError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Pos.Line == 0 {
		return msg
	}
	if e.Context != "" {
		return fmt.Sprintf("%s at %s\nContext: %s", msg, e.Pos, e.Context)
	}
	return fmt.Sprintf("%s at %s", msg, e.Pos)
}

func (e *TagSetError) Unwrap() error { return e.Err }

// ValidationError represents an attribute value rejected by a Validator.
// Render never returns it; it is carried by AttributeDroppedEvent.
type ValidationError struct {
	Tag       string
	Attribute string
	Value     string
	Message   string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("value %q of attribute %q on tag [%s] rejected: %s",
		e.Value, e.Attribute, e.Tag, e.Message)
}

// NewTagSetError creates a new TagSetError with context extracted from the document.
func NewTagSetError(pos Position, message, document string, err error) *TagSetError {
	return &TagSetError{
		Pos:     pos,
		Message: message,
		Context: extractContext(document, pos),
		Err:     err,
	}
}

// NewValidationError creates a new ValidationError.
func NewValidationError(tag, attr, value, message string) *ValidationError {
	return &ValidationError{
		Tag:       tag,
		Attribute: attr,
		Value:     value,
		Message:   message,
	}
}

// extractContext extracts a snippet of text around the error position for context.
// It tries to include a few lines before and after the error.
func extractContext(content string, pos Position) string {
	if content == "" || pos.Line <= 0 {
		return ""
	}

	lines := strings.Split(content, "\n")
	if pos.Line > len(lines) {
		return content
	}

	startLine := max(0, pos.Line-3)
	endLine := min(len(lines)-1, pos.Line+1)

	var contextBuilder strings.Builder
	for i := startLine; i <= endLine; i++ {
		lineNum := i + 1
		if lineNum == pos.Line {
			contextBuilder.WriteString(fmt.Sprintf("-> %d: %s\n", lineNum, lines[i]))

			// Add a pointer to the column if possible
			if pos.Column > 0 && pos.Column <= len(lines[i])+1 {
				contextBuilder.WriteString(strings.Repeat(" ", pos.Column+5) + "^\n")
			}
		} else {
			contextBuilder.WriteString(fmt.Sprintf("   %d: %s\n", lineNum, lines[i]))
		}
	}

	return contextBuilder.String()
}
