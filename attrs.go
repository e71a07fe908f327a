package bbweaver

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	// name="value": the value runs to the next double quote.
	quotedAttrRe = regexp.MustCompile(`([^ ]+)="([^"]+)"`)
	// name=value: the value runs to the next space or double quote.
	unquotedAttrRe = regexp.MustCompile(`([^ ]+)=([^" ]+)`)
)

// parseAttributes extracts every name/value pair from the raw attribute
// text of a tag token. Both grammars scan the whole text independently;
// quoted pairs come first, then unquoted ones, each in source order.
func parseAttributes(raw string) []Attribute {
	if raw == "" {
		return nil
	}
	var out []Attribute
	for _, re := range [...]*regexp.Regexp{quotedAttrRe, unquotedAttrRe} {
		for _, m := range re.FindAllStringSubmatch(raw, -1) {
			out = append(out, Attribute{Name: m[1], Value: m[2]})
		}
	}
	return out
}

// filterAttributes keeps the pairs allowed on def whose value passes the
// registered validators. Everything else is reported and dropped.
func (e *Engine) filterAttributes(def *TagDefinition, raw string) []Attribute {
	parsed := parseAttributes(raw)
	if len(parsed) == 0 {
		return nil
	}
	kept := parsed[:0]
	for _, a := range parsed {
		if !def.IsAttributeAllowed(a.Name) {
			e.drop(def, a, DropNotAllowed, nil)
			continue
		}
		if err := e.validators.ValidateAttribute(def.Name(), a.Name, a.Value); err != nil {
			e.drop(def, a, DropInvalid, err)
			continue
		}
		kept = append(kept, a)
	}
	return kept
}

func (e *Engine) drop(def *TagDefinition, a Attribute, reason DropReason, err error) {
	e.logger.Debug("attribute dropped",
		"tag", def.Name(),
		"attribute", a.Name,
		"reason", string(reason),
	)
	e.sink.OnEvent(AttributeDroppedEvent{
		Tag:       def.Name(),
		Attribute: a.Name,
		Value:     a.Value,
		Reason:    reason,
		Err:       err,
	})
}

// writeAttributes serializes attrs as name="value" pairs joined by single
// spaces. Values are copied verbatim unless escape is set.
func writeAttributes(b *strings.Builder, attrs []Attribute, escape bool) {
	for i, a := range attrs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(a.Name)
		b.WriteString(`="`)
		if escape {
			b.WriteString(html.EscapeString(a.Value))
		} else {
			b.WriteString(a.Value)
		}
		b.WriteByte('"')
	}
}
