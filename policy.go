package bbweaver

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Policy returns a bluemonday policy that allows exactly the elements and
// attributes the engine can emit. Callers that sanitize the surrounding
// document with bluemonday can run Render output through it without
// losing rendered tags. URL attributes follow bluemonday's standard URL
// rules (http, https, mailto and relative URLs).
func (e *Engine) Policy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowStandardURLs()
	for _, def := range e.AllowedTags() {
		name := strings.ToLower(def.Name())
		p.AllowElements(name)
		p.AllowNoAttrs().OnElements(name)
		if attrs := def.AllowedAttributes(); len(attrs) > 0 {
			p.AllowAttrs(attrs...).OnElements(name)
		}
	}
	return p
}
