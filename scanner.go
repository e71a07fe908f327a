package bbweaver

import "strings"

// scanner locates bracket tokens in one pass over src. All offsets are
// byte offsets; every delimiter it looks for is ASCII, so they always
// fall on rune boundaries.
type scanner struct {
	src    string
	marker string
	bare   bool
}

// escaped reports whether the byte at i is directly preceded by the escape marker.
func (s *scanner) escaped(i int) bool {
	return s.marker != "" && i >= len(s.marker) && s.src[i-len(s.marker):i] == s.marker
}

// nextOpen returns the index of the next '[' at or after from, or -1.
func (s *scanner) nextOpen(from int) int {
	if from >= len(s.src) {
		return -1
	}
	k := strings.IndexByte(s.src[from:], '[')
	if k < 0 {
		return -1
	}
	return from + k
}

// closeBracket returns the index of the first unescaped ']' at or after from, or -1.
func (s *scanner) closeBracket(from int) int {
	for i := from; i < len(s.src); i++ {
		k := strings.IndexByte(s.src[i:], ']')
		if k < 0 {
			return -1
		}
		i += k
		if !s.escaped(i) {
			return i
		}
	}
	return -1
}

// openToken checks for "[name " (or "[name]" in bare mode) at i. It returns
// where the attribute text starts and whether the token was bare; for a
// bare token attrStart is the index of its ']'.
func (s *scanner) openToken(i int, name string) (attrStart int, bare bool, ok bool) {
	n := i + 1 + len(name)
	if n >= len(s.src) || s.src[i] != '[' || s.escaped(i) {
		return 0, false, false
	}
	if !strings.EqualFold(s.src[i+1:n], name) {
		return 0, false, false
	}
	switch {
	case s.src[n] == ' ':
		return n + 1, false, true
	case s.bare && s.src[n] == ']' && !s.escaped(n):
		return n, true, true
	}
	return 0, false, false
}

// closeToken finds the first unescaped "[/name]" at or after from and
// returns its start and end offsets, or -1, -1.
func (s *scanner) closeToken(from int, name string) (start, end int) {
	width := len(name) + 3 // "[/" name "]"
	for i := s.nextOpen(from); i >= 0; i = s.nextOpen(i + 1) {
		if i+width > len(s.src) {
			return -1, -1
		}
		rb := i + width - 1
		if s.src[i+1] != '/' || s.src[rb] != ']' || s.escaped(i) || s.escaped(rb) {
			continue
		}
		if strings.EqualFold(s.src[i+2:rb], name) {
			return i, rb + 1
		}
	}
	return -1, -1
}

// match is one rewritable occurrence of a tag in src.
type match struct {
	start, end int // whole token(s), [start, end)
	attrs      string
	body       string
}

// next returns the leftmost match of def at or after from.
//
// Attributes and body are both non-greedy: the first unescaped ']' ends
// the opening token and the first unescaped "[/name]" after it closes
// the element, so same-name nesting is not balanced. If an opening token
// cannot be completed, no later one can be either, and the scan stops.
func (s *scanner) next(from int, def *TagDefinition) (match, bool) {
	name := def.Name()
	for i := s.nextOpen(from); i >= 0; i = s.nextOpen(i + 1) {
		attrStart, bare, ok := s.openToken(i, name)
		if !ok {
			continue
		}

		attrEnd := attrStart
		if !bare {
			if attrEnd = s.closeBracket(attrStart); attrEnd < 0 {
				return match{}, false
			}
		}

		if def.SelfClosing() {
			return match{start: i, end: attrEnd + 1, attrs: s.src[attrStart:attrEnd]}, true
		}

		bodyStart := attrEnd + 1
		closeStart, closeEnd := s.closeToken(bodyStart, name)
		if closeStart < 0 {
			return match{}, false
		}
		return match{
			start: i,
			end:   closeEnd,
			attrs: s.src[attrStart:attrEnd],
			body:  s.src[bodyStart:closeStart],
		}, true
	}
	return match{}, false
}
