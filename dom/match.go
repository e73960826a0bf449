// CLAUDE:SUMMARY CSS selector-subset matching against dom nodes, used by redaction policy.
package dom

import "strings"

// Matches reports whether element n matches a CSS selector. The supported
// subset covers what redaction policies use in practice:
//   - tag: "iframe", "div"
//   - .class: ".rr-block"
//   - #id: "#sidebar"
//   - tag.class, tag#id: "div.secret"
//   - tag[attr], tag[attr=val]: "input[type=password]"
//   - comma-separated alternatives: ".a, .b"
//   - descendant combinator via space: ".panel input"
//
// A descendant selector matches when n matches the last part and some
// ancestor chain matches the preceding parts in order.
func Matches(n *Node, selector string) bool {
	if n == nil || n.Type != ElementNode {
		return false
	}
	for _, alt := range strings.Split(selector, ",") {
		if matchesOne(n, strings.TrimSpace(alt)) {
			return true
		}
	}
	return false
}

func matchesOne(n *Node, selector string) bool {
	parts := strings.Fields(selector)
	if len(parts) == 0 {
		return false
	}
	if !matchesSimple(n, parseSimpleSelector(parts[len(parts)-1])) {
		return false
	}
	// Walk ancestors (crossing shadow boundaries) for the remaining parts,
	// right to left.
	i := len(parts) - 2
	anc := ancestorOf(n)
	for i >= 0 && anc != nil {
		if anc.Type == ElementNode && matchesSimple(anc, parseSimpleSelector(parts[i])) {
			i--
		}
		anc = ancestorOf(anc)
	}
	return i < 0
}

// ancestorOf returns the parent, hopping from a shadow root to its host.
func ancestorOf(n *Node) *Node {
	if n.Parent != nil {
		return n.Parent
	}
	if n.Type == ShadowRootNode {
		if host, ok := hostNode(n); ok {
			return host
		}
	}
	return nil
}

type simpleSelector struct {
	tag     string
	id      string
	class   string
	attrKey string
	attrVal string
	hasVal  bool
}

// parseSimpleSelector parses "tag.class", "#id", "tag[attr=val]", etc.
func parseSimpleSelector(sel string) simpleSelector {
	var s simpleSelector

	if idx := strings.IndexByte(sel, '['); idx >= 0 {
		attrPart := strings.TrimRight(sel[idx+1:], "]")
		sel = sel[:idx]
		if eqIdx := strings.IndexByte(attrPart, '='); eqIdx >= 0 {
			s.attrKey = attrPart[:eqIdx]
			s.attrVal = strings.Trim(attrPart[eqIdx+1:], `"'`)
			s.hasVal = true
		} else {
			s.attrKey = attrPart
		}
	}

	if idx := strings.IndexByte(sel, '#'); idx >= 0 {
		s.id = sel[idx+1:]
		sel = sel[:idx]
	}

	if idx := strings.IndexByte(sel, '.'); idx >= 0 {
		s.class = sel[idx+1:]
		sel = sel[:idx]
	}

	s.tag = sel
	return s
}

func matchesSimple(n *Node, s simpleSelector) bool {
	if s.tag != "" && s.tag != "*" && n.Tag != s.tag {
		return false
	}
	if s.id != "" {
		id, _ := n.Attr("id")
		if id != s.id {
			return false
		}
	}
	if s.class != "" && !HasClass(n, s.class) {
		return false
	}
	if s.attrKey != "" {
		v, ok := n.Attr(s.attrKey)
		if !ok {
			return false
		}
		if s.hasVal && v != s.attrVal {
			return false
		}
	}
	return true
}

// HasClass reports whether element n carries the given class name.
func HasClass(n *Node, class string) bool {
	if class == "" {
		return false
	}
	attr, ok := n.Attr("class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(attr) {
		if c == class {
			return true
		}
	}
	return false
}
