// Package dom provides the in-memory document model that domsnap
// serializes. Trees come from two sources: the capture layer (live CDP
// data, including state that is not present in markup — scroll offsets,
// form values, stylesheet objects) or the Parse bridge over static HTML.
//
// dom observes the browser's shape, it does not own it: node identity is
// pointer identity, and live-state fields are zero-valued unless a capture
// filled them.
package dom

import "github.com/hazyhaar/domsnap/cssom"

// NodeType tags the variant carried by a Node.
type NodeType int

const (
	DocumentNode NodeType = iota
	DoctypeNode
	ElementNode
	TextNode
	CommentNode
	CDATANode
	ShadowRootNode
)

// Attr is a single attribute. Order is preserved from the source document.
type Attr struct {
	Name  string
	Value string
}

// Box is a measured layout box in CSS pixels.
type Box struct {
	Width  float64
	Height float64
}

// Node is one document node. Which fields are meaningful depends on Type.
type Node struct {
	Type NodeType

	// Element fields.
	Tag        string // lowercase
	Attrs      []Attr
	ShadowRoot *Node // attached shadow root, if any

	// Text / Comment / CDATA content.
	Data string

	// Doctype fields.
	Name     string
	PublicID string
	SystemID string

	// Document fields.
	CompatMode string // "CSS1Compat" or "BackCompat"

	Parent   *Node
	Children []*Node

	// Host is set on ShadowRootNode nodes. Normally a *Node (the host
	// element), but data captured from a live browser occasionally
	// carries a bare string here: a detached anchor's text content can
	// resolve its own root with a string-typed host. See ShadowHost.
	Host any

	// Live state, filled by the capture layer.
	ScrollTop  float64
	ScrollLeft float64
	Value      string
	ValueSet   bool
	Checked    bool
	Selected   bool
	Layout     *Box
	Sheet      *cssom.StyleSheet // for <style> and <link rel=stylesheet>
}

// AppendChild adds c as the last child of n and sets its parent.
func (n *Node) AppendChild(c *Node) {
	c.Parent = n
	n.Children = append(n.Children, c)
}

// AttachShadow attaches a shadow root to an element and returns it.
func (n *Node) AttachShadow() *Node {
	sr := &Node{Type: ShadowRootNode, Host: n}
	n.ShadowRoot = sr
	return sr
}

// Attr returns the value of the named attribute and whether it is set.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets or replaces an attribute.
func (n *Node) SetAttr(name, value string) {
	for i, a := range n.Attrs {
		if a.Name == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

// AttrMap returns the attributes as a map. Duplicate names keep the last.
func (n *Node) AttrMap() map[string]string {
	if len(n.Attrs) == 0 {
		return nil
	}
	m := make(map[string]string, len(n.Attrs))
	for _, a := range n.Attrs {
		m[a.Name] = a.Value
	}
	return m
}

// Root walks parent links (not crossing shadow boundaries) and returns
// the topmost node reachable from n.
func (n *Node) Root() *Node {
	r := n
	for r.Parent != nil {
		r = r.Parent
	}
	return r
}

// OwnerDocument returns the document n belongs to, crossing shadow
// boundaries through host elements, or nil for detached subtrees.
func (n *Node) OwnerDocument() *Node {
	r := n.Root()
	for {
		switch r.Type {
		case DocumentNode:
			return r
		case ShadowRootNode:
			host, ok := hostNode(r)
			if !ok {
				return nil
			}
			r = host.Root()
		default:
			return nil
		}
	}
}
