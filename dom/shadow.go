// CLAUDE:SUMMARY Shadow-tree resolution predicates: host lookup, nested host chains, DOM connectivity.
package dom

// hostNode extracts the host element from a shadow root's Host field.
// Captured browser data can carry a string here instead of a node: a
// detached anchor element's text content resolves its own root with a
// string-typed host. That is not a real host and must read as "none".
func hostNode(sr *Node) (*Node, bool) {
	host, ok := sr.Host.(*Node)
	if !ok || host == nil || host == sr {
		return nil, false
	}
	return host, true
}

// ShadowHost returns the element hosting the shadow tree that directly
// contains n, or nil when n is not inside any shadow tree.
func ShadowHost(n *Node) *Node {
	if n == nil {
		return nil
	}
	r := n.Root()
	if r.Type != ShadowRootNode {
		return nil
	}
	host, ok := hostNode(r)
	if !ok {
		return nil
	}
	return host
}

// RootShadowHost walks ShadowHost until no further host is found,
// handling arbitrarily nested shadow trees. Returns n itself when n is
// not inside shadow DOM.
func RootShadowHost(n *Node) *Node {
	cur := n
	for {
		host := ShadowHost(cur)
		if host == nil {
			return cur
		}
		cur = host
	}
}

// ShadowHostInDOM reports whether the root shadow host of n (or n itself,
// when not shadowed) is connected to the main document.
func ShadowHostInDOM(n *Node) bool {
	host := RootShadowHost(n)
	if host == nil {
		return false
	}
	return host.Root().Type == DocumentNode
}

// InDOM reports whether n is connected to the document, directly or
// transitively through shadow boundaries.
func InDOM(n *Node) bool {
	if n == nil {
		return false
	}
	if n.Root().Type == ShadowRootNode {
		return ShadowHostInDOM(n)
	}
	return n.Root().Type == DocumentNode
}
