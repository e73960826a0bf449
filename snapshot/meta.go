// CLAUDE:SUMMARY Structural meta-equality over serialized nodes: "can this node's identity be reused".
package snapshot

import "maps"

// IsNodeMetaEqual compares the identity-defining metadata of two
// serialized nodes. Child lists are deliberately excluded for elements:
// the question answered is "can this node's identity be reused", not
// "is this subtree unchanged".
func IsNodeMetaEqual(a, b *Node) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Document:
		return a.CompatMode == b.CompatMode
	case DocumentType:
		return a.Name == b.Name && a.PublicID == b.PublicID && a.SystemID == b.SystemID
	case Text, Comment, CDATA:
		return a.Text == b.Text
	case Element:
		return a.Tag == b.Tag && maps.Equal(a.Attrs, b.Attrs)
	}
	return false
}
