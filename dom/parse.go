// CLAUDE:SUMMARY Parses raw HTML into dom trees via golang.org/x/net/html (static-snapshot path).
package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse reads a full HTML document and returns a DocumentNode tree.
// Live-state fields are zero-valued: this path exists for replaying
// persisted markup and for tests; captured pages go through the capture
// package instead.
func Parse(r io.Reader) (*Node, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}
	doc := convert(root)
	if doc == nil || doc.Type != DocumentNode {
		return nil, fmt.Errorf("dom: parse: no document produced")
	}
	// x/net/html always parses into standards mode unless the doctype is
	// missing or quirky; mirror the browser's compatMode string.
	doc.CompatMode = compatMode(doc)
	return doc, nil
}

// ParseFragment parses body-context markup and returns the resulting
// sibling nodes.
func ParseFragment(markup string) ([]*Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	frags, err := html.ParseFragment(strings.NewReader(markup), body)
	if err != nil {
		return nil, fmt.Errorf("dom: parse fragment: %w", err)
	}
	out := make([]*Node, 0, len(frags))
	for _, f := range frags {
		if n := convert(f); n != nil {
			out = append(out, n)
		}
	}
	return out, nil
}

func convert(src *html.Node) *Node {
	var n *Node
	switch src.Type {
	case html.DocumentNode:
		n = &Node{Type: DocumentNode}
	case html.DoctypeNode:
		n = &Node{Type: DoctypeNode, Name: src.Data}
		for _, a := range src.Attr {
			switch a.Key {
			case "public":
				n.PublicID = a.Val
			case "system":
				n.SystemID = a.Val
			}
		}
	case html.ElementNode:
		n = &Node{Type: ElementNode, Tag: strings.ToLower(src.Data)}
		for _, a := range src.Attr {
			n.Attrs = append(n.Attrs, Attr{Name: a.Key, Value: a.Val})
		}
	case html.TextNode:
		n = &Node{Type: TextNode, Data: src.Data}
	case html.CommentNode:
		n = &Node{Type: CommentNode, Data: src.Data}
	default:
		return nil // RawNode, ErrorNode: nothing to mirror
	}

	for c := src.FirstChild; c != nil; c = c.NextSibling {
		if child := convert(c); child != nil {
			n.AppendChild(child)
		}
	}
	return n
}

// compatMode derives the document compatibility mode the way browsers
// report it: "CSS1Compat" when a doctype is present, "BackCompat" without.
func compatMode(doc *Node) string {
	for _, c := range doc.Children {
		if c.Type == DoctypeNode {
			return "CSS1Compat"
		}
	}
	return "BackCompat"
}
