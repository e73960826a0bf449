// CLAUDE:SUMMARY Decodes the injected walker's JSON into dom trees and cssom sheets.
package capture

import (
	"encoding/json"
	"fmt"

	"github.com/hazyhaar/domsnap/cssom"
	"github.com/hazyhaar/domsnap/dom"
)

// jsonNode is the wire shape the injected walker emits per node.
type jsonNode struct {
	Type     string      `json:"type"`
	Tag      string      `json:"tag,omitempty"`
	Attrs    []jsonAttr  `json:"attrs,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`

	Data string `json:"data,omitempty"`

	Name     string `json:"name,omitempty"`
	PublicID string `json:"publicId,omitempty"`
	SystemID string `json:"systemId,omitempty"`

	CompatMode string `json:"compatMode,omitempty"`

	ScrollTop  float64 `json:"scrollTop,omitempty"`
	ScrollLeft float64 `json:"scrollLeft,omitempty"`
	Value      string  `json:"value,omitempty"`
	ValueSet   bool    `json:"valueSet,omitempty"`
	Checked    bool    `json:"checked,omitempty"`
	Selected   bool    `json:"selected,omitempty"`
	Width      float64 `json:"width,omitempty"`
	Height     float64 `json:"height,omitempty"`

	Sheet  *jsonSheet `json:"sheet,omitempty"`
	Shadow *jsonNode  `json:"shadow,omitempty"`
}

type jsonAttr struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type jsonSheet struct {
	Href     string      `json:"href,omitempty"`
	Media    []string    `json:"media,omitempty"`
	Disabled bool        `json:"disabled,omitempty"`
	Rules    []*jsonRule `json:"rules,omitempty"`
}

type jsonRule struct {
	Kind      string            `json:"kind"`
	Text      string            `json:"text,omitempty"`
	Selector  string            `json:"selector,omitempty"`
	Decls     []jsonDecl        `json:"decls,omitempty"`
	Rules     []*jsonRule       `json:"rules,omitempty"`
	Condition string            `json:"condition,omitempty"`
	Href      string            `json:"href,omitempty"`
	Media     []string          `json:"media,omitempty"`
	Layer     *string           `json:"layer,omitempty"`
	Supports  string            `json:"supports,omitempty"`
	Name      string            `json:"name,omitempty"`
	Computed  map[string]string `json:"computed,omitempty"`
}

type jsonDecl struct {
	Prop      string `json:"prop"`
	Value     string `json:"value"`
	Important bool   `json:"important,omitempty"`
}

// decodeTree turns the walker's JSON output into a dom tree.
func decodeTree(data []byte) (*dom.Node, error) {
	var root jsonNode
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("capture: decode tree: %w", err)
	}
	n := convertNode(&root)
	if n == nil {
		return nil, fmt.Errorf("capture: decode tree: unknown root type %q", root.Type)
	}
	return n, nil
}

func convertNode(jn *jsonNode) *dom.Node {
	var n *dom.Node
	switch jn.Type {
	case "document":
		n = &dom.Node{Type: dom.DocumentNode, CompatMode: jn.CompatMode}
	case "doctype":
		n = &dom.Node{Type: dom.DoctypeNode, Name: jn.Name,
			PublicID: jn.PublicID, SystemID: jn.SystemID}
	case "text":
		n = &dom.Node{Type: dom.TextNode, Data: jn.Data}
	case "comment":
		n = &dom.Node{Type: dom.CommentNode, Data: jn.Data}
	case "cdata":
		n = &dom.Node{Type: dom.CDATANode, Data: jn.Data}
	case "element":
		n = &dom.Node{
			Type:       dom.ElementNode,
			Tag:        jn.Tag,
			ScrollTop:  jn.ScrollTop,
			ScrollLeft: jn.ScrollLeft,
			Value:      jn.Value,
			ValueSet:   jn.ValueSet,
			Checked:    jn.Checked,
			Selected:   jn.Selected,
		}
		for _, a := range jn.Attrs {
			n.Attrs = append(n.Attrs, dom.Attr{Name: a.Name, Value: a.Value})
		}
		if jn.Width != 0 || jn.Height != 0 {
			n.Layout = &dom.Box{Width: jn.Width, Height: jn.Height}
		}
		if jn.Sheet != nil {
			n.Sheet = convertSheet(jn.Sheet)
		}
		if jn.Shadow != nil {
			sr := n.AttachShadow()
			for _, c := range jn.Shadow.Children {
				if child := convertNode(c); child != nil {
					sr.AppendChild(child)
				}
			}
		}
	default:
		return nil
	}

	for _, c := range jn.Children {
		if child := convertNode(c); child != nil {
			n.AppendChild(child)
		}
	}
	return n
}

func convertSheet(js *jsonSheet) *cssom.StyleSheet {
	s := &cssom.StyleSheet{
		Href:     js.Href,
		Media:    js.Media,
		Disabled: js.Disabled,
	}
	for _, r := range js.Rules {
		s.Rules = append(s.Rules, convertRule(r))
	}
	return s
}

func convertRule(jr *jsonRule) *cssom.Rule {
	r := &cssom.Rule{
		Text:      jr.Text,
		Selector:  jr.Selector,
		Condition: jr.Condition,
		Href:      jr.Href,
		Media:     jr.Media,
		Layer:     jr.Layer,
		Supports:  jr.Supports,
		Name:      jr.Name,
		Computed:  jr.Computed,
	}
	switch jr.Kind {
	case "style":
		r.Type = cssom.StyleRule
	case "media":
		r.Type = cssom.MediaRule
	case "supports":
		r.Type = cssom.SupportsRule
	case "import":
		r.Type = cssom.ImportRule
	case "layer":
		r.Type = cssom.LayerBlockRule
	case "container":
		r.Type = cssom.ContainerRule
	default:
		// Keep unknown rules as opaque style rules: their captured text
		// still replays.
		r.Type = cssom.StyleRule
	}
	for _, d := range jr.Decls {
		r.Decls = append(r.Decls, cssom.Decl{Prop: d.Prop, Value: d.Value, Important: d.Important})
	}
	for _, sub := range jr.Rules {
		r.Rules = append(r.Rules, convertRule(sub))
	}
	return r
}
