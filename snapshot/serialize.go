// CLAUDE:SUMMARY Recursive snapshot serializer: mirrors ids, applies redaction, captures live state, reconstructs stylesheet text.
package snapshot

import (
	"strconv"

	"github.com/hazyhaar/domsnap/cssom"
	"github.com/hazyhaar/domsnap/dom"
)

// Options configures one serialization pass. The mirrors are long-lived
// (one recording session); everything else is per-pass.
type Options struct {
	// Mirror assigns stable node ids. Required for incremental capture;
	// created on the fly when nil (throwaway, single-pass use).
	Mirror *Mirror

	// Styles registers stylesheet objects encountered on style/link
	// elements. Optional.
	Styles *StyleMirror

	// Policy is the redaction configuration. Nil means no redaction.
	Policy *Policy

	// SkipChild suppresses recursion into light-DOM children. Shadow
	// roots are controlled independently by SerializeShadow.
	SkipChild bool

	// InlineStylesheet reconstructs <style> bodies (and linked sheets
	// whose rules were captured) from the live CSSOM instead of the
	// source text.
	InlineStylesheet bool

	// SerializeShadow emits shadow roots as synthetic children.
	SerializeShadow bool

	// SlimDOM elides script/head-noise nodes entirely.
	SlimDOM SlimDOM

	// BaseURL resolves relative url(...) targets in stylesheets that
	// carry no href of their own (inline <style>).
	BaseURL string
}

// formControls are serialized with live value/checked state and an empty
// child list, so a masking function can treat them uniformly.
var formControls = map[string]bool{
	"input":    true,
	"textarea": true,
	"select":   true,
}

// SerializeNodeWithID walks n recursively into a serialized node graph.
// Every visited node gets an id from the mirror; nodes already mirrored
// in a prior pass keep their id, so incremental re-snapshots do not churn
// identity. Returns nil for nodes elided by slim-DOM policy.
//
// One invocation must be treated as atomic with respect to the mirror it
// uses: callbacks (masking functions) must not mutate the mirrors.
func SerializeNodeWithID(n *dom.Node, opts *Options) *Node {
	if n == nil {
		return nil
	}
	if opts == nil {
		opts = &Options{}
	}
	if opts.Mirror == nil {
		opts.Mirror = NewMirror()
	}
	if opts.SlimDOM.excluded(n) {
		return nil
	}

	id := opts.Mirror.Add(n)

	switch n.Type {
	case dom.DocumentNode:
		sn := &Node{Kind: Document, ID: id, CompatMode: n.CompatMode}
		sn.Children = serializeChildren(n, opts)
		return sn

	case dom.ShadowRootNode:
		sn := &Node{Kind: Document, ID: id, IsShadowRoot: true}
		sn.Children = serializeChildren(n, opts)
		return sn

	case dom.DoctypeNode:
		return &Node{Kind: DocumentType, ID: id,
			Name: n.Name, PublicID: n.PublicID, SystemID: n.SystemID}

	case dom.TextNode:
		return serializeText(n, id, opts)

	case dom.CommentNode:
		return &Node{Kind: Comment, ID: id, Text: n.Data}

	case dom.CDATANode:
		return &Node{Kind: CDATA, ID: id, Text: n.Data}

	case dom.ElementNode:
		return serializeElement(n, id, opts)
	}
	return nil
}

func serializeChildren(n *dom.Node, opts *Options) []*Node {
	if opts.SkipChild {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if sc := SerializeNodeWithID(c, opts); sc != nil {
			out = append(out, sc)
		}
	}
	return out
}

func serializeText(n *dom.Node, id int, opts *Options) *Node {
	text := n.Data
	if opts.Policy.NeedsTextMask(n) {
		text = opts.Policy.MaskText(text)
	}
	return &Node{Kind: Text, ID: id, Text: text}
}

func serializeElement(n *dom.Node, id int, opts *Options) *Node {
	sn := &Node{Kind: Element, ID: id, Tag: n.Tag, Attrs: n.AttrMap()}
	if sn.Attrs == nil {
		sn.Attrs = map[string]string{}
	}

	blocked := opts.Policy.Blocked(n)
	hidden := opts.Policy.Hidden(n)

	switch {
	case blocked && hidden:
		// Zero-visibility placeholder: attributes preserved, no
		// dimensions, no children.
		sn.Attrs[AttrDisplay] = "none"
		return sn

	case blocked:
		// Dimension placeholder from live layout measurement.
		if n.Layout != nil {
			sn.Attrs[AttrWidth] = px(n.Layout.Width)
			sn.Attrs[AttrHeight] = px(n.Layout.Height)
		}
		return sn
	}

	// Live scroll offsets.
	if n.ScrollTop != 0 {
		sn.Attrs[AttrScrollTop] = formatNum(n.ScrollTop)
	}
	if n.ScrollLeft != 0 {
		sn.Attrs[AttrScrollLeft] = formatNum(n.ScrollLeft)
	}

	// Form controls: live value/checked state wins over markup defaults,
	// and the child list is always empty (textual content is redundant
	// with the captured value).
	if formControls[n.Tag] {
		serializeFormControl(n, sn, opts)
		appendShadow(n, sn, opts)
		return sn
	}
	if n.Tag == "option" && n.Selected {
		sn.Attrs["selected"] = "true"
	}

	// <style> bodies are reconstructed from the live CSSOM.
	if n.Tag == "style" && opts.InlineStylesheet && n.Sheet != nil {
		css := reconstructStyleText(n, opts)
		if opts.Styles != nil {
			opts.Styles.Add(n.Sheet)
		}
		if tc := firstTextChild(n); tc != nil {
			sn.Children = []*Node{{Kind: Text, ID: opts.Mirror.Add(tc), Text: css}}
		} else if css != "" {
			// No text child to anchor the reconstruction on: a sheet
			// built entirely through the CSSOM. Carried as an attribute
			// the player already knows.
			sn.Attrs["_cssText"] = css
		}
		appendShadow(n, sn, opts)
		return sn
	}

	// Linked stylesheets: register the sheet so incremental records can
	// reference it by id.
	if n.Tag == "link" && n.Sheet != nil && opts.Styles != nil {
		opts.Styles.Add(n.Sheet)
	}

	sn.Children = serializeChildren(n, opts)
	appendShadow(n, sn, opts)
	return sn
}

// appendShadow serializes an attached shadow root as an additional
// synthetic child. Independent of SkipChild: shadow content is its own
// configuration knob.
func appendShadow(n *dom.Node, sn *Node, opts *Options) {
	if n.ShadowRoot == nil || !opts.SerializeShadow {
		return
	}
	if sr := SerializeNodeWithID(n.ShadowRoot, opts); sr != nil {
		sn.Children = append(sn.Children, sr)
	}
}

func serializeFormControl(n *dom.Node, sn *Node, opts *Options) {
	value := n.Value
	if !n.ValueSet {
		// Markup-declared default, if any.
		value, _ = n.Attr("value")
	}
	if value != "" {
		sn.Attrs["value"] = opts.Policy.MaskInput(n.Tag, value)
	}
	if n.Checked {
		sn.Attrs["checked"] = "true"
	}
	sn.Children = nil
}

// firstTextChild anchors the reconstructed text child's mirror id on the
// style element's own first text node, keeping the id stable across
// re-snapshots.
func firstTextChild(style *dom.Node) *dom.Node {
	for _, c := range style.Children {
		if c.Type == dom.TextNode {
			return c
		}
	}
	return nil
}

// reconstructStyleText rebuilds the effective stylesheet text of a
// <style> element. The CSSOM rule list is authoritative for everything
// the sheet has parsed (source text diverges once rules are inserted or
// deleted programmatically); text-node children appended after the sheet
// was created are not in the rule list and are carried verbatim after the
// split marker so a downstream parser can tell the two provenances apart.
func reconstructStyleText(style *dom.Node, opts *Options) string {
	css := SheetText(style.Sheet, opts.BaseURL)

	literals := textChildren(style)
	if len(literals) > 1 {
		tail := ""
		for _, t := range literals[1:] {
			tail += t
		}
		css += CSSSplitMarker + tail
	}
	return css
}

// SheetText returns the normalized text of a whole stylesheet: every rule
// run through the normalization pipeline and concatenated in rule-list
// order. Relative URLs resolve against the sheet's own href, falling back
// to base for inline sheets.
func SheetText(sheet *cssom.StyleSheet, base string) string {
	if sheet.Href != "" {
		base = sheet.Href
	}
	var css string
	for _, r := range sheet.Rules {
		css += normalizeRuleText(r, base)
	}
	return css
}

// normalizeRuleText runs one rule through the normalization pipeline:
// grid-template repair and colon escaping on the textual body, import
// rebuild from structured fields, URL absolutization last.
func normalizeRuleText(r *cssom.Rule, base string) string {
	var text string
	switch {
	case r.Type == cssom.ImportRule:
		text = r.ImportText()
	case r.Type == cssom.StyleRule:
		text = cssom.FixGridTemplate(r, r.Computed)
		text = cssom.EscapeColonsInBrackets(text)
	default:
		text = r.CSSText()
	}
	if base != "" {
		text = cssom.AbsolutifyURLs(text, base)
	}
	return text
}

func textChildren(n *dom.Node) []string {
	var out []string
	for _, c := range n.Children {
		if c.Type == dom.TextNode {
			out = append(out, c.Data)
		}
	}
	return out
}

func px(v float64) string {
	return formatNum(v) + "px"
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
