package capture

import (
	"testing"

	"github.com/hazyhaar/domsnap/cssom"
	"github.com/hazyhaar/domsnap/dom"
)

func TestDecodeTreeDocument(t *testing.T) {
	data := []byte(`{
		"type": "document",
		"compatMode": "CSS1Compat",
		"children": [
			{"type": "doctype", "name": "html"},
			{"type": "element", "tag": "html", "children": [
				{"type": "element", "tag": "body",
				 "attrs": [{"name": "class", "value": "dark"}],
				 "scrollTop": 120, "scrollLeft": 4,
				 "children": [
					{"type": "text", "data": "hello"},
					{"type": "comment", "data": "note"}
				 ]}
			]}
		]
	}`)

	root, err := decodeTree(data)
	if err != nil {
		t.Fatalf("decodeTree: %v", err)
	}
	if root.Type != dom.DocumentNode {
		t.Fatalf("root type: got %v, want document", root.Type)
	}
	if root.CompatMode != "CSS1Compat" {
		t.Errorf("compat mode: got %q, want CSS1Compat", root.CompatMode)
	}
	if len(root.Children) != 2 {
		t.Fatalf("document children: got %d, want 2", len(root.Children))
	}
	dt := root.Children[0]
	if dt.Type != dom.DoctypeNode || dt.Name != "html" {
		t.Errorf("doctype: got type=%v name=%q", dt.Type, dt.Name)
	}
	body := root.Children[1].Children[0]
	if body.Tag != "body" {
		t.Fatalf("body tag: got %q", body.Tag)
	}
	if got, ok := body.Attr("class"); !ok || got != "dark" {
		t.Errorf("body class: got %q (set=%v), want dark", got, ok)
	}
	if body.ScrollTop != 120 || body.ScrollLeft != 4 {
		t.Errorf("scroll: got (%v, %v), want (120, 4)", body.ScrollTop, body.ScrollLeft)
	}
	if body.Children[0].Data != "hello" {
		t.Errorf("text data: got %q", body.Children[0].Data)
	}
	if body.Children[1].Type != dom.CommentNode {
		t.Errorf("comment type: got %v", body.Children[1].Type)
	}
	if body.Parent == nil || body.Children[0].Parent != body {
		t.Error("parent links not set")
	}
}

func TestDecodeTreeFormState(t *testing.T) {
	data := []byte(`{
		"type": "element", "tag": "input",
		"attrs": [{"name": "type", "value": "checkbox"}],
		"valueSet": true, "checked": true,
		"width": 16, "height": 16
	}`)

	n, err := decodeTree(data)
	if err != nil {
		t.Fatalf("decodeTree: %v", err)
	}
	if !n.ValueSet || !n.Checked {
		t.Errorf("form state: valueSet=%v checked=%v", n.ValueSet, n.Checked)
	}
	if n.Layout == nil || n.Layout.Width != 16 || n.Layout.Height != 16 {
		t.Errorf("layout: got %+v, want 16x16", n.Layout)
	}
}

func TestDecodeTreeShadow(t *testing.T) {
	data := []byte(`{
		"type": "element", "tag": "my-widget",
		"shadow": {"type": "shadow", "children": [
			{"type": "element", "tag": "span", "children": [
				{"type": "text", "data": "inside"}
			]}
		]}
	}`)

	host, err := decodeTree(data)
	if err != nil {
		t.Fatalf("decodeTree: %v", err)
	}
	if host.ShadowRoot == nil {
		t.Fatal("shadow root missing")
	}
	if h, ok := host.ShadowRoot.Host.(*dom.Node); !ok || h != host {
		t.Error("shadow host not wired back to the element")
	}
	span := host.ShadowRoot.Children[0]
	if span.Tag != "span" || span.Children[0].Data != "inside" {
		t.Errorf("shadow content: tag=%q data=%q", span.Tag, span.Children[0].Data)
	}
}

func TestDecodeTreeSheet(t *testing.T) {
	data := []byte(`{
		"type": "element", "tag": "style",
		"sheet": {"rules": [
			{"kind": "import", "href": "base.css", "media": ["screen"]},
			{"kind": "media", "condition": "(min-width: 600px)", "rules": [
				{"kind": "style", "selector": ".a", "text": ".a { color: red; }",
				 "decls": [{"prop": "color", "value": "red"}]}
			]},
			{"kind": "wobble", "text": "@wobble {}"}
		]},
		"children": [{"type": "text", "data": "@import url(base.css);"}]
	}`)

	n, err := decodeTree(data)
	if err != nil {
		t.Fatalf("decodeTree: %v", err)
	}
	if n.Sheet == nil {
		t.Fatal("sheet missing")
	}
	rules := n.Sheet.Rules
	if len(rules) != 3 {
		t.Fatalf("rules: got %d, want 3", len(rules))
	}
	if rules[0].Type != cssom.ImportRule || rules[0].Href != "base.css" {
		t.Errorf("import rule: type=%v href=%q", rules[0].Type, rules[0].Href)
	}
	media := rules[1]
	if media.Type != cssom.MediaRule || media.Condition != "(min-width: 600px)" {
		t.Errorf("media rule: type=%v cond=%q", media.Type, media.Condition)
	}
	inner := media.Rules[0]
	if inner.Selector != ".a" || inner.Decls[0].Value != "red" {
		t.Errorf("inner rule: selector=%q decls=%+v", inner.Selector, inner.Decls)
	}
	// Unknown kinds stay replayable as opaque style rules.
	if rules[2].Type != cssom.StyleRule || rules[2].Text != "@wobble {}" {
		t.Errorf("unknown rule: type=%v text=%q", rules[2].Type, rules[2].Text)
	}
}

func TestDecodeTreeBadInput(t *testing.T) {
	if _, err := decodeTree([]byte(`{`)); err == nil {
		t.Error("malformed JSON: want error")
	}
	if _, err := decodeTree([]byte(`{"type": "martian"}`)); err == nil {
		t.Error("unknown root type: want error")
	}
}
