package snapshot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hazyhaar/domsnap/cssom"
	"github.com/hazyhaar/domsnap/dom"
)

func el(tag string, attrs ...string) *dom.Node {
	n := &dom.Node{Type: dom.ElementNode, Tag: tag}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attrs = append(n.Attrs, dom.Attr{Name: attrs[i], Value: attrs[i+1]})
	}
	return n
}

func text(s string) *dom.Node {
	return &dom.Node{Type: dom.TextNode, Data: s}
}

func TestSerializeBasicTree(t *testing.T) {
	doc := &dom.Node{Type: dom.DocumentNode, CompatMode: "CSS1Compat"}
	doc.AppendChild(&dom.Node{Type: dom.DoctypeNode, Name: "html"})
	htmlEl := el("html")
	body := el("body")
	div := el("div", "class", "main")
	div.AppendChild(text("hello"))
	doc.AppendChild(htmlEl)
	htmlEl.AppendChild(body)
	body.AppendChild(div)

	m := NewMirror()
	sn := SerializeNodeWithID(doc, &Options{Mirror: m})
	if sn == nil {
		t.Fatal("nil snapshot")
	}
	if sn.Kind != Document || sn.CompatMode != "CSS1Compat" {
		t.Errorf("document node: got %+v", sn)
	}
	if sn.ID != 1 {
		t.Errorf("document id: got %d, want 1", sn.ID)
	}
	if len(sn.Children) != 2 {
		t.Fatalf("document children: got %d, want 2", len(sn.Children))
	}
	if sn.Children[0].Kind != DocumentType || sn.Children[0].Name != "html" {
		t.Errorf("doctype: got %+v", sn.Children[0])
	}

	// Ids follow visit order and are reused on re-serialization.
	reserialized := SerializeNodeWithID(doc, &Options{Mirror: m})
	if reserialized.ID != sn.ID {
		t.Error("re-serialization churned the document id")
	}
	if reserialized.Children[1].ID != sn.Children[1].ID {
		t.Error("re-serialization churned element ids")
	}
}

func TestSerializeRedactionPrecedence(t *testing.T) {
	policy := &Policy{
		BlockClass:   "rr-block",
		HideSelector: ".rr-hide",
	}

	both := el("div", "class", "rr-block rr-hide")
	both.Layout = &dom.Box{Width: 100, Height: 50}
	both.AppendChild(text("secret"))

	blockOnly := el("div", "class", "rr-block")
	blockOnly.Layout = &dom.Box{Width: 100, Height: 50}
	blockOnly.AppendChild(text("secret"))

	hideOnly := el("div", "class", "rr-hide")
	hideOnly.AppendChild(text("visible"))

	opts := func() *Options { return &Options{Mirror: NewMirror(), Policy: policy} }

	// Block and hide together: zero-visibility placeholder.
	sn := SerializeNodeWithID(both, opts())
	if sn.Attrs[AttrDisplay] != "none" {
		t.Errorf("hide+block: rr_display got %q, want none", sn.Attrs[AttrDisplay])
	}
	if _, ok := sn.Attrs[AttrWidth]; ok {
		t.Error("hide+block: rr_width must be absent")
	}
	if _, ok := sn.Attrs[AttrHeight]; ok {
		t.Error("hide+block: rr_height must be absent")
	}
	if len(sn.Children) != 0 {
		t.Error("hide+block: children must be empty")
	}
	if sn.Attrs["class"] != "rr-block rr-hide" {
		t.Error("hide+block: attributes must be preserved")
	}

	// Block only: dimension placeholder.
	sn = SerializeNodeWithID(blockOnly, opts())
	if sn.Attrs[AttrWidth] != "100px" || sn.Attrs[AttrHeight] != "50px" {
		t.Errorf("block: dims got %q/%q, want 100px/50px",
			sn.Attrs[AttrWidth], sn.Attrs[AttrHeight])
	}
	if _, ok := sn.Attrs[AttrDisplay]; ok {
		t.Error("block: rr_display must be absent")
	}
	if len(sn.Children) != 0 {
		t.Error("block: children must be empty")
	}

	// Hide only: no redaction at all.
	sn = SerializeNodeWithID(hideOnly, opts())
	if _, ok := sn.Attrs[AttrDisplay]; ok {
		t.Error("hide only: rr_display must be absent")
	}
	if _, ok := sn.Attrs[AttrWidth]; ok {
		t.Error("hide only: rr_width must be absent")
	}
	if len(sn.Children) != 1 || sn.Children[0].Text != "visible" {
		t.Error("hide only: children must serialize normally")
	}
}

func TestSerializeFormControls(t *testing.T) {
	input := el("input", "type", "text", "value", "default")
	input.Value = "typed by user"
	input.ValueSet = true

	sn := SerializeNodeWithID(input, &Options{Mirror: NewMirror()})
	if sn.Attrs["value"] != "typed by user" {
		t.Errorf("live value: got %q, want typed by user", sn.Attrs["value"])
	}
	if len(sn.Children) != 0 {
		t.Error("input children: want empty")
	}

	checkbox := el("input", "type", "checkbox")
	checkbox.Checked = true
	sn = SerializeNodeWithID(checkbox, &Options{Mirror: NewMirror()})
	if sn.Attrs["checked"] != "true" {
		t.Errorf("checked: got %q, want true", sn.Attrs["checked"])
	}

	// Textarea text content is redundant with the captured value and
	// must not also appear as a child.
	ta := el("textarea")
	ta.AppendChild(text("initial content"))
	ta.Value = "edited content"
	ta.ValueSet = true
	sn = SerializeNodeWithID(ta, &Options{Mirror: NewMirror()})
	if sn.Attrs["value"] != "edited content" {
		t.Errorf("textarea value: got %q", sn.Attrs["value"])
	}
	if len(sn.Children) != 0 {
		t.Error("textarea children: want empty")
	}

	sel := el("select")
	opt := el("option", "value", "b")
	opt.Selected = true
	sel.AppendChild(opt)
	sel.Value = "b"
	sel.ValueSet = true
	sn = SerializeNodeWithID(sel, &Options{Mirror: NewMirror()})
	if sn.Attrs["value"] != "b" {
		t.Errorf("select value: got %q", sn.Attrs["value"])
	}
	if len(sn.Children) != 0 {
		t.Error("select children: want empty")
	}
}

func TestSerializeMaskInput(t *testing.T) {
	policy := &Policy{
		MaskInputFn: func(tag, value string) string { return strings.Repeat("*", len(value)) },
	}
	input := el("input", "type", "password")
	input.Value = "hunter2"
	input.ValueSet = true

	sn := SerializeNodeWithID(input, &Options{Mirror: NewMirror(), Policy: policy})
	if sn.Attrs["value"] != "*******" {
		t.Errorf("masked value: got %q, want *******", sn.Attrs["value"])
	}
}

func TestSerializeMaskText(t *testing.T) {
	policy := &Policy{MaskTextClass: "pii"}
	div := el("div", "class", "pii")
	div.AppendChild(text("jane doe"))

	sn := SerializeNodeWithID(div, &Options{Mirror: NewMirror(), Policy: policy})
	if sn.Children[0].Text != "**** ***" {
		t.Errorf("masked text: got %q, want **** ***", sn.Children[0].Text)
	}

	// Custom mask function.
	policy.MaskTextFn = func(string) string { return "[redacted]" }
	sn = SerializeNodeWithID(div, &Options{Mirror: NewMirror(), Policy: policy})
	if sn.Children[0].Text != "[redacted]" {
		t.Errorf("custom mask: got %q", sn.Children[0].Text)
	}

	// Masking applies through ancestors.
	policy.MaskTextFn = nil
	wrapper := el("section", "class", "pii")
	inner := el("p")
	inner.AppendChild(text("abc"))
	wrapper.AppendChild(inner)
	sn = SerializeNodeWithID(wrapper, &Options{Mirror: NewMirror(), Policy: policy})
	if sn.Children[0].Children[0].Text != "***" {
		t.Errorf("ancestor mask: got %q", sn.Children[0].Children[0].Text)
	}
}

func TestSerializeScrollOffsets(t *testing.T) {
	div := el("div")
	div.ScrollTop = 120
	div.ScrollLeft = 4.5

	sn := SerializeNodeWithID(div, &Options{Mirror: NewMirror()})
	if sn.Attrs[AttrScrollTop] != "120" {
		t.Errorf("rr_scrollTop: got %q, want 120", sn.Attrs[AttrScrollTop])
	}
	if sn.Attrs[AttrScrollLeft] != "4.5" {
		t.Errorf("rr_scrollLeft: got %q, want 4.5", sn.Attrs[AttrScrollLeft])
	}

	plain := el("div")
	sn = SerializeNodeWithID(plain, &Options{Mirror: NewMirror()})
	if _, ok := sn.Attrs[AttrScrollTop]; ok {
		t.Error("zero scroll must not synthesize rr_scrollTop")
	}
}

func TestSerializeStyleReconstruction(t *testing.T) {
	// A <style> with one literal rule, two CSSOM insertions, and a text
	// node appended after the first insertion. The CSSOM rule list holds
	// the parsed literal plus the inserted rules in rule-list order; the
	// appended text node is not in the CSSOM and follows the marker.
	style := el("style")
	style.AppendChild(text(".a { color: red; }"))
	style.AppendChild(text(".c { color: green; }")) // appended later, never parsed
	style.Sheet = &cssom.StyleSheet{Rules: []*cssom.Rule{
		{Type: cssom.StyleRule, Text: ".b2 { color: yellow; }"}, // insertRule at 0
		{Type: cssom.StyleRule, Text: ".a { color: red; }"},
		{Type: cssom.StyleRule, Text: ".b1 { color: blue; }"}, // insertRule at end
	}}

	m := NewMirror()
	styles := NewStyleMirror()
	sn := SerializeNodeWithID(style, &Options{
		Mirror: m, Styles: styles, InlineStylesheet: true,
	})

	want := ".b2 { color: yellow; }.a { color: red; }.b1 { color: blue; }" +
		CSSSplitMarker + ".c { color: green; }"
	if len(sn.Children) != 1 {
		t.Fatalf("style children: got %d, want 1", len(sn.Children))
	}
	if got := sn.Children[0].Text; got != want {
		t.Errorf("reconstructed css:\n got  %s\n want %s", got, want)
	}
	if !styles.Has(style.Sheet) {
		t.Error("stylesheet not registered in mirror")
	}

	// The text child's id is anchored on the first literal text node and
	// stays stable across passes.
	id := sn.Children[0].ID
	again := SerializeNodeWithID(style, &Options{
		Mirror: m, Styles: styles, InlineStylesheet: true,
	})
	if again.Children[0].ID != id {
		t.Error("style text child id churned across passes")
	}
}

func TestSerializeStyleNormalization(t *testing.T) {
	named := "base"
	style := el("style")
	style.AppendChild(text("ignored"))
	style.Sheet = &cssom.StyleSheet{Rules: []*cssom.Rule{
		{Type: cssom.ImportRule, Href: "theme.css", Layer: &named},
		{Type: cssom.StyleRule, Selector: "div",
			Text: `div { background: url(img/bg.png); }`,
			Decls: []cssom.Decl{{Prop: "background", Value: "url(img/bg.png)"}}},
	}}

	sn := SerializeNodeWithID(style, &Options{
		Mirror:           NewMirror(),
		InlineStylesheet: true,
		BaseURL:          "http://localhost/css/style.css",
	})
	got := sn.Children[0].Text
	if !strings.Contains(got, `@import url("http://localhost/css/theme.css") layer(base);`) {
		t.Errorf("import rebuild/absolutize: got %s", got)
	}
	if !strings.Contains(got, "url(http://localhost/css/img/bg.png)") {
		t.Errorf("url absolutize: got %s", got)
	}
}

func TestSerializeStyleNoTextChildren(t *testing.T) {
	style := el("style")
	style.Sheet = &cssom.StyleSheet{Rules: []*cssom.Rule{
		{Type: cssom.StyleRule, Text: ".x { color: red; }"},
	}}
	sn := SerializeNodeWithID(style, &Options{Mirror: NewMirror(), InlineStylesheet: true})
	if len(sn.Children) != 0 {
		t.Fatalf("children: got %d, want 0", len(sn.Children))
	}
	if sn.Attrs["_cssText"] != ".x { color: red; }" {
		t.Errorf("_cssText: got %q", sn.Attrs["_cssText"])
	}
}

func TestSerializeShadowRoot(t *testing.T) {
	host := el("x-widget")
	host.AppendChild(text("light"))
	sr := host.AttachShadow()
	sr.AppendChild(el("span"))

	// Shadow serialization off: no synthetic child.
	sn := SerializeNodeWithID(host, &Options{Mirror: NewMirror()})
	if len(sn.Children) != 1 {
		t.Fatalf("children without shadow: got %d, want 1", len(sn.Children))
	}

	// Shadow on: the root appears as an additional child.
	sn = SerializeNodeWithID(host, &Options{Mirror: NewMirror(), SerializeShadow: true})
	if len(sn.Children) != 2 {
		t.Fatalf("children with shadow: got %d, want 2", len(sn.Children))
	}
	shadow := sn.Children[1]
	if !shadow.IsShadowRoot || shadow.Kind != Document {
		t.Errorf("shadow child: got %+v", shadow)
	}
	if len(shadow.Children) != 1 || shadow.Children[0].Tag != "span" {
		t.Error("shadow content not serialized")
	}

	// SkipChild suppresses light-DOM children but not the shadow root.
	sn = SerializeNodeWithID(host, &Options{
		Mirror: NewMirror(), SerializeShadow: true, SkipChild: true,
	})
	if len(sn.Children) != 1 || !sn.Children[0].IsShadowRoot {
		t.Error("SkipChild must not suppress the shadow root")
	}
}

func TestSerializeSlimDOM(t *testing.T) {
	head := el("head")
	head.AppendChild(el("script", "src", "app.js"))
	head.AppendChild(el("meta", "name", "description", "content", "x"))
	head.AppendChild(el("meta", "property", "og:title", "content", "x"))
	head.AppendChild(el("link", "rel", "icon", "href", "favicon.ico"))
	head.AppendChild(el("meta", "charset", "utf-8"))
	head.AppendChild(&dom.Node{Type: dom.CommentNode, Data: "build 42"})

	sn := SerializeNodeWithID(head, &Options{
		Mirror: NewMirror(),
		SlimDOM: SlimDOM{
			Script: true, Comment: true, HeadFavicon: true,
			HeadMetaDescKeywords: true, HeadMetaSocial: true,
		},
	})
	if len(sn.Children) != 1 {
		t.Fatalf("slimmed children: got %d, want 1", len(sn.Children))
	}
	if got, _ := sn.Children[0].Attrs["charset"]; got != "utf-8" {
		t.Errorf("survivor: got %+v", sn.Children[0])
	}

	// Slimming off: everything serializes.
	sn = SerializeNodeWithID(head, &Options{Mirror: NewMirror()})
	if len(sn.Children) != 6 {
		t.Errorf("unslimmed children: got %d, want 6", len(sn.Children))
	}
}

func TestLoadPolicyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	data := []byte("block_class: rr-block\nhide_selector: \".rr-hide\"\nmask_text_selector: \".pii\"\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadPolicyFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if p.BlockClass != "rr-block" {
		t.Errorf("BlockClass: got %q", p.BlockClass)
	}
	if p.HideSelector != ".rr-hide" {
		t.Errorf("HideSelector: got %q", p.HideSelector)
	}
	if p.MaskTextSelector != ".pii" {
		t.Errorf("MaskTextSelector: got %q", p.MaskTextSelector)
	}

	if _, err := LoadPolicyFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing file: want error")
	}
}
