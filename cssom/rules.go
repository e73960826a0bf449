// Package cssom models captured CSS stylesheets and rules as a tagged
// variant, and provides the text-normalization pipeline that repairs
// browser-specific serialization quirks before replay.
//
// The model mirrors what the capture layer can read out of a live CSSOM:
// each rule carries its serialized text plus the structured fields needed
// to rebuild that text when the browser's own serialization is known to
// be wrong.
package cssom

import "strings"

// RuleType tags the variant carried by a Rule.
type RuleType int

const (
	StyleRule RuleType = iota
	MediaRule
	SupportsRule
	ImportRule
	LayerBlockRule
	LayerStatementRule
	ContainerRule
	FontFaceRule
	KeyframesRule
	NamespaceRule
)

// Decl is one declaration inside a style rule's block, in serialized order.
type Decl struct {
	Prop      string
	Value     string
	Important bool
}

// Rule is one CSS rule. Which fields are meaningful depends on Type.
type Rule struct {
	Type RuleType

	// Text is the rule as the browser serialized it. May carry quirks;
	// the normalizer works from the structured fields where Text cannot
	// be trusted.
	Text string

	// Style rule fields.
	Selector string
	Decls    []Decl

	// Nested rules, for grouping types.
	Rules []*Rule

	// Condition text for media/supports/container blocks.
	Condition string

	// Import rule fields.
	Href     string
	Media    []string
	Layer    *string // nil: none, "": anonymous layer, else layer(name)
	Supports string

	// Name for keyframes and layer statements.
	Name string

	// Computed holds live computed values for properties of interest,
	// captured alongside the rule. The grid-template repair compares the
	// serialized declarations against these.
	Computed map[string]string
}

// Grouping reports whether the rule carries an ordered nested rule list.
// This is the only capability nested-path resolution requires.
func (r *Rule) Grouping() bool {
	switch r.Type {
	case MediaRule, SupportsRule, LayerBlockRule, ContainerRule:
		return true
	}
	return false
}

// CSSText returns the rule's textual form. Import rules are always rebuilt
// from structured fields (their captured text is unreliable, see
// ImportText); other rules fall back to building from fields only when
// the captured text is empty.
func (r *Rule) CSSText() string {
	if r.Type == ImportRule {
		return r.ImportText()
	}
	if r.Text != "" {
		return r.Text
	}
	return r.buildText()
}

func (r *Rule) buildText() string {
	var b strings.Builder
	switch r.Type {
	case StyleRule:
		b.WriteString(r.Selector)
		b.WriteString(" { ")
		writeDecls(&b, r.Decls)
		b.WriteString("}")
	case MediaRule:
		writeGroup(&b, "@media "+r.Condition, r.Rules)
	case SupportsRule:
		writeGroup(&b, "@supports "+r.Condition, r.Rules)
	case ContainerRule:
		writeGroup(&b, "@container "+r.Condition, r.Rules)
	case LayerBlockRule:
		head := "@layer"
		if r.Name != "" {
			head += " " + r.Name
		}
		writeGroup(&b, head, r.Rules)
	case LayerStatementRule:
		b.WriteString("@layer " + r.Name + ";")
	}
	return b.String()
}

func writeDecls(b *strings.Builder, decls []Decl) {
	for _, d := range decls {
		b.WriteString(d.Prop)
		b.WriteString(": ")
		b.WriteString(d.Value)
		if d.Important {
			b.WriteString(" !important")
		}
		b.WriteString("; ")
	}
}

func writeGroup(b *strings.Builder, head string, rules []*Rule) {
	b.WriteString(head)
	b.WriteString(" { ")
	for _, r := range rules {
		b.WriteString(r.CSSText())
		b.WriteString(" ")
	}
	b.WriteString("}")
}

// StyleSheet is a captured stylesheet: ordered rules plus source identity.
type StyleSheet struct {
	Href     string
	Media    []string
	Disabled bool
	Rules    []*Rule
}

// Text concatenates every rule's text in rule-list order.
func (s *StyleSheet) Text() string {
	var b strings.Builder
	for _, r := range s.Rules {
		b.WriteString(r.CSSText())
	}
	return b.String()
}
