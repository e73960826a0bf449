// CLAUDE:SUMMARY Redaction policy (block/hide/mask) with YAML loading and match helpers.
package snapshot

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/domsnap/dom"
)

// Policy is the redaction configuration applied during serialization.
//
// Precedence: an element matching both block and hide criteria serializes
// as a zero-visibility placeholder; block alone as a dimension
// placeholder; hide alone is not redacted at all.
type Policy struct {
	BlockClass    string `yaml:"block_class"`
	BlockSelector string `yaml:"block_selector"`
	HideSelector  string `yaml:"hide_selector"`

	MaskTextClass    string `yaml:"mask_text_class"`
	MaskTextSelector string `yaml:"mask_text_selector"`

	// MaskTextFn replaces matched text content. Nil means the default
	// mask (every non-space rune becomes '*').
	MaskTextFn func(string) string `yaml:"-"`

	// MaskInputFn replaces captured form values. Nil means values pass
	// through unmasked.
	MaskInputFn func(tag, value string) string `yaml:"-"`
}

// LoadPolicyFile reads a redaction policy from a YAML file.
func LoadPolicyFile(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: read policy: %w", err)
	}
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("snapshot: parse policy: %w", err)
	}
	return &p, nil
}

// Blocked reports whether the element matches the block class or selector.
func (p *Policy) Blocked(n *dom.Node) bool {
	if p == nil || n.Type != dom.ElementNode {
		return false
	}
	if p.BlockClass != "" && dom.HasClass(n, p.BlockClass) {
		return true
	}
	return p.BlockSelector != "" && dom.Matches(n, p.BlockSelector)
}

// Hidden reports whether the element matches the hide selector. Hidden
// only changes the outcome for elements that are also blocked.
func (p *Policy) Hidden(n *dom.Node) bool {
	if p == nil || n.Type != dom.ElementNode {
		return false
	}
	return p.HideSelector != "" && dom.Matches(n, p.HideSelector)
}

// NeedsTextMask reports whether a text node's content must be masked:
// true when any ancestor element matches the mask class or selector.
func (p *Policy) NeedsTextMask(text *dom.Node) bool {
	if p == nil || (p.MaskTextClass == "" && p.MaskTextSelector == "") {
		return false
	}
	for n := text.Parent; n != nil; n = n.Parent {
		if n.Type != dom.ElementNode {
			continue
		}
		if p.MaskTextClass != "" && dom.HasClass(n, p.MaskTextClass) {
			return true
		}
		if p.MaskTextSelector != "" && dom.Matches(n, p.MaskTextSelector) {
			return true
		}
	}
	return false
}

// MaskText applies the configured text mask.
func (p *Policy) MaskText(s string) string {
	if p != nil && p.MaskTextFn != nil {
		return p.MaskTextFn(s)
	}
	return defaultMask(s)
}

// MaskInput applies the configured input-value mask, if any.
func (p *Policy) MaskInput(tag, value string) string {
	if p != nil && p.MaskInputFn != nil {
		return p.MaskInputFn(tag, value)
	}
	return value
}

func defaultMask(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		return '*'
	}, s)
}

// SlimDOM elides categories of nodes that carry no replay value. Elision
// removes the node entirely (no placeholder, no mirror id).
type SlimDOM struct {
	Script               bool `yaml:"script"`
	Comment              bool `yaml:"comment"`
	HeadFavicon          bool `yaml:"head_favicon"`
	HeadMetaDescKeywords bool `yaml:"head_meta_desc_keywords"`
	HeadMetaSocial       bool `yaml:"head_meta_social"`
	HeadMetaRobots       bool `yaml:"head_meta_robots"`
}

// excluded reports whether slimming elides this node.
func (s SlimDOM) excluded(n *dom.Node) bool {
	switch n.Type {
	case dom.CommentNode:
		return s.Comment
	case dom.ElementNode:
		// handled below
	default:
		return false
	}

	switch n.Tag {
	case "script", "noscript":
		return s.Script
	case "link":
		if !s.HeadFavicon {
			return false
		}
		rel, _ := n.Attr("rel")
		switch strings.ToLower(rel) {
		case "icon", "shortcut icon", "apple-touch-icon":
			return true
		}
	case "meta":
		name, _ := n.Attr("name")
		name = strings.ToLower(name)
		if s.HeadMetaDescKeywords && (name == "description" || name == "keywords") {
			return true
		}
		if s.HeadMetaRobots && (name == "robots" || name == "googlebot" || name == "bingbot") {
			return true
		}
		if s.HeadMetaSocial {
			prop, _ := n.Attr("property")
			prop = strings.ToLower(prop)
			if strings.HasPrefix(prop, "og:") || strings.HasPrefix(prop, "twitter:") ||
				strings.HasPrefix(name, "twitter:") {
				return true
			}
		}
	}
	return false
}
