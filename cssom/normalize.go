// CLAUDE:SUMMARY CSS text normalization: URL absolutization, @import rebuild, colon escaping, grid-template reorder fix.
package cssom

import (
	"net/url"
	"regexp"
	"strings"
)

// urlTokenRe matches url(...) tokens in captured CSS text, capturing the
// quote style so it can be preserved. Quoted targets may contain
// whitespace or the other quote character (inline SVG data URIs do).
var urlTokenRe = regexp.MustCompile(`url\((?:'([^']*)'|"([^"]*)"|([^)]*))\)`)

// schemeRe recognizes targets that already carry a scheme (http:, data:,
// blob:, ...). Those pass through unchanged.
var schemeRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)

// AbsolutifyURLs rewrites relative url(...) targets in css against base
// (the stylesheet's own URL). Quoting style is preserved; data URLs,
// scheme-qualified URLs, and local fragment references are untouched.
func AbsolutifyURLs(css, base string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return css
	}
	return urlTokenRe.ReplaceAllStringFunc(css, func(tok string) string {
		m := urlTokenRe.FindStringSubmatch(tok)
		target, quote := m[3], ""
		switch {
		case m[1] != "":
			target, quote = m[1], "'"
		case m[2] != "":
			target, quote = m[2], `"`
		}
		if target == "" || strings.HasPrefix(target, "#") || schemeRe.MatchString(target) {
			return tok
		}
		ref, err := url.Parse(target)
		if err != nil {
			return tok
		}
		return "url(" + quote + baseURL.ResolveReference(ref).String() + quote + ")"
	})
}

// ImportText rebuilds an @import rule's textual form from its structured
// fields. The captured text is not trusted: browsers can emit an
// unescaped quote when the href itself contains one. Clause order after
// the url is fixed: layer, then supports, then the media list.
func (r *Rule) ImportText() string {
	var b strings.Builder
	b.WriteString(`@import url("`)
	b.WriteString(strings.ReplaceAll(r.Href, `"`, `\"`))
	b.WriteString(`")`)
	if r.Layer != nil {
		if *r.Layer == "" {
			b.WriteString(" layer")
		} else {
			b.WriteString(" layer(" + *r.Layer + ")")
		}
	}
	if r.Supports != "" {
		b.WriteString(" supports(" + r.Supports + ")")
	}
	if len(r.Media) > 0 {
		b.WriteString(" " + strings.Join(r.Media, ", "))
	}
	b.WriteString(";")
	return b.String()
}

// EscapeColonsInBrackets escapes a bare ':' appearing between '[' and ']'
// in a selector. One browser serializes attribute selectors like
// [data-foo:other] without the escape, which fails to re-parse on replay.
// Already-escaped colons are left untouched.
func EscapeColonsInBrackets(css string) string {
	var b strings.Builder
	b.Grow(len(css))
	depth := 0
	for i := 0; i < len(css); i++ {
		c := css[i]
		switch c {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case ':':
			if depth > 0 && (i == 0 || css[i-1] != '\\') {
				b.WriteString(`\:`)
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// gridTemplateProps are the longhands one browser interleaves incorrectly
// when the grid-template shorthand was used. Repair order is fixed.
var gridTemplateProps = []string{
	"grid-template-areas",
	"grid-template-rows",
	"grid-template-columns",
}

// FixGridTemplate repairs a style rule whose serialized declaration block
// misorders the grid-template-* longhands. Detection: a captured
// grid-template-* declaration disagrees with the live computed value.
// Repair: re-emit the block with those longhands removed from their
// serialized position and appended, in fixed order (areas, rows, columns),
// with values taken from computed style. Unaffected rules come back as
// their captured text.
func FixGridTemplate(r *Rule, computed map[string]string) string {
	if r.Type != StyleRule || !gridTemplateQuirk(r.Decls, computed) {
		return r.CSSText()
	}

	var b strings.Builder
	b.WriteString(r.Selector)
	b.WriteString(" { ")
	for _, d := range r.Decls {
		if isGridTemplateProp(d.Prop) {
			continue
		}
		b.WriteString(d.Prop)
		b.WriteString(": ")
		b.WriteString(d.Value)
		if d.Important {
			b.WriteString(" !important")
		}
		b.WriteString("; ")
	}
	for _, prop := range gridTemplateProps {
		v, ok := computed[prop]
		if !ok || v == "" {
			continue
		}
		b.WriteString(prop)
		b.WriteString(": ")
		b.WriteString(v)
		b.WriteString("; ")
	}
	b.WriteString("}")
	return b.String()
}

// gridTemplateQuirk reports whether the captured declarations disagree
// with the live computed values on any grid-template-* longhand.
func gridTemplateQuirk(decls []Decl, computed map[string]string) bool {
	for _, d := range decls {
		if !isGridTemplateProp(d.Prop) {
			continue
		}
		if v, ok := computed[d.Prop]; ok && v != d.Value {
			return true
		}
	}
	return false
}

func isGridTemplateProp(prop string) bool {
	for _, p := range gridTemplateProps {
		if p == prop {
			return true
		}
	}
	return false
}
