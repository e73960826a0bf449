// Package snapshot turns dom trees into a portable, replayable node graph
// and keeps the identity mirrors that let later mutation records reference
// existing nodes and stylesheets by stable integer id.
//
// The serialized shape and the synthetic attribute names are wire
// contract: a downstream player reconstructs live state from them.
package snapshot

// NodeKind tags the serialized node variant. The numeric values are part
// of the wire format.
type NodeKind int

const (
	Document NodeKind = iota
	DocumentType
	Element
	Text
	CDATA
	Comment
)

// Synthetic attributes injected by the serializer to carry live state
// that is not derivable from markup. Exact names are wire contract.
const (
	AttrScrollTop  = "rr_scrollTop"
	AttrScrollLeft = "rr_scrollLeft"
	AttrWidth      = "rr_width"
	AttrHeight     = "rr_height"
	AttrDisplay    = "rr_display"
)

// CSSSplitMarker separates CSSOM-derived stylesheet text from literal
// text-node segments in a reconstructed <style> body. Wire contract.
const CSSSplitMarker = "/* rr_split */"

// Node is one serialized document node. Which fields are meaningful
// depends on Kind.
type Node struct {
	Kind NodeKind `json:"type"`
	ID   int      `json:"id"`

	// Element fields.
	Tag      string            `json:"tagName,omitempty"`
	Attrs    map[string]string `json:"attributes,omitempty"`
	Children []*Node           `json:"childNodes,omitempty"`

	// Text / Comment / CDATA content.
	Text string `json:"textContent,omitempty"`

	// DocumentType fields.
	Name     string `json:"name,omitempty"`
	PublicID string `json:"publicId,omitempty"`
	SystemID string `json:"systemId,omitempty"`

	// Document fields.
	CompatMode string `json:"compatMode,omitempty"`

	// IsShadowRoot marks the synthetic child that represents an
	// element's shadow root.
	IsShadowRoot bool `json:"isShadow,omitempty"`
}
