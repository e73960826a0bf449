// CLAUDE:SUMMARY Bidirectional id⇄node and id⇄stylesheet mirrors, one pair per recording session.
package snapshot

import (
	"sort"

	"github.com/hazyhaar/domsnap/cssom"
	"github.com/hazyhaar/domsnap/dom"
)

// NoID is returned by id lookups for entities that were never mirrored.
const NoID = -1

// Mirror is the bijective id⇄node table for one recording session.
// Ids are assigned monotonically from 1 and live until Reset; removing a
// node from the document does not invalidate its entry (removal is the
// mutation layer's business, not the mirror's).
//
// A mirror belongs to exactly one session and is not safe for concurrent
// use; document nodes are single-threaded resources to begin with.
type Mirror struct {
	ids   map[*dom.Node]int
	nodes map[int]*dom.Node
	next  int
}

// NewMirror creates an empty node mirror. The first Add assigns id 1.
func NewMirror() *Mirror {
	m := &Mirror{}
	m.Reset()
	return m
}

// Add assigns the next sequential id to an unseen node, or returns the
// existing id. Idempotent: the counter only advances for unseen nodes.
func (m *Mirror) Add(n *dom.Node) int {
	if id, ok := m.ids[n]; ok {
		return id
	}
	id := m.next
	m.next++
	m.ids[n] = id
	m.nodes[id] = n
	return id
}

// Has reports whether the node has been mirrored since the last Reset.
func (m *Mirror) Has(n *dom.Node) bool {
	_, ok := m.ids[n]
	return ok
}

// GetID returns the node's id, or NoID when unmirrored.
func (m *Mirror) GetID(n *dom.Node) int {
	if id, ok := m.ids[n]; ok {
		return id
	}
	return NoID
}

// GetNode returns the node mirrored under id, or nil when absent.
func (m *Mirror) GetNode(id int) *dom.Node {
	return m.nodes[id]
}

// Reset clears both directions atomically and restarts the counter at 1.
// A session boundary is exactly one Reset on both mirrors.
func (m *Mirror) Reset() {
	m.ids = make(map[*dom.Node]int)
	m.nodes = make(map[int]*dom.Node)
	m.next = 1
}

// StyleMirror is the id⇄stylesheet table. Separate id space from the node
// mirror, same lifecycle.
type StyleMirror struct {
	ids    map[*cssom.StyleSheet]int
	sheets map[int]*cssom.StyleSheet
	next   int
}

// NewStyleMirror creates an empty stylesheet mirror. The first Add
// assigns id 1.
func NewStyleMirror() *StyleMirror {
	m := &StyleMirror{}
	m.Reset()
	return m
}

// Add assigns the next sequential id to an unseen sheet, or returns the
// existing id.
func (m *StyleMirror) Add(s *cssom.StyleSheet) int {
	if id, ok := m.ids[s]; ok {
		return id
	}
	id := m.next
	m.next++
	m.put(s, id)
	return id
}

// AddWithID stores an unseen sheet under an explicit id. Used to
// rehydrate a mirror to match a previously emitted snapshot; the caller
// is responsible for not supplying colliding ids. Re-adding an
// already-mirrored sheet returns its existing id regardless of the
// explicit one.
func (m *StyleMirror) AddWithID(s *cssom.StyleSheet, id int) int {
	if existing, ok := m.ids[s]; ok {
		return existing
	}
	m.put(s, id)
	if id >= m.next {
		m.next = id + 1
	}
	return id
}

func (m *StyleMirror) put(s *cssom.StyleSheet, id int) {
	m.ids[s] = id
	m.sheets[id] = s
}

// Has reports whether the sheet has been mirrored since the last Reset.
func (m *StyleMirror) Has(s *cssom.StyleSheet) bool {
	_, ok := m.ids[s]
	return ok
}

// GetID returns the sheet's id, or NoID when unmirrored.
func (m *StyleMirror) GetID(s *cssom.StyleSheet) int {
	if id, ok := m.ids[s]; ok {
		return id
	}
	return NoID
}

// GetStyle returns the sheet mirrored under id, or nil when absent.
func (m *StyleMirror) GetStyle(id int) *cssom.StyleSheet {
	return m.sheets[id]
}

// Each visits every mirrored sheet in ascending id order.
func (m *StyleMirror) Each(fn func(id int, sheet *cssom.StyleSheet)) {
	ids := make([]int, 0, len(m.sheets))
	for id := range m.sheets {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		fn(id, m.sheets[id])
	}
}

// Reset clears both directions, including the id→sheet reverse index, and
// restarts the counter at 1.
func (m *StyleMirror) Reset() {
	m.ids = make(map[*cssom.StyleSheet]int)
	m.sheets = make(map[int]*cssom.StyleSheet)
	m.next = 1
}
