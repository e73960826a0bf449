// Package record defines the structured envelope emitted for each
// snapshot. Consumers (persistence, transport, players) import this
// package; it is the public contract around the serialized node graph.
package record

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/hazyhaar/domsnap/snapshot"
)

// StylesheetEntry is one row of the stylesheet-id → CSS text table
// emitted next to a snapshot. IDs come from the StyleSheet Mirror and are
// what incremental rule-patch records reference.
type StylesheetEntry struct {
	ID   int    `json:"id"`
	Href string `json:"href,omitempty"`
	CSS  string `json:"css"`
}

// Snapshot is a complete serialized DOM photo plus its stylesheet table.
type Snapshot struct {
	ID          string            `json:"id"` // UUIDv7
	PageURL     string            `json:"page_url"`
	PageID      string            `json:"page_id"`
	Root        *snapshot.Node    `json:"root"`
	Stylesheets []StylesheetEntry `json:"stylesheets,omitempty"`
	Hash        string            `json:"hash"`      // SHA-256 hex of the marshalled root
	Timestamp   int64             `json:"timestamp"` // epoch milliseconds
}

// Marshal serialises a Snapshot to JSON.
func Marshal(s *Snapshot) ([]byte, error) {
	return json.Marshal(s)
}

// Unmarshal deserialises a Snapshot from JSON.
func Unmarshal(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("record: unmarshal snapshot: %w", err)
	}
	return &s, nil
}

// HashRoot returns the SHA-256 hex digest of the marshalled node graph,
// for change detection between periodic snapshots.
func HashRoot(root *snapshot.Node) string {
	data, err := json.Marshal(root)
	if err != nil {
		return ""
	}
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h)
}
