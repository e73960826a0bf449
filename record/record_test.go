package record

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/hazyhaar/domsnap/snapshot"
)

func sampleSnapshot() *Snapshot {
	root := &snapshot.Node{
		Kind: snapshot.Document, ID: 1, CompatMode: "CSS1Compat",
		Children: []*snapshot.Node{
			{Kind: snapshot.Element, ID: 2, Tag: "html",
				Attrs: map[string]string{"lang": "en"},
				Children: []*snapshot.Node{
					{Kind: snapshot.Text, ID: 3, Text: "hello"},
				}},
		},
	}
	return &Snapshot{
		ID:      "0190a1b2-0000-7000-8000-000000000001",
		PageURL: "https://example.com",
		PageID:  "page-1",
		Root:    root,
		Stylesheets: []StylesheetEntry{
			{ID: 1, Href: "a.css", CSS: "body { margin: 0; }"},
		},
		Hash:      HashRoot(root),
		Timestamp: 1756200000000,
	}
}

func TestMarshalRoundtrip(t *testing.T) {
	s := sampleSnapshot()

	data, err := Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}

	if got.ID != s.ID || got.PageURL != s.PageURL {
		t.Errorf("identity fields: got %q %q", got.ID, got.PageURL)
	}
	if got.Root == nil || got.Root.Kind != snapshot.Document {
		t.Fatalf("root: got %+v", got.Root)
	}
	if got.Root.Children[0].Tag != "html" {
		t.Errorf("root child: got %+v", got.Root.Children[0])
	}
	if len(got.Stylesheets) != 1 || got.Stylesheets[0].CSS != "body { margin: 0; }" {
		t.Errorf("stylesheets: got %+v", got.Stylesheets)
	}
	if got.Hash != s.Hash {
		t.Errorf("hash: got %q, want %q", got.Hash, s.Hash)
	}
}

func TestHashRootDeterministic(t *testing.T) {
	s := sampleSnapshot()
	h1 := HashRoot(s.Root)
	h2 := HashRoot(s.Root)
	if h1 != h2 {
		t.Errorf("not deterministic: %q != %q", h1, h2)
	}
	if len(h1) != 64 {
		t.Errorf("length: got %d, want 64", len(h1))
	}

	other := &snapshot.Node{Kind: snapshot.Text, ID: 1, Text: "x"}
	if HashRoot(other) == h1 {
		t.Error("different graphs must not collide trivially")
	}
}

func TestStdoutSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewStdout(&buf)
	if err := sink.Send(context.Background(), sampleSnapshot()); err != nil {
		t.Fatal(err)
	}

	var env struct {
		Type string    `json:"type"`
		Data *Snapshot `json:"data"`
	}
	if err := json.Unmarshal(buf.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.Type != "snapshot" {
		t.Errorf("envelope type: got %q", env.Type)
	}
	if env.Data.PageID != "page-1" {
		t.Errorf("payload: got %+v", env.Data)
	}
}

func TestCallbackSink(t *testing.T) {
	var got *Snapshot
	sink := &Callback{OnSnapshot: func(_ context.Context, s *Snapshot) error {
		got = s
		return nil
	}}
	s := sampleSnapshot()
	if err := sink.Send(context.Background(), s); err != nil {
		t.Fatal(err)
	}
	if got != s {
		t.Error("callback did not receive the snapshot")
	}

	empty := &Callback{}
	if err := empty.Send(context.Background(), s); err != nil {
		t.Errorf("nil callback: got %v, want nil", err)
	}
}
