// CLAUDE:SUMMARY Output backends for snapshot records: JSON-lines writer and in-process callback.
package record

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"
)

// Sink delivers snapshot records to a backend.
type Sink interface {
	Send(ctx context.Context, snap *Snapshot) error
	Close() error
}

// Stdout writes JSON lines to an io.Writer (default os.Stdout).
type Stdout struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewStdout creates a Stdout sink. If w is nil, os.Stdout is used.
func NewStdout(w io.Writer) *Stdout {
	if w == nil {
		w = os.Stdout
	}
	return &Stdout{enc: json.NewEncoder(w)}
}

func (s *Stdout) Send(_ context.Context, snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(envelope{Type: "snapshot", Data: snap})
}

func (s *Stdout) Close() error { return nil }

type envelope struct {
	Type string    `json:"type"`
	Data *Snapshot `json:"data"`
}

// Callback is an in-process sink for the zero-serialisation path.
type Callback struct {
	OnSnapshot func(ctx context.Context, snap *Snapshot) error
}

func (c *Callback) Send(ctx context.Context, snap *Snapshot) error {
	if c.OnSnapshot == nil {
		return nil
	}
	return c.OnSnapshot(ctx, snap)
}

func (c *Callback) Close() error { return nil }
