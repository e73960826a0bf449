// CLAUDE:SUMMARY HTTP API over the snapshot store — list, fetch, stylesheets, ingest.
package serve

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hazyhaar/domsnap/idgen"
	"github.com/hazyhaar/domsnap/record"
	"github.com/hazyhaar/domsnap/shield"
	"github.com/hazyhaar/domsnap/store"
)

// Server exposes stored snapshots over HTTP and MCP.
type Server struct {
	Store  *store.Store
	Logger *slog.Logger
	NewID  idgen.Generator
}

// New wraps a store. A nil logger falls back to slog.Default().
func New(st *store.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{Store: st, Logger: logger, NewID: idgen.Default}
}

// Router builds the chi router with the standard middleware stack.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	for _, mw := range shield.DefaultStack() {
		r.Use(mw)
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, map[string]string{"status": "ok"})
	})

	r.Get("/snapshots", s.handleList)
	r.Post("/snapshots", s.handleIngest)
	r.Get("/snapshots/{id}", s.handleGet)
	r.Get("/snapshots/{id}/stylesheets", s.handleStylesheets)

	return r
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 0)
	metas, err := s.Store.List(r.Context(), r.URL.Query().Get("page_id"), limit)
	if err != nil {
		writeError(w, 500, err)
		return
	}
	if metas == nil {
		metas = []store.Meta{}
	}
	writeJSON(w, 200, metas)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, 404, err)
		return
	}
	if err != nil {
		writeError(w, 500, err)
		return
	}
	writeJSON(w, 200, snap)
}

func (s *Server) handleStylesheets(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.Store.Get(r.Context(), id); errors.Is(err, store.ErrNotFound) {
		writeError(w, 404, err)
		return
	} else if err != nil {
		writeError(w, 500, err)
		return
	}
	sheets, err := s.Store.Stylesheets(r.Context(), id)
	if err != nil {
		writeError(w, 500, err)
		return
	}
	if sheets == nil {
		sheets = []record.StylesheetEntry{}
	}
	writeJSON(w, 200, sheets)
}

// handleIngest accepts a serialized snapshot from an external recorder and
// stores it. Missing id and hash are filled in server-side.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var snap record.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		writeError(w, 400, err)
		return
	}
	if snap.Root == nil {
		writeError(w, 400, errors.New("serve: snapshot has no root"))
		return
	}
	if snap.ID == "" {
		snap.ID = s.NewID()
	}
	if snap.Hash == "" {
		snap.Hash = record.HashRoot(snap.Root)
	}
	if err := s.Store.Save(r.Context(), &snap); err != nil {
		writeError(w, 500, err)
		return
	}
	shield.GetLogger(r.Context()).Info("serve: snapshot stored",
		"snapshot_id", snap.ID, "page_url", snap.PageURL)
	writeJSON(w, 201, map[string]string{"id": snap.ID, "hash": snap.Hash})
}

// ListenAndServe runs the HTTP server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Router()}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.Logger.Info("serve: listening", "addr", addr)

	select {
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
