// CLAUDE:SUMMARY Registers snapshot MCP tools — list, get, stylesheets.
package serve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/domsnap/kit"
	"github.com/hazyhaar/domsnap/store"
)

// RegisterMCP registers snapshot tools on an MCP server.
func (s *Server) RegisterMCP(srv *mcp.Server) {
	s.registerListTool(srv)
	s.registerGetTool(srv)
	s.registerStylesheetsTool(srv)
}

// inputSchema builds a JSON Schema object with type "object".
func inputSchema(properties map[string]any, required []string) map[string]any {
	sch := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		sch["required"] = required
	}
	return sch
}

// --- list ---

type listRequest struct {
	PageID string `json:"page_id,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

func (s *Server) registerListTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "domsnap_list",
		Description: "List stored page snapshots, newest first. Returns metadata only, not the serialized trees.",
		InputSchema: inputSchema(map[string]any{
			"page_id": map[string]any{"type": "string", "description": "Filter by page ID"},
			"limit":   map[string]any{"type": "integer", "description": "Max results (default 50)"},
		}, nil),
	}

	endpoint := kit.Chain(kit.Logging(s.Logger, "domsnap_list"))(func(ctx context.Context, req any) (any, error) {
		r := req.(*listRequest)
		return s.Store.List(ctx, r.PageID, r.Limit)
	})

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r listRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- get ---

type getRequest struct {
	SnapshotID string `json:"snapshot_id"`
}

func (s *Server) registerGetTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "domsnap_get",
		Description: "Fetch a stored snapshot by ID: the full serialized tree plus page metadata.",
		InputSchema: inputSchema(map[string]any{
			"snapshot_id": map[string]any{"type": "string", "description": "Snapshot ID"},
		}, []string{"snapshot_id"}),
	}

	endpoint := kit.Chain(kit.Logging(s.Logger, "domsnap_get"))(func(ctx context.Context, req any) (any, error) {
		r := req.(*getRequest)
		snap, err := s.Store.Get(ctx, r.SnapshotID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("snapshot %q not found", r.SnapshotID)
		}
		return snap, err
	})

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r getRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- stylesheets ---

func (s *Server) registerStylesheetsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "domsnap_stylesheets",
		Description: "List the constructed stylesheets captured with a snapshot: id, href, and normalized CSS text.",
		InputSchema: inputSchema(map[string]any{
			"snapshot_id": map[string]any{"type": "string", "description": "Snapshot ID"},
		}, []string{"snapshot_id"}),
	}

	endpoint := kit.Chain(kit.Logging(s.Logger, "domsnap_stylesheets"))(func(ctx context.Context, req any) (any, error) {
		r := req.(*getRequest)
		if _, err := s.Store.Get(ctx, r.SnapshotID); errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("snapshot %q not found", r.SnapshotID)
		} else if err != nil {
			return nil, err
		}
		return s.Store.Stylesheets(ctx, r.SnapshotID)
	})

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r getRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}
