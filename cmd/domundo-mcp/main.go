// Command domundo-mcp exposes one domundo.Context as an MCP tool server
// over stdio: type/undo/redo/insert-html/get-state, grounded
// on domkeeper's mcp.go tool-registration pattern (kit.RegisterMCPTool)
// and cmd/chrc's in-process mcp.NewServer/Run wiring.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/domundo"
	"github.com/hazyhaar/domundo/auditlog"
	"github.com/hazyhaar/domundo/internal/domtree"
	"github.com/hazyhaar/domundo/kit"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	root := domtree.NewElement("div")
	docCtx := domundo.NewContext(root, domundo.Options{Logger: logger})
	defer docCtx.Close()

	audit := auditlog.New(logger)
	tools := &toolset{ctx: docCtx, root: root, audit: audit}

	srv := mcp.NewServer(&mcp.Implementation{Name: "domundo", Version: "1.0.0"}, nil)
	tools.Register(srv)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("domundo-mcp: serving over stdio")
	if err := srv.Run(runCtx, &mcp.StdioTransport{}); err != nil {
		logger.Error("domundo-mcp: fatal", "error", err)
		os.Exit(1)
	}
}

type toolset struct {
	ctx   *domundo.Context
	root  *domtree.Node
	audit *auditlog.Logger
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// Register installs every domundo tool on srv.
func (t *toolset) Register(srv *mcp.Server) {
	t.registerTypeTool(srv)
	t.registerInsertHTMLTool(srv)
	t.registerUndoTool(srv)
	t.registerRedoTool(srv)
	t.registerGetStateTool(srv)
}

// --- domundo_type ---

type typeRequest struct {
	Text string `json:"text"`
}

func (t *toolset) registerTypeTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "domundo_type",
		Description: "Type text at the end of the document, recording an undoable (and typing-coalesced) entry.",
		InputSchema: inputSchema(map[string]any{
			"text": map[string]any{"type": "string", "description": "Text to insert"},
		}, []string{"text"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*typeRequest)
		boundary := domtree.Boundary{Node: t.root, Offset: domtree.NodeLength(t.root)}
		cs := t.ctx.TypeText(boundary, r.Text)
		t.audit.LogContext(kit.WithTransport(ctx, "mcp"), cs)
		return map[string]string{"html": domtree.RenderHTML(t.root)}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r typeRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- domundo_insert_html ---

type insertHTMLRequest struct {
	HTML string `json:"html"`
}

func (t *toolset) registerInsertHTMLTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "domundo_insert_html",
		Description: "Sanitize and insert an HTML fragment at the current selection, recording an undoable paste entry.",
		InputSchema: inputSchema(map[string]any{
			"html": map[string]any{"type": "string", "description": "HTML fragment to insert"},
		}, []string{"html"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*insertHTMLRequest)
		cs, err := t.ctx.InsertHTML(r.HTML)
		if err != nil {
			return nil, err
		}
		t.audit.LogContext(kit.WithTransport(ctx, "mcp"), cs)
		return map[string]string{"html": domtree.RenderHTML(t.root)}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r insertHTMLRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- domundo_undo / domundo_redo ---

func (t *toolset) registerUndoTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "domundo_undo",
		Description: "Undo the most recent history entry.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}
	endpoint := func(_ context.Context, _ any) (any, error) {
		ok := t.ctx.Undo()
		return map[string]any{"undone": ok, "html": domtree.RenderHTML(t.root)}, nil
	}
	decode := func(_ *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil}, nil
	}
	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

func (t *toolset) registerRedoTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "domundo_redo",
		Description: "Redo the most recently undone history entry.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}
	endpoint := func(_ context.Context, _ any) (any, error) {
		ok := t.ctx.Redo()
		return map[string]any{"redone": ok, "html": domtree.RenderHTML(t.root)}, nil
	}
	decode := func(_ *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil}, nil
	}
	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- domundo_get_state ---

func (t *toolset) registerGetStateTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "domundo_get_state",
		Description: "Get the document's current HTML.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}
	endpoint := func(_ context.Context, _ any) (any, error) {
		return map[string]string{"html": domtree.RenderHTML(t.root)}, nil
	}
	decode := func(_ *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil}, nil
	}
	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}
