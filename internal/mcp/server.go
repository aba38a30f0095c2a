package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"sketchpad/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// EventEmitter mirrors service.EventEmitter so the MCP server can notify a
// frontend without importing Wails.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

// EventDocumentChanged is emitted after a tool changed the document.
const EventDocumentChanged = "mcp:document-changed"

// Server is the MCP server for the sketchpad editor.
// It exposes the editing operations as tools so AI agents can build and rearrange scenes.
type Server struct {
	mcp      *server.MCPServer
	emitter  EventEmitter
	layout   *LayoutEngine
	handlers map[string]server.ToolHandlerFunc

	docs   *service.DocumentService
	canvas *service.CanvasService
	tools  *service.ToolService

	// lock serialises tool calls with every other caller of the editing core.
	lock    sync.Locker
	refresh func(ctx context.Context) error
	persist func(ctx context.Context) error
}

// Deps holds all dependencies passed from the App layer to the MCP server.
type Deps struct {
	Emitter EventEmitter
	Docs    *service.DocumentService
	Canvas  *service.CanvasService
	Tools   *service.ToolService

	// Lock guards the services. Nil means the server owns them exclusively.
	Lock sync.Locker
	// Sync runs before every tool with Lock held, to pick up external edits.
	Sync func(ctx context.Context) error
	// Persist runs after every mutating tool with Lock held.
	Persist func(ctx context.Context) error
}

// New creates and configures a new MCP server with all tools, resources and prompts.
func New(ctx context.Context, deps Deps) *Server {
	s := &Server{
		emitter:  deps.Emitter,
		layout:   NewLayoutEngine(),
		handlers: make(map[string]server.ToolHandlerFunc),
		docs:     deps.Docs,
		canvas:   deps.Canvas,
		tools:    deps.Tools,
		lock:     deps.Lock,
		refresh:  deps.Sync,
		persist:  deps.Persist,
	}
	if s.lock == nil {
		s.lock = &sync.Mutex{}
	}

	s.mcp = server.NewMCPServer(
		"sketchpad-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerNavigationTools()
	s.registerDrawingTools()
	s.registerLayoutTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// CallTool invokes a registered tool in-process, bypassing the transport.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	h, ok := s.handlers[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return h(ctx, req)
}

// ── Helpers ────────────────────────────────────────────────

func (s *Server) addTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	s.handlers[tool.Name] = handler
	s.mcp.AddTool(tool, handler)
}

// read runs fn against the editing core without persisting.
func (s *Server) read(ctx context.Context, fn func() (*mcp.CallToolResult, error)) (*mcp.CallToolResult, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.syncLocked(ctx)
	return fn()
}

// write runs fn against the editing core and persists the session afterwards.
// fn reports whether it changed anything.
func (s *Server) write(ctx context.Context, fn func() (*mcp.CallToolResult, bool, error)) (*mcp.CallToolResult, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.syncLocked(ctx)

	res, changed, err := fn()
	if err != nil || !changed {
		return res, err
	}
	if s.persist != nil {
		if err := s.persist(ctx); err != nil {
			return nil, fmt.Errorf("persist session: %w", err)
		}
	}
	s.emitDocumentChanged(ctx)
	return res, nil
}

func (s *Server) syncLocked(ctx context.Context) {
	if s.refresh == nil {
		return
	}
	if err := s.refresh(ctx); err != nil {
		log.Printf("[MCP] sync before tool: %v", err)
	}
}

// emitDocumentChanged notifies the frontend that the document has changed.
func (s *Server) emitDocumentChanged(ctx context.Context) {
	if s.emitter == nil {
		return
	}
	s.emitter.Emit(ctx, EventDocumentChanged, map[string]string{"pageId": s.docs.ActivePage()})
}

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

func boolPtr(v bool) *bool { return &v }
