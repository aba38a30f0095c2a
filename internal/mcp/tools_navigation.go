package mcpserver

import (
	"context"
	"fmt"

	"sketchpad/internal/domain"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerNavigationTools() {
	// ── get_document ───────────────────────────────────
	s.addTool(mcp.NewTool("get_document",
		mcp.WithDescription("Summarise the open document: pages, active page, selection, undo state, viewport and active tool"),
	), s.handleGetDocument)

	// ── add_page ───────────────────────────────────────
	s.addTool(mcp.NewTool("add_page",
		mcp.WithDescription("Append a new empty page and make it active"),
		mcp.WithString("name",
			mcp.Description("Name of the new page (optional, defaults to \"Page N\")"),
		),
	), s.handleAddPage)

	// ── set_active_page ────────────────────────────────
	s.addTool(mcp.NewTool("set_active_page",
		mcp.WithDescription("Switch the active page. Element tools act on the active page only."),
		mcp.WithString("pageId",
			mcp.Description("ID of the page to make active"),
			mcp.Required(),
		),
	), s.handleSetActivePage)
}

type pageSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Elements int    `json:"elementCount"`
}

type documentSummary struct {
	Pages      []pageSummary    `json:"pages"`
	ActivePage string           `json:"activePage"`
	Selected   string           `json:"selectedElement,omitempty"`
	Clipboard  bool             `json:"hasClipboard"`
	CanUndo    bool             `json:"canUndo"`
	CanRedo    bool             `json:"canRedo"`
	Canvas     domain.Canvas    `json:"canvas"`
	Tools      domain.ToolState `json:"tools"`
}

func (s *Server) summarize() documentSummary {
	doc := s.docs.Document()
	pages := make([]pageSummary, len(doc.Pages))
	for i, p := range doc.Pages {
		pages[i] = pageSummary{ID: p.ID, Name: p.Name, Elements: len(p.Elements)}
	}
	sum := documentSummary{
		Pages:      pages,
		ActivePage: doc.ActivePage,
		Selected:   doc.Selected,
		Clipboard:  doc.Clipboard != nil,
		CanUndo:    s.docs.CanUndo(),
		CanRedo:    s.docs.CanRedo(),
	}
	if s.canvas != nil {
		sum.Canvas = s.canvas.State()
	}
	if s.tools != nil {
		sum.Tools = s.tools.State()
	}
	return sum
}

func (s *Server) handleGetDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.read(ctx, func() (*mcp.CallToolResult, error) {
		return jsonResult(s.summarize())
	})
}

func (s *Server) handleAddPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	return s.write(ctx, func() (*mcp.CallToolResult, bool, error) {
		s.docs.AddPage(name)
		res, err := jsonResult(s.summarize())
		return res, true, err
	})
}

func (s *Server) handleSetActivePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID := req.GetString("pageId", "")
	if pageID == "" {
		return nil, fmt.Errorf("pageId is required")
	}
	return s.write(ctx, func() (*mcp.CallToolResult, bool, error) {
		if s.docs.ActivePage() == pageID {
			return textResult(fmt.Sprintf("Page %s is already active", pageID)), false, nil
		}
		if !s.docs.SetActivePage(pageID) {
			return nil, false, fmt.Errorf("page not found: %s", pageID)
		}
		return textResult(fmt.Sprintf("Active page set to %s", pageID)), true, nil
	})
}
