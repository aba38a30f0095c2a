package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	documentURI   = "sketchpad://document"
	pagePrefixURI = "sketchpad://page/"
	pageSuffixURI = "/elements"
)

func (s *Server) registerResources() {
	// ── sketchpad://document ───────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		documentURI,
		"Document Summary",
		mcp.WithMIMEType("application/json"),
	), s.handleDocumentResource)

	// ── sketchpad://page/{pageId}/elements ─────────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			pagePrefixURI+"{pageId}"+pageSuffixURI,
			"Elements on a Page",
		),
		s.handlePageElementsResource,
	)
}

func (s *Server) handleDocumentResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	s.lock.Lock()
	s.syncLocked(ctx)
	sum := s.summarize()
	s.lock.Unlock()

	data, _ := json.MarshalIndent(sum, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      documentURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handlePageElementsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	pageID := extractPageIDFromURI(uri)
	if pageID == "" {
		return nil, fmt.Errorf("could not extract pageId from URI: %s", uri)
	}

	s.lock.Lock()
	s.syncLocked(ctx)
	doc := s.docs.Document()
	s.lock.Unlock()

	i := doc.PageIndex(pageID)
	if i < 0 {
		return nil, fmt.Errorf("page not found: %s", pageID)
	}

	data, _ := json.MarshalIndent(doc.Pages[i].Elements, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// extractPageIDFromURI extracts the page id from "sketchpad://page/{id}/elements".
func extractPageIDFromURI(uri string) string {
	rest, ok := strings.CutPrefix(uri, pagePrefixURI)
	if !ok {
		return ""
	}
	id, ok := strings.CutSuffix(rest, pageSuffixURI)
	if !ok || strings.Contains(id, "/") {
		return ""
	}
	return id
}
