package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("system_diagram",
		mcp.WithPromptDescription("Sketch a system architecture diagram from labelled boxes"),
		mcp.WithArgument("systemName",
			mcp.ArgumentDescription("Name of the system to diagram"),
			mcp.RequiredArgument(),
		),
	), s.handleSystemDiagramPrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("tidy_page",
		mcp.WithPromptDescription("Align and evenly space the elements of the active page"),
		mcp.WithArgument("axis",
			mcp.ArgumentDescription("horizontal or vertical"),
			mcp.RequiredArgument(),
		),
	), s.handleTidyPagePrompt)
}

func (s *Server) handleSystemDiagramPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := req.Params.Arguments["systemName"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Diagram the %s system", name),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Draw an architecture diagram of "%s" on a new page. Follow these steps:

1. Use add_page with the name "%s" so the diagram gets its own page
2. For each component, add_element a rectangle, then add_element a text element on top with the component name
3. Use ellipses for data stores and polygons for external actors
4. Leave x/y out to let auto-layout place elements without overlaps
5. Finish with get_document to confirm the result

Keep labels short. Use undo if a step goes wrong.`, name, name),
				},
			},
		},
	}, nil
}

func (s *Server) handleTidyPagePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	axis := req.Params.Arguments["axis"]
	edge := "middle"
	if axis == "vertical" {
		edge = "center"
	}
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Tidy the active page along the %s axis", axis),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Tidy up the active page:

1. Call list_elements and pick the largest element as the reference
2. Call align_elements with edge "%s" and that element as referenceId
3. Call distribute_elements with axis "%s"
4. Report what moved; undo restores the previous layout in one step per call`, edge, axis),
				},
			},
		},
	}, nil
}
