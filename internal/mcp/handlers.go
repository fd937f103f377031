package mcp

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/compass/internal/catalog"
	"github.com/ziadkadry99/compass/internal/relgraph"
	"github.com/ziadkadry99/compass/internal/resource"
)

// handleRelatedResources ranks the neighbours of one resource.
func (s *Server) handleRelatedResources(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}
	limit := request.GetInt("limit", s.relatedLimit)

	g, err := s.catalog.Graph(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading graph: %v", err)), nil
	}
	node, err := g.Node(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf(
			"No resource %q in the catalog. Run `compass import` to load content.", id,
		)), nil
	}

	related := relgraph.Related(g, id, limit)
	if len(related) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("%s has no related resources.", node.Title)), nil
	}
	return mcp.NewToolResultText(formatRelated(g, node, related)), nil
}

// handleGraphStats summarizes the whole graph.
func (s *Server) handleGraphStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	g, err := s.catalog.Graph(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading graph: %v", err)), nil
	}
	stats := relgraph.Stats(g, request.GetInt("top", 10))
	return mcp.NewToolResultText(formatStats(stats)), nil
}

// handleGetResource returns one resource without its rendered HTML.
func (s *Server) handleGetResource(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}

	r, err := s.catalog.Get(ctx, id)
	if errors.Is(err, catalog.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("No resource %q in the catalog.", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read resource: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", r.Title))
	sb.WriteString(fmt.Sprintf("ID: %s\n", r.ID))
	sb.WriteString(fmt.Sprintf("Category: %s\n", r.Category))
	if len(r.Tags) > 0 {
		sb.WriteString(fmt.Sprintf("Tags: %s\n", strings.Join(r.Tags, ", ")))
	}
	if r.Summary != "" {
		sb.WriteString("\n")
		sb.WriteString(r.Summary)
		sb.WriteString("\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleListResources lists resources, filtered by category and tag.
func (s *Server) handleListResources(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := request.GetString("category", "")
	tag := strings.ToLower(strings.TrimSpace(request.GetString("tag", "")))

	all, err := s.catalog.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing resources: %v", err)), nil
	}

	var matched []resource.Resource
	for _, r := range all {
		if category != "" && r.Category != category {
			continue
		}
		if tag != "" && !slices.Contains(r.Tags, tag) {
			continue
		}
		matched = append(matched, r)
	}
	if len(matched) == 0 {
		return mcp.NewToolResultText("No matching resources."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d resource(s):\n\n", len(matched)))
	for _, r := range matched {
		sb.WriteString(fmt.Sprintf("- %s: %s", r.ID, r.Title))
		if len(r.Tags) > 0 {
			sb.WriteString(fmt.Sprintf(" [%s]", strings.Join(r.Tags, ", ")))
		}
		sb.WriteString("\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// formatRelated renders related nodes for AI agent consumption.
func formatRelated(g *relgraph.Graph, node *relgraph.Node, related []relgraph.RelatedNode) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Related to %s (%s)\n", node.Title, node.ID))

	for i, r := range related {
		title := r.ID
		if n, err := g.Node(r.ID); err == nil {
			title = n.Title
		}
		sb.WriteString(fmt.Sprintf("\n%d. %s (%s)\n", i+1, title, r.ID))
		sb.WriteString(fmt.Sprintf("   Score: %.1f\n", r.Score))
		for _, reason := range r.Reasons {
			sb.WriteString(fmt.Sprintf("   - %s\n", reason))
		}
	}
	return sb.String()
}

func formatStats(st relgraph.GraphStats) string {
	var sb strings.Builder
	sb.WriteString("# Graph Summary\n\n")
	sb.WriteString(fmt.Sprintf("Resources: %d\n", st.Nodes))
	sb.WriteString(fmt.Sprintf("Relationships: %d\n", st.Edges))
	sb.WriteString(fmt.Sprintf("Mean degree: %.2f\n", st.MeanDegree))

	if len(st.Categories) > 0 {
		names := make([]string, 0, len(st.Categories))
		for c := range st.Categories {
			names = append(names, c)
		}
		slices.Sort(names)
		sb.WriteString("\n## Categories\n\n")
		for _, c := range names {
			sb.WriteString(fmt.Sprintf("- %s: %d\n", c, st.Categories[c]))
		}
	}
	if len(st.TopTags) > 0 {
		sb.WriteString("\n## Top Tags\n\n")
		for _, tc := range st.TopTags {
			sb.WriteString(fmt.Sprintf("- %s: %d\n", tc.Tag, tc.Count))
		}
	}
	if len(st.Isolated) > 0 {
		sb.WriteString("\n## Isolated\n\n")
		for _, id := range st.Isolated {
			sb.WriteString(fmt.Sprintf("- %s\n", id))
		}
	}
	return sb.String()
}
