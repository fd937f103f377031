package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/compass/internal/catalog"
	"github.com/ziadkadry99/compass/internal/relgraph"
	"github.com/ziadkadry99/compass/internal/resource"
)

// mockCatalog implements Catalog for testing.
type mockCatalog struct {
	resources []resource.Resource
	err       error
}

func (m *mockCatalog) List(_ context.Context) ([]resource.Resource, error) {
	return m.resources, m.err
}

func (m *mockCatalog) Get(_ context.Context, id string) (resource.Resource, error) {
	if m.err != nil {
		return resource.Resource{}, m.err
	}
	for _, r := range m.resources {
		if r.ID == id {
			return r, nil
		}
	}
	return resource.Resource{}, fmt.Errorf("resource %s: %w", id, catalog.ErrNotFound)
}

func (m *mockCatalog) Graph(_ context.Context) (*relgraph.Graph, error) {
	if m.err != nil {
		return nil, m.err
	}
	return relgraph.Build(m.resources)
}

func sampleCatalog() *mockCatalog {
	return &mockCatalog{resources: []resource.Resource{
		{ID: "tools/wheel", Category: "tools", Title: "Ecodesign Wheel", Tags: []string{"ecodesign", "circularity"}, Summary: "A wheel."},
		{ID: "tools/kit", Category: "tools", Title: "Ecodesign Toolkit", Tags: []string{"ecodesign"}},
		{ID: "methods/lean", Category: "methods", Title: "Lean Canvas", Tags: []string{"startups"}},
		{ID: "reports/outlook", Category: "reports", Title: "Outlook", Tags: []string{}},
	}}
}

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var sb strings.Builder
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	return sb.String(), result.IsError
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"related_resources", relatedResourcesTool, "related_resources"},
		{"graph_stats", graphStatsTool, "graph_stats"},
		{"get_resource", getResourceTool, "get_resource"},
		{"list_resources", listResourcesTool, "list_resources"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	c := sampleCatalog()
	srv := NewServer(c, 0)

	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.catalog != c {
		t.Error("catalog not set correctly")
	}
	if srv.relatedLimit != 5 {
		t.Errorf("relatedLimit = %d, want default 5", srv.relatedLimit)
	}
}

func TestHandleRelatedResources(t *testing.T) {
	srv := NewServer(sampleCatalog(), 5)

	t.Run("ranked with reasons", func(t *testing.T) {
		text, isErr := callTool(t, srv.handleRelatedResources, map[string]any{"id": "tools/kit"})
		if isErr {
			t.Fatalf("unexpected tool error: %s", text)
		}
		if !strings.Contains(text, "1. Ecodesign Wheel (tools/wheel)") {
			t.Errorf("missing ranked entry:\n%s", text)
		}
		if !strings.Contains(text, "- Shared tags: ecodesign") {
			t.Errorf("missing reason:\n%s", text)
		}
	})

	t.Run("isolated resource", func(t *testing.T) {
		text, isErr := callTool(t, srv.handleRelatedResources, map[string]any{"id": "reports/outlook"})
		if isErr || !strings.Contains(text, "no related resources") {
			t.Errorf("got %q (error=%v)", text, isErr)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		if _, isErr := callTool(t, srv.handleRelatedResources, map[string]any{"id": "tools/ghost"}); !isErr {
			t.Error("expected error for unknown id")
		}
	})

	t.Run("missing id", func(t *testing.T) {
		if _, isErr := callTool(t, srv.handleRelatedResources, map[string]any{}); !isErr {
			t.Error("expected error for missing id")
		}
	})

	t.Run("catalog failure", func(t *testing.T) {
		broken := NewServer(&mockCatalog{err: errors.New("disk gone")}, 5)
		text, isErr := callTool(t, broken.handleRelatedResources, map[string]any{"id": "tools/kit"})
		if !isErr || !strings.Contains(text, "disk gone") {
			t.Errorf("got %q (error=%v)", text, isErr)
		}
	})
}

func TestHandleGraphStats(t *testing.T) {
	srv := NewServer(sampleCatalog(), 5)

	text, isErr := callTool(t, srv.handleGraphStats, map[string]any{"top": 1})
	if isErr {
		t.Fatalf("unexpected tool error: %s", text)
	}
	for _, want := range []string{"Resources: 4", "- tools: 2", "- ecodesign: 2", "- reports/outlook"} {
		if !strings.Contains(text, want) {
			t.Errorf("stats missing %q:\n%s", want, text)
		}
	}
}

func TestHandleGetResource(t *testing.T) {
	srv := NewServer(sampleCatalog(), 5)

	text, isErr := callTool(t, srv.handleGetResource, map[string]any{"id": "tools/wheel"})
	if isErr {
		t.Fatalf("unexpected tool error: %s", text)
	}
	if !strings.Contains(text, "# Ecodesign Wheel") || !strings.Contains(text, "Tags: ecodesign, circularity") {
		t.Errorf("unexpected output:\n%s", text)
	}

	if _, isErr := callTool(t, srv.handleGetResource, map[string]any{"id": "tools/none"}); !isErr {
		t.Error("expected error for missing resource")
	}
}

func TestHandleListResources(t *testing.T) {
	srv := NewServer(sampleCatalog(), 5)

	text, _ := callTool(t, srv.handleListResources, map[string]any{"category": "tools"})
	if !strings.Contains(text, "Found 2 resource(s)") {
		t.Errorf("category filter:\n%s", text)
	}

	text, _ = callTool(t, srv.handleListResources, map[string]any{"tag": " Startups "})
	if !strings.Contains(text, "methods/lean") || strings.Contains(text, "tools/") {
		t.Errorf("tag filter:\n%s", text)
	}

	text, _ = callTool(t, srv.handleListResources, map[string]any{"category": "nothing"})
	if text != "No matching resources." {
		t.Errorf("empty result = %q", text)
	}
}
