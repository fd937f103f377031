package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/compass/internal/relgraph"
	"github.com/ziadkadry99/compass/internal/resource"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Catalog is the read side of the resource catalog the tools query.
type Catalog interface {
	List(ctx context.Context) ([]resource.Resource, error)
	Get(ctx context.Context, id string) (resource.Resource, error)
	Graph(ctx context.Context) (*relgraph.Graph, error)
}

// Server wraps an MCP server that exposes the resource relationship graph.
type Server struct {
	catalog      Catalog
	relatedLimit int
	mcp          *server.MCPServer
}

// NewServer creates a new MCP server over the given catalog. relatedLimit is
// the default result count of related_resources.
func NewServer(catalog Catalog, relatedLimit int) *Server {
	if relatedLimit <= 0 {
		relatedLimit = 5
	}
	s := &Server{
		catalog:      catalog,
		relatedLimit: relatedLimit,
	}

	s.mcp = server.NewMCPServer(
		"compass",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(relatedResourcesTool, s.handleRelatedResources)
	s.mcp.AddTool(graphStatsTool, s.handleGraphStats)
	s.mcp.AddTool(getResourceTool, s.handleGetResource)
	s.mcp.AddTool(listResourcesTool, s.handleListResources)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
