package mcp

import "github.com/mark3labs/mcp-go/mcp"

// relatedResourcesTool defines the related_resources MCP tool.
var relatedResourcesTool = mcp.NewTool("related_resources",
	mcp.WithDescription("List the resources most related to a given resource, highest score first, with the reasons for each relationship."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Resource id in the form category/slug"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of related resources to return (0 returns all)"),
	),
)

// graphStatsTool defines the graph_stats MCP tool.
var graphStatsTool = mcp.NewTool("graph_stats",
	mcp.WithDescription("Summarize the relationship graph: node and edge counts, categories, most common tags and isolated resources."),
	mcp.WithNumber("top",
		mcp.Description("Number of top tags to include (default 10)"),
	),
)

// getResourceTool defines the get_resource MCP tool.
var getResourceTool = mcp.NewTool("get_resource",
	mcp.WithDescription("Get one resource's title, category, tags and summary."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Resource id in the form category/slug"),
	),
)

// listResourcesTool defines the list_resources MCP tool.
var listResourcesTool = mcp.NewTool("list_resources",
	mcp.WithDescription("List catalog resources, optionally restricted to one category or tag."),
	mcp.WithString("category",
		mcp.Description("Only list resources in this category"),
	),
	mcp.WithString("tag",
		mcp.Description("Only list resources carrying this tag"),
	),
)
