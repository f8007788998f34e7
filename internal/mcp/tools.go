package mcp

import "github.com/mark3labs/mcp-go/mcp"

// listDatabasesTool defines the list_databases MCP tool.
var listDatabasesTool = mcp.NewTool("list_databases",
	mcp.WithDescription("List all vector databases with their dimensions, vector counts, and storage sizes."),
)

// databaseStatsTool defines the database_stats MCP tool.
var databaseStatsTool = mcp.NewTool("database_stats",
	mcp.WithDescription("Get statistics for a database, optionally narrowed to a folder subtree."),
	mcp.WithString("database",
		mcp.Required(),
		mcp.Description("Name of the database"),
	),
	mcp.WithString("folder",
		mcp.Description("Folder path to aggregate; empty for the whole database"),
	),
	mcp.WithString("numeric_key",
		mcp.Description("Metadata key whose numeric values to aggregate (min/max/avg)"),
	),
)

// listFoldersTool defines the list_folders MCP tool.
var listFoldersTool = mcp.NewTool("list_folders",
	mcp.WithDescription("List the folders of a database with per-folder vector counts, including empty folders."),
	mcp.WithString("database",
		mcp.Required(),
		mcp.Description("Name of the database"),
	),
)

// searchVectorsTool defines the search_vectors MCP tool.
var searchVectorsTool = mcp.NewTool("search_vectors",
	mcp.WithDescription("Find the vectors nearest to a query embedding, optionally restricted to a folder. The embedding must be computed by the caller."),
	mcp.WithString("database",
		mcp.Required(),
		mcp.Description("Name of the database"),
	),
	mcp.WithString("embedding",
		mcp.Required(),
		mcp.Description("Query embedding as a JSON array of numbers, e.g. [0.1, -0.4, ...]"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 10)"),
	),
	mcp.WithString("folder",
		mcp.Description("Restrict results to this folder path"),
	),
	mcp.WithBoolean("recursive",
		mcp.Description("Include the folder's whole subtree"),
	),
)

// getVectorTool defines the get_vector MCP tool.
var getVectorTool = mcp.NewTool("get_vector",
	mcp.WithDescription("Fetch a single vector by id, including its metadata."),
	mcp.WithString("database",
		mcp.Required(),
		mcp.Description("Name of the database"),
	),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Vector id"),
	),
)
