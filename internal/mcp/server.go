// Package mcp exposes the vector store to AI agents over the Model Context
// Protocol on stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/skyvault-labs/s5vector/internal/search"
	"github.com/skyvault-labs/s5vector/internal/store"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes vector store tools.
type Server struct {
	store *store.Store
	index *search.Index
	mcp   *server.MCPServer
}

// NewServer creates a new MCP server over the given store and search index.
func NewServer(st *store.Store, ix *search.Index) *Server {
	s := &Server{store: st, index: ix}

	s.mcp = server.NewMCPServer(
		"s5vector",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()
	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listDatabasesTool, s.handleListDatabases)
	s.mcp.AddTool(databaseStatsTool, s.handleDatabaseStats)
	s.mcp.AddTool(listFoldersTool, s.handleListFolders)
	s.mcp.AddTool(searchVectorsTool, s.handleSearchVectors)
	s.mcp.AddTool(getVectorTool, s.handleGetVector)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
