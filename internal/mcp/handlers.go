package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/skyvault-labs/s5vector/internal/search"
	"github.com/skyvault-labs/s5vector/internal/store"
)

// handleListDatabases lists all databases.
func (s *Server) handleListDatabases(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	infos, err := s.store.ListDatabases(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing databases failed: %v", err)), nil
	}
	if len(infos) == 0 {
		return mcp.NewToolResultText("No databases exist yet."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d database(s):\n", len(infos))
	for _, info := range infos {
		fmt.Fprintf(&sb, "\n- %s: %d dimensions, %d vectors, %d bytes", info.Name, info.Dimensions, info.VectorCount, info.StorageSize)
		if info.Owner != "" {
			fmt.Fprintf(&sb, ", owner %s", info.Owner)
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleDatabaseStats aggregates a database or one of its folder subtrees.
func (s *Server) handleDatabaseStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	db, err := request.RequireString("database")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: database"), nil
	}

	folder := request.GetString("folder", "")
	numericKey := request.GetString("numeric_key", "")

	stats, err := s.store.FolderStats(ctx, db, folder, numericKey)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("stats failed: %v", err)), nil
	}

	var sb strings.Builder
	scope := stats.Path
	if scope == "" {
		scope = "(root)"
	}
	fmt.Fprintf(&sb, "Database %s, folder %s:\n", db, scope)
	fmt.Fprintf(&sb, "- vectors: %d\n- storage: %d bytes\n", stats.VectorCount, stats.StorageSize)
	if numericKey != "" {
		fmt.Fprintf(&sb, "- %s: min %g, max %g, avg %g\n", numericKey, stats.Min, stats.Max, stats.Avg)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleListFolders lists a database's folders with counts.
func (s *Server) handleListFolders(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	db, err := request.RequireString("database")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: database"), nil
	}

	folders, err := s.store.ListFolders(ctx, db)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing folders failed: %v", err)), nil
	}
	if len(folders) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("Database %s has no folders.", db)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Database %s has %d folder(s):\n", db, len(folders))
	for _, f := range folders {
		fmt.Fprintf(&sb, "- %s (%d vectors)\n", f.Path, f.VectorCount)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleSearchVectors runs a similarity query with a caller-provided embedding.
func (s *Server) handleSearchVectors(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	db, err := request.RequireString("database")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: database"), nil
	}
	embeddingJSON, err := request.RequireString("embedding")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: embedding"), nil
	}

	var embedding []float32
	if err := json.Unmarshal([]byte(embeddingJSON), &embedding); err != nil {
		return mcp.NewToolResultError("embedding must be a JSON array of numbers"), nil
	}

	limit := request.GetInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}

	results, err := s.index.Search(ctx, db, embedding, limit, search.Options{
		Folder:    request.GetString("folder", ""),
		Recursive: request.GetBool("recursive", false),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("No results found."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d result(s):\n", len(results))
	for i, r := range results {
		fmt.Fprintf(&sb, "\n--- Result %d ---\nid: %s\nsimilarity: %.4f\n", i+1, r.ID, r.Similarity)
		if folder := r.Metadata[store.FolderPathKey]; folder != "" {
			fmt.Fprintf(&sb, "folder: %s\n", folder)
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleGetVector fetches one vector with its metadata.
func (s *Server) handleGetVector(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	db, err := request.RequireString("database")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: database"), nil
	}
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}

	vec, err := s.store.GetVector(ctx, db, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get vector failed: %v", err)), nil
	}

	out, err := json.MarshalIndent(vec, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding vector failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
