// Package api exposes the vector store over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skyvault-labs/s5vector/internal/cas"
	"github.com/skyvault-labs/s5vector/internal/events"
	"github.com/skyvault-labs/s5vector/internal/search"
	"github.com/skyvault-labs/s5vector/internal/store"
)

// Deps are the collaborators the API routes operate on.
type Deps struct {
	Store *store.Store
	Index *search.Index
	Hub   *events.Hub

	// SearchLimit is the default result limit when a request omits one.
	SearchLimit int

	// Oversample is the multiplier for folder-scoped searches.
	Oversample int
}

// RegisterRoutes mounts all API routes on the router.
func RegisterRoutes(r chi.Router, deps Deps) {
	r.Route("/api/databases", func(r chi.Router) {
		r.Get("/", handleListDatabases(deps))
		r.Post("/", handleCreateDatabase(deps))

		r.Route("/{db}", func(r chi.Router) {
			r.Get("/", handleGetDatabase(deps))
			r.Patch("/", handleUpdateDatabase(deps))
			r.Delete("/", handleDeleteDatabase(deps))
			r.Get("/report", handleDatabaseReport(deps))
			r.Post("/search", handleSearch(deps))

			r.Route("/vectors", func(r chi.Router) {
				r.Get("/", handleListVectors(deps))
				r.Post("/", handlePutVectors(deps))
				r.Post("/query", handleGetVectors(deps))
				r.Delete("/", handleDeleteVectorsByFilter(deps))
				r.Get("/{id}", handleGetVector(deps))
				r.Delete("/{id}", handleDeleteVector(deps))
				r.Post("/{id}/move", handleMoveVector(deps))
			})

			r.Route("/folders", func(r chi.Router) {
				r.Get("/", handleListFolders(deps))
				r.Get("/paths", handleListFolderPaths(deps))
				r.Get("/stats", handleFolderStats(deps))
				r.Post("/", handleCreateFolder(deps))
				r.Post("/rename", handleRenameFolder(deps))
				r.Post("/move", handleMoveFolder(deps))
				r.Delete("/", handleDeleteFolder(deps))
			})
		})
	})

	r.Get("/api/events", handleEvents(deps))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrDatabaseNotFound),
		errors.Is(err, store.ErrVectorNotFound),
		errors.Is(err, store.ErrFolderNotFound),
		errors.Is(err, cas.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrDatabaseExists),
		errors.Is(err, store.ErrFolderExists):
		status = http.StatusConflict
	case errors.Is(err, store.ErrDimensionMismatch):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeBadRequest(w, "invalid request body")
		return false
	}
	return true
}
