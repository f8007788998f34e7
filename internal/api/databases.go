package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skyvault-labs/s5vector/internal/report"
	"github.com/skyvault-labs/s5vector/internal/store"
)

type createDatabaseRequest struct {
	Name string `json:"name"`
	store.CreateOptions
}

func handleListDatabases(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		infos, err := deps.Store.ListDatabases(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		if infos == nil {
			infos = []store.DatabaseInfo{}
		}
		writeJSON(w, http.StatusOK, infos)
	}
}

func handleCreateDatabase(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createDatabaseRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Name == "" {
			writeBadRequest(w, "name is required")
			return
		}

		info, err := deps.Store.CreateDatabase(r.Context(), req.Name, req.CreateOptions)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, info)
	}
}

func handleGetDatabase(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := deps.Store.GetDatabase(r.Context(), chi.URLParam(r, "db"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, info)
	}
}

func handleUpdateDatabase(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var opts store.UpdateOptions
		if !decodeBody(w, r, &opts) {
			return
		}

		info, err := deps.Store.UpdateDatabase(r.Context(), chi.URLParam(r, "db"), opts)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, info)
	}
}

func handleDeleteDatabase(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Store.DeleteDatabase(r.Context(), chi.URLParam(r, "db")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleDatabaseReport(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		db := chi.URLParam(r, "db")

		info, err := deps.Store.GetDatabase(r.Context(), db)
		if err != nil {
			writeError(w, err)
			return
		}
		folders, err := deps.Store.ListFolders(r.Context(), db)
		if err != nil {
			writeError(w, err)
			return
		}

		page, err := report.Generate(*info, folders)
		if err != nil {
			writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(page)
	}
}
