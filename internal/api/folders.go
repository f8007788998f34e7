package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skyvault-labs/s5vector/internal/store"
)

type folderRequest struct {
	Path string `json:"path"`
}

type folderRenameRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func handleListFolders(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		folders, err := deps.Store.ListFolders(r.Context(), chi.URLParam(r, "db"))
		if err != nil {
			writeError(w, err)
			return
		}
		if folders == nil {
			folders = []store.FolderInfo{}
		}
		writeJSON(w, http.StatusOK, folders)
	}
}

func handleListFolderPaths(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		paths, err := deps.Store.ListFolderPaths(r.Context(), chi.URLParam(r, "db"))
		if err != nil {
			writeError(w, err)
			return
		}
		if paths == nil {
			paths = []string{}
		}
		writeJSON(w, http.StatusOK, paths)
	}
}

func handleFolderStats(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := deps.Store.FolderStats(r.Context(), chi.URLParam(r, "db"),
			r.URL.Query().Get("path"), r.URL.Query().Get("key"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func handleCreateFolder(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req folderRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Path == "" {
			writeBadRequest(w, "path is required")
			return
		}

		if err := deps.Store.CreateFolder(r.Context(), chi.URLParam(r, "db"), req.Path); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}
}

func handleRenameFolder(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req folderRenameRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.From == "" || req.To == "" {
			writeBadRequest(w, "from and to are required")
			return
		}

		moved, err := deps.Store.RenameFolder(r.Context(), chi.URLParam(r, "db"), req.From, req.To)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"moved": moved})
	}
}

func handleMoveFolder(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req folderRenameRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.From == "" {
			writeBadRequest(w, "from is required")
			return
		}

		moved, err := deps.Store.MoveFolder(r.Context(), chi.URLParam(r, "db"), req.From, req.To)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"moved": moved})
	}
}

func handleDeleteFolder(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Query().Get("path")
		if path == "" {
			writeBadRequest(w, "path query parameter is required")
			return
		}

		deleted, err := deps.Store.DeleteFolder(r.Context(), chi.URLParam(r, "db"), path)
		if err != nil {
			writeError(w, err)
			return
		}
		if deleted == nil {
			deleted = []string{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted})
	}
}
