package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skyvault-labs/s5vector/internal/store"
)

type putVectorsRequest struct {
	Vectors []store.Vector `json:"vectors"`
}

type getVectorsRequest struct {
	IDs []string `json:"ids"`
}

type moveVectorRequest struct {
	Folder string `json:"folder"`
}

func handleListVectors(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vecs, err := deps.Store.ListVectors(r.Context(), chi.URLParam(r, "db"))
		if err != nil {
			writeError(w, err)
			return
		}
		if vecs == nil {
			vecs = []store.Vector{}
		}
		writeJSON(w, http.StatusOK, vecs)
	}
}

func handlePutVectors(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req putVectorsRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if len(req.Vectors) == 0 {
			writeBadRequest(w, "vectors are required")
			return
		}

		stored, err := deps.Store.PutVectors(r.Context(), chi.URLParam(r, "db"), req.Vectors)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, stored)
	}
}

func handleGetVectors(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req getVectorsRequest
		if !decodeBody(w, r, &req) {
			return
		}

		vecs, err := deps.Store.GetVectors(r.Context(), chi.URLParam(r, "db"), req.IDs)
		if err != nil {
			writeError(w, err)
			return
		}
		if vecs == nil {
			vecs = []store.Vector{}
		}
		writeJSON(w, http.StatusOK, vecs)
	}
}

func handleGetVector(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vec, err := deps.Store.GetVector(r.Context(), chi.URLParam(r, "db"), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, vec)
	}
}

func handleDeleteVector(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := deps.Store.DeleteVector(r.Context(), chi.URLParam(r, "db"), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleDeleteVectorsByFilter(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var filter store.Filter
		if !decodeBody(w, r, &filter) {
			return
		}
		if filter.IsEmpty() {
			writeBadRequest(w, "a metadata filter or folder pattern is required")
			return
		}

		deleted, err := deps.Store.DeleteVectors(r.Context(), chi.URLParam(r, "db"), filter)
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

func handleMoveVector(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req moveVectorRequest
		if !decodeBody(w, r, &req) {
			return
		}

		db, id := chi.URLParam(r, "db"), chi.URLParam(r, "id")
		if err := deps.Store.MoveVector(r.Context(), db, id, req.Folder); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
