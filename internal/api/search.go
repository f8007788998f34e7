package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skyvault-labs/s5vector/internal/search"
)

type searchRequest struct {
	Embedding []float32 `json:"embedding"`
	Limit     int       `json:"limit"`
	Folder    string    `json:"folder"`
	Recursive bool      `json:"recursive"`
}

func handleSearch(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if len(req.Embedding) == 0 {
			writeBadRequest(w, "embedding is required; embeddings are computed by the caller")
			return
		}

		limit := req.Limit
		if limit <= 0 {
			limit = deps.SearchLimit
		}

		results, err := deps.Index.Search(r.Context(), chi.URLParam(r, "db"), req.Embedding, limit, search.Options{
			Folder:     req.Folder,
			Recursive:  req.Recursive,
			Oversample: deps.Oversample,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		if results == nil {
			results = []search.Result{}
		}
		writeJSON(w, http.StatusOK, results)
	}
}
