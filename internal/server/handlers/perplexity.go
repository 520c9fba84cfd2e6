package handlers

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/geolens/geolens/internal/errors"
	"github.com/geolens/geolens/internal/perplexity"
)

type perplexitySearchRequest struct {
	Query   string   `json:"query"`
	Queries []string `json:"queries"`
}

type perplexityBatchResponse struct {
	Results []perplexity.Outcome `json:"results"`
}

// PerplexitySearch handles POST /perplexity-search. A queries array fans out
// with per-item failure isolation; a single query returns its payload directly.
func PerplexitySearch(client *perplexity.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req perplexitySearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, r, apperrors.NewInvalidInput("Invalid request body"))
			return
		}

		if req.Query == "" && len(req.Queries) == 0 {
			respondWithError(w, r, apperrors.NewInvalidInput("Query or queries are required"))
			return
		}

		if len(req.Queries) > 0 {
			results, err := client.SearchMany(r.Context(), req.Queries)
			if err != nil {
				respondWithError(w, r, err)
				return
			}
			respondJSON(w, http.StatusOK, perplexityBatchResponse{Results: results})
			return
		}

		answer, err := client.Search(r.Context(), req.Query)
		if err != nil {
			respondWithError(w, r, err)
			return
		}

		respondJSON(w, http.StatusOK, answer)
	}
}
