package handlers

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/geolens/geolens/internal/errors"
	"github.com/geolens/geolens/internal/queries"
)

type generateQueriesRequest struct {
	SearchTerm string `json:"searchTerm"`
}

type generateQueriesResponse struct {
	Queries []string `json:"queries"`
}

// GenerateQueries handles POST /generate-queries.
func GenerateQueries(generator *queries.Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateQueriesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, r, apperrors.NewInvalidInput("Invalid request body"))
			return
		}

		generated, err := generator.Generate(r.Context(), req.SearchTerm)
		if err != nil {
			respondWithError(w, r, err)
			return
		}

		respondJSON(w, http.StatusOK, generateQueriesResponse{Queries: generated})
	}
}
