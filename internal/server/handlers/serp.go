package handlers

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/geolens/geolens/internal/errors"
	"github.com/geolens/geolens/internal/serp"
)

type serpSearchRequest struct {
	Query string `json:"query"`
}

// SerpSearch handles POST /serp-search. The response either carries fully
// resolved overview content or no overview at all; continuation tokens never
// reach the caller.
func SerpSearch(client *serp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req serpSearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, r, apperrors.NewInvalidInput("Invalid request body"))
			return
		}

		result, err := client.Search(r.Context(), req.Query)
		if err != nil {
			respondWithError(w, r, err)
			return
		}

		respondJSON(w, http.StatusOK, result)
	}
}
