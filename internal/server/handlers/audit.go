package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/geolens/geolens/internal/audit"
	"github.com/geolens/geolens/internal/core"
	apperrors "github.com/geolens/geolens/internal/errors"
	"github.com/geolens/geolens/internal/output"
)

// AuditLister extends the pipeline store with the listing operation the HTTP
// surface needs.
type AuditLister interface {
	GetAudit(ctx context.Context, id string) (*core.Audit, error)
	ListAudits(ctx context.Context, limit int) ([]core.AuditSummary, error)
}

type auditRequest struct {
	Target string `json:"target"`
}

// RunAudit handles POST /audit.
func RunAudit(pipeline *audit.Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auditRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, r, apperrors.NewInvalidInput("Invalid request body"))
			return
		}

		composed, err := pipeline.Run(r.Context(), req.Target)
		if err != nil {
			respondWithError(w, r, err)
			return
		}

		respondJSON(w, http.StatusOK, composed)
	}
}

// GetAudit handles GET /audit/{id}.
func GetAudit(store AuditLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		found, err := store.GetAudit(r.Context(), id)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		if found == nil {
			respondWithError(w, r, apperrors.NewNotFound("Audit not found"))
			return
		}

		respondJSON(w, http.StatusOK, found)
	}
}

// ListAudits handles GET /audits.
func ListAudits(store AuditLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summaries, err := store.ListAudits(r.Context(), 0)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		if summaries == nil {
			summaries = []core.AuditSummary{}
		}

		respondJSON(w, http.StatusOK, summaries)
	}
}

// ExportAudit handles GET /export/{id}, serving the audit's Markdown document
// as a file attachment.
func ExportAudit(store AuditLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		found, err := store.GetAudit(r.Context(), id)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		if found == nil {
			respondWithError(w, r, apperrors.NewNotFound("Audit not found"))
			return
		}

		w.Header().Set("Content-Type", "text/markdown")
		w.Header().Set("Content-Disposition", `attachment; filename="`+output.ExportFilename(id)+`"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(output.FormatAuditMarkdown(found)))
	}
}
