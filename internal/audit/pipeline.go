package audit

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/geolens/geolens/internal/core"
	apperrors "github.com/geolens/geolens/internal/errors"
	"github.com/geolens/geolens/internal/observability"
)

// AuditStore persists audits with their relations.
type AuditStore interface {
	CreateAudit(ctx context.Context, audit *core.Audit) (*core.Audit, error)
	GetAudit(ctx context.Context, id string) (*core.Audit, error)
}

// Pipeline runs the full homepage audit: fetch, sanitize, analyze, persist,
// and re-read the composed result.
type Pipeline struct {
	Fetcher  *Fetcher
	Analyzer *Analyzer
	Store    AuditStore
}

// Run audits the target URL. A missing or unreachable target is the caller's
// fault and creates no audit row; any failure after a successful fetch
// surfaces as a generic processing error with the cause logged, not returned.
func (p *Pipeline) Run(ctx context.Context, target string) (*core.Audit, error) {
	if p == nil || p.Fetcher == nil || p.Analyzer == nil || p.Store == nil {
		return nil, apperrors.NewConfigInvalid("audit pipeline not configured")
	}

	target = strings.TrimSpace(target)
	if target == "" {
		return nil, apperrors.NewValidationError("URL is required")
	}

	page, err := p.Fetcher.Fetch(ctx, target)
	if err != nil {
		observability.Logger().Warn("audit fetch failed",
			zap.String("target", target),
			zap.Error(err))
		return nil, apperrors.NewInvalidInput("Failed to fetch URL")
	}

	analysis, err := p.Analyzer.Analyze(ctx, Sanitize(page.HTML))
	if err != nil {
		observability.Logger().Error("audit analysis failed",
			zap.String("target", target),
			zap.Error(err))
		return nil, apperrors.NewInternal("Failed to process audit")
	}

	created, err := p.Store.CreateAudit(ctx, buildAudit(target, analysis))
	if err != nil {
		observability.Logger().Error("audit persistence failed",
			zap.String("target", target),
			zap.Error(err))
		return nil, apperrors.NewInternal("Failed to process audit")
	}

	composed, err := p.Store.GetAudit(ctx, created.ID)
	if err != nil || composed == nil {
		observability.Logger().Error("audit re-read failed",
			zap.String("audit_id", created.ID),
			zap.Error(err))
		return nil, apperrors.NewInternal("Failed to process audit")
	}

	return composed, nil
}

func buildAudit(target string, analysis *Analysis) *core.Audit {
	audit := &core.Audit{
		URL:         target,
		ScoreWho:    analysis.Scores.Who,
		ScoreWhat:   analysis.Scores.What,
		ScoreWhere:  analysis.Scores.Where,
		EntityScore: analysis.Scores.Entity,
		Summary:     analysis.Summary,
		Issues:      analysis.Issues,
	}

	for _, sentence := range analysis.Sentences {
		audit.Recommendations = append(audit.Recommendations, core.Recommendation{
			Kind:     core.RecommendationKind(sentence.Kind),
			Priority: sentence.Priority,
			Sentence: sentence.Text,
		})
	}

	for _, entity := range analysis.ExtractedEntities {
		audit.Entities = append(audit.Entities, core.Entity{
			Etype: entity.Etype,
			Value: entity.Value,
		})
	}

	return audit
}
