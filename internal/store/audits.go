package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/geolens/geolens/internal/core"
)

// DefaultListLimit caps audit listings.
const DefaultListLimit = 50

// CreateAudit persists an audit with its recommendations and entities in one
// transaction. All rows are committed or none. Generated IDs are written back
// into the returned audit.
func (s *Store) CreateAudit(ctx context.Context, audit *core.Audit) (*core.Audit, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}
	if audit == nil {
		return nil, errors.New("audit is required")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	audit.ID = uuid.NewString()
	if audit.CreatedAt.IsZero() {
		audit.CreatedAt = time.Now().UTC()
	}
	if audit.Issues == nil {
		audit.Issues = []string{}
	}

	issuesJSON, err := json.Marshal(audit.Issues)
	if err != nil {
		return nil, fmt.Errorf("encode audit issues: %w", err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin audit transaction: %w", err)
	}
	defer tx.Rollback() // nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, `
		INSERT INTO audits (id, url, score_who, score_what, score_where, entity_score, summary, issues, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, audit.ID, audit.URL, audit.ScoreWho, audit.ScoreWhat, audit.ScoreWhere,
		audit.EntityScore, audit.Summary, string(issuesJSON), audit.CreatedAt.Unix())
	if err != nil {
		return nil, fmt.Errorf("store audit: %w", err)
	}

	for i := range audit.Recommendations {
		rec := &audit.Recommendations[i]
		rec.ID = uuid.NewString()
		rec.AuditID = audit.ID
		if rec.Priority == 0 {
			rec.Priority = 3
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO recommendations (id, audit_id, kind, priority, sentence)
			VALUES (?, ?, ?, ?, ?)
		`, rec.ID, rec.AuditID, string(rec.Kind), rec.Priority, rec.Sentence)
		if err != nil {
			return nil, fmt.Errorf("store recommendation: %w", err)
		}
	}

	for i := range audit.Entities {
		ent := &audit.Entities[i]
		ent.ID = uuid.NewString()
		ent.AuditID = audit.ID
		_, err = tx.ExecContext(ctx, `
			INSERT INTO entities (id, audit_id, etype, value)
			VALUES (?, ?, ?, ?)
		`, ent.ID, ent.AuditID, ent.Etype, ent.Value)
		if err != nil {
			return nil, fmt.Errorf("store entity: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit audit: %w", err)
	}

	return audit, nil
}

// GetAudit returns one audit with its recommendations (ascending priority) and
// entities, or nil when absent.
func (s *Store) GetAudit(ctx context.Context, id string) (*core.Audit, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("audit id is required")
	}

	var (
		audit      core.Audit
		issuesJSON string
		createdAt  int64
	)

	row := s.DB.QueryRowContext(ctx, `
		SELECT id, url, score_who, score_what, score_where, entity_score, summary, issues, created_at
		FROM audits
		WHERE id = ?
	`, id)

	if err := row.Scan(&audit.ID, &audit.URL, &audit.ScoreWho, &audit.ScoreWhat,
		&audit.ScoreWhere, &audit.EntityScore, &audit.Summary, &issuesJSON, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch audit: %w", err)
	}

	audit.CreatedAt = time.Unix(createdAt, 0).UTC()
	audit.Issues = []string{}
	if issuesJSON != "" {
		if err := json.Unmarshal([]byte(issuesJSON), &audit.Issues); err != nil {
			return nil, fmt.Errorf("decode audit issues: %w", err)
		}
	}

	recs, err := s.listRecommendations(ctx, id)
	if err != nil {
		return nil, err
	}
	audit.Recommendations = recs

	ents, err := s.listEntities(ctx, id)
	if err != nil {
		return nil, err
	}
	audit.Entities = ents

	return &audit, nil
}

// ListAudits returns the most recent audits, newest first. A non-positive
// limit falls back to the default; the default is also the maximum.
func (s *Store) ListAudits(ctx context.Context, limit int) ([]core.AuditSummary, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, url, score_who, score_what, score_where, entity_score, created_at
		FROM audits
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list audits: %w", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup on SQL rows

	var summaries []core.AuditSummary
	for rows.Next() {
		var (
			summary   core.AuditSummary
			createdAt int64
		)
		if err := rows.Scan(&summary.ID, &summary.URL, &summary.ScoreWho, &summary.ScoreWhat,
			&summary.ScoreWhere, &summary.EntityScore, &createdAt); err != nil {
			return nil, fmt.Errorf("list audits: %w", err)
		}
		summary.CreatedAt = time.Unix(createdAt, 0).UTC()
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audits: %w", err)
	}

	return summaries, nil
}

func (s *Store) listRecommendations(ctx context.Context, auditID string) ([]core.Recommendation, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, audit_id, kind, priority, sentence
		FROM recommendations
		WHERE audit_id = ?
		ORDER BY priority ASC
	`, auditID)
	if err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup on SQL rows

	var recs []core.Recommendation
	for rows.Next() {
		var (
			rec  core.Recommendation
			kind string
		)
		if err := rows.Scan(&rec.ID, &rec.AuditID, &kind, &rec.Priority, &rec.Sentence); err != nil {
			return nil, fmt.Errorf("list recommendations: %w", err)
		}
		rec.Kind = core.RecommendationKind(kind)
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}

	return recs, nil
}

func (s *Store) listEntities(ctx context.Context, auditID string) ([]core.Entity, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, audit_id, etype, value
		FROM entities
		WHERE audit_id = ?
	`, auditID)
	if err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup on SQL rows

	var ents []core.Entity
	for rows.Next() {
		var ent core.Entity
		if err := rows.Scan(&ent.ID, &ent.AuditID, &ent.Etype, &ent.Value); err != nil {
			return nil, fmt.Errorf("list entities: %w", err)
		}
		ents = append(ents, ent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}

	return ents, nil
}
