package core

import "time"

// RecommendationKind tags a recommended sentence with the local-SEO dimension
// it strengthens.
type RecommendationKind string

const (
	KindWho     RecommendationKind = "who"
	KindWhat    RecommendationKind = "what"
	KindWhere   RecommendationKind = "where"
	KindGeneral RecommendationKind = "general"
)

// Recommendation is one literal, quotable sentence the business can paste into
// its homepage copy. Priority 1 is most urgent; 5 is least.
type Recommendation struct {
	ID       string             `json:"id"`
	AuditID  string             `json:"audit_id"`
	Kind     RecommendationKind `json:"kind"`
	Priority int                `json:"priority"`
	Sentence string             `json:"sentence"`
}

// Entity is one structured fact extracted from the audited page, such as a
// phone number, address, or service.
type Entity struct {
	ID      string `json:"id"`
	AuditID string `json:"audit_id"`
	Etype   string `json:"etype"`
	Value   string `json:"value"`
}

// Audit is one homepage analysis with its 0-100 dimension scores and the
// issues blocking AI answer surfaces.
type Audit struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	ScoreWho    int       `json:"score_who"`
	ScoreWhat   int       `json:"score_what"`
	ScoreWhere  int       `json:"score_where"`
	EntityScore int       `json:"entity_score"`
	Summary     string    `json:"summary"`
	Issues      []string  `json:"issues"`
	CreatedAt   time.Time `json:"created_at"`

	Recommendations []Recommendation `json:"recommendations,omitempty"`
	Entities        []Entity         `json:"entities,omitempty"`
}

// AuditSummary carries the listing fields of an audit without its relations.
type AuditSummary struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	ScoreWho    int       `json:"score_who"`
	ScoreWhat   int       `json:"score_what"`
	ScoreWhere  int       `json:"score_where"`
	EntityScore int       `json:"entity_score"`
	CreatedAt   time.Time `json:"created_at"`
}
