package audit

import (
	"context"
	"encoding/json"

	"github.com/xeipuuv/gojsonschema"

	apperrors "github.com/geolens/geolens/internal/errors"
	"github.com/geolens/geolens/internal/llm"
	"github.com/geolens/geolens/internal/llm/prompt"
	"github.com/geolens/geolens/internal/metrics"
)

const analysisSchema = `{
	"type": "object",
	"required": ["who", "what", "where", "scores"],
	"properties": {
		"who": {
			"type": "object",
			"properties": {
				"clinic_name": {"type": "string"},
				"people": {"type": "array", "items": {"type": "string"}},
				"contacts": {
					"type": "object",
					"properties": {
						"phone": {"type": "string"},
						"email": {"type": "string"},
						"address": {"type": "string"}
					}
				}
			}
		},
		"what": {
			"type": "object",
			"properties": {
				"services": {"type": "array", "items": {"type": "string"}},
				"treatments": {"type": "array", "items": {"type": "string"}}
			}
		},
		"where": {
			"type": "object",
			"properties": {
				"cities": {"type": "array", "items": {"type": "string"}},
				"service_area": {"type": "array", "items": {"type": "string"}}
			}
		},
		"scores": {
			"type": "object",
			"required": ["who", "what", "where", "entity"],
			"properties": {
				"who": {"type": "number", "minimum": 0, "maximum": 100},
				"what": {"type": "number", "minimum": 0, "maximum": 100},
				"where": {"type": "number", "minimum": 0, "maximum": 100},
				"entity": {"type": "number", "minimum": 0, "maximum": 100}
			}
		},
		"issues": {"type": "array", "items": {"type": "string"}},
		"sentences": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["text", "kind", "priority"],
				"properties": {
					"text": {"type": "string", "minLength": 1},
					"kind": {"type": "string", "enum": ["who", "what", "where", "general"]},
					"priority": {"type": "integer", "minimum": 1, "maximum": 5},
					"rationale": {"type": "string"}
				}
			}
		},
		"extracted_entities": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["etype", "value"],
				"properties": {
					"etype": {"type": "string"},
					"value": {"type": "string"}
				}
			}
		},
		"summary": {"type": "string"}
	}
}`

var analysisSchemaLoader = gojsonschema.NewStringLoader(analysisSchema)

// Contacts holds the contact facts extracted for the who dimension.
type Contacts struct {
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// Who captures identity coverage of the audited page.
type Who struct {
	ClinicName string   `json:"clinic_name,omitempty"`
	People     []string `json:"people,omitempty"`
	Contacts   Contacts `json:"contacts"`
}

// What captures service coverage of the audited page.
type What struct {
	Services   []string `json:"services,omitempty"`
	Treatments []string `json:"treatments,omitempty"`
}

// Where captures geographic coverage of the audited page.
type Where struct {
	Cities      []string `json:"cities,omitempty"`
	ServiceArea []string `json:"service_area,omitempty"`
}

// Scores are the four 0-100 dimension scores.
type Scores struct {
	Who    int `json:"who"`
	What   int `json:"what"`
	Where  int `json:"where"`
	Entity int `json:"entity"`
}

// Sentence is one recommended literal sentence with its dimension tag and
// priority. Rationale is advisory and not persisted.
type Sentence struct {
	Text      string `json:"text"`
	Kind      string `json:"kind"`
	Priority  int    `json:"priority"`
	Rationale string `json:"rationale,omitempty"`
}

// ExtractedEntity is one structured fact the model pulled from the page.
type ExtractedEntity struct {
	Etype string `json:"etype"`
	Value string `json:"value"`
}

// Analysis is the validated model output for one audited page.
type Analysis struct {
	Who               Who               `json:"who"`
	What              What              `json:"what"`
	Where             Where             `json:"where"`
	Scores            Scores            `json:"scores"`
	Issues            []string          `json:"issues"`
	Sentences         []Sentence        `json:"sentences"`
	ExtractedEntities []ExtractedEntity `json:"extracted_entities"`
	Summary           string            `json:"summary,omitempty"`
}

// Analyzer submits sanitized page content to the LLM with the coaching prompt
// and validates the structured output.
type Analyzer struct {
	Driver   llm.Driver
	Registry prompt.Registry
	Model    string
}

// Analyze runs the coaching prompt against sanitized page content. Output that
// violates the analysis schema is a hard failure, never partially accepted.
func (a *Analyzer) Analyze(ctx context.Context, content string) (*Analysis, error) {
	if a == nil || a.Driver == nil || a.Registry == nil {
		return nil, apperrors.NewConfigInvalid("audit analyzer not configured")
	}

	def, err := a.Registry.Get("audit-coach")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConfigInvalid, "audit prompt missing", err)
	}
	system, user := def.Render(map[string]string{"html": content})

	resp, err := a.Driver.Complete(ctx, &llm.Request{
		Model: a.Model,
		Messages: []llm.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: &llm.ResponseFormat{Type: "json_object"},
	})
	if err != nil {
		metrics.RecordProviderRequest(a.Driver.Name(), "error")
		return nil, apperrors.Wrap(apperrors.CodeExternalService, "Failed to analyze page", err)
	}
	metrics.RecordProviderRequest(a.Driver.Name(), "ok")

	return decodeAnalysis([]byte(resp.Content))
}

func decodeAnalysis(raw []byte) (*Analysis, error) {
	result, err := gojsonschema.Validate(analysisSchemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeSchemaInvalid, "analysis output is not valid JSON", err)
	}
	if !result.Valid() {
		return nil, apperrors.NewSchemaInvalid("analysis output failed validation: " + result.Errors()[0].String())
	}

	var analysis Analysis
	if err := json.Unmarshal(raw, &analysis); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeSchemaInvalid, "decode analysis output", err)
	}
	if analysis.Issues == nil {
		analysis.Issues = []string{}
	}

	return &analysis, nil
}
