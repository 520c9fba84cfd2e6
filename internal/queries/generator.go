package queries

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "github.com/geolens/geolens/internal/errors"
	"github.com/geolens/geolens/internal/llm"
	"github.com/geolens/geolens/internal/llm/prompt"
	"github.com/geolens/geolens/internal/metrics"
)

// QueryCount is the fixed number of queries generated per subject. The five
// positions follow a fixed intent order: identity, services, service area,
// hours, and one free slot.
const QueryCount = 5

const querySchema = `{
	"type": "object",
	"required": ["queries"],
	"properties": {
		"queries": {
			"type": "array",
			"items": {"type": "string", "minLength": 1},
			"minItems": 5,
			"maxItems": 5
		}
	}
}`

var querySchemaLoader = gojsonschema.NewStringLoader(querySchema)

// Generator turns a free-text subject into five search queries via the LLM driver.
type Generator struct {
	Driver   llm.Driver
	Registry prompt.Registry
	Model    string
}

// Generate produces exactly five queries for the given search term. Model output
// that cannot be coerced to five strings is a hard schema failure, never padded
// or truncated.
func (g *Generator) Generate(ctx context.Context, searchTerm string) ([]string, error) {
	if g == nil || g.Driver == nil || g.Registry == nil {
		return nil, apperrors.NewConfigInvalid("query generator not configured")
	}

	term := strings.TrimSpace(searchTerm)
	if term == "" {
		return nil, apperrors.NewInvalidInput("Search term is required")
	}

	def, err := g.Registry.Get("query-gen")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConfigInvalid, "query prompt missing", err)
	}
	system, user := def.Render(map[string]string{"term": term})

	resp, err := g.Driver.Complete(ctx, &llm.Request{
		Model: g.Model,
		Messages: []llm.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: &llm.ResponseFormat{Type: "json_object"},
	})
	if err != nil {
		metrics.RecordProviderRequest(g.Driver.Name(), "error")
		return nil, apperrors.Wrap(apperrors.CodeExternalService, "Failed to generate queries", err)
	}
	metrics.RecordProviderRequest(g.Driver.Name(), "ok")

	queries, err := decodeQueries([]byte(resp.Content))
	if err != nil {
		return nil, err
	}

	return queries, nil
}

func decodeQueries(raw []byte) ([]string, error) {
	result, err := gojsonschema.Validate(querySchemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeSchemaInvalid, "query output is not valid JSON", err)
	}
	if !result.Valid() {
		return nil, apperrors.NewSchemaInvalid("query output failed validation: " + result.Errors()[0].String())
	}

	var parsed struct {
		Queries []string `json:"queries"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeSchemaInvalid, "decode query output", err)
	}

	return parsed.Queries, nil
}
