package perplexity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	apperrors "github.com/geolens/geolens/internal/errors"
	"github.com/geolens/geolens/internal/llm"
	"github.com/geolens/geolens/internal/metrics"
)

const (
	defaultBaseURL = "https://api.perplexity.ai"
	defaultModel   = "llama-3.1-sonar-small-128k-online"
	providerName   = "perplexity"

	systemPrompt = "You are a helpful assistant that provides accurate, up-to-date information about local businesses and services. Focus on providing factual, location-specific information when available."
)

// Client executes grounded search queries against the Perplexity
// chat-completions endpoint with fixed sampling and recency parameters.
type Client struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

// NewClient returns a client with defaults applied.
func NewClient(baseURL, apiKey, model string) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	return &Client{
		BaseURL: base,
		APIKey:  strings.TrimSpace(apiKey),
		Model:   model,
	}
}

type chatRequest struct {
	Model              string        `json:"model"`
	Messages           []llm.Message `json:"messages"`
	MaxTokens          int           `json:"max_tokens"`
	Temperature        float64       `json:"temperature"`
	TopP               float64       `json:"top_p"`
	ReturnCitations    bool          `json:"return_citations"`
	SearchDomainFilter []string      `json:"search_domain_filter"`
	SearchRecency      string        `json:"search_recency_filter"`
}

// Search executes one query and maps the completion into a normalized answer.
// Missing content falls back to a placeholder string; missing citations become
// an empty list.
func (c *Client) Search(ctx context.Context, query string) (*Answer, error) {
	if c == nil || strings.TrimSpace(c.APIKey) == "" {
		return nil, apperrors.NewConfigInvalid("Perplexity API key not configured")
	}

	q := strings.TrimSpace(query)
	if q == "" {
		return nil, apperrors.NewInvalidInput("Query is required")
	}

	payload, err := c.post(ctx, &chatRequest{
		Model: c.Model,
		Messages: []llm.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: q},
		},
		MaxTokens:          1000,
		Temperature:        0.2,
		TopP:               0.9,
		ReturnCitations:    true,
		SearchDomainFilter: []string{"perplexity.ai"},
		SearchRecency:      "month",
	})
	if err != nil {
		metrics.RecordProviderRequest(providerName, "error")
		return nil, err
	}
	metrics.RecordProviderRequest(providerName, "ok")

	answer := &Answer{
		Query:     q,
		Answer:    "No response received",
		Citations: []Citation{},
		Model:     payload.Model,
		Usage:     payload.Usage,
		Metadata: Metadata{
			Query:     q,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}
	if len(payload.Choices) > 0 && payload.Choices[0].Message.Content != "" {
		answer.Answer = payload.Choices[0].Message.Content
	}
	if len(payload.Citations) > 0 {
		answer.Citations = payload.Citations
	}

	return answer, nil
}

// SearchMany dispatches every query concurrently and returns one outcome per
// query in input order. One query's failure is recorded at its own index and
// never aborts its siblings. The missing-key check runs once, before dispatch.
func (c *Client) SearchMany(ctx context.Context, queries []string) ([]Outcome, error) {
	if c == nil || strings.TrimSpace(c.APIKey) == "" {
		return nil, apperrors.NewConfigInvalid("Perplexity API key not configured")
	}

	results := make([]Outcome, len(queries))
	if len(queries) == 0 {
		return results, nil
	}

	var wg sync.WaitGroup
	for i, query := range queries {
		wg.Add(1)
		go func(index int, q string) {
			defer wg.Done()

			answer, err := c.Search(ctx, q)
			if err != nil {
				results[index] = Outcome{Err: err.Error()}
				return
			}
			results[index] = Outcome{Answer: answer}
		}(i, query)
	}
	wg.Wait()

	return results, nil
}

func (c *Client) post(ctx context.Context, body *chatRequest) (*chatResponse, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "encode search request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(c.BaseURL, "/")+"/chat/completions", bytes.NewReader(encoded))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "build search request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeExternalService, "Perplexity request failed", err)
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup on HTTP response body

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeExternalService, "read Perplexity response", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, apperrors.New(apperrors.CodeExternalService,
			fmt.Sprintf("Perplexity API request failed: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
	}

	var payload chatResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeExternalService, "decode Perplexity response", err)
	}

	return &payload, nil
}
