package serp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/geolens/geolens/internal/errors"
	"github.com/geolens/geolens/internal/metrics"
)

const (
	defaultBaseURL        = "https://serpapi.com"
	defaultResolveTimeout = 15 * time.Second
	providerName          = "serpapi"
)

// Client executes queries against the SerpAPI search endpoint with fixed US
// English locale parameters.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client

	// ResolveTimeout bounds the follow-up fetch that resolves a paginated
	// AI overview. The primary search call is bounded by the caller's context.
	ResolveTimeout time.Duration
}

// NewClient returns a client with defaults applied.
func NewClient(baseURL, apiKey string) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		BaseURL:        base,
		APIKey:         strings.TrimSpace(apiKey),
		ResolveTimeout: defaultResolveTimeout,
	}
}

// Search executes one query and returns the normalized result. A partial AI
// overview is resolved transparently before returning: the final payload either
// carries full overview content or no overview at all, never a continuation
// token.
func (c *Client) Search(ctx context.Context, query string) (*Result, error) {
	if c == nil || strings.TrimSpace(c.APIKey) == "" {
		return nil, apperrors.NewConfigInvalid("SerpAPI key not configured")
	}

	q := strings.TrimSpace(query)
	if q == "" {
		return nil, apperrors.NewInvalidInput("Query is required")
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("api_key", c.APIKey)
	params.Set("engine", "google")
	params.Set("gl", "us")
	params.Set("hl", "en")

	payload, err := c.get(ctx, strings.TrimRight(c.BaseURL, "/")+"/search?"+params.Encode())
	if err != nil {
		metrics.RecordProviderRequest(providerName, "error")
		return nil, err
	}
	metrics.RecordProviderRequest(providerName, "ok")

	overview := payload.AIOverview
	if overview != nil && overview.PageToken != "" {
		overview = c.resolveOverview(ctx, overview)
	}

	result := &Result{
		AIOverview: overview,
		AnswerBox:  payload.AnswerBox,
		Metadata:   &Metadata{Query: q},
	}
	if payload.SearchInformation != nil {
		result.Metadata.TotalResults = payload.SearchInformation.TotalResults
		result.Metadata.TimeTaken = payload.SearchInformation.TimeTakenDisplayed
	}
	if payload.SearchParameters != nil && payload.SearchParameters.Q != "" {
		result.Metadata.Query = payload.SearchParameters.Q
	}

	return result, nil
}

// resolveOverview performs the second phase of the paginated overview fetch.
// Any failure discards the overview so callers never see a dangling token.
func (c *Client) resolveOverview(ctx context.Context, partial *AIOverview) *AIOverview {
	link := strings.TrimSpace(partial.SerpapiLink)
	if link == "" {
		return nil
	}

	timeout := c.ResolveTimeout
	if timeout <= 0 {
		timeout = defaultResolveTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resolved, err := c.get(ctx, link+"&api_key="+url.QueryEscape(c.APIKey))
	if err != nil || resolved.Error != "" || resolved.AIOverview == nil {
		return nil
	}

	full := resolved.AIOverview
	full.PageToken = ""
	full.SerpapiLink = ""
	return full
}

func (c *Client) get(ctx context.Context, rawURL string) (*searchResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "build search request", err)
	}
	req.Header.Set("Accept", "application/json")

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeExternalService, "SerpAPI request failed", err)
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup on HTTP response body

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, apperrors.New(apperrors.CodeExternalService,
			fmt.Sprintf("SerpAPI request failed: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeExternalService, "read SerpAPI response", err)
	}

	var payload searchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeExternalService, "decode SerpAPI response", err)
	}

	return &payload, nil
}
