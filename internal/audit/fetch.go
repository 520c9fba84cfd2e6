package audit

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	apperrors "github.com/geolens/geolens/internal/errors"
)

const (
	defaultUserAgent = "Mozilla/5.0 (compatible; GeoLens/1.0)"
	acceptHeader     = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

// Page is a fetched homepage document.
type Page struct {
	URL   string
	Title string
	HTML  string
}

// Fetcher retrieves homepage documents with a fixed browser-compatible
// identity.
type Fetcher struct {
	UserAgent  string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// NewFetcher returns a fetcher with defaults applied.
func NewFetcher(userAgent string, timeout time.Duration) *Fetcher {
	if strings.TrimSpace(userAgent) == "" {
		userAgent = defaultUserAgent
	}
	return &Fetcher{UserAgent: userAgent, Timeout: timeout}
}

// Fetch retrieves the target URL and extracts the page title. Any failure,
// including a non-2xx status, is an upstream error the caller reports as a
// bad-request condition.
func (f *Fetcher) Fetch(ctx context.Context, target string) (*Page, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, apperrors.NewValidationError("URL is required")
	}

	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid target URL", err)
	}
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Accept", acceptHeader)

	client := f.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeExternalService, "Failed to fetch URL", err)
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup on HTTP response body

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, apperrors.New(apperrors.CodeExternalService,
			fmt.Sprintf("Failed to fetch URL: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeExternalService, "read target page", err)
	}

	page := &Page{URL: target, HTML: string(body)}
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML)); err == nil {
		page.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	return page, nil
}
