package serp

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/geolens/geolens/internal/errors"
)

func newTestClient(server *httptest.Server) *Client {
	client := NewClient(server.URL, "test-key")
	client.HTTPClient = server.Client()
	return client
}

func TestSearchRequiresAPIKey(t *testing.T) {
	client := NewClient("", "")
	_, err := client.Search(context.Background(), "who is Dr. Smith")
	require.Error(t, err)
	require.Equal(t, apperrors.CodeConfigInvalid, apperrors.Ensure(err).Code)
}

func TestSearchRequiresQuery(t *testing.T) {
	client := NewClient("", "test-key")
	_, err := client.Search(context.Background(), "  ")
	require.Error(t, err)
	require.Equal(t, apperrors.CodeInvalidInput, apperrors.Ensure(err).Code)
}

func TestSearchSendsLocaleParameters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "who is Dr. Smith", q.Get("q"))
		require.Equal(t, "test-key", q.Get("api_key"))
		require.Equal(t, "google", q.Get("engine"))
		require.Equal(t, "us", q.Get("gl"))
		require.Equal(t, "en", q.Get("hl"))
		require.Equal(t, "application/json", r.Header.Get("Accept"))

		fmt.Fprint(w, `{"search_information":{"total_results":123,"time_taken_displayed":0.42},"search_parameters":{"q":"who is Dr. Smith"}}`)
	}))
	defer server.Close()

	result, err := newTestClient(server).Search(context.Background(), "who is Dr. Smith")
	require.NoError(t, err)
	require.Nil(t, result.AIOverview)
	require.Nil(t, result.AnswerBox)
	require.Equal(t, "who is Dr. Smith", result.Metadata.Query)
	require.Equal(t, "123", result.Metadata.TotalResults.String())
}

func TestSearchExtractsAnswerBox(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"answer_box":{"result":"Open 9-5","description":"Weekday hours","type":"hours","hours_list":[{"title":"Hours","items":[{"day":"Monday","hours":"9-5"}]}]}}`)
	}))
	defer server.Close()

	result, err := newTestClient(server).Search(context.Background(), "hours")
	require.NoError(t, err)
	require.NotNil(t, result.AnswerBox)
	require.Equal(t, "Open 9-5", result.AnswerBox.Result)
	require.Equal(t, "hours", result.AnswerBox.Type)
	require.Len(t, result.AnswerBox.HoursLists, 1)
	require.Equal(t, "Monday", result.AnswerBox.HoursLists[0].Items[0].Day)
}

func TestSearchUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestClient(server).Search(context.Background(), "query")
	require.Error(t, err)
	ensured := apperrors.Ensure(err)
	require.Equal(t, apperrors.CodeExternalService, ensured.Code)
	require.Contains(t, ensured.Message, "429")
}

func TestSearchResolvesPageToken(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			fmt.Fprintf(w, `{"ai_overview":{"page_token":"tok123","serpapi_link":"%s/resolve?token=tok123"}}`, server.URL)
		case "/resolve":
			require.Equal(t, "test-key", r.URL.Query().Get("api_key"))
			require.Equal(t, "tok123", r.URL.Query().Get("token"))
			fmt.Fprint(w, `{"ai_overview":{"text_blocks":[{"type":"paragraph","snippet":"Full content"}],"references":[{"title":"Ref","link":"https://example.com","index":0}]}}`)
		default:
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer server.Close()

	result, err := newTestClient(server).Search(context.Background(), "query")
	require.NoError(t, err)
	require.NotNil(t, result.AIOverview)
	require.Empty(t, result.AIOverview.PageToken)
	require.Empty(t, result.AIOverview.SerpapiLink)
	require.Len(t, result.AIOverview.TextBlocks, 1)
	require.Equal(t, "Full content", result.AIOverview.TextBlocks[0].Snippet)
}

func TestSearchDiscardsOverviewWhenResolveFails(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			fmt.Fprintf(w, `{"ai_overview":{"page_token":"tok123","serpapi_link":"%s/resolve?token=tok123"},"answer_box":{"result":"kept"}}`, server.URL)
		case "/resolve":
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	result, err := newTestClient(server).Search(context.Background(), "query")
	require.NoError(t, err)
	require.Nil(t, result.AIOverview, "stale token object must not leak to the caller")
	require.NotNil(t, result.AnswerBox)
}

func TestSearchDiscardsOverviewWhenResolveTimesOut(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			fmt.Fprintf(w, `{"ai_overview":{"page_token":"tok123","serpapi_link":"%s/resolve?token=tok123"}}`, server.URL)
		case "/resolve":
			time.Sleep(200 * time.Millisecond)
			fmt.Fprint(w, `{"ai_overview":{"text_blocks":[]}}`)
		}
	}))
	defer server.Close()

	client := newTestClient(server)
	client.ResolveTimeout = 20 * time.Millisecond

	result, err := client.Search(context.Background(), "query")
	require.NoError(t, err)
	require.Nil(t, result.AIOverview)
}

func TestSearchDiscardsOverviewWhenResolvePayloadReportsError(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			fmt.Fprintf(w, `{"ai_overview":{"page_token":"tok123","serpapi_link":"%s/resolve?token=tok123"}}`, server.URL)
		case "/resolve":
			fmt.Fprint(w, `{"error":"token expired"}`)
		}
	}))
	defer server.Close()

	result, err := newTestClient(server).Search(context.Background(), "query")
	require.NoError(t, err)
	require.Nil(t, result.AIOverview)
}

func TestSearchAllKeysEveryIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		if strings.Contains(query, "fail") {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprintf(w, `{"search_parameters":{"q":"%s"}}`, query)
	}))
	defer server.Close()

	queries := []string{"alpha", "fail me", "gamma", "fail again", "epsilon"}
	results := newTestClient(server).SearchAll(context.Background(), queries)

	require.Len(t, results, len(queries))
	for i := range queries {
		outcome, ok := results[i]
		require.True(t, ok, "missing index %d", i)
		if strings.Contains(queries[i], "fail") {
			require.NotEmpty(t, outcome.Err)
			require.Nil(t, outcome.Result)
		} else {
			require.Empty(t, outcome.Err)
			require.Equal(t, queries[i], outcome.Result.Metadata.Query)
		}
	}
}

func TestSearchAllEmptyQueries(t *testing.T) {
	client := NewClient("", "test-key")
	results := client.SearchAll(context.Background(), nil)
	require.Empty(t, results)
}
