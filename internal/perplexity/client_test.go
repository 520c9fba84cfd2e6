package perplexity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/geolens/geolens/internal/errors"
)

func newTestClient(server *httptest.Server) *Client {
	client := NewClient(server.URL, "test-key", "")
	client.HTTPClient = server.Client()
	return client
}

func TestSearchRequiresAPIKey(t *testing.T) {
	client := NewClient("", "", "")
	_, err := client.Search(context.Background(), "who is Dr. Smith")
	require.Error(t, err)
	require.Equal(t, apperrors.CodeConfigInvalid, apperrors.Ensure(err).Code)
}

func TestSearchSendsFixedParameters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "llama-3.1-sonar-small-128k-online", req.Model)
		require.Len(t, req.Messages, 2)
		require.Equal(t, "system", req.Messages[0].Role)
		require.Equal(t, "who is Dr. Smith", req.Messages[1].Content)
		require.Equal(t, 1000, req.MaxTokens)
		require.Equal(t, 0.2, req.Temperature)
		require.Equal(t, 0.9, req.TopP)
		require.True(t, req.ReturnCitations)
		require.Equal(t, "month", req.SearchRecency)

		fmt.Fprint(w, `{"model":"llama-3.1-sonar-small-128k-online","choices":[{"message":{"content":"Dr. Smith is a dentist in Austin."}}],"citations":["https://example.com/smith"],"usage":{"prompt_tokens":40,"completion_tokens":20,"total_tokens":60}}`)
	}))
	defer server.Close()

	answer, err := newTestClient(server).Search(context.Background(), "who is Dr. Smith")
	require.NoError(t, err)
	require.Equal(t, "Dr. Smith is a dentist in Austin.", answer.Answer)
	require.Equal(t, "who is Dr. Smith", answer.Metadata.Query)
	require.NotEmpty(t, answer.Metadata.Timestamp)
	require.Equal(t, 60, answer.Usage.TotalTokens)
	require.Len(t, answer.Citations, 1)
	require.Equal(t, "https://example.com/smith", answer.Citations[0].URL)
}

func TestSearchFallsBackWhenContentMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"model":"llama-3.1-sonar-small-128k-online","choices":[]}`)
	}))
	defer server.Close()

	answer, err := newTestClient(server).Search(context.Background(), "query")
	require.NoError(t, err)
	require.Equal(t, "No response received", answer.Answer)
	require.NotNil(t, answer.Citations)
	require.Empty(t, answer.Citations)
}

func TestSearchUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(server).Search(context.Background(), "query")
	require.Error(t, err)
	ensured := apperrors.Ensure(err)
	require.Equal(t, apperrors.CodeExternalService, ensured.Code)
	require.Contains(t, ensured.Message, "502")
}

func TestCitationDecodesBothShapes(t *testing.T) {
	var citations []Citation
	raw := `["https://example.com/a",{"text":"Example","url":"https://example.com/b","title":"Example B"}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &citations))
	require.Len(t, citations, 2)
	require.Equal(t, "https://example.com/a", citations[0].URL)
	require.Empty(t, citations[0].Title)
	require.Equal(t, "https://example.com/b", citations[1].URL)
	require.Equal(t, "Example B", citations[1].Title)
}

func TestSearchManyIsolatesFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if strings.Contains(req.Messages[1].Content, "b") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprintf(w, `{"choices":[{"message":{"content":"answer for %s"}}]}`, req.Messages[1].Content)
	}))
	defer server.Close()

	results, err := newTestClient(server).SearchMany(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.Empty(t, results[0].Err)
	require.Equal(t, "answer for a", results[0].Answer.Answer)

	require.NotEmpty(t, results[1].Err)
	require.Nil(t, results[1].Answer)
}

func TestSearchManyRejectsMissingKeyBeforeDispatch(t *testing.T) {
	client := NewClient("", "", "")
	_, err := client.SearchMany(context.Background(), []string{"a", "b"})
	require.Error(t, err)
	require.Equal(t, apperrors.CodeConfigInvalid, apperrors.Ensure(err).Code)
}

func TestOutcomeMarshalsErrorPlaceholder(t *testing.T) {
	encoded, err := json.Marshal([]Outcome{
		{Answer: &Answer{Answer: "ok", Citations: []Citation{}}},
		{Err: "upstream down"},
	})
	require.NoError(t, err)
	require.Contains(t, string(encoded), `"answer":"ok"`)
	require.Contains(t, string(encoded), `{"error":"upstream down"}`)
}
