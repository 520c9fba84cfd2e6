package audit

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geolens/geolens/internal/core"
	apperrors "github.com/geolens/geolens/internal/errors"
)

type stubStore struct {
	created *core.Audit
	getErr  error
}

func (s *stubStore) CreateAudit(ctx context.Context, audit *core.Audit) (*core.Audit, error) {
	audit.ID = "audit-1"
	for i := range audit.Recommendations {
		audit.Recommendations[i].AuditID = audit.ID
	}
	s.created = audit
	return audit, nil
}

func (s *stubStore) GetAudit(ctx context.Context, id string) (*core.Audit, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.created, nil
}

func newPipeline(t *testing.T, driver *stubDriver, store *stubStore, client *http.Client) *Pipeline {
	t.Helper()
	fetcher := NewFetcher("", 0)
	fetcher.HTTPClient = client
	return &Pipeline{
		Fetcher:  fetcher,
		Analyzer: newAnalyzer(t, driver),
		Store:    store,
	}
}

func TestPipelineRequiresTarget(t *testing.T) {
	pipeline := newPipeline(t, &stubDriver{}, &stubStore{}, nil)

	_, err := pipeline.Run(context.Background(), "")
	require.Error(t, err)
	require.Equal(t, apperrors.CodeValidationFailed, apperrors.Ensure(err).Code)
}

func TestPipelineUnreachableTargetCreatesNoRow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	store := &stubStore{}
	pipeline := newPipeline(t, &stubDriver{}, store, server.Client())

	_, err := pipeline.Run(context.Background(), server.URL)
	require.Error(t, err)
	require.Equal(t, apperrors.CodeInvalidInput, apperrors.Ensure(err).Code)
	require.Nil(t, store.created, "no audit row on fetch failure")
}

func TestPipelineComposesAudit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Example Dental</title></head><body>content</body></html>`)
	}))
	defer server.Close()

	store := &stubStore{}
	pipeline := newPipeline(t, &stubDriver{content: validAnalysis}, store, server.Client())

	audit, err := pipeline.Run(context.Background(), server.URL)
	require.NoError(t, err)
	require.Equal(t, "audit-1", audit.ID)
	require.Equal(t, server.URL, audit.URL)
	require.Equal(t, 62, audit.EntityScore)
	require.Len(t, audit.Recommendations, 2)
	require.Equal(t, core.KindWhat, audit.Recommendations[0].Kind)
	require.Len(t, audit.Entities, 1)
}

func TestPipelineAnalysisFailureIsGeneric(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>content</body></html>`)
	}))
	defer server.Close()

	store := &stubStore{}
	pipeline := newPipeline(t, &stubDriver{content: "not json"}, store, server.Client())

	_, err := pipeline.Run(context.Background(), server.URL)
	require.Error(t, err)
	ensured := apperrors.Ensure(err)
	require.Equal(t, apperrors.CodeInternal, ensured.Code)
	require.Equal(t, "Failed to process audit", ensured.Message)
	require.Nil(t, store.created)
}
