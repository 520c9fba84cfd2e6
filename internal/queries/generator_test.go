package queries

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/geolens/geolens/internal/errors"
	"github.com/geolens/geolens/internal/llm"
	"github.com/geolens/geolens/internal/llm/prompt"
)

type stubDriver struct {
	content string
	err     error
	lastReq *llm.Request
}

func (s *stubDriver) Complete(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &llm.Response{Content: s.content, FinishReason: "stop"}, nil
}

func (s *stubDriver) Name() string { return "stub" }

func newGenerator(t *testing.T, driver llm.Driver) *Generator {
	t.Helper()
	registry, err := prompt.DefaultRegistry()
	require.NoError(t, err)
	return &Generator{Driver: driver, Registry: registry, Model: "test-model"}
}

func TestGenerateReturnsFiveQueries(t *testing.T) {
	driver := &stubDriver{content: `{"queries":["who is Dr. Smith","what does Dr. Smith do","what area does Dr. Smith serve","what hours is Dr. Smith open","Dr. Smith reviews"]}`}
	gen := newGenerator(t, driver)

	queries, err := gen.Generate(context.Background(), "Dr. Smith")
	require.NoError(t, err)
	require.Len(t, queries, QueryCount)
	require.Equal(t, "who is Dr. Smith", queries[0])

	require.NotNil(t, driver.lastReq)
	require.Equal(t, "json_object", driver.lastReq.ResponseFormat.Type)
	require.Contains(t, driver.lastReq.Messages[1].Content, `"Dr. Smith"`)
}

func TestGenerateRejectsWrongCount(t *testing.T) {
	driver := &stubDriver{content: `{"queries":["only","four","queries","here"]}`}
	gen := newGenerator(t, driver)

	_, err := gen.Generate(context.Background(), "Dr. Smith")
	require.Error(t, err)
	require.Equal(t, apperrors.CodeSchemaInvalid, apperrors.Ensure(err).Code)
}

func TestGenerateRejectsWrongType(t *testing.T) {
	driver := &stubDriver{content: `{"queries":["a","b","c","d",5]}`}
	gen := newGenerator(t, driver)

	_, err := gen.Generate(context.Background(), "Dr. Smith")
	require.Error(t, err)
	require.Equal(t, apperrors.CodeSchemaInvalid, apperrors.Ensure(err).Code)
}

func TestGenerateRejectsMalformedJSON(t *testing.T) {
	driver := &stubDriver{content: `not json`}
	gen := newGenerator(t, driver)

	_, err := gen.Generate(context.Background(), "Dr. Smith")
	require.Error(t, err)
	require.Equal(t, apperrors.CodeSchemaInvalid, apperrors.Ensure(err).Code)
}

func TestGenerateRequiresSearchTerm(t *testing.T) {
	gen := newGenerator(t, &stubDriver{})

	_, err := gen.Generate(context.Background(), "   ")
	require.Error(t, err)
	require.Equal(t, apperrors.CodeInvalidInput, apperrors.Ensure(err).Code)
}

func TestGenerateWrapsDriverFailure(t *testing.T) {
	driver := &stubDriver{err: &llm.ProviderError{Provider: "stub", StatusCode: 500, Message: "down"}}
	gen := newGenerator(t, driver)

	_, err := gen.Generate(context.Background(), "Dr. Smith")
	require.Error(t, err)
	require.Equal(t, apperrors.CodeExternalService, apperrors.Ensure(err).Code)
}
