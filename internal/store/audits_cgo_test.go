//go:build cgo

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geolens/geolens/internal/config"
	"github.com/geolens/geolens/internal/core"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	ctx := context.Background()
	store, err := Open(ctx, config.StoreConfig{Driver: "libsql", Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(ctx))
	return store
}

func TestAuditRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	created, err := store.CreateAudit(ctx, &core.Audit{
		URL:         "https://example-dental.com",
		ScoreWho:    70,
		ScoreWhat:   55,
		ScoreWhere:  40,
		EntityScore: 62,
		Summary:     "Good who coverage, weak where.",
		Issues:      []string{"No city named on the homepage"},
		Recommendations: []core.Recommendation{
			{Kind: core.KindWho, Priority: 2, Sentence: "A"},
			{Kind: core.KindWhat, Priority: 1, Sentence: "B"},
		},
		Entities: []core.Entity{
			{Etype: "phone", Value: "555-0100"},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := store.GetAudit(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "https://example-dental.com", got.URL)
	require.Equal(t, []string{"No city named on the homepage"}, got.Issues)

	require.Len(t, got.Recommendations, 2)
	require.Equal(t, "B", got.Recommendations[0].Sentence, "priority 1 first")
	require.Equal(t, "A", got.Recommendations[1].Sentence)

	require.Len(t, got.Entities, 1)
	require.Equal(t, "phone", got.Entities[0].Etype)
}

func TestGetAuditAbsent(t *testing.T) {
	store := openTestStore(t)

	got, err := store.GetAudit(context.Background(), "no-such-id")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestListAuditsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	for _, url := range []string{"https://a.example", "https://b.example"} {
		_, err := store.CreateAudit(ctx, &core.Audit{URL: url})
		require.NoError(t, err)
		// distinct created_at values so ordering is deterministic
		_, err = store.DB.ExecContext(ctx,
			"UPDATE audits SET created_at = created_at + (SELECT COUNT(*) FROM audits) WHERE url = ?", url)
		require.NoError(t, err)
	}

	summaries, err := store.ListAudits(ctx, 0)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	require.Equal(t, "https://b.example", summaries[0].URL)
	require.Equal(t, "https://a.example", summaries[1].URL)
}

func TestListAuditsHonorsLimit(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	for i := 0; i < 3; i++ {
		_, err := store.CreateAudit(ctx, &core.Audit{URL: "https://example.com"})
		require.NoError(t, err)
	}

	summaries, err := store.ListAudits(ctx, 2)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
}
