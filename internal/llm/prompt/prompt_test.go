package prompt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadRejectsMissingSlug(t *testing.T) {
	_, err := Load("test", []byte("system_template: hello"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing slug")
}

func TestLoadRejectsMissingSystemTemplate(t *testing.T) {
	_, err := Load("test", []byte("slug: test"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing system_template")
}

func TestDefaultRegistryContainsKnownSlugs(t *testing.T) {
	registry, err := DefaultRegistry()
	require.NoError(t, err)

	for _, slug := range []string{"audit-coach", "query-gen", "chat-assistant"} {
		p, err := registry.Get(slug)
		require.NoError(t, err, slug)
		require.NotEmpty(t, p.Config.SystemTemplate, slug)
	}
}

func TestRenderSubstitutesVariables(t *testing.T) {
	registry, err := DefaultRegistry()
	require.NoError(t, err)

	p, err := registry.Get("query-gen")
	require.NoError(t, err)

	_, user := p.Render(map[string]string{"term": "Dr. Smith"})
	require.Contains(t, user, `"Dr. Smith"`)
	require.NotContains(t, user, "{{term}}")
}

func TestRegistryRejectsDuplicateSlugs(t *testing.T) {
	a, err := Load("a", []byte("slug: dup\nsystem_template: one"))
	require.NoError(t, err)
	b, err := Load("b", []byte("slug: dup\nsystem_template: two"))
	require.NoError(t, err)

	_, err = NewRegistry([]*Prompt{a, b})
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate prompt slug")
}
