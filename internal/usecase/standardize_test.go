package usecase_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/career-compass/internal/usecase"
)

func TestStandardize_SynonymsCollapseAndOrder(t *testing.T) {
	t.Parallel()
	std := usecase.NewStandardizer(devTaxonomy(), nil)

	got := std.Standardize([]string{"jdk", "JAVA", "springboot", "unknown-skill", "Spring Boot"})
	assert.Equal(t, []string{"Java", "Spring Boot"}, got)
}

func TestStandardize_FiltersSoftSkillsAndDenyList(t *testing.T) {
	t.Parallel()
	std := usecase.NewStandardizer(devTaxonomy(), []string{"communication"})

	got := std.Standardize([]string{"Communication", "aws", "docker"})
	assert.Equal(t, []string{"AWS", "Docker"}, got)
}

func TestStandardize_EmptyInput(t *testing.T) {
	t.Parallel()
	std := usecase.NewStandardizer(devTaxonomy(), nil)
	assert.Empty(t, std.Standardize(nil))
	assert.Empty(t, std.Standardize([]string{"", "   "}))
}

func TestIsNoise_DenySubstringMatch(t *testing.T) {
	t.Parallel()
	std := usecase.NewStandardizer(devTaxonomy(), []string{"expert tip"})
	assert.True(t, std.IsNoise("Expert Tip: learn Go"))
	assert.False(t, std.IsNoise("Golang"))
}

func TestLoadDenyList(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "deny.yaml")
	require.NoError(t, os.WriteFile(path, []byte("deny:\n  - backend development\n  - expert tip\n"), 0o600))

	deny, err := usecase.LoadDenyList(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"backend development", "expert tip"}, deny)

	_, err = usecase.LoadDenyList(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
