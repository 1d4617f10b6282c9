package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/career-compass/internal/domain"
	"github.com/fairyhunter13/career-compass/internal/usecase"
)

func TestBuildEvidence(t *testing.T) {
	t.Parallel()

	resume := "Java everywhere: java services, Java tooling, and kubernetes via the k8s operator."
	jdSkills := []string{"Java", "Kubernetes", "Docker", "AWS"}
	matched := []string{"Java", "Kubernetes"}

	evidence := usecase.BuildEvidence(jdSkills, matched, resume)
	require.Len(t, evidence, 4)

	byName := map[string]domain.SkillEvidence{}
	for _, ev := range evidence {
		byName[ev.Skill] = ev
	}

	java := byName["Java"]
	assert.True(t, java.Present)
	assert.Equal(t, 3, java.Frequency)
	assert.Equal(t, domain.StrengthStrong, java.Strength)
	assert.False(t, java.GroupRep)

	// matched through the k8s synonym, so the canonical name never appears
	k8s := byName["Kubernetes"]
	assert.True(t, k8s.Present)
	assert.Equal(t, 1, k8s.Frequency)
	assert.Equal(t, domain.StrengthModerate, k8s.Strength)
	assert.False(t, k8s.GroupRep)

	docker := byName["Docker"]
	assert.False(t, docker.Present)
	assert.Equal(t, 0, docker.Frequency)
	assert.Equal(t, domain.StrengthWeak, docker.Strength)

	aws := byName["AWS"]
	assert.False(t, aws.Present)
	assert.Equal(t, domain.StrengthWeak, aws.Strength)
}

func TestBuildEvidence_GroupRepWhenOnlySynonymAppears(t *testing.T) {
	t.Parallel()

	evidence := usecase.BuildEvidence(
		[]string{"Kubernetes"}, []string{"Kubernetes"},
		"Operates k8s clusters across three regions.")
	require.Len(t, evidence, 1)
	assert.True(t, evidence[0].Present)
	assert.Equal(t, 0, evidence[0].Frequency)
	assert.True(t, evidence[0].GroupRep)
	assert.Equal(t, domain.StrengthModerate, evidence[0].Strength)
}

func TestBuildEvidence_EmptyJDSkills(t *testing.T) {
	t.Parallel()
	assert.Empty(t, usecase.BuildEvidence(nil, nil, "anything"))
}
