package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/career-compass/internal/cache"
	"github.com/fairyhunter13/career-compass/internal/domain"
	"github.com/fairyhunter13/career-compass/internal/usecase"
)

func newAnalyzeService(ai *fakeAI) (*usecase.AnalyzeService, *usecase.ProfileService) {
	tax := devTaxonomy()
	std := usecase.NewStandardizer(tax, nil)
	caches := cache.NewLayered()
	rag := usecase.NewContextAssembler(&fakeStore{}, caches)
	profiles := usecase.NewProfileService(ai, tax, std, rag, caches)
	return usecase.NewAnalyzeService(ai, tax, std, profiles), profiles
}

func TestAnalyze_RejectsEmptyInputs(t *testing.T) {
	t.Parallel()
	svc, _ := newAnalyzeService(&fakeAI{})

	_, err := svc.Analyze(context.Background(), "", "resume")
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = svc.Analyze(context.Background(), "jd", "   ")
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestAnalyze_ProfilerFailureSurfaced(t *testing.T) {
	t.Parallel()
	svc, _ := newAnalyzeService(&fakeAI{chatErr: errors.New("model down")})

	_, err := svc.Analyze(context.Background(), "hiring a backend engineer", "java developer resume")
	require.ErrorIs(t, err, domain.ErrAnalysisUnavailable)
}

func TestAnalyze_EndToEnd(t *testing.T) {
	t.Parallel()
	ai := &fakeAI{chatOut: []string{profilerJSON}}
	svc, profiles := newAnalyzeService(ai)

	jd := "We need Java, Spring Boot and AWS experience."
	resume := "Seasoned java developer who ships spring boot services."

	result, err := svc.Analyze(context.Background(), jd, resume)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"Java", "Spring Boot", "AWS"}, result.JDSkills)
	assert.ElementsMatch(t, []string{"Java", "Spring Boot"}, result.MatchedSkills)
	assert.Equal(t, []string{"AWS"}, result.MissingSkills)

	// matched and missing never overlap
	for _, m := range result.MissingSkills {
		assert.NotContains(t, result.MatchedSkills, m)
	}

	// the only mandatory skill (Java) is present, so no penalty applies
	assert.Equal(t, 1.0, result.Breakdown.Penalty)
	assert.Greater(t, result.Score, float64(0))
	assert.NotEmpty(t, result.MatchLevel)
	assert.Equal(t, "Backend Engineer", result.JobTitle)

	// evidence covers every JD skill; AWS is the only absent one
	require.Len(t, result.Evidence, 3)
	bySkill := map[string]domain.SkillEvidence{}
	for _, ev := range result.Evidence {
		bySkill[ev.Skill] = ev
	}
	assert.True(t, bySkill["Java"].Present)
	assert.Equal(t, 1, bySkill["Java"].Frequency)
	assert.Equal(t, domain.StrengthModerate, bySkill["Java"].Strength)
	assert.False(t, bySkill["AWS"].Present)
	assert.Equal(t, domain.StrengthWeak, bySkill["AWS"].Strength)

	// the corrected lists and score are synced back for the chat path
	p, err := profiles.CachedProfile(context.Background(), jd, resume)
	require.NoError(t, err)
	assert.Equal(t, result.Score, p.FitScore)
	assert.Equal(t, result.MissingSkills, p.MissingSkills)
	assert.Equal(t, 1, ai.chatCalls)
}

func TestAnalyze_SkillTipsEnrichedFromTaxonomy(t *testing.T) {
	t.Parallel()
	ai := &fakeAI{chatOut: []string{profilerJSON}}
	svc, _ := newAnalyzeService(ai)

	result, err := svc.Analyze(context.Background(),
		"We need Java, Spring Boot and AWS experience.",
		"Seasoned java developer who ships spring boot services.")
	require.NoError(t, err)

	// AWS is missing and has curated advice, which leads the tips
	require.NotEmpty(t, result.SkillTips)
	assert.Contains(t, result.SkillTips[0], "developer associate")
	assert.LessOrEqual(t, len(result.SkillTips), 2)
	assert.LessOrEqual(t, len(result.ResumeTips), 2)
	assert.Equal(t, []string{"Earn a cloud certification.", "Contribute to open source."}, result.ProTips)
}

func TestAnalyze_TaxonomyScanSupplementsResumeSkills(t *testing.T) {
	t.Parallel()
	// the profiler reports no strong skills, but the resume names Docker
	ai := &fakeAI{chatOut: []string{`{"jdRequiredSkills":["docker"],"jdRole":"DevOps"}`}}
	svc, _ := newAnalyzeService(ai)

	result, err := svc.Analyze(context.Background(),
		"Looking for docker experience in production.",
		"I run docker in production every day.")
	require.NoError(t, err)

	assert.Equal(t, []string{"Docker"}, result.ResumeSkills)
	assert.Equal(t, []string{"Docker"}, result.MatchedSkills)
	assert.Empty(t, result.MissingSkills)
	assert.Equal(t, 1.0, result.Breakdown.Penalty)
}
