package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/fairyhunter13/career-compass/internal/adapter/observability"
	"github.com/fairyhunter13/career-compass/internal/domain"
	obsctx "github.com/fairyhunter13/career-compass/internal/observability"
	"github.com/fairyhunter13/career-compass/pkg/textx"
)

// AnalyzeService runs the full matching pipeline for one JD x resume pair.
type AnalyzeService struct {
	ai       domain.AIClient
	tax      domain.Taxonomy
	std      *Standardizer
	profiles *ProfileService
}

// NewAnalyzeService constructs the orchestrator.
func NewAnalyzeService(ai domain.AIClient, tax domain.Taxonomy, std *Standardizer, profiles *ProfileService) *AnalyzeService {
	return &AnalyzeService{ai: ai, tax: tax, std: std, profiles: profiles}
}

// Analyze validates inputs, obtains the (cached) profile, pre-computes all
// embeddings in one batch, scores, reconciles, and returns the corrected
// result. Matched and missing lists are disjoint on return.
func (s *AnalyzeService) Analyze(ctx context.Context, jdText, resumeText string) (domain.AnalysisResult, error) {
	jdText = textx.SanitizeText(jdText)
	resumeText = textx.SanitizeText(resumeText)
	if jdText == "" {
		return domain.AnalysisResult{}, fmt.Errorf("%w: job description is empty", domain.ErrInvalidArgument)
	}
	if resumeText == "" {
		return domain.AnalysisResult{}, fmt.Errorf("%w: resume text is empty", domain.ErrInvalidArgument)
	}
	lg := obsctx.Logger(ctx)
	lg.Info("analysis started",
		"jd_len", len(jdText), "resume_len", len(resumeText))

	profile, err := s.profiles.CachedProfile(ctx, jdText, resumeText)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	// Supplement the profiler's resume skills with a deterministic taxonomy
	// scan so the authority check covers skills the model missed.
	candidateSkills := unionSkills(profile.StrongSkills, s.std.Standardize(s.tax.ScanText(resumeText)))
	candidate := NewSkillSet(candidateSkills)

	ix, err := BuildIndex(ctx, s.ai, s.embedTargets(jdText, resumeText, profile, candidateSkills))
	if err != nil {
		lg.Warn("embedding precomputation failed; similarity unavailable", "err", err)
		ix = Index{}
	}

	outcome := Score(profile, jdText, resumeText, candidate, ix)

	matched, missing := outcome.Matched, outcome.Missing
	if len(matched) == 0 {
		for _, skill := range outcome.JDSkills {
			if IsPresent(skill, candidate, ix, nil) {
				matched = append(matched, skill)
			}
		}
	}
	if len(missing) == 0 {
		for _, skill := range outcome.JDSkills {
			if !containsFold(matched, skill) {
				missing = append(missing, skill)
			}
		}
	}

	// Semantic bridging: a matched skill can cover a related "missing" one.
	matched, missing = Reconcile(matched, missing, ix)

	// Final authority pass, then enforce disjointness of the returned lists.
	matched = s.std.Standardize(matched)
	missing = s.std.Standardize(missing)
	missing = subtractFold(missing, matched)

	jdSkills := s.std.Standardize(outcome.JDSkills)
	result := domain.AnalysisResult{
		Score:      outcome.Breakdown.Total,
		MatchLevel: MatchLevel(outcome.Breakdown.Total),
		Breakdown:  outcome.Breakdown,
		Evidence:   BuildEvidence(jdSkills, matched, resumeText),

		JDSkills:           jdSkills,
		ResumeSkills:       candidateSkills,
		WeakSkills:         profile.WeakSkills,
		MatchedSkills:      matched,
		MissingSkills:      missing,
		MandatorySkills:    profile.MandatorySkills,
		PreferredSkills:    profile.PreferredSkills,
		CareerGrowthSkills: s.std.Standardize(profile.CareerGrowthSkills),

		JobTitle:             profile.JDRole,
		ResumeTitle:          profile.ResumeTitle,
		EducationRequirement: profile.EducationRequirement,

		Summary:         profile.Summary,
		Strength:        profile.Strength,
		ImprovementArea: profile.ImprovementArea,
		Recommendation:  profile.Recommendation,
		ResumeTips:      capList(profile.ResumeTips, 2),
		SkillTips:       s.enrichTips(missing, profile.SkillTips),
		ProTips:         capList(profile.ProTips, 2),
	}

	// Sync the corrected lists and score back so the chat path sees exactly
	// what the caller saw.
	profile.MatchedSkills = matched
	profile.MissingSkills = missing
	profile.CareerGrowthSkills = result.CareerGrowthSkills
	profile.FitScore = result.Score
	s.profiles.UpdateCached(jdText, resumeText, profile)

	observability.ObserveMatchScore(result.Score)
	lg.Info("analysis complete", "score", result.Score, "level", result.MatchLevel)
	return result, nil
}

// embedTargets gathers every string whose embedding the pipeline may need,
// so one batched call covers scoring, presence checks, and reconciliation.
func (s *AnalyzeService) embedTargets(jdText, resumeText string, p domain.SkillProfile, candidateSkills []string) []string {
	targets := []string{jdText, resumeText, p.JDRole, p.ResumeTitle}
	for _, list := range [][]string{
		p.JDRequiredSkills, p.StrongSkills, p.MandatorySkills, p.PreferredSkills,
		p.MatchedSkills, p.MissingSkills, candidateSkills,
	} {
		targets = append(targets, list...)
	}
	return targets
}

// enrichTips prepends curated taxonomy advice for up to two gaps, keeping
// the total at two high-impact items.
func (s *AnalyzeService) enrichTips(missing, aiTips []string) []string {
	var tips []string
	for _, skill := range missing {
		id := s.tax.Resolve(skill)
		if id == "" {
			continue
		}
		advice := strings.TrimSpace(s.tax.Advice(id))
		if advice == "" {
			continue
		}
		tips = append(tips, "Expert tip: "+textx.Sentence(advice))
		if len(tips) >= 2 {
			break
		}
	}
	tips = append(tips, aiTips...)
	return capList(tips, 2)
}

func capList(list []string, n int) []string {
	if len(list) > n {
		return list[:n]
	}
	return list
}

func subtractFold(from, remove []string) []string {
	out := make([]string, 0, len(from))
	for _, s := range from {
		if !containsFold(remove, s) {
			out = append(out, s)
		}
	}
	return out
}
