package usecase

import (
	"log/slog"
	"math"
	"strings"

	"github.com/fairyhunter13/career-compass/internal/domain"
	"github.com/fairyhunter13/career-compass/pkg/textx"
)

// Pillar weights (sum to 1.0) and the hard-skills sub-weights.
const (
	weightHardSkills = 0.60
	weightTitle      = 0.15
	weightEducation  = 0.15
	weightSemantic   = 0.10

	weightMandatory = 0.50
	weightPreferred = 0.20
	weightOverall   = 0.30

	penaltyPerMissing = 0.08
	penaltyFloor      = 0.40
)

// ScoreOutcome carries the breakdown plus the skill lists as corrected during
// scoring (the hard-skills pass re-derives matched/missing deterministically).
type ScoreOutcome struct {
	Breakdown domain.ScoreBreakdown
	JDSkills  []string
	Matched   []string
	Missing   []string
}

// Score aggregates the four weighted pillars and applies the mandatory-skill
// penalty. All pillar scores and the final score are clamped to [0,100]; the
// breakdown is always fully populated for caller transparency.
func Score(p domain.SkillProfile, jdText, resumeText string, candidate SkillSet, ix Index) ScoreOutcome {
	out := ScoreOutcome{}

	hard := hardSkillsScore(p, candidate, ix, &out)
	title := titleScore(p.JDRole, p.ResumeTitle, ix)
	education := educationScore(p.EducationRequirement, resumeText)
	semantic := semanticScore(jdText, resumeText, ix)

	total := hard*weightHardSkills + title*weightTitle + education*weightEducation + semantic*weightSemantic

	penalty := penaltyMultiplier(p.MandatorySkills, candidate, ix, p.MatchedSkills)
	total *= penalty

	final := clampScore(math.Round(total))
	slog.Debug("score computed",
		slog.Float64("hard", hard), slog.Float64("title", title),
		slog.Float64("education", education), slog.Float64("semantic", semantic),
		slog.Float64("penalty", penalty), slog.Float64("final", final))

	out.Breakdown.HardSkills = hard
	out.Breakdown.Title = title
	out.Breakdown.Education = education
	out.Breakdown.Semantic = semantic
	out.Breakdown.Penalty = penalty
	out.Breakdown.Total = final
	return out
}

// hardSkillsScore blends mandatory, preferred, and overall JD coverage.
// An empty requirement set earns full credit, not zero. As a side effect it
// re-derives the matched/missing lists from the presence checks, with the
// profiler's matched list taken only as corroborating evidence.
func hardSkillsScore(p domain.SkillProfile, candidate SkillSet, ix Index, out *ScoreOutcome) float64 {
	mandatory := p.MandatorySkills
	preferred := p.PreferredSkills
	aiMatched := p.MatchedSkills

	// The master JD list is the union of everything required, so coverage is
	// never computed against a list the profiler under-reported.
	allJD := unionSkills(p.JDRequiredSkills, mandatory, preferred)

	actuallyMatched := NewSkillSet(aiMatched)
	matchedOrder := append([]string(nil), aiMatched...)
	note := func(skill string) {
		k := textx.Normalize(skill)
		if !actuallyMatched[k] {
			actuallyMatched[k] = true
			matchedOrder = append(matchedOrder, skill)
		}
	}

	mandatoryMatched, preferredMatched, overallMatched := 0, 0, 0
	var missingMandatory, missingPreferred []string
	for _, skill := range mandatory {
		if IsPresent(skill, candidate, ix, aiMatched) {
			mandatoryMatched++
			note(skill)
		} else {
			missingMandatory = append(missingMandatory, skill)
		}
	}
	for _, skill := range preferred {
		if IsPresent(skill, candidate, ix, aiMatched) {
			preferredMatched++
			note(skill)
		} else {
			missingPreferred = append(missingPreferred, skill)
		}
	}
	for _, skill := range allJD {
		if IsPresent(skill, candidate, ix, aiMatched) {
			overallMatched++
			note(skill)
		}
	}

	// Sync missing: drop anything the checks actually matched, then add the
	// genuinely missing mandatory/preferred skills.
	missing := make([]string, 0, len(p.MissingSkills))
	for _, m := range p.MissingSkills {
		if !actuallyMatched[textx.Normalize(m)] {
			missing = append(missing, m)
		}
	}
	for _, m := range append(append([]string(nil), missingMandatory...), missingPreferred...) {
		if !containsFold(missing, m) {
			missing = append(missing, m)
		}
	}

	out.JDSkills = allJD
	out.Matched = matchedOrder
	out.Missing = missing
	out.Breakdown.MandatoryMatched = mandatoryMatched
	out.Breakdown.MandatoryTotal = len(mandatory)
	out.Breakdown.PreferredMatched = preferredMatched
	out.Breakdown.PreferredTotal = len(preferred)
	out.Breakdown.OverallMatched = overallMatched
	out.Breakdown.OverallTotal = len(allJD)

	mandatoryScore := coverage(mandatoryMatched, len(mandatory))
	preferredScore := coverage(preferredMatched, len(preferred))
	overallScore := coverage(overallMatched, len(allJD))

	return clampScore(mandatoryScore*weightMandatory + preferredScore*weightPreferred + overallScore*weightOverall)
}

// coverage returns matched/total as a percentage, with full credit when
// nothing is required.
func coverage(matched, total int) float64 {
	if total == 0 {
		return 100
	}
	return float64(matched) / float64(total) * 100
}

// titleScore gives 100 on case-insensitive containment either way, otherwise
// embedding similarity. A missing title on either side, or an unavailable
// title embedding, is neutral.
func titleScore(jdRole, resumeTitle string, ix Index) float64 {
	t := textx.Normalize(jdRole)
	r := textx.Normalize(resumeTitle)
	if t == "" || r == "" {
		return 50
	}
	if strings.Contains(t, r) || strings.Contains(r, t) {
		return 100
	}
	tEmb, rEmb := ix.Lookup(t), ix.Lookup(r)
	if len(tEmb) == 0 || len(rEmb) == 0 {
		return 50
	}
	return clampScore(Cosine(tEmb, rEmb) * 100)
}

// educationScore walks the requirement hierarchy (PhD > Master's > Bachelor's
// > none) against evidence in the resume text, granting graduated credit.
func educationScore(requirement, resumeText string) float64 {
	req := textx.Normalize(requirement)
	if req == "" || req == "none" || req == "not required" {
		return 100
	}
	res := strings.ToLower(resumeText)
	has := func(terms ...string) bool {
		for _, t := range terms {
			if strings.Contains(res, t) {
				return true
			}
		}
		return false
	}

	switch {
	case strings.Contains(req, "phd") || strings.Contains(req, "doctorate"):
		if has("phd", "doctorate") {
			return 100
		}
		if has("master", "m.sc", "mtech") {
			return 70
		}
		return 30
	case strings.Contains(req, "master") || strings.Contains(req, "mba"):
		if has("master", "m.sc", "mtech", "mba") {
			return 100
		}
		if has("bachelor", "b.sc", "btech", "be") {
			return 65
		}
		return 20
	case strings.Contains(req, "bachelor") || strings.Contains(req, "b.sc") || strings.Contains(req, "degree"):
		if has("bachelor", "b.sc", "btech", "be", "degree", "master") {
			return 100
		}
		if has("diploma", "associate") {
			return 50
		}
		return 10
	}
	if has("degree", "university", "college") {
		return 55
	}
	return 5
}

// semanticScore compares whole-document embeddings; neutral when either is
// unavailable.
func semanticScore(jdText, resumeText string, ix Index) float64 {
	jdEmb, resEmb := ix.Lookup(jdText), ix.Lookup(resumeText)
	if len(jdEmb) == 0 || len(resEmb) == 0 {
		return 50
	}
	return clampScore(Cosine(jdEmb, resEmb) * 100)
}

// penaltyMultiplier compounds an 8% deduction per missing mandatory skill,
// floored at 0.40 so mandatory gaps alone can never zero the score.
func penaltyMultiplier(mandatory []string, candidate SkillSet, ix Index, aiMatched []string) float64 {
	if len(mandatory) == 0 {
		return 1.0
	}
	missing := 0
	for _, skill := range mandatory {
		if !IsPresent(skill, candidate, ix, aiMatched) {
			missing++
		}
	}
	if missing == 0 {
		return 1.0
	}
	factor := 1.0
	for i := 0; i < missing; i++ {
		factor *= 1.0 - penaltyPerMissing
	}
	if factor < penaltyFloor {
		factor = penaltyFloor
	}
	return factor
}

// MatchLevel labels a final score for display.
func MatchLevel(score float64) string {
	switch {
	case score >= 80:
		return "Excellent Match"
	case score >= 65:
		return "Strong Match"
	case score >= 45:
		return "Good Match"
	case score >= 25:
		return "Fair Match"
	default:
		return "Weak Match"
	}
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func unionSkills(lists ...[]string) []string {
	seen := map[string]bool{}
	var out []string
	for _, list := range lists {
		for _, s := range list {
			k := textx.Normalize(s)
			if k == "" || seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, s)
		}
	}
	return out
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(s)) {
			return true
		}
	}
	return false
}
