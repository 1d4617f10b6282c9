package usecase

import (
	"regexp"
	"strings"

	"github.com/fairyhunter13/career-compass/internal/domain"
)

// BuildEvidence derives per-skill evidence for every JD skill against the
// resume text. Frequency counts word-bounded mentions of the canonical name;
// a present skill whose canonical name never appears literally was matched
// through a synonym or similarity and is flagged as a group representative.
// Returns new values on every call.
func BuildEvidence(jdSkills, matched []string, resumeText string) []domain.SkillEvidence {
	lower := strings.ToLower(resumeText)
	out := make([]domain.SkillEvidence, 0, len(jdSkills))
	for _, skill := range jdSkills {
		present := containsFold(matched, skill)
		freq := countMentions(lower, strings.ToLower(skill))
		out = append(out, domain.SkillEvidence{
			Skill:     skill,
			Present:   present,
			Frequency: freq,
			Strength:  strengthTier(present, freq),
			GroupRep:  present && freq == 0,
		})
	}
	return out
}

func countMentions(haystack, needle string) int {
	if needle == "" {
		return 0
	}
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(needle) + `\b`)
	if err != nil {
		return 0
	}
	return len(re.FindAllStringIndex(haystack, -1))
}

func strengthTier(present bool, freq int) string {
	switch {
	case !present:
		return domain.StrengthWeak
	case freq >= 3:
		return domain.StrengthStrong
	default:
		return domain.StrengthModerate
	}
}
