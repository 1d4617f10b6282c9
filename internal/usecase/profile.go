package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/fairyhunter13/career-compass/internal/adapter/observability"
	"github.com/fairyhunter13/career-compass/internal/cache"
	"github.com/fairyhunter13/career-compass/internal/domain"
	obsctx "github.com/fairyhunter13/career-compass/internal/observability"
	"github.com/fairyhunter13/career-compass/pkg/textx"
)

// ProfileService obtains skill profiles from the upstream profiler, corrects
// them at the boundary, and caches them per (jd, resume) content hash.
type ProfileService struct {
	ai     domain.AIClient
	tax    domain.Taxonomy
	std    *Standardizer
	rag    *ContextAssembler
	caches *cache.Layered
}

// NewProfileService wires the profiler boundary.
func NewProfileService(ai domain.AIClient, tax domain.Taxonomy, std *Standardizer, rag *ContextAssembler, caches *cache.Layered) *ProfileService {
	return &ProfileService{ai: ai, tax: tax, std: std, rag: rag, caches: caches}
}

// CachedProfile returns the cached profile for the pair, or extracts a fresh
// one. Only successful extractions are written to the cache, so a failed
// compute never poisons it. Concurrent first-time misses may each recompute;
// the design accepts duplicate work over per-key locking.
func (s *ProfileService) CachedProfile(ctx context.Context, jd, resume string) (domain.SkillProfile, error) {
	key := textx.ContentKey(jd, resume)
	if p, ok := s.caches.Profile.Get(key); ok {
		observability.ObserveCache("profile", true)
		return p, nil
	}
	observability.ObserveCache("profile", false)

	p, err := s.extract(ctx, jd, resume)
	if err != nil {
		return domain.SkillProfile{}, err
	}
	s.caches.Profile.Put(key, p)
	return p, nil
}

// UpdateCached writes corrected analysis results back so the chat path sees
// the same filtered lists and score the analysis returned.
func (s *ProfileService) UpdateCached(jd, resume string, p domain.SkillProfile) {
	s.caches.Profile.Put(textx.ContentKey(jd, resume), p)
}

// profilePayload is the profiler's loosely-typed JSON, coerced here at the
// boundary: absent fields decode to zero values and never propagate as nil
// surprises into the pipeline.
type profilePayload struct {
	JDRequiredSkills   []string `json:"jdRequiredSkills"`
	StrongSkills       []string `json:"strongSkills"`
	WeakSkills         []string `json:"weakSkills"`
	MatchedSkills      []string `json:"matchedSkills"`
	MissingSkills      []string `json:"missingSkills"`
	MandatorySkills    []string `json:"mandatorySkills"`
	PreferredSkills    []string `json:"preferredSkills"`
	JDRole             string   `json:"jdRole"`
	ResumeTitle        string   `json:"resumeTitle"`
	Education          string   `json:"education"`
	Summary            string   `json:"summary"`
	Strength           string   `json:"strength"`
	ImprovementArea    string   `json:"improvementArea"`
	Recommendation     string   `json:"recommendation"`
	ResumeTips         []string `json:"resumeTips"`
	SkillTips          []string `json:"skillTips"`
	ProTips            []string `json:"proTips"`
	CareerGrowthSkills []string `json:"careerGrowthSkills"`
}

func (s *ProfileService) extract(ctx context.Context, jd, resume string) (domain.SkillProfile, error) {
	lg := obsctx.Logger(ctx)

	jdSkills := s.std.Standardize(s.tax.ScanText(jd))
	snippets := s.rag.Assemble(ctx, jdSkills, jd)

	raw, err := s.ai.ChatJSON(ctx, profileSystemPrompt, buildProfilePrompt(RenderContext(snippets), jd, resume))
	if err != nil {
		return domain.SkillProfile{}, fmt.Errorf("%w: profiler: %v", domain.ErrAnalysisUnavailable, err)
	}
	payload, err := parseProfileJSON(raw)
	if err != nil {
		lg.Warn("profiler returned unparseable JSON", "err", err)
		return domain.SkillProfile{}, fmt.Errorf("%w: %v", domain.ErrAnalysisUnavailable, err)
	}

	p := domain.SkillProfile{
		JDRequiredSkills: s.std.Standardize(payload.JDRequiredSkills),
		StrongSkills:     s.std.Standardize(payload.StrongSkills),
		WeakSkills:       s.std.Standardize(payload.WeakSkills),
		MatchedSkills:    s.std.Standardize(payload.MatchedSkills),
		MissingSkills:    s.std.Standardize(payload.MissingSkills),
		MandatorySkills:  s.std.Standardize(payload.MandatorySkills),
		PreferredSkills:  s.std.Standardize(payload.PreferredSkills),

		JDRole:               strings.TrimSpace(payload.JDRole),
		ResumeTitle:          strings.TrimSpace(payload.ResumeTitle),
		EducationRequirement: strings.TrimSpace(payload.Education),

		Summary:            Professionalize(payload.Summary),
		Strength:           Professionalize(payload.Strength),
		ImprovementArea:    Professionalize(payload.ImprovementArea),
		Recommendation:     Professionalize(payload.Recommendation),
		ResumeTips:         professionalizeList(payload.ResumeTips),
		SkillTips:          professionalizeList(payload.SkillTips),
		ProTips:            professionalizeList(payload.ProTips),
		CareerGrowthSkills: s.std.Standardize(payload.CareerGrowthSkills),
	}
	return p, nil
}

// parseProfileJSON extracts the first-to-last brace span and decodes it;
// chat models wrap JSON in prose often enough that this is load-bearing.
func parseProfileJSON(raw string) (profilePayload, error) {
	a := strings.Index(raw, "{")
	b := strings.LastIndex(raw, "}")
	if a == -1 || b == -1 || b < a {
		return profilePayload{}, fmt.Errorf("%w: no JSON object in completion", domain.ErrSchemaInvalid)
	}
	var p profilePayload
	if err := json.Unmarshal([]byte(raw[a:b+1]), &p); err != nil {
		return profilePayload{}, fmt.Errorf("%w: %v", domain.ErrSchemaInvalid, err)
	}
	return p, nil
}

var noisePhraseRe = regexp.MustCompile(`(?i)(job description|resume analysis|ats score|skill gaps|matched skills|pro tips|learning tips|formatting tips|industry standard|overall job fit|analysis complete|match summary|critical gap|strategic recommendation|expert tip|tip \d+:?|summary:?|strength:?|goal:?|roadmap|bakenddevloper)`)

var (
	multiSpaceRe   = regexp.MustCompile(`[ \t]{2,}`)
	multiNewlineRe = regexp.MustCompile(`\n{3,}`)
)

// Professionalize strips UI noise phrases from narrative text, collapses
// whitespace, and normalizes it into sentence form.
func Professionalize(text string) string {
	cleaned := noisePhraseRe.ReplaceAllString(text, "")
	cleaned = multiSpaceRe.ReplaceAllString(cleaned, " ")
	cleaned = multiNewlineRe.ReplaceAllString(cleaned, "\n\n")
	return textx.Sentence(cleaned)
}

func professionalizeList(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if cleaned := Professionalize(s); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}
