// Package domain defines the core entities and ports of the matching engine.
package domain

import (
	"context"
	"errors"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrNotFound            = errors.New("not found")
	ErrSchemaInvalid       = errors.New("schema invalid")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrAnalysisUnavailable signals that the profiler produced no usable
	// profile; callers must surface this instead of a silently wrong score.
	ErrAnalysisUnavailable = errors.New("analysis unavailable")
	ErrInternal            = errors.New("internal error")
)

// Strength tiers for skill evidence.
const (
	StrengthWeak     = "weak"
	StrengthModerate = "moderate"
	StrengthStrong   = "strong"
)

// SkillRecord is one taxonomy entry. Immutable after load.
type SkillRecord struct {
	ID          string
	Name        string // lowercase, used for matching
	DisplayName string // original casing, used for output
	Category    string
	Importance  string
	Advice      string
	Keywords    []string
}

// SkillEvidence captures how a single skill showed up in one text.
// Value type; corrections produce a new instance.
type SkillEvidence struct {
	Skill     string `json:"skill"`
	Present   bool   `json:"present"`
	Frequency int    `json:"frequency"`
	Strength  string `json:"strength"`  // weak | moderate | strong
	GroupRep  bool   `json:"group_rep"` // several synonyms collapsed to this canonical skill
}

// SkillProfile is the profiler's view of one JD x resume pair after boundary
// coercion. Absent JSON fields become empty slices/strings, never nil maps.
type SkillProfile struct {
	JDRequiredSkills []string
	StrongSkills     []string
	WeakSkills       []string
	MatchedSkills    []string
	MissingSkills    []string
	MandatorySkills  []string
	PreferredSkills  []string

	JDRole               string
	ResumeTitle          string
	EducationRequirement string

	Summary            string
	Strength           string
	ImprovementArea    string
	Recommendation     string
	ResumeTips         []string
	SkillTips          []string
	ProTips            []string
	CareerGrowthSkills []string

	FitScore float64
}

// ScoreBreakdown carries the four pillar scores, the match counts, and the
// applied penalty so callers can display how the final score was built.
type ScoreBreakdown struct {
	HardSkills float64 `json:"hard_skills_score"`
	Title      float64 `json:"title_score"`
	Education  float64 `json:"education_score"`
	Semantic   float64 `json:"semantic_score"`

	MandatoryMatched int `json:"mandatory_matched"`
	MandatoryTotal   int `json:"mandatory_total"`
	PreferredMatched int `json:"preferred_matched"`
	PreferredTotal   int `json:"preferred_total"`
	OverallMatched   int `json:"overall_matched"`
	OverallTotal     int `json:"overall_total"`

	Penalty float64 `json:"penalty_factor"`
	Total   float64 `json:"total"`
}

// AnalysisResult is the full outcome of one analysis request.
type AnalysisResult struct {
	Score      float64        `json:"score"`
	MatchLevel string         `json:"match_level"`
	Breakdown  ScoreBreakdown `json:"breakdown"`

	Evidence []SkillEvidence `json:"skill_evidence"`

	JDSkills           []string `json:"jd_skills"`
	ResumeSkills       []string `json:"resume_skills"`
	WeakSkills         []string `json:"weak_skills"`
	MatchedSkills      []string `json:"matched_skills"`
	MissingSkills      []string `json:"missing_skills"`
	MandatorySkills    []string `json:"mandatory_skills"`
	PreferredSkills    []string `json:"preferred_skills"`
	CareerGrowthSkills []string `json:"career_growth_skills"`

	JobTitle             string `json:"job_title"`
	ResumeTitle          string `json:"resume_title"`
	EducationRequirement string `json:"education_requirement"`

	Summary         string   `json:"summary"`
	Strength        string   `json:"strength"`
	ImprovementArea string   `json:"improvement_area"`
	Recommendation  string   `json:"recommendation"`
	ResumeTips      []string `json:"resume_tips"`
	SkillTips       []string `json:"skill_tips"`
	ProTips         []string `json:"pro_tips"`
}

// CoverLetterRequest carries the candidate and job details for one tailored
// cover letter.
type CoverLetterRequest struct {
	FullName       string
	Email          string
	Phone          string
	CompanyName    string
	JobTitle       string
	HiringManager  string
	JobDescription string
}

// KnowledgeSnippet is one retrieved advice record. Immutable once loaded;
// Topic acts as the natural key within one retrieval batch.
type KnowledgeSnippet struct {
	ID       string
	Topic    string
	Category string
	Keywords []string
	Advice   string
}

// ScoredSnippet pairs a snippet with its retrieval similarity score.
type ScoredSnippet struct {
	Snippet KnowledgeSnippet
	Score   float64
}

// Taxonomy is the read-only controlled vocabulary (port).
// Loaded once at startup; the engine never mutates it.
type Taxonomy interface {
	// Resolve maps a free-text mention to a canonical skill id, or "" when
	// the string is not a known skill.
	Resolve(name string) string
	DisplayName(id string) string
	Category(id string) string
	Advice(id string) string
	Names() []string
	Keywords() []string
	// ScanText finds canonical skills mentioned verbatim in free text and
	// returns their display names.
	ScanText(text string) []string
}

// AIClient is the opaque language-model port (embeddings + chat).
type AIClient interface {
	// Embed returns one vector per text; an empty vector means the provider
	// could not embed that text and similarity is unavailable for it.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	// ChatJSON sends a prompt and returns the raw completion, expected to
	// contain a JSON object somewhere in the text.
	ChatJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// KnowledgeStore is the opaque vector-store port.
type KnowledgeStore interface {
	Search(ctx context.Context, query string, topK int) ([]ScoredSnippet, error)
	Upsert(ctx context.Context, snippets []KnowledgeSnippet, vectors [][]float32) error
}
