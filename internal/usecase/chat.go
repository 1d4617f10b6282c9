package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/fairyhunter13/career-compass/internal/adapter/observability"
	"github.com/fairyhunter13/career-compass/internal/cache"
	"github.com/fairyhunter13/career-compass/internal/domain"
	obsctx "github.com/fairyhunter13/career-compass/internal/observability"
	"github.com/fairyhunter13/career-compass/pkg/textx"
)

const careerSystemPrompt = `You are a concise, practical career advisor. ` +
	`Answer in plain prose without markdown headers.`

// AskService answers follow-up career questions grounded on a prior analysis.
type AskService struct {
	ai       domain.AIClient
	rag      *ContextAssembler
	profiles *ProfileService
	caches   *cache.Layered
}

// NewAskService wires the question-answering path.
func NewAskService(ai domain.AIClient, rag *ContextAssembler, profiles *ProfileService, caches *cache.Layered) *AskService {
	return &AskService{ai: ai, rag: rag, profiles: profiles, caches: caches}
}

// Ask classifies the question's intent, retrieves supporting knowledge for
// the intent-relevant skills, and generates an answer. Answers are cached by
// (question, resume, jd, fit score) so the same question against the same
// analysis is served without a model call.
func (s *AskService) Ask(ctx context.Context, question, jd, resume string) (string, error) {
	question = textx.SanitizeText(question)
	// Sanitize the pair the same way the analysis path does, so both paths
	// share profile and answer cache keys for equivalent inputs.
	jd = textx.SanitizeText(jd)
	resume = textx.SanitizeText(resume)
	if question == "" {
		return "", fmt.Errorf("%w: question is empty", domain.ErrInvalidArgument)
	}
	lg := obsctx.Logger(ctx)

	intent := DetectIntent(question)
	if intent == IntentGratitude {
		return "You're welcome! Feel free to ask anything else about your career path.", nil
	}

	var profile domain.SkillProfile
	if jd != "" && resume != "" {
		p, err := s.profiles.CachedProfile(ctx, jd, resume)
		if err != nil {
			// Answer without analysis context rather than failing the question.
			lg.Warn("profile unavailable for question, answering without it", "err", err)
		} else {
			profile = p
		}
	}

	key := textx.ContentKey(question, resume, jd, strconv.FormatFloat(profile.FitScore, 'f', 0, 64))
	if answer, ok := s.caches.Question.Get(key); ok {
		observability.ObserveCache("question", true)
		return answer, nil
	}
	observability.ObserveCache("question", false)

	template := s.intentTemplate(intent)
	skills := intentSkills(intent, profile)
	snippets := s.rag.Assemble(ctx, skills, question)

	raw, err := s.ai.ChatJSON(ctx, careerSystemPrompt,
		buildCareerPrompt(question, resume, jd, profile, template, RenderContext(snippets)))
	if err != nil {
		return "", fmt.Errorf("%w: career chat: %v", domain.ErrUpstreamUnavailable, err)
	}
	answer := Professionalize(raw)
	if answer == "" {
		return "", fmt.Errorf("%w: empty completion", domain.ErrUpstreamUnavailable)
	}

	s.caches.Question.Put(key, answer)
	lg.Info("question answered", "intent", intent, "answer_len", len(answer))
	return answer, nil
}

// intentTemplate reads the template for an intent from the intent cache,
// seeding it from the defaults on a miss.
func (s *AskService) intentTemplate(intent string) string {
	if t, ok := s.caches.Intent.Get(intent); ok {
		observability.ObserveCache("intent", true)
		return t
	}
	observability.ObserveCache("intent", false)
	t, ok := defaultIntentTemplates[intent]
	if !ok {
		t = defaultIntentTemplates[IntentGeneralAdvice]
	}
	s.caches.Intent.Put(intent, t)
	return t
}

// intentSkills picks which skill list should drive retrieval for an intent:
// gap-oriented intents retrieve for what is missing, interview prep for what
// is matched, everything else for the JD requirements.
func intentSkills(intent string, p domain.SkillProfile) []string {
	switch intent {
	case IntentSkillGapAnalysis, IntentLearningRoadmap:
		if len(p.MissingSkills) > 0 {
			return p.MissingSkills
		}
	case IntentInterviewPrep:
		if len(p.MatchedSkills) > 0 {
			return p.MatchedSkills
		}
	}
	return p.JDRequiredSkills
}

// DetectIntent classifies a question with keyword rules. First matching rule
// wins, so more specific intents are checked before general ones.
func DetectIntent(question string) string {
	q := strings.ToLower(question)
	hasAny := func(terms ...string) bool {
		for _, t := range terms {
			if strings.Contains(q, t) {
				return true
			}
		}
		return false
	}

	switch {
	case hasAny("thank", "thanks", "appreciate", "grateful"):
		return IntentGratitude
	case hasAny("roadmap", "learning path", "how to learn", "where to start", "study plan"):
		return IntentLearningRoadmap
	case hasAny("gap", "missing", "lacking", "what am i missing", "weak"):
		return IntentSkillGapAnalysis
	case hasAny("interview", "prepare", "questions they", "asked in"):
		return IntentInterviewPrep
	case hasAny("project", "portfolio", "build to", "side project"):
		return IntentProjectIdeas
	case hasAny("switch", "transition", "change career", "move from", "pivot"):
		return IntentCareerSwitch
	case hasAny("require", "qualification", "what does the job", "what do they want", "expected"):
		return IntentJobRequirements
	case hasAny("what is", "what are", "explain", "difference between", "mean"):
		return IntentSkillExplanation
	default:
		return IntentGeneralAdvice
	}
}
