package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fairyhunter13/career-compass/internal/adapter/observability"
	"github.com/fairyhunter13/career-compass/internal/cache"
	"github.com/fairyhunter13/career-compass/internal/domain"
	obsctx "github.com/fairyhunter13/career-compass/internal/observability"
	"github.com/fairyhunter13/career-compass/pkg/textx"
)

// LetterService generates tailored cover letters from candidate and job details.
type LetterService struct {
	ai     domain.AIClient
	caches *cache.Layered

	now func() time.Time // overridable in tests
}

// NewLetterService wires the cover-letter path.
func NewLetterService(ai domain.AIClient, caches *cache.Layered) *LetterService {
	return &LetterService{ai: ai, caches: caches, now: time.Now}
}

// Generate produces a cover letter for the request. Letters are cached by the
// content of every request field, so regenerating with identical inputs is
// served without a model call. A blank hiring manager falls back to the
// generic salutation.
func (s *LetterService) Generate(ctx context.Context, req domain.CoverLetterRequest) (string, error) {
	req.FullName = textx.SanitizeText(req.FullName)
	req.Email = textx.SanitizeText(req.Email)
	req.Phone = textx.SanitizeText(req.Phone)
	req.CompanyName = textx.SanitizeText(req.CompanyName)
	req.JobTitle = textx.SanitizeText(req.JobTitle)
	req.HiringManager = textx.SanitizeText(req.HiringManager)
	req.JobDescription = textx.SanitizeText(req.JobDescription)
	if req.FullName == "" {
		return "", fmt.Errorf("%w: full name is empty", domain.ErrInvalidArgument)
	}
	if req.JobDescription == "" {
		return "", fmt.Errorf("%w: job description is empty", domain.ErrInvalidArgument)
	}
	if req.HiringManager == "" {
		req.HiringManager = "Hiring Manager"
	}
	lg := obsctx.Logger(ctx)

	key := textx.ContentKey("cover-letter", req.FullName, req.Email, req.Phone,
		req.CompanyName, req.JobTitle, req.HiringManager, req.JobDescription)
	if letter, ok := s.caches.Question.Get(key); ok {
		observability.ObserveCache("question", true)
		return letter, nil
	}
	observability.ObserveCache("question", false)

	raw, err := s.ai.ChatJSON(ctx, letterSystemPrompt,
		buildLetterPrompt(req, s.now().Format("January 02, 2006")))
	if err != nil {
		return "", fmt.Errorf("%w: cover letter: %v", domain.ErrUpstreamUnavailable, err)
	}
	letter := tidyLetter(raw)
	if letter == "" {
		return "", fmt.Errorf("%w: empty completion", domain.ErrUpstreamUnavailable)
	}

	s.caches.Question.Put(key, letter)
	lg.Info("cover letter generated", "company", req.CompanyName, "letter_len", len(letter))
	return letter, nil
}

// tidyLetter trims the completion and collapses runaway whitespace while
// keeping the letter's paragraph breaks intact.
func tidyLetter(raw string) string {
	cleaned := multiSpaceRe.ReplaceAllString(raw, " ")
	cleaned = multiNewlineRe.ReplaceAllString(cleaned, "\n\n")
	return strings.TrimSpace(cleaned)
}
