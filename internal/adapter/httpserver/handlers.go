package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/career-compass/internal/cache"
	"github.com/fairyhunter13/career-compass/internal/domain"
	obsctx "github.com/fairyhunter13/career-compass/internal/observability"
)

// maxBodyBytes caps request bodies; JDs and resumes are text, not documents.
const maxBodyBytes = 1 << 20

// Analyzer scores one JD x resume pair.
type Analyzer interface {
	Analyze(ctx context.Context, jdText, resumeText string) (domain.AnalysisResult, error)
}

// Asker answers career questions in the context of a prior analysis.
type Asker interface {
	Ask(ctx context.Context, question, jd, resume string) (string, error)
}

// LetterWriter generates a tailored cover letter.
type LetterWriter interface {
	Generate(ctx context.Context, req domain.CoverLetterRequest) (string, error)
}

// Reingester rebuilds the knowledge collection from the source CSV.
type Reingester interface {
	Reingest(ctx context.Context) (int, error)
}

// Server bundles the HTTP handlers with their dependencies.
type Server struct {
	analyzer  Analyzer
	asker     Asker
	letters   LetterWriter
	reingest  Reingester
	caches    *cache.Layered
	validate  *validator.Validate
	startedAt time.Time
}

// NewServer constructs the handler set.
func NewServer(analyzer Analyzer, asker Asker, letters LetterWriter, reingest Reingester, caches *cache.Layered) *Server {
	return &Server{
		analyzer:  analyzer,
		asker:     asker,
		letters:   letters,
		reingest:  reingest,
		caches:    caches,
		validate:  validator.New(),
		startedAt: time.Now(),
	}
}

type analyzeRequest struct {
	JobDescription string `json:"job_description" validate:"required,min=30,max=50000"`
	ResumeText     string `json:"resume_text" validate:"required,min=30,max=50000"`
}

// AnalyzeHandler handles POST /v1/analyze.
func (s *Server) AnalyzeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req analyzeRequest
		if !s.decodeValid(w, r, &req) {
			return
		}
		result, err := s.analyzer.Analyze(r.Context(), req.JobDescription, req.ResumeText)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

type questionRequest struct {
	Question       string `json:"question" validate:"required,min=3,max=2000"`
	JobDescription string `json:"job_description" validate:"omitempty,max=50000"`
	ResumeText     string `json:"resume_text" validate:"omitempty,max=50000"`
}

type questionResponse struct {
	Answer string `json:"answer"`
}

// QuestionHandler handles POST /v1/question.
func (s *Server) QuestionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req questionRequest
		if !s.decodeValid(w, r, &req) {
			return
		}
		answer, err := s.asker.Ask(r.Context(), req.Question, req.JobDescription, req.ResumeText)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, questionResponse{Answer: answer})
	}
}

type coverLetterRequest struct {
	FullName       string `json:"full_name" validate:"required,min=2,max=100"`
	Email          string `json:"email" validate:"omitempty,email,max=200"`
	Phone          string `json:"phone" validate:"omitempty,max=40"`
	CompanyName    string `json:"company_name" validate:"required,min=2,max=200"`
	JobTitle       string `json:"job_title" validate:"required,min=2,max=200"`
	HiringManager  string `json:"hiring_manager" validate:"omitempty,max=100"`
	JobDescription string `json:"job_description" validate:"required,min=30,max=50000"`
}

type coverLetterResponse struct {
	CoverLetter string `json:"cover_letter"`
}

// CoverLetterHandler handles POST /v1/cover-letter.
func (s *Server) CoverLetterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req coverLetterRequest
		if !s.decodeValid(w, r, &req) {
			return
		}
		letter, err := s.letters.Generate(r.Context(), domain.CoverLetterRequest{
			FullName:       req.FullName,
			Email:          req.Email,
			Phone:          req.Phone,
			CompanyName:    req.CompanyName,
			JobTitle:       req.JobTitle,
			HiringManager:  req.HiringManager,
			JobDescription: req.JobDescription,
		})
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, coverLetterResponse{CoverLetter: letter})
	}
}

// ReingestHandler handles POST /v1/admin/reingest. The rebuild runs in the
// background; the handler acknowledges acceptance and clears the caches so
// stale retrievals don't outlive the old collection.
func (s *Server) ReingestHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lg := obsctx.Logger(r.Context())
		s.caches.Clear()
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			n, err := s.reingest.Reingest(ctx)
			if err != nil {
				lg.Error("knowledge reingestion failed", "err", err)
				return
			}
			lg.Info("knowledge reingestion complete", "snippets", n)
		}()
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "reingestion started"})
	}
}

// HealthHandler handles GET /healthz.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":         "ok",
			"uptime_seconds": int(time.Since(s.startedAt).Seconds()),
		})
	}
}

// decodeValid decodes a JSON body into dst and validates it, writing the
// error response itself on failure.
func (s *Server) decodeValid(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), nil)
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		var details []map[string]string
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				details = append(details, map[string]string{
					"field": fe.Field(),
					"rule":  fe.Tag(),
				})
			}
		}
		writeError(w, r, fmt.Errorf("%w: validation failed", domain.ErrInvalidArgument), details)
		return false
	}
	return true
}
