package cache

import (
	"time"

	"github.com/fairyhunter13/career-compass/internal/domain"
)

// TTL classes and capacities of the four stores.
const (
	QuestionTTL = 1 * time.Hour
	IntentTTL   = 24 * time.Hour
	ProfileTTL  = 1 * time.Hour
	RAGTTL      = 12 * time.Hour

	QuestionMax = 1000
	IntentMax   = 200
	ProfileMax  = 500
	RAGMax      = 500
)

// Layered bundles the four independent stores used by the engine. Each store
// is safe for concurrent use on its own; no operation spans stores atomically.
type Layered struct {
	Question *Store[string]
	Intent   *Store[string]
	Profile  *Store[domain.SkillProfile]
	RAG      *Store[[]domain.KnowledgeSnippet]
}

// NewLayered constructs the four stores with their fixed TTLs and capacities.
func NewLayered() *Layered {
	return &Layered{
		Question: NewStore[string](QuestionTTL, QuestionMax),
		Intent:   NewStore[string](IntentTTL, IntentMax),
		Profile:  NewStore[domain.SkillProfile](ProfileTTL, ProfileMax),
		RAG:      NewStore[[]domain.KnowledgeSnippet](RAGTTL, RAGMax),
	}
}

// Clear empties all four stores.
func (l *Layered) Clear() {
	l.Question.Clear()
	l.Intent.Clear()
	l.Profile.Clear()
	l.RAG.Clear()
}
