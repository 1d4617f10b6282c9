package usecase

import (
	"context"
	"strings"

	"github.com/fairyhunter13/career-compass/internal/adapter/observability"
	"github.com/fairyhunter13/career-compass/internal/cache"
	"github.com/fairyhunter13/career-compass/internal/domain"
	obsctx "github.com/fairyhunter13/career-compass/internal/observability"
	"github.com/fairyhunter13/career-compass/pkg/textx"
)

// Retrieval tuning. Per-skill results must also mention the skill textually,
// which keeps loosely similar advice from attaching to the wrong skill.
const (
	skillSearchTopK = 12
	skillScoreMin   = 0.72
	perSkillCap     = 2
	broadSearchTopK = 15
	broadScoreMin   = 0.65
	broadCap        = 8
)

// ContextAssembler merges skill-keyed and free-text-keyed retrieval into
// supporting context for narrative generation.
type ContextAssembler struct {
	store  domain.KnowledgeStore
	caches *cache.Layered
}

// NewContextAssembler wires the assembler to the vector store and the RAG cache.
func NewContextAssembler(store domain.KnowledgeStore, caches *cache.Layered) *ContextAssembler {
	return &ContextAssembler{store: store, caches: caches}
}

// Assemble runs both retrieval passes and returns the merged snippet list,
// deduplicated by topic with the first occurrence winning. Merge order
// (skills first, then broad query) decides ties; a score-based tie-break
// would be more defensible but is a product decision (known limitation).
// Retrieval failures degrade to an empty contribution, never an error.
func (a *ContextAssembler) Assemble(ctx context.Context, skills []string, query string) []domain.KnowledgeSnippet {
	lg := obsctx.Logger(ctx)
	var merged []domain.KnowledgeSnippet

	// Pass 1: per-skill retrieval, individually cached.
	var uncached []string
	for _, skill := range skills {
		key := textx.Normalize(skill)
		if key == "" {
			continue
		}
		cached, ok := a.caches.RAG.Get(key)
		observability.ObserveCache("rag", ok)
		if ok {
			merged = append(merged, cached...)
			continue
		}
		uncached = append(uncached, skill)
	}
	if len(uncached) > 0 {
		hits, err := a.store.Search(ctx, strings.Join(uncached, " "), skillSearchTopK)
		if err != nil {
			lg.Warn("skill retrieval failed", "err", err)
		} else {
			for _, skill := range uncached {
				snips := snippetsForSkill(skill, hits)
				if len(snips) == 0 {
					continue
				}
				a.caches.RAG.Put(textx.Normalize(skill), snips)
				merged = append(merged, snips...)
			}
		}
	}

	// Pass 2: broad free-text retrieval.
	if strings.TrimSpace(query) != "" {
		hits, err := a.store.Search(ctx, query, broadSearchTopK)
		if err != nil {
			lg.Warn("broad retrieval failed", "err", err)
		} else {
			count := 0
			for _, h := range hits {
				if h.Score <= broadScoreMin || h.Snippet.Topic == "" {
					continue
				}
				merged = append(merged, h.Snippet)
				count++
				if count >= broadCap {
					break
				}
			}
		}
	}

	return dedupeByTopic(merged)
}

// snippetsForSkill filters a shared search batch down to the snippets that
// score high enough and textually mention the skill, capped per skill.
func snippetsForSkill(skill string, hits []domain.ScoredSnippet) []domain.KnowledgeSnippet {
	lower := textx.Normalize(skill)
	var out []domain.KnowledgeSnippet
	for _, h := range hits {
		if h.Score <= skillScoreMin {
			continue
		}
		if !textx.ContainsFold(h.Snippet.Topic, lower) && !textx.ContainsFold(h.Snippet.Advice, lower) {
			continue
		}
		out = append(out, h.Snippet)
		if len(out) >= perSkillCap {
			break
		}
	}
	return out
}

func dedupeByTopic(snippets []domain.KnowledgeSnippet) []domain.KnowledgeSnippet {
	seen := map[string]bool{}
	out := make([]domain.KnowledgeSnippet, 0, len(snippets))
	for _, s := range snippets {
		key := textx.Normalize(s.Topic)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

// RenderContext formats snippets into the prompt context block.
func RenderContext(snippets []domain.KnowledgeSnippet) string {
	var b strings.Builder
	for i, s := range snippets {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("### ")
		b.WriteString(s.Topic)
		b.WriteString(" (")
		b.WriteString(s.Category)
		b.WriteString(")\n")
		b.WriteString(s.Advice)
	}
	return b.String()
}
