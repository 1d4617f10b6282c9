package qdrant

import (
	"context"
	"fmt"
	"strings"

	"github.com/fairyhunter13/career-compass/internal/domain"
)

// Store implements domain.KnowledgeStore on top of a Qdrant collection.
// Query texts are embedded through the AI client; an empty query embedding
// yields an empty result rather than an error, since similarity is simply
// unavailable.
type Store struct {
	client     *Client
	ai         domain.AIClient
	collection string
}

// NewStore builds a knowledge store bound to one collection.
func NewStore(client *Client, ai domain.AIClient, collection string) *Store {
	return &Store{client: client, ai: ai, collection: collection}
}

// Search embeds the query and returns the topK nearest snippets with scores.
func (s *Store) Search(ctx context.Context, query string, topK int) ([]domain.ScoredSnippet, error) {
	vecs, err := s.ai.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", domain.ErrUpstreamUnavailable, err)
	}
	if len(vecs) == 0 || len(vecs[0]) == 0 {
		return nil, nil
	}
	hits, err := s.client.SearchPoints(ctx, s.collection, vecs[0], topK)
	if err != nil {
		return nil, fmt.Errorf("%w: qdrant search: %v", domain.ErrUpstreamUnavailable, err)
	}
	out := make([]domain.ScoredSnippet, 0, len(hits))
	for _, h := range hits {
		out = append(out, domain.ScoredSnippet{
			Snippet: snippetFromPayload(fmt.Sprintf("%v", h.ID), h.Payload),
			Score:   h.Score,
		})
	}
	return out, nil
}

// Upsert writes snippets with their precomputed vectors into the collection.
func (s *Store) Upsert(ctx context.Context, snippets []domain.KnowledgeSnippet, vectors [][]float32) error {
	if len(snippets) != len(vectors) {
		return fmt.Errorf("%w: snippets and vectors length mismatch", domain.ErrInvalidArgument)
	}
	payloads := make([]map[string]any, len(snippets))
	ids := make([]any, len(snippets))
	for i, sn := range snippets {
		payloads[i] = map[string]any{
			"topic":    sn.Topic,
			"category": sn.Category,
			"keywords": strings.Join(sn.Keywords, ","),
			"advice":   sn.Advice,
		}
		ids[i] = sn.ID
	}
	if err := s.client.UpsertPoints(ctx, s.collection, vectors, payloads, ids); err != nil {
		return fmt.Errorf("%w: qdrant upsert: %v", domain.ErrUpstreamUnavailable, err)
	}
	return nil
}

func snippetFromPayload(id string, payload map[string]any) domain.KnowledgeSnippet {
	str := func(key string) string {
		if v, ok := payload[key].(string); ok {
			return v
		}
		return ""
	}
	sn := domain.KnowledgeSnippet{
		ID:       id,
		Topic:    str("topic"),
		Category: str("category"),
		Advice:   str("advice"),
	}
	if kws := str("keywords"); kws != "" {
		for _, kw := range strings.Split(kws, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				sn.Keywords = append(sn.Keywords, kw)
			}
		}
	}
	return sn
}
