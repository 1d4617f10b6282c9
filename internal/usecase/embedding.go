// Package usecase contains the matching engine: standardization, presence
// matching, weighted scoring, reconciliation, RAG assembly, and the analysis
// orchestration that ties them together.
package usecase

import (
	"context"
	"math"

	"github.com/fairyhunter13/career-compass/internal/domain"
	"github.com/fairyhunter13/career-compass/pkg/textx"
)

// Index maps normalized text to its embedding vector. A missing or empty
// vector means similarity is unavailable for that text, never zero.
type Index map[string][]float32

// Lookup returns the vector for text, keyed by its normalized form.
func (ix Index) Lookup(text string) []float32 {
	return ix[textx.Normalize(text)]
}

// BuildIndex embeds every distinct normalized text in one pass and returns
// the resulting index. Texts the provider could not embed are left out.
func BuildIndex(ctx context.Context, ai domain.AIClient, texts []string) (Index, error) {
	seen := map[string]bool{}
	keys := make([]string, 0, len(texts))
	for _, t := range texts {
		k := textx.Normalize(t)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	vecs, err := ai.Embed(ctx, keys)
	if err != nil {
		return nil, err
	}
	ix := make(Index, len(keys))
	for i, k := range keys {
		if i < len(vecs) && len(vecs[i]) > 0 {
			ix[k] = vecs[i]
		}
	}
	return ix, nil
}

// Cosine returns the cosine similarity of two vectors in [0,1], or 0 on
// empty input or length mismatch.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}
