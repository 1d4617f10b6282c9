package ai_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/career-compass/internal/adapter/ai"
	"github.com/fairyhunter13/career-compass/internal/domain"
	"github.com/fairyhunter13/career-compass/pkg/textx"
)

type countingAI struct {
	embeds  int32
	vectors map[string][]float32
}

func (c *countingAI) Embed(_ context.Context, texts []string) ([][]float32, error) {
	atomic.AddInt32(&c.embeds, 1)
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = c.vectors[textx.Normalize(t)]
	}
	return out, nil
}

func (c *countingAI) ChatJSON(_ context.Context, _, _ string) (string, error) {
	return "chat", nil
}

func TestEmbedCache_HitsSkipUpstream(t *testing.T) {
	t.Parallel()
	base := &countingAI{vectors: map[string][]float32{"java": {1, 2}}}
	cached := ai.NewEmbedCache(base, 16)

	first, err := cached.Embed(context.Background(), []string{"Java"})
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, first[0])

	// normalization makes "  JAVA " the same key
	second, err := cached.Embed(context.Background(), []string{"  JAVA "})
	require.NoError(t, err)
	assert.Equal(t, first[0], second[0])
	assert.Equal(t, int32(1), atomic.LoadInt32(&base.embeds))
}

func TestEmbedCache_EmptyVectorsNotCached(t *testing.T) {
	t.Parallel()
	base := &countingAI{vectors: map[string][]float32{}}
	cached := ai.NewEmbedCache(base, 16)

	got, err := cached.Embed(context.Background(), []string{"unknown"})
	require.NoError(t, err)
	assert.Empty(t, got[0])

	// the provider can now embed it; the earlier failure was not cached
	base.vectors["unknown"] = []float32{7}
	got, err = cached.Embed(context.Background(), []string{"unknown"})
	require.NoError(t, err)
	assert.Equal(t, []float32{7}, got[0])
	assert.Equal(t, int32(2), atomic.LoadInt32(&base.embeds))
}

func TestEmbedCache_MixedHitAndMiss(t *testing.T) {
	t.Parallel()
	base := &countingAI{vectors: map[string][]float32{"a": {1}, "b": {2}}}
	cached := ai.NewEmbedCache(base, 16)

	_, err := cached.Embed(context.Background(), []string{"a"})
	require.NoError(t, err)

	got, err := cached.Embed(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []float32{1}, got[0])
	assert.Equal(t, []float32{2}, got[1])
	assert.Equal(t, int32(2), atomic.LoadInt32(&base.embeds))
}

func TestNewEmbedCache_ZeroCapacityPassthrough(t *testing.T) {
	t.Parallel()
	base := &countingAI{vectors: map[string][]float32{"a": {1}}}
	var client domain.AIClient = ai.NewEmbedCache(base, 0)
	assert.Equal(t, domain.AIClient(base), client)
}

func TestEmbedCache_ChatPassesThrough(t *testing.T) {
	t.Parallel()
	cached := ai.NewEmbedCache(&countingAI{}, 4)
	out, err := cached.ChatJSON(context.Background(), "s", "u")
	require.NoError(t, err)
	assert.Equal(t, "chat", out)
}
