package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/fairyhunter13/career-compass/internal/adapter/observability"
	"github.com/fairyhunter13/career-compass/internal/domain"
	"github.com/fairyhunter13/career-compass/pkg/textx"
)

// embedCacheClient wraps an AIClient and caches embedding vectors by the hash
// of the normalized text. Safe for concurrent use. Only Embed is cached;
// ChatJSON passes through. Eviction is FIFO once the capacity is reached.
// Empty vectors (provider failures) are never cached, so a later call can
// still succeed.
type embedCacheClient struct {
	base     domain.AIClient
	capacity int
	mu       sync.RWMutex
	m        map[string][]float32
	ord      []string
}

// NewEmbedCache wraps base with an embedding result cache of the given
// capacity. If capacity <= 0, base is returned unmodified.
func NewEmbedCache(base domain.AIClient, capacity int) domain.AIClient {
	if capacity <= 0 || base == nil {
		return base
	}
	return &embedCacheClient{base: base, capacity: capacity, m: make(map[string][]float32), ord: make([]string, 0, capacity)}
}

func (c *embedCacheClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	res := make([][]float32, len(texts))
	missIdx := make([]int, 0)
	missTexts := make([]string, 0)
	for i, t := range texts {
		k := embedKey(t)
		c.mu.RLock()
		v, ok := c.m[k]
		c.mu.RUnlock()
		observability.ObserveCache("embed", ok)
		if ok {
			res[i] = v
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, t)
	}
	if len(missIdx) > 0 {
		vecs, err := c.base.Embed(ctx, missTexts)
		if err != nil {
			return nil, err
		}
		for j, idx := range missIdx {
			res[idx] = vecs[j]
			if len(vecs[j]) > 0 {
				c.put(missTexts[j], vecs[j])
			}
		}
	}
	return res, nil
}

func (c *embedCacheClient) ChatJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return c.base.ChatJSON(ctx, systemPrompt, userPrompt)
}

func (c *embedCacheClient) put(text string, vec []float32) {
	k := embedKey(text)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.m[k]; exists {
		c.m[k] = vec
		return
	}
	if len(c.ord) >= c.capacity {
		old := c.ord[0]
		c.ord = c.ord[1:]
		delete(c.m, old)
	}
	c.m[k] = vec
	c.ord = append(c.ord, k)
}

func embedKey(text string) string {
	h := sha256.Sum256([]byte(textx.Normalize(text)))
	return hex.EncodeToString(h[:])
}
