// Package ai implements the language-model client used for embeddings and
// profile extraction, plus caching wrappers around it.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/fairyhunter13/career-compass/internal/adapter/observability"
	"github.com/fairyhunter13/career-compass/internal/config"
)

// Client talks to an OpenAI-compatible embeddings API and a Groq-compatible
// chat API. Both calls carry bounded timeouts so a slow upstream cannot hang
// a request indefinitely.
type Client struct {
	cfg     config.Config
	embedHC *http.Client
	chatHC  *http.Client
}

// New constructs a client with the configured timeouts.
func New(cfg config.Config) *Client {
	return &Client{
		cfg:     cfg,
		embedHC: &http.Client{Timeout: cfg.EmbedTimeout},
		chatHC:  &http.Client{Timeout: cfg.ChatTimeout},
	}
}

// Embed returns one vector per input text. Work is chunked into batches of
// EmbedBatchSize; a failed chunk yields empty vectors for its texts but does
// not abort the other chunks. Callers must treat an empty vector as
// "similarity unavailable", never as zero similarity.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	batch := c.cfg.EmbedBatchSize
	if batch <= 0 {
		batch = 100
	}
	for start := 0; start < len(texts); start += batch {
		end := start + batch
		if end > len(texts) {
			end = len(texts)
		}
		vecs, err := c.embedChunk(ctx, texts[start:end])
		if err != nil {
			slog.Warn("embedding chunk failed",
				slog.Int("start", start), slog.Int("size", end-start), slog.Any("err", err))
			for i := start; i < end; i++ {
				out[i] = nil
			}
			continue
		}
		copy(out[start:end], vecs)
	}
	return out, nil
}

// embedChunk retries up to EmbedMaxAttempts with a delay growing by attempt
// number before giving up on the chunk.
func (c *Client) embedChunk(ctx context.Context, texts []string) ([][]float32, error) {
	var lastErr error
	for attempt := 1; attempt <= c.cfg.EmbedMaxAttempts; attempt++ {
		start := time.Now()
		vecs, err := c.embedOnce(ctx, texts)
		observability.AIRequestsTotal.WithLabelValues("openai", "embed").Inc()
		observability.AIRequestDuration.WithLabelValues("openai", "embed").Observe(time.Since(start).Seconds())
		if err == nil {
			return vecs, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt < c.cfg.EmbedMaxAttempts {
			delay := time.Duration(attempt) * c.cfg.EmbedRetryDelay
			slog.Debug("embedding retry",
				slog.Int("attempt", attempt), slog.Duration("delay", delay))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}

func (c *Client) embedOnce(ctx context.Context, texts []string) ([][]float32, error) {
	payload := map[string]any{"model": c.cfg.EmbeddingsModel, "input": texts}
	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.OpenAIBaseURL+"/embeddings", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.OpenAIAPIKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.embedHC.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("embeddings status %d: %s", resp.StatusCode, snippet)
	}
	var out struct {
		Data []struct {
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	vecs := make([][]float32, len(texts))
	for _, d := range out.Data {
		if d.Index >= 0 && d.Index < len(vecs) {
			vecs[d.Index] = d.Embedding
		}
	}
	return vecs, nil
}

// ChatJSON sends a prompt pair to the chat model and returns the raw
// completion text. Transient failures are retried with exponential backoff.
func (c *Client) ChatJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	var result string
	op := func() error {
		start := time.Now()
		s, err := c.chatOnce(ctx, systemPrompt, userPrompt)
		observability.AIRequestsTotal.WithLabelValues("groq", "chat").Inc()
		observability.AIRequestDuration.WithLabelValues("groq", "chat").Observe(time.Since(start).Seconds())
		if err != nil {
			return err
		}
		result = s
		return nil
	}
	expo := backoff.NewExponentialBackOff()
	maxElapsed, initial, maxInterval, multiplier := c.cfg.ChatBackoff()
	expo.MaxElapsedTime = maxElapsed
	expo.InitialInterval = initial
	expo.MaxInterval = maxInterval
	expo.Multiplier = multiplier
	if err := backoff.Retry(op, backoff.WithContext(expo, ctx)); err != nil {
		return "", err
	}
	return result, nil
}

func (c *Client) chatOnce(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	payload := map[string]any{
		"model": c.cfg.ChatModel,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
		"temperature": 0.2,
	}
	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.GroqBaseURL+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.GroqAPIKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.chatHC.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
		// Not retryable; fail fast.
		return "", backoff.Permanent(fmt.Errorf("chat status %d", resp.StatusCode))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("chat status %d", resp.StatusCode)
	}
	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("chat returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}
