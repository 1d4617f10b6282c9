package ai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/career-compass/internal/adapter/ai"
	"github.com/fairyhunter13/career-compass/internal/config"
)

func testConfig(embedURL, chatURL string) config.Config {
	return config.Config{
		AppEnv:           "test",
		OpenAIBaseURL:    embedURL,
		EmbeddingsModel:  "test-embed",
		EmbedTimeout:     2 * time.Second,
		EmbedMaxAttempts: 3,
		EmbedRetryDelay:  time.Millisecond,
		EmbedBatchSize:   2,
		GroqBaseURL:      chatURL,
		ChatModel:        "test-chat",
		ChatTimeout:      2 * time.Second,
	}
}

func embedResponse(t *testing.T, w http.ResponseWriter, vecs ...[]float32) {
	t.Helper()
	type item struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	}
	var data []item
	for i, v := range vecs {
		data = append(data, item{Index: i, Embedding: v})
	}
	require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"data": data}))
}

func TestEmbed_BatchesAndOrdersResults(t *testing.T) {
	t.Parallel()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		var req struct {
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		vecs := make([][]float32, len(req.Input))
		for i := range req.Input {
			vecs[i] = []float32{float32(len(req.Input[i]))}
		}
		embedResponse(t, w, vecs...)
	}))
	defer srv.Close()

	c := ai.New(testConfig(srv.URL, srv.URL))
	got, err := c.Embed(context.Background(), []string{"a", "bb", "ccc"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []float32{1}, got[0])
	assert.Equal(t, []float32{2}, got[1])
	assert.Equal(t, []float32{3}, got[2])
	// batch size 2 means two upstream calls for three texts
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestEmbed_FailedChunkDoesNotAbortOthers(t *testing.T) {
	t.Parallel()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		// the first chunk exhausts its three attempts, the second succeeds
		if n <= 3 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		embedResponse(t, w, []float32{9})
	}))
	defer srv.Close()

	c := ai.New(testConfig(srv.URL, srv.URL))
	got, err := c.Embed(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	// first chunk (a, b) failed: empty vectors mean similarity unavailable
	assert.Empty(t, got[0])
	assert.Empty(t, got[1])
	assert.Equal(t, []float32{9}, got[2])
}

func TestEmbed_RetriesTransientFailure(t *testing.T) {
	t.Parallel()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.Error(w, "flaky", http.StatusBadGateway)
			return
		}
		embedResponse(t, w, []float32{1}, []float32{2})
	}))
	defer srv.Close()

	c := ai.New(testConfig(srv.URL, srv.URL))
	got, err := c.Embed(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []float32{1}, got[0])
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestChatJSON_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []map[string]string `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0]["role"])
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": `{"ok":true}`}},
			},
		})
	}))
	defer srv.Close()

	c := ai.New(testConfig(srv.URL, srv.URL))
	out, err := c.ChatJSON(context.Background(), "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, out)
}

func TestChatJSON_BadRequestFailsFast(t *testing.T) {
	t.Parallel()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad prompt", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := ai.New(testConfig(srv.URL, srv.URL))
	_, err := c.ChatJSON(context.Background(), "sys", "user")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestChatJSON_RetriesServerErrors(t *testing.T) {
	t.Parallel()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "done"}},
			},
		})
	}))
	defer srv.Close()

	c := ai.New(testConfig(srv.URL, srv.URL))
	out, err := c.ChatJSON(context.Background(), "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, "done", out)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(3))
}

func TestChatJSON_NoChoices(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	c := ai.New(testConfig(srv.URL, srv.URL))
	_, err := c.ChatJSON(context.Background(), "sys", "user")
	require.Error(t, err)
}
