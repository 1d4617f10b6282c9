// Package config defines configuration parsing and helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"dev"`
	Port   int    `env:"PORT" envDefault:"8080"`

	// Embeddings provider (OpenAI-compatible API)
	OpenAIAPIKey    string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL   string        `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	EmbeddingsModel string        `env:"EMBEDDINGS_MODEL" envDefault:"text-embedding-3-small"`
	EmbedTimeout    time.Duration `env:"EMBED_TIMEOUT" envDefault:"10s"`
	// EmbedMaxAttempts bounds the retry loop; the delay grows with the
	// attempt number (EmbedRetryDelay x attempt).
	EmbedMaxAttempts int           `env:"EMBED_MAX_ATTEMPTS" envDefault:"3"`
	EmbedRetryDelay  time.Duration `env:"EMBED_RETRY_DELAY" envDefault:"500ms"`
	EmbedBatchSize   int           `env:"EMBED_BATCH_SIZE" envDefault:"100"`
	EmbedCacheSize   int           `env:"EMBED_CACHE_SIZE" envDefault:"2048"`

	// Chat profiler (Groq / OpenAI-compatible API)
	GroqAPIKey  string        `env:"GROQ_API_KEY"`
	GroqBaseURL string        `env:"GROQ_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	ChatModel   string        `env:"CHAT_MODEL" envDefault:"llama-3.3-70b-versatile"`
	ChatTimeout time.Duration `env:"CHAT_TIMEOUT" envDefault:"60s"`

	// Chat backoff configuration
	ChatBackoffMaxElapsedTime  time.Duration `env:"CHAT_BACKOFF_MAX_ELAPSED_TIME" envDefault:"90s"`
	ChatBackoffInitialInterval time.Duration `env:"CHAT_BACKOFF_INITIAL_INTERVAL" envDefault:"2s"`
	ChatBackoffMaxInterval     time.Duration `env:"CHAT_BACKOFF_MAX_INTERVAL" envDefault:"20s"`
	ChatBackoffMultiplier      float64       `env:"CHAT_BACKOFF_MULTIPLIER" envDefault:"1.5"`

	// Vector knowledge store
	QdrantURL        string `env:"QDRANT_URL" envDefault:"http://localhost:6333"`
	QdrantAPIKey     string `env:"QDRANT_API_KEY"`
	QdrantCollection string `env:"QDRANT_COLLECTION" envDefault:"career_knowledge"`
	VectorSize       int    `env:"VECTOR_SIZE" envDefault:"1536"`

	// Knowledge base and taxonomy data
	SkillsCSV    string `env:"SKILLS_CSV" envDefault:"data/skills.csv"`
	KnowledgeCSV string `env:"KNOWLEDGE_CSV" envDefault:"data/unified_knowledge.csv"`
	DenyListFile string `env:"DENYLIST_FILE" envDefault:"configs/denylist.yaml"`

	// HTTP server
	CORSAllowOrigins      string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	RateLimitPerMin       int           `env:"RATE_LIMIT_PER_MIN" envDefault:"30"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	HTTPReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	HTTPWriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	HTTPIdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`

	// Observability
	OTLPEndpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	OTELServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"career-compass"`
}

// Load parses environment variables into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	return cfg, nil
}

// IsDev reports whether the app is running in development mode.
func (c Config) IsDev() bool { return strings.ToLower(c.AppEnv) == "dev" }

// IsProd reports whether the app is running in production mode.
func (c Config) IsProd() bool { return strings.ToLower(c.AppEnv) == "prod" }

// IsTest reports whether the app is running in test mode.
func (c Config) IsTest() bool { return strings.ToLower(c.AppEnv) == "test" }

// ChatBackoff returns backoff settings appropriate for the current
// environment; tests use much shorter intervals.
func (c Config) ChatBackoff() (maxElapsed, initial, maxInterval time.Duration, multiplier float64) {
	if c.IsTest() {
		return 2 * time.Second, 50 * time.Millisecond, 500 * time.Millisecond, 2.0
	}
	return c.ChatBackoffMaxElapsedTime, c.ChatBackoffInitialInterval, c.ChatBackoffMaxInterval, c.ChatBackoffMultiplier
}
