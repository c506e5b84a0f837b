// Package config loads application settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Settings is the umbrella configuration object assembled at startup and
// passed to the components that need it. Database settings live in
// pkg/database and are loaded separately.
type Settings struct {
	Environment string // "development" or "production"
	APIHost     string
	APIPort     int

	OpenAI    OpenAIConfig
	Qdrant    QdrantConfig
	PostHog   PostHogConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Search    SearchDefaults
	Queue     *QueueConfig
	Retention *RetentionConfig
}

// OpenAIConfig holds credentials and model names for the LLM operators.
type OpenAIConfig struct {
	APIKey         string
	ChatModel      string
	EmbeddingModel string
}

// QdrantConfig holds the vector store connection settings.
type QdrantConfig struct {
	Host   string
	Port   int
	APIKey string
	UseTLS bool
}

// PostHogConfig holds the analytics sink settings. An empty APIKey
// disables analytics (a no-op tracker is used).
type PostHogConfig struct {
	APIKey   string
	Endpoint string
}

// RedisConfig holds the rate limiter backend settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RateLimitConfig controls the per-organization API rate limit.
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
}

// SearchDefaults are applied when a search request omits a value.
type SearchDefaults struct {
	DefaultLimit   int
	MaxLimit       int
	ExpansionCount int           // alternative phrasings generated by query expansion
	RerankTopK     int           // results considered by the reranking operator
	OperatorBudget time.Duration // ceiling passed to LLM/vector calls inside operators
}

// Load reads settings from the environment, applying defaults.
func Load() (*Settings, error) {
	apiPort, err := strconv.Atoi(getEnvOrDefault("API_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid API_PORT: %w", err)
	}
	qdrantPort, err := strconv.Atoi(getEnvOrDefault("QDRANT_PORT", "6334"))
	if err != nil {
		return nil, fmt.Errorf("invalid QDRANT_PORT: %w", err)
	}
	redisDB, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	rpm, err := strconv.Atoi(getEnvOrDefault("RATE_LIMIT_REQUESTS_PER_MINUTE", "120"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_REQUESTS_PER_MINUTE: %w", err)
	}

	s := &Settings{
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),
		APIHost:     getEnvOrDefault("API_HOST", "0.0.0.0"),
		APIPort:     apiPort,
		OpenAI: OpenAIConfig{
			APIKey:         os.Getenv("OPENAI_API_KEY"),
			ChatModel:      getEnvOrDefault("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
			EmbeddingModel: getEnvOrDefault("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
		},
		Qdrant: QdrantConfig{
			Host:   getEnvOrDefault("QDRANT_HOST", "localhost"),
			Port:   qdrantPort,
			APIKey: os.Getenv("QDRANT_API_KEY"),
			UseTLS: getEnvOrDefault("QDRANT_USE_TLS", "false") == "true",
		},
		PostHog: PostHogConfig{
			APIKey:   os.Getenv("POSTHOG_API_KEY"),
			Endpoint: getEnvOrDefault("POSTHOG_ENDPOINT", "https://app.posthog.com"),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		RateLimit: RateLimitConfig{
			Enabled:           getEnvOrDefault("RATE_LIMIT_ENABLED", "true") == "true",
			RequestsPerMinute: rpm,
		},
		Search:    DefaultSearchDefaults(),
		Queue:     DefaultQueueConfig(),
		Retention: DefaultRetentionConfig(),
	}

	if err := s.applyOverrides(); err != nil {
		return nil, err
	}

	return s, nil
}

// applyOverrides folds optional env overrides into the default sub-configs.
func (s *Settings) applyOverrides() error {
	if v := os.Getenv("QUEUE_WORKER_COUNT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid QUEUE_WORKER_COUNT %q", v)
		}
		s.Queue.WorkerCount = n
	}
	if v := os.Getenv("SEARCH_DEFAULT_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid SEARCH_DEFAULT_LIMIT %q", v)
		}
		s.Search.DefaultLimit = n
	}
	if v := os.Getenv("EVENT_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid EVENT_TTL %q: %w", v, err)
		}
		s.Retention.EventTTL = d
	}
	return nil
}

// DefaultSearchDefaults returns the built-in search defaults.
func DefaultSearchDefaults() SearchDefaults {
	return SearchDefaults{
		DefaultLimit:   20,
		MaxLimit:       100,
		ExpansionCount: 3,
		RerankTopK:     20,
		OperatorBudget: 30 * time.Second,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
