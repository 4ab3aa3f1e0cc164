package config

import (
	"os"
	"strconv"
	"strings"
)

// LLM providers
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// DefaultJWTSecret is the placeholder secret; Validate rejects it
const DefaultJWTSecret = "change-me-in-production"

// Config holds all configuration for the application
type Config struct {
	// Server
	Port         string
	Debug        bool
	TemplatesDir string
	CORSOrigins  []string

	// Logging
	LogLevel  string
	LogFormat string

	// Resume corpus
	DataDir string

	// LLM
	LLMProvider    string
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	ChatModel      string
	EmbeddingModel string
	LLMTemperature float64

	// Google Cloud
	ProjectID   string
	Location    string
	GeminiModel string

	// Retrieval
	ChunkSize        int
	ChunkOverlap     int
	RetrievalTopK    int
	EmbedBatchSize   int
	EmbedConcurrency int
	PlayfulResponses bool

	// Job page scraping
	HTTPTimeoutSeconds    int
	MaxPageBytes          int64
	BrowserFallback       bool
	ChromePath            string
	LLMExtractionFallback bool
	KeywordsFile          string
	MaxBatchURLs          int
	AnalyzeConcurrency    int

	// Cache
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	CacheTTLMinutes int

	// Persistence
	FirestoreEnabled bool
	ResumeBucket     string

	// Operator authentication
	JWTSecret            string
	JWTExpiryHours       int
	OperatorEmail        string
	OperatorPasswordHash string
	GoogleClientID       string
	OperatorEmails       []string
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		// Server
		Port:         getEnv("PORT", "5002"),
		Debug:        getEnvBool("DEBUG", false),
		TemplatesDir: getEnv("TEMPLATES_DIR", "templates"),
		CORSOrigins:  getEnvList("CORS_ORIGINS", []string{"*"}),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		DataDir: getEnv("DATA_DIR", "data"),

		// LLM
		LLMProvider:    strings.ToLower(getEnv("LLM_PROVIDER", ProviderOpenAI)),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", ""),
		ChatModel:      getEnv("CHAT_MODEL", "gpt-4-turbo"),
		EmbeddingModel: getEnv("EMBEDDING_MODEL", "text-embedding-ada-002"),
		LLMTemperature: getEnvFloat("LLM_TEMPERATURE", 0.7),

		// Google Cloud
		ProjectID:   getEnv("PROJECT_ID", ""),
		Location:    getEnv("LOCATION", "us-central1"),
		GeminiModel: getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		// Retrieval
		ChunkSize:        getEnvInt("CHUNK_SIZE", 500),
		ChunkOverlap:     getEnvInt("CHUNK_OVERLAP", 200),
		RetrievalTopK:    getEnvInt("RETRIEVAL_TOP_K", 4),
		EmbedBatchSize:   getEnvInt("EMBED_BATCH_SIZE", 64),
		EmbedConcurrency: getEnvInt("EMBED_CONCURRENCY", 4),
		PlayfulResponses: getEnvBool("PLAYFUL_RESPONSES", false),

		// Job page scraping
		HTTPTimeoutSeconds:    getEnvInt("HTTP_TIMEOUT_SECONDS", 10),
		MaxPageBytes:          int64(getEnvInt("MAX_PAGE_BYTES", 5*1024*1024)),
		BrowserFallback:       getEnvBool("BROWSER_FALLBACK", false),
		ChromePath:            getEnv("CHROME_PATH", ""),
		LLMExtractionFallback: getEnvBool("LLM_EXTRACTION_FALLBACK", false),
		KeywordsFile:          getEnv("KEYWORDS_FILE", ""),
		MaxBatchURLs:          getEnvInt("MAX_BATCH_URLS", 10),
		AnalyzeConcurrency:    getEnvInt("ANALYZE_CONCURRENCY", 5),

		// Cache
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		CacheTTLMinutes: getEnvInt("CACHE_TTL_MINUTES", 60),

		// Persistence
		FirestoreEnabled: getEnvBool("FIRESTORE_ENABLED", false),
		ResumeBucket:     getEnv("RESUME_BUCKET", ""),

		// Operator authentication
		JWTSecret:            getEnv("JWT_SECRET", DefaultJWTSecret),
		JWTExpiryHours:       getEnvInt("JWT_EXPIRY_HOURS", 24),
		OperatorEmail:        getEnv("OPERATOR_EMAIL", ""),
		OperatorPasswordHash: getEnv("OPERATOR_PASSWORD_HASH", ""),
		GoogleClientID:       getEnv("GOOGLE_CLIENT_ID", ""),
		OperatorEmails:       getEnvList("OPERATOR_EMAILS", nil),
	}

	return cfg
}

// Validate checks the configuration the HTTP server needs, including the
// token signing secret
func (c *Config) Validate() error {
	if err := c.ValidateServices(); err != nil {
		return err
	}
	if c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret {
		return &ConfigError{Field: "JWT_SECRET", Message: "JWT_SECRET must be set to a private value"}
	}
	return nil
}

// ValidateServices checks the configuration shared by the server and the CLI
func (c *Config) ValidateServices() error {
	switch c.LLMProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return &ConfigError{Field: "OPENAI_API_KEY", Message: "OPENAI_API_KEY is required for the openai provider"}
		}
	case ProviderGemini:
		if c.ProjectID == "" {
			return &ConfigError{Field: "PROJECT_ID", Message: "PROJECT_ID is required for the gemini provider"}
		}
		// Embeddings always go through the OpenAI-compatible API.
		if c.OpenAIAPIKey == "" {
			return &ConfigError{Field: "OPENAI_API_KEY", Message: "OPENAI_API_KEY is required for embeddings"}
		}
	default:
		return &ConfigError{Field: "LLM_PROVIDER", Message: "LLM_PROVIDER must be openai or gemini"}
	}

	if c.FirestoreEnabled && c.ProjectID == "" {
		return &ConfigError{Field: "PROJECT_ID", Message: "PROJECT_ID is required when FIRESTORE_ENABLED is set"}
	}

	if c.ChunkSize <= 0 {
		return &ConfigError{Field: "CHUNK_SIZE", Message: "CHUNK_SIZE must be positive"}
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return &ConfigError{Field: "CHUNK_OVERLAP", Message: "CHUNK_OVERLAP must be between 0 and CHUNK_SIZE"}
	}
	if c.RetrievalTopK < 1 {
		return &ConfigError{Field: "RETRIEVAL_TOP_K", Message: "RETRIEVAL_TOP_K must be at least 1"}
	}

	return nil
}

// OperatorLoginEnabled reports whether password login is configured
func (c *Config) OperatorLoginEnabled() bool {
	return c.OperatorEmail != "" && c.OperatorPasswordHash != ""
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated value, dropping empty entries
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
