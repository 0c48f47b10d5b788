package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Vector store backends.
const (
	StoreFlat   = "flat"
	StoreQdrant = "qdrant"
)

// Fixed artifact names under IndexDir. The index builder writes them; the
// API loads them wholesale at start.
const (
	IndexFile    = "educ_index.gob"
	MetadataFile = "educ_metadata.json"
	MatrixFile   = "educ_embeddings.bin"
)

// Config holds all configuration for the application. The retrieval policy
// numbers (TopK, MinScore, FallbackThreshold) are deployment tuning knobs
// and deliberately live here rather than as code literals.
type Config struct {
	EmbeddingBaseURL string
	EmbeddingModel   string
	LLMBaseURL       string
	LLMModel         string
	LLMAPIKey        string

	IndexDir    string
	VectorSize  int
	VectorStore string // flat or qdrant

	QdrantURL        string
	QdrantCollection string

	DBPath  string
	APIPort string

	TopK              int
	MinScore          float64
	FallbackThreshold float64
	FallbackMaxTokens int
	FallbackLang      string
	GenerationTimeout time.Duration

	SpeechEnabled bool
	SpeechAPIKey  string
	SpeechBaseURL string

	LogLevel  slog.Level
	LogFormat string
}

// Load reads configuration from environment variables, applying defaults for
// optional fields and validating required ones. A .env file in the current
// directory or any parent (up to the project root) is loaded first;
// variables already set in the environment win.
func Load() (*Config, error) {
	_ = godotenv.Load() // current directory

	if wd, err := os.Getwd(); err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		EmbeddingBaseURL: getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingModel:   getEnv("EMBEDDING_MODEL", "all-MiniLM-L6-v2"),
		LLMBaseURL:       getEnv("LLM_BASE_URL", "http://localhost:8080"),
		LLMModel:         getEnv("LLM_MODEL", "flan-t5-xl"),
		LLMAPIKey:        getEnv("LLM_API_KEY", "dummy-key"),
		IndexDir:         getEnv("INDEX_DIR", "./data/index"),
		VectorStore:      getEnv("VECTOR_STORE", StoreFlat),
		QdrantURL:        getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "corpus"),
		DBPath:           getEnv("DB_PATH", "./data/eduassist.db"),
		APIPort:          getEnv("API_PORT", "9000"),
		FallbackLang:     getEnv("FALLBACK_LANG", "fr"),
		SpeechEnabled:    getEnv("SPEECH_ENABLED", "false") == "true",
		SpeechAPIKey:     getEnv("SPEECH_API_KEY", ""),
		SpeechBaseURL:    getEnv("SPEECH_BASE_URL", ""),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
	}

	// VECTOR_SIZE must match the embedding model's output dimensionality;
	// the same model must be used at build time and at query time.
	vectorSizeStr := getEnv("VECTOR_SIZE", "")
	if vectorSizeStr == "" {
		return nil, fmt.Errorf("VECTOR_SIZE is required")
	}
	vectorSize, err := strconv.Atoi(vectorSizeStr)
	if err != nil {
		return nil, fmt.Errorf("VECTOR_SIZE must be a valid integer: %w", err)
	}
	if vectorSize <= 0 {
		return nil, fmt.Errorf("VECTOR_SIZE must be greater than 0")
	}
	cfg.VectorSize = vectorSize

	if cfg.TopK, err = getEnvInt("TOP_K", 3); err != nil {
		return nil, err
	}
	if cfg.TopK <= 0 {
		return nil, fmt.Errorf("TOP_K must be greater than 0")
	}
	if cfg.MinScore, err = getEnvFloat("MIN_SCORE", 0.5); err != nil {
		return nil, err
	}
	if cfg.FallbackThreshold, err = getEnvFloat("FALLBACK_THRESHOLD", 0.75); err != nil {
		return nil, err
	}
	if cfg.FallbackMaxTokens, err = getEnvInt("FALLBACK_MAX_TOKENS", 80); err != nil {
		return nil, err
	}
	if cfg.GenerationTimeout, err = getEnvDuration("GENERATION_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	if cfg.VectorStore != StoreFlat && cfg.VectorStore != StoreQdrant {
		return nil, fmt.Errorf("VECTOR_STORE must be %q or %q, got %q", StoreFlat, StoreQdrant, cfg.VectorStore)
	}
	if cfg.SpeechEnabled && cfg.SpeechAPIKey == "" {
		return nil, fmt.Errorf("SPEECH_API_KEY is required when SPEECH_ENABLED=true")
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL is invalid: %w", err)
	}
	cfg.LogLevel = level

	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// IndexPath returns the persisted similarity index location.
func (c *Config) IndexPath() string { return filepath.Join(c.IndexDir, IndexFile) }

// MetadataPath returns the persisted metadata sequence location.
func (c *Config) MetadataPath() string { return filepath.Join(c.IndexDir, MetadataFile) }

// MatrixPath returns the persisted embedding matrix location.
func (c *Config) MatrixPath() string { return filepath.Join(c.IndexDir, MatrixFile) }

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return v, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid number: %w", key, err)
	}
	return v, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid duration: %w", key, err)
	}
	return v, nil
}
