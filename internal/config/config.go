package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// External services
	ReportAPIURL string
	ChatAPIURL   string
	IngestAPIURL string

	// HTTP clients
	HTTPTimeout   time.Duration
	UploadTimeout time.Duration

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int // concurrent uploads allowed through the bulkhead

	// Cache
	CacheTTL time.Duration

	// Reports
	TopLimit      int // entries in top-products / top-customers
	ReconPageSize int

	// Chat transcripts
	TranscriptDir string

	// Observability
	OTLPEndpoint string

	// Auth — empty secret leaves the API open
	JWTSecret string
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		ReportAPIURL: getEnv("REPORT_API_URL", "http://localhost:8081"),
		ChatAPIURL:   getEnv("CHAT_API_URL", "http://localhost:8082"),
		IngestAPIURL: getEnv("INGEST_API_URL", "http://localhost:8081"),

		HTTPTimeout:   getEnvDuration("HTTP_TIMEOUT", 10*time.Second),
		UploadTimeout: getEnvDuration("UPLOAD_TIMEOUT", 2*time.Minute),

		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 2),

		CacheTTL: getEnvDuration("CACHE_TTL", 5*time.Minute),

		TopLimit:      getEnvInt("TOP_LIMIT", 5),
		ReconPageSize: getEnvInt("RECON_PAGE_SIZE", 10),

		TranscriptDir: getEnv("TRANSCRIPT_DIR", "data/transcripts"),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
