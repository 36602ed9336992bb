package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort string
	LogMode    string

	// Storage
	StoreBackend   string // sql, redis or memory
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string
	RedisURL       string
	ProgressKey    string

	// Content
	ContentPath     string // local directory or http(s) base URL
	MetadataFile    string
	StaticFilesPath string
	TTSEndpoint     string
	DefaultLanguage string

	// Game
	SessionSize      int
	MasteryThreshold int
	IdleGameTTL      time.Duration
	CatalogRefresh   time.Duration
	RateLimit        int
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort: getEnv("PORT", "8080"),
		LogMode:    getEnv("LOG_MODE", "dev"),

		StoreBackend:   strings.ToLower(getEnv("STORE_BACKEND", "sql")),
		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabasePath:   getEnv("DB_PATH", "./dictee.db"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379/0"),
		ProgressKey:    getEnv("PROGRESS_KEY", "dictee_progress"),

		ContentPath:     getEnv("CONTENT_PATH", "./content"),
		MetadataFile:    getEnv("METADATA_FILE", "metadata.yaml"),
		StaticFilesPath: getEnv("STATIC_PATH", "./static"),
		TTSEndpoint:     getEnv("TTS_ENDPOINT", "https://translate.google.com/translate_tts"),
		DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "fr"),

		SessionSize:      getEnvInt("SESSION_SIZE", 10),
		MasteryThreshold: getEnvInt("MASTERY_THRESHOLD", 3),
		IdleGameTTL:      getEnvDuration("IDLE_GAME_TTL", 2*time.Hour),
		CatalogRefresh:   getEnvDuration("CATALOG_REFRESH", time.Hour),
		RateLimit:        getEnvInt("RATE_LIMIT", 120),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads a positive integer, falling back to the default on
// missing or malformed values.
func getEnvInt(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
