// Package config loads runtime settings from the environment and holds the
// tunable constants of the complaint validation pipeline.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the process configuration, read once at startup.
type Config struct {
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	HTTPAddr  string
	UploadDir string
	DataDir   string

	VisionAPIKey string
	GeminiAPIKey string
	GeminiModel  string

	JWTSecret      string
	StatusCacheTTL time.Duration

	Validation ValidationTuning
}

// Load reads the configuration from environment variables. Call godotenv.Load
// first if a .env file should be honoured.
func Load() Config {
	return Config{
		DatabaseURL:    databaseURL(),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8000"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		DataDir:        getEnv("DATA_DIR", "data"),
		VisionAPIKey:   os.Getenv("GOOGLE_VISION_API_KEY"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		JWTSecret:      getEnv("JWT_SECRET", "guarda-azul-dev-secret"),
		StatusCacheTTL: getEnvDuration("STATUS_CACHE_TTL", DefaultStatusCacheTTL),
		Validation:     DefaultValidationTuning(),
	}
}

// databaseURL prefers DATABASE_URL and falls back to the discrete DB_* variables.
func databaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_NAME", "guarda-azul-db"),
		getEnv("DB_PORT", "5432"),
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
