package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DBUrl       string
	FrontendURL string

	// Auth: HS256 shared secret and/or RS256 JWKS endpoint
	JWTSecret string
	JWKSURL   string

	// S3-compatible document storage
	S3Provider        string // "aws" or "wasabi"
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Region          string
	S3Bucket          string
	S3Endpoint        string

	// Redis (upload rate limiting)
	RedisURL      string
	RedisPassword string

	// Upload limits
	UploadsPerMinute int
	UploadsPerDay    int
}

func LoadConfig() (*Config, error) {
	// Only effective locally; ignored in production when the file is absent
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DBUrl:       getEnv("DATABASE_URL", ""),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWKSURL:   strings.TrimRight(getEnv("JWKS_URL", ""), "/"),

		S3Provider:        getEnv("S3_PROVIDER", "aws"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Region:          getEnv("S3_REGION", "ap-southeast-1"),
		S3Bucket:          getEnv("S3_DOCUMENT_BUCKET", ""),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),

		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		UploadsPerMinute: getEnvInt("UPLOADS_PER_MINUTE", 10),
		UploadsPerDay:    getEnvInt("UPLOADS_PER_DAY", 50),
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.S3Bucket == "" {
		log.Println("WARNING: S3_DOCUMENT_BUCKET not configured. Document uploads will be unavailable.")
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Upload rate limiting disabled.")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}
