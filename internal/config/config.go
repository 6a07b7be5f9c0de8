package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration values loaded from environment variables.
type Config struct {
	HTTPPort        string
	DatabaseURL     string
	JWTSecret       string
	TokenExpiration time.Duration

	// AI gateway settings. The API key is required; the server refuses to
	// start without it rather than failing on the first chat request.
	GatewayAPIKey string
	GatewayURL    string
	TextModel     string
	VisionModel   string
	MaxTokens     int

	// Object storage settings used to resolve public download URLs.
	StorageBaseURL string
	StorageBucket  string

	// Per-user daily AI message cap. Admins are exempt.
	DailyMessageLimit int
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first, then checks actual environment variables.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file (useful for development)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Could not load .env file. Using environment variables only.", err)
		// Don't fail if .env is not present, might be in production
	}

	port := getEnv("HTTP_PORT", "8080")
	jwtSecret := getEnv("JWT_SECRET", "default-super-secret-key") // CHANGE THIS IN PRODUCTION!

	dbURL := getEnv("DATABASE_URL", "")
	if dbURL == "" {
		log.Fatal("FATAL: DATABASE_URL environment variable is not set.")
	}

	gatewayKey := getEnv("AI_GATEWAY_API_KEY", "")
	if gatewayKey == "" {
		log.Fatal("FATAL: AI_GATEWAY_API_KEY environment variable is not set.")
	}

	tokenExpStr := getEnv("JWT_EXPIRATION_HOURS", "24")
	tokenExpHours, err := strconv.Atoi(tokenExpStr)
	if err != nil {
		log.Printf("Warning: Invalid JWT_EXPIRATION_HOURS '%s', using default 24h. Error: %v", tokenExpStr, err)
		tokenExpHours = 24
	}

	maxTokensStr := getEnv("AI_MAX_TOKENS", "2000")
	maxTokens, err := strconv.Atoi(maxTokensStr)
	if err != nil {
		log.Printf("Warning: Invalid AI_MAX_TOKENS '%s', using default 2000. Error: %v", maxTokensStr, err)
		maxTokens = 2000
	}

	dailyLimitStr := getEnv("DAILY_MESSAGE_LIMIT", "10")
	dailyLimit, err := strconv.Atoi(dailyLimitStr)
	if err != nil {
		log.Printf("Warning: Invalid DAILY_MESSAGE_LIMIT '%s', using default 10. Error: %v", dailyLimitStr, err)
		dailyLimit = 10
	}

	cfg := &Config{
		HTTPPort:          port,
		DatabaseURL:       dbURL,
		JWTSecret:         jwtSecret,
		TokenExpiration:   time.Hour * time.Duration(tokenExpHours),
		GatewayAPIKey:     gatewayKey,
		GatewayURL:        getEnv("AI_GATEWAY_URL", "https://ai.gateway.lovable.dev/v1"),
		TextModel:         getEnv("AI_TEXT_MODEL", "google/gemini-2.5-flash"),
		VisionModel:       getEnv("AI_VISION_MODEL", "google/gemini-2.5-pro"),
		MaxTokens:         maxTokens,
		StorageBaseURL:    getEnv("STORAGE_BASE_URL", ""),
		StorageBucket:     getEnv("STORAGE_BUCKET", "educational-files"),
		DailyMessageLimit: dailyLimit,
	}

	log.Printf("Loaded config: Port=%s, DB_URL=***, TokenExp=%s, Gateway=%s, TextModel=%s, VisionModel=%s",
		cfg.HTTPPort, cfg.TokenExpiration, cfg.GatewayURL, cfg.TextModel, cfg.VisionModel)

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Env variable %s not set, using default: %s", key, fallback)
	return fallback
}
