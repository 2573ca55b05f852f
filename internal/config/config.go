package config

import (
	"encoding/hex"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration values loaded from environment variables.
type Config struct {
	DatabaseURL     string
	JWTSecret       string
	HTTPPort        string
	TokenExpiration time.Duration

	// EncryptionKey is the raw 32-byte master secret the content codec
	// derives per-user keys from.
	EncryptionKey []byte

	// Upstream completion API. The key is server-held and never accepted
	// from clients.
	OpenAIAPIKey  string
	OpenAIBaseURL string
	DefaultModel  string
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first, then checks actual environment variables.
func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Could not load .env file. Using environment variables only.", err)
		// Don't fail if .env is not present, might be in production
	}

	port := getEnv("HTTP_PORT", "8080")
	jwtSecret := getEnv("JWT_SECRET", "default-super-secret-key") // CHANGE THIS IN PRODUCTION!
	dbURL := getEnv("DATABASE_URL", "")
	if dbURL == "" {
		log.Fatal("FATAL: DATABASE_URL environment variable is not set.")
	}

	tokenExpStr := getEnv("JWT_EXPIRATION_HOURS", "24")
	tokenExpHours, err := strconv.Atoi(tokenExpStr)
	if err != nil {
		log.Printf("Warning: Invalid JWT_EXPIRATION_HOURS '%s', using default 24h. Error: %v", tokenExpStr, err)
		tokenExpHours = 24
	}

	// Load and decode the master secret (MUST be 64 hex characters for 32 bytes)
	encryptionKeyHex := getEnv("ENCRYPTION_KEY", "")
	if encryptionKeyHex == "" {
		log.Fatal("FATAL: ENCRYPTION_KEY environment variable is not set.")
	}
	encryptionKeyBytes, err := hex.DecodeString(encryptionKeyHex)
	if err != nil {
		log.Fatalf("FATAL: Failed to decode ENCRYPTION_KEY from hex: %v", err)
	}
	if len(encryptionKeyBytes) != 32 {
		log.Fatalf("FATAL: ENCRYPTION_KEY must be 32 bytes (64 hex characters) long, got %d bytes", len(encryptionKeyBytes))
	}

	openAIKey := getEnv("OPENAI_API_KEY", "")
	if openAIKey == "" {
		log.Fatal("FATAL: OPENAI_API_KEY environment variable is not set.")
	}

	cfg := &Config{
		HTTPPort:        port,
		JWTSecret:       jwtSecret,
		DatabaseURL:     dbURL,
		TokenExpiration: time.Hour * time.Duration(tokenExpHours),
		EncryptionKey:   encryptionKeyBytes,
		OpenAIAPIKey:    openAIKey,
		OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		DefaultModel:    getEnv("OPENAI_DEFAULT_MODEL", "gpt-4o-mini"),
	}

	log.Printf("Loaded config: Port=%s, DB_URL=***, TokenExp=%s, EncryptionKey=***, OpenAIKey=***, Model=%s",
		cfg.HTTPPort, cfg.TokenExpiration, cfg.DefaultModel)

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
