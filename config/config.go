package config

import (
	"encoding/base64"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port                 string
	MONGOSTRING          string
	PASETO_SECRET        string
	NegativeSalaryPolicy string
}

// LoadConfig loads configuration from .env file
func LoadConfig() *AppConfig {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Warning: Error loading .env file (might not exist in production): %v", err)
	}

	// Development fallback; decodes to the 32 bytes PASETO v2 requires.
	secretBase64 := getEnv("PASETO_SECRET", "Y29uc3RydWN0aW9uLW1hbmFnZW1lbnQtZGV2LWtleSE=")

	secretBytes, err := base64.URLEncoding.DecodeString(secretBase64)
	if err != nil {
		log.Fatalf("PASETO_SECRET in .env is not a valid Base64 URL-encoded string: %v", err)
	}

	if len(secretBytes) != 32 {
		log.Fatalf("PASETO_SECRET (decoded) must be exactly 32 bytes long. Current length: %d", len(secretBytes))
	}

	policy := getEnv("NEGATIVE_SALARY_POLICY", "clamp")
	switch policy {
	case "clamp", "allow-negative", "error":
	default:
		log.Fatalf("NEGATIVE_SALARY_POLICY must be one of clamp, allow-negative, error. Got: %s", policy)
	}

	return &AppConfig{
		Port:                 getEnv("PORT", "3000"),
		MONGOSTRING:          getEnv("MONGOSTRING", ""),
		PASETO_SECRET:        secretBase64,
		NegativeSalaryPolicy: policy,
	}
}

// Helper function to get environment variable or fallback to default
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
