package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// fallbackSecretKey is the inherited insecure default used when
// SECRET_KEY is unset. Kept for compatibility; startup warns about it.
const fallbackSecretKey = "fallback_key_123"

type Config struct {
	GeminiAPIKey string
	SecretKey    string
	HTTPPort     string
	DataDir      string
}

var AppConfig Config

func LoadConfig() {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = Config{
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		SecretKey:    getEnv("SECRET_KEY", fallbackSecretKey),
		HTTPPort:     getEnv("HTTP_PORT", "8080"),
		DataDir:      getEnv("DATA_DIR", "."),
	}

	if AppConfig.GeminiAPIKey == "" {
		log.Fatal("GEMINI_API_KEY environment variable is required")
	}

	if AppConfig.SecretKey == fallbackSecretKey {
		log.Println("Warning: SECRET_KEY not set, sessions are signed with an insecure default")
	}
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
