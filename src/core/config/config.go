package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

func SetupEnv() {
	// Load environment variables from .env file
	err := godotenv.Load(".env")
	if err != nil {
		log.Printf("No .env file found, relying on process environment")
	}
}

// Config returns the environment variable or defaults to empty string
func Config(key string) string {
	return os.Getenv(key)
}

// ConfigOr returns the environment variable or the given fallback when unset.
func ConfigOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
