package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Store backends selectable via the STORE variable.
const (
	StoreFirestore = "firestore"
	StoreMemory    = "memory"
)

type Config struct {
	Port             string
	GeminiAPIKey     string
	GeminiModel      string
	JWTSecret        string
	FirestoreProject string
	Store            string
}

// Load reads configuration from the environment, with an optional .env file.
// GEMINI_API_KEY is the one hard requirement: without it the extractor cannot
// run at all, so Load fails instead of deferring the error to the first request.
func Load() (*Config, error) {
	// .env file is optional in production
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnvOrDefault("PORT", "8080"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		FirestoreProject: os.Getenv("FIRESTORE_PROJECT"),
		Store:            getEnvOrDefault("STORE", StoreFirestore),
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not configured")
	}
	if cfg.Store != StoreFirestore && cfg.Store != StoreMemory {
		return nil, fmt.Errorf("unknown STORE value %q", cfg.Store)
	}
	if cfg.Store == StoreFirestore && cfg.FirestoreProject == "" {
		return nil, fmt.Errorf("FIRESTORE_PROJECT is required when STORE=firestore")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
