package config

import (
	"os"
	"strings"

	"dailybook-backend/internal/logging"
)

type Config struct {
	HTTPPort    string
	CORSOrigins string

	// Google Sheets backend
	SpreadsheetID     string
	GoogleClientEmail string
	GooglePrivateKey  string

	// Auth
	JWTSecret         string
	OwnerEmail        string
	OwnerPasswordHash string // bcrypt hash of the owner's password
}

func Load() *Config {
	cfg := &Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		CORSOrigins:       getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		SpreadsheetID:     getEnv("SPREADSHEET_ID", ""),
		GoogleClientEmail: getEnv("GOOGLE_CLIENT_EMAIL", ""),
		GooglePrivateKey:  getEnv("GOOGLE_PRIVATE_KEY", ""),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		OwnerEmail:        getEnv("OWNER_EMAIL", "owner@localhost"),
		OwnerPasswordHash: getEnv("OWNER_PASSWORD_HASH", ""),
	}

	log := logging.L()

	if cfg.SpreadsheetID == "" || cfg.GoogleClientEmail == "" || cfg.GooglePrivateKey == "" {
		log.Fatal("SPREADSHEET_ID, GOOGLE_CLIENT_EMAIL and GOOGLE_PRIVATE_KEY are required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("JWT_SECRET must be at least 32 characters")
	}
	if cfg.OwnerPasswordHash == "" {
		log.Fatal("OWNER_PASSWORD_HASH is required (bcrypt hash of the login password)")
	}
	if cfg.CORSOrigins == "http://localhost:3000" {
		log.Warn("CORS_ALLOWED_ORIGINS is using the development default")
	}

	// Private keys passed through env files usually arrive with literal \n.
	cfg.GooglePrivateKey = strings.ReplaceAll(cfg.GooglePrivateKey, `\n`, "\n")

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
