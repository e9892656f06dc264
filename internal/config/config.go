package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	// Database
	DatabaseProvider string
	DatabaseURL      string

	// Supabase (used when DatabaseProvider is "supabase")
	SupabaseURL        string
	SupabaseServiceKey string

	// Admin auth
	AdminPassword string
	EncryptionKey string

	// Event details
	WeddingDate time.Time

	// App
	BaseURL string
	Env     string
}

func Load() (*Config, error) {
	cfg := &Config{
		DatabaseProvider:   getEnv("DATABASE_PROVIDER", "supabase"),
		DatabaseURL:        firstEnv("POSTGRES_URL_NON_POOLING", "POSTGRES_PRISMA_URL", "POSTGRES_URL", "DATABASE_URL"),
		SupabaseURL:        getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
		AdminPassword:      getEnv("ADMIN_PASSWORD", "wedding2025"),
		EncryptionKey:      getEnv("ENCRYPTION_KEY", "wedding-admin-encryption-key-32char"),
		BaseURL:            getEnv("BASE_URL", "http://localhost:8080"),
		Env:                getEnv("APP_ENV", "development"),
	}

	// Parse the wedding date in the venue's timezone
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	if err != nil {
		loc = time.FixedZone("-03", -3*60*60)
	}
	dateStr := getEnv("WEDDING_DATE", "2025-11-08T16:00:00")
	weddingDate, err := time.ParseInLocation("2006-01-02T15:04:05", dateStr, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid WEDDING_DATE format: %w", err)
	}
	cfg.WeddingDate = weddingDate

	return cfg, nil
}

// IsProduction controls the Secure attribute on the admin session cookie.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// firstEnv returns the first non-empty value among keys.
func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}
