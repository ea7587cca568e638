package config

import (
	"os"
)

// Config carries the env-backed settings. Load once in main and pass to
// the constructors that need pieces of it.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	CORSOrigin  string
	UploadDir   string
	SiteURL     string
}

func Load() *Config {
	return &Config{
		Port:        getenv("PORT", "8080"),
		DatabaseURL: getenv("DATABASE_URL", "sqlite://goddit.db"),
		JWTSecret:   getenv("JWT_SECRET", "secret_key_change_me"),
		CORSOrigin:  getenv("CORS_ORIGIN", "*"),
		UploadDir:   getenv("UPLOAD_DIR", "./public/images"),
		SiteURL:     getenv("SITE_URL", "http://localhost:8080"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
