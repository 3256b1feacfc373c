package config

import (
	"os"
	"time"
)

// Server captures process-level configuration for the registration service.
type Server struct {
	Addr        string
	Environment string

	// DatabaseURL is optional; when empty the service runs on in-memory stores.
	DatabaseURL string

	// Media intake configuration. Mode is either "disk" or "hosted".
	MediaMode       string
	UploadsDir      string
	PublicBaseURL   string
	MediaHostURL    string
	MediaHostAPIKey string

	// Admin session configuration.
	AdminUsername     string
	AdminPassword     string
	AdminPasswordHash string
	JWTSigningKey     string
	SessionTTL        time.Duration
}

var defaultSessionTTL = 12 * time.Hour

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:              envOr("REGDESK_ADDR", ":8080"),
		Environment:       envOr("REGDESK_ENV", "development"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		MediaMode:         envOr("MEDIA_MODE", "disk"),
		UploadsDir:        envOr("UPLOADS_DIR", "./public/uploads"),
		PublicBaseURL:     os.Getenv("PUBLIC_BASE_URL"),
		MediaHostURL:      os.Getenv("MEDIA_HOST_URL"),
		MediaHostAPIKey:   os.Getenv("MEDIA_HOST_API_KEY"),
		AdminUsername:     envOr("ADMIN_USERNAME", "admin"),
		AdminPassword:     envOr("ADMIN_PASSWORD", "123456"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		JWTSigningKey:     envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		SessionTTL:        defaultSessionTTL,
	}

	if ttl := os.Getenv("SESSION_TTL"); ttl != "" {
		if duration, err := time.ParseDuration(ttl); err == nil {
			cfg.SessionTTL = duration
		}
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
