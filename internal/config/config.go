package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// ErrMissingBearerToken is returned by Load when no counts API credential is set.
var ErrMissingBearerToken = errors.New("BEARER_TOKEN environment variable is required")

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string

	// Counts API
	BearerToken    string // Required. Bearer token for the tweet counts API.
	TwitterBaseURL string

	// Data files
	DataDir     string // Directory holding per-keyword series CSV files
	HistoryFile string // Append-only search history CSV
	RecentFile  string // Capped recent-searches CSV
	AccountDir  string // Directory holding the wallet registry and points ledger
	PointsFile  string // Points ledger CSV inside AccountDir
	WalletsFile string // Wallet registry CSV inside AccountDir
	RefreshFile string // JSON map of keyword -> last refresh time

	// Limits
	RecentCap    int // Max rows kept in the recent-searches file
	SuggestLimit int // Default number of suggestions returned
	PerPage      int // Rows per page in the popular/recent listings

	// Background refresh
	RefreshEnabled  bool
	RefreshInterval time.Duration
	RefreshMaxAge   time.Duration

	// Session storage
	RedisURL      string // Optional. When set, sessions are stored in Redis.
	SessionSecret string // Used for signing cookies (min 32 chars)

	// TLS
	TLSEnabled  bool
	TLSCertFile string
	TLSKeyFile  string

	// CORS
	CORSOrigins string // Comma-separated allowed origins, e.g. "https://example.com,https://app.example.com"

	// Site Branding
	SiteTitle   string // env: SITE_TITLE, default: "BuzzBoard"
	SiteTagline string // env: SITE_TAGLINE, default: "Track keyword buzz across recent tweets"
	SiteFooter  string // env: SITE_FOOTER, default: "BuzzBoard - Track keyword buzz across recent tweets"
	SiteLogoURL string // env: SITE_LOGO_URL, default: "" (no logo, text only)
}

// Load reads configuration from environment variables with sensible defaults.
// It fails when BEARER_TOKEN is unset since every search needs the credential.
func Load() (*Config, error) {
	cfg := &Config{
		Env:        getEnv("ENV", "development"),
		ServerAddr: getEnv("SERVER_ADDR", ":3000"),
		BaseURL:    getEnv("BASE_URL", "http://localhost:3000"),

		BearerToken:    getEnv("BEARER_TOKEN", ""),
		TwitterBaseURL: getEnv("TWITTER_BASE_URL", "https://api.twitter.com"),

		DataDir:     getEnv("DATA_DIR", "data"),
		HistoryFile: getEnv("HISTORY_FILE", "search_history.csv"),
		RecentFile:  getEnv("RECENT_FILE", "recent_searches.csv"),
		AccountDir:  getEnv("ACCOUNT_DIR", "account-list"),
		PointsFile:  getEnv("POINTS_FILE", "points.csv"),
		WalletsFile: getEnv("WALLETS_FILE", "wallets.csv"),
		RefreshFile: getEnv("REFRESH_FILE", "last_refresh.json"),

		RecentCap:    getEnvInt("RECENT_CAP", 100),
		SuggestLimit: getEnvInt("SUGGEST_LIMIT", 8),
		PerPage:      getEnvInt("PER_PAGE", 10),

		RefreshEnabled:  getEnv("REFRESH_ENABLED", "") != "",
		RefreshInterval: getEnvDuration("REFRESH_INTERVAL", time.Hour),
		RefreshMaxAge:   getEnvDuration("REFRESH_MAX_AGE", 24*time.Hour),

		RedisURL:      getEnv("REDIS_URL", ""),
		SessionSecret: getEnv("SESSION_SECRET", "change-me-in-production-min-32-chars"),

		TLSEnabled:  getEnv("TLS_ENABLED", "") != "",
		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),

		CORSOrigins: getEnv("CORS_ORIGINS", ""),

		SiteTitle:   getEnv("SITE_TITLE", "BuzzBoard"),
		SiteTagline: getEnv("SITE_TAGLINE", "Track keyword buzz across recent tweets"),
		SiteFooter:  getEnv("SITE_FOOTER", "BuzzBoard - Track keyword buzz across recent tweets"),
		SiteLogoURL: getEnv("SITE_LOGO_URL", ""),
	}

	if cfg.BearerToken == "" {
		return nil, ErrMissingBearerToken
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}
