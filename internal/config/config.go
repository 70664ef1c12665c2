package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds service configuration resolved from the environment.
type Config struct {
	Environment string
	ListenAddr  string
	DatabaseDSN string

	// Receipt generation.
	ReceiptRateLimit  int
	ReceiptRateWindow time.Duration

	// Customer enrichment fetch.
	ProfileBaseURL      string
	ProfileFetchTimeout time.Duration
	ProfileCacheTTL     time.Duration

	Chat ChatConfig

	Bootstrap BootstrapConfig
}

// ChatConfig describes the chat widget exposed to the front-end.
type ChatConfig struct {
	Enabled  bool
	Provider string
	Title    string
	Locale   string
}

// BootstrapConfig controls startup seeding.
type BootstrapConfig struct {
	EnsureDefaultUser bool
}

// New resolves configuration from environment variables with local defaults.
func New() Config {
	return Config{
		Environment:         getEnv("NFEAT_ENV", "development"),
		ListenAddr:          getEnv("NFEAT_LISTEN_ADDR", ":8000"),
		DatabaseDSN:         getEnv("NFEAT_DATABASE_DSN", "nfeat.db"),
		ReceiptRateLimit:    getEnvInt("NFEAT_RECEIPT_RATE_LIMIT", 10),
		ReceiptRateWindow:   getEnvDuration("NFEAT_RECEIPT_RATE_WINDOW", time.Minute),
		ProfileBaseURL:      getEnv("NFEAT_PROFILE_BASE_URL", "http://localhost:8000"),
		ProfileFetchTimeout: getEnvDuration("NFEAT_PROFILE_FETCH_TIMEOUT", 5*time.Second),
		ProfileCacheTTL:     getEnvDuration("NFEAT_PROFILE_CACHE_TTL", 30*time.Second),
		Chat: ChatConfig{
			Enabled:  getEnvBool("NFEAT_CHAT_ENABLED", true),
			Provider: getEnv("NFEAT_CHAT_PROVIDER", "beautiful-chat"),
			Title:    getEnv("NFEAT_CHAT_TITLE", "NF-EAT Support"),
			Locale:   getEnv("NFEAT_CHAT_LOCALE", "fr"),
		},
		Bootstrap: BootstrapConfig{
			EnsureDefaultUser: getEnvBool("NFEAT_BOOTSTRAP_DEFAULT_USER", true),
		},
	}
}

// IsProduction reports whether the service runs in production mode.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
