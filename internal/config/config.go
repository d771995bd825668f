package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds service configuration loaded from environment variables.
type Config struct {
	Addr       string
	AuthSecret string
	BaseURL    string

	PGDSN     string
	RedisAddr string
	RedisDB   int
	RedisPass string

	VerificationTTL time.Duration
	ResetTTL        time.Duration
	SessionTTL      time.Duration
	BcryptCost      int

	RateBurst  int
	RatePerSec int
}

// Load builds Config from environment with defaults. PGDSN and RedisAddr are
// optional: when empty the service runs on in-memory stores.
func Load() *Config {
	return &Config{
		Addr:            getEnv("CREWDESK_ADDR", ":8080"),
		AuthSecret:      os.Getenv("CREWDESK_AUTH_SECRET"),
		BaseURL:         getEnv("CREWDESK_BASE_URL", "http://localhost:3000"),
		PGDSN:           os.Getenv("CREWDESK_PG_DSN"),
		RedisAddr:       os.Getenv("CREWDESK_REDIS_ADDR"),
		RedisDB:         getEnvInt("CREWDESK_REDIS_DB", 0),
		RedisPass:       os.Getenv("CREWDESK_REDIS_PASSWORD"),
		VerificationTTL: getEnvDuration("CREWDESK_VERIFICATION_TTL", 24*time.Hour),
		ResetTTL:        getEnvDuration("CREWDESK_RESET_TTL", time.Hour),
		SessionTTL:      getEnvDuration("CREWDESK_SESSION_TTL", 24*time.Hour),
		BcryptCost:      getEnvInt("CREWDESK_BCRYPT_COST", 12),
		RateBurst:       getEnvInt("CREWDESK_RATE_BURST", 20),
		RatePerSec:      getEnvInt("CREWDESK_RATE_PER_SEC", 10),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}
