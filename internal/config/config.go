package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultMaxUploadBytes = 5 << 30  // 5 GiB
	defaultMaxJSONBytes   = 50 << 20 // 50 MB
	defaultTokenTTL       = 7 * 24 * time.Hour
)

// Config is the process-wide configuration, loaded once at startup. Nothing
// reads the environment after Load returns.
type Config struct {
	Addr      string
	UploadDir string

	JWTSecret string
	TokenTTL  time.Duration

	MaxUploadBytes int64
	MaxJSONBytes   int64

	// DatabaseURL switches the registry to the Postgres backend when set.
	DatabaseURL string

	// KafkaBrokers enables lifecycle event publishing when non-empty.
	KafkaBrokers []string
	KafkaTopic   string

	// Optional bootstrap account.
	SeedUsername string
	SeedEmail    string
	SeedPassword string
}

// Load reads configuration from environment with sensible defaults.
func Load() Config {
	cfg := Config{
		Addr:           getEnv("ADDR", ":8080"),
		UploadDir:      getEnv("UPLOAD_DIR", filepath.Join(os.TempDir(), "uploads", "videos")),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		TokenTTL:       defaultTokenTTL,
		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", defaultMaxUploadBytes),
		MaxJSONBytes:   getEnvInt64("MAX_JSON_BYTES", defaultMaxJSONBytes),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		KafkaTopic:     getEnv("KAFKA_TOPIC", "video-events"),
		SeedUsername:   os.Getenv("SEED_USERNAME"),
		SeedEmail:      os.Getenv("SEED_EMAIL"),
		SeedPassword:   os.Getenv("SEED_PASSWORD"),
	}

	if v := os.Getenv("TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.TokenTTL = d
		}
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return def
}
