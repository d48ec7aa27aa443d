package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"ADDR", "UPLOAD_DIR", "JWT_SECRET", "TOKEN_TTL",
		"MAX_UPLOAD_BYTES", "MAX_JSON_BYTES", "DATABASE_URL",
		"KAFKA_BROKERS", "KAFKA_TOPIC",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, int64(5<<30), cfg.MaxUploadBytes)
	assert.Equal(t, int64(50<<20), cfg.MaxJSONBytes)
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "video-events", cfg.KafkaTopic)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ADDR", ":9000")
	t.Setenv("MAX_UPLOAD_BYTES", "1048576")
	t.Setenv("TOKEN_TTL", "24h")
	t.Setenv("KAFKA_BROKERS", "b1:9092, b2:9092 ,")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg := Load()

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, int64(1<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"b1:9092", "b2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
}

func TestLoad_IgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("MAX_UPLOAD_BYTES", "not-a-number")
	t.Setenv("TOKEN_TTL", "soon")

	cfg := Load()

	assert.Equal(t, int64(5<<30), cfg.MaxUploadBytes)
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
}
