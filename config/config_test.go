package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "PLATFORM_COMMISSION_PERCENT", "WEBHOOK_TIMEOUT", "KAFKA_BROKERS", "SCHEDULER_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 30, cfg.PlatformCommissionPercent)
	assert.Equal(t, 10*time.Second, cfg.WebhookTimeout)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.True(t, cfg.SchedulerEnabled)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("PLATFORM_COMMISSION_PERCENT", "15")
	t.Setenv("VIDEO_STEP_DELAY", "250ms")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, ,kafka-2:9092")
	t.Setenv("VIDEO_CDN_BASE_URL", "https://cdn.example.com/v/")
	t.Setenv("SCHEDULER_ENABLED", "false")

	cfg := FromEnv()

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 15, cfg.PlatformCommissionPercent)
	assert.Equal(t, 250*time.Millisecond, cfg.VideoStepDelay)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "https://cdn.example.com/v", cfg.VideoCDNBaseURL)
	assert.False(t, cfg.SchedulerEnabled)
}

func TestFromEnvInvalidValuesFallBack(t *testing.T) {
	t.Setenv("WEBHOOK_MAX_ATTEMPTS", "three")
	t.Setenv("WEBHOOK_RETRY_DELAY", "soon")
	t.Setenv("SCHEDULER_ENABLED", "maybe")

	cfg := FromEnv()

	assert.Equal(t, 3, cfg.WebhookMaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.WebhookRetryDelay)
	assert.True(t, cfg.SchedulerEnabled)
}
