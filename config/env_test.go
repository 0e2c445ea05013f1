package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "STYLIZE_URL", "S3_PREFIX", "KAFKA_BOOTSTRAP_SERVERS", "REDIS_ADDR"} {
		t.Setenv(key, "")
	}

	s := Load()
	assert.Equal(t, "8080", s.Port)
	assert.Equal(t, 60*time.Second, s.StylizeTimeout)
	assert.Empty(t, s.StylizeURL)
	assert.Empty(t, s.S3Prefix)
	assert.Nil(t, s.KafkaBrokers)
	assert.Equal(t, "movie-requests", s.KafkaTopic)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("S3_PREFIX", "/movies/2021/")
	t.Setenv("S3_USE_PATH_STYLE", "TRUE")
	t.Setenv("KAFKA_BOOTSTRAP_SERVERS", "a:9092, b:9092,,")
	t.Setenv("STYLIZE_TIMEOUT_SECONDS", "not-a-number")

	s := Load()
	assert.Equal(t, "9090", s.Port)
	assert.Equal(t, "movies/2021/", s.S3Prefix)
	assert.True(t, s.S3UsePathStyle)
	assert.Equal(t, []string{"a:9092", "b:9092"}, s.KafkaBrokers)
	assert.Equal(t, 60*time.Second, s.StylizeTimeout)
}
