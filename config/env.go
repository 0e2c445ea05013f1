package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Settings holds the runtime configuration read from the environment.
// Empty integration fields (RedisAddr, S3Bucket, ...) disable that integration.
type Settings struct {
	Port         string
	WorkspaceDir string

	StylizeURL        string
	StylizeTimeout    time.Duration
	StylizeErrorImage string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	S3Bucket       string
	S3Region       string
	S3Profile      string
	S3Prefix       string
	S3UsePathStyle bool

	YouTubeServiceAccount string

	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string

	LogLevel string
	LogFile  string
}

// Load reads .env (if present) and the process environment.
func Load() Settings {
	// Non-fatal if missing
	_ = godotenv.Load()

	s := Settings{
		Port:         GetEnvOrDefault("PORT", "8080"),
		WorkspaceDir: GetEnvOrDefault("WORKSPACE_DIR", "."),

		StylizeURL:        strings.TrimSpace(os.Getenv("STYLIZE_URL")),
		StylizeTimeout:    time.Duration(GetEnvIntOrDefault("STYLIZE_TIMEOUT_SECONDS", 60)) * time.Second,
		StylizeErrorImage: GetEnvOrDefault("STYLIZE_ERROR_IMAGE", "error_detector.png"),

		RedisAddr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       GetEnvIntOrDefault("REDIS_DB", 0),
		CacheTTL:      time.Duration(GetEnvIntOrDefault("STYLIZE_CACHE_TTL_SECONDS", 7*24*3600)) * time.Second,

		S3Bucket:       strings.TrimSpace(os.Getenv("S3_BUCKET")),
		S3Region:       strings.TrimSpace(os.Getenv("S3_REGION")),
		S3Profile:      strings.TrimSpace(os.Getenv("S3_PROFILE")),
		S3UsePathStyle: strings.EqualFold(strings.TrimSpace(os.Getenv("S3_USE_PATH_STYLE")), "true"),

		YouTubeServiceAccount: strings.TrimSpace(os.Getenv("YOUTUBE_SERVICE_ACCOUNT")),

		KafkaTopic:   GetEnvOrDefault("KAFKA_TOPIC_MOVIE_REQUESTS", "movie-requests"),
		KafkaGroupID: GetEnvOrDefault("KAFKA_CONSUMER_GROUP_ID", "yourmovie-render-group"),

		LogLevel: GetEnvOrDefault("LOG_LEVEL", "info"),
		LogFile:  strings.TrimSpace(os.Getenv("LOG_FILE")),
	}

	if prefix := strings.TrimSpace(os.Getenv("S3_PREFIX")); prefix != "" {
		s.S3Prefix = strings.Trim(prefix, "/") + "/"
	}

	if brokers := strings.TrimSpace(os.Getenv("KAFKA_BOOTSTRAP_SERVERS")); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				s.KafkaBrokers = append(s.KafkaBrokers, b)
			}
		}
	}

	return s
}

// GetEnvOrDefault returns the environment value for key, or defaultVal when unset or empty.
func GetEnvOrDefault(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}

// GetEnvIntOrDefault parses key as an integer, falling back to defaultVal.
func GetEnvIntOrDefault(key string, defaultVal int) int {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}
