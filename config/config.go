package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SeedSourceDir = "dir"
	SeedSourceS3  = "s3"

	EventsNone  = "none"
	EventsSNS   = "sns"
	EventsKafka = "kafka"
)

type Config struct {
	Env  string
	Port string

	SeedSource      string
	SeedDir         string
	SeedS3Bucket    string
	SeedS3Prefix    string
	SeedUsersSecret string

	TokenValidity time.Duration

	RedisURL       string
	SearchCacheTTL time.Duration

	EventsBackend   string
	CartSNSTopicARN string
	KafkaBrokers    []string
	KafkaTopic      string

	AllowedOrigins     []string
	RateLimitPerMinute int
	RateLimitBurst     int

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment, after merging an optional
// .env file in the working directory.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "3001"),

		SeedSource:      strings.ToLower(getEnv("SEED_SOURCE", SeedSourceDir)),
		SeedDir:         getEnv("SEED_DIR", "./initial-data"),
		SeedS3Bucket:    os.Getenv("SEED_S3_BUCKET"),
		SeedS3Prefix:    os.Getenv("SEED_S3_PREFIX"),
		SeedUsersSecret: os.Getenv("SEED_USERS_SECRET"),

		TokenValidity: time.Duration(getEnvAsInt("TOKEN_VALIDITY_MINUTES", 15)) * time.Minute,

		RedisURL:       os.Getenv("REDIS_URL"),
		SearchCacheTTL: time.Duration(getEnvAsInt("SEARCH_CACHE_TTL_SECONDS", 600)) * time.Second,

		EventsBackend:   strings.ToLower(getEnv("EVENTS_BACKEND", EventsNone)),
		CartSNSTopicARN: os.Getenv("CART_SNS_TOPIC_ARN"),
		KafkaBrokers:    splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:      getEnv("KAFKA_TOPIC", "cart.events"),

		AllowedOrigins:     splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 100),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 50),

		RequestTimeout:  time.Duration(getEnvAsInt("REQUEST_TIMEOUT_SECONDS", 30)) * time.Second,
		ShutdownTimeout: time.Duration(getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the selected backends have what they need.
func (c Config) Validate() error {
	if c.TokenValidity <= 0 {
		return fmt.Errorf("TOKEN_VALIDITY_MINUTES must be positive")
	}

	switch c.SeedSource {
	case SeedSourceDir:
		if c.SeedDir == "" {
			return fmt.Errorf("SEED_DIR is required when SEED_SOURCE=dir")
		}
	case SeedSourceS3:
		if c.SeedS3Bucket == "" {
			return fmt.Errorf("SEED_S3_BUCKET is required when SEED_SOURCE=s3")
		}
	default:
		return fmt.Errorf("unknown SEED_SOURCE %q", c.SeedSource)
	}

	switch c.EventsBackend {
	case EventsNone:
	case EventsSNS:
		if c.CartSNSTopicARN == "" {
			return fmt.Errorf("CART_SNS_TOPIC_ARN is required when EVENTS_BACKEND=sns")
		}
	case EventsKafka:
		if len(c.KafkaBrokers) == 0 || c.KafkaTopic == "" {
			return fmt.Errorf("KAFKA_BROKERS and KAFKA_TOPIC are required when EVENTS_BACKEND=kafka")
		}
	default:
		return fmt.Errorf("unknown EVENTS_BACKEND %q", c.EventsBackend)
	}

	return nil
}

// UsesAWS reports whether any configured backend needs AWS credentials.
func (c Config) UsesAWS() bool {
	return c.SeedSource == SeedSourceS3 || c.SeedUsersSecret != "" || c.EventsBackend == EventsSNS
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(part), "/")); p != "" {
			out = append(out, p)
		}
	}
	return out
}
