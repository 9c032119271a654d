package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string

	DBDriver           string
	DatabaseURL        string
	DatabaseReplicaURL string
	Backend            string

	RedisURL      string
	CountCacheTTL time.Duration

	JWTSecret string

	MinIOEndpoint       string
	MinIOPublicEndpoint string
	MinIOAccessKey      string
	MinIOSecretKey      string
	MinIOBucket         string
	MinIOUseSSL         bool
	MinIOPublicUseSSL   bool

	CORSOrigins string

	ResendAPIKey       string
	FromEmail          string
	EmailSenderName    string
	EmailFooterAddress string

	WikiID      string
	SiteName    string
	WikiBaseURL string
	WikiAPIURL  string
	WikiTimeout time.Duration

	MaxNotificationCount int64

	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string

	DigestCron string

	RegistryPath string
	LocalePath   string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DBDriver:           getEnv("DB_DRIVER", "postgres"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		DatabaseReplicaURL: getEnv("DATABASE_REPLICA_URL", ""),
		Backend:            getEnv("ECHO_BACKEND", "db"),

		RedisURL:      getEnv("REDIS_URL", "redis://localhost:6379"),
		CountCacheTTL: getDurationEnv("ECHO_COUNT_CACHE_TTL", 5*time.Minute),

		JWTSecret: getEnv("JWT_SECRET", ""),

		MinIOEndpoint:       getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinIOPublicEndpoint: getEnv("MINIO_PUBLIC_ENDPOINT", getEnv("MINIO_ENDPOINT", "localhost:9000")),
		MinIOAccessKey:      getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinIOSecretKey:      getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinIOBucket:         getEnv("MINIO_BUCKET", "echo-icons"),
		MinIOUseSSL:         getBoolEnv("MINIO_USE_SSL", false),
		MinIOPublicUseSSL:   getBoolEnv("MINIO_PUBLIC_USE_SSL", true),

		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:8080"),

		ResendAPIKey:       getEnv("RESEND_API_KEY", ""),
		FromEmail:          getEnv("FROM_EMAIL", "noreply@example.org"),
		EmailSenderName:    getEnv("EMAIL_SENDER_NAME", "Wiki"),
		EmailFooterAddress: getEnv("ECHO_EMAIL_FOOTER_ADDRESS", ""),

		WikiID:      getEnv("WIKI_ID", "wiki"),
		SiteName:    getEnv("WIKI_SITE_NAME", "Wiki"),
		WikiBaseURL: strings.TrimRight(getEnv("WIKI_BASE_URL", "http://localhost"), "/"),
		WikiAPIURL:  getEnv("WIKI_API_URL", "http://localhost/w/api.php"),
		WikiTimeout: getDurationEnv("WIKI_TIMEOUT", 10*time.Second),

		MaxNotificationCount: int64(getIntEnv("ECHO_MAX_NOTIFICATION_COUNT", 99)),

		KafkaEnabled: getBoolEnv("KAFKA_ENABLED", false),
		KafkaBrokers: getListEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "echo-events"),
		KafkaGroupID: getEnv("KAFKA_GROUP_ID", "echo-notifier"),

		DigestCron: getEnv("ECHO_DIGEST_CRON", "0 * * * *"),

		RegistryPath: getEnv("ECHO_REGISTRY_PATH", "configs/notifications.yaml"),
		LocalePath:   getEnv("LOCALE_PATH", "locales"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
