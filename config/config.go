package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	DBUrl    string
	LogLevel string
	LogFile  string // Optional rotating log file, console only when empty
	// Comma separated origins allowed by CORS
	CORSAllowedOrigins []string
	// SMTP Configuration
	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromEmail string
	// Geography service
	GeographyAPIURL   string
	GeographyTimeout  time.Duration
	GeographyCacheTTL time.Duration
	// Gemini (CV extraction)
	GeminiAPIKey string
	GeminiModel  string
	// CV storage (S3-compatible)
	CVBucket          string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Endpoint        string // Set for S3-compatible providers, empty for AWS
	// Redis/Upstash Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string
	// Messaging
	NATSUrl string
	// Notification batching
	NotificationBatchSize  int
	NotificationBatchDelay time.Duration
	// Scheduled jobs
	SkillCleanupCron string
}

func LoadConfig() (*Config, error) {
	// Load .env file (only effective locally, ignored in production when the file is missing)
	_ = godotenv.Load()

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		DBUrl:    getEnv("DATABASE_URL", ""),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
		// CORS
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),
		// SMTP Configuration
		SMTPHost:      getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:      getEnvInt("SMTP_PORT", 587),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail: getEnv("SMTP_FROM_EMAIL", ""),
		// Geography service. Trailing slash stripped to avoid double slashes when joining paths.
		// A zero timeout leaves lookups bounded by the request ctx only.
		GeographyAPIURL:   strings.TrimRight(getEnv("GEOGRAPHY_API_URL", "http://localhost:5279"), "/"),
		GeographyTimeout:  getEnvDuration("GEOGRAPHY_TIMEOUT", 0),
		GeographyCacheTTL: getEnvDuration("GEOGRAPHY_CACHE_TTL", 24*time.Hour),
		// Gemini
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		// CV storage
		CVBucket:          getEnv("CV_BUCKET", ""),
		S3Region:          getEnv("S3_REGION", "us-east-1"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Endpoint:        strings.TrimRight(getEnv("S3_ENDPOINT", ""), "/"),
		// Redis/Upstash Configuration
		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),
		// Messaging
		NATSUrl: getEnv("NATS_URL", "nats://localhost:4222"),
		// Notification batching (SMTP relay allows 5 messages per minute)
		NotificationBatchSize:  getEnvInt("NOTIFICATION_BATCH_SIZE", 5),
		NotificationBatchDelay: getEnvDuration("NOTIFICATION_BATCH_DELAY", time.Minute),
		// Scheduled jobs
		SkillCleanupCron: getEnv("SKILL_CLEANUP_CRON", "0 3 * * *"),
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}

	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Geography lookups will not be cached.")
	}

	if cfg.GeminiAPIKey == "" {
		log.Println("WARNING: GEMINI_API_KEY not configured. CV synchronisation will be unavailable.")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping empty entries.
func getEnvList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("90s", "1m") or a plain number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

// IsProduction reports whether gin runs in release mode.
func IsProduction() bool {
	return getEnvBool("PRODUCTION", os.Getenv("GIN_MODE") == "release")
}
