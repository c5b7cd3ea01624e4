package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port        string
	MetricsPort string

	DBDriver   string // postgres, mysql, sqlite
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBDSN      string // full DSN, overrides the individual DB_* values

	JWTKey string

	SendGridAPIKey  string
	EmailSender     string
	EmailSenderName string

	PlatformCommissionPercent int

	WebhookTimeout     time.Duration
	WebhookMaxAttempts int
	WebhookRetryDelay  time.Duration

	VideoWorkers    int
	VideoStepDelay  time.Duration
	VideoCDNBaseURL string
	VideoStaleAfter time.Duration

	UploadDir string

	KafkaBrokers     []string
	KafkaEventsTopic string

	OpenAIAPIKey        string
	OpenAIBaseURL       string
	OpenAIModel         string
	AIRequestsPerMinute int

	SchedulerEnabled bool
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = FromEnv()

	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.SendGridAPIKey == "" {
		log.Println("Warning: SENDGRID_API_KEY not set. Emails will only be logged.")
	}
}

// FromEnv builds a Config from the current environment without touching .env files
func FromEnv() *Config {
	return &Config{
		Port:        getEnv("PORT", "3000"),
		MetricsPort: getEnv("METRICS_PORT", "9100"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "learnhub"),
		DBDSN:      getEnv("DB_DSN", ""),

		JWTKey: getEnv("JWT_SECRET_KEY", "defaultSecret"),

		SendGridAPIKey:  getEnv("SENDGRID_API_KEY", ""),
		EmailSender:     getEnv("EMAIL_SENDER", "no-reply@learnhub.local"),
		EmailSenderName: getEnv("EMAIL_SENDER_NAME", "LearnHub"),

		PlatformCommissionPercent: getEnvInt("PLATFORM_COMMISSION_PERCENT", 30),

		WebhookTimeout:     getEnvDuration("WEBHOOK_TIMEOUT", 10*time.Second),
		WebhookMaxAttempts: getEnvInt("WEBHOOK_MAX_ATTEMPTS", 3),
		WebhookRetryDelay:  getEnvDuration("WEBHOOK_RETRY_DELAY", 500*time.Millisecond),

		VideoWorkers:    getEnvInt("VIDEO_WORKERS", 2),
		VideoStepDelay:  getEnvDuration("VIDEO_STEP_DELAY", 2*time.Second),
		VideoCDNBaseURL: strings.TrimRight(getEnv("VIDEO_CDN_BASE_URL", "https://cdn.learnhub.local/videos"), "/"),
		VideoStaleAfter: getEnvDuration("VIDEO_STALE_AFTER", time.Hour),

		UploadDir: getEnv("UPLOAD_DIR", "./uploads"),

		KafkaBrokers:     getEnvList("KAFKA_BROKERS"),
		KafkaEventsTopic: getEnv("KAFKA_EVENTS_TOPIC", "learnhub.events"),

		OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:       getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:         getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		AIRequestsPerMinute: getEnvInt("AI_REQUESTS_PER_MINUTE", 20),

		SchedulerEnabled: getEnvBool("SCHEDULER_ENABLED", true),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to bool: %v", key, err)
		return defaultValue
	}
	return boolValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to duration: %v", key, err)
		return defaultValue
	}
	return d
}

// getEnvList splits a comma separated variable, dropping empty entries
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
