package config

import (
	"net/url"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string

	JWTSecret           string
	JWTExpiresInSeconds int64

	// AuthReturnResetToken echoes the raw reset token in the forgot-password
	// response. Development only.
	AuthReturnResetToken bool
	AuthVerboseErrors    bool

	MailProvider     string // "smtp" or "ses"
	MailFrom         string
	MailFallbackFrom string
	MailReplyTo      string

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	SMTPUseTLS   bool

	// ResetBaseURL is the frontend page the reset link points at; the token
	// is appended as a path segment.
	ResetBaseURL string

	LogLevel string
}

func Load() *Config {
	// Optional; real deployments set the environment directly.
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		host := getEnv("PSQL_HOST", "localhost")
		port := getEnv("PSQL_PORT", "5432")
		user := getEnv("PSQL_USER", "postgres")
		password := getEnv("PSQL_PASSWORD", "postgres")
		dbName := getEnv("PSQL_DB_NAME", "workforce")

		u := &url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(user, password),
			Host:   host + ":" + port,
			Path:   dbName,
		}
		q := u.Query()
		q.Set("sslmode", "disable")
		u.RawQuery = q.Encode()
		databaseURL = u.String()
	}

	return &Config{
		Port:                 getEnv("PORT", "8080"),
		Environment:          getEnv("ENVIRONMENT", "development"),
		DatabaseURL:          databaseURL,
		JWTSecret:            getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTExpiresInSeconds:  getEnvInt64("JWT_EXPIRES_IN_SECONDS", 86400),
		AuthReturnResetToken: getEnvBool("AUTH_RETURN_RESET_TOKEN", false),
		AuthVerboseErrors:    getEnvBool("AUTH_VERBOSE_ERRORS", false),
		MailProvider:         getEnv("MAIL_PROVIDER", "smtp"),
		MailFrom:             getEnv("MAIL_FROM", "no-reply@workforce.local"),
		MailFallbackFrom:     getEnv("MAIL_FALLBACK_FROM", ""),
		MailReplyTo:          getEnv("MAIL_REPLY_TO", ""),
		SMTPHost:             getEnv("SMTP_HOST", "localhost"),
		SMTPPort:             getEnv("SMTP_PORT", "587"),
		SMTPUser:             getEnv("SMTP_USER", ""),
		SMTPPassword:         getEnv("SMTP_PASSWORD", ""),
		SMTPUseTLS:           getEnvBool("SMTP_USE_TLS", false),
		ResetBaseURL:         getEnv("RESET_BASE_URL", "http://localhost:3000/reset-password"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
