package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultSMTPPort      = 587
	DefaultSMTPTimeout   = 10 * time.Second
	DefaultContactTo     = "info@softacc.ch"
	DefaultSenderName    = "Softacc Kontaktformular"
	defaultAllowedOrigin = "https://www.softacc.ch,https://softacc.ch"
)

type Config struct {
	Port     string
	GinMode  string
	LogLevel string
	// Comma separated in ALLOWED_ORIGINS
	AllowedOrigins []string
	Mail           MailConfig
	// Redis/Upstash Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string
	// Contact endpoint rate limiting
	ContactRateLimit  int
	ContactRateWindow time.Duration
}

// MailConfig describes the SMTP relay the contact form is delivered through.
type MailConfig struct {
	Host        string
	Port        int
	ImplicitTLS bool
	Username    string
	Password    string
	Timeout     time.Duration
	ContactTo   string
	SenderName  string
}

// IsConfigured reports whether host, username and password are all present.
func (m MailConfig) IsConfigured() bool {
	return len(m.Missing()) == 0
}

// Missing returns the environment keys of required relay settings that are empty.
func (m MailConfig) Missing() []string {
	var missing []string
	if m.Host == "" {
		missing = append(missing, "SMTP_HOST")
	}
	if m.Username == "" {
		missing = append(missing, "SMTP_USER")
	}
	if m.Password == "" {
		missing = append(missing, "SMTP_PASS")
	}
	return missing
}

func LoadConfig() (*Config, error) {
	// .env only exists locally; production injects real environment
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", defaultAllowedOrigin)),
		Mail: MailConfig{
			Host:        strings.TrimSpace(getEnv("SMTP_HOST", "")),
			Port:        getEnvInt("SMTP_PORT", DefaultSMTPPort),
			ImplicitTLS: getEnv("SMTP_SECURE", "false") == "true", // only the literal "true" enables implicit TLS
			Username:    getEnv("SMTP_USER", ""),
			Password:    getEnv("SMTP_PASS", ""),
			Timeout:     time.Duration(getEnvInt("SMTP_TIMEOUT_SECONDS", int(DefaultSMTPTimeout/time.Second))) * time.Second,
			ContactTo:   getEnv("CONTACT_EMAIL_TO", DefaultContactTo),
			SenderName:  getEnv("CONTACT_SENDER_NAME", DefaultSenderName),
		},
		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),
		ContactRateLimit:     getEnvInt("CONTACT_RATE_LIMIT", 5),
		ContactRateWindow:    time.Duration(getEnvInt("CONTACT_RATE_WINDOW_SECONDS", 600)) * time.Second,
	}

	if cfg.Mail.Port <= 0 {
		cfg.Mail.Port = DefaultSMTPPort
	}
	if cfg.Mail.Timeout <= 0 {
		cfg.Mail.Timeout = DefaultSMTPTimeout
	}

	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intVal
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimRight(strings.TrimSpace(part), "/"); p != "" {
			out = append(out, p)
		}
	}
	return out
}
