package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment       string
	HTTPAddr          string
	DBDSN             string
	MigrationsEnabled bool

	MongoURL      string
	MongoDatabase string

	RedisAddr          string
	RateLimitPerMinute int

	JWTSecret string
	AppURL    string

	// Location часовой пояс, в котором слоты выравниваются по началу часа
	Location *time.Location

	MailTransport string
	SMTPHost      string
	SMTPPort      int
	SMTPFrom      string
	TelegramToken string

	Worker WorkerConfig
}

// WorkerConfig настройки обработчика очереди задач
type WorkerConfig struct {
	Embedded     bool
	MaxAttempts  int
	BackoffBase  time.Duration
	BackoffMax   time.Duration
	PollInterval time.Duration
	LeaseTimeout time.Duration
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	} else {
		log.Println("Loaded configuration from .env file")
	}

	cfg := &Config{
		Environment:        getString("ENV", "development"),
		HTTPAddr:           getString("HTTP_ADDR", ":3333"),
		DBDSN:              os.Getenv("DB_DSN"),
		MigrationsEnabled:  getBool("MIGRATIONS_ENABLED", true),
		MongoURL:           getString("MONGO_URL", "mongodb://localhost:27017"),
		MongoDatabase:      getString("MONGO_DATABASE", "gobarber"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RateLimitPerMinute: getInt("RATE_LIMIT_PER_MINUTE", 100),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		AppURL:             getString("APP_URL", "http://localhost:3333"),
		MailTransport:      getString("MAIL_TRANSPORT", "log"),
		SMTPHost:           os.Getenv("SMTP_HOST"),
		SMTPPort:           getInt("SMTP_PORT", 25),
		SMTPFrom:           getString("SMTP_FROM", "Equipe GoBarber <noreply@gobarber.com>"),
		TelegramToken:      os.Getenv("TELEGRAM_TOKEN"),
		Worker: WorkerConfig{
			Embedded:     getBool("WORKER_EMBEDDED", false),
			MaxAttempts:  getInt("JOB_MAX_ATTEMPTS", 5),
			BackoffBase:  getDuration("JOB_BACKOFF_BASE", 30*time.Second),
			BackoffMax:   getDuration("JOB_BACKOFF_MAX", time.Hour),
			PollInterval: getDuration("JOB_POLL_INTERVAL", 2*time.Second),
			LeaseTimeout: getDuration("JOB_LEASE_TIMEOUT", 5*time.Minute),
		},
	}

	location, err := time.LoadLocation(getString("APP_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	cfg.Location = location

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	log.Printf("Config loaded (env=%s, mail=%s)\n", cfg.Environment, cfg.MailTransport)

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DBDSN == "" {
		return fmt.Errorf("DB_DSN is required but not set")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required but not set")
	}

	switch c.MailTransport {
	case "log":
	case "smtp":
		if c.SMTPHost == "" {
			return fmt.Errorf("SMTP_HOST is required for MAIL_TRANSPORT=smtp")
		}
	case "telegram":
		if c.TelegramToken == "" {
			return fmt.Errorf("TELEGRAM_TOKEN is required for MAIL_TRANSPORT=telegram")
		}
	default:
		return fmt.Errorf("unknown MAIL_TRANSPORT %q", c.MailTransport)
	}

	if c.Worker.MaxAttempts < 1 {
		return fmt.Errorf("JOB_MAX_ATTEMPTS must be positive")
	}
	if c.Worker.BackoffBase <= 0 || c.Worker.BackoffMax < c.Worker.BackoffBase {
		return fmt.Errorf("invalid job backoff: base=%s max=%s", c.Worker.BackoffBase, c.Worker.BackoffMax)
	}
	if c.Worker.PollInterval <= 0 {
		return fmt.Errorf("JOB_POLL_INTERVAL must be positive, got %s", c.Worker.PollInterval)
	}
	if c.Worker.LeaseTimeout <= 0 {
		return fmt.Errorf("JOB_LEASE_TIMEOUT must be positive, got %s", c.Worker.LeaseTimeout)
	}

	return nil
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid %s=%q, using default %d\n", key, v, def)
		return def
	}
	return n
}

func getBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Invalid %s=%q, using default %t\n", key, v, def)
		return def
	}
	return b
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Invalid %s=%q, using default %s\n", key, v, def)
		return def
	}
	return d
}
