package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultSessionSecret is only acceptable outside production.
const DefaultSessionSecret = "change_this_secret"

// Config holds application configuration values.
type Config struct {
	AppName     string `env:"APP_NAME" envDefault:"Shop Order"`
	Environment string `env:"APP_ENV" envDefault:"development"`
	AppPort     string `env:"PORT" envDefault:"3000"`

	DatabaseDriver   string `env:"DB_DRIVER" envDefault:"sqlite"`
	DatabaseURL      string `env:"DATABASE_URL" envDefault:"database.sqlite"`
	DatabaseLogLevel string `env:"DB_LOG_LEVEL" envDefault:"warn"`

	SessionSecret string        `env:"SESSION_SECRET" envDefault:"change_this_secret"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	SessionStore  string        `env:"SESSION_STORE" envDefault:"memory"`

	OTPTTL           time.Duration `env:"OTP_TTL" envDefault:"5m"`
	OTPStore         string        `env:"OTP_STORE" envDefault:"memory"`
	OTPHashCost      int           `env:"OTP_HASH_COST" envDefault:"10"`
	OTPSweepInterval time.Duration `env:"OTP_SWEEP_INTERVAL" envDefault:"10m"`

	ShopOwnerEmail  string        `env:"SHOP_OWNER_EMAIL"`
	MailFrom        string        `env:"MAIL_FROM"`
	MailSendTimeout time.Duration `env:"MAIL_SEND_TIMEOUT" envDefault:"15s"`
	SendGridAPIKey  string        `env:"SENDGRID_API_KEY"`
	SMTPHost        string        `env:"SMTP_HOST"`
	SMTPPort        int           `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser        string        `env:"SMTP_USER"`
	SMTPPass        string        `env:"SMTP_PASS"`

	TelegramBotToken  string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramAdminChat string `env:"TELEGRAM_ADMIN_CHAT_ID"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
}

// Load reads .env (when present) and the process environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.MailFrom == "" {
		cfg.MailFrom = cfg.ShopOwnerEmail
	}
	if cfg.MailFrom == "" {
		cfg.MailFrom = "no-reply@example.com"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether the app runs with production cookie and secret rules.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func (c *Config) validate() error {
	var problems []string

	switch c.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		problems = append(problems, fmt.Sprintf("DB_DRIVER %q is not one of sqlite, postgres", c.DatabaseDriver))
	}
	for key, value := range map[string]string{"SESSION_STORE": c.SessionStore, "OTP_STORE": c.OTPStore} {
		if value != "memory" && value != "database" {
			problems = append(problems, fmt.Sprintf("%s %q is not one of memory, database", key, value))
		}
	}
	if c.AppPort == "" {
		problems = append(problems, "PORT must be set")
	}
	if c.SessionTTL <= 0 {
		problems = append(problems, "SESSION_TTL must be positive")
	}
	if c.OTPTTL <= 0 {
		problems = append(problems, "OTP_TTL must be positive")
	}
	if c.SessionSecret == "" {
		problems = append(problems, "SESSION_SECRET must be set")
	} else if c.SessionSecret == DefaultSessionSecret {
		if c.IsProduction() {
			problems = append(problems, "SESSION_SECRET must be changed in production")
		} else {
			log.Println("[Config] SESSION_SECRET not set, using the development default")
		}
	}

	if len(problems) > 0 {
		return errors.New("invalid config: " + strings.Join(problems, "; "))
	}
	return nil
}
