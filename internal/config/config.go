package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Stripe   StripeConfig
	Maps     MapsConfig
	SMTP     SMTPConfig
	Booking  BookingConfig
	Limits   RateLimitConfig
	Logging  LoggingConfig
	Tariff   Tariff
}

type AppConfig struct {
	Name           string
	Port           string
	GinMode        string
	BaseURL        string
	AllowedOrigins []string
	OperatorEmail  string
}

type DatabaseConfig struct {
	Driver      string // "postgres" or "mysql"
	URL         string
	AutoMigrate bool
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

func (r RedisConfig) Enabled() bool { return r.Address != "" }

type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	ResetTokenTTL time.Duration
	SecureCookies bool
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
}

type MapsConfig struct {
	APIKey   string
	Country  string
	RouteTTL time.Duration
	QuoteTTL time.Duration
}

type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	FromName   string
	UseSSL     bool
	RequireTLS bool
}

func (s SMTPConfig) Enabled() bool { return s.Host != "" }

type BookingConfig struct {
	PaymentSessionTTL  time.Duration
	DraftTTL           time.Duration
	CancellationWindow time.Duration
	ExpirySweep        time.Duration
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads .env (if present), the process environment and the optional
// tariff file named by TARIFF_PATH.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name:           getEnvWithDefault("APP_NAME", "Cabbie"),
			Port:           getEnvWithDefault("PORT", "8080"),
			GinMode:        os.Getenv("GIN_MODE"),
			BaseURL:        strings.TrimRight(getEnvWithDefault("APP_BASE_URL", "http://localhost:3000"), "/"),
			AllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
			OperatorEmail:  os.Getenv("OPERATOR_EMAIL"),
		},
		Database: DatabaseConfig{
			Driver:      strings.ToLower(getEnvWithDefault("DB_DRIVER", "postgres")),
			URL:         os.Getenv("DATABASE_URL"),
			AutoMigrate: getBoolEnv("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Address:  os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret:     os.Getenv("JWT_SECRET"),
			TokenTTL:      getDurationEnv("JWT_TTL", 24*time.Hour),
			ResetTokenTTL: getDurationEnv("RESET_TOKEN_TTL", 15*time.Minute),
			SecureCookies: getBoolEnv("SECURE_COOKIES", true),
		},
		Stripe: StripeConfig{
			SecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
			WebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
			Currency:      strings.ToUpper(getEnvWithDefault("CURRENCY", "GBP")),
		},
		Maps: MapsConfig{
			APIKey:   os.Getenv("GOOGLE_MAPS_API_KEY"),
			Country:  strings.ToLower(getEnvWithDefault("PLACES_COUNTRY", "gb")),
			RouteTTL: getDurationEnv("ROUTE_CACHE_TTL", 7*24*time.Hour),
			QuoteTTL: getDurationEnv("QUOTE_CACHE_TTL", 10*time.Minute),
		},
		SMTP: SMTPConfig{
			Host:       os.Getenv("SMTP_HOST"),
			Port:       getIntEnv("SMTP_PORT", 587),
			Username:   os.Getenv("SMTP_USERNAME"),
			Password:   os.Getenv("SMTP_PASSWORD"),
			From:       os.Getenv("MAIL_FROM"),
			FromName:   getEnvWithDefault("MAIL_FROM_NAME", "Cabbie"),
			UseSSL:     getBoolEnv("SMTP_USE_SSL", false),
			RequireTLS: getBoolEnv("SMTP_REQUIRE_TLS", true),
		},
		Booking: BookingConfig{
			PaymentSessionTTL:  getDurationEnv("PAYMENT_SESSION_TTL", 30*time.Minute),
			DraftTTL:           getDurationEnv("DRAFT_TTL", 2*time.Hour),
			CancellationWindow: getDurationEnv("CANCELLATION_WINDOW", 2*time.Hour),
			ExpirySweep:        getDurationEnv("SESSION_SWEEP_INTERVAL", 5*time.Minute),
		},
		Limits: RateLimitConfig{
			RPS:   getFloatEnv("RATE_LIMIT_RPS", 2),
			Burst: getIntEnv("RATE_LIMIT_BURST", 5),
		},
		Logging: LoggingConfig{
			Level:  getEnvWithDefault("LOG_LEVEL", "info"),
			Format: getEnvWithDefault("LOG_FORMAT", "json"),
		},
	}

	tariffPath := os.Getenv("TARIFF_PATH")
	tariff, err := LoadTariff(tariffPath)
	if err != nil {
		return nil, err
	}
	// The built-in tariff and files without a currency are priced in CURRENCY.
	if tariffPath == "" || tariff.Currency == "" {
		tariff.Currency = cfg.Stripe.Currency
	}
	tariff.Currency = strings.ToUpper(tariff.Currency)
	cfg.Tariff = tariff

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var problems []string
	if c.Auth.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required")
	}
	switch c.Database.Driver {
	case "postgres", "mysql":
	default:
		problems = append(problems, "DB_DRIVER must be postgres or mysql")
	}
	if c.Booking.PaymentSessionTTL <= 0 {
		problems = append(problems, "PAYMENT_SESSION_TTL must be positive")
	}
	if len(c.Stripe.Currency) != 3 {
		problems = append(problems, "CURRENCY must be an ISO 4217 code")
	} else if c.Tariff.Currency != "" && c.Tariff.Currency != c.Stripe.Currency {
		problems = append(problems, fmt.Sprintf("tariff currency %s does not match CURRENCY %s", c.Tariff.Currency, c.Stripe.Currency))
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key))); err == nil {
		return v
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64); err == nil {
		return v
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key))); err == nil {
		return v
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key))); err == nil && v > 0 {
		return v
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
