package api

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"

	catalogdomain "github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
)

var defaultCORSOrigins = []string{
	"https://tetu-dsgn.vercel.app",
	"http://localhost:5173",
	"http://localhost:3000",
}

// Config carries environment-driven settings for the API process.
type Config struct {
	Port              string
	PostgresDSN       string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool

	SendGridAPIKey string
	OrderEmailFrom string

	AdminUsername       string
	AdminPassword       string
	AdminPasswordBcrypt string
	AdminAuthEnforced   bool
	SessionTTL          time.Duration

	LoginRatePerMinute int
	CORSAllowedOrigins []string
	FeaturedLimit      int
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
// A .env file in the working directory is loaded first when present; real environment wins.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg := Config{
		Port:                envDefault("PORT", "8080"),
		PostgresDSN:         strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		TemporalAddress:     envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace:   envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:    isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		SendGridAPIKey:      strings.TrimSpace(os.Getenv("SENDGRID_API_KEY")),
		OrderEmailFrom:      strings.TrimSpace(os.Getenv("ORDER_EMAIL_FROM")),
		AdminUsername:       envDefault("ADMIN_USERNAME", "admin"),
		AdminPassword:       envDefault("ADMIN_PASSWORD", "admin"),
		AdminPasswordBcrypt: strings.TrimSpace(os.Getenv("ADMIN_PASSWORD_BCRYPT")),
		AdminAuthEnforced:   isTruthy(os.Getenv("ADMIN_AUTH_ENFORCED")),
		CORSAllowedOrigins:  splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = append([]string{}, defaultCORSOrigins...)
	}

	hours, err := positiveInt("SESSION_TTL_HOURS", 24)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionTTL = time.Duration(hours) * time.Hour
	if cfg.LoginRatePerMinute, err = positiveInt("LOGIN_RATE_PER_MINUTE", 10); err != nil {
		return Config{}, err
	}
	if cfg.FeaturedLimit, err = positiveInt("FEATURED_LIMIT", catalogdomain.DefaultFeaturedLimit); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Addr is the listen address derived from Port.
func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

func positiveInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return value, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
