package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultBaseURL = "http://localhost:8000/api"
	defaultTimeout = 10 * time.Second
)

type Config struct {
	APIBaseURL       string
	APIToken         string
	APITimeout       time.Duration
	APITrailingSlash bool
	APIRateLimit     float64
	APIRateBurst     int

	Locale   string
	Timezone string
	LogLevel string
	AppEnv   string

	DiscordWebhookURL string
}

// Load charge la configuration depuis les variables d'environnement et la valide.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env est optionnel lorsque les variables sont fournies par l'environnement.
	}
	return FromEnv(os.Getenv)
}

// FromEnv construit la configuration à partir de getenv, sans lire de fichier .env.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		APIBaseURL:        getenv("API_BASE_URL"),
		APIToken:          getenv("API_TOKEN"),
		Locale:            getenv("LOCALE"),
		Timezone:          getenv("TIMEZONE"),
		LogLevel:          getenv("LOG_LEVEL"),
		AppEnv:            getenv("APP_ENV"),
		DiscordWebhookURL: getenv("DISCORD_WEBHOOK_URL"),
	}

	var err error
	if cfg.APITimeout, err = parseDuration("API_TIMEOUT", getenv("API_TIMEOUT"), defaultTimeout); err != nil {
		return nil, err
	}
	if cfg.APITrailingSlash, err = parseBool("API_TRAILING_SLASH", getenv("API_TRAILING_SLASH")); err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(getenv("API_RATE_LIMIT")); v != "" {
		if cfg.APIRateLimit, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("config: API_RATE_LIMIT invalide (%q): %w", v, err)
		}
	}
	cfg.APIRateBurst = 1
	if v := strings.TrimSpace(getenv("API_RATE_BURST")); v != "" {
		if cfg.APIRateBurst, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("config: API_RATE_BURST invalide (%q): %w", v, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Development reports whether APP_ENV selects the development logger.
func (c *Config) Development() bool {
	return strings.EqualFold(c.AppEnv, "development") || strings.EqualFold(c.AppEnv, "dev")
}

// validate applique les valeurs par défaut et toutes les règles sur la configuration chargée.
func (c *Config) validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		c.APIBaseURL = defaultBaseURL
	}
	parsed, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("config: API_BASE_URL invalide (%q): %w", c.APIBaseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("config: API_BASE_URL invalide (%q): le scheme doit être http ou https", c.APIBaseURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("config: API_BASE_URL invalide (%q): host manquant", c.APIBaseURL)
	}

	if c.APITimeout <= 0 {
		return fmt.Errorf("config: API_TIMEOUT doit être positif")
	}
	if c.APIRateLimit < 0 {
		return fmt.Errorf("config: API_RATE_LIMIT ne peut pas être négatif")
	}
	if c.APIRateBurst < 1 {
		return fmt.Errorf("config: API_RATE_BURST doit être au moins 1")
	}

	if strings.TrimSpace(c.Locale) == "" {
		c.Locale = "en"
	}
	if strings.TrimSpace(c.Timezone) == "" {
		c.Timezone = "Local"
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = "info"
	}

	if c.DiscordWebhookURL != "" {
		u, err := url.Parse(c.DiscordWebhookURL)
		if err != nil || u.Scheme != "https" || u.Host == "" {
			return fmt.Errorf("config: DISCORD_WEBHOOK_URL invalide (%q)", c.DiscordWebhookURL)
		}
	}
	return nil
}

func parseDuration(name, v string, def time.Duration) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return def, nil
	}
	// Un entier seul est lu comme un nombre de secondes.
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s invalide (%q): %w", name, v, err)
	}
	return d, nil
}

func parseBool(name, v string) (bool, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s invalide (%q): %w", name, v, err)
	}
	return b, nil
}
