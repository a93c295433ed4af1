// pkg/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	HTTPAddr string

	// Shopify app credentials and install parameters.
	ClientID     string // SHOPIFY_API_KEY
	ClientSecret string // SHOPIFY_API_SECRET (signs callbacks and webhooks)
	Scopes       string // comma-separated access scopes requested at install
	RedirectURI  string // public URL of the OAuth callback endpoint

	// Shared secret guarding the check-token diagnostic endpoint.
	AdminSecret string

	// Protocol timing.
	StateTTL        time.Duration // anti-forgery state / cookie lifetime
	ExchangeTimeout time.Duration // hard deadline on the token exchange call

	// Redis & Postgres (token + state storage backends)
	RedisURL    string
	DatabaseURL string
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Env:             env("APP_ENV", "dev"),
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		ClientID:        env("SHOPIFY_API_KEY", ""),
		ClientSecret:    env("SHOPIFY_API_SECRET", ""),
		Scopes:          env("SHOPIFY_SCOPES", ""),
		RedirectURI:     env("SHOPIFY_REDIRECT_URI", ""),
		AdminSecret:     env("CHECK_TOKEN_SECRET", env("ADMIN_SECRET", "")),
		StateTTL:        envDur("STATE_TTL_SEC", 600) * time.Second,
		ExchangeTimeout: envDur("EXCHANGE_TIMEOUT_SEC", 10) * time.Second,
		RedisURL:        env("REDIS_URL", ""),
		DatabaseURL:     env("DATABASE_URL", ""),
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		log.Println("[WARN] SHOPIFY_API_KEY / SHOPIFY_API_SECRET not set — HMAC checks and token exchange will fail closed")
	}
	if cfg.DatabaseURL == "" && cfg.RedisURL == "" {
		log.Println("[WARN] DATABASE_URL / REDIS_URL not set — using in-memory stores for dev")
	}
	return cfg
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
func envDur(k string, def int) time.Duration {
	if v := os.Getenv(k); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return time.Duration(i)
		}
	}
	return time.Duration(def)
}
