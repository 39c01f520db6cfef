package config

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingSessionSecret is a startup-time misconfiguration: running without
// a session secret would mean unsigned session cookies, so we refuse to boot.
var ErrMissingSessionSecret = errors.New("SESSION_SECRET is not set; refusing to start without a session secret")

type Config struct {
	Env           string
	Port          int
	SessionSecret string
	DBURL         string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	OTLPEndpoint  string
}

func Load() (Config, error) {
	// best-effort .env for local dev; real deployments set env vars directly
	_ = godotenv.Load()

	secret := os.Getenv("SESSION_SECRET")

	if secret == "" {
		return Config{}, ErrMissingSessionSecret
	}

	return Config{
		Env:           getEnv("APP_ENV", "dev"),
		Port:          getEnvInt("PORT", 3000),
		SessionSecret: secret,
		DBURL:         buildDBURL(),
		RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		OTLPEndpoint:  getEnv("OTLP_ENDPOINT", ""),
	}, nil
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "membergate")
	pass := getEnv("DB_PASSWORD", "membergate")
	name := getEnv("DB_DATABASE", "membergate")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			return fallback
		}

		return num
	}
	return fallback
}
