// Package config loads server settings from the environment and
// calculation setups from JSON or YAML files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"go.ngs.io/praytimes/internal/domain"
)

// Environment holds the settings of the HTTP server.
type Environment struct {
	Port           string
	Host           string
	AllowedOrigins []string

	ElevationPath string
	GeoidPath     string

	DatabaseURL string

	RedisAddress  string
	RedisUsername string
	RedisPassword string
	CacheTTL      time.Duration

	JWTSecret     string
	DefaultMethod string

	LogLevel  string
	LogFormat string
}

// LoadEnvironment reads a .env file (or ENV_FILE) if present, then the
// process environment. Variables already set win over the file.
func LoadEnvironment() (Environment, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Environment{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	ttl, err := getDuration("CACHE_TTL", 24*time.Hour)
	if err != nil {
		return Environment{}, err
	}

	env := Environment{
		Port:           getEnv("PORT", "8080"),
		Host:           os.Getenv("HOST"),
		AllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		ElevationPath:  os.Getenv("ELEVATION_GEBCO_PATH"),
		GeoidPath:      os.Getenv("GEOID_EGM2008_PATH"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisAddress:   os.Getenv("REDIS_ADDRESS"),
		RedisUsername:  os.Getenv("REDIS_USERNAME"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		CacheTTL:       ttl,
		JWTSecret:      os.Getenv("JWT_SECRET"),
		DefaultMethod:  getEnv("DEFAULT_METHOD", domain.MethodMWL),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
	}

	if _, ok := domain.LookupMethod(env.DefaultMethod); !ok {
		return Environment{}, fmt.Errorf("DEFAULT_METHOD: unknown method %q (available: %v)", env.DefaultMethod, domain.MethodCodes())
	}
	return env, nil
}

// Addr returns the listen address.
func (e Environment) Addr() string {
	return e.Host + ":" + e.Port
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
