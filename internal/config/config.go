package config

import (
	"fmt"
	"os"
	"strconv"
)

const defaultHashIterations = 120_000

type Config struct {
	// App
	Env string // dev / staging / prod

	// Storage. DBAddr may stay empty when running against the in-memory
	// store; the postgres path fails fast in bootstrap instead.
	DBAddr  string
	DBDebug bool

	// Credential hashing. The secret is required: without it the hasher
	// cannot be constructed and startup must abort (never fall back to
	// weaker storage).
	HashSecret     string
	HashIterations int

	// Initial admin provisioning (seed command / demo store).
	AdminUsername string
	AdminPassword string
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:           getEnv("ENV", "dev"),
		DBAddr:        os.Getenv("DB_ADDR"),
		DBDebug:       os.Getenv("DB_DEBUG") == "true",
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	cfg.HashSecret = os.Getenv("HASH_SECRET")
	if cfg.HashSecret == "" {
		return nil, fmt.Errorf("missing required env var: HASH_SECRET")
	}

	iters, err := getInt("HASH_ITERATIONS", defaultHashIterations)
	if err != nil {
		return nil, err
	}
	if iters <= 0 {
		return nil, fmt.Errorf("HASH_ITERATIONS must be positive, got %d", iters)
	}
	cfg.HashIterations = iters

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %q: %w", key, v, err)
	}
	return n, nil
}
