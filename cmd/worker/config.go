package main

import (
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
)

// Config holds the worker-only settings. Everything shared with the API
// (Redis, database, MinIO, job cadence) comes from the container config.
type Config struct {
	Concurrency int
	HealthAddr  string
}

// loadConfig loads configuration from environment variables
func loadConfig() *Config {
	cfg := &Config{
		Concurrency: 10,
		HealthAddr:  getEnv("WORKER_HEALTH_ADDR", ":9999"),
	}

	if n, err := strconv.Atoi(os.Getenv("WORKER_CONCURRENCY")); err == nil && n > 0 {
		cfg.Concurrency = n
	}

	log.Info().Int("concurrency", cfg.Concurrency).Str("health_addr", cfg.HealthAddr).Msg("[Config] Worker")
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
