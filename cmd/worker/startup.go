// cmd/worker/startup.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"

	"classlib-backend/pkg/container"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// startServices performs health checks and logs startup information
func startServices(c *container.Container, cfg *Config) error {
	log.Info().Msg("============================================")
	log.Info().Msg("🚀 Classlib Worker Starting...")
	log.Info().Msg("============================================")

	// ✅ 1. Perform Health Checks
	if err := checkAll(c); err != nil {
		return err
	}

	// ✅ 2. Start health check endpoint
	go startHealthCheckServer(c, cfg.HealthAddr)

	return nil
}

// checkAll runs all health checks
func checkAll(c *container.Container) error {
	checks := []struct {
		name string
		fn   func(ctx context.Context) error
	}{
		{"PostgreSQL", c.DB.HealthCheck},
		{"Redis Connection", c.Redis.HealthCheck},
	}

	for _, check := range checks {
		log.Info().Msgf("⏳ Checking %s...", check.name)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := check.fn(ctx)
		cancel()

		if err != nil {
			log.Error().Err(err).Msgf("❌ %s", check.name)
			return fmt.Errorf("%s failed: %w", check.name, err)
		}
		log.Info().Msgf("✓ %s: OK", check.name)
	}

	return nil
}

// startHealthCheckServer starts HTTP server for health checks
func startHealthCheckServer(c *container.Container, addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthCheckHandler(c))
	mux.HandleFunc("/ready", readyCheckHandler)

	log.Info().Str("addr", addr).Msg("[Health] Starting health check server")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("[Health] Failed to start")
	}
}

// healthCheckHandler handles /health endpoint
func healthCheckHandler(c *container.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		services, healthy := c.HealthCheck(ctx)

		body := map[string]interface{}{
			"status":   "UP",
			"service":  "classlib-worker",
			"services": services,
		}
		code := http.StatusOK
		if !healthy {
			body["status"] = "DOWN"
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(body)
	}
}

// readyCheckHandler handles /ready endpoint (Kubernetes readiness probe)
func readyCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"READY"}`))
}
