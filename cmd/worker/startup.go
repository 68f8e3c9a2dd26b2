// cmd/worker/startup.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"shop-backend/pkg/container"
)

// HealthChecker performs startup health checks
type HealthChecker struct {
	c *container.Container
}

// startServices performs health checks and starts the health endpoint
func startServices(c *container.Container) error {
	log.Println("============================================")
	log.Println("🚀 Shop Worker Starting...")
	log.Println("============================================")

	checker := &HealthChecker{c: c}
	if err := checker.checkAll(); err != nil {
		log.Printf("❌ Health check failed: %v\n", err)
		return err
	}

	go startHealthCheckServer(checker, c.Config.Worker.HealthPort)

	return nil
}

// checkAll runs all health checks
func (h *HealthChecker) checkAll() error {
	checks := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"Redis Connection", h.c.Redis.HealthCheck},
		{"PostgreSQL Connection", h.c.DB.HealthCheck},
		{"MongoDB Connection", h.c.Mongo.HealthCheck},
	}

	for _, check := range checks {
		log.Printf("⏳ Checking %s...\n", check.name)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := check.fn(ctx)
		cancel()
		if err != nil {
			log.Printf("❌ %s: %v\n", check.name, err)
			return fmt.Errorf("%s failed: %w", check.name, err)
		}
		log.Printf("✓ %s: OK\n", check.name)
	}

	return nil
}

// startHealthCheckServer starts HTTP server for health checks
func startHealthCheckServer(checker *HealthChecker, port string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthCheckHandler)
	mux.HandleFunc("/ready", checker.readyCheckHandler)

	log.Printf("[Health] Starting health check server on :%s", port)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Printf("[Health] Failed to start: %v\n", err)
	}
}

// healthCheckHandler handles /health endpoint
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"UP","service":"shop-worker"}`))
}

// readyCheckHandler: READY khi Redis (asynq) còn kết nối
func (h *HealthChecker) readyCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.c.Redis.HealthCheck(ctx); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"NOT_READY"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"READY"}`))
}
