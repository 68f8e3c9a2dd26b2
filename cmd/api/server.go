package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shop-backend/pkg/container"
)

func Serve() {
	// ========================================
	// 1. BUILD DI CONTAINER
	// ========================================
	// Postgres, Redis, Mongo, MinIO phải sẵn sàng, lỗi -> không start
	appContainer, err := container.NewContainer()
	if err != nil {
		log.Fatalf("❌ Failed to initialize container: %v", err)
	}
	defer appContainer.Cleanup()

	// ========================================
	// 2. SETUP ROUTER + HTTP SERVER
	// ========================================
	cfg := appContainer.Config.App
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: SetupRouter(appContainer),
		// upload ảnh / file import cần timeout dài hơn mặc định
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// ========================================
	// 3. START SERVER (NON-BLOCKING)
	// ========================================
	serverErr := make(chan error, 1)
	go func() {
		log.Printf("🚀 %s %s listening on :%s", cfg.Name, cfg.Version, cfg.Port)
		log.Printf("💚 Health Check: http://localhost:%s/api/v1/health", cfg.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// ========================================
	// 4. GRACEFUL SHUTDOWN
	// ========================================
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		// không dùng log.Fatalf để defer Cleanup vẫn chạy
		log.Printf("❌ Server failed: %v", err)
		return
	case <-quit:
	}

	log.Println("🛑 Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️  Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server exited gracefully")
}
