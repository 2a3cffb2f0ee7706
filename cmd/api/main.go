// main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Marga-Ghale/ora-projects/internal/api"
	"github.com/Marga-Ghale/ora-projects/internal/api/handlers"
	"github.com/Marga-Ghale/ora-projects/internal/config"
	"github.com/Marga-Ghale/ora-projects/internal/cron"
	"github.com/Marga-Ghale/ora-projects/internal/db"
	"github.com/Marga-Ghale/ora-projects/internal/metrics"
	"github.com/Marga-Ghale/ora-projects/internal/repository"
	"github.com/Marga-Ghale/ora-projects/internal/seed"
	"github.com/Marga-Ghale/ora-projects/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// ============================================
	// Load environment variables
	// ============================================
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// ============================================
	// Load configuration
	// ============================================
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	// ============================================
	// Initialize Repositories
	// ============================================
	var (
		repos    *repository.Repositories
		dbPinger handlers.Pinger
	)
	switch cfg.Store {
	case config.StorePostgres:
		log.Println("🔄 Running database migrations...")
		if err := db.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatalf("❌ Migration failed: %v", err)
		}
		log.Println("✅ Database migrations completed")

		pg, err := db.NewPostgresDB(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("❌ Failed to connect to PostgreSQL: %v", err)
		}
		defer pg.Close()

		repos = repository.NewRepositories(pg.Pool)
		dbPinger = pg
	case config.StoreMemory:
		log.Println("⚠️  Using in-memory store; data is lost on restart")
		repos = repository.NewInMemoryRepositories()
	}
	log.Println("📦 Repositories initialized")

	// ============================================
	// Initialize Redis (optional)
	// ============================================
	var (
		redisDB     *db.RedisDB
		cachePinger handlers.Pinger
	)
	if cfg.RedisURL != "" {
		var err error
		redisDB, err = db.NewRedisDB(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️ Failed to connect to Redis: %v (continuing without cache)", err)
			redisDB = nil
		} else {
			defer redisDB.Close()
			cachePinger = redisDB
			log.Println("⚡ Redis cache enabled")
		}
	}

	// ============================================
	// Initialize All Services
	// ============================================
	services := service.NewServices(&service.ServiceDeps{
		Config: cfg,
		Repos:  repos,
		Redis:  redisDB,
	})
	log.Println("✨ All services initialized")

	// ============================================
	// Seed Data (for development)
	// ============================================
	if cfg.SeedData && !cfg.IsProduction() {
		if err := seed.SeedData(ctx, services); err != nil {
			log.Printf("⚠️ Seeding failed: %v", err)
		}
	}

	// ============================================
	// Initialize Cron Scheduler
	// ============================================
	m := metrics.Get()
	cronScheduler := cron.NewScheduler(repos.UserRepo, m)
	if err := cronScheduler.Start(); err != nil {
		log.Fatalf("❌ Failed to start scheduler: %v", err)
	}
	defer cronScheduler.Stop()

	// ============================================
	// Create Gin Router
	// ============================================
	r := api.NewRouter(api.RouterDeps{
		Config:   cfg,
		Services: services,
		Health:   handlers.NewHealthHandler("ora-projects", dbPinger, cachePinger),
		Metrics:  m,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on port %s (%s)", cfg.Port, cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	// ============================================
	// Graceful Shutdown
	// ============================================
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}
	log.Println("👋 Server exited")
}
