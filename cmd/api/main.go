package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/smartkitchen/backend/config"
	"github.com/smartkitchen/backend/internal/database"
	"github.com/smartkitchen/backend/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Probe connectivity on the raw connection first so a bad DSN fails
	// fast with a clear error instead of surfacing through gorm.
	raw, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := raw.HealthCheck(context.Background()); err != nil {
		log.Fatalf("Database health check failed: %v", err)
	}
	if err := raw.Close(); err != nil {
		log.Printf("Warning: failed to close probe connection: %v", err)
	}

	db, err := database.NewGorm(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.RunMigrations(db, "migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Warning: Redis unavailable, caching disabled: %v", err)
		redisClient = nil
	}

	s3Config, err := config.NewS3Config(context.Background())
	if err != nil {
		log.Printf("Warning: S3 unavailable, thumbnail storage disabled: %v", err)
		s3Config = nil
	}
	if s3Config != nil {
		// Thumbnail URLs are served straight from the bucket.
		if err := s3Config.SetupBucketPolicy(context.Background()); err != nil {
			log.Printf("Warning: failed to apply bucket policy: %v", err)
		}
	}

	srv := server.NewServer(cfg, db, redisClient, s3Config)

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s:%s...", cfg.ServerHost, cfg.ServerPort)
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
