package main

import (
	"flag"
	"log"

	"github.com/smartkitchen/backend/config"
	"github.com/smartkitchen/backend/internal/database"
)

func main() {
	migrationsDir := flag.String("dir", "migrations", "Directory containing SQL migration files")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewGorm(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.RunMigrations(db, *migrationsDir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("All migrations applied successfully.")
}
