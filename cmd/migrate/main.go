package main

import (
	"log"

	"rfp-portal/internal/config"
	"rfp-portal/internal/database"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := database.SeedAdmin(cfg.App.SeedAdminEmail, cfg.App.SeedAdminPass); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}

	log.Println("Migrations applied successfully")
}
