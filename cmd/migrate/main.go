package main

import (
	"log"

	"rocktalk-be/internal/config"
	"rocktalk-be/internal/model"
	"rocktalk-be/pkg/database"
)

func main() {
	// 1. Load Configuration (.env, then process environment)
	cfg := config.Load()

	// 2. Connect to Database using existing GORM helpers
	db, err := database.Open(database.Options{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.Connection,
	})
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Printf("Starting GORM Migration (%s)...", cfg.Database.Driver)

	if err := db.AutoMigrate(model.All()...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Println("Success: Database migration completed.")
}
