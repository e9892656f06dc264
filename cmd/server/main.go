package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/nuriajuanca/casamiento/internal/auth"
	"github.com/nuriajuanca/casamiento/internal/config"
	"github.com/nuriajuanca/casamiento/internal/database"
	"github.com/nuriajuanca/casamiento/internal/server"
)

func main() {
	if err := godotenv.Overload(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Only the SQL provider owns its schema; PostgREST deployments are
	// migrated through the Supabase dashboard.
	if migrator, ok := db.(interface{ Migrate() error }); ok {
		if err := migrator.Migrate(); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	store := database.NewStore(db)
	sessions := auth.NewManager(cfg.AdminPassword, cfg.EncryptionKey, cfg.IsProduction())

	srv := server.New(cfg, store, sessions)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Wedding invitation site running with %s provider", cfg.DatabaseProvider)
	if err := srv.Start(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
