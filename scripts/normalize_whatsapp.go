// One-off backfill: normalizes every stored WhatsApp number to E.164.
// Run it once after importing confirmations gathered outside the site.
package main

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/nuriajuanca/casamiento/internal/config"
	"github.com/nuriajuanca/casamiento/internal/utils"
)

func main() {
	_ = godotenv.Overload()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("A Postgres connection string is required")
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	rows, err := db.Query("SELECT id, whatsapp FROM rsvp_responses WHERE whatsapp IS NOT NULL")
	if err != nil {
		log.Fatalf("Failed to query confirmations: %v", err)
	}
	defer rows.Close()

	type confirmation struct {
		id       int64
		whatsapp string
	}

	var confirmations []confirmation
	for rows.Next() {
		var c confirmation
		if err := rows.Scan(&c.id, &c.whatsapp); err != nil {
			log.Printf("Failed to scan row: %v", err)
			continue
		}
		confirmations = append(confirmations, c)
	}
	if err := rows.Err(); err != nil {
		log.Fatalf("Failed to read confirmations: %v", err)
	}

	fmt.Printf("Found %d confirmations to process\n", len(confirmations))

	updated := 0
	failed := 0
	for _, c := range confirmations {
		normalized, err := utils.NormalizeWhatsApp(c.whatsapp)
		if err != nil {
			log.Printf("Failed to normalize %q (ID: %d): %v", c.whatsapp, c.id, err)
			failed++
			continue
		}

		if normalized != c.whatsapp {
			if _, err := db.Exec("UPDATE rsvp_responses SET whatsapp = $1 WHERE id = $2", normalized, c.id); err != nil {
				log.Printf("Failed to update ID %d: %v", c.id, err)
				failed++
				continue
			}
			fmt.Printf("Updated ID %d: %q -> %q\n", c.id, c.whatsapp, normalized)
			updated++
		}
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total: %d\n", len(confirmations))
	fmt.Printf("  Updated: %d\n", updated)
	fmt.Printf("  Failed: %d\n", failed)
	fmt.Printf("  Unchanged: %d\n", len(confirmations)-updated-failed)
}
