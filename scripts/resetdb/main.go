package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// Maintenance utility: wipes stale drafts and, with --all, every submission
// and question. Meant for dev/staging databases only.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		dbHost, dbPort, dbUser, dbPassword, dbName)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Connected to database")

	// Drafts older than 30 days are abandoned; their vendors can start over.
	result, err := db.Exec(`DELETE FROM drafts WHERE last_saved_at < NOW() - INTERVAL '30 days'`)
	if err != nil {
		log.Fatalf("Failed to delete stale drafts: %v", err)
	}
	rows, _ := result.RowsAffected()
	log.Printf("Deleted %d stale drafts", rows)

	if len(os.Args) > 1 && os.Args[1] == "--all" {
		for _, table := range []string{"questions", "submissions", "drafts"} {
			if _, err := db.Exec("DELETE FROM " + table); err != nil {
				log.Printf("Warning: failed to clear %s: %v", table, err)
				continue
			}
			log.Printf("Cleared %s", table)
		}
	}
}
