package main

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"fleet-assignment-service/internal/adapters/repositories"
	"fleet-assignment-service/internal/platform/db"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("FLEET_DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("FLEET_DATABASE_URL is required")
	}

	pool, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(pool); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	seedPath := os.Getenv("FLEET_SEED_PATH")
	if seedPath == "" {
		return
	}

	log.Println("Seeding database...")
	if err := repositories.SeedFromJSON(pool, seedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")
}
