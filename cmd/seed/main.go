package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"mercado/internal/database"
	"mercado/internal/repository"
)

// Seeds the managed store with the fixture dataset so a fresh local
// database serves the same listings the memory backend does.
func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "mercado.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("seed: connect failed: ", err)
	}

	repo := repository.NewGormListingRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		log.Fatal("seed: migrate failed: ", err)
	}

	listings := repository.FixtureListings()
	if err := repo.SeedListings(context.Background(), listings, repository.FixtureMedia()); err != nil {
		log.Fatal("seed: insert failed: ", err)
	}

	log.Printf("seed: %d listings written to %s", len(listings), dsn)
}
