// Command main runs the database seeder for Wayfarer.
package main

import (
	"flag"
	"log"

	"wayfarer/internal/config"
	"wayfarer/internal/database"
	"wayfarer/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 25, "Number of users to create")
	numPosts := flag.Int("posts", 100, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if *shouldClean {
		if err := seed.ClearAll(db); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if err := seed.Seed(db, *numUsers, *numPosts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All test users have the password: password123")
}
