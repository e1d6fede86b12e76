// Command seed runs the database seeder.
package main

import (
	"flag"
	"log"

	"anyrite/internal/config"
	"anyrite/internal/database"
	"anyrite/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numArticles := flag.Int("articles", 100, "Number of articles to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	profilePath := flag.String("profile", "", "Seed from a YAML profile instead of flags")
	flag.Parse()

	opts := seed.Options{
		NumUsers:    *numUsers,
		NumArticles: *numArticles,
		ShouldClean: *shouldClean,
	}

	if *profilePath != "" {
		profile, err := seed.LoadProfile(*profilePath)
		if err != nil {
			log.Fatalf("Failed to load seed profile: %v", err)
		}
		log.Printf("Seeding from profile %q", profile.Name)
		opts = profile.Options()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db, opts)
	if err := s.Seed(opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done! The database is now populated with test data.")
}
