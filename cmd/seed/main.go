// Package main provides a tool to seed the database with test gallery data.
//
// This creates test users, artworks across all three types, and random
// reactions so browse, search, and interaction features have something
// to chew on during development.
//
// Usage:
//
//	DB_PATH=~/Gallerie/data/db go run ./cmd/seed
//	DB_PATH=~/Gallerie/data/db go run ./cmd/seed --artworks 50
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/gallerieapp/gallerie-server/internal/auth"
	"github.com/gallerieapp/gallerie-server/internal/domain"
	"github.com/gallerieapp/gallerie-server/internal/id"
	"github.com/gallerieapp/gallerie-server/internal/store"
)

var artworkCount = flag.Int("artworks", 30, "Number of artworks to create")

var seedTags = []string{"fantasy", "scifi", "portrait", "landscape", "cats", "mecha", "watercolor", "ink"}

var seedTitles = []string{
	"Harbor at Dawn", "Crimson Study", "Under the Overpass", "Quiet Orbit",
	"Paper Garden", "Static Bloom", "Night Market", "Glass River",
}

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/Gallerie/data/db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := store.New(dbPath, nil, store.NewNoopEmitter())
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	users := createTestUsers(ctx, s)
	fmt.Printf("Seeded %d users\n", len(users))

	types := []domain.ArtType{domain.ArtTypeIllustration, domain.ArtTypeManga, domain.ArtTypeLightNovel}

	created := 0
	for i := 0; i < *artworkCount; i++ {
		artist := users[rng.Intn(len(users))]

		art := &domain.Artwork{
			ArtistID:    artist.ID,
			Title:       fmt.Sprintf("%s #%d", seedTitles[rng.Intn(len(seedTitles))], i+1),
			Description: "Seeded test artwork.",
			Type:        types[rng.Intn(len(types))],
			Tags:        pickTags(rng),
		}
		art.ID = id.MustGenerate("art")
		art.InitTimestamps()
		// Spread creation times so browse ordering is visible.
		art.CreatedAt = time.Now().Add(-time.Duration(rng.Intn(14*24)) * time.Hour)
		art.UpdatedAt = art.CreatedAt

		// Random reactions from the other users.
		for _, u := range users {
			if u.ID == artist.ID {
				continue
			}
			switch rng.Intn(4) {
			case 0:
				art.ToggleLike(u.ID)
			case 1:
				art.ToggleDislike(u.ID)
			}
		}

		if err := s.CreateArtwork(ctx, art); err != nil {
			log.Printf("Failed to create artwork %q: %v", art.Title, err)
			continue
		}
		created++
	}

	fmt.Printf("Seeded %d artworks\n", created)
}

func createTestUsers(ctx context.Context, s *store.Store) []*domain.User {
	specs := []struct {
		userName    string
		displayName string
	}{
		{"painter", "The Painter"},
		{"inkwell", "Inkwell"},
		{"pixelkid", "Pixel Kid"},
		{"stargazer", "Stargazer"},
	}

	hash, err := auth.HashPassword("seed-password")
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	var users []*domain.User
	for _, spec := range specs {
		if existing, err := s.Users.GetByIndex(ctx, "user_name", spec.userName); err == nil {
			users = append(users, existing)
			continue
		}

		user := &domain.User{
			UserName:     spec.userName,
			DisplayName:  spec.displayName,
			Email:        spec.userName + "@example.com",
			PasswordHash: hash,
			Role:         domain.RoleMember,
		}
		user.ID = id.MustGenerate("usr")
		user.InitTimestamps()

		if err := s.Users.Create(ctx, user.ID, user); err != nil {
			log.Fatalf("Failed to create user %s: %v", spec.userName, err)
		}
		fmt.Printf("Created user %s (%s)\n", spec.userName, user.ID)
		users = append(users, user)
	}
	return users
}

func pickTags(rng *rand.Rand) []string {
	n := 1 + rng.Intn(3)
	shuffled := make([]string, len(seedTags))
	copy(shuffled, seedTags)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:n]
}
