// Package main provides a tool to seed the database with test users and notes.
//
// Usage:
//
//	DB_PATH=~/YaNote/data/db go run ./cmd/seed
//	DB_PATH=~/YaNote/data/db go run ./cmd/seed --notes-per-user 20
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/yanoteapp/yanote-server/internal/auth"
	"github.com/yanoteapp/yanote-server/internal/domain"
	"github.com/yanoteapp/yanote-server/internal/id"
	"github.com/yanoteapp/yanote-server/internal/slug"
	"github.com/yanoteapp/yanote-server/internal/store"
)

var notesPerUser = flag.Int("notes-per-user", 10, "Number of notes to create per test user")

// seedPassword is the password for every seeded account.
const seedPassword = "SeedPassword123!"

var testUsers = []struct {
	email       string
	displayName string
}{
	{"alice@example.com", "Alice"},
	{"boris@example.com", "Борис"},
	{"carol@example.com", "Carol"},
}

var titleWords = []string{
	"Список покупок", "Meeting notes", "Идеи для отпуска", "Reading list",
	"Рецепт борща", "Project plan", "Дневник тренировок", "Gift ideas",
	"Конспект лекции", "Weekend plans",
}

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/YaNote/data/db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := store.New(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	hash, err := auth.HashPassword(seedPassword)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	for _, tu := range testUsers {
		user := &domain.User{
			ID:           id.MustGenerate("user"),
			Email:        tu.email,
			PasswordHash: hash,
			DisplayName:  tu.displayName,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}
		if err := s.CreateUser(ctx, user); err != nil {
			fmt.Printf("Skipping %s: %v\n", tu.email, err)
			continue
		}
		fmt.Printf("Created user %s (%s)\n", user.Email, user.ID)

		created := 0
		for i := 0; i < *notesPerUser; i++ {
			title := fmt.Sprintf("%s %d", titleWords[rand.Intn(len(titleWords))], i+1)
			note := &domain.Note{
				ID:        id.MustGenerate("note"),
				Title:     title,
				Text:      fmt.Sprintf("Seeded note body for %q.", title),
				Slug:      slug.Resolve("", title),
				AuthorID:  user.ID,
				CreatedAt: time.Now().Add(-time.Duration(rand.Intn(72)) * time.Hour),
			}
			note.UpdatedAt = note.CreatedAt
			if err := s.CreateNote(ctx, note); err != nil {
				// Slug collisions between seeded titles are expected; skip them
				continue
			}
			created++
		}
		fmt.Printf("  seeded %d notes\n", created)
	}

	count, err := s.CountNotes(ctx)
	if err != nil {
		log.Fatalf("Failed to count notes: %v", err)
	}
	fmt.Printf("Done. Database now holds %d notes (password for all seeded users: %s)\n", count, seedPassword)
}
