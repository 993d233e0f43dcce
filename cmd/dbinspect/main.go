// Package main provides a read-only inspection tool for the note database.
//
// Usage:
//
//	DB_PATH=~/YaNote/data/db go run ./cmd/dbinspect
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/yanoteapp/yanote-server/internal/domain"
)

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/YaNote/data/db")
	}

	opts := badger.DefaultOptions(dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	userCount := 0
	noteCount := 0
	sessionCount := 0
	notesByAuthor := map[string]int{}
	slugIndexCount := 0
	danglingSlugs := 0

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.Key())

			switch {
			case strings.HasPrefix(key, "user:"):
				userCount++
			case strings.HasPrefix(key, "session:"):
				sessionCount++
			case strings.HasPrefix(key, "note:"):
				noteCount++
				if err := item.Value(func(val []byte) error {
					var n domain.Note
					if err := json.Unmarshal(val, &n); err != nil {
						return err
					}
					notesByAuthor[n.AuthorID]++
					return nil
				}); err != nil {
					return err
				}
			case strings.HasPrefix(key, "idx:notes:slug:"):
				slugIndexCount++
				var noteID string
				if err := item.Value(func(val []byte) error {
					noteID = string(val)
					return nil
				}); err != nil {
					return err
				}
				if _, err := txn.Get([]byte("note:" + noteID)); err != nil {
					danglingSlugs++
					fmt.Printf("  DANGLING slug index: %s -> %s\n", key, noteID)
				}
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Inspection failed: %v", err)
	}

	fmt.Printf("Users:    %d\n", userCount)
	fmt.Printf("Notes:    %d\n", noteCount)
	fmt.Printf("Sessions: %d\n", sessionCount)
	fmt.Printf("Slug index entries: %d (dangling: %d)\n", slugIndexCount, danglingSlugs)
	fmt.Println()

	if len(notesByAuthor) > 0 {
		fmt.Println("Notes per author:")
		for authorID, count := range notesByAuthor {
			fmt.Printf("  %s: %d\n", authorID, count)
		}
	}

	if slugIndexCount != noteCount {
		fmt.Println()
		fmt.Printf("WARNING: slug index entries (%d) != notes (%d)\n", slugIndexCount, noteCount)
	}
}
