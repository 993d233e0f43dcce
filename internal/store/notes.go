package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/yanoteapp/yanote-server/internal/domain"
)

// Key prefixes for note storage.
const (
	notePrefix         = "note:"             // note:{id} → Note JSON
	noteBySlugPrefix   = "idx:notes:slug:"   // idx:notes:slug:{slug} → noteID
	noteByAuthorPrefix = "idx:notes:author:" // idx:notes:author:{authorID}:{noteID} → empty
)

// Note errors.
var (
	ErrNoteNotFound = errors.New("note not found")
	ErrSlugTaken    = errors.New("slug already in use")
)

// slugRaceRetries bounds how many times a conflicting transaction is replayed.
// Two creates racing on one slug: Badger aborts one with ErrConflict, and the
// replay observes the winner's slug index and fails with ErrSlugTaken instead.
const slugRaceRetries = 3

// CreateNote persists a new note. The slug uniqueness check and the insert
// commit in one transaction, so no two notes can ever share a slug.
func (s *Store) CreateNote(ctx context.Context, n *domain.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var err error
	for range slugRaceRetries {
		err = s.db.Update(func(txn *badger.Txn) error {
			slugKey := []byte(noteBySlugPrefix + n.Slug)
			if _, getErr := txn.Get(slugKey); getErr == nil {
				return ErrSlugTaken
			} else if !errors.Is(getErr, badger.ErrKeyNotFound) {
				return getErr
			}

			data, marshalErr := json.Marshal(n)
			if marshalErr != nil {
				return marshalErr
			}
			if setErr := txn.Set([]byte(notePrefix+n.ID), data); setErr != nil {
				return setErr
			}
			if setErr := txn.Set(slugKey, []byte(n.ID)); setErr != nil {
				return setErr
			}
			return txn.Set([]byte(noteByAuthorPrefix+n.AuthorID+":"+n.ID), nil)
		})
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

// GetNote retrieves a note by ID.
func (s *Store) GetNote(ctx context.Context, noteID string) (*domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var n domain.Note
	err := s.db.View(func(txn *badger.Txn) error {
		return readNote(txn, noteID, &n)
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// GetNoteBySlug retrieves a note by its slug.
func (s *Store) GetNoteBySlug(ctx context.Context, slug string) (*domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var n domain.Note
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(noteBySlugPrefix + slug))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNoteNotFound
		}
		if err != nil {
			return err
		}
		var noteID string
		if err := item.Value(func(val []byte) error {
			noteID = string(val)
			return nil
		}); err != nil {
			return err
		}
		return readNote(txn, noteID, &n)
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// UpdateNote rewrites a note's mutable fields. If the slug changed, the new
// slug must not belong to a different note; the note's own slug never
// collides with itself. Author and creation time are preserved from the
// stored record.
func (s *Store) UpdateNote(ctx context.Context, n *domain.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var err error
	for range slugRaceRetries {
		err = s.db.Update(func(txn *badger.Txn) error {
			var stored domain.Note
			if readErr := readNote(txn, n.ID, &stored); readErr != nil {
				return readErr
			}

			// Immutable fields.
			n.AuthorID = stored.AuthorID
			n.CreatedAt = stored.CreatedAt

			if n.Slug != stored.Slug {
				slugKey := []byte(noteBySlugPrefix + n.Slug)
				item, getErr := txn.Get(slugKey)
				if getErr == nil {
					var ownerID string
					if valErr := item.Value(func(val []byte) error {
						ownerID = string(val)
						return nil
					}); valErr != nil {
						return valErr
					}
					if ownerID != n.ID {
						return ErrSlugTaken
					}
				} else if !errors.Is(getErr, badger.ErrKeyNotFound) {
					return getErr
				}

				if delErr := txn.Delete([]byte(noteBySlugPrefix + stored.Slug)); delErr != nil {
					return delErr
				}
				if setErr := txn.Set(slugKey, []byte(n.ID)); setErr != nil {
					return setErr
				}
			}

			data, marshalErr := json.Marshal(n)
			if marshalErr != nil {
				return marshalErr
			}
			return txn.Set([]byte(notePrefix+n.ID), data)
		})
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

// DeleteNote permanently removes a note and its indexes.
func (s *Store) DeleteNote(ctx context.Context, noteID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		var n domain.Note
		if err := readNote(txn, noteID, &n); err != nil {
			return err
		}

		if err := txn.Delete([]byte(notePrefix + noteID)); err != nil {
			return err
		}
		if err := txn.Delete([]byte(noteBySlugPrefix + n.Slug)); err != nil {
			return err
		}
		return txn.Delete([]byte(noteByAuthorPrefix + n.AuthorID + ":" + noteID))
	})
}

// ListNotesByAuthor returns all notes owned by authorID, newest first.
// Ties on creation time break by ID so the order is stable.
func (s *Store) ListNotesByAuthor(ctx context.Context, authorID string) ([]*domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(noteByAuthorPrefix + authorID + ":")
	var notes []*domain.Note

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			noteID := string(it.Item().Key()[len(prefix):])
			var n domain.Note
			if err := readNote(txn, noteID, &n); err != nil {
				if errors.Is(err, ErrNoteNotFound) {
					continue // dangling index entry
				}
				return err
			}
			notes = append(notes, &n)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(notes, func(i, j int) bool {
		if !notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].CreatedAt.After(notes[j].CreatedAt)
		}
		return notes[i].ID > notes[j].ID
	})

	return notes, nil
}

// CountNotes returns the total number of notes in the store.
func (s *Store) CountNotes(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	count := 0
	prefix := []byte(notePrefix)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// readNote loads a note by ID within an open transaction.
func readNote(txn *badger.Txn, noteID string, dest *domain.Note) error {
	item, err := txn.Get([]byte(notePrefix + noteID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNoteNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, dest)
	})
}

// ListAllNotes returns every note in the store. Used for search index
// rebuilds; not exposed through the API.
func (s *Store) ListAllNotes(ctx context.Context) ([]*domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(notePrefix)
	var notes []*domain.Note

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var n domain.Note
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &n)
			}); err != nil {
				return err
			}
			notes = append(notes, &n)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return notes, nil
}
