package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/yanoteapp/yanote-server/internal/domain"
)

// Key prefixes for session storage.
const (
	sessionPrefix       = "session:"           // session:{id} → Session JSON
	sessionByHashPrefix = "idx:sessions:hash:" // idx:sessions:hash:{tokenHash} → sessionID
)

// ErrSessionNotFound is returned when no session matches.
var ErrSessionNotFound = errors.New("session not found")

// CreateSession persists a new session and its refresh token hash index.
func (s *Store) CreateSession(ctx context.Context, sess *domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(sess)
		if err != nil {
			return err
		}
		if err := txn.Set([]byte(sessionPrefix+sess.ID), data); err != nil {
			return err
		}
		return txn.Set([]byte(sessionByHashPrefix+sess.RefreshTokenHash), []byte(sess.ID))
	})
}

// GetSession retrieves a session by ID.
func (s *Store) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var sess domain.Session
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(sessionPrefix + sessionID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSessionNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &sess)
		})
	})
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// GetSessionByRefreshTokenHash looks up a session by the hash of its refresh token.
func (s *Store) GetSessionByRefreshTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var sessionID string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(sessionByHashPrefix + tokenHash))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSessionNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			sessionID = string(val)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return s.GetSession(ctx, sessionID)
}

// UpdateSession rewrites a session, reindexing its refresh token hash
// (rotation replaces the hash on every refresh).
func (s *Store) UpdateSession(ctx context.Context, sess *domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		var stored domain.Session
		item, err := txn.Get([]byte(sessionPrefix + sess.ID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSessionNotFound
		}
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		}); err != nil {
			return err
		}

		if stored.RefreshTokenHash != sess.RefreshTokenHash {
			if err := txn.Delete([]byte(sessionByHashPrefix + stored.RefreshTokenHash)); err != nil {
				return err
			}
			if err := txn.Set([]byte(sessionByHashPrefix+sess.RefreshTokenHash), []byte(sess.ID)); err != nil {
				return err
			}
		}

		data, err := json.Marshal(sess)
		if err != nil {
			return err
		}
		return txn.Set([]byte(sessionPrefix+sess.ID), data)
	})
}

// DeleteSession removes a session and its hash index.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		var sess domain.Session
		item, err := txn.Get([]byte(sessionPrefix + sessionID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSessionNotFound
		}
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &sess)
		}); err != nil {
			return err
		}

		if err := txn.Delete([]byte(sessionPrefix + sessionID)); err != nil {
			return err
		}
		return txn.Delete([]byte(sessionByHashPrefix + sess.RefreshTokenHash))
	})
}

// DeleteExpiredSessions removes all sessions whose refresh window has
// passed. It returns the number of sessions deleted.
func (s *Store) DeleteExpiredSessions(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	now := time.Now()
	var expired []string
	prefix := []byte(sessionPrefix)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var sess domain.Session
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &sess)
			}); err != nil {
				return err
			}
			if sess.IsExpired(now) {
				expired = append(expired, sess.ID)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, id := range expired {
		if err := s.DeleteSession(ctx, id); err != nil {
			if errors.Is(err, ErrSessionNotFound) {
				continue
			}
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}
