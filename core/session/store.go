package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Store is the durable backend for session records. Implementations must
// provide transactional read/write semantics; the embedded bolt store below
// is the production implementation.
type Store interface {
	// Create persists a new session for userID expiring after lifetime.
	// The session id is generated inside the write transaction with an
	// existence probe, so concurrent creations never collide.
	Create(ctx context.Context, userID int64, lifetime time.Duration) (Session, error)

	// Get returns the session by id, or nil when absent. Expiry is not
	// checked here; that is the caller's responsibility.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes the session and returns it, or nil when absent.
	Delete(ctx context.Context, id string) (*Session, error)

	// DeleteExpired removes every session whose expiry precedes now in a
	// single write transaction and returns the number removed.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)

	Close() error
}

var bucketSessions = []byte("sessions")

// BoltStore keeps session records in an embedded bbolt database. Sessions
// survive process restarts without a standing database dependency; bbolt
// arbitrates concurrent readers and the single writer itself.
type BoltStore struct {
	db *bolt.DB

	// genID is swappable for deterministic collision tests.
	genID func(exists func(string) bool) string
}

// Open opens (or creates) the session database at path.
func Open(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Join(ErrOpenStore, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSessions)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, errors.Join(ErrOpenStore, err)
	}
	return &BoltStore{db: db, genID: newID}, nil
}

// Create implements Store.
func (s *BoltStore) Create(ctx context.Context, userID int64, lifetime time.Duration) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}

	var sess Session
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSessions)

		id := s.genID(func(candidate string) bool {
			return b.Get([]byte(candidate)) != nil
		})

		now := time.Now()
		sess = Session{
			UserID:    userID,
			ID:        id,
			ExpiresAt: now.Add(lifetime),
			CreatedAt: now,
		}

		data, err := encodeSession(sess)
		if err != nil {
			return err
		}
		return b.Put([]byte(id), data)
	})
	if err != nil {
		return Session{}, errors.Join(ErrCreateSession, err)
	}
	return sess, nil
}

// Get implements Store.
func (s *BoltStore) Get(ctx context.Context, id string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var found *Session
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketSessions).Get([]byte(id))
		if data == nil {
			return nil
		}
		sess, err := decodeSession(data)
		if err != nil {
			return fmt.Errorf("corrupt session record %q: %w", id, err)
		}
		found = &sess
		return nil
	})
	if err != nil {
		return nil, errors.Join(ErrReadStore, err)
	}
	return found, nil
}

// Delete implements Store.
func (s *BoltStore) Delete(ctx context.Context, id string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var removed *Session
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSessions)
		data := b.Get([]byte(id))
		if data == nil {
			return nil
		}
		sess, err := decodeSession(data)
		if err == nil {
			removed = &sess
		}
		return b.Delete([]byte(id))
	})
	if err != nil {
		return nil, errors.Join(ErrDeleteSession, err)
	}
	return removed, nil
}

// DeleteExpired implements Store. Expired keys are collected and removed
// within one write transaction so the sweep commits atomically.
func (s *BoltStore) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSessions)

		var expired [][]byte
		if err := b.ForEach(func(k, v []byte) error {
			sess, err := decodeSession(v)
			if err != nil {
				// Undecodable records are dead weight; sweep them too.
				expired = append(expired, append([]byte(nil), k...))
				return nil
			}
			if sess.ExpiresAt.Before(now) {
				expired = append(expired, append([]byte(nil), k...))
			}
			return nil
		}); err != nil {
			return err
		}

		for _, k := range expired {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(expired)
		return nil
	})
	if err != nil {
		return 0, errors.Join(ErrCleanup, err)
	}
	return removed, nil
}

// Close releases the underlying database file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
