// Package snapshot persists per-user record snapshots for the sync server.
package snapshot

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/record"
)

var (
	// ErrNotFound is returned when a user has no snapshot.
	ErrNotFound = errors.New("snapshot not found")

	// ErrInvalidUser is returned for an empty user name.
	ErrInvalidUser = errors.New("invalid user")
)

// Bucket names.
const (
	BucketSnapshots = "snapshots"
	BucketUploads   = "uploads"
)

// Snapshot is the latest record set uploaded by a user.
type Snapshot struct {
	User      string      `json:"user"`
	Timestamp string      `json:"timestamp"`
	Data      record.List `json:"data"`
}

// Upload is one entry of the upload log.
type Upload struct {
	Seq       int64  `json:"seq"`
	User      string `json:"user"`
	Timestamp string `json:"timestamp"`
	Count     int    `json:"count"`
}

// Store represents the bbolt database wrapper.
type Store struct {
	db *bolt.DB
}

// New opens the store at dbPath and initializes buckets.
func New(dbPath string) (*Store, error) {
	db, err := bolt.Open(dbPath, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range []string{BucketSnapshots, BucketUploads} {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put replaces the user's snapshot and appends an upload log entry in the
// same transaction.
func (s *Store) Put(snap Snapshot) error {
	if snap.User == "" {
		return ErrInvalidUser
	}
	if snap.Data == nil {
		snap.Data = record.List{}
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket([]byte(BucketSnapshots)).Put([]byte(snap.User), data); err != nil {
			return err
		}

		uploads := tx.Bucket([]byte(BucketUploads))
		seq, err := uploads.NextSequence()
		if err != nil {
			return err
		}
		entry, err := json.Marshal(Upload{
			Seq:       int64(seq),
			User:      snap.User,
			Timestamp: snap.Timestamp,
			Count:     len(snap.Data),
		})
		if err != nil {
			return fmt.Errorf("failed to marshal upload: %w", err)
		}
		return uploads.Put(itob(int64(seq)), entry)
	})
}

// Get returns the user's snapshot or ErrNotFound.
func (s *Store) Get(user string) (Snapshot, error) {
	if user == "" {
		return Snapshot{}, ErrInvalidUser
	}

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(BucketSnapshots)).Get([]byte(user))
		if v == nil {
			return ErrNotFound
		}
		// Copy the value since it's only valid during the transaction.
		data = make([]byte, len(v))
		copy(data, v)
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot for %s: %w", user, err)
	}
	return snap, nil
}

// Delete removes the user's snapshot. The upload log is kept.
func (s *Store) Delete(user string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketSnapshots)).Delete([]byte(user))
	})
}

// Users returns the users that have a snapshot, in key order.
func (s *Store) Users() ([]string, error) {
	var users []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketSnapshots)).ForEach(func(k, _ []byte) error {
			users = append(users, string(k))
			return nil
		})
	})
	return users, err
}

// Uploads returns the upload log for user, oldest first. An empty user
// returns every entry.
func (s *Store) Uploads(user string) ([]Upload, error) {
	var uploads []Upload
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketUploads)).ForEach(func(_, v []byte) error {
			var u Upload
			if err := json.Unmarshal(v, &u); err != nil {
				return err
			}
			if user == "" || u.User == user {
				uploads = append(uploads, u)
			}
			return nil
		})
	})
	return uploads, err
}

// itob converts an int64 to a byte slice for use as a bbolt key.
func itob(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}
