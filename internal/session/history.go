// Package session holds the persistence pieces shared by the CLI and the
// external tooling: REPL history and the JSON record schemas for proof
// sessions and lint reports.
package session

import (
	"encoding/binary"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var historyBucket = []byte("history")

// History is an append-only REPL input log backed by a bbolt file. Entries
// keep insertion order through the bucket's sequence counter.
type History struct {
	db *bolt.DB
}

// OpenHistory opens (or creates) the history database at path.
func OpenHistory(path string) (*History, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(historyBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create history bucket: %w", err)
	}
	return &History{db: db}, nil
}

// Close releases the underlying database.
func (h *History) Close() error {
	return h.db.Close()
}

// Append records one REPL input line.
func (h *History) Append(entry string) error {
	return h.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(historyBucket)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		var key [8]byte
		binary.BigEndian.PutUint64(key[:], seq)
		return b.Put(key[:], []byte(entry))
	})
}

// Entries returns every recorded input in insertion order.
func (h *History) Entries() ([]string, error) {
	var out []string
	err := h.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(historyBucket).ForEach(func(_, v []byte) error {
			out = append(out, string(v))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Last returns up to n of the most recent inputs, oldest first.
func (h *History) Last(n int) ([]string, error) {
	all, err := h.Entries()
	if err != nil {
		return nil, err
	}
	if n >= len(all) {
		return all, nil
	}
	return all[len(all)-n:], nil
}

// Clear drops all recorded history.
func (h *History) Clear() error {
	return h.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(historyBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(historyBucket)
		return err
	})
}
