package ratelimit

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const keyPrefix = "cooldown:"

// BadgerLimiter stores admissions as badger entries that expire after the cool-down,
// so the window survives restarts. Store errors fail open.
type BadgerLimiter struct {
	db       *badger.DB
	cooldown time.Duration
}

// OpenBadger opens a badger store at dir. An empty dir keeps the store in memory.
func OpenBadger(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open rate limit store: %w", err)
	}
	return db, nil
}

// NewBadgerLimiter creates a limiter over an open badger store
func NewBadgerLimiter(db *badger.DB, cooldown time.Duration) *BadgerLimiter {
	return &BadgerLimiter{db: db, cooldown: cooldown}
}

// Allow admits the key unless an unexpired entry exists for it
func (l *BadgerLimiter) Allow(key string) bool {
	k := []byte(keyPrefix + key)
	allowed := false
	err := l.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(k)
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		allowed = true
		stamp := []byte(time.Now().UTC().Format(time.RFC3339))
		return txn.SetEntry(badger.NewEntry(k, stamp).WithTTL(l.cooldown))
	})
	if err != nil {
		log.Printf("⚠️ Allow: rate limit store error for %s, admitting: %v", key, err)
		return true
	}
	return allowed
}

// Close closes the underlying store
func (l *BadgerLimiter) Close() error {
	return l.db.Close()
}
