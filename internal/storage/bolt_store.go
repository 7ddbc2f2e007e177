package storage

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	subscriptionBucket = "newsletter_subscriptions"

	// Each value holds the expiry followed by the time the address was recorded.
	recordBytes = 16
)

// boltStore implements a Store backed by BoltDB.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	ttl             time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (*boltStore, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(subscriptionBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		ttl:             opts.SubscriptionTTL,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
	}
	store.lastCleanup.Store(store.now().Unix())
	return store, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// SeenSubscription reports whether email was recorded and has not expired.
func (b *boltStore) SeenSubscription(email string) (bool, error) {
	if b == nil || b.db == nil {
		return false, nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return false, err
	}

	key := []byte(SubscriptionKey(email))
	var seen bool
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(subscriptionBucket))
		if bucket == nil {
			return fmt.Errorf("subscription bucket missing")
		}
		rec, ok := decodeRecord(bucket.Get(key))
		seen = ok && rec.expiry.After(now)
		return nil
	})
	return seen, err
}

// MarkSubscription records email for the configured TTL.
func (b *boltStore) MarkSubscription(email string) error {
	if b == nil || b.db == nil {
		return nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(subscriptionBucket))
		if bucket == nil {
			return fmt.Errorf("subscription bucket missing")
		}
		rec := record{expiry: now.Add(b.ttl), markedAt: now}
		return bucket.Put([]byte(SubscriptionKey(email)), rec.encode())
	})
}

// maybeCleanupExpired removes expired entries on a fixed cadence.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(subscriptionBucket))
		if bucket == nil {
			return fmt.Errorf("subscription bucket missing")
		}

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			rec, ok := decodeRecord(v)
			if !ok || !rec.expiry.After(now) {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

// count returns the number of stored entries, expired or not.
func (b *boltStore) count() (int, error) {
	var n int
	err := b.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket([]byte(subscriptionBucket)).Stats().KeyN
		return nil
	})
	return n, err
}

type record struct {
	expiry   time.Time
	markedAt time.Time
}

func (r record) encode() []byte {
	buf := make([]byte, recordBytes)
	binary.BigEndian.PutUint64(buf[:8], uint64(r.expiry.Unix()))
	binary.BigEndian.PutUint64(buf[8:], uint64(r.markedAt.Unix()))
	return buf
}

func decodeRecord(value []byte) (record, bool) {
	if len(value) != recordBytes {
		return record{}, false
	}
	expiry := int64(binary.BigEndian.Uint64(value[:8]))
	if expiry <= 0 {
		return record{}, false
	}
	marked := int64(binary.BigEndian.Uint64(value[8:]))
	return record{expiry: time.Unix(expiry, 0), markedAt: time.Unix(marked, 0)}, true
}
