// Package storage keeps a local ledger of newsletter subscriptions.
package storage

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Store records which addresses already subscribed to the newsletter.
type Store interface {
	Close() error
	SeenSubscription(email string) (bool, error)
	MarkSubscription(email string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	SubscriptionTTL time.Duration
	CleanupInterval time.Duration
}

const (
	defaultSubscriptionTTL = 365 * 24 * time.Hour
	defaultCleanupInterval = 24 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		store, err := openBolt(path, opts)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

// SubscriptionKey derives the ledger key for an address. Addresses are
// compared case-insensitively and never stored in clear.
func SubscriptionKey(email string) string {
	sum := sha1.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(sum[:])
}

func normalizeOptions(opts Options) Options {
	if opts.SubscriptionTTL <= 0 {
		opts.SubscriptionTTL = defaultSubscriptionTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                          { return nil }
func (noopStore) SeenSubscription(string) (bool, error) { return false, nil }
func (noopStore) MarkSubscription(string) error         { return nil }
