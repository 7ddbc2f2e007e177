package storage

import (
	"path/filepath"
	"testing"
	"time"
)

func TestBoltStoreMarksAndExpiresSubscriptions(t *testing.T) {
	store, err := openBolt(filepath.Join(t.TempDir(), "ledger.db"), Options{
		SubscriptionTTL: time.Hour,
		CleanupInterval: time.Hour,
	})
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	defer store.Close()

	now := time.Now()
	store.now = func() time.Time { return now }

	seen, err := store.SeenSubscription("ada@example.com")
	if err != nil || seen {
		t.Fatalf("expected unseen address, seen=%v err=%v", seen, err)
	}

	if err := store.MarkSubscription("ada@example.com"); err != nil {
		t.Fatalf("MarkSubscription: %v", err)
	}

	seen, err = store.SeenSubscription("  ADA@example.com ")
	if err != nil || !seen {
		t.Fatalf("expected address recorded regardless of case, seen=%v err=%v", seen, err)
	}

	// Jump past both the TTL and the cleanup cadence.
	now = now.Add(2 * time.Hour)
	seen, err = store.SeenSubscription("ada@example.com")
	if err != nil {
		t.Fatalf("SeenSubscription after expiry: %v", err)
	}
	if seen {
		t.Fatalf("expected entry to expire")
	}
	n, err := store.count()
	if err != nil || n != 0 {
		t.Fatalf("expected cleanup to remove expired entry, count=%d err=%v", n, err)
	}
}

func TestBoltStoreNeverStoresAddressInClear(t *testing.T) {
	if SubscriptionKey("Ada@Example.com") != SubscriptionKey("ada@example.com") {
		t.Fatal("keys must be case-insensitive")
	}
	if key := SubscriptionKey("ada@example.com"); len(key) != 40 {
		t.Fatalf("expected sha1 hex digest, got %q", key)
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.MarkSubscription("x@y.z"); err != nil {
		t.Fatalf("noop store MarkSubscription: %v", err)
	}
	if seen, _ := store.SeenSubscription("x@y.z"); seen {
		t.Fatal("noop store must never report a subscription")
	}
}

func TestNewStoreValidatesBackend(t *testing.T) {
	if _, err := NewStore("bbolt", " ", Options{}); err == nil {
		t.Fatal("expected error for missing path")
	}
	if _, err := NewStore("redis", "x", Options{}); err == nil {
		t.Fatal("expected error for unsupported backend")
	}
}
