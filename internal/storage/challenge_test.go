package storage

import (
	"context"
	"errors"
	"testing"
	"time"
)

func challengeStores(t *testing.T) map[string]ChallengeStore {
	return map[string]ChallengeStore{
		"memory": NewMemoryChallengeStore(),
		"gorm":   NewGormStore(newTestDB(t)),
	}
}

func TestChallengeStorePutReplacesPrevious(t *testing.T) {
	ctx := context.Background()
	expires := time.Date(2026, 10, 15, 12, 5, 0, 0, time.UTC)

	for name, store := range challengeStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.PutChallenge(ctx, Challenge{Email: "a@example.com", Nonce: "n1", CodeHash: "h1", Name: "A", ExpiresAt: expires}); err != nil {
				t.Fatalf("put first: %v", err)
			}
			if err := store.PutChallenge(ctx, Challenge{Email: "a@example.com", Nonce: "n2", CodeHash: "h2", Name: "A2", ExpiresAt: expires}); err != nil {
				t.Fatalf("put second: %v", err)
			}

			got, err := store.GetChallenge(ctx, "a@example.com")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if got.Nonce != "n2" || got.CodeHash != "h2" || got.Name != "A2" {
				t.Fatalf("got %+v, want second challenge", got)
			}
			if !got.ExpiresAt.Equal(expires) {
				t.Fatalf("expires = %v, want %v", got.ExpiresAt, expires)
			}
		})
	}
}

func TestChallengeStoreConsumeOnlyMatchingNonce(t *testing.T) {
	ctx := context.Background()

	for name, store := range challengeStores(t) {
		t.Run(name, func(t *testing.T) {
			_ = store.PutChallenge(ctx, Challenge{Email: "b@example.com", Nonce: "live", CodeHash: "h", Name: "B", ExpiresAt: time.Now().Add(time.Minute)})

			ok, err := store.ConsumeChallenge(ctx, "b@example.com", "stale")
			if err != nil || ok {
				t.Fatalf("consume stale nonce = %v, %v; want false, nil", ok, err)
			}

			ok, err = store.ConsumeChallenge(ctx, "b@example.com", "live")
			if err != nil || !ok {
				t.Fatalf("consume live nonce = %v, %v; want true, nil", ok, err)
			}

			ok, err = store.ConsumeChallenge(ctx, "b@example.com", "live")
			if err != nil || ok {
				t.Fatalf("second consume = %v, %v; want false, nil", ok, err)
			}

			if _, err := store.GetChallenge(ctx, "b@example.com"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("get after consume: err = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestChallengeStoreDeleteExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	for name, store := range challengeStores(t) {
		t.Run(name, func(t *testing.T) {
			_ = store.PutChallenge(ctx, Challenge{Email: "old@example.com", Nonce: "1", CodeHash: "h", Name: "Old", ExpiresAt: now.Add(-time.Second)})
			_ = store.PutChallenge(ctx, Challenge{Email: "new@example.com", Nonce: "2", CodeHash: "h", Name: "New", ExpiresAt: now.Add(time.Minute)})

			removed, err := store.DeleteExpiredChallenges(ctx, now)
			if err != nil {
				t.Fatalf("delete expired: %v", err)
			}
			if removed != 1 {
				t.Fatalf("removed = %d, want 1", removed)
			}
			if _, err := store.GetChallenge(ctx, "new@example.com"); err != nil {
				t.Fatalf("live challenge removed: %v", err)
			}
		})
	}
}
