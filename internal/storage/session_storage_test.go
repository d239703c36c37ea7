package storage

import (
	"bytes"
	"testing"
	"time"
)

func TestSessionStorageSetGetDelete(t *testing.T) {
	s := NewSessionStorage(newTestDB(t))

	if err := s.Set("sid-1", []byte("payload"), time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := s.Get("sid-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !bytes.Equal(got, []byte("payload")) {
		t.Fatalf("get = %q, want payload", got)
	}

	if err := s.Set("sid-1", []byte("updated"), time.Hour); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _ = s.Get("sid-1")
	if !bytes.Equal(got, []byte("updated")) {
		t.Fatalf("get after overwrite = %q", got)
	}

	if err := s.Delete("sid-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err = s.Get("sid-1")
	if err != nil || got != nil {
		t.Fatalf("get after delete = %q, %v; want nil, nil", got, err)
	}
}

func TestSessionStorageExpiredKeysAreInvisible(t *testing.T) {
	s := NewSessionStorage(newTestDB(t))
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	s.clock = func() time.Time { return now }

	if err := s.Set("sid-2", []byte("payload"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	now = now.Add(2 * time.Minute)
	got, err := s.Get("sid-2")
	if err != nil || got != nil {
		t.Fatalf("get expired = %q, %v; want nil, nil", got, err)
	}

	removed, err := s.DeleteExpired(now)
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
}

func TestSessionStorageReset(t *testing.T) {
	s := NewSessionStorage(newTestDB(t))
	_ = s.Set("a", []byte("1"), 0)
	_ = s.Set("b", []byte("2"), 0)

	if err := s.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if got, _ := s.Get("a"); got != nil {
		t.Fatalf("get after reset = %q, want nil", got)
	}
}
