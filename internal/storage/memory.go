package storage

import (
	"context"
	"sync"
	"time"
)

// MemoryChallengeStore keeps challenges in process memory. Contents are lost
// on restart and are not shared between processes.
type MemoryChallengeStore struct {
	mu         sync.Mutex
	challenges map[string]Challenge
}

// NewMemoryChallengeStore creates an empty in-memory challenge store.
func NewMemoryChallengeStore() *MemoryChallengeStore {
	return &MemoryChallengeStore{challenges: make(map[string]Challenge)}
}

func (m *MemoryChallengeStore) PutChallenge(_ context.Context, challenge Challenge) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.challenges[challenge.Email] = challenge
	return nil
}

func (m *MemoryChallengeStore) GetChallenge(_ context.Context, email string) (Challenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	challenge, ok := m.challenges[email]
	if !ok {
		return Challenge{}, ErrNotFound
	}
	return challenge, nil
}

func (m *MemoryChallengeStore) ConsumeChallenge(_ context.Context, email, nonce string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	challenge, ok := m.challenges[email]
	if !ok || challenge.Nonce != nonce {
		return false, nil
	}
	delete(m.challenges, email)
	return true, nil
}

func (m *MemoryChallengeStore) DeleteExpiredChallenges(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed int64
	for email, challenge := range m.challenges {
		if now.After(challenge.ExpiresAt) {
			delete(m.challenges, email)
			removed++
		}
	}
	return removed, nil
}
