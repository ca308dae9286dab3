// Package devcode provides an in-memory store of the latest plaintext 2FA code
// per email, used only when dev 2FA mode is enabled (GET /dev/twofa/code).
package devcode

import (
	"context"
	"sync"
	"time"
)

// Store holds the latest plain code by normalized email for dev-only
// retrieval. Not used in production.
type Store interface {
	// Put stores code for email until expiresAt, replacing any earlier code.
	Put(ctx context.Context, email, code string, expiresAt time.Time)
	// Get returns the code for email if present and not expired.
	Get(ctx context.Context, email string) (code string, ok bool)
}

type entry struct {
	code      string
	expiresAt time.Time
}

// MemoryStore is an in-memory Store implementation.
type MemoryStore struct {
	mu   sync.RWMutex
	m    map[string]entry
	nowF func() time.Time
}

// NewMemoryStore returns a new in-memory dev code store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		m:    make(map[string]entry),
		nowF: func() time.Time { return time.Now().UTC() },
	}
}

// Put stores code for email until expiresAt.
func (s *MemoryStore) Put(ctx context.Context, email, code string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[email] = entry{code: code, expiresAt: expiresAt}
}

// Get returns the code for email if present and not expired.
func (s *MemoryStore) Get(ctx context.Context, email string) (string, bool) {
	s.mu.RLock()
	e, ok := s.m[email]
	s.mu.RUnlock()
	if !ok {
		return "", false
	}
	if !e.expiresAt.After(s.nowF()) {
		s.mu.Lock()
		delete(s.m, email)
		s.mu.Unlock()
		return "", false
	}
	return e.code, true
}
