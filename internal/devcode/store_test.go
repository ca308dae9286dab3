package devcode

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStorePutGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Put(ctx, "jo@example.org", "123456", time.Now().Add(time.Minute))

	code, ok := s.Get(ctx, "jo@example.org")
	if !ok || code != "123456" {
		t.Fatalf("Get = %q, %v", code, ok)
	}
	if _, ok := s.Get(ctx, "other@example.org"); ok {
		t.Fatal("Get(unknown) = ok")
	}
}

func TestMemoryStoreReplacesCode(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Put(ctx, "jo@example.org", "111111", time.Now().Add(time.Minute))
	s.Put(ctx, "jo@example.org", "222222", time.Now().Add(time.Minute))

	code, ok := s.Get(ctx, "jo@example.org")
	if !ok || code != "222222" {
		t.Fatalf("Get = %q, %v, want latest code", code, ok)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Put(ctx, "jo@example.org", "123456", time.Now().UTC().Add(time.Minute))
	s.nowF = func() time.Time { return time.Now().UTC().Add(2 * time.Minute) }

	if _, ok := s.Get(ctx, "jo@example.org"); ok {
		t.Fatal("Get(expired) = ok")
	}
}

func TestMemoryStoreExpiryWithRealClock(t *testing.T) {
	// No clock override: the default clock must observe wall time passing.
	s := NewMemoryStore()
	ctx := context.Background()

	s.Put(ctx, "jo@example.org", "123456", time.Now().UTC().Add(30*time.Millisecond))
	time.Sleep(100 * time.Millisecond)

	if _, ok := s.Get(ctx, "jo@example.org"); ok {
		t.Fatal("Get after expiry elapsed = ok, want expired")
	}
}
