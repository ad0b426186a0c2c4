package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestStore(t *testing.T) *RedisSessionStore {
	t.Helper()

	server := miniredis.RunT(t)
	store, err := NewRedisSessionStore(server.Addr(), time.Hour)
	if err != nil {
		t.Fatalf("NewRedisSessionStore error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRedisSessionStore_GetUnknownID(t *testing.T) {
	store := newTestStore(t)

	session, err := store.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if session != nil {
		t.Fatalf("expected nil session for unknown id, got %+v", session)
	}
}

func TestRedisSessionStore_PutGetRoundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := NewID()
	if err != nil {
		t.Fatalf("NewID error: %v", err)
	}

	if err := store.Put(ctx, id, &Session{HasVisitorAccess: true}); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	session, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if session == nil {
		t.Fatalf("expected session, got nil")
	}
	if session.IsAdmin {
		t.Errorf("IsAdmin = true; expected false")
	}
	if !session.HasVisitorAccess {
		t.Errorf("HasVisitorAccess = false; expected true")
	}

	// Flags can be raised later in the session's lifetime.
	session.IsAdmin = true
	if err := store.Put(ctx, id, session); err != nil {
		t.Fatalf("Put (update) error: %v", err)
	}
	session, err = store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get (after update) error: %v", err)
	}
	if !session.IsAdmin || !session.HasVisitorAccess {
		t.Errorf("expected both flags set, got %+v", session)
	}
}

func TestRedisSessionStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "sid", &Session{IsAdmin: true}); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	if err := store.Delete(ctx, "sid"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	session, err := store.Get(ctx, "sid")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if session != nil {
		t.Fatalf("expected nil session after delete, got %+v", session)
	}

	// Deleting an unknown id is a no-op.
	if err := store.Delete(ctx, "sid"); err != nil {
		t.Fatalf("Delete (missing id) error: %v", err)
	}
}

func TestRedisSessionStore_Expiry(t *testing.T) {
	server := miniredis.RunT(t)
	store, err := NewRedisSessionStore(server.Addr(), time.Minute)
	if err != nil {
		t.Fatalf("NewRedisSessionStore error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	if err := store.Put(ctx, "sid", &Session{HasVisitorAccess: true}); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	server.FastForward(2 * time.Minute)

	session, err := store.Get(ctx, "sid")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if session != nil {
		t.Fatalf("expected expired session to be gone, got %+v", session)
	}
}

func TestRedisSessionStore_RejectsNonPositiveTTL(t *testing.T) {
	if _, err := NewRedisSessionStore("localhost:6379", 0); err == nil {
		t.Fatalf("expected error for zero ttl")
	}
}

func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 128)
	for i := 0; i < 128; i++ {
		id, err := NewID()
		if err != nil {
			t.Fatalf("NewID error: %v", err)
		}
		if len(id) != 32 {
			t.Fatalf("NewID returned %q; expected 32 hex characters", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("NewID returned duplicate: %q", id)
		}
		seen[id] = struct{}{}
	}
}
