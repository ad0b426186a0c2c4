package session

import "context"

// Session is the typed per-client state carried between requests. The two
// flags gate the admin routes and the signup-unlocked page respectively.
type Session struct {
	IsAdmin          bool
	HasVisitorAccess bool
}

type SessionService interface {
	// Get returns the session stored under id, or nil when the id is unknown
	// or expired.
	Get(ctx context.Context, id string) (*Session, error)
	// Put stores the session under id and refreshes its time to live.
	Put(ctx context.Context, id string, session *Session) error
	// Delete removes the session; deleting an unknown id is a no-op.
	Delete(ctx context.Context, id string) error
	Close() error
}

// NewID returns a fresh random session identifier.
func NewID() (string, error) {
	return generateSessionID()
}
