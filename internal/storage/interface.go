package storage

import (
	"context"
	"time"

	"github.com/yourname/focustracker/internal"
)

// Repositories treat ids as opaque strings. Each backend generates its own
// native identifiers and confines the conversion here.

type UserRepository interface {
	CreateUser(ctx context.Context, user *internal.User) (string, error)
}

type SessionRepository interface {
	CreateSession(ctx context.Context, session *internal.Session) (string, error)
	GetSession(ctx context.Context, id string) (*internal.Session, error)
	// IncrementCounters applies delta as a single atomic find-and-increment
	// keyed by session id and returns the updated record. Concurrent calls
	// for the same session must all be reflected; updated_at is stamped.
	IncrementCounters(ctx context.Context, id string, delta internal.CounterDelta) (*internal.Session, error)
	// EndSession marks the session ended with the given timestamp.
	EndSession(ctx context.Context, id string, endedAt time.Time) error
	// ListSessionsByUser returns up to limit sessions, most recent first.
	ListSessionsByUser(ctx context.Context, userID string, limit int) ([]internal.Session, error)
}

type EventRepository interface {
	AppendEvent(ctx context.Context, event *internal.ActivityEvent) (string, error)
}

// Store is the full persistence gateway a backend must provide.
type Store interface {
	UserRepository
	SessionRepository
	EventRepository

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
	// Collections lists the entity collections the store currently holds,
	// for the connectivity diagnostic endpoint.
	Collections(ctx context.Context) ([]string, error)
	Close() error
}
