package persistence

import (
	"context"
	"errors"

	"github.com/draftline/draftline/pkg/api"
)

var (
	// ErrSessionNotFound is returned when no session exists for an ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrVersionConflict is returned when an update carries a stale
	// session version. The caller must reload and retry.
	ErrVersionConflict = errors.New("session version conflict")

	// ErrSessionExists is returned when saving a session whose ID is
	// already persisted.
	ErrSessionExists = errors.New("session already exists")
)

// SessionFilter selects sessions from the store.
// Zero values mean "no filter" for that field.
type SessionFilter struct {
	Status  api.Status
	Variant api.WorkflowVariant
	Limit   int
	Offset  int
}

// SessionStore handles storage of session aggregates. The store is
// the single source of truth: every engine mutation round-trips
// through it, and no component caches session state across calls.
//
// SaveSession inserts a new session; UpdateSession replaces the whole
// aggregate atomically (write-then-swap, never partial-step patches)
// and must fail with ErrVersionConflict when the session's Version
// does not match the persisted one. Both bump Version on success.
type SessionStore interface {
	SaveSession(ctx context.Context, sess *api.Session) error
	UpdateSession(ctx context.Context, sess *api.Session) error
	GetSession(ctx context.Context, id string) (*api.Session, error)
	// ListSessions returns summaries ordered most-recently-updated
	// first, after applying the filter and pagination.
	ListSessions(ctx context.Context, filter SessionFilter) ([]api.SessionSummary, error)
}
