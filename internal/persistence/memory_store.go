package persistence

import (
	"context"
	"sort"
	"sync"

	"github.com/draftline/draftline/pkg/api"
)

// InMemoryStore is a goroutine-safe SessionStore backed by a map.
// It stores and hands out deep clones, so callers can never mutate
// persisted state without going through Update.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*api.Session
}

// NewInMemoryStore creates a new InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string]*api.Session),
	}
}

var _ SessionStore = (*InMemoryStore)(nil)

func (s *InMemoryStore) SaveSession(ctx context.Context, sess *api.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sess.ID]; ok {
		return ErrSessionExists
	}

	sess.Version = 1
	s.sessions[sess.ID] = sess.Clone()
	return nil
}

func (s *InMemoryStore) UpdateSession(ctx context.Context, sess *api.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.sessions[sess.ID]
	if !ok {
		return ErrSessionNotFound
	}
	if stored.Version != sess.Version {
		return ErrVersionConflict
	}

	sess.Version++
	s.sessions[sess.ID] = sess.Clone()
	return nil
}

func (s *InMemoryStore) GetSession(ctx context.Context, id string) (*api.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	return sess.Clone(), nil
}

func (s *InMemoryStore) ListSessions(ctx context.Context, filter SessionFilter) ([]api.SessionSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []api.SessionSummary
	for _, sess := range s.sessions {
		if filter.Status != "" && sess.Status != filter.Status {
			continue
		}
		if filter.Variant != "" && sess.Variant != filter.Variant {
			continue
		}
		result = append(result, sess.Summary())
	}

	SortAndPage(&result, filter)
	return result, nil
}

// SortAndPage orders summaries most-recently-updated first and applies
// Offset/Limit. Shared by stores that filter in memory.
func SortAndPage(result *[]api.SessionSummary, filter SessionFilter) {
	rs := *result
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].UpdatedAt.Equal(rs[j].UpdatedAt) {
			return rs[i].ID < rs[j].ID
		}
		return rs[i].UpdatedAt.After(rs[j].UpdatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(rs) {
			rs = nil
		} else {
			rs = rs[filter.Offset:]
		}
	}
	if filter.Limit > 0 && filter.Limit < len(rs) {
		rs = rs[:filter.Limit]
	}
	*result = rs
}
