package persistence

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/draftline/draftline/pkg/api"
)

// FileStore is a SessionStore that keeps one JSON document per session
// in a directory.
//
// Writes go to a temporary file in the same directory which is then
// renamed over the target, so a crash mid-save leaves the previously
// persisted session intact: the file is either the old document or the
// new one, never a half-written mix.
type FileStore struct {
	dir string

	// mu serializes the read-check-write cycle of Save/Update so the
	// optimistic version check cannot race within one process.
	mu sync.Mutex
}

var _ SessionStore = (*FileStore)(nil)

// NewFileStore creates the session directory if needed and returns a
// FileStore rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *FileStore) SaveSession(ctx context.Context, sess *api.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path(sess.ID)); err == nil {
		return ErrSessionExists
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	sess.Version = 1
	if err := s.write(sess); err != nil {
		sess.Version = 0
		return err
	}
	return nil
}

func (s *FileStore) UpdateSession(ctx context.Context, sess *api.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.read(sess.ID)
	if err != nil {
		return err
	}
	if stored.Version != sess.Version {
		return ErrVersionConflict
	}

	sess.Version++
	if err := s.write(sess); err != nil {
		sess.Version--
		return err
	}
	return nil
}

func (s *FileStore) GetSession(ctx context.Context, id string) (*api.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(id)
}

func (s *FileStore) ListSessions(ctx context.Context, filter SessionFilter) ([]api.SessionSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var result []api.SessionSummary
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		sess, err := s.read(strings.TrimSuffix(name, ".json"))
		if err != nil {
			return nil, err
		}
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

func (s *FileStore) read(id string) (*api.Session, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return DecodeSession(data)
}

// write persists the whole aggregate via write-then-rename.
func (s *FileStore) write(sess *api.Session) error {
	data, err := EncodeSession(sess)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, sess.ID+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, s.path(sess.ID)); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
