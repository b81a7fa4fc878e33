package persistence

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/draftline/draftline/pkg/api"
)

// SQLiteSessionStore is a SessionStore backed by SQLite.
//
// It expects an *sql.DB that uses a SQLite driver (for example,
// "modernc.org/sqlite"). The caller is responsible for importing
// the driver, e.g.:
//
//	import _ "modernc.org/sqlite"
//
// The whole aggregate is stored as one JSON document per row, with the
// filterable fields lifted into columns. An UPDATE guarded by the
// version column gives atomic whole-session replace with optimistic
// concurrency.
type SQLiteSessionStore struct {
	db *sql.DB
}

var _ SessionStore = (*SQLiteSessionStore)(nil)

// NewSQLiteSessionStore initializes the required schema in the given
// database and returns a new SQLiteSessionStore.
func NewSQLiteSessionStore(db *sql.DB) (*SQLiteSessionStore, error) {
	s := &SQLiteSessionStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteSessionStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			variant TEXT NOT NULL,
			primary_keyword TEXT NOT NULL,
			status TEXT NOT NULL,
			current_step INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			version INTEGER NOT NULL,
			payload BLOB NOT NULL
		);`,
	)
	return err
}

func (s *SQLiteSessionStore) SaveSession(ctx context.Context, sess *api.Session) error {
	sess.Version = 1
	payload, err := EncodeSession(sess)
	if err != nil {
		sess.Version = 0
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, variant, primary_keyword, status, current_step, created_at, updated_at, version, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID,
		string(sess.Variant),
		sess.PrimaryKeyword,
		string(sess.Status),
		sess.CurrentStep,
		sess.CreatedAt.UTC().Format(timeLayout),
		sess.UpdatedAt.UTC().Format(timeLayout),
		sess.Version,
		payload,
	)
	if err != nil {
		sess.Version = 0
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return ErrSessionExists
		}
		return err
	}
	return nil
}

func (s *SQLiteSessionStore) UpdateSession(ctx context.Context, sess *api.Session) error {
	prev := sess.Version
	sess.Version++
	payload, err := EncodeSession(sess)
	if err != nil {
		sess.Version = prev
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions
		SET variant = ?, primary_keyword = ?, status = ?, current_step = ?, updated_at = ?, version = ?, payload = ?
		WHERE id = ? AND version = ?`,
		string(sess.Variant),
		sess.PrimaryKeyword,
		string(sess.Status),
		sess.CurrentStep,
		sess.UpdatedAt.UTC().Format(timeLayout),
		sess.Version,
		payload,
		sess.ID,
		prev,
	)
	if err != nil {
		sess.Version = prev
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		sess.Version = prev
		return err
	}
	if affected == 0 {
		sess.Version = prev
		// Distinguish a missing row from a stale version.
		var exists int
		row := s.db.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE id = ?`, sess.ID)
		if scanErr := row.Scan(&exists); scanErr != nil {
			if errors.Is(scanErr, sql.ErrNoRows) {
				return ErrSessionNotFound
			}
			return scanErr
		}
		return ErrVersionConflict
	}

	return nil
}

func (s *SQLiteSessionStore) GetSession(ctx context.Context, id string) (*api.Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT payload FROM sessions WHERE id = ?`, id)

	var payload []byte
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	return DecodeSession(payload)
}

func (s *SQLiteSessionStore) ListSessions(ctx context.Context, filter SessionFilter) ([]api.SessionSummary, error) {
	query := `
		SELECT id, variant, primary_keyword, status, current_step, created_at, updated_at
		FROM sessions`
	var args []any
	var clauses []string

	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Variant != "" {
		clauses = append(clauses, "variant = ?")
		args = append(args, string(filter.Variant))
	}

	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY updated_at DESC, id ASC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	} else if filter.Offset > 0 {
		// SQLite requires a LIMIT clause before OFFSET.
		query += " LIMIT -1 OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []api.SessionSummary
	for rows.Next() {
		sum, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, sum)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
