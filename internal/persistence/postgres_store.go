package persistence

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/draftline/draftline/pkg/api"
)

// PostgresSessionStore is a SessionStore backed by PostgreSQL.
//
// The caller supplies an already-opened *sql.DB with a Postgres driver
// registered; no driver is imported here, mirroring the SQLite store.
type PostgresSessionStore struct {
	db *sql.DB
}

var _ SessionStore = (*PostgresSessionStore)(nil)

// NewPostgresSessionStore initializes the required schema in the given
// database and returns a new PostgresSessionStore.
func NewPostgresSessionStore(db *sql.DB) (*PostgresSessionStore, error) {
	s := &PostgresSessionStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresSessionStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			variant TEXT NOT NULL,
			primary_keyword TEXT NOT NULL,
			status TEXT NOT NULL,
			current_step INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			version BIGINT NOT NULL,
			payload BYTEA NOT NULL
		);`,
	)
	return err
}

func (s *PostgresSessionStore) SaveSession(ctx context.Context, sess *api.Session) error {
	sess.Version = 1
	payload, err := EncodeSession(sess)
	if err != nil {
		sess.Version = 0
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, variant, primary_keyword, status, current_step, created_at, updated_at, version, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
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
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrSessionExists
		}
		return err
	}
	return nil
}

func (s *PostgresSessionStore) UpdateSession(ctx context.Context, sess *api.Session) error {
	prev := sess.Version
	sess.Version++
	payload, err := EncodeSession(sess)
	if err != nil {
		sess.Version = prev
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions
		SET variant = $1, primary_keyword = $2, status = $3, current_step = $4, updated_at = $5, version = $6, payload = $7
		WHERE id = $8 AND version = $9`,
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
		var exists int
		row := s.db.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE id = $1`, sess.ID)
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

func (s *PostgresSessionStore) GetSession(ctx context.Context, id string) (*api.Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT payload FROM sessions WHERE id = $1`, id)

	var payload []byte
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	return DecodeSession(payload)
}

func (s *PostgresSessionStore) ListSessions(ctx context.Context, filter SessionFilter) ([]api.SessionSummary, error) {
	query := `
		SELECT id, variant, primary_keyword, status, current_step, created_at, updated_at
		FROM sessions`
	var args []any
	var clauses []string

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		clauses = append(clauses, "status = $"+itoa(len(args)))
	}
	if filter.Variant != "" {
		args = append(args, string(filter.Variant))
		clauses = append(clauses, "variant = $"+itoa(len(args)))
	}

	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY updated_at DESC, id ASC"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += " LIMIT $" + itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += " OFFSET $" + itoa(len(args))
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

func itoa(n int) string {
	return strconv.Itoa(n)
}
