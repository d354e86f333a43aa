package userservice

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("session not found")
)

func newDBModel(db *sql.DB) *DBModel {
	return &DBModel{db: db}
}

// upsertSession stores the session of a token, replacing the previous role
// and identity if the token was already registered.
func (m *DBModel) upsertSession(ctx context.Context, s *Session) error {
	query := `
		INSERT INTO console_sessions (token_hash, role, email, expiry)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (token_hash) DO UPDATE
		SET role = EXCLUDED.role, email = EXCLUDED.email, expiry = EXCLUDED.expiry, version = console_sessions.version + 1
		RETURNING id, created_at, version`

	return m.db.QueryRowContext(ctx, query, s.Hash, string(s.Role), s.Email, s.Expiry).Scan(&s.ID, &s.CreatedAt, &s.Version)
}

func (m *DBModel) getSession(ctx context.Context, hash []byte) (*Session, error) {
	query := `
		SELECT id, role, email, expiry, created_at, version
		FROM console_sessions
		WHERE token_hash = $1 AND expiry > $2`

	s := Session{Hash: hash}

	err := m.db.QueryRowContext(ctx, query, hash, time.Now()).Scan(&s.ID, &s.Role, &s.Email, &s.Expiry, &s.CreatedAt, &s.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &s, nil
}

func (m *DBModel) deleteSession(ctx context.Context, hash []byte) error {
	query := `
		DELETE FROM console_sessions
		WHERE token_hash = $1`

	res, err := m.db.ExecContext(ctx, query, hash)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (m *DBModel) deleteExpiredSessions(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM console_sessions
		WHERE expiry <= $1`

	res, err := m.db.ExecContext(ctx, query, time.Now())
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
