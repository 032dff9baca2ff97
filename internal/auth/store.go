package auth

import (
	"context"
	"database/sql"
	"errors"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrNameTaken       = errors.New("name already taken")
	ErrSessionNotFound = errors.New("session not found")
)

type UserStore interface {
	Create(ctx context.Context, name string, role Role) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByName(ctx context.Context, name string) (*User, error)
}

type SessionStore interface {
	Create(ctx context.Context, s *Session) error
	// GetByID returns ErrSessionNotFound for unknown and expired sessions alike.
	GetByID(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

var _ UserStore = (*PostgresUserStore)(nil)

func (s *PostgresUserStore) Create(ctx context.Context, name string, role Role) (*User, error) {
	const q = `
		INSERT INTO users (name, role)
		VALUES ($1, $2)
		RETURNING id, name, role, created_at
	`
	u := &User{}
	if err := s.db.QueryRowContext(ctx, q, name, role).
		Scan(&u.ID, &u.Name, &u.Role, &u.CreatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *PostgresUserStore) GetByID(ctx context.Context, id int64) (*User, error) {
	const q = `SELECT id, name, role, created_at FROM users WHERE id = $1`
	return s.scanUser(s.db.QueryRowContext(ctx, q, id))
}

func (s *PostgresUserStore) GetByName(ctx context.Context, name string) (*User, error) {
	const q = `SELECT id, name, role, created_at FROM users WHERE name = $1`
	return s.scanUser(s.db.QueryRowContext(ctx, q, name))
}

func (s *PostgresUserStore) scanUser(row *sql.Row) (*User, error) {
	u := &User{}
	if err := row.Scan(&u.ID, &u.Name, &u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

type PostgresSessionStore struct {
	db *sql.DB
}

func NewPostgresSessionStore(db *sql.DB) *PostgresSessionStore {
	return &PostgresSessionStore{db: db}
}

var _ SessionStore = (*PostgresSessionStore)(nil)

func (s *PostgresSessionStore) Create(ctx context.Context, sess *Session) error {
	const q = `
		INSERT INTO sessions (id, user_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(ctx, q, sess.ID, sess.UserID, sess.CreatedAt, sess.ExpiresAt)
	return err
}

func (s *PostgresSessionStore) GetByID(ctx context.Context, id string) (*Session, error) {
	const q = `
		SELECT id, user_id, created_at, expires_at
		FROM sessions
		WHERE id = $1 AND expires_at > now()
	`
	sess := &Session{}
	if err := s.db.QueryRowContext(ctx, q, id).
		Scan(&sess.ID, &sess.UserID, &sess.CreatedAt, &sess.ExpiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return sess, nil
}

func (s *PostgresSessionStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

// DeleteExpired removes sessions past their expiry. Called periodically
// from main; GetByID never returns them regardless.
func (s *PostgresSessionStore) DeleteExpired(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < now()`)
	return err
}
