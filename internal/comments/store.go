package comments

import (
	"context"
	"database/sql"
	"errors"

	"firewatch/internal/auth"
)

type Store interface {
	Create(ctx context.Context, c *Comment) error
	// ListByFire returns the fire's comments in creation order (id tiebreak).
	ListByFire(ctx context.Context, fireID int64) ([]Comment, error)
}

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

var _ Store = (*PostgresStore)(nil)

func (s *PostgresStore) Create(ctx context.Context, c *Comment) error {
	const q = `
		INSERT INTO comments (fire_id, user_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	if err := s.db.QueryRowContext(ctx, q, c.FireID, c.UserID, c.Text).
		Scan(&c.ID, &c.CreatedAt); err != nil {
		return err
	}
	const uq = `SELECT id, name, role, created_at FROM users WHERE id = $1`
	u := &auth.User{}
	if err := s.db.QueryRowContext(ctx, uq, c.UserID).
		Scan(&u.ID, &u.Name, &u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.ErrUserNotFound
		}
		return err
	}
	c.User = u
	return nil
}

func (s *PostgresStore) ListByFire(ctx context.Context, fireID int64) ([]Comment, error) {
	const q = `
		SELECT c.id, c.fire_id, c.user_id, c.text, c.created_at,
		       u.id, u.name, u.role, u.created_at
		FROM comments c
		JOIN users u ON c.user_id = u.id
		WHERE c.fire_id = $1
		ORDER BY c.created_at ASC, c.id ASC
	`
	rows, err := s.db.QueryContext(ctx, q, fireID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []Comment{}
	for rows.Next() {
		c := Comment{User: &auth.User{}}
		if err := rows.Scan(
			&c.ID, &c.FireID, &c.UserID, &c.Text, &c.CreatedAt,
			&c.User.ID, &c.User.Name, &c.User.Role, &c.User.CreatedAt,
		); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}
