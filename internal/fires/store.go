package fires

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/lib/pq"

	"firewatch/internal/auth"
)

var (
	ErrFireNotFound = errors.New("fire not found")
	// ErrNotTransitioned reports that the compare-and-set matched no row:
	// either the fire does not exist or its status was outside the allowed
	// set at the moment of the update.
	ErrNotTransitioned = errors.New("transition not applied")
)

type Store interface {
	Create(ctx context.Context, f *Fire) error
	GetByID(ctx context.Context, id int64) (*Fire, error)
	List(ctx context.Context, f ListFilter) ([]Fire, int, error)
	// Transition atomically moves the fire to the target status, but only
	// if its current status is in from. Concurrent calls on one fire are
	// linearized by the store; the loser gets ErrNotTransitioned.
	Transition(ctx context.Context, id int64, from []Status, to Status) (*Fire, error)
}

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

var _ Store = (*PostgresStore)(nil)

func (s *PostgresStore) Create(ctx context.Context, f *Fire) error {
	if f.Status == "" {
		f.Status = StatusReported
	}
	const q = `
		INSERT INTO fires (reporter_id, latitude, longitude, description, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	return s.db.QueryRowContext(ctx, q,
		f.ReporterID, f.Latitude, f.Longitude, f.Description, f.Status,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
}

func (s *PostgresStore) GetByID(ctx context.Context, id int64) (*Fire, error) {
	const q = `
		SELECT f.id, f.reporter_id, f.latitude, f.longitude, f.description,
		       f.status, f.created_at, f.updated_at,
		       u.id, u.name, u.role, u.created_at
		FROM fires f
		JOIN users u ON f.reporter_id = u.id
		WHERE f.id = $1
	`
	f := &Fire{Reporter: &auth.User{}}
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&f.ID, &f.ReporterID, &f.Latitude, &f.Longitude, &f.Description,
		&f.Status, &f.CreatedAt, &f.UpdatedAt,
		&f.Reporter.ID, &f.Reporter.Name, &f.Reporter.Role, &f.Reporter.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFireNotFound
		}
		return nil, err
	}
	return f, nil
}

func (s *PostgresStore) List(ctx context.Context, flt ListFilter) ([]Fire, int, error) {
	query := `
		SELECT f.id, f.reporter_id, f.latitude, f.longitude, f.description,
		       f.status, f.created_at, f.updated_at,
		       u.id, u.name, u.role, u.created_at
		FROM fires f
		JOIN users u ON f.reporter_id = u.id
	`
	countQuery := `SELECT COUNT(*) FROM fires`
	args := []interface{}{}
	countArgs := []interface{}{}

	if flt.Status != "" {
		query += ` WHERE f.status = $1`
		countQuery += ` WHERE status = $1`
		args = append(args, string(flt.Status))
		countArgs = append(countArgs, string(flt.Status))
	}

	query += ` ORDER BY f.created_at DESC, f.id DESC`
	query += ` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, flt.Limit, flt.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	res := []Fire{}
	for rows.Next() {
		f := Fire{Reporter: &auth.User{}}
		if err := rows.Scan(
			&f.ID, &f.ReporterID, &f.Latitude, &f.Longitude, &f.Description,
			&f.Status, &f.CreatedAt, &f.UpdatedAt,
			&f.Reporter.ID, &f.Reporter.Name, &f.Reporter.Role, &f.Reporter.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		res = append(res, f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := s.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return res, total, nil
}

func (s *PostgresStore) Transition(ctx context.Context, id int64, from []Status, to Status) (*Fire, error) {
	fromStr := make([]string, len(from))
	for i, st := range from {
		fromStr[i] = string(st)
	}
	const q = `
		UPDATE fires
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status = ANY($3)
		RETURNING id, reporter_id, latitude, longitude, description,
		          status, created_at, updated_at
	`
	f := &Fire{}
	err := s.db.QueryRowContext(ctx, q, id, string(to), pq.Array(fromStr)).Scan(
		&f.ID, &f.ReporterID, &f.Latitude, &f.Longitude, &f.Description,
		&f.Status, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotTransitioned
		}
		return nil, err
	}
	return f, nil
}
