package repository

import (
	"context"
	"database/sql"

	"github.com/avdeyev/cinema-booking/internal/model"
)

// CinemaRepo provides persistence for cinemas.
type CinemaRepo struct {
	db *sql.DB
}

// NewCinemaRepo constructs a CinemaRepo with the given DB handle.
func NewCinemaRepo(db *sql.DB) *CinemaRepo { return &CinemaRepo{db: db} }

// Create inserts a cinema and populates the generated ID and
// timestamps.
func (r *CinemaRepo) Create(ctx context.Context, c *model.Cinema) error {
	const q = `INSERT INTO cinemas (name, address) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.Address)
	if err != nil {
		return asStorageErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return asStorageErr(r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM cinemas WHERE id = ?`, c.ID).Scan(&c.CreatedAt, &c.UpdatedAt))
}

// List returns all cinemas ordered by name.
func (r *CinemaRepo) List(ctx context.Context) ([]model.Cinema, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, address, created_at, updated_at FROM cinemas ORDER BY name`)
	if err != nil {
		return nil, asStorageErr(err)
	}
	defer rows.Close()
	out := make([]model.Cinema, 0)
	for rows.Next() {
		var c model.Cinema
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, asStorageErr(err)
	}
	return out, nil
}
