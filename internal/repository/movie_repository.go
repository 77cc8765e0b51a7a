package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/avdeyev/cinema-booking/internal/model"
)

// MovieRepo provides catalog persistence for movies.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

const movieCols = `id, title, description, duration_min, genres, created_at, updated_at`

// Create inserts a movie and populates the generated ID and
// timestamps.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	const q = `INSERT INTO movies (title, description, duration_min, genres) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, m.Title, m.Description, m.DurationMin, m.Genres)
	if err != nil {
		return asStorageErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return asStorageErr(r.db.QueryRowContext(ctx,
		`SELECT `+movieCols+` FROM movies WHERE id = ?`, m.ID).Scan(
		&m.ID, &m.Title, &m.Description, &m.DurationMin, &m.Genres, &m.CreatedAt, &m.UpdatedAt))
}

// GetByID retrieves a movie or model.ErrMovieNotFound.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	var m model.Movie
	err := r.db.QueryRowContext(ctx,
		`SELECT `+movieCols+` FROM movies WHERE id = ?`, id).Scan(
		&m.ID, &m.Title, &m.Description, &m.DurationMin, &m.Genres, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrMovieNotFound
		}
		return nil, asStorageErr(err)
	}
	return &m, nil
}

// List returns all movies ordered by title.
func (r *MovieRepo) List(ctx context.Context) ([]model.Movie, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+movieCols+` FROM movies ORDER BY title`)
	if err != nil {
		return nil, asStorageErr(err)
	}
	defer rows.Close()
	out := make([]model.Movie, 0)
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.DurationMin, &m.Genres, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, asStorageErr(err)
	}
	return out, nil
}
