package repository

import (
	"context"
	"database/sql"

	"github.com/avdeyev/cinema-booking/internal/model"
)

// FavoriteRepo provides persistence for movie favorites.  Add and
// Remove are both idempotent.
type FavoriteRepo struct {
	db *sql.DB
}

// NewFavoriteRepo constructs a FavoriteRepo with the given DB handle.
func NewFavoriteRepo(db *sql.DB) *FavoriteRepo { return &FavoriteRepo{db: db} }

// Add marks a movie as the user's favorite.  Adding twice is a no-op
// thanks to the unique key on (user_id, movie_id).
func (r *FavoriteRepo) Add(ctx context.Context, userID, movieID uint64) error {
	const q = `INSERT INTO favorites (user_id, movie_id) VALUES (?, ?)
	           ON DUPLICATE KEY UPDATE movie_id = movie_id`
	_, err := r.db.ExecContext(ctx, q, userID, movieID)
	return asStorageErr(err)
}

// Remove unmarks a favorite.  Removing a non-favorite is a no-op.
func (r *FavoriteRepo) Remove(ctx context.Context, userID, movieID uint64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE user_id = ? AND movie_id = ?`, userID, movieID)
	return asStorageErr(err)
}

// ListByUser returns the user's favorite movies ordered by when they
// were added, newest first.
func (r *FavoriteRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Movie, error) {
	const q = `SELECT m.id, m.title, m.description, m.duration_min, m.genres, m.created_at, m.updated_at
	           FROM favorites f
	           JOIN movies m ON m.id = f.movie_id
	           WHERE f.user_id = ?
	           ORDER BY f.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
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
