package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/avdeyev/cinema-booking/internal/model"
)

// ReviewRepo provides persistence for movie reviews.  One review per
// user per movie, enforced by uq_reviews_user_movie.
type ReviewRepo struct {
	db *sql.DB
}

// NewReviewRepo constructs a ReviewRepo with the given DB handle.
func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// Create inserts a review.  A second review for the same movie by the
// same user maps to model.ErrDuplicateReview.
func (r *ReviewRepo) Create(ctx context.Context, rev *model.Review) error {
	const q = `INSERT INTO reviews (movie_id, user_id, rating, title, text) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, rev.MovieID, rev.UserID, rev.Rating, rev.Title, rev.Text)
	if err != nil {
		if isDuplicateKey(err, "uq_reviews_user_movie") {
			return model.ErrDuplicateReview
		}
		return asStorageErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rev.ID = uint64(id)
	return asStorageErr(r.db.QueryRowContext(ctx,
		`SELECT created_at FROM reviews WHERE id = ?`, rev.ID).Scan(&rev.CreatedAt))
}

// GetByID retrieves a review or model.ErrReviewNotFound.
func (r *ReviewRepo) GetByID(ctx context.Context, id uint64) (*model.Review, error) {
	const q = `SELECT id, movie_id, user_id, rating, title, text, created_at FROM reviews WHERE id = ?`
	var rev model.Review
	err := r.db.QueryRowContext(ctx, q, id).Scan(&rev.ID, &rev.MovieID, &rev.UserID, &rev.Rating, &rev.Title, &rev.Text, &rev.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrReviewNotFound
		}
		return nil, asStorageErr(err)
	}
	return &rev, nil
}

// ListByMovie returns a movie's reviews, newest first.
func (r *ReviewRepo) ListByMovie(ctx context.Context, movieID uint64) ([]model.Review, error) {
	const q = `SELECT id, movie_id, user_id, rating, title, text, created_at
	           FROM reviews WHERE movie_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, movieID)
	if err != nil {
		return nil, asStorageErr(err)
	}
	defer rows.Close()
	out := make([]model.Review, 0)
	for rows.Next() {
		var rev model.Review
		if err := rows.Scan(&rev.ID, &rev.MovieID, &rev.UserID, &rev.Rating, &rev.Title, &rev.Text, &rev.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, asStorageErr(err)
	}
	return out, nil
}

// Delete removes a review by id.  Returns model.ErrReviewNotFound
// when nothing was deleted.
func (r *ReviewRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
	if err != nil {
		return asStorageErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrReviewNotFound
	}
	return nil
}
