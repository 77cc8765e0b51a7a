package model

import "time"

// Movie is a catalog entry.  Genres is a comma-joined list of genre
// labels; catalog browsing needs nothing richer than display strings.
type Movie struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DurationMin uint32    `json:"duration_min"`
	Genres      string    `json:"genres"` // comma-joined, e.g. "drama,thriller"
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Review is a user's opinion on a movie.  Rating is on a 1..10 scale.
type Review struct {
	ID        uint64    `json:"id"`
	MovieID   uint64    `json:"movie_id"`
	UserID    uint64    `json:"user_id"`
	Rating    uint8     `json:"rating"` // 1..10
	Title     string    `json:"title"`  // >= 3 chars
	Text      string    `json:"text"`   // >= 10 chars
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the rating scale and minimum lengths.  A single
// sentinel covers all three constraints; the HTTP response message
// carries the specifics.
func (r *Review) Validate() error {
	if r.Rating < 1 || r.Rating > 10 {
		return ErrInvalidReview
	}
	if len([]rune(r.Title)) < 3 {
		return ErrInvalidReview
	}
	if len([]rune(r.Text)) < 10 {
		return ErrInvalidReview
	}
	return nil
}

// Favorite marks a movie as a user's favorite.
type Favorite struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	MovieID   uint64    `json:"movie_id"`
	CreatedAt time.Time `json:"created_at"`
}
