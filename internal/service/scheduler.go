// Package service implements the core operations of the booking
// system: screening scheduling, seat reservation and the ticket
// lifecycle.  Services depend on narrow store interfaces so they can
// be exercised against fakes; the repository package provides the
// MySQL implementations.
package service

import (
	"context"
	"time"

	"github.com/avdeyev/cinema-booking/internal/model"
)

// ScreeningStore is the persistence surface the scheduler needs.
// CreateExclusive must perform the overlap check and the insert as a
// single atomic unit with respect to concurrent calls on the same
// hall.
type ScreeningStore interface {
	CreateExclusive(ctx context.Context, s *model.Screening) error
	GetByID(ctx context.Context, id uint64) (*model.Screening, error)
	Deactivate(ctx context.Context, id uint64) error
}

// MovieStore resolves movie references.
type MovieStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Movie, error)
}

// HallStore resolves hall references and their geometry.
type HallStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Hall, error)
}

// Scheduler creates and deactivates screenings while maintaining the
// per-hall no-overlap invariant.
type Scheduler struct {
	screenings ScreeningStore
	movies     MovieStore
	halls      HallStore
}

// NewScheduler constructs a Scheduler.
func NewScheduler(screenings ScreeningStore, movies MovieStore, halls HallStore) *Scheduler {
	return &Scheduler{screenings: screenings, movies: movies, halls: halls}
}

// CreateScreeningInput carries the parameters of CreateScreening.
type CreateScreeningInput struct {
	MovieID        uint64
	HallID         uint64
	StartsAt       time.Time
	EndsAt         time.Time
	BasePriceCents int64
}

// CreateScreening validates the interval and price, resolves the
// movie and hall references and persists the screening.  Returns
// model.ErrInvalidInterval, model.ErrInvalidPrice,
// model.ErrMovieNotFound, model.ErrHallNotFound or model.ErrOverlap.
// The overlap check and the insert happen atomically in the store; a
// concurrent create on the same hall surfaces as ErrOverlap for the
// loser, never as a corrupted schedule.
func (s *Scheduler) CreateScreening(ctx context.Context, in CreateScreeningInput) (*model.Screening, error) {
	scr := &model.Screening{
		MovieID:        in.MovieID,
		HallID:         in.HallID,
		StartsAt:       in.StartsAt.UTC(),
		EndsAt:         in.EndsAt.UTC(),
		BasePriceCents: in.BasePriceCents,
	}
	if err := scr.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.movies.GetByID(ctx, in.MovieID); err != nil {
		return nil, err
	}
	if _, err := s.halls.GetByID(ctx, in.HallID); err != nil {
		return nil, err
	}
	if err := s.screenings.CreateExclusive(ctx, scr); err != nil {
		return nil, err
	}
	return scr, nil
}

// DeactivateScreening soft-deletes a screening.  Idempotent: a second
// call on the same id produces the same end state and no error.
// Existing tickets are not altered.
func (s *Scheduler) DeactivateScreening(ctx context.Context, id uint64) error {
	return s.screenings.Deactivate(ctx, id)
}
