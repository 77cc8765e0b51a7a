package model

import "time"

// Screening is a scheduled showing of a movie in a specific hall over a
// half-open time interval [StartsAt, EndsAt).  For a fixed hall no two
// active screenings may overlap; the scheduler enforces this inside a
// transaction that serializes concurrent creates per hall.
//
// Deactivation is a soft delete: IsActive becomes false, dependent
// tickets are left untouched.
type Screening struct {
	ID             uint64    `json:"id"`
	MovieID        uint64    `json:"movie_id"`
	HallID         uint64    `json:"hall_id"`
	StartsAt       time.Time `json:"starts_at"` // UTC
	EndsAt         time.Time `json:"ends_at"`   // UTC, > StartsAt
	BasePriceCents int64     `json:"base_price_cents"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Validate checks the interval and price constraints on creation.
func (s *Screening) Validate() error {
	if !s.EndsAt.After(s.StartsAt) {
		return ErrInvalidInterval
	}
	if s.BasePriceCents < 0 {
		return ErrInvalidPrice
	}
	return nil
}

// IntervalsOverlap reports whether the half-open intervals [s1,e1) and
// [s2,e2) share at least one instant.  Touching intervals do not
// overlap.
func IntervalsOverlap(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// Overlaps reports whether the screening's interval intersects
// [start, end).
func (s *Screening) Overlaps(start, end time.Time) bool {
	return IntervalsOverlap(s.StartsAt, s.EndsAt, start, end)
}
