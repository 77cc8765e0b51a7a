package model

import "time"

// Hall represents a screening hall inside a cinema.  Its geometry is a
// fixed grid of TotalRows x TotalSeatsPerRow seats; both dimensions are
// at least 1.  Geometry is immutable once a screening references the
// hall; resizing would invalidate existing tickets, so no update
// operation exists.
//
// Fields:
//  ID               – primary key identifier.
//  CinemaID         – parent cinema.
//  Name             – human readable label.
//  TotalRows        – number of seat rows (>= 1).
//  TotalSeatsPerRow – seats per row (>= 1).
//  IsActive         – whether the hall currently hosts screenings.
type Hall struct {
	ID               uint64    `json:"id"`
	CinemaID         uint64    `json:"cinema_id"`
	Name             string    `json:"name"`
	TotalRows        uint32    `json:"total_rows"`
	TotalSeatsPerRow uint32    `json:"total_seats_per_row"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ValidateSeat reports whether (row, seat) lies inside the hall grid.
// Coordinates are 1-based.  Returns ErrSeatOutOfRange otherwise.  Pure
// function; hall geometry is read-only at booking time.
func (h *Hall) ValidateSeat(row, seat uint32) error {
	if row < 1 || row > h.TotalRows {
		return ErrSeatOutOfRange
	}
	if seat < 1 || seat > h.TotalSeatsPerRow {
		return ErrSeatOutOfRange
	}
	return nil
}

// ValidateDimensions checks the grid bounds on hall creation.
func (h *Hall) ValidateDimensions() error {
	if h.TotalRows < 1 || h.TotalSeatsPerRow < 1 {
		return ErrSeatOutOfRange
	}
	return nil
}
