// Package model defines the domain entities of the booking system and the
// sentinel errors shared by repositories, services and handlers.  Higher
// layers compare against these values with errors.Is to decide how a
// failure is reported to the caller.
package model

import "errors"

// Validation errors.  Malformed input; reported to the caller and never
// retried.
var (
	// ErrInvalidInterval indicates end_time <= start_time on a screening.
	ErrInvalidInterval = errors.New("invalid interval")
	// ErrInvalidPrice indicates a negative base or final price.
	ErrInvalidPrice = errors.New("invalid price")
	// ErrSeatOutOfRange indicates a seat coordinate outside the hall grid.
	ErrSeatOutOfRange = errors.New("seat out of range")
	// ErrInvalidTicketType indicates an unknown ticket type value.
	ErrInvalidTicketType = errors.New("invalid ticket type")
	// ErrInvalidReview indicates a review outside the rating scale or
	// below the minimum title/text length.
	ErrInvalidReview = errors.New("invalid review")
)

// Conflict errors.  Expected outcomes of races; safe to retry with
// different input, never blindly with the same input.
var (
	// ErrSeatTaken indicates a non-cancelled ticket already claims the
	// seat on this screening.
	ErrSeatTaken = errors.New("seat already taken")
	// ErrOverlap indicates another active screening on the same hall
	// intersects the requested interval.
	ErrOverlap = errors.New("screening overlap")
	// ErrInvalidTransition indicates a ticket status change that the
	// lifecycle does not permit, including a lost optimistic-update race.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrDuplicateReview indicates the user already reviewed the movie.
	ErrDuplicateReview = errors.New("duplicate review")
)

// Lookup and authorization errors.
var (
	ErrHallNotFound      = errors.New("hall not found")
	ErrMovieNotFound     = errors.New("movie not found")
	ErrScreeningNotFound = errors.New("screening not found")
	ErrScreeningInactive = errors.New("screening inactive")
	ErrTicketNotFound    = errors.New("ticket not found")
	ErrReviewNotFound    = errors.New("review not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailTaken        = errors.New("email already registered")
	// ErrForbidden is returned when the requester is neither the owner
	// of the resource nor an administrator.
	ErrForbidden = errors.New("forbidden")
)

// ErrStorageUnavailable wraps transient infrastructure failures
// (connection loss, deadline exceeded).  The core never retries it;
// callers decide on their own backoff policy.
var ErrStorageUnavailable = errors.New("storage unavailable")
