package model

import "time"

// TicketStatus enumerates the ticket lifecycle states.
type TicketStatus string

const (
	TicketBooked    TicketStatus = "booked"
	TicketPaid      TicketStatus = "paid"
	TicketUsed      TicketStatus = "used"
	TicketCancelled TicketStatus = "cancelled"
)

// TicketType enumerates price categories.  The price adjustment per
// type is policy and lives in the pricing package.
type TicketType string

const (
	TypeAdult   TicketType = "adult"
	TypeChild   TicketType = "child"
	TypeStudent TicketType = "student"
)

// ParseTicketType validates a request-supplied ticket type.
func ParseTicketType(s string) (TicketType, error) {
	switch TicketType(s) {
	case TypeAdult, TypeChild, TypeStudent:
		return TicketType(s), nil
	}
	return "", ErrInvalidTicketType
}

// Ticket is a claim on one seat of one screening held by one user.
// Among the non-cancelled tickets of a screening the pair
// (SeatRow, SeatNumber) is unique; a cancelled ticket frees its seat
// for re-booking.  PurchasedAt is set only on the transition into
// paid.
type Ticket struct {
	ID              uint64       `json:"id"`
	ScreeningID     uint64       `json:"screening_id"`
	UserID          uint64       `json:"user_id"`
	SeatRow         uint32       `json:"seat_row"`    // 1-based
	SeatNumber      uint32       `json:"seat_number"` // 1-based
	FinalPriceCents int64        `json:"final_price_cents"`
	Type            TicketType   `json:"ticket_type"`
	Status          TicketStatus `json:"status"`
	PurchasedAt     *time.Time   `json:"purchased_at,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// transitions lists the permitted status changes.  booked is the
// initial state; used and cancelled are terminal.
var transitions = map[TicketStatus][]TicketStatus{
	TicketBooked: {TicketPaid, TicketCancelled},
	TicketPaid:   {TicketUsed, TicketCancelled},
}

// CanTransition reports whether the lifecycle permits from -> to.
func CanTransition(from, to TicketStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanCancel reports whether a ticket in the given status may still be
// cancelled.
func CanCancel(status TicketStatus) bool {
	return CanTransition(status, TicketCancelled)
}
