// Package queue publishes ticket lifecycle events to RabbitMQ and runs
// the background consumer that appends them to logs/tickets.log.
package queue

// TicketEvent is published on every ticket lifecycle change.  It
// carries enough denormalized context for downstream consumers to log
// or notify without querying the primary database.
type TicketEvent struct {
	Kind        string `json:"kind"` // "booked", "paid", "used" or "cancelled"
	TicketID    uint64 `json:"ticket_id"`
	ScreeningID uint64 `json:"screening_id"`
	UserID      uint64 `json:"user_id"`
	SeatRow     uint32 `json:"seat_row"`
	SeatNumber  uint32 `json:"seat_number"`
	PriceCents  int64  `json:"price_cents"`
	MovieTitle  string `json:"movie_title,omitempty"`
	HallName    string `json:"hall_name,omitempty"`
	StartsAt    string `json:"starts_at,omitempty"`
	OccurredAt  string `json:"occurred_at"`
}

const (
	EventBooked    = "booked"
	EventPaid      = "paid"
	EventUsed      = "used"
	EventCancelled = "cancelled"
)
