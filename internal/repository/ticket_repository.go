package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/avdeyev/cinema-booking/internal/model"
)

// TicketRepo provides persistence for tickets.  The seat claim relies
// on the uq_tickets_seat unique key over (screening_id, seat_row,
// seat_number, active_seat): active_seat is NULL for cancelled rows,
// so only non-cancelled tickets contend for a seat.  Insert therefore
// is the atomic check-and-claim; there is no separate availability
// lookup to race against.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo constructs a TicketRepo with the given DB handle.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

const ticketCols = `id, screening_id, user_id, seat_row, seat_number, final_price_cents, ticket_type, status, purchased_at, created_at, updated_at`

func scanTicket(row interface{ Scan(...any) error }, t *model.Ticket) error {
	var purchased sql.NullTime
	err := row.Scan(&t.ID, &t.ScreeningID, &t.UserID, &t.SeatRow, &t.SeatNumber,
		&t.FinalPriceCents, &t.Type, &t.Status, &purchased, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return err
	}
	if purchased.Valid {
		at := purchased.Time
		t.PurchasedAt = &at
	}
	return nil
}

// Insert creates a ticket in status booked.  A duplicate-key error on
// the seat index means a concurrent claim won and is returned as
// model.ErrSeatTaken.  On success the generated ID and DB-default
// fields are populated on the given ticket.
func (r *TicketRepo) Insert(ctx context.Context, t *model.Ticket) error {
	const q = `INSERT INTO tickets (screening_id, user_id, seat_row, seat_number, final_price_cents, ticket_type, status)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		t.ScreeningID, t.UserID, t.SeatRow, t.SeatNumber, t.FinalPriceCents, t.Type, model.TicketBooked)
	if err != nil {
		if isDuplicateKey(err, "uq_tickets_seat") {
			return model.ErrSeatTaken
		}
		return asStorageErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return asStorageErr(scanTicket(r.db.QueryRowContext(ctx,
		`SELECT `+ticketCols+` FROM tickets WHERE id = ?`, t.ID), t))
}

// GetByID retrieves a ticket or model.ErrTicketNotFound.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (*model.Ticket, error) {
	var t model.Ticket
	err := scanTicket(r.db.QueryRowContext(ctx,
		`SELECT `+ticketCols+` FROM tickets WHERE id = ?`, id), &t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrTicketNotFound
		}
		return nil, asStorageErr(err)
	}
	return &t, nil
}

// UpdateStatus performs the optimistic single-row transition
// from -> to: the row is updated only while its status still equals
// from.  purchasedAt, when non-nil, is written alongside (set on the
// transition into paid).  Zero affected rows means the precondition
// failed: the ticket either does not exist (model.ErrTicketNotFound)
// or its status changed concurrently (model.ErrInvalidTransition).
// Lost races are not retried; the world has changed.
func (r *TicketRepo) UpdateStatus(ctx context.Context, id uint64, from, to model.TicketStatus, purchasedAt *time.Time) error {
	const q = `UPDATE tickets SET status = ?, purchased_at = COALESCE(?, purchased_at) WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, q, to, purchasedAt, id, from)
	if err != nil {
		return asStorageErr(err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	var one int
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM tickets WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrTicketNotFound
	}
	if err != nil {
		return asStorageErr(err)
	}
	return model.ErrInvalidTransition
}

// TakenSeats returns the (row, seat) pairs currently claimed by
// non-cancelled tickets of a screening, for the public availability
// map.  The result is advisory: the authoritative claim is the unique
// key checked at insert time.
func (r *TicketRepo) TakenSeats(ctx context.Context, screeningID uint64) ([][2]uint32, error) {
	const q = `SELECT seat_row, seat_number FROM tickets
	           WHERE screening_id = ? AND status <> ?
	           ORDER BY seat_row, seat_number`
	rows, err := r.db.QueryContext(ctx, q, screeningID, model.TicketCancelled)
	if err != nil {
		return nil, asStorageErr(err)
	}
	defer rows.Close()
	out := make([][2]uint32, 0)
	for rows.Next() {
		var row, seat uint32
		if err := rows.Scan(&row, &seat); err != nil {
			return nil, err
		}
		out = append(out, [2]uint32{row, seat})
	}
	if err := rows.Err(); err != nil {
		return nil, asStorageErr(err)
	}
	return out, nil
}

// TicketDetail is a ticket joined with its screening, movie and hall
// context for listing endpoints.
type TicketDetail struct {
	model.Ticket
	MovieTitle string    `json:"movie_title"`
	HallName   string    `json:"hall_name"`
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
}

// ListByUser returns all tickets of a user, newest first, with
// screening context attached.
func (r *TicketRepo) ListByUser(ctx context.Context, userID uint64) ([]TicketDetail, error) {
	const q = `SELECT t.id, t.screening_id, t.user_id, t.seat_row, t.seat_number,
	                  t.final_price_cents, t.ticket_type, t.status, t.purchased_at, t.created_at, t.updated_at,
	                  m.title, h.name, s.starts_at, s.ends_at
	           FROM tickets t
	           JOIN screenings s ON s.id = t.screening_id
	           JOIN movies m ON m.id = s.movie_id
	           JOIN halls h ON h.id = s.hall_id
	           WHERE t.user_id = ?
	           ORDER BY t.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, asStorageErr(err)
	}
	defer rows.Close()
	out := make([]TicketDetail, 0)
	for rows.Next() {
		var d TicketDetail
		var purchased sql.NullTime
		if err := rows.Scan(&d.ID, &d.ScreeningID, &d.UserID, &d.SeatRow, &d.SeatNumber,
			&d.FinalPriceCents, &d.Type, &d.Status, &purchased, &d.CreatedAt, &d.UpdatedAt,
			&d.MovieTitle, &d.HallName, &d.StartsAt, &d.EndsAt); err != nil {
			return nil, err
		}
		if purchased.Valid {
			at := purchased.Time
			d.PurchasedAt = &at
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, asStorageErr(err)
	}
	return out, nil
}

// GetDetail returns a single ticket with screening context, or
// model.ErrTicketNotFound.
func (r *TicketRepo) GetDetail(ctx context.Context, id uint64) (*TicketDetail, error) {
	const q = `SELECT t.id, t.screening_id, t.user_id, t.seat_row, t.seat_number,
	                  t.final_price_cents, t.ticket_type, t.status, t.purchased_at, t.created_at, t.updated_at,
	                  m.title, h.name, s.starts_at, s.ends_at
	           FROM tickets t
	           JOIN screenings s ON s.id = t.screening_id
	           JOIN movies m ON m.id = s.movie_id
	           JOIN halls h ON h.id = s.hall_id
	           WHERE t.id = ?`
	var d TicketDetail
	var purchased sql.NullTime
	err := r.db.QueryRowContext(ctx, q, id).Scan(&d.ID, &d.ScreeningID, &d.UserID, &d.SeatRow, &d.SeatNumber,
		&d.FinalPriceCents, &d.Type, &d.Status, &purchased, &d.CreatedAt, &d.UpdatedAt,
		&d.MovieTitle, &d.HallName, &d.StartsAt, &d.EndsAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrTicketNotFound
		}
		return nil, asStorageErr(err)
	}
	if purchased.Valid {
		at := purchased.Time
		d.PurchasedAt = &at
	}
	return &d, nil
}

// DeleteSettled removes cancelled and used tickets whose screening
// ended before the cutoff.  Time-based retention sweep with no
// business meaning; returns the number of rows removed.
func (r *TicketRepo) DeleteSettled(ctx context.Context, cutoff time.Time) (int64, error) {
	const q = `DELETE t FROM tickets t
	           JOIN screenings s ON s.id = t.screening_id
	           WHERE t.status IN (?, ?) AND s.ends_at < ?`
	res, err := r.db.ExecContext(ctx, q, model.TicketCancelled, model.TicketUsed, cutoff)
	if err != nil {
		return 0, asStorageErr(err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
