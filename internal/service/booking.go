package service

import (
	"context"
	"time"

	"github.com/avdeyev/cinema-booking/internal/clock"
	"github.com/avdeyev/cinema-booking/internal/model"
	"github.com/avdeyev/cinema-booking/internal/pricing"
)

// TicketStore is the persistence surface of the reservation manager.
// Insert is the atomic seat claim: it must fail with
// model.ErrSeatTaken when a non-cancelled ticket already holds the
// seat, with no window in which two claims can both succeed.
// UpdateStatus must apply the change only while the row's status
// still equals from (optimistic precondition).
type TicketStore interface {
	Insert(ctx context.Context, t *model.Ticket) error
	GetByID(ctx context.Context, id uint64) (*model.Ticket, error)
	UpdateStatus(ctx context.Context, id uint64, from, to model.TicketStatus, purchasedAt *time.Time) error
}

// Booking is the seat reservation manager and ticket lifecycle
// authority.  It owns no locks: mutual exclusion comes from the
// store's atomic claim and status-guarded updates, so any number of
// concurrent callers is safe.
type Booking struct {
	screenings ScreeningStore
	halls      HallStore
	tickets    TicketStore
	prices     pricing.Policy
	clock      clock.Clock
}

// NewBooking constructs a Booking service.
func NewBooking(screenings ScreeningStore, halls HallStore, tickets TicketStore, prices pricing.Policy, clk clock.Clock) *Booking {
	return &Booking{screenings: screenings, halls: halls, tickets: tickets, prices: prices, clock: clk}
}

// ReserveSeatInput carries the parameters of ReserveSeat.
type ReserveSeatInput struct {
	ScreeningID uint64
	UserID      uint64
	Row         uint32
	Seat        uint32
	Type        model.TicketType
}

// ReserveSeat allocates one seat of one screening to the user and
// returns the created ticket in status booked.  Failure modes:
// model.ErrScreeningNotFound, model.ErrScreeningInactive,
// model.ErrSeatOutOfRange, model.ErrSeatTaken.  At most one
// non-cancelled ticket ever exists per (screening, row, seat), no
// matter how many callers race; losers of the claim see ErrSeatTaken.
func (b *Booking) ReserveSeat(ctx context.Context, in ReserveSeatInput) (*model.Ticket, error) {
	scr, err := b.screenings.GetByID(ctx, in.ScreeningID)
	if err != nil {
		return nil, err
	}
	if !scr.IsActive {
		return nil, model.ErrScreeningInactive
	}
	hall, err := b.halls.GetByID(ctx, scr.HallID)
	if err != nil {
		return nil, err
	}
	if err := hall.ValidateSeat(in.Row, in.Seat); err != nil {
		return nil, err
	}
	t := &model.Ticket{
		ScreeningID:     scr.ID,
		UserID:          in.UserID,
		SeatRow:         in.Row,
		SeatNumber:      in.Seat,
		FinalPriceCents: b.prices.PriceFor(scr.BasePriceCents, in.Type),
		Type:            in.Type,
		Status:          model.TicketBooked,
	}
	if err := b.tickets.Insert(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// CancelTicket cancels a booked or paid ticket, immediately freeing
// its seat for new reservations.  Only the ticket's owner or an
// administrator may cancel.  Returns model.ErrInvalidTransition when
// the ticket is already used or cancelled, including when a
// concurrent transition got there first.
func (b *Booking) CancelTicket(ctx context.Context, ticketID uint64, requester model.Actor) error {
	t, err := b.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return err
	}
	if !requester.CanActOn(t.UserID) {
		return model.ErrForbidden
	}
	if !model.CanCancel(t.Status) {
		return model.ErrInvalidTransition
	}
	return b.tickets.UpdateStatus(ctx, ticketID, t.Status, model.TicketCancelled, nil)
}

// Transition moves a ticket to the target status through the
// lifecycle's permitted edges.  booked->paid stamps purchased_at with
// the current time; paid->used is venue check-in and requires the
// admin role; cancellation goes through CancelTicket.  An attempt at
// any other edge returns model.ErrInvalidTransition and mutates
// nothing.
func (b *Booking) Transition(ctx context.Context, ticketID uint64, target model.TicketStatus, requester model.Actor) (*model.Ticket, error) {
	if target == model.TicketCancelled {
		if err := b.CancelTicket(ctx, ticketID, requester); err != nil {
			return nil, err
		}
		return b.tickets.GetByID(ctx, ticketID)
	}

	t, err := b.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	switch target {
	case model.TicketPaid:
		if !requester.CanActOn(t.UserID) {
			return nil, model.ErrForbidden
		}
	case model.TicketUsed:
		if !requester.IsAdmin() {
			return nil, model.ErrForbidden
		}
	default:
		return nil, model.ErrInvalidTransition
	}
	if !model.CanTransition(t.Status, target) {
		return nil, model.ErrInvalidTransition
	}

	var purchasedAt *time.Time
	if target == model.TicketPaid {
		now := b.clock.Now()
		purchasedAt = &now
	}
	if err := b.tickets.UpdateStatus(ctx, ticketID, t.Status, target, purchasedAt); err != nil {
		return nil, err
	}
	return b.tickets.GetByID(ctx, ticketID)
}
