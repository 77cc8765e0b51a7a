package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avdeyev/cinema-booking/internal/middleware"
	"github.com/avdeyev/cinema-booking/internal/model"
	"github.com/avdeyev/cinema-booking/internal/pdf"
	"github.com/avdeyev/cinema-booking/internal/queue"
	"github.com/avdeyev/cinema-booking/internal/repository"
	"github.com/avdeyev/cinema-booking/internal/service"
)

// TicketHandler serves seat reservation and the ticket lifecycle.
// Events is optional; with a nil publisher lifecycle changes are not
// announced on the broker.
type TicketHandler struct {
	Booking *service.Booking
	Tickets *repository.TicketRepo
	Events  func(ctx context.Context, ev queue.TicketEvent) error
}

// Reserve handles POST /v1/screenings/:id/tickets.  Races for the same
// seat resolve to one 201 and the rest 409.
func (h *TicketHandler) Reserve(c echo.Context) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	screeningID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid screening id")
	}
	var body struct {
		Row  uint32 `json:"seat_row"`
		Seat uint32 `json:"seat_number"`
		Type string `json:"ticket_type"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	ticketType, err := model.ParseTicketType(body.Type)
	if err != nil {
		return jsonError(c, err)
	}

	t, err := h.Booking.ReserveSeat(c.Request().Context(), service.ReserveSeatInput{
		ScreeningID: screeningID,
		UserID:      actor.ID,
		Row:         body.Row,
		Seat:        body.Seat,
		Type:        ticketType,
	})
	if err != nil {
		return jsonError(c, err)
	}
	h.publish(queue.EventBooked, t)
	return c.JSON(http.StatusCreated, t)
}

// Pay handles POST /v1/tickets/:id/pay (booked -> paid).
func (h *TicketHandler) Pay(c echo.Context) error {
	return h.transition(c, model.TicketPaid, queue.EventPaid)
}

// CheckIn handles POST /v1/tickets/:id/use (paid -> used, admin only).
func (h *TicketHandler) CheckIn(c echo.Context) error {
	return h.transition(c, model.TicketUsed, queue.EventUsed)
}

func (h *TicketHandler) transition(c echo.Context, target model.TicketStatus, eventKind string) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid ticket id")
	}
	t, err := h.Booking.Transition(c.Request().Context(), id, target, actor)
	if err != nil {
		return jsonError(c, err)
	}
	h.publish(eventKind, t)
	return c.JSON(http.StatusOK, t)
}

// Cancel handles POST /v1/tickets/:id/cancel.  The seat is free for
// rebooking as soon as the 200 goes out.
func (h *TicketHandler) Cancel(c echo.Context) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid ticket id")
	}
	t, err := h.Booking.Transition(c.Request().Context(), id, model.TicketCancelled, actor)
	if err != nil {
		return jsonError(c, err)
	}
	h.publish(queue.EventCancelled, t)
	return c.JSON(http.StatusOK, t)
}

// MyTickets handles GET /v1/my-tickets.
func (h *TicketHandler) MyTickets(c echo.Context) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	out, err := h.Tickets.ListByUser(c.Request().Context(), actor.ID)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Detail handles GET /v1/tickets/:id.  Owners see their own tickets,
// admins see all.
func (h *TicketHandler) Detail(c echo.Context) error {
	d, err := h.authorizedDetail(c)
	if err != nil {
		return err
	}
	if d == nil {
		return nil // response already written
	}
	return c.JSON(http.StatusOK, d)
}

// Receipt handles GET /v1/tickets/:id/receipt and streams a PDF.
func (h *TicketHandler) Receipt(c echo.Context) error {
	d, err := h.authorizedDetail(c)
	if err != nil {
		return err
	}
	if d == nil {
		return nil
	}
	out, filename, err := pdf.Receipt(d)
	if err != nil {
		return jsonError(c, err)
	}
	c.Response().Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "application/pdf", out)
}

// authorizedDetail loads the ticket detail and enforces ownership.  On
// failure the response has been written and (nil, err-or-nil) comes
// back; callers bail out when d is nil.
func (h *TicketHandler) authorizedDetail(c echo.Context) (*repository.TicketDetail, error) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return nil, c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return nil, badRequest(c, "invalid ticket id")
	}
	d, err := h.Tickets.GetDetail(c.Request().Context(), id)
	if err != nil {
		return nil, jsonError(c, err)
	}
	if !actor.CanActOn(d.UserID) {
		return nil, jsonError(c, model.ErrForbidden)
	}
	return d, nil
}

// publish fires a lifecycle event without blocking the request.
func (h *TicketHandler) publish(kind string, t *model.Ticket) {
	if h.Events == nil || t == nil {
		return
	}
	ev := queue.TicketEvent{
		Kind:        kind,
		TicketID:    t.ID,
		ScreeningID: t.ScreeningID,
		UserID:      t.UserID,
		SeatRow:     t.SeatRow,
		SeatNumber:  t.SeatNumber,
		PriceCents:  t.FinalPriceCents,
		OccurredAt:  time.Now().UTC().Format(time.RFC3339),
	}
	go func() { _ = h.Events(context.Background(), ev) }()
}
