package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avdeyev/cinema-booking/internal/auth"
	"github.com/avdeyev/cinema-booking/internal/clock"
	"github.com/avdeyev/cinema-booking/internal/middleware"
	"github.com/avdeyev/cinema-booking/internal/model"
	"github.com/avdeyev/cinema-booking/internal/pricing"
	"github.com/avdeyev/cinema-booking/internal/service"
)

const testSecret = "test-secret"

type stubScreeningStore struct {
	screening model.Screening
}

func (s *stubScreeningStore) CreateExclusive(ctx context.Context, scr *model.Screening) error {
	return nil
}

func (s *stubScreeningStore) GetByID(ctx context.Context, id uint64) (*model.Screening, error) {
	if id != s.screening.ID {
		return nil, model.ErrScreeningNotFound
	}
	cp := s.screening
	return &cp, nil
}

func (s *stubScreeningStore) Deactivate(ctx context.Context, id uint64) error { return nil }

type stubHallStore struct {
	hall model.Hall
}

func (s *stubHallStore) GetByID(ctx context.Context, id uint64) (*model.Hall, error) {
	if id != s.hall.ID {
		return nil, model.ErrHallNotFound
	}
	cp := s.hall
	return &cp, nil
}

// stubTicketStore claims seats under a mutex, one active ticket per
// seat.
type stubTicketStore struct {
	mu     sync.Mutex
	nextID uint64
	seats  map[[2]uint32]bool
	byID   map[uint64]*model.Ticket
}

func newStubTicketStore() *stubTicketStore {
	return &stubTicketStore{nextID: 1, seats: map[[2]uint32]bool{}, byID: map[uint64]*model.Ticket{}}
}

func (s *stubTicketStore) Insert(ctx context.Context, t *model.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]uint32{t.SeatRow, t.SeatNumber}
	if s.seats[key] {
		return model.ErrSeatTaken
	}
	s.seats[key] = true
	t.ID = s.nextID
	s.nextID++
	cp := *t
	s.byID[cp.ID] = &cp
	return nil
}

func (s *stubTicketStore) GetByID(ctx context.Context, id uint64) (*model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.byID[id]
	if !ok {
		return nil, model.ErrTicketNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *stubTicketStore) UpdateStatus(ctx context.Context, id uint64, from, to model.TicketStatus, purchasedAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.byID[id]
	if !ok {
		return model.ErrTicketNotFound
	}
	if t.Status != from {
		return model.ErrInvalidTransition
	}
	t.Status = to
	return nil
}

func reserveServer(t *testing.T) *echo.Echo {
	t.Helper()
	now := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	screenings := &stubScreeningStore{screening: model.Screening{
		ID: 1, MovieID: 1, HallID: 1,
		StartsAt: now, EndsAt: now.Add(2 * time.Hour),
		BasePriceCents: 1000, IsActive: true,
	}}
	halls := &stubHallStore{hall: model.Hall{ID: 1, TotalRows: 10, TotalSeatsPerRow: 20, IsActive: true}}
	booking := service.NewBooking(screenings, halls, newStubTicketStore(), pricing.Default(), clock.NewFixed(now))

	h := &TicketHandler{Booking: booking}
	e := echo.New()
	e.POST("/v1/screenings/:id/tickets", h.Reserve, middleware.JWTAuth(testSecret))
	return e
}

func bearerFor(t *testing.T, userID uint64, role string) string {
	t.Helper()
	tok, err := auth.NewAccessToken(testSecret, userID, role, 5)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return "Bearer " + tok.Token
}

func postReserve(e *echo.Echo, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/screenings/1/tickets", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestReserveEndpoint(t *testing.T) {
	e := reserveServer(t)
	token := bearerFor(t, 7, model.RoleUser)
	body := `{"seat_row":3,"seat_number":5,"ticket_type":"child"}`

	rec := postReserve(e, token, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body.String())
	}
	var got model.Ticket
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Status != model.TicketBooked || got.FinalPriceCents != 500 || got.UserID != 7 {
		t.Errorf("got status=%q price=%d user=%d", got.Status, got.FinalPriceCents, got.UserID)
	}

	// Same seat again: conflict.
	if rec := postReserve(e, bearerFor(t, 8, model.RoleUser), body); rec.Code != http.StatusConflict {
		t.Errorf("second claim status = %d, want 409", rec.Code)
	}
}

func TestReserveEndpointRejections(t *testing.T) {
	e := reserveServer(t)
	token := bearerFor(t, 7, model.RoleUser)

	cases := []struct {
		name  string
		token string
		body  string
		want  int
	}{
		{"no token", "", `{"seat_row":1,"seat_number":1,"ticket_type":"adult"}`, http.StatusUnauthorized},
		{"garbage token", "Bearer nope", `{"seat_row":1,"seat_number":1,"ticket_type":"adult"}`, http.StatusUnauthorized},
		{"bad ticket type", token, `{"seat_row":1,"seat_number":1,"ticket_type":"senior"}`, http.StatusBadRequest},
		{"seat out of range", token, `{"seat_row":11,"seat_number":1,"ticket_type":"adult"}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if rec := postReserve(e, tc.token, tc.body); rec.Code != tc.want {
				t.Errorf("status = %d, want %d; body %s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}
