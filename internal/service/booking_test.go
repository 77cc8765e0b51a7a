package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/avdeyev/cinema-booking/internal/clock"
	"github.com/avdeyev/cinema-booking/internal/model"
	"github.com/avdeyev/cinema-booking/internal/pricing"
)

var testNow = time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

// bookingFixture wires a Booking service over in-memory stores with
// one active screening (id 1) in a 10x20 hall at 1000 cents base.
func bookingFixture(t *testing.T) (*Booking, *fakeTicketStore, *fakeScreeningStore) {
	t.Helper()
	screenings := newFakeScreeningStore()
	screenings.add(model.Screening{
		MovieID:        1,
		HallID:         1,
		StartsAt:       testNow,
		EndsAt:         testNow.Add(2 * time.Hour),
		BasePriceCents: 1000,
		IsActive:       true,
	})
	halls := &fakeHallStore{byID: map[uint64]*model.Hall{
		1: {ID: 1, CinemaID: 1, Name: "Hall 1", TotalRows: 10, TotalSeatsPerRow: 20, IsActive: true},
	}}
	tickets := newFakeTicketStore()
	b := NewBooking(screenings, halls, tickets, pricing.Default(), clock.NewFixed(testNow))
	return b, tickets, screenings
}

func TestReserveSeat(t *testing.T) {
	b, _, _ := bookingFixture(t)
	ctx := context.Background()

	got, err := b.ReserveSeat(ctx, ReserveSeatInput{ScreeningID: 1, UserID: 7, Row: 3, Seat: 5, Type: model.TypeChild})
	if err != nil {
		t.Fatalf("ReserveSeat: %v", err)
	}
	if got.Status != model.TicketBooked {
		t.Errorf("status = %q, want %q", got.Status, model.TicketBooked)
	}
	if got.FinalPriceCents != 500 {
		t.Errorf("price = %d, want 500 (child discount on 1000)", got.FinalPriceCents)
	}

	_, err = b.ReserveSeat(ctx, ReserveSeatInput{ScreeningID: 1, UserID: 8, Row: 3, Seat: 5, Type: model.TypeAdult})
	if !errors.Is(err, model.ErrSeatTaken) {
		t.Errorf("second claim err = %v, want ErrSeatTaken", err)
	}
}

func TestReserveSeatFailures(t *testing.T) {
	b, _, screenings := bookingFixture(t)
	ctx := context.Background()

	inactive := screenings.add(model.Screening{MovieID: 1, HallID: 1, StartsAt: testNow, EndsAt: testNow.Add(time.Hour), BasePriceCents: 1000})

	cases := []struct {
		name string
		in   ReserveSeatInput
		want error
	}{
		{"unknown screening", ReserveSeatInput{ScreeningID: 99, UserID: 7, Row: 1, Seat: 1, Type: model.TypeAdult}, model.ErrScreeningNotFound},
		{"inactive screening", ReserveSeatInput{ScreeningID: inactive, UserID: 7, Row: 1, Seat: 1, Type: model.TypeAdult}, model.ErrScreeningInactive},
		{"row out of range", ReserveSeatInput{ScreeningID: 1, UserID: 7, Row: 11, Seat: 1, Type: model.TypeAdult}, model.ErrSeatOutOfRange},
		{"seat out of range", ReserveSeatInput{ScreeningID: 1, UserID: 7, Row: 1, Seat: 21, Type: model.TypeAdult}, model.ErrSeatOutOfRange},
		{"zero row", ReserveSeatInput{ScreeningID: 1, UserID: 7, Row: 0, Seat: 1, Type: model.TypeAdult}, model.ErrSeatOutOfRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := b.ReserveSeat(ctx, tc.in); !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

// TestReserveSeatConcurrentSingleWinner races many goroutines for the
// same seat: exactly one must win, the rest must see ErrSeatTaken.
func TestReserveSeatConcurrentSingleWinner(t *testing.T) {
	b, tickets, _ := bookingFixture(t)
	ctx := context.Background()

	const n = 32
	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		errs  = make([]error, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = b.ReserveSeat(ctx, ReserveSeatInput{
				ScreeningID: 1, UserID: uint64(i + 1), Row: 5, Seat: 5, Type: model.TypeAdult,
			})
		}(i)
	}
	close(start)
	wg.Wait()

	wins, taken := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, model.ErrSeatTaken):
			taken++
		default:
			t.Errorf("unexpected err: %v", err)
		}
	}
	if wins != 1 || taken != n-1 {
		t.Fatalf("wins = %d taken = %d, want 1 and %d", wins, taken, n-1)
	}
	if got := len(tickets.byID); got != 1 {
		t.Errorf("tickets created = %d, want 1", got)
	}
}

func TestCancelFreesSeat(t *testing.T) {
	b, _, _ := bookingFixture(t)
	ctx := context.Background()
	owner := model.Actor{ID: 7, Role: model.RoleUser}

	tk, err := b.ReserveSeat(ctx, ReserveSeatInput{ScreeningID: 1, UserID: 7, Row: 2, Seat: 2, Type: model.TypeAdult})
	if err != nil {
		t.Fatalf("ReserveSeat: %v", err)
	}
	if err := b.CancelTicket(ctx, tk.ID, owner); err != nil {
		t.Fatalf("CancelTicket: %v", err)
	}

	// The freed seat is immediately bookable by someone else.
	if _, err := b.ReserveSeat(ctx, ReserveSeatInput{ScreeningID: 1, UserID: 8, Row: 2, Seat: 2, Type: model.TypeAdult}); err != nil {
		t.Fatalf("rebook after cancel: %v", err)
	}

	if err := b.CancelTicket(ctx, tk.ID, owner); !errors.Is(err, model.ErrInvalidTransition) {
		t.Errorf("double cancel err = %v, want ErrInvalidTransition", err)
	}
}

func TestCancelAuthorization(t *testing.T) {
	b, _, _ := bookingFixture(t)
	ctx := context.Background()

	tk, err := b.ReserveSeat(ctx, ReserveSeatInput{ScreeningID: 1, UserID: 7, Row: 4, Seat: 4, Type: model.TypeAdult})
	if err != nil {
		t.Fatalf("ReserveSeat: %v", err)
	}

	stranger := model.Actor{ID: 9, Role: model.RoleUser}
	if err := b.CancelTicket(ctx, tk.ID, stranger); !errors.Is(err, model.ErrForbidden) {
		t.Errorf("stranger cancel err = %v, want ErrForbidden", err)
	}

	admin := model.Actor{ID: 1, Role: model.RoleAdmin}
	if err := b.CancelTicket(ctx, tk.ID, admin); err != nil {
		t.Errorf("admin cancel: %v", err)
	}
}

func TestTransitionLifecycle(t *testing.T) {
	b, _, _ := bookingFixture(t)
	ctx := context.Background()
	owner := model.Actor{ID: 7, Role: model.RoleUser}
	admin := model.Actor{ID: 1, Role: model.RoleAdmin}

	tk, err := b.ReserveSeat(ctx, ReserveSeatInput{ScreeningID: 1, UserID: 7, Row: 6, Seat: 6, Type: model.TypeStudent})
	if err != nil {
		t.Fatalf("ReserveSeat: %v", err)
	}

	// booked -> used skips payment and must be rejected.
	if _, err := b.Transition(ctx, tk.ID, model.TicketUsed, admin); !errors.Is(err, model.ErrInvalidTransition) {
		t.Errorf("booked->used err = %v, want ErrInvalidTransition", err)
	}

	paid, err := b.Transition(ctx, tk.ID, model.TicketPaid, owner)
	if err != nil {
		t.Fatalf("booked->paid: %v", err)
	}
	if paid.PurchasedAt == nil || !paid.PurchasedAt.Equal(testNow) {
		t.Errorf("purchased_at = %v, want %v", paid.PurchasedAt, testNow)
	}

	// Check-in is an admin operation.
	if _, err := b.Transition(ctx, tk.ID, model.TicketUsed, owner); !errors.Is(err, model.ErrForbidden) {
		t.Errorf("owner check-in err = %v, want ErrForbidden", err)
	}
	used, err := b.Transition(ctx, tk.ID, model.TicketUsed, admin)
	if err != nil {
		t.Fatalf("paid->used: %v", err)
	}
	if used.Status != model.TicketUsed {
		t.Errorf("status = %q, want used", used.Status)
	}

	// used is terminal.
	if err := b.CancelTicket(ctx, tk.ID, admin); !errors.Is(err, model.ErrInvalidTransition) {
		t.Errorf("cancel used err = %v, want ErrInvalidTransition", err)
	}
	if _, err := b.Transition(ctx, tk.ID, model.TicketPaid, owner); !errors.Is(err, model.ErrInvalidTransition) {
		t.Errorf("used->paid err = %v, want ErrInvalidTransition", err)
	}
}

func TestTransitionToBookedRejected(t *testing.T) {
	b, _, _ := bookingFixture(t)
	ctx := context.Background()
	owner := model.Actor{ID: 7, Role: model.RoleUser}

	tk, err := b.ReserveSeat(ctx, ReserveSeatInput{ScreeningID: 1, UserID: 7, Row: 7, Seat: 7, Type: model.TypeAdult})
	if err != nil {
		t.Fatalf("ReserveSeat: %v", err)
	}
	if _, err := b.Transition(ctx, tk.ID, model.TicketBooked, owner); !errors.Is(err, model.ErrInvalidTransition) {
		t.Errorf("->booked err = %v, want ErrInvalidTransition", err)
	}
}

func TestTransitionUnknownTicket(t *testing.T) {
	b, _, _ := bookingFixture(t)
	if _, err := b.Transition(context.Background(), 999, model.TicketPaid, model.Actor{ID: 7, Role: model.RoleUser}); !errors.Is(err, model.ErrTicketNotFound) {
		t.Errorf("err = %v, want ErrTicketNotFound", err)
	}
}
