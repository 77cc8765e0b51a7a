package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/avdeyev/cinema-booking/internal/model"
)

func schedulerFixture(t *testing.T) (*Scheduler, *fakeScreeningStore) {
	t.Helper()
	screenings := newFakeScreeningStore()
	movies := &fakeMovieStore{byID: map[uint64]*model.Movie{
		1: {ID: 1, Title: "Solaris", DurationMin: 167},
	}}
	halls := &fakeHallStore{byID: map[uint64]*model.Hall{
		1: {ID: 1, CinemaID: 1, Name: "Hall 1", TotalRows: 10, TotalSeatsPerRow: 20, IsActive: true},
		2: {ID: 2, CinemaID: 1, Name: "Hall 2", TotalRows: 8, TotalSeatsPerRow: 12, IsActive: true},
	}}
	return NewScheduler(screenings, movies, halls), screenings
}

func TestCreateScreening(t *testing.T) {
	s, _ := schedulerFixture(t)
	ctx := context.Background()

	scr, err := s.CreateScreening(ctx, CreateScreeningInput{
		MovieID: 1, HallID: 1,
		StartsAt:       testNow,
		EndsAt:         testNow.Add(3 * time.Hour),
		BasePriceCents: 1200,
	})
	if err != nil {
		t.Fatalf("CreateScreening: %v", err)
	}
	if scr.ID == 0 || !scr.IsActive {
		t.Errorf("got id=%d active=%v, want assigned id and active", scr.ID, scr.IsActive)
	}
}

func TestCreateScreeningValidation(t *testing.T) {
	s, _ := schedulerFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateScreeningInput
		want error
	}{
		{"end before start", CreateScreeningInput{MovieID: 1, HallID: 1, StartsAt: testNow, EndsAt: testNow.Add(-time.Hour), BasePriceCents: 1000}, model.ErrInvalidInterval},
		{"zero length", CreateScreeningInput{MovieID: 1, HallID: 1, StartsAt: testNow, EndsAt: testNow, BasePriceCents: 1000}, model.ErrInvalidInterval},
		{"negative price", CreateScreeningInput{MovieID: 1, HallID: 1, StartsAt: testNow, EndsAt: testNow.Add(time.Hour), BasePriceCents: -1}, model.ErrInvalidPrice},
		{"unknown movie", CreateScreeningInput{MovieID: 99, HallID: 1, StartsAt: testNow, EndsAt: testNow.Add(time.Hour), BasePriceCents: 1000}, model.ErrMovieNotFound},
		{"unknown hall", CreateScreeningInput{MovieID: 1, HallID: 99, StartsAt: testNow, EndsAt: testNow.Add(time.Hour), BasePriceCents: 1000}, model.ErrHallNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.CreateScreening(ctx, tc.in); !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCreateScreeningOverlap(t *testing.T) {
	s, _ := schedulerFixture(t)
	ctx := context.Background()

	base := CreateScreeningInput{MovieID: 1, HallID: 1, BasePriceCents: 1000}
	seed := base
	seed.StartsAt, seed.EndsAt = testNow, testNow.Add(2*time.Hour)
	if _, err := s.CreateScreening(ctx, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	cases := []struct {
		name       string
		start, end time.Time
		hall       uint64
		want       error
	}{
		{"identical interval", testNow, testNow.Add(2 * time.Hour), 1, model.ErrOverlap},
		{"starts inside", testNow.Add(time.Hour), testNow.Add(3 * time.Hour), 1, model.ErrOverlap},
		{"ends inside", testNow.Add(-time.Hour), testNow.Add(time.Hour), 1, model.ErrOverlap},
		{"contains", testNow.Add(-time.Hour), testNow.Add(3 * time.Hour), 1, model.ErrOverlap},
		{"contained", testNow.Add(30 * time.Minute), testNow.Add(time.Hour), 1, model.ErrOverlap},
		{"touches end", testNow.Add(2 * time.Hour), testNow.Add(4 * time.Hour), 1, nil},
		{"touches start", testNow.Add(-2 * time.Hour), testNow, 1, nil},
		{"same time other hall", testNow, testNow.Add(2 * time.Hour), 2, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := base
			in.HallID = tc.hall
			in.StartsAt, in.EndsAt = tc.start, tc.end
			_, err := s.CreateScreening(ctx, in)
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

// TestCreateScreeningConcurrent races identical intervals on one hall:
// exactly one create wins, the rest lose with ErrOverlap.
func TestCreateScreeningConcurrent(t *testing.T) {
	s, screenings := schedulerFixture(t)
	ctx := context.Background()

	const n = 16
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
			_, errs[i] = s.CreateScreening(ctx, CreateScreeningInput{
				MovieID: 1, HallID: 1,
				StartsAt:       testNow,
				EndsAt:         testNow.Add(2 * time.Hour),
				BasePriceCents: 1000,
			})
		}(i)
	}
	close(start)
	wg.Wait()

	wins := 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, model.ErrOverlap):
		default:
			t.Errorf("unexpected err: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("wins = %d, want 1", wins)
	}
	if got := len(screenings.byID); got != 1 {
		t.Errorf("screenings created = %d, want 1", got)
	}
}

func TestDeactivateScreening(t *testing.T) {
	s, screenings := schedulerFixture(t)
	ctx := context.Background()

	scr, err := s.CreateScreening(ctx, CreateScreeningInput{
		MovieID: 1, HallID: 1, StartsAt: testNow, EndsAt: testNow.Add(time.Hour), BasePriceCents: 1000,
	})
	if err != nil {
		t.Fatalf("CreateScreening: %v", err)
	}

	if err := s.DeactivateScreening(ctx, scr.ID); err != nil {
		t.Fatalf("DeactivateScreening: %v", err)
	}
	got, _ := screenings.GetByID(ctx, scr.ID)
	if got.IsActive {
		t.Error("screening still active after deactivation")
	}

	// Idempotent.
	if err := s.DeactivateScreening(ctx, scr.ID); err != nil {
		t.Errorf("second deactivate: %v", err)
	}

	// The freed slot is reusable.
	if _, err := s.CreateScreening(ctx, CreateScreeningInput{
		MovieID: 1, HallID: 1, StartsAt: testNow, EndsAt: testNow.Add(time.Hour), BasePriceCents: 1000,
	}); err != nil {
		t.Errorf("reschedule freed slot: %v", err)
	}

	if err := s.DeactivateScreening(ctx, 999); !errors.Is(err, model.ErrScreeningNotFound) {
		t.Errorf("unknown id err = %v, want ErrScreeningNotFound", err)
	}
}
