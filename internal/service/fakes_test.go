package service

import (
	"context"
	"sync"
	"time"

	"github.com/avdeyev/cinema-booking/internal/model"
)

// seatKey identifies one seat of one screening.
type seatKey struct {
	screeningID uint64
	row         uint32
	seat        uint32
}

// fakeTicketStore is an in-memory TicketStore with the same claim
// semantics as the MySQL implementation: among non-cancelled tickets
// a seat is held by at most one, and status updates only apply while
// the stored status still matches the expected one.
type fakeTicketStore struct {
	mu     sync.Mutex
	nextID uint64
	byID   map[uint64]*model.Ticket
	seats  map[seatKey]uint64 // seat -> active ticket id
}

func newFakeTicketStore() *fakeTicketStore {
	return &fakeTicketStore{
		nextID: 1,
		byID:   make(map[uint64]*model.Ticket),
		seats:  make(map[seatKey]uint64),
	}
}

func (s *fakeTicketStore) Insert(ctx context.Context, t *model.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := seatKey{t.ScreeningID, t.SeatRow, t.SeatNumber}
	if _, taken := s.seats[key]; taken {
		return model.ErrSeatTaken
	}
	t.ID = s.nextID
	s.nextID++
	cp := *t
	s.byID[cp.ID] = &cp
	s.seats[key] = cp.ID
	return nil
}

func (s *fakeTicketStore) GetByID(ctx context.Context, id uint64) (*model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.byID[id]
	if !ok {
		return nil, model.ErrTicketNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *fakeTicketStore) UpdateStatus(ctx context.Context, id uint64, from, to model.TicketStatus, purchasedAt *time.Time) error {
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
	if purchasedAt != nil {
		at := *purchasedAt
		t.PurchasedAt = &at
	}
	if to == model.TicketCancelled {
		delete(s.seats, seatKey{t.ScreeningID, t.SeatRow, t.SeatNumber})
	}
	return nil
}

// fakeScreeningStore holds screenings in memory and serializes
// CreateExclusive with a mutex, mirroring the per-hall row lock of the
// real store.
type fakeScreeningStore struct {
	mu     sync.Mutex
	nextID uint64
	byID   map[uint64]*model.Screening
}

func newFakeScreeningStore() *fakeScreeningStore {
	return &fakeScreeningStore{nextID: 1, byID: make(map[uint64]*model.Screening)}
}

func (s *fakeScreeningStore) CreateExclusive(ctx context.Context, scr *model.Screening) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.HallID != scr.HallID || !existing.IsActive {
			continue
		}
		if existing.Overlaps(scr.StartsAt, scr.EndsAt) {
			return model.ErrOverlap
		}
	}
	scr.ID = s.nextID
	s.nextID++
	scr.IsActive = true
	cp := *scr
	s.byID[cp.ID] = &cp
	return nil
}

func (s *fakeScreeningStore) GetByID(ctx context.Context, id uint64) (*model.Screening, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	scr, ok := s.byID[id]
	if !ok {
		return nil, model.ErrScreeningNotFound
	}
	cp := *scr
	return &cp, nil
}

func (s *fakeScreeningStore) Deactivate(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	scr, ok := s.byID[id]
	if !ok {
		return model.ErrScreeningNotFound
	}
	scr.IsActive = false
	return nil
}

func (s *fakeScreeningStore) add(scr model.Screening) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	scr.ID = s.nextID
	s.nextID++
	s.byID[scr.ID] = &scr
	return scr.ID
}

type fakeMovieStore struct {
	byID map[uint64]*model.Movie
}

func (s *fakeMovieStore) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	m, ok := s.byID[id]
	if !ok {
		return nil, model.ErrMovieNotFound
	}
	return m, nil
}

type fakeHallStore struct {
	byID map[uint64]*model.Hall
}

func (s *fakeHallStore) GetByID(ctx context.Context, id uint64) (*model.Hall, error) {
	h, ok := s.byID[id]
	if !ok {
		return nil, model.ErrHallNotFound
	}
	return h, nil
}
