package model

import (
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from TicketStatus
		to   TicketStatus
		want bool
	}{
		{TicketBooked, TicketPaid, true},
		{TicketBooked, TicketCancelled, true},
		{TicketBooked, TicketUsed, false},
		{TicketPaid, TicketUsed, true},
		{TicketPaid, TicketCancelled, true},
		{TicketPaid, TicketBooked, false},
		{TicketUsed, TicketCancelled, false},
		{TicketUsed, TicketPaid, false},
		{TicketCancelled, TicketBooked, false},
		{TicketCancelled, TicketPaid, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestCanCancel(t *testing.T) {
	if !CanCancel(TicketBooked) || !CanCancel(TicketPaid) {
		t.Fatal("booked and paid tickets must be cancellable")
	}
	if CanCancel(TicketUsed) || CanCancel(TicketCancelled) {
		t.Fatal("used and cancelled tickets must not be cancellable")
	}
}

func TestParseTicketType(t *testing.T) {
	for _, s := range []string{"adult", "child", "student"} {
		if _, err := ParseTicketType(s); err != nil {
			t.Errorf("ParseTicketType(%q) failed: %v", s, err)
		}
	}
	if _, err := ParseTicketType("senior"); err == nil {
		t.Fatal("expected error for unknown ticket type")
	}
}

func TestIntervalsOverlap(t *testing.T) {
	at := func(h int) time.Time {
		return time.Date(2025, 6, 1, h, 0, 0, 0, time.UTC)
	}
	cases := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{"identical", at(10), at(12), at(10), at(12), true},
		{"partial", at(10), at(12), at(11), at(13), true},
		{"contained", at(10), at(14), at(11), at(12), true},
		{"touching end to start", at(10), at(12), at(12), at(14), false},
		{"touching start to end", at(12), at(14), at(10), at(12), false},
		{"disjoint", at(8), at(9), at(10), at(11), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IntervalsOverlap(tc.s1, tc.e1, tc.s2, tc.e2); got != tc.want {
				t.Fatalf("IntervalsOverlap = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestScreeningValidate(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	s := &Screening{StartsAt: start, EndsAt: start.Add(2 * time.Hour), BasePriceCents: 1500}
	if err := s.Validate(); err != nil {
		t.Fatalf("valid screening rejected: %v", err)
	}
	bad := &Screening{StartsAt: start, EndsAt: start, BasePriceCents: 1500}
	if err := bad.Validate(); err != ErrInvalidInterval {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
	neg := &Screening{StartsAt: start, EndsAt: start.Add(time.Hour), BasePriceCents: -1}
	if err := neg.Validate(); err != ErrInvalidPrice {
		t.Fatalf("expected ErrInvalidPrice, got %v", err)
	}
}
