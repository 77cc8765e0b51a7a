// Package pricing computes a ticket's final price from the screening's
// base price and the ticket type.  The adjustment percentages are
// policy, injected from configuration; the reservation manager only
// sees the Policy value.
package pricing

import "github.com/avdeyev/cinema-booking/internal/model"

// Policy holds the discount percentages applied to the base price.
// Percentages are whole numbers in [0,100]; adult tickets always pay
// the full base price.
type Policy struct {
	ChildDiscountPct   int64
	StudentDiscountPct int64
}

// Default matches the venue's standing policy: children pay half,
// students get a quarter off.
func Default() Policy {
	return Policy{ChildDiscountPct: 50, StudentDiscountPct: 25}
}

// PriceFor returns the final price in cents for a ticket of the given
// type.  Prices are integer cents and the discounted amount rounds
// down.  The result is never negative for a non-negative base price.
func (p Policy) PriceFor(baseCents int64, t model.TicketType) int64 {
	var pct int64
	switch t {
	case model.TypeChild:
		pct = p.ChildDiscountPct
	case model.TypeStudent:
		pct = p.StudentDiscountPct
	default:
		pct = 0
	}
	if pct <= 0 {
		return baseCents
	}
	if pct > 100 {
		pct = 100
	}
	return baseCents - baseCents*pct/100
}
