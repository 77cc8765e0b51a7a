// Package clock provides an injectable time source so services can be
// tested with a deterministic now.
package clock

import "time"

// Clock yields the current instant in UTC.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystem returns a clock backed by time.Now.
func NewSystem() Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now().UTC() }

type fixedClock struct{ now time.Time }

// NewFixed returns a clock pinned to t, for tests.
func NewFixed(t time.Time) Clock { return fixedClock{now: t.UTC()} }

func (f fixedClock) Now() time.Time { return f.now }
