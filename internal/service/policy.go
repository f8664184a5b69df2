package service

import (
	"time"

	"github.com/iliyamo/room-reservation/internal/model"
)

// CancelNotice is the minimum lead time a student must leave when
// cancelling a same-day booking.
const CancelNotice = 60 * time.Minute

// CancellationPolicy decides, per actor role, whether a booking may be
// cancelled at the current moment. It is state-free apart from the
// injected clock and performs no persistence; the orchestrator enforces
// its verdict before mutating anything.
type CancellationPolicy struct {
	clock Clock
}

// NewCancellationPolicy returns a policy reading time from the given
// clock.
func NewCancellationPolicy(clock Clock) CancellationPolicy {
	return CancellationPolicy{clock: clock}
}

// CanCancelAsAdministrator always permits cancellation. Administrators
// may cancel any booking; the orchestrator separately blocks bookings
// that are already past or in a terminal state.
func (CancellationPolicy) CanCancelAsAdministrator(*model.Booking) bool { return true }

// CanCancelAsStudent permits cancellation of any future-dated booking.
// Past bookings are refused, and same-day bookings require the start
// time to be at least CancelNotice in the future.
func (p CancellationPolicy) CanCancelAsStudent(b *model.Booking) bool {
	now := p.clock.Now()
	today := model.DateOnly(now)
	day := model.DateOnly(b.Date)
	switch {
	case day.Before(today):
		return false
	case day.After(today):
		return true
	default:
		return b.StartAt().Sub(now) >= CancelNotice
	}
}
