package service

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/iliyamo/room-reservation/internal/model"
)

// AvailableSlots returns the half-hour candidate windows between the
// opening and closing hours that do not overlap any active booking for
// the room on the given day. The last candidate starts at 19:30. The
// result is a lazy, restartable sequence: the active bookings are
// fetched once, and each range over the sequence walks the grid again.
func (s *ReservationService) AvailableSlots(ctx context.Context, roomID uint64, date time.Time) (iter.Seq[model.TimeSlot], error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}
	if room == nil {
		return nil, &NotFoundError{Resource: "room"}
	}
	// A room under maintenance advertises no slots; anything offered
	// here must also be accepted by CreateBooking.
	if !room.IsBookable() {
		return func(yield func(model.TimeSlot) bool) {}, nil
	}
	active, err := s.bookings.ListActiveByRoomAndDate(ctx, roomID, model.DateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("list active bookings for room: %w", err)
	}

	return func(yield func(model.TimeSlot) bool) {
		for start := model.OpeningMinute; start+model.SlotMinutes <= model.ClosingMinute; start += model.SlotMinutes {
			candidate := model.TimeRange{StartMin: start, EndMin: start + model.SlotMinutes}
			if overlapsAny(active, candidate, 0) {
				continue
			}
			slot := model.TimeSlot{
				StartMin: candidate.StartMin,
				EndMin:   candidate.EndMin,
				Start:    model.FormatMinute(candidate.StartMin),
				End:      model.FormatMinute(candidate.EndMin),
				Label:    model.SlotLabel,
			}
			if !yield(slot) {
				return
			}
		}
	}, nil
}
