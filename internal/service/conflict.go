package service

import (
	"context"
	"fmt"
	"time"

	"github.com/iliyamo/room-reservation/internal/model"
)

// Conflict detection. Two bookings clash when their half-open time
// ranges intersect on the same day; ranges that merely touch do not.
// Only ACTIVE bookings participate. The same scan runs keyed by room
// (slot taken) and keyed by student (self double-booking across rooms).

// overlapsAny reports whether candidate intersects any of the given
// bookings, skipping the booking identified by excludeID (zero means
// exclude nothing; used when re-checking a modified booking against its
// own slot).
func overlapsAny(bookings []model.Booking, candidate model.TimeRange, excludeID uint64) bool {
	for _, b := range bookings {
		if excludeID != 0 && b.ID == excludeID {
			continue
		}
		if b.Slot.Overlaps(candidate) {
			return true
		}
	}
	return false
}

// hasRoomConflict reports whether any active booking for the room on
// the given day overlaps the candidate range.
func (s *ReservationService) hasRoomConflict(ctx context.Context, roomID uint64, date time.Time, candidate model.TimeRange, excludeID uint64) (bool, error) {
	active, err := s.bookings.ListActiveByRoomAndDate(ctx, roomID, date)
	if err != nil {
		return false, fmt.Errorf("list active bookings for room: %w", err)
	}
	return overlapsAny(active, candidate, excludeID), nil
}

// hasStudentConflict reports whether the student already holds an
// active booking overlapping the candidate range on the given day, in
// any room.
func (s *ReservationService) hasStudentConflict(ctx context.Context, studentID uint64, date time.Time, candidate model.TimeRange, excludeID uint64) (bool, error) {
	active, err := s.bookings.ListActiveByStudentAndDate(ctx, studentID, date)
	if err != nil {
		return false, fmt.Errorf("list active bookings for student: %w", err)
	}
	return overlapsAny(active, candidate, excludeID), nil
}
