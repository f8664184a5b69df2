package service

import (
	"context"
	"testing"
	"time"

	"github.com/iliyamo/room-reservation/internal/model"
)

// Reference moment for most tests: 09:00 UTC on 2025-03-10.
var now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func slot(startMin, endMin int) model.TimeRange {
	return model.TimeRange{StartMin: startMin, EndMin: endMin}
}

func TestCreateBookingMarksRoomReserved(t *testing.T) {
	env := newTestEnv(t, now)
	ctx := context.Background()

	b, err := env.svc.CreateBooking(ctx, env.studentID, env.roomID, now, slot(10*60, 11*60))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if b.Status != model.BookingStatusActive {
		t.Errorf("booking status = %s, want ACTIVE", b.Status)
	}
	if b.Reference == "" {
		t.Error("booking reference should be assigned")
	}

	room, _ := env.rooms.GetByID(ctx, env.roomID)
	if room.Status != model.RoomStatusReserved {
		t.Errorf("room status = %s, want RESERVED after booking", room.Status)
	}
	if len(env.publisher.created) != 1 {
		t.Errorf("expected one created event, got %d", len(env.publisher.created))
	}
}

func TestCreateBookingRoomConflictRejected(t *testing.T) {
	env := newTestEnv(t, now)
	ctx := context.Background()

	if _, err := env.svc.CreateBooking(ctx, env.studentID, env.roomID, now, slot(10*60, 11*60)); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	// A second student wants an overlapping range in the same room. The
	// room reads RESERVED now, but that is a derived display state: the
	// attempt must reach the conflict scan and fail there.
	other, err := env.svc.RegisterStudent(ctx, "S-1002", "Grace Hopper", nil)
	if err != nil {
		t.Fatalf("register second student: %v", err)
	}
	_, err = env.svc.CreateBooking(ctx, other.ID, env.roomID, now, slot(10*60+30, 11*60+30))
	ce, ok := err.(*ConflictError)
	if !ok || ce.Scope != "room" {
		t.Fatalf("expected room ConflictError for overlapping range, got %v", err)
	}
}

func TestReservedRoomAcceptsNonOverlappingBookings(t *testing.T) {
	env := newTestEnv(t, now)
	ctx := context.Background()

	if _, err := env.svc.CreateBooking(ctx, env.studentID, env.roomID, now, slot(10*60, 11*60)); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	room, _ := env.rooms.GetByID(ctx, env.roomID)
	if room.Status != model.RoomStatusReserved {
		t.Fatalf("room status = %s, want RESERVED", room.Status)
	}

	other, err := env.svc.RegisterStudent(ctx, "S-1002", "Grace Hopper", nil)
	if err != nil {
		t.Fatalf("register second student: %v", err)
	}
	// A disjoint range later the same day goes through.
	if _, err := env.svc.CreateBooking(ctx, other.ID, env.roomID, now, slot(14*60, 15*60)); err != nil {
		t.Fatalf("non-overlapping same-day booking should succeed: %v", err)
	}
	// So does any range on another day.
	if _, err := env.svc.CreateBooking(ctx, other.ID, env.roomID, now.AddDate(0, 0, 1), slot(10*60, 11*60)); err != nil {
		t.Fatalf("next-day booking should succeed: %v", err)
	}

	room, _ = env.rooms.GetByID(ctx, env.roomID)
	if room.Status != model.RoomStatusReserved {
		t.Errorf("room status = %s, want RESERVED while bookings remain", room.Status)
	}
}

func TestCancelBookingFreesRoom(t *testing.T) {
	env := newTestEnv(t, now)
	ctx := context.Background()

	// Booking starts at 14:00, five hours of notice.
	b, err := env.svc.CreateBooking(ctx, env.studentID, env.roomID, now, slot(14*60, 15*60))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if err := env.svc.CancelBooking(ctx, b.ID, false); err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}

	got, _ := env.bookings.GetByID(ctx, b.ID)
	if got.Status != model.BookingStatusCancelled {
		t.Errorf("booking status = %s, want CANCELLED", got.Status)
	}
	room, _ := env.rooms.GetByID(ctx, env.roomID)
	if room.Status != model.RoomStatusAvailable {
		t.Errorf("room status = %s, want AVAILABLE after cancellation", room.Status)
	}
	if len(env.publisher.cancelled) != 1 {
		t.Errorf("expected one cancelled event, got %d", len(env.publisher.cancelled))
	}
}

func TestCancelBookingShortNoticeDenied(t *testing.T) {
	env := newTestEnv(t, now)
	ctx := context.Background()

	// Booking starts at 09:30, only thirty minutes away.
	b, err := env.svc.CreateBooking(ctx, env.studentID, env.roomID, now, slot(9*60+30, 10*60+30))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	err = env.svc.CancelBooking(ctx, b.ID, false)
	if _, ok := err.(*PolicyDeniedError); !ok {
		t.Fatalf("expected PolicyDeniedError, got %v", err)
	}

	// The booking must be untouched and the room still reserved.
	got, _ := env.bookings.GetByID(ctx, b.ID)
	if got.Status != model.BookingStatusActive {
		t.Errorf("booking status = %s, want ACTIVE after denied cancel", got.Status)
	}
	room, _ := env.rooms.GetByID(ctx, env.roomID)
	if room.Status != model.RoomStatusReserved {
		t.Errorf("room status = %s, want RESERVED after denied cancel", room.Status)
	}

	// The administrator override is not bound by the notice rule.
	if err := env.svc.CancelBooking(ctx, b.ID, true); err != nil {
		t.Fatalf("admin CancelBooking: %v", err)
	}
}

func TestCancelBookingTwiceFails(t *testing.T) {
	env := newTestEnv(t, now)
	ctx := context.Background()

	b, err := env.svc.CreateBooking(ctx, env.studentID, env.roomID, now, slot(14*60, 15*60))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if err := env.svc.CancelBooking(ctx, b.ID, false); err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	err = env.svc.CancelBooking(ctx, b.ID, false)
	if _, ok := err.(*StateError); !ok {
		t.Fatalf("expected StateError on second cancel, got %v", err)
	}
}

func TestCreateBookingUnknownStudentAndRoom(t *testing.T) {
	env := newTestEnv(t, now)
	ctx := context.Background()

	if _, err := env.svc.CreateBooking(ctx, 999, env.roomID, now, slot(10*60, 11*60)); err == nil {
		t.Fatal("expected error for unknown student")
	} else if nf, ok := err.(*NotFoundError); !ok || nf.Resource != "student" {
		t.Fatalf("expected student NotFoundError, got %v", err)
	}

	if _, err := env.svc.CreateBooking(ctx, env.studentID, 999, now, slot(10*60, 11*60)); err == nil {
		t.Fatal("expected error for unknown room")
	} else if nf, ok := err.(*NotFoundError); !ok || nf.Resource != "room" {
		t.Fatalf("expected room NotFoundError, got %v", err)
	}
}

func TestCreateBookingValidationFailures(t *testing.T) {
	env := newTestEnv(t, now)
	ctx := context.Background()

	tests := []struct {
		name string
		date time.Time
		slot model.TimeRange
	}{
		{"past date", now.AddDate(0, 0, -1), slot(10*60, 11*60)},
		{"reversed range", now, slot(11*60, 10*60)},
		{"outside window", now, slot(6*60, 7*60)},
		{"too short", now, slot(10*60, 10*60+15)},
		{"too long", now, slot(8*60, 13*60)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.CreateBooking(ctx, env.studentID, env.roomID, tt.date, tt.slot)
			if _, ok := err.(*ValidationError); !ok {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestCreateBookingStudentConflictAcrossRooms(t *testing.T) {
	env := newTestEnv(t, now)
	ctx := context.Background()

	second, err := env.svc.CreateRoom(ctx, "B-102", 4, nil)
	if err != nil {
		t.Fatalf("create second room: %v", err)
	}
	if _, err := env.svc.CreateBooking(ctx, env.studentID, env.roomID, now, slot(10*60, 11*60)); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	// Same student, different room, overlapping time.
	_, err = env.svc.CreateBooking(ctx, env.studentID, second.ID, now, slot(10*60+30, 11*60+30))
	ce, ok := err.(*ConflictError)
	if !ok || ce.Scope != "student" {
		t.Fatalf("expected student ConflictError, got %v", err)
	}

	// Back to back in the other room is fine.
	if _, err := env.svc.CreateBooking(ctx, env.studentID, second.ID, now, slot(11*60, 12*60)); err != nil {
		t.Fatalf("touching booking should succeed: %v", err)
	}
}

func TestQueryAvailability(t *testing.T) {
	env := newTestEnv(t, now)
	ctx := context.Background()

	free, err := env.svc.QueryAvailability(ctx, env.roomID, now, slot(10*60, 11*60))
	if err != nil || !free {
		t.Fatalf("empty room should be available, got (%v, %v)", free, err)
	}

	if _, err := env.svc.CreateBooking(ctx, env.studentID, env.roomID, now, slot(10*60, 11*60)); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	// An overlapping range is taken; a disjoint one on the now-RESERVED
	// room is still free.
	free, err = env.svc.QueryAvailability(ctx, env.roomID, now, slot(10*60+30, 11*60+30))
	if err != nil || free {
		t.Fatalf("overlapping range should not be available, got (%v, %v)", free, err)
	}
	free, err = env.svc.QueryAvailability(ctx, env.roomID, now, slot(12*60, 13*60))
	if err != nil || !free {
		t.Fatalf("disjoint range on reserved room should be available, got (%v, %v)", free, err)
	}

	// Past dates and invalid ranges answer false without error.
	if free, err = env.svc.QueryAvailability(ctx, env.roomID, now.AddDate(0, 0, -1), slot(12*60, 13*60)); err != nil || free {
		t.Fatalf("past date should not be available, got (%v, %v)", free, err)
	}
	if free, err = env.svc.QueryAvailability(ctx, env.roomID, now, slot(13*60, 12*60)); err != nil || free {
		t.Fatalf("invalid range should not be available, got (%v, %v)", free, err)
	}
}

func TestMaintenanceIsSticky(t *testing.T) {
	env := newTestEnv(t, now)
	ctx := context.Background()

	// Book tomorrow, then put the room into maintenance.
	b, err := env.svc.CreateBooking(ctx, env.studentID, env.roomID, now.AddDate(0, 0, 1), slot(10*60, 11*60))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	maint := model.RoomStatusMaintenance
	if _, err := env.svc.EditRoom(ctx, env.roomID, RoomEdit{Status: &maint}); err != nil {
		t.Fatalf("EditRoom to maintenance: %v", err)
	}

	// Cancelling triggers recomputation, which must not clear MAINTENANCE.
	if err := env.svc.CancelBooking(ctx, b.ID, true); err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}
	room, _ := env.rooms.GetByID(ctx, env.roomID)
	if room.Status != model.RoomStatusMaintenance {
		t.Errorf("room status = %s, want MAINTENANCE to stick through recomputation", room.Status)
	}

	// New bookings are refused while in maintenance.
	_, err = env.svc.CreateBooking(ctx, env.studentID, env.roomID, now.AddDate(0, 0, 2), slot(10*60, 11*60))
	if _, ok := err.(*StateError); !ok {
		t.Fatalf("expected StateError for maintenance room, got %v", err)
	}

	// Clearing maintenance re-derives the status from the booking set.
	avail := model.RoomStatusAvailable
	room, err = env.svc.EditRoom(ctx, env.roomID, RoomEdit{Status: &avail})
	if err != nil {
		t.Fatalf("EditRoom clear maintenance: %v", err)
	}
	if room.Status != model.RoomStatusAvailable {
		t.Errorf("room status = %s, want AVAILABLE after clearing with no active bookings", room.Status)
	}
}

func TestEditRoomDerivedStatusRejected(t *testing.T) {
	env := newTestEnv(t, now)
	ctx := context.Background()

	reserved := model.RoomStatusReserved
	_, err := env.svc.EditRoom(ctx, env.roomID, RoomEdit{Status: &reserved})
	if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("expected ValidationError for direct RESERVED write, got %v", err)
	}
}

func TestDeleteRoomWithActiveBookings(t *testing.T) {
	env := newTestEnv(t, now)
	ctx := context.Background()

	b, err := env.svc.CreateBooking(ctx, env.studentID, env.roomID, now.AddDate(0, 0, 1), slot(10*60, 11*60))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	err = env.svc.DeleteRoom(ctx, env.roomID)
	if _, ok := err.(*StateError); !ok {
		t.Fatalf("expected StateError deleting room with active booking, got %v", err)
	}

	if err := env.svc.CancelBooking(ctx, b.ID, true); err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}
	if err := env.svc.DeleteRoom(ctx, env.roomID); err != nil {
		t.Fatalf("DeleteRoom after cancel: %v", err)
	}
}

func TestRegisterStudentDuplicate(t *testing.T) {
	env := newTestEnv(t, now)
	ctx := context.Background()

	_, err := env.svc.RegisterStudent(ctx, "S-1001", "Impostor", nil)
	if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("expected ValidationError for duplicate external id, got %v", err)
	}
}

func TestCreateRoomDuplicateName(t *testing.T) {
	env := newTestEnv(t, now)
	ctx := context.Background()

	_, err := env.svc.CreateRoom(ctx, "B-101", 12, nil)
	if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("expected ValidationError for duplicate room name, got %v", err)
	}
}

func TestCancelledSlotCanBeRebooked(t *testing.T) {
	env := newTestEnv(t, now)
	ctx := context.Background()

	b, err := env.svc.CreateBooking(ctx, env.studentID, env.roomID, now.AddDate(0, 0, 1), slot(10*60, 11*60))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if err := env.svc.CancelBooking(ctx, b.ID, false); err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}
	// The exact same slot must be bookable again.
	if _, err := env.svc.CreateBooking(ctx, env.studentID, env.roomID, now.AddDate(0, 0, 1), slot(10*60, 11*60)); err != nil {
		t.Fatalf("rebooking a cancelled slot should succeed: %v", err)
	}
}
