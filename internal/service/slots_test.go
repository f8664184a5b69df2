package service

import (
	"context"
	"testing"

	"github.com/iliyamo/room-reservation/internal/model"
)

func collectSlots(t *testing.T, env *testEnv, roomID uint64) []model.TimeSlot {
	t.Helper()
	seq, err := env.svc.AvailableSlots(context.Background(), roomID, now)
	if err != nil {
		t.Fatalf("AvailableSlots: %v", err)
	}
	var out []model.TimeSlot
	for s := range seq {
		out = append(out, s)
	}
	return out
}

func TestAvailableSlotsEmptyDay(t *testing.T) {
	env := newTestEnv(t, now)
	slots := collectSlots(t, env, env.roomID)

	// 08:00 through 19:30 in half-hour steps.
	if len(slots) != 24 {
		t.Fatalf("expected 24 slots, got %d", len(slots))
	}
	if slots[0].Start != "08:00" || slots[0].End != "08:30" {
		t.Errorf("first slot = %s-%s, want 08:00-08:30", slots[0].Start, slots[0].End)
	}
	last := slots[len(slots)-1]
	if last.Start != "19:30" || last.End != "20:00" {
		t.Errorf("last slot = %s-%s, want 19:30-20:00", last.Start, last.End)
	}
	for _, s := range slots {
		if s.Label != model.SlotLabel {
			t.Fatalf("slot label = %q, want %q", s.Label, model.SlotLabel)
		}
	}
}

func TestAvailableSlotsSkipBookedWindows(t *testing.T) {
	env := newTestEnv(t, now)
	ctx := context.Background()

	if _, err := env.svc.CreateBooking(ctx, env.studentID, env.roomID, now, slot(10*60, 11*60)); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	slots := collectSlots(t, env, env.roomID)
	if len(slots) != 22 {
		t.Fatalf("expected 22 slots with one hour booked, got %d", len(slots))
	}
	for _, s := range slots {
		if s.Start == "10:00" || s.Start == "10:30" {
			t.Errorf("booked window leaked into slots: %s-%s", s.Start, s.End)
		}
	}
	// The adjacent windows survive.
	found := map[string]bool{}
	for _, s := range slots {
		found[s.Start] = true
	}
	if !found["09:30"] || !found["11:00"] {
		t.Error("slots touching the booking should remain available")
	}
}

func TestAvailableSlotsRestartable(t *testing.T) {
	env := newTestEnv(t, now)
	seq, err := env.svc.AvailableSlots(context.Background(), env.roomID, now)
	if err != nil {
		t.Fatalf("AvailableSlots: %v", err)
	}

	// Breaking out early must not poison later iterations.
	n := 0
	for range seq {
		n++
		if n == 3 {
			break
		}
	}
	total := 0
	for range seq {
		total++
	}
	if total != 24 {
		t.Fatalf("second iteration saw %d slots, want 24", total)
	}
}

func TestAvailableSlotsMaintenanceRoom(t *testing.T) {
	env := newTestEnv(t, now)
	maint := model.RoomStatusMaintenance
	if _, err := env.svc.EditRoom(context.Background(), env.roomID, RoomEdit{Status: &maint}); err != nil {
		t.Fatalf("EditRoom: %v", err)
	}
	if slots := collectSlots(t, env, env.roomID); len(slots) != 0 {
		t.Fatalf("maintenance room advertised %d slots, want 0", len(slots))
	}
}

func TestAvailableSlotsUnknownRoom(t *testing.T) {
	env := newTestEnv(t, now)
	_, err := env.svc.AvailableSlots(context.Background(), 999, now)
	if _, ok := err.(*NotFoundError); !ok {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
