package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/queue"
	"github.com/iliyamo/room-reservation/internal/repository"
)

// In-memory store fakes. They mirror the MySQL repositories' contracts:
// lookups return (nil, nil) on absence and inserts surface
// repository.ErrDuplicate on unique key clashes.

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time { return f.now }

type memStudents struct {
	seq   uint64
	items map[uint64]model.Student
}

func newMemStudents() *memStudents { return &memStudents{items: map[uint64]model.Student{}} }

func (m *memStudents) Insert(_ context.Context, s *model.Student) error {
	for _, ex := range m.items {
		if ex.ExternalID == s.ExternalID {
			return repository.ErrDuplicate
		}
	}
	m.seq++
	s.ID = m.seq
	m.items[s.ID] = *s
	return nil
}

func (m *memStudents) GetByID(_ context.Context, id uint64) (*model.Student, error) {
	s, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memStudents) GetByExternalID(_ context.Context, externalID string) (*model.Student, error) {
	for _, s := range m.items {
		if s.ExternalID == externalID {
			out := s
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memStudents) ListAll(_ context.Context) ([]model.Student, error) {
	out := make([]model.Student, 0, len(m.items))
	for _, s := range m.items {
		out = append(out, s)
	}
	return out, nil
}

type memRooms struct {
	seq   uint64
	items map[uint64]model.Room
}

func newMemRooms() *memRooms { return &memRooms{items: map[uint64]model.Room{}} }

func (m *memRooms) Insert(_ context.Context, room *model.Room) error {
	for _, ex := range m.items {
		if ex.Name == room.Name {
			return repository.ErrDuplicate
		}
	}
	m.seq++
	room.ID = m.seq
	m.items[room.ID] = *room
	return nil
}

func (m *memRooms) GetByID(_ context.Context, id uint64) (*model.Room, error) {
	r, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *memRooms) ListAll(_ context.Context) ([]model.Room, error) {
	out := make([]model.Room, 0, len(m.items))
	for _, r := range m.items {
		out = append(out, r)
	}
	return out, nil
}

func (m *memRooms) ListAvailable(_ context.Context) ([]model.Room, error) {
	var out []model.Room
	for _, r := range m.items {
		if r.Status == model.RoomStatusAvailable {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRooms) Update(_ context.Context, room *model.Room) (bool, error) {
	if _, ok := m.items[room.ID]; !ok {
		return false, nil
	}
	for id, ex := range m.items {
		if id != room.ID && ex.Name == room.Name {
			return false, repository.ErrDuplicate
		}
	}
	m.items[room.ID] = *room
	return true, nil
}

func (m *memRooms) Delete(_ context.Context, id uint64) (bool, error) {
	if _, ok := m.items[id]; !ok {
		return false, nil
	}
	delete(m.items, id)
	return true, nil
}

func (m *memRooms) SetStatus(_ context.Context, id uint64, status model.RoomStatus) error {
	r, ok := m.items[id]
	if !ok {
		return nil
	}
	r.Status = status
	m.items[id] = r
	return nil
}

type memBookings struct {
	seq   uint64
	items map[uint64]model.Booking
}

func newMemBookings() *memBookings { return &memBookings{items: map[uint64]model.Booking{}} }

func (m *memBookings) Insert(_ context.Context, b *model.Booking) error {
	for _, ex := range m.items {
		if ex.Status == model.BookingStatusActive &&
			ex.RoomID == b.RoomID && ex.Date.Equal(b.Date) && ex.Slot.StartMin == b.Slot.StartMin {
			return repository.ErrDuplicate
		}
	}
	m.seq++
	b.ID = m.seq
	m.items[b.ID] = *b
	return nil
}

func (m *memBookings) GetByID(_ context.Context, id uint64) (*model.Booking, error) {
	b, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (m *memBookings) ListByRoom(_ context.Context, roomID uint64) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range m.items {
		if b.RoomID == roomID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBookings) ListByStudent(_ context.Context, studentID uint64) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range m.items {
		if b.StudentID == studentID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBookings) ListActiveByRoomAndDate(_ context.Context, roomID uint64, date time.Time) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range m.items {
		if b.Status == model.BookingStatusActive && b.RoomID == roomID && b.Date.Equal(model.DateOnly(date)) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBookings) ListActiveByStudentAndDate(_ context.Context, studentID uint64, date time.Time) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range m.items {
		if b.Status == model.BookingStatusActive && b.StudentID == studentID && b.Date.Equal(model.DateOnly(date)) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBookings) CountActiveByRoom(_ context.Context, roomID uint64) (int, error) {
	n := 0
	for _, b := range m.items {
		if b.Status == model.BookingStatusActive && b.RoomID == roomID {
			n++
		}
	}
	return n, nil
}

func (m *memBookings) Update(_ context.Context, b *model.Booking) error {
	m.items[b.ID] = *b
	return nil
}

type recordingPublisher struct {
	created   []queue.BookingCreatedEvent
	cancelled []queue.BookingCancelledEvent
}

func (p *recordingPublisher) PublishBookingCreated(_ context.Context, ev queue.BookingCreatedEvent) error {
	p.created = append(p.created, ev)
	return nil
}

func (p *recordingPublisher) PublishBookingCancelled(_ context.Context, ev queue.BookingCancelledEvent) error {
	p.cancelled = append(p.cancelled, ev)
	return nil
}

// testEnv bundles a service wired to in-memory fakes with one
// registered student and one AVAILABLE room.
type testEnv struct {
	svc       *ReservationService
	students  *memStudents
	rooms     *memRooms
	bookings  *memBookings
	clock     *fakeClock
	publisher *recordingPublisher
	studentID uint64
	roomID    uint64
}

func newTestEnv(t *testing.T, now time.Time) *testEnv {
	t.Helper()
	students := newMemStudents()
	rooms := newMemRooms()
	bookings := newMemBookings()
	clock := &fakeClock{now: now}
	pub := &recordingPublisher{}
	svc := NewReservationService(students, rooms, bookings, clock, pub, zap.NewNop())

	ctx := context.Background()
	student, err := svc.RegisterStudent(ctx, "S-1001", "Ada Lovelace", nil)
	if err != nil {
		t.Fatalf("register student: %v", err)
	}
	room, err := svc.CreateRoom(ctx, "B-101", 8, nil)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	return &testEnv{
		svc:       svc,
		students:  students,
		rooms:     rooms,
		bookings:  bookings,
		clock:     clock,
		publisher: pub,
		studentID: student.ID,
		roomID:    room.ID,
	}
}
