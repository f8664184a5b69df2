package service

import (
	"context"
	"time"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/queue"
)

// The store interfaces below describe exactly what the orchestrator
// needs from the persistence gateway. The MySQL repositories in
// internal/repository satisfy them; tests substitute in-memory fakes.
// Get-style lookups return (nil, nil) when nothing matches.

// StudentStore persists student records.
type StudentStore interface {
	Insert(ctx context.Context, s *model.Student) error
	GetByID(ctx context.Context, id uint64) (*model.Student, error)
	GetByExternalID(ctx context.Context, externalID string) (*model.Student, error)
	ListAll(ctx context.Context) ([]model.Student, error)
}

// RoomStore persists room records.
type RoomStore interface {
	Insert(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id uint64) (*model.Room, error)
	ListAll(ctx context.Context) ([]model.Room, error)
	ListAvailable(ctx context.Context) ([]model.Room, error)
	Update(ctx context.Context, room *model.Room) (bool, error)
	Delete(ctx context.Context, id uint64) (bool, error)
	SetStatus(ctx context.Context, id uint64, status model.RoomStatus) error
}

// BookingStore persists booking records. List methods honour the
// ordering contracts of the gateway: room listings ascending by
// (date, start), student listings descending.
type BookingStore interface {
	Insert(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	ListByRoom(ctx context.Context, roomID uint64) ([]model.Booking, error)
	ListByStudent(ctx context.Context, studentID uint64) ([]model.Booking, error)
	ListActiveByRoomAndDate(ctx context.Context, roomID uint64, date time.Time) ([]model.Booking, error)
	ListActiveByStudentAndDate(ctx context.Context, studentID uint64, date time.Time) ([]model.Booking, error)
	CountActiveByRoom(ctx context.Context, roomID uint64) (int, error)
	Update(ctx context.Context, b *model.Booking) error
}

// EventPublisher emits booking lifecycle events. Publishing is
// best-effort: the orchestrator logs failures and still reports the
// operation as successful.
type EventPublisher interface {
	PublishBookingCreated(ctx context.Context, ev queue.BookingCreatedEvent) error
	PublishBookingCancelled(ctx context.Context, ev queue.BookingCancelledEvent) error
}

// Clock abstracts the current time so policy and validation rules can
// be tested against a fixed moment.
type Clock interface {
	Now() time.Time
}

// RealClock is the production Clock.
type RealClock struct{}

// Now returns the current UTC time.
func (RealClock) Now() time.Time { return time.Now().UTC() }
