// Package queue defines booking lifecycle events exchanged over the
// message broker, plus the publisher and the background consumer.
package queue

// Queue names used on the broker. Both queues are declared durable by
// publisher and consumer alike so declaration stays idempotent.
const (
	BookingCreatedQueue   = "booking.created"
	BookingCancelledQueue = "booking.cancelled"
)

// BookingCreatedEvent is published after a booking has been persisted
// and the room status recomputed. It carries enough context for
// downstream consumers to log or notify without querying the primary
// database.
type BookingCreatedEvent struct {
	BookingID         uint64 `json:"booking_id"`
	Reference         string `json:"reference"`
	StudentID         uint64 `json:"student_id"`
	StudentExternalID string `json:"student_external_id"`
	RoomID            uint64 `json:"room_id"`
	RoomName          string `json:"room_name"`
	Date              string `json:"date"`  // "2006-01-02"
	Start             string `json:"start"` // "HH:MM"
	End               string `json:"end"`   // "HH:MM"
	CreatedAt         string `json:"created_at"`
}

// BookingCancelledEvent is published after a booking has been
// cancelled, whether by the student or by an administrator override.
type BookingCancelledEvent struct {
	BookingID   uint64 `json:"booking_id"`
	Reference   string `json:"reference"`
	RoomID      uint64 `json:"room_id"`
	Date        string `json:"date"`
	Start       string `json:"start"`
	End         string `json:"end"`
	CancelledBy string `json:"cancelled_by"` // "STUDENT" or "ADMIN"
	CancelledAt string `json:"cancelled_at"`
}
