package model

import "time"

// BookingStatus enumerates the lifecycle state of a booking. Only
// ACTIVE bookings count towards conflicts and room availability.
// COMPLETED exists in the schema for an external time-based sweep; this
// service never assigns it.
type BookingStatus string

const (
	BookingStatusActive    BookingStatus = "ACTIVE"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
)

// Booking is the aggregate root of a reservation: who, which room,
// which date and which time range. It references Student and Room by
// identity only. Bookings are never physically deleted; cancellation
// flips the status and stamps UpdatedAt.
//
// Fields:
//  ID        – primary key identifier.
//  Reference – UUID attached to published events for correlation.
//  StudentID – student who holds the booking.
//  RoomID    – room being reserved.
//  Date      – calendar day of the booking (midnight UTC).
//  Slot      – half-open time range within the day.
//  Status    – lifecycle state, see BookingStatus.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Booking struct {
	ID        uint64        // bookings.id
	Reference string        // bookings.reference
	StudentID uint64        // bookings.student_id
	RoomID    uint64        // bookings.room_id
	Date      time.Time     // bookings.booked_on
	Slot      TimeRange     // bookings.start_min / bookings.end_min
	Status    BookingStatus // bookings.status
	CreatedAt time.Time     // bookings.created_at
	UpdatedAt time.Time     // bookings.updated_at
}

// DateOnly truncates t to its calendar day in UTC. All date
// comparisons in the service go through this helper so that bookings
// made late in the day still count as "today".
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// StartAt returns the absolute start instant of the booking, combining
// its date with the slot's start minute.
func (b *Booking) StartAt() time.Time {
	return DateOnly(b.Date).Add(time.Duration(b.Slot.StartMin) * time.Minute)
}

// Validate returns rule violations for the booking given the current
// day. The date check runs first; time-range validation is delegated to
// TimeRange.Validate and its violations are appended in order.
func (b *Booking) Validate(now time.Time) []string {
	var violations []string
	if DateOnly(b.Date).Before(DateOnly(now)) {
		violations = append(violations, "bookings cannot be made for past dates")
	}
	return append(violations, b.Slot.Validate()...)
}

// Cancel marks the booking cancelled and stamps the update time. It
// performs no policy check; the reservation service decides whether the
// acting party may cancel before calling this.
func (b *Booking) Cancel(now time.Time) {
	b.Status = BookingStatusCancelled
	b.UpdatedAt = now.UTC()
}
