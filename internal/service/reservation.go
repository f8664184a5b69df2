package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/queue"
	"github.com/iliyamo/room-reservation/internal/repository"
)

// ReservationService is the orchestrator. It owns all student, room and
// booking lookups, applies the validation and conflict rules, and
// keeps each room's derived status consistent with its booking set:
// every path that creates or cancels a booking re-runs the status
// recomputation before reporting success.
type ReservationService struct {
	students  StudentStore
	rooms     RoomStore
	bookings  BookingStore
	policy    CancellationPolicy
	clock     Clock
	publisher EventPublisher
	logger    *zap.Logger
}

// NewReservationService wires the orchestrator. publisher may be nil
// when no broker is configured; events are then skipped.
func NewReservationService(
	students StudentStore,
	rooms RoomStore,
	bookings BookingStore,
	clock Clock,
	publisher EventPublisher,
	logger *zap.Logger,
) *ReservationService {
	return &ReservationService{
		students:  students,
		rooms:     rooms,
		bookings:  bookings,
		policy:    NewCancellationPolicy(clock),
		clock:     clock,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateBooking validates the request and persists a new ACTIVE
// booking. Preconditions are checked in order, failing fast on the
// first violation: student exists, room exists, room is not under
// maintenance, time range valid, date not past, no room-level conflict,
// no student-level conflict. A RESERVED room stays open to further
// bookings in free slots; the conflict scan decides clashes. On success
// the room's status is re-derived before the booking is returned.
func (s *ReservationService) CreateBooking(ctx context.Context, studentID, roomID uint64, date time.Time, slot model.TimeRange) (*model.Booking, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	if student == nil {
		return nil, &NotFoundError{Resource: "student"}
	}

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}
	if room == nil {
		return nil, &NotFoundError{Resource: "room"}
	}
	if !room.IsBookable() {
		return nil, &StateError{Reason: fmt.Sprintf("room %q is under maintenance and cannot be booked", room.Name)}
	}

	booking := &model.Booking{
		Reference: uuid.NewString(),
		StudentID: studentID,
		RoomID:    roomID,
		Date:      model.DateOnly(date),
		Slot:      slot,
		Status:    model.BookingStatusActive,
	}
	if violations := booking.Validate(s.clock.Now()); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	roomClash, err := s.hasRoomConflict(ctx, roomID, booking.Date, slot, 0)
	if err != nil {
		return nil, err
	}
	if roomClash {
		return nil, &ConflictError{Scope: "room"}
	}
	studentClash, err := s.hasStudentConflict(ctx, studentID, booking.Date, slot, 0)
	if err != nil {
		return nil, err
	}
	if studentClash {
		return nil, &ConflictError{Scope: "student"}
	}

	if err := s.bookings.Insert(ctx, booking); err != nil {
		// Two requests can race past the conflict check; the unique
		// slot key in the gateway catches the loser.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &ConflictError{Scope: "room"}
		}
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	if err := s.recomputeRoomStatus(ctx, roomID); err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.Uint64("booking_id", booking.ID),
		zap.Uint64("student_id", studentID),
		zap.Uint64("room_id", roomID),
		zap.String("date", booking.Date.Format("2006-01-02")),
		zap.String("slot", slot.String()),
	)
	s.publishCreated(ctx, booking, student, room)
	return booking, nil
}

// QueryAvailability reports whether the room can be booked for the
// given date and range: the room must exist and not be under
// maintenance, the date must not be past, the range must be valid and
// free of conflicts. RESERVED only means other bookings exist; it does
// not make the room unavailable for a non-overlapping range.
func (s *ReservationService) QueryAvailability(ctx context.Context, roomID uint64, date time.Time, slot model.TimeRange) (bool, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return false, fmt.Errorf("get room: %w", err)
	}
	if room == nil {
		return false, &NotFoundError{Resource: "room"}
	}
	if !room.IsBookable() {
		return false, nil
	}
	if model.DateOnly(date).Before(model.DateOnly(s.clock.Now())) {
		return false, nil
	}
	if len(slot.Validate()) > 0 {
		return false, nil
	}
	clash, err := s.hasRoomConflict(ctx, roomID, model.DateOnly(date), slot, 0)
	if err != nil {
		return false, err
	}
	return !clash, nil
}

// CancelBooking cancels an ACTIVE booking on behalf of the given actor
// role. The booking must exist, be ACTIVE and not dated in the past;
// the cancellation policy then decides whether the actor may cancel.
// On success the room's status is re-derived.
func (s *ReservationService) CancelBooking(ctx context.Context, bookingID uint64, actorIsAdmin bool) error {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return &NotFoundError{Resource: "booking"}
	}
	if booking.Status != model.BookingStatusActive {
		return &StateError{Reason: fmt.Sprintf("booking is %s and cannot be cancelled", booking.Status)}
	}
	now := s.clock.Now()
	if model.DateOnly(booking.Date).Before(model.DateOnly(now)) {
		return &StateError{Reason: "past bookings cannot be cancelled"}
	}

	if actorIsAdmin {
		if !s.policy.CanCancelAsAdministrator(booking) {
			return &PolicyDeniedError{Reason: "administrator cancellation refused"}
		}
	} else if !s.policy.CanCancelAsStudent(booking) {
		return &PolicyDeniedError{Reason: "bookings cannot be cancelled less than 1 hour before start"}
	}

	booking.Cancel(now)
	if err := s.bookings.Update(ctx, booking); err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	if err := s.recomputeRoomStatus(ctx, booking.RoomID); err != nil {
		return err
	}

	s.logger.Info("booking cancelled",
		zap.Uint64("booking_id", booking.ID),
		zap.Uint64("room_id", booking.RoomID),
		zap.Bool("by_admin", actorIsAdmin),
	)
	s.publishCancelled(ctx, booking, actorIsAdmin)
	return nil
}

// GetBooking returns a single booking by ID.
func (s *ReservationService) GetBooking(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, &NotFoundError{Resource: "booking"}
	}
	return booking, nil
}

// ListBookingsForStudent returns the student's bookings, most recent
// first.
func (s *ReservationService) ListBookingsForStudent(ctx context.Context, studentID uint64) ([]model.Booking, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	if student == nil {
		return nil, &NotFoundError{Resource: "student"}
	}
	return s.bookings.ListByStudent(ctx, studentID)
}

// ListBookingsForRoom returns the room's bookings, earliest first.
func (s *ReservationService) ListBookingsForRoom(ctx context.Context, roomID uint64) ([]model.Booking, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}
	if room == nil {
		return nil, &NotFoundError{Resource: "room"}
	}
	return s.bookings.ListByRoom(ctx, roomID)
}

// recomputeRoomStatus derives the room's status from its active
// booking set: at least one ACTIVE booking means RESERVED, none means
// AVAILABLE. MAINTENANCE is sticky and never overwritten here; an
// administrator must clear it explicitly through EditRoom.
func (s *ReservationService) recomputeRoomStatus(ctx context.Context, roomID uint64) error {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return fmt.Errorf("get room for recomputation: %w", err)
	}
	if room == nil || room.Status == model.RoomStatusMaintenance {
		return nil
	}
	n, err := s.bookings.CountActiveByRoom(ctx, roomID)
	if err != nil {
		return fmt.Errorf("count active bookings: %w", err)
	}
	want := model.RoomStatusAvailable
	if n > 0 {
		want = model.RoomStatusReserved
	}
	if room.Status == want {
		return nil
	}
	if err := s.rooms.SetStatus(ctx, roomID, want); err != nil {
		return fmt.Errorf("set room status: %w", err)
	}
	return nil
}

func (s *ReservationService) publishCreated(ctx context.Context, b *model.Booking, student *model.Student, room *model.Room) {
	if s.publisher == nil {
		return
	}
	ev := queue.BookingCreatedEvent{
		BookingID:         b.ID,
		Reference:         b.Reference,
		StudentID:         b.StudentID,
		StudentExternalID: student.ExternalID,
		RoomID:            b.RoomID,
		RoomName:          room.Name,
		Date:              b.Date.Format("2006-01-02"),
		Start:             model.FormatMinute(b.Slot.StartMin),
		End:               model.FormatMinute(b.Slot.EndMin),
		CreatedAt:         s.clock.Now().Format(time.RFC3339),
	}
	if err := s.publisher.PublishBookingCreated(ctx, ev); err != nil {
		s.logger.Warn("publish booking.created failed", zap.Uint64("booking_id", b.ID), zap.Error(err))
	}
}

func (s *ReservationService) publishCancelled(ctx context.Context, b *model.Booking, byAdmin bool) {
	if s.publisher == nil {
		return
	}
	actor := "STUDENT"
	if byAdmin {
		actor = "ADMIN"
	}
	ev := queue.BookingCancelledEvent{
		BookingID:   b.ID,
		Reference:   b.Reference,
		RoomID:      b.RoomID,
		Date:        b.Date.Format("2006-01-02"),
		Start:       model.FormatMinute(b.Slot.StartMin),
		End:         model.FormatMinute(b.Slot.EndMin),
		CancelledBy: actor,
		CancelledAt: s.clock.Now().Format(time.RFC3339),
	}
	if err := s.publisher.PublishBookingCancelled(ctx, ev); err != nil {
		s.logger.Warn("publish booking.cancelled failed", zap.Uint64("booking_id", b.ID), zap.Error(err))
	}
}
