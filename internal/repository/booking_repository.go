package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/room-reservation/internal/model"
)

// BookingRepo provides CRUD operations for bookings. Bookings are never
// deleted; cancellation is an update. Dates are stored in a DATE column
// and time ranges as smallint minutes since midnight, so no timezone
// conversion happens on either side of the driver.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, reference, student_id, room_id, booked_on, start_min, end_min, status, created_at, updated_at`

const dateFormat = "2006-01-02"

// Insert stores a new booking and populates the generated ID and
// timestamps on the provided value. The unique key over active
// (room_id, booked_on, start_min) rows is the last-resort guard against
// two requests racing past the conflict check; a violation surfaces as
// ErrDuplicate.
func (r *BookingRepo) Insert(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings (reference, student_id, room_id, booked_on, start_min, end_min, status)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q,
		b.Reference, b.StudentID, b.RoomID, b.Date.UTC().Format(dateFormat),
		b.Slot.StartMin, b.Slot.EndMin, string(b.Status),
	)
	if err != nil {
		return translateErr(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM bookings WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt, &b.UpdatedAt)
}

// GetByID returns the booking with the given primary key, or (nil, nil)
// when no such booking exists.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

// ListByRoom returns every booking for a room regardless of status,
// ordered by date then start time ascending (earliest first).
func (r *BookingRepo) ListByRoom(ctx context.Context, roomID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings
	           WHERE room_id = ? ORDER BY booked_on, start_min`
	return r.list(ctx, q, roomID)
}

// ListByStudent returns every booking made by a student regardless of
// status, ordered by date then start time descending (most recent
// first).
func (r *BookingRepo) ListByStudent(ctx context.Context, studentID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings
	           WHERE student_id = ? ORDER BY booked_on DESC, start_min DESC`
	return r.list(ctx, q, studentID)
}

// ListActiveByRoomAndDate returns the ACTIVE bookings for a room on a
// given day ordered by start time. This is the working set for both
// conflict detection and free-slot computation.
func (r *BookingRepo) ListActiveByRoomAndDate(ctx context.Context, roomID uint64, date time.Time) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings
	           WHERE room_id = ? AND booked_on = ? AND status = 'ACTIVE' ORDER BY start_min`
	return r.list(ctx, q, roomID, date.UTC().Format(dateFormat))
}

// ListActiveByStudentAndDate returns the ACTIVE bookings a student
// holds on a given day across all rooms, ordered by start time. Used to
// stop students double-booking themselves.
func (r *BookingRepo) ListActiveByStudentAndDate(ctx context.Context, studentID uint64, date time.Time) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings
	           WHERE student_id = ? AND booked_on = ? AND status = 'ACTIVE' ORDER BY start_min`
	return r.list(ctx, q, studentID, date.UTC().Format(dateFormat))
}

// CountActiveByRoom returns the number of ACTIVE bookings a room
// currently has. Feeds the room status recomputation and the deletion
// guard.
func (r *BookingRepo) CountActiveByRoom(ctx context.Context, roomID uint64) (int, error) {
	const q = `SELECT COUNT(*) FROM bookings WHERE room_id = ? AND status = 'ACTIVE'`
	var n int
	err := r.db.QueryRowContext(ctx, q, roomID).Scan(&n)
	return n, err
}

// Update persists the mutable fields of an existing booking. Only the
// status transitions in practice, but the full row is written to keep
// the statement in one place.
func (r *BookingRepo) Update(ctx context.Context, b *model.Booking) error {
	const q = `UPDATE bookings
	           SET student_id = ?, room_id = ?, booked_on = ?, start_min = ?, end_min = ?, status = ?
	           WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q,
		b.StudentID, b.RoomID, b.Date.UTC().Format(dateFormat),
		b.Slot.StartMin, b.Slot.EndMin, string(b.Status), b.ID,
	)
	return translateErr(err)
}

func (r *BookingRepo) list(ctx context.Context, q string, args ...any) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bookings := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func scanBooking(scan func(...any) error) (*model.Booking, error) {
	var b model.Booking
	var status string
	if err := scan(
		&b.ID, &b.Reference, &b.StudentID, &b.RoomID, &b.Date,
		&b.Slot.StartMin, &b.Slot.EndMin, &status, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	b.Status = model.BookingStatus(status)
	return &b, nil
}
