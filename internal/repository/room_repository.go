package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/room-reservation/internal/model"
)

// RoomRepo provides CRUD operations for rooms. The status column is
// written through SetStatus (the service's recomputation step) or
// Update (administrator edits); this package attaches no meaning to the
// value beyond persisting it.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo returns a RoomRepo bound to the given database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

const roomColumns = `id, name, capacity, status, description, created_at, updated_at`

// Insert stores a new room and populates the generated ID and
// timestamps on the provided value. A violation of the room name
// uniqueness constraint is reported as ErrDuplicate.
func (r *RoomRepo) Insert(ctx context.Context, room *model.Room) error {
	const q = `INSERT INTO rooms (name, capacity, status, description) VALUES (?, ?, ?, ?)`
	var desc sql.NullString
	if room.Description != nil {
		desc = sql.NullString{String: *room.Description, Valid: true}
	}
	result, err := r.db.ExecContext(ctx, q, room.Name, room.Capacity, string(room.Status), desc)
	if err != nil {
		return translateErr(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	room.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM rooms WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, room.ID).Scan(&room.CreatedAt, &room.UpdatedAt)
}

// GetByID returns the room with the given primary key, or (nil, nil)
// when no such room exists.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

// ListAll returns every room ordered by name.
func (r *RoomRepo) ListAll(ctx context.Context) ([]model.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms ORDER BY name`
	return r.list(ctx, q)
}

// ListAvailable returns only rooms whose status is AVAILABLE, ordered
// by name.
func (r *RoomRepo) ListAvailable(ctx context.Context) ([]model.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms WHERE status = 'AVAILABLE' ORDER BY name`
	return r.list(ctx, q)
}

// Update persists the mutable fields of an existing room. It returns
// false when no room with the given ID exists. Renaming onto an
// existing room name is reported as ErrDuplicate.
func (r *RoomRepo) Update(ctx context.Context, room *model.Room) (bool, error) {
	const q = `UPDATE rooms SET name = ?, capacity = ?, status = ?, description = ? WHERE id = ?`
	var desc sql.NullString
	if room.Description != nil {
		desc = sql.NullString{String: *room.Description, Valid: true}
	}
	result, err := r.db.ExecContext(ctx, q, room.Name, room.Capacity, string(room.Status), desc, room.ID)
	if err != nil {
		return false, translateErr(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete removes a room by ID and reports whether a row was deleted.
// The service layer guards against deleting rooms with active bookings
// before calling this.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	const q = `DELETE FROM rooms WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetStatus writes only the status column. Used by the service's
// availability recomputation after every booking mutation.
func (r *RoomRepo) SetStatus(ctx context.Context, id uint64, status model.RoomStatus) error {
	const q = `UPDATE rooms SET status = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, string(status), id)
	return err
}

func (r *RoomRepo) list(ctx context.Context, q string) ([]model.Room, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	rooms := make([]model.Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows.Scan)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, *room)
	}
	return rooms, rows.Err()
}

func (r *RoomRepo) scanOne(row *sql.Row) (*model.Room, error) {
	room, err := scanRoom(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return room, err
}

func scanRoom(scan func(...any) error) (*model.Room, error) {
	var room model.Room
	var status string
	var desc sql.NullString
	if err := scan(&room.ID, &room.Name, &room.Capacity, &status, &desc, &room.CreatedAt, &room.UpdatedAt); err != nil {
		return nil, err
	}
	room.Status = model.RoomStatus(status)
	if desc.Valid {
		d := desc.String
		room.Description = &d
	}
	return &room, nil
}
