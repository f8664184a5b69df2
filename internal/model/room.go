package model

import "time"

// RoomStatus enumerates the availability state of a room as stored in
// the `rooms` table. AVAILABLE and RESERVED are derived values that the
// reservation service recomputes from the set of active bookings;
// MAINTENANCE is set directly by an administrator and blocks all new
// bookings until explicitly cleared.
type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "AVAILABLE"
	RoomStatusReserved    RoomStatus = "RESERVED"
	RoomStatusMaintenance RoomStatus = "MAINTENANCE"
)

// Valid reports whether s is one of the three enumerated statuses.
func (s RoomStatus) Valid() bool {
	switch s {
	case RoomStatusAvailable, RoomStatusReserved, RoomStatusMaintenance:
		return true
	}
	return false
}

// Room represents a bookable room record as stored in the `rooms`
// table. Each field corresponds to a column.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – unique room name (e.g. "B-101").
//  Capacity    – number of seats, always greater than zero.
//  Status      – derived availability state, see RoomStatus.
//  Description – optional free-text description.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Room struct {
	ID          uint64     // rooms.id
	Name        string     // rooms.name
	Capacity    uint32     // rooms.capacity
	Status      RoomStatus // rooms.status
	Description *string    // rooms.description (nullable)
	CreatedAt   time.Time  // rooms.created_at
	UpdatedAt   time.Time  // rooms.updated_at
}

// IsBookable reports whether the room accepts new bookings at all.
// RESERVED is a derived display state (the room holds at least one
// active booking somewhere) and does not block further bookings; the
// conflict detector arbitrates clashes per slot. Only MAINTENANCE
// closes the room outright.
func (r *Room) IsBookable() bool { return r.Status != RoomStatusMaintenance }

// Validate returns structural rule violations for the room. An empty
// slice means the room is valid.
func (r *Room) Validate() []string {
	var violations []string
	if r.Name == "" {
		violations = append(violations, "room name is required")
	}
	if r.Capacity == 0 {
		violations = append(violations, "capacity must be greater than 0")
	}
	if !r.Status.Valid() {
		violations = append(violations, "unknown room status")
	}
	return violations
}
