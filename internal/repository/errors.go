// Package repository implements the persistence gateway over MySQL.
// Each repository wraps a *sql.DB and exchanges whole model values with
// the service layer; no raw rows escape this package. Sentinel errors
// defined here let callers distinguish failure scenarios without
// inspecting driver-specific error types.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrDuplicate is returned when an insert or update violates one of the
// uniqueness constraints the gateway enforces: students.external_id,
// rooms.name, and the active-booking slot key on
// (room_id, booked_on, start_min). The last one is the database-level
// guard against a check-then-insert race double-booking a room.
var ErrDuplicate = errors.New("duplicate entry")

// mysqlDuplicateEntry is the MySQL error number for a unique key
// violation (ER_DUP_ENTRY).
const mysqlDuplicateEntry = 1062

// translateErr maps driver errors onto package sentinels. Unique key
// violations become ErrDuplicate; everything else passes through.
func translateErr(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
		return ErrDuplicate
	}
	return err
}
