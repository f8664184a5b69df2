// Package handler contains the HTTP layer. Handlers bind and validate
// request bodies, delegate to the reservation service and translate its
// error kinds into status codes. All domain decisions live in the
// service; nothing here touches the database directly.
package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/service"
)

// validate is shared by all handlers; validator.Validate is safe for
// concurrent use.
var validate = validator.New()

const dateLayout = "2006-01-02"

// respondServiceError maps the service error taxonomy onto HTTP status
// codes. Unknown errors become opaque 500s so internal detail never
// leaks to clients.
func respondServiceError(c echo.Context, err error) error {
	switch e := err.(type) {
	case *service.NotFoundError:
		return c.JSON(http.StatusNotFound, echo.Map{"error": e.Error()})
	case *service.ValidationError:
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":      "validation failed",
			"violations": e.Violations,
		})
	case *service.ConflictError:
		return c.JSON(http.StatusConflict, echo.Map{"error": e.Error()})
	case *service.PolicyDeniedError:
		return c.JSON(http.StatusForbidden, echo.Map{"error": e.Error()})
	case *service.StateError:
		return c.JSON(http.StatusConflict, echo.Map{"error": e.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// pathID parses a positive numeric :id path parameter.
func pathID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// callerID extracts the authenticated student's id placed in context by
// the JWT middleware.
func callerID(c echo.Context) (uint64, bool) {
	id, ok := c.Get("student_id").(uint64)
	return id, ok && id > 0
}

// queryDate parses the mandatory ?date=YYYY-MM-DD query parameter.
func queryDate(c echo.Context) (time.Time, bool) {
	d, err := time.Parse(dateLayout, c.QueryParam("date"))
	return d, err == nil
}

// roomView is the JSON shape of a room.
type roomView struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Capacity    uint32  `json:"capacity"`
	Status      string  `json:"status"`
	Description *string `json:"description,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func newRoomView(r *model.Room) roomView {
	return roomView{
		ID:          r.ID,
		Name:        r.Name,
		Capacity:    r.Capacity,
		Status:      string(r.Status),
		Description: r.Description,
		CreatedAt:   r.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   r.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// studentView is the JSON shape of a student.
type studentView struct {
	ID         uint64  `json:"id"`
	ExternalID string  `json:"external_id"`
	Name       string  `json:"name"`
	Email      *string `json:"email,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

func newStudentView(s *model.Student) studentView {
	return studentView{
		ID:         s.ID,
		ExternalID: s.ExternalID,
		Name:       s.Name,
		Email:      s.Email,
		CreatedAt:  s.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// bookingView is the JSON shape of a booking. Times render as "HH:MM"
// to match the request format.
type bookingView struct {
	ID        uint64 `json:"id"`
	Reference string `json:"reference"`
	StudentID uint64 `json:"student_id"`
	RoomID    uint64 `json:"room_id"`
	Date      string `json:"date"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func newBookingView(b *model.Booking) bookingView {
	return bookingView{
		ID:        b.ID,
		Reference: b.Reference,
		StudentID: b.StudentID,
		RoomID:    b.RoomID,
		Date:      b.Date.Format(dateLayout),
		Start:     model.FormatMinute(b.Slot.StartMin),
		End:       model.FormatMinute(b.Slot.EndMin),
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: b.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func bookingViews(bs []model.Booking) []bookingView {
	out := make([]bookingView, 0, len(bs))
	for i := range bs {
		out = append(out, newBookingView(&bs[i]))
	}
	return out
}
