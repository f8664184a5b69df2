package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/service"
)

// BookingHandler serves the student booking endpoints and the
// administrator's cancellation override. The acting student is always
// taken from the access token, never from the request body.
type BookingHandler struct {
	svc *service.ReservationService
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(svc *service.ReservationService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

type createBookingRequest struct {
	RoomID uint64 `json:"room_id" validate:"required,gt=0"`
	Date   string `json:"date" validate:"required"`
	Start  string `json:"start" validate:"required"`
	End    string `json:"end" validate:"required"`
}

// Create handles POST /v1/bookings. Dates use YYYY-MM-DD, times use
// HH:MM. Returns 201 with the created booking, 409 on slot conflicts.
func (h *BookingHandler) Create(c echo.Context) error {
	studentID, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	start, err := model.ParseMinute(req.Start)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start must be HH:MM"})
	}
	end, err := model.ParseMinute(req.End)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end must be HH:MM"})
	}

	booking, err := h.svc.CreateBooking(c.Request().Context(), studentID, req.RoomID, date, model.TimeRange{StartMin: start, EndMin: end})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": newBookingView(booking)})
}

// Cancel handles DELETE /v1/bookings/:id for students. The one-hour
// notice policy applies; bookings of other students are hidden behind a
// 404.
func (h *BookingHandler) Cancel(c echo.Context) error {
	studentID, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	booking, err := h.svc.GetBooking(c.Request().Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	if booking.StudentID != studentID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	if err := h.svc.CancelBooking(c.Request().Context(), id, false); err != nil {
		return respondServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AdminCancel handles DELETE /v1/admin/bookings/:id. Administrators may
// cancel any active booking at any time before its day has passed.
func (h *BookingHandler) AdminCancel(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	if err := h.svc.CancelBooking(c.Request().Context(), id, true); err != nil {
		return respondServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Get handles GET /v1/bookings/:id. Students only see their own
// bookings; administrators see all.
func (h *BookingHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	booking, err := h.svc.GetBooking(c.Request().Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	if role, _ := c.Get("role").(string); role != "ADMIN" {
		studentID, ok := callerID(c)
		if !ok || booking.StudentID != studentID {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"item": newBookingView(booking)})
}

// ListMine handles GET /v1/my-bookings. It returns the caller's
// bookings, most recent first.
func (h *BookingHandler) ListMine(c echo.Context) error {
	studentID, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookings, err := h.svc.ListBookingsForStudent(c.Request().Context(), studentID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": bookingViews(bookings)})
}
