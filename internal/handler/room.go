package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/service"
)

// RoomHandler serves the public room browse endpoints and the
// administrator's inventory management.
type RoomHandler struct {
	svc *service.ReservationService
}

// NewRoomHandler constructs a RoomHandler.
func NewRoomHandler(svc *service.ReservationService) *RoomHandler {
	return &RoomHandler{svc: svc}
}

// List handles GET /v1/rooms. With ?available=true only bookable rooms
// are returned.
func (h *RoomHandler) List(c echo.Context) error {
	availableOnly := c.QueryParam("available") == "true"
	rooms, err := h.svc.ListRooms(c.Request().Context(), availableOnly)
	if err != nil {
		return respondServiceError(c, err)
	}
	items := make([]roomView, 0, len(rooms))
	for i := range rooms {
		items = append(items, newRoomView(&rooms[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/rooms/:id.
func (h *RoomHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	room, err := h.svc.GetRoom(c.Request().Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": newRoomView(room)})
}

// Slots handles GET /v1/rooms/:id/slots?date=YYYY-MM-DD. It returns the
// free half-hour windows for the room on that day.
func (h *RoomHandler) Slots(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	date, ok := queryDate(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date is required (YYYY-MM-DD)"})
	}
	seq, err := h.svc.AvailableSlots(c.Request().Context(), id, date)
	if err != nil {
		return respondServiceError(c, err)
	}
	slots := make([]model.TimeSlot, 0, 24)
	for slot := range seq {
		slots = append(slots, slot)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"date":  date.Format(dateLayout),
		"slots": slots,
	})
}

// Availability handles GET /v1/rooms/:id/availability?date=&start=&end=.
// It answers whether the exact range can currently be booked.
func (h *RoomHandler) Availability(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	date, ok := queryDate(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date is required (YYYY-MM-DD)"})
	}
	start, err := model.ParseMinute(c.QueryParam("start"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start must be HH:MM"})
	}
	end, err := model.ParseMinute(c.QueryParam("end"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end must be HH:MM"})
	}

	free, err := h.svc.QueryAvailability(c.Request().Context(), id, date, model.TimeRange{StartMin: start, EndMin: end})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"room_id":   id,
		"date":      date.Format(dateLayout),
		"start":     model.FormatMinute(start),
		"end":       model.FormatMinute(end),
		"available": free,
	})
}

type createRoomRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Capacity    uint32  `json:"capacity" validate:"required,gt=0"`
	Description *string `json:"description"`
}

// Create handles POST /v1/admin/rooms.
func (h *RoomHandler) Create(c echo.Context) error {
	var req createRoomRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	room, err := h.svc.CreateRoom(c.Request().Context(), req.Name, req.Capacity, req.Description)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": newRoomView(room)})
}

type editRoomRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Capacity    *uint32 `json:"capacity" validate:"omitempty,gt=0"`
	Description *string `json:"description"`
	Status      *string `json:"status" validate:"omitempty,oneof=AVAILABLE RESERVED MAINTENANCE"`
}

// Edit handles PATCH /v1/admin/rooms/:id. Absent fields are left
// unchanged. Status accepts MAINTENANCE, or AVAILABLE to clear it.
func (h *RoomHandler) Edit(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var req editRoomRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	edit := service.RoomEdit{
		Name:        req.Name,
		Capacity:    req.Capacity,
		Description: req.Description,
	}
	if req.Status != nil {
		st := model.RoomStatus(*req.Status)
		edit.Status = &st
	}
	room, err := h.svc.EditRoom(c.Request().Context(), id, edit)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": newRoomView(room)})
}

// Delete handles DELETE /v1/admin/rooms/:id. Rooms with active bookings
// cannot be deleted.
func (h *RoomHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	if err := h.svc.DeleteRoom(c.Request().Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Bookings handles GET /v1/admin/rooms/:id/bookings. It returns the
// room's full booking history, earliest first.
func (h *RoomHandler) Bookings(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	bookings, err := h.svc.ListBookingsForRoom(c.Request().Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": bookingViews(bookings)})
}
