package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/repository"
)

// Room inventory management. Only administrators reach these through
// the HTTP layer. Status handling is deliberately narrow: MAINTENANCE
// is the only status an administrator may set directly, and clearing it
// hands the room back to the derived AVAILABLE/RESERVED pair.

// RoomEdit carries the optional fields of an EditRoom request. Nil
// fields are left untouched.
type RoomEdit struct {
	Name        *string
	Capacity    *uint32
	Description *string
	Status      *model.RoomStatus
}

// CreateRoom validates and persists a new room with AVAILABLE status.
func (s *ReservationService) CreateRoom(ctx context.Context, name string, capacity uint32, description *string) (*model.Room, error) {
	room := &model.Room{
		Name:        name,
		Capacity:    capacity,
		Status:      model.RoomStatusAvailable,
		Description: description,
	}
	if violations := room.Validate(); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	if err := s.rooms.Insert(ctx, room); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, validationf("a room named %q already exists", name)
		}
		return nil, fmt.Errorf("insert room: %w", err)
	}
	s.logger.Info("room created", zap.Uint64("room_id", room.ID), zap.String("name", room.Name))
	return room, nil
}

// GetRoom returns a single room by ID.
func (s *ReservationService) GetRoom(ctx context.Context, roomID uint64) (*model.Room, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}
	if room == nil {
		return nil, &NotFoundError{Resource: "room"}
	}
	return room, nil
}

// ListRooms returns all rooms, or only bookable ones when availableOnly
// is set.
func (s *ReservationService) ListRooms(ctx context.Context, availableOnly bool) ([]model.Room, error) {
	if availableOnly {
		return s.rooms.ListAvailable(ctx)
	}
	return s.rooms.ListAll(ctx)
}

// EditRoom applies an administrator edit. AVAILABLE and RESERVED are
// derived values, so the only direct status writes permitted are
// entering MAINTENANCE and leaving it (expressed as AVAILABLE, after
// which the status is recomputed from the booking set).
func (s *ReservationService) EditRoom(ctx context.Context, roomID uint64, edit RoomEdit) (*model.Room, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}
	if room == nil {
		return nil, &NotFoundError{Resource: "room"}
	}

	leavingMaintenance := false
	if edit.Status != nil && *edit.Status != room.Status {
		switch {
		case *edit.Status == model.RoomStatusMaintenance:
			room.Status = model.RoomStatusMaintenance
		case *edit.Status == model.RoomStatusAvailable && room.Status == model.RoomStatusMaintenance:
			room.Status = model.RoomStatusAvailable
			leavingMaintenance = true
		default:
			return nil, validationf("room status %s cannot be set directly; it is derived from bookings", *edit.Status)
		}
	}
	if edit.Name != nil {
		room.Name = *edit.Name
	}
	if edit.Capacity != nil {
		room.Capacity = *edit.Capacity
	}
	if edit.Description != nil {
		room.Description = edit.Description
	}
	if violations := room.Validate(); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	ok, err := s.rooms.Update(ctx, room)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, validationf("a room named %q already exists", room.Name)
		}
		return nil, fmt.Errorf("update room: %w", err)
	}
	if !ok {
		return nil, &NotFoundError{Resource: "room"}
	}
	if leavingMaintenance {
		if err := s.recomputeRoomStatus(ctx, roomID); err != nil {
			return nil, err
		}
		return s.GetRoom(ctx, roomID)
	}
	s.logger.Info("room updated", zap.Uint64("room_id", room.ID), zap.String("status", string(room.Status)))
	return room, nil
}

// DeleteRoom removes a room that has no active bookings.
func (s *ReservationService) DeleteRoom(ctx context.Context, roomID uint64) error {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return fmt.Errorf("get room: %w", err)
	}
	if room == nil {
		return &NotFoundError{Resource: "room"}
	}
	n, err := s.bookings.CountActiveByRoom(ctx, roomID)
	if err != nil {
		return fmt.Errorf("count active bookings: %w", err)
	}
	if n > 0 {
		return &StateError{Reason: fmt.Sprintf("room has %d active booking(s) and cannot be deleted", n)}
	}
	ok, err := s.rooms.Delete(ctx, roomID)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	if !ok {
		return &NotFoundError{Resource: "room"}
	}
	s.logger.Info("room deleted", zap.Uint64("room_id", roomID), zap.String("name", room.Name))
	return nil
}
