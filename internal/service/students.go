package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/repository"
)

// RegisterStudent validates and persists a new student. Students are
// immutable after registration.
func (s *ReservationService) RegisterStudent(ctx context.Context, externalID, name string, email *string) (*model.Student, error) {
	student := &model.Student{
		ExternalID: externalID,
		Name:       name,
		Email:      email,
	}
	if violations := student.Validate(); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	if err := s.students.Insert(ctx, student); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, validationf("a student with identification %q is already registered", externalID)
		}
		return nil, fmt.Errorf("insert student: %w", err)
	}
	s.logger.Info("student registered",
		zap.Uint64("student_id", student.ID),
		zap.String("external_id", student.ExternalID),
	)
	return student, nil
}

// FindStudentByExternalID resolves a student by their
// institution-issued identifier.
func (s *ReservationService) FindStudentByExternalID(ctx context.Context, externalID string) (*model.Student, error) {
	student, err := s.students.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	if student == nil {
		return nil, &NotFoundError{Resource: "student"}
	}
	return student, nil
}

// ListStudents returns all registered students ordered by name.
func (s *ReservationService) ListStudents(ctx context.Context) ([]model.Student, error) {
	return s.students.ListAll(ctx)
}
