package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/room-reservation/internal/model"
)

// StudentRepo provides CRUD operations for student records. Students
// are immutable after registration, so no update or delete methods
// exist. Lookups that find no row return (nil, nil) so the service
// layer can decide how absence is surfaced.
type StudentRepo struct {
	db *sql.DB
}

// NewStudentRepo returns a StudentRepo bound to the given database.
func NewStudentRepo(db *sql.DB) *StudentRepo { return &StudentRepo{db: db} }

// Insert stores a new student and populates the generated ID and
// CreatedAt on the provided value. A violation of the external_id
// uniqueness constraint is reported as ErrDuplicate.
func (r *StudentRepo) Insert(ctx context.Context, s *model.Student) error {
	const q = `INSERT INTO students (external_id, name, email) VALUES (?, ?, ?)`
	var email sql.NullString
	if s.Email != nil {
		email = sql.NullString{String: *s.Email, Valid: true}
	}
	result, err := r.db.ExecContext(ctx, q, s.ExternalID, s.Name, email)
	if err != nil {
		return translateErr(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	const sel = `SELECT created_at FROM students WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, s.ID).Scan(&s.CreatedAt)
}

// GetByID returns the student with the given primary key, or (nil, nil)
// when no such student exists.
func (r *StudentRepo) GetByID(ctx context.Context, id uint64) (*model.Student, error) {
	const q = `SELECT id, external_id, name, email, created_at FROM students WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

// GetByExternalID returns the student with the given institution-issued
// identifier, or (nil, nil) when no such student exists.
func (r *StudentRepo) GetByExternalID(ctx context.Context, externalID string) (*model.Student, error) {
	const q = `SELECT id, external_id, name, email, created_at FROM students WHERE external_id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, externalID))
}

// ListAll returns every registered student ordered by display name.
func (r *StudentRepo) ListAll(ctx context.Context) ([]model.Student, error) {
	const q = `SELECT id, external_id, name, email, created_at FROM students ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	students := make([]model.Student, 0)
	for rows.Next() {
		var s model.Student
		var email sql.NullString
		if err := rows.Scan(&s.ID, &s.ExternalID, &s.Name, &email, &s.CreatedAt); err != nil {
			return nil, err
		}
		if email.Valid {
			e := email.String
			s.Email = &e
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

func (r *StudentRepo) scanOne(row *sql.Row) (*model.Student, error) {
	var s model.Student
	var email sql.NullString
	err := row.Scan(&s.ID, &s.ExternalID, &s.Name, &email, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if email.Valid {
		e := email.String
		s.Email = &e
	}
	return &s, nil
}
