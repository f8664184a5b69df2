package model

import (
	"strings"
	"time"
)

// MaxExternalIDLen bounds the institution-issued student identifier.
const MaxExternalIDLen = 20

// Student represents a registered student as stored in the `students`
// table. Students are created once at registration and are immutable
// afterwards; the service never deletes them.
//
// Fields:
//  ID         – primary key identifier.
//  ExternalID – institution-issued identifier, unique, at most 20 chars.
//  Name       – display name.
//  Email      – optional contact address.
//  CreatedAt  – registration timestamp.
type Student struct {
	ID         uint64    // students.id
	ExternalID string    // students.external_id
	Name       string    // students.name
	Email      *string   // students.email (nullable)
	CreatedAt  time.Time // students.created_at
}

// Validate returns structural rule violations for the student. An empty
// slice means the student is valid.
func (s *Student) Validate() []string {
	var violations []string
	if strings.TrimSpace(s.ExternalID) == "" {
		violations = append(violations, "student identification is required")
	}
	if strings.TrimSpace(s.Name) == "" {
		violations = append(violations, "student name is required")
	}
	if len(s.ExternalID) > MaxExternalIDLen {
		violations = append(violations, "student identification cannot exceed 20 characters")
	}
	return violations
}
