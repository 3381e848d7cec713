package profile

import "context"

// StudentRecord is the raw current-student record served by the backend.
// Any field may be empty; absence is not an error.
type StudentRecord struct {
	Name        string
	Sex         string
	PhoneNumber string

	// URL is the avatar path relative to the API base URL.
	URL string

	Details []StudentDetails
}

// StudentDetails holds the program and ability fields of a student.
type StudentDetails struct {
	StudentID string
	Age       string
	Email     string
	School    string
	Major     string
	Grade     string
	ClassInfo string

	StudyAbility    float64
	ThinkingAbility float64
	CodeAbility     float64
}

// DefaultDetails returns the all-empty details record used when the backend
// sends no details list, so downstream code never checks for nil.
func DefaultDetails() StudentDetails {
	return StudentDetails{}
}

// PrimaryDetails returns the first details entry or DefaultDetails.
func (r *StudentRecord) PrimaryDetails() StudentDetails {
	if r == nil || len(r.Details) == 0 {
		return DefaultDetails()
	}
	return r.Details[0]
}

// Abilities extracts the three ability scores.
func (d StudentDetails) Abilities() Abilities {
	return Abilities{
		Code:     d.CodeAbility,
		Study:    d.StudyAbility,
		Thinking: d.ThinkingAbility,
	}
}

// RecordSource fetches the current student's record.
// Implementations return an error matching shared.ErrNotFound when the
// backend has no record for the session.
type RecordSource interface {
	CurrentStudent(ctx context.Context, token string) (*StudentRecord, error)
}
