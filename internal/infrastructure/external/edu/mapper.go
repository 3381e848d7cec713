package edu

import (
	"strings"

	"github.com/nuemind/student-profile/internal/domain/profile"
)

// StudentFromDTO converts the wire record into the domain record.
// A nil DTO maps to nil.
func StudentFromDTO(dto *StudentDTO) *profile.StudentRecord {
	if dto == nil {
		return nil
	}

	record := &profile.StudentRecord{
		Name:        string(dto.Name),
		Sex:         strings.TrimSpace(string(dto.Sex)),
		PhoneNumber: string(dto.PhoneNumber),
		URL:         string(dto.URL),
	}

	if len(dto.Details) > 0 {
		record.Details = make([]profile.StudentDetails, 0, len(dto.Details))
		for _, d := range dto.Details {
			record.Details = append(record.Details, detailsFromDTO(d))
		}
	}

	return record
}

func detailsFromDTO(d StudentDetailsDTO) profile.StudentDetails {
	return profile.StudentDetails{
		StudentID:       string(d.StudentID),
		Age:             string(d.Age),
		Email:           string(d.Email),
		School:          string(d.School),
		Major:           string(d.Major),
		Grade:           string(d.Grade),
		ClassInfo:       string(d.ClassInfo),
		StudyAbility:    float64(d.StudyAbility),
		ThinkingAbility: float64(d.ThinkingAbility),
		CodeAbility:     float64(d.CodeAbility),
	}
}
