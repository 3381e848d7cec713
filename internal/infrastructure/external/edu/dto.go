package edu

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESPONSE ENVELOPE
// ══════════════════════════════════════════════════════════════════════════════

// codeSuccess is the body code the backend uses for a successful call.
const codeSuccess = 200

// APIResponse is the envelope wrapping every backend response.
// Code mirrors an HTTP status; Data is nil when the backend found nothing.
type APIResponse[T any] struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data *T     `json:"data"`
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT DTOs
// ══════════════════════════════════════════════════════════════════════════════

// StudentDTO is the current-student record as served by the backend.
type StudentDTO struct {
	Name        flexString `json:"name"`
	Sex         flexString `json:"sex"`
	PhoneNumber flexString `json:"phoneNumber"`

	// URL is the avatar path relative to the API base URL.
	URL flexString `json:"url"`

	Details []StudentDetailsDTO `json:"eduStudentDetailsList"`
}

// StudentDetailsDTO holds program and ability fields.
type StudentDetailsDTO struct {
	StudentID flexString `json:"studentId"`
	Age       flexString `json:"age"`
	Email     flexString `json:"email"`
	School    flexString `json:"school"`
	Major     flexString `json:"major"`
	Grade     flexString `json:"grade"`
	ClassInfo flexString `json:"classinfo"`

	StudyAbility    flexNumber `json:"studyAbility"`
	ThinkingAbility flexNumber `json:"thinkingAbility"`
	CodeAbility     flexNumber `json:"codeAbility"`
}

// ══════════════════════════════════════════════════════════════════════════════
// LENIENT SCALARS
// ══════════════════════════════════════════════════════════════════════════════

// flexString accepts a JSON string, number, bool or null.
// Numbers keep their literal text, so an age of 20 decodes as "20". A zero
// number and false count as missing and decode as "", like null.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	if bytes.Equal(b, []byte("false")) {
		*s = ""
		return nil
	}
	if f, err := strconv.ParseFloat(string(b), 64); err == nil && f == 0 {
		*s = ""
		return nil
	}
	*s = flexString(b)
	return nil
}

// flexNumber accepts a JSON number, a numeric string or null.
// Empty and unparsable strings decode as 0.
type flexNumber float64

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			*n = 0
			return nil
		}
		*n = flexNumber(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = flexNumber(f)
	return nil
}
