package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// StudentID is the server-assigned identifier of a student. The record API
// may emit it as a JSON string or number; the client treats it as opaque text.
type StudentID string

// UnmarshalJSON accepts both string and numeric identifiers.
func (id *StudentID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = StudentID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("student_id must be a string or number: %w", err)
	}
	*id = StudentID(n.String())
	return nil
}

// Student mirrors one record returned by the record API.
type Student struct {
	ID              StudentID `json:"student_id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Email           string    `json:"email"`
	DateOfBirth     string    `json:"date_of_birth"`
	HomeTown        string    `json:"home_town"`
	MathScore       *float64  `json:"math_score"`
	LiteratureScore *float64  `json:"literature_score"`
	EnglishScore    *float64  `json:"english_score"`
}

// FullName joins first and last name the way the table displays it.
func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// StudentPayload is the body sent on create and update. It never carries an id.
type StudentPayload struct {
	FirstName       string   `json:"first_name" validate:"required,max=500"`
	LastName        string   `json:"last_name" validate:"required,max=500"`
	Email           string   `json:"email" validate:"required,email,max=500"`
	DateOfBirth     string   `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	HomeTown        string   `json:"home_town" validate:"required,max=500"`
	MathScore       *float64 `json:"math_score"`
	LiteratureScore *float64 `json:"literature_score"`
	EnglishScore    *float64 `json:"english_score"`
}

// Subject identifies one of the three scored subjects.
type Subject string

const (
	SubjectMath       Subject = "math_score"
	SubjectLiterature Subject = "literature_score"
	SubjectEnglish    Subject = "english_score"
)

// Subjects lists the scored subjects in display order.
var Subjects = []Subject{SubjectMath, SubjectLiterature, SubjectEnglish}

// Score returns the student's score for the given subject.
func (s Student) Score(subject Subject) *float64 {
	switch subject {
	case SubjectMath:
		return s.MathScore
	case SubjectLiterature:
		return s.LiteratureScore
	case SubjectEnglish:
		return s.EnglishScore
	default:
		return nil
	}
}
