package models

import (
	"encoding/json"
	"testing"
)

func TestStudentIDAcceptsStringAndNumber(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want StudentID
	}{
		{name: "string", raw: `{"student_id":"st-7"}`, want: "st-7"},
		{name: "integer", raw: `{"student_id":42}`, want: "42"},
		{name: "null", raw: `{"student_id":null}`, want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var s Student
			if err := json.Unmarshal([]byte(tc.raw), &s); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if s.ID != tc.want {
				t.Fatalf("expected id %q, got %q", tc.want, s.ID)
			}
		})
	}
}

func TestStudentIDRejectsObjects(t *testing.T) {
	var s Student
	if err := json.Unmarshal([]byte(`{"student_id":{"x":1}}`), &s); err == nil {
		t.Fatal("expected error for object id")
	}
}

func TestNullScoresStayDistinctFromZero(t *testing.T) {
	var s Student
	raw := `{"student_id":"1","math_score":0,"literature_score":null}`
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.MathScore == nil || *s.MathScore != 0 {
		t.Fatalf("expected zero math score, got %v", s.MathScore)
	}
	if s.LiteratureScore != nil {
		t.Fatalf("expected nil literature score, got %v", *s.LiteratureScore)
	}
	if s.Score(SubjectEnglish) != nil {
		t.Fatal("expected absent english score")
	}
}

func TestPayloadSendsExplicitNulls(t *testing.T) {
	body, err := json.Marshal(StudentPayload{FirstName: "Ann"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := decoded["student_id"]; ok {
		t.Fatal("payload must not carry an id")
	}
	if v, ok := decoded["math_score"]; !ok || v != nil {
		t.Fatalf("expected explicit null math_score, got %v (present=%v)", v, ok)
	}
}
