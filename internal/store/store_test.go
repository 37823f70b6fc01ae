package store

import (
	"context"
	"errors"
	"testing"

	"github.com/mamadbah2/studentdesk/internal/domain/models"
)

type fakeLister struct {
	students []models.Student
	err      error
	calls    int
}

func (f *fakeLister) List(ctx context.Context) ([]models.Student, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.students, nil
}

func TestNewStoreIsEmpty(t *testing.T) {
	s := New(&fakeLister{}, nil)
	if got := s.Records(); got == nil || len(got) != 0 {
		t.Fatalf("expected empty list, got %#v", got)
	}
	if s.Status() != StatusIdle {
		t.Fatalf("expected idle status, got %s", s.Status())
	}
	if _, ok := s.EditingID(); ok {
		t.Fatal("expected no edit target")
	}
}

func TestLoadReplacesRecords(t *testing.T) {
	lister := &fakeLister{students: []models.Student{{ID: "1"}, {ID: "2"}}}
	s := New(lister, nil)

	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	first := s.Records()
	if len(first) != 2 || s.Status() != StatusReady {
		t.Fatalf("unexpected state: %d records, status %s", len(first), s.Status())
	}

	lister.students = []models.Student{{ID: "3"}}
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("second load: %v", err)
	}
	if got := s.Records(); len(got) != 1 || got[0].ID != "3" {
		t.Fatalf("expected list to be replaced, got %+v", got)
	}
	if len(first) != 2 || first[0].ID != "1" {
		t.Fatal("previously returned slice must not be mutated")
	}
}

func TestLoadFailureKeepsPreviousList(t *testing.T) {
	lister := &fakeLister{students: []models.Student{{ID: "1"}}}
	s := New(lister, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	boom := errors.New("boom")
	lister.err = boom
	if err := s.Load(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if got := s.Records(); len(got) != 1 {
		t.Fatalf("expected previous list to survive, got %+v", got)
	}
	if s.Status() != StatusFailed {
		t.Fatalf("expected failed status, got %s", s.Status())
	}
}

func TestBeginEdit(t *testing.T) {
	s := New(&fakeLister{students: []models.Student{{ID: "1", FirstName: "Ann"}}}, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	if s.BeginEdit("99") {
		t.Fatal("unknown id must be ignored")
	}
	if _, ok := s.EditingID(); ok {
		t.Fatal("unknown id must not set an edit target")
	}

	if !s.BeginEdit("1") {
		t.Fatal("expected edit to begin")
	}
	if id, ok := s.EditingID(); !ok || id != "1" {
		t.Fatalf("expected edit target 1, got %q", id)
	}

	s.ClearEdit()
	if _, ok := s.EditingID(); ok {
		t.Fatal("expected edit target to be cleared")
	}
}

func TestFind(t *testing.T) {
	s := New(&fakeLister{students: []models.Student{{ID: "1", FirstName: "Ann"}}}, nil)
	_ = s.Load(context.Background())

	if r, ok := s.Find("1"); !ok || r.FirstName != "Ann" {
		t.Fatalf("expected Ann, got %+v (found=%v)", r, ok)
	}
	if _, ok := s.Find("2"); ok {
		t.Fatal("expected miss")
	}
}
