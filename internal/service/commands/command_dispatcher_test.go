package commands

import (
	"context"
	"net/http"
	"testing"

	"github.com/mamadbah2/studentdesk/internal/domain/models"
	"github.com/mamadbah2/studentdesk/internal/form"
	"github.com/mamadbah2/studentdesk/internal/store"
	"github.com/mamadbah2/studentdesk/pkg/clients/records"
)

type fakeClient struct {
	students []models.Student
	listErr  error
	writeErr error

	created []models.StudentPayload
	updated map[models.StudentID]models.StudentPayload
	deleted []models.StudentID
	lists   int
}

func (f *fakeClient) List(ctx context.Context) ([]models.Student, error) {
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Student, len(f.students))
	copy(out, f.students)
	return out, nil
}

func (f *fakeClient) Create(ctx context.Context, p models.StudentPayload) (*models.Student, error) {
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	f.created = append(f.created, p)
	s := models.Student{ID: "new", FirstName: p.FirstName, LastName: p.LastName}
	f.students = append(f.students, s)
	return &s, nil
}

func (f *fakeClient) Update(ctx context.Context, id models.StudentID, p models.StudentPayload) (*models.Student, error) {
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	if f.updated == nil {
		f.updated = map[models.StudentID]models.StudentPayload{}
	}
	f.updated[id] = p
	return &models.Student{ID: id}, nil
}

func (f *fakeClient) Delete(ctx context.Context, id models.StudentID) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.deleted = append(f.deleted, id)
	kept := f.students[:0:0]
	for _, s := range f.students {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	f.students = kept
	return nil
}

func score(v float64) *float64 { return &v }

func newDispatcher(t *testing.T, client *fakeClient) (*Service, *store.Store) {
	t.Helper()
	st := store.New(client, nil)
	if err := st.Load(context.Background()); err != nil && client.listErr == nil {
		t.Fatalf("initial load: %v", err)
	}
	return NewService(client, st, form.NewController(st), nil), st
}

func TestScenarioStatsAverageNonNullOnly(t *testing.T) {
	client := &fakeClient{students: []models.Student{
		{ID: "1", MathScore: score(80)},
		{ID: "2", MathScore: nil},
	}}
	svc, _ := newDispatcher(t, client)

	page := svc.View("")
	if page.Stats.Math != "80.0" || page.Stats.Total != 2 {
		t.Fatalf("unexpected stats %+v", page.Stats)
	}
	if page.Stats.Literature != "0.0" {
		t.Fatalf("expected empty average, got %s", page.Stats.Literature)
	}
}

func TestScenarioEditThenCancel(t *testing.T) {
	client := &fakeClient{students: []models.Student{{ID: "1", FirstName: "Ann", LastName: "Le", MathScore: score(80)}}}
	svc, st := newDispatcher(t, client)

	page := svc.Edit("1", "")
	if page.Form.Mode != models.FormModeEdit || page.Form.Values.FirstName != "Ann" || page.Form.Values.MathScore != "80" {
		t.Fatalf("unexpected form after edit %+v", page.Form)
	}
	if page.Form.Subtitle != "Updating Ann Le." {
		t.Fatalf("unexpected subtitle %q", page.Form.Subtitle)
	}

	page = svc.Cancel("")
	if page.Form.Mode != models.FormModeCreate || page.Form.Values != (models.FormValues{}) {
		t.Fatalf("expected reset form, got %+v", page.Form)
	}
	if _, ok := st.EditingID(); ok {
		t.Fatal("expected edit target cleared")
	}
}

func TestEditUnknownIDIsNoop(t *testing.T) {
	svc, _ := newDispatcher(t, &fakeClient{})
	page := svc.Edit("404", "")
	if page.Form.Mode != models.FormModeCreate {
		t.Fatalf("expected create mode, got %s", page.Form.Mode)
	}
}

func TestScenarioSubmitCreateTrimsAndReloads(t *testing.T) {
	client := &fakeClient{}
	svc, _ := newDispatcher(t, client)
	listsBefore := client.lists

	page := svc.Submit(context.Background(), models.FormValues{FirstName: " Ann ", LastName: "Le", MathScore: "abc"}, "")

	if len(client.created) != 1 || client.created[0].FirstName != "Ann" {
		t.Fatalf("expected trimmed create, got %+v", client.created)
	}
	if client.created[0].MathScore != nil {
		t.Fatal("malformed score must become null")
	}
	if client.lists != listsBefore+1 {
		t.Fatalf("expected exactly one reload, got %d", client.lists-listsBefore)
	}
	if page.Form.Mode != models.FormModeCreate || page.Form.Values != (models.FormValues{}) {
		t.Fatalf("expected reset form, got %+v", page.Form)
	}
	if page.Notification == nil || page.Notification.Message != "Student created." {
		t.Fatalf("unexpected notification %+v", page.Notification)
	}
	if len(page.Table.Rows) != 1 || page.Stats.Total != 1 {
		t.Fatalf("expected reloaded table, got %+v", page.Table)
	}
}

func TestSubmitInEditModeUpdates(t *testing.T) {
	client := &fakeClient{students: []models.Student{{ID: "1", FirstName: "Ann"}}}
	svc, _ := newDispatcher(t, client)
	svc.Edit("1", "")

	page := svc.Submit(context.Background(), models.FormValues{FirstName: "Anna"}, "")

	if client.updated["1"].FirstName != "Anna" {
		t.Fatalf("expected update of id 1, got %+v", client.updated)
	}
	if page.Notification == nil || page.Notification.Message != "Student updated." {
		t.Fatalf("unexpected notification %+v", page.Notification)
	}
	if page.Form.Mode != models.FormModeCreate {
		t.Fatal("expected create mode after update")
	}
}

func TestSubmitFailureKeepsForm(t *testing.T) {
	client := &fakeClient{writeErr: &records.RequestError{Status: http.StatusBadRequest, Message: "email taken"}}
	svc, _ := newDispatcher(t, client)
	listsBefore := client.lists

	page := svc.Submit(context.Background(), models.FormValues{FirstName: "Ann"}, "")

	if page.Notification == nil || page.Notification.Message != "email taken" || page.Notification.Tone != models.ToneError {
		t.Fatalf("unexpected notification %+v", page.Notification)
	}
	if page.Form.Values.FirstName != "Ann" {
		t.Fatal("expected form values retained")
	}
	if client.lists != listsBefore {
		t.Fatal("failed submit must not reload")
	}
}

func TestScenarioDeleteDeclined(t *testing.T) {
	client := &fakeClient{students: []models.Student{{ID: "1"}}}
	svc, st := newDispatcher(t, client)
	listsBefore := client.lists

	var asked string
	page := svc.Delete(context.Background(), "1", ConfirmFunc(func(prompt string) bool {
		asked = prompt
		return false
	}), "")

	if asked != DeletePrompt {
		t.Fatalf("expected confirmation prompt, got %q", asked)
	}
	if len(client.deleted) != 0 || client.lists != listsBefore {
		t.Fatal("declined delete must not call the record API")
	}
	if len(st.Records()) != 1 || len(page.Table.Rows) != 1 {
		t.Fatal("state must be unchanged")
	}
}

func TestDeleteConfirmed(t *testing.T) {
	client := &fakeClient{students: []models.Student{{ID: "1"}, {ID: "2"}}}
	svc, _ := newDispatcher(t, client)

	page := svc.Delete(context.Background(), "1", ConfirmFunc(func(string) bool { return true }), "")

	if len(client.deleted) != 1 || client.deleted[0] != "1" {
		t.Fatalf("expected delete of 1, got %v", client.deleted)
	}
	if page.Stats.Total != 1 || page.Notification == nil || page.Notification.Message != "Student deleted." {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestScenarioDeleteNotFoundMessage(t *testing.T) {
	client := &fakeClient{students: []models.Student{{ID: "1"}}}
	svc, _ := newDispatcher(t, client)
	client.writeErr = &records.RequestError{Status: http.StatusNotFound, Message: "not found"}

	page := svc.Delete(context.Background(), "1", ConfirmFunc(func(string) bool { return true }), "")

	if page.Notification == nil || page.Notification.Message != "not found" {
		t.Fatalf("expected 'not found', got %+v", page.Notification)
	}
	if len(page.Table.Rows) != 1 {
		t.Fatal("expected table unchanged")
	}
}

func TestDeleteWithoutConfirmerIsNoop(t *testing.T) {
	client := &fakeClient{students: []models.Student{{ID: "1"}}}
	svc, _ := newDispatcher(t, client)

	svc.Delete(context.Background(), "1", nil, "")
	if len(client.deleted) != 0 {
		t.Fatal("expected no delete")
	}
}

func TestDeletePromptCarriesID(t *testing.T) {
	svc, _ := newDispatcher(t, &fakeClient{students: []models.Student{{ID: "1"}}})
	page := svc.DeletePrompt("1", "")
	if page.Confirm == nil || page.Confirm.StudentID != "1" || page.Confirm.Prompt != DeletePrompt {
		t.Fatalf("unexpected confirmation %+v", page.Confirm)
	}
}

func TestSearchDoesNotRefetch(t *testing.T) {
	client := &fakeClient{students: []models.Student{
		{ID: "1", FirstName: "Ann", HomeTown: "Ha Noi"},
		{ID: "2", FirstName: "Minh", HomeTown: "Da Nang"},
	}}
	svc, _ := newDispatcher(t, client)
	listsBefore := client.lists

	page := svc.Search("nang")
	if len(page.Table.Rows) != 1 || page.Table.Rows[0].ID != "2" || page.Query != "nang" {
		t.Fatalf("unexpected search result %+v", page.Table)
	}
	if page.Stats.Total != 2 {
		t.Fatal("stats must cover the full list, not the filtered view")
	}

	page = svc.Search("nobody")
	if len(page.Table.Rows) != 0 || page.Table.Placeholder != "No students found." {
		t.Fatalf("expected empty placeholder, got %+v", page.Table)
	}
	if client.lists != listsBefore {
		t.Fatal("search must not refetch")
	}
}

func TestRefreshFailureShowsPlaceholder(t *testing.T) {
	client := &fakeClient{students: []models.Student{{ID: "1"}}}
	svc, _ := newDispatcher(t, client)
	client.listErr = &records.RequestError{Message: "Request failed"}

	page := svc.Refresh(context.Background(), "")
	if page.Table.Placeholder != "Failed to load students." {
		t.Fatalf("unexpected placeholder %q", page.Table.Placeholder)
	}
	if page.Notification == nil || page.Notification.Tone != models.ToneError {
		t.Fatalf("expected error notification, got %+v", page.Notification)
	}

	client.listErr = nil
	page = svc.View("")
	if len(page.Table.Rows) != 1 {
		t.Fatal("previous list should still render after a failed reload")
	}
}

type loadingStore struct {
	records []models.Student
}

func (s *loadingStore) Load(ctx context.Context) error { return nil }
func (s *loadingStore) Records() []models.Student      { return s.records }
func (s *loadingStore) Status() store.Status           { return store.StatusLoading }
func (s *loadingStore) Find(id models.StudentID) (models.Student, bool) {
	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return models.Student{}, false
}
func (s *loadingStore) BeginEdit(id models.StudentID) bool  { return false }
func (s *loadingStore) ClearEdit()                          {}
func (s *loadingStore) EditingID() (models.StudentID, bool) { return "", false }

func TestLoadingPlaceholderOnlyWhenEmpty(t *testing.T) {
	st := &loadingStore{}
	svc := NewService(&fakeClient{}, st, form.NewController(st), nil)

	page := svc.View("")
	if page.Table.Placeholder != "Loading students..." || len(page.Table.Rows) != 0 {
		t.Fatalf("expected loading placeholder, got %+v", page.Table)
	}

	st.records = []models.Student{{ID: "1", FirstName: "Ann"}}
	page = svc.View("")
	if page.Table.Placeholder != "" || len(page.Table.Rows) != 1 {
		t.Fatalf("previous list should stay visible while loading, got %+v", page.Table)
	}
}
