package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/mamadbah2/studentdesk/internal/domain/models"
	"github.com/mamadbah2/studentdesk/internal/form"
	"github.com/mamadbah2/studentdesk/internal/store"
	"github.com/mamadbah2/studentdesk/internal/view"
	"github.com/mamadbah2/studentdesk/pkg/clients/records"
)

const (
	DeletePrompt = "Delete this student record?"

	msgCreated = "Student created."
	msgUpdated = "Student updated."
	msgDeleted = "Student deleted."

	placeholderLoading = "Loading students..."
	placeholderEmpty   = "No students found."
	placeholderFailed  = "Failed to load students."
)

// RecordStore is the state the dispatcher reads and reloads.
type RecordStore interface {
	Load(ctx context.Context) error
	Records() []models.Student
	Status() store.Status
	Find(id models.StudentID) (models.Student, bool)
	form.EditTarget
}

// Confirmer asks the user to approve a prompt.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm calls f(prompt).
func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}

// Dispatcher turns user interactions into record API calls and store reloads
// and describes the resulting page.
type Dispatcher interface {
	View(query string) models.Page
	Search(query string) models.Page
	Refresh(ctx context.Context, query string) models.Page
	Submit(ctx context.Context, values models.FormValues, query string) models.Page
	Edit(id models.StudentID, query string) models.Page
	DeletePrompt(id models.StudentID, query string) models.Page
	Delete(ctx context.Context, id models.StudentID, confirmer Confirmer, query string) models.Page
	Cancel(query string) models.Page
	Reload(ctx context.Context, query string, message string) models.Page
}

// Service implements the Dispatcher interface.
type Service struct {
	client records.Client
	store  RecordStore
	form   *form.Controller
	logger *zap.Logger
}

// NewService constructs a command dispatcher.
func NewService(client records.Client, recordStore RecordStore, controller *form.Controller, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client: client,
		store:  recordStore,
		form:   controller,
		logger: logger,
	}
}

// View renders the current state without touching the network.
func (s *Service) View(query string) models.Page {
	return s.render(query, nil, "")
}

// Search re-filters the current list. It never refetches.
func (s *Service) Search(query string) models.Page {
	return s.View(query)
}

// Refresh reloads the list from the record API.
func (s *Service) Refresh(ctx context.Context, query string) models.Page {
	return s.Reload(ctx, query, "")
}

// Submit creates or updates a record from the submitted form values, then
// reloads. On failure the values and mode are kept so the user can retry.
func (s *Service) Submit(ctx context.Context, values models.FormValues, query string) models.Page {
	s.form.SetValues(values)

	mode, err := s.form.Submit(ctx, s.client)
	if err != nil {
		s.logger.Warn("submit failed", zap.String("mode", string(mode)), zap.Error(err))
		return s.render(query, errorNote(err), "")
	}

	message := msgCreated
	if mode == models.FormModeEdit {
		message = msgUpdated
	}
	s.logger.Info("student saved", zap.String("mode", string(mode)))
	return s.Reload(ctx, query, message)
}

// Edit loads the row's record into the form. Unknown ids leave the form as is.
func (s *Service) Edit(id models.StudentID, query string) models.Page {
	if record, ok := s.store.Find(id); ok {
		s.form.BeginEdit(record)
	} else {
		s.logger.Debug("edit ignored for unknown student", zap.String("student_id", string(id)))
	}
	return s.View(query)
}

// DeletePrompt renders the page with a confirmation request for id.
func (s *Service) DeletePrompt(id models.StudentID, query string) models.Page {
	page := s.View(query)
	page.Confirm = &models.Confirmation{Prompt: DeletePrompt, StudentID: id}
	return page
}

// Delete removes a record after the user confirms. Declining makes no call.
func (s *Service) Delete(ctx context.Context, id models.StudentID, confirmer Confirmer, query string) models.Page {
	if confirmer == nil || !confirmer.Confirm(DeletePrompt) {
		return s.View(query)
	}

	if err := s.client.Delete(ctx, id); err != nil {
		s.logger.Warn("delete failed", zap.String("student_id", string(id)), zap.Error(err))
		return s.render(query, errorNote(err), "")
	}

	s.logger.Info("student deleted", zap.String("student_id", string(id)))
	return s.Reload(ctx, query, msgDeleted)
}

// Cancel clears the form and returns to create mode.
func (s *Service) Cancel(query string) models.Page {
	s.form.Reset()
	return s.View(query)
}

// Reload refetches the list and renders it. message, when set, is raised
// as a notification after a successful load; a failed load replaces it.
func (s *Service) Reload(ctx context.Context, query string, message string) models.Page {
	if err := s.store.Load(ctx); err != nil {
		return s.render(query, errorNote(err), placeholderFailed)
	}

	var note *models.Notification
	if message != "" {
		note = &models.Notification{Message: message, Tone: models.ToneDark}
	}
	return s.render(query, note, "")
}

func (s *Service) render(query string, note *models.Notification, placeholder string) models.Page {
	all := s.store.Records()

	page := models.Page{
		Stats:        view.ComputeStats(all),
		Form:         s.form.State(s.store.Find),
		Query:        query,
		Notification: note,
	}

	switch {
	case placeholder != "":
		page.Table = models.Table{Rows: []models.Row{}, Placeholder: placeholder}
	case s.store.Status() == store.StatusLoading && len(all) == 0:
		page.Table = models.Table{Rows: []models.Row{}, Placeholder: placeholderLoading}
	default:
		rows := view.Rows(view.Filter(all, query))
		page.Table = models.Table{Rows: rows}
		if len(rows) == 0 {
			page.Table.Placeholder = placeholderEmpty
		}
	}

	return page
}

func errorNote(err error) *models.Notification {
	return &models.Notification{Message: records.Message(err), Tone: models.ToneError}
}
