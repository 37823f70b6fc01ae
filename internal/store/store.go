// Package store holds the authoritative in-memory copy of the student list
// and the id of the record currently being edited.
package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/mamadbah2/studentdesk/internal/domain/models"
)

// Lister fetches the full student list from the record API.
type Lister interface {
	List(ctx context.Context) ([]models.Student, error)
}

// Status is the state of the most recent load.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// Store is a read-through cache of the record API list. The slice is
// replaced wholesale on every load and never modified in place, so callers
// may keep and read a slice returned by Records without copying it.
type Store struct {
	lister Lister
	logger *zap.Logger

	mu        sync.RWMutex
	records   []models.Student
	editingID models.StudentID
	status    Status
}

// New creates an empty store backed by lister.
func New(lister Lister, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		lister:  lister,
		logger:  logger,
		records: []models.Student{},
		status:  StatusIdle,
	}
}

// Load fetches the full list and swaps it in. The previous list stays
// visible until the fetch completes and is kept if it fails.
func (s *Store) Load(ctx context.Context) error {
	s.setStatus(StatusLoading)

	students, err := s.lister.List(ctx)
	if err != nil {
		s.setStatus(StatusFailed)
		s.logger.Warn("failed to load students", zap.Error(err))
		return err
	}
	if students == nil {
		students = []models.Student{}
	}

	s.mu.Lock()
	s.records = students
	s.status = StatusReady
	s.mu.Unlock()

	s.logger.Debug("students loaded", zap.Int("count", len(students)))
	return nil
}

// Records returns the current list. The returned slice must not be modified.
func (s *Store) Records() []models.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// Status reports the state of the most recent load.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Find looks a record up by id in the current list.
func (s *Store) Find(id models.StudentID) (models.Student, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return find(s.records, id)
}

// BeginEdit marks id as the edit target. Unknown ids are ignored and false is returned.
func (s *Store) BeginEdit(id models.StudentID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := find(s.records, id); !ok {
		return false
	}
	s.editingID = id
	return true
}

// ClearEdit drops the edit target.
func (s *Store) ClearEdit() {
	s.mu.Lock()
	s.editingID = ""
	s.mu.Unlock()
}

// EditingID returns the edit target, if any.
func (s *Store) EditingID() (models.StudentID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.editingID, s.editingID != ""
}

func (s *Store) setStatus(status Status) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

func find(records []models.Student, id models.StudentID) (models.Student, bool) {
	for _, r := range records {
		if r.ID == id {
			return r, true
		}
	}
	return models.Student{}, false
}
