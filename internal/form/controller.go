// Package form maps a student record to and from the editable form and
// decides whether a submit creates or updates.
package form

import (
	"context"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/mamadbah2/studentdesk/internal/domain/models"
)

// EditTarget owns the id of the record being edited.
type EditTarget interface {
	BeginEdit(id models.StudentID) bool
	ClearEdit()
	EditingID() (models.StudentID, bool)
}

// Writer issues create and update calls to the record API.
type Writer interface {
	Create(ctx context.Context, payload models.StudentPayload) (*models.Student, error)
	Update(ctx context.Context, id models.StudentID, payload models.StudentPayload) (*models.Student, error)
}

// Controller holds the current form values. Mode is derived from the edit target.
type Controller struct {
	target EditTarget

	mu     sync.RWMutex
	values models.FormValues
}

// NewController returns a controller in create mode with empty values.
func NewController(target EditTarget) *Controller {
	return &Controller{target: target}
}

// Mode reports create or edit.
func (c *Controller) Mode() models.FormMode {
	if _, ok := c.target.EditingID(); ok {
		return models.FormModeEdit
	}
	return models.FormModeCreate
}

// Values returns a copy of the current field values.
func (c *Controller) Values() models.FormValues {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.values
}

// SetValues replaces the field values, e.g. with what the user typed.
func (c *Controller) SetValues(values models.FormValues) {
	c.mu.Lock()
	c.values = values
	c.mu.Unlock()
}

// BeginEdit switches to edit mode for record and fills the fields from it.
// It returns false and changes nothing when the record is not in the store.
func (c *Controller) BeginEdit(record models.Student) bool {
	if !c.target.BeginEdit(record.ID) {
		return false
	}
	c.SetValues(ValuesFrom(record))
	return true
}

// Reset clears every field and returns to create mode.
func (c *Controller) Reset() {
	c.target.ClearEdit()
	c.SetValues(models.FormValues{})
}

// State describes the form for rendering.
func (c *Controller) State(lookup func(models.StudentID) (models.Student, bool)) models.FormState {
	state := models.FormState{
		Mode:     models.FormModeCreate,
		Title:    "Add Student",
		Subtitle: "Create a new record.",
		Values:   c.Values(),
	}

	id, ok := c.target.EditingID()
	if !ok {
		return state
	}

	state.Mode = models.FormModeEdit
	state.EditingID = id
	state.Title = "Edit Student"
	if record, found := lookup(id); found {
		state.Subtitle = "Updating " + record.FullName() + "."
	} else {
		state.Subtitle = "Updating student " + string(id) + "."
	}
	return state
}

// Payload normalizes the current values into a request body.
func (c *Controller) Payload() models.StudentPayload {
	return PayloadFrom(c.Values())
}

// Submit sends the form: update in edit mode, create otherwise. On success
// the form is reset; on failure values and mode are left untouched.
func (c *Controller) Submit(ctx context.Context, w Writer) (models.FormMode, error) {
	payload := c.Payload()

	if id, ok := c.target.EditingID(); ok {
		if _, err := w.Update(ctx, id, payload); err != nil {
			return models.FormModeEdit, err
		}
		c.Reset()
		return models.FormModeEdit, nil
	}

	if _, err := w.Create(ctx, payload); err != nil {
		return models.FormModeCreate, err
	}
	c.Reset()
	return models.FormModeCreate, nil
}

// ValuesFrom renders a record into form fields. Absent scores become empty strings.
func ValuesFrom(r models.Student) models.FormValues {
	return models.FormValues{
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		Email:           r.Email,
		DateOfBirth:     r.DateOfBirth,
		HomeTown:        r.HomeTown,
		MathScore:       scoreField(r.MathScore),
		LiteratureScore: scoreField(r.LiteratureScore),
		EnglishScore:    scoreField(r.EnglishScore),
	}
}

// PayloadFrom trims the text fields and normalizes the scores. Email and
// date are not validated here; the record API owns that.
func PayloadFrom(v models.FormValues) models.StudentPayload {
	return models.StudentPayload{
		FirstName:       strings.TrimSpace(v.FirstName),
		LastName:        strings.TrimSpace(v.LastName),
		Email:           strings.TrimSpace(v.Email),
		DateOfBirth:     v.DateOfBirth,
		HomeTown:        strings.TrimSpace(v.HomeTown),
		MathScore:       NormalizeScore(v.MathScore),
		LiteratureScore: NormalizeScore(v.LiteratureScore),
		EnglishScore:    NormalizeScore(v.EnglishScore),
	}
}

// NormalizeScore parses a score field. Empty or unparsable input, NaN and
// infinities all mean "no score": a malformed entry is dropped, not rejected.
func NormalizeScore(value string) *float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return nil
	}
	return &parsed
}

func scoreField(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
