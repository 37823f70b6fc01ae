// Package importer creates students in bulk from a CSV file.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mamadbah2/studentdesk/internal/domain/models"
	"github.com/mamadbah2/studentdesk/pkg/clients/records"
)

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("csv missing required column")

// Columns is the expected header, in the order the sample generator writes it.
var Columns = []string{
	"first_name",
	"last_name",
	"email",
	"date_of_birth",
	"home_town",
	"math_score",
	"literature_score",
	"english_score",
}

var requiredColumns = []string{"first_name", "last_name", "email", "date_of_birth", "home_town"}

// Creator creates one student through the record API.
type Creator interface {
	Create(ctx context.Context, payload models.StudentPayload) (*models.Student, error)
}

// Service runs CSV imports.
type Service struct {
	creator  Creator
	validate *validator.Validate
	logger   *zap.Logger
}

// NewService constructs an importer.
func NewService(creator Creator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		creator:  creator,
		validate: validator.New(),
		logger:   logger,
	}
}

// Import reads a CSV stream with a header row and creates one student per
// valid row. Invalid rows and rows the record API rejects are reported in
// the result; they do not stop the import.
func (s *Service) Import(ctx context.Context, r io.Reader) (models.ImportResult, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return models.ImportResult{}, fmt.Errorf("read csv header: %w", err)
	}

	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := colIdx[col]; !ok {
			return models.ImportResult{}, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	result := models.ImportResult{
		Success: []models.Student{},
		Failed:  []models.ImportRowError{},
	}
	rowNum := 1

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			result.Total++
			result.Failed = append(result.Failed, models.ImportRowError{Row: rowNum, Data: map[string]string{}, Error: err.Error()})
			continue
		}
		if isBlank(row) {
			continue
		}
		result.Total++

		data := rowData(row, colIdx)
		payload, err := s.payloadFrom(data)
		if err != nil {
			result.Failed = append(result.Failed, models.ImportRowError{Row: rowNum, Data: data, Error: err.Error()})
			continue
		}

		created, err := s.creator.Create(ctx, payload)
		if err != nil {
			result.Failed = append(result.Failed, models.ImportRowError{Row: rowNum, Data: data, Error: records.Message(err)})
			continue
		}
		if created != nil {
			result.Success = append(result.Success, *created)
		}
		result.SuccessCount++
	}

	result.FailedCount = len(result.Failed)
	s.logger.Info("csv import finished",
		zap.Int("total", result.Total),
		zap.Int("success", result.SuccessCount),
		zap.Int("failed", result.FailedCount))
	return result, nil
}

// payloadFrom converts a raw row. Unlike the form, an unparsable score is a
// row error here: an import file is expected to be machine-written.
func (s *Service) payloadFrom(data map[string]string) (models.StudentPayload, error) {
	payload := models.StudentPayload{
		FirstName:   data["first_name"],
		LastName:    data["last_name"],
		Email:       data["email"],
		DateOfBirth: data["date_of_birth"],
		HomeTown:    data["home_town"],
	}

	var err error
	if payload.MathScore, err = parseScore("math_score", data["math_score"]); err != nil {
		return models.StudentPayload{}, err
	}
	if payload.LiteratureScore, err = parseScore("literature_score", data["literature_score"]); err != nil {
		return models.StudentPayload{}, err
	}
	if payload.EnglishScore, err = parseScore("english_score", data["english_score"]); err != nil {
		return models.StudentPayload{}, err
	}

	if err := s.validate.Struct(payload); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return models.StudentPayload{}, validationError(verrs)
		}
		return models.StudentPayload{}, err
	}
	return payload, nil
}

func parseScore(field, value string) (*float64, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("field %s must be a number, got %q", field, value)
	}
	return &parsed, nil
}

func validationError(errs validator.ValidationErrors) error {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		field := jsonName(e.Field())
		switch e.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is required", field))
		case "email":
			msgs = append(msgs, fmt.Sprintf("field %s must be a valid email address", field))
		case "datetime":
			msgs = append(msgs, fmt.Sprintf("field %s must be a YYYY-MM-DD date", field))
		case "max":
			msgs = append(msgs, fmt.Sprintf("field %s is too long", field))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is invalid", field))
		}
	}
	return errors.New(strings.Join(msgs, ", "))
}

func jsonName(structField string) string {
	switch structField {
	case "FirstName":
		return "first_name"
	case "LastName":
		return "last_name"
	case "Email":
		return "email"
	case "DateOfBirth":
		return "date_of_birth"
	case "HomeTown":
		return "home_town"
	default:
		return strings.ToLower(structField)
	}
}

func rowData(row []string, colIdx map[string]int) map[string]string {
	data := make(map[string]string, len(Columns))
	for _, col := range Columns {
		i, ok := colIdx[col]
		if !ok || i >= len(row) {
			data[col] = ""
			continue
		}
		data[col] = strings.TrimSpace(row[i])
	}
	return data
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
