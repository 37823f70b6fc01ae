package reporting

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/studentdesk/internal/domain/models"
	"github.com/mamadbah2/studentdesk/internal/view"
)

var (
	// ErrSheetsDisabled is returned when no spreadsheet is configured.
	ErrSheetsDisabled = errors.New("sheets export is not configured")
	// ErrSnapshotsDisabled is returned when no snapshot store is configured.
	ErrSnapshotsDisabled = errors.New("stats snapshots are not configured")
)

var (
	recordHeader   = []string{"student_id", "full_name", "email", "date_of_birth", "home_town", "math_score", "literature_score", "english_score"}
	analysisHeader = []string{"scope", "home_town", "subject", "metric", "value"}
)

// RecordSource exposes the currently loaded records.
type RecordSource interface {
	Records() []models.Student
}

// SheetWriter is the spreadsheet side of the export.
type SheetWriter interface {
	ClearRange(ctx context.Context, sheetRange string) error
	AppendRows(ctx context.Context, sheetRange string, rows [][]interface{}) error
}

// SnapshotStore persists stats snapshots.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snapshot models.StatsSnapshot) error
	LatestSnapshots(ctx context.Context, limit int64) ([]models.StatsSnapshot, error)
}

// Service builds exports and snapshots from the loaded records.
type Service struct {
	source     RecordSource
	sheets     SheetWriter
	sheetRange string
	snapshots  SnapshotStore
	logger     *zap.Logger
	now        func() time.Time
}

// NewService wires a new reporting service instance. sheets and snapshots may be nil.
func NewService(source RecordSource, sheets SheetWriter, sheetRange string, snapshots SnapshotStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		source:     source,
		sheets:     sheets,
		sheetRange: sheetRange,
		snapshots:  snapshots,
		logger:     logger,
		now:        time.Now,
	}
}

// WriteCSV writes the record table, a blank line, then the analysis table.
func (s *Service) WriteCSV(w io.Writer) error {
	return WriteCSV(w, s.source.Records())
}

// ExportToSheets replaces the configured range with the current export.
func (s *Service) ExportToSheets(ctx context.Context) error {
	if s.sheets == nil {
		return ErrSheetsDisabled
	}

	rows := SheetRows(s.source.Records())
	if err := s.sheets.ClearRange(ctx, s.sheetRange); err != nil {
		return fmt.Errorf("clear export range: %w", err)
	}
	if err := s.sheets.AppendRows(ctx, s.sheetRange, rows); err != nil {
		return fmt.Errorf("write export rows: %w", err)
	}

	s.logger.Info("exported students to sheets", zap.String("range", s.sheetRange), zap.Int("rows", len(rows)))
	return nil
}

// RecordSnapshot stores the current stats.
func (s *Service) RecordSnapshot(ctx context.Context) (models.StatsSnapshot, error) {
	if s.snapshots == nil {
		return models.StatsSnapshot{}, ErrSnapshotsDisabled
	}

	stats := view.ComputeStats(s.source.Records())
	snapshot := models.StatsSnapshot{
		ID:         uuid.NewString(),
		Total:      stats.Total,
		Math:       stats.Math,
		Literature: stats.Literature,
		English:    stats.English,
		TakenAt:    s.now().UTC(),
	}
	if err := s.snapshots.SaveSnapshot(ctx, snapshot); err != nil {
		return models.StatsSnapshot{}, err
	}
	return snapshot, nil
}

// Snapshots lists the most recent stats snapshots.
func (s *Service) Snapshots(ctx context.Context, limit int64) ([]models.StatsSnapshot, error) {
	if s.snapshots == nil {
		return nil, ErrSnapshotsDisabled
	}
	return s.snapshots.LatestSnapshots(ctx, limit)
}

// WriteCSV writes records and their analysis as two CSV tables separated by a blank line.
func WriteCSV(w io.Writer, records []models.Student) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(recordHeader); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(recordLine(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}

	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}

	if err := cw.Write(analysisHeader); err != nil {
		return err
	}
	for _, a := range BuildAnalysis(records) {
		if err := cw.Write(analysisLine(a)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SheetRows renders the same two tables as spreadsheet rows.
func SheetRows(records []models.Student) [][]interface{} {
	rows := make([][]interface{}, 0, len(records)+4)
	rows = append(rows, toCells(recordHeader))
	for _, r := range records {
		rows = append(rows, toCells(recordLine(r)))
	}
	rows = append(rows, []interface{}{})
	rows = append(rows, toCells(analysisHeader))
	for _, a := range BuildAnalysis(records) {
		rows = append(rows, toCells(analysisLine(a)))
	}
	return rows
}

func recordLine(r models.Student) []string {
	return []string{
		string(r.ID),
		r.FullName(),
		r.Email,
		r.DateOfBirth,
		r.HomeTown,
		exportScore(r.MathScore),
		exportScore(r.LiteratureScore),
		exportScore(r.EnglishScore),
	}
}

func analysisLine(a models.AnalysisRow) []string {
	return []string{
		string(a.Scope),
		a.HomeTown,
		string(a.Subject),
		a.Metric,
		strconv.FormatFloat(a.Value, 'f', 2, 64),
	}
}

// exportScore leaves absent scores empty so spreadsheets read them as blanks.
func exportScore(v *float64) string {
	if v == nil {
		return ""
	}
	return view.FormatScore(v)
}

func toCells(line []string) []interface{} {
	cells := make([]interface{}, len(line))
	for i, v := range line {
		cells[i] = v
	}
	return cells
}
