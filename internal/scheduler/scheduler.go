package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/studentdesk/internal/config"
	"github.com/mamadbah2/studentdesk/internal/domain/models"
	"github.com/mamadbah2/studentdesk/internal/service/reporting"
)

const jobTimeout = 2 * time.Minute

// Loader reloads the record store.
type Loader interface {
	Load(ctx context.Context) error
}

// Reporter exports and snapshots the loaded records.
type Reporter interface {
	ExportToSheets(ctx context.Context) error
	RecordSnapshot(ctx context.Context) (models.StatsSnapshot, error)
}

// Scheduler manages background refresh and report jobs.
type Scheduler struct {
	cron     *cron.Cron
	loader   Loader
	reporter Reporter
	cfg      config.SchedulerConfig
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.SchedulerConfig, loader Loader, reporter Reporter, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:     cron.New(),
		loader:   loader,
		reporter: reporter,
		cfg:      cfg,
		logger:   logger,
	}
}

// Start registers the jobs and starts the cron runner.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler",
		zap.String("refresh", s.cfg.RefreshSchedule),
		zap.String("report", s.cfg.ReportSchedule))

	if _, err := s.cron.AddFunc(s.cfg.RefreshSchedule, s.refresh); err != nil {
		return fmt.Errorf("schedule refresh %q: %w", s.cfg.RefreshSchedule, err)
	}
	if s.cfg.ReportSchedule != "" {
		if _, err := s.cron.AddFunc(s.cfg.ReportSchedule, s.report); err != nil {
			return fmt.Errorf("schedule report %q: %w", s.cfg.ReportSchedule, err)
		}
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	s.RunRefresh(ctx)
}

func (s *Scheduler) report() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	s.RunReport(ctx)
}

// RunRefresh reloads the store and records a stats snapshot.
func (s *Scheduler) RunRefresh(ctx context.Context) {
	if err := s.loader.Load(ctx); err != nil {
		s.logger.Error("scheduled refresh failed", zap.Error(err))
		return
	}

	snapshot, err := s.reporter.RecordSnapshot(ctx)
	switch {
	case errors.Is(err, reporting.ErrSnapshotsDisabled):
		s.logger.Debug("snapshots disabled, skipping")
	case err != nil:
		s.logger.Error("failed to record stats snapshot", zap.Error(err))
	default:
		s.logger.Info("stats snapshot recorded", zap.String("id", snapshot.ID), zap.Int("total", snapshot.Total))
	}
}

// RunReport exports the loaded records to Google Sheets.
func (s *Scheduler) RunReport(ctx context.Context) {
	err := s.reporter.ExportToSheets(ctx)
	switch {
	case errors.Is(err, reporting.ErrSheetsDisabled):
		s.logger.Debug("sheets export disabled, skipping")
	case err != nil:
		s.logger.Error("scheduled sheets export failed", zap.Error(err))
	default:
		s.logger.Info("scheduled sheets export completed")
	}
}
