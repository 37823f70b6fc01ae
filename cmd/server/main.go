package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/studentdesk/internal/config"
	"github.com/mamadbah2/studentdesk/internal/form"
	"github.com/mamadbah2/studentdesk/internal/repository/mongodb"
	"github.com/mamadbah2/studentdesk/internal/repository/sheets"
	"github.com/mamadbah2/studentdesk/internal/scheduler"
	"github.com/mamadbah2/studentdesk/internal/server/handlers"
	"github.com/mamadbah2/studentdesk/internal/server/router"
	commandsvc "github.com/mamadbah2/studentdesk/internal/service/commands"
	importersvc "github.com/mamadbah2/studentdesk/internal/service/importer"
	reportingsvc "github.com/mamadbah2/studentdesk/internal/service/reporting"
	"github.com/mamadbah2/studentdesk/internal/store"
	"github.com/mamadbah2/studentdesk/pkg/clients/records"
	"github.com/mamadbah2/studentdesk/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	recordsClient := records.NewClient(cfg.Records, logger.Named(baseLogger, "client.records"))
	recordStore := store.New(recordsClient, logger.Named(baseLogger, "store"))
	formController := form.NewController(recordStore)

	var sheetWriter reportingsvc.SheetWriter
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sheetWriter = sheetsRepo
	} else {
		baseLogger.Warn("google sheet id missing, sheets export disabled")
	}

	var snapshotStore reportingsvc.SnapshotStore
	if cfg.MongoDB.Enabled() {
		mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		snapshotStore = mongoRepo
	} else {
		baseLogger.Warn("mongodb uri missing, stats snapshots disabled")
	}

	reportingSvc := reportingsvc.NewService(recordStore, sheetWriter, cfg.Sheets.Range, snapshotStore, logger.Named(baseLogger, "svc.reporting"))
	commandDispatcher := commandsvc.NewService(recordsClient, recordStore, formController, logger.Named(baseLogger, "svc.commands"))
	importSvc := importersvc.NewService(recordsClient, logger.Named(baseLogger, "svc.importer"))

	dashboardHandler := handlers.NewDashboardHandler(commandDispatcher, importSvc, reportingSvc, logger.Named(baseLogger, "handlers.dashboard"))
	engine := router.New(dashboardHandler, logger.Named(baseLogger, "router"))

	if err := recordStore.Load(context.Background()); err != nil {
		baseLogger.Warn("initial student load failed", zap.Error(err))
	}

	sched := scheduler.NewScheduler(cfg.Scheduler, recordStore, reportingSvc, logger.Named(baseLogger, "scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting",
			zap.String("port", cfg.Server.Port),
			zap.String("records_api", cfg.Records.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
