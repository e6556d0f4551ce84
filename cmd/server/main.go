package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/mamadbah2/lantabur/internal/config"
	"github.com/mamadbah2/lantabur/internal/metrics"
	"github.com/mamadbah2/lantabur/internal/realtime"
	"github.com/mamadbah2/lantabur/internal/repository/mongodb"
	"github.com/mamadbah2/lantabur/internal/repository/sheets"
	"github.com/mamadbah2/lantabur/internal/scheduler"
	"github.com/mamadbah2/lantabur/internal/server/handlers"
	"github.com/mamadbah2/lantabur/internal/server/router"
	extractionsvc "github.com/mamadbah2/lantabur/internal/service/extraction"
	recordssvc "github.com/mamadbah2/lantabur/internal/service/records"
	reportingsvc "github.com/mamadbah2/lantabur/internal/service/reporting"
	whatsappsvc "github.com/mamadbah2/lantabur/internal/service/whatsapp"
	"github.com/mamadbah2/lantabur/internal/settings"
	"github.com/mamadbah2/lantabur/pkg/clients/anthropic"
	whatsappclient "github.com/mamadbah2/lantabur/pkg/clients/whatsapp"
	"github.com/mamadbah2/lantabur/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 15*time.Second)
	mongoRepo, err := mongodb.Connect(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName, baseLogger.Named("repo.mongodb"))
	if err == nil {
		err = mongoRepo.EnsureIndexes(connectCtx)
	}
	cancelConnect()
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	hub := realtime.NewHub(appMetrics, baseLogger.Named("realtime"))
	recordOpts := []recordssvc.Option{
		recordssvc.WithPublisher(hub),
		recordssvc.WithMetrics(appMetrics),
	}
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		recordOpts = append(recordOpts, recordssvc.WithMirror(sheets.NewProductionMirror(sheetsRepo)))
		baseLogger.Info("google sheets mirror enabled")
	} else {
		baseLogger.Warn("google sheets credentials missing, production mirror disabled")
	}
	recordsSvc := recordssvc.NewService(mongoRepo, mongoRepo, baseLogger.Named("svc.records"), recordOpts...)

	rates := reportingsvc.Rates{
		Lantabur:    cfg.Reporting.RateLantabur,
		Taqwa:       cfg.Reporting.RateTaqwa,
		WaterPerKg:  cfg.Reporting.WaterPerKg,
		CO2PerKg:    cfg.Reporting.CO2PerKg,
		DailyTarget: cfg.Reporting.DailyTarget,
		ShiftTarget: cfg.Reporting.ShiftTarget,
	}
	reportingSvc := reportingsvc.NewService(mongoRepo, mongoRepo, rates, appMetrics, baseLogger.Named("svc.reporting"))

	// Initialize AI Client
	var aiClient anthropic.Client
	if cfg.AI.Enabled() {
		aiClient = anthropic.NewClient(anthropic.Config{
			APIKey:  cfg.AI.AnthropicKey,
			Model:   cfg.AI.Model,
			Timeout: cfg.AI.Timeout,
		}, baseLogger.Named("client.anthropic"))
		baseLogger.Info("anthropic ai client enabled")
	} else {
		baseLogger.Warn("anthropic api key missing, document extraction disabled")
	}
	extractionSvc := extractionsvc.NewService(aiClient, appMetrics, baseLogger.Named("svc.extraction"))

	var whatsClient whatsappclient.Client
	if cfg.WhatsApp.Enabled() {
		whatsClient = whatsappclient.NewClient(cfg.WhatsApp)
	} else {
		baseLogger.Warn("whatsapp credentials missing, report delivery disabled")
	}
	messagingSvc := whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, reportingSvc, baseLogger.Named("svc.whatsapp"))

	settingsSvc := settings.NewService(mongoRepo, baseLogger.Named("svc.settings"))

	engine := router.New(router.Handlers{
		Production: handlers.NewProductionHandler(reportingSvc, recordsSvc, extractionSvc, messagingSvc, baseLogger.Named("handlers.production")),
		Dashboard:  handlers.NewDashboardHandler(reportingSvc, baseLogger.Named("handlers.dashboard")),
		RFT:        handlers.NewRFTHandler(reportingSvc, recordsSvc, extractionSvc, baseLogger.Named("handlers.rft")),
		Settings:   handlers.NewSettingsHandler(settingsSvc, baseLogger.Named("handlers.settings")),
		Stream:     handlers.NewStreamHandler(reportingSvc, hub, baseLogger.Named("handlers.stream")),
	}, registry, baseLogger.Named("router"))

	// Initialize Scheduler
	if cfg.WhatsApp.Enabled() {
		sched, err := scheduler.NewScheduler(cfg.Reporting, messagingSvc, baseLogger.Named("scheduler"))
		if err != nil {
			baseLogger.Fatal("failed to init scheduler", zap.Error(err))
		}
		if err := sched.Start(); err != nil {
			baseLogger.Fatal("failed to start scheduler", zap.Error(err))
		}
		defer sched.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:        ":" + cfg.Server.Port,
		Handler:     engine,
		ReadTimeout: 30 * time.Second,
		// No write timeout: event streams and extractions hold responses open.
		IdleTimeout: 60 * time.Second,
		// Open event streams end when the shutdown signal arrives.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
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
