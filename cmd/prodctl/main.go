// Package main provides prodctl, the command line companion of the
// production dashboard.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/mamadbah2/lantabur/internal/config"
	"github.com/mamadbah2/lantabur/internal/repository/mongodb"
	"github.com/mamadbah2/lantabur/internal/service/extraction"
	"github.com/mamadbah2/lantabur/internal/service/reporting"
	"github.com/mamadbah2/lantabur/pkg/clients/anthropic"
	"github.com/mamadbah2/lantabur/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd(liveBackend{}).ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// liveBackend builds services from the environment and MongoDB.
type liveBackend struct{}

func (liveBackend) Reporting(ctx context.Context, opts globalOptions) (*reporting.Service, func(), error) {
	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return nil, nil, err
	}
	log := logger.NewConsole(opts.verbose)

	repo, err := mongodb.Connect(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName, log.Named("repo.mongodb"))
	if err != nil {
		return nil, nil, err
	}
	rates := reporting.Rates{
		Lantabur:    cfg.Reporting.RateLantabur,
		Taqwa:       cfg.Reporting.RateTaqwa,
		WaterPerKg:  cfg.Reporting.WaterPerKg,
		CO2PerKg:    cfg.Reporting.CO2PerKg,
		DailyTarget: cfg.Reporting.DailyTarget,
		ShiftTarget: cfg.Reporting.ShiftTarget,
	}
	closeFn := func() {
		if err := repo.Close(context.Background()); err != nil {
			log.Warn("failed to close mongodb connection", zap.Error(err))
		}
	}
	return reporting.NewService(repo, repo, rates, nil, log.Named("svc.reporting")), closeFn, nil
}

func (liveBackend) Extraction(opts globalOptions) (*extraction.Service, error) {
	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return nil, err
	}
	log := logger.NewConsole(opts.verbose)
	if !cfg.AI.Enabled() {
		return nil, extraction.ErrExtractionDisabled
	}
	ai := anthropic.NewClient(anthropic.Config{
		APIKey:  cfg.AI.AnthropicKey,
		Model:   cfg.AI.Model,
		Timeout: cfg.AI.Timeout,
	}, log.Named("client.anthropic"))
	return extraction.NewService(ai, nil, log.Named("svc.extraction")), nil
}
