package reporting

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/lantabur/internal/domain/models"
	"github.com/mamadbah2/lantabur/internal/metrics"
	"github.com/mamadbah2/lantabur/internal/service/filter"
)

const trendDays = 30

// ProductionSource supplies the current production snapshot.
type ProductionSource interface {
	ListProduction(ctx context.Context) ([]models.ProductionRecord, error)
}

// RFTSource supplies the current RFT snapshot.
type RFTSource interface {
	ListRFT(ctx context.Context) ([]models.RFTReportRecord, error)
}

// Service loads snapshots from the store and runs the aggregation engine on
// them.
type Service struct {
	production ProductionSource
	rft        RFTSource
	rates      Rates
	metrics    *metrics.Metrics
	logger     *zap.Logger
	newRand    func() *rand.Rand
}

// NewService wires a new reporting service instance.
func NewService(production ProductionSource, rft RFTSource, rates Rates, m *metrics.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		production: production,
		rft:        rft,
		rates:      rates,
		metrics:    m,
		logger:     logger,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
		},
	}
}

// Rates returns the coefficients the service aggregates with.
func (s *Service) Rates() Rates { return s.rates }

// Overview is the dashboard page payload.
type Overview struct {
	Dashboard *Dashboard   `json:"dashboard"`
	Trend     []TrendPoint `json:"trend"`
	RFT       *RFTSummary  `json:"rft"`
}

// Overview loads both collections concurrently and aggregates them.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	var (
		production []models.ProductionRecord
		rft        []models.RFTReportRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		production, err = s.production.ListProduction(gctx)
		if err != nil {
			return fmt.Errorf("load production records: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		rft, err = s.rft.ListRFT(gctx)
		if err != nil {
			return fmt.Errorf("load rft records: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	started := time.Now()
	defer s.metrics.ObserveAggregation("overview", started)

	dashboard := BuildDashboard(production, s.rates)
	if dashboard != nil && len(dashboard.Undated) > 0 {
		s.logger.Debug("production records without a parseable date", zap.Strings("ids", dashboard.Undated))
	}
	summary := BuildRFTSummary(rft, time.Time{})
	if summary != nil && len(summary.Undated) > 0 {
		s.logger.Debug("rft records without a parseable date", zap.Strings("ids", summary.Undated))
	}

	return Overview{
		Dashboard: dashboard,
		Trend:     Trend(production, trendDays),
		RFT:       summary,
	}, nil
}

// Production returns the filtered production records, latest first.
func (s *Service) Production(ctx context.Context, c filter.Criteria) ([]models.ProductionRecord, error) {
	records, err := s.production.ListProduction(ctx)
	if err != nil {
		return nil, fmt.Errorf("load production records: %w", err)
	}
	return filter.Production(records, c), nil
}

// ProductionTotals filters production records and sums them for scope.
func (s *Service) ProductionTotals(ctx context.Context, c filter.Criteria, scope Scope) (Totals, error) {
	records, err := s.Production(ctx, c)
	if err != nil {
		return Totals{}, err
	}
	started := time.Now()
	defer s.metrics.ObserveAggregation("production_totals", started)
	return Summarize(records, scope), nil
}

// AllProduction returns the unfiltered production snapshot.
func (s *Service) AllProduction(ctx context.Context) ([]models.ProductionRecord, error) {
	records, err := s.production.ListProduction(ctx)
	if err != nil {
		return nil, fmt.Errorf("load production records: %w", err)
	}
	return records, nil
}

// AllRFT returns the unfiltered RFT snapshot.
func (s *Service) AllRFT(ctx context.Context) ([]models.RFTReportRecord, error) {
	records, err := s.rft.ListRFT(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rft records: %w", err)
	}
	return records, nil
}

// RFTReports returns the reports of one month matching search, latest first.
func (s *Service) RFTReports(ctx context.Context, month time.Month, year int, search string) ([]models.RFTReportRecord, error) {
	records, err := s.rft.ListRFT(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rft records: %w", err)
	}
	return filter.RFTByMonth(records, month, year, search), nil
}

// RFTSummary aggregates the RFT registry around anchor (zero = latest report).
func (s *Service) RFTSummary(ctx context.Context, anchor time.Time) (*RFTSummary, error) {
	records, err := s.rft.ListRFT(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rft records: %w", err)
	}
	started := time.Now()
	defer s.metrics.ObserveAggregation("rft_summary", started)
	return BuildRFTSummary(records, anchor), nil
}

// Shifts runs the estimated shift model over the production snapshot.
func (s *Service) Shifts(ctx context.Context, search string) (*ShiftReport, error) {
	records, err := s.production.ListProduction(ctx)
	if err != nil {
		return nil, fmt.Errorf("load production records: %w", err)
	}
	started := time.Now()
	defer s.metrics.ObserveAggregation("shifts", started)
	return BuildShiftReport(records, search, s.newRand(), s.rates.ShiftTarget), nil
}
