// Package records owns every write to the production and RFT collections.
package records

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/lantabur/internal/domain/models"
	"github.com/mamadbah2/lantabur/internal/metrics"
	"github.com/mamadbah2/lantabur/internal/realtime"
	"github.com/mamadbah2/lantabur/internal/service/reporting"
)

var (
	// ErrNotFound is returned when the id to delete does not exist.
	ErrNotFound = models.ErrNotFound
	// ErrInvalidRecord is returned for records that cannot be stored.
	ErrInvalidRecord = errors.New("invalid record")
)

// ProductionStore persists production records.
type ProductionStore interface {
	ListProduction(ctx context.Context) ([]models.ProductionRecord, error)
	FindProductionByDate(ctx context.Context, date string) (models.ProductionRecord, error)
	UpsertProduction(ctx context.Context, record models.ProductionRecord) error
	DeleteProduction(ctx context.Context, id string) error
}

// RFTStore persists RFT reports.
type RFTStore interface {
	ListRFT(ctx context.Context) ([]models.RFTReportRecord, error)
	UpsertRFT(ctx context.Context, record models.RFTReportRecord) error
	DeleteRFT(ctx context.Context, id string) error
}

// Mirror receives a copy of every saved production record.
type Mirror interface {
	AppendProductionRecord(ctx context.Context, record models.ProductionRecord) error
}

// Publisher pushes collection snapshots to live subscribers.
type Publisher interface {
	Publish(collection string, records any)
}

// Service validates, completes and stores records.
type Service struct {
	production ProductionStore
	rft        RFTStore
	mirror     Mirror
	publisher  Publisher
	metrics    *metrics.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithMirror mirrors saved production records, typically to Google Sheets.
func WithMirror(m Mirror) Option {
	return func(s *Service) { s.mirror = m }
}

// WithPublisher publishes collection snapshots after each write.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithMetrics counts store writes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService wires a records service.
func NewService(production ProductionStore, rft RFTStore, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		production: production,
		rft:        rft,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SaveProduction stores rec. The id is replaceID when given, else the id of
// the record already stored under the same date text, else rec.ID, else a
// new uuid. The stored record is returned.
func (s *Service) SaveProduction(ctx context.Context, rec models.ProductionRecord, replaceID string) (models.ProductionRecord, error) {
	rec.Date = strings.TrimSpace(rec.Date)
	if rec.Date == "" {
		return models.ProductionRecord{}, fmt.Errorf("%w: date is required", ErrInvalidRecord)
	}

	id, err := s.resolveProductionID(ctx, rec, replaceID)
	if err != nil {
		return models.ProductionRecord{}, err
	}
	rec.ID = id
	rec.Lantabur.Name = models.UnitLantabur
	rec.Taqwa.Name = models.UnitTaqwa
	rec.TotalProduction = rec.Lantabur.Total + rec.Taqwa.Total
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now().UTC()
	}

	err = s.production.UpsertProduction(ctx, rec)
	s.metrics.StoreWrite(realtime.CollectionProduction, "upsert", err)
	if err != nil {
		return models.ProductionRecord{}, fmt.Errorf("save production record %s: %w", rec.ID, err)
	}

	s.logger.Info("production record saved",
		zap.String("id", rec.ID),
		zap.String("date", rec.Date),
		zap.Float64("total", rec.TotalProduction))

	if s.mirror != nil {
		if err := s.mirror.AppendProductionRecord(ctx, rec); err != nil {
			s.logger.Warn("failed to mirror production record", zap.String("id", rec.ID), zap.Error(err))
		}
	}
	s.publishProduction(ctx)
	return rec, nil
}

func (s *Service) resolveProductionID(ctx context.Context, rec models.ProductionRecord, replaceID string) (string, error) {
	if replaceID = strings.TrimSpace(replaceID); replaceID != "" {
		return replaceID, nil
	}

	existing, err := s.production.FindProductionByDate(ctx, rec.Date)
	switch {
	case err == nil:
		return existing.ID, nil
	case !errors.Is(err, models.ErrNotFound):
		return "", fmt.Errorf("lookup production record for %q: %w", rec.Date, err)
	}

	if rec.ID != "" {
		return rec.ID, nil
	}
	return uuid.NewString(), nil
}

// DeleteProduction removes the production record id.
func (s *Service) DeleteProduction(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidRecord)
	}
	err := s.production.DeleteProduction(ctx, id)
	s.metrics.StoreWrite(realtime.CollectionProduction, "delete", err)
	if err != nil {
		return fmt.Errorf("delete production record %s: %w", id, err)
	}
	s.logger.Info("production record deleted", zap.String("id", id))
	s.publishProduction(ctx)
	return nil
}

// SaveRFT stores an RFT report with its percentages recomputed from the
// entries. The shift summary is derived when the report carries none.
func (s *Service) SaveRFT(ctx context.Context, rec models.RFTReportRecord) (models.RFTReportRecord, error) {
	rec.Date = strings.TrimSpace(rec.Date)
	if rec.Date == "" {
		return models.RFTReportRecord{}, fmt.Errorf("%w: date is required", ErrInvalidRecord)
	}
	for i := range rec.Entries {
		if rec.Entries[i].Shade == "" {
			rec.Entries[i].Shade = models.ShadePending
		}
		if !rec.Entries[i].Shade.Valid() {
			return models.RFTReportRecord{}, fmt.Errorf("%w: entry %d has shade %q", ErrInvalidRecord, i+1, rec.Entries[i].Shade)
		}
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Unit == "" {
		rec.Unit = models.DefaultRFTUnit
	}
	if rec.CompanyName == "" {
		rec.CompanyName = models.DefaultRFTCompany
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now().UTC()
	}
	reporting.ApplyRFT(&rec)
	if rec.ShiftPerformance.IsZero() && rec.ShiftCount.IsZero() {
		rec.ShiftPerformance, rec.ShiftCount = reporting.DeriveShiftSummary(rec.Entries)
	}

	err := s.rft.UpsertRFT(ctx, rec)
	s.metrics.StoreWrite(realtime.CollectionRFT, "upsert", err)
	if err != nil {
		return models.RFTReportRecord{}, fmt.Errorf("save rft report %s: %w", rec.ID, err)
	}

	s.logger.Info("rft report saved",
		zap.String("id", rec.ID),
		zap.String("date", rec.Date),
		zap.Int("entries", len(rec.Entries)),
		zap.Float64("bulk_rft", rec.BulkRFTPercent),
		zap.Float64("lab_rft", rec.LabRFTPercent))
	s.publishRFT(ctx)
	return rec, nil
}

// DeleteRFT removes the RFT report id.
func (s *Service) DeleteRFT(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidRecord)
	}
	err := s.rft.DeleteRFT(ctx, id)
	s.metrics.StoreWrite(realtime.CollectionRFT, "delete", err)
	if err != nil {
		return fmt.Errorf("delete rft report %s: %w", id, err)
	}
	s.logger.Info("rft report deleted", zap.String("id", id))
	s.publishRFT(ctx)
	return nil
}

func (s *Service) publishProduction(ctx context.Context) {
	if s.publisher == nil {
		return
	}
	snapshot, err := s.production.ListProduction(ctx)
	if err != nil {
		s.logger.Warn("failed to reload production snapshot", zap.Error(err))
		return
	}
	s.publisher.Publish(realtime.CollectionProduction, snapshot)
}

func (s *Service) publishRFT(ctx context.Context) {
	if s.publisher == nil {
		return
	}
	snapshot, err := s.rft.ListRFT(ctx)
	if err != nil {
		s.logger.Warn("failed to reload rft snapshot", zap.Error(err))
		return
	}
	s.publisher.Publish(realtime.CollectionRFT, snapshot)
}
