package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/lantabur/internal/config"
	"github.com/mamadbah2/lantabur/internal/domain/models"
	"github.com/mamadbah2/lantabur/internal/export"
	"github.com/mamadbah2/lantabur/internal/service/reporting"
	client "github.com/mamadbah2/lantabur/pkg/clients/whatsapp"
)

var (
	// ErrNoRecords is returned when there is no dated production record to report.
	ErrNoRecords = errors.New("no production record to report")
	// ErrNoRecipient is returned when neither the request nor the config names a recipient.
	ErrNoRecipient = errors.New("no report recipient")
	// ErrDisabled is returned when WhatsApp delivery is not configured.
	ErrDisabled = errors.New("whatsapp delivery is not configured")
)

const sendTimeout = 10 * time.Second

// ProductionSource supplies the production snapshot.
type ProductionSource interface {
	AllProduction(ctx context.Context) ([]models.ProductionRecord, error)
}

// MessagingService sends production reports over WhatsApp.
type MessagingService interface {
	SendDailyReport(ctx context.Context) error
	ShareRecord(ctx context.Context, id string, scope reporting.Scope, to string) error
}

// MetaWhatsAppService is the production implementation backed by WhatsApp Cloud API.
type MetaWhatsAppService struct {
	cfg        config.WhatsAppConfig
	client     client.Client
	production ProductionSource
	logger     *zap.Logger
}

// NewMetaWhatsAppService wires a new service instance. A nil client makes
// every send fail with ErrDisabled.
func NewMetaWhatsAppService(cfg config.WhatsAppConfig, c client.Client, production ProductionSource, logger *zap.Logger) *MetaWhatsAppService {
	svc := &MetaWhatsAppService{
		cfg:        cfg,
		client:     c,
		production: production,
		logger:     logger,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// SendDailyReport sends the combined report of the latest production record
// to the configured recipient.
func (s *MetaWhatsAppService) SendDailyReport(ctx context.Context) error {
	records, err := s.production.AllProduction(ctx)
	if err != nil {
		return fmt.Errorf("load production records: %w", err)
	}
	latest, ok := reporting.LatestProduction(records)
	if !ok {
		return ErrNoRecords
	}
	return s.send(ctx, s.cfg.ReportRecipient, export.DailyReport(latest, reporting.ScopeHistory, records), latest.ID)
}

// ShareRecord sends the report of record id for scope to the given number,
// or to the configured recipient when to is empty.
func (s *MetaWhatsAppService) ShareRecord(ctx context.Context, id string, scope reporting.Scope, to string) error {
	records, err := s.production.AllProduction(ctx)
	if err != nil {
		return fmt.Errorf("load production records: %w", err)
	}
	for _, r := range records {
		if r.ID == id {
			if strings.TrimSpace(to) == "" {
				to = s.cfg.ReportRecipient
			}
			return s.send(ctx, to, export.DailyReport(r, scope, records), r.ID)
		}
	}
	return models.ErrNotFound
}

func (s *MetaWhatsAppService) send(ctx context.Context, to, body, recordID string) error {
	if s.client == nil {
		return ErrDisabled
	}
	if strings.TrimSpace(to) == "" {
		return ErrNoRecipient
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	resp, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:   to,
		Body: body,
	})
	if err != nil {
		s.logger.Error("failed to send production report", zap.String("record_id", recordID), zap.Error(err))
		return err
	}

	s.logger.Info("production report sent",
		zap.String("record_id", recordID),
		zap.String("to", to),
		zap.String("message_id", resp.MessageID()))
	return nil
}
