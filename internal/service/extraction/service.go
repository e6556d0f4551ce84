// Package extraction turns uploaded report documents into draft records.
package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/lantabur/internal/datefmt"
	"github.com/mamadbah2/lantabur/internal/domain/models"
	"github.com/mamadbah2/lantabur/internal/metrics"
	"github.com/mamadbah2/lantabur/internal/service/reporting"
	"github.com/mamadbah2/lantabur/pkg/clients/anthropic"
)

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrEmptyDocument       = errors.New("empty document")
	ErrExtractionDisabled  = errors.New("document extraction is not configured")
	ErrMalformedResponse   = errors.New("extraction returned malformed data")
)

// Report kinds, used in logs and metrics.
const (
	KindProduction = "production"
	KindRFT        = "rft"
)

var supportedTypes = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
	"image/webp":      true,
}

// Document is an uploaded report file.
type Document struct {
	Name     string
	MimeType string
	Data     []byte
}

// Service runs documents through the AI client.
type Service struct {
	ai      anthropic.Client
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates an extraction service. A nil client disables
// extraction.
func NewService(ai anthropic.Client, m *metrics.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{ai: ai, metrics: m, logger: logger, now: time.Now}
}

// ExtractProduction reads a daily production report. The returned record is
// not stored; it has no id and its total is the sum of both units.
func (s *Service) ExtractProduction(ctx context.Context, doc Document) (rec models.ProductionRecord, err error) {
	defer func() { s.metrics.Extraction(KindProduction, err) }()

	var dto productionDTO
	if err := s.extract(ctx, KindProduction, doc, productionSystemPrompt, productionPrompt, &dto); err != nil {
		return models.ProductionRecord{}, err
	}

	rec = models.ProductionRecord{
		Date:     s.dateOrToday(dto.Date),
		Lantabur: dto.Lantabur.toModel(models.UnitLantabur),
		Taqwa:    dto.Taqwa.toModel(models.UnitTaqwa),
	}
	rec.TotalProduction = rec.Lantabur.Total + rec.Taqwa.Total
	return rec, nil
}

// ExtractRFT reads an RFT registry into a draft report with its percentages
// and shift summary filled in.
func (s *Service) ExtractRFT(ctx context.Context, doc Document) (rec models.RFTReportRecord, err error) {
	defer func() { s.metrics.Extraction(KindRFT, err) }()

	var dto rftDTO
	if err := s.extract(ctx, KindRFT, doc, rftSystemPrompt, rftPrompt, &dto); err != nil {
		return models.RFTReportRecord{}, err
	}

	rec = models.RFTReportRecord{
		Date:             s.dateOrToday(dto.Date),
		Unit:             strings.TrimSpace(dto.Unit),
		CompanyName:      strings.TrimSpace(dto.CompanyName),
		Entries:          make([]models.RFTBatchEntry, 0, len(dto.Entries)),
		ShiftPerformance: dto.ShiftPerformance.toModel(),
		ShiftCount:       dto.ShiftCount.toModel(),
	}
	if rec.Unit == "" {
		rec.Unit = models.DefaultRFTUnit
	}
	if rec.CompanyName == "" {
		rec.CompanyName = models.DefaultRFTCompany
	}
	for _, e := range dto.Entries {
		rec.Entries = append(rec.Entries, e.toModel())
	}

	reporting.ApplyRFT(&rec)
	if reported := float64(dto.BulkRFTPercent); reported != 0 && reporting.Round2(reported) != rec.BulkRFTPercent {
		s.logger.Info("printed bulk rft differs from entries",
			zap.Float64("printed", reported),
			zap.Float64("computed", rec.BulkRFTPercent))
	}
	if rec.ShiftPerformance.IsZero() && rec.ShiftCount.IsZero() {
		rec.ShiftPerformance, rec.ShiftCount = reporting.DeriveShiftSummary(rec.Entries)
	}
	return rec, nil
}

func (s *Service) extract(ctx context.Context, kind string, doc Document, system, prompt string, out any) error {
	if s.ai == nil {
		return ErrExtractionDisabled
	}
	if len(doc.Data) == 0 {
		return ErrEmptyDocument
	}
	mime, err := DetectMimeType(doc)
	if err != nil {
		return err
	}

	started := time.Now()
	raw, err := s.ai.ExtractJSON(ctx, anthropic.ExtractionRequest{
		SystemPrompt: system,
		Prompt:       prompt,
		Document:     doc.Data,
		MimeType:     mime,
	})
	if err != nil {
		s.logger.Error("extraction failed", zap.String("kind", kind), zap.String("file", doc.Name), zap.Error(err))
		return fmt.Errorf("extract %s report: %w", kind, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.logger.Error("extraction returned invalid json",
			zap.String("kind", kind),
			zap.String("file", doc.Name),
			zap.ByteString("response", raw),
			zap.Error(err))
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	s.logger.Info("document extracted",
		zap.String("kind", kind),
		zap.String("file", doc.Name),
		zap.String("mime_type", mime),
		zap.Int("bytes", len(doc.Data)),
		zap.Duration("elapsed", time.Since(started)))
	return nil
}

// DetectMimeType returns the declared type of doc when supported, sniffing
// the content when the type is missing or generic.
func DetectMimeType(doc Document) (string, error) {
	mime := strings.ToLower(strings.TrimSpace(doc.MimeType))
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	if mime == "" || mime == "application/octet-stream" {
		mime = http.DetectContentType(doc.Data)
	}
	if mime == "image/jpg" {
		mime = "image/jpeg"
	}
	if !supportedTypes[mime] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, mime)
	}
	return mime, nil
}

func (s *Service) dateOrToday(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return s.now().Format(datefmt.DisplayLayout)
	}
	return raw
}
