package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/lantabur/internal/config"
	"github.com/mamadbah2/lantabur/internal/datefmt"
	"github.com/mamadbah2/lantabur/internal/domain/models"
	"github.com/mamadbah2/lantabur/internal/service/reporting"
)

// ProductionRange is where mirrored production rows are appended.
const ProductionRange = "Production!A:Z"

// Writer appends rows to a spreadsheet range.
type Writer interface {
	WriteRow(ctx context.Context, sheetRange string, values []interface{}) error
}

// GoogleSheetRepository appends rows through the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// WriteRow appends the provided values to the supplied sheet range.
func (r *GoogleSheetRepository) WriteRow(ctx context.Context, sheetRange string, values []interface{}) error {
	if sheetRange == "" {
		return fmt.Errorf("sheetRange must not be empty")
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append row into range %s: %w", sheetRange, err)
	}

	r.logger.Debug("row appended to sheet", zap.String("range", sheetRange))
	return nil
}

// ProductionMirror writes one row per saved production record.
type ProductionMirror struct {
	writer Writer
}

// NewProductionMirror wraps a row writer.
func NewProductionMirror(w Writer) *ProductionMirror {
	return &ProductionMirror{writer: w}
}

// AppendProductionRecord appends id, date, unit totals, combined inhouse and
// subcontract and the canonical color groups of both units.
func (m *ProductionMirror) AppendProductionRecord(ctx context.Context, rec models.ProductionRecord) error {
	return m.writer.WriteRow(ctx, ProductionRange, ProductionRow(rec))
}

// ProductionRow is the mirrored row layout.
func ProductionRow(rec models.ProductionRecord) []interface{} {
	row := []interface{}{
		rec.ID,
		datefmt.Display(rec.Date),
		rec.Lantabur.Total,
		rec.Taqwa.Total,
		rec.TotalProduction,
		rec.Lantabur.Inhouse + rec.Taqwa.Inhouse,
		rec.Lantabur.SubContract + rec.Taqwa.SubContract,
	}
	for _, name := range reporting.CanonicalColorGroups {
		row = append(row,
			reporting.GroupValue(rec.Lantabur.ColorGroups, name)+reporting.GroupValue(rec.Taqwa.ColorGroups, name))
	}
	return row
}
