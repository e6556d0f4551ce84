package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/lantabur/internal/domain/models"
	"github.com/mamadbah2/lantabur/internal/export"
	"github.com/mamadbah2/lantabur/internal/service/extraction"
	"github.com/mamadbah2/lantabur/internal/service/filter"
	"github.com/mamadbah2/lantabur/internal/service/reporting"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ProductionQueries reads production snapshots.
type ProductionQueries interface {
	Production(ctx context.Context, c filter.Criteria) ([]models.ProductionRecord, error)
	ProductionTotals(ctx context.Context, c filter.Criteria, scope reporting.Scope) (reporting.Totals, error)
	AllProduction(ctx context.Context) ([]models.ProductionRecord, error)
}

// ProductionCommands writes production records.
type ProductionCommands interface {
	SaveProduction(ctx context.Context, rec models.ProductionRecord, replaceID string) (models.ProductionRecord, error)
	DeleteProduction(ctx context.Context, id string) error
}

// ProductionExtractor turns an uploaded daily report into a record.
type ProductionExtractor interface {
	ExtractProduction(ctx context.Context, doc extraction.Document) (models.ProductionRecord, error)
}

// ReportSharer sends a record's report text to a phone number.
type ReportSharer interface {
	ShareRecord(ctx context.Context, id string, scope reporting.Scope, to string) error
}

// ProductionHandler serves the production history endpoints.
type ProductionHandler struct {
	queries   ProductionQueries
	commands  ProductionCommands
	extractor ProductionExtractor
	sharer    ReportSharer
	logger    *zap.Logger
	now       func() time.Time
}

// NewProductionHandler constructs the HTTP handler adapter.
func NewProductionHandler(queries ProductionQueries, commands ProductionCommands, extractor ProductionExtractor, sharer ReportSharer, logger *zap.Logger) *ProductionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductionHandler{
		queries:   queries,
		commands:  commands,
		extractor: extractor,
		sharer:    sharer,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns the filtered records, latest first.
func (h *ProductionHandler) List(c *gin.Context) {
	criteria, err := criteriaFromQuery(c)
	if err != nil {
		respondError(c, h.logger, err, "invalid filter")
		return
	}
	list, err := h.queries.Production(c.Request.Context(), criteria)
	if err != nil {
		respondError(c, h.logger, err, "failed to load production records")
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": list, "count": len(list)})
}

// Summary returns the tab totals of the filtered records.
func (h *ProductionHandler) Summary(c *gin.Context) {
	criteria, err := criteriaFromQuery(c)
	if err != nil {
		respondError(c, h.logger, err, "invalid filter")
		return
	}
	scope, err := scopeFromQuery(c)
	if err != nil {
		respondError(c, h.logger, err, "invalid scope")
		return
	}
	totals, err := h.queries.ProductionTotals(c.Request.Context(), criteria, scope)
	if err != nil {
		respondError(c, h.logger, err, "failed to summarize production")
		return
	}
	c.JSON(http.StatusOK, totals)
}

// Save creates or replaces a record. replace_id may come from the query or
// the body.
func (h *ProductionHandler) Save(c *gin.Context) {
	var req struct {
		models.ProductionRecord
		ReplaceID string `json:"replaceId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, badRequest("invalid request body"), "invalid production payload")
		return
	}
	replaceID := req.ReplaceID
	if q := c.Query("replace_id"); q != "" {
		replaceID = q
	}

	saved, err := h.commands.SaveProduction(c.Request.Context(), req.ProductionRecord, replaceID)
	if err != nil {
		respondError(c, h.logger, err, "failed to save production record")
		return
	}
	c.JSON(http.StatusOK, saved)
}

// Delete removes a record by id.
func (h *ProductionHandler) Delete(c *gin.Context) {
	if err := h.commands.DeleteProduction(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err, "failed to delete production record")
		return
	}
	c.Status(http.StatusNoContent)
}

// Extract reads an uploaded daily report and stores the extracted record,
// replacing replace_id when given.
func (h *ProductionHandler) Extract(c *gin.Context) {
	doc, err := documentFromForm(c)
	if err != nil {
		respondError(c, h.logger, err, "invalid upload")
		return
	}
	rec, err := h.extractor.ExtractProduction(c.Request.Context(), doc)
	if err != nil {
		respondError(c, h.logger, err, "failed to extract production report")
		return
	}
	saved, err := h.commands.SaveProduction(c.Request.Context(), rec, c.PostForm("replace_id"))
	if err != nil {
		respondError(c, h.logger, err, "failed to save production record")
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// Report returns the shareable report text of one record.
func (h *ProductionHandler) Report(c *gin.Context) {
	scope, err := scopeFromQuery(c)
	if err != nil {
		respondError(c, h.logger, err, "invalid scope")
		return
	}
	all, rec, err := h.find(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "failed to load production record")
		return
	}
	c.String(http.StatusOK, export.DailyReport(rec, scope, all))
}

// Insight returns the color group breakdown of one record as CSV.
func (h *ProductionHandler) Insight(c *gin.Context) {
	scope, err := scopeFromQuery(c)
	if err != nil {
		respondError(c, h.logger, err, "invalid scope")
		return
	}
	_, rec, err := h.find(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "failed to load production record")
		return
	}
	name := export.FileName("insight_"+strings.ReplaceAll(rec.Date, " ", "_"), "csv", h.now())
	attachment(c, name, "text/csv", export.InsightCSV(reporting.Breakdown(rec, scope)))
}

// ExportCSV downloads the filtered table for scope.
func (h *ProductionHandler) ExportCSV(c *gin.Context) {
	list, scope, ok := h.exportRows(c)
	if !ok {
		return
	}
	attachment(c, export.FileName(export.ScopePrefix(scope), "csv", h.now()), "text/csv", export.ProductionCSV(list, scope))
}

// ExportXLSX downloads the filtered table for scope as a workbook.
func (h *ProductionHandler) ExportXLSX(c *gin.Context) {
	list, scope, ok := h.exportRows(c)
	if !ok {
		return
	}
	body, err := export.ProductionWorkbook(list, scope)
	if err != nil {
		respondError(c, h.logger, err, "failed to build workbook")
		return
	}
	attachment(c, export.FileName(export.ScopePrefix(scope), "xlsx", h.now()), xlsxContentType, body)
}

// Share sends the report text of one record over WhatsApp.
func (h *ProductionHandler) Share(c *gin.Context) {
	scope, err := scopeFromQuery(c)
	if err != nil {
		respondError(c, h.logger, err, "invalid scope")
		return
	}
	var req struct {
		To string `json:"to"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, h.logger, badRequest("invalid request body"), "invalid share payload")
			return
		}
	}
	if err := h.sharer.ShareRecord(c.Request.Context(), c.Param("id"), scope, req.To); err != nil {
		respondError(c, h.logger, err, "unable to share report")
		return
	}
	c.Status(http.StatusAccepted)
}

func (h *ProductionHandler) exportRows(c *gin.Context) ([]models.ProductionRecord, reporting.Scope, bool) {
	criteria, err := criteriaFromQuery(c)
	if err != nil {
		respondError(c, h.logger, err, "invalid filter")
		return nil, "", false
	}
	scope, err := scopeFromQuery(c)
	if err != nil {
		respondError(c, h.logger, err, "invalid scope")
		return nil, "", false
	}
	list, err := h.queries.Production(c.Request.Context(), criteria)
	if err != nil {
		respondError(c, h.logger, err, "failed to load production records")
		return nil, "", false
	}
	return list, scope, true
}

func (h *ProductionHandler) find(ctx context.Context, id string) ([]models.ProductionRecord, models.ProductionRecord, error) {
	all, err := h.queries.AllProduction(ctx)
	if err != nil {
		return nil, models.ProductionRecord{}, err
	}
	for _, r := range all {
		if r.ID == id {
			return all, r, nil
		}
	}
	return nil, models.ProductionRecord{}, models.ErrNotFound
}
