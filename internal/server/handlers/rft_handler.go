package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/lantabur/internal/datefmt"
	"github.com/mamadbah2/lantabur/internal/domain/models"
	"github.com/mamadbah2/lantabur/internal/service/extraction"
	"github.com/mamadbah2/lantabur/internal/service/reporting"
)

// RFTQueries reads the RFT registry.
type RFTQueries interface {
	AllRFT(ctx context.Context) ([]models.RFTReportRecord, error)
	RFTReports(ctx context.Context, month time.Month, year int, search string) ([]models.RFTReportRecord, error)
	RFTSummary(ctx context.Context, anchor time.Time) (*reporting.RFTSummary, error)
}

// RFTCommands writes RFT reports.
type RFTCommands interface {
	SaveRFT(ctx context.Context, rec models.RFTReportRecord) (models.RFTReportRecord, error)
	DeleteRFT(ctx context.Context, id string) error
}

// RFTExtractor reads an uploaded RFT registry.
type RFTExtractor interface {
	ExtractRFT(ctx context.Context, doc extraction.Document) (models.RFTReportRecord, error)
}

// RFTHandler serves the RFT registry endpoints.
type RFTHandler struct {
	queries   RFTQueries
	commands  RFTCommands
	extractor RFTExtractor
	logger    *zap.Logger
	now       func() time.Time
}

// NewRFTHandler constructs the HTTP handler adapter.
func NewRFTHandler(queries RFTQueries, commands RFTCommands, extractor RFTExtractor, logger *zap.Logger) *RFTHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RFTHandler{queries: queries, commands: commands, extractor: extractor, logger: logger, now: time.Now}
}

// List returns one month of reports, the current month by default.
func (h *RFTHandler) List(c *gin.Context) {
	now := h.now()
	month, year := now.Month(), now.Year()
	if raw := c.Query("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 || m > 12 {
			respondError(c, h.logger, badRequest("month must be 1-12"), "invalid month")
			return
		}
		month = time.Month(m)
	}
	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 1 {
			respondError(c, h.logger, badRequest("invalid year %q", raw), "invalid year")
			return
		}
		year = y
	}

	list, err := h.queries.RFTReports(c.Request.Context(), month, year, strings.TrimSpace(c.Query("q")))
	if err != nil {
		respondError(c, h.logger, err, "failed to load rft reports")
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": list, "count": len(list), "month": int(month), "year": year})
}

// Summary returns the RFT averages. anchor selects the reference day.
func (h *RFTHandler) Summary(c *gin.Context) {
	var anchor time.Time
	if raw := strings.TrimSpace(c.Query("anchor")); raw != "" {
		t, err := datefmt.Parse(raw)
		if err != nil {
			respondError(c, h.logger, badRequest("invalid anchor date %q", raw), "invalid anchor")
			return
		}
		anchor = t
	}
	summary, err := h.queries.RFTSummary(c.Request.Context(), anchor)
	if err != nil {
		respondError(c, h.logger, err, "failed to summarize rft reports")
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// Save stores a report and returns it with its percentages recomputed.
func (h *RFTHandler) Save(c *gin.Context) {
	var rec models.RFTReportRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		respondError(c, h.logger, badRequest("invalid request body"), "invalid rft payload")
		return
	}
	saved, err := h.commands.SaveRFT(c.Request.Context(), rec)
	if err != nil {
		respondError(c, h.logger, err, "failed to save rft report")
		return
	}
	c.JSON(http.StatusOK, saved)
}

// Delete removes a report by id.
func (h *RFTHandler) Delete(c *gin.Context) {
	if err := h.commands.DeleteRFT(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err, "failed to delete rft report")
		return
	}
	c.Status(http.StatusNoContent)
}

// Extract reads an uploaded registry and returns an unsaved draft for review.
func (h *RFTHandler) Extract(c *gin.Context) {
	doc, err := documentFromForm(c)
	if err != nil {
		respondError(c, h.logger, err, "invalid upload")
		return
	}
	draft, err := h.extractor.ExtractRFT(c.Request.Context(), doc)
	if err != nil {
		respondError(c, h.logger, err, "failed to extract rft report")
		return
	}
	c.JSON(http.StatusOK, draft)
}

// Operators returns both operator panels of one report.
func (h *RFTHandler) Operators(c *gin.Context) {
	all, err := h.queries.AllRFT(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "failed to load rft reports")
		return
	}
	id := c.Param("id")
	for _, r := range all {
		if r.ID == id {
			c.JSON(http.StatusOK, gin.H{"id": r.ID, "date": datefmt.RFTDisplay(r.Date), "operators": reporting.Operators(r)})
			return
		}
	}
	respondError(c, h.logger, models.ErrNotFound, "rft report not found")
}
