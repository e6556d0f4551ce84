package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/lantabur/internal/export"
	"github.com/mamadbah2/lantabur/internal/service/reporting"
)

// DashboardQueries builds the aggregated views.
type DashboardQueries interface {
	Overview(ctx context.Context) (reporting.Overview, error)
	Shifts(ctx context.Context, search string) (*reporting.ShiftReport, error)
}

// DashboardHandler serves the overview and shift pages.
type DashboardHandler struct {
	queries DashboardQueries
	logger  *zap.Logger
	now     func() time.Time
}

// NewDashboardHandler constructs the HTTP handler adapter.
func NewDashboardHandler(queries DashboardQueries, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{queries: queries, logger: logger, now: time.Now}
}

// Overview returns the dashboard, the trend and the RFT summary. Empty
// collections yield null sections.
func (h *DashboardHandler) Overview(c *gin.Context) {
	overview, err := h.queries.Overview(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "failed to build dashboard")
		return
	}
	c.JSON(http.StatusOK, overview)
}

// Shifts returns the estimated shift report.
func (h *DashboardHandler) Shifts(c *gin.Context) {
	report, err := h.queries.Shifts(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, h.logger, err, "failed to build shift report")
		return
	}
	if report == nil {
		c.JSON(http.StatusOK, gin.H{"estimated": true, "history": []any{}, "filtered": []any{}})
		return
	}
	c.JSON(http.StatusOK, report)
}

// ShiftsCSV downloads the filtered shift table.
func (h *DashboardHandler) ShiftsCSV(c *gin.Context) {
	report, err := h.queries.Shifts(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, h.logger, err, "failed to build shift report")
		return
	}
	var days []reporting.EstimatedShiftDay
	if report != nil {
		days = report.Filtered
	}
	attachment(c, export.FileName("shift", "csv", h.now()), "text/csv", export.ShiftCSV(days))
}
