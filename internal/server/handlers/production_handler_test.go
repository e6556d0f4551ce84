package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/lantabur/internal/domain/models"
	"github.com/mamadbah2/lantabur/internal/service/extraction"
	"github.com/mamadbah2/lantabur/internal/service/filter"
	"github.com/mamadbah2/lantabur/internal/service/records"
	"github.com/mamadbah2/lantabur/internal/service/reporting"
	waclient "github.com/mamadbah2/lantabur/pkg/clients/whatsapp"
)

func productionRouter(m *backendMock) *gin.Engine {
	h := NewProductionHandler(m, m, m, m, nil)
	h.now = func() time.Time { return time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC) }

	r := gin.New()
	g := r.Group("/api/production")
	g.GET("", h.List)
	g.POST("", h.Save)
	g.GET("/summary", h.Summary)
	g.GET("/export.csv", h.ExportCSV)
	g.GET("/export.xlsx", h.ExportXLSX)
	g.POST("/extract", h.Extract)
	g.DELETE("/:id", h.Delete)
	g.GET("/:id/report", h.Report)
	g.GET("/:id/insight.csv", h.Insight)
	g.POST("/:id/share", h.Share)
	return r
}

func stored() []models.ProductionRecord {
	return []models.ProductionRecord{
		{
			ID:   "r1",
			Date: "15 Jan 2024",
			Lantabur: models.IndustryData{
				Name:        models.UnitLantabur,
				Total:       1000,
				ColorGroups: []models.ColorGroup{{GroupName: "Black", Weight: 600}, {GroupName: "White", Weight: 400}},
				Inhouse:     700,
				SubContract: 300,
			},
			Taqwa:           models.IndustryData{Name: models.UnitTaqwa, Total: 500},
			TotalProduction: 1500,
		},
	}
}

func TestProductionListParsesCriteria(t *testing.T) {
	m := &backendMock{}
	m.On("Production", mock.Anything, mock.MatchedBy(func(c filter.Criteria) bool {
		return c.SearchText == "Jan" &&
			c.Start != nil && c.Start.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) &&
			c.End == nil
	})).Return(stored(), nil)

	w := do(t, productionRouter(m), http.MethodGet, "/api/production?q=Jan&start=2024-01-01", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Records []models.ProductionRecord `json:"records"`
		Count   int                       `json:"count"`
	}
	decode(t, w, &body)
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "r1", body.Records[0].ID)
	m.AssertExpectations(t)
}

func TestProductionListRejectsBadDate(t *testing.T) {
	w := do(t, productionRouter(&backendMock{}), http.MethodGet, "/api/production?end=someday", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid end date")
}

func TestProductionSummaryScope(t *testing.T) {
	m := &backendMock{}
	m.On("ProductionTotals", mock.Anything, mock.Anything, reporting.ScopeTaqwa).
		Return(reporting.Totals{Scope: reporting.ScopeTaqwa, Records: 1, IndustryTotal: 500}, nil)

	w := do(t, productionRouter(m), http.MethodGet, "/api/production/summary?scope=taqwa", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var totals reporting.Totals
	decode(t, w, &totals)
	assert.Equal(t, 500.0, totals.IndustryTotal)

	w = do(t, productionRouter(m), http.MethodGet, "/api/production/summary?scope=everything", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductionSaveUsesReplaceID(t *testing.T) {
	m := &backendMock{}
	m.On("SaveProduction", mock.Anything, mock.MatchedBy(func(r models.ProductionRecord) bool {
		return r.Date == "16 Jan 2024" && r.Lantabur.Total == 10
	}), "old-id").Return(models.ProductionRecord{ID: "old-id", Date: "16 Jan 2024"}, nil)

	body, _ := json.Marshal(map[string]any{
		"date":      "16 Jan 2024",
		"lantabur":  map[string]any{"total": 10},
		"replaceId": "old-id",
	})
	w := do(t, productionRouter(m), http.MethodPost, "/api/production", body, "application/json")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"id":"old-id"`)
	m.AssertExpectations(t)
}

func TestProductionSaveValidationError(t *testing.T) {
	m := &backendMock{}
	m.On("SaveProduction", mock.Anything, mock.Anything, "").Return(nil, records.ErrInvalidRecord)

	w := do(t, productionRouter(m), http.MethodPost, "/api/production", []byte(`{}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, productionRouter(m), http.MethodPost, "/api/production", []byte(`{`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductionDelete(t *testing.T) {
	m := &backendMock{}
	m.On("DeleteProduction", mock.Anything, "r1").Return(nil)
	m.On("DeleteProduction", mock.Anything, "gone").Return(models.ErrNotFound)

	assert.Equal(t, http.StatusNoContent, do(t, productionRouter(m), http.MethodDelete, "/api/production/r1", nil, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, productionRouter(m), http.MethodDelete, "/api/production/gone", nil, "").Code)
}

func TestProductionExtractSavesRecord(t *testing.T) {
	m := &backendMock{}
	extracted := models.ProductionRecord{Date: "17 Jan 2024", TotalProduction: 900}
	m.On("ExtractProduction", mock.Anything, mock.MatchedBy(func(d extraction.Document) bool {
		return d.Name == "report.png" && d.MimeType == "image/png" && string(d.Data) == "png-bytes"
	})).Return(extracted, nil)
	m.On("SaveProduction", mock.Anything, extracted, "r1").
		Return(models.ProductionRecord{ID: "r1", Date: "17 Jan 2024", TotalProduction: 900}, nil)

	body, contentType := upload(t, "report.png", "image/png", []byte("png-bytes"), map[string]string{"replace_id": "r1"})
	w := do(t, productionRouter(m), http.MethodPost, "/api/production/extract", body, contentType)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	m.AssertExpectations(t)
}

func TestProductionExtractErrors(t *testing.T) {
	w := do(t, productionRouter(&backendMock{}), http.MethodPost, "/api/production/extract", []byte("x"), "text/plain")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	m := &backendMock{}
	m.On("ExtractProduction", mock.Anything, mock.Anything).Return(nil, extraction.ErrExtractionDisabled)
	body, contentType := upload(t, "r.pdf", "application/pdf", []byte("%PDF"), nil)
	w = do(t, productionRouter(m), http.MethodPost, "/api/production/extract", body, contentType)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	m.AssertNotCalled(t, "SaveProduction", mock.Anything, mock.Anything, mock.Anything)
}

func TestProductionReportText(t *testing.T) {
	m := &backendMock{}
	m.On("AllProduction", mock.Anything).Return(stored(), nil)

	w := do(t, productionRouter(m), http.MethodGet, "/api/production/r1/report?scope=lantabur", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	text := w.Body.String()
	assert.True(t, strings.HasPrefix(text, "Date: 15 Jan 2024\n"))
	assert.Contains(t, text, "Total = 1,000 kg")
	assert.NotContains(t, text, "Taqwa")

	w = do(t, productionRouter(m), http.MethodGet, "/api/production/nope/report", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductionInsightCSV(t *testing.T) {
	m := &backendMock{}
	m.On("AllProduction", mock.Anything).Return(stored(), nil)

	w := do(t, productionRouter(m), http.MethodGet, "/api/production/r1/insight.csv?scope=lantabur", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="insight_15_Jan_2024_report_2024-01-20.csv"`, w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "Category,Value\n"))
	assert.Contains(t, w.Body.String(), "Black,600")
}

func TestProductionExports(t *testing.T) {
	m := &backendMock{}
	m.On("Production", mock.Anything, mock.Anything).Return(stored(), nil)

	w := do(t, productionRouter(m), http.MethodGet, "/api/production/export.csv", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="production_report_2024-01-20.csv"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Body.String(), "15 Jan 2024")

	w = do(t, productionRouter(m), http.MethodGet, "/api/production/export.xlsx?scope=taqwa", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="taqwa_report_2024-01-20.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "PK", w.Body.String()[:2])
}

func TestProductionShare(t *testing.T) {
	m := &backendMock{}
	m.On("ShareRecord", mock.Anything, "r1", reporting.ScopeHistory, "8801711111111").Return(nil)
	m.On("ShareRecord", mock.Anything, "r1", reporting.ScopeLantabur, "").Return(nil)

	w := do(t, productionRouter(m), http.MethodPost, "/api/production/r1/share", []byte(`{"to":"8801711111111"}`), "application/json")
	assert.Equal(t, http.StatusAccepted, w.Code)

	w = do(t, productionRouter(m), http.MethodPost, "/api/production/r1/share?scope=lantabur", nil, "")
	assert.Equal(t, http.StatusAccepted, w.Code)
	m.AssertExpectations(t)
}

func TestProductionShareReportsOversizedMessage(t *testing.T) {
	m := &backendMock{}
	m.On("ShareRecord", mock.Anything, "r1", reporting.ScopeHistory, "").
		Return(fmt.Errorf("%w: 5000 characters", waclient.ErrMessageTooLong))

	w := do(t, productionRouter(m), http.MethodPost, "/api/production/r1/share", nil, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body map[string]string
	decode(t, w, &body)
	assert.Contains(t, body["error"], "too long")
}
