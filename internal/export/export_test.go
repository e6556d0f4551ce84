package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/lantabur/internal/domain/models"
	"github.com/mamadbah2/lantabur/internal/service/reporting"
)

func sample() models.ProductionRecord {
	return models.ProductionRecord{
		ID:   "r1",
		Date: "2024-01-15",
		Lantabur: models.IndustryData{
			Total:       12500,
			LoadingCap:  87.5,
			Inhouse:     10000,
			SubContract: 2500,
			ColorGroups: []models.ColorGroup{
				{GroupName: "Black", Weight: 5000},
				{GroupName: "Double Part", Weight: 1000},
				{GroupName: "Double Part -Black", Weight: 250},
				{GroupName: "White", Weight: 1250},
			},
		},
		Taqwa: models.IndustryData{
			Total:   2000,
			Inhouse: 2000,
			ColorGroups: []models.ColorGroup{
				{GroupName: "Royal", Weight: 500},
			},
		},
		TotalProduction: 14500,
	}
}

func TestFileName(t *testing.T) {
	now := time.Date(2024, time.March, 5, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "production_report_2024-03-05.csv", FileName(ScopePrefix(reporting.ScopeHistory), "csv", now))
	assert.Equal(t, "taqwa_report_2024-03-05.xlsx", FileName(ScopePrefix(reporting.ScopeTaqwa), "xlsx", now))
}

func TestProductionCSVCombined(t *testing.T) {
	out := string(ProductionCSV([]models.ProductionRecord{sample()}, reporting.ScopeHistory))

	assert.Equal(t,
		"Date,Total Weight,Inhouse,Sub Contract,Lantabur Total,Taqwa Total\n"+
			"15 Jan 2024,14500,12000,2500,12500,2000",
		out)
}

func TestProductionCSVIndustry(t *testing.T) {
	out := string(ProductionCSV([]models.ProductionRecord{sample()}, reporting.ScopeLantabur))
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)

	header := strings.Split(lines[0], ",")
	assert.Equal(t, 4+len(reporting.CanonicalColorGroups), len(header))
	assert.Equal(t, "DOUBLE PART", header[4+5])

	cells := strings.Split(lines[1], ",")
	assert.Equal(t, "12500", cells[1])
	assert.Equal(t, "5000", cells[4+2])
	assert.Equal(t, "1250", cells[4+5])
}

func TestShiftCSVRoundsToWholeKg(t *testing.T) {
	day := reporting.EstimatedShiftDay{Date: "01 Jan 2024", Total: 1000.4}
	day.Shifts[0] = reporting.EstimatedShift{Output: 450.2, Rework: 13.6}
	day.Shifts[1] = reporting.EstimatedShift{Output: 350.1, Rework: 14.4}
	day.Shifts[2] = reporting.EstimatedShift{Output: 200.1, Rework: 16}

	out := string(ShiftCSV([]reporting.EstimatedShiftDay{day}))
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "01 Jan 2024,450,14,350,14,200,16,1000", lines[1])
}

func TestInsightCSV(t *testing.T) {
	out := string(InsightCSV(reporting.Breakdown(sample(), reporting.ScopeHistory)))
	lines := strings.Split(out, "\n")

	assert.Equal(t, []string{"Category,Value", "Total,14500", "Inhouse,12000", "Subcon,2500"}, lines[:4])
	assert.Contains(t, lines, "DOUBLE PART,1250")
	assert.Contains(t, lines, "Royal,500")
	assert.Len(t, lines, 4+len(reporting.CanonicalColorGroups))
}

func TestProductionWorkbook(t *testing.T) {
	second := sample()
	second.Date = "16 Jan 2024"
	data, err := ProductionWorkbook([]models.ProductionRecord{sample(), second}, reporting.ScopeHistory)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(productionSheet, "F1")
	require.NoError(t, err)
	assert.Equal(t, "Taqwa Total", header)

	date, err := f.GetCellValue(productionSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "15 Jan 2024", date)

	label, err := f.GetCellValue(productionSheet, "A4")
	require.NoError(t, err)
	assert.Equal(t, "Total", label)

	total, err := f.GetCellValue(productionSheet, "B4")
	require.NoError(t, err)
	assert.Equal(t, "29000", total)
}

func TestKg(t *testing.T) {
	assert.Equal(t, "0", Kg(0))
	assert.Equal(t, "1,500", Kg(1500))
	assert.Equal(t, "12,500.5", Kg(12500.5))
}

func TestDailyReportSingleUnit(t *testing.T) {
	history := []models.ProductionRecord{
		sample(),
		{Date: "02 Jan 2024", Lantabur: models.IndustryData{Total: 7500}},
		{Date: "31 Dec 2023", Lantabur: models.IndustryData{Total: 99999}},
	}

	text := DailyReport(sample(), reporting.ScopeLantabur, history)

	assert.Equal(t, `Date: 15 Jan 2024
----------------------------
╰─> Lantabur Data:
Total = 12,500 kg
Loading cap: 87.5%
Black: 5,000 kg (40.00%)
Average: 0 kg (0.00%)
Double Part: 1,250 kg (10.00%)
White: 1,250 kg (10.00%)

Inhouse: 10,000 kg (80.00%)
Sub Contract: 2,500 kg (20.00%)

Total this month: 20,000 kg
Avg/day: 10,000 kg`, text)
}

func TestDailyReportCombined(t *testing.T) {
	text := DailyReport(sample(), reporting.ScopeHistory, []models.ProductionRecord{sample()})

	assert.True(t, strings.HasPrefix(text, "Date: 15 Jan 2024\n"))
	assert.Contains(t, text, "╰─> Lantabur Data:")
	assert.Contains(t, text, "╰─> Taqwa Data:")
	assert.Contains(t, text, "Royal: 500 kg (25.00%)")
	assert.NotContains(t, text[strings.Index(text, "Taqwa"):], "Loading cap")
	assert.Less(t, strings.Index(text, "Lantabur"), strings.Index(text, "Taqwa"))
}
