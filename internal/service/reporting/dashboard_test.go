package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/lantabur/internal/domain/models"
)

func record(id, date string, lantabur, taqwa float64) models.ProductionRecord {
	return models.ProductionRecord{
		ID:              id,
		Date:            date,
		Lantabur:        models.IndustryData{Name: models.UnitLantabur, Total: lantabur},
		Taqwa:           models.IndustryData{Name: models.UnitTaqwa, Total: taqwa},
		TotalProduction: lantabur + taqwa,
	}
}

func TestGrowthClampsZeroDenominator(t *testing.T) {
	assert.Equal(t, 0.0, Growth(0, 0))
	assert.Equal(t, 10000.0, Growth(100, 0))
	assert.InDelta(t, 20.0, Growth(1800, 1500), 1e-9)
	assert.InDelta(t, -50.0, Growth(50, 100), 1e-9)
}

func TestBuildDashboardTwoDayScenario(t *testing.T) {
	records := []models.ProductionRecord{
		record("jan1", "01 Jan 2024", 1000, 500),
		record("jan2", "02 Jan 2024", 1200, 600),
	}

	d := BuildDashboard(records, DefaultRates)
	require.NotNil(t, d)

	assert.Equal(t, "jan2", d.Latest.ID)
	require.NotNil(t, d.Previous)
	assert.Equal(t, "jan1", d.Previous.ID)
	assert.InDelta(t, 20.0, d.GrowthWeight, 1e-9)
	assert.Equal(t, 3300.0, d.Totals.Lifetime)
	assert.Equal(t, 1800.0, d.Totals.Today)
	assert.Equal(t, "January", d.MonthName)

	assert.InDelta(t, 1200*1.25+600*1.18, d.LatestRevenue, 1e-9)
	assert.InDelta(t, 3300*45.0, d.Environment.WaterLitres, 1e-9)
	assert.InDelta(t, 3300*2.3, d.Environment.CO2Kg, 1e-9)
	assert.InDelta(t, 3.0, d.TargetProgress, 1e-9)
	assert.Equal(t, 58200.0, d.Shortfall)
	assert.InDelta(t, 66.6666, d.LantaburShare, 1e-3)
}

func TestBuildDashboardWindowsAnchorToLatestRecord(t *testing.T) {
	records := []models.ProductionRecord{
		record("feb-a", "05 Feb 2024", 100, 50),
		record("feb-b", "2024-02-14", 200, 50),
		record("jan", "31-Jan-24", 1000, 1000),
		record("last-year", "15 Feb 2023", 5, 5),
	}

	d := BuildDashboard(records, DefaultRates)
	require.NotNil(t, d)

	assert.Equal(t, "feb-b", d.Latest.ID)
	assert.Equal(t, 400.0, d.Totals.Month)
	assert.Equal(t, 2, d.MonthCount)
	assert.Equal(t, 200.0, d.AvgDay)
	assert.Equal(t, 150.0, d.Lantabur.AvgDay)
	assert.Equal(t, 50.0, d.Taqwa.AvgDay)
	assert.Equal(t, 2400.0, d.Totals.Year)
	assert.Equal(t, 2410.0, d.Totals.Lifetime)

	// 14 Feb 2024 is a Wednesday; the week opens on Sunday 11 Feb.
	assert.Equal(t, time.Date(2024, time.February, 11, 0, 0, 0, 0, time.UTC), d.WeekStart)
	assert.Equal(t, 250.0, d.Totals.Week)
}

func TestBuildDashboardSingleRecordHasNoGrowth(t *testing.T) {
	d := BuildDashboard([]models.ProductionRecord{record("only", "01 Jan 2024", 10, 0)}, DefaultRates)
	require.NotNil(t, d)

	assert.Nil(t, d.Previous)
	assert.Zero(t, d.GrowthWeight)
	assert.Zero(t, d.GrowthRevenue)
}

func TestBuildDashboardUndatedRecords(t *testing.T) {
	records := []models.ProductionRecord{
		record("ok", "01 Jan 2024", 100, 0),
		record("bad", "not a date", 50, 0),
	}

	d := BuildDashboard(records, DefaultRates)
	require.NotNil(t, d)

	assert.Equal(t, "ok", d.Latest.ID)
	assert.Equal(t, []string{"bad"}, d.Undated)
	assert.Equal(t, 100.0, d.Totals.Month)
	assert.Equal(t, 150.0, d.Totals.Lifetime)

	assert.Nil(t, BuildDashboard(nil, DefaultRates))
	assert.Nil(t, BuildDashboard([]models.ProductionRecord{record("bad", "", 1, 1)}, DefaultRates))
}

func TestBuildDashboardIsDeterministic(t *testing.T) {
	records := []models.ProductionRecord{
		record("a", "03 Jan 2024", 10, 20),
		record("b", "01 Jan 2024", 30, 40),
		record("c", "02 Jan 2024", 50, 60),
	}

	assert.Equal(t, BuildDashboard(records, DefaultRates), BuildDashboard(records, DefaultRates))
	assert.Equal(t, Trend(records, 30), Trend(records, 30))
}

func TestTrendIsOldestFirstAndCapped(t *testing.T) {
	records := []models.ProductionRecord{
		record("c", "03 Jan 2024", 3, 0),
		record("a", "01 Jan 2024", 1, 0),
		record("b", "02 Jan 2024", 2, 0),
		record("x", "garbage", 9, 0),
	}

	points := Trend(records, 2)

	require.Len(t, points, 2)
	assert.Equal(t, "02 Jan 2024", points[0].Date)
	assert.Equal(t, "03 Jan 2024", points[1].Date)
	assert.Len(t, Trend(records, 0), 3)
}
