package reporting

import (
	"math"
	"time"

	"github.com/mamadbah2/lantabur/internal/domain/models"
)

// BrandStats holds one business unit's windowed totals.
type BrandStats struct {
	Today      float64 `json:"today"`
	Week       float64 `json:"week"`
	Month      float64 `json:"month"`
	Year       float64 `json:"year"`
	AvgDay     float64 `json:"avgDay"`
	MonthCount int     `json:"monthCount"`
}

// PeriodTotals holds combined weights per window.
type PeriodTotals struct {
	Today    float64 `json:"today"`
	Week     float64 `json:"week"`
	Month    float64 `json:"month"`
	Year     float64 `json:"year"`
	Lifetime float64 `json:"lifetime"`
}

// Environment is the linear water and carbon estimate over lifetime output.
type Environment struct {
	WaterLitres float64 `json:"waterLitres"`
	CO2Kg       float64 `json:"co2Kg"`
}

// Dashboard is the view model of the operational summary. Every window is
// anchored to the latest record's date, not to the wall clock.
type Dashboard struct {
	Latest          models.ProductionRecord  `json:"latest"`
	Previous        *models.ProductionRecord `json:"previous,omitempty"`
	ReferenceDate   time.Time                `json:"referenceDate"`
	WeekStart       time.Time                `json:"weekStart"`
	MonthName       string                   `json:"monthName"`
	Lantabur        BrandStats               `json:"lantabur"`
	Taqwa           BrandStats               `json:"taqwa"`
	Totals          PeriodTotals             `json:"totals"`
	MonthCount      int                      `json:"monthCount"`
	AvgDay          float64                  `json:"avgDay"`
	LatestRevenue   float64                  `json:"latestRevenue"`
	PreviousRevenue float64                  `json:"previousRevenue"`
	GrowthWeight    float64                  `json:"growthWeight"`
	GrowthRevenue   float64                  `json:"growthRevenue"`
	Environment     Environment              `json:"environment"`
	TargetProgress  float64                  `json:"targetProgress"`
	Shortfall       float64                  `json:"shortfall"`
	LantaburShare   float64                  `json:"lantaburShare"`
	TaqwaShare      float64                  `json:"taqwaShare"`
	// Undated lists records left out of every window because their date
	// could not be parsed. They still count towards lifetime totals.
	Undated []string `json:"undated,omitempty"`
}

// BuildDashboard aggregates records into the dashboard view model. It
// returns nil when no record carries a parseable date.
func BuildDashboard(records []models.ProductionRecord, rates Rates) *Dashboard {
	dated, undated := dateProduction(records)
	if len(dated) == 0 {
		return nil
	}

	latest := dated[0]
	ref := latest.at
	weekStart := time.Date(ref.Year(), ref.Month(), ref.Day()-int(ref.Weekday()), 0, 0, 0, 0, ref.Location())

	d := &Dashboard{
		Latest:        latest.rec,
		ReferenceDate: ref,
		WeekStart:     weekStart,
		MonthName:     ref.Month().String(),
		Lantabur:      BrandStats{Today: latest.rec.Lantabur.Total},
		Taqwa:         BrandStats{Today: latest.rec.Taqwa.Total},
		Undated:       undated,
	}
	d.Totals.Today = latest.rec.TotalProduction

	for _, r := range records {
		d.Totals.Lifetime += r.TotalProduction
	}
	d.Environment = Environment{
		WaterLitres: d.Totals.Lifetime * rates.WaterPerKg,
		CO2Kg:       d.Totals.Lifetime * rates.CO2PerKg,
	}

	for _, item := range dated {
		at, r := item.at, item.rec
		if !at.Before(weekStart) && !at.After(ref) {
			d.Lantabur.Week += r.Lantabur.Total
			d.Taqwa.Week += r.Taqwa.Total
			d.Totals.Week += r.TotalProduction
		}
		if at.Year() == ref.Year() && at.Month() == ref.Month() {
			d.Lantabur.Month += r.Lantabur.Total
			d.Taqwa.Month += r.Taqwa.Total
			d.Totals.Month += r.TotalProduction
			d.MonthCount++
		}
		if at.Year() == ref.Year() {
			d.Lantabur.Year += r.Lantabur.Total
			d.Taqwa.Year += r.Taqwa.Total
			d.Totals.Year += r.TotalProduction
		}
	}

	d.Lantabur.MonthCount = d.MonthCount
	d.Taqwa.MonthCount = d.MonthCount
	d.Lantabur.AvgDay = safeDiv(d.Lantabur.Month, float64(d.MonthCount))
	d.Taqwa.AvgDay = safeDiv(d.Taqwa.Month, float64(d.MonthCount))
	d.AvgDay = safeDiv(d.Totals.Month, float64(d.MonthCount))

	d.LatestRevenue = Revenue(latest.rec, rates)
	if len(dated) > 1 {
		prev := dated[1].rec
		d.Previous = &prev
		d.PreviousRevenue = Revenue(prev, rates)
		d.GrowthWeight = Growth(latest.rec.TotalProduction, prev.TotalProduction)
		d.GrowthRevenue = Growth(d.LatestRevenue, d.PreviousRevenue)
	}

	d.TargetProgress = math.Min(100, percentOf(latest.rec.TotalProduction, rates.DailyTarget))
	d.Shortfall = math.Max(0, rates.DailyTarget-latest.rec.TotalProduction)
	d.LantaburShare = percentOf(latest.rec.Lantabur.Total, latest.rec.TotalProduction)
	d.TaqwaShare = percentOf(latest.rec.Taqwa.Total, latest.rec.TotalProduction)

	return d
}

// TrendPoint is one day of the production trend chart.
type TrendPoint struct {
	Date     string  `json:"date"`
	Lantabur float64 `json:"lantabur"`
	Taqwa    float64 `json:"taqwa"`
	Total    float64 `json:"total"`
}

// Trend returns up to the last n dated records oldest first.
func Trend(records []models.ProductionRecord, n int) []TrendPoint {
	dated, _ := dateProduction(records)
	if n > 0 && len(dated) > n {
		dated = dated[:n]
	}
	points := make([]TrendPoint, len(dated))
	for i, item := range dated {
		points[len(dated)-1-i] = TrendPoint{
			Date:     item.rec.Date,
			Lantabur: item.rec.Lantabur.Total,
			Taqwa:    item.rec.Taqwa.Total,
			Total:    item.rec.TotalProduction,
		}
	}
	return points
}
