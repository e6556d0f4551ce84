package reporting

import (
	"math"
	"sort"
	"time"

	"github.com/mamadbah2/lantabur/internal/datefmt"
	"github.com/mamadbah2/lantabur/internal/domain/models"
)

// Rates are the fixed per-kg coefficients used for derived figures.
type Rates struct {
	Lantabur   float64 // revenue per kg
	Taqwa      float64 // revenue per kg
	WaterPerKg float64 // litres
	CO2PerKg   float64 // kg CO2
	// DailyTarget is the combined kg goal for a single day.
	DailyTarget float64
	// ShiftTarget is the kg goal of one shift in the estimated shift model.
	ShiftTarget float64
}

// DefaultRates mirrors the coefficients the plant reports with.
var DefaultRates = Rates{
	Lantabur:    1.25,
	Taqwa:       1.18,
	WaterPerKg:  45,
	CO2PerKg:    2.3,
	DailyTarget: 60000,
	ShiftTarget: 20000,
}

// Growth is the percentage change from previous to latest. The denominator
// is floored at 1 so a zero previous value never divides by zero.
func Growth(latest, previous float64) float64 {
	return (latest - previous) / math.Max(1, previous) * 100
}

// Revenue estimates a day's revenue from per-unit weights.
func Revenue(r models.ProductionRecord, rates Rates) float64 {
	return r.Lantabur.Total*rates.Lantabur + r.Taqwa.Total*rates.Taqwa
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func percentOf(part, whole float64) float64 {
	return safeDiv(part, whole) * 100
}

// Round2 rounds to two decimals, as persisted percentages are.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

type datedProduction struct {
	rec models.ProductionRecord
	at  time.Time
}

// dateProduction splits records into those with a usable date, sorted latest
// first, and the ids of those without one.
func dateProduction(records []models.ProductionRecord) ([]datedProduction, []string) {
	dated := make([]datedProduction, 0, len(records))
	var undated []string
	for _, r := range records {
		at, err := datefmt.Parse(r.Date)
		if err != nil {
			undated = append(undated, r.ID)
			continue
		}
		dated = append(dated, datedProduction{rec: r, at: at})
	}
	sort.SliceStable(dated, func(i, j int) bool { return dated[i].at.After(dated[j].at) })
	return dated, undated
}

// LatestProduction returns the record with the most recent parseable date.
func LatestProduction(records []models.ProductionRecord) (models.ProductionRecord, bool) {
	dated, _ := dateProduction(records)
	if len(dated) == 0 {
		return models.ProductionRecord{}, false
	}
	return dated[0].rec, true
}
