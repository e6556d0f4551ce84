package reporting

import (
	"math/rand/v2"
	"strings"

	"github.com/mamadbah2/lantabur/internal/domain/models"
	"github.com/mamadbah2/lantabur/internal/service/filter"
)

// The plant does not report per-shift output yet. Everything in this file is
// an estimation model: each day's total is split with fixed shares and the
// rework rate is drawn at random inside a band per shift. Results carry
// Estimated: true and must never be presented as measured data.

// ShiftBand describes one shift of the estimation model.
type ShiftBand struct {
	Name     string
	Hours    string
	Share    float64
	ReworkLo float64
	ReworkHi float64
}

// ShiftBands are the three production shifts.
var ShiftBands = [3]ShiftBand{
	{Name: "A", Hours: "06:00 - 14:00", Share: 0.45, ReworkLo: 0.02, ReworkHi: 0.04},
	{Name: "B", Hours: "14:00 - 22:00", Share: 0.35, ReworkLo: 0.03, ReworkHi: 0.06},
	{Name: "C", Hours: "22:00 - 06:00", Share: 0.20, ReworkLo: 0.05, ReworkHi: 0.10},
}

const shiftHistoryDays = 30

// EstimatedShift is the modelled output of one shift on one day.
type EstimatedShift struct {
	Shift      string  `json:"shift"`
	Output     float64 `json:"output"`
	Rework     float64 `json:"rework"`
	Efficiency float64 `json:"efficiency"`
}

// EstimatedShiftDay is one day split across the three shifts.
type EstimatedShiftDay struct {
	ID        string            `json:"id"`
	Date      string            `json:"date"`
	Total     float64           `json:"total"`
	Shifts    [3]EstimatedShift `json:"shifts"`
	Estimated bool              `json:"estimated"`
}

// EstimateShifts applies the estimation model to every record, keeping the
// input order. rng supplies the rework draws.
func EstimateShifts(records []models.ProductionRecord, rng *rand.Rand, shiftTarget float64) []EstimatedShiftDay {
	days := make([]EstimatedShiftDay, len(records))
	for i, r := range records {
		day := EstimatedShiftDay{ID: r.ID, Date: r.Date, Total: r.TotalProduction, Estimated: true}
		for j, band := range ShiftBands {
			output := r.TotalProduction * band.Share
			rate := band.ReworkLo + rng.Float64()*(band.ReworkHi-band.ReworkLo)
			day.Shifts[j] = EstimatedShift{
				Shift:      band.Name,
				Output:     output,
				Rework:     output * rate,
				Efficiency: percentOf(output, shiftTarget),
			}
		}
		days[i] = day
	}
	return days
}

// ShiftTotals sums output and rework per shift.
type ShiftTotals struct {
	Output [3]float64 `json:"output"`
	Rework [3]float64 `json:"rework"`
}

// SumShifts totals estimated days.
func SumShifts(days []EstimatedShiftDay) ShiftTotals {
	var t ShiftTotals
	for _, d := range days {
		for j, s := range d.Shifts {
			t.Output[j] += s.Output
			t.Rework[j] += s.Rework
		}
	}
	return t
}

// ShiftReport is the view model of the shift performance page.
type ShiftReport struct {
	Estimated bool                `json:"estimated"`
	Bands     [3]ShiftBand        `json:"bands"`
	History   []EstimatedShiftDay `json:"history"`
	Filtered  []EstimatedShiftDay `json:"filtered"`
	Latest    EstimatedShiftDay   `json:"latest"`
	Totals    ShiftTotals         `json:"totals"`
}

// BuildShiftReport estimates every day oldest first, keeps the last thirty
// for the chart and filters by search text, latest first. Returns nil for no
// input.
func BuildShiftReport(records []models.ProductionRecord, search string, rng *rand.Rand, shiftTarget float64) *ShiftReport {
	if len(records) == 0 {
		return nil
	}

	history := EstimateShifts(filter.SortAscending(records, filter.ProductionDate), rng, shiftTarget)

	needle := strings.ToLower(search)
	var matched []EstimatedShiftDay
	for _, d := range history {
		if strings.Contains(strings.ToLower(d.Date), needle) {
			matched = append(matched, d)
		}
	}
	matched = filter.SortDescending(matched, func(d EstimatedShiftDay) string { return d.Date })

	report := &ShiftReport{
		Estimated: true,
		Bands:     ShiftBands,
		History:   filter.Last(history, shiftHistoryDays),
		Filtered:  matched,
		Totals:    SumShifts(matched),
	}
	if len(matched) > 0 {
		report.Latest = matched[0]
	} else {
		report.Latest = history[len(history)-1]
	}
	return report
}
