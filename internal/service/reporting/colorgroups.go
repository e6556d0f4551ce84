package reporting

import (
	"fmt"
	"sort"

	"github.com/mamadbah2/lantabur/internal/datefmt"
	"github.com/mamadbah2/lantabur/internal/domain/models"
)

// DoublePart is the display label merging the two double-part source groups.
const DoublePart = "DOUBLE PART"

var doublePartSources = [...]string{"Double Part", "Double Part -Black"}

// CanonicalColorGroups is the display order of the color group columns.
var CanonicalColorGroups = []string{
	"100% Polyester", "Average", "Black", "Dark", "Extra Dark",
	DoublePart, "Light", "Medium", "N/wash", "Royal", "White",
}

// Scope selects which business unit a summary covers.
type Scope string

const (
	ScopeHistory  Scope = "history"
	ScopeLantabur Scope = "lantabur"
	ScopeTaqwa    Scope = "taqwa"
)

// ParseScope maps a query value to a Scope. Empty means history.
func ParseScope(value string) (Scope, error) {
	switch Scope(value) {
	case "", ScopeHistory:
		return ScopeHistory, nil
	case ScopeLantabur, ScopeTaqwa:
		return Scope(value), nil
	default:
		return "", fmt.Errorf("unknown scope %q", value)
	}
}

// Industry returns the unit of a single-unit scope.
func (s Scope) Industry() (models.Industry, bool) {
	switch s {
	case ScopeLantabur:
		return models.IndustryLantabur, true
	case ScopeTaqwa:
		return models.IndustryTaqwa, true
	default:
		return "", false
	}
}

// GroupValue looks up a group weight by name. DOUBLE PART sums its two
// source labels; a missing group weighs 0.
func GroupValue(groups []models.ColorGroup, name string) float64 {
	if name == DoublePart {
		var sum float64
		for _, source := range doublePartSources {
			sum += findGroup(groups, source)
		}
		return sum
	}
	return findGroup(groups, name)
}

func findGroup(groups []models.ColorGroup, name string) float64 {
	for _, g := range groups {
		if g.GroupName == name {
			return g.Weight
		}
	}
	return 0
}

// GroupWeight is a named weight in canonical order.
type GroupWeight struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// Totals is the aggregated footer of a filtered production table.
type Totals struct {
	Scope            Scope         `json:"scope"`
	Records          int           `json:"records"`
	LantaburTotal    float64       `json:"lantaburTotal"`
	TaqwaTotal       float64       `json:"taqwaTotal"`
	CombinedTotal    float64       `json:"combinedTotal"`
	IndustryTotal    float64       `json:"industryTotal"`
	Inhouse          float64       `json:"inhouse"`
	SubContract      float64       `json:"subContract"`
	AveragePerRecord float64       `json:"averagePerRecord"`
	ColorGroups      []GroupWeight `json:"colorGroups"`
}

// Summarize sums a filtered record set for the given scope.
func Summarize(records []models.ProductionRecord, scope Scope) Totals {
	t := Totals{Scope: scope, Records: len(records)}
	groups := make([]float64, len(CanonicalColorGroups))

	for _, r := range records {
		t.LantaburTotal += r.Lantabur.Total
		t.TaqwaTotal += r.Taqwa.Total
		t.CombinedTotal += r.TotalProduction

		for _, unit := range scopeUnits(r, scope) {
			if scope != ScopeHistory {
				t.IndustryTotal += unit.Total
			}
			t.Inhouse += unit.Inhouse
			t.SubContract += unit.SubContract
			for i, name := range CanonicalColorGroups {
				groups[i] += GroupValue(unit.ColorGroups, name)
			}
		}
	}

	t.AveragePerRecord = t.CombinedTotal / float64(max(1, len(records)))
	t.ColorGroups = make([]GroupWeight, len(CanonicalColorGroups))
	for i, name := range CanonicalColorGroups {
		t.ColorGroups[i] = GroupWeight{Name: name, Weight: groups[i]}
	}
	return t
}

func scopeUnits(r models.ProductionRecord, scope Scope) []models.IndustryData {
	if industry, ok := scope.Industry(); ok {
		return []models.IndustryData{r.Unit(industry)}
	}
	return []models.IndustryData{r.Lantabur, r.Taqwa}
}

// RecordBreakdown is the per-record insight panel.
type RecordBreakdown struct {
	ID          string        `json:"id"`
	Date        string        `json:"date"`
	Scope       Scope         `json:"scope"`
	Total       float64       `json:"total"`
	Inhouse     float64       `json:"inhouse"`
	SubContract float64       `json:"subContract"`
	Groups      []GroupWeight `json:"groups"`
	// Ranked holds the non-zero groups, heaviest first.
	Ranked []GroupWeight `json:"ranked"`
}

// Breakdown computes the color group split of one record.
func Breakdown(r models.ProductionRecord, scope Scope) RecordBreakdown {
	b := RecordBreakdown{ID: r.ID, Date: r.Date, Scope: scope}
	if industry, ok := scope.Industry(); ok {
		b.Total = r.Unit(industry).Total
	} else {
		b.Total = r.TotalProduction
	}

	units := scopeUnits(r, scope)
	for _, unit := range units {
		b.Inhouse += unit.Inhouse
		b.SubContract += unit.SubContract
	}

	b.Groups = make([]GroupWeight, len(CanonicalColorGroups))
	for i, name := range CanonicalColorGroups {
		var w float64
		for _, unit := range units {
			w += GroupValue(unit.ColorGroups, name)
		}
		b.Groups[i] = GroupWeight{Name: name, Weight: w}
		if w > 0 {
			b.Ranked = append(b.Ranked, b.Groups[i])
		}
	}
	sort.SliceStable(b.Ranked, func(i, j int) bool { return b.Ranked[i].Weight > b.Ranked[j].Weight })
	return b
}

// MonthlyStats returns the month total and per-day average of one unit for
// the calendar month of date.
func MonthlyStats(records []models.ProductionRecord, date string, industry models.Industry) (total, avgDay float64) {
	target, err := datefmt.Parse(date)
	if err != nil {
		return 0, 0
	}

	var count int
	for _, r := range records {
		at, err := datefmt.Parse(r.Date)
		if err != nil || !datefmt.SameMonth(at, target) {
			continue
		}
		total += r.Unit(industry).Total
		count++
	}
	return total, safeDiv(total, float64(count))
}
