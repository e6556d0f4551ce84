package reporting

import (
	"sort"
	"strings"
	"time"

	"github.com/mamadbah2/lantabur/internal/datefmt"
	"github.com/mamadbah2/lantabur/internal/domain/models"
)

const (
	bulkDyeingMarker = "B/D CARD"
	labDyeingMarker  = "LAB"
	miscColorGroup   = "Misc"
)

// RFTPerformance is the right-first-time split of one day's batches.
type RFTPerformance struct {
	BulkRFT   float64 `json:"bulkRft"`
	LabRFT    float64 `json:"labRft"`
	BulkTotal int     `json:"bulkTotal"`
	LabTotal  int     `json:"labTotal"`
}

// ComputeRFT partitions entries by dyeing type and returns the share of
// shade-ok batches per partition. An empty partition scores 0.
func ComputeRFT(entries []models.RFTBatchEntry) RFTPerformance {
	var p RFTPerformance
	var bulkOk, labOk int
	for _, e := range entries {
		kind := strings.ToUpper(e.DyeingType)
		if strings.Contains(kind, bulkDyeingMarker) {
			p.BulkTotal++
			if e.Shade == models.ShadeOk {
				bulkOk++
			}
		}
		if strings.Contains(kind, labDyeingMarker) {
			p.LabTotal++
			if e.Shade == models.ShadeOk {
				labOk++
			}
		}
	}
	p.BulkRFT = percentOf(float64(bulkOk), float64(p.BulkTotal))
	p.LabRFT = percentOf(float64(labOk), float64(p.LabTotal))
	return p
}

// ApplyRFT overwrites the cached percentages of r from its entries.
func ApplyRFT(r *models.RFTReportRecord) {
	p := ComputeRFT(r.Entries)
	r.BulkRFTPercent = Round2(p.BulkRFT)
	r.LabRFTPercent = Round2(p.LabRFT)
}

// EntryTotals is the footer of an RFT registry.
type EntryTotals struct {
	TotalQty   float64 `json:"totalQty"`
	AvgLoad    float64 `json:"avgLoad"`
	OkCount    int     `json:"okCount"`
	NotOkCount int     `json:"notOkCount"`
	Pending    int     `json:"pending"`
}

// SumEntries totals quantity, load and shade outcomes.
func SumEntries(entries []models.RFTBatchEntry) EntryTotals {
	var t EntryTotals
	var load float64
	for _, e := range entries {
		t.TotalQty += e.FQty
		load += e.LoadCapPercent
		switch e.Shade {
		case models.ShadeOk:
			t.OkCount++
		case models.ShadeNotOk:
			t.NotOkCount++
		default:
			t.Pending++
		}
	}
	t.AvgLoad = safeDiv(load, float64(len(entries)))
	return t
}

// GroupStat is the quantity and batch count of one color group.
type GroupStat struct {
	ColorGroup string  `json:"colorGroup"`
	Qty        float64 `json:"qty"`
	Count      int     `json:"count"`
}

func matchesOperator(e models.RFTBatchEntry, operator string) bool {
	return operator != "" && strings.Contains(strings.ToUpper(e.ShiftUnload), strings.ToUpper(operator))
}

// OperatorBreakdown groups the batches unloaded by operator per color group,
// heaviest group first.
func OperatorBreakdown(entries []models.RFTBatchEntry, operator string) []GroupStat {
	index := map[string]int{}
	var stats []GroupStat
	for _, e := range entries {
		if !matchesOperator(e, operator) {
			continue
		}
		group := e.ColorGroup
		if group == "" {
			group = miscColorGroup
		}
		i, ok := index[group]
		if !ok {
			i = len(stats)
			index[group] = i
			stats = append(stats, GroupStat{ColorGroup: group})
		}
		stats[i].Qty += e.FQty
		stats[i].Count++
	}
	sort.SliceStable(stats, func(i, j int) bool { return stats[i].Qty > stats[j].Qty })
	return stats
}

// DeriveShiftSummary totals quantity and batch count per operator.
func DeriveShiftSummary(entries []models.RFTBatchEntry) (performance, count models.OperatorFigures) {
	for _, e := range entries {
		if matchesOperator(e, models.OperatorYousuf) {
			performance.Yousuf += e.FQty
			count.Yousuf++
		}
		if matchesOperator(e, models.OperatorHumayun) {
			performance.Humayun += e.FQty
			count.Humayun++
		}
	}
	return performance, count
}

// OperatorReport is the per-operator panel of an RFT registry.
type OperatorReport struct {
	Operator    string      `json:"operator"`
	Qty         float64     `json:"qty"`
	Batches     float64     `json:"batches"`
	ColorGroups []GroupStat `json:"colorGroups"`
}

// Operators builds both operator panels of a report.
func Operators(r models.RFTReportRecord) []OperatorReport {
	return []OperatorReport{
		{
			Operator:    models.OperatorYousuf,
			Qty:         r.ShiftPerformance.Yousuf,
			Batches:     r.ShiftCount.Yousuf,
			ColorGroups: OperatorBreakdown(r.Entries, models.OperatorYousuf),
		},
		{
			Operator:    models.OperatorHumayun,
			Qty:         r.ShiftPerformance.Humayun,
			Batches:     r.ShiftCount.Humayun,
			ColorGroups: OperatorBreakdown(r.Entries, models.OperatorHumayun),
		},
	}
}

// RFTAggregate averages RFT percentages over a set of days.
type RFTAggregate struct {
	Bulk    float64 `json:"bulk"`
	Lab     float64 `json:"lab"`
	Batches int     `json:"batches"`
	Days    int     `json:"days"`
}

// RFTDay is the RFT figure of the latest report.
type RFTDay struct {
	Date    string  `json:"date"`
	Bulk    float64 `json:"bulk"`
	Lab     float64 `json:"lab"`
	Batches int     `json:"batches"`
}

// RFTSummary is the quality overview across the registry.
type RFTSummary struct {
	Anchor    time.Time    `json:"anchor"`
	Today     RFTDay       `json:"today"`
	ThisMonth RFTAggregate `json:"thisMonth"`
	ThisYear  RFTAggregate `json:"thisYear"`
	Total     RFTAggregate `json:"total"`
	Undated   []string     `json:"undated,omitempty"`
}

// BuildRFTSummary aggregates RFT reports. Month and year windows are taken
// around anchor; a zero anchor means the latest report's date, the same
// policy as the production dashboard. Percentages are recomputed from the
// entries since stored values are only a cache. Returns nil for no input.
func BuildRFTSummary(records []models.RFTReportRecord, anchor time.Time) *RFTSummary {
	if len(records) == 0 {
		return nil
	}

	type dated struct {
		rec  models.RFTReportRecord
		perf RFTPerformance
		at   time.Time
		ok   bool
	}

	items := make([]dated, len(records))
	s := &RFTSummary{}
	for i, r := range records {
		at, err := datefmt.Parse(r.Date)
		items[i] = dated{rec: r, perf: ComputeRFT(r.Entries), at: at, ok: err == nil}
		if err != nil {
			s.Undated = append(s.Undated, r.ID)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].ok != items[j].ok {
			return items[i].ok
		}
		return items[i].ok && items[i].at.After(items[j].at)
	})

	latest := items[0]
	if anchor.IsZero() {
		anchor = latest.at
	}
	s.Anchor = anchor
	s.Today = RFTDay{
		Date:    latest.rec.Date,
		Bulk:    latest.perf.BulkRFT,
		Lab:     latest.perf.LabRFT,
		Batches: len(latest.rec.Entries),
	}

	var month, year, total []dated
	for _, it := range items {
		total = append(total, it)
		if !it.ok || anchor.IsZero() {
			continue
		}
		if it.at.Year() == anchor.Year() {
			year = append(year, it)
			if it.at.Month() == anchor.Month() {
				month = append(month, it)
			}
		}
	}

	aggregate := func(set []dated) RFTAggregate {
		var a RFTAggregate
		for _, it := range set {
			a.Bulk += it.perf.BulkRFT
			a.Lab += it.perf.LabRFT
			a.Batches += len(it.rec.Entries)
		}
		a.Days = len(set)
		a.Bulk = safeDiv(a.Bulk, float64(a.Days))
		a.Lab = safeDiv(a.Lab, float64(a.Days))
		return a
	}

	s.ThisMonth = aggregate(month)
	s.ThisYear = aggregate(year)
	s.Total = aggregate(total)
	return s
}
