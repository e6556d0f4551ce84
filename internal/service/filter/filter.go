// Package filter narrows production and RFT record lists by search text and
// date range before they are aggregated.
package filter

import (
	"sort"
	"strings"
	"time"

	"github.com/mamadbah2/lantabur/internal/datefmt"
	"github.com/mamadbah2/lantabur/internal/domain/models"
)

// Criteria holds the optional constraints of a record query.
type Criteria struct {
	SearchText string
	Start      *time.Time
	End        *time.Time
}

// HasRange reports whether at least one date bound is set.
func (c Criteria) HasRange() bool {
	return c.Start != nil || c.End != nil
}

// Production filters production records and returns them latest first.
func Production(records []models.ProductionRecord, c Criteria) []models.ProductionRecord {
	return apply(records, ProductionDate, c)
}

// RFT filters RFT reports and returns them latest first.
func RFT(records []models.RFTReportRecord, c Criteria) []models.RFTReportRecord {
	return apply(records, RFTDate, c)
}

// RFTByMonth keeps the reports of one calendar month whose raw or display
// date contains search.
func RFTByMonth(records []models.RFTReportRecord, month time.Month, year int, search string) []models.RFTReportRecord {
	needle := strings.ToLower(search)
	out := make([]models.RFTReportRecord, 0, len(records))
	for _, r := range records {
		at, err := datefmt.Parse(r.Date)
		if err != nil || at.Month() != month || at.Year() != year {
			continue
		}
		if !strings.Contains(r.Date, search) && !strings.Contains(strings.ToLower(datefmt.RFTDisplay(r.Date)), needle) {
			continue
		}
		out = append(out, r)
	}
	return SortDescending(out, RFTDate)
}

// SortDescending returns a copy of records ordered latest first. Records whose
// date cannot be parsed keep their relative order at the end.
func SortDescending[T any](records []T, dateOf func(T) string) []T {
	return sortByDate(records, dateOf, true)
}

// SortAscending returns a copy of records ordered oldest first, as trend
// charts expect. Undatable records still go last.
func SortAscending[T any](records []T, dateOf func(T) string) []T {
	return sortByDate(records, dateOf, false)
}

// Last returns at most the n trailing elements of records.
func Last[T any](records []T, n int) []T {
	if n <= 0 {
		return nil
	}
	if len(records) <= n {
		return records
	}
	return records[len(records)-n:]
}

// ProductionDate and RFTDate expose the raw date accessors for generic helpers.
func ProductionDate(r models.ProductionRecord) string { return r.Date }

func RFTDate(r models.RFTReportRecord) string { return r.Date }

func apply[T any](records []T, dateOf func(T) string, c Criteria) []T {
	needle := strings.ToLower(c.SearchText)

	var start, end time.Time
	if c.Start != nil {
		start = datefmt.StartOfDay(*c.Start)
	}
	if c.End != nil {
		end = datefmt.EndOfDay(*c.End)
	}

	out := make([]T, 0, len(records))
	for _, r := range records {
		raw := dateOf(r)
		if needle != "" && !strings.Contains(strings.ToLower(raw), needle) {
			continue
		}

		if c.HasRange() {
			at, err := datefmt.Parse(raw)
			if err != nil {
				continue
			}
			if c.Start != nil && at.Before(start) {
				continue
			}
			if c.End != nil && at.After(end) {
				continue
			}
		}

		out = append(out, r)
	}

	return SortDescending(out, dateOf)
}

type keyed[T any] struct {
	rec T
	at  time.Time
	ok  bool
}

func sortByDate[T any](records []T, dateOf func(T) string, desc bool) []T {
	items := make([]keyed[T], len(records))
	for i, r := range records {
		at, err := datefmt.Parse(dateOf(r))
		items[i] = keyed[T]{rec: r, at: at, ok: err == nil}
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.ok != b.ok {
			return a.ok
		}
		if !a.ok {
			return false
		}
		if desc {
			return a.at.After(b.at)
		}
		return a.at.Before(b.at)
	})

	out := make([]T, len(items))
	for i, it := range items {
		out[i] = it.rec
	}
	return out
}
