// Package export renders production data as CSV, XLSX and report text.
package export

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/mamadbah2/lantabur/internal/datefmt"
	"github.com/mamadbah2/lantabur/internal/domain/models"
	"github.com/mamadbah2/lantabur/internal/service/reporting"
)

// CSV cells are joined with commas and never quoted. Color group names and
// display dates contain no commas.

// FileName builds "<prefix>_report_<yyyy-mm-dd>.<ext>".
func FileName(prefix, ext string, now time.Time) string {
	return prefix + "_report_" + now.Format(datefmt.InputLayout) + "." + ext
}

// ScopePrefix is the file name prefix of a scoped export.
func ScopePrefix(scope reporting.Scope) string {
	if scope == reporting.ScopeHistory {
		return "production"
	}
	return string(scope)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeRows(rows [][]string) []byte {
	var buf bytes.Buffer
	for i, row := range rows {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(strings.Join(row, ","))
	}
	return buf.Bytes()
}

// ProductionHeaders returns the column names of a production table.
func ProductionHeaders(scope reporting.Scope) []string {
	headers := []string{"Date", "Total Weight", "Inhouse", "Sub Contract"}
	if _, ok := scope.Industry(); ok {
		return append(headers, reporting.CanonicalColorGroups...)
	}
	return append(headers, "Lantabur Total", "Taqwa Total")
}

// ProductionRow returns the cells of one record in a production table.
// Cells are float64 except for the display date.
func ProductionRow(r models.ProductionRecord, scope reporting.Scope) []any {
	row := []any{datefmt.Display(r.Date)}
	if industry, ok := scope.Industry(); ok {
		unit := r.Unit(industry)
		row = append(row, unit.Total, unit.Inhouse, unit.SubContract)
		for _, name := range reporting.CanonicalColorGroups {
			row = append(row, reporting.GroupValue(unit.ColorGroups, name))
		}
		return row
	}
	return append(row,
		r.TotalProduction,
		r.Lantabur.Inhouse+r.Taqwa.Inhouse,
		r.Lantabur.SubContract+r.Taqwa.SubContract,
		r.Lantabur.Total,
		r.Taqwa.Total,
	)
}

// ProductionCSV renders the filtered production table of scope.
func ProductionCSV(records []models.ProductionRecord, scope reporting.Scope) []byte {
	rows := [][]string{ProductionHeaders(scope)}
	for _, r := range records {
		cells := ProductionRow(r, scope)
		row := make([]string, len(cells))
		for i, c := range cells {
			switch v := c.(type) {
			case string:
				row[i] = v
			case float64:
				row[i] = num(v)
			}
		}
		rows = append(rows, row)
	}
	return writeRows(rows)
}

// ShiftCSV renders the estimated shift table, values rounded to whole kg.
func ShiftCSV(days []reporting.EstimatedShiftDay) []byte {
	rows := [][]string{{
		"Date",
		"Shift A Output", "Shift A Rework",
		"Shift B Output", "Shift B Rework",
		"Shift C Output", "Shift C Rework",
		"Daily Total",
	}}
	whole := func(v float64) string { return strconv.FormatFloat(v, 'f', 0, 64) }
	for _, d := range days {
		row := []string{d.Date}
		for _, s := range d.Shifts {
			row = append(row, whole(s.Output), whole(s.Rework))
		}
		rows = append(rows, append(row, whole(d.Total)))
	}
	return writeRows(rows)
}

// InsightCSV renders the per-record breakdown as Category,Value pairs.
func InsightCSV(b reporting.RecordBreakdown) []byte {
	rows := [][]string{
		{"Category", "Value"},
		{"Total", num(b.Total)},
		{"Inhouse", num(b.Inhouse)},
		{"Subcon", num(b.SubContract)},
	}
	for _, g := range b.Groups {
		rows = append(rows, []string{g.Name, num(g.Weight)})
	}
	return writeRows(rows)
}
