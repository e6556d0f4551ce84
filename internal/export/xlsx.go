package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/lantabur/internal/domain/models"
	"github.com/mamadbah2/lantabur/internal/service/reporting"
)

const productionSheet = "Production"

// ProductionWorkbook renders the production table of scope as an XLSX file
// with a bold header and a totals footer.
func ProductionWorkbook(records []models.ProductionRecord, scope reporting.Scope) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", productionSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	footerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create footer style: %w", err)
	}

	headers := ProductionHeaders(scope)
	for i, name := range headers {
		if err := f.SetCellValue(productionSheet, cellName(i+1, 1), name); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}
	if err := f.SetCellStyle(productionSheet, "A1", cellName(len(headers), 1), headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for i, r := range records {
		for j, v := range ProductionRow(r, scope) {
			if err := f.SetCellValue(productionSheet, cellName(j+1, i+2), v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", i+2, err)
			}
		}
	}

	footer := len(records) + 2
	totals := footerRow(records, scope)
	for j, v := range totals {
		if err := f.SetCellValue(productionSheet, cellName(j+1, footer), v); err != nil {
			return nil, fmt.Errorf("write totals: %w", err)
		}
	}
	if err := f.SetCellStyle(productionSheet, cellName(1, footer), cellName(len(totals), footer), footerStyle); err != nil {
		return nil, fmt.Errorf("style totals: %w", err)
	}

	if err := f.SetPanes(productionSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	if err := f.SetColWidth(productionSheet, "A", lastCol, 15); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func footerRow(records []models.ProductionRecord, scope reporting.Scope) []any {
	t := reporting.Summarize(records, scope)
	if _, ok := scope.Industry(); ok {
		row := []any{"Total", t.IndustryTotal, t.Inhouse, t.SubContract}
		for _, g := range t.ColorGroups {
			row = append(row, g.Weight)
		}
		return row
	}
	return []any{"Total", t.CombinedTotal, t.Inhouse, t.SubContract, t.LantaburTotal, t.TaqwaTotal}
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
