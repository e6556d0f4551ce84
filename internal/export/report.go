package export

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/mamadbah2/lantabur/internal/datefmt"
	"github.com/mamadbah2/lantabur/internal/domain/models"
	"github.com/mamadbah2/lantabur/internal/service/reporting"
)

const reportRule = "----------------------------"

var printer = message.NewPrinter(language.English)

// Kg formats a weight with thousands separators and at most three decimals.
func Kg(v float64) string {
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}

// DailyReport renders the text report shared with management for one record.
// scope history produces the combined report with both units. history is the
// full record set used for the month figures.
func DailyReport(rec models.ProductionRecord, scope reporting.Scope, history []models.ProductionRecord) string {
	var b strings.Builder
	b.WriteString("Date: ")
	b.WriteString(datefmt.Display(rec.Date))
	b.WriteString("\n" + reportRule + "\n")

	if industry, ok := scope.Industry(); ok {
		writeIndustryBlock(&b, rec, industry, history)
		return b.String()
	}
	writeIndustryBlock(&b, rec, models.IndustryLantabur, history)
	b.WriteString("\n\n")
	writeIndustryBlock(&b, rec, models.IndustryTaqwa, history)
	return b.String()
}

func writeIndustryBlock(b *strings.Builder, rec models.ProductionRecord, industry models.Industry, history []models.ProductionRecord) {
	data := rec.Unit(industry)
	percent := func(v float64) string {
		return strconv.FormatFloat(v/max(1, data.Total)*100, 'f', 2, 64)
	}
	line := func(label string, v float64) {
		b.WriteString(label + ": " + Kg(v) + " kg (" + percent(v) + "%)\n")
	}
	group := func(name string) float64 { return reporting.GroupValue(data.ColorGroups, name) }

	b.WriteString("╰─> " + unitTitle(industry) + " Data:\n")
	b.WriteString("Total = " + Kg(data.Total) + " kg\n")
	if data.LoadingCap != 0 {
		b.WriteString("Loading cap: " + num(data.LoadingCap) + "%\n")
	}
	line("Black", group("Black"))
	line("Average", group("Average"))
	line("Double Part", group(reporting.DoublePart))
	if royal := group("Royal"); royal > 0 {
		line("Royal", royal)
	}
	line("White", group("White"))
	b.WriteString("\n")
	line("Inhouse", data.Inhouse)
	line("Sub Contract", data.SubContract)

	total, avg := reporting.MonthlyStats(history, rec.Date, industry)
	b.WriteString("\nTotal this month: " + Kg(total) + " kg\n")
	b.WriteString("Avg/day: " + Kg(avg) + " kg")
}

func unitTitle(industry models.Industry) string {
	if industry == models.IndustryTaqwa {
		return models.UnitTaqwa
	}
	return models.UnitLantabur
}
