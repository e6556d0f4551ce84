package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/lantabur/internal/datefmt"
	"github.com/mamadbah2/lantabur/internal/export"
	"github.com/mamadbah2/lantabur/internal/service/extraction"
	"github.com/mamadbah2/lantabur/internal/service/filter"
	"github.com/mamadbah2/lantabur/internal/service/reporting"
)

const (
	Version = "0.1.0"
	appName = "prodctl"
)

type globalOptions struct {
	envFile string
	verbose bool
}

// backend opens the services a command needs.
type backend interface {
	Reporting(ctx context.Context, opts globalOptions) (*reporting.Service, func(), error)
	Extraction(opts globalOptions) (*extraction.Service, error)
}

func rootCmd(b backend) *cobra.Command {
	var opts globalOptions

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Production dashboard command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env", "", "Path of a .env file to load")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log progress to stderr")

	cmd.AddCommand(
		summaryCmd(b, &opts),
		extractCmd(b, &opts),
		exportCmd(b, &opts),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
			},
		},
	)
	return cmd
}

func summaryCmd(b backend, opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the dashboard summary of the latest production day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := b.Reporting(cmd.Context(), *opts)
			if err != nil {
				return err
			}
			defer closeFn()

			overview, err := svc.Overview(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), overview)
			}
			return writeSummary(cmd.OutOrStdout(), overview)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full overview as JSON")
	return cmd
}

func writeSummary(out io.Writer, o reporting.Overview) error {
	d := o.Dashboard
	if d == nil {
		_, err := fmt.Fprintln(out, "no dated production records")
		return err
	}

	fmt.Fprintf(out, "Latest day: %s\n\n", datefmt.Display(d.Latest.Date))
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "\tToday\tWeek\tMonth\tYear\tAvg/day\t")
	for _, row := range []struct {
		name  string
		stats reporting.BrandStats
	}{
		{"Lantabur", d.Lantabur},
		{"Taqwa", d.Taqwa},
	} {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n", row.name,
			export.Kg(row.stats.Today), export.Kg(row.stats.Week), export.Kg(row.stats.Month),
			export.Kg(row.stats.Year), export.Kg(row.stats.AvgDay))
	}
	fmt.Fprintf(tw, "Combined\t%s\t%s\t%s\t%s\t%s\t\n",
		export.Kg(d.Totals.Today), export.Kg(d.Totals.Week), export.Kg(d.Totals.Month),
		export.Kg(d.Totals.Year), export.Kg(d.AvgDay))
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nGrowth: %+.2f%% weight, %+.2f%% revenue\n", d.GrowthWeight, d.GrowthRevenue)
	fmt.Fprintf(out, "Target: %.2f%% of daily target, shortfall %s kg\n", d.TargetProgress, export.Kg(d.Shortfall))
	fmt.Fprintf(out, "Lifetime: %s kg\n", export.Kg(d.Totals.Lifetime))
	if o.RFT != nil {
		fmt.Fprintf(out, "RFT (%s): bulk %.2f%%, lab %.2f%%\n", o.RFT.Today.Date, o.RFT.Today.Bulk, o.RFT.Today.Lab)
	}
	if len(d.Undated) > 0 {
		fmt.Fprintf(out, "Skipped %d record(s) with unreadable dates: %s\n", len(d.Undated), strings.Join(d.Undated, ", "))
	}
	return nil
}

func extractCmd(b backend, opts *globalOptions) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "extract FILE",
		Short: "Extract a report document and print the draft record as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if kind != extraction.KindProduction && kind != extraction.KindRFT {
				return fmt.Errorf("--kind must be %q or %q", extraction.KindProduction, extraction.KindRFT)
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			svc, err := b.Extraction(*opts)
			if err != nil {
				return err
			}

			doc := extraction.Document{Name: filepath.Base(args[0]), Data: data}
			var draft any
			if kind == extraction.KindRFT {
				draft, err = svc.ExtractRFT(cmd.Context(), doc)
			} else {
				draft, err = svc.ExtractProduction(cmd.Context(), doc)
			}
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), draft)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", extraction.KindProduction, "Report kind: production or rft")
	return cmd
}

func exportCmd(b backend, opts *globalOptions) *cobra.Command {
	var (
		format, outPath, scopeName string
		search, start, end         string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the production table as CSV or XLSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "csv" && format != "xlsx" {
				return errors.New("--format must be csv or xlsx")
			}
			scope, err := reporting.ParseScope(scopeName)
			if err != nil {
				return err
			}
			criteria := filter.Criteria{SearchText: search}
			for _, bound := range []struct {
				raw string
				dst **time.Time
			}{{start, &criteria.Start}, {end, &criteria.End}} {
				if bound.raw == "" {
					continue
				}
				t, err := datefmt.Parse(bound.raw)
				if err != nil {
					return err
				}
				*bound.dst = &t
			}

			svc, closeFn, err := b.Reporting(cmd.Context(), *opts)
			if err != nil {
				return err
			}
			defer closeFn()

			records, err := svc.Production(cmd.Context(), criteria)
			if err != nil {
				return err
			}
			var body []byte
			if format == "xlsx" {
				if body, err = export.ProductionWorkbook(records, scope); err != nil {
					return err
				}
			} else {
				body = export.ProductionCSV(records, scope)
			}

			if outPath == "" {
				outPath = export.FileName(export.ScopePrefix(scope), format, time.Now())
			}
			if err := os.WriteFile(outPath, body, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d record(s) to %s\n", len(records), outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "Output format: csv or xlsx")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default <scope>_report_<date>.<format>)")
	cmd.Flags().StringVar(&scopeName, "scope", string(reporting.ScopeHistory), "history, lantabur or taqwa")
	cmd.Flags().StringVarP(&search, "query", "q", "", "Keep records whose date contains this text")
	cmd.Flags().StringVar(&start, "start", "", "First day to include (2006-01-02)")
	cmd.Flags().StringVar(&end, "end", "", "Last day to include (2006-01-02)")
	return cmd
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
