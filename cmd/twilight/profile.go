package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thurmanmarka/twilight"
	"github.com/thurmanmarka/twilight/internal/crosscheck"
)

func profileCmd() *cobra.Command {
	var (
		flags  calcFlags
		refCSV string
		outCSV string
	)

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Measure accuracy against a reference dawn/dusk table",
		Long: `Compute civil dawn/dusk at local noon of every date in a reference CSV
(date,dawn,dusk in the --tz zone) and report error statistics against the
table, the suncalc library and a numerical altitude solver.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			coords, loc, precision, err := flags.resolve(cmd, cfg)
			if err != nil {
				return err
			}

			f, err := os.Open(refCSV)
			if err != nil {
				return fmt.Errorf("failed to open refcsv %q: %w", refCSV, err)
			}
			defer f.Close()

			days, skipped, err := crosscheck.ReadReference(f, loc)
			if err != nil {
				return err
			}
			for _, e := range skipped {
				logger.Warn("skipping reference row", "error", e)
			}

			sum, err := crosscheck.Profile(days, coords, twilight.WithPrecision(precision))
			if err != nil {
				return err
			}

			if outCSV != "" {
				if err := writeRows(outCSV, sum.Rows); err != nil {
					return err
				}
			}

			w := cmd.OutOrStdout()
			if verbose {
				printRows(w, sum.Rows, loc.String())
			}
			printSummary(w, sum, coords, loc.String(), precision, len(skipped))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&refCSV, "refcsv", "", "path to reference CSV file (date,dawn,dusk)")
	cmd.Flags().StringVar(&outCSV, "outcsv", "", "optional path to write per-row error CSV")
	_ = cmd.MarkFlagRequired("refcsv")
	return cmd
}

func writeRows(path string, rows []crosscheck.Row) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create outcsv %q: %w", path, err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	header := []string{"date", "state", "rise_signed", "set_signed", "suncalc_rise", "suncalc_set", "solver_rise", "solver_set"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write outcsv header: %w", err)
	}

	for _, r := range rows {
		rec := []string{
			r.Day.Date.Format("2006-01-02"),
			r.Report.Result.State().String(),
			fmt.Sprintf("%.6f", r.RiseErr),
			fmt.Sprintf("%.6f", r.SetErr),
			optional(r.Report.VsSunCalc.Rise, r.Report.VsSunCalc.OKRise),
			optional(r.Report.VsSunCalc.Set, r.Report.VsSunCalc.OKSet),
			optional(r.Report.VsSolver.Rise, r.Report.VsSolver.OKRise),
			optional(r.Report.VsSolver.Set, r.Report.VsSolver.OKSet),
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("row %d: failed to write outcsv: %w", r.Day.Line, err)
		}
	}

	w.Flush()
	return w.Error()
}

func optional(v float64, ok bool) string {
	if !ok {
		return ""
	}
	return fmt.Sprintf("%.6f", v)
}

func printRows(w io.Writer, rows []crosscheck.Row, tz string) {
	for _, r := range rows {
		res := r.Report.Result
		if res.Perpetual() {
			fmt.Fprintf(w, "%s: %s (ref dawn=%s dusk=%s)\n",
				r.Day.Date.Format("2006-01-02"), res.State(),
				r.Day.Dawn.Format("15:04"), r.Day.Dusk.Format("15:04"))
			continue
		}
		loc := r.Day.Date.Location()
		fmt.Fprintf(w, "%s: dawn err=%.2f min (got=%s ref=%s), dusk err=%.2f min (got=%s ref=%s) [%s]\n",
			r.Day.Date.Format("2006-01-02"),
			r.RiseErr, res.SunriseTime().In(loc).Format("15:04"), r.Day.Dawn.Format("15:04"),
			r.SetErr, res.SunsetTime().In(loc).Format("15:04"), r.Day.Dusk.Format("15:04"),
			tz)
	}
}

func printSummary(w io.Writer, sum crosscheck.Summary, coords twilight.Coordinates, tz string, precision twilight.Precision, skipped int) {
	fmt.Fprintln(w, "=== twilight profiler summary ===")
	fmt.Fprintf(w, "Precision: %s\n", precision)
	fmt.Fprintf(w, "Lat/Lon:   %.4f / %.4f\n", coords.Lat, coords.Lon)
	fmt.Fprintf(w, "TZ:        %s\n", tz)
	fmt.Fprintf(w, "Rows:      %d (processed), %d skipped, %d perpetual\n", len(sum.Rows), skipped, sum.Perpetual)

	if sum.Rise.Count == 0 {
		fmt.Fprintln(w, "No valid rows to compute stats.")
		return
	}

	printStats(w, "Dawn error vs table (minutes)", sum.Rise, "avg")
	printStats(w, "Dusk error vs table (minutes)", sum.Set, "avg")
	printStats(w, "Dawn signed error vs table (minutes, our - ref)", sum.RiseSigned, "mean")
	printStats(w, "Dusk signed error vs table (minutes, our - ref)", sum.SetSigned, "mean")
	printStats(w, "Dawn vs suncalc (minutes, our - suncalc)", sum.SunCalcRise, "mean")
	printStats(w, "Dusk vs suncalc (minutes, our - suncalc)", sum.SunCalcSet, "mean")
	printStats(w, "Dawn vs solver (minutes, our - solver)", sum.SolverRise, "mean")
	printStats(w, "Dusk vs solver (minutes, our - solver)", sum.SolverSet, "mean")
}

func printStats(w io.Writer, title string, s crosscheck.Stats, meanLabel string) {
	fmt.Fprintf(w, "\n%s:\n", title)
	fmt.Fprintf(w, "  count: %d\n", s.Count)
	if s.Count == 0 {
		return
	}
	fmt.Fprintf(w, "  min:   %.3f\n", s.Min)
	fmt.Fprintf(w, "  max:   %.3f\n", s.Max)
	fmt.Fprintf(w, "  %-5s  %.3f\n", meanLabel+":", s.Mean())
}
