package crosscheck

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/thurmanmarka/twilight"
	"github.com/thurmanmarka/twilight/internal/timeutil"
)

// ErrEmptyReference is returned when a reference file has no rows.
var ErrEmptyReference = errors.New("empty reference CSV")

// ReferenceDay is one row of a reference table: civil dawn and dusk in local
// time on a calendar date.
//
// CSV format:
//
//	date,dawn,dusk
//	2025-01-01,06:58,17:39
//	2025-01-02,06:58,17:40
//
// Times are HH:MM or HH:MM:SS on a 24-hour clock in the table's time zone.
type ReferenceDay struct {
	Line int
	Date time.Time // local midnight
	Dawn time.Time
	Dusk time.Time
}

// RowError describes a reference row that could not be parsed.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// ReadReference parses a reference CSV in loc. Rows that cannot be parsed
// are reported in skipped and left out of days; a header row is ignored.
func ReadReference(r io.Reader, loc *time.Location) (days []ReferenceDay, skipped []error, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // allow variable, we validate

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read reference CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, ErrEmptyReference
	}

	// If first row looks like a header, skip it.
	startIdx := 0
	if len(records[0]) >= 1 && strings.EqualFold(strings.TrimSpace(records[0][0]), "date") {
		startIdx = 1
	}

	for i := startIdx; i < len(records); i++ {
		day, err := parseRow(records[i], loc)
		if err != nil {
			skipped = append(skipped, &RowError{Line: i + 1, Err: err})
			continue
		}
		day.Line = i + 1
		days = append(days, day)
	}

	return days, skipped, nil
}

func parseRow(row []string, loc *time.Location) (ReferenceDay, error) {
	if len(row) < 3 {
		return ReferenceDay{}, fmt.Errorf("expected at least 3 columns (date,dawn,dusk), got %d", len(row))
	}
	dateStr := strings.TrimSpace(row[0])

	date, err := time.ParseInLocation("2006-01-02", dateStr, loc)
	if err != nil {
		return ReferenceDay{}, fmt.Errorf("invalid date %q: %w", dateStr, err)
	}
	dawn, err := parseLocalTime(date, strings.TrimSpace(row[1]), loc)
	if err != nil {
		return ReferenceDay{}, fmt.Errorf("invalid dawn time %q: %w", row[1], err)
	}
	dusk, err := parseLocalTime(date, strings.TrimSpace(row[2]), loc)
	if err != nil {
		return ReferenceDay{}, fmt.Errorf("invalid dusk time %q: %w", row[2], err)
	}

	return ReferenceDay{Date: date, Dawn: dawn, Dusk: dusk}, nil
}

func parseLocalTime(date time.Time, hhmm string, loc *time.Location) (time.Time, error) {
	// Expect HH:MM (optionally HH:MM:SS).
	layout := "15:04"
	if strings.Count(hhmm, ":") == 2 {
		layout = "15:04:05"
	}

	parsed, err := time.ParseInLocation(layout, hhmm, loc)
	if err != nil {
		return time.Time{}, err
	}
	// Combine parsed clock time with date.
	return time.Date(date.Year(), date.Month(), date.Day(),
		parsed.Hour(), parsed.Minute(), parsed.Second(), 0, loc), nil
}

// Row is the per-day outcome of a profile run.
type Row struct {
	Day    ReferenceDay
	Report Report

	// Signed errors in minutes (ours - reference table); NaN when the
	// calculator reported a perpetual day or night.
	RiseErr float64
	SetErr  float64
}

// Summary aggregates a profile run.
type Summary struct {
	Rows      []Row
	Perpetual int // rows where the calculator reported no transition

	Rise       Stats // absolute minutes vs the table
	Set        Stats
	RiseSigned Stats // signed minutes vs the table
	SetSigned  Stats

	SunCalcRise Stats // signed minutes vs suncalc
	SunCalcSet  Stats
	SolverRise  Stats // signed minutes vs the bisection solver
	SolverSet   Stats
}

// Profile computes each reference day at local noon and collects error
// statistics against the table, suncalc and the solver.
func Profile(days []ReferenceDay, loc twilight.Coordinates, opts ...twilight.Option) (Summary, error) {
	var sum Summary

	for _, day := range days {
		noon := time.Date(day.Date.Year(), day.Date.Month(), day.Date.Day(), 12, 0, 0, 0, day.Date.Location())

		res, err := twilight.CalculateAt(noon, loc, opts...)
		if err != nil {
			return Summary{}, err
		}

		row := Row{
			Day:     day,
			Report:  Compare(res, loc.Lat, loc.Lon),
			RiseErr: math.NaN(),
			SetErr:  math.NaN(),
		}

		if res.Perpetual() {
			sum.Perpetual++
		} else {
			row.RiseErr = minutes(res.Sunrise - timeutil.ToMillis(day.Dawn))
			row.SetErr = minutes(res.Sunset - timeutil.ToMillis(day.Dusk))

			sum.Rise.Add(math.Abs(row.RiseErr))
			sum.Set.Add(math.Abs(row.SetErr))
			sum.RiseSigned.Add(row.RiseErr)
			sum.SetSigned.Add(row.SetErr)
		}

		addDelta(&sum.SunCalcRise, &sum.SunCalcSet, row.Report.VsSunCalc)
		addDelta(&sum.SolverRise, &sum.SolverSet, row.Report.VsSolver)

		sum.Rows = append(sum.Rows, row)
	}

	return sum, nil
}

func addDelta(rise, set *Stats, d Delta) {
	if d.OKRise {
		rise.Add(d.Rise)
	}
	if d.OKSet {
		set.Add(d.Set)
	}
}
