package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/thurmanmarka/twilight"
	"github.com/thurmanmarka/twilight/internal/config"
	"github.com/thurmanmarka/twilight/internal/present"
)

type calcFlags struct {
	lat       float64
	lon       float64
	tz        string
	precision string
	jsonOut   bool
}

func (f *calcFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.lat, "lat", 0, "latitude in degrees (north positive); defaults to location.latitude")
	cmd.Flags().Float64Var(&f.lon, "lon", 0, "longitude in degrees (east positive, west negative); defaults to location.longitude")
	cmd.Flags().StringVar(&f.tz, "tz", "", "IANA time zone for displayed times; defaults to location.timezone")
	cmd.Flags().StringVar(&f.precision, "precision", "", "double or single; defaults to calc.precision")
	cmd.Flags().BoolVar(&f.jsonOut, "json", false, "output result as JSON")
}

// resolve merges flags over configuration.
func (f *calcFlags) resolve(cmd *cobra.Command, cfg *config.Config) (twilight.Coordinates, *time.Location, twilight.Precision, error) {
	coords := cfg.Coordinates()
	if cmd.Flags().Changed("lat") {
		coords.Lat = f.lat
	}
	if cmd.Flags().Changed("lon") {
		coords.Lon = f.lon
	}

	loc := cfg.TimeLocation()
	if f.tz != "" {
		var err error
		loc, err = time.LoadLocation(f.tz)
		if err != nil {
			return coords, nil, 0, fmt.Errorf("invalid --tz %q: %w", f.tz, err)
		}
	}

	precision := cfg.Precision()
	if f.precision != "" {
		var err error
		precision, err = twilight.ParsePrecision(f.precision)
		if err != nil {
			return coords, nil, 0, err
		}
	}

	return coords, loc, precision, nil
}

func nowCmd() *cobra.Command {
	var flags calcFlags

	cmd := &cobra.Command{
		Use:   "now",
		Short: "Is it day or night right now",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalc(cmd, &flags, time.Now())
		},
	}
	flags.register(cmd)
	return cmd
}

func atCmd() *cobra.Command {
	var (
		flags   calcFlags
		timeStr string
	)

	cmd := &cobra.Command{
		Use:   "at",
		Short: "Is it day or night at a given instant",
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := parseInstant(timeStr)
			if err != nil {
				return err
			}
			return runCalc(cmd, &flags, at)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&timeStr, "time", "", "instant as RFC3339 or epoch milliseconds")
	_ = cmd.MarkFlagRequired("time")
	return cmd
}

// parseInstant accepts RFC 3339 or an integer count of epoch milliseconds.
func parseInstant(s string) (time.Time, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --time %q: want RFC3339 or epoch milliseconds", s)
	}
	return t, nil
}

func runCalc(cmd *cobra.Command, flags *calcFlags, at time.Time) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	coords, loc, precision, err := flags.resolve(cmd, cfg)
	if err != nil {
		return err
	}

	if coords.Lat == 0 && coords.Lon == 0 {
		logger.Warn("lat=0 lon=0 (Gulf of Guinea); use --lat and --lon or location.* in config to set a real location")
	}

	res, err := twilight.CalculateAt(at, coords, twilight.WithPrecision(precision))
	if err != nil {
		return fmt.Errorf("error computing twilight: %w", err)
	}
	logger.Debug("twilight computed",
		"time", res.Time, "sunrise", res.Sunrise, "sunset", res.Sunset,
		"state", res.State().String(), "precision", precision.String())

	return printResult(cmd.OutOrStdout(), res, coords, precision, loc, flags.jsonOut)
}

func printResult(w io.Writer, res twilight.Result, coords twilight.Coordinates, precision twilight.Precision, loc *time.Location, jsonOut bool) error {
	if !jsonOut {
		return present.Render(w, res, coords, loc)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(present.NewView(res, coords, precision, loc)); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
