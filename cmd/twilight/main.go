package main

import (
	"fmt"
	"log/slog"
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"github.com/thurmanmarka/twilight/internal/config"
	"github.com/thurmanmarka/twilight/internal/logging"
)

var (
	configFile string
	verbose    bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "twilight",
		Short: "Civil twilight day/night detector",
		Long: `twilight decides whether it is day or night (civil twilight, Sun 6° below
the horizon) at a location and reports the nearest civil sunrise and sunset.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(nowCmd())
	rootCmd.AddCommand(atCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(profileCmd())

	return rootCmd
}

// setup loads configuration and builds the logger every subcommand shares.
func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	return cfg, logging.New(os.Stderr, level, cfg.Log.Format), nil
}
