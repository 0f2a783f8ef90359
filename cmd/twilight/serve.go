package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thurmanmarka/twilight/internal/api"
)

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long:  "Serve GET /api/v1/twilight and /health until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.API.Port = port
			}

			server := api.NewServer(api.ServerConfig{
				Port:      cfg.API.Port,
				Logger:    logger,
				Location:  cfg.TimeLocation(),
				Precision: cfg.Precision(),
			})

			// Handle signals
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			errChan := make(chan error, 1)
			go func() {
				errChan <- server.Start()
			}()

			select {
			case err := <-errChan:
				if err != nil {
					return fmt.Errorf("API server error: %w", err)
				}
				return nil
			case sig := <-sigChan:
				logger.Info("shutting down", "signal", sig.String())
			}

			ctx, cancel := context.WithTimeout(context.Background(), cfg.API.ShutdownTimeout)
			defer cancel()

			if err := server.Stop(ctx); err != nil {
				return fmt.Errorf("API server shutdown: %w", err)
			}
			return <-errChan
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port; defaults to api.port")
	return cmd
}
