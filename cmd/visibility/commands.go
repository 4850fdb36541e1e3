package main

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpHandlers "gitlab.apk-group.net/siem/backend/asset-visibility/api/handlers/http"
	"gitlab.apk-group.net/siem/backend/asset-visibility/app"
	"gitlab.apk-group.net/siem/backend/asset-visibility/config"
	"gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility"
	"gitlab.apk-group.net/siem/backend/asset-visibility/pkg/logger"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API and run the periodic refresh",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			appContainer, err := app.NewApp(cfg)
			if err != nil {
				return err
			}
			defer appContainer.Close()

			appContainer.StartRefresher()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Starting HTTP server on port %d", cfg.Server.HttpPort)
				errCh <- httpHandlers.Run(appContainer, cfg.Server)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				logger.Info("Shutdown signal received")
				return nil
			}
		},
	}
}

func newReportCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Run one collect cycle and print the overview as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			appContainer, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer appContainer.Close()

			overview, err := appContainer.Collector().Collect(cmd.Context())
			if err != nil && !errors.Is(err, visibility.ErrInventoryUnavailable) {
				return err
			}
			if encodeErr := writeJSON(cmd.OutOrStdout(), overview); encodeErr != nil {
				return encodeErr
			}
			return err
		},
	}
}

func newGapsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "gaps",
		Short: "Print production and staging coverage gaps as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			appContainer, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer appContainer.Close()

			gaps, err := appContainer.VisibilityService(cmd.Context()).CoverageGaps(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), gaps)
		},
	}
}

// openApp builds a container for one-shot commands: no refresher, no publisher
func openApp(configPath string) (app.AppContainer, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	cfg.Refresh.Enabled = false
	cfg.Kafka.Brokers = nil
	logger.Configure(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	return app.NewApp(cfg)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
