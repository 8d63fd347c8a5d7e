package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KaramelBytes/crimeflow/internal/dashboard"
	"github.com/KaramelBytes/crimeflow/internal/logging"
	"github.com/KaramelBytes/crimeflow/internal/server"
	"github.com/spf13/cobra"
)

var (
	serveAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the incident data and serve the dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		if serveAddr != "" {
			c.Addr = serveAddr
		}
		if err := c.Validate(); err != nil {
			return err
		}
		logger := logging.New(logging.Params{Debug: c.Debug})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		start := time.Now()
		base, rep, err := loadIncidents(ctx, c)
		if err != nil {
			// a missing source file is fatal
			logger.Fatal("Failed to load data", "err", err)
		}
		logger.Info("Loaded incidents", "files", len(rep.Files), "read", rep.RowsRead,
			"kept", rep.RowsKept, "took", time.Since(start).Round(time.Millisecond))
		logger.Debug("Dropped rows", "missing", rep.MissingFields, "invalid", rep.InvalidValues,
			"coordinates", rep.BadCoordinates, "unknown_offense", rep.UnknownOffense, "backfilled", rep.Backfilled)

		d, err := dashboard.New(base, c.Dashboard())
		if err != nil {
			return err
		}
		srv := server.New(d, server.Options{
			Logger: logger,
			Defaults: server.Defaults{
				Year:     c.DefaultYear,
				Offense:  c.DefaultOffense,
				Street:   c.DefaultStreet,
				MinCount: c.DefaultMinCount,
			},
			PlotlyURL: c.PlotlyURL,
		})

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start(c.Addr) }()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}
		logger.Info("Shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			logger.Error("Failed to shutdown server", "err", err)
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}
