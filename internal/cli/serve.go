package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"seasoncli/internal/infrastructure"
	"seasoncli/internal/seasonality"
	"seasoncli/internal/transport"
)

var serveCmd = &cobra.Command{
	Use:   "serve [data-directory]",
	Short: "Compute all series and serve the filter query API",
	Long: `Ingests every dataset in the directory, runs the pipeline per
symbol, and serves the annotated series and the filter query endpoint
over HTTP until interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}

		dataDir := cfg.Data.Dir
		if len(args) == 1 {
			dataDir = args[0]
		}

		series, err := loadSeries(dataDir, cfg.Data.Lenient, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		metrics := infrastructure.NewMetrics()
		pipeline := seasonality.NewPipeline(logger)
		started := time.Now()
		results, err := pipeline.ComputeBatch(ctx, series, cfg.Pipeline.MaxConcurrency)
		if err != nil {
			return fmt.Errorf("compute: %w", err)
		}
		metrics.PipelineRuns.Add(float64(len(results)))
		metrics.PipelineDuration.Observe(time.Since(started).Seconds())

		qs := transport.NewServer(results, logger, metrics)
		srv := &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      qs.Router(),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.InfoContext(ctx, "query server listening",
				"addr", srv.Addr,
				"symbols", len(results),
			)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		select {
		case err := <-errCh:
			return fmt.Errorf("server: %w", err)
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}
