package cli

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"seasoncli/internal/exporter"
	"seasoncli/internal/seasonality"
	"seasoncli/internal/store"
)

var (
	processOut     string
	processParquet bool
	processSave    bool
)

var processCmd = &cobra.Command{
	Use:   "process [data-directory]",
	Short: "Compute every seasonality series and export the results",
	Long: `Ingests every CSV and XLSX dataset in the directory, runs the
derivation pipeline per symbol, and writes the five annotated series
per symbol as CSV. Optionally also writes the daily series as Parquet
and upserts everything into Postgres.`,
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

		ctx := cmd.Context()
		pipeline := seasonality.NewPipeline(logger)
		results, err := pipeline.ComputeBatch(ctx, series, cfg.Pipeline.MaxConcurrency)
		if err != nil {
			return fmt.Errorf("compute: %w", err)
		}

		writer := exporter.NewCSVWriter(processOut)
		symbols := make([]string, 0, len(results))
		for symbol := range results {
			symbols = append(symbols, symbol)
		}
		sort.Strings(symbols)

		for _, symbol := range symbols {
			res := results[symbol]
			if err := writer.WriteResult(symbol, res); err != nil {
				return fmt.Errorf("export %s: %w", symbol, err)
			}
			if processParquet {
				path := filepath.Join(processOut, symbol+"_daily.parquet")
				if err := exporter.WriteDailyParquet(path, res.Daily); err != nil {
					return fmt.Errorf("export %s parquet: %w", symbol, err)
				}
			}
			logger.InfoContext(ctx, "series exported",
				"symbol", symbol,
				"daily", len(res.Daily),
				"monthly", len(res.Monthly),
				"yearly", len(res.Yearly),
			)
		}

		if processSave {
			if cfg.Database.DSN == "" {
				return fmt.Errorf("--save requires a database DSN (SEASON_DATABASE_DSN or config file)")
			}
			st, err := store.Open(cfg.Database.DSN, logger)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()
			for _, symbol := range symbols {
				if err := st.SaveResult(ctx, symbol, results[symbol]); err != nil {
					return fmt.Errorf("persist %s: %w", symbol, err)
				}
			}
		}

		logger.InfoContext(ctx, "processing complete", "symbols", len(symbols), "out", processOut)
		return nil
	},
}

func init() {
	processCmd.Flags().StringVar(&processOut, "out", "out", "output directory for exported series")
	processCmd.Flags().BoolVar(&processParquet, "parquet", false, "also write the daily series as Parquet")
	processCmd.Flags().BoolVar(&processSave, "save", false, "upsert all series into Postgres")
}
