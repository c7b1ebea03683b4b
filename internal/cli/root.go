// Package cli wires the command surface: process runs the full
// pipeline over a dataset directory, serve exposes the query API, and
// validate reports data quality without computing anything.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"seasoncli/internal/config"
	"seasoncli/internal/infrastructure"
	"seasoncli/internal/ingest"
	"seasoncli/internal/seasonality"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "seasonality",
	Short: "Seasonality analytics over daily OHLCV series",
	Long: `Computes annotated seasonality series from daily OHLCV bars:
calendar and trading-day positions, daily/weekly/monthly/yearly
returns, Monday and expiry week aggregates, and a declarative filter
engine served over HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(validateCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// bootstrap loads the configuration and builds the process logger.
func bootstrap() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := infrastructure.NewLogger(infrastructure.LoggerConfig{
		Level:    cfg.Logging.Level,
		Format:   cfg.Logging.Format,
		Output:   cfg.Logging.Output,
		FilePath: cfg.Logging.FilePath,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	return cfg, logger, nil
}

// discoverDatasets lists the ingestible files under dir, sorted for
// deterministic processing order.
func discoverDatasets(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read data directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".csv", ".xlsx":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// symbolFromPath derives the instrument symbol from the dataset file
// name, e.g. data/nifty50.csv -> NIFTY50.
func symbolFromPath(path string) string {
	base := filepath.Base(path)
	return strings.ToUpper(strings.TrimSuffix(base, filepath.Ext(base)))
}

// loadDataset reads one CSV or XLSX dataset into bars.
func loadDataset(path string, opts ingest.Options) (ingest.Result, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ingest.ReadWorkbook(path, "", opts)
	}
	return ingest.ReadCSVFile(path, opts)
}

// loadSeries ingests every dataset in dir into a per-symbol bar map.
func loadSeries(dir string, lenient bool, logger *slog.Logger) (map[string][]seasonality.Bar, error) {
	paths, err := discoverDatasets(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no CSV or XLSX datasets in %s", dir)
	}

	series := make(map[string][]seasonality.Bar, len(paths))
	for _, path := range paths {
		symbol := symbolFromPath(path)
		res, err := loadDataset(path, ingest.Options{Symbol: symbol, Lenient: lenient})
		if err != nil {
			return nil, fmt.Errorf("ingest %s: %w", path, err)
		}
		if n := len(res.Report.Errors()); n > 0 {
			logger.Warn("rows skipped during ingest",
				"path", path,
				"symbol", symbol,
				"skipped", n,
			)
		}
		series[symbol] = res.Bars
		logger.Info("dataset loaded", "path", path, "symbol", symbol, "bars", len(res.Bars))
	}
	return series, nil
}
