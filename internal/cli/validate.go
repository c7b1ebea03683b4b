package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"seasoncli/internal/ingest"
	"seasoncli/internal/quality"
)

var (
	validateGapDays int
	validateZScore  float64
	validateStrict  bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [dataset-file]",
	Short: "Report data quality issues for one dataset",
	Long: `Parses one CSV or XLSX dataset and prints every quality finding:
row-level validation issues, duplicate (symbol, date) keys, calendar
gaps, and statistical return outliers. Exits non-zero when hard errors
are present.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, err := bootstrap()
		if err != nil {
			return err
		}

		path := args[0]
		symbol := symbolFromPath(path)
		res, err := loadDataset(path, ingest.Options{Symbol: symbol, Lenient: !validateStrict})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "dataset: %s (%s)\n", path, symbol)
		fmt.Fprintf(out, "rows: %d, parsed bars: %d\n", res.Report.Rows, len(res.Bars))

		for _, issue := range res.Report.Issues {
			fmt.Fprintf(out, "  [%s] row %d field %s: %s\n",
				issue.Severity, issue.Row, issue.Field, issue.Message)
		}

		dups := quality.FindDuplicates(res.Bars)
		for _, d := range dups {
			fmt.Fprintf(out, "  [duplicate] %s at rows %d and %d\n",
				d.Date.Format("2006-01-02"), d.FirstIndex, d.DuplicateIndex)
		}

		gaps := quality.FindGaps(res.Bars, validateGapDays)
		for _, g := range gaps {
			fmt.Fprintf(out, "  [gap] %s -> %s (%d days)\n",
				g.From.Format("2006-01-02"), g.To.Format("2006-01-02"), g.Days)
		}

		outliers := quality.FindReturnOutliers(res.Bars, validateZScore)
		for _, o := range outliers {
			fmt.Fprintf(out, "  [outlier] %s return %.2f%% (z=%.1f)\n",
				o.Date.Format("2006-01-02"), o.ReturnPct, o.ZScore)
		}

		fmt.Fprintf(out, "summary: %d issues, %d duplicates, %d gaps, %d outliers\n",
			len(res.Report.Issues), len(dups), len(gaps), len(outliers))

		if res.Report.HasErrors() {
			return fmt.Errorf("dataset %s has %d hard errors", path, len(res.Report.Errors()))
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().IntVar(&validateGapDays, "gap-days", quality.DefaultGapThresholdDays, "calendar-day delta that counts as a gap")
	validateCmd.Flags().Float64Var(&validateZScore, "z-score", quality.DefaultOutlierZScore, "z-score threshold for return outliers")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "require the full OHLCV column set")
}
