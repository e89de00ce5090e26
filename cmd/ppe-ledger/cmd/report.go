package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/report"
)

var (
	reportFormat string
	reportOutput string
	reportStdout bool
)

// reportCmd represents the report command.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a summary report",
	Long: `Generate a report with a data summary, expiry analysis, type analysis,
a daily timeline and the critical (expired) items.

The report is written to a timestamped file in the export directory
unless --output or --stdout is given.

Example:
  ppe-ledger report
  ppe-ledger report --format csv --output report.csv
  ppe-ledger report --stdout`,
	Run: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "json", "output format (json or csv)")
	reportCmd.Flags().StringVar(&reportOutput, "output", "", "output file path")
	reportCmd.Flags().BoolVar(&reportStdout, "stdout", false, "write the report to stdout")
}

func runReport(cmd *cobra.Command, args []string) {
	var write func(*os.File, report.Snapshot) error
	switch reportFormat {
	case "json":
		write = func(f *os.File, s report.Snapshot) error { return report.WriteJSON(f, s) }
	case "csv":
		write = func(f *os.File, s report.Snapshot) error { return report.WriteCSV(f, s) }
	default:
		exitOnError(fmt.Errorf("got %q", reportFormat), "format must be json or csv")
	}

	e := setup()
	defer e.Close()

	records, err := e.records.List()
	exitOnError(err, "failed to load records")

	now := time.Now()
	snapshot := report.Aggregate(records, now, e.cfg.Analysis.TimelineDays)

	if reportStdout {
		exitOnError(write(os.Stdout, snapshot), "failed to write report")
		return
	}

	path := reportOutput
	if path == "" {
		path, err = e.paths.GetExportPath("report", reportFormat, now)
		exitOnError(err, "failed to build report path")
	}

	f := createFile(e, path)
	err = write(f, snapshot)
	closeErr := f.Close()
	exitOnError(err, "failed to write report")
	exitOnError(closeErr, "failed to close report")

	slog.Info("Report written", "path", path, "records", len(records))
	fmt.Printf("Report saved to %s\n", path)
}

func createFile(e *env, path string) *os.File {
	exitOnError(e.paths.EnsureParentDir(path), "failed to create output directory")
	f, err := os.Create(path)
	exitOnError(err, "failed to create file")
	return f
}
