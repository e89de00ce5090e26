package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/report"
)

var exportOutput string

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export ledger records as CSV",
	Long: `Export every record as one CSV row with the columns name, type,
protection_class, expiry_date, manufacturer, certificate, data_type and
timestamp. Fields a record does not have are left empty.

Example:
  ppe-ledger export
  ppe-ledger export --output - > records.csv`,
	Run: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOutput, "output", "", "output file path (- for stdout)")
}

func runExport(cmd *cobra.Command, args []string) {
	e := setup()
	defer e.Close()

	records, err := e.records.List()
	exitOnError(err, "failed to load records")

	if exportOutput == "-" {
		exitOnError(report.WriteRecordsCSV(os.Stdout, records), "failed to export records")
		return
	}

	path := exportOutput
	if path == "" {
		path, err = e.paths.GetExportPath("ppe_export", "csv", time.Now())
		exitOnError(err, "failed to build export path")
	}

	f := createFile(e, path)
	err = report.WriteRecordsCSV(f, records)
	closeErr := f.Close()
	exitOnError(err, "failed to export records")
	exitOnError(closeErr, "failed to close export")

	slog.Info("Records exported", "path", path, "records", len(records))
	fmt.Printf("Exported %d record(s) to %s\n", len(records), path)
}
