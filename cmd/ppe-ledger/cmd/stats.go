package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/record"
	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/report"
)

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display ledger statistics",
	Long: `Display statistics about the ledger.

Shows:
- Record counts per data type
- Expired and soon expiring PPE
- PPE by type and records by month
- Stored rows per data type
- Last sync run, last sync and last expiration check

Example:
  ppe-ledger stats`,
	Run: runStats,
}

func runStats(cmd *cobra.Command, args []string) {
	e := setup()
	defer e.Close()

	records, err := e.records.List()
	exitOnError(err, "failed to load records")

	store, err := e.history.GetStats()
	exitOnError(err, "failed to get statistics")

	stored, err := e.records.Count()
	exitOnError(err, "failed to count records")

	lastRun, err := e.history.LastSyncRun()
	exitOnError(err, "failed to get last sync run")

	stats := report.Detailed(records, time.Now(), e.cfg.Analysis.WarningDays)

	fmt.Println("\n=== Ledger Statistics ===")
	fmt.Printf("Total records:       %d\n", stats.Total)
	fmt.Printf("PPE:                 %d\n", stats.PPECount)
	fmt.Printf("Fiscal receipts:     %d\n", stats.ReceiptCount)
	fmt.Printf("Structured data:     %d\n", stats.StructuredCount)
	fmt.Printf("Unknown:             %d\n", stats.UnknownCount)
	fmt.Printf("Expired PPE:         %d\n", stats.ExpiredCount)
	fmt.Printf("Expiring in %d days: %d\n", e.cfg.Analysis.WarningDays, stats.ExpiringSoonCount)

	if len(stats.ByType) > 0 {
		fmt.Println("\nPPE by type:")
		for _, c := range stats.ByType {
			fmt.Printf("  %-30s %d\n", c.Key, c.Count)
		}
	}

	if len(stats.ByMonth) > 0 {
		fmt.Println("\nRecords by month:")
		for _, c := range stats.ByMonth {
			fmt.Printf("  %s  %d\n", c.Key, c.Count)
		}
	}

	if len(stored) > 0 {
		fmt.Println("\nStored rows by data type:")
		for _, dt := range []record.DataType{record.DataTypePPE, record.DataTypeReceipt, record.DataTypeStructured, record.DataTypeUnknown} {
			fmt.Printf("  %-12s %d\n", dt, stored[dt])
		}
	}

	fmt.Println()
	fmt.Printf("Sync runs:           %d\n", store.TotalSyncs)
	if lastRun != nil {
		fmt.Printf("Last sync run:       %s %s (local %d, remote %d, merged %d)\n",
			lastRun.SyncedAt.Format("2006-01-02 15:04:05"), lastRun.Status,
			lastRun.LocalCount, lastRun.RemoteCount, lastRun.MergedCount)
		if lastRun.Message != "" {
			fmt.Printf("                     %s\n", lastRun.Message)
		}
	}
	if store.LastSync.Valid {
		fmt.Printf("Last sync:           %s\n", store.LastSync.String)
	} else {
		fmt.Printf("Last sync:           (never)\n")
	}
	if store.LastCheck.Valid {
		fmt.Printf("Last check:          %s\n", store.LastCheck.String)
	} else {
		fmt.Printf("Last check:          (never)\n")
	}

	fmt.Println()

	slog.Info("Statistics displayed successfully")
}
