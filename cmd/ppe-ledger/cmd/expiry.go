package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/expiry"
	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/record"
)

var expiryWarningDays int

// expiryCmd represents the expiry command.
var expiryCmd = &cobra.Command{
	Use:   "expiry",
	Short: "Group PPE items by expiration state",
	Long: `Group PPE items into expired, expiring soon and valid.

PPE items without a usable expiry date are not listed.

Example:
  ppe-ledger expiry
  ppe-ledger expiry --warning-days 14`,
	Run: runExpiry,
}

func init() {
	expiryCmd.Flags().IntVar(&expiryWarningDays, "warning-days", -1, "warning window in days (default from PPE_WARNING_DAYS)")
}

func runExpiry(cmd *cobra.Command, args []string) {
	e := setup()
	defer e.Close()

	warningDays := e.cfg.Analysis.WarningDays
	if expiryWarningDays >= 0 {
		warningDays = expiryWarningDays
	}

	records, err := e.records.List()
	exitOnError(err, "failed to load records")

	now := time.Now()
	buckets := expiry.Bucket(records, now, warningDays)

	printBucket("Expired", buckets.Expired, now)
	printBucket(fmt.Sprintf("Expiring within %d days", warningDays), buckets.ExpiringSoon, now)
	printBucket("Valid", buckets.Valid, now)

	fmt.Printf("%d PPE item(s) with a known expiry date\n", buckets.Total())
}

func printBucket(title string, items []record.PPE, now time.Time) {
	fmt.Printf("\n=== %s (%d) ===\n", title, len(items))
	if len(items) == 0 {
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, p := range items {
		days, _ := expiry.DaysUntil(p.ExpiryDate, now)
		fmt.Fprintf(w, "  %s\t%s\t%s\t%d day(s)\n", p.Name, p.Type, p.ExpiryDate, days)
	}
	w.Flush()
}
