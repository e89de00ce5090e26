package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/db"
	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/notify"
)

var checkForce bool

// checkCmd represents the check command.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the periodic expiration check",
	Long: `Check for expired and soon expiring PPE.

The check only runs when notifications are enabled and the check
interval has elapsed since the last run, unless --force is given.
The time of the check is stored in the ledger.

Example:
  ppe-ledger check
  ppe-ledger check --force`,
	Run: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkForce, "force", false, "run even if the check is not due")
}

func runCheck(cmd *cobra.Command, args []string) {
	e := setup()
	defer e.Close()

	now := time.Now()

	lastCheck, err := e.history.GetMetadata(db.MetaLastCheck)
	exitOnError(err, "failed to read last check")

	notifications := e.cfg.Notifications
	if !checkForce && !notify.ShouldCheck(notifications.Enabled, lastCheck, notifications.CheckInterval, now) {
		slog.Info("Expiration check not due", "enabled", notifications.Enabled, "last_check", lastCheck)
		fmt.Println("Expiration check not due")
		return
	}

	records, err := e.records.List()
	exitOnError(err, "failed to load records")

	alerts := notify.Check(records, now, e.cfg.Analysis.WarningDays)

	err = e.history.SetMetadata(db.MetaLastCheck, now.Format(notify.LastCheckLayout))
	exitOnError(err, "failed to store last check")

	slog.Info("Expiration check completed",
		"expired", len(alerts.Expired),
		"expiring_soon", len(alerts.ExpiringSoon),
	)
	fmt.Println(alerts.Message())
}
