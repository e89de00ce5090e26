package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var clearYes bool

// clearCmd represents the clear command.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every record from the ledger",
	Long: `Delete every record from the ledger. Sync history and metadata are kept.

Example:
  ppe-ledger backup && ppe-ledger clear --yes`,
	Run: runClear,
}

func init() {
	clearCmd.Flags().BoolVar(&clearYes, "yes", false, "confirm deletion")
}

func runClear(cmd *cobra.Command, args []string) {
	if !clearYes {
		fmt.Println("Refusing to clear the ledger without --yes")
		return
	}

	e := setup()
	defer e.Close()

	n, err := e.records.Clear()
	exitOnError(err, "failed to clear records")

	slog.Info("Ledger cleared", "deleted", n)
	fmt.Printf("Deleted %d record(s)\n", n)
}
