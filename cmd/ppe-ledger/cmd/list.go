package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/record"
)

var (
	listSearch string
	listType   string
)

// listCmd represents the list command.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List ledger records",
	Long: `List records in the order they were scanned.

Example:
  ppe-ledger list
  ppe-ledger list --search respirator
  ppe-ledger list --type receipt`,
	Run: runList,
}

func init() {
	listCmd.Flags().StringVar(&listSearch, "search", "", "case-insensitive match on name, type or manufacturer")
	listCmd.Flags().StringVar(&listType, "type", "", "only show one data type (ppe, receipt, structured, unknown)")
}

func runList(cmd *cobra.Command, args []string) {
	e := setup()
	defer e.Close()

	records, err := e.records.Search(listSearch)
	exitOnError(err, "failed to list records")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIMESTAMP\tTYPE\tNAME\tDETAILS")

	shown := 0
	for _, r := range records {
		meta := r.Meta()
		if listType != "" && string(meta.DataType) != listType {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", meta.Timestamp, meta.DataType.Label(), meta.Name, details(r))
		shown++
	}
	w.Flush()

	fmt.Printf("\n%d record(s)\n", shown)
}

func details(r record.Record) string {
	switch v := r.(type) {
	case record.PPE:
		return fmt.Sprintf("expires %s, %s", v.ExpiryDate, v.Manufacturer)
	case record.Receipt:
		return fmt.Sprintf("amount %s at %s", v.Amount, v.DateTime)
	case record.Structured:
		return fmt.Sprintf("%d field(s)", v.FieldCount)
	default:
		return ""
	}
}
