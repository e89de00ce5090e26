package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/db"
)

var backupOutput string

// backupCmd represents the backup command.
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write a JSON backup of the ledger",
	Long: `Write every record to a JSON backup file with version, creation time
and record count metadata.

Example:
  ppe-ledger backup
  ppe-ledger backup --output ledger-backup.json`,
	Run: runBackup,
}

// restoreCmd represents the restore command.
var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Append the records of a backup file to the ledger",
	Long: `Read a backup written by "backup" and append its records to the ledger.

Example:
  ppe-ledger restore data/exports/backup_ppe_20250131_150405.json`,
	Args: cobra.ExactArgs(1),
	Run:  runRestore,
}

func init() {
	backupCmd.Flags().StringVar(&backupOutput, "output", "", "output file path")
}

func runBackup(cmd *cobra.Command, args []string) {
	e := setup()
	defer e.Close()

	records, err := e.records.List()
	exitOnError(err, "failed to load records")

	now := time.Now()
	path := backupOutput
	if path == "" {
		path, err = e.paths.GetExportPath("backup_ppe", "json", now)
		exitOnError(err, "failed to build backup path")
	}

	f := createFile(e, path)
	err = db.WriteBackup(f, db.NewBackup(records, now.Format(time.RFC3339)))
	closeErr := f.Close()
	exitOnError(err, "failed to write backup")
	exitOnError(closeErr, "failed to close backup")

	slog.Info("Backup written", "path", path, "records", len(records))
	fmt.Printf("Backed up %d record(s) to %s\n", len(records), path)
}

func runRestore(cmd *cobra.Command, args []string) {
	f, err := os.Open(args[0])
	exitOnError(err, "failed to open backup")
	backup, err := db.ReadBackup(f)
	f.Close()
	exitOnError(err, "failed to read backup")

	slog.Debug("Backup loaded", "version", backup.Metadata.Version, "created", backup.Metadata.Created)
	if backup.Metadata.RecordsCount != len(backup.Data) {
		slog.Warn("Backup record count mismatch", "metadata", backup.Metadata.RecordsCount, "actual", len(backup.Data))
	}

	e := setup()
	defer e.Close()

	n, err := e.records.Restore(backup)
	exitOnError(err, "failed to restore backup")

	slog.Info("Backup restored", "path", args[0], "records", n)
	fmt.Printf("Restored %d record(s)\n", n)
}
