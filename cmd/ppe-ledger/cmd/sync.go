package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/db"
	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/merge"
	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/remote"
)

var (
	syncUser   string
	syncDryRun bool
)

// syncCmd represents the sync command.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the ledger with the remote sync server",
	Long: `Sync the local ledger with the sync server.

This command:
1. Downloads the user's remote records
2. Merges them with the local records
3. Uploads the merged set
4. Replaces the local records with the merged set
5. Records the run in the sync history

If the upload fails the merged records are still kept locally and the
run is recorded as partial.

Example:
  ppe-ledger sync
  ppe-ledger sync --user alice --dry-run`,
	Run: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncUser, "user", "", "sync user (default from SYNC_USER)")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "download and merge without uploading or storing")
}

func runSync(cmd *cobra.Command, args []string) {
	e := setup([]string{"sync", "serverUrl"}, []string{"sync", "user"})
	defer e.Close()

	user := e.cfg.Sync.User
	if syncUser != "" {
		user = syncUser
	}

	key, err := merge.KeyByName(e.cfg.Sync.MergeKey)
	exitOnError(err, "invalid SYNC_MERGE_KEY")

	client := remoteClient(e)

	local, err := e.records.List()
	exitOnError(err, "failed to load records")

	slog.Info("Starting sync", "server", e.cfg.Sync.ServerURL, "user", user, "local", len(local), "dry_run", syncDryRun)

	if syncDryRun {
		remoteRecords, err := client.Download(user)
		exitOnError(err, "failed to download remote records")
		merged := merge.MergeBy(local, remoteRecords, key)
		fmt.Printf("[DRY RUN] local %d + remote %d -> merged %d\n", len(local), len(remoteRecords), len(merged))
		return
	}

	result, syncErr := remote.Sync(client, user, local, key)
	if errors.Is(syncErr, remote.ErrSyncDisabled) {
		exitOnError(syncErr, "set SYNC_ENABLED=true to sync")
	}

	run := db.SyncRun{
		User:        user,
		LocalCount:  result.LocalCount,
		RemoteCount: result.RemoteCount,
		MergedCount: len(result.Records),
		Status:      db.SyncStatusOK,
	}

	switch {
	case syncErr == nil:
	case errors.Is(syncErr, remote.ErrPartialSync):
		run.Status = db.SyncStatusPartial
		run.Message = syncErr.Error()
	default:
		run.Status = db.SyncStatusFailed
		run.Message = syncErr.Error()
	}

	if run.Status != db.SyncStatusFailed {
		err = e.records.ReplaceAll(result.Records)
		exitOnError(err, "failed to store merged records")

		err = e.history.SetMetadata(db.MetaLastSync, time.Now().Format(time.RFC3339))
		exitOnError(err, "failed to store last sync")
	}

	runID, err := e.history.RecordSyncRun(run)
	exitOnError(err, "failed to record sync run")

	slog.Info("Sync finished",
		"run_id", runID,
		"status", run.Status,
		"local", run.LocalCount,
		"remote", run.RemoteCount,
		"merged", run.MergedCount,
	)

	exitOnError(syncErr, "sync did not complete")

	fmt.Printf("Sync completed: %d record(s)\n", run.MergedCount)
}
