package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/remote"
)

var (
	remoteUser string
	remoteYes  bool
)

// remoteCmd groups commands that inspect the sync server.
var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Inspect or reset data on the sync server",
}

var remoteUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List users with a remote snapshot",
	Run:   runRemoteUsers,
}

var remoteUploadsCmd = &cobra.Command{
	Use:   "uploads",
	Short: "Show the server's upload log",
	Long: `Show the server's upload log, oldest first.

Example:
  ppe-ledger remote uploads --user alice`,
	Run: runRemoteUploads,
}

var remoteDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the user's remote snapshot",
	Long: `Delete the user's remote snapshot. Local records and the server's
upload log are kept.

Example:
  ppe-ledger remote delete --user alice --yes`,
	Run: runRemoteDelete,
}

func init() {
	remoteCmd.PersistentFlags().StringVar(&remoteUser, "user", "", "sync user (default from SYNC_USER)")
	remoteDeleteCmd.Flags().BoolVar(&remoteYes, "yes", false, "confirm deletion")

	remoteCmd.AddCommand(remoteUsersCmd)
	remoteCmd.AddCommand(remoteUploadsCmd)
	remoteCmd.AddCommand(remoteDeleteCmd)
}

func remoteClient(e *env) *remote.Client {
	return remote.NewClient(remote.ClientConfig{
		ServerURL: e.cfg.Sync.ServerURL,
		Enabled:   e.cfg.Sync.Enabled,
		Timeout:   e.cfg.Sync.Timeout,
	})
}

func runRemoteUsers(cmd *cobra.Command, args []string) {
	e := setup([]string{"sync", "serverUrl"})
	defer e.Close()

	users, err := remoteClient(e).Users()
	exitOnError(err, "failed to list remote users")

	if len(users) == 0 {
		fmt.Println("No remote snapshots")
		return
	}
	for _, u := range users {
		fmt.Println(u)
	}
}

func runRemoteUploads(cmd *cobra.Command, args []string) {
	e := setup([]string{"sync", "serverUrl"})
	defer e.Close()

	user := e.cfg.Sync.User
	if remoteUser != "" {
		user = remoteUser
	}

	uploads, err := remoteClient(e).Uploads(user)
	exitOnError(err, "failed to get upload log")

	if len(uploads) == 0 {
		fmt.Println("No uploads")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEQ\tUSER\tTIMESTAMP\tRECORDS")
	for _, u := range uploads {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", u.Seq, u.User, u.Timestamp, u.Count)
	}
	w.Flush()
}

func runRemoteDelete(cmd *cobra.Command, args []string) {
	if !remoteYes {
		fmt.Println("Refusing to delete the remote snapshot without --yes")
		return
	}

	e := setup([]string{"sync", "serverUrl"}, []string{"sync", "user"})
	defer e.Close()

	user := e.cfg.Sync.User
	if remoteUser != "" {
		user = remoteUser
	}

	err := remoteClient(e).Delete(user)
	exitOnError(err, "failed to delete remote snapshot")

	slog.Info("Remote snapshot deleted", "user", user)
	fmt.Printf("Deleted remote snapshot for %s\n", user)
}
