// Package cmd provides CLI commands for ppe-ledger.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/config"
	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/db"
	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/pathutil"
)

var (
	cfgFile string
	debug   bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ppe-ledger",
	Short: "Classify scanned QR payloads and track PPE expiry",
	Long: `ppe-ledger classifies decoded QR payloads into PPE items, fiscal
receipts and structured data, keeps them in a local SQLite ledger and
reports on PPE expiration.

It supports:
- Classifying JSON, query string and delimited payloads
- Expiry buckets, notifications and trend reports
- JSON/CSV exports and backups
- Syncing the ledger with a remote sync server

Example:
  ppe-ledger scan '{"name":"Respirator","expiry_date":"2025-12-31"}'
  ppe-ledger expiry
  ppe-ledger report --format csv`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger(debug)
	},
}

func initLogger(debug bool) {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(expiryCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(remoteCmd)
	rootCmd.AddCommand(clearCmd)
}

// Helper function to get config file path.
func getConfigFile() string {
	return cfgFile
}

// Helper function to handle errors and exit.
func exitOnError(err error, msg string) {
	if err != nil {
		slog.Error(msg, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
		os.Exit(1)
	}
}

// env bundles what most commands need. Callers must Close it.
type env struct {
	cfg     *config.Config
	paths   *pathutil.PathResolver
	conn    *db.Connection
	records *db.RecordStore
	history *db.SyncHistory
}

func (e *env) Close() {
	if err := e.conn.Close(); err != nil {
		slog.Warn("failed to close database", "error", err)
	}
}

// setup loads configuration and opens the ledger database.
func setup(required ...[]string) *env {
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	// DEBUG from the .env file is only known after loading it.
	if cfg.Debug && !debug {
		initLogger(true)
	}

	required = append([][]string{{"storage", "dataRoot"}}, required...)
	if err := cfg.Validate(required...); err != nil {
		exitOnError(err, "invalid configuration")
	}

	paths := pathutil.New(pathutil.Config{
		DataRoot:     cfg.Storage.DataRoot,
		DatabasePath: cfg.Storage.DBPath,
		ExportDir:    cfg.Storage.ExportDir,
	})

	dbPath := paths.GetDatabasePath()
	slog.Debug("Opening database", "path", dbPath)
	conn, err := db.Open(dbPath)
	exitOnError(err, "failed to open database")

	return &env{
		cfg:     cfg,
		paths:   paths,
		conn:    conn,
		records: db.NewRecordStore(conn),
		history: db.NewSyncHistory(conn),
	}
}
