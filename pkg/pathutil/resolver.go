// Package pathutil provides centralized path management for the record database and exports.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// PathResolver manages paths for the database, exports and backups.
type PathResolver struct {
	dataRoot     string
	databasePath string
	exportDir    string
}

// Config represents the configuration for PathResolver.
type Config struct {
	// DataRoot is the root directory for all local data (e.g., ./data)
	DataRoot string
	// DatabasePath is the path to the SQLite record database
	DatabasePath string
	// ExportDir is the directory for reports, CSV exports and backups
	ExportDir string
}

// New creates a new PathResolver with the given configuration.
// If DatabasePath is empty, it defaults to {DataRoot}/ppe.db
// If ExportDir is empty, it defaults to {DataRoot}/exports
func New(config Config) *PathResolver {
	dbPath := config.DatabasePath
	if dbPath == "" {
		dbPath = filepath.Join(config.DataRoot, "ppe.db")
	}

	exportDir := config.ExportDir
	if exportDir == "" {
		exportDir = filepath.Join(config.DataRoot, "exports")
	}

	return &PathResolver{
		dataRoot:     config.DataRoot,
		databasePath: dbPath,
		exportDir:    exportDir,
	}
}

// GetDataRoot returns the data root directory.
func (p *PathResolver) GetDataRoot() string {
	return p.dataRoot
}

// GetDatabasePath returns the database file path.
func (p *PathResolver) GetDatabasePath() string {
	return p.databasePath
}

// GetExportDir returns the export directory.
func (p *PathResolver) GetExportDir() string {
	return p.exportDir
}

// GetExportPath returns a timestamped file path in the export directory.
// Example: exports/report_20250131_150405.json
func (p *PathResolver) GetExportPath(prefix, ext string, at time.Time) (string, error) {
	if prefix == "" || ext == "" {
		return "", fmt.Errorf("invalid export name: prefix and extension are required")
	}
	filename := fmt.Sprintf("%s_%s.%s", prefix, at.Format("20060102_150405"), ext)
	return filepath.Join(p.exportDir, filename), nil
}

// EnsureDir creates a directory if it doesn't exist.
// It creates all parent directories as needed (like mkdir -p).
func (p *PathResolver) EnsureDir(dirPath string) error {
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dirPath, err)
	}
	return nil
}

// EnsureParentDir ensures the parent directory of a file exists.
func (p *PathResolver) EnsureParentDir(filePath string) error {
	dir := filepath.Dir(filePath)
	return p.EnsureDir(dir)
}

// FileExists checks if a file exists.
func (p *PathResolver) FileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return err == nil
}
