package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SyncStatus is the outcome of a sync run.
type SyncStatus string

const (
	SyncStatusOK      SyncStatus = "ok"
	SyncStatusPartial SyncStatus = "partial"
	SyncStatusFailed  SyncStatus = "failed"
)

// Metadata keys.
const (
	MetaLastSync  = "last_sync"
	MetaLastCheck = "last_check"
)

// SyncRun represents a sync history row.
type SyncRun struct {
	ID          int64
	RunID       string
	User        string
	LocalCount  int
	RemoteCount int
	MergedCount int
	Status      SyncStatus
	Message     string
	SyncedAt    time.Time
}

// SyncHistory manages sync history and metadata.
type SyncHistory struct {
	conn *Connection
}

// NewSyncHistory creates a new SyncHistory instance.
func NewSyncHistory(conn *Connection) *SyncHistory {
	return &SyncHistory{conn: conn}
}

// RecordSyncRun stores a sync run and returns its run ID.
func (s *SyncHistory) RecordSyncRun(run SyncRun) (string, error) {
	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}

	query := `
		INSERT INTO sync_history (run_id, sync_user, local_count, remote_count, merged_count, status, message)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.conn.Exec(query,
		run.RunID,
		run.User,
		run.LocalCount,
		run.RemoteCount,
		run.MergedCount,
		string(run.Status),
		run.Message,
	)
	if err != nil {
		return "", fmt.Errorf("failed to record sync run: %w", err)
	}

	return run.RunID, nil
}

// LastSyncRun returns the most recent sync run, or nil if none exists.
func (s *SyncHistory) LastSyncRun() (*SyncRun, error) {
	query := `
		SELECT id, run_id, sync_user, local_count, remote_count, merged_count, status, message, synced_at
		FROM sync_history
		ORDER BY id DESC
		LIMIT 1
	`

	var run SyncRun
	var status string

	err := s.conn.QueryRow(query).Scan(
		&run.ID,
		&run.RunID,
		&run.User,
		&run.LocalCount,
		&run.RemoteCount,
		&run.MergedCount,
		&status,
		&run.Message,
		&run.SyncedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last sync run: %w", err)
	}

	run.Status = SyncStatus(status)
	return &run, nil
}

// Stats represents store statistics.
type Stats struct {
	TotalRecords int
	TotalSyncs   int
	LastSync     sql.NullString
	LastCheck    sql.NullString
}

// GetStats retrieves store statistics.
func (s *SyncHistory) GetStats() (*Stats, error) {
	var stats Stats

	err := s.conn.QueryRow(`SELECT COUNT(*) FROM records`).Scan(&stats.TotalRecords)
	if err != nil {
		return nil, fmt.Errorf("failed to get record count: %w", err)
	}

	err = s.conn.QueryRow(`SELECT COUNT(*) FROM sync_history`).Scan(&stats.TotalSyncs)
	if err != nil {
		return nil, fmt.Errorf("failed to get sync count: %w", err)
	}

	for key, dst := range map[string]*sql.NullString{MetaLastSync: &stats.LastSync, MetaLastCheck: &stats.LastCheck} {
		value, err := s.GetMetadata(key)
		if err != nil {
			return nil, err
		}
		if value != "" {
			*dst = sql.NullString{String: value, Valid: true}
		}
	}

	return &stats, nil
}

// GetMetadata retrieves a metadata value. A missing key yields "".
func (s *SyncHistory) GetMetadata(key string) (string, error) {
	query := `SELECT value FROM sync_metadata WHERE key = ?`

	var value string
	err := s.conn.QueryRow(query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get metadata: %w", err)
	}

	return value, nil
}

// SetMetadata sets a metadata value.
func (s *SyncHistory) SetMetadata(key, value string) error {
	query := `
		INSERT INTO sync_metadata (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`

	_, err := s.conn.Exec(query, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata: %w", err)
	}

	return nil
}
