// Package db provides SQLite persistence for scanned records, sync runs and metadata.
package db

// Schema defines the SQL statements to create database tables.
const Schema = `
-- Classified scan records, in append order.
-- body holds the full JSON encoding of the record.
CREATE TABLE IF NOT EXISTS records (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    record_id TEXT NOT NULL UNIQUE,    -- UUID
    data_type TEXT NOT NULL,           -- ppe, receipt, structured, unknown
    name TEXT NOT NULL,
    timestamp TEXT NOT NULL,           -- DD.MM.YYYY HH:MM
    body TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_records_data_type
    ON records(data_type);

-- Sync history table
-- One row per remote sync attempt
CREATE TABLE IF NOT EXISTS sync_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL UNIQUE,       -- UUID
    sync_user TEXT NOT NULL,
    local_count INTEGER NOT NULL,
    remote_count INTEGER NOT NULL,
    merged_count INTEGER NOT NULL,
    status TEXT NOT NULL,              -- ok, partial, failed
    message TEXT NOT NULL DEFAULT '',
    synced_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Sync metadata table
-- Stores key-value metadata (last_sync, last_check)
CREATE TABLE IF NOT EXISTS sync_metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// InitializeSchema initializes the database schema.
// It creates all tables if they don't exist.
func InitializeSchema(conn *Connection) error {
	if _, err := conn.Exec(Schema); err != nil {
		return err
	}
	return nil
}
