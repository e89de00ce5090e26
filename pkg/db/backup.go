package db

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/record"
)

// BackupVersion is the format version written into new backups.
const BackupVersion = "1.0"

// BackupMetadata describes a backup file.
type BackupMetadata struct {
	Version      string `json:"version"`
	Created      string `json:"created"`
	RecordsCount int    `json:"records_count"`
}

// Backup is the on-disk backup envelope.
type Backup struct {
	Metadata BackupMetadata `json:"metadata"`
	Data     record.List    `json:"data"`
}

// NewBackup wraps records in a backup envelope. created is an RFC3339 time.
func NewBackup(records []record.Record, created string) Backup {
	data := make(record.List, len(records))
	copy(data, records)
	return Backup{
		Metadata: BackupMetadata{
			Version:      BackupVersion,
			Created:      created,
			RecordsCount: len(records),
		},
		Data: data,
	}
}

// WriteBackup encodes b as indented JSON.
func WriteBackup(w io.Writer, b Backup) error {
	if b.Data == nil {
		b.Data = record.List{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	return nil
}

// ReadBackup decodes a backup. A file without a data section is rejected.
func ReadBackup(r io.Reader) (Backup, error) {
	var raw struct {
		Metadata BackupMetadata   `json:"metadata"`
		Data     *json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Backup{}, fmt.Errorf("failed to read backup: %w", err)
	}
	if raw.Data == nil {
		return Backup{}, fmt.Errorf("invalid backup: missing data section")
	}

	var data record.List
	if err := json.Unmarshal(*raw.Data, &data); err != nil {
		return Backup{}, fmt.Errorf("invalid backup: %w", err)
	}

	return Backup{Metadata: raw.Metadata, Data: data}, nil
}

// Restore appends the backup's records to the store.
func (s *RecordStore) Restore(b Backup) (int, error) {
	if err := s.AppendAll(b.Data); err != nil {
		return 0, fmt.Errorf("failed to restore backup: %w", err)
	}
	return len(b.Data), nil
}
