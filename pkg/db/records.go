package db

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/record"
)

// RecordStore persists classified records. Records are immutable once
// appended; corrections are made by appending or by replacing the whole set.
type RecordStore struct {
	conn *Connection
}

// NewRecordStore creates a new RecordStore instance.
func NewRecordStore(conn *Connection) *RecordStore {
	return &RecordStore{conn: conn}
}

// execer is satisfied by *Connection and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// Append stores a record and returns its generated ID.
func (s *RecordStore) Append(r record.Record) (string, error) {
	return insertRecord(s.conn, r)
}

// AppendAll stores records in one transaction.
func (s *RecordStore) AppendAll(records []record.Record) error {
	return s.conn.Transaction(func(tx *sql.Tx) error {
		for i, r := range records {
			if _, err := insertRecord(tx, r); err != nil {
				return fmt.Errorf("record %d: %w", i, err)
			}
		}
		return nil
	})
}

// ReplaceAll swaps the stored set for records, keeping their order.
func (s *RecordStore) ReplaceAll(records []record.Record) error {
	return s.conn.Transaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM records`); err != nil {
			return fmt.Errorf("failed to clear records: %w", err)
		}
		for i, r := range records {
			if _, err := insertRecord(tx, r); err != nil {
				return fmt.Errorf("record %d: %w", i, err)
			}
		}
		return nil
	})
}

// List returns all records in append order.
func (s *RecordStore) List() ([]record.Record, error) {
	rows, err := s.conn.Query(`SELECT body FROM records ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var records []record.Record
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		r, err := record.Unmarshal([]byte(body))
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}

	return records, nil
}

// Search returns records whose name, type or manufacturer contains term,
// ignoring case. An empty term returns everything.
func (s *RecordStore) Search(term string) ([]record.Record, error) {
	records, err := s.List()
	if err != nil {
		return nil, err
	}

	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return records, nil
	}

	var matches []record.Record
	for _, r := range records {
		fields := []string{r.Meta().Name}
		if p, ok := r.(record.PPE); ok {
			fields = append(fields, p.Type, p.Manufacturer)
		}
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f), term) {
				matches = append(matches, r)
				break
			}
		}
	}
	return matches, nil
}

// Clear deletes every record and returns how many were removed.
func (s *RecordStore) Clear() (int64, error) {
	result, err := s.conn.Exec(`DELETE FROM records`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear records: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// Count returns the number of stored records per data type.
func (s *RecordStore) Count() (map[record.DataType]int, error) {
	rows, err := s.conn.Query(`SELECT data_type, COUNT(*) FROM records GROUP BY data_type`)
	if err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}
	defer rows.Close()

	counts := make(map[record.DataType]int)
	for rows.Next() {
		var dataType string
		var n int
		if err := rows.Scan(&dataType, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[record.DataType(dataType)] = n
	}

	return counts, rows.Err()
}

func insertRecord(ex execer, r record.Record) (string, error) {
	body, err := record.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("failed to encode record: %w", err)
	}

	meta := r.Meta()
	id := uuid.NewString()
	_, err = ex.Exec(
		`INSERT INTO records (record_id, data_type, name, timestamp, body) VALUES (?, ?, ?, ?, ?)`,
		id, string(meta.DataType), meta.Name, meta.Timestamp, string(body),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert record: %w", err)
	}

	return id, nil
}
