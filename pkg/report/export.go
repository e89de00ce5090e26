package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/record"
)

// WriteJSON writes the snapshot as indented JSON without escaping non-ASCII text.
func WriteJSON(w io.Writer, s Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// WriteCSV writes the snapshot as a sectioned CSV document.
func WriteCSV(w io.Writer, s Snapshot) error {
	cw := csv.NewWriter(w)

	rows := [][]string{
		{"Report summary"},
		{"Generated at", s.GeneratedAt},
		{},
		{"Data summary"},
		{"total", strconv.Itoa(s.DataSummary.Total)},
		{"ppe_count", strconv.Itoa(s.DataSummary.PPECount)},
		{"receipt_count", strconv.Itoa(s.DataSummary.ReceiptCount)},
		{"other_count", strconv.Itoa(s.DataSummary.OtherCount)},
		{},
		{"Expiry analysis"},
		{"expired_count", strconv.Itoa(s.ExpiryAnalysis.ExpiredCount)},
		{"expiring_soon_count", strconv.Itoa(s.ExpiryAnalysis.ExpiringSoonCount)},
		{"valid_count", strconv.Itoa(s.ExpiryAnalysis.ValidCount)},
		{"total_ppe", strconv.Itoa(s.ExpiryAnalysis.TotalPPE)},
		{},
		{"Critical items (expired)"},
		{"Name", "Type", "Expiry date", "Manufacturer"},
	}
	for _, item := range s.CriticalItems {
		rows = append(rows, []string{item.Name, item.Type, item.ExpiryDate, item.Manufacturer})
	}

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write report CSV: %w", err)
	}
	return nil
}

// recordColumns are the columns of a record export.
var recordColumns = []string{
	"name", "type", "protection_class", "expiry_date",
	"manufacturer", "certificate", "data_type", "timestamp",
}

// WriteRecordsCSV exports records with one row each. Columns a variant
// does not carry are left empty.
func WriteRecordsCSV(w io.Writer, records []record.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(recordColumns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range records {
		meta := r.Meta()
		row := []string{meta.Name, "", "", "", "", "", string(meta.DataType), meta.Timestamp}
		if p, ok := r.(record.PPE); ok {
			row[1] = p.Type
			row[2] = p.ProtectionClass
			row[3] = p.ExpiryDate
			row[4] = p.Manufacturer
			row[5] = p.Certificate
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
