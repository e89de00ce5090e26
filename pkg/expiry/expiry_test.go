package expiry

import (
	"testing"
	"time"

	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/record"
)

func ppe(name, expiry string) record.PPE {
	return record.PPE{
		Header:     record.Header{Name: name, DataType: record.DataTypePPE, Timestamp: "01.01.2025 10:00"},
		ExpiryDate: expiry,
	}
}

func names(items []record.PPE) []string {
	var out []string
	for _, p := range items {
		out = append(out, p.Name)
	}
	return out
}

func TestBucket(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []record.Record{
		ppe("expired", "2024-12-01"),
		ppe("soon", "2025-01-20"),
		ppe("valid", "2025-06-01"),
		ppe("sentinel", record.Unspecified),
		ppe("malformed", "31.12.2025"),
		ppe("today", "2025-01-01"),
		ppe("edge", "2025-01-31"),
		ppe("past edge", "2025-02-01"),
		record.Receipt{Header: record.Header{Name: "receipt", DataType: record.DataTypeReceipt}},
		record.Unknown{Header: record.Header{Name: "unknown", DataType: record.DataTypeUnknown}},
	}

	b := Bucket(records, now, 30)

	tests := []struct {
		bucket   string
		got      []string
		expected []string
	}{
		{"expired", names(b.Expired), []string{"expired"}},
		{"expiring_soon", names(b.ExpiringSoon), []string{"soon", "today", "edge"}},
		{"valid", names(b.Valid), []string{"valid", "past edge"}},
	}
	for _, tt := range tests {
		t.Run(tt.bucket, func(t *testing.T) {
			if len(tt.got) != len(tt.expected) {
				t.Fatalf("%s = %v, expected %v", tt.bucket, tt.got, tt.expected)
			}
			for i := range tt.got {
				if tt.got[i] != tt.expected[i] {
					t.Errorf("%s = %v, expected %v", tt.bucket, tt.got, tt.expected)
				}
			}
		})
	}

	if b.Total() != 6 {
		t.Errorf("Total() = %d, expected 6", b.Total())
	}
}

func TestBucketWarningWindow(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []record.Record{ppe("x", "2025-01-11")}

	if b := Bucket(records, now, 0); len(b.Valid) != 1 {
		t.Errorf("warning 0: expected valid, got %+v", b)
	}
	if b := Bucket(records, now, 10); len(b.ExpiringSoon) != 1 {
		t.Errorf("warning 10: expected expiring soon, got %+v", b)
	}
}

func TestDaysUntil(t *testing.T) {
	noon := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		expiry   string
		expected int
		ok       bool
	}{
		{"same day after midnight floors to -1", "2025-01-01", -1, true},
		{"next day", "2025-01-02", 0, true},
		{"far future", "2025-01-31", 29, true},
		{"sentinel", record.Unspecified, 0, false},
		{"empty", "", 0, false},
		{"not a date", "soon", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, ok := DaysUntil(tt.expiry, noon)
			if ok != tt.ok || days != tt.expected {
				t.Errorf("DaysUntil(%q) = (%d, %v), expected (%d, %v)", tt.expiry, days, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestDaysUntilAcrossDST(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("time zone data unavailable: %v", err)
	}

	tests := []struct {
		name     string
		now      time.Time
		expiry   string
		expected int
	}{
		{"spring forward", time.Date(2025, 3, 29, 0, 0, 0, 0, berlin), "2025-03-31", 2},
		{"spring forward late evening", time.Date(2025, 3, 29, 23, 30, 0, 0, berlin), "2025-03-31", 1},
		{"fall back", time.Date(2025, 10, 25, 0, 0, 0, 0, berlin), "2025-10-27", 2},
		{"change-over day window edge", time.Date(2025, 3, 30, 0, 0, 0, 0, berlin), "2025-04-30", 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, ok := DaysUntil(tt.expiry, tt.now)
			if !ok || days != tt.expected {
				t.Errorf("DaysUntil(%q, %v) = (%d, %v), expected (%d, true)", tt.expiry, tt.now, days, ok, tt.expected)
			}
		})
	}

	b := Bucket([]record.Record{ppe("x", "2025-04-30")}, time.Date(2025, 3, 30, 0, 0, 0, 0, berlin), 30)
	if len(b.Valid) != 1 {
		t.Errorf("Bucket() = %+v, expected the item 31 days out to be valid", b)
	}
}

func TestDaysUntilNonUTC(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	now := time.Date(2025, 1, 1, 8, 0, 0, 0, tokyo)

	days, ok := DaysUntil("2025-01-02", now)
	if !ok || days != 0 {
		t.Errorf("DaysUntil() = (%d, %v), expected (0, true)", days, ok)
	}
}
