package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/record"
)

var now = time.Date(2025, 1, 31, 15, 0, 0, 0, time.UTC)

func ppe(name, typ, manufacturer, expiry, ts string) record.PPE {
	return record.PPE{
		Header:       record.Header{Name: name, DataType: record.DataTypePPE, Timestamp: ts},
		Type:         typ,
		Manufacturer: manufacturer,
		ExpiryDate:   expiry,
	}
}

func sample() []record.Record {
	return []record.Record{
		ppe("r1", "Respirator", "Acme", "2024-12-01", "31.01.2025 10:00"),
		ppe("g1", "Gloves", "Beta", "2025-02-10", "30.01.2025 09:00"),
		ppe("r2", "Respirator", "Acme", "2026-01-01", "01.01.2025 08:00"),
		ppe("g2", "Gloves", "Acme", record.Unspecified, "31.12.2024 23:59"),
		ppe("h1", "Helmet", "Gamma", "not a date", "garbage"),
		record.Receipt{Header: record.Header{Name: record.ReceiptName, DataType: record.DataTypeReceipt, Timestamp: "31.01.2025 11:00"}},
		record.Structured{Header: record.Header{Name: "s", DataType: record.DataTypeStructured, Timestamp: "15.01.2025 12:00"}},
		record.Unknown{Header: record.Header{Name: record.UnknownName, DataType: record.DataTypeUnknown, Timestamp: "01.02.2025 00:00"}},
	}
}

func TestAggregateSummary(t *testing.T) {
	s := Aggregate(sample(), now, DefaultTimelineDays)

	expected := DataSummary{Total: 8, PPECount: 5, ReceiptCount: 1, OtherCount: 2}
	if s.DataSummary != expected {
		t.Errorf("DataSummary = %+v, expected %+v", s.DataSummary, expected)
	}
	if got := s.DataSummary.PPECount + s.DataSummary.ReceiptCount + s.DataSummary.OtherCount; got != s.DataSummary.Total {
		t.Errorf("summary parts = %d, expected total %d", got, s.DataSummary.Total)
	}

	expectedExpiry := ExpiryAnalysis{ExpiredCount: 1, ExpiringSoonCount: 1, ValidCount: 1, TotalPPE: 3}
	if s.ExpiryAnalysis != expectedExpiry {
		t.Errorf("ExpiryAnalysis = %+v, expected %+v", s.ExpiryAnalysis, expectedExpiry)
	}

	if len(s.CriticalItems) != 1 || s.CriticalItems[0].Name != "r1" {
		t.Errorf("CriticalItems = %+v, expected [r1]", s.CriticalItems)
	}
	if s.GeneratedAt != "2025-01-31T15:00:00Z" {
		t.Errorf("GeneratedAt = %q", s.GeneratedAt)
	}
}

func TestSummaryTotalsHoldForAnyInput(t *testing.T) {
	inputs := [][]record.Record{
		nil,
		{record.Unknown{}},
		sample(),
		append(sample(), sample()...),
	}
	for i, in := range inputs {
		s := Summarize(in)
		if s.PPECount+s.ReceiptCount+s.OtherCount != s.Total {
			t.Errorf("input %d: %+v does not add up", i, s)
		}
	}
}

func TestAggregateTypeAnalysis(t *testing.T) {
	s := Aggregate(sample(), now, DefaultTimelineDays)

	byType := []Count{{"Respirator", 2}, {"Gloves", 2}, {"Helmet", 1}}
	if fmt.Sprint(s.TypeAnalysis.ByType) != fmt.Sprint(Counts(byType)) {
		t.Errorf("ByType = %v, expected %v", s.TypeAnalysis.ByType, byType)
	}

	if s.TypeAnalysis.ByManufacturer[0].Key != "Acme" || s.TypeAnalysis.ByManufacturer.Get("Acme") != 3 {
		t.Errorf("ByManufacturer = %v, expected Acme first with 3", s.TypeAnalysis.ByManufacturer)
	}
}

func TestManufacturerTopTen(t *testing.T) {
	var records []record.Record
	for i := 0; i < 15; i++ {
		for j := 0; j <= i; j++ {
			records = append(records, ppe("x", "t", fmt.Sprintf("m%02d", i), record.Unspecified, "01.01.2025 00:00"))
		}
	}

	s := Aggregate(records, now, 0)
	if len(s.TypeAnalysis.ByManufacturer) != 10 {
		t.Fatalf("len(ByManufacturer) = %d, expected 10", len(s.TypeAnalysis.ByManufacturer))
	}
	if s.TypeAnalysis.ByManufacturer[0].Key != "m14" || s.TypeAnalysis.ByManufacturer[9].Key != "m05" {
		t.Errorf("ByManufacturer = %v, expected m14..m05", s.TypeAnalysis.ByManufacturer)
	}
}

func TestCriticalItemsCapped(t *testing.T) {
	var records []record.Record
	for i := 0; i < 12; i++ {
		records = append(records, ppe(fmt.Sprintf("e%d", i), "t", "m", "2020-01-01", "01.01.2025 00:00"))
	}

	s := Aggregate(records, now, 30)
	if len(s.CriticalItems) != 10 {
		t.Fatalf("len(CriticalItems) = %d, expected 10", len(s.CriticalItems))
	}
	if s.CriticalItems[0].Name != "e0" || s.CriticalItems[9].Name != "e9" {
		t.Errorf("CriticalItems not in record order: %v .. %v", s.CriticalItems[0].Name, s.CriticalItems[9].Name)
	}
	if s.ExpiryAnalysis.ExpiredCount != 12 {
		t.Errorf("ExpiredCount = %d, expected 12", s.ExpiryAnalysis.ExpiredCount)
	}
}

func TestBuildTimeline(t *testing.T) {
	tl := BuildTimeline(sample(), now, 30)

	if len(tl) != 31 {
		t.Fatalf("len(timeline) = %d, expected 31", len(tl))
	}
	if tl[0].Date != "01.01.2025" || tl[30].Date != "31.01.2025" {
		t.Errorf("window = %s..%s, expected 01.01.2025..31.01.2025", tl[0].Date, tl[30].Date)
	}

	tests := []struct {
		date     string
		expected int
		inWindow bool
	}{
		{"31.01.2025", 2, true},
		{"30.01.2025", 1, true},
		{"15.01.2025", 1, true},
		{"01.01.2025", 1, true},
		{"02.01.2025", 0, true},
		{"31.12.2024", 0, false},
		{"01.02.2025", 0, false},
	}
	for _, tt := range tests {
		got, ok := tl.Get(tt.date)
		if got != tt.expected || ok != tt.inWindow {
			t.Errorf("Get(%q) = (%d, %v), expected (%d, %v)", tt.date, got, ok, tt.expected, tt.inWindow)
		}
	}
}

func TestBuildTimelineZeroWindow(t *testing.T) {
	tl := BuildTimeline(sample(), now, 0)
	if len(tl) != 1 || tl[0].Date != "31.01.2025" || tl[0].Count != 2 {
		t.Errorf("BuildTimeline(0) = %v, expected [31.01.2025:2]", tl)
	}
}

func TestWriteJSONKeepsOrder(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, Aggregate(sample(), now, 2)); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	out := buf.String()

	first := strings.Index(out, `"29.01.2025"`)
	last := strings.Index(out, `"31.01.2025"`)
	if first < 0 || last < 0 || first > last {
		t.Errorf("timeline not in chronological order:\n%s", out)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	for _, key := range []string{"generated_at", "data_summary", "expiry_analysis", "type_analysis", "timeline", "critical_items"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, Aggregate(sample(), now, 30)); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{"Report summary", "total,8", "expired_count,1", "r1,Respirator,2024-12-01,Acme"} {
		if !strings.Contains(out, want) {
			t.Errorf("CSV output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteRecordsCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRecordsCSV(&buf, sample()[4:6]); err != nil {
		t.Fatalf("WriteRecordsCSV() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	expected := []string{
		"name,type,protection_class,expiry_date,manufacturer,certificate,data_type,timestamp",
		"h1,Helmet,,not a date,Gamma,,ppe,garbage",
		"Fiscal receipt,,,,,,receipt,31.01.2025 11:00",
	}
	if len(lines) != len(expected) {
		t.Fatalf("got %d lines, expected %d:\n%s", len(lines), len(expected), buf.String())
	}
	for i := range expected {
		if lines[i] != expected[i] {
			t.Errorf("line %d = %q, expected %q", i, lines[i], expected[i])
		}
	}
}

func TestDetailed(t *testing.T) {
	stats := Detailed(sample(), now, 30)

	if stats.Total != 8 || stats.PPECount != 5 || stats.ReceiptCount != 1 || stats.StructuredCount != 1 || stats.UnknownCount != 1 {
		t.Errorf("counts = %+v", stats)
	}
	if stats.ExpiredCount != 1 || stats.ExpiringSoonCount != 1 {
		t.Errorf("expiry counts = %d/%d, expected 1/1", stats.ExpiredCount, stats.ExpiringSoonCount)
	}

	expectedMonths := Counts{{"12/2024", 1}, {"01/2025", 5}, {"02/2025", 1}}
	if fmt.Sprint(stats.ByMonth) != fmt.Sprint(expectedMonths) {
		t.Errorf("ByMonth = %v, expected %v", stats.ByMonth, expectedMonths)
	}
}
