package fixtures

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/record"
)

var testNow = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

func TestLoadShippedFixtures(t *testing.T) {
	set, err := Load(filepath.Join("..", "..", "config", "fixtures.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	expected := []string{"demo", "siz_json", "receipt", "simple_text", "custom_siz"}
	if got := set.Names(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Names() = %v, expected %v", got, expected)
	}

	tests := []struct {
		fixture  string
		dataType record.DataType
		name     string
	}{
		{"demo", record.DataTypePPE, "Респиратор Р-2 (демо)"},
		{"siz_json", record.DataTypePPE, "Респиратор Р-2"},
		{"receipt", record.DataTypeReceipt, record.ReceiptName},
		{"simple_text", record.DataTypeStructured, record.StructuredName},
		{"custom_siz", record.DataTypeStructured, "Защитные перчатки"},
	}

	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			f, ok := set.Get(tt.fixture)
			if !ok {
				t.Fatalf("Get(%q) not found", tt.fixture)
			}
			r := f.Classify(testNow)
			if r.Meta().DataType != tt.dataType {
				t.Errorf("Classify().DataType = %q, expected %q", r.Meta().DataType, tt.dataType)
			}
			if r.Meta().Name != tt.name {
				t.Errorf("Classify().Name = %q, expected %q", r.Meta().Name, tt.name)
			}
		})
	}
}

func TestReceiptFixture(t *testing.T) {
	set, err := Parse([]byte(`fixtures:
  receipt: "t=20251115T1213&s=150.00&fn=7380440801230307&i=3562&fp=1980160056&n=1"
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	f, _ := set.Get("receipt")
	if f.IsObject() {
		t.Fatal("receipt fixture must be a raw payload")
	}

	r, ok := f.Classify(testNow).(record.Receipt)
	if !ok {
		t.Fatalf("Classify() = %T, expected record.Receipt", f.Classify(testNow))
	}
	if r.Amount != "150.00" || r.DateTime != "15.11.2025 12:13" || r.FiscalDoc != "3562" {
		t.Errorf("Classify() = %+v", r)
	}
}

func TestObjectFixtureExpiryStaysString(t *testing.T) {
	set, err := Parse([]byte(`fixtures:
  helmet:
    name: Helmet
    expiry_date: "2026-01-01"
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	f, _ := set.Get("helmet")
	ppe, ok := f.Classify(testNow).(record.PPE)
	if !ok {
		t.Fatal("expected a PPE record")
	}
	if ppe.ExpiryDate != "2026-01-01" || ppe.Type != record.Unspecified {
		t.Errorf("Classify() = %+v", ppe)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"invalid yaml", "fixtures: [\n"},
		{"missing section", "other: 1\n"},
		{"section is a list", "fixtures:\n  - a\n"},
		{"fixture is a list", "fixtures:\n  bad:\n    - 1\n"},
		{"duplicate", "fixtures:\n  a: x\n  a: y\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.input)); err == nil {
				t.Errorf("Parse(%q) expected error", tt.input)
			}
		})
	}
}

func TestFallback(t *testing.T) {
	set, err := Parse([]byte("fixtures:\n  demo:\n    name: Gloves\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got := set.Fallback(testNow).Meta().Name; got != "Gloves" {
		t.Errorf("Fallback().Name = %q, expected Gloves", got)
	}

	empty, err := Parse([]byte("fixtures:\n  other: text\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got := empty.Fallback(testNow).Meta().DataType; got != record.DataTypeUnknown {
		t.Errorf("Fallback() without demo = %q, expected unknown", got)
	}
}
