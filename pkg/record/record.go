// Package record defines the typed records produced from scanned payloads
// and the classifier that builds them.
package record

import "time"

// DataType identifies the record variant.
type DataType string

const (
	DataTypePPE        DataType = "ppe"
	DataTypeReceipt    DataType = "receipt"
	DataTypeStructured DataType = "structured"
	DataTypeUnknown    DataType = "unknown"
)

// Label returns a human readable name for the data type.
func (d DataType) Label() string {
	switch d {
	case DataTypePPE:
		return "PPE"
	case DataTypeReceipt:
		return "Fiscal receipt"
	case DataTypeStructured:
		return "Structured data"
	case DataTypeUnknown:
		return "Unknown format"
	default:
		return string(d)
	}
}

const (
	// TimestampLayout is the processing timestamp format (DD.MM.YYYY HH:MM).
	TimestampLayout = "02.01.2006 15:04"
	// DateLayout is the day part of TimestampLayout.
	DateLayout = "02.01.2006"
	// ExpiryLayout is the ISO date format of PPE expiry dates.
	ExpiryLayout = "2006-01-02"

	// Unspecified marks a field that was absent from the payload.
	Unspecified = "unspecified"
)

// Default record names for variants that carry no name of their own.
const (
	ReceiptName    = "Fiscal receipt"
	StructuredName = "Structured data"
	UnknownName    = "Unknown data format"
)

// Header holds the fields shared by every variant.
type Header struct {
	Name      string   `json:"name"`
	DataType  DataType `json:"data_type"`
	Timestamp string   `json:"timestamp"`
	// RawPayload is the original scanned string or structured object.
	RawPayload any `json:"raw_data,omitempty"`
}

// Record is one classified scan result. The set of implementations is closed:
// PPE, Receipt, Structured and Unknown.
type Record interface {
	Meta() Header
	isRecord()
}

// PPE is a personal protective equipment item.
type PPE struct {
	Header
	Type            string `json:"type"`
	ExpiryDate      string `json:"expiry_date"`
	ProtectionClass string `json:"protection_class"`
	Manufacturer    string `json:"manufacturer"`
	Certificate     string `json:"certificate"`
}

// Receipt is a fiscal receipt.
type Receipt struct {
	Header
	Amount       string `json:"amount"`
	DateTime     string `json:"date_time"`
	FiscalNumber string `json:"fiscal_number"`
	FiscalDoc    string `json:"fiscal_doc"`
	FiscalSign   string `json:"fiscal_sign"`
}

// Structured is any other key/value payload.
type Structured struct {
	Header
	FieldCount int            `json:"field_count"`
	Fields     map[string]any `json:"fields"`
}

// Unknown is a payload no rule could interpret.
type Unknown struct {
	Header
}

func (r PPE) Meta() Header        { return r.Header }
func (r Receipt) Meta() Header    { return r.Header }
func (r Structured) Meta() Header { return r.Header }
func (r Unknown) Meta() Header    { return r.Header }

func (PPE) isRecord()        {}
func (Receipt) isRecord()    {}
func (Structured) isRecord() {}
func (Unknown) isRecord()    {}

// ParseTimestamp parses a record timestamp in loc.
func ParseTimestamp(ts string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, ts, loc)
}

// FormatTimestamp formats t as a record timestamp.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
