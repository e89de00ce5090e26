package record

import (
	"time"

	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/payload"
)

// receiptKeys mark a fiscal receipt payload.
var receiptKeys = []string{"t", "s", "fn"}

// structuredNameKeys are tried in order for a structured record's name.
var structuredNameKeys = []string{"name", "title", "product"}

// Classify turns a parsed payload into a Record. Rules are evaluated in a
// fixed order and the first match wins:
//
//  1. a mapping with "name" is PPE
//  2. a mapping with any of "t", "s", "fn" is a Receipt
//  3. any other mapping is Structured
//  4. everything else is Unknown
//
// The timestamp is stamped from now, never from payload content.
func Classify(in payload.Structure, now time.Time) Record {
	header := Header{
		Timestamp:  FormatTimestamp(now),
		RawPayload: in.Original,
	}

	switch {
	case in.IsMapping() && in.Has("name"):
		return newPPE(in, header)
	case in.IsMapping() && in.HasAny(receiptKeys...):
		return newReceipt(in, header)
	case in.IsMapping():
		return newStructured(in, header)
	default:
		header.Name = UnknownName
		header.DataType = DataTypeUnknown
		return Unknown{Header: header}
	}
}

// ClassifyRaw parses raw and classifies the result.
func ClassifyRaw(raw string, now time.Time) Record {
	return Classify(payload.Parse(raw), now)
}

// ClassifyObject classifies a caller-supplied structured object.
func ClassifyObject(obj map[string]any, now time.Time) Record {
	return Classify(payload.FromMap(obj), now)
}

func newPPE(in payload.Structure, header Header) PPE {
	header.Name, _ = in.String("name")
	header.DataType = DataTypePPE

	return PPE{
		Header:          header,
		Type:            valueOr(in, "type"),
		ExpiryDate:      valueOr(in, "expiry_date"),
		ProtectionClass: valueOr(in, "protection_class"),
		Manufacturer:    valueOr(in, "manufacturer"),
		Certificate:     valueOr(in, "certificate"),
	}
}

func newReceipt(in payload.Structure, header Header) Receipt {
	header.Name = ReceiptName
	header.DataType = DataTypeReceipt

	return Receipt{
		Header:       header,
		Amount:       valueOr(in, "s"),
		DateTime:     FormatReceiptDate(valueOr(in, "t")),
		FiscalNumber: valueOr(in, "fn"),
		FiscalDoc:    valueOr(in, "i"),
		FiscalSign:   valueOr(in, "fp"),
	}
}

func newStructured(in payload.Structure, header Header) Structured {
	header.Name = StructuredName
	for _, key := range structuredNameKeys {
		if v, ok := in.String(key); ok {
			header.Name = v
			break
		}
	}
	header.DataType = DataTypeStructured

	fields := make(map[string]any, len(in.Fields))
	for k, v := range in.Fields {
		fields[k] = v
	}

	return Structured{
		Header:     header,
		FieldCount: len(in.Fields),
		Fields:     fields,
	}
}

// FormatReceiptDate rewrites a compact fiscal timestamp (YYYYMMDDTHHMM...)
// as DD.MM.YYYY HH:MM. Values shorter than 13 characters are returned
// verbatim. No further validation is done: any long enough value is sliced
// at fixed character offsets.
func FormatReceiptDate(t string) string {
	r := []rune(t)
	if len(r) < 13 {
		return t
	}
	return string(r[6:8]) + "." + string(r[4:6]) + "." + string(r[0:4]) + " " + string(r[9:11]) + ":" + string(r[11:13])
}

func valueOr(in payload.Structure, key string) string {
	if v, ok := in.String(key); ok {
		return v
	}
	return Unspecified
}
