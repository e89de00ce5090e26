package record

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// List is a sequence of records that decodes each element by its data_type.
type List []Record

// UnmarshalJSON implements json.Unmarshaler.
func (l *List) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return fmt.Errorf("failed to decode record list: %w", err)
	}

	out := make(List, 0, len(raws))
	for i, raw := range raws {
		r, err := Unmarshal(raw)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, r)
	}

	*l = out
	return nil
}

// Marshal encodes a single record.
func Marshal(r Record) ([]byte, error) {
	return json.Marshal(r)
}

// Unmarshal decodes a single record, choosing the variant from data_type.
// Numbers inside the raw payload and structured fields are kept as
// json.Number so they re-encode verbatim.
func Unmarshal(data []byte) (Record, error) {
	var head struct {
		DataType DataType `json:"data_type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}

	switch head.DataType {
	case DataTypePPE:
		var r PPE
		if err := decode(data, &r); err != nil {
			return nil, err
		}
		return r, nil
	case DataTypeReceipt:
		var r Receipt
		if err := decode(data, &r); err != nil {
			return nil, err
		}
		return r, nil
	case DataTypeStructured:
		var r Structured
		if err := decode(data, &r); err != nil {
			return nil, err
		}
		return r, nil
	case DataTypeUnknown:
		var r Unknown
		if err := decode(data, &r); err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown data_type %q", head.DataType)
	}
}

func decode(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("failed to decode record: %w", err)
	}
	return nil
}
