// Package payload turns raw scanned QR strings into a generic key/value structure.
package payload

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// RawDataKey is the key under which an unparsed payload is wrapped.
const RawDataKey = "raw_data"

// Strategy identifies which parsing strategy produced a Structure.
type Strategy int

const (
	// StrategyRaw means no strategy matched and the payload is wrapped as-is.
	StrategyRaw Strategy = iota
	// StrategyJSON means the payload was a JSON object.
	StrategyJSON
	// StrategyQuery means the payload was a URL-query-style key=value&... string.
	StrategyQuery
	// StrategyDelimited means the payload was split on ';', ',' or '|'.
	StrategyDelimited
	// StrategyObject means the caller supplied an already structured object.
	StrategyObject
)

func (s Strategy) String() string {
	switch s {
	case StrategyJSON:
		return "json"
	case StrategyQuery:
		return "query"
	case StrategyDelimited:
		return "delimited"
	case StrategyObject:
		return "object"
	default:
		return "raw"
	}
}

// delimiters are tried in priority order.
var delimiters = []string{";", ",", "|"}

// Structure is the intermediate representation handed to the classifier.
type Structure struct {
	// Fields holds the decoded key/value pairs. For StrategyRaw it holds
	// a single RawDataKey entry.
	Fields map[string]any
	// Keys lists the field names in a stable order.
	Keys []string
	// Strategy records which parser produced the structure.
	Strategy Strategy
	// Original is the input the structure was built from: the raw string
	// for parsed payloads, the caller's map for StrategyObject.
	Original any
}

// IsMapping reports whether the structure is a real key/value mapping
// rather than the raw-string wrapper.
func (s Structure) IsMapping() bool {
	return s.Strategy != StrategyRaw
}

// Has reports whether key is present.
func (s Structure) Has(key string) bool {
	_, ok := s.Fields[key]
	return ok
}

// HasAny reports whether any of keys is present.
func (s Structure) HasAny(keys ...string) bool {
	for _, k := range keys {
		if s.Has(k) {
			return true
		}
	}
	return false
}

// String returns the value for key rendered as a string.
func (s Structure) String(key string) (string, bool) {
	v, ok := s.Fields[key]
	if !ok {
		return "", false
	}
	return Stringify(v), true
}

// Stringify renders a decoded value the way it appeared in the payload.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case map[string]any, []any:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	default:
		return fmt.Sprint(val)
	}
}

// Parse runs the strategy cascade over raw. Each strategy is tried only when
// the previous one failed to match; the raw wrapper always succeeds.
func Parse(raw string) Structure {
	if s, ok := parseJSON(raw); ok {
		return s
	}
	if s, ok := parseQuery(raw); ok {
		return s
	}
	if s, ok := parseDelimited(raw); ok {
		return s
	}
	return Structure{
		Fields:   map[string]any{RawDataKey: raw},
		Keys:     []string{RawDataKey},
		Strategy: StrategyRaw,
		Original: raw,
	}
}

// FromMap wraps a caller-supplied structured object.
func FromMap(m map[string]any) Structure {
	fields := make(map[string]any, len(m))
	for k, v := range m {
		fields[k] = v
	}
	return Structure{
		Fields:   fields,
		Keys:     sortedKeys(fields),
		Strategy: StrategyObject,
		Original: m,
	}
}

func parseJSON(raw string) (Structure, bool) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return Structure{}, false
	}
	// Reject trailing data after the object.
	if _, err := dec.Token(); err != io.EOF {
		return Structure{}, false
	}

	return Structure{
		Fields:   fields,
		Keys:     sortedKeys(fields),
		Strategy: StrategyJSON,
		Original: raw,
	}, true
}

func parseQuery(raw string) (Structure, bool) {
	if !strings.Contains(raw, "=") || !strings.Contains(raw, "&") {
		return Structure{}, false
	}

	fields := make(map[string]any)
	var keys []string
	for _, part := range strings.Split(raw, "&") {
		key, value, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		if _, seen := fields[key]; !seen {
			keys = append(keys, key)
		}
		fields[key] = value
	}

	return Structure{
		Fields:   fields,
		Keys:     keys,
		Strategy: StrategyQuery,
		Original: raw,
	}, true
}

func parseDelimited(raw string) (Structure, bool) {
	for _, sep := range delimiters {
		if !strings.Contains(raw, sep) {
			continue
		}
		parts := strings.Split(raw, sep)
		if len(parts) < 2 {
			continue
		}

		fields := make(map[string]any, len(parts))
		keys := make([]string, 0, len(parts))
		for i, part := range parts {
			key := fmt.Sprintf("field_%d", i)
			fields[key] = strings.TrimSpace(part)
			keys = append(keys, key)
		}

		return Structure{
			Fields:   fields,
			Keys:     keys,
			Strategy: StrategyDelimited,
			Original: raw,
		}, true
	}
	return Structure{}, false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

