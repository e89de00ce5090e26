package report

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Count is one entry of an ordered key/count mapping.
type Count struct {
	Key   string
	Count int
}

// Counts is an ordered key/count mapping. It encodes as a JSON object whose
// keys keep slice order.
type Counts []Count

// Get returns the count for key.
func (c Counts) Get(key string) int {
	for _, e := range c {
		if e.Key == key {
			return e.Count
		}
	}
	return 0
}

// top returns the first n entries; n <= 0 keeps everything.
func (c Counts) top(n int) Counts {
	if n <= 0 || len(c) <= n {
		return c
	}
	return c[:n]
}

// MarshalJSON implements json.Marshaler.
func (c Counts) MarshalJSON() ([]byte, error) {
	pairs := make([]pair, len(c))
	for i, e := range c {
		pairs[i] = pair{e.Key, e.Count}
	}
	return marshalOrdered(pairs)
}

// DayCount is the number of records stamped on one day.
type DayCount struct {
	Date  string // DD.MM.YYYY
	Count int
}

// Timeline is a chronologically ordered series of daily counts.
type Timeline []DayCount

// Get returns the count for a DD.MM.YYYY label and whether the label is
// inside the window.
func (t Timeline) Get(date string) (int, bool) {
	for _, d := range t {
		if d.Date == date {
			return d.Count, true
		}
	}
	return 0, false
}

// MarshalJSON implements json.Marshaler.
func (t Timeline) MarshalJSON() ([]byte, error) {
	pairs := make([]pair, len(t))
	for i, d := range t {
		pairs[i] = pair{d.Date, d.Count}
	}
	return marshalOrdered(pairs)
}

type pair struct {
	key   string
	value int
}

func marshalOrdered(pairs []pair) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range pairs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(p.value))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
