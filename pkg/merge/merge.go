// Package merge reconciles a local record set with a remote copy.
package merge

import (
	"fmt"

	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/record"
)

// KeySeparator joins the parts of an identity key.
const KeySeparator = "_"

// KeyFunc computes the identity key used for deduplication.
type KeyFunc func(record.Record) string

// NameTimestampKey is the default identity: name and timestamp joined by
// KeySeparator. It is not a content hash; distinct records sharing both
// collapse into one.
func NameTimestampKey(r record.Record) string {
	m := r.Meta()
	return m.Name + KeySeparator + m.Timestamp
}

// NameKey identifies records by name alone, so re-scans of the same item
// collapse and the recency rule picks the survivor.
func NameKey(r record.Record) string {
	return r.Meta().Name
}

// KeyByName returns the KeyFunc registered under name.
func KeyByName(name string) (KeyFunc, error) {
	switch name {
	case "", "name-timestamp":
		return NameTimestampKey, nil
	case "name":
		return NameKey, nil
	default:
		return nil, fmt.Errorf("unknown merge key %q (expected name-timestamp or name)", name)
	}
}

// Merge reconciles local and remote using NameTimestampKey.
func Merge(local, remote []record.Record) []record.Record {
	return MergeBy(local, remote, NameTimestampKey)
}

// MergeBy walks local then remote. An unseen key is inserted; a seen key is
// replaced when the incoming timestamp compares greater as a raw string.
//
// The comparison is lexicographic on DD.MM.YYYY HH:MM, which only orders
// chronologically within a single day: "31.01.2025 10:00" beats
// "01.02.2025 09:00".
//
// Output keeps the first-insertion order of the surviving keys.
func MergeBy(local, remote []record.Record, key KeyFunc) []record.Record {
	out := make([]record.Record, 0, len(local)+len(remote))
	index := make(map[string]int, len(local)+len(remote))

	visit := func(r record.Record) {
		k := key(r)
		i, seen := index[k]
		if !seen {
			index[k] = len(out)
			out = append(out, r)
			return
		}
		if r.Meta().Timestamp > out[i].Meta().Timestamp {
			out[i] = r
		}
	}

	for _, r := range local {
		visit(r)
	}
	for _, r := range remote {
		visit(r)
	}
	return out
}
