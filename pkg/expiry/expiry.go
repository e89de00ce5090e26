// Package expiry buckets PPE records by how close they are to expiring.
package expiry

import (
	"math"
	"time"

	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/record"
)

// DefaultWarningDays is the warning window used by reports.
const DefaultWarningDays = 30

// State is the expiration state of a PPE record relative to now.
type State int

const (
	Valid State = iota
	ExpiringSoon
	Expired
)

func (s State) String() string {
	switch s {
	case Expired:
		return "expired"
	case ExpiringSoon:
		return "expiring_soon"
	default:
		return "valid"
	}
}

// Buckets groups PPE records by State, preserving input order.
type Buckets struct {
	Expired      []record.PPE `json:"expired"`
	ExpiringSoon []record.PPE `json:"expiring_soon"`
	Valid        []record.PPE `json:"valid"`
}

// Total returns the number of bucketed records.
func (b Buckets) Total() int {
	return len(b.Expired) + len(b.ExpiringSoon) + len(b.Valid)
}

// Bucket classifies every PPE record with a parseable expiry date.
// Other variants, the unspecified sentinel and malformed dates are skipped.
func Bucket(records []record.Record, now time.Time, warningDays int) Buckets {
	var b Buckets
	for _, r := range records {
		ppe, ok := r.(record.PPE)
		if !ok {
			continue
		}
		state, ok := Classify(ppe, now, warningDays)
		if !ok {
			continue
		}
		switch state {
		case Expired:
			b.Expired = append(b.Expired, ppe)
		case ExpiringSoon:
			b.ExpiringSoon = append(b.ExpiringSoon, ppe)
		default:
			b.Valid = append(b.Valid, ppe)
		}
	}
	return b
}

// Classify returns the state of one PPE record. ok is false when the
// expiry date is the sentinel or cannot be parsed.
func Classify(ppe record.PPE, now time.Time, warningDays int) (state State, ok bool) {
	days, ok := DaysUntil(ppe.ExpiryDate, now)
	if !ok {
		return Valid, false
	}

	switch {
	case days < 0:
		return Expired, true
	case days <= warningDays:
		return ExpiringSoon, true
	default:
		return Valid, true
	}
}

// DaysUntil returns floor((expiry - now) in days), counted on the wall
// clock so that DST shifts in now's location do not change the result. The
// expiry date is interpreted as midnight.
func DaysUntil(expiryDate string, now time.Time) (int, bool) {
	if expiryDate == "" || expiryDate == record.Unspecified {
		return 0, false
	}
	expiry, err := time.ParseInLocation(record.ExpiryLayout, expiryDate, time.UTC)
	if err != nil {
		return 0, false
	}
	return int(math.Floor(expiry.Sub(wallClock(now)).Hours() / 24)), true
}

// wallClock reinterprets now's local date and time in UTC.
func wallClock(now time.Time) time.Time {
	y, m, d := now.Date()
	h, mi, s := now.Clock()
	return time.Date(y, m, d, h, mi, s, now.Nanosecond(), time.UTC)
}
