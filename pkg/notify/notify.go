// Package notify decides when to run an expiration check and collects the
// PPE items worth alerting about.
package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/expiry"
	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/record"
)

// LastCheckLayout is the format of the persisted last check time.
const LastCheckLayout = time.RFC3339

// ShouldCheck reports whether an expiration check is due. A missing or
// unreadable last check always triggers one; disabled notifications never do.
func ShouldCheck(enabled bool, lastCheck string, interval time.Duration, now time.Time) bool {
	if !enabled {
		return false
	}
	if lastCheck == "" {
		return true
	}

	last, err := time.Parse(LastCheckLayout, lastCheck)
	if err != nil {
		return true
	}
	return now.Sub(last) >= interval
}

// Alerts holds the PPE items that need attention.
type Alerts struct {
	Expired      []record.PPE
	ExpiringSoon []record.PPE
}

// Empty reports whether there is nothing to alert about.
func (a Alerts) Empty() bool {
	return len(a.Expired) == 0 && len(a.ExpiringSoon) == 0
}

// Check collects expired and soon expiring PPE items.
func Check(records []record.Record, now time.Time, warningDays int) Alerts {
	b := expiry.Bucket(records, now, warningDays)
	return Alerts{
		Expired:      b.Expired,
		ExpiringSoon: b.ExpiringSoon,
	}
}

// Message renders alerts as a short notification text.
func (a Alerts) Message() string {
	if a.Empty() {
		return "All PPE items are within their service life"
	}

	var sb strings.Builder
	if n := len(a.Expired); n > 0 {
		fmt.Fprintf(&sb, "Expired PPE: %d (%s)", n, names(a.Expired))
	}
	if n := len(a.ExpiringSoon); n > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "Expiring soon: %d (%s)", n, names(a.ExpiringSoon))
	}
	return sb.String()
}

func names(items []record.PPE) string {
	out := make([]string, len(items))
	for i, p := range items {
		out[i] = p.Name
	}
	return strings.Join(out, ", ")
}
