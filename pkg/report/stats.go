package report

import (
	"sort"
	"time"

	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/expiry"
	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/record"
)

// Stats is the detailed per-variant breakdown shown by the stats command.
type Stats struct {
	Total             int    `json:"total"`
	PPECount          int    `json:"ppe_count"`
	ReceiptCount      int    `json:"receipt_count"`
	StructuredCount   int    `json:"structured_count"`
	UnknownCount      int    `json:"unknown_count"`
	ExpiredCount      int    `json:"expired_count"`
	ExpiringSoonCount int    `json:"expiring_soon_count"`
	ByType            Counts `json:"by_type"`
	// ByMonth is keyed MM/YYYY in chronological order.
	ByMonth Counts `json:"by_month"`
}

// Detailed computes Stats using the given warning window.
func Detailed(records []record.Record, now time.Time, warningDays int) Stats {
	buckets := expiry.Bucket(records, now, warningDays)
	stats := Stats{
		Total:             len(records),
		ExpiredCount:      len(buckets.Expired),
		ExpiringSoonCount: len(buckets.ExpiringSoon),
	}

	months := make(map[string]time.Time)
	monthCounts := make(map[string]int)

	for _, r := range records {
		switch r.(type) {
		case record.PPE:
			stats.PPECount++
		case record.Receipt:
			stats.ReceiptCount++
		case record.Structured:
			stats.StructuredCount++
		default:
			stats.UnknownCount++
		}

		ts, err := record.ParseTimestamp(r.Meta().Timestamp, now.Location())
		if err != nil {
			continue
		}
		key := ts.Format("01/2006")
		if _, ok := months[key]; !ok {
			months[key] = time.Date(ts.Year(), ts.Month(), 1, 0, 0, 0, 0, now.Location())
		}
		monthCounts[key]++
	}

	stats.ByType = countBy(ppeRecords(records), func(p record.PPE) string { return p.Type })

	keys := make([]string, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return months[keys[i]].Before(months[keys[j]]) })

	stats.ByMonth = make(Counts, 0, len(keys))
	for _, k := range keys {
		stats.ByMonth = append(stats.ByMonth, Count{Key: k, Count: monthCounts[k]})
	}

	return stats
}
