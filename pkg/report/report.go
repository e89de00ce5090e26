// Package report aggregates record collections into summary and trend reports.
package report

import (
	"sort"
	"time"

	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/expiry"
	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/record"
)

const (
	// DefaultTimelineDays is the trailing window of the daily timeline.
	DefaultTimelineDays = 30
	// topManufacturers limits by_manufacturer.
	topManufacturers = 10
	// criticalItems limits critical_items.
	criticalItems = 10
)

// Snapshot is a comprehensive report over a record collection.
type Snapshot struct {
	GeneratedAt    string         `json:"generated_at"`
	DataSummary    DataSummary    `json:"data_summary"`
	ExpiryAnalysis ExpiryAnalysis `json:"expiry_analysis"`
	TypeAnalysis   TypeAnalysis   `json:"type_analysis"`
	Timeline       Timeline       `json:"timeline"`
	CriticalItems  []record.PPE   `json:"critical_items"`
}

// DataSummary counts records per variant. Structured and Unknown records
// are both counted as other.
type DataSummary struct {
	Total        int `json:"total"`
	PPECount     int `json:"ppe_count"`
	ReceiptCount int `json:"receipt_count"`
	OtherCount   int `json:"other_count"`
}

// ExpiryAnalysis summarises expiry buckets.
type ExpiryAnalysis struct {
	ExpiredCount      int `json:"expired_count"`
	ExpiringSoonCount int `json:"expiring_soon_count"`
	ValidCount        int `json:"valid_count"`
	TotalPPE          int `json:"total_ppe"`
}

// TypeAnalysis groups PPE records by type and manufacturer.
type TypeAnalysis struct {
	ByType         Counts `json:"by_type"`
	ByManufacturer Counts `json:"by_manufacturer"`
}

// Aggregate builds a Snapshot. Malformed records are excluded from the
// sections they cannot contribute to; aggregation itself never fails.
func Aggregate(records []record.Record, now time.Time, timelineDays int) Snapshot {
	buckets := expiry.Bucket(records, now, expiry.DefaultWarningDays)

	critical := buckets.Expired
	if len(critical) > criticalItems {
		critical = critical[:criticalItems]
	}
	if critical == nil {
		critical = []record.PPE{}
	}

	ppes := ppeRecords(records)

	return Snapshot{
		GeneratedAt: now.Format(time.RFC3339),
		DataSummary: Summarize(records),
		ExpiryAnalysis: ExpiryAnalysis{
			ExpiredCount:      len(buckets.Expired),
			ExpiringSoonCount: len(buckets.ExpiringSoon),
			ValidCount:        len(buckets.Valid),
			TotalPPE:          buckets.Total(),
		},
		TypeAnalysis: TypeAnalysis{
			ByType:         countBy(ppes, func(p record.PPE) string { return p.Type }).top(0),
			ByManufacturer: countBy(ppes, func(p record.PPE) string { return p.Manufacturer }).top(topManufacturers),
		},
		Timeline:      BuildTimeline(records, now, timelineDays),
		CriticalItems: critical,
	}
}

// Summarize counts records per variant.
func Summarize(records []record.Record) DataSummary {
	s := DataSummary{Total: len(records)}
	for _, r := range records {
		switch r.(type) {
		case record.PPE:
			s.PPECount++
		case record.Receipt:
			s.ReceiptCount++
		}
	}
	s.OtherCount = s.Total - s.PPECount - s.ReceiptCount
	return s
}

// BuildTimeline counts records per calendar day for the days+1 days ending
// at now. Records with unparseable timestamps or outside the window are
// skipped.
func BuildTimeline(records []record.Record, now time.Time, days int) Timeline {
	if days < 0 {
		return Timeline{}
	}

	start := now.AddDate(0, 0, -days)
	timeline := make(Timeline, 0, days+1)
	index := make(map[string]int, days+1)
	for i := 0; i <= days; i++ {
		label := start.AddDate(0, 0, i).Format(record.DateLayout)
		index[label] = len(timeline)
		timeline = append(timeline, DayCount{Date: label})
	}

	for _, r := range records {
		ts, err := record.ParseTimestamp(r.Meta().Timestamp, now.Location())
		if err != nil {
			continue
		}
		if i, ok := index[ts.Format(record.DateLayout)]; ok {
			timeline[i].Count++
		}
	}

	return timeline
}

func ppeRecords(records []record.Record) []record.PPE {
	var out []record.PPE
	for _, r := range records {
		if p, ok := r.(record.PPE); ok {
			out = append(out, p)
		}
	}
	return out
}

// countBy groups items by key and orders groups by descending count.
// Ties keep first-seen order.
func countBy(items []record.PPE, key func(record.PPE) string) Counts {
	counts := Counts{}
	index := make(map[string]int)
	for _, item := range items {
		k := key(item)
		if i, ok := index[k]; ok {
			counts[i].Count++
			continue
		}
		index[k] = len(counts)
		counts = append(counts, Count{Key: k, Count: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}
