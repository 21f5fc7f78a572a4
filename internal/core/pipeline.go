package core

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

// FilterRecords narrows records to those whose name or category contains
// the query, case-insensitively. An empty or whitespace-only query is the
// identity: the input slice is returned unchanged, order included.
func FilterRecords(records []ModelUsageRecord, query string) []ModelUsageRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return records
	}
	return lo.Filter(records, func(rec ModelUsageRecord, _ int) bool {
		return strings.Contains(strings.ToLower(rec.Name), q) ||
			strings.Contains(strings.ToLower(rec.Category), q)
	})
}

// GroupByCategory partitions records by their literal category value.
// Order within each group follows input order. Unrecognized categories
// form their own group under the exact raw string.
func GroupByCategory(records []ModelUsageRecord) map[string][]ModelUsageRecord {
	groups := make(map[string][]ModelUsageRecord)
	for _, rec := range records {
		groups[rec.Category] = append(groups[rec.Category], rec)
	}
	return groups
}

// GroupTotal sums timeframe counts across one group's records. This is the
// ordering key for categories regardless of the active timeframe, so under
// the all-time window the displayed count (usage_count) and the ordering
// key (timeframe_count) intentionally diverge.
func GroupTotal(records []ModelUsageRecord) int {
	return lo.SumBy(records, func(rec ModelUsageRecord) int {
		return rec.TimeframeCount
	})
}

// OrderedCategories returns the group keys ordered by descending summed
// timeframe count. Ties break by ascending category name so the order is
// deterministic.
func OrderedCategories(groups map[string][]ModelUsageRecord) []string {
	keys := lo.Keys(groups)
	sort.Slice(keys, func(i, j int) bool {
		ti, tj := GroupTotal(groups[keys[i]]), GroupTotal(groups[keys[j]])
		if ti != tj {
			return ti > tj
		}
		return keys[i] < keys[j]
	})
	return keys
}
