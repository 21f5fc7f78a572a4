package core

import "time"

// IsStale reports whether a model's last use precedes the configured
// threshold. A nil last-used timestamp (never used) is always stale.
// Age is truncated to whole days before comparing.
func IsStale(lastUsed *time.Time, thresholdDays int, now time.Time) bool {
	if lastUsed == nil {
		return true
	}
	ageDays := int(now.Sub(*lastUsed).Hours() / 24)
	return ageDays > thresholdDays
}
