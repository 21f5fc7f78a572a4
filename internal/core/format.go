package core

import (
	"fmt"
	"time"
)

// DisplayCount picks the counter shown for a record under the active
// timeframe: the all-time total for the all window, the windowed count
// otherwise. The label changes with it because it changes the meaning of
// the number shown.
func DisplayCount(rec ModelUsageRecord, tf Timeframe) (int, string) {
	if tf == TimeframeAll {
		return rec.UsageCount, "Uses"
	}
	return rec.TimeframeCount, "Uses (period)"
}

// FormatLastUsed renders a timestamp as a coarse relative age. The cascade
// checks thresholds in order, first match wins, all divisions floored. A
// month is 30 days and a year 365; the mismatch is kept because it is the
// observable behavior users see.
func FormatLastUsed(lastUsed *time.Time, now time.Time) string {
	if lastUsed == nil {
		return "Never"
	}

	age := now.Sub(*lastUsed)
	switch {
	case age < time.Minute:
		return "just now"
	case age < 60*time.Minute:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	case age < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(age.Hours())/24)
	case age < 12*30*24*time.Hour:
		return fmt.Sprintf("%dmo ago", int(age.Hours())/24/30)
	default:
		return fmt.Sprintf("%dy ago", int(age.Hours())/24/365)
	}
}
