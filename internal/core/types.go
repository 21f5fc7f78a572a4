package core

import "time"

// Timeframe is the reporting window for usage counts.
type Timeframe string

const (
	TimeframeAll   Timeframe = "all"
	TimeframeMonth Timeframe = "month"
	TimeframeWeek  Timeframe = "week"
)

var ValidTimeframes = []Timeframe{
	TimeframeAll,
	TimeframeMonth,
	TimeframeWeek,
}

// NormalizeTimeframe maps unknown values to the all-time window.
func NormalizeTimeframe(raw string) Timeframe {
	switch Timeframe(raw) {
	case TimeframeMonth:
		return TimeframeMonth
	case TimeframeWeek:
		return TimeframeWeek
	default:
		return TimeframeAll
	}
}

// Days returns the window size in days, or 0 for the all-time window.
func (tf Timeframe) Days() int {
	switch tf {
	case TimeframeWeek:
		return 7
	case TimeframeMonth:
		return 30
	default:
		return 0
	}
}

func (tf Timeframe) Label() string {
	switch tf {
	case TimeframeWeek:
		return "This Week"
	case TimeframeMonth:
		return "This Month"
	default:
		return "All Time"
	}
}

type SortBy string

const (
	SortByLastUsed   SortBy = "last_used"
	SortByUsageCount SortBy = "usage_count"
	SortByName       SortBy = "name"
)

var ValidSortFields = []SortBy{
	SortByLastUsed,
	SortByUsageCount,
	SortByName,
}

func NormalizeSortBy(raw string) SortBy {
	switch SortBy(raw) {
	case SortByUsageCount:
		return SortByUsageCount
	case SortByName:
		return SortByName
	default:
		return SortByLastUsed
	}
}

func (s SortBy) Label() string {
	switch s {
	case SortByUsageCount:
		return "Most Used"
	case SortByName:
		return "Name"
	default:
		return "Recently Used"
	}
}

// ModelUsageRecord is one tracked model as reported by the backend.
// The backend guarantees TimeframeCount <= UsageCount; this package
// trusts it and never checks.
type ModelUsageRecord struct {
	ModelID        string     `json:"model_id"`
	Name           string     `json:"name"`
	Category       string     `json:"category"`
	UsageCount     int        `json:"usage_count"`
	TimeframeCount int        `json:"timeframe_count"`
	FirstUsed      *time.Time `json:"first_used,omitempty"`
	LastUsed       *time.Time `json:"last_used,omitempty"`
}

type SnapshotMetadata struct {
	TrackingStarted time.Time `json:"tracking_started"`
	LastUpdated     time.Time `json:"last_updated"`
}

// UsageSnapshot is one fetched batch of usage records tied to the
// timeframe and sort it was requested under. It is replaced wholesale
// on every successful fetch and never mutated in place.
type UsageSnapshot struct {
	Models    []ModelUsageRecord `json:"models"`
	Metadata  SnapshotMetadata   `json:"metadata"`
	Timeframe Timeframe          `json:"timeframe"`
	SortBy    SortBy             `json:"sort_by"`
}

// DayCount is one day of recorded loads for a model.
type DayCount struct {
	Date  string `json:"date"` // "2026-01-15"
	Count int    `json:"count"`
}

// ModelDetail is the per-model view, including the daily usage log.
type ModelDetail struct {
	ModelID    string     `json:"model_id"`
	Name       string     `json:"name"`
	Category   string     `json:"category"`
	Path       string     `json:"path"`
	UsageCount int        `json:"usage_count"`
	FirstUsed  *time.Time `json:"first_used,omitempty"`
	LastUsed   *time.Time `json:"last_used,omitempty"`
	UsageLog   []DayCount `json:"usage_log"`
}

func TimePtr(t time.Time) *time.Time {
	return &t
}
