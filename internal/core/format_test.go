package core

import (
	"testing"
	"time"
)

func TestIsStale(t *testing.T) {
	now := time.Now()

	if !IsStale(nil, 1, now) {
		t.Error("nil last_used must be stale at any threshold")
	}
	if !IsStale(nil, 365, now) {
		t.Error("nil last_used must be stale at any threshold")
	}

	tests := []struct {
		name      string
		age       time.Duration
		threshold int
		want      bool
	}{
		{"29 days at threshold 30", 29 * 24 * time.Hour, 30, false},
		{"exactly 30 days", 30 * 24 * time.Hour, 30, false},
		{"31 days at threshold 30", 31 * 24 * time.Hour, 30, true},
		{"same day", 2 * time.Hour, 1, false},
		{"just over a day at threshold 1", 25 * time.Hour, 1, false},
		{"two days at threshold 1", 49 * time.Hour, 1, true},
	}

	for _, tt := range tests {
		lastUsed := now.Add(-tt.age)
		if got := IsStale(&lastUsed, tt.threshold, now); got != tt.want {
			t.Errorf("%s: IsStale = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFormatLastUsed(t *testing.T) {
	now := time.Now()

	if got := FormatLastUsed(nil, now); got != "Never" {
		t.Fatalf("nil = %q, want Never", got)
	}

	tests := []struct {
		name string
		age  time.Duration
		want string
	}{
		{"45 seconds", 45 * time.Second, "just now"},
		{"5 minutes", 5 * time.Minute, "5m ago"},
		{"59 minutes", 59 * time.Minute, "59m ago"},
		{"exactly 60 minutes", 60 * time.Minute, "1h ago"},
		{"23 hours", 23 * time.Hour, "23h ago"},
		{"exactly 24 hours", 24 * time.Hour, "1d ago"},
		{"25 hours", 25 * time.Hour, "1d ago"},
		{"29 days", 29 * 24 * time.Hour, "29d ago"},
		{"45 days", 45 * 24 * time.Hour, "1mo ago"},
		{"300 days", 300 * 24 * time.Hour, "10mo ago"},
		{"400 days", 400 * 24 * time.Hour, "1y ago"},
		{"800 days", 800 * 24 * time.Hour, "2y ago"},
	}

	for _, tt := range tests {
		lastUsed := now.Add(-tt.age)
		if got := FormatLastUsed(&lastUsed, now); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestDisplayCount(t *testing.T) {
	rec := ModelUsageRecord{UsageCount: 50, TimeframeCount: 7}

	count, label := DisplayCount(rec, TimeframeAll)
	if count != 50 || label != "Uses" {
		t.Errorf("all = (%d, %q), want (50, Uses)", count, label)
	}

	for _, tf := range []Timeframe{TimeframeWeek, TimeframeMonth} {
		count, label = DisplayCount(rec, tf)
		if count != 7 || label != "Uses (period)" {
			t.Errorf("%s = (%d, %q), want (7, Uses (period))", tf, count, label)
		}
	}
}

func TestMetaForCategory(t *testing.T) {
	meta := MetaForCategory("checkpoint")
	if meta.DisplayName != "Checkpoints" {
		t.Errorf("checkpoint display name = %q", meta.DisplayName)
	}

	for _, cat := range KnownCategories {
		if MetaForCategory(cat).Icon == "•" {
			t.Errorf("known category %s resolved to fallback icon", cat)
		}
	}

	fallback := MetaForCategory("embedding")
	if fallback.DisplayName != "embedding" || fallback.Icon != "•" {
		t.Errorf("unknown category meta = %+v", fallback)
	}
}

func TestNormalizeTimeframe(t *testing.T) {
	tests := []struct {
		raw  string
		want Timeframe
	}{
		{"all", TimeframeAll},
		{"month", TimeframeMonth},
		{"week", TimeframeWeek},
		{"", TimeframeAll},
		{"bogus", TimeframeAll},
	}
	for _, tt := range tests {
		if got := NormalizeTimeframe(tt.raw); got != tt.want {
			t.Errorf("NormalizeTimeframe(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeSortBy(t *testing.T) {
	tests := []struct {
		raw  string
		want SortBy
	}{
		{"last_used", SortByLastUsed},
		{"usage_count", SortByUsageCount},
		{"name", SortByName},
		{"", SortByLastUsed},
		{"bogus", SortByLastUsed},
	}
	for _, tt := range tests {
		if got := NormalizeSortBy(tt.raw); got != tt.want {
			t.Errorf("NormalizeSortBy(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}
