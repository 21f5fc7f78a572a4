package tracker

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/modelpulse/modelpulse/internal/core"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "usage.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func refs(ids ...string) []ModelRef {
	out := make([]ModelRef, 0, len(ids))
	for _, id := range ids {
		// id is "category/name"
		for i := range id {
			if id[i] == '/' {
				out = append(out, ModelRef{Category: id[:i], Name: id[i+1:], ModelID: id})
				break
			}
		}
	}
	return out
}

func TestRecordUsage_CreatesAndIncrements(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.RecordUsage(ctx, refs("lora/foo.safetensors")); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.RecordUsage(ctx, refs("lora/foo.safetensors", "checkpoint/bar.ckpt")); err != nil {
		t.Fatalf("record: %v", err)
	}

	snap, err := store.UsageData(ctx, core.TimeframeAll, core.SortByUsageCount, "")
	if err != nil {
		t.Fatalf("usage data: %v", err)
	}
	if len(snap.Models) != 2 {
		t.Fatalf("models = %d, want 2", len(snap.Models))
	}

	foo := snap.Models[0]
	if foo.ModelID != "lora/foo.safetensors" {
		t.Fatalf("expected foo ranked first, got %s", foo.ModelID)
	}
	if foo.UsageCount != 2 {
		t.Errorf("foo usage_count = %d, want 2", foo.UsageCount)
	}
	if foo.TimeframeCount != 2 {
		t.Errorf("foo timeframe_count = %d, want 2", foo.TimeframeCount)
	}
	if foo.LastUsed == nil || foo.FirstUsed == nil {
		t.Error("timestamps should be set")
	}
}

func TestUsageData_TimeframeCutoff(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	// Two uses 10 days ago, one today.
	past := time.Now().UTC().AddDate(0, 0, -10)
	store.now = func() time.Time { return past }
	if err := store.RecordUsage(ctx, refs("lora/old.safetensors")); err != nil {
		t.Fatal(err)
	}
	if err := store.RecordUsage(ctx, refs("lora/old.safetensors")); err != nil {
		t.Fatal(err)
	}
	store.now = time.Now
	if err := store.RecordUsage(ctx, refs("lora/old.safetensors")); err != nil {
		t.Fatal(err)
	}

	week, err := store.UsageData(ctx, core.TimeframeWeek, core.SortByLastUsed, "")
	if err != nil {
		t.Fatal(err)
	}
	if week.Models[0].UsageCount != 3 {
		t.Errorf("usage_count = %d, want 3", week.Models[0].UsageCount)
	}
	if week.Models[0].TimeframeCount != 1 {
		t.Errorf("week timeframe_count = %d, want 1", week.Models[0].TimeframeCount)
	}

	month, err := store.UsageData(ctx, core.TimeframeMonth, core.SortByLastUsed, "")
	if err != nil {
		t.Fatal(err)
	}
	if month.Models[0].TimeframeCount != 3 {
		t.Errorf("month timeframe_count = %d, want 3", month.Models[0].TimeframeCount)
	}
}

func TestUsageData_CategoryFilter(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.RecordUsage(ctx, refs("lora/a", "checkpoint/b", "vae/c")); err != nil {
		t.Fatal(err)
	}

	snap, err := store.UsageData(ctx, core.TimeframeAll, core.SortByName, "lora")
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Models) != 1 || snap.Models[0].Category != "lora" {
		t.Fatalf("filtered models = %+v", snap.Models)
	}
}

func TestUsageData_SortByName(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.RecordUsage(ctx, refs("lora/Zeta.safetensors", "lora/alpha.safetensors", "lora/Beta.safetensors")); err != nil {
		t.Fatal(err)
	}

	snap, err := store.UsageData(ctx, core.TimeframeAll, core.SortByName, "")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"alpha.safetensors", "Beta.safetensors", "Zeta.safetensors"}
	for i, name := range want {
		if snap.Models[i].Name != name {
			t.Fatalf("name order = %v, want %v", modelNames(snap.Models), want)
		}
	}
}

func TestUsageData_SortByLastUsed(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	store.now = func() time.Time { return base }
	if err := store.RecordUsage(ctx, refs("lora/older")); err != nil {
		t.Fatal(err)
	}
	store.now = func() time.Time { return base.Add(time.Minute) }
	if err := store.RecordUsage(ctx, refs("lora/newer")); err != nil {
		t.Fatal(err)
	}

	snap, err := store.UsageData(ctx, core.TimeframeAll, core.SortByLastUsed, "")
	if err != nil {
		t.Fatal(err)
	}
	if snap.Models[0].ModelID != "lora/newer" {
		t.Fatalf("order = %v", modelNames(snap.Models))
	}
}

func TestModelDetail(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.RecordUsage(ctx, refs("lora/foo")); err != nil {
		t.Fatal(err)
	}
	if err := store.RecordUsage(ctx, refs("lora/foo")); err != nil {
		t.Fatal(err)
	}

	detail, err := store.ModelDetail(ctx, "lora/foo")
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if detail.UsageCount != 2 {
		t.Errorf("usage_count = %d, want 2", detail.UsageCount)
	}
	if len(detail.UsageLog) != 1 || detail.UsageLog[0].Count != 2 {
		t.Errorf("usage_log = %+v", detail.UsageLog)
	}

	if _, err := store.ModelDetail(ctx, "lora/missing"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("missing model error = %v, want sql.ErrNoRows", err)
	}
}

func TestReset(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.RecordUsage(ctx, refs("lora/foo", "checkpoint/bar")); err != nil {
		t.Fatal(err)
	}
	if err := store.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}

	snap, err := store.UsageData(ctx, core.TimeframeAll, core.SortByLastUsed, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Models) != 0 {
		t.Fatalf("models after reset = %d, want 0", len(snap.Models))
	}
	if snap.Metadata.TrackingStarted.IsZero() {
		t.Error("tracking_started should be reset, not cleared")
	}
}

func TestCleanup_DropsOldDays(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	old := time.Now().UTC().AddDate(0, 0, -400)
	store.now = func() time.Time { return old }
	if err := store.RecordUsage(ctx, refs("lora/ancient")); err != nil {
		t.Fatal(err)
	}
	store.now = time.Now
	if err := store.RecordUsage(ctx, refs("lora/ancient")); err != nil {
		t.Fatal(err)
	}

	removed, err := store.Cleanup(ctx, 365)
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	// All-time counter survives cleanup.
	detail, err := store.ModelDetail(ctx, "lora/ancient")
	if err != nil {
		t.Fatal(err)
	}
	if detail.UsageCount != 2 {
		t.Errorf("usage_count = %d, want 2", detail.UsageCount)
	}
	if len(detail.UsageLog) != 1 {
		t.Errorf("usage_log = %+v, want only today's entry", detail.UsageLog)
	}
}

func modelNames(models []core.ModelUsageRecord) []string {
	out := make([]string, len(models))
	for i, m := range models {
		out[i] = m.Name
	}
	return out
}
