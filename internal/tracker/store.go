package tracker

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/modelpulse/modelpulse/internal/core"
)

const schemaVersion = 1

// Store persists per-model usage counters and the daily usage log.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func OpenStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("tracker: creating DB dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("tracker: opening DB: %w", err)
	}

	store := NewStore(db)
	if err := store.Init(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Init creates or migrates the schema. Versions are tracked with
// PRAGMA user_version and migrations apply sequentially.
func (s *Store) Init(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, `PRAGMA user_version;`).Scan(&version); err != nil {
		return fmt.Errorf("tracker: read schema version: %w", err)
	}
	if version >= schemaVersion {
		return nil
	}

	if version < 1 {
		stmts := []string{
			`PRAGMA foreign_keys = ON;`,
			`CREATE TABLE IF NOT EXISTS models (
				model_id TEXT PRIMARY KEY,
				category TEXT NOT NULL,
				name TEXT NOT NULL,
				path TEXT NOT NULL,
				first_used TEXT NOT NULL,
				last_used TEXT NOT NULL,
				usage_count INTEGER NOT NULL DEFAULT 0
			);`,
			`CREATE INDEX IF NOT EXISTS idx_models_category ON models(category);`,
			`CREATE TABLE IF NOT EXISTS usage_days (
				model_id TEXT NOT NULL,
				day TEXT NOT NULL,
				count INTEGER NOT NULL DEFAULT 0,
				PRIMARY KEY (model_id, day),
				FOREIGN KEY (model_id) REFERENCES models(model_id) ON DELETE CASCADE
			);`,
			`CREATE INDEX IF NOT EXISTS idx_usage_days_day ON usage_days(day);`,
			`CREATE TABLE IF NOT EXISTS meta (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL
			);`,
		}
		for _, stmt := range stmts {
			if _, err := s.db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("tracker: init schema: %w", err)
			}
		}
		if err := s.ensureTrackingStarted(ctx); err != nil {
			return err
		}
	}

	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d;`, schemaVersion)); err != nil {
		return fmt.Errorf("tracker: set schema version: %w", err)
	}
	return nil
}

func (s *Store) ensureTrackingStarted(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO meta(key, value) VALUES ('tracking_started', ?);`,
		s.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("tracker: seed metadata: %w", err)
	}
	return nil
}

// RecordUsage bumps counters for every referenced model: all-time count,
// last-used timestamp, and the per-day log entry. New models are created on
// first sight.
func (s *Store) RecordUsage(ctx context.Context, refs []ModelRef) error {
	if len(refs) == 0 {
		return nil
	}

	now := s.now().UTC()
	nowStr := now.Format(time.RFC3339)
	today := now.Format("2006-01-02")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("tracker: begin record tx: %w", err)
	}
	defer tx.Rollback()

	for _, ref := range refs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO models(model_id, category, name, path, first_used, last_used, usage_count)
			 VALUES (?, ?, ?, ?, ?, ?, 1)
			 ON CONFLICT(model_id) DO UPDATE SET
				 last_used = excluded.last_used,
				 usage_count = usage_count + 1;`,
			ref.ModelID, ref.Category, ref.Name, ref.ModelID, nowStr, nowStr,
		); err != nil {
			return fmt.Errorf("tracker: record model %s: %w", ref.ModelID, err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO usage_days(model_id, day, count) VALUES (?, ?, 1)
			 ON CONFLICT(model_id, day) DO UPDATE SET count = count + 1;`,
			ref.ModelID, today,
		); err != nil {
			return fmt.Errorf("tracker: record day %s: %w", ref.ModelID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO meta(key, value) VALUES ('last_updated', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value;`,
		nowStr,
	); err != nil {
		return fmt.Errorf("tracker: touch metadata: %w", err)
	}

	return tx.Commit()
}

// UsageData builds the snapshot served to clients: every tracked model with
// its all-time count and its count within the requested timeframe, sorted
// per the requested field. An empty category means no category filter.
func (s *Store) UsageData(ctx context.Context, tf core.Timeframe, sortBy core.SortBy, category string) (core.UsageSnapshot, error) {
	cutoff := ""
	if days := tf.Days(); days > 0 {
		cutoff = s.now().UTC().AddDate(0, 0, -days).Format("2006-01-02")
	}

	query := `
		SELECT m.model_id, m.category, m.name, m.first_used, m.last_used, m.usage_count,
			CASE WHEN ?1 = ''
				THEN m.usage_count
				ELSE COALESCE((SELECT SUM(d.count) FROM usage_days d
					WHERE d.model_id = m.model_id AND d.day >= ?1), 0)
			END AS timeframe_count
		FROM models m`
	args := []any{cutoff}
	if category != "" {
		query += ` WHERE m.category = ?2`
		args = append(args, category)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return core.UsageSnapshot{}, fmt.Errorf("tracker: query usage: %w", err)
	}
	defer rows.Close()

	models := make([]core.ModelUsageRecord, 0)
	for rows.Next() {
		var rec core.ModelUsageRecord
		var firstUsed, lastUsed string
		if err := rows.Scan(&rec.ModelID, &rec.Category, &rec.Name, &firstUsed, &lastUsed, &rec.UsageCount, &rec.TimeframeCount); err != nil {
			return core.UsageSnapshot{}, fmt.Errorf("tracker: scan usage row: %w", err)
		}
		rec.FirstUsed = parseTimestamp(firstUsed)
		rec.LastUsed = parseTimestamp(lastUsed)
		models = append(models, rec)
	}
	if err := rows.Err(); err != nil {
		return core.UsageSnapshot{}, fmt.Errorf("tracker: iterate usage rows: %w", err)
	}

	sortModels(models, sortBy)

	meta, err := s.metadata(ctx)
	if err != nil {
		return core.UsageSnapshot{}, err
	}

	return core.UsageSnapshot{
		Models:    models,
		Metadata:  meta,
		Timeframe: tf,
		SortBy:    sortBy,
	}, nil
}

func sortModels(models []core.ModelUsageRecord, sortBy core.SortBy) {
	switch sortBy {
	case core.SortByUsageCount:
		// Keyed on the windowed count so the active timeframe drives the
		// ranking.
		sort.SliceStable(models, func(i, j int) bool {
			return models[i].TimeframeCount > models[j].TimeframeCount
		})
	case core.SortByName:
		sort.SliceStable(models, func(i, j int) bool {
			return strings.ToLower(models[i].Name) < strings.ToLower(models[j].Name)
		})
	default: // last_used, most recent first; never-used sinks to the bottom
		sort.SliceStable(models, func(i, j int) bool {
			ti, tj := models[i].LastUsed, models[j].LastUsed
			if ti == nil {
				return false
			}
			if tj == nil {
				return true
			}
			return ti.After(*tj)
		})
	}
}

// ModelDetail returns full data for one model, including the daily usage
// log, or sql.ErrNoRows if it was never tracked.
func (s *Store) ModelDetail(ctx context.Context, modelID string) (core.ModelDetail, error) {
	var detail core.ModelDetail
	var firstUsed, lastUsed string
	err := s.db.QueryRowContext(ctx,
		`SELECT model_id, category, name, path, first_used, last_used, usage_count
		 FROM models WHERE model_id = ?;`, modelID,
	).Scan(&detail.ModelID, &detail.Category, &detail.Name, &detail.Path, &firstUsed, &lastUsed, &detail.UsageCount)
	if err != nil {
		return core.ModelDetail{}, err
	}
	detail.FirstUsed = parseTimestamp(firstUsed)
	detail.LastUsed = parseTimestamp(lastUsed)

	rows, err := s.db.QueryContext(ctx,
		`SELECT day, count FROM usage_days WHERE model_id = ? ORDER BY day ASC;`, modelID)
	if err != nil {
		return core.ModelDetail{}, fmt.Errorf("tracker: query usage log: %w", err)
	}
	defer rows.Close()

	detail.UsageLog = make([]core.DayCount, 0)
	for rows.Next() {
		var dc core.DayCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return core.ModelDetail{}, fmt.Errorf("tracker: scan usage log: %w", err)
		}
		detail.UsageLog = append(detail.UsageLog, dc)
	}
	return detail, rows.Err()
}

// Reset drops all tracking state and restarts the metadata clock.
func (s *Store) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("tracker: begin reset tx: %w", err)
	}
	defer tx.Rollback()

	nowStr := s.now().UTC().Format(time.RFC3339)
	stmts := []struct {
		query string
		args  []any
	}{
		{`DELETE FROM usage_days;`, nil},
		{`DELETE FROM models;`, nil},
		{`INSERT INTO meta(key, value) VALUES ('tracking_started', ?)
		  ON CONFLICT(key) DO UPDATE SET value = excluded.value;`, []any{nowStr}},
		{`INSERT INTO meta(key, value) VALUES ('last_updated', ?)
		  ON CONFLICT(key) DO UPDATE SET value = excluded.value;`, []any{nowStr}},
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt.query, stmt.args...); err != nil {
			return fmt.Errorf("tracker: reset: %w", err)
		}
	}
	return tx.Commit()
}

// Cleanup removes daily log entries older than maxDays to bound growth.
// All-time counters are untouched.
func (s *Store) Cleanup(ctx context.Context, maxDays int) (int64, error) {
	if maxDays < 1 {
		maxDays = 365
	}
	cutoff := s.now().UTC().AddDate(0, 0, -maxDays).Format("2006-01-02")

	res, err := s.db.ExecContext(ctx, `DELETE FROM usage_days WHERE day < ?;`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("tracker: cleanup: %w", err)
	}
	removed, _ := res.RowsAffected()
	return removed, nil
}

func (s *Store) metadata(ctx context.Context) (core.SnapshotMetadata, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM meta;`)
	if err != nil {
		return core.SnapshotMetadata{}, fmt.Errorf("tracker: query metadata: %w", err)
	}
	defer rows.Close()

	var meta core.SnapshotMetadata
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return core.SnapshotMetadata{}, fmt.Errorf("tracker: scan metadata: %w", err)
		}
		if t := parseTimestamp(value); t != nil {
			switch key {
			case "tracking_started":
				meta.TrackingStarted = *t
			case "last_updated":
				meta.LastUpdated = *t
			}
		}
	}
	return meta, rows.Err()
}

func parseTimestamp(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &t
}
