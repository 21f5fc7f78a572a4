package settings

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/modelpulse/modelpulse/internal/config"
)

const (
	DefaultStaleThresholdDays = 30
	MinStaleThresholdDays     = 1
	MaxStaleThresholdDays     = 365
)

type Settings struct {
	StaleThresholdDays int `json:"staleThresholdDays"`
}

func DefaultSettings() Settings {
	return Settings{StaleThresholdDays: DefaultStaleThresholdDays}
}

func Path() string {
	return filepath.Join(config.ConfigDir(), "settings.json")
}

func Load() (Settings, error) {
	return LoadFrom(Path())
}

// LoadFrom reads settings from path. A missing file yields defaults with no
// error; a parse failure yields defaults plus the error so callers can log
// and carry on. Out-of-range persisted thresholds fall back to the default.
func LoadFrom(path string) (Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("reading settings: %w", err)
	}

	if err := json.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("parsing settings %s: %w", path, err)
	}

	if s.StaleThresholdDays < MinStaleThresholdDays || s.StaleThresholdDays > MaxStaleThresholdDays {
		s.StaleThresholdDays = DefaultStaleThresholdDays
	}

	return s, nil
}

func Save(s Settings) error {
	return SaveTo(Path(), s)
}

func SaveTo(path string, s Settings) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}

	return nil
}

// Store holds the in-memory settings record and persists changes as they
// happen. It is single-owner: the view controller mutates it only on its
// own event callbacks.
type Store struct {
	mu      sync.Mutex
	path    string
	current Settings
}

// NewStore loads settings from path. Load failures are logged and the
// store starts from defaults; they are never fatal.
func NewStore(path string) *Store {
	s, err := LoadFrom(path)
	if err != nil {
		log.Printf("settings: load failed, using defaults: %v", err)
	}
	return &Store{path: path, current: s}
}

func (st *Store) Current() Settings {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.current
}

// SetStaleThreshold applies a new threshold. Values outside [1,365] are
// rejected silently: no error, no state change. Valid values take effect
// in memory immediately and are persisted; a persistence failure is logged
// and does not roll back the in-memory value.
func (st *Store) SetStaleThreshold(days int) {
	if days < MinStaleThresholdDays || days > MaxStaleThresholdDays {
		return
	}

	st.mu.Lock()
	st.current.StaleThresholdDays = days
	snapshot := st.current
	st.mu.Unlock()

	if err := SaveTo(st.path, snapshot); err != nil {
		log.Printf("settings: save failed: %v", err)
	}
}

// Replace swaps the whole record, used when the settings file changes on
// disk. The incoming value is assumed to have been validated by LoadFrom.
func (st *Store) Replace(s Settings) {
	st.mu.Lock()
	st.current = s
	st.mu.Unlock()
}
