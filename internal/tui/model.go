package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/modelpulse/modelpulse/internal/core"
	"github.com/modelpulse/modelpulse/internal/settings"
)

// UsageSource is the backend the dashboard pulls from.
type UsageSource interface {
	FetchUsage(ctx context.Context, tf core.Timeframe, sortBy core.SortBy) (*core.UsageSnapshot, error)
	ModelDetail(ctx context.Context, modelID string) (*core.ModelDetail, error)
}

type fetchState int

const (
	stateIdle fetchState = iota
	stateLoading
	stateLoaded
	stateError
)

const filterDebounce = 200 * time.Millisecond

type viewMode int

const (
	modeList viewMode = iota
	modeDetail
)

// snapshotMsg carries a fetch result tagged with the sequence and the
// parameters it was issued for, so responses arriving out of order are
// recognized and dropped.
type snapshotMsg struct {
	seq       int
	snapshot  *core.UsageSnapshot
	err       error
	timeframe core.Timeframe
	sortBy    core.SortBy
}

// filterDebounceMsg fires after the search quiet period; only the message
// matching the latest edit sequence applies the pending query.
type filterDebounceMsg struct {
	seq int
}

type detailMsg struct {
	modelID string
	detail  *core.ModelDetail
	err     error
}

type refreshTickMsg time.Time

// SettingsMsg delivers externally reloaded settings (file watcher).
type SettingsMsg settings.Settings

type Model struct {
	source        UsageSource
	settingsStore *settings.Store

	state     fetchState
	snapshot  *core.UsageSnapshot
	fetchErr  string
	timeframe core.Timeframe
	sortBy    core.SortBy
	fetchSeq  int

	// Applied vs pending search text: pending tracks keystrokes, applied
	// is what the pipeline last ran with after the debounce fired.
	filter        string
	pendingFilter string
	filtering     bool
	filterSeq     int

	mode     viewMode
	cursor   int
	detail   *core.ModelDetail
	detailID string

	showHelp      bool
	showSettings  bool
	settingsInput string

	staleThresholdDays int
	refreshInterval    time.Duration
	now                func() time.Time

	width  int
	height int
}

func NewModel(source UsageSource, store *settings.Store, refreshInterval time.Duration) Model {
	// The first fetch is issued from Init, which cannot mutate the model,
	// so the model starts with that fetch's state already recorded.
	return Model{
		source:             source,
		settingsStore:      store,
		state:              stateLoading,
		fetchSeq:           1,
		timeframe:          core.TimeframeAll,
		sortBy:             core.SortByLastUsed,
		staleThresholdDays: store.Current().StaleThresholdDays,
		refreshInterval:    refreshInterval,
		now:                time.Now,
	}
}

func (m Model) Init() tea.Cmd {
	first := m.fetchCmd(m.fetchSeq, m.timeframe, m.sortBy)
	return tea.Batch(first, m.refreshTickCmd())
}

func (m Model) refreshTickCmd() tea.Cmd {
	if m.refreshInterval <= 0 {
		return nil
	}
	return tea.Tick(m.refreshInterval, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}

func (m Model) fetchCmd(seq int, tf core.Timeframe, sortBy core.SortBy) tea.Cmd {
	source := m.source
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		snap, err := source.FetchUsage(ctx, tf, sortBy)
		return snapshotMsg{seq: seq, snapshot: snap, err: err, timeframe: tf, sortBy: sortBy}
	}
}

func (m Model) detailCmd(modelID string) tea.Cmd {
	source := m.source
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		detail, err := source.ModelDetail(ctx, modelID)
		return detailMsg{modelID: modelID, detail: detail, err: err}
	}
}

// startFetch transitions into loading unless a fetch is already in flight;
// concurrent refresh requests are dropped silently, no queueing.
func (m Model) startFetch() (Model, tea.Cmd) {
	if m.state == stateLoading {
		return m, nil
	}
	m.state = stateLoading
	m.fetchSeq++
	return m, m.fetchCmd(m.fetchSeq, m.timeframe, m.sortBy)
}

// forceFetch starts a fetch even while loading, used when the timeframe or
// sort changed and the in-flight response no longer matches; the sequence
// bump makes the superseded response a no-op when it lands.
func (m Model) forceFetch() (Model, tea.Cmd) {
	m.state = stateLoading
	m.fetchSeq++
	return m, m.fetchCmd(m.fetchSeq, m.timeframe, m.sortBy)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case snapshotMsg:
		if msg.seq != m.fetchSeq {
			// Stale response from a superseded fetch.
			return m, nil
		}
		if msg.err != nil {
			m.state = stateError
			m.fetchErr = msg.err.Error()
			return m, nil
		}
		m.state = stateLoaded
		m.fetchErr = ""
		m.snapshot = msg.snapshot
		m.clampCursor()
		return m, nil

	case filterDebounceMsg:
		if msg.seq != m.filterSeq {
			// A newer keystroke restarted the quiet period.
			return m, nil
		}
		m.filter = m.pendingFilter
		m.cursor = 0
		return m, nil

	case detailMsg:
		if msg.modelID != m.detailID {
			return m, nil
		}
		if msg.err != nil {
			m.detail = nil
			return m, nil
		}
		m.detail = msg.detail
		return m, nil

	case refreshTickMsg:
		var cmd tea.Cmd
		m, cmd = m.startFetch()
		return m, tea.Batch(cmd, m.refreshTickCmd())

	case SettingsMsg:
		m.settingsStore.Replace(settings.Settings(msg))
		m.staleThresholdDays = settings.Settings(msg).StaleThresholdDays
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showSettings {
		return m.handleSettingsKey(msg)
	}
	if m.filtering {
		return m.handleFilterKey(msg)
	}
	if msg.String() == "?" {
		m.showHelp = !m.showHelp
		return m, nil
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.mode == modeDetail {
		return m.handleDetailKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visibleRecords())-1 {
			m.cursor++
		}
	case "enter", "right", "l":
		records := m.visibleRecords()
		if m.cursor < len(records) {
			m.mode = modeDetail
			m.detailID = records[m.cursor].ModelID
			m.detail = nil
			return m, m.detailCmd(m.detailID)
		}
	case "/":
		m.filtering = true
		m.pendingFilter = ""
	case "t":
		m.timeframe = nextTimeframe(m.timeframe)
		return wrapModel(m.forceFetch())
	case "s":
		m.sortBy = nextSortBy(m.sortBy)
		return wrapModel(m.forceFetch())
	case "r":
		return wrapModel(m.startFetch())
	case ",", "S":
		m.showSettings = true
		m.settingsInput = ""
	case "esc":
		if m.filter != "" {
			m.filter = ""
			m.pendingFilter = ""
			m.cursor = 0
		}
	}
	return m, nil
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filtering = false
		// Apply immediately; no reason to wait out the quiet period.
		m.filterSeq++
		m.filter = m.pendingFilter
		m.cursor = 0
		return m, nil
	case "esc":
		m.filtering = false
		m.filterSeq++
		m.filter = ""
		m.pendingFilter = ""
		m.cursor = 0
		return m, nil
	case "backspace":
		if len(m.pendingFilter) > 0 {
			m.pendingFilter = m.pendingFilter[:len(m.pendingFilter)-1]
		}
	default:
		if len(msg.String()) == 1 {
			m.pendingFilter += msg.String()
		} else {
			return m, nil
		}
	}

	// Last write wins: each keystroke restarts the 200ms quiet period and
	// invalidates the previously scheduled apply.
	m.filterSeq++
	seq := m.filterSeq
	return m, tea.Tick(filterDebounce, func(time.Time) tea.Msg {
		return filterDebounceMsg{seq: seq}
	})
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "left", "h", "backspace":
		m.mode = modeList
		m.detail = nil
		m.detailID = ""
	case "r":
		if m.detailID != "" {
			return m, m.detailCmd(m.detailID)
		}
	}
	return m, nil
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc", "q", ",", "S":
		m.showSettings = false
		m.settingsInput = ""
	case "enter":
		if days, ok := parseDays(m.settingsInput); ok {
			// Out-of-range values are rejected silently inside the store;
			// reading back keeps the display honest either way.
			m.settingsStore.SetStaleThreshold(days)
		}
		m.staleThresholdDays = m.settingsStore.Current().StaleThresholdDays
		m.showSettings = false
		m.settingsInput = ""
	case "backspace":
		if len(m.settingsInput) > 0 {
			m.settingsInput = m.settingsInput[:len(m.settingsInput)-1]
		}
	default:
		key := msg.String()
		if len(key) == 1 && key[0] >= '0' && key[0] <= '9' && len(m.settingsInput) < 3 {
			m.settingsInput += key
		}
	}
	return m, nil
}

// visibleRecords runs the presentation pipeline's filter stage against the
// held snapshot and flattens the grouped result in render order.
func (m Model) visibleRecords() []core.ModelUsageRecord {
	if m.snapshot == nil {
		return nil
	}
	filtered := core.FilterRecords(m.snapshot.Models, m.filter)
	groups := core.GroupByCategory(filtered)

	var out []core.ModelUsageRecord
	for _, cat := range core.OrderedCategories(groups) {
		out = append(out, groups[cat]...)
	}
	return out
}

func (m *Model) clampCursor() {
	if max := len(m.visibleRecords()) - 1; m.cursor > max {
		if max < 0 {
			max = 0
		}
		m.cursor = max
	}
}

func nextTimeframe(tf core.Timeframe) core.Timeframe {
	switch tf {
	case core.TimeframeAll:
		return core.TimeframeMonth
	case core.TimeframeMonth:
		return core.TimeframeWeek
	default:
		return core.TimeframeAll
	}
}

func nextSortBy(s core.SortBy) core.SortBy {
	switch s {
	case core.SortByLastUsed:
		return core.SortByUsageCount
	case core.SortByUsageCount:
		return core.SortByName
	default:
		return core.SortByLastUsed
	}
}

func parseDays(input string) (int, bool) {
	if input == "" {
		return 0, false
	}
	days := 0
	for _, r := range input {
		if r < '0' || r > '9' {
			return 0, false
		}
		days = days*10 + int(r-'0')
	}
	return days, true
}

func wrapModel(m Model, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	return m, cmd
}
