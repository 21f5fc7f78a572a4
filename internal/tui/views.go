package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/modelpulse/modelpulse/internal/core"
)

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var body string
	switch {
	case m.showSettings:
		body = m.renderSettingsModal()
	case m.showHelp:
		body = m.renderHelp()
	case m.mode == modeDetail:
		body = m.renderDetail()
	default:
		body = m.renderList()
	}

	var sb strings.Builder
	sb.WriteString(m.renderHeader())
	sb.WriteString("\n\n")
	sb.WriteString(body)
	sb.WriteString("\n")
	sb.WriteString(m.renderFooter())
	return sb.String()
}

func (m Model) renderHeader() string {
	brand := headerBrandStyle.Render("ModelPulse")
	tf := labelStyle.Render(m.timeframe.Label())
	sortLbl := labelStyle.Render("sort: " + m.sortBy.Label())

	status := ""
	if m.state == stateLoading {
		status = dimStyle.Render("refreshing…")
	}

	left := fmt.Sprintf(" %s  %s  %s", brand, tf, sortLbl)
	if status != "" {
		left += "  " + status
	}

	line := left
	if m.filtering {
		line += "\n " + filterPromptStyle.Render("/") + m.pendingFilter + dimStyle.Render("▎")
	} else if m.filter != "" {
		line += "\n " + filterPromptStyle.Render("/") + m.filter + dimStyle.Render("  (esc to clear)")
	}
	return line
}

func (m Model) renderList() string {
	// A failed refresh keeps the last good snapshot on screen; the full
	// banner appears only when there is nothing older to show.
	if m.state == stateError && m.snapshot == nil {
		return "\n " + errorStyle.Render("Could not reach the usage server") + "\n " +
			dimStyle.Render(m.fetchErr) + "\n\n " +
			helpStyle.Render("press ") + helpKeyStyle.Render("r") + helpStyle.Render(" to retry")
	}
	if m.snapshot == nil {
		return "\n " + dimStyle.Render("Loading usage data…")
	}

	prefix := ""
	if m.state == stateError {
		prefix = " " + errorStyle.Render("Refresh failed: ") + dimStyle.Render(m.fetchErr) + "\n\n"
	}

	filtered := core.FilterRecords(m.snapshot.Models, m.filter)
	if len(filtered) == 0 {
		if strings.TrimSpace(m.filter) != "" {
			return "\n" + prefix + " " + dimStyle.Render(fmt.Sprintf("No matches for %q", m.filter))
		}
		return "\n" + prefix + " " + dimStyle.Render("No usage recorded yet.") + "\n " +
			dimStyle.Render("Run a workflow and model loads will show up here.")
	}

	groups := core.GroupByCategory(filtered)

	var sb strings.Builder
	sb.WriteString(prefix)
	row := 0
	for _, cat := range core.OrderedCategories(groups) {
		records := groups[cat]
		meta := core.MetaForCategory(cat)
		total := core.GroupTotal(records)

		header := categoryHeaderStyle.Render(fmt.Sprintf("%s %s", meta.Icon, meta.DisplayName))
		sb.WriteString(fmt.Sprintf(" %s %s\n", header,
			categoryTotalStyle.Render(fmt.Sprintf("(%d)", total))))

		for _, rec := range records {
			sb.WriteString(m.renderRow(rec, row == m.cursor))
			sb.WriteString("\n")
			row++
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m Model) renderRow(rec core.ModelUsageRecord, selected bool) string {
	count, countLabel := core.DisplayCount(rec, m.timeframe)

	nameW := m.width - 40
	if nameW < 16 {
		nameW = 16
	}
	name := ansi.Truncate(rec.Name, nameW, "…")

	last := core.FormatLastUsed(rec.LastUsed, m.now())
	lastRendered := freshTimeStyle.Render(last)
	if core.IsStale(rec.LastUsed, m.staleThresholdDays, m.now()) {
		lastRendered = staleBadgeStyle.Render(last + " ●")
	}

	line := fmt.Sprintf("%s  %s %s  %s",
		modelNameStyle.Width(nameW).Render(name),
		countStyle.Render(fmt.Sprintf("%d", count)),
		labelStyle.Render(countLabel),
		lastRendered)

	if selected {
		return rowSelectedStyle.Render("▸ " + line)
	}
	return rowStyle.Render("  " + line)
}

func (m Model) renderDetail() string {
	if m.detail == nil {
		return "\n " + dimStyle.Render("Loading model detail…")
	}

	d := m.detail
	meta := core.MetaForCategory(d.Category)

	var sb strings.Builder
	sb.WriteString(" " + headerStyle.Render(d.Name) + "\n")
	sb.WriteString(" " + labelStyle.Render(fmt.Sprintf("%s %s", meta.Icon, meta.DisplayName)) + "\n\n")

	sb.WriteString(fmt.Sprintf(" %s %s\n",
		labelStyle.Render("Total uses:"),
		countStyle.Render(fmt.Sprintf("%d", d.UsageCount))))
	sb.WriteString(fmt.Sprintf(" %s %s\n",
		labelStyle.Render("First used:"),
		modelNameStyle.Render(core.FormatLastUsed(d.FirstUsed, m.now()))))
	sb.WriteString(fmt.Sprintf(" %s %s\n",
		labelStyle.Render("Last used: "),
		modelNameStyle.Render(core.FormatLastUsed(d.LastUsed, m.now()))))

	if len(d.UsageLog) > 0 {
		values := make([]float64, len(d.UsageLog))
		for i, day := range d.UsageLog {
			values[i] = float64(day.Count)
		}
		sparkW := m.width - 6
		if sparkW > 60 {
			sparkW = 60
		}
		sb.WriteString("\n " + labelStyle.Render("Daily activity") + "\n")
		sb.WriteString(" " + renderSparkline(values, sparkW, colorAccent) + "\n")
		sb.WriteString(" " + dimStyle.Render(fmt.Sprintf("%s … %s",
			d.UsageLog[0].Date, d.UsageLog[len(d.UsageLog)-1].Date)) + "\n")
	}

	return sb.String()
}

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

func renderSparkline(values []float64, w int, color lipgloss.Color) string {
	if len(values) == 0 || w < 1 {
		return ""
	}

	if len(values) > w {
		step := float64(len(values)) / float64(w)
		sampled := make([]float64, w)
		for i := 0; i < w; i++ {
			idx := int(float64(i) * step)
			if idx >= len(values) {
				idx = len(values) - 1
			}
			sampled[i] = values[idx]
		}
		values = sampled
	}

	minV, maxV := values[0], values[0]
	for _, v := range values {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	rng := maxV - minV
	if rng == 0 {
		rng = 1
	}

	var sb strings.Builder
	for _, v := range values {
		idx := int((v - minV) / rng * float64(len(sparkBlocks)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkBlocks) {
			idx = len(sparkBlocks) - 1
		}
		sb.WriteRune(sparkBlocks[idx])
	}

	return lipgloss.NewStyle().Foreground(color).Render(sb.String())
}

func (m Model) renderSettingsModal() string {
	input := m.settingsInput
	if input == "" {
		input = dimStyle.Render(fmt.Sprintf("%d", m.staleThresholdDays))
	}

	content := modalTitleStyle.Render("Settings") + "\n\n" +
		labelStyle.Render("Stale after (days, 1-365): ") + input + dimStyle.Render("▎") + "\n\n" +
		helpStyle.Render("enter save · esc cancel")

	modal := modalStyle.Render(content)
	return lipgloss.Place(m.width, m.height-4, lipgloss.Center, lipgloss.Center, modal)
}

func (m Model) renderHelp() string {
	rows := [][2]string{
		{"↑/k ↓/j", "move selection"},
		{"enter", "model detail"},
		{"/", "search models"},
		{"t", "cycle timeframe"},
		{"s", "cycle sort"},
		{"r", "refresh"},
		{",", "settings"},
		{"esc", "back / clear search"},
		{"q", "quit"},
	}

	var sb strings.Builder
	sb.WriteString(" " + modalTitleStyle.Render("Keys") + "\n\n")
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("  %s  %s\n",
			helpKeyStyle.Width(10).Render(r[0]),
			helpStyle.Render(r[1])))
	}
	return sb.String()
}

func (m Model) renderFooter() string {
	parts := []string{
		helpKeyStyle.Render("/") + helpStyle.Render(" search"),
		helpKeyStyle.Render("t") + helpStyle.Render(" "+m.timeframe.Label()),
		helpKeyStyle.Render("s") + helpStyle.Render(" sort"),
		helpKeyStyle.Render("r") + helpStyle.Render(" refresh"),
		helpKeyStyle.Render("?") + helpStyle.Render(" help"),
		helpKeyStyle.Render("q") + helpStyle.Render(" quit"),
	}
	return " " + strings.Join(parts, helpStyle.Render("  ·  "))
}
