package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha palette.
var (
	colorBase     = lipgloss.Color("#1E1E2E")
	colorSurface0 = lipgloss.Color("#313244")
	colorSurface1 = lipgloss.Color("#45475A")
	colorText     = lipgloss.Color("#CDD6F4")
	colorSubtext  = lipgloss.Color("#A6ADC8")
	colorDim      = lipgloss.Color("#585B70")

	colorAccent    = lipgloss.Color("#CBA6F7") // mauve – primary accent
	colorBlue      = lipgloss.Color("#89B4FA") // category headers
	colorSapphire  = lipgloss.Color("#74C7EC") // key hints
	colorGreen     = lipgloss.Color("#A6E3A1") // fresh models
	colorYellow    = lipgloss.Color("#F9E2AF") // stale badge
	colorRed       = lipgloss.Color("#F38BA8") // errors
	colorLavender  = lipgloss.Color("#B4BEFE") // titles
	colorRosewater = lipgloss.Color("#F5E0DC")
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorLavender)

	headerBrandStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorAccent)

	categoryHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorBlue)

	categoryTotalStyle = lipgloss.NewStyle().
				Foreground(colorDim)

	rowStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	rowSelectedStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Background(colorSurface0)

	modelNameStyle = lipgloss.NewStyle().
			Foreground(colorText)

	countStyle = lipgloss.NewStyle().
			Foreground(colorRosewater).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorSubtext)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	staleBadgeStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Bold(true)

	freshTimeStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorSapphire).
			Bold(true)

	filterPromptStyle = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Background(colorBase).
			Padding(1, 2)

	modalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorLavender)
)
