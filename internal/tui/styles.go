package tui

import (
	"github.com/charmbracelet/lipgloss"

	"pointmap/internal/config"
)

var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	borderCol = lipgloss.Color("#243141")
	errorFg   = lipgloss.Color("#EF4444")
	gridFg    = lipgloss.Color("#1F2937")
)

type styles struct {
	app    lipgloss.Style
	box    lipgloss.Style
	title  lipgloss.Style
	dim    lipgloss.Style
	err    lipgloss.Style
	grid   lipgloss.Style
	marker lipgloss.Style
	label  lipgloss.Style
	hover  lipgloss.Style
}

func newStyles(st config.Style) styles {
	marker := lipgloss.Color(st.MarkerColor)
	return styles{
		app:    lipgloss.NewStyle().Foreground(baseFg),
		box:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1),
		title:  lipgloss.NewStyle().Foreground(accentFg).Bold(true),
		dim:    lipgloss.NewStyle().Foreground(baseDimFg),
		err:    lipgloss.NewStyle().Foreground(errorFg).Bold(true),
		grid:   lipgloss.NewStyle().Foreground(gridFg),
		marker: lipgloss.NewStyle().Foreground(marker),
		label:  lipgloss.NewStyle().Foreground(lipgloss.Color(st.LabelColor)),
		hover:  lipgloss.NewStyle().Foreground(marker).Bold(true),
	}
}
