package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Color palette
	colorPrimary = lipgloss.Color("#FF9933") // Saffron
	colorAccent  = lipgloss.Color("#FFD75F") // Marigold
	colorGood    = lipgloss.Color("#6BCF7F") // Green for auspicious windows
	colorBad     = lipgloss.Color("#FF6B6B") // Red for inauspicious windows
	colorMuted   = lipgloss.Color("#6C757D") // Gray
	colorBorder  = lipgloss.Color("#B8860B") // Dark goldenrod

	// Title styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	// Pane styles
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2).
			MarginRight(1)

	// Content styles
	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	goodStyle = lipgloss.NewStyle().
			Foreground(colorGood)

	badStyle = lipgloss.NewStyle().
			Foreground(colorBad)

	// Help text style
	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(1, 0)

	// Utility styles
	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorBad).
			Bold(true)
)
