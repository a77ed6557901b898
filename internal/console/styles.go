package console

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#06B6D4") // Cyan
	colorAccent  = lipgloss.Color("#F59E0B") // Amber
	colorSuccess = lipgloss.Color("#10B981") // Emerald
	colorError   = lipgloss.Color("#EF4444") // Red
	colorMuted   = lipgloss.Color("#94A3B8") // Slate 400
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true).
			Padding(0, 1)

	menuPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(1, 4)

	menuKeyStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	tablePanelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorMuted)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)
