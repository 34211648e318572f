package render

import "github.com/charmbracelet/lipgloss"

var (
	criticalStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	healthyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
)

// colorSeverity renders a severity tag in its associated color when color
// is enabled, and returns the plain tag otherwise.
func colorSeverity(color bool, severity string) string {
	if !color {
		return severity
	}
	switch severity {
	case "Critical":
		return criticalStyle.Render(severity)
	case "Warning":
		return warningStyle.Render(severity)
	default:
		return infoStyle.Render(severity)
	}
}

// colorHealth renders a graph health glyph in its associated color when
// color is enabled.
func colorHealth(color bool, health string) string {
	if !color {
		return health
	}
	switch health {
	case "CRIT":
		return criticalStyle.Render(health)
	case "WARN":
		return warningStyle.Render(health)
	default:
		return healthyStyle.Render(health)
	}
}
