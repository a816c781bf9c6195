package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/watchfire-io/cursoragents/internal/models"
)

// Adaptive colors matching the TUI palette.
var (
	colorWhite  = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim    = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorRed    = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	colorYellow = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorOrange = lipgloss.AdaptiveColor{Light: "166", Dark: "208"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
)

// Semantic styles for CLI output.
var (
	styleBrand   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleVersion = lipgloss.NewStyle().Foreground(colorGreen)
	styleLabel   = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	styleError   = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	styleHint    = lipgloss.NewStyle().Foreground(colorDim)
	styleCommand = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	styleHeading = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
)

// Agent status badge styles.
var (
	badgeCreating = lipgloss.NewStyle().Foreground(colorYellow)
	badgeRunning  = lipgloss.NewStyle().Foreground(colorCyan)
	badgeFinished = lipgloss.NewStyle().Foreground(colorGreen)
	badgeFailed   = lipgloss.NewStyle().Foreground(colorRed)
	badgeStopped  = lipgloss.NewStyle().Foreground(colorOrange)
	badgeUnknown  = lipgloss.NewStyle().Foreground(colorDim)
)

// statusBadge renders a status with its icon and color.
func statusBadge(status models.AgentStatus) string {
	icon, style := statusIcon(status)
	return style.Render(icon + " " + string(status))
}

func statusIcon(status models.AgentStatus) (string, lipgloss.Style) {
	switch status {
	case models.AgentStatusCreating:
		return "⏳", badgeCreating
	case models.AgentStatusRunning:
		return "🔄", badgeRunning
	case models.AgentStatusFinished:
		return "✅", badgeFinished
	case models.AgentStatusFailed:
		return "❌", badgeFailed
	case models.AgentStatusStopped:
		return "⏸️", badgeStopped
	default:
		return "•", badgeUnknown
	}
}
