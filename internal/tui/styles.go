package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/watchfire-io/cursoragents/internal/models"
)

// Colors using AdaptiveColor for light/dark terminal support.
var (
	colorWhite  = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim    = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorRed    = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	colorYellow = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorOrange = lipgloss.AdaptiveColor{Light: "166", Dark: "208"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite).
			Background(lipgloss.AdaptiveColor{Light: "254", Dark: "236"})

	labelStyle   = lipgloss.NewStyle().Foreground(colorDim)
	valueStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	dimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	spinnerStyle = lipgloss.NewStyle().Foreground(colorCyan)

	userRoleStyle      = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	assistantRoleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
)

func statusStyle(status models.AgentStatus) lipgloss.Style {
	switch status {
	case models.AgentStatusCreating:
		return lipgloss.NewStyle().Foreground(colorYellow)
	case models.AgentStatusRunning:
		return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	case models.AgentStatusFinished:
		return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	case models.AgentStatusFailed:
		return lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	case models.AgentStatusStopped:
		return lipgloss.NewStyle().Foreground(colorOrange)
	default:
		return dimStyle
	}
}

func renderStatus(status models.AgentStatus) string {
	if status == "" {
		return dimStyle.Render("● …")
	}
	return statusStyle(status).Render("● " + string(status))
}
