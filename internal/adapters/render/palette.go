package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bft-labs/runlane/internal/domain"
)

var statusColors = map[domain.Status]lipgloss.Color{
	domain.StatusQueued:     lipgloss.Color("#9ca3af"),
	domain.StatusNotStarted: lipgloss.Color("#9ca3af"),
	domain.StatusStarting:   lipgloss.Color("#eab308"),
	domain.StatusStarted:    lipgloss.Color("#3b82f6"),
	domain.StatusCanceling:  lipgloss.Color("#eab308"),
	domain.StatusSucceeded:  lipgloss.Color("#22c55e"),
	domain.StatusFailed:     lipgloss.Color("#ef4444"),
	domain.StatusCanceled:   lipgloss.Color("#6b7280"),
	domain.StatusScheduled:  lipgloss.Color("#a855f7"),
}

// StatusColor returns the palette colour for s.
func StatusColor(s domain.Status) lipgloss.Color {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return lipgloss.Color("#9ca3af")
}

// statusStyle colours foreground text for s.
func statusStyle(s domain.Status) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(StatusColor(s))
}
