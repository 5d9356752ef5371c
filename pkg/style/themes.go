package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette. Each color adapts to the terminal background.
var (
	PrimaryColor = lipgloss.AdaptiveColor{Light: "#1D6FA5", Dark: "#5FB0E8"}
	SuccessColor = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#66BB6A"}
	ErrorColor   = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#EF5350"}
	WarningColor = lipgloss.AdaptiveColor{Light: "#B26A00", Dark: "#FFB74D"}
	HintColor    = lipgloss.AdaptiveColor{Light: "#00838F", Dark: "#4DD0E1"}
	HeadingColor = lipgloss.AdaptiveColor{Light: "#1B1B1B", Dark: "#F5F5F5"}
	MutedColor   = lipgloss.AdaptiveColor{Light: "#757575", Dark: "#9E9E9E"}
)
