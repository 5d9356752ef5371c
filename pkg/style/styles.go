// Package style defines the visual styling for typeset's terminal output.
//
// Styles are bound to a lipgloss renderer so that the color profile of the
// actual output stream (or an explicit --color choice) decides whether any
// escape codes are emitted.
package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Names of the styles in a Set, usable with Set.Get
const (
	Error   = "Error"
	Warning = "Warning"
	Hint    = "Hint"
	Success = "Success"
	Header  = "Header"
	Muted   = "Muted"
	Bold    = "Bold"
	Path    = "Path"
)

// Set is the collection of semantic styles rendered through one renderer
type Set struct {
	registry map[string]lipgloss.Style
	renderer *lipgloss.Renderer
}

// NewSet builds every style on the given renderer
func NewSet(r *lipgloss.Renderer) *Set {
	return &Set{
		renderer: r,
		registry: map[string]lipgloss.Style{
			Error: r.NewStyle().
				Foreground(ErrorColor).
				Bold(true),
			Warning: r.NewStyle().
				Foreground(WarningColor).
				Bold(true),
			Hint: r.NewStyle().
				Foreground(HintColor).
				Bold(true),
			Success: r.NewStyle().
				Foreground(SuccessColor).
				Bold(true),
			Header: r.NewStyle().
				Foreground(HeadingColor).
				Bold(true),
			Muted: r.NewStyle().
				Foreground(MutedColor),
			Bold: r.NewStyle().
				Bold(true),
			Path: r.NewStyle().
				Foreground(PrimaryColor).
				Italic(true),
		},
	}
}

// Get returns the named style, or a plain style for unknown names
func (s *Set) Get(name string) lipgloss.Style {
	if st, ok := s.registry[name]; ok {
		return st
	}
	return s.renderer.NewStyle()
}

// Render applies the named style to text
func (s *Set) Render(name, text string) string {
	return s.Get(name).Render(text)
}
