package style

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func newRenderer(profile termenv.Profile) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(&bytes.Buffer{})
	r.SetColorProfile(profile)
	return r
}

func TestSetContainsAllStyles(t *testing.T) {
	set := NewSet(newRenderer(termenv.TrueColor))

	for _, name := range []string{Error, Warning, Hint, Success, Header, Muted, Bold, Path} {
		t.Run(name, func(t *testing.T) {
			_, ok := set.registry[name]
			assert.True(t, ok, "style %s should exist", name)
		})
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name      string
		profile   termenv.Profile
		style     string
		wantPlain bool
	}{
		{"ascii profile strips styling", termenv.Ascii, Error, true},
		{"truecolor adds escape codes", termenv.TrueColor, Error, false},
		{"unknown style is plain", termenv.TrueColor, "Nope", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := NewSet(newRenderer(tt.profile))
			got := set.Render(tt.style, "error")

			assert.Contains(t, got, "error")
			if tt.wantPlain {
				assert.Equal(t, "error", got)
			} else {
				assert.Contains(t, got, "\x1b[")
			}
		})
	}
}
