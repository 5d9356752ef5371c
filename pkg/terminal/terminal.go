// Package terminal is the color-capable output stream used for user-facing
// messages. Writers acquire a handle, write (optionally styled) text and
// release it; the handle holds the stream's lock in between so concurrent
// messages never interleave.
package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/arthur-debert/typeset/pkg/style"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// ColorChoice is the value of the --color flag
type ColorChoice string

const (
	ColorAuto   ColorChoice = "auto"
	ColorAlways ColorChoice = "always"
	ColorNever  ColorChoice = "never"
)

// ColorChoices lists the accepted --color values
var ColorChoices = []string{string(ColorAuto), string(ColorAlways), string(ColorNever)}

// ParseColorChoice validates a --color value
func ParseColorChoice(s string) (ColorChoice, error) {
	switch c := ColorChoice(strings.ToLower(s)); c {
	case ColorAuto, ColorAlways, ColorNever:
		return c, nil
	}
	return "", fmt.Errorf("invalid color choice %q (expected one of %s)", s, strings.Join(ColorChoices, ", "))
}

// Terminal wraps one output stream
type Terminal struct {
	mu       sync.Mutex
	w        io.Writer
	renderer *lipgloss.Renderer
	styles   *style.Set
}

// New creates a terminal over w. The color profile follows choice; with
// ColorAuto, colors are used only for a tty and only when NO_COLOR is unset.
func New(w io.Writer, choice ColorChoice) *Terminal {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profileFor(w, choice))

	return &Terminal{
		w:        w,
		renderer: r,
		styles:   style.NewSet(r),
	}
}

// Stderr is the stream diagnostics go to
func Stderr(choice ColorChoice) *Terminal {
	return New(os.Stderr, choice)
}

// Stdout is the stream regular output goes to
func Stdout(choice ColorChoice) *Terminal {
	return New(os.Stdout, choice)
}

// Styles returns the style set bound to this terminal's color profile
func (t *Terminal) Styles() *style.Set {
	return t.styles
}

// Colored reports whether escape codes will be emitted
func (t *Terminal) Colored() bool {
	return t.renderer.ColorProfile() != termenv.Ascii
}

// Acquire locks the stream and returns a handle. Release must be called
// exactly once, typically deferred right after Acquire.
func (t *Terminal) Acquire() *Output {
	t.mu.Lock()
	return &Output{t: t}
}

func profileFor(w io.Writer, choice ColorChoice) termenv.Profile {
	switch choice {
	case ColorNever:
		return termenv.Ascii
	case ColorAlways:
		return termenv.ANSI
	}

	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	f, ok := w.(*os.File)
	if !ok || (!isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())) {
		return termenv.Ascii
	}
	if p := termenv.NewOutput(w).EnvColorProfile(); p != termenv.Ascii {
		return p
	}
	return termenv.ANSI
}

// Output is a locked handle on a Terminal
type Output struct {
	t        *Terminal
	current  *lipgloss.Style
	released bool
}

// SetStyle makes subsequent writes render in the named style until Reset
func (o *Output) SetStyle(name string) {
	st := o.t.styles.Get(name)
	o.current = &st
}

// Reset returns to unstyled output
func (o *Output) Reset() {
	o.current = nil
}

// Write implements io.Writer
func (o *Output) Write(p []byte) (int, error) {
	if o.released {
		return 0, fmt.Errorf("write to released terminal output")
	}
	if o.current == nil {
		return o.t.w.Write(p)
	}
	if _, err := io.WriteString(o.t.w, o.current.Render(string(p))); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Release unlocks the stream. Calling it twice is a no-op.
func (o *Output) Release() {
	if o.released {
		return
	}
	o.released = true
	o.current = nil
	o.t.mu.Unlock()
}
