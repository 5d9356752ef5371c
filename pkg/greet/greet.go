// Package greet prints the welcome banner shown when typeset is run without
// a subcommand for the first time.
package greet

import (
	_ "embed"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/typeset/internal/version"
	"github.com/arthur-debert/typeset/pkg/filesystem"
	"github.com/arthur-debert/typeset/pkg/logging"
	"github.com/arthur-debert/typeset/pkg/paths"
	"github.com/mattn/go-isatty"
)

//go:embed greeting.md
var greetingMarkdown string

// Greeter prints the banner once per user, tracked by a marker file
type Greeter struct {
	out      io.Writer
	fs       filesystem.FS
	marker   string
	renderer Renderer
}

// Option customizes a Greeter
type Option func(*Greeter)

// WithFS stores the marker through fsys
func WithFS(fsys filesystem.FS) Option {
	return func(g *Greeter) { g.fs = fsys }
}

// WithMarker overrides the marker file path
func WithMarker(path string) Option {
	return func(g *Greeter) { g.marker = path }
}

// WithRenderer overrides the markdown renderer
func WithRenderer(r Renderer) Option {
	return func(g *Greeter) { g.renderer = r }
}

// New returns a greeter writing to out. Markdown is rendered with glamour
// when out is a terminal and printed raw otherwise.
func New(out io.Writer, opts ...Option) *Greeter {
	g := &Greeter{
		out:    out,
		fs:     filesystem.NewOS(),
		marker: paths.New().GreetingMarkerFile(),
	}
	if isTerminal(out) {
		g.renderer = NewGlamourRenderer()
	} else {
		g.renderer = PlainRenderer{}
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Stdout returns the greeter used by the binary
func Stdout() *Greeter {
	return New(os.Stdout)
}

// Greet prints the banner unless it was shown before and reports whether
// it printed. Marker failures are logged and never stop the greeting.
func (g *Greeter) Greet() bool {
	logger := logging.GetLogger("greet")

	if g.seen() {
		return false
	}

	text := g.renderer.Render(Markdown())
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if _, err := io.WriteString(g.out, text+"\n"); err != nil {
		logger.Debug().Err(err).Msg("Failed to print greeting")
		return false
	}

	if err := g.fs.MkdirAll(filepath.Dir(g.marker), 0755); err != nil {
		logger.Debug().Err(err).Str("marker", g.marker).Msg("Cannot create greeting marker directory")
		return true
	}
	if err := g.fs.WriteFile(g.marker, []byte(version.Version+"\n"), 0644); err != nil {
		logger.Debug().Err(err).Str("marker", g.marker).Msg("Cannot write greeting marker")
	}
	return true
}

// seen reports whether the marker records the running version. A marker
// left by another version shows the banner again.
func (g *Greeter) seen() bool {
	data, err := g.fs.ReadFile(g.marker)
	if err != nil {
		if !os.IsNotExist(err) {
			logger := logging.GetLogger("greet")
			logger.Debug().Err(err).Str("marker", g.marker).Msg("Cannot read greeting marker")
		}
		return false
	}
	return strings.TrimSpace(string(data)) == version.Version
}

// Markdown is the raw banner text
func Markdown() string {
	return greetingMarkdown
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
