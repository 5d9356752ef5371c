package args

import (
	"testing"
	"time"

	"github.com/arthur-debert/typeset/pkg/config"
	"github.com/arthur-debert/typeset/pkg/exitstate"
	"github.com/arthur-debert/typeset/pkg/terminal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := config.Defaults()
	cfg.Packages = config.PackagesConfig{Path: "/pkgs", CachePath: "/cache"}
	return cfg
}

func mustParse(t *testing.T, raw ...string) *Invocation {
	t.Helper()
	t.Setenv(EnvSourceDateEpoch, "")
	inv, err := Parse(raw, testConfig())
	require.NoError(t, err)
	require.NotNil(t, inv)
	return inv
}

func parseError(t *testing.T, raw ...string) *ParseError {
	t.Helper()
	inv, err := Parse(raw, testConfig())
	require.Error(t, err)
	assert.Nil(t, inv)
	perr, ok := err.(*ParseError)
	require.True(t, ok, "expected *ParseError, got %T", err)
	return perr
}

func TestParseCompile(t *testing.T) {
	inv := mustParse(t, "compile", "doc.typ")

	c, ok := inv.Command.(*CompileArgs)
	require.True(t, ok)
	assert.Equal(t, KindCompile, c.Kind())
	assert.Equal(t, "doc.typ", c.Input)
	assert.Empty(t, c.Output)
	assert.Equal(t, FormatPDF, c.Format, "no output hint falls back to the configured format")
	assert.Equal(t, 144.0, c.PPI)
	assert.Equal(t, DiagnosticHuman, c.DiagnosticFormat)
	assert.False(t, c.Open)
	assert.Empty(t, c.Timings)
	assert.Nil(t, c.World.CreationTimestamp)
	assert.Equal(t, "/pkgs", c.World.PackagePath)

	assert.Equal(t, terminal.ColorAuto, inv.Color)
	assert.Equal(t, 0, inv.Verbosity)
	assert.Empty(t, inv.TimingsPath())
}

func TestParseCompileFormat(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want OutputFormat
	}{
		{"inferred from output", []string{"compile", "doc.typ", "out.png"}, ""},
		{"unknown extension uses default", []string{"compile", "doc.typ", "out.bin"}, FormatPDF},
		{"stdout uses default", []string{"compile", "doc.typ", "-"}, FormatPDF},
		{"explicit flag wins", []string{"compile", "doc.typ", "out.png", "--format", "svg"}, FormatSVG},
		{"short flag", []string{"compile", "-f", "html", "doc.typ"}, FormatHTML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := mustParse(t, tt.raw...).Command.(*CompileArgs)
			assert.Equal(t, tt.want, c.Format)
		})
	}
}

func TestParseCompileFlags(t *testing.T) {
	inv := mustParse(t,
		"-vv", "--color", "never",
		"compile", "doc.typ", "page-{p}.png",
		"--pages", "1,3-5",
		"--ppi", "300",
		"--open",
		"--make-deps", "deps.mk",
		"--diagnostic-format", "short",
		"-j", "4",
		"--input", "name=world",
		"--input", "empty=",
		"--font-path", "fonts",
		"--ignore-system-fonts",
		"--root", "/project",
		"--creation-timestamp", "86400",
	)

	assert.Equal(t, 2, inv.Verbosity)
	assert.Equal(t, terminal.ColorNever, inv.Color)

	c := inv.Command.(*CompileArgs)
	assert.Equal(t, "page-{p}.png", c.Output)
	assert.Equal(t, []PageRange{{Start: 1, End: 1}, {Start: 3, End: 5}}, c.Pages)
	assert.Equal(t, 300.0, c.PPI)
	assert.True(t, c.Open)
	assert.Empty(t, c.Viewer)
	assert.Equal(t, "deps.mk", c.MakeDeps)
	assert.Equal(t, DiagnosticShort, c.DiagnosticFormat)
	assert.Equal(t, 4, c.Jobs)
	assert.Equal(t, map[string]string{"name": "world", "empty": ""}, c.World.Inputs)
	assert.Equal(t, []string{"fonts"}, c.World.FontPaths)
	assert.True(t, c.World.IgnoreSystemFonts)
	assert.Equal(t, "/project", c.World.Root)
	require.NotNil(t, c.World.CreationTimestamp)
	assert.Equal(t, int64(86400), c.World.CreationTimestamp.Unix())
	assert.Equal(t, time.UTC, c.World.CreationTimestamp.Location())
}

func TestParseOpenWithViewer(t *testing.T) {
	c := mustParse(t, "compile", "doc.typ", "--open=zathura").Command.(*CompileArgs)
	assert.True(t, c.Open)
	assert.Equal(t, "zathura", c.Viewer)
}

func TestParseTimings(t *testing.T) {
	inv := mustParse(t, "compile", "doc.typ", "--timings")
	assert.Regexp(t, `^record-\d+\.json$`, inv.TimingsPath())

	inv = mustParse(t, "compile", "doc.typ", "--timings=trace.json")
	assert.Equal(t, "trace.json", inv.TimingsPath())

	inv = mustParse(t, "watch", "doc.typ", "--timings=trace.json")
	assert.Equal(t, "trace.json", inv.TimingsPath())
}

func TestParseSourceDateEpoch(t *testing.T) {
	t.Setenv(EnvSourceDateEpoch, "3600")
	inv, err := Parse([]string{"compile", "doc.typ"}, testConfig())
	require.NoError(t, err)

	c := inv.Command.(*CompileArgs)
	require.NotNil(t, c.World.CreationTimestamp)
	assert.Equal(t, int64(3600), c.World.CreationTimestamp.Unix())

	t.Setenv(EnvSourceDateEpoch, "yesterday")
	_, err = Parse([]string{"compile", "doc.typ"}, testConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvSourceDateEpoch)
}

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
	}{
		{"positional selector", []string{"query", "doc.typ", "<intro>"}},
		{"selector flag", []string{"query", "doc.typ", "--selector", "<intro>"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, ok := mustParse(t, tt.raw...).Command.(*QueryArgs)
			require.True(t, ok)
			assert.Equal(t, "doc.typ", q.Input)
			assert.Equal(t, "<intro>", q.Selector)
			assert.Equal(t, SerializeJSON, q.Format)
			assert.Equal(t, "paged", q.Target)
		})
	}

	q := mustParse(t, "query", "doc.typ", "<v>", "--field", "value", "--one", "--format", "yaml", "--pretty").Command.(*QueryArgs)
	assert.Equal(t, "value", q.Field)
	assert.True(t, q.One)
	assert.Equal(t, SerializeYAML, q.Format)
	assert.True(t, q.Pretty)
}

func TestParseInit(t *testing.T) {
	i := mustParse(t, "init").Command.(*InitArgs)
	assert.Equal(t, "default", i.Template)
	assert.Empty(t, i.Dir)
	assert.Equal(t, "/pkgs", i.PackagePath)

	i = mustParse(t, "init", "@preview/thesis:0.1.0", "my-thesis").Command.(*InitArgs)
	assert.Equal(t, "@preview/thesis:0.1.0", i.Template)
	assert.Equal(t, "my-thesis", i.Dir)
}

func TestParseUnsupportedCommandsStillParse(t *testing.T) {
	w := mustParse(t, "watch", "doc.typ", "--port", "3000", "--no-reload").Command.(*WatchArgs)
	assert.Equal(t, KindWatch, w.Kind())
	assert.Equal(t, 3000, w.Port)
	assert.True(t, w.NoReload)
	assert.Equal(t, "doc.typ", w.Compile.Input)

	f := mustParse(t, "fonts", "--variants").Command.(*FontsArgs)
	assert.Equal(t, KindFonts, f.Kind())
	assert.True(t, f.Variants)

	u := mustParse(t, "update", "1.2.0", "--force").Command.(*UpdateArgs)
	assert.Equal(t, KindUpdate, u.Kind())
	assert.Equal(t, "1.2.0", u.Version)
	assert.True(t, u.Force)
}

func TestParseInvalidArguments(t *testing.T) {
	tests := []struct {
		name    string
		raw     []string
		wantErr string
	}{
		{"unknown command", []string{"frobnicate"}, "unknown command"},
		{"unknown flag", []string{"compile", "doc.typ", "--bogus"}, "unknown flag"},
		{"missing input", []string{"compile"}, "arg(s)"},
		{"bad format", []string{"compile", "doc.typ", "--format", "docx"}, "--format"},
		{"bad pages", []string{"compile", "doc.typ", "--pages", "5-3"}, "page export range"},
		{"bad ppi", []string{"compile", "doc.typ", "--ppi", "0"}, "ppi"},
		{"bad diagnostic format", []string{"compile", "doc.typ", "--diagnostic-format", "json"}, "--diagnostic-format"},
		{"input without equals", []string{"compile", "doc.typ", "--input", "name"}, "key and a value"},
		{"input with empty key", []string{"compile", "doc.typ", "--input", "=v"}, "key must not be empty"},
		{"bad color", []string{"--color", "sometimes", "compile", "doc.typ"}, "auto, always, never"},
		{"query without selector", []string{"query", "doc.typ"}, "selector is required"},
		{"query with two selectors", []string{"query", "doc.typ", "<a>", "--selector", "<b>"}, "both"},
		{"query bad format", []string{"query", "doc.typ", "<a>", "--format", "xml"}, "--format"},
		{"update revert with version", []string{"update", "1.0.0", "--revert"}, "--revert"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perr := parseError(t, tt.raw...)
			assert.Equal(t, InvalidArguments, perr.Kind)
			assert.Contains(t, perr.Error(), tt.wantErr)
			assert.NotEmpty(t, perr.Usage)
			assert.Equal(t, exitstate.ExitUsage, perr.ExitCode())
		})
	}
}

func plainTemplates(t *testing.T) {
	t.Helper()
	saved := stdoutIsTerminal
	stdoutIsTerminal = func() bool { return false }
	t.Cleanup(func() { stdoutIsTerminal = saved })
}

func TestParseMissingSubcommand(t *testing.T) {
	plainTemplates(t)

	for _, raw := range [][]string{nil, {}, {"-v"}} {
		perr := parseError(t, raw...)
		assert.Equal(t, MissingArgumentOrSubcommand, perr.Kind)
		assert.Contains(t, perr.Output, "USAGE")
		assert.Contains(t, perr.Output, "compile")
		assert.Equal(t, exitstate.ExitUsage, perr.ExitCode())
	}
}

func TestParseHelpAndVersion(t *testing.T) {
	plainTemplates(t)

	perr := parseError(t, "--help")
	assert.Equal(t, DisplayHelp, perr.Kind)
	assert.Contains(t, perr.Output, MsgRootLong)
	assert.Equal(t, exitstate.ExitSuccess, perr.ExitCode())

	perr = parseError(t, "compile", "--help")
	assert.Equal(t, DisplayHelp, perr.Kind)
	assert.Contains(t, perr.Output, "--timings")

	perr = parseError(t, "help", "query")
	assert.Equal(t, DisplayHelp, perr.Kind)
	assert.Contains(t, perr.Output, "--selector")

	perr = parseError(t, "--version")
	assert.Equal(t, DisplayVersion, perr.Kind)
	assert.Contains(t, perr.Output, "typeset version")
	assert.Equal(t, exitstate.ExitSuccess, perr.ExitCode())
}

func TestParseUsesConfigDefaults(t *testing.T) {
	t.Setenv(EnvSourceDateEpoch, "")
	cfg := testConfig()
	cfg.Color = "always"
	cfg.Compile.PPI = 72
	cfg.Query.Format = "yaml"
	cfg.Fonts.Paths = []string{"/usr/share/myfonts"}

	inv, err := Parse([]string{"compile", "doc.typ"}, cfg)
	require.NoError(t, err)
	assert.Equal(t, terminal.ColorAlways, inv.Color)
	c := inv.Command.(*CompileArgs)
	assert.Equal(t, 72.0, c.PPI)
	assert.Equal(t, []string{"/usr/share/myfonts"}, c.World.FontPaths)

	inv, err = Parse([]string{"query", "doc.typ", "<a>"}, cfg)
	require.NoError(t, err)
	assert.Equal(t, SerializeYAML, inv.Command.(*QueryArgs).Format)
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatPNG, FormatForPath("a/b/out.PNG"))
	assert.Equal(t, FormatSVG, FormatForPath("out-{p}.svg"))
	assert.Equal(t, OutputFormat(""), FormatForPath("-"))
	assert.Equal(t, OutputFormat(""), FormatForPath(""))
	assert.Equal(t, OutputFormat(""), FormatForPath("out.typ"))
}

func TestNewRootCmdListsEveryCommand(t *testing.T) {
	root := NewRootCmd(nil)
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"compile", "watch", "init", "query", "fonts", "update", "completion"})
}
