package args

import (
	"time"

	"github.com/arthur-debert/typeset/pkg/terminal"
)

// CommandKind names a command variant
type CommandKind string

const (
	KindCompile CommandKind = "compile"
	KindWatch   CommandKind = "watch"
	KindInit    CommandKind = "init"
	KindQuery   CommandKind = "query"
	KindFonts   CommandKind = "fonts"
	KindUpdate  CommandKind = "update"
)

// Command is the closed set of operations. The only implementations are the
// *XxxArgs types of this package.
type Command interface {
	Kind() CommandKind
	isCommand()
}

// Invocation is the parsed command line. It is never modified after Parse
// returns it.
type Invocation struct {
	Command   Command
	Color     terminal.ColorChoice
	Cert      string
	Verbosity int
}

// OutputFormat is a compile target format
type OutputFormat string

const (
	FormatPDF  OutputFormat = "pdf"
	FormatPNG  OutputFormat = "png"
	FormatSVG  OutputFormat = "svg"
	FormatHTML OutputFormat = "html"
)

// OutputFormats lists the accepted --format values for compile and watch
var OutputFormats = []string{string(FormatPDF), string(FormatPNG), string(FormatSVG), string(FormatHTML)}

// DiagnosticFormat selects how the compile collaborator prints diagnostics
type DiagnosticFormat string

const (
	DiagnosticHuman DiagnosticFormat = "human"
	DiagnosticShort DiagnosticFormat = "short"
)

// SerializationFormat is the query output format
type SerializationFormat string

const (
	SerializeJSON SerializationFormat = "json"
	SerializeYAML SerializationFormat = "yaml"
)

// WorldArgs configures the environment a document is compiled in
type WorldArgs struct {
	Root              string
	Inputs            map[string]string
	FontPaths         []string
	IgnoreSystemFonts bool
	PackagePath       string
	PackageCachePath  string
	// CreationTimestamp is nil when the document date should be "now"
	CreationTimestamp *time.Time
}

// CompileArgs are the arguments of the compile command
type CompileArgs struct {
	// Input is a path, or "-" for stdin
	Input string
	// Output is a path, "-" for stdout, or empty to derive it from Input.
	// It may contain {p}, {0p} and {t} page templates.
	Output string
	// Format is empty when it should be inferred from Output
	Format           OutputFormat
	Pages            []PageRange
	PPI              float64
	Open             bool
	Viewer           string
	Timings          string
	MakeDeps         string
	DiagnosticFormat DiagnosticFormat
	Jobs             int
	World            WorldArgs
}

// WatchArgs are the arguments of the watch command
type WatchArgs struct {
	Compile  CompileArgs
	NoServe  bool
	NoReload bool
	Port     int
}

// InitArgs are the arguments of the init command
type InitArgs struct {
	// Template is a builtin name or a "@namespace/name:version" package spec
	Template         string
	Dir              string
	PackagePath      string
	PackageCachePath string
}

// QueryArgs are the arguments of the query command
type QueryArgs struct {
	Input    string
	Selector string
	Field    string
	One      bool
	Format   SerializationFormat
	Pretty   bool
	Target   string
	World    WorldArgs
}

// FontsArgs are the arguments of the fonts command
type FontsArgs struct {
	FontPaths         []string
	IgnoreSystemFonts bool
	Variants          bool
}

// UpdateArgs are the arguments of the update command
type UpdateArgs struct {
	Version string
	Force   bool
	Revert  bool
	Backup  string
}

func (*CompileArgs) Kind() CommandKind { return KindCompile }
func (*WatchArgs) Kind() CommandKind   { return KindWatch }
func (*InitArgs) Kind() CommandKind    { return KindInit }
func (*QueryArgs) Kind() CommandKind   { return KindQuery }
func (*FontsArgs) Kind() CommandKind   { return KindFonts }
func (*UpdateArgs) Kind() CommandKind  { return KindUpdate }

func (*CompileArgs) isCommand() {}
func (*WatchArgs) isCommand()   {}
func (*InitArgs) isCommand()    {}
func (*QueryArgs) isCommand()   {}
func (*FontsArgs) isCommand()   {}
func (*UpdateArgs) isCommand()  {}

// TimingsPath returns the trace output path for commands that record
// timings, or "" when timings are off.
func (inv *Invocation) TimingsPath() string {
	switch cmd := inv.Command.(type) {
	case *CompileArgs:
		return cmd.Timings
	case *WatchArgs:
		return cmd.Compile.Timings
	}
	return ""
}
