package args

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/arthur-debert/typeset/internal/version"
	"github.com/arthur-debert/typeset/pkg/config"
	"github.com/arthur-debert/typeset/pkg/terminal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// DefaultViewer is the --open value meaning "the system viewer"
const DefaultViewer = "default"

// DefaultTimingsPath is used when --timings is given without a path. {t} is
// replaced by the current UNIX time.
const DefaultTimingsPath = "record-{t}.json"

// EnvSourceDateEpoch provides the default creation timestamp
const EnvSourceDateEpoch = "SOURCE_DATE_EPOCH"

var errMissingCommand = errors.New(MsgErrMissingCommand)

// parser owns one cobra tree and the Invocation its commands fill in
type parser struct {
	cfg  *config.Config
	root *cobra.Command
	now  func() time.Time

	color     string
	cert      string
	verbosity int

	command Command
}

// Parse turns the raw arguments (without the program name) into an
// Invocation. Every outcome other than a runnable command, including help
// and version requests, is reported as a *ParseError.
func Parse(raw []string, cfg *config.Config) (*Invocation, error) {
	if cfg == nil {
		cfg = config.Defaults()
	}
	if raw == nil {
		// cobra falls back to os.Args for nil
		raw = []string{}
	}

	p := newParser(cfg)
	var out bytes.Buffer
	p.root.SetArgs(raw)
	p.root.SetOut(&out)
	p.root.SetErr(&out)

	cmd, err := p.root.ExecuteC()
	switch {
	case errors.Is(err, errMissingCommand):
		out.Reset()
		_ = p.root.Help()
		return nil, &ParseError{Kind: MissingArgumentOrSubcommand, Err: err, Output: out.String()}
	case err != nil:
		return nil, &ParseError{Kind: InvalidArguments, Err: err, Usage: usageOf(cmd)}
	case p.command == nil:
		kind := DisplayHelp
		if flag := p.root.Flags().Lookup("version"); flag != nil && flag.Changed {
			kind = DisplayVersion
		}
		return nil, &ParseError{Kind: kind, Output: out.String()}
	}

	color, err := terminal.ParseColorChoice(p.color)
	if err != nil {
		return nil, &ParseError{Kind: InvalidArguments, Err: err, Usage: usageOf(p.root)}
	}

	return &Invocation{
		Command:   p.command,
		Color:     color,
		Cert:      p.cert,
		Verbosity: p.verbosity,
	}, nil
}

// NewRootCmd builds the full command tree with defaults taken from cfg.
// Running it only records the parsed command; it is exported for
// documentation generators.
func NewRootCmd(cfg *config.Config) *cobra.Command {
	if cfg == nil {
		cfg = config.Defaults()
	}
	return newParser(cfg).root
}

func usageOf(cmd *cobra.Command) string {
	if cmd == nil {
		return ""
	}
	return cmd.UsageString()
}

func newParser(cfg *config.Config) *parser {
	p := &parser{cfg: cfg, now: time.Now}

	p.root = &cobra.Command{
		Use:     "typeset",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return errMissingCommand
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	p.root.CompletionOptions.DisableDefaultCmd = true
	p.root.SetUsageTemplate(MsgUsageTemplate)

	flags := p.root.PersistentFlags()
	flags.StringVar(&p.color, "color", cfg.Color, MsgFlagColor)
	flags.StringVar(&p.cert, "cert", cfg.Cert, MsgFlagCert)
	flags.CountVarP(&p.verbosity, "verbose", "v", MsgFlagVerbose)

	p.root.AddCommand(
		p.compileCmd(),
		p.watchCmd(),
		p.initCmd(),
		p.queryCmd(),
		p.fontsCmd(),
		p.updateCmd(),
		p.completionCmd(),
	)
	return p
}

func (p *parser) compileCmd() *cobra.Command {
	f := &compileFlags{}
	cmd := &cobra.Command{
		Use:     "compile <input> [output]",
		Aliases: []string{"c"},
		Short:   MsgCompileShort,
		Long:    MsgCompileLong,
		Example: MsgCompileExample,
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			compile, err := f.build(cmd.Flags(), args, p.now)
			if err != nil {
				return err
			}
			p.command = compile
			return nil
		},
	}
	f.bind(cmd.Flags(), p.cfg)
	return cmd
}

func (p *parser) watchCmd() *cobra.Command {
	f := &compileFlags{}
	var noServe, noReload bool
	var port int
	cmd := &cobra.Command{
		Use:     "watch <input> [output]",
		Aliases: []string{"w"},
		Short:   MsgWatchShort,
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			compile, err := f.build(cmd.Flags(), args, p.now)
			if err != nil {
				return err
			}
			p.command = &WatchArgs{
				Compile:  *compile,
				NoServe:  noServe,
				NoReload: noReload,
				Port:     port,
			}
			return nil
		},
	}
	f.bind(cmd.Flags(), p.cfg)
	cmd.Flags().BoolVar(&noServe, "no-serve", false, MsgFlagNoServe)
	cmd.Flags().BoolVar(&noReload, "no-reload", false, MsgFlagNoReload)
	cmd.Flags().IntVar(&port, "port", 0, MsgFlagPort)
	return cmd
}

func (p *parser) initCmd() *cobra.Command {
	initArgs := &InitArgs{}
	cmd := &cobra.Command{
		Use:   "init [template] [dir]",
		Short: MsgInitShort,
		Long:  MsgInitLong,
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				initArgs.Template = args[0]
			}
			if len(args) > 1 {
				initArgs.Dir = args[1]
			}
			p.command = initArgs
			return nil
		},
	}
	initArgs.Template = p.cfg.Init.Template
	cmd.Flags().StringVar(&initArgs.PackagePath, "package-path", p.cfg.Packages.Path, MsgFlagPackagePath)
	cmd.Flags().StringVar(&initArgs.PackageCachePath, "package-cache-path", p.cfg.Packages.CachePath, MsgFlagPackageCachePath)
	return cmd
}

func (p *parser) queryCmd() *cobra.Command {
	world := &worldFlags{}
	query := &QueryArgs{}
	var format string
	cmd := &cobra.Command{
		Use:     "query <input> [selector]",
		Short:   MsgQueryShort,
		Long:    MsgQueryLong,
		Example: MsgQueryExample,
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			query.Input = args[0]
			switch {
			case len(args) == 2 && query.Selector != "":
				return errors.New(MsgErrSelectorTwice)
			case len(args) == 2:
				query.Selector = args[1]
			case query.Selector == "":
				return errors.New(MsgErrSelectorMissing)
			}

			switch SerializationFormat(format) {
			case SerializeJSON, SerializeYAML:
				query.Format = SerializationFormat(format)
			default:
				return fmt.Errorf("invalid value %q for --format (expected json or yaml)", format)
			}
			switch query.Target {
			case "paged", "html":
			default:
				return fmt.Errorf("invalid value %q for --target (expected paged or html)", query.Target)
			}

			w, err := world.build(cmd.Flags())
			if err != nil {
				return err
			}
			query.World = w
			p.command = query
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&query.Selector, "selector", "", MsgFlagSelector)
	flags.StringVar(&query.Field, "field", "", MsgFlagField)
	flags.BoolVar(&query.One, "one", false, MsgFlagOne)
	flags.StringVar(&format, "format", p.cfg.Query.Format, MsgFlagQFormat)
	flags.BoolVar(&query.Pretty, "pretty", p.cfg.Query.Pretty, MsgFlagPretty)
	flags.StringVar(&query.Target, "target", "paged", MsgFlagTarget)
	world.bind(flags, p.cfg)
	return cmd
}

func (p *parser) fontsCmd() *cobra.Command {
	fonts := &FontsArgs{}
	cmd := &cobra.Command{
		Use:   "fonts",
		Short: MsgFontsShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p.command = fonts
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&fonts.FontPaths, "font-path", p.cfg.Fonts.Paths, MsgFlagFontPath)
	cmd.Flags().BoolVar(&fonts.IgnoreSystemFonts, "ignore-system-fonts", p.cfg.Fonts.IgnoreSystem, MsgFlagIgnoreSystemFonts)
	cmd.Flags().BoolVar(&fonts.Variants, "variants", false, MsgFlagVariants)
	return cmd
}

func (p *parser) updateCmd() *cobra.Command {
	update := &UpdateArgs{}
	cmd := &cobra.Command{
		Use:   "update [version]",
		Short: MsgUpdateShort,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				update.Version = args[0]
			}
			if update.Revert && (update.Version != "" || update.Force) {
				return errors.New(MsgErrUpdateConflict)
			}
			p.command = update
			return nil
		},
	}
	cmd.Flags().BoolVar(&update.Force, "force", false, MsgFlagForce)
	cmd.Flags().BoolVar(&update.Revert, "revert", false, MsgFlagRevert)
	cmd.Flags().StringVar(&update.Backup, "backup-path", "", MsgFlagBackup)
	return cmd
}

func (p *parser) completionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// compileFlags are shared by compile and watch
type compileFlags struct {
	format   string
	pages    string
	ppi      float64
	open     string
	timings  string
	makeDeps string
	diag     string
	jobs     int
	world    worldFlags
}

func (f *compileFlags) bind(flags *pflag.FlagSet, cfg *config.Config) {
	flags.StringVarP(&f.format, "format", "f", cfg.Compile.Format, MsgFlagFormat)
	flags.StringVar(&f.pages, "pages", "", MsgFlagPages)
	flags.Float64Var(&f.ppi, "ppi", cfg.Compile.PPI, MsgFlagPPI)
	flags.StringVar(&f.open, "open", "", MsgFlagOpen)
	flags.Lookup("open").NoOptDefVal = DefaultViewer
	flags.StringVar(&f.timings, "timings", "", MsgFlagTimings)
	flags.Lookup("timings").NoOptDefVal = DefaultTimingsPath
	flags.StringVar(&f.makeDeps, "make-deps", "", MsgFlagMakeDeps)
	flags.StringVar(&f.diag, "diagnostic-format", cfg.Compile.DiagnosticFormat, MsgFlagDiagnosticFormat)
	flags.IntVarP(&f.jobs, "jobs", "j", cfg.Compile.Jobs, MsgFlagJobs)
	f.world.bind(flags, cfg)
}

func (f *compileFlags) build(flags *pflag.FlagSet, args []string, now func() time.Time) (*CompileArgs, error) {
	c := &CompileArgs{
		Input:    args[0],
		PPI:      f.ppi,
		MakeDeps: f.makeDeps,
		Jobs:     f.jobs,
	}
	if len(args) == 2 {
		c.Output = args[1]
	}

	// An explicit --format wins, then the output extension, then the
	// configured default.
	if flags.Changed("format") || FormatForPath(c.Output) == "" {
		format, err := parseOutputFormat(f.format)
		if err != nil {
			return nil, err
		}
		c.Format = format
	}

	if f.pages != "" {
		pages, err := ParsePages(f.pages)
		if err != nil {
			return nil, err
		}
		c.Pages = pages
	}
	if c.PPI <= 0 {
		return nil, errors.New(MsgErrPPI)
	}

	if flags.Changed("open") {
		c.Open = true
		if f.open != DefaultViewer {
			c.Viewer = f.open
		}
	}
	if flags.Changed("timings") {
		c.Timings = strings.ReplaceAll(f.timings, "{t}", strconv.FormatInt(now().Unix(), 10))
	}

	switch DiagnosticFormat(f.diag) {
	case DiagnosticHuman, DiagnosticShort:
		c.DiagnosticFormat = DiagnosticFormat(f.diag)
	default:
		return nil, fmt.Errorf("invalid value %q for --diagnostic-format (expected human or short)", f.diag)
	}

	world, err := f.world.build(flags)
	if err != nil {
		return nil, err
	}
	c.World = world
	return c, nil
}

// worldFlags are shared by every command that compiles a document
type worldFlags struct {
	root              string
	inputs            []string
	fontPaths         []string
	ignoreSystemFonts bool
	packagePath       string
	packageCachePath  string
	creation          int64
}

func (f *worldFlags) bind(flags *pflag.FlagSet, cfg *config.Config) {
	flags.StringVar(&f.root, "root", cfg.Root, MsgFlagRoot)
	flags.StringArrayVar(&f.inputs, "input", nil, MsgFlagInput)
	flags.StringArrayVar(&f.fontPaths, "font-path", cfg.Fonts.Paths, MsgFlagFontPath)
	flags.BoolVar(&f.ignoreSystemFonts, "ignore-system-fonts", cfg.Fonts.IgnoreSystem, MsgFlagIgnoreSystemFonts)
	flags.StringVar(&f.packagePath, "package-path", cfg.Packages.Path, MsgFlagPackagePath)
	flags.StringVar(&f.packageCachePath, "package-cache-path", cfg.Packages.CachePath, MsgFlagPackageCachePath)
	flags.Int64Var(&f.creation, "creation-timestamp", 0, MsgFlagCreationTimestamp)
}

func (f *worldFlags) build(flags *pflag.FlagSet) (WorldArgs, error) {
	w := WorldArgs{
		Root:              f.root,
		FontPaths:         f.fontPaths,
		IgnoreSystemFonts: f.ignoreSystemFonts,
		PackagePath:       f.packagePath,
		PackageCachePath:  f.packageCachePath,
	}

	if len(f.inputs) > 0 {
		w.Inputs = make(map[string]string, len(f.inputs))
		for _, pair := range f.inputs {
			key, value, ok := strings.Cut(pair, "=")
			if !ok {
				return WorldArgs{}, fmt.Errorf(MsgErrInputPair, pair)
			}
			if strings.TrimSpace(key) == "" {
				return WorldArgs{}, errors.New(MsgErrInputEmptyKey)
			}
			w.Inputs[key] = value
		}
	}

	switch {
	case flags.Changed("creation-timestamp"):
		stamp := time.Unix(f.creation, 0).UTC()
		w.CreationTimestamp = &stamp
	case os.Getenv(EnvSourceDateEpoch) != "":
		secs, err := strconv.ParseInt(os.Getenv(EnvSourceDateEpoch), 10, 64)
		if err != nil {
			return WorldArgs{}, fmt.Errorf(MsgErrSourceDateEpoch, err)
		}
		stamp := time.Unix(secs, 0).UTC()
		w.CreationTimestamp = &stamp
	}
	return w, nil
}

func parseOutputFormat(s string) (OutputFormat, error) {
	for _, known := range OutputFormats {
		if s == known {
			return OutputFormat(s), nil
		}
	}
	return "", fmt.Errorf("invalid value %q for --format (expected one of %s)", s, strings.Join(OutputFormats, ", "))
}

// FormatForPath infers the output format from a file extension. It returns
// "" for unknown extensions and for stdout.
func FormatForPath(path string) OutputFormat {
	if path == "" || path == "-" {
		return ""
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, known := range OutputFormats {
		if ext == known {
			return OutputFormat(ext)
		}
	}
	return ""
}
