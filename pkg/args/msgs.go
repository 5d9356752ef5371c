package args

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "A markup-based typesetting system"
	MsgCompileShort    = "Compiles an input file into a supported output format"
	MsgWatchShort      = "Watches an input file and recompiles on changes"
	MsgInitShort       = "Initializes a new project from a template"
	MsgQueryShort      = "Processes an input file to extract provided metadata"
	MsgFontsShort      = "Lists all discovered fonts in system and custom font paths"
	MsgUpdateShort     = "Self update the typeset CLI"
	MsgCompletionShort = "Generate shell completion script"

	// Global flags
	MsgFlagColor   = "Whether to use color (auto, always, never)"
	MsgFlagCert    = "Path to a custom CA certificate to use when making network requests"
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"

	// Compile flags
	MsgFlagFormat           = "The format of the output file, inferred from the extension by default (pdf, png, svg, html)"
	MsgFlagPages            = "Which pages to export, e.g. 1,3-5,8- (all pages by default)"
	MsgFlagPPI              = "The PPI (pixels per inch) to use for PNG export"
	MsgFlagOpen             = "Opens the output file with the default viewer, or the given one, after compilation"
	MsgFlagTimings          = "Produces performance timings of the compilation process (experimental)"
	MsgFlagMakeDeps         = "File path to which a Makefile with the current compilation's dependencies will be written"
	MsgFlagDiagnosticFormat = "The format to emit diagnostics in (human, short)"
	MsgFlagJobs             = "Number of parallel jobs spawned during compilation, defaults to the number of CPUs"

	// World flags
	MsgFlagRoot              = "Configures the project root (for absolute paths)"
	MsgFlagInput             = "Add a string key-value pair visible through sys.inputs (key=value)"
	MsgFlagFontPath          = "Adds additional directories that are recursively searched for fonts"
	MsgFlagIgnoreSystemFonts = "Ensures system fonts won't be searched, unless explicitly included via --font-path"
	MsgFlagPackagePath       = "Custom path to local packages, defaults to system-dependent location"
	MsgFlagPackageCachePath  = "Custom path to package cache, defaults to system-dependent location"
	MsgFlagCreationTimestamp = "The document's creation date formatted as a UNIX timestamp"

	// Watch flags
	MsgFlagNoServe  = "Disables the built-in HTTP server for HTML export"
	MsgFlagNoReload = "Disables the injected live reload script for HTML export"
	MsgFlagPort     = "The port where HTML is served, picks a free port by default"

	// Query flags
	MsgFlagSelector = "Defines which elements to retrieve (alternative to the positional selector)"
	MsgFlagField    = "Extracts just one field from all retrieved elements"
	MsgFlagOne      = "Expects and retrieves exactly one element"
	MsgFlagQFormat  = "The format to serialize in (json, yaml)"
	MsgFlagPretty   = "Whether to pretty-print the serialized output"
	MsgFlagTarget   = "The target to compile for before querying (paged, html)"

	// Fonts flags
	MsgFlagVariants = "Also lists style variants of each font family"

	// Update flags
	MsgFlagForce  = "Forces a downgrade to an older version (required for downgrading)"
	MsgFlagRevert = "Reverts to the version from before the last update"
	MsgFlagBackup = "Custom path to the backup file created on update"

	// Error messages
	MsgErrInputPair       = "input %q must be a key and a value separated by an equal sign"
	MsgErrInputEmptyKey   = "input key must not be empty"
	MsgErrSelectorMissing = "a selector is required, either as the second argument or with --selector"
	MsgErrSelectorTwice   = "the selector was given both as an argument and with --selector"
	MsgErrSourceDateEpoch = "SOURCE_DATE_EPOCH must be a UNIX timestamp: %w"
	MsgErrPPI             = "ppi must be a positive number"
	MsgErrUpdateConflict  = "--revert cannot be combined with a version or --force"
	MsgHintHelp           = "For more information, try '--help'."
	MsgErrMissingCommand  = "a subcommand is required"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/compile-long.txt
	msgCompileLongRaw string
	MsgCompileLong    = strings.TrimSpace(msgCompileLongRaw)

	//go:embed msgs/compile-example.txt
	msgCompileExampleRaw string
	MsgCompileExample    = strings.TrimRight(msgCompileExampleRaw, "\n")

	//go:embed msgs/init-long.txt
	msgInitLongRaw string
	MsgInitLong    = strings.TrimSpace(msgInitLongRaw)

	//go:embed msgs/query-long.txt
	msgQueryLongRaw string
	MsgQueryLong    = strings.TrimSpace(msgQueryLongRaw)

	//go:embed msgs/query-example.txt
	msgQueryExampleRaw string
	MsgQueryExample    = strings.TrimRight(msgQueryExampleRaw, "\n")

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"
)
