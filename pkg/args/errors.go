package args

import "github.com/arthur-debert/typeset/pkg/exitstate"

// ParseErrorKind classifies why parsing did not produce an Invocation
type ParseErrorKind int

const (
	// InvalidArguments covers unknown flags, bad values and wrong arity
	InvalidArguments ParseErrorKind = iota
	// MissingArgumentOrSubcommand is a bare invocation without a subcommand
	MissingArgumentOrSubcommand
	// DisplayHelp means help (or another informational text) was requested
	DisplayHelp
	// DisplayVersion means --version was requested
	DisplayVersion
)

func (k ParseErrorKind) String() string {
	switch k {
	case MissingArgumentOrSubcommand:
		return "missing-argument-or-subcommand"
	case DisplayHelp:
		return "display-help"
	case DisplayVersion:
		return "display-version"
	}
	return "invalid-arguments"
}

// ParseError is returned by Parse for every command line that does not
// yield an Invocation, including requests for help and version output.
type ParseError struct {
	Kind ParseErrorKind
	// Err is the underlying cause for InvalidArguments
	Err error
	// Usage is the usage text of the command that failed to parse
	Usage string
	// Output is the text to show for help, version and missing subcommand
	Output string
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ExitCode is the process exit code for the error
func (e *ParseError) ExitCode() int {
	switch e.Kind {
	case DisplayHelp, DisplayVersion:
		return exitstate.ExitSuccess
	}
	return exitstate.ExitUsage
}
