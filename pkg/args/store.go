package args

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/arthur-debert/typeset/pkg/config"
	"github.com/arthur-debert/typeset/pkg/logging"
)

// StoreOptions configures a Store. Zero fields fall back to the process
// defaults.
type StoreOptions struct {
	// Config provides flag defaults. It is called at most once.
	Config func() *config.Config
	// Greeter runs before the usage text when no subcommand was given
	Greeter func()
	Stdout  io.Writer
	Stderr  io.Writer
	// Exit terminates the process. If it returns, GetOrInitialize returns nil.
	Exit func(code int)
}

// Store parses the command line once and hands out the result
type Store struct {
	opts StoreOptions

	once sync.Once
	inv  *Invocation
}

// NewStore returns an empty store
func NewStore(opts StoreOptions) *Store {
	if opts.Config == nil {
		opts.Config = config.LoadOrDefault
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Exit == nil {
		opts.Exit = os.Exit
	}
	return &Store{opts: opts}
}

var (
	defaultStore     *Store
	defaultStoreOnce sync.Once
)

// Default returns the process-wide store
func Default() *Store {
	defaultStoreOnce.Do(func() {
		defaultStore = NewStore(StoreOptions{})
	})
	return defaultStore
}

// SetGreeter installs the banner shown on a bare invocation. It has no
// effect once the store has parsed.
func (s *Store) SetGreeter(greeter func()) {
	s.opts.Greeter = greeter
}

// GetOrInitialize parses raw on the first call and returns the cached
// Invocation on every later call, ignoring raw. A command line that does
// not parse terminates the process through the exit function.
func (s *Store) GetOrInitialize(raw []string) *Invocation {
	s.once.Do(func() {
		s.inv = s.initialize(raw)
	})
	return s.inv
}

func (s *Store) initialize(raw []string) *Invocation {
	logger := logging.GetLogger("args")

	inv, err := Parse(raw, s.opts.Config())
	if err == nil {
		logger.Debug().
			Str("command", string(inv.Command.Kind())).
			Int("verbosity", inv.Verbosity).
			Msg("Parsed invocation")
		return inv
	}

	var perr *ParseError
	if !errors.As(err, &perr) {
		perr = &ParseError{Kind: InvalidArguments, Err: err}
	}
	logger.Debug().Str("kind", perr.Kind.String()).Err(perr.Err).Msg("Command line did not parse")

	s.fail(perr)
	return nil
}

func (s *Store) fail(perr *ParseError) {
	switch perr.Kind {
	case MissingArgumentOrSubcommand:
		if s.opts.Greeter != nil {
			s.opts.Greeter()
		}
		fmt.Fprint(s.opts.Stderr, perr.Output)
	case DisplayHelp, DisplayVersion:
		fmt.Fprint(s.opts.Stdout, perr.Output)
	default:
		fmt.Fprintf(s.opts.Stderr, "error: %s\n\n", perr.Err)
		if perr.Usage != "" {
			fmt.Fprintln(s.opts.Stderr, perr.Usage)
		}
		fmt.Fprintln(s.opts.Stderr, MsgHintHelp)
	}
	s.opts.Exit(perr.ExitCode())
}
