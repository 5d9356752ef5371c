// Package cli wires the argument store, the command router and the error
// reporter into one run of the typeset binary.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/arthur-debert/typeset/pkg/args"
	"github.com/arthur-debert/typeset/pkg/compile"
	"github.com/arthur-debert/typeset/pkg/exitstate"
	"github.com/arthur-debert/typeset/pkg/greet"
	"github.com/arthur-debert/typeset/pkg/initialize"
	"github.com/arthur-debert/typeset/pkg/logging"
	"github.com/arthur-debert/typeset/pkg/query"
	"github.com/arthur-debert/typeset/pkg/report"
	"github.com/arthur-debert/typeset/pkg/router"
	"github.com/arthur-debert/typeset/pkg/terminal"
)

// Dispatcher runs the handler of an invocation's command
type Dispatcher interface {
	Dispatch(ctx context.Context, inv *args.Invocation) error
}

// ErrorReporter prints a failed command's error for the user
type ErrorReporter interface {
	ReportError(err error) error
}

// App is one configured run of the binary
type App struct {
	Store    *args.Store
	Router   Dispatcher
	Reporter ErrorReporter
	// SetupLogging configures logging from the parsed verbosity. Nil leaves
	// logging untouched.
	SetupLogging func(verbosity int)
}

// NewApp builds the default collaborators for inv. The store must already
// hold inv.
func NewApp(store *args.Store, inv *args.Invocation) *App {
	return &App{
		Store: store,
		Router: &router.Router{
			Compiler:    compile.New(compile.MissingEngine{}),
			Initializer: initialize.New(initialize.WithTerminal(terminal.Stdout(inv.Color))),
			Querier:     query.New(query.MissingEngine{}),
		},
		Reporter:     report.New(terminal.Stderr(inv.Color)),
		SetupLogging: logging.SetupLogger,
	}
}

// Run parses raw (once per store), dispatches the command and reports its
// error. It returns the run's final status. When the command line does not
// parse, the store has already printed and exited, and Run only returns
// the unchanged status if the exit function came back.
func (a *App) Run(ctx context.Context, raw []string) exitstate.Status {
	tracker := exitstate.New()

	inv := a.Store.GetOrInitialize(raw)
	if inv == nil {
		return tracker.Current()
	}
	if a.SetupLogging != nil {
		a.SetupLogging(inv.Verbosity)
	}
	logging.LogCommand(string(inv.Command.Kind()), raw)

	if err := a.Router.Dispatch(ctx, inv); err != nil {
		tracker.MarkFailed()
		if reportErr := a.Reporter.ReportError(err); reportErr != nil {
			panic(fmt.Sprintf("failed to report error %q: %v", err, reportErr))
		}
	}
	return tracker.Current()
}

// Exec runs the binary with the process-wide store and returns the exit
// code
func Exec(raw []string) int {
	store := args.Default()
	store.SetGreeter(func() { greet.Stdout().Greet() })

	inv := store.GetOrInitialize(raw)
	if inv == nil {
		return exitstate.ExitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return NewApp(store, inv).Run(ctx, raw).Code()
}
