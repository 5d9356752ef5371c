// Package router maps a parsed invocation to exactly one command handler.
//
// Compile, init and query are delegated to their collaborators. Watch, fonts
// and update are part of the command line but have no handler; dispatching
// them fails with an ErrUnsupportedCommand error instead of doing nothing.
// Handler errors are returned unchanged.
package router

import (
	"context"

	"github.com/arthur-debert/typeset/pkg/args"
	"github.com/arthur-debert/typeset/pkg/errors"
	"github.com/arthur-debert/typeset/pkg/logging"
	"github.com/arthur-debert/typeset/pkg/timings"
)

// Compiler runs the compile command
type Compiler interface {
	Compile(ctx context.Context, timer *timings.Timer, cmd *args.CompileArgs) error
}

// Initializer runs the init command
type Initializer interface {
	Init(ctx context.Context, cmd *args.InitArgs) error
}

// Querier runs the query command
type Querier interface {
	Query(ctx context.Context, cmd *args.QueryArgs) error
}

// CompilerFunc adapts a function to Compiler
type CompilerFunc func(ctx context.Context, timer *timings.Timer, cmd *args.CompileArgs) error

func (f CompilerFunc) Compile(ctx context.Context, timer *timings.Timer, cmd *args.CompileArgs) error {
	return f(ctx, timer, cmd)
}

// InitializerFunc adapts a function to Initializer
type InitializerFunc func(ctx context.Context, cmd *args.InitArgs) error

func (f InitializerFunc) Init(ctx context.Context, cmd *args.InitArgs) error {
	return f(ctx, cmd)
}

// QuerierFunc adapts a function to Querier
type QuerierFunc func(ctx context.Context, cmd *args.QueryArgs) error

func (f QuerierFunc) Query(ctx context.Context, cmd *args.QueryArgs) error {
	return f(ctx, cmd)
}

// Router holds one handler per supported command
type Router struct {
	Compiler    Compiler
	Initializer Initializer
	Querier     Querier
	// NewTimer builds the timer handed to the compiler. Defaults to
	// timings.New.
	NewTimer func(inv *args.Invocation) *timings.Timer
}

// unsupportedHints suggests an alternative for each command without a handler
var unsupportedHints = map[args.CommandKind]string{
	args.KindWatch:  "use `typeset compile` to build the document once",
	args.KindFonts:  "pass font directories to `typeset compile` with --font-path",
	args.KindUpdate: "download the latest release to update typeset",
}

// Dispatch runs the handler for inv's command
func (r *Router) Dispatch(ctx context.Context, inv *args.Invocation) error {
	logger := logging.GetLogger("router")

	if inv == nil || inv.Command == nil {
		return errors.New(errors.ErrInternal, "no command to dispatch")
	}
	kind := inv.Command.Kind()
	logger.Debug().Str("command", string(kind)).Msg("Dispatching command")

	switch cmd := inv.Command.(type) {
	case *args.CompileArgs:
		if r.Compiler == nil {
			return missingHandler(kind)
		}
		return r.compile(ctx, inv, cmd)

	case *args.InitArgs:
		if r.Initializer == nil {
			return missingHandler(kind)
		}
		return r.Initializer.Init(ctx, cmd)

	case *args.QueryArgs:
		if r.Querier == nil {
			return missingHandler(kind)
		}
		return r.Querier.Query(ctx, cmd)

	case *args.WatchArgs, *args.FontsArgs, *args.UpdateArgs:
		logger.Debug().Str("command", string(kind)).Msg("Command has no handler")
		return errors.Newf(errors.ErrUnsupportedCommand, "the %s command is not supported yet", kind).
			WithHint(unsupportedHints[kind]).
			WithDetail("command", string(kind))
	}

	return errors.Newf(errors.ErrInternal, "unknown command %q", kind)
}

func (r *Router) compile(ctx context.Context, inv *args.Invocation, cmd *args.CompileArgs) error {
	newTimer := r.NewTimer
	if newTimer == nil {
		newTimer = func(inv *args.Invocation) *timings.Timer { return timings.New(inv) }
	}
	timer := newTimer(inv)

	err := r.Compiler.Compile(ctx, timer, cmd)
	if finishErr := timer.Finish(); finishErr != nil {
		if err != nil {
			logger := logging.GetLogger("router")
			logger.Warn().Err(finishErr).Msg("Failed to write timings")
			return err
		}
		return finishErr
	}
	return err
}

func missingHandler(kind args.CommandKind) error {
	return errors.Newf(errors.ErrInternal, "no handler registered for the %s command", kind)
}
