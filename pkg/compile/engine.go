package compile

import (
	"context"
	"io"
	"time"

	"github.com/arthur-debert/typeset/pkg/args"
	"github.com/arthur-debert/typeset/pkg/errors"
)

// Request is everything the engine needs to compile one document
type Request struct {
	// Input is the main file path, or "-" when Source holds stdin
	Input             string
	Source            []byte
	Root              string
	Inputs            map[string]string
	FontPaths         []string
	IgnoreSystemFonts bool
	PackagePath       string
	PackageCachePath  string
	CreationTimestamp *time.Time
	Jobs              int
	Target            args.OutputFormat
	DiagnosticFormat  args.DiagnosticFormat
}

// Document is a compiled document ready for export
type Document interface {
	// PageCount is the number of laid out pages. HTML documents report 1.
	PageCount() int
	// Dependencies lists the files read while compiling
	Dependencies() []string
	// ExportDocument writes the selected 1-based pages as one pdf or html
	// file. A nil selection means every page.
	ExportDocument(format args.OutputFormat, pages []int, w io.Writer) error
	// ExportPage writes one 1-based page as a png or svg image
	ExportPage(format args.OutputFormat, page int, ppi float64, w io.Writer) error
}

// Engine compiles documents
type Engine interface {
	Compile(ctx context.Context, req Request) (Document, error)
}

// MissingEngine is linked when the binary is built without a document
// engine. Every compile fails with ErrEngineMissing.
type MissingEngine struct{}

func (MissingEngine) Compile(context.Context, Request) (Document, error) {
	return nil, errors.New(errors.ErrEngineMissing, "no document engine is available in this build").
		WithHint("build typeset with an engine linked in, or use a release binary")
}
