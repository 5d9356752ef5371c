// Package compile runs the compile command: it resolves input and output
// paths, hands the document to an Engine and exports the result.
//
// The engine is external. The handler owns everything around it: path and
// page template rules, the make-deps file, timing segments and opening the
// result in a viewer.
package compile

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/arthur-debert/typeset/pkg/args"
	"github.com/arthur-debert/typeset/pkg/errors"
	"github.com/arthur-debert/typeset/pkg/filesystem"
	"github.com/arthur-debert/typeset/pkg/logging"
	"github.com/arthur-debert/typeset/pkg/timings"
)

// Handler implements the compile command
type Handler struct {
	Engine Engine
	FS     filesystem.FS
	Stdin  io.Reader
	Stdout io.Writer
	Opener Opener
}

// Option customizes a Handler
type Option func(*Handler)

// WithFS reads inputs and writes outputs through fsys
func WithFS(fsys filesystem.FS) Option {
	return func(h *Handler) { h.FS = fsys }
}

// WithStdio replaces the standard streams used for "-"
func WithStdio(in io.Reader, out io.Writer) Option {
	return func(h *Handler) {
		h.Stdin = in
		h.Stdout = out
	}
}

// WithOpener replaces the viewer launcher
func WithOpener(o Opener) Option {
	return func(h *Handler) { h.Opener = o }
}

// New returns a handler using engine
func New(engine Engine, opts ...Option) *Handler {
	h := &Handler{
		Engine: engine,
		FS:     filesystem.NewOS(),
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Opener: SystemOpener{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Compile compiles a.Input and exports it. Errors carry hints where the
// user can fix the command line.
func (h *Handler) Compile(ctx context.Context, timer *timings.Timer, a *args.CompileArgs) error {
	logger := logging.GetLogger("compile")

	format := resolveFormat(a)
	output, err := h.resolveOutput(a, format)
	if err != nil {
		return err
	}
	logger.Debug().
		Str("input", a.Input).
		Str("output", output).
		Str("format", string(format)).
		Msg("Compiling document")

	req, err := h.request(a, format)
	if err != nil {
		return err
	}

	var doc Document
	err = timer.Record("compile", func() error {
		var compileErr error
		doc, compileErr = h.Engine.Compile(ctx, req)
		return compileErr
	})
	if err != nil {
		return err
	}

	var written []string
	err = timer.Record("export", func() error {
		var exportErr error
		written, exportErr = h.export(doc, a, format, output)
		return exportErr
	})
	if err != nil {
		return err
	}
	logger.Info().Strs("outputs", written).Msg("Exported document")

	if a.MakeDeps != "" {
		if err := h.writeDeps(a.MakeDeps, written, doc.Dependencies()); err != nil {
			return err
		}
	}

	if a.Open && output != "-" && len(written) > 0 {
		if err := h.Opener.Open(written[0], a.Viewer); err != nil {
			return errors.Wrapf(err, errors.ErrOpen, "failed to open %s", written[0]).
				WithHint("pass a viewer explicitly with --open=<viewer>")
		}
	}
	return nil
}

func (h *Handler) resolveOutput(a *args.CompileArgs, format args.OutputFormat) (string, error) {
	if a.Input != "-" {
		exists, err := filesystem.Exists(h.FS, a.Input)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot access input file %s", a.Input)
		}
		if !exists {
			return "", errors.Newf(errors.ErrFileNotFound, "input file not found (searched at %s)", absolute(a.Input)).
				WithDetail("path", a.Input)
		}
	}

	output := a.Output
	if output == "" {
		if a.Input == "-" {
			return "", errors.New(errors.ErrInvalidInput, "an output path is required when reading from stdin").
				WithHint("pass the output as the second argument, or - for stdout")
		}
		output = deriveOutput(a.Input, format)
	}

	if output != "-" && a.Input != "-" && absolute(output) == absolute(a.Input) {
		return "", errors.New(errors.ErrInvalidInput, "source and output file must be different")
	}
	return output, nil
}

func (h *Handler) request(a *args.CompileArgs, format args.OutputFormat) (Request, error) {
	req := Request{
		Input:             a.Input,
		Root:              a.World.Root,
		Inputs:            a.World.Inputs,
		FontPaths:         a.World.FontPaths,
		IgnoreSystemFonts: a.World.IgnoreSystemFonts,
		PackagePath:       a.World.PackagePath,
		PackageCachePath:  a.World.PackageCachePath,
		CreationTimestamp: a.World.CreationTimestamp,
		Jobs:              a.Jobs,
		Target:            format,
		DiagnosticFormat:  a.DiagnosticFormat,
	}
	if a.Input == "-" {
		source, err := io.ReadAll(h.Stdin)
		if err != nil {
			return Request{}, errors.Wrap(err, errors.ErrFileAccess, "failed to read from stdin")
		}
		req.Source = source
	}
	return req, nil
}

// export writes the document and returns the paths written
func (h *Handler) export(doc Document, a *args.CompileArgs, format args.OutputFormat, output string) ([]string, error) {
	pages := selectPages(a.Pages, doc.PageCount())
	if len(a.Pages) > 0 && len(pages) == 0 {
		return nil, errors.New(errors.ErrExport, "no pages selected for export")
	}

	if !isImageFormat(format) {
		var selection []int
		if len(a.Pages) > 0 {
			selection = pages
		}
		var buf bytes.Buffer
		if err := doc.ExportDocument(format, selection, &buf); err != nil {
			return nil, errors.Wrapf(err, errors.ErrExport, "failed to export %s", format)
		}
		return h.emit(output, buf.Bytes())
	}

	if len(pages) == 0 {
		return nil, errors.New(errors.ErrExport, "no pages selected for export")
	}
	if len(pages) > 1 && !hasPageTemplate(output) {
		if output == "-" {
			return nil, errors.New(errors.ErrInvalidInput, "cannot export multiple images to stdout").
				WithHint("select a single page with --pages, or write to files")
		}
		return nil, errors.New(errors.ErrInvalidInput, "cannot export multiple images without a page number template ({p}, {0p}) in the output path").
			WithHint("try using a template (e.g. {p}) in the output name")
	}

	var written []string
	total := doc.PageCount()
	for _, page := range pages {
		var buf bytes.Buffer
		if err := doc.ExportPage(format, page, a.PPI, &buf); err != nil {
			return written, errors.Wrapf(err, errors.ErrExport, "failed to export page %d", page)
		}
		path := output
		if path != "-" {
			path = expandPageTemplate(output, page, total)
		}
		paths, err := h.emit(path, buf.Bytes())
		if err != nil {
			return written, err
		}
		written = append(written, paths...)
	}
	return written, nil
}

func (h *Handler) emit(path string, data []byte) ([]string, error) {
	if path == "-" {
		if _, err := h.Stdout.Write(data); err != nil {
			return nil, errors.Wrap(err, errors.ErrFileWrite, "failed to write to stdout")
		}
		return nil, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := h.FS.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory %s", dir)
		}
	}
	if err := h.FS.WriteFile(path, data, 0644); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path).
			WithDetail("path", path)
	}
	return []string{path}, nil
}

func (h *Handler) writeDeps(path string, outputs, deps []string) error {
	if len(outputs) == 0 {
		return errors.New(errors.ErrInvalidInput, "cannot write dependencies for output written to stdout")
	}
	if err := h.FS.WriteFile(path, []byte(makeDeps(outputs, deps)), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write dependencies to %s", path)
	}
	return nil
}

func absolute(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
