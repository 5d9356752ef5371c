// Package query runs the query command: it asks an Engine for the elements
// matching a selector and prints them as JSON or YAML.
package query

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/arthur-debert/typeset/pkg/args"
	"github.com/arthur-debert/typeset/pkg/errors"
	"github.com/arthur-debert/typeset/pkg/filesystem"
	"github.com/arthur-debert/typeset/pkg/logging"
	"gopkg.in/yaml.v3"
)

// Element is one introspected document element, keyed by field name
type Element map[string]interface{}

// Request describes the document and what to retrieve from it
type Request struct {
	Input             string
	Selector          string
	Target            string
	Root              string
	Inputs            map[string]string
	FontPaths         []string
	IgnoreSystemFonts bool
	PackagePath       string
	PackageCachePath  string
	CreationTimestamp *time.Time
}

// Engine compiles the document and retrieves matching elements
type Engine interface {
	Select(ctx context.Context, req Request) ([]Element, error)
}

// MissingEngine is linked when the binary is built without a document
// engine
type MissingEngine struct{}

func (MissingEngine) Select(context.Context, Request) ([]Element, error) {
	return nil, errors.New(errors.ErrEngineMissing, "no document engine is available in this build").
		WithHint("build typeset with an engine linked in, or use a release binary")
}

// Handler implements the query command
type Handler struct {
	Engine Engine
	FS     filesystem.FS
	Stdout io.Writer
}

// Option customizes a Handler
type Option func(*Handler)

// WithFS checks inputs through fsys
func WithFS(fsys filesystem.FS) Option {
	return func(h *Handler) { h.FS = fsys }
}

// WithStdout replaces the output stream
func WithStdout(w io.Writer) Option {
	return func(h *Handler) { h.Stdout = w }
}

// New returns a handler using engine
func New(engine Engine, opts ...Option) *Handler {
	h := &Handler{
		Engine: engine,
		FS:     filesystem.NewOS(),
		Stdout: os.Stdout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Query retrieves, filters and prints the selected elements
func (h *Handler) Query(ctx context.Context, a *args.QueryArgs) error {
	logger := logging.GetLogger("query")

	if err := ValidateSelector(a.Selector); err != nil {
		return err
	}
	if a.Input != "-" {
		exists, err := filesystem.Exists(h.FS, a.Input)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot access input file %s", a.Input)
		}
		if !exists {
			return errors.New(errors.ErrFileNotFound, "file not found").WithDetail("path", a.Input)
		}
	}

	logger.Debug().Str("input", a.Input).Str("selector", a.Selector).Msg("Running query")
	elements, err := h.Engine.Select(ctx, Request{
		Input:             a.Input,
		Selector:          a.Selector,
		Target:            a.Target,
		Root:              a.World.Root,
		Inputs:            a.World.Inputs,
		FontPaths:         a.World.FontPaths,
		IgnoreSystemFonts: a.World.IgnoreSystemFonts,
		PackagePath:       a.World.PackagePath,
		PackageCachePath:  a.World.PackageCachePath,
		CreationTimestamp: a.World.CreationTimestamp,
	})
	if err != nil {
		return err
	}

	values := Project(elements, a.Field)
	logger.Debug().Int("matches", len(values)).Msg("Query finished")

	var data []byte
	if a.One {
		if len(values) != 1 {
			return errors.Newf(errors.ErrQuery, "expected exactly one element, found %d", len(values))
		}
		data, err = Serialize(values[0], a.Format, a.Pretty)
	} else {
		data, err = Serialize(values, a.Format, a.Pretty)
	}
	if err != nil {
		return err
	}

	data = append(bytes.TrimRight(data, "\n"), '\n')
	if _, err := h.Stdout.Write(data); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "failed to write query result")
	}
	return nil
}

// Project keeps whole elements when field is empty, otherwise the value of
// field for every element that has it
func Project(elements []Element, field string) []interface{} {
	values := make([]interface{}, 0, len(elements))
	for _, el := range elements {
		if field == "" {
			values = append(values, map[string]interface{}(el))
			continue
		}
		if v, ok := el[field]; ok {
			values = append(values, v)
		}
	}
	return values
}

// Serialize encodes v as JSON (indented when pretty) or YAML
func Serialize(v interface{}, format args.SerializationFormat, pretty bool) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case args.SerializeYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		err = enc.Encode(v)
		if closeErr := enc.Close(); err == nil {
			err = closeErr
		}
		data = buf.Bytes()
	case args.SerializeJSON, "":
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if pretty {
			enc.SetIndent("", "  ")
		}
		err = enc.Encode(v)
		data = bytes.TrimRight(buf.Bytes(), "\n")
	default:
		return nil, errors.Newf(errors.ErrSerialize, "unsupported serialization format %q", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSerialize, "failed to serialize as %s", format)
	}
	return data, nil
}
