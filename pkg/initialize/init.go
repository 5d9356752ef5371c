// Package initialize implements the init command: it creates a new project
// directory from a builtin template or a template package.
package initialize

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/typeset/pkg/args"
	"github.com/arthur-debert/typeset/pkg/errors"
	"github.com/arthur-debert/typeset/pkg/filesystem"
	"github.com/arthur-debert/typeset/pkg/logging"
	"github.com/arthur-debert/typeset/pkg/style"
	"github.com/arthur-debert/typeset/pkg/terminal"
	"github.com/pelletier/go-toml/v2"
)

const (
	dirPerm  = 0755
	filePerm = 0644
)

// Result describes a created project
type Result struct {
	Spec         Spec
	Dir          string
	Entrypoint   string
	FilesCreated []string
}

// projectManifest is written to <dir>/typeset.toml
type projectManifest struct {
	Project projectSection `toml:"project"`
}

type projectSection struct {
	Entrypoint string      `toml:"entrypoint"`
	Template   templateRef `toml:"template"`
}

type templateRef struct {
	Spec      string `toml:"spec"`
	Namespace string `toml:"namespace,omitempty"`
	Name      string `toml:"name"`
	Version   string `toml:"version,omitempty"`
}

// Handler implements the init command
type Handler struct {
	// Resolver overrides the resolver built from the command's package
	// directories
	Resolver Resolver
	FS       filesystem.FS
	Term     *terminal.Terminal
}

// Option customizes a Handler
type Option func(*Handler)

// WithFS creates projects on fsys
func WithFS(fsys filesystem.FS) Option {
	return func(h *Handler) { h.FS = fsys }
}

// WithResolver fixes the template resolver
func WithResolver(r Resolver) Option {
	return func(h *Handler) { h.Resolver = r }
}

// WithTerminal prints the summary to term
func WithTerminal(term *terminal.Terminal) Option {
	return func(h *Handler) { h.Term = term }
}

// New returns a handler on the real filesystem printing to stdout
func New(opts ...Option) *Handler {
	h := &Handler{FS: filesystem.NewOS()}
	for _, opt := range opts {
		opt(h)
	}
	if h.Term == nil {
		h.Term = terminal.Stdout(terminal.ColorAuto)
	}
	return h
}

// Init creates the project and prints how to start working on it
func (h *Handler) Init(ctx context.Context, a *args.InitArgs) error {
	result, err := h.Create(ctx, a)
	if err != nil {
		return err
	}
	return h.printSummary(result)
}

// Create resolves the template and writes the project files
func (h *Handler) Create(ctx context.Context, a *args.InitArgs) (*Result, error) {
	logger := logging.GetLogger("initialize")
	logger.Debug().Str("template", a.Template).Str("dir", a.Dir).Msg("Executing init")

	spec, err := ParseSpec(a.Template)
	if err != nil {
		return nil, err
	}

	resolver := h.Resolver
	if resolver == nil {
		resolver = NewResolver(h.FS, a.PackagePath, a.PackageCachePath)
	}
	tmpl, err := resolver.Resolve(ctx, spec)
	if err != nil {
		return nil, err
	}

	dir := a.Dir
	if dir == "" {
		dir = tmpl.Spec.Name
	}
	if err := h.checkTarget(dir); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{Spec: tmpl.Spec, Dir: dir, Entrypoint: tmpl.Entrypoint}
	for _, rel := range tmpl.Paths() {
		if rel == ManifestFile {
			continue
		}
		if err := h.write(filepath.Join(dir, filepath.FromSlash(rel)), tmpl.Files[rel]); err != nil {
			return nil, err
		}
		result.FilesCreated = append(result.FilesCreated, rel)
		logger.Info().Str("file", rel).Msg("File created")
	}

	manifest, err := toml.Marshal(projectManifest{Project: projectSection{
		Entrypoint: tmpl.Entrypoint,
		Template: templateRef{
			Spec:      tmpl.Spec.String(),
			Namespace: tmpl.Spec.Namespace,
			Name:      tmpl.Spec.Name,
			Version:   tmpl.Spec.Version,
		},
	}})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrSerialize, "failed to encode project manifest")
	}
	if err := h.write(filepath.Join(dir, ManifestFile), manifest); err != nil {
		return nil, err
	}
	result.FilesCreated = append(result.FilesCreated, ManifestFile)

	logger.Info().
		Str("template", tmpl.Spec.String()).
		Str("dir", dir).
		Int("filesCreated", len(result.FilesCreated)).
		Msg("Command finished")
	return result, nil
}

// checkTarget refuses anything at dir except an empty directory
func (h *Handler) checkTarget(dir string) error {
	exists, err := filesystem.Exists(h.FS, dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot access project directory %s", dir)
	}
	if !exists {
		return nil
	}
	info, err := h.FS.Stat(dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot access project directory %s", dir)
	}
	if info.IsDir() {
		empty, err := filesystem.IsEmptyDir(h.FS, dir)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot read project directory %s", dir)
		}
		if empty {
			return nil
		}
	}
	return errors.Newf(errors.ErrAlreadyExists, "project directory already exists (at %s)", dir).
		WithDetail("path", dir)
}

func (h *Handler) write(path string, data []byte) error {
	if err := h.FS.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory for %s", path)
	}
	if err := h.FS.WriteFile(path, data, filePerm); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path)
	}
	return nil
}

func (h *Handler) printSummary(r *Result) error {
	out := h.Term.Acquire()
	defer out.Release()

	out.SetStyle(style.Success)
	if _, err := fmt.Fprintf(out, "Successfully created new project from %s\n", r.Spec); err != nil {
		return err
	}
	out.Reset()
	lines := []string{
		"",
		"To start writing, run:",
		"> cd " + r.Dir,
		"> typeset compile " + r.Entrypoint,
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}
