package initialize

import (
	"context"
	"embed"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/typeset/pkg/errors"
	"github.com/arthur-debert/typeset/pkg/filesystem"
	"github.com/arthur-debert/typeset/pkg/logging"
	"github.com/pelletier/go-toml/v2"
)

// ManifestFile is the name of both package manifests and the project file
// written by init
const ManifestFile = "typeset.toml"

const defaultEntrypoint = "main.typ"

//go:embed templates
var builtinFS embed.FS

// Template is a resolved project template. Files maps slash-separated paths,
// relative to the project root, to their content.
type Template struct {
	Spec       Spec
	Entrypoint string
	Files      map[string][]byte
}

// Paths returns the template's file paths in sorted order
func (t *Template) Paths() []string {
	paths := make([]string, 0, len(t.Files))
	for p := range t.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Resolver finds the files of a template
type Resolver interface {
	Resolve(ctx context.Context, spec Spec) (*Template, error)
}

// Builtins lists the names of the embedded templates
func Builtins() []string {
	entries, err := builtinFS.ReadDir("templates")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}

// BuiltinResolver serves the templates compiled into the binary
type BuiltinResolver struct{}

func (BuiltinResolver) Resolve(_ context.Context, spec Spec) (*Template, error) {
	root := path.Join("templates", spec.Name)
	if _, err := fs.Stat(builtinFS, root); err != nil {
		return nil, errors.Newf(errors.ErrTemplateNotFound, "unknown template: %s", spec.Name).
			WithHint("available templates: " + strings.Join(Builtins(), ", "))
	}

	tmpl := &Template{Spec: spec, Entrypoint: defaultEntrypoint, Files: map[string][]byte{}}
	err := fs.WalkDir(builtinFS, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := builtinFS.ReadFile(p)
		if err != nil {
			return err
		}
		rel := p[len(root)+1:]
		tmpl.Files[rel] = data
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInternal, "failed to read builtin template %s", spec.Name)
	}
	return tmpl, nil
}

// PackageResolver looks packages up in local package directories laid out
// as <dir>/<namespace>/<name>/<version>. It never downloads.
type PackageResolver struct {
	FS   filesystem.FS
	Dirs []string
}

// packageManifest is the part of a package's typeset.toml init cares about
type packageManifest struct {
	Package struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
	Template *struct {
		Path       string `toml:"path"`
		Entrypoint string `toml:"entrypoint"`
	} `toml:"template"`
}

func (r *PackageResolver) Resolve(_ context.Context, spec Spec) (*Template, error) {
	logger := logging.GetLogger("initialize")

	dir, resolved, err := r.locate(spec)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("package", resolved.String()).Str("dir", dir).Msg("Found template package")

	data, err := r.FS.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTemplateInvalid, "failed to read manifest of %s", resolved)
	}
	var manifest packageManifest
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrapf(err, errors.ErrTemplateInvalid, "failed to parse manifest of %s", resolved)
	}
	if manifest.Template == nil || manifest.Template.Path == "" {
		return nil, errors.Newf(errors.ErrTemplateInvalid, "package %s is not a template", resolved)
	}

	entrypoint := manifest.Template.Entrypoint
	if entrypoint == "" {
		entrypoint = defaultEntrypoint
	}
	tmpl := &Template{Spec: resolved, Entrypoint: entrypoint, Files: map[string][]byte{}}
	if err := r.collect(filepath.Join(dir, manifest.Template.Path), "", tmpl.Files); err != nil {
		return nil, errors.Wrapf(err, errors.ErrTemplateInvalid, "failed to read template files of %s", resolved)
	}
	if _, ok := tmpl.Files[entrypoint]; !ok {
		return nil, errors.Newf(errors.ErrTemplateInvalid, "template entrypoint %s is missing from %s", entrypoint, resolved)
	}
	return tmpl, nil
}

// locate returns the package directory and the spec with its version filled
// in. An explicit version is taken from the first directory that has it,
// otherwise the newest version across all directories wins.
func (r *PackageResolver) locate(spec Spec) (string, Spec, error) {
	var (
		bestDir string
		best    version
		found   bool
	)
	for _, root := range r.Dirs {
		if root == "" {
			continue
		}
		base := filepath.Join(root, spec.Namespace, spec.Name)
		if spec.Version != "" {
			dir := filepath.Join(base, spec.Version)
			if ok, _ := filesystem.Exists(r.FS, filepath.Join(dir, ManifestFile)); ok {
				return dir, spec, nil
			}
			continue
		}
		entries, err := r.FS.ReadDir(base)
		if err != nil {
			continue
		}
		for _, e := range entries {
			v, err := parseVersion(e.Name())
			if err != nil || !e.IsDir() {
				continue
			}
			if !found || best.less(v) {
				best, bestDir, found = v, filepath.Join(base, e.Name()), true
			}
		}
	}
	if !found {
		return "", spec, errors.Newf(errors.ErrTemplateNotFound, "package not found (searched for %s)", spec).
			WithHint("download the package first, or point --package-path at a directory that contains it")
	}
	spec.Version = filepath.Base(bestDir)
	return bestDir, spec, nil
}

func (r *PackageResolver) collect(dir, rel string, files map[string][]byte) error {
	entries, err := r.FS.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		childRel := path.Join(rel, e.Name())
		childPath := filepath.Join(dir, e.Name())
		if e.IsDir() {
			if err := r.collect(childPath, childRel, files); err != nil {
				return err
			}
			continue
		}
		data, err := r.FS.ReadFile(childPath)
		if err != nil {
			return err
		}
		files[childRel] = data
	}
	return nil
}

// chainResolver sends builtin specs to the embedded templates and package
// specs to the package directories
type chainResolver struct {
	builtin  Resolver
	packages Resolver
}

// NewResolver returns the resolver used by init: builtins plus packages
// found under dirs
func NewResolver(fsys filesystem.FS, dirs ...string) Resolver {
	return &chainResolver{
		builtin:  BuiltinResolver{},
		packages: &PackageResolver{FS: fsys, Dirs: dirs},
	}
}

func (c *chainResolver) Resolve(ctx context.Context, spec Spec) (*Template, error) {
	if spec.IsBuiltin() {
		return c.builtin.Resolve(ctx, spec)
	}
	return c.packages.Resolve(ctx, spec)
}
