package initialize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arthur-debert/typeset/pkg/errors"
)

// Spec identifies a template: either a builtin by name or a package
// "@namespace/name:version". Version may be empty for packages, in which
// case the newest locally available version is used.
type Spec struct {
	Namespace string
	Name      string
	Version   string
}

// IsBuiltin reports whether the spec names an embedded template
func (s Spec) IsBuiltin() bool {
	return s.Namespace == ""
}

// String formats the spec the way it is written on the command line
func (s Spec) String() string {
	if s.IsBuiltin() {
		return s.Name
	}
	out := "@" + s.Namespace + "/" + s.Name
	if s.Version != "" {
		out += ":" + s.Version
	}
	return out
}

// ParseSpec parses a template spec
func ParseSpec(raw string) (Spec, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Spec{}, errors.New(errors.ErrTemplateInvalid, "template name cannot be empty")
	}

	if !strings.HasPrefix(s, "@") {
		if !isIdent(s) {
			return Spec{}, invalidSpec(raw, "invalid template name")
		}
		return Spec{Name: s}, nil
	}

	namespace, rest, ok := strings.Cut(s[1:], "/")
	if !ok {
		return Spec{}, invalidSpec(raw, "package specification is missing name")
	}
	if !isIdent(namespace) {
		return Spec{}, invalidSpec(raw, "invalid package namespace")
	}

	name, version, hasVersion := strings.Cut(rest, ":")
	if !isIdent(name) {
		return Spec{}, invalidSpec(raw, "invalid package name")
	}
	if hasVersion {
		if _, err := parseVersion(version); err != nil {
			return Spec{}, invalidSpec(raw, "invalid package version")
		}
	}
	return Spec{Namespace: namespace, Name: name, Version: version}, nil
}

func invalidSpec(raw, reason string) error {
	return errors.Newf(errors.ErrTemplateInvalid, "%s: %s", reason, raw).
		WithHint("templates are named like `article` or `@namespace/name:1.0.0`")
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case i > 0 && (r >= '0' && r <= '9' || r == '-'):
		default:
			return false
		}
	}
	return true
}

// version is a parsed major.minor.patch triple
type version [3]int

func parseVersion(s string) (version, error) {
	var v version
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return v, fmt.Errorf("version %q must have three parts", s)
	}
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return v, fmt.Errorf("version part %q is not a number", part)
		}
		v[i] = n
	}
	return v, nil
}

func (v version) less(other version) bool {
	for i := range v {
		if v[i] != other[i] {
			return v[i] < other[i]
		}
	}
	return false
}
