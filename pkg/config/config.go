package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/typeset/pkg/logging"
	"github.com/arthur-debert/typeset/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvConfigFile points at an alternative user config file
const EnvConfigFile = "TYPESET_CONFIG"

const envPrefix = "TYPESET_"

//go:embed embedded/defaults.toml
var defaultConfig []byte

// envAliases maps the short variable names to config keys
var envAliases = map[string]string{
	"TYPESET_ROOT":               "root",
	"TYPESET_CERT":               "cert",
	"TYPESET_FONT_PATHS":         "fonts.paths",
	"TYPESET_PACKAGE_PATH":       "packages.path",
	"TYPESET_PACKAGE_CACHE_PATH": "packages.cache_path",
}

// Config holds the user-tunable defaults for command-line flags
type Config struct {
	Color    string         `koanf:"color"`
	Root     string         `koanf:"root"`
	Cert     string         `koanf:"cert"`
	Compile  CompileConfig  `koanf:"compile"`
	Fonts    FontsConfig    `koanf:"fonts"`
	Packages PackagesConfig `koanf:"packages"`
	Init     InitConfig     `koanf:"init"`
	Query    QueryConfig    `koanf:"query"`
}

// CompileConfig holds defaults for compile and watch
type CompileConfig struct {
	Format           string  `koanf:"format"`
	PPI              float64 `koanf:"ppi"`
	DiagnosticFormat string  `koanf:"diagnostic_format"`
	Jobs             int     `koanf:"jobs"`
}

// FontsConfig holds font discovery defaults
type FontsConfig struct {
	Paths        []string `koanf:"paths"`
	IgnoreSystem bool     `koanf:"ignore_system"`
}

// PackagesConfig holds package storage locations
type PackagesConfig struct {
	Path      string `koanf:"path"`
	CachePath string `koanf:"cache_path"`
}

// InitConfig holds defaults for init
type InitConfig struct {
	Template string `koanf:"template"`
}

// QueryConfig holds defaults for query
type QueryConfig struct {
	Format string `koanf:"format"`
	Pretty bool   `koanf:"pretty"`
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Load builds the configuration from every layer
func Load() (*Config, error) {
	k := koanf.New(".")
	p := paths.New()

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Defaults that depend on the user's directories
	runtimeDefaults := map[string]interface{}{
		"packages.path":       p.PackageDir(),
		"packages.cache_path": p.PackageCacheDir(),
	}
	if err := k.Load(confmap.Provider(runtimeDefaults, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load runtime defaults: %w", err)
	}

	// 3. User config file if it exists
	configPath := userConfigPath(p)
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	}

	// 4. Environment variables
	if err := k.Load(env.ProviderWithValue(envPrefix, ".", envKeyValue), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	cfg.Fonts.Paths = expandAll(cfg.Fonts.Paths)
	cfg.Packages.Path = paths.ExpandHome(cfg.Packages.Path)
	cfg.Packages.CachePath = paths.ExpandHome(cfg.Packages.CachePath)
	cfg.Root = paths.ExpandHome(cfg.Root)

	return &cfg, nil
}

// LoadOrDefault loads the configuration, falling back to the embedded
// defaults when any layer is broken. The failure is logged, not returned.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err == nil {
		return cfg
	}

	logger := logging.GetLogger("config")
	logger.Warn().Err(err).Msg("Ignoring broken configuration, using defaults")

	return Defaults()
}

// Defaults returns the configuration with only the built-in layers applied
func Defaults() *Config {
	p := paths.New()
	return &Config{
		Color: "auto",
		Compile: CompileConfig{
			Format:           "pdf",
			PPI:              144,
			DiagnosticFormat: "human",
		},
		Packages: PackagesConfig{
			Path:      p.PackageDir(),
			CachePath: p.PackageCacheDir(),
		},
		Init:  InitConfig{Template: "default"},
		Query: QueryConfig{Format: "json"},
	}
}

func userConfigPath(p *paths.Paths) string {
	if path := os.Getenv(EnvConfigFile); path != "" {
		return paths.ExpandHome(path)
	}
	return p.ConfigFile()
}

// envKeyValue maps TYPESET_* variables to config keys. Variables that are
// neither aliases nor double-underscore keys are skipped by returning "".
func envKeyValue(name, value string) (string, interface{}) {
	if value == "" {
		return "", nil
	}
	if key, ok := envAliases[name]; ok {
		if key == "fonts.paths" {
			return key, splitPathList(value)
		}
		return key, value
	}

	rest := strings.TrimPrefix(name, envPrefix)
	if !strings.Contains(rest, "__") {
		return "", nil
	}
	key := strings.ToLower(strings.ReplaceAll(rest, "__", "."))
	return key, value
}

func splitPathList(value string) []string {
	var out []string
	for _, part := range filepath.SplitList(value) {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func expandAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, path := range in {
		out = append(out, paths.ExpandHome(path))
	}
	return out
}
