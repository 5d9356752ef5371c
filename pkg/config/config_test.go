package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/typeset/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every directory and config override at a fresh temp dir
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(paths.EnvConfigDir, filepath.Join(dir, "config"))
	t.Setenv(paths.EnvDataDir, filepath.Join(dir, "data"))
	t.Setenv(paths.EnvCacheDir, filepath.Join(dir, "cache"))
	t.Setenv(paths.EnvStateDir, filepath.Join(dir, "state"))
	for name := range envAliases {
		t.Setenv(name, "")
	}
	t.Setenv(EnvConfigFile, "")
	return dir
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	configDir := filepath.Join(dir, "config")
	require.NoError(t, os.MkdirAll(configDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, paths.ConfigFileName), []byte(content), 0644))
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "auto", cfg.Color)
	assert.Equal(t, "pdf", cfg.Compile.Format)
	assert.Equal(t, 144.0, cfg.Compile.PPI)
	assert.Equal(t, "human", cfg.Compile.DiagnosticFormat)
	assert.Equal(t, "default", cfg.Init.Template)
	assert.Equal(t, "json", cfg.Query.Format)
	assert.False(t, cfg.Query.Pretty)
	assert.Empty(t, cfg.Fonts.Paths)
	assert.Equal(t, filepath.Join(dir, "data", paths.PackagesDir), cfg.Packages.Path)
	assert.Equal(t, filepath.Join(dir, "cache", paths.PackagesDir), cfg.Packages.CachePath)
}

func TestLoad_UserFileOverridesDefaults(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, `
color = "never"

[compile]
ppi = 300.0
diagnostic_format = "short"

[fonts]
paths = ["/opt/fonts", "/usr/share/myfonts"]

[query]
format = "yaml"
pretty = true
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "never", cfg.Color)
	assert.Equal(t, 300.0, cfg.Compile.PPI)
	assert.Equal(t, "short", cfg.Compile.DiagnosticFormat)
	assert.Equal(t, "pdf", cfg.Compile.Format, "untouched keys keep their default")
	assert.Equal(t, []string{"/opt/fonts", "/usr/share/myfonts"}, cfg.Fonts.Paths)
	assert.Equal(t, "yaml", cfg.Query.Format)
	assert.True(t, cfg.Query.Pretty)
}

func TestLoad_ExplicitConfigFile(t *testing.T) {
	dir := isolate(t)
	custom := filepath.Join(dir, "elsewhere.toml")
	require.NoError(t, os.WriteFile(custom, []byte("[init]\ntemplate = \"article\"\n"), 0644))
	t.Setenv(EnvConfigFile, custom)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "article", cfg.Init.Template)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "root = \"/from/file\"\n")

	t.Setenv("TYPESET_ROOT", "/from/env")
	t.Setenv("TYPESET_FONT_PATHS", "/a"+string(os.PathListSeparator)+"/b")
	t.Setenv("TYPESET_PACKAGE_PATH", "/pkgs")
	t.Setenv("TYPESET_COMPILE__PPI", "72")
	t.Setenv("TYPESET_QUERY__PRETTY", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/from/env", cfg.Root)
	assert.Equal(t, []string{"/a", "/b"}, cfg.Fonts.Paths)
	assert.Equal(t, "/pkgs", cfg.Packages.Path)
	assert.Equal(t, 72.0, cfg.Compile.PPI)
	assert.True(t, cfg.Query.Pretty)
}

func TestLoad_BrokenFile(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "this is = = not toml")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")

	cfg := LoadOrDefault()
	assert.Equal(t, Defaults(), cfg)
}

func TestEnvKeyValue(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		value   string
		wantKey string
	}{
		{"alias", "TYPESET_CERT", "/ca.pem", "cert"},
		{"nested key", "TYPESET_COMPILE__DIAGNOSTIC_FORMAT", "short", "compile.diagnostic_format"},
		{"directory override is ignored", "TYPESET_DATA_DIR", "/d", ""},
		{"config file pointer is ignored", "TYPESET_CONFIG", "/c.toml", ""},
		{"empty value is ignored", "TYPESET_ROOT", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, _ := envKeyValue(tt.env, tt.value)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}
