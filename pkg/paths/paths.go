package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvConfigDir overrides the XDG config directory for typeset
	EnvConfigDir = "TYPESET_CONFIG_DIR"

	// EnvDataDir overrides the XDG data directory for typeset
	EnvDataDir = "TYPESET_DATA_DIR"

	// EnvCacheDir overrides the XDG cache directory for typeset
	EnvCacheDir = "TYPESET_CACHE_DIR"

	// EnvStateDir overrides the XDG state directory for typeset
	EnvStateDir = "TYPESET_STATE_DIR"
)

// Fixed names below the XDG directories. These are not user-configurable.
const (
	// AppDirName is the directory name used under every XDG base directory
	AppDirName = "typeset"

	// ConfigFileName is the name of the user configuration file
	ConfigFileName = "config.toml"

	// LogFileName is the name of the log file
	LogFileName = "typeset.log"

	// GreetingMarker records that the welcome banner was shown
	GreetingMarker = "greeted"

	// PackagesDir holds locally installed and cached packages
	PackagesDir = "packages"
)

// Paths resolves the per-user directories typeset uses.
type Paths struct {
	configDir string
	dataDir   string
	cacheDir  string
	stateDir  string
}

// New resolves all directories from the environment. It never touches the
// filesystem; callers create directories on demand.
func New() *Paths {
	return &Paths{
		configDir: resolve(EnvConfigDir, "XDG_CONFIG_HOME", xdg.ConfigHome),
		dataDir:   resolve(EnvDataDir, "XDG_DATA_HOME", xdg.DataHome),
		cacheDir:  resolve(EnvCacheDir, "XDG_CACHE_HOME", xdg.CacheHome),
		stateDir:  resolve(EnvStateDir, "XDG_STATE_HOME", xdg.StateHome),
	}
}

// ConfigDir returns the typeset config directory
func (p *Paths) ConfigDir() string { return p.configDir }

// DataDir returns the typeset data directory
func (p *Paths) DataDir() string { return p.dataDir }

// CacheDir returns the typeset cache directory
func (p *Paths) CacheDir() string { return p.cacheDir }

// StateDir returns the typeset state directory
func (p *Paths) StateDir() string { return p.stateDir }

// ConfigFile returns the path of the user configuration file
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.configDir, ConfigFileName)
}

// LogFile returns the path of the log file
func (p *Paths) LogFile() string {
	return filepath.Join(p.stateDir, LogFileName)
}

// GreetingMarkerFile returns the path of the marker written after the
// welcome banner was shown once
func (p *Paths) GreetingMarkerFile() string {
	return filepath.Join(p.dataDir, GreetingMarker)
}

// PackageDir returns the directory for locally installed packages
func (p *Paths) PackageDir() string {
	return filepath.Join(p.dataDir, PackagesDir)
}

// PackageCacheDir returns the directory for downloaded packages
func (p *Paths) PackageCacheDir() string {
	return filepath.Join(p.cacheDir, PackagesDir)
}

// resolve picks the override variable, then the XDG variable as currently
// set in the environment, then the value xdg computed at startup.
func resolve(override, xdgVar, xdgDefault string) string {
	if dir := os.Getenv(override); dir != "" {
		return ExpandHome(dir)
	}
	if base := os.Getenv(xdgVar); base != "" {
		return filepath.Join(base, AppDirName)
	}
	return filepath.Join(xdgDefault, AppDirName)
}

// ExpandHome expands a leading "~" or "~/" to the user's home directory
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
