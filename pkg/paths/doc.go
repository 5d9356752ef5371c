// Package paths provides centralized path handling for typeset.
//
// This package implements the XDG Base Directory specification and provides
// a consistent API for the per-user locations typeset reads and writes:
//
//   - Config: $XDG_CONFIG_HOME/typeset (config.toml)
//   - Data: $XDG_DATA_HOME/typeset (greeting marker, local packages)
//   - Cache: $XDG_CACHE_HOME/typeset (downloaded packages)
//   - State: $XDG_STATE_HOME/typeset (log file)
//
// # Environment Variables
//
// Each location can be overridden:
//
//   - TYPESET_CONFIG_DIR
//   - TYPESET_DATA_DIR
//   - TYPESET_CACHE_DIR
//   - TYPESET_STATE_DIR
//
// A leading "~/" in an override is expanded to the user's home directory.
package paths
