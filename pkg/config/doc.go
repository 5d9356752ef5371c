// Package config handles configuration management for typeset.
//
// Configuration is layered with koanf, later layers overriding earlier ones:
//
//  1. Embedded defaults (embedded/defaults.toml)
//  2. Runtime defaults derived from the XDG directories (package paths)
//  3. The user config file, $XDG_CONFIG_HOME/typeset/config.toml, or the
//     file named by TYPESET_CONFIG
//  4. Environment variables
//
// Environment variables use the TYPESET_ prefix. Nested keys are separated
// by a double underscore (TYPESET_COMPILE__PPI sets compile.ppi). A few
// well-known short names are also accepted:
//
//	TYPESET_ROOT                -> root
//	TYPESET_CERT                -> cert
//	TYPESET_FONT_PATHS          -> fonts.paths (OS path-list separated)
//	TYPESET_PACKAGE_PATH        -> packages.path
//	TYPESET_PACKAGE_CACHE_PATH  -> packages.cache_path
//
// The resulting values are only defaults for command-line flags; a flag given
// on the command line always wins.
package config
