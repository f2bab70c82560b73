// SPDX-License-Identifier: MPL-2.0

// Package config handles extcfg settings using Viper with CUE as the file format.
//
// Settings are read from the file named by --config or, when absent, from
// extcfg.cue in the project directory. Without either file the defaults apply.
// Environment variables prefixed with EXTCFG_ override file values
// (EXTCFG_FORMAT=lua, EXTCFG_ROOT_POSITION=first).
//
// Files are validated against an embedded CUE schema (config_schema.cue) so
// that typos in field names and invalid enum values are reported with the
// offending position.
package config
