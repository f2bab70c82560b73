// SPDX-License-Identifier: MPL-2.0

// Package render serializes configuration sections into self-contained,
// loadable artifacts.
//
// Every artifact starts by computing the project base directory at load time
// and then returns the section as a literal. Strings that begin with
// fspath.BaseDirPlaceholder are emitted as a concatenation of that computed
// value and the remainder, so artifacts keep working after the project is
// moved. tree.Expr nodes are emitted verbatim in place.
//
// Two formats exist: PHP (short array syntax, the default) and Lua (a chunk
// returning a table).
package render
