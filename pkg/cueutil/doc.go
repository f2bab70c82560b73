// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides the CUE helpers shared by the settings loader and
// the CUE contribution loader.
//
// Settings files follow the schema flow:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify with schema
//  3. Validate and decode to Go struct
//
// For example:
//
//	//go:embed config_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[Config](
//	    schemaBytes,
//	    userFileBytes,
//	    "#Config",
//	    cueutil.WithFilename("extcfg.cue"),
//	)
//
// Contribution files have no schema; [Compile] only checks that they are
// well-formed and concrete. Every entry point enforces a file size limit and
// reports CUE errors with JSON-path prefixes (see [FormatError]).
package cueutil
