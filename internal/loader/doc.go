// SPDX-License-Identifier: MPL-2.0

// Package loader reads contribution files into configuration trees.
//
// The format is chosen by file extension:
//
//	.cue          CUE (fields in declaration order, @expr() marks expressions)
//	.yaml, .yml   YAML (mapping order kept, !expr tags, merge keys)
//	.toml         TOML (table order kept)
//	.json         JSON (object order kept)
//	.lua          Lua chunk returning a table (keys sorted, functions kept as source)
//
// Every format also accepts the {"$expr": "<source>"} form for executable
// expressions. A contribution file must produce a mapping at the top level.
package loader
