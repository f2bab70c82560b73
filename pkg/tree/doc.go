// SPDX-License-Identifier: MPL-2.0

// Package tree defines the nested configuration value used throughout extcfg
// and the deep-merge operator that folds package contributions together.
//
// A [Value] is a sealed variant: [Null], [Bool], [Int], [Float], [String],
// [Expr], [Seq] or [*Map]. Maps keep insertion order so that emitted artifacts
// are deterministic and follow the order in which packages declared their keys.
//
// # Merge semantics
//
// [Merge] folds sources into a target from left to right:
//
//   - sources that are not maps are ignored
//   - map + map under the same key recurse
//   - seq + seq under the same key concatenate (positions already holding a
//     non-null value are appended to, empty or null positions are filled)
//   - an empty map or seq leaves an existing map or seq alone
//   - seq + map mix by index keys ("0", "1", ...), with the same append rule
//   - anything else is replaced by the incoming value
//
// Merge never mutates its arguments; values inserted from a source are deep
// copies.
package tree
