// SPDX-License-Identifier: MPL-2.0

// Package aggregate folds the metadata and configuration contributions of
// every installed package into one set of sections and writes one artifact
// per section.
//
// A run processes packages strictly in the order it is given. For each
// package it records an extension entry, merges the package's aliases into
// the "aliases" section and deep-merges each contribution file into the
// section named after the contribution. Nothing is written until every
// package has been processed: a failing run leaves the output directory
// untouched.
package aggregate
