// SPDX-License-Identifier: MPL-2.0

// Package host adapts a Composer project on disk to an aggregation run.
//
// It reads the root manifest (composer.json) and the installed package list
// (<vendor>/composer/installed.json), resolves the vendor and output
// directories from the settings, and orders the packages: dependencies before
// dependents, with the root package placed last unless configured otherwise.
package host
