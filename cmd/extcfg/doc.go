// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the CLI commands for extcfg.
//
// The root command wires an App holding the settings provider and output
// streams; every subcommand loads the Composer project through internal/host
// and delegates aggregation to internal/aggregate.
package cmd
