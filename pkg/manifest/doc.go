// SPDX-License-Identifier: MPL-2.0

// Package manifest describes installed packages as extcfg sees them: identity
// and version, install location, autoload declarations and the configuration
// contributions listed in their extra metadata.
//
// The Composer decoders in this package read composer.json and
// vendor/composer/installed.json (both the Composer 1 array layout and the
// Composer 2 {"packages": [...]} layout). JSON objects are decoded in
// document order so that autoload entries and contributions keep the order
// their authors declared them in.
package manifest
