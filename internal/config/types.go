// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/extcfg/extcfg/internal/render"
)

const (
	// OrderDependency processes packages after the packages they require.
	OrderDependency OrderMode = "dependency"
	// OrderInstalled keeps the order of installed.json.
	OrderInstalled OrderMode = "installed"

	// RootLast processes the root package after every installed package,
	// so its contributions override theirs.
	RootLast RootPosition = "last"
	// RootFirst processes the root package before every installed package.
	RootFirst RootPosition = "first"
)

var (
	// ErrInvalidOrderMode is the sentinel error wrapped by InvalidOrderModeError.
	ErrInvalidOrderMode = errors.New("invalid order mode")
	// ErrInvalidRootPosition is the sentinel error wrapped by InvalidRootPositionError.
	ErrInvalidRootPosition = errors.New("invalid root position")
	// ErrInvalidLegacyPath is the sentinel error wrapped by InvalidLegacyPathError.
	ErrInvalidLegacyPath = errors.New("invalid legacy extensions file")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// OrderMode selects how packages are ordered before processing.
	OrderMode string

	// InvalidOrderModeError is returned when an OrderMode value is not recognized.
	InvalidOrderModeError struct {
		Value OrderMode
	}

	// RootPosition selects where the root package is processed.
	RootPosition string

	// InvalidRootPositionError is returned when a RootPosition value is not recognized.
	InvalidRootPositionError struct {
		Value RootPosition
	}

	// InvalidLegacyPathError is returned for a legacy extensions file that is
	// absolute or escapes the vendor directory.
	InvalidLegacyPathError struct {
		Value string
	}

	// InvalidConfigError collects the field-level errors of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the extcfg settings.
	Config struct {
		// VendorDir is relative to the project directory. Empty defers to
		// composer.json config.vendor-dir.
		VendorDir string `json:"vendor_dir" mapstructure:"vendor_dir"`
		// OutputDir is relative to the vendor directory unless absolute.
		OutputDir string        `json:"output_dir" mapstructure:"output_dir"`
		Format    render.Format `json:"format" mapstructure:"format"`
		// PackageType is the package type recognized as an extension.
		PackageType string `json:"package_type" mapstructure:"package_type"`
		// ExtraKey is the key inside extra listing contributions.
		ExtraKey     string       `json:"extra_key" mapstructure:"extra_key"`
		Order        OrderMode    `json:"order" mapstructure:"order"`
		RootPosition RootPosition `json:"root_position" mapstructure:"root_position"`
		// SeedVendorAlias seeds the @vendor alias.
		SeedVendorAlias bool `json:"seed_vendor_alias" mapstructure:"seed_vendor_alias"`
		// LegacyExtensionsFile is a vendor-relative slash path overwritten with
		// an empty artifact on every run. Empty disables it.
		LegacyExtensionsFile string `json:"legacy_extensions_file" mapstructure:"legacy_extensions_file"`

		// Source is the settings file the values were read from, empty when
		// only defaults and environment applied.
		Source string `json:"-" mapstructure:"-"`
	}
)

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		OutputDir:       "extcfg",
		Format:          render.FormatPHP,
		PackageType:     "yii2-extension",
		ExtraKey:        "extension-plugin",
		Order:           OrderDependency,
		RootPosition:    RootLast,
		SeedVendorAlias: true,
	}
}

// Validate checks the enum fields and the legacy path. It is applied after
// environment overrides, which bypass the CUE schema.
func (c Config) Validate() error {
	var errs []error
	if err := c.Format.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Order.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.RootPosition.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.LegacyExtensionsFile != "" {
		p := c.LegacyExtensionsFile
		if strings.HasPrefix(p, "/") || path.Clean(p) == ".." || strings.HasPrefix(path.Clean(p), "../") {
			errs = append(errs, &InvalidLegacyPathError{Value: p})
		}
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig and the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// String returns the string representation of the OrderMode.
func (m OrderMode) String() string { return string(m) }

// Validate returns an error if m is not a known order mode.
func (m OrderMode) Validate() error {
	switch m {
	case OrderDependency, OrderInstalled:
		return nil
	default:
		return &InvalidOrderModeError{Value: m}
	}
}

// Error implements the error interface.
func (e *InvalidOrderModeError) Error() string {
	return fmt.Sprintf("invalid order %q (valid: dependency, installed)", e.Value)
}

// Unwrap returns ErrInvalidOrderMode for errors.Is() compatibility.
func (e *InvalidOrderModeError) Unwrap() error { return ErrInvalidOrderMode }

// String returns the string representation of the RootPosition.
func (p RootPosition) String() string { return string(p) }

// Validate returns an error if p is not a known root position.
func (p RootPosition) Validate() error {
	switch p {
	case RootLast, RootFirst:
		return nil
	default:
		return &InvalidRootPositionError{Value: p}
	}
}

// Error implements the error interface.
func (e *InvalidRootPositionError) Error() string {
	return fmt.Sprintf("invalid root_position %q (valid: last, first)", e.Value)
}

// Unwrap returns ErrInvalidRootPosition for errors.Is() compatibility.
func (e *InvalidRootPositionError) Unwrap() error { return ErrInvalidRootPosition }

// Error implements the error interface.
func (e *InvalidLegacyPathError) Error() string {
	return fmt.Sprintf("invalid legacy_extensions_file %q: must be relative to the vendor directory", e.Value)
}

// Unwrap returns ErrInvalidLegacyPath for errors.Is() compatibility.
func (e *InvalidLegacyPathError) Unwrap() error { return ErrInvalidLegacyPath }
