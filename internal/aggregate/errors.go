// SPDX-License-Identifier: MPL-2.0

package aggregate

import (
	"errors"
	"fmt"

	"github.com/extcfg/extcfg/pkg/types"
)

var (
	// ErrContributionNotFound is returned when a declared contribution file
	// does not exist.
	ErrContributionNotFound = errors.New("contribution file not found")

	// ErrInvalidSectionName is returned for contribution names that cannot
	// name an output artifact.
	ErrInvalidSectionName = errors.New("invalid section name")

	// ErrWrite is returned when an artifact cannot be written.
	ErrWrite = errors.New("cannot write artifact")
)

type (
	// ContributionNotFoundError names the package and contribution whose
	// file is missing.
	ContributionNotFoundError struct {
		Package      string
		Contribution string
		Path         types.FilesystemPath
	}

	// ContributionError wraps a failure to load or merge an existing
	// contribution file.
	ContributionError struct {
		Package      string
		Contribution string
		Path         types.FilesystemPath
		Err          error
	}

	// InvalidSectionNameError reports an unusable contribution name.
	InvalidSectionNameError struct {
		Package string
		Name    string
	}

	// WriteError wraps the I/O failure of writing one artifact.
	WriteError struct {
		Path types.FilesystemPath
		Err  error
	}
)

// Error implements the error interface.
func (e *ContributionNotFoundError) Error() string {
	return fmt.Sprintf("package %s: contribution %q: file %s does not exist", e.Package, e.Contribution, e.Path)
}

// Unwrap returns ErrContributionNotFound for errors.Is() compatibility.
func (e *ContributionNotFoundError) Unwrap() error { return ErrContributionNotFound }

// Error implements the error interface.
func (e *ContributionError) Error() string {
	return fmt.Sprintf("package %s: contribution %q: %v", e.Package, e.Contribution, e.Err)
}

// Unwrap returns the underlying load error.
func (e *ContributionError) Unwrap() error { return e.Err }

// Error implements the error interface.
func (e *InvalidSectionNameError) Error() string {
	return fmt.Sprintf("package %s: invalid contribution name %q: must be a plain file name", e.Package, e.Name)
}

// Unwrap returns ErrInvalidSectionName for errors.Is() compatibility.
func (e *InvalidSectionNameError) Unwrap() error { return ErrInvalidSectionName }

// Error implements the error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

// Unwrap returns both ErrWrite and the underlying I/O error.
func (e *WriteError) Unwrap() []error { return []error{ErrWrite, e.Err} }
