// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/extcfg/extcfg/internal/aggregate"
	"github.com/extcfg/extcfg/internal/config"
	"github.com/extcfg/extcfg/internal/host"
	"github.com/extcfg/extcfg/internal/issue"
	"github.com/extcfg/extcfg/internal/loader"
	"github.com/extcfg/extcfg/pkg/manifest"
	"github.com/extcfg/extcfg/pkg/types"
)

// classifyError maps a failed run to an issue catalog ID, an exit code and a
// styled message. Actionable error details are preserved.
func classifyError(err error, verbose bool) (issueID issue.Id, code types.ExitCode, styledMsg string) {
	code = types.ExitFailure

	var ae *issue.ActionableError
	switch {
	case errors.Is(err, aggregate.ErrContributionNotFound):
		issueID = issue.ContributionNotFoundId
	case errors.Is(err, loader.ErrUnsupportedFormat):
		issueID = issue.UnsupportedFormatId
	case errors.Is(err, aggregate.ErrInvalidSectionName),
		errors.Is(err, manifest.ErrInvalidContributions),
		errors.As(err, new(*aggregate.ContributionError)):
		issueID = issue.ContributionInvalidId
	case errors.Is(err, host.ErrManifestNotFound):
		issueID = issue.ManifestNotFoundId
	case errors.Is(err, host.ErrManifestInvalid):
		issueID = issue.ManifestParseErrorId
	case errors.Is(err, aggregate.ErrWrite):
		issueID = issue.OutputNotWritableId
	case errors.Is(err, config.ErrInvalidLoadOptions),
		errors.As(err, &ae) && (ae.Operation == "load configuration" || ae.Operation == "validate configuration"):
		issueID = issue.ConfigLoadFailedId
		code = types.ExitUsage
	}

	return issueID, code, fmt.Sprintf("\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))
}

// formatErrorForDisplay uses the ActionableError format when available. In
// verbose mode the full error chain is shown.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
