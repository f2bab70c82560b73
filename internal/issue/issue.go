// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

const (
	ContributionNotFoundId Id = iota + 1
	ContributionInvalidId
	ManifestNotFoundId
	ManifestParseErrorId
	ConfigLoadFailedId
	OutputNotWritableId
	DependencyCycleId
	UnsupportedFormatId
)

type (
	Id int

	MarkdownMsg string

	HttpLink string

	Issue struct {
		id       Id          // ID used to lookup the issue
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		docLinks []HttpLink
		extLinks []HttpLink // external links that might be useful for the user
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue as styled terminal text. stylePath is a glamour
// standard style name ("dark", "light", "notty") or a JSON style file.
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
		for _, link := range i.extLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	contributionNotFoundIssue = &Issue{
		id: ContributionNotFoundId,
		mdMsg: `
# Contribution file not found!

A package declares a configuration contribution whose file does not exist.
Nothing was written: the previous generated files are still in place.

## Things you can try:
- Check the paths listed under the package's ` + "`extra.extension-plugin`" + ` object
- Paths are relative to the package directory, not to the project
- Reinstall the package in case its files are incomplete:
~~~
$ composer reinstall vendor/package
~~~`,
	}

	contributionInvalidIssue = &Issue{
		id: ContributionInvalidId,
		mdMsg: `
# Contribution file could not be loaded!

A contribution file exists but could not be decoded.

## Supported formats:
- ` + "`.cue`" + `, ` + "`.yaml`" + `/` + "`.yml`" + `, ` + "`.toml`" + `, ` + "`.json`" + `, ` + "`.lua`" + `

## Things you can try:
- Fix the syntax error reported above
- Make sure the file's top level is a mapping
- Run with ` + "`--verbose`" + ` to see the full error chain`,
	}

	manifestNotFoundIssue = &Issue{
		id: ManifestNotFoundId,
		mdMsg: `
# No composer.json found!

extcfg reads the root package from ` + "`composer.json`" + ` in the project directory.

## Things you can try:
- Run extcfg from the project root, or pass it explicitly:
~~~
$ extcfg generate --dir /path/to/project
~~~`,
		extLinks: []HttpLink{"https://getcomposer.org/doc/04-schema.md"},
	}

	manifestParseErrorIssue = &Issue{
		id: ManifestParseErrorId,
		mdMsg: `
# Failed to read package metadata!

` + "`composer.json`" + ` or ` + "`vendor/composer/installed.json`" + ` is not valid.

## Things you can try:
- Validate the root manifest:
~~~
$ composer validate
~~~

- Regenerate the installed package list:
~~~
$ composer install
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The extcfg settings file could not be loaded.

## Settings file locations (in order of precedence):
1. The file given with ` + "`--config`" + `
2. ` + "`extcfg.cue`" + ` in the project directory

## Things you can try:
- Check the CUE syntax of the file
- Print the effective settings:
~~~
$ extcfg config show
~~~

- Start from the defaults:
~~~
$ extcfg config dump > extcfg.cue
~~~`,
	}

	outputNotWritableIssue = &Issue{
		id: OutputNotWritableId,
		mdMsg: `
# Cannot write generated files!

The output directory is not writable.

## Things you can try:
- Check the permissions of the vendor directory
- Point ` + "`output_dir`" + ` somewhere writable in ` + "`extcfg.cue`" + `
- Make sure no regular file exists where the output directory should be`,
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Dependency cycle between packages!

The installed packages require each other in a cycle, so no dependency order
exists. extcfg fell back to the installed order for the packages involved.

## Things you can try:
- Review the ` + "`require`" + ` sections of the packages listed above
- Force the installed order to silence the warning:
~~~cue
order: "installed"
~~~`,
	}

	unsupportedFormatIssue = &Issue{
		id: UnsupportedFormatId,
		mdMsg: `
# Unsupported contribution format!

The contribution file's extension has no registered loader.

## Supported extensions:
- ` + "`.cue`" + `, ` + "`.yaml`" + `, ` + "`.yml`" + `, ` + "`.toml`" + `, ` + "`.json`" + `, ` + "`.lua`" + `

## Things you can try:
- Convert the file to one of the supported formats
- PHP contribution files need a PHP runtime and are not read by extcfg`,
	}

	issues = map[Id]*Issue{
		contributionNotFoundIssue.Id(): contributionNotFoundIssue,
		contributionInvalidIssue.Id():  contributionInvalidIssue,
		manifestNotFoundIssue.Id():     manifestNotFoundIssue,
		manifestParseErrorIssue.Id():   manifestParseErrorIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		outputNotWritableIssue.Id():    outputNotWritableIssue,
		dependencyCycleIssue.Id():      dependencyCycleIssue,
		unsupportedFormatIssue.Id():    unsupportedFormatIssue,
	}
)

// Values returns every catalog entry, ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
