// SPDX-License-Identifier: MPL-2.0

// Package projecttest builds on-disk projects for tests: a root composer.json,
// vendor/composer/installed.json and the files packages contribute.
//
// This package is separate from testutil so that testutil stays free of
// domain imports.
//
// # Usage
//
//	p := projecttest.New(t)
//	p.Root("acme/app", projecttest.WithPSR4(`App\`, "src/"))
//	p.Install("acme/ext",
//	    projecttest.WithType("yii2-extension"),
//	    projecttest.WithContribution("web", "config/web.json"),
//	)
//	p.PackageFile("acme/ext", "config/web.json", `{"components": {}}`)
//	p.Write()
package projecttest
