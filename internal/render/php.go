// SPDX-License-Identifier: MPL-2.0

package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/extcfg/extcfg/pkg/fspath"
	"github.com/extcfg/extcfg/pkg/tree"
)

const phpIndent = "    "

// PHP renders artifacts as PHP files returning a short-syntax array:
//
//	<?php
//
//	$baseDir = dirname(dirname(__DIR__));
//
//	return [
//	    '@vendor' => $baseDir . '/vendor',
//	];
type PHP struct{}

// Ext implements Renderer.
func (PHP) Ext() string { return ".php" }

// Render implements Renderer.
func (PHP) Render(v tree.Value, layout Layout) ([]byte, error) {
	var b strings.Builder
	b.WriteString("<?php\n\n$baseDir = ")
	b.WriteString(phpBaseDir(layout))
	b.WriteString(";\n\nreturn ")
	if err := phpValue(&b, v, 0); err != nil {
		return nil, err
	}
	b.WriteString(";\n")
	return []byte(b.String()), nil
}

func phpBaseDir(layout Layout) string {
	if layout.Absolute != "" {
		return phpString(layout.Absolute)
	}
	return strings.Repeat("dirname(", layout.Depth) + "__DIR__" + strings.Repeat(")", layout.Depth)
}

func phpValue(b *strings.Builder, v tree.Value, level int) error {
	switch t := v.(type) {
	case nil, tree.Null:
		b.WriteString("null")
	case tree.Bool:
		b.WriteString(strconv.FormatBool(bool(t)))
	case tree.Int:
		b.WriteString(strconv.FormatInt(int64(t), 10))
	case tree.Float:
		b.WriteString(phpFloat(float64(t)))
	case tree.String:
		b.WriteString(phpPlaceholderString(string(t)))
	case tree.Expr:
		b.WriteString(string(t))
	case tree.Seq:
		if len(t) == 0 {
			b.WriteString("[]")
			return nil
		}
		b.WriteString("[\n")
		for _, e := range t {
			b.WriteString(strings.Repeat(phpIndent, level+1))
			if err := phpValue(b, e, level+1); err != nil {
				return err
			}
			b.WriteString(",\n")
		}
		b.WriteString(strings.Repeat(phpIndent, level) + "]")
	case *tree.Map:
		if t.Len() == 0 {
			b.WriteString("[]")
			return nil
		}
		b.WriteString("[\n")
		for k, e := range t.All() {
			b.WriteString(strings.Repeat(phpIndent, level+1))
			b.WriteString(phpString(k))
			b.WriteString(" => ")
			if err := phpValue(b, e, level+1); err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
			b.WriteString(",\n")
		}
		b.WriteString(strings.Repeat(phpIndent, level) + "]")
	default:
		return fmt.Errorf("unsupported value %T", v)
	}
	return nil
}

func phpPlaceholderString(s string) string {
	rest, ok := fspath.HasPlaceholder(s)
	if !ok {
		return phpString(s)
	}
	if rest == "" {
		return "$baseDir"
	}
	return "$baseDir . " + phpString(rest)
}

// phpString quotes s as a single-quoted PHP literal, where only the
// backslash and the quote need escaping.
func phpString(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s) + "'"
}

func phpFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NAN"
	case math.IsInf(f, 1):
		return "INF"
	case math.IsInf(f, -1):
		return "-INF"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
