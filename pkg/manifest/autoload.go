// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"fmt"

	"github.com/extcfg/extcfg/pkg/tree"
)

const (
	// PSR0 is the legacy namespace-to-directory convention: the namespace is
	// appended to the declared directory.
	PSR0 AutoloadKind = "psr-0"
	// PSR4 maps a namespace prefix directly onto the declared directory.
	PSR4 AutoloadKind = "psr-4"
)

type (
	// AutoloadKind names an autoload convention.
	AutoloadKind string

	// InvalidAutoloadKindError is returned for an unsupported convention name.
	InvalidAutoloadKindError struct {
		Value AutoloadKind
	}

	// AutoloadEntry is one namespace declaration. List is set when the
	// declaration used the list form, even with a single path: such entries
	// are ambiguous and produce no alias.
	AutoloadEntry struct {
		Namespace string
		Paths     []string
		List      bool
	}

	// Autoload holds the entries of each convention in declaration order.
	Autoload map[AutoloadKind][]AutoloadEntry
)

// AutoloadKinds returns the supported conventions in processing order.
func AutoloadKinds() []AutoloadKind { return []AutoloadKind{PSR0, PSR4} }

// String returns the string representation of the AutoloadKind.
func (k AutoloadKind) String() string { return string(k) }

// Validate returns an error if k is not a supported convention.
func (k AutoloadKind) Validate() error {
	switch k {
	case PSR0, PSR4:
		return nil
	default:
		return &InvalidAutoloadKindError{Value: k}
	}
}

// Error implements the error interface.
func (e *InvalidAutoloadKindError) Error() string {
	return fmt.Sprintf("invalid autoload kind %q (valid: psr-0, psr-4)", e.Value)
}

// Unwrap returns ErrInvalidAutoloadKind for errors.Is() compatibility.
func (e *InvalidAutoloadKindError) Unwrap() error { return ErrInvalidAutoloadKind }

// Path returns the single path of a non-list entry.
func (e AutoloadEntry) Path() (string, bool) {
	if e.List || len(e.Paths) != 1 {
		return "", false
	}
	return e.Paths[0], true
}

// autoloadFromTree reads the psr-0 and psr-4 sections of an autoload object.
// Other conventions (classmap, files) are ignored.
func autoloadFromTree(v tree.Value) (Autoload, error) {
	m, ok := v.(*tree.Map)
	if !ok {
		return nil, nil
	}

	out := Autoload{}
	for _, kind := range AutoloadKinds() {
		raw, ok := m.Get(string(kind))
		if !ok {
			continue
		}
		spec, ok := raw.(*tree.Map)
		if !ok {
			if seq, isSeq := raw.(tree.Seq); isSeq && len(seq) == 0 {
				continue
			}
			return nil, fmt.Errorf("autoload.%s: expected an object, got %s", kind, raw.Kind())
		}
		for ns, pv := range spec.All() {
			entry, err := autoloadEntry(ns, pv)
			if err != nil {
				return nil, fmt.Errorf("autoload.%s[%q]: %w", kind, ns, err)
			}
			out[kind] = append(out[kind], entry)
		}
	}
	return out, nil
}

func autoloadEntry(ns string, v tree.Value) (AutoloadEntry, error) {
	switch t := v.(type) {
	case tree.String:
		return AutoloadEntry{Namespace: ns, Paths: []string{string(t)}}, nil
	case tree.Seq:
		paths := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(tree.String)
			if !ok {
				return AutoloadEntry{}, fmt.Errorf("path must be a string, got %s", e.Kind())
			}
			paths = append(paths, string(s))
		}
		return AutoloadEntry{Namespace: ns, Paths: paths, List: true}, nil
	default:
		return AutoloadEntry{}, fmt.Errorf("expected a string or a list of strings, got %s", v.Kind())
	}
}
