// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"bytes"
	"fmt"

	"github.com/extcfg/extcfg/pkg/tree"
)

// JSON loads .json contributions, keeping object key order.
type JSON struct{}

// Extensions implements Loader.
func (JSON) Extensions() []string { return []string{".json"} }

// Load implements Loader.
func (JSON) Load(path string, data []byte) (tree.Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return tree.NewMap(), nil
	}
	v, err := tree.DecodeJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}
