// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package gen holds the ABI definitions of the built-in contract templates.
package gen

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed compiled/*.abi
var compiled embed.FS

// Asset loads the named asset, e.g. "compiled/Greeter.abi".
func Asset(name string) ([]byte, error) {
	return compiled.ReadFile(name)
}

// MustAsset is like Asset but panics when the asset can not be loaded.
func MustAsset(name string) []byte {
	data, err := Asset(name)
	if err != nil {
		panic(fmt.Errorf("asset: %w", err))
	}
	return data
}

// AssetNames returns the names of all assets, sorted.
func AssetNames() []string {
	var names []string
	_ = fs.WalkDir(compiled, ".", func(path string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			names = append(names, path)
		}
		return nil
	})
	sort.Strings(names)
	return names
}
