// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"fmt"

	"github.com/0xngmi/nft-collateral/abi"
	"github.com/0xngmi/nft-collateral/builtin/gen"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/xenv"
)

// Template is a built-in contract that can be deployed any number of times.
// A deployed instance stores the template name as its code.
type Template struct {
	name     string
	selector abi.MethodID
	ABI      *abi.ABI

	ctor    *nativeMethod
	methods map[abi.MethodID]*nativeMethod
}

func mustLoadTemplate(name string) *Template {
	asset := "compiled/" + name + ".abi"
	data := gen.MustAsset(asset)
	parsed, err := abi.New(data)
	if err != nil {
		panic(fmt.Errorf("load ABI for '%s': %w", name, err))
	}

	t := &Template{
		name:    name,
		ABI:     parsed,
		methods: make(map[abi.MethodID]*nativeMethod),
	}
	copy(t.selector[:], nfc.Keccak256([]byte(name)).Bytes())
	return t
}

// Name returns the template name.
func (t *Template) Name() string {
	return t.name
}

// Code returns the code stored in accounts deployed from this template.
func (t *Template) Code() []byte {
	return []byte(t.name)
}

// Selector returns the 4-byte prefix of deploy data, keccak256(name)[:4].
func (t *Template) Selector() abi.MethodID {
	return t.selector
}

// DeployData encodes a deployment of the template with constructor args.
func (t *Template) DeployData(args ...any) ([]byte, error) {
	input, err := t.ABI.Constructor().EncodeInput(args...)
	if err != nil {
		return nil, err
	}
	return append(t.selector[:], input...), nil
}

// MustDeployData is like DeployData but panics on error.
func (t *Template) MustDeployData(args ...any) []byte {
	data, err := t.DeployData(args...)
	if err != nil {
		panic(err)
	}
	return data
}

// FindNativeMethod returns the method the input calls.
func (t *Template) FindNativeMethod(input []byte) (*abi.Method, func(env *xenv.Environment) []any, error) {
	id, err := abi.ExtractMethodID(input)
	if err != nil {
		return nil, nil, xenv.ErrMethodNotFound
	}
	m, ok := t.methods[id]
	if !ok {
		return nil, nil, xenv.ErrMethodNotFound
	}
	return m.abi, m.run, nil
}

// NativeConstructor returns the constructor, run is nil if the template has nothing to initialize.
func (t *Template) NativeConstructor() (*abi.Method, func(env *xenv.Environment) []any) {
	if t.ctor == nil {
		return t.ABI.Constructor(), nil
	}
	return t.ctor.abi, t.ctor.run
}
