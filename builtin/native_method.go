// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/0xngmi/nft-collateral/abi"
	"github.com/0xngmi/nft-collateral/builtin/reverts"
	"github.com/0xngmi/nft-collateral/xenv"
)

// nativeMethod binds a method of a template ABI to its Go implementation.
type nativeMethod struct {
	abi *abi.Method
	run func(env *xenv.Environment) []any
}

type nativeDefine struct {
	name string
	run  func(env *xenv.Environment) []any
}

// constructorName names the constructor in a define list.
const constructorName = ""

func (t *Template) register(defines []nativeDefine) {
	for _, def := range defines {
		if def.name == constructorName {
			t.ctor = &nativeMethod{t.ABI.Constructor(), def.run}
			continue
		}
		method, found := t.ABI.MethodByName(def.name)
		if !found {
			panic("method not found: " + t.name + "." + def.name)
		}
		t.methods[method.ID()] = &nativeMethod{method, def.run}
	}
	for _, method := range t.ABI.Methods() {
		if _, ok := t.methods[method.ID()]; !ok {
			panic("method not implemented: " + t.name + "." + method.Name())
		}
	}
}

// check reverts the executing method on a require failure.
// Any other error is a storage failure and aborts execution.
func check(env *xenv.Environment, err error) {
	if err == nil {
		return
	}
	if reverts.IsRevertErr(err) {
		env.Check(err)
	}
	panic(err)
}

// mustEncode encodes input of a call made by a built-in contract.
func mustEncode(method *abi.Method, args ...any) []byte {
	input, err := method.EncodeInput(args...)
	if err != nil {
		panic(err)
	}
	return input
}

func mustMethod(abi *abi.ABI, name string) *abi.Method {
	method, ok := abi.MethodByName(name)
	if !ok {
		panic("method not found: " + name)
	}
	return method
}

func mustEvent(abi *abi.ABI, name string) *abi.Event {
	event, ok := abi.EventByName(name)
	if !ok {
		panic("event not found: " + name)
	}
	return event
}
