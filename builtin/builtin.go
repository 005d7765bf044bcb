// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package builtin holds the contract templates of the chain, implemented in Go.
package builtin

import (
	"github.com/0xngmi/nft-collateral/abi"
	"github.com/0xngmi/nft-collateral/builtin/erc1155"
	"github.com/0xngmi/nft-collateral/builtin/erc721"
	"github.com/0xngmi/nft-collateral/builtin/fraction"
	"github.com/0xngmi/nft-collateral/builtin/greeter"
	"github.com/0xngmi/nft-collateral/builtin/rug"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/state"
	"github.com/0xngmi/nft-collateral/xenv"
)

// Builtin contract templates.
var (
	Greeter     = &greeterTemplate{mustLoadTemplate("Greeter")}
	MockERC721  = &erc721Template{mustLoadTemplate("MockERC721")}
	MockERC1155 = &erc1155Template{mustLoadTemplate("MockERC1155")}
	Fraction    = &fractionTemplate{mustLoadTemplate("Fraction")}
	Rug         = &rugTemplate{mustLoadTemplate("Rug")}

	templates = []*Template{
		Greeter.Template,
		MockERC721.Template,
		MockERC1155.Template,
		Fraction.Template,
		Rug.Template,
	}
)

type (
	greeterTemplate  struct{ *Template }
	erc721Template   struct{ *Template }
	erc1155Template  struct{ *Template }
	fractionTemplate struct{ *Template }
	rugTemplate      struct{ *Template }
)

// Templates returns all templates.
func Templates() []*Template {
	return append([]*Template(nil), templates...)
}

// FindTemplate returns the template a deployed contract with the given code runs.
func FindTemplate(code []byte) (*Template, bool) {
	for _, t := range templates {
		if string(code) == t.name {
			return t, true
		}
	}
	return nil, false
}

// FindDeployment splits deploy data into the template and the constructor input.
func FindDeployment(data []byte) (*Template, []byte, error) {
	selector, err := abi.ExtractMethodID(data)
	if err != nil {
		return nil, nil, xenv.ErrUnknownTemplate
	}
	for _, t := range templates {
		if t.selector == selector {
			return t, data[len(selector):], nil
		}
	}
	return nil, nil, xenv.ErrUnknownTemplate
}

// Native returns the greeter deployed at addr, reading state without gas accounting.
func (g *greeterTemplate) Native(state *state.State, addr nfc.Address) *greeter.Greeter {
	return greeter.New(addr, state, nil)
}

func (g *greeterTemplate) native(env *xenv.Environment) *greeter.Greeter {
	return greeter.New(env.To(), env.State(), env.UseGas)
}

func (e *erc721Template) Native(state *state.State, addr nfc.Address) *erc721.Token {
	return erc721.New(addr, state, nil)
}

func (e *erc721Template) native(env *xenv.Environment) *erc721.Token {
	return erc721.New(env.To(), env.State(), env.UseGas)
}

func (e *erc1155Template) Native(state *state.State, addr nfc.Address) *erc1155.Token {
	return erc1155.New(addr, state, nil)
}

func (e *erc1155Template) native(env *xenv.Environment) *erc1155.Token {
	return erc1155.New(env.To(), env.State(), env.UseGas)
}

func (f *fractionTemplate) Native(state *state.State, addr nfc.Address) *fraction.Token {
	return fraction.New(addr, state, nil)
}

func (f *fractionTemplate) native(env *xenv.Environment) *fraction.Token {
	return fraction.New(env.To(), env.State(), env.UseGas)
}

func (r *rugTemplate) Native(state *state.State, addr nfc.Address) *rug.Rug {
	return rug.New(addr, state, nil)
}

func (r *rugTemplate) native(env *xenv.Environment) *rug.Rug {
	return rug.New(env.To(), env.State(), env.UseGas)
}
