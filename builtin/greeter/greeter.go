// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package greeter

import (
	"github.com/0xngmi/nft-collateral/builtin/solidity"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/state"
)

var greetingSlot = solidity.Slot("greeting")

// Greeter implements native methods of `Greeter` contract.
type Greeter struct {
	greeting *solidity.Value[string]
}

// New create a new instance.
func New(addr nfc.Address, state *state.State, charger solidity.UseGasFunc) *Greeter {
	ctx := solidity.NewContext(addr, state, charger)
	return &Greeter{
		greeting: solidity.NewValue[string](ctx, greetingSlot),
	}
}

// Greet returns the current greeting.
func (g *Greeter) Greet() (string, error) {
	return g.greeting.Get()
}

// SetGreeting replaces the greeting.
func (g *Greeter) SetGreeting(greeting string) error {
	return g.greeting.Set(greeting)
}
