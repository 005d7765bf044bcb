// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package solidity maps contract storage variables onto state slots
// the way a compiled contract lays them out.
package solidity

import (
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/state"
)

// UseGasFunc charges gas, it is expected to panic when gas runs out.
type UseGasFunc func(gas uint64)

// Context is the storage owner plus the state and gas meter operations run against.
type Context struct {
	address nfc.Address
	state   *state.State
	charger UseGasFunc
}

func NewContext(address nfc.Address, state *state.State, charger UseGasFunc) *Context {
	return &Context{
		address: address,
		state:   state,
		charger: charger,
	}
}

func (c *Context) Address() nfc.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

func (c *Context) UseGas(gas uint64) {
	if c.charger != nil {
		c.charger(gas)
	}
}

// chargeStore charges the cost of writing slots to pos.
func (c *Context) chargeStore(pos nfc.Bytes32, slots uint64) error {
	prev, err := c.state.GetRawStorage(c.address, pos)
	if err != nil {
		return err
	}
	if len(prev) == 0 {
		c.UseGas(slots * nfc.SstoreSetGas)
	} else {
		c.UseGas(slots * nfc.SstoreResetGas)
	}
	return nil
}

func slotsOf(raw []byte) uint64 {
	if len(raw) == 0 {
		return 1
	}
	return (uint64(len(raw)) + 31) / 32
}
