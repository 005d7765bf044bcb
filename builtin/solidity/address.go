// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/0xngmi/nft-collateral/nfc"
)

// Address is a single address storage variable.
type Address struct {
	context *Context
	pos     nfc.Bytes32
}

func NewAddress(context *Context, pos nfc.Bytes32) *Address {
	return &Address{context: context, pos: pos}
}

func (a *Address) Get() (nfc.Address, error) {
	a.context.UseGas(nfc.SloadGas)
	storage, err := a.context.state.GetStorage(a.context.address, a.pos)
	if err != nil {
		return nfc.Address{}, err
	}
	return nfc.BytesToAddress(storage.Bytes()), nil
}

func (a *Address) Set(addr nfc.Address) error {
	if err := a.context.chargeStore(a.pos, 1); err != nil {
		return err
	}
	a.context.state.SetStorage(a.context.address, a.pos, nfc.BytesToBytes32(addr.Bytes()))
	return nil
}
