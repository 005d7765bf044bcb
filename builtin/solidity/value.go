// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/0xngmi/nft-collateral/nfc"
)

// Value is a storage variable of any rlp encodable type, e.g. a string or a struct.
type Value[V any] struct {
	context *Context
	pos     nfc.Bytes32
}

func NewValue[V any](context *Context, pos nfc.Bytes32) *Value[V] {
	return &Value[V]{context: context, pos: pos}
}

func (v *Value[V]) Get() (value V, err error) {
	err = v.context.state.DecodeStorage(v.context.address, v.pos, func(raw []byte) error {
		v.context.UseGas(slotsOf(raw) * nfc.SloadGas)
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func (v *Value[V]) Set(value V) error {
	return v.context.state.EncodeStorage(v.context.address, v.pos, func() ([]byte, error) {
		raw, err := rlp.EncodeToBytes(value)
		if err != nil {
			return nil, err
		}
		if err := v.context.chargeStore(v.pos, slotsOf(raw)); err != nil {
			return nil, err
		}
		return raw, nil
	})
}
