// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/0xngmi/nft-collateral/nfc"
)

type Key interface {
	Bytes() []byte
}

// Mapping is a storage mapping, each value is rlp encoded at blake2b(key, basePos).
type Mapping[K Key, V any] struct {
	context *Context
	basePos nfc.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos nfc.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) nfc.Bytes32 {
	return nfc.Blake2b(key.Bytes(), m.basePos.Bytes())
}

// Get returns the value for key, the zero value if never set.
// A pointer V is always returned non-nil.
func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	err = m.context.state.DecodeStorage(m.context.address, m.position(key), func(raw []byte) error {
		if reflect.ValueOf(value).Kind() == reflect.Ptr {
			value = reflect.New(reflect.TypeOf(value).Elem()).Interface().(V)
		}
		m.context.UseGas(slotsOf(raw) * nfc.SloadGas)
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

// Set stores value for key.
func (m *Mapping[K, V]) Set(key K, value V) error {
	position := m.position(key)
	return m.context.state.EncodeStorage(m.context.address, position, func() ([]byte, error) {
		val, err := rlp.EncodeToBytes(value)
		if err != nil {
			return nil, err
		}
		if err := m.context.chargeStore(position, slotsOf(val)); err != nil {
			return nil, err
		}
		return val, nil
	})
}

// Delete clears the value for key.
func (m *Mapping[K, V]) Delete(key K) {
	m.context.UseGas(nfc.SstoreResetGas)
	m.context.state.SetRawStorage(m.context.address, m.position(key), nil)
}
