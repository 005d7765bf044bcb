// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xngmi/nft-collateral/lvldb"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/state"
)

type testStruct struct {
	Owner  nfc.Address
	Amount *big.Int
	Flag   bool
}

func newTestContext(t *testing.T) (*Context, *uint64) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	used := new(uint64)
	return NewContext(nfc.Address{1}, state.New(db), func(gas uint64) { *used += gas }), used
}

func TestUint256(t *testing.T) {
	ctx, used := newTestContext(t)
	u := NewUint256(ctx, Slot("total"))

	v, err := u.Get()
	require.NoError(t, err)
	assert.Equal(t, 0, v.Sign())
	assert.Equal(t, nfc.SloadGas, *used)

	*used = 0
	require.NoError(t, u.Set(big.NewInt(10)))
	assert.Equal(t, nfc.SstoreSetGas, *used)

	*used = 0
	require.NoError(t, u.Add(big.NewInt(5)))
	assert.Equal(t, nfc.SloadGas+nfc.SstoreResetGas, *used)

	require.NoError(t, u.Sub(big.NewInt(3)))
	v, _ = u.Get()
	assert.Equal(t, big.NewInt(12), v)
}

func TestAddress(t *testing.T) {
	ctx, _ := newTestContext(t)
	a := NewAddress(ctx, Slot("owner"))

	v, err := a.Get()
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	owner := nfc.BytesToAddress([]byte("owner"))
	require.NoError(t, a.Set(owner))
	v, _ = a.Get()
	assert.Equal(t, owner, v)
}

func TestValue(t *testing.T) {
	ctx, _ := newTestContext(t)
	s := NewValue[string](ctx, Slot("greeting"))

	v, err := s.Get()
	require.NoError(t, err)
	assert.Equal(t, "", v)

	require.NoError(t, s.Set("Hello, world!"))
	v, _ = s.Get()
	assert.Equal(t, "Hello, world!", v)
}

func TestMapping(t *testing.T) {
	ctx, used := newTestContext(t)
	m := NewMapping[nfc.Bytes32, *testStruct](ctx, Slot("loans"))

	key := BigKey(big.NewInt(1))
	v, err := m.Get(key)
	require.NoError(t, err)
	require.NotNil(t, v, "pointer values are never nil")
	assert.True(t, v.Owner.IsZero())

	owner := nfc.BytesToAddress([]byte("owner"))
	*used = 0
	require.NoError(t, m.Set(key, &testStruct{Owner: owner, Amount: big.NewInt(100), Flag: true}))
	assert.NotZero(t, *used)
	assert.Zero(t, *used%nfc.SstoreSetGas)

	v, err = m.Get(key)
	require.NoError(t, err)
	assert.Equal(t, owner, v.Owner)
	assert.Equal(t, big.NewInt(100), v.Amount)
	assert.True(t, v.Flag)

	other, _ := m.Get(BigKey(big.NewInt(2)))
	assert.True(t, other.Owner.IsZero())

	m.Delete(key)
	v, _ = m.Get(key)
	assert.True(t, v.Owner.IsZero())
}

func TestMappingPairKey(t *testing.T) {
	ctx, _ := newTestContext(t)
	m := NewMapping[nfc.Bytes32, *big.Int](ctx, Slot("balances"))

	a := nfc.BytesToAddress([]byte("a"))
	b := nfc.BytesToAddress([]byte("b"))
	require.NoError(t, m.Set(PairKey(a, b), big.NewInt(7)))

	v, _ := m.Get(PairKey(a, b))
	assert.Equal(t, big.NewInt(7), v)
	v, _ = m.Get(PairKey(b, a))
	assert.Equal(t, 0, v.Sign())
}
