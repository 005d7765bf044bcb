// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xngmi/nft-collateral/nfc"
)

func TestTxEncodingRandom(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	f := fuzz.New().NilChance(0).NumElements(1, 4)

	for range 100 {
		var (
			tag     byte
			gas     uint64
			nonce   uint64
			to      [20]byte
			value   uint64
			data    []byte
			deploys bool
		)
		f.Fuzz(&tag)
		f.Fuzz(&gas)
		f.Fuzz(&nonce)
		f.Fuzz(&to)
		f.Fuzz(&value)
		f.Fuzz(&data)
		f.Fuzz(&deploys)

		target := nfc.Address(to)
		clause := NewClause(&target)
		if deploys {
			clause = NewClause(nil)
		}
		trx := MustSign(NewBuilder().
			ChainTag(tag).
			Clause(clause.WithValue(new(big.Int).SetUint64(value)).WithData(data)).
			Gas(gas).
			Nonce(nonce).
			Build(), key)

		enc, err := trx.MarshalBinary()
		require.NoError(t, err)

		var decoded Transaction
		require.NoError(t, decoded.UnmarshalBinary(enc))
		assert.Equal(t, trx.ID(), decoded.ID())
		assert.Equal(t, trx.Hash(), decoded.Hash())
		assert.Equal(t, trx.SigningHash(), decoded.SigningHash())
	}
}

func FuzzTransactionDecoding(f *testing.F) {
	f.Fuzz(func(t *testing.T, input []byte) {
		var trx Transaction
		if err := trx.UnmarshalBinary(input); err != nil {
			return
		}
		enc, err := trx.MarshalBinary()
		if err != nil {
			t.Fatalf("re-encode: %v", err)
		}
		var again Transaction
		if err := again.UnmarshalBinary(enc); err != nil {
			t.Fatalf("decode re-encoded: %v", err)
		}
		if trx.SigningHash() != again.SigningHash() {
			t.Fatalf("signing hash changed")
		}
	})
}
