// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xngmi/nft-collateral/nfc"
)

func TestTx(t *testing.T) {
	to := nfc.MustParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	trx := NewBuilder().
		ChainTag(1).
		Clause(NewClause(&to).WithValue(big.NewInt(10000)).WithData([]byte{0, 0, 0, 0x60, 0x60, 0x60})).
		Clause(NewClause(&to).WithValue(big.NewInt(20000)).WithData([]byte{0, 0, 0, 0x60, 0x60, 0x60})).
		Gas(21000).
		Nonce(12345678).
		Build()

	assert.Equal(t, byte(1), trx.ChainTag())
	assert.Equal(t, uint64(21000), trx.Gas())
	assert.Equal(t, uint64(12345678), trx.Nonce())
	assert.Len(t, trx.Clauses(), 2)

	_, err := trx.Origin()
	assert.Error(t, err, "unsigned tx has no origin")
	assert.True(t, trx.ID().IsZero())

	gas, err := trx.IntrinsicGas()
	require.NoError(t, err)
	// tx gas + 2 clauses + 6 zero bytes + 6 non-zero bytes
	assert.Equal(t, nfc.TxGas+2*nfc.ClauseGas+6*nfc.TxDataZeroGas+6*nfc.TxDataNonZeroGas, gas)

	key, _ := crypto.HexToECDSA("99f0500549792796c14fed62011a51081dc5b5e68fe8bd8a13b86be829c4fd36")
	signed := MustSign(trx, key)

	origin, err := signed.Origin()
	require.NoError(t, err)
	assert.Equal(t, nfc.Address(crypto.PubkeyToAddress(key.PublicKey)), origin)
	assert.Equal(t, trx.SigningHash(), signed.SigningHash(), "signature does not affect signing hash")
	assert.Equal(t, nfc.Blake2b(signed.SigningHash().Bytes(), origin.Bytes()), signed.ID())
	assert.NotEqual(t, trx.Hash(), signed.Hash())
}

func TestIntrinsicGas(t *testing.T) {
	gas, err := IntrinsicGas()
	require.NoError(t, err)
	assert.Equal(t, nfc.TxGas+nfc.ClauseGas, gas)

	gas, err = IntrinsicGas(NewClause(nil).WithData([]byte{1}))
	require.NoError(t, err)
	assert.Equal(t, nfc.TxGas+nfc.ClauseGasContractCreation+nfc.TxDataNonZeroGas, gas)
}

func TestTxEncoding(t *testing.T) {
	key, _ := crypto.GenerateKey()
	trx := MustSign(NewBuilder().
		ChainTag(0xa4).
		Clause(NewClause(nil).WithData([]byte("deploy"))).
		Gas(1_000_000).
		Nonce(1).
		Build(), key)

	data, err := trx.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, uint64(len(data)), trx.Size())

	var decoded Transaction
	require.NoError(t, decoded.UnmarshalBinary(data))
	assert.Equal(t, trx.ID(), decoded.ID())
	assert.True(t, decoded.Clauses()[0].IsCreatingContract())
	assert.Nil(t, decoded.Clauses()[0].To())

	enc, _ := rlp.EncodeToBytes(Transactions{trx, &decoded})
	txs, err := DecodeTransactions(enc)
	require.NoError(t, err)
	assert.Len(t, txs, 2)
	assert.Equal(t, Transactions{trx}.RootHash(), Transactions{txs[0]}.RootHash())
}

func TestReceiptsRootHash(t *testing.T) {
	addr := nfc.BytesToAddress([]byte("contract"))
	receipts := Receipts{
		{GasUsed: 100, Outputs: []*Output{{ContractAddress: &addr, Events: Events{{Address: addr, Topics: []nfc.Bytes32{{1}}}}}}},
		{GasUsed: 50, Reverted: true, RevertReason: "not owner"},
	}
	root := receipts.RootHash()
	assert.False(t, root.IsZero())

	data, err := rlp.EncodeToBytes(receipts)
	require.NoError(t, err)
	var decoded Receipts
	require.NoError(t, rlp.DecodeBytes(data, &decoded))
	assert.Equal(t, root, decoded.RootHash())
	assert.Equal(t, "not owner", decoded[1].RevertReason)
	assert.Equal(t, addr, *decoded[0].Outputs[0].ContractAddress)
}
