// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xngmi/nft-collateral/block"
	"github.com/0xngmi/nft-collateral/chain"
	"github.com/0xngmi/nft-collateral/genesis"
	"github.com/0xngmi/nft-collateral/lvldb"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/state"
	"github.com/0xngmi/nft-collateral/tx"
)

var devAccounts = genesis.DevAccounts()

func newRepo(t *testing.T) *chain.Repository {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	b0, err := genesis.NewDevnet().Build(state.NewStater(db))
	require.NoError(t, err)
	repo, err := chain.NewRepository(db, b0)
	require.NoError(t, err)
	return repo
}

func newPool(t *testing.T, options Options) (*TxPool, *chain.Repository) {
	repo := newRepo(t)
	pool := New(repo, options)
	t.Cleanup(pool.Close)
	return pool, repo
}

func newTx(repo *chain.Repository, nonce uint64, from genesis.DevAccount) *tx.Transaction {
	to := devAccounts[9].Address
	return tx.MustSign(
		tx.NewBuilder().
			ChainTag(repo.ChainTag()).
			Clause(tx.NewClause(&to).WithValue(big.NewInt(1))).
			Gas(nfc.TxGas+nfc.ClauseGas).
			Nonce(nonce).
			Build(),
		from.PrivateKey)
}

func TestAdd(t *testing.T) {
	pool, repo := newPool(t, Options{Limit: 10, LimitPerAccount: 2, MaxLifetime: time.Hour})

	tx1 := newTx(repo, 1, devAccounts[0])
	require.NoError(t, pool.Add(tx1))
	// duplicate is not an error
	require.NoError(t, pool.Add(tx1))
	assert.Equal(t, 1, pool.Len())
	assert.Equal(t, tx1.ID(), pool.Get(tx1.ID()).ID())

	tests := []struct {
		name     string
		trx      *tx.Transaction
		bad      bool
		rejected bool
	}{
		{
			"chain tag mismatch",
			tx.MustSign(tx.NewBuilder().ChainTag(repo.ChainTag()+1).Gas(nfc.TxGas).Build(), devAccounts[1].PrivateKey),
			true, false,
		},
		{
			"unsigned",
			tx.NewBuilder().ChainTag(repo.ChainTag()).Gas(nfc.TxGas).Build(),
			true, false,
		},
		{
			"intrinsic gas",
			tx.MustSign(tx.NewBuilder().ChainTag(repo.ChainTag()).Gas(1000).Build(), devAccounts[1].PrivateKey),
			true, false,
		},
		{
			"size too large",
			tx.MustSign(tx.NewBuilder().ChainTag(repo.ChainTag()).Clause(tx.NewClause(nil).WithData(make([]byte, MaxTxSize))).Gas(nfc.InitialGasLimit).Build(), devAccounts[1].PrivateKey),
			false, true,
		},
		{
			"gas above block limit",
			tx.MustSign(tx.NewBuilder().ChainTag(repo.ChainTag()).Gas(nfc.InitialGasLimit+1).Build(), devAccounts[1].PrivateKey),
			false, true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pool.Add(tt.trx)
			require.Error(t, err)
			assert.Equal(t, tt.bad, IsBadTx(err), err.Error())
			assert.Equal(t, tt.rejected, IsTxRejected(err), err.Error())
		})
	}
	assert.Equal(t, 1, pool.Len())
}

func TestAccountQuotaAndLimit(t *testing.T) {
	pool, repo := newPool(t, Options{Limit: 3, LimitPerAccount: 2, MaxLifetime: time.Hour})

	require.NoError(t, pool.Add(newTx(repo, 1, devAccounts[0])))
	require.NoError(t, pool.Add(newTx(repo, 2, devAccounts[0])))
	err := pool.Add(newTx(repo, 3, devAccounts[0]))
	assert.True(t, IsTxRejected(err))
	assert.EqualError(t, err, "tx rejected: account quota exceeded")

	require.NoError(t, pool.Add(newTx(repo, 1, devAccounts[1])))
	err = pool.Add(newTx(repo, 1, devAccounts[2]))
	assert.EqualError(t, err, "tx rejected: pool is full")

	// local submissions bypass the pool limit
	require.NoError(t, pool.AddLocal(newTx(repo, 1, devAccounts[2])))
	assert.Equal(t, 4, pool.Len())
}

func TestExecutablesOrderAndRemove(t *testing.T) {
	pool, repo := newPool(t, DefaultOptions)

	var txs tx.Transactions
	for i := range 5 {
		trx := newTx(repo, uint64(i), devAccounts[i])
		require.NoError(t, pool.Add(trx))
		txs = append(txs, trx)
	}

	executables := pool.Executables()
	require.Len(t, executables, 5)
	for i, trx := range executables {
		assert.Equal(t, txs[i].ID(), trx.ID())
	}

	assert.True(t, pool.Remove(txs[2].ID()))
	assert.False(t, pool.Remove(txs[2].ID()))
	assert.Len(t, pool.Dump(), 4)
	assert.Nil(t, pool.Get(txs[2].ID()))
}

func TestSubscribeTxEvent(t *testing.T) {
	pool, repo := newPool(t, DefaultOptions)

	ch := make(chan *TxEvent, 1)
	sub := pool.SubscribeTxEvent(ch)
	defer sub.Unsubscribe()

	trx := newTx(repo, 1, devAccounts[0])
	require.NoError(t, pool.Add(trx))

	select {
	case ev := <-ch:
		assert.Equal(t, trx.ID(), ev.Tx.ID())
		assert.True(t, *ev.Executable)
	case <-time.After(time.Second):
		t.Fatal("no tx event")
	}
}

func TestWashPackedTx(t *testing.T) {
	pool, repo := newPool(t, DefaultOptions)

	trx := newTx(repo, 1, devAccounts[0])
	require.NoError(t, pool.Add(trx))

	best := repo.BestBlock().Header()
	blk := new(block.Builder).
		ParentID(best.ID()).
		Timestamp(best.Timestamp() + nfc.BlockInterval).
		GasLimit(best.GasLimit()).
		Transaction(trx).
		Build()
	require.NoError(t, repo.AddBlock(blk, tx.Receipts{{GasUsed: nfc.TxGas}}))

	assert.Eventually(t, func() bool { return pool.Len() == 0 }, 3*time.Second, 10*time.Millisecond)

	err := pool.Add(trx)
	assert.EqualError(t, err, "tx rejected: known tx")
}
