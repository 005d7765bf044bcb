// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package packer_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xngmi/nft-collateral/builtin"
	"github.com/0xngmi/nft-collateral/genesis"
	"github.com/0xngmi/nft-collateral/logdb"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/packer"
	"github.com/0xngmi/nft-collateral/test/testchain"
	"github.com/0xngmi/nft-collateral/tx"
)

func newChain(t *testing.T) *testchain.Chain {
	chain, err := testchain.NewDefault()
	require.NoError(t, err)
	t.Cleanup(func() { chain.Close() })
	return chain
}

func TestPackTransfer(t *testing.T) {
	chain := newChain(t)
	from, to := genesis.DevAccounts()[0], genesis.DevAccounts()[1]

	amount := big.NewInt(1e18)
	trx := chain.BuildTransaction(from, tx.NewClause(&to.Address).WithValue(amount))

	p := chain.Packer()
	blk, done, err := p.Pack(tx.Transactions{trx}, p.Clock().Now())
	require.NoError(t, err)

	assert.Equal(t, uint32(1), blk.Header().Number())
	assert.Equal(t, chain.GenesisBlock().Header().ID(), blk.Header().ParentID())
	assert.Len(t, blk.Transactions(), 1)
	assert.Len(t, done, 1)
	assert.Equal(t, blk.Header().ID(), chain.BestBlock().Header().ID())

	receipt, err := chain.GetTxReceipt(trx.ID())
	require.NoError(t, err)
	assert.False(t, receipt.Reverted)
	assert.Equal(t, from.Address, receipt.Origin)
	assert.Equal(t, blk.Header().GasUsed(), receipt.GasUsed)

	balance, err := chain.Stater().NewState().GetBalance(to.Address)
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Add(nfc.InitialDevBalance, amount), balance)

	transfers, err := chain.LogDB().FilterTransfers(context.Background(), &logdb.TransferFilter{
		CriteriaSet: []*logdb.TransferCriteria{{Recipient: &to.Address}},
	})
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	assert.Equal(t, from.Address, transfers[0].Sender)
	assert.Equal(t, amount, transfers[0].Amount)
}

func TestPackRevertedTx(t *testing.T) {
	chain := newChain(t)
	from := genesis.DevAccounts()[0]

	// greeter has no payable method
	greeter, err := chain.Deploy(from, builtin.Greeter.Template, "hi")
	require.NoError(t, err)
	clause, err := greeter.BuildClause("setGreeting", "yo")
	require.NoError(t, err)
	trx := chain.BuildTransaction(from, clause.WithValue(big.NewInt(1)))

	p := chain.Packer()
	blk, _, err := p.Pack(tx.Transactions{trx}, p.Clock().Now())
	require.NoError(t, err)
	require.Len(t, blk.Transactions(), 1)

	receipt, err := chain.GetTxReceipt(trx.ID())
	require.NoError(t, err)
	assert.True(t, receipt.Reverted)
	assert.Empty(t, receipt.Outputs)

	var greeting string
	require.NoError(t, greeter.CallInto("greet", &greeting))
	assert.Equal(t, "hi", greeting)
}

func TestPackDropsBadTxs(t *testing.T) {
	chain := newChain(t)
	acc := genesis.DevAccounts()[2]

	good := chain.BuildTransaction(acc, tx.NewClause(&acc.Address))
	require.NoError(t, chain.MintBlock(good))

	wrongTag := tx.MustSign(new(tx.Builder).ChainTag(chain.ChainTag()+1).Gas(21000).Clause(tx.NewClause(&acc.Address)).Build(), acc.PrivateKey)
	unsigned := new(tx.Builder).ChainTag(chain.ChainTag()).Gas(21000).Build()

	p := chain.Packer()
	blk, done, err := p.Pack(tx.Transactions{good, wrongTag, unsigned}, p.Clock().Now())
	require.NoError(t, err)
	assert.Empty(t, blk.Transactions())
	assert.Len(t, done, 3)
}

func TestPackTimestamp(t *testing.T) {
	chain := newChain(t)
	p := chain.Packer()

	// the genesis is far in the past, blocks follow the clock
	now := p.Clock().Now()
	blk, _, err := p.Pack(nil, now)
	require.NoError(t, err)
	assert.Equal(t, now, blk.Header().Timestamp())

	// never older than parent + 1
	blk2, _, err := p.Pack(nil, now-100)
	require.NoError(t, err)
	assert.Equal(t, now+1, blk2.Header().Timestamp())

	p.Clock().IncreaseTime(1000)
	blk3, _, err := p.Pack(nil, p.Clock().Now())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, blk3.Header().Timestamp(), now+1000)
}

func TestSchedule(t *testing.T) {
	chain := newChain(t)
	parent := chain.GenesisBlock().Header()

	flow := chain.Packer().Schedule(parent, parent.Timestamp())
	assert.Equal(t, parent.Timestamp()+1, flow.When())

	acc := genesis.DevAccounts()[0]
	trx := chain.BuildTransaction(acc, tx.NewClause(&acc.Address))
	require.NoError(t, flow.Adopt(trx))
	assert.True(t, packer.IsKnownTx(flow.Adopt(trx)))

	heavy := tx.MustSign(new(tx.Builder).ChainTag(chain.ChainTag()).Gas(parent.GasLimit()).Clause(tx.NewClause(&acc.Address)).Build(), acc.PrivateKey)
	assert.True(t, packer.IsTxNotAdoptableNow(flow.Adopt(heavy)))

	blk, _, receipts, err := flow.Pack()
	require.NoError(t, err)
	assert.Len(t, receipts, 1)
	assert.Equal(t, receipts.RootHash(), blk.Header().ReceiptsRoot())
}

func TestClock(t *testing.T) {
	clock := packer.NewClock()
	before := uint64(time.Now().Unix())
	assert.Equal(t, uint64(60), clock.IncreaseTime(60))
	assert.Equal(t, uint64(90), clock.IncreaseTime(30))
	assert.Equal(t, uint64(90), clock.Offset())
	assert.GreaterOrEqual(t, clock.Now(), before+90)
}
