// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nfcclient_test

import (
	"math/big"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xngmi/nft-collateral/api"
	"github.com/0xngmi/nft-collateral/api/types"
	"github.com/0xngmi/nft-collateral/builtin"
	"github.com/0xngmi/nft-collateral/cmd/nfc/solo"
	"github.com/0xngmi/nft-collateral/genesis"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/nfcclient"
	"github.com/0xngmi/nft-collateral/nfcclient/common"
	"github.com/0xngmi/nft-collateral/test/datagen"
	"github.com/0xngmi/nft-collateral/test/testchain"
	"github.com/0xngmi/nft-collateral/tx"
)

func newSoloServer(t *testing.T) (*testchain.Chain, *httptest.Server) {
	chain, err := testchain.NewDefault()
	require.NoError(t, err)
	t.Cleanup(func() { chain.Close() })

	pool := solo.NewOnDemandTxPool(chain.Repo(), chain.Packer())
	t.Cleanup(pool.Close)

	handler, closeAPI := api.New(chain.Repo(), chain.Stater(), pool, chain.LogDB(), chain.Packer().Clock(), api.Options{
		AllowedOrigins: "*",
		BacktraceLimit: 100,
		CallGasLimit:   10_000_000,
		LogsLimit:      100,
		SoloMode:       true,
	})
	ts := httptest.NewServer(handler)
	t.Cleanup(func() {
		closeAPI()
		ts.Close()
	})
	return chain, ts
}

func TestClientReads(t *testing.T) {
	chain, ts := newSoloServer(t)
	client := nfcclient.New(ts.URL)

	tag, err := client.ChainTag()
	require.NoError(t, err)
	assert.Equal(t, chain.ChainTag(), tag)

	dev := genesis.DevAccounts()[0].Address
	acc, err := client.Account(&dev)
	require.NoError(t, err)
	assert.False(t, acc.HasCode)
	assert.Positive(t, (*big.Int)(acc.Balance).Sign())

	_, err = client.Account(&dev, nfcclient.Revision("1"))
	assert.ErrorIs(t, err, common.ErrNot200Status)

	best, err := client.Block(common.BestRevision)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), best.Number)

	_, err = client.Block("100")
	assert.ErrorIs(t, err, common.ErrNotFound)

	id := datagen.RandomHash()
	_, err = client.Transaction(&id)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestClientSendTransaction(t *testing.T) {
	chain, ts := newSoloServer(t)
	client := nfcclient.New(ts.URL)

	from, to := genesis.DevAccounts()[0], genesis.DevAccounts()[1]
	trx := chain.BuildTransaction(from, tx.NewClause(&to.Address).WithValue(big.NewInt(1000)))

	res, err := client.SendTransaction(trx)
	require.NoError(t, err)
	assert.Equal(t, trx.ID(), *res.ID)

	receipt, err := client.TransactionReceipt(res.ID)
	require.NoError(t, err)
	assert.False(t, receipt.Reverted)
	assert.Equal(t, from.Address, receipt.Meta.TxOrigin)

	got, err := client.Transaction(res.ID)
	require.NoError(t, err)
	assert.Equal(t, from.Address, got.Origin)

	raw, err := client.RawTransaction(res.ID)
	require.NoError(t, err)
	encoded, err := trx.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, hexutil.Encode(encoded), raw.Raw)

	expanded, err := client.ExpandedBlock(common.BestRevision)
	require.NoError(t, err)
	require.Len(t, expanded.Transactions, 1)
	assert.Equal(t, trx.ID(), expanded.Transactions[0].ID)

	transfers, err := client.FilterTransfers(&types.TransferFilter{
		CriteriaSet: []*types.TransferCriteria{{Recipient: &to.Address}},
	})
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	assert.Equal(t, big.NewInt(1000), (*big.Int)(transfers[0].Amount))

	// packed already
	_, err = client.SendTransaction(trx)
	assert.ErrorIs(t, err, common.ErrNot200Status)
}

func TestClientInspectClauses(t *testing.T) {
	chain, ts := newSoloServer(t)
	client := nfcclient.New(ts.URL)

	greeter, err := chain.Deploy(genesis.DevAccounts()[0], builtin.Greeter.Template, "Hello, world!")
	require.NoError(t, err)
	clause, err := greeter.BuildClause("greet")
	require.NoError(t, err)

	result, err := client.InspectClause(clause, nil)
	require.NoError(t, err)
	assert.False(t, result.Reverted)

	method, _ := builtin.Greeter.ABI.MethodByName("greet")
	data, err := hexutil.Decode(result.Data)
	require.NoError(t, err)
	var greeting string
	require.NoError(t, method.DecodeOutput(data, &greeting))
	assert.Equal(t, "Hello, world!", greeting)

	sender := genesis.DevAccounts()[1].Address
	trx := chain.BuildTransaction(genesis.DevAccounts()[1], clause)
	results, err := client.InspectTxClauses(trx, &sender)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, result.Data, results[0].Data)
}

func TestClientIncreaseTime(t *testing.T) {
	_, ts := newSoloServer(t)
	client := nfcclient.New(ts.URL)

	before := uint64(time.Now().Unix())
	res, err := client.IncreaseTime(3600)
	require.NoError(t, err)
	assert.Equal(t, uint64(3600), res.Offset)
	assert.GreaterOrEqual(t, res.Now, before+3600)
}

func TestClientSubscribeBlocks(t *testing.T) {
	chain, ts := newSoloServer(t)
	require.NoError(t, chain.MintBlock())

	client := nfcclient.New(ts.URL)
	_, err := client.SubscribeBlocks()
	assert.Error(t, err)

	client, err = nfcclient.NewWithWS(ts.URL)
	require.NoError(t, err)

	sub, err := client.SubscribeBlocks()
	require.NoError(t, err)
	defer sub.Close()

	next := func() *types.Block {
		select {
		case ev, ok := <-sub.C():
			require.True(t, ok)
			require.NoError(t, ev.Error)
			return ev.Data
		case <-time.After(5 * time.Second):
			t.Fatal("block not received")
		}
		return nil
	}

	// the best block comes first
	assert.Equal(t, uint32(1), next().Number)

	from, to := genesis.DevAccounts()[0], genesis.DevAccounts()[1]
	trx := chain.BuildTransaction(from, tx.NewClause(&to.Address).WithValue(big.NewInt(1)))
	_, err = client.SendTransaction(trx)
	require.NoError(t, err)

	blk := next()
	assert.Equal(t, uint32(2), blk.Number)
	assert.Equal(t, []nfc.Bytes32{trx.ID()}, blk.Transactions)
}
