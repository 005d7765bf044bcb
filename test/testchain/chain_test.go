// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testchain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xngmi/nft-collateral/builtin"
	"github.com/0xngmi/nft-collateral/genesis"
)

func Test_ChainDefault(t *testing.T) {
	chain, err := NewDefault()
	require.NoError(t, err)
	defer chain.Close()

	for range 100 {
		require.NoError(t, chain.MintBlock())
	}

	best := chain.BestBlock()
	require.Equal(t, uint32(100), best.Header().Number())

	blks, err := chain.GetAllBlocks()
	require.NoError(t, err)
	require.Len(t, blks, 101)
	assert.Equal(t, chain.GenesisBlock().Header().ID(), blks[0].Header().ID())
}

func Test_ChainGreeter(t *testing.T) {
	chain, err := NewDefault()
	require.NoError(t, err)
	defer chain.Close()

	greeter, err := chain.Deploy(genesis.DevAccounts()[0], builtin.Greeter.Template, "Hello, world!")
	require.NoError(t, err)

	var greeting string
	require.NoError(t, greeter.CallInto("greet", &greeting))
	assert.Equal(t, "Hello, world!", greeting)

	receipt, err := greeter.Attach(genesis.DevAccounts()[1]).MintTransaction("setGreeting", nil, "Hola, mundo!")
	require.NoError(t, err)
	require.False(t, receipt.Reverted)

	require.NoError(t, greeter.CallInto("greet", &greeting))
	assert.Equal(t, "Hola, mundo!", greeting)
}

func Test_ChainIncreaseTime(t *testing.T) {
	chain, err := NewDefault()
	require.NoError(t, err)
	defer chain.Close()

	require.NoError(t, chain.MintBlock())
	before := chain.BestBlock().Header().Timestamp()

	chain.IncreaseTime(3600)
	require.NoError(t, chain.MintBlock())
	assert.GreaterOrEqual(t, chain.BestBlock().Header().Timestamp(), before+3600)
}
