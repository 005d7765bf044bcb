// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package erc721

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xngmi/nft-collateral/builtin/reverts"
	"github.com/0xngmi/nft-collateral/lvldb"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/state"
)

var (
	alice = nfc.BytesToAddress([]byte("alice"))
	bob   = nfc.BytesToAddress([]byte("bob"))
	carol = nfc.BytesToAddress([]byte("carol"))
)

func newToken(t *testing.T) *Token {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	return New(nfc.BytesToAddress([]byte("nft")), state.New(db), nil)
}

func assertRevert(t *testing.T, err error, msg string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, reverts.IsRevertErr(err))
	assert.Equal(t, msg, err.Error())
}

func TestMintAndOwnership(t *testing.T) {
	token := newToken(t)
	require.NoError(t, token.Init("Mock", "MCK"))
	name, _ := token.Name()
	symbol, _ := token.Symbol()
	assert.Equal(t, "Mock", name)
	assert.Equal(t, "MCK", symbol)

	id := big.NewInt(1)
	_, err := token.OwnerOf(id)
	assertRevert(t, err, "ERC721: invalid token ID")

	require.NoError(t, token.Mint(alice, id))
	assertRevert(t, token.Mint(bob, id), "ERC721: token already minted")
	assertRevert(t, token.Mint(nfc.Address{}, big.NewInt(2)), "ERC721: mint to the zero address")

	owner, err := token.OwnerOf(id)
	require.NoError(t, err)
	assert.Equal(t, alice, owner)

	bal, err := token.BalanceOf(alice)
	require.NoError(t, err)
	assert.Equal(t, int64(1), bal.Int64())
}

func TestTransferFrom(t *testing.T) {
	token := newToken(t)
	id := big.NewInt(7)
	require.NoError(t, token.Mint(alice, id))

	assertRevert(t, token.TransferFrom(bob, alice, bob, id), "ERC721: caller is not token owner or approved")
	assertRevert(t, token.TransferFrom(alice, bob, carol, id), "ERC721: transfer from incorrect owner")
	assertRevert(t, token.TransferFrom(alice, alice, nfc.Address{}, id), "ERC721: transfer to the zero address")

	owner, err := token.Approve(alice, bob, id)
	require.NoError(t, err)
	assert.Equal(t, alice, owner)
	approved, _ := token.GetApproved(id)
	assert.Equal(t, bob, approved)

	require.NoError(t, token.TransferFrom(bob, alice, carol, id))
	owner, _ = token.OwnerOf(id)
	assert.Equal(t, carol, owner)
	approved, _ = token.GetApproved(id)
	assert.True(t, approved.IsZero(), "approval cleared on transfer")

	balAlice, _ := token.BalanceOf(alice)
	balCarol, _ := token.BalanceOf(carol)
	assert.Zero(t, balAlice.Sign())
	assert.Equal(t, int64(1), balCarol.Int64())
}

func TestOperators(t *testing.T) {
	token := newToken(t)
	id := big.NewInt(3)
	require.NoError(t, token.Mint(alice, id))

	assertRevert(t, token.SetApprovalForAll(alice, alice, true), "ERC721: approve to caller")
	require.NoError(t, token.SetApprovalForAll(alice, bob, true))
	ok, _ := token.IsApprovedForAll(alice, bob)
	assert.True(t, ok)

	_, err := token.Approve(bob, carol, id)
	require.NoError(t, err)
	_, err = token.Approve(carol, carol, id)
	assertRevert(t, err, "ERC721: approve caller is not token owner or approved for all")

	require.NoError(t, token.TransferFrom(bob, alice, bob, id))

	require.NoError(t, token.SetApprovalForAll(alice, bob, false))
	ok, _ = token.IsApprovedForAll(alice, bob)
	assert.False(t, ok)
}
