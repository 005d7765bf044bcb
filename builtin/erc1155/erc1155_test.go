// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package erc1155

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

func TestToken(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	token := New(nfc.BytesToAddress([]byte("multi")), state.New(db), nil)

	alice := nfc.BytesToAddress([]byte("alice"))
	bob := nfc.BytesToAddress([]byte("bob"))
	id := big.NewInt(5)

	require.NoError(t, token.Mint(alice, id, big.NewInt(3)))
	bal, err := token.BalanceOf(alice, id)
	require.NoError(t, err)
	assert.Equal(t, int64(3), bal.Int64())

	other, _ := token.BalanceOf(alice, big.NewInt(6))
	assert.Zero(t, other.Sign())

	tests := []struct {
		name   string
		caller nfc.Address
		amount int64
		revert string
	}{
		{"not approved", bob, 1, "ERC1155: caller is not token owner or approved"},
		{"insufficient", alice, 4, "ERC1155: insufficient balance for transfer"},
		{"ok", alice, 2, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := token.SafeTransferFrom(tt.caller, alice, bob, id, big.NewInt(tt.amount))
			if tt.revert == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, reverts.IsRevertErr(err))
			assert.EqualError(t, err, tt.revert)
		})
	}

	bal, _ = token.BalanceOf(alice, id)
	assert.Equal(t, int64(1), bal.Int64())
	bal, _ = token.BalanceOf(bob, id)
	assert.Equal(t, int64(2), bal.Int64())

	require.NoError(t, token.SetApprovalForAll(alice, bob, true))
	require.NoError(t, token.SafeTransferFrom(bob, alice, bob, id, big.NewInt(1)))
	bal, _ = token.BalanceOf(bob, id)
	assert.Equal(t, int64(3), bal.Int64())

	assert.Error(t, token.SetApprovalForAll(alice, alice, true))
	assert.Error(t, token.SafeTransferFrom(bob, bob, nfc.Address{}, id, big.NewInt(1)))
}
