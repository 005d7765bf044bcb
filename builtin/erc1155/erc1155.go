// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package erc1155 is a minimal multi-token with open minting, used as loan collateral in tests.
package erc1155

import (
	"math/big"

	"github.com/0xngmi/nft-collateral/builtin/reverts"
	"github.com/0xngmi/nft-collateral/builtin/solidity"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/state"
)

var (
	balancesSlot  = solidity.Slot("balances")
	operatorsSlot = solidity.Slot("operatorApprovals")
)

// Token implements native methods of `MockERC1155` contract.
type Token struct {
	balances  *solidity.Mapping[nfc.Bytes32, *big.Int]
	operators *solidity.Mapping[nfc.Bytes32, bool]
}

// New create a new instance.
func New(addr nfc.Address, state *state.State, charger solidity.UseGasFunc) *Token {
	ctx := solidity.NewContext(addr, state, charger)
	return &Token{
		balances:  solidity.NewMapping[nfc.Bytes32, *big.Int](ctx, balancesSlot),
		operators: solidity.NewMapping[nfc.Bytes32, bool](ctx, operatorsSlot),
	}
}

func balanceKey(account nfc.Address, id *big.Int) nfc.Bytes32 {
	return solidity.PairKey(solidity.BigKey(id), account)
}

// BalanceOf returns the amount of token id held by account.
func (t *Token) BalanceOf(account nfc.Address, id *big.Int) (*big.Int, error) {
	if account.IsZero() {
		return nil, reverts.NewRequireError("ERC1155: address zero is not a valid owner")
	}
	return t.balances.Get(balanceKey(account, id))
}

// IsApprovedForAll reports whether operator manages all tokens of account.
func (t *Token) IsApprovedForAll(account, operator nfc.Address) (bool, error) {
	return t.operators.Get(solidity.PairKey(account, operator))
}

// SetApprovalForAll grants or revokes operator over all tokens of owner.
func (t *Token) SetApprovalForAll(owner, operator nfc.Address, approved bool) error {
	if owner == operator {
		return reverts.NewRequireError("ERC1155: setting approval status for self")
	}
	key := solidity.PairKey(owner, operator)
	if !approved {
		t.operators.Delete(key)
		return nil
	}
	return t.operators.Set(key, true)
}

// Mint creates amount of token id for to.
func (t *Token) Mint(to nfc.Address, id, amount *big.Int) error {
	if to.IsZero() {
		return reverts.NewRequireError("ERC1155: mint to the zero address")
	}
	key := balanceKey(to, id)
	bal, err := t.balances.Get(key)
	if err != nil {
		return err
	}
	return t.balances.Set(key, bal.Add(bal, amount))
}

// SafeTransferFrom moves amount of token id. caller must be from or one of its operators.
// Notifying a receiving contract is left to the caller of this method.
func (t *Token) SafeTransferFrom(caller, from, to nfc.Address, id, amount *big.Int) error {
	if caller != from {
		ok, err := t.IsApprovedForAll(from, caller)
		if err != nil {
			return err
		}
		if !ok {
			return reverts.NewRequireError("ERC1155: caller is not token owner or approved")
		}
	}
	if to.IsZero() {
		return reverts.NewRequireError("ERC1155: transfer to the zero address")
	}

	fromKey := balanceKey(from, id)
	fromBal, err := t.balances.Get(fromKey)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return reverts.NewRequireError("ERC1155: insufficient balance for transfer")
	}
	if err := t.balances.Set(fromKey, fromBal.Sub(fromBal, amount)); err != nil {
		return err
	}

	toKey := balanceKey(to, id)
	toBal, err := t.balances.Get(toKey)
	if err != nil {
		return err
	}
	return t.balances.Set(toKey, toBal.Add(toBal, amount))
}
