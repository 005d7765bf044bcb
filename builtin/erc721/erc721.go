// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package erc721 is a minimal non-fungible token with open minting, used as loan collateral in tests.
package erc721

import (
	"math/big"

	"github.com/0xngmi/nft-collateral/builtin/reverts"
	"github.com/0xngmi/nft-collateral/builtin/solidity"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/state"
)

var (
	nameSlot      = solidity.Slot("name")
	symbolSlot    = solidity.Slot("symbol")
	ownersSlot    = solidity.Slot("owners")
	balancesSlot  = solidity.Slot("balances")
	approvalsSlot = solidity.Slot("tokenApprovals")
	operatorsSlot = solidity.Slot("operatorApprovals")
)

// Token implements native methods of `MockERC721` contract.
type Token struct {
	name      *solidity.Value[string]
	symbol    *solidity.Value[string]
	owners    *solidity.Mapping[nfc.Bytes32, nfc.Address]
	balances  *solidity.Mapping[nfc.Address, *big.Int]
	approvals *solidity.Mapping[nfc.Bytes32, nfc.Address]
	operators *solidity.Mapping[nfc.Bytes32, bool]
}

// New create a new instance.
func New(addr nfc.Address, state *state.State, charger solidity.UseGasFunc) *Token {
	ctx := solidity.NewContext(addr, state, charger)
	return &Token{
		name:      solidity.NewValue[string](ctx, nameSlot),
		symbol:    solidity.NewValue[string](ctx, symbolSlot),
		owners:    solidity.NewMapping[nfc.Bytes32, nfc.Address](ctx, ownersSlot),
		balances:  solidity.NewMapping[nfc.Address, *big.Int](ctx, balancesSlot),
		approvals: solidity.NewMapping[nfc.Bytes32, nfc.Address](ctx, approvalsSlot),
		operators: solidity.NewMapping[nfc.Bytes32, bool](ctx, operatorsSlot),
	}
}

// Init sets the token metadata, called once by the constructor.
func (t *Token) Init(name, symbol string) error {
	if err := t.name.Set(name); err != nil {
		return err
	}
	return t.symbol.Set(symbol)
}

func (t *Token) Name() (string, error)   { return t.name.Get() }
func (t *Token) Symbol() (string, error) { return t.symbol.Get() }

// BalanceOf returns the count of tokens held by owner.
func (t *Token) BalanceOf(owner nfc.Address) (*big.Int, error) {
	if owner.IsZero() {
		return nil, reverts.NewRequireError("ERC721: address zero is not a valid owner")
	}
	return t.balances.Get(owner)
}

// OwnerOf returns the owner of a minted token.
func (t *Token) OwnerOf(tokenID *big.Int) (nfc.Address, error) {
	owner, err := t.owners.Get(solidity.BigKey(tokenID))
	if err != nil {
		return nfc.Address{}, err
	}
	if owner.IsZero() {
		return nfc.Address{}, reverts.NewRequireError("ERC721: invalid token ID")
	}
	return owner, nil
}

// GetApproved returns the address approved for a single token.
func (t *Token) GetApproved(tokenID *big.Int) (nfc.Address, error) {
	if _, err := t.OwnerOf(tokenID); err != nil {
		return nfc.Address{}, err
	}
	return t.approvals.Get(solidity.BigKey(tokenID))
}

// IsApprovedForAll reports whether operator manages all tokens of owner.
func (t *Token) IsApprovedForAll(owner, operator nfc.Address) (bool, error) {
	return t.operators.Get(solidity.PairKey(owner, operator))
}

// Mint creates tokenID for to.
func (t *Token) Mint(to nfc.Address, tokenID *big.Int) error {
	if to.IsZero() {
		return reverts.NewRequireError("ERC721: mint to the zero address")
	}
	key := solidity.BigKey(tokenID)
	owner, err := t.owners.Get(key)
	if err != nil {
		return err
	}
	if !owner.IsZero() {
		return reverts.NewRequireError("ERC721: token already minted")
	}
	if err := t.addBalance(to, 1); err != nil {
		return err
	}
	return t.owners.Set(key, to)
}

// Approve lets to move tokenID on behalf of its owner. caller must be the owner or one of its operators.
// It returns the owner of the token.
func (t *Token) Approve(caller, to nfc.Address, tokenID *big.Int) (nfc.Address, error) {
	owner, err := t.OwnerOf(tokenID)
	if err != nil {
		return nfc.Address{}, err
	}
	if to == owner {
		return nfc.Address{}, reverts.NewRequireError("ERC721: approval to current owner")
	}
	if caller != owner {
		ok, err := t.IsApprovedForAll(owner, caller)
		if err != nil {
			return nfc.Address{}, err
		}
		if !ok {
			return nfc.Address{}, reverts.NewRequireError("ERC721: approve caller is not token owner or approved for all")
		}
	}
	return owner, t.approvals.Set(solidity.BigKey(tokenID), to)
}

// SetApprovalForAll grants or revokes operator over all tokens of owner.
func (t *Token) SetApprovalForAll(owner, operator nfc.Address, approved bool) error {
	if owner == operator {
		return reverts.NewRequireError("ERC721: approve to caller")
	}
	key := solidity.PairKey(owner, operator)
	if !approved {
		t.operators.Delete(key)
		return nil
	}
	return t.operators.Set(key, true)
}

// TransferFrom moves tokenID from from to to. caller must be the owner, approved for the token, or an operator.
func (t *Token) TransferFrom(caller, from, to nfc.Address, tokenID *big.Int) error {
	owner, err := t.OwnerOf(tokenID)
	if err != nil {
		return err
	}
	authorized, err := t.isApprovedOrOwner(caller, owner, tokenID)
	if err != nil {
		return err
	}
	if !authorized {
		return reverts.NewRequireError("ERC721: caller is not token owner or approved")
	}
	if owner != from {
		return reverts.NewRequireError("ERC721: transfer from incorrect owner")
	}
	if to.IsZero() {
		return reverts.NewRequireError("ERC721: transfer to the zero address")
	}

	key := solidity.BigKey(tokenID)
	t.approvals.Delete(key)
	if err := t.addBalance(from, -1); err != nil {
		return err
	}
	if err := t.addBalance(to, 1); err != nil {
		return err
	}
	return t.owners.Set(key, to)
}

func (t *Token) isApprovedOrOwner(spender, owner nfc.Address, tokenID *big.Int) (bool, error) {
	if spender == owner {
		return true, nil
	}
	ok, err := t.IsApprovedForAll(owner, spender)
	if err != nil || ok {
		return ok, err
	}
	approved, err := t.approvals.Get(solidity.BigKey(tokenID))
	if err != nil {
		return false, err
	}
	return approved == spender, nil
}

func (t *Token) addBalance(owner nfc.Address, delta int64) error {
	bal, err := t.balances.Get(owner)
	if err != nil {
		return err
	}
	return t.balances.Set(owner, bal.Add(bal, big.NewInt(delta)))
}
