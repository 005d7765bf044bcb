// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fraction is the ERC-20 token issued against a rugged loan. Its creator is the minter.
package fraction

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/0xngmi/nft-collateral/builtin/reverts"
	"github.com/0xngmi/nft-collateral/builtin/solidity"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/state"
)

// Decimals of every fraction token.
const Decimals uint8 = 18

var (
	nameSlot        = solidity.Slot("name")
	symbolSlot      = solidity.Slot("symbol")
	minterSlot      = solidity.Slot("minter")
	totalSupplySlot = solidity.Slot("totalSupply")
	balancesSlot    = solidity.Slot("balances")
	allowancesSlot  = solidity.Slot("allowances")
)

// maxUint256 is the unlimited allowance, never decremented by TransferFrom.
var maxUint256 = new(uint256.Int).SetAllOne()

// Token implements native methods of `Fraction` contract.
type Token struct {
	name        *solidity.Value[string]
	symbol      *solidity.Value[string]
	minter      *solidity.Address
	totalSupply *solidity.Uint256
	balances    *solidity.Mapping[nfc.Address, *big.Int]
	allowances  *solidity.Mapping[nfc.Bytes32, *big.Int]
}

// New create a new instance.
func New(addr nfc.Address, state *state.State, charger solidity.UseGasFunc) *Token {
	ctx := solidity.NewContext(addr, state, charger)
	return &Token{
		name:        solidity.NewValue[string](ctx, nameSlot),
		symbol:      solidity.NewValue[string](ctx, symbolSlot),
		minter:      solidity.NewAddress(ctx, minterSlot),
		totalSupply: solidity.NewUint256(ctx, totalSupplySlot),
		balances:    solidity.NewMapping[nfc.Address, *big.Int](ctx, balancesSlot),
		allowances:  solidity.NewMapping[nfc.Bytes32, *big.Int](ctx, allowancesSlot),
	}
}

// Init sets metadata and the minter, called once by the constructor.
func (t *Token) Init(name, symbol string, minter nfc.Address) error {
	if err := t.name.Set(name); err != nil {
		return err
	}
	if err := t.symbol.Set(symbol); err != nil {
		return err
	}
	return t.minter.Set(minter)
}

func (t *Token) Name() (string, error)          { return t.name.Get() }
func (t *Token) Symbol() (string, error)        { return t.symbol.Get() }
func (t *Token) Minter() (nfc.Address, error)   { return t.minter.Get() }
func (t *Token) TotalSupply() (*big.Int, error) { return t.totalSupply.Get() }

// BalanceOf returns the token balance of account.
func (t *Token) BalanceOf(account nfc.Address) (*big.Int, error) {
	return t.balances.Get(account)
}

// Allowance returns the amount spender may still move on behalf of owner.
func (t *Token) Allowance(owner, spender nfc.Address) (*big.Int, error) {
	return t.allowances.Get(solidity.PairKey(owner, spender))
}

// Approve sets the allowance of spender over the tokens of owner.
func (t *Token) Approve(owner, spender nfc.Address, amount *big.Int) error {
	if spender.IsZero() {
		return reverts.NewRequireError("ERC20: approve to the zero address")
	}
	return t.allowances.Set(solidity.PairKey(owner, spender), amount)
}

// Transfer moves amount from from to to. A zero amount is a valid transfer.
func (t *Token) Transfer(from, to nfc.Address, amount *big.Int) error {
	if to.IsZero() {
		return reverts.NewRequireError("ERC20: transfer to the zero address")
	}
	if err := t.subBalance(from, amount, "ERC20: transfer amount exceeds balance"); err != nil {
		return err
	}
	return t.addBalance(to, amount)
}

// TransferFrom moves amount from from to to, spending the allowance granted to spender.
func (t *Token) TransferFrom(spender, from, to nfc.Address, amount *big.Int) error {
	key := solidity.PairKey(from, spender)
	allowance, err := t.allowances.Get(key)
	if err != nil {
		return err
	}
	current := toU256(allowance)
	if !current.Eq(maxUint256) {
		left, underflow := new(uint256.Int).SubOverflow(current, toU256(amount))
		if underflow {
			return reverts.NewRequireError("ERC20: insufficient allowance")
		}
		if err := t.allowances.Set(key, left.ToBig()); err != nil {
			return err
		}
	}
	return t.Transfer(from, to, amount)
}

// Mint creates amount tokens for to. Only the minter may mint.
func (t *Token) Mint(caller, to nfc.Address, amount *big.Int) error {
	if err := t.requireMinter(caller); err != nil {
		return err
	}
	if to.IsZero() {
		return reverts.NewRequireError("ERC20: mint to the zero address")
	}
	supply, err := t.totalSupply.Get()
	if err != nil {
		return err
	}
	newSupply, err := add(supply, amount)
	if err != nil {
		return err
	}
	if err := t.totalSupply.Set(newSupply); err != nil {
		return err
	}
	return t.addBalance(to, amount)
}

// Burn destroys amount tokens held by from. Only the minter may burn.
func (t *Token) Burn(caller, from nfc.Address, amount *big.Int) error {
	if err := t.requireMinter(caller); err != nil {
		return err
	}
	if err := t.subBalance(from, amount, "ERC20: burn amount exceeds balance"); err != nil {
		return err
	}
	supply, err := t.totalSupply.Get()
	if err != nil {
		return err
	}
	return t.totalSupply.Set(supply.Sub(supply, amount))
}

func (t *Token) requireMinter(caller nfc.Address) error {
	minter, err := t.minter.Get()
	if err != nil {
		return err
	}
	if minter != caller {
		return reverts.NewRequireError("Fraction: caller is not the minter")
	}
	return nil
}

func (t *Token) addBalance(account nfc.Address, amount *big.Int) error {
	bal, err := t.balances.Get(account)
	if err != nil {
		return err
	}
	sum, err := add(bal, amount)
	if err != nil {
		return err
	}
	return t.balances.Set(account, sum)
}

func (t *Token) subBalance(account nfc.Address, amount *big.Int, msg string) error {
	bal, err := t.balances.Get(account)
	if err != nil {
		return err
	}
	left, underflow := new(uint256.Int).SubOverflow(toU256(bal), toU256(amount))
	if underflow {
		return reverts.NewRequireError(msg)
	}
	return t.balances.Set(account, left.ToBig())
}

func add(a, b *big.Int) (*big.Int, error) {
	sum, overflow := new(uint256.Int).AddOverflow(toU256(a), toU256(b))
	if overflow {
		return nil, reverts.NewRequireError("arithmetic overflow")
	}
	return sum.ToBig(), nil
}

// toU256 converts a decoded uint256 argument or stored value, both of which fit in 256 bits.
func toU256(v *big.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	u, _ := uint256.FromBig(v)
	return u
}
