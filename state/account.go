// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/0xngmi/nft-collateral/kv"
	"github.com/0xngmi/nft-collateral/nfc"
)

// Account is the persisted representation of an account.
// Code of a contract account is the name of the built-in template it runs.
type Account struct {
	Balance *big.Int
	Code    []byte
}

// IsEmpty returns if an account is empty.
// An empty account has zero balance and no code.
func (a *Account) IsEmpty() bool {
	return a.Balance.Sign() == 0 && len(a.Code) == 0
}

func emptyAccount() *Account {
	return &Account{Balance: &big.Int{}}
}

// loadAccount loads an account from the accounts bucket, an absent account is empty.
func loadAccount(getter kv.Getter, addr nfc.Address) (*Account, error) {
	data, err := getter.Get(addr.Bytes())
	if err != nil {
		if getter.IsNotFound(err) {
			return emptyAccount(), nil
		}
		return nil, err
	}
	var a Account
	if err := rlp.DecodeBytes(data, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// loadStorage loads a raw storage value, an absent slot is nil.
func loadStorage(getter kv.Getter, addr nfc.Address, key nfc.Bytes32) (rlp.RawValue, error) {
	data, err := getter.Get(storageDBKey(addr, key))
	if err != nil {
		if getter.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

func storageDBKey(addr nfc.Address, key nfc.Bytes32) []byte {
	return append(append(make([]byte, 0, 52), addr[:]...), key[:]...)
}
