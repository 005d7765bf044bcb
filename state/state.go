// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/0xngmi/nft-collateral/kv"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/stackedmap"
)

const (
	accountBucket = kv.Bucket("a")
	storageBucket = kv.Bucket("s")
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

type keyKind byte

const (
	accountKind keyKind = iota
	storageKind
)

// key addresses one journaled entry: an account or one storage slot of an account.
type key struct {
	kind keyKind
	addr nfc.Address
	slot nfc.Bytes32
}

// State manages the world state.
type State struct {
	accounts kv.Getter
	storage  kv.Getter
	cache    map[key]any // values read from db
	sm       *stackedmap.StackedMap[key, any]
}

// New create state object reading committed data from db.
func New(db kv.Getter) *State {
	state := &State{
		accounts: accountBucket.NewGetter(db),
		storage:  storageBucket.NewGetter(db),
		cache:    make(map[key]any),
	}
	state.sm = stackedmap.New[key, any](state.cacheGetter)
	return state
}

// cacheGetter implements stackedmap.MapGetter.
func (s *State) cacheGetter(k key) (any, bool, error) {
	if v, ok := s.cache[k]; ok {
		return v, true, nil
	}

	var (
		v   any
		err error
	)
	switch k.kind {
	case accountKind:
		v, err = loadAccount(s.accounts, k.addr)
	case storageKind:
		v, err = loadStorage(s.storage, k.addr, k.slot)
	default:
		panic(fmt.Errorf("unexpected key kind %d", k.kind))
	}
	if err != nil {
		return nil, false, err
	}
	s.cache[k] = v
	return v, true, nil
}

// getAccount gets account by address. the returned account should not be modified.
func (s *State) getAccount(addr nfc.Address) (*Account, error) {
	v, _, err := s.sm.Get(key{kind: accountKind, addr: addr})
	if err != nil {
		return nil, err
	}
	return v.(*Account), nil
}

// getAccountCopy get a copy of account by address.
func (s *State) getAccountCopy(addr nfc.Address) (Account, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return Account{}, err
	}
	return *acc, nil
}

func (s *State) updateAccount(addr nfc.Address, acc *Account) {
	s.sm.Put(key{kind: accountKind, addr: addr}, acc)
}

// GetBalance returns balance for the given address.
func (s *State) GetBalance(addr nfc.Address) (*big.Int, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return nil, &Error{err}
	}
	return acc.Balance, nil
}

// SetBalance set balance for the given address.
func (s *State) SetBalance(addr nfc.Address, balance *big.Int) error {
	cpy, err := s.getAccountCopy(addr)
	if err != nil {
		return &Error{err}
	}
	cpy.Balance = balance
	s.updateAccount(addr, &cpy)
	return nil
}

// AddBalance adds amount to the balance of addr.
func (s *State) AddBalance(addr nfc.Address, amount *big.Int) error {
	bal, err := s.GetBalance(addr)
	if err != nil {
		return err
	}
	return s.SetBalance(addr, new(big.Int).Add(bal, amount))
}

// SubBalance subtracts amount from the balance of addr.
// It returns false without touching state if the balance is insufficient.
func (s *State) SubBalance(addr nfc.Address, amount *big.Int) (bool, error) {
	bal, err := s.GetBalance(addr)
	if err != nil {
		return false, err
	}
	if bal.Cmp(amount) < 0 {
		return false, nil
	}
	return true, s.SetBalance(addr, new(big.Int).Sub(bal, amount))
}

// GetCode returns code for the given address.
func (s *State) GetCode(addr nfc.Address) ([]byte, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return nil, &Error{err}
	}
	return acc.Code, nil
}

// SetCode set code for the given address.
func (s *State) SetCode(addr nfc.Address, code []byte) error {
	cpy, err := s.getAccountCopy(addr)
	if err != nil {
		return &Error{err}
	}
	cpy.Code = append([]byte(nil), code...)
	s.updateAccount(addr, &cpy)
	return nil
}

// Exists returns whether an account exists at the given address.
// See Account.IsEmpty()
func (s *State) Exists(addr nfc.Address) (bool, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return false, &Error{err}
	}
	return !acc.IsEmpty(), nil
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr nfc.Address, k nfc.Bytes32) (nfc.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, k)
	if err != nil {
		return nfc.Bytes32{}, err
	}
	if len(raw) == 0 {
		return nfc.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return nfc.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// structured value, identified by its hash
		return nfc.Blake2b(raw), nil
	}
	return nfc.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr nfc.Address, k, value nfc.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, k, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, k, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr nfc.Address, k nfc.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(key{storageKind, addr, k})
	if err != nil {
		return nil, &Error{err}
	}
	return data.(rlp.RawValue), nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr nfc.Address, k nfc.Bytes32, raw rlp.RawValue) {
	s.sm.Put(key{storageKind, addr, k}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(addr nfc.Address, k nfc.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, k, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr nfc.Address, k nfc.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, k)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Stage collects the final value of every changed entry and derives the new root from parentRoot.
func (s *State) Stage(parentRoot nfc.Bytes32) (*Stage, error) {
	changes := make(map[key]any)
	s.sm.Journal(func(k key, v any) bool {
		changes[k] = v
		return true
	})
	return newStage(parentRoot, changes)
}
