// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import (
	"cmp"
	"errors"
	"slices"
	"sync"

	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/runtime"
	"github.com/0xngmi/nft-collateral/tx"
)

type txObject struct {
	*tx.Transaction
	resolved       *runtime.ResolvedTransaction
	timeAdded      int64
	seq            uint64 // arrival order
	localSubmitted bool
}

func (o *txObject) Origin() nfc.Address {
	return o.resolved.Origin
}

// txObjectMap to maintain mapping of tx id to tx object and account quota.
type txObjectMap struct {
	lock    sync.RWMutex
	mapByID map[nfc.Bytes32]*txObject
	quota   map[nfc.Address]int
}

func newTxObjectMap() *txObjectMap {
	return &txObjectMap{
		mapByID: make(map[nfc.Bytes32]*txObject),
		quota:   make(map[nfc.Address]int),
	}
}

func (m *txObjectMap) Contains(txID nfc.Bytes32) bool {
	m.lock.RLock()
	defer m.lock.RUnlock()
	_, found := m.mapByID[txID]
	return found
}

func (m *txObjectMap) Add(txObj *txObject, limitPerAccount int) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if _, found := m.mapByID[txObj.ID()]; found {
		return nil
	}
	if m.quota[txObj.Origin()] >= limitPerAccount {
		return errors.New("account quota exceeded")
	}
	m.quota[txObj.Origin()]++
	m.mapByID[txObj.ID()] = txObj
	return nil
}

func (m *txObjectMap) GetByID(id nfc.Bytes32) *txObject {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.mapByID[id]
}

func (m *txObjectMap) RemoveByID(txID nfc.Bytes32) bool {
	m.lock.Lock()
	defer m.lock.Unlock()

	txObj, ok := m.mapByID[txID]
	if !ok {
		return false
	}
	if m.quota[txObj.Origin()] > 1 {
		m.quota[txObj.Origin()]--
	} else {
		delete(m.quota, txObj.Origin())
	}
	delete(m.mapByID, txID)
	return true
}

// ToTxObjects returns all objects in arrival order.
func (m *txObjectMap) ToTxObjects() []*txObject {
	m.lock.RLock()
	objs := make([]*txObject, 0, len(m.mapByID))
	for _, obj := range m.mapByID {
		objs = append(objs, obj)
	}
	m.lock.RUnlock()

	slices.SortFunc(objs, func(a, b *txObject) int {
		return cmp.Compare(a.seq, b.seq)
	})
	return objs
}

func (m *txObjectMap) ToTxs() tx.Transactions {
	objs := m.ToTxObjects()
	txs := make(tx.Transactions, 0, len(objs))
	for _, obj := range objs {
		txs = append(txs, obj.Transaction)
	}
	return txs
}

func (m *txObjectMap) Len() int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return len(m.mapByID)
}
