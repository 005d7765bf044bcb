// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solo

import (
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/event"

	"github.com/0xngmi/nft-collateral/api/utils"
	"github.com/0xngmi/nft-collateral/chain"
	"github.com/0xngmi/nft-collateral/co"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/packer"
	"github.com/0xngmi/nft-collateral/tx"
	"github.com/0xngmi/nft-collateral/txpool"
)

// OnDemandTxPool packs a block for every tx it accepts, so it never holds pending txs.
type OnDemandTxPool struct {
	repo   *chain.Repository
	packer *packer.Packer

	txFeed event.Feed
	scope  event.SubscriptionScope
	goes   co.Goes

	mu sync.Mutex
}

func NewOnDemandTxPool(repo *chain.Repository, packer *packer.Packer) *OnDemandTxPool {
	return &OnDemandTxPool{
		repo:   repo,
		packer: packer,
	}
}

var _ txpool.Pool = (*OnDemandTxPool)(nil)

func (o *OnDemandTxPool) Get(nfc.Bytes32) *tx.Transaction {
	return nil
}

func (o *OnDemandTxPool) Add(newTx *tx.Transaction) error {
	return o.AddLocal(newTx)
}

func (o *OnDemandTxPool) AddLocal(newTx *tx.Transaction) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, err := txpool.Validate(newTx, o.repo); err != nil {
		return err
	}

	blk, _, err := o.packer.Pack(tx.Transactions{newTx}, o.packer.Clock().Now())
	if err != nil {
		return err
	}
	if len(blk.Transactions()) == 0 {
		// simulate API call for adding a transaction that gets rejected
		return utils.Forbidden(errors.New("tx rejected: not executable"))
	}

	executable := true
	o.goes.Go(func() {
		o.txFeed.Send(&txpool.TxEvent{
			Tx:         newTx,
			Executable: &executable,
		})
	})
	return nil
}

func (o *OnDemandTxPool) Dump() tx.Transactions {
	return tx.Transactions{}
}

func (o *OnDemandTxPool) Len() int {
	return 0
}

func (o *OnDemandTxPool) SubscribeTxEvent(ch chan *txpool.TxEvent) event.Subscription {
	return o.scope.Track(o.txFeed.Subscribe(ch))
}

func (o *OnDemandTxPool) Executables() tx.Transactions {
	return tx.Transactions{}
}

func (o *OnDemandTxPool) Remove(nfc.Bytes32) bool {
	return false
}

func (o *OnDemandTxPool) Close() {
	o.scope.Close()
	o.goes.Wait()
}
