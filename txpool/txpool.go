// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/event"

	"github.com/0xngmi/nft-collateral/chain"
	"github.com/0xngmi/nft-collateral/co"
	"github.com/0xngmi/nft-collateral/log"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/tx"
)

var logger = log.WithContext("pkg", "txpool")

// Options options for tx pool.
type Options struct {
	Limit           int
	LimitPerAccount int
	MaxLifetime     time.Duration
}

// DefaultOptions fits a single developer node.
var DefaultOptions = Options{
	Limit:           10000,
	LimitPerAccount: 128,
	MaxLifetime:     20 * time.Minute,
}

// TxEvent will be posted when tx is added or status changed.
type TxEvent struct {
	Tx         *tx.Transaction
	Executable *bool
}

// Pool defines the interface for the transaction pool
type Pool interface {
	Get(txID nfc.Bytes32) *tx.Transaction
	Add(newTx *tx.Transaction) error
	AddLocal(newTx *tx.Transaction) error
	Remove(txID nfc.Bytes32) bool
	Dump() tx.Transactions
	Len() int
	SubscribeTxEvent(chan *TxEvent) event.Subscription
	Executables() tx.Transactions
	Close()
}

// TxPool maintains unprocessed transactions.
type TxPool struct {
	options Options
	repo    *chain.Repository

	all *txObjectMap
	seq atomic.Uint64

	ctx    context.Context
	cancel func()
	txFeed event.Feed
	scope  event.SubscriptionScope
	goes   co.Goes
}

var _ Pool = (*TxPool)(nil)

// New create a new TxPool instance.
// Close is required to be called at end.
func New(repo *chain.Repository, options Options) *TxPool {
	ctx, cancel := context.WithCancel(context.Background())
	pool := &TxPool{
		options: options,
		repo:    repo,
		all:     newTxObjectMap(),
		ctx:     ctx,
		cancel:  cancel,
	}
	pool.goes.Go(pool.housekeeping)
	return pool
}

func (p *TxPool) housekeeping() {
	logger.Debug("enter housekeeping")
	defer logger.Debug("leave housekeeping")

	ticker := p.repo.NewTicker()
	washTicker := time.NewTicker(time.Second)
	defer washTicker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C():
			p.wash()
		case <-washTicker.C:
			p.wash()
		}
	}
}

// wash evicts txs that are packed or out of lifetime.
func (p *TxPool) wash() {
	now := time.Now().UnixNano()
	for _, txObj := range p.all.ToTxObjects() {
		reason := ""
		if known, err := p.repo.HasTransaction(txObj.ID()); err != nil {
			logger.Warn("failed to look up tx", "id", txObj.ID(), "err", err)
			continue
		} else if known {
			reason = "packed"
		} else if !txObj.localSubmitted && now > txObj.timeAdded+int64(p.options.MaxLifetime) {
			reason = "out of lifetime"
		}
		if reason != "" && p.all.RemoveByID(txObj.ID()) {
			metricTxPoolGauge().Add(-1)
			metricWashedCount().AddWithLabel(1, map[string]string{"reason": reason})
			logger.Trace("tx washed out", "id", txObj.ID(), "reason", reason)
		}
	}
}

// Close cleanup inner go routines.
func (p *TxPool) Close() {
	p.cancel()
	p.scope.Close()
	p.goes.Wait()
	logger.Debug("closed")
}

// SubscribeTxEvent receivers will receive a tx
func (p *TxPool) SubscribeTxEvent(ch chan *TxEvent) event.Subscription {
	return p.scope.Track(p.txFeed.Subscribe(ch))
}

func (p *TxPool) add(newTx *tx.Transaction, localSubmitted bool) (err error) {
	source := "remote"
	if localSubmitted {
		source = "local"
	}
	defer func() {
		if err != nil {
			metricBadTxCount().AddWithLabel(1, map[string]string{"source": source})
		}
	}()

	if p.all.Contains(newTx.ID()) {
		// tx already in the pool
		return nil
	}
	resolved, err := Validate(newTx, p.repo)
	if err != nil {
		return err
	}
	if !localSubmitted && p.all.Len() >= p.options.Limit {
		return txRejectedError{"pool is full"}
	}

	txObj := &txObject{
		Transaction:    newTx,
		resolved:       resolved,
		timeAdded:      time.Now().UnixNano(),
		seq:            p.seq.Add(1),
		localSubmitted: localSubmitted,
	}
	if err := p.all.Add(txObj, p.options.LimitPerAccount); err != nil {
		return txRejectedError{err.Error()}
	}

	executable := true
	p.goes.Go(func() {
		p.txFeed.Send(&TxEvent{newTx, &executable})
	})
	metricTxPoolGauge().Add(1)
	logger.Trace("tx added", "id", newTx.ID(), "origin", resolved.Origin)
	return nil
}

// Add adds a new tx into pool.
// It's not assumed as an error if the tx to be added is already in the pool.
func (p *TxPool) Add(newTx *tx.Transaction) error {
	return p.add(newTx, false)
}

// AddLocal adds new locally submitted tx into pool.
func (p *TxPool) AddLocal(newTx *tx.Transaction) error {
	return p.add(newTx, true)
}

// Get get pooled tx by id.
func (p *TxPool) Get(id nfc.Bytes32) *tx.Transaction {
	if txObj := p.all.GetByID(id); txObj != nil {
		return txObj.Transaction
	}
	return nil
}

// Remove removes tx from pool by its ID.
func (p *TxPool) Remove(txID nfc.Bytes32) bool {
	if p.all.RemoveByID(txID) {
		metricTxPoolGauge().Add(-1)
		logger.Debug("tx removed", "id", txID)
		return true
	}
	return false
}

// Executables returns txs ready to be packed, in arrival order.
func (p *TxPool) Executables() tx.Transactions {
	return p.all.ToTxs()
}

// Dump dumps all txs in the pool.
func (p *TxPool) Dump() tx.Transactions {
	return p.all.ToTxs()
}

// Len returns count of pooled txs.
func (p *TxPool) Len() int {
	return p.all.Len()
}
