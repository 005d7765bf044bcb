// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package packer

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/0xngmi/nft-collateral/block"
	"github.com/0xngmi/nft-collateral/chain"
	"github.com/0xngmi/nft-collateral/log"
	"github.com/0xngmi/nft-collateral/logdb"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/runtime"
	"github.com/0xngmi/nft-collateral/state"
	"github.com/0xngmi/nft-collateral/tx"
	"github.com/0xngmi/nft-collateral/xenv"
)

var logger = log.WithContext("pkg", "packer")

// Packer to pack txs and build new blocks.
type Packer struct {
	repo        *chain.Repository
	stater      *state.Stater
	logDB       *logdb.LogDB
	beneficiary nfc.Address
	clock       *Clock

	lock sync.Mutex
}

// New create a new Packer instance. logDB may be nil to skip log indexing.
func New(
	repo *chain.Repository,
	stater *state.Stater,
	logDB *logdb.LogDB,
	beneficiary nfc.Address,
	clock *Clock,
) *Packer {
	return &Packer{
		repo:        repo,
		stater:      stater,
		logDB:       logDB,
		beneficiary: beneficiary,
		clock:       clock,
	}
}

// Clock returns the clock blocks are timestamped with.
func (p *Packer) Clock() *Clock {
	return p.clock
}

// Schedule prepares a flow on top of parent. The new block is timestamped no earlier than
// one second after its parent.
func (p *Packer) Schedule(parent *block.Header, nowTimestamp uint64) *Flow {
	rt := runtime.New(p.stater.NewState(), &xenv.BlockContext{
		Beneficiary: p.beneficiary,
		Number:      parent.Number() + 1,
		Time:        max(parent.Timestamp()+1, nowTimestamp),
		GasLimit:    parent.GasLimit(),
	})
	return newFlow(p, parent, rt)
}

// Pack executes txs on top of the best block and commits the resulting block.
// It returns the block and the txs that should leave the pool: the adopted ones
// and the ones that can never be adopted.
func (p *Packer) Pack(txs tx.Transactions, timestamp uint64) (*block.Block, tx.Transactions, error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	startTime := time.Now()
	flow := p.Schedule(p.repo.BestBlock().Header(), timestamp)

	var drop tx.Transactions
	for _, trx := range txs {
		if err := flow.Adopt(trx); err != nil {
			if IsGasLimitReached(err) {
				break
			}
			if IsTxNotAdoptableNow(err) {
				continue
			}
			logger.Debug("tx dropped", "id", trx.ID(), "err", err)
			drop = append(drop, trx)
		}
	}

	newBlock, _, err := p.commit(flow)
	if err != nil {
		return nil, nil, err
	}

	metricBlockPackingMs().Observe(time.Since(startTime).Milliseconds())
	return newBlock, append(drop, flow.Txs()...), nil
}

func (p *Packer) commit(flow *Flow) (*block.Block, tx.Receipts, error) {
	newBlock, stage, receipts, err := flow.Pack()
	if err != nil {
		return nil, nil, errors.WithMessage(err, "pack")
	}
	if err := p.stater.Commit(stage); err != nil {
		return nil, nil, errors.WithMessage(err, "commit state")
	}

	if p.logDB != nil {
		batch := p.logDB.Prepare(newBlock.Header())
		for i, trx := range newBlock.Transactions() {
			txBatch := batch.ForTransaction(trx.ID(), receipts[i].Origin)
			for _, output := range receipts[i].Outputs {
				txBatch.Insert(output.Events, output.Transfers)
			}
		}
		if err := batch.Commit(); err != nil {
			return nil, nil, errors.WithMessage(err, "commit logs")
		}
	}

	if err := p.repo.AddBlock(newBlock, receipts); err != nil {
		return nil, nil, errors.WithMessage(err, "commit block")
	}

	header := newBlock.Header()
	metricPackedBlocks().Add(1)
	metricBlockGasUsed().Observe(int64(header.GasUsed()))
	for _, r := range receipts {
		if r.Reverted {
			metricPackedTxs().AddWithLabel(1, map[string]string{"reverted": "true"})
		} else {
			metricPackedTxs().AddWithLabel(1, map[string]string{"reverted": "false"})
		}
	}
	logger.Info("📦 new block packed",
		"txs", len(receipts),
		"mgas", float64(header.GasUsed())/1000/1000,
		"id", header.ID().AbbrevString(),
		"number", header.Number(),
		"time", header.Timestamp(),
	)
	return newBlock, receipts, nil
}
