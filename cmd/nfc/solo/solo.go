// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solo

import (
	"context"
	"time"

	"github.com/0xngmi/nft-collateral/co"
	"github.com/0xngmi/nft-collateral/log"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/packer"
	"github.com/0xngmi/nft-collateral/tx"
)

var logger = log.WithContext("pkg", "solo")

type Options struct {
	OnDemand      bool
	BlockInterval uint64
}

// Solo mode is the standalone client without p2p server
type Solo struct {
	txPool  TxPool
	packer  *packer.Packer
	options Options
}

type TxPool interface {
	// Executables returns the transactions that can be executed
	Executables() tx.Transactions
	// Remove removes a transaction from the pool
	Remove(txID nfc.Bytes32) bool
}

// New returns Solo instance
func New(txPool TxPool, packer *packer.Packer, options Options) *Solo {
	if options.BlockInterval == 0 {
		options.BlockInterval = nfc.BlockInterval
	}
	return &Solo{
		txPool:  txPool,
		packer:  packer,
		options: options,
	}
}

// Run runs the packer for solo until ctx is done.
func (s *Solo) Run(ctx context.Context) error {
	goes := &co.Goes{}

	defer func() {
		<-ctx.Done()
		goes.Wait()
	}()

	if s.options.OnDemand {
		logger.Info("prepared to pack block on demand")
		return nil
	}

	logger.Info("prepared to pack block", "interval", s.options.BlockInterval)
	goes.Go(func() {
		s.loop(ctx)
	})

	return nil
}

func (s *Solo) loop(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(s.options.BlockInterval) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("stopping interval packing service......")
			return
		case <-ticker.C:
			s.pack()
		}
	}
}

func (s *Solo) pack() {
	_, done, err := s.packer.Pack(s.txPool.Executables(), s.packer.Clock().Now())
	if err != nil {
		logger.Error("failed to pack block", "err", err)
		return
	}
	for _, trx := range done {
		s.txPool.Remove(trx.ID())
	}
}
