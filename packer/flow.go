// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package packer

import (
	"github.com/0xngmi/nft-collateral/block"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/runtime"
	"github.com/0xngmi/nft-collateral/state"
	"github.com/0xngmi/nft-collateral/tx"
)

// Flow the flow of packing a new block.
type Flow struct {
	packer       *Packer
	parentHeader *block.Header
	runtime      *runtime.Runtime
	processedTxs map[nfc.Bytes32]bool // txID -> reverted
	gasUsed      uint64
	txs          tx.Transactions
	receipts     tx.Receipts
}

func newFlow(packer *Packer, parentHeader *block.Header, runtime *runtime.Runtime) *Flow {
	return &Flow{
		packer:       packer,
		parentHeader: parentHeader,
		runtime:      runtime,
		processedTxs: make(map[nfc.Bytes32]bool),
	}
}

// ParentHeader returns parent block header.
func (f *Flow) ParentHeader() *block.Header {
	return f.parentHeader
}

// When the target time to do packing.
func (f *Flow) When() uint64 {
	return f.runtime.BlockTime()
}

// Adopt try to execute the given transaction.
// If the tx is valid and can be executed on current state (regardless of revert),
// it will be adopted by the new block.
func (f *Flow) Adopt(trx *tx.Transaction) error {
	switch {
	case trx.ChainTag() != f.packer.repo.ChainTag():
		return badTxError{"chain tag mismatch"}
	case f.gasUsed+trx.Gas() > f.runtime.BlockGasLimit():
		// gasUsed < 90% gas limit
		if float64(f.gasUsed)/float64(f.runtime.BlockGasLimit()) < 0.9 {
			// try to find a lower gas tx
			return errTxNotAdoptableNow
		}
		return errGasLimitReached
	}

	// check if tx already there
	if _, ok := f.processedTxs[trx.ID()]; ok {
		return errKnownTx
	}
	if known, err := f.packer.repo.HasTransaction(trx.ID()); err != nil {
		return err
	} else if known {
		return errKnownTx
	}

	checkpoint := f.runtime.State().NewCheckpoint()
	receipt, err := f.runtime.ExecuteTransaction(trx)
	if err != nil {
		// skip and revert state
		f.runtime.State().RevertTo(checkpoint)
		return badTxError{err.Error()}
	}
	f.processedTxs[trx.ID()] = receipt.Reverted
	f.gasUsed += receipt.GasUsed
	f.receipts = append(f.receipts, receipt)
	f.txs = append(f.txs, trx)
	return nil
}

// Txs returns the adopted txs.
func (f *Flow) Txs() tx.Transactions {
	return f.txs
}

// Pack build the new block.
func (f *Flow) Pack() (*block.Block, *state.Stage, tx.Receipts, error) {
	stage, err := f.runtime.State().Stage(f.parentHeader.StateRoot())
	if err != nil {
		return nil, nil, nil, err
	}

	builder := new(block.Builder).
		Beneficiary(f.runtime.BlockBeneficiary()).
		GasLimit(f.runtime.BlockGasLimit()).
		ParentID(f.parentHeader.ID()).
		Timestamp(f.runtime.BlockTime()).
		GasUsed(f.gasUsed).
		ReceiptsRoot(f.receipts.RootHash()).
		StateRoot(stage.Hash())
	for _, trx := range f.txs {
		builder.Transaction(trx)
	}
	return builder.Build(), stage, f.receipts, nil
}
