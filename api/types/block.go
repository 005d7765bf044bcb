// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"github.com/0xngmi/nft-collateral/block"
	"github.com/0xngmi/nft-collateral/nfc"
)

// Block for json marshal. It is also pushed to block subscribers.
type Block struct {
	Number       uint32        `json:"number"`
	ID           nfc.Bytes32   `json:"id"`
	Size         uint32        `json:"size"`
	ParentID     nfc.Bytes32   `json:"parentID"`
	Timestamp    uint64        `json:"timestamp"`
	GasLimit     uint64        `json:"gasLimit"`
	GasUsed      uint64        `json:"gasUsed"`
	Beneficiary  nfc.Address   `json:"beneficiary"`
	TxsRoot      nfc.Bytes32   `json:"txsRoot"`
	StateRoot    nfc.Bytes32   `json:"stateRoot"`
	ReceiptsRoot nfc.Bytes32   `json:"receiptsRoot"`
	Transactions []nfc.Bytes32 `json:"transactions"`
}

// ConvertBlock convert a raw block into a json format block
func ConvertBlock(b *block.Block) *Block {
	header := b.Header()
	txs := b.Transactions()
	ids := make([]nfc.Bytes32, len(txs))
	for i, trx := range txs {
		ids[i] = trx.ID()
	}
	return &Block{
		Number:       header.Number(),
		ID:           header.ID(),
		Size:         uint32(b.Size()),
		ParentID:     header.ParentID(),
		Timestamp:    header.Timestamp(),
		GasLimit:     header.GasLimit(),
		GasUsed:      header.GasUsed(),
		Beneficiary:  header.Beneficiary(),
		TxsRoot:      header.TxsRoot(),
		StateRoot:    header.StateRoot(),
		ReceiptsRoot: header.ReceiptsRoot(),
		Transactions: ids,
	}
}

// ExpandedTransaction is a tx along with its receipt.
type ExpandedTransaction struct {
	*Transaction
	Receipt *Receipt `json:"receipt"`
}

// ExpandedBlock is a block carrying its transactions in full.
type ExpandedBlock struct {
	*Block
	Transactions []*ExpandedTransaction `json:"transactions"`
}
