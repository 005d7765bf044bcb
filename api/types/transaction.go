// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/0xngmi/nft-collateral/block"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/tx"
)

// RawTx the hex encoded rlp of a signed tx.
type RawTx struct {
	Raw string `json:"raw"`
}

// Decode decodes the raw tx.
func (r *RawTx) Decode() (*tx.Transaction, error) {
	data, err := hexutil.Decode(r.Raw)
	if err != nil {
		return nil, err
	}
	var trx tx.Transaction
	if err := trx.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return &trx, nil
}

// SendTxResult is responded when a tx is accepted.
type SendTxResult struct {
	ID *nfc.Bytes32 `json:"id"`
}

// TxMeta locates a tx in the chain.
type TxMeta struct {
	BlockID        nfc.Bytes32 `json:"blockID"`
	BlockNumber    uint32      `json:"blockNumber"`
	BlockTimestamp uint64      `json:"blockTimestamp"`
}

// Transaction transaction
type Transaction struct {
	ID       nfc.Bytes32         `json:"id"`
	ChainTag byte                `json:"chainTag"`
	Clauses  Clauses             `json:"clauses"`
	Gas      uint64              `json:"gas"`
	Nonce    math.HexOrDecimal64 `json:"nonce"`
	Origin   nfc.Address         `json:"origin"`
	Size     uint32              `json:"size"`
	Meta     *TxMeta             `json:"meta"`
}

// ConvertTransaction convert a raw transaction into a json format transaction.
// header is nil for a pending tx.
func ConvertTransaction(trx *tx.Transaction, header *block.Header) (*Transaction, error) {
	origin, err := trx.Origin()
	if err != nil {
		return nil, err
	}
	cls := make(Clauses, len(trx.Clauses()))
	for i, c := range trx.Clauses() {
		cls[i] = ConvertClause(c)
	}
	t := &Transaction{
		ID:       trx.ID(),
		ChainTag: trx.ChainTag(),
		Clauses:  cls,
		Gas:      trx.Gas(),
		Nonce:    math.HexOrDecimal64(trx.Nonce()),
		Origin:   origin,
		Size:     uint32(trx.Size()),
	}
	if header != nil {
		t.Meta = &TxMeta{
			BlockID:        header.ID(),
			BlockNumber:    header.Number(),
			BlockTimestamp: header.Timestamp(),
		}
	}
	return t, nil
}

// Event is an event emitted by a contract.
type Event struct {
	Address nfc.Address   `json:"address"`
	Topics  []nfc.Bytes32 `json:"topics"`
	Data    string        `json:"data"`
}

// Transfer is a value transfer.
type Transfer struct {
	Sender    nfc.Address           `json:"sender"`
	Recipient nfc.Address           `json:"recipient"`
	Amount    *math.HexOrDecimal256 `json:"amount"`
}

// ConvertEvent converts a tx event into json format.
func ConvertEvent(e *tx.Event) *Event {
	return &Event{
		Address: e.Address,
		Topics:  append([]nfc.Bytes32{}, e.Topics...),
		Data:    hexutil.Encode(e.Data),
	}
}

// ConvertTransfer converts a tx transfer into json format.
func ConvertTransfer(t *tx.Transfer) *Transfer {
	return &Transfer{
		Sender:    t.Sender,
		Recipient: t.Recipient,
		Amount:    (*math.HexOrDecimal256)(t.Amount),
	}
}

// Output of clause execution.
type Output struct {
	ContractAddress *nfc.Address `json:"contractAddress"`
	Events          []*Event     `json:"events"`
	Transfers       []*Transfer  `json:"transfers"`
}

// ReceiptMeta locates the tx a receipt belongs to.
type ReceiptMeta struct {
	TxMeta
	TxID     nfc.Bytes32 `json:"txID"`
	TxOrigin nfc.Address `json:"txOrigin"`
}

// Receipt for json marshal
type Receipt struct {
	GasUsed      uint64      `json:"gasUsed"`
	Reverted     bool        `json:"reverted"`
	RevertReason string      `json:"revertReason,omitempty"`
	Outputs      []*Output   `json:"outputs"`
	Meta         ReceiptMeta `json:"meta"`
}

// ConvertReceipt convert a raw receipt into a json format receipt.
func ConvertReceipt(receipt *tx.Receipt, header *block.Header, trx *tx.Transaction) *Receipt {
	r := &Receipt{
		GasUsed:      receipt.GasUsed,
		Reverted:     receipt.Reverted,
		RevertReason: receipt.RevertReason,
		Outputs:      make([]*Output, 0, len(receipt.Outputs)),
		Meta: ReceiptMeta{
			TxMeta: TxMeta{
				BlockID:        header.ID(),
				BlockNumber:    header.Number(),
				BlockTimestamp: header.Timestamp(),
			},
			TxID:     trx.ID(),
			TxOrigin: receipt.Origin,
		},
	}
	for _, output := range receipt.Outputs {
		o := &Output{
			ContractAddress: output.ContractAddress,
			Events:          make([]*Event, 0, len(output.Events)),
			Transfers:       make([]*Transfer, 0, len(output.Transfers)),
		}
		for _, e := range output.Events {
			o.Events = append(o.Events, ConvertEvent(e))
		}
		for _, t := range output.Transfers {
			o.Transfers = append(o.Transfers, ConvertTransfer(t))
		}
		r.Outputs = append(r.Outputs, o)
	}
	return r
}
