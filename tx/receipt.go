// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/0xngmi/nft-collateral/nfc"
)

// Event represents a contract event log. These events are generated by the
// built-in contracts and stored in receipts.
type Event struct {
	// address of the contract that generated the event
	Address nfc.Address
	// list of topics provided by the contract.
	Topics []nfc.Bytes32
	// supplied by the contract, usually ABI-encoded
	Data []byte
}

// Events slice of event logs.
type Events []*Event

// Transfer token transfer log.
type Transfer struct {
	Sender    nfc.Address
	Recipient nfc.Address
	Amount    *big.Int
}

// Transfers slice of transfer logs.
type Transfers []*Transfer

// Output output of clause execution.
type Output struct {
	// set when the clause deployed a contract
	ContractAddress *nfc.Address `rlp:"nil"`
	// events produced by the clause
	Events Events
	// transfer occurred in clause
	Transfers Transfers
}

// Receipt represents the results of a transaction.
type Receipt struct {
	// gas used by this tx
	GasUsed uint64
	// the one who signed the tx
	Origin nfc.Address
	// if the tx reverted
	Reverted bool
	// message of the failure, empty if succeeded
	RevertReason string
	// outputs of clauses in tx, empty if reverted
	Outputs []*Output
}

// Receipts slice of receipts.
type Receipts []*Receipt

// RootHash computes the root hash of receipts.
func (rs Receipts) RootHash() nfc.Bytes32 {
	return nfc.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, rs)
	})
}
