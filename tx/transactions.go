// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"io"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/0xngmi/nft-collateral/nfc"
)

// Transactions a slice of transactions.
type Transactions []*Transaction

// RootHash computes the root hash of the transaction list.
func (txs Transactions) RootHash() nfc.Bytes32 {
	return nfc.Blake2bFn(func(w io.Writer) {
		for _, tx := range txs {
			id := tx.ID()
			w.Write(id[:])
		}
	})
}

// DecodeTransactions decodes an rlp list of transactions.
func DecodeTransactions(data []byte) (Transactions, error) {
	var txs Transactions
	if err := rlp.DecodeBytes(data, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}
