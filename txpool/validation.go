// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import (
	"github.com/0xngmi/nft-collateral/chain"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/runtime"
	"github.com/0xngmi/nft-collateral/tx"
)

// MaxTxSize max size of tx allowed
const MaxTxSize = nfc.MaxTxSize

// Validate runs the checks every submitted tx must pass regardless of pool state.
func Validate(trx *tx.Transaction, repo *chain.Repository) (*runtime.ResolvedTransaction, error) {
	if trx.ChainTag() != repo.ChainTag() {
		return nil, badTxError{"chain tag mismatch"}
	}
	if trx.Size() > MaxTxSize {
		return nil, txRejectedError{"size too large"}
	}
	resolved, err := runtime.ResolveTransaction(trx)
	if err != nil {
		return nil, badTxError{err.Error()}
	}
	if best := repo.BestBlock(); trx.Gas() > best.Header().GasLimit() {
		return nil, txRejectedError{"gas exceeds block gas limit"}
	}

	known, err := repo.HasTransaction(trx.ID())
	if err != nil {
		return nil, err
	}
	if known {
		return nil, txRejectedError{"known tx"}
	}
	return resolved, nil
}
