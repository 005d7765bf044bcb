// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import "errors"

// IsBadTx returns whether the tx is malformed and can never be accepted.
func IsBadTx(err error) bool {
	return errors.As(err, &badTxError{})
}

// IsTxRejected returns whether the tx is well formed but refused by the pool.
func IsTxRejected(err error) bool {
	return errors.As(err, &txRejectedError{})
}

type badTxError struct {
	msg string
}

func (e badTxError) Error() string {
	return "bad tx: " + e.msg
}

type txRejectedError struct {
	msg string
}

func (e txRejectedError) Error() string {
	return "tx rejected: " + e.msg
}
