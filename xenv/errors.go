// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import "errors"

// Errors raised while executing a clause, a frame failing with any of them is reverted.
var (
	ErrOutOfGas            = errors.New("out of gas")
	ErrDepth               = errors.New("max call depth exceeded")
	ErrInsufficientBalance = errors.New("insufficient balance for transfer")
	ErrWriteProtection     = errors.New("write protection")
	ErrNonPayable          = errors.New("method is not payable")
	ErrMethodNotFound      = errors.New("method not found")
	ErrUnknownTemplate     = errors.New("unknown contract template")
)
