// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nfc

import (
	"math/big"

	"github.com/ethereum/go-ethereum/params"
)

// Constants of the solo chain.
const (
	BlockInterval uint64 = 10 // time interval between two consecutive blocks.

	TxGas                     uint64 = params.TxGas
	ClauseGas                 uint64 = params.TxGas * 2 / 3
	ClauseGasContractCreation uint64 = params.TxGasContractCreation * 2 / 3
	TxDataZeroGas             uint64 = params.TxDataZeroGas
	TxDataNonZeroGas          uint64 = params.TxDataNonZeroGasEIP2028

	SloadGas       uint64 = 200
	SstoreSetGas   uint64 = params.SstoreSetGas
	SstoreResetGas uint64 = params.SstoreResetGas
	LogGas         uint64 = params.LogGas
	LogTopicGas    uint64 = params.LogTopicGas
	LogDataGas     uint64 = params.LogDataGas
	CallGas        uint64 = 700
	CreateGas      uint64 = 32000

	MinGasLimit     uint64 = 1000 * 1000
	InitialGasLimit uint64 = 40 * 1000 * 1000 // gas limit value in genesis block.

	MaxCallDepth = 64
	MaxTxSize    = 64 * 1024
)

// InitialDevBalance is the balance of each pre-funded dev account, 10000 units with 18 decimals.
var InitialDevBalance = new(big.Int).Mul(big.NewInt(10000), big.NewInt(1e18))
