// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/0xngmi/nft-collateral/nfc"
)

// Account for marshal account
type Account struct {
	Balance *math.HexOrDecimal256 `json:"balance"`
	HasCode bool                  `json:"hasCode"`
}

// GetCodeResult holds the code of an account, the template name for a contract.
type GetCodeResult struct {
	Code string `json:"code"`
}

// GetStorageResult holds a storage value.
type GetStorageResult struct {
	Value string `json:"value"`
}

// CallData represents contract-call body
type CallData struct {
	Value  *math.HexOrDecimal256 `json:"value"`
	Data   string                `json:"data"`
	Gas    uint64                `json:"gas"`
	Caller *nfc.Address          `json:"caller"`
}

// BatchCallData executes clauses in order on the same state.
type BatchCallData struct {
	Clauses Clauses      `json:"clauses"`
	Gas     uint64       `json:"gas"`
	Caller  *nfc.Address `json:"caller"`
}

// CallResult is the outcome of a simulated clause.
type CallResult struct {
	Data      string      `json:"data"`
	Events    []*Event    `json:"events"`
	Transfers []*Transfer `json:"transfers"`
	GasUsed   uint64      `json:"gasUsed"`
	Reverted  bool        `json:"reverted"`
	VMError   string      `json:"vmError"`
}

// BatchCallResults results of a batch call.
type BatchCallResults []*CallResult
