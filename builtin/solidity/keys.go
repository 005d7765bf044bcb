// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/0xngmi/nft-collateral/nfc"
)

// Slot returns the storage position of a named variable.
func Slot(name string) nfc.Bytes32 {
	return nfc.Blake2b([]byte(name))
}

// BigKey converts a uint256 into a mapping key.
func BigKey(n *big.Int) nfc.Bytes32 {
	return nfc.BytesToBytes32(n.Bytes())
}

// PairKey derives a mapping key from two keys, as nested mappings do.
func PairKey(a, b Key) nfc.Bytes32 {
	return nfc.Blake2b(a.Bytes(), b.Bytes())
}
