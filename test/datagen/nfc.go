// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/rand"

	"github.com/0xngmi/nft-collateral/nfc"
)

func RandomHash() (b nfc.Bytes32) {
	rand.Read(b[:])
	return
}

func RandAddress() (addr nfc.Address) {
	rand.Read(addr[:])
	return
}
