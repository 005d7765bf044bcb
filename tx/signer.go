// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/crypto"
)

// Sign signs the transaction with the given private key.
func Sign(t *Transaction, pk *ecdsa.PrivateKey) (*Transaction, error) {
	hash := t.SigningHash()
	sig, err := crypto.Sign(hash[:], pk)
	if err != nil {
		return nil, err
	}
	return t.WithSignature(sig), nil
}

// MustSign signs the transaction and panics on error.
func MustSign(t *Transaction, pk *ecdsa.PrivateKey) *Transaction {
	signed, err := Sign(t, pk)
	if err != nil {
		panic(err)
	}
	return signed
}
