// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nfc

import (
	"hash"
	"io"
	"sync"

	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/blake2b"
)

// Ids, roots and storage slots use blake2b-256. Keccak-256 serves the EVM facing
// parts such as selectors and event ids.

type hasher struct {
	hash.Hash
	out Bytes32
}

func hasherPool(newHash func() hash.Hash) *sync.Pool {
	return &sync.Pool{New: func() any { return &hasher{Hash: newHash()} }}
}

var (
	blake2bPool = hasherPool(func() hash.Hash {
		h, _ := blake2b.New256(nil)
		return h
	})
	keccakPool = hasherPool(func() hash.Hash { return crypto.NewKeccakState() })
)

func sum(pool *sync.Pool, fn func(w io.Writer)) Bytes32 {
	h := pool.Get().(*hasher)
	defer pool.Put(h)

	h.Reset()
	fn(h)
	h.Sum(h.out[:0])
	return h.out
}

func writeAll(data [][]byte) func(w io.Writer) {
	return func(w io.Writer) {
		for _, b := range data {
			w.Write(b)
		}
	}
}

// Blake2b computes the blake2b-256 digest of the concatenated data.
func Blake2b(data ...[]byte) Bytes32 {
	if len(data) == 1 {
		return blake2b.Sum256(data[0])
	}
	return sum(blake2bPool, writeAll(data))
}

// Blake2bFn computes the blake2b-256 digest of whatever fn writes.
func Blake2bFn(fn func(w io.Writer)) Bytes32 {
	return sum(blake2bPool, fn)
}

// Keccak256 computes the keccak-256 digest of the concatenated data.
func Keccak256(data ...[]byte) Bytes32 {
	return sum(keccakPool, writeAll(data))
}
