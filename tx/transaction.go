// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/0xngmi/nft-collateral/nfc"
)

var (
	errIntrinsicGasOverflow = errors.New("intrinsic gas overflow")
	errEmptySignature       = errors.New("empty signature")
)

// Transaction is an immutable tx type.
type Transaction struct {
	body body

	cache struct {
		signingHash atomic.Value
		origin      atomic.Value
		id          atomic.Value
		hash        atomic.Value
		size        atomic.Value
	}
}

// body describes details of a tx.
type body struct {
	ChainTag  byte
	Clauses   []*Clause
	Gas       uint64
	Nonce     uint64
	Signature []byte
}

// ChainTag returns chain tag.
func (t *Transaction) ChainTag() byte {
	return t.body.ChainTag
}

// Nonce returns nonce value.
func (t *Transaction) Nonce() uint64 {
	return t.body.Nonce
}

// Gas returns gas provision for this tx.
func (t *Transaction) Gas() uint64 {
	return t.body.Gas
}

// Clauses returns clauses in tx.
func (t *Transaction) Clauses() []*Clause {
	return append([]*Clause(nil), t.body.Clauses...)
}

// Signature returns signature.
func (t *Transaction) Signature() []byte {
	return append([]byte(nil), t.body.Signature...)
}

// SigningHash returns hash of tx excludes signature.
func (t *Transaction) SigningHash() nfc.Bytes32 {
	if cached := t.cache.signingHash.Load(); cached != nil {
		return cached.(nfc.Bytes32)
	}
	hash := nfc.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, []any{
			t.body.ChainTag,
			t.body.Clauses,
			t.body.Gas,
			t.body.Nonce,
		})
	})
	t.cache.signingHash.Store(hash)
	return hash
}

// Origin extracts address of tx signer from signature.
func (t *Transaction) Origin() (nfc.Address, error) {
	if cached := t.cache.origin.Load(); cached != nil {
		return cached.(nfc.Address), nil
	}
	if len(t.body.Signature) == 0 {
		return nfc.Address{}, errEmptySignature
	}
	hash := t.SigningHash()
	pub, err := crypto.SigToPub(hash[:], t.body.Signature)
	if err != nil {
		return nfc.Address{}, err
	}
	origin := nfc.Address(crypto.PubkeyToAddress(*pub))
	t.cache.origin.Store(origin)
	return origin, nil
}

// ID returns id of tx.
// ID = blake2b(signingHash, origin).
// If the tx is not signed or the signature is invalid, the zero id is returned.
func (t *Transaction) ID() (id nfc.Bytes32) {
	if cached := t.cache.id.Load(); cached != nil {
		return cached.(nfc.Bytes32)
	}
	defer func() { t.cache.id.Store(id) }()

	origin, err := t.Origin()
	if err != nil {
		return
	}
	return nfc.Blake2b(t.SigningHash().Bytes(), origin.Bytes())
}

// Hash returns hash of the whole encoded tx, signature included.
func (t *Transaction) Hash() nfc.Bytes32 {
	if cached := t.cache.hash.Load(); cached != nil {
		return cached.(nfc.Bytes32)
	}
	hash := nfc.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, t)
	})
	t.cache.hash.Store(hash)
	return hash
}

// Size returns size in bytes when RLP encoded.
func (t *Transaction) Size() uint64 {
	if cached := t.cache.size.Load(); cached != nil {
		return cached.(uint64)
	}
	var c writeCounter
	rlp.Encode(&c, t)
	t.cache.size.Store(uint64(c))
	return uint64(c)
}

// WithSignature create a new tx with signature set.
func (t *Transaction) WithSignature(sig []byte) *Transaction {
	newTx := Transaction{
		body: t.body,
	}
	// copy sig
	newTx.body.Signature = append([]byte(nil), sig...)
	return &newTx
}

// EncodeRLP implements rlp.Encoder
func (t *Transaction) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &t.body)
}

// DecodeRLP implements rlp.Decoder
func (t *Transaction) DecodeRLP(s *rlp.Stream) error {
	var body body
	if err := s.Decode(&body); err != nil {
		return err
	}
	*t = Transaction{body: body}
	return nil
}

// MarshalBinary returns the canonical encoding of the transaction.
func (t *Transaction) MarshalBinary() ([]byte, error) {
	return rlp.EncodeToBytes(t)
}

// UnmarshalBinary decodes the canonical encoding of transactions.
func (t *Transaction) UnmarshalBinary(b []byte) error {
	return rlp.DecodeBytes(b, t)
}

// IntrinsicGas returns intrinsic gas of tx.
func (t *Transaction) IntrinsicGas() (uint64, error) {
	return IntrinsicGas(t.body.Clauses...)
}

func (t *Transaction) String() string {
	origin, _ := t.Origin()
	return fmt.Sprintf("Tx(%v, %v clauses, origin %v, gas %v, nonce %v)",
		t.ID().AbbrevString(), len(t.body.Clauses), origin, t.body.Gas, t.body.Nonce)
}

// IntrinsicGas calculate intrinsic gas cost for tx with such clauses.
func IntrinsicGas(clauses ...*Clause) (uint64, error) {
	if len(clauses) == 0 {
		return nfc.TxGas + nfc.ClauseGas, nil
	}

	total := nfc.TxGas
	for _, c := range clauses {
		gas, err := dataGas(c.body.Data)
		if err != nil {
			return 0, err
		}
		if c.IsCreatingContract() {
			gas += nfc.ClauseGasContractCreation
		} else {
			gas += nfc.ClauseGas
		}
		if total > total+gas {
			return 0, errIntrinsicGasOverflow
		}
		total += gas
	}
	return total, nil
}

// dataGas calculates gas cost of data.
func dataGas(data []byte) (uint64, error) {
	if len(data) == 0 {
		return 0, nil
	}
	z := uint64(0)
	for _, byt := range data {
		if byt == 0 {
			z++
		}
	}
	nz := uint64(len(data)) - z
	return z*nfc.TxDataZeroGas + nz*nfc.TxDataNonZeroGas, nil
}

type writeCounter uint64

func (c *writeCounter) Write(b []byte) (int, error) {
	*c += writeCounter(len(b))
	return len(b), nil
}
