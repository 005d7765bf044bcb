// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/0xngmi/nft-collateral/nfc"
)

// Header contains almost all information about a block, except block body.
// It's immutable.
type Header struct {
	body headerBody

	cache struct {
		id atomic.Value
	}
}

// headerBody body of header
type headerBody struct {
	ParentID    nfc.Bytes32
	Timestamp   uint64
	GasLimit    uint64
	Beneficiary nfc.Address

	GasUsed uint64

	TxsRoot      nfc.Bytes32
	StateRoot    nfc.Bytes32
	ReceiptsRoot nfc.Bytes32
}

// ParentID returns id of parent block.
func (h *Header) ParentID() nfc.Bytes32 {
	return h.body.ParentID
}

// Number returns sequential number of this block.
func (h *Header) Number() uint32 {
	// inferred from parent id
	return Number(h.body.ParentID) + 1
}

// Timestamp returns timestamp of this block.
func (h *Header) Timestamp() uint64 {
	return h.body.Timestamp
}

// GasLimit returns gas limit of this block.
func (h *Header) GasLimit() uint64 {
	return h.body.GasLimit
}

// GasUsed returns gas used by txs.
func (h *Header) GasUsed() uint64 {
	return h.body.GasUsed
}

// Beneficiary returns the address of the packer.
func (h *Header) Beneficiary() nfc.Address {
	return h.body.Beneficiary
}

// TxsRoot returns root hash of txs contained in this block.
func (h *Header) TxsRoot() nfc.Bytes32 {
	return h.body.TxsRoot
}

// StateRoot returns account state root just after this block being applied.
func (h *Header) StateRoot() nfc.Bytes32 {
	return h.body.StateRoot
}

// ReceiptsRoot returns root hash of tx receipts.
func (h *Header) ReceiptsRoot() nfc.Bytes32 {
	return h.body.ReceiptsRoot
}

// ID computes id of block.
// The block ID is defined as: blockNumber + hash(header)[4:].
func (h *Header) ID() (id nfc.Bytes32) {
	if cached := h.cache.id.Load(); cached != nil {
		return cached.(nfc.Bytes32)
	}
	defer func() {
		// overwrite first 4 bytes of block hash to block number.
		binary.BigEndian.PutUint32(id[:], h.Number())
		h.cache.id.Store(id)
	}()

	return nfc.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, &h.body)
	})
}

// EncodeRLP implements rlp.Encoder.
func (h *Header) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &h.body)
}

// DecodeRLP implements rlp.Decoder.
func (h *Header) DecodeRLP(s *rlp.Stream) error {
	var body headerBody
	if err := s.Decode(&body); err != nil {
		return err
	}
	*h = Header{body: body}
	return nil
}

func (h *Header) String() string {
	return fmt.Sprintf(`Header(%v):
	Number:         %v
	ParentID:       %v
	Timestamp:      %v
	GasLimit:       %v
	GasUsed:        %v
	Beneficiary:    %v
	TxsRoot:        %v
	StateRoot:      %v
	ReceiptsRoot:   %v`, h.ID(), h.Number(), h.body.ParentID, h.body.Timestamp, h.body.GasLimit,
		h.body.GasUsed, h.body.Beneficiary, h.body.TxsRoot, h.body.StateRoot, h.body.ReceiptsRoot)
}

// Number extract block number from block id.
func Number(blockID nfc.Bytes32) uint32 {
	// first 4 bytes are over written by block number (big endian).
	return binary.BigEndian.Uint32(blockID[:])
}
