// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/golang/snappy"

	"github.com/0xngmi/nft-collateral/block"
	"github.com/0xngmi/nft-collateral/kv"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/tx"
)

const (
	blockBucket   = kv.Bucket("b") // block id => rlp(block)
	numberBucket  = kv.Bucket("n") // block number => block id
	txMetaBucket  = kv.Bucket("t") // tx id => rlp(TxMeta)
	receiptBucket = kv.Bucket("r") // block id => snappy(rlp(receipts))
	propBucket    = kv.Bucket("p") // named properties
)

var bestBlockIDKey = []byte("best-block-id")

// TxMeta locates a transaction in the chain.
type TxMeta struct {
	BlockID nfc.Bytes32
	Index   uint64
}

func numberKey(num uint32) []byte {
	var k [4]byte
	binary.BigEndian.PutUint32(k[:], num)
	return k[:]
}

func saveRLP(w kv.Putter, key []byte, val any) error {
	data, err := rlp.EncodeToBytes(val)
	if err != nil {
		return err
	}
	return w.Put(key, data)
}

func loadRLP(r kv.Getter, key []byte, val any) error {
	data, err := r.Get(key)
	if err != nil {
		return err
	}
	return rlp.DecodeBytes(data, val)
}

func saveBlock(w kv.Putter, blk *block.Block) error {
	return saveRLP(blockBucket.NewPutter(w), blk.Header().ID().Bytes(), blk)
}

func loadBlock(r kv.Getter, id nfc.Bytes32) (*block.Block, error) {
	var blk block.Block
	if err := loadRLP(blockBucket.NewGetter(r), id.Bytes(), &blk); err != nil {
		return nil, err
	}
	return &blk, nil
}

// receipts are compressed since they mostly repeat addresses and topics.
func saveReceipts(w kv.Putter, blockID nfc.Bytes32, receipts tx.Receipts) error {
	data, err := rlp.EncodeToBytes(receipts)
	if err != nil {
		return err
	}
	return receiptBucket.NewPutter(w).Put(blockID.Bytes(), snappy.Encode(nil, data))
}

func loadReceipts(r kv.Getter, blockID nfc.Bytes32) (tx.Receipts, error) {
	zipped, err := receiptBucket.NewGetter(r).Get(blockID.Bytes())
	if err != nil {
		return nil, err
	}
	data, err := snappy.Decode(nil, zipped)
	if err != nil {
		return nil, err
	}
	var receipts tx.Receipts
	if err := rlp.DecodeBytes(data, &receipts); err != nil {
		return nil, err
	}
	return receipts, nil
}

func saveTxMeta(w kv.Putter, txID nfc.Bytes32, meta *TxMeta) error {
	return saveRLP(txMetaBucket.NewPutter(w), txID.Bytes(), meta)
}

func loadTxMeta(r kv.Getter, txID nfc.Bytes32) (*TxMeta, error) {
	var meta TxMeta
	if err := loadRLP(txMetaBucket.NewGetter(r), txID.Bytes(), &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}
