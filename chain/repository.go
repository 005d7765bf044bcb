// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/0xngmi/nft-collateral/block"
	"github.com/0xngmi/nft-collateral/cache"
	"github.com/0xngmi/nft-collateral/co"
	"github.com/0xngmi/nft-collateral/kv"
	"github.com/0xngmi/nft-collateral/log"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/tx"
)

var (
	logger      = log.WithContext("pkg", "chain")
	errNotFound = errors.New("not found")
)

// Repository stores blocks, receipts and tx locations of a single linear chain.
//
// It's thread-safe.
type Repository struct {
	db      kv.Store
	genesis *block.Block
	tag     byte

	writeLock sync.Mutex
	best      atomic.Pointer[block.Block]
	tick      co.Signal

	caches struct {
		blocks   *cache.LRU[nfc.Bytes32, *block.Block]
		receipts *cache.LRU[nfc.Bytes32, tx.Receipts]
	}
}

// NewRepository opens a repository on db. The genesis block is saved when db is empty,
// otherwise it must match the stored one.
func NewRepository(db kv.Store, genesis *block.Block) (*Repository, error) {
	if genesis.Header().Number() != 0 {
		return nil, errors.New("genesis number != 0")
	}
	if len(genesis.Transactions()) != 0 {
		return nil, errors.New("genesis block should not have transactions")
	}

	genesisID := genesis.Header().ID()
	repo := &Repository{
		db:      db,
		genesis: genesis,
		tag:     genesisID[31],
	}
	repo.caches.blocks = cache.MustNewLRU[nfc.Bytes32, *block.Block]("block", 512)
	repo.caches.receipts = cache.MustNewLRU[nfc.Bytes32, tx.Receipts]("receipts", 512)

	val, err := propBucket.NewGetter(db).Get(bestBlockIDKey)
	if err != nil {
		if !db.IsNotFound(err) {
			return nil, err
		}
		if err := repo.write(genesis, nil); err != nil {
			return nil, errors.Wrap(err, "save genesis")
		}
		return repo, nil
	}

	existingGenesisID, err := repo.GetBlockIDByNumber(0)
	if err != nil {
		return nil, errors.Wrap(err, "get existing genesis id")
	}
	if existingGenesisID != genesisID {
		return nil, errors.New("genesis mismatch")
	}
	best, err := repo.GetBlock(nfc.BytesToBytes32(val))
	if err != nil {
		return nil, errors.Wrap(err, "get best block")
	}
	repo.best.Store(best)
	metricBestBlock().Set(int64(best.Header().Number()))
	return repo, nil
}

// ChainTag returns chain tag, which is the last byte of genesis id.
func (r *Repository) ChainTag() byte {
	return r.tag
}

// GenesisBlock returns genesis block.
func (r *Repository) GenesisBlock() *block.Block {
	return r.genesis
}

// BestBlock returns the newest block.
func (r *Repository) BestBlock() *block.Block {
	return r.best.Load()
}

// AddBlock appends a block on top of the best block, along with the receipts of its txs.
func (r *Repository) AddBlock(newBlock *block.Block, receipts tx.Receipts) error {
	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	header := newBlock.Header()
	if best := r.BestBlock(); header.ParentID() != best.Header().ID() {
		return errors.Errorf("parent %v is not the best block %v", header.ParentID(), best.Header().ID())
	}
	if n := len(newBlock.Transactions()); n != len(receipts) {
		return errors.Errorf("tx count %d mismatches receipt count %d", n, len(receipts))
	}
	if err := r.write(newBlock, receipts); err != nil {
		return err
	}
	logger.Debug("block added", "number", header.Number(), "id", header.ID(), "txs", len(receipts))
	r.tick.Broadcast()
	return nil
}

func (r *Repository) write(blk *block.Block, receipts tx.Receipts) error {
	var (
		id   = blk.Header().ID()
		bulk = r.db.Bulk()
	)
	if err := saveBlock(bulk, blk); err != nil {
		return err
	}
	if err := numberBucket.NewPutter(bulk).Put(numberKey(blk.Header().Number()), id.Bytes()); err != nil {
		return err
	}
	for i, trx := range blk.Transactions() {
		if err := saveTxMeta(bulk, trx.ID(), &TxMeta{id, uint64(i)}); err != nil {
			return err
		}
	}
	if err := saveReceipts(bulk, id, receipts); err != nil {
		return err
	}
	if err := propBucket.NewPutter(bulk).Put(bestBlockIDKey, id.Bytes()); err != nil {
		return err
	}
	if err := bulk.Write(); err != nil {
		return err
	}

	r.caches.blocks.Add(id, blk)
	r.caches.receipts.Add(id, receipts)
	r.best.Store(blk)
	metricBestBlock().Set(int64(blk.Header().Number()))
	return nil
}

// NewTicker create a signal Waiter to receive event that the best block changed.
func (r *Repository) NewTicker() co.Waiter {
	return r.tick.NewWaiter()
}

// IsNotFound returns if the error indicates a missing block, tx or receipt.
func (r *Repository) IsNotFound(err error) bool {
	return errors.Is(err, errNotFound)
}

func (r *Repository) notFound(err error) error {
	if r.db.IsNotFound(err) {
		return errNotFound
	}
	return err
}

// GetBlock returns the block with the given id.
func (r *Repository) GetBlock(id nfc.Bytes32) (*block.Block, error) {
	if blk, ok := r.caches.blocks.Get(id); ok {
		metricRepositoryReads().AddWithLabel(1, map[string]string{"type": "block", "target": "cache"})
		return blk, nil
	}
	metricRepositoryReads().AddWithLabel(1, map[string]string{"type": "block", "target": "db"})
	blk, err := loadBlock(r.db, id)
	if err != nil {
		return nil, r.notFound(err)
	}
	r.caches.blocks.Add(id, blk)
	return blk, nil
}

// GetBlockIDByNumber returns the id of the block at num.
func (r *Repository) GetBlockIDByNumber(num uint32) (nfc.Bytes32, error) {
	val, err := numberBucket.NewGetter(r.db).Get(numberKey(num))
	if err != nil {
		return nfc.Bytes32{}, r.notFound(err)
	}
	return nfc.BytesToBytes32(val), nil
}

// GetBlockByNumber returns the block at num.
func (r *Repository) GetBlockByNumber(num uint32) (*block.Block, error) {
	id, err := r.GetBlockIDByNumber(num)
	if err != nil {
		return nil, err
	}
	return r.GetBlock(id)
}

// GetBlockReceipts returns the receipts of all txs in the given block.
func (r *Repository) GetBlockReceipts(id nfc.Bytes32) (tx.Receipts, error) {
	return r.caches.receipts.GetOrLoad(id, func(id nfc.Bytes32) (tx.Receipts, error) {
		metricRepositoryReads().AddWithLabel(1, map[string]string{"type": "receipt", "target": "db"})
		receipts, err := loadReceipts(r.db, id)
		if err != nil {
			return nil, r.notFound(err)
		}
		return receipts, nil
	})
}

// GetTransactionMeta returns where the tx was packed.
func (r *Repository) GetTransactionMeta(txID nfc.Bytes32) (*TxMeta, error) {
	meta, err := loadTxMeta(r.db, txID)
	if err != nil {
		return nil, r.notFound(err)
	}
	return meta, nil
}

// GetTransaction returns the tx and its location.
func (r *Repository) GetTransaction(txID nfc.Bytes32) (*tx.Transaction, *TxMeta, error) {
	meta, err := r.GetTransactionMeta(txID)
	if err != nil {
		return nil, nil, err
	}
	blk, err := r.GetBlock(meta.BlockID)
	if err != nil {
		return nil, nil, err
	}
	txs := blk.Transactions()
	if meta.Index >= uint64(len(txs)) {
		return nil, nil, errors.New("tx index out of range")
	}
	return txs[meta.Index], meta, nil
}

// GetReceipt returns the receipt of a packed tx.
func (r *Repository) GetReceipt(txID nfc.Bytes32) (*tx.Receipt, error) {
	meta, err := r.GetTransactionMeta(txID)
	if err != nil {
		return nil, err
	}
	receipts, err := r.GetBlockReceipts(meta.BlockID)
	if err != nil {
		return nil, err
	}
	if meta.Index >= uint64(len(receipts)) {
		return nil, errors.New("receipt index out of range")
	}
	return receipts[meta.Index], nil
}

// HasTransaction reports whether the tx is already packed.
func (r *Repository) HasTransaction(txID nfc.Bytes32) (bool, error) {
	return txMetaBucket.NewGetter(r.db).Has(txID.Bytes())
}
