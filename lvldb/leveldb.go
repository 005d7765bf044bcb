// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lvldb backs kv.Store with goleveldb, on disk or in memory.
package lvldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	dberrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/0xngmi/nft-collateral/kv"
)

var _ kv.Store = (*LevelDB)(nil)

var (
	writeOpt = opt.WriteOptions{}
	readOpt  = opt.ReadOptions{}
	scanOpt  = opt.ReadOptions{DontFillCache: true}
)

// Options tunes a persistent instance. Values below 16 are raised to 16.
type Options struct {
	CacheSize              int // MB, half for block cache and a quarter for each write buffer
	OpenFilesCacheCapacity int
}

func (o Options) leveldb() *opt.Options {
	cacheSize, openFiles := max(o.CacheSize, 16), max(o.OpenFilesCacheCapacity, 16)
	return &opt.Options{
		OpenFilesCacheCapacity: openFiles,
		BlockCacheCapacity:     cacheSize / 2 * opt.MiB,
		WriteBuffer:            cacheSize / 4 * opt.MiB,
		Filter:                 filter.NewBloomFilter(10),
	}
}

// LevelDB is a kv.Store over a single goleveldb instance.
type LevelDB struct {
	db *leveldb.DB
}

// New opens the database at path, creating it when absent. A corrupted
// journal or manifest is recovered before giving up.
// The file lock is held until Close.
func New(path string, opts Options) (*LevelDB, error) {
	ldbOpts := opts.leveldb()
	db, err := leveldb.OpenFile(path, ldbOpts)
	if _, corrupted := err.(*dberrors.ErrCorrupted); corrupted {
		db, err = leveldb.RecoverFile(path, ldbOpts)
	}
	if err != nil {
		return nil, errors.Wrap(err, "new persistent level db")
	}
	return &LevelDB{db}, nil
}

// NewMem creates an instance whose content is dropped on Close.
func NewMem() (*LevelDB, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), Options{}.leveldb())
	if err != nil {
		return nil, errors.Wrap(err, "new memory level db")
	}
	return &LevelDB{db}, nil
}

// Close releases the database and its file lock. Later operations fail.
func (ldb *LevelDB) Close() error {
	return ldb.db.Close()
}

func (ldb *LevelDB) IsNotFound(err error) bool {
	return errors.Cause(err) == leveldb.ErrNotFound
}

// Get fails with an error satisfying IsNotFound when key is absent.
func (ldb *LevelDB) Get(key []byte) ([]byte, error) {
	val, err := ldb.db.Get(key, &readOpt)
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (ldb *LevelDB) Has(key []byte) (bool, error) {
	return ldb.db.Has(key, &readOpt)
}

func (ldb *LevelDB) Put(key, val []byte) error {
	return ldb.db.Put(key, val, &writeOpt)
}

func (ldb *LevelDB) Delete(key []byte) error {
	return ldb.db.Delete(key, &writeOpt)
}

// Snapshot returns a point-in-time read view. On a closed database every
// read from the view fails.
func (ldb *LevelDB) Snapshot() kv.Snapshot {
	s, err := ldb.db.GetSnapshot()
	if err != nil {
		return brokenSnapshot{err}
	}
	return snapshot{s}
}

// Bulk collects writes applied atomically by Write.
func (ldb *LevelDB) Bulk() kv.Bulk {
	return &bulk{db: ldb.db}
}

// Iterate walks r in key order without filling the block cache.
func (ldb *LevelDB) Iterate(r kv.Range) kv.Iterator {
	return copyingIterator{ldb.db.NewIterator((*util.Range)(&r), &scanOpt)}
}

type snapshot struct {
	*leveldb.Snapshot
}

func (s snapshot) Get(key []byte) ([]byte, error) { return s.Snapshot.Get(key, &readOpt) }
func (s snapshot) Has(key []byte) (bool, error)   { return s.Snapshot.Has(key, &readOpt) }
func (s snapshot) IsNotFound(err error) bool      { return err == leveldb.ErrNotFound }

type brokenSnapshot struct {
	err error
}

func (s brokenSnapshot) Get([]byte) ([]byte, error) { return nil, s.err }
func (s brokenSnapshot) Has([]byte) (bool, error)   { return false, s.err }
func (s brokenSnapshot) IsNotFound(error) bool      { return false }
func (s brokenSnapshot) Release()                   {}

type bulk struct {
	db    *leveldb.DB
	batch leveldb.Batch
}

func (b *bulk) Put(key, val []byte) error {
	b.batch.Put(key, val)
	return nil
}

func (b *bulk) Delete(key []byte) error {
	b.batch.Delete(key)
	return nil
}

func (b *bulk) Len() int { return b.batch.Len() }

// Write applies the pending ops and resets the bulk for reuse.
func (b *bulk) Write() error {
	if b.batch.Len() == 0 {
		return nil
	}
	if err := b.db.Write(&b.batch, &writeOpt); err != nil {
		return errors.Wrap(err, "write batch")
	}
	b.batch.Reset()
	return nil
}

// copyingIterator hands out keys and values that survive the next Next call.
type copyingIterator struct {
	iterator.Iterator
}

func (it copyingIterator) Key() []byte   { return append([]byte(nil), it.Iterator.Key()...) }
func (it copyingIterator) Value() []byte { return append([]byte(nil), it.Iterator.Value()...) }
