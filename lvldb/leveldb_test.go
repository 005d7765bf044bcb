// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xngmi/nft-collateral/kv"
)

func TestLevelDB(t *testing.T) {
	var (
		key        = []byte("123")
		value      = []byte("456")
		inValidKey = []byte("abc")
	)

	persistent, err := New(filepath.Join(t.TempDir(), "lvldb"), Options{16, 16})
	require.NoError(t, err)
	defer persistent.Close()

	mem, err := NewMem()
	require.NoError(t, err)
	defer mem.Close()

	for _, db := range []*LevelDB{persistent, mem} {
		assert.NoError(t, db.Put(key, value))

		got, err := db.Get(key)
		assert.NoError(t, err)
		assert.Equal(t, value, got)

		has, err := db.Has(key)
		assert.NoError(t, err)
		assert.True(t, has)

		has, err = db.Has(inValidKey)
		assert.NoError(t, err)
		assert.False(t, has)

		assert.NoError(t, db.Delete(key))
		_, err = db.Get(key)
		assert.True(t, db.IsNotFound(err))
	}
}

func TestLevelDBBulkAndSnapshot(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	bulk := db.Bulk()
	assert.NoError(t, bulk.Put([]byte("a"), []byte("1")))
	assert.NoError(t, bulk.Put([]byte("b"), []byte("2")))
	assert.Equal(t, 2, bulk.Len())

	// nothing visible before write
	_, err = db.Get([]byte("a"))
	assert.True(t, db.IsNotFound(err))

	assert.NoError(t, bulk.Write())
	assert.Equal(t, 0, bulk.Len())

	snapshot := db.Snapshot()
	defer snapshot.Release()

	assert.NoError(t, db.Put([]byte("a"), []byte("changed")))

	v, err := snapshot.Get([]byte("a"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("1"), v)

	v, err = db.Get([]byte("a"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("changed"), v)
}

func TestLevelDBBucketIterate(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	store := kv.Bucket("p.").NewStore(db)
	for _, k := range []string{"3", "1", "2"} {
		assert.NoError(t, store.Put([]byte(k), []byte("v"+k)))
	}
	assert.NoError(t, db.Put([]byte("q.0"), []byte("other")))

	iter := store.Iterate(kv.Range{})
	defer iter.Release()

	var keys []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	assert.NoError(t, iter.Error())
	assert.Equal(t, []string{"1", "2", "3"}, keys)
}

func TestLevelDBReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lvldb")

	db, err := New(path, Options{})
	require.NoError(t, err)
	require.NoError(t, db.Put([]byte("k"), []byte("v")))

	// the lock is held while open
	_, err = New(path, Options{})
	assert.Error(t, err)

	require.NoError(t, db.Close())

	db, err = New(path, Options{})
	require.NoError(t, err)
	defer db.Close()

	v, err := db.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)
}

func TestLevelDBCorrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lvldb")

	db, err := New(path, Options{})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	require.NoError(t, os.WriteFile(filepath.Join(path, "CURRENT"), []byte("invalid data"), 0o644))

	_, err = New(path, Options{})
	assert.Error(t, err)
}

func TestLevelDBClosed(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	require.NoError(t, db.Close())

	snapshot := db.Snapshot()
	defer snapshot.Release()
	_, err = snapshot.Get([]byte("k"))
	assert.Error(t, err)
	assert.False(t, snapshot.IsNotFound(err))

	assert.Error(t, db.Put([]byte("k"), []byte("v")))
}
