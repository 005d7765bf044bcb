// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU(t *testing.T) {
	_, err := NewLRU[int, string]("test", 0)
	assert.Error(t, err)

	c := MustNewLRU[int, string]("test", 2)
	c.Add(1, "a")
	c.Add(2, "b")
	c.Add(3, "c")

	_, ok := c.Get(1)
	assert.False(t, ok, "oldest entry should be evicted")
	v, ok := c.Get(3)
	assert.True(t, ok)
	assert.Equal(t, "c", v)
	assert.Equal(t, 2, c.Len())

	c.Remove(3)
	_, ok = c.Get(3)
	assert.False(t, ok)

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestLRUGetOrLoad(t *testing.T) {
	c := MustNewLRU[string, int]("test", 10)
	loads := 0
	load := func(k string) (int, error) {
		loads++
		if k == "bad" {
			return 0, errors.New("boom")
		}
		return len(k), nil
	}

	v, err := c.GetOrLoad("four", load)
	require.NoError(t, err)
	assert.Equal(t, 4, v)

	v, err = c.GetOrLoad("four", load)
	require.NoError(t, err)
	assert.Equal(t, 4, v)
	assert.Equal(t, 1, loads)

	_, err = c.GetOrLoad("bad", load)
	assert.Error(t, err)
	_, ok := c.Get("bad")
	assert.False(t, ok)
}

func TestLRULookups(t *testing.T) {
	c := MustNewLRU[string, int]("lookups", 4)
	hit, miss := c.Lookups()
	assert.Zero(t, hit)
	assert.Zero(t, miss)

	c.Get("a")
	c.Add("a", 1)
	c.Get("a")
	c.Get("a")
	hit, miss = c.Lookups()
	assert.Equal(t, int64(2), hit)
	assert.Equal(t, int64(1), miss)

	// GetOrLoad counts through Get
	_, err := c.GetOrLoad("b", func(string) (int, error) { return 2, nil })
	require.NoError(t, err)
	_, miss = c.Lookups()
	assert.Equal(t, int64(2), miss)
}
