// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/0xngmi/nft-collateral/nfc"
)

// messageCache shares encoded block messages between subscribers.
type messageCache struct {
	cache *lru.Cache
	mu    sync.RWMutex
}

func newMessageCache(cacheSize uint32) *messageCache {
	cacheSize = min(max(cacheSize, 1), 1000)
	cache, err := lru.New(int(cacheSize))
	if err != nil {
		// lru.New only fails on a non-positive size
		panic(fmt.Errorf("failed to create message cache: %v", err))
	}
	return &messageCache{
		cache: cache,
	}
}

// GetOrAdd returns the message of the block, creating it on a miss.
// The second return value reports whether the message was created by this call.
func (mc *messageCache) GetOrAdd(id nfc.Bytes32, createMessage func() ([]byte, error)) ([]byte, bool, error) {
	mc.mu.RLock()
	msg, ok := mc.cache.Get(id)
	mc.mu.RUnlock()
	if ok {
		return msg.([]byte), false, nil
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()
	if msg, ok = mc.cache.Get(id); ok {
		return msg.([]byte), false, nil
	}

	created, err := createMessage()
	if err != nil {
		return nil, false, err
	}
	mc.cache.Add(id, created)
	return created, true, nil
}
