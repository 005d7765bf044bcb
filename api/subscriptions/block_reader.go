// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"encoding/json"

	"github.com/0xngmi/nft-collateral/api/types"
	"github.com/0xngmi/nft-collateral/chain"
)

// blockReader walks the canonical chain forward from a start block, inclusive.
type blockReader struct {
	repo  *chain.Repository
	cache *messageCache
	next  uint32
}

func newBlockReader(repo *chain.Repository, cache *messageCache, start uint32) *blockReader {
	return &blockReader{
		repo:  repo,
		cache: cache,
		next:  start,
	}
}

// Read returns the messages of blocks added since the last read.
func (br *blockReader) Read() ([][]byte, error) {
	best := br.repo.BestBlock().Header().Number()
	var msgs [][]byte
	for ; br.next <= best; br.next++ {
		blk, err := br.repo.GetBlockByNumber(br.next)
		if err != nil {
			return nil, err
		}
		msg, _, err := br.cache.GetOrAdd(blk.Header().ID(), func() ([]byte, error) {
			return json.Marshal(types.ConvertBlock(blk))
		})
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}
