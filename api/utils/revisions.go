// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"errors"
	"math"
	"strconv"

	"github.com/0xngmi/nft-collateral/block"
	"github.com/0xngmi/nft-collateral/chain"
	"github.com/0xngmi/nft-collateral/nfc"
)

const revBest int64 = -1

type Revision struct {
	val any
}

func (rev *Revision) IsBest() bool {
	return rev.val == revBest
}

// ParseRevision parses a query parameter into a block number or block ID.
func ParseRevision(revision string) (*Revision, error) {
	if revision == "" || revision == "best" {
		return &Revision{revBest}, nil
	}

	if len(revision) == 66 || len(revision) == 64 {
		blockID, err := nfc.ParseBytes32(revision)
		if err != nil {
			return nil, err
		}
		return &Revision{blockID}, nil
	}
	n, err := strconv.ParseUint(revision, 0, 0)
	if err != nil {
		return nil, err
	}
	if n > math.MaxUint32 {
		return nil, errors.New("block number out of max uint32")
	}
	return &Revision{uint32(n)}, err
}

// GetBlock returns the block the revision points to.
func GetBlock(rev *Revision, repo *chain.Repository) (*block.Block, error) {
	switch rev := rev.val.(type) {
	case nfc.Bytes32:
		return repo.GetBlock(rev)
	case uint32:
		return repo.GetBlockByNumber(rev)
	default:
		return repo.BestBlock(), nil
	}
}
