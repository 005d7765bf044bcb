// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"io"
	"slices"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/0xngmi/nft-collateral/kv"
	"github.com/0xngmi/nft-collateral/nfc"
)

type change struct {
	bucket kv.Bucket
	key    []byte
	value  []byte // nil means delete
}

// Stage abstracts computed changes of a state, ready to be committed.
type Stage struct {
	root    nfc.Bytes32
	changes []change
}

func newStage(parentRoot nfc.Bytes32, journaled map[key]any) (*Stage, error) {
	changes := make([]change, 0, len(journaled))
	for k, v := range journaled {
		switch k.kind {
		case accountKind:
			acc := v.(*Account)
			c := change{bucket: accountBucket, key: k.addr.Bytes()}
			if !acc.IsEmpty() {
				data, err := rlp.EncodeToBytes(acc)
				if err != nil {
					return nil, &Error{err}
				}
				c.value = data
			}
			changes = append(changes, c)
		case storageKind:
			raw := v.(rlp.RawValue)
			c := change{bucket: storageBucket, key: storageDBKey(k.addr, k.slot)}
			if len(raw) > 0 {
				c.value = raw
			}
			changes = append(changes, c)
		}
	}

	slices.SortFunc(changes, func(a, b change) int {
		if a.bucket != b.bucket {
			return bytes.Compare([]byte(a.bucket), []byte(b.bucket))
		}
		return bytes.Compare(a.key, b.key)
	})

	root := parentRoot
	if len(changes) > 0 {
		root = nfc.Blake2bFn(func(w io.Writer) {
			w.Write(parentRoot[:])
			for _, c := range changes {
				rlp.Encode(w, []any{[]byte(c.bucket), c.key, c.value})
			}
		})
	}
	return &Stage{root, changes}, nil
}

// Hash returns the state root after applying the changes.
func (s *Stage) Hash() nfc.Bytes32 {
	return s.root
}

// Len returns count of changed entries.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Commit writes all changes into putter.
func (s *Stage) Commit(putter kv.Putter) error {
	for _, c := range s.changes {
		p := c.bucket.NewPutter(putter)
		var err error
		if c.value == nil {
			err = p.Delete(c.key)
		} else {
			err = p.Put(c.key, c.value)
		}
		if err != nil {
			return &Error{err}
		}
	}
	return nil
}
