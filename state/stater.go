// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/0xngmi/nft-collateral/kv"
)

// Stater is the state creator.
type Stater struct {
	db kv.Store
}

// NewStater create a new stater.
func NewStater(db kv.Store) *Stater {
	return &Stater{db}
}

// NewState creates a state on the latest committed data.
func (s *Stater) NewState() *State {
	return New(s.db)
}

// Commit atomically writes a stage into the underlying store.
func (s *Stater) Commit(stage *Stage) error {
	bulk := s.db.Bulk()
	if err := stage.Commit(bulk); err != nil {
		return err
	}
	if err := bulk.Write(); err != nil {
		return &Error{err}
	}
	return nil
}
