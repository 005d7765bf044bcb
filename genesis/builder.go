// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/0xngmi/nft-collateral/block"
	"github.com/0xngmi/nft-collateral/lvldb"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/state"
	"github.com/0xngmi/nft-collateral/tx"
)

// Builder helper to build genesis block.
type Builder struct {
	timestamp  uint64
	gasLimit   uint64
	stateProcs []func(state *state.State) error
	extraData  [28]byte
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// GasLimit set gas limit.
func (b *Builder) GasLimit(limit uint64) *Builder {
	b.gasLimit = limit
	return b
}

// State add a state process
func (b *Builder) State(proc func(state *state.State) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// ExtraData set extra data, which will be put into last 28 bytes of genesis parent id.
func (b *Builder) ExtraData(data [28]byte) *Builder {
	b.extraData = data
	return b
}

// ComputeID compute genesis ID.
func (b *Builder) ComputeID() (nfc.Bytes32, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return nfc.Bytes32{}, err
	}
	defer db.Close()

	blk, err := b.Build(state.NewStater(db))
	if err != nil {
		return nfc.Bytes32{}, err
	}
	return blk.Header().ID(), nil
}

// Build build genesis block according to presets, and commits the genesis state.
func (b *Builder) Build(stater *state.Stater) (*block.Block, error) {
	st := stater.NewState()
	for _, proc := range b.stateProcs {
		if err := proc(st); err != nil {
			return nil, errors.Wrap(err, "state process")
		}
	}

	stage, err := st.Stage(nfc.Bytes32{})
	if err != nil {
		return nil, errors.Wrap(err, "stage")
	}
	if err := stater.Commit(stage); err != nil {
		return nil, errors.Wrap(err, "commit state")
	}

	parentID := nfc.Bytes32{0xff, 0xff, 0xff, 0xff} // so, genesis number is 0
	copy(parentID[4:], b.extraData[:])

	return new(block.Builder).
		ParentID(parentID).
		Timestamp(b.timestamp).
		GasLimit(b.gasLimit).
		StateRoot(stage.Hash()).
		ReceiptsRoot(tx.Receipts(nil).RootHash()).
		Build(), nil
}
