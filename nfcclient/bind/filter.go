// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bind

import (
	"errors"

	"github.com/0xngmi/nft-collateral/api/types"
	"github.com/0xngmi/nft-collateral/logdb"
)

// FilterBuilder is the interface for event filtering.
type FilterBuilder interface {
	// InRange sets the range for event filtering.
	InRange(r *types.Range) FilterBuilder

	// WithOptions sets the paging options.
	WithOptions(opts *types.Options) FilterBuilder

	// OrderBy sets the order of the results.
	OrderBy(order logdb.Order) FilterBuilder

	// Execute performs the query.
	Execute() ([]*types.FilteredEvent, error)
}

type filterBuilder struct {
	contract *Contract
	event    string
	evRange  *types.Range
	opts     *types.Options
	order    logdb.Order
}

func (b *filterBuilder) InRange(r *types.Range) FilterBuilder {
	b.evRange = r
	return b
}

func (b *filterBuilder) WithOptions(opts *types.Options) FilterBuilder {
	b.opts = opts
	return b
}

func (b *filterBuilder) OrderBy(order logdb.Order) FilterBuilder {
	b.order = order
	return b
}

func (b *filterBuilder) Execute() ([]*types.FilteredEvent, error) {
	event, ok := b.contract.abi.EventByName(b.event)
	if !ok {
		return nil, errors.New("event not found: " + b.event)
	}

	id := event.ID()
	req := &types.EventFilter{
		Range:   b.evRange,
		Options: b.opts,
		Order:   string(b.order),
		CriteriaSet: []*types.EventCriteria{
			{
				Address: b.contract.addr,
				Topic0:  &id,
			},
		},
	}
	return b.contract.client.FilterEvents(req)
}
