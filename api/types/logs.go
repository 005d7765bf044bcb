// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"fmt"
	"math"

	"github.com/ethereum/go-ethereum/common/hexutil"
	ethmath "github.com/ethereum/go-ethereum/common/math"

	"github.com/0xngmi/nft-collateral/logdb"
	"github.com/0xngmi/nft-collateral/nfc"
)

// Range of blocks or timestamps, both ends inclusive. Missing ends are open.
type Range struct {
	Unit string  `json:"unit"`
	From *uint64 `json:"from,omitempty"`
	To   *uint64 `json:"to,omitempty"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

// LogMeta locates a log in the chain.
type LogMeta struct {
	BlockID        nfc.Bytes32 `json:"blockID"`
	BlockNumber    uint32      `json:"blockNumber"`
	BlockTimestamp uint64      `json:"blockTimestamp"`
	TxID           nfc.Bytes32 `json:"txID"`
	TxOrigin       nfc.Address `json:"txOrigin"`
	ClauseIndex    uint32      `json:"clauseIndex"`
}

type EventCriteria struct {
	Address *nfc.Address `json:"address"`
	Topic0  *nfc.Bytes32 `json:"topic0"`
	Topic1  *nfc.Bytes32 `json:"topic1"`
	Topic2  *nfc.Bytes32 `json:"topic2"`
	Topic3  *nfc.Bytes32 `json:"topic3"`
	Topic4  *nfc.Bytes32 `json:"topic4"`
}

type EventFilter struct {
	CriteriaSet []*EventCriteria `json:"criteriaSet"`
	Range       *Range           `json:"range"`
	Options     *Options         `json:"options"`
	Order       string           `json:"order"`
}

type FilteredEvent struct {
	Address nfc.Address   `json:"address"`
	Topics  []nfc.Bytes32 `json:"topics"`
	Data    string        `json:"data"`
	Meta    LogMeta       `json:"meta"`
}

type TransferCriteria struct {
	TxOrigin  *nfc.Address `json:"txOrigin"`
	Sender    *nfc.Address `json:"sender"`
	Recipient *nfc.Address `json:"recipient"`
}

type TransferFilter struct {
	CriteriaSet []*TransferCriteria `json:"criteriaSet"`
	Range       *Range              `json:"range"`
	Options     *Options            `json:"options"`
	Order       string              `json:"order"`
}

type FilteredTransfer struct {
	Sender    nfc.Address              `json:"sender"`
	Recipient nfc.Address              `json:"recipient"`
	Amount    *ethmath.HexOrDecimal256 `json:"amount"`
	Meta      LogMeta                  `json:"meta"`
}

func convertRange(r *Range) (*logdb.Range, error) {
	if r == nil {
		return nil, nil
	}
	unit := logdb.RangeType(r.Unit)
	switch unit {
	case "":
		unit = logdb.Block
	case logdb.Block, logdb.Time:
	default:
		return nil, fmt.Errorf("invalid range unit %q", r.Unit)
	}
	rng := &logdb.Range{Unit: unit, To: math.MaxUint64}
	if r.From != nil {
		rng.From = *r.From
	}
	if r.To != nil {
		rng.To = *r.To
	}
	if rng.To < rng.From {
		return nil, fmt.Errorf("invalid range: from %d > to %d", rng.From, rng.To)
	}
	return rng, nil
}

func convertOrder(order string) (logdb.Order, error) {
	switch logdb.Order(order) {
	case "", logdb.ASC:
		return logdb.ASC, nil
	case logdb.DESC:
		return logdb.DESC, nil
	}
	return "", fmt.Errorf("invalid order %q", order)
}

func convertOptions(options *Options, limit uint64) (*logdb.Options, error) {
	if options == nil {
		return &logdb.Options{Limit: limit}, nil
	}
	if options.Limit > limit {
		return nil, fmt.Errorf("options.limit exceeds the maximum allowed value of %d", limit)
	}
	if options.Limit == 0 {
		return &logdb.Options{Offset: options.Offset, Limit: limit}, nil
	}
	return &logdb.Options{Offset: options.Offset, Limit: options.Limit}, nil
}

// ConvertEventFilter converts the json filter into a logdb filter. limit caps the page size.
func ConvertEventFilter(filter *EventFilter, limit uint64) (*logdb.EventFilter, error) {
	rng, err := convertRange(filter.Range)
	if err != nil {
		return nil, err
	}
	order, err := convertOrder(filter.Order)
	if err != nil {
		return nil, err
	}
	options, err := convertOptions(filter.Options, limit)
	if err != nil {
		return nil, err
	}
	f := &logdb.EventFilter{
		Range:   rng,
		Options: options,
		Order:   order,
	}
	for _, c := range filter.CriteriaSet {
		f.CriteriaSet = append(f.CriteriaSet, &logdb.EventCriteria{
			Address: c.Address,
			Topics:  [5]*nfc.Bytes32{c.Topic0, c.Topic1, c.Topic2, c.Topic3, c.Topic4},
		})
	}
	return f, nil
}

// ConvertTransferFilter converts the json filter into a logdb filter. limit caps the page size.
func ConvertTransferFilter(filter *TransferFilter, limit uint64) (*logdb.TransferFilter, error) {
	rng, err := convertRange(filter.Range)
	if err != nil {
		return nil, err
	}
	order, err := convertOrder(filter.Order)
	if err != nil {
		return nil, err
	}
	options, err := convertOptions(filter.Options, limit)
	if err != nil {
		return nil, err
	}
	f := &logdb.TransferFilter{
		Range:   rng,
		Options: options,
		Order:   order,
	}
	for _, c := range filter.CriteriaSet {
		f.CriteriaSet = append(f.CriteriaSet, &logdb.TransferCriteria{
			TxOrigin:  c.TxOrigin,
			Sender:    c.Sender,
			Recipient: c.Recipient,
		})
	}
	return f, nil
}

// ConvertFilteredEvent converts a stored event into json format.
func ConvertFilteredEvent(e *logdb.Event) *FilteredEvent {
	fe := &FilteredEvent{
		Address: e.Address,
		Topics:  make([]nfc.Bytes32, 0, 5),
		Data:    hexutil.Encode(e.Data),
		Meta: LogMeta{
			BlockID:        e.BlockID,
			BlockNumber:    e.BlockNumber,
			BlockTimestamp: e.BlockTime,
			TxID:           e.TxID,
			TxOrigin:       e.TxOrigin,
			ClauseIndex:    e.ClauseIndex,
		},
	}
	for _, topic := range e.Topics {
		if topic != nil {
			fe.Topics = append(fe.Topics, *topic)
		}
	}
	return fe
}

// ConvertFilteredTransfer converts a stored transfer into json format.
func ConvertFilteredTransfer(t *logdb.Transfer) *FilteredTransfer {
	return &FilteredTransfer{
		Sender:    t.Sender,
		Recipient: t.Recipient,
		Amount:    (*ethmath.HexOrDecimal256)(t.Amount),
		Meta: LogMeta{
			BlockID:        t.BlockID,
			BlockNumber:    t.BlockNumber,
			BlockTimestamp: t.BlockTime,
			TxID:           t.TxID,
			TxOrigin:       t.TxOrigin,
			ClauseIndex:    t.ClauseIndex,
		},
	}
}
