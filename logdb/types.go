// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"math/big"

	"github.com/0xngmi/nft-collateral/nfc"
)

// Event represents tx.Event that can be stored in db.
type Event struct {
	BlockNumber uint32
	Index       uint32
	BlockID     nfc.Bytes32
	BlockTime   uint64
	TxID        nfc.Bytes32
	TxOrigin    nfc.Address // contract caller
	ClauseIndex uint32
	Address     nfc.Address // always a contract address
	Topics      [5]*nfc.Bytes32
	Data        []byte
}

// Transfer represents tx.Transfer that can be stored in db.
type Transfer struct {
	BlockNumber uint32
	Index       uint32
	BlockID     nfc.Bytes32
	BlockTime   uint64
	TxID        nfc.Bytes32
	TxOrigin    nfc.Address
	ClauseIndex uint32
	Sender      nfc.Address
	Recipient   nfc.Address
	Amount      *big.Int
}

type RangeType string

const (
	Block RangeType = "block"
	Time  RangeType = "time"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is an inclusive range of block numbers or timestamps.
type Range struct {
	Unit RangeType
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

type EventCriteria struct {
	Address *nfc.Address
	Topics  [5]*nfc.Bytes32
}

// EventFilter matches events satisfying any of the criteria.
type EventFilter struct {
	CriteriaSet []*EventCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}

type TransferCriteria struct {
	TxOrigin  *nfc.Address // who sent the tx
	Sender    *nfc.Address // who transferred value
	Recipient *nfc.Address // who received value
}

type TransferFilter struct {
	TxID        *nfc.Bytes32
	CriteriaSet []*TransferCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}
