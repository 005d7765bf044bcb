// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"math/big"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/0xngmi/nft-collateral/block"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/tx"
)

const (
	memPath = ":memory:"

	eventColumns    = "seq, blockID, blockTime, txID, txOrigin, clauseIndex, address, topic0, topic1, topic2, topic3, topic4, data"
	transferColumns = "seq, blockID, blockTime, txID, txOrigin, clauseIndex, sender, recipient, amount"
)

// LogDB indexes events and transfers of packed blocks.
type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string
	stmtCache     *stmtCache
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	dsn := path
	if path != memPath {
		dsn += "?_journal_mode=WAL&_busy_timeout=5000"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	// every connection to :memory: opens a distinct database
	if path == memPath {
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(eventTableSchema + transferTableSchema); err != nil {
		return nil, errors.Wrap(err, "create tables")
	}

	driverVer, _, _ := sqlite3.Version()
	return &LogDB{
		path:          path,
		db:            db,
		driverVersion: driverVer,
		stmtCache:     newStmtCache(db),
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(memPath)
}

// Close close the log db.
func (db *LogDB) Close() error {
	db.stmtCache.Clear()
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

// DriverVersion returns the version of the sqlite library in use.
func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

// Prepare starts a batch collecting logs of the given block.
func (db *LogDB) Prepare(header *block.Header) *BlockBatch {
	return &BlockBatch{db: db, header: header}
}

func rangeCondition(r *Range, args []any) (string, []any) {
	if r == nil {
		return "", args
	}
	if r.Unit == Time {
		// sqlite integers are signed
		cond := " AND blockTime >= ?"
		args = append(args, min(r.From, math.MaxInt64))
		if r.To >= r.From {
			cond += " AND blockTime <= ?"
			args = append(args, min(r.To, math.MaxInt64))
		}
		return cond, args
	}

	clamp := func(n uint64) uint32 {
		if n > math.MaxUint32 {
			return math.MaxUint32
		}
		return uint32(n)
	}
	cond := " AND seq >= ?"
	args = append(args, newSequence(clamp(r.From), 0))
	if r.To >= r.From {
		cond += " AND seq <= ?"
		args = append(args, newSequence(clamp(r.To), math.MaxInt32))
	}
	return cond, args
}

func orderAndLimit(order Order, options *Options, args []any) (string, []any) {
	stmt := " ORDER BY seq ASC"
	if order == DESC {
		stmt = " ORDER BY seq DESC"
	}
	if options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, options.Offset, options.Limit)
	}
	return stmt, args
}

// FilterEvents returns events matching the filter. A nil filter matches all.
func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	if filter == nil {
		filter = &EventFilter{}
	}
	metricsHandleEventsFilter(filter)

	var (
		args []any
		cond string
		sb   strings.Builder
	)
	sb.WriteString("SELECT " + eventColumns + " FROM event WHERE 1")

	cond, args = rangeCondition(filter.Range, args)
	sb.WriteString(cond)

	if len(filter.CriteriaSet) > 0 {
		sb.WriteString(" AND (")
		for i, criteria := range filter.CriteriaSet {
			if i > 0 {
				sb.WriteString(" OR ")
			}
			sb.WriteString("(1")
			if criteria.Address != nil {
				args = append(args, criteria.Address.Bytes())
				sb.WriteString(" AND address = ?")
			}
			for j, topic := range criteria.Topics {
				if topic != nil {
					args = append(args, topic.Bytes())
					fmt.Fprintf(&sb, " AND topic%d = ?", j)
				}
			}
			sb.WriteString(")")
		}
		sb.WriteString(")")
	}

	cond, args = orderAndLimit(filter.Order, filter.Options, args)
	sb.WriteString(cond)
	return db.queryEvents(ctx, sb.String(), args...)
}

// FilterTransfers returns transfers matching the filter. A nil filter matches all.
func (db *LogDB) FilterTransfers(ctx context.Context, filter *TransferFilter) ([]*Transfer, error) {
	if filter == nil {
		filter = &TransferFilter{}
	}
	metricsHandleCommon(filter.Options, filter.Order, len(filter.CriteriaSet), "transfer")

	var (
		args []any
		cond string
		sb   strings.Builder
	)
	sb.WriteString("SELECT " + transferColumns + " FROM transfer WHERE 1")

	cond, args = rangeCondition(filter.Range, args)
	sb.WriteString(cond)

	if filter.TxID != nil {
		args = append(args, filter.TxID.Bytes())
		sb.WriteString(" AND txID = ?")
	}
	if len(filter.CriteriaSet) > 0 {
		sb.WriteString(" AND (")
		for i, criteria := range filter.CriteriaSet {
			if i > 0 {
				sb.WriteString(" OR ")
			}
			sb.WriteString("(1")
			if criteria.TxOrigin != nil {
				args = append(args, criteria.TxOrigin.Bytes())
				sb.WriteString(" AND txOrigin = ?")
			}
			if criteria.Sender != nil {
				args = append(args, criteria.Sender.Bytes())
				sb.WriteString(" AND sender = ?")
			}
			if criteria.Recipient != nil {
				args = append(args, criteria.Recipient.Bytes())
				sb.WriteString(" AND recipient = ?")
			}
			sb.WriteString(")")
		}
		sb.WriteString(")")
	}

	cond, args = orderAndLimit(filter.Order, filter.Options, args)
	sb.WriteString(cond)
	return db.queryTransfers(ctx, sb.String(), args...)
}

func (db *LogDB) query(ctx context.Context, query string, args []any) (*sql.Rows, error) {
	stmt, err := db.stmtCache.Prepare(query)
	if err != nil {
		return nil, err
	}
	return stmt.QueryContext(ctx, args...)
}

func (db *LogDB) queryEvents(ctx context.Context, query string, args ...any) ([]*Event, error) {
	rows, err := db.query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var (
			seq         sequence
			blockID     []byte
			blockTime   uint64
			txID        []byte
			txOrigin    []byte
			clauseIndex uint32
			address     []byte
			topics      [5][]byte
			data        []byte
		)
		if err := rows.Scan(
			&seq,
			&blockID,
			&blockTime,
			&txID,
			&txOrigin,
			&clauseIndex,
			&address,
			&topics[0],
			&topics[1],
			&topics[2],
			&topics[3],
			&topics[4],
			&data,
		); err != nil {
			return nil, err
		}
		event := &Event{
			BlockNumber: seq.BlockNumber(),
			Index:       seq.Index(),
			BlockID:     nfc.BytesToBytes32(blockID),
			BlockTime:   blockTime,
			TxID:        nfc.BytesToBytes32(txID),
			TxOrigin:    nfc.BytesToAddress(txOrigin),
			ClauseIndex: clauseIndex,
			Address:     nfc.BytesToAddress(address),
			Data:        data,
		}
		for i, topic := range topics {
			if len(topic) > 0 {
				h := nfc.BytesToBytes32(topic)
				event.Topics[i] = &h
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (db *LogDB) queryTransfers(ctx context.Context, query string, args ...any) ([]*Transfer, error) {
	rows, err := db.query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []*Transfer
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var (
			seq         sequence
			blockID     []byte
			blockTime   uint64
			txID        []byte
			txOrigin    []byte
			clauseIndex uint32
			sender      []byte
			recipient   []byte
			amount      []byte
		)
		if err := rows.Scan(
			&seq,
			&blockID,
			&blockTime,
			&txID,
			&txOrigin,
			&clauseIndex,
			&sender,
			&recipient,
			&amount,
		); err != nil {
			return nil, err
		}
		transfers = append(transfers, &Transfer{
			BlockNumber: seq.BlockNumber(),
			Index:       seq.Index(),
			BlockID:     nfc.BytesToBytes32(blockID),
			BlockTime:   blockTime,
			TxID:        nfc.BytesToBytes32(txID),
			TxOrigin:    nfc.BytesToAddress(txOrigin),
			ClauseIndex: clauseIndex,
			Sender:      nfc.BytesToAddress(sender),
			Recipient:   nfc.BytesToAddress(recipient),
			Amount:      new(big.Int).SetBytes(amount),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transfers, nil
}

func topicValue(topic *nfc.Bytes32) []byte {
	if topic == nil {
		return nil
	}
	return topic.Bytes()
}

// BlockBatch collects the logs of one block until Commit.
type BlockBatch struct {
	db        *LogDB
	header    *block.Header
	events    []*Event
	transfers []*Transfer
}

// TxBatch adds logs of one tx, clause by clause.
type TxBatch struct {
	*BlockBatch
	txID        nfc.Bytes32
	txOrigin    nfc.Address
	clauseIndex uint32
}

// ForTransaction returns a batch adding logs under the given tx.
func (bb *BlockBatch) ForTransaction(txID nfc.Bytes32, txOrigin nfc.Address) *TxBatch {
	return &TxBatch{BlockBatch: bb, txID: txID, txOrigin: txOrigin}
}

// Insert appends the logs of the next clause.
func (tb *TxBatch) Insert(events tx.Events, transfers tx.Transfers) *TxBatch {
	var (
		bb     = tb.BlockBatch
		header = bb.header
	)
	for _, ev := range events {
		event := &Event{
			BlockNumber: header.Number(),
			Index:       uint32(len(bb.events)),
			BlockID:     header.ID(),
			BlockTime:   header.Timestamp(),
			TxID:        tb.txID,
			TxOrigin:    tb.txOrigin,
			ClauseIndex: tb.clauseIndex,
			Address:     ev.Address,
			Data:        ev.Data,
		}
		for i := 0; i < len(ev.Topics) && i < len(event.Topics); i++ {
			event.Topics[i] = &ev.Topics[i]
		}
		bb.events = append(bb.events, event)
	}
	for _, tr := range transfers {
		bb.transfers = append(bb.transfers, &Transfer{
			BlockNumber: header.Number(),
			Index:       uint32(len(bb.transfers)),
			BlockID:     header.ID(),
			BlockTime:   header.Timestamp(),
			TxID:        tb.txID,
			TxOrigin:    tb.txOrigin,
			ClauseIndex: tb.clauseIndex,
			Sender:      tr.Sender,
			Recipient:   tr.Recipient,
			Amount:      tr.Amount,
		})
	}
	tb.clauseIndex++
	return tb
}

// Commit writes all collected logs in one sql transaction.
func (bb *BlockBatch) Commit() error {
	if len(bb.events) == 0 && len(bb.transfers) == 0 {
		return nil
	}
	insertEvent, err := bb.db.stmtCache.Prepare("INSERT OR REPLACE INTO event(" + eventColumns + ") VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)")
	if err != nil {
		return err
	}
	insertTransfer, err := bb.db.stmtCache.Prepare("INSERT OR REPLACE INTO transfer(" + transferColumns + ") VALUES (?,?,?,?,?,?,?,?,?)")
	if err != nil {
		return err
	}

	dbTx, err := bb.db.db.Begin()
	if err != nil {
		return err
	}
	if err := bb.write(dbTx.Stmt(insertEvent), dbTx.Stmt(insertTransfer)); err != nil {
		_ = dbTx.Rollback()
		return err
	}
	return dbTx.Commit()
}

func (bb *BlockBatch) write(insertEvent, insertTransfer *sql.Stmt) error {
	for _, event := range bb.events {
		if _, err := insertEvent.Exec(
			newSequence(event.BlockNumber, event.Index),
			event.BlockID.Bytes(),
			event.BlockTime,
			event.TxID.Bytes(),
			event.TxOrigin.Bytes(),
			event.ClauseIndex,
			event.Address.Bytes(),
			topicValue(event.Topics[0]),
			topicValue(event.Topics[1]),
			topicValue(event.Topics[2]),
			topicValue(event.Topics[3]),
			topicValue(event.Topics[4]),
			event.Data,
		); err != nil {
			return err
		}
	}
	for _, transfer := range bb.transfers {
		if _, err := insertTransfer.Exec(
			newSequence(transfer.BlockNumber, transfer.Index),
			transfer.BlockID.Bytes(),
			transfer.BlockTime,
			transfer.TxID.Bytes(),
			transfer.TxOrigin.Bytes(),
			transfer.ClauseIndex,
			transfer.Sender.Bytes(),
			transfer.Recipient.Bytes(),
			transfer.Amount.Bytes(),
		); err != nil {
			return err
		}
	}
	return nil
}
