// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package nfcclient is a client of the dev chain API, over HTTP and optionally websocket.
package nfcclient

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/0xngmi/nft-collateral/api/debug"
	"github.com/0xngmi/nft-collateral/api/types"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/nfcclient/common"
	"github.com/0xngmi/nft-collateral/nfcclient/httpclient"
	"github.com/0xngmi/nft-collateral/nfcclient/wsclient"
	"github.com/0xngmi/nft-collateral/tx"
)

type Client struct {
	httpConn *httpclient.Client
	wsConn   *wsclient.Client
}

func New(url string) *Client {
	return &Client{
		httpConn: httpclient.New(url),
	}
}

func NewWithWS(url string) (*Client, error) {
	wsClient, err := wsclient.NewClient(url)
	if err != nil {
		return nil, err
	}

	return &Client{
		httpConn: httpclient.New(url),
		wsConn:   wsClient,
	}, nil
}

type Option func(*getOptions)

type getOptions struct {
	revision string
	pending  bool
}

func applyOptions(opts []Option) *getOptions {
	options := &getOptions{
		revision: common.BestRevision,
	}
	for _, o := range opts {
		o(options)
	}
	return options
}

// Revision selects the block a read is made on.
func Revision(revision string) Option {
	return func(o *getOptions) {
		o.revision = revision
	}
}

// Pending includes pooled transactions in a lookup.
func Pending() Option {
	return func(o *getOptions) {
		o.pending = true
	}
}

func (c *Client) RawHTTPClient() *httpclient.Client {
	return c.httpConn
}

func (c *Client) RawWSClient() *wsclient.Client {
	return c.wsConn
}

func (c *Client) Account(addr *nfc.Address, opts ...Option) (*types.Account, error) {
	options := applyOptions(opts)
	return c.httpConn.GetAccount(addr, options.revision)
}

func (c *Client) AccountCode(addr *nfc.Address, opts ...Option) (*types.GetCodeResult, error) {
	options := applyOptions(opts)
	return c.httpConn.GetAccountCode(addr, options.revision)
}

func (c *Client) Storage(addr *nfc.Address, key *nfc.Bytes32, opts ...Option) (*types.GetStorageResult, error) {
	options := applyOptions(opts)
	return c.httpConn.GetAccountStorage(addr, key, options.revision)
}

func (c *Client) Block(revision string) (*types.Block, error) {
	return c.httpConn.GetBlock(revision)
}

func (c *Client) ExpandedBlock(revision string) (*types.ExpandedBlock, error) {
	return c.httpConn.GetExpandedBlock(revision)
}

// ChainTag is the last byte of the genesis block id.
func (c *Client) ChainTag() (byte, error) {
	genesisBlock, err := c.Block("0")
	if err != nil {
		return 0, err
	}
	return genesisBlock.ID[31], nil
}

func (c *Client) SendTransaction(trx *tx.Transaction) (*types.SendTxResult, error) {
	raw, err := trx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("unable to encode transaction - %w", err)
	}
	return c.SendTransactionRaw(raw)
}

func (c *Client) SendTransactionRaw(raw []byte) (*types.SendTxResult, error) {
	return c.httpConn.SendTransaction(&types.RawTx{Raw: hexutil.Encode(raw)})
}

func (c *Client) Transaction(id *nfc.Bytes32, opts ...Option) (*types.Transaction, error) {
	options := applyOptions(opts)
	return c.httpConn.GetTransaction(id, options.pending)
}

func (c *Client) RawTransaction(id *nfc.Bytes32, opts ...Option) (*types.RawTx, error) {
	options := applyOptions(opts)
	return c.httpConn.GetRawTransaction(id, options.pending)
}

func (c *Client) TransactionReceipt(id *nfc.Bytes32) (*types.Receipt, error) {
	return c.httpConn.GetTransactionReceipt(id)
}

// InspectClauses simulates clauses in order without sending a transaction.
func (c *Client) InspectClauses(calldata *types.BatchCallData, opts ...Option) ([]*types.CallResult, error) {
	options := applyOptions(opts)
	return c.httpConn.InspectClauses(calldata, options.revision)
}

// InspectClause simulates a single clause sent by caller.
func (c *Client) InspectClause(clause *tx.Clause, caller *nfc.Address, opts ...Option) (*types.CallResult, error) {
	results, err := c.InspectClauses(&types.BatchCallData{
		Clauses: types.Clauses{types.ConvertClause(clause)},
		Caller:  caller,
	}, opts...)
	if err != nil {
		return nil, err
	}
	if len(results) != 1 {
		return nil, fmt.Errorf("expected 1 result, got %d", len(results))
	}
	return results[0], nil
}

// InspectTxClauses simulates the clauses of a tx with its gas.
func (c *Client) InspectTxClauses(trx *tx.Transaction, sender *nfc.Address, opts ...Option) ([]*types.CallResult, error) {
	clauses := make(types.Clauses, len(trx.Clauses()))
	for i, clause := range trx.Clauses() {
		clauses[i] = types.ConvertClause(clause)
	}
	return c.InspectClauses(&types.BatchCallData{
		Clauses: clauses,
		Gas:     trx.Gas(),
		Caller:  sender,
	}, opts...)
}

func (c *Client) FilterEvents(req *types.EventFilter) ([]*types.FilteredEvent, error) {
	return c.httpConn.FilterEvents(req)
}

func (c *Client) FilterTransfers(req *types.TransferFilter) ([]*types.FilteredTransfer, error) {
	return c.httpConn.FilterTransfers(req)
}

// IncreaseTime shifts the clock of a solo node by seconds.
func (c *Client) IncreaseTime(seconds uint64) (*debug.ClockResult, error) {
	return c.httpConn.IncreaseTime(seconds)
}

// SubscribeBlocks streams new blocks, starting with the best one.
func (c *Client) SubscribeBlocks(opts ...Option) (*wsclient.Subscription[*types.Block], error) {
	if c.wsConn == nil {
		return nil, fmt.Errorf("not a websocket typed client")
	}
	position := ""
	if options := applyOptions(opts); options.revision != common.BestRevision {
		position = options.revision
	}
	return c.wsConn.SubscribeBlocks(position)
}
