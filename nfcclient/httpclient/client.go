// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package httpclient provides an HTTP client for the dev chain API.
// It retrieves accounts, transactions, blocks and logs, and submits transactions.
package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/0xngmi/nft-collateral/api/debug"
	"github.com/0xngmi/nft-collateral/api/types"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/nfcclient/common"
)

// Client represents the HTTP client for interacting with the chain.
type Client struct {
	url     string
	c       *http.Client
	genesis atomic.Pointer[types.Block]
}

// New creates a new Client with the provided URL.
func New(url string) *Client {
	return NewWithHTTP(url, http.DefaultClient)
}

func NewWithHTTP(url string, c *http.Client) *Client {
	return &Client{
		url: strings.TrimSuffix(url, "/"),
		c:   c,
	}
}

func withRevision(url, revision string) string {
	if revision != "" {
		url += "?revision=" + revision
	}
	return url
}

func isNull(body []byte) bool {
	return len(body) == 0 || bytes.Equal(bytes.TrimSpace(body), []byte("null"))
}

// GetAccount retrieves the account details for the given address at the specified revision.
func (c *Client) GetAccount(addr *nfc.Address, revision string) (*types.Account, error) {
	body, err := c.httpGET(withRevision(c.url+"/accounts/"+addr.String(), revision))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve account - %w", err)
	}

	var account types.Account
	if err = json.Unmarshal(body, &account); err != nil {
		return nil, fmt.Errorf("unable to unmarshal account - %w", err)
	}
	return &account, nil
}

// GetAccountCode retrieves the contract code for the given address at the specified revision.
func (c *Client) GetAccountCode(addr *nfc.Address, revision string) (*types.GetCodeResult, error) {
	body, err := c.httpGET(withRevision(c.url+"/accounts/"+addr.String()+"/code", revision))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve account code - %w", err)
	}

	var res types.GetCodeResult
	if err = json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("unable to unmarshal code - %w", err)
	}
	return &res, nil
}

// GetAccountStorage retrieves the storage value for the given address and key at the specified revision.
func (c *Client) GetAccountStorage(addr *nfc.Address, key *nfc.Bytes32, revision string) (*types.GetStorageResult, error) {
	body, err := c.httpGET(withRevision(c.url+"/accounts/"+addr.String()+"/storage/"+key.String(), revision))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve account storage - %w", err)
	}

	var res types.GetStorageResult
	if err = json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("unable to unmarshal storage result - %w", err)
	}
	return &res, nil
}

// InspectClauses simulates clauses in order on the state at the specified revision.
func (c *Client) InspectClauses(calldata *types.BatchCallData, revision string) ([]*types.CallResult, error) {
	body, err := c.httpPOST(withRevision(c.url+"/accounts/*", revision), calldata)
	if err != nil {
		return nil, fmt.Errorf("unable to request inspect clauses - %w", err)
	}

	var inspectionRes []*types.CallResult
	if err = json.Unmarshal(body, &inspectionRes); err != nil {
		return nil, fmt.Errorf("unable to unmarshal inspection result - %w", err)
	}
	return inspectionRes, nil
}

// GetTransaction retrieves a transaction by ID, optionally looking into the pool.
func (c *Client) GetTransaction(txID *nfc.Bytes32, isPending bool) (*types.Transaction, error) {
	url := c.url + "/transactions/" + txID.String()
	if isPending {
		url += "?pending=true"
	}

	body, err := c.httpGET(url)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve transaction - %w", err)
	}
	if isNull(body) {
		return nil, common.ErrNotFound
	}

	var tx types.Transaction
	if err = json.Unmarshal(body, &tx); err != nil {
		return nil, fmt.Errorf("unable to unmarshal transaction - %w", err)
	}
	return &tx, nil
}

// GetRawTransaction retrieves the rlp encoded transaction by ID.
func (c *Client) GetRawTransaction(txID *nfc.Bytes32, isPending bool) (*types.RawTx, error) {
	url := c.url + "/transactions/" + txID.String() + "?raw=true"
	if isPending {
		url += "&pending=true"
	}

	body, err := c.httpGET(url)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve raw transaction - %w", err)
	}
	if isNull(body) {
		return nil, common.ErrNotFound
	}

	var tx types.RawTx
	if err = json.Unmarshal(body, &tx); err != nil {
		return nil, fmt.Errorf("unable to unmarshal raw transaction - %w", err)
	}
	return &tx, nil
}

// GetTransactionReceipt retrieves the receipt of a packed transaction.
func (c *Client) GetTransactionReceipt(txID *nfc.Bytes32) (*types.Receipt, error) {
	body, err := c.httpGET(c.url + "/transactions/" + txID.String() + "/receipt")
	if err != nil {
		return nil, fmt.Errorf("unable to fetch receipt - %w", err)
	}
	if isNull(body) {
		return nil, common.ErrNotFound
	}

	var receipt types.Receipt
	if err = json.Unmarshal(body, &receipt); err != nil {
		return nil, fmt.Errorf("unable to unmarshal receipt - %w", err)
	}
	return &receipt, nil
}

// SendTransaction sends a raw transaction to the chain.
func (c *Client) SendTransaction(obj *types.RawTx) (*types.SendTxResult, error) {
	body, err := c.httpPOST(c.url+"/transactions", obj)
	if err != nil {
		return nil, fmt.Errorf("unable to send raw transaction - %w", err)
	}

	var txID types.SendTxResult
	if err = json.Unmarshal(body, &txID); err != nil {
		return nil, fmt.Errorf("unable to unmarshal send transaction result - %w", err)
	}
	return &txID, nil
}

// GetBlock retrieves a block by revision.
func (c *Client) GetBlock(revision string) (*types.Block, error) {
	if revision == "0" {
		if genesis := c.genesis.Load(); genesis != nil {
			return genesis, nil
		}
	}
	body, err := c.httpGET(c.url + "/blocks/" + revision)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve block - %w", err)
	}
	if isNull(body) {
		return nil, common.ErrNotFound
	}

	var block types.Block
	if err = json.Unmarshal(body, &block); err != nil {
		return nil, fmt.Errorf("unable to unmarshal block - %w", err)
	}
	if block.Number == 0 {
		c.genesis.Store(&block)
	}
	return &block, nil
}

// GetExpandedBlock retrieves a block with its transactions and receipts.
func (c *Client) GetExpandedBlock(revision string) (*types.ExpandedBlock, error) {
	body, err := c.httpGET(c.url + "/blocks/" + revision + "?expanded=true")
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve expanded block - %w", err)
	}
	if isNull(body) {
		return nil, common.ErrNotFound
	}

	var block types.ExpandedBlock
	if err = json.Unmarshal(body, &block); err != nil {
		return nil, fmt.Errorf("unable to unmarshal expanded block - %w", err)
	}
	return &block, nil
}

// FilterEvents filters events based on the provided event filter.
func (c *Client) FilterEvents(req *types.EventFilter) ([]*types.FilteredEvent, error) {
	body, err := c.httpPOST(c.url+"/logs/event", req)
	if err != nil {
		return nil, fmt.Errorf("unable to filter events - %w", err)
	}

	var filteredEvents []*types.FilteredEvent
	if err = json.Unmarshal(body, &filteredEvents); err != nil {
		return nil, fmt.Errorf("unable to unmarshal events - %w", err)
	}
	return filteredEvents, nil
}

// FilterTransfers filters transfers based on the provided transfer filter.
func (c *Client) FilterTransfers(req *types.TransferFilter) ([]*types.FilteredTransfer, error) {
	body, err := c.httpPOST(c.url+"/logs/transfer", req)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve transfer logs - %w", err)
	}

	var filteredTransfers []*types.FilteredTransfer
	if err = json.Unmarshal(body, &filteredTransfers); err != nil {
		return nil, fmt.Errorf("unable to unmarshal transfers - %w", err)
	}
	return filteredTransfers, nil
}

// IncreaseTime shifts the clock of a solo node.
func (c *Client) IncreaseTime(seconds uint64) (*debug.ClockResult, error) {
	body, err := c.httpPOST(c.url+"/debug/increase-time", &debug.IncreaseTime{Seconds: seconds})
	if err != nil {
		return nil, fmt.Errorf("unable to increase time - %w", err)
	}

	var res debug.ClockResult
	if err = json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("unable to unmarshal clock - %w", err)
	}
	return &res, nil
}

// RawHTTPPost sends a raw HTTP POST request to the specified path with the provided data.
func (c *Client) RawHTTPPost(path string, calldata any) ([]byte, int, error) {
	data, ok := calldata.([]byte)
	if !ok {
		var err error
		if data, err = json.Marshal(calldata); err != nil {
			return nil, 0, fmt.Errorf("unable to marshal payload - %w", err)
		}
	}
	return c.rawHTTPRequest(http.MethodPost, c.url+path, bytes.NewReader(data))
}

// RawHTTPGet sends a raw HTTP GET request to the specified path.
func (c *Client) RawHTTPGet(path string) ([]byte, int, error) {
	return c.rawHTTPRequest(http.MethodGet, c.url+path, nil)
}
