// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpclient

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xngmi/nft-collateral/api/debug"
	"github.com/0xngmi/nft-collateral/api/types"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/nfcclient/common"
)

func TestClient_GetTransactionReceipt(t *testing.T) {
	txID := nfc.Bytes32{0x01}
	expectedReceipt := &types.Receipt{
		GasUsed:  1000,
		Reverted: false,
		Meta:     types.ReceiptMeta{TxID: txID},
		Outputs:  []*types.Output{},
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions/"+txID.String()+"/receipt", r.URL.Path)

		receiptBytes, _ := json.Marshal(expectedReceipt)
		w.Write(receiptBytes)
	}))
	defer ts.Close()

	client := New(ts.URL)
	receipt, err := client.GetTransactionReceipt(&txID)

	assert.NoError(t, err)
	assert.Equal(t, expectedReceipt, receipt)
}

func TestClient_NullIsNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("null\n"))
	}))
	defer ts.Close()

	client := New(ts.URL)
	txID := nfc.Bytes32{0x01}

	_, err := client.GetTransactionReceipt(&txID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = client.GetTransaction(&txID, true)
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = client.GetRawTransaction(&txID, false)
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = client.GetBlock("100")
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = client.GetExpandedBlock("100")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestClient_Not200(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "revision: historical state is not available", http.StatusBadRequest)
	}))
	defer ts.Close()

	client := New(ts.URL)
	_, err := client.GetAccount(&nfc.Address{}, "0")
	assert.ErrorIs(t, err, common.ErrNot200Status)
	assert.Contains(t, err.Error(), "historical state is not available")
}

func TestClient_InspectClauses(t *testing.T) {
	calldata := &types.BatchCallData{Gas: 21000}
	expectedResults := []*types.CallResult{{
		Data:      "0x",
		Events:    []*types.Event{},
		Transfers: []*types.Transfer{},
		GasUsed:   1000,
	}}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts/*", r.URL.Path)
		assert.Equal(t, "best", r.URL.Query().Get("revision"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var received types.BatchCallData
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		assert.Equal(t, calldata.Gas, received.Gas)

		inspectionResBytes, _ := json.Marshal(expectedResults)
		w.Write(inspectionResBytes)
	}))
	defer ts.Close()

	client := New(ts.URL)
	results, err := client.InspectClauses(calldata, "best")

	assert.NoError(t, err)
	assert.Equal(t, expectedResults, results)
}

func TestClient_SendTransaction(t *testing.T) {
	rawTx := &types.RawTx{Raw: "0x01"}
	txID := nfc.Bytes32{0x02}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"raw":"0x01"}`, string(body))

		json.NewEncoder(w).Encode(&types.SendTxResult{ID: &txID})
	}))
	defer ts.Close()

	client := New(ts.URL)
	res, err := client.SendTransaction(rawTx)

	require.NoError(t, err)
	assert.Equal(t, txID, *res.ID)
}

func TestClient_GetAccount(t *testing.T) {
	addr := nfc.Address{0x01}
	expected := &types.Account{Balance: math.NewHexOrDecimal256(100), HasCode: true}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts/"+addr.String(), r.URL.Path)
		json.NewEncoder(w).Encode(expected)
	}))
	defer ts.Close()

	account, err := New(ts.URL).GetAccount(&addr, "")
	require.NoError(t, err)
	assert.Equal(t, expected, account)
}

func TestClient_GetBlockCachesGenesis(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/blocks/0", r.URL.Path)
		json.NewEncoder(w).Encode(&types.Block{Number: 0, ID: nfc.Bytes32{0xaa}})
	}))
	defer ts.Close()

	client := New(ts.URL)
	for range 3 {
		blk, err := client.GetBlock("0")
		require.NoError(t, err)
		assert.Equal(t, nfc.Bytes32{0xaa}, blk.ID)
	}
	assert.Equal(t, 1, calls)
}

func TestClient_FilterEvents(t *testing.T) {
	addr := nfc.Address{0x01}
	expected := []*types.FilteredEvent{{Address: addr, Topics: []nfc.Bytes32{{0x01}}, Data: "0x"}}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/logs/event", r.URL.Path)
		var filter types.EventFilter
		require.NoError(t, json.NewDecoder(r.Body).Decode(&filter))
		require.Len(t, filter.CriteriaSet, 1)
		assert.Equal(t, addr, *filter.CriteriaSet[0].Address)
		json.NewEncoder(w).Encode(expected)
	}))
	defer ts.Close()

	events, err := New(ts.URL).FilterEvents(&types.EventFilter{CriteriaSet: []*types.EventCriteria{{Address: &addr}}})
	require.NoError(t, err)
	assert.Equal(t, expected, events)
}

func TestClient_IncreaseTime(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/debug/increase-time", r.URL.Path)
		var body debug.IncreaseTime
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		json.NewEncoder(w).Encode(&debug.ClockResult{Offset: body.Seconds, Now: 1000 + body.Seconds})
	}))
	defer ts.Close()

	res, err := New(ts.URL).IncreaseTime(60)
	require.NoError(t, err)
	assert.Equal(t, uint64(60), res.Offset)
	assert.Equal(t, uint64(1060), res.Now)
}
