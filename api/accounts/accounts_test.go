// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts_test

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xngmi/nft-collateral/api/accounts"
	"github.com/0xngmi/nft-collateral/api/types"
	"github.com/0xngmi/nft-collateral/builtin"
	"github.com/0xngmi/nft-collateral/genesis"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/test/testchain"
)

const callGasLimit = 10_000_000

type fixture struct {
	chain   *testchain.Chain
	ts      *httptest.Server
	greeter *testchain.Contract
}

func newFixture(t *testing.T) *fixture {
	chain, err := testchain.NewDefault()
	require.NoError(t, err)
	t.Cleanup(func() { chain.Close() })

	greeter, err := chain.Deploy(genesis.DevAccounts()[0], builtin.Greeter.Template, "Hello, world!")
	require.NoError(t, err)

	router := mux.NewRouter()
	accounts.New(chain.Repo(), chain.Stater(), chain.Packer().Clock(), callGasLimit).Mount(router, "/accounts")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)

	return &fixture{chain, ts, greeter}
}

func (f *fixture) get(t *testing.T, path string) ([]byte, int) {
	res, err := http.Get(f.ts.URL + path)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func (f *fixture) post(t *testing.T, path string, obj any) ([]byte, int) {
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	res, err := http.Post(f.ts.URL+path, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func greetData(t *testing.T) string {
	method, ok := builtin.Greeter.ABI.MethodByName("greet")
	require.True(t, ok)
	data, err := method.EncodeInput()
	require.NoError(t, err)
	return hexutil.Encode(data)
}

func TestGetAccount(t *testing.T) {
	f := newFixture(t)

	dev := genesis.DevAccounts()[1].Address
	body, status := f.get(t, "/accounts/"+dev.String())
	require.Equal(t, http.StatusOK, status)
	var acc types.Account
	require.NoError(t, json.Unmarshal(body, &acc))
	assert.Equal(t, nfc.InitialDevBalance, (*big.Int)(acc.Balance))
	assert.False(t, acc.HasCode)

	body, status = f.get(t, "/accounts/"+f.greeter.Address().String())
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &acc))
	assert.True(t, acc.HasCode)

	_, status = f.get(t, "/accounts/0xbad")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestGetAccountRevision(t *testing.T) {
	f := newFixture(t)
	dev := genesis.DevAccounts()[1].Address

	_, status := f.get(t, "/accounts/"+dev.String()+"?revision=best")
	assert.Equal(t, http.StatusOK, status)

	best := f.chain.BestBlock().Header()
	_, status = f.get(t, "/accounts/"+dev.String()+"?revision="+best.ID().String())
	assert.Equal(t, http.StatusOK, status)

	body, status := f.get(t, "/accounts/"+dev.String()+"?revision=0")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "historical state is not available")

	_, status = f.get(t, "/accounts/"+dev.String()+"?revision=1000")
	assert.Equal(t, http.StatusBadRequest, status)

	_, status = f.get(t, "/accounts/"+dev.String()+"?revision=latest")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestGetCode(t *testing.T) {
	f := newFixture(t)

	body, status := f.get(t, "/accounts/"+f.greeter.Address().String()+"/code")
	require.Equal(t, http.StatusOK, status)
	var res types.GetCodeResult
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, hexutil.Encode(builtin.Greeter.Code()), res.Code)

	body, status = f.get(t, "/accounts/"+genesis.DevAccounts()[0].Address.String()+"/code")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, "0x", res.Code)
}

func TestGetStorage(t *testing.T) {
	f := newFixture(t)

	key := nfc.Bytes32{}
	body, status := f.get(t, "/accounts/"+genesis.DevAccounts()[0].Address.String()+"/storage/"+key.String())
	require.Equal(t, http.StatusOK, status)
	var res types.GetStorageResult
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, "0x", res.Value)

	_, status = f.get(t, "/accounts/"+genesis.DevAccounts()[0].Address.String()+"/storage/0x01")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCallContract(t *testing.T) {
	f := newFixture(t)

	body, status := f.post(t, "/accounts/"+f.greeter.Address().String(), &types.CallData{Data: greetData(t)})
	require.Equal(t, http.StatusOK, status, string(body))
	var res types.CallResult
	require.NoError(t, json.Unmarshal(body, &res))
	assert.False(t, res.Reverted)

	method, _ := builtin.Greeter.ABI.MethodByName("greet")
	var greeting string
	require.NoError(t, method.DecodeOutput(hexutil.MustDecode(res.Data), &greeting))
	assert.Equal(t, "Hello, world!", greeting)

	// not payable
	body, status = f.post(t, "/accounts/"+f.greeter.Address().String(), &types.CallData{
		Data:  greetData(t),
		Value: math.NewHexOrDecimal256(1),
	})
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &res))
	assert.True(t, res.Reverted)
	assert.NotEmpty(t, res.VMError)

	_, status = f.post(t, "/accounts/"+f.greeter.Address().String(), &types.CallData{Gas: callGasLimit + 1})
	assert.Equal(t, http.StatusForbidden, status)

	_, status = f.post(t, "/accounts/"+f.greeter.Address().String(), map[string]any{"unknown": 1})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCallDeployment(t *testing.T) {
	f := newFixture(t)

	data, err := builtin.MockERC721.DeployData("Punks", "PNK")
	require.NoError(t, err)
	body, status := f.post(t, "/accounts", &types.CallData{Data: hexutil.Encode(data)})
	require.Equal(t, http.StatusOK, status, string(body))
	var res types.CallResult
	require.NoError(t, json.Unmarshal(body, &res))
	assert.False(t, res.Reverted)
	assert.NotZero(t, res.GasUsed)

	// nothing persisted
	assert.Equal(t, uint32(1), f.chain.BestBlock().Header().Number())
}

func TestCallBatchCode(t *testing.T) {
	f := newFixture(t)

	setGreeting, _ := builtin.Greeter.ABI.MethodByName("setGreeting")
	setData, err := setGreeting.EncodeInput("Hola, mundo!")
	require.NoError(t, err)

	addr := f.greeter.Address()
	body, status := f.post(t, "/accounts/*", &types.BatchCallData{
		Clauses: types.Clauses{
			{To: &addr, Data: hexutil.Encode(setData)},
			{To: &addr, Data: greetData(t)},
		},
	})
	require.Equal(t, http.StatusOK, status, string(body))
	var results types.BatchCallResults
	require.NoError(t, json.Unmarshal(body, &results))
	require.Len(t, results, 2)

	method, _ := builtin.Greeter.ABI.MethodByName("greet")
	var greeting string
	require.NoError(t, method.DecodeOutput(hexutil.MustDecode(results[1].Data), &greeting))
	assert.Equal(t, "Hola, mundo!", greeting)

	// the chain state is untouched
	require.NoError(t, f.greeter.CallInto("greet", &greeting))
	assert.Equal(t, "Hello, world!", greeting)

	_, status = f.post(t, "/accounts/*", &types.BatchCallData{
		Clauses: types.Clauses{{To: &addr, Value: math.NewHexOrDecimal256(-1)}},
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCallBatchCodeStopsOnRevert(t *testing.T) {
	f := newFixture(t)

	addr := f.greeter.Address()
	body, status := f.post(t, "/accounts/*", &types.BatchCallData{
		Clauses: types.Clauses{
			{To: &addr, Data: greetData(t), Value: math.NewHexOrDecimal256(1)},
			{To: &addr, Data: greetData(t)},
		},
	})
	require.Equal(t, http.StatusOK, status, string(body))
	var results types.BatchCallResults
	require.NoError(t, json.Unmarshal(body, &results))
	require.Len(t, results, 1)
	assert.True(t, results[0].Reverted)
}
