// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"context"
	"fmt"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/0xngmi/nft-collateral/api/types"
	"github.com/0xngmi/nft-collateral/api/utils"
	"github.com/0xngmi/nft-collateral/block"
	"github.com/0xngmi/nft-collateral/chain"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/packer"
	"github.com/0xngmi/nft-collateral/runtime"
	"github.com/0xngmi/nft-collateral/state"
	"github.com/0xngmi/nft-collateral/tx"
	"github.com/0xngmi/nft-collateral/xenv"
)

type Accounts struct {
	repo         *chain.Repository
	stater       *state.Stater
	clock        *packer.Clock
	callGasLimit uint64
}

// New creates the accounts handler. Calls are simulated in a block following the best one,
// timestamped by clock.
func New(repo *chain.Repository, stater *state.Stater, clock *packer.Clock, callGasLimit uint64) *Accounts {
	return &Accounts{
		repo,
		stater,
		clock,
		callGasLimit,
	}
}

func (a *Accounts) handleGetCode(w http.ResponseWriter, req *http.Request) error {
	addr, err := nfc.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	if err := a.handleRevision(req.URL.Query().Get("revision")); err != nil {
		return err
	}
	code, err := a.stater.NewState().GetCode(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &types.GetCodeResult{Code: hexutil.Encode(code)})
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := nfc.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	if err := a.handleRevision(req.URL.Query().Get("revision")); err != nil {
		return err
	}
	st := a.stater.NewState()
	balance, err := st.GetBalance(addr)
	if err != nil {
		return err
	}
	code, err := st.GetCode(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &types.Account{
		Balance: (*math.HexOrDecimal256)(balance),
		HasCode: len(code) != 0,
	})
}

func (a *Accounts) handleGetStorage(w http.ResponseWriter, req *http.Request) error {
	addr, err := nfc.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	key, err := nfc.ParseBytes32(mux.Vars(req)["key"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "key"))
	}
	if err := a.handleRevision(req.URL.Query().Get("revision")); err != nil {
		return err
	}
	raw, err := a.stater.NewState().GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &types.GetStorageResult{Value: hexutil.Encode(raw)})
}

func (a *Accounts) handleCallContract(w http.ResponseWriter, req *http.Request) error {
	callData := &types.CallData{}
	if err := utils.ParseJSON(req.Body, callData); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := a.handleRevision(req.URL.Query().Get("revision")); err != nil {
		return err
	}
	var addr *nfc.Address
	if mux.Vars(req)["address"] != "" {
		address, err := nfc.ParseAddress(mux.Vars(req)["address"])
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "address"))
		}
		addr = &address
	}
	batchCallData := &types.BatchCallData{
		Clauses: types.Clauses{
			types.Clause{
				To:    addr,
				Value: callData.Value,
				Data:  callData.Data,
			},
		},
		Gas:    callData.Gas,
		Caller: callData.Caller,
	}
	results, err := a.batchCall(req.Context(), batchCallData)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, results[0])
}

func (a *Accounts) handleCallBatchCode(w http.ResponseWriter, req *http.Request) error {
	batchCallData := &types.BatchCallData{}
	if err := utils.ParseJSON(req.Body, batchCallData); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := a.handleRevision(req.URL.Query().Get("revision")); err != nil {
		return err
	}
	results, err := a.batchCall(req.Context(), batchCallData)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, results)
}

// nextBlockContext mocks the block the call would be packed in.
func (a *Accounts) nextBlockContext(best *block.Header) *xenv.BlockContext {
	return &xenv.BlockContext{
		Beneficiary: best.Beneficiary(),
		Number:      best.Number() + 1,
		Time:        max(best.Timestamp()+1, a.clock.Now()),
		GasLimit:    best.GasLimit(),
	}
}

func (a *Accounts) batchCall(ctx context.Context, batchCallData *types.BatchCallData) (results types.BatchCallResults, err error) {
	gas, caller, clauses, err := a.handleBatchCallData(batchCallData)
	if err != nil {
		return nil, err
	}

	rt := runtime.New(a.stater.NewState(), a.nextBlockContext(a.repo.BestBlock().Header()))
	results = make(types.BatchCallResults, 0, len(clauses))
	for _, clause := range clauses {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := rt.Call(clause, caller, gas)
		if err != nil {
			return nil, err
		}
		results = append(results, convertCallResult(out, gas))
		if out.VMErr != nil {
			return results, nil
		}
		gas = out.LeftOverGas
	}
	return results, nil
}

func (a *Accounts) handleBatchCallData(batchCallData *types.BatchCallData) (gas uint64, caller nfc.Address, clauses []*tx.Clause, err error) {
	if batchCallData.Gas > a.callGasLimit {
		return 0, nfc.Address{}, nil, utils.Forbidden(errors.New("gas: exceeds limit"))
	} else if batchCallData.Gas == 0 {
		gas = a.callGasLimit
	} else {
		gas = batchCallData.Gas
	}
	if batchCallData.Caller != nil {
		caller = *batchCallData.Caller
	}
	clauses = make([]*tx.Clause, len(batchCallData.Clauses))
	for i, c := range batchCallData.Clauses {
		if c.Value != nil && (*big.Int)(c.Value).Sign() < 0 {
			return 0, nfc.Address{}, nil, utils.BadRequest(fmt.Errorf("value[%d]: negative", i))
		}
		clauses[i], err = c.ToClause()
		if err != nil {
			return 0, nfc.Address{}, nil, utils.BadRequest(errors.WithMessage(err, fmt.Sprintf("data[%d]", i)))
		}
	}
	return
}

// handleRevision accepts the best block only, there is no historical state.
func (a *Accounts) handleRevision(revision string) error {
	rev, err := utils.ParseRevision(revision)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "revision"))
	}
	if rev.IsBest() {
		return nil
	}
	blk, err := utils.GetBlock(rev, a.repo)
	if err != nil {
		if a.repo.IsNotFound(err) {
			return utils.BadRequest(errors.WithMessage(err, "revision"))
		}
		return err
	}
	if blk.Header().ID() != a.repo.BestBlock().Header().ID() {
		return utils.BadRequest(errors.New("revision: historical state is not available"))
	}
	return nil
}

func convertCallResult(out *runtime.Output, inputGas uint64) *types.CallResult {
	result := &types.CallResult{
		Data:      hexutil.Encode(out.Data),
		Events:    make([]*types.Event, 0, len(out.Events)),
		Transfers: make([]*types.Transfer, 0, len(out.Transfers)),
		GasUsed:   inputGas - out.LeftOverGas,
	}
	if out.VMErr != nil {
		result.Reverted = true
		result.VMError = out.VMErr.Error()
		return result
	}
	for _, e := range out.Events {
		result.Events = append(result.Events, types.ConvertEvent(e))
	}
	for _, t := range out.Transfers {
		result.Transfers = append(result.Transfers, types.ConvertTransfer(t))
	}
	return result
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/*").Methods(http.MethodPost).Name("accounts_call_batch_code").HandlerFunc(utils.WrapHandlerFunc(a.handleCallBatchCode))
	sub.Path("/{address}").Methods(http.MethodGet).Name("accounts_get_account").HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
	sub.Path("/{address}/code").Methods(http.MethodGet).Name("accounts_get_code").HandlerFunc(utils.WrapHandlerFunc(a.handleGetCode))
	sub.Path("/{address}/storage/{key}").Methods(http.MethodGet).Name("accounts_get_storage").HandlerFunc(utils.WrapHandlerFunc(a.handleGetStorage))
	sub.Path("").Methods(http.MethodPost).Name("accounts_call_contract").HandlerFunc(utils.WrapHandlerFunc(a.handleCallContract))
	sub.Path("/{address}").Methods(http.MethodPost).Name("accounts_call_contract_address").HandlerFunc(utils.WrapHandlerFunc(a.handleCallContract))
}
