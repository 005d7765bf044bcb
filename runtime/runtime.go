// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime executes transactions against the built-in contract templates.
package runtime

import (
	"fmt"

	"github.com/0xngmi/nft-collateral/log"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/state"
	"github.com/0xngmi/nft-collateral/tx"
	"github.com/0xngmi/nft-collateral/xenv"
)

var logger = log.WithContext("pkg", "runtime")

// Output is the result of executing a clause.
type Output struct {
	Data            []byte
	Events          tx.Events
	Transfers       tx.Transfers
	LeftOverGas     uint64
	VMErr           error
	ContractAddress *nfc.Address
}

// Runtime is to support transaction execution.
type Runtime struct {
	state *state.State
	ctx   *xenv.BlockContext
}

// New create a Runtime object.
func New(state *state.State, ctx *xenv.BlockContext) *Runtime {
	return &Runtime{
		state: state,
		ctx:   ctx,
	}
}

func (rt *Runtime) State() *state.State           { return rt.state }
func (rt *Runtime) Context() *xenv.BlockContext   { return rt.ctx }
func (rt *Runtime) BlockBeneficiary() nfc.Address { return rt.ctx.Beneficiary }
func (rt *Runtime) BlockNumber() uint32           { return rt.ctx.Number }
func (rt *Runtime) BlockTime() uint64             { return rt.ctx.Time }
func (rt *Runtime) BlockGasLimit() uint64         { return rt.ctx.GasLimit }

func (rt *Runtime) execute(
	clause *tx.Clause,
	index uint32,
	gas uint64,
	txOrigin nfc.Address,
	txID nfc.Bytes32,
) *Output {
	exec := &execution{
		rt: rt,
		txCtx: &xenv.TransactionContext{
			ID:          txID,
			Origin:      txOrigin,
			ClauseIndex: index,
		},
		gas: gas,
	}

	var (
		f      *frame
		output = &Output{}
		err    error
	)
	if to := clause.To(); to == nil {
		var addr nfc.Address
		if f, addr, err = exec.create(txOrigin, clause.Value(), clause.Data(), 0); err == nil {
			output.ContractAddress = &addr
		}
	} else {
		f, output.Data, err = exec.call(txOrigin, *to, clause.Value(), clause.Data(), 0, false)
	}

	output.LeftOverGas = exec.gas
	if err != nil {
		output.VMErr = err
		if err == xenv.ErrOutOfGas {
			output.LeftOverGas = 0
		}
		return output
	}
	output.Events = f.events
	output.Transfers = f.transfers
	return output
}

// Call executes single clause on behalf of caller.
// Changes stay in the state, callers simulating a clause should discard it.
func (rt *Runtime) Call(clause *tx.Clause, caller nfc.Address, gas uint64) (output *Output, err error) {
	defer func() {
		if e := recover(); e != nil {
			output, err = nil, recoverError(e)
		}
	}()
	return rt.execute(clause, 0, gas, caller, nfc.Bytes32{}), nil
}

// ExecuteTransaction executes a transaction.
// If some clause failed, all clauses are reverted, receipt.Reverted is set and receipt.Outputs is nil.
// An error is returned when the transaction can not be executed at all, the state is left untouched.
func (rt *Runtime) ExecuteTransaction(trx *tx.Transaction) (receipt *tx.Receipt, err error) {
	resolvedTx, err := ResolveTransaction(trx)
	if err != nil {
		return nil, err
	}

	// checkpoint to be reverted when clause failure.
	txCheckpoint := rt.state.NewCheckpoint()
	defer func() {
		if e := recover(); e != nil {
			rt.state.RevertTo(txCheckpoint)
			receipt, err = nil, recoverError(e)
		}
	}()

	leftOverGas := trx.Gas() - resolvedTx.IntrinsicGas
	txID := trx.ID()

	receipt = &tx.Receipt{
		Origin:  resolvedTx.Origin,
		Outputs: make([]*tx.Output, 0, len(resolvedTx.Clauses)),
	}
	for i, clause := range resolvedTx.Clauses {
		output := rt.execute(clause, uint32(i), leftOverGas, resolvedTx.Origin, txID)
		leftOverGas = output.LeftOverGas

		if output.VMErr != nil {
			// revert all executed clauses
			rt.state.RevertTo(txCheckpoint)
			receipt.Reverted = true
			receipt.RevertReason = output.VMErr.Error()
			receipt.Outputs = nil
			logger.Debug("tx reverted", "id", txID, "clause", i, "reason", receipt.RevertReason)
			break
		}

		receipt.Outputs = append(receipt.Outputs, &tx.Output{
			ContractAddress: output.ContractAddress,
			Events:          output.Events,
			Transfers:       output.Transfers,
		})
	}

	receipt.GasUsed = trx.Gas() - leftOverGas
	return receipt, nil
}

func recoverError(e any) error {
	if err, ok := e.(error); ok {
		return fmt.Errorf("execution aborted: %w", err)
	}
	panic(e)
}
