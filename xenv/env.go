// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/0xngmi/nft-collateral/abi"
	"github.com/0xngmi/nft-collateral/builtin/reverts"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/state"
	"github.com/0xngmi/nft-collateral/tx"
)

// BlockContext block context.
type BlockContext struct {
	Beneficiary nfc.Address
	Number      uint32
	Time        uint64
	GasLimit    uint64
}

// TransactionContext transaction context.
type TransactionContext struct {
	ID          nfc.Bytes32
	Origin      nfc.Address
	ClauseIndex uint32
}

// Host is the executing frame a native method runs in.
// Calls, creations and transfers made through it become nested frames.
type Host interface {
	UseGas(gas uint64) bool
	Call(to nfc.Address, value *big.Int, input []byte) ([]byte, error)
	Create(value *big.Int, data []byte) (nfc.Address, error)
	Transfer(to nfc.Address, amount *big.Int) error
	AddEvent(event *tx.Event)
	ReadOnly() bool
}

type vmError struct {
	cause error
}

// Environment an env to execute native method.
type Environment struct {
	abi      *abi.Method
	state    *state.State
	blockCtx *BlockContext
	txCtx    *TransactionContext
	host     Host

	caller nfc.Address
	to     nfc.Address
	value  *big.Int
	input  []byte
}

// New create a new env.
func New(
	abi *abi.Method,
	state *state.State,
	blockCtx *BlockContext,
	txCtx *TransactionContext,
	host Host,
	caller nfc.Address,
	to nfc.Address,
	value *big.Int,
	input []byte,
) *Environment {
	return &Environment{
		abi:      abi,
		state:    state,
		blockCtx: blockCtx,
		txCtx:    txCtx,
		host:     host,
		caller:   caller,
		to:       to,
		value:    value,
		input:    input,
	}
}

func (env *Environment) State() *state.State                     { return env.state }
func (env *Environment) TransactionContext() *TransactionContext { return env.txCtx }
func (env *Environment) BlockContext() *BlockContext             { return env.blockCtx }
func (env *Environment) Caller() nfc.Address                     { return env.caller }
func (env *Environment) To() nfc.Address                         { return env.to }
func (env *Environment) Value() *big.Int                         { return new(big.Int).Set(env.value) }

// Now returns the timestamp of the executing block.
func (env *Environment) Now() uint64 { return env.blockCtx.Time }

func (env *Environment) UseGas(gas uint64) {
	if !env.host.UseGas(gas) {
		panic(&vmError{ErrOutOfGas})
	}
}

func (env *Environment) ParseArgs(val any) {
	if err := env.abi.DecodeInput(env.input, val); err != nil {
		// as vm error
		panic(&vmError{errors.WithMessage(err, "decode native input")})
	}
}

// Require reverts with message unless cond holds.
func (env *Environment) Require(cond bool, message string) {
	if !cond {
		panic(&vmError{reverts.NewRequireError(message)})
	}
}

// Check stops execution with err if it is not nil.
func (env *Environment) Check(err error) {
	if err != nil {
		panic(&vmError{err})
	}
}

// Log emits an event of the executing contract, args in declaration order.
func (env *Environment) Log(event *abi.Event, args ...any) {
	topics, data, err := event.EncodeLog(args...)
	if err != nil {
		panic(errors.WithMessage(err, "encode native event"))
	}
	env.UseGas(nfc.LogGas + nfc.LogTopicGas*uint64(len(topics)) + nfc.LogDataGas*uint64(len(data)))
	env.host.AddEvent(&tx.Event{
		Address: env.to,
		Topics:  topics,
		Data:    data,
	})
}

// Transfer sends amount from the executing contract to addr.
func (env *Environment) Transfer(to nfc.Address, amount *big.Int) {
	env.Check(env.host.Transfer(to, amount))
}

// Call invokes a method of another contract, failures propagate.
func (env *Environment) Call(to nfc.Address, value *big.Int, input []byte) []byte {
	env.UseGas(nfc.CallGas)
	output, err := env.host.Call(to, value, input)
	env.Check(err)
	return output
}

// Create deploys a built-in contract with the executing contract as creator.
func (env *Environment) Create(value *big.Int, data []byte) nfc.Address {
	env.UseGas(nfc.CreateGas)
	addr, err := env.host.Create(value, data)
	env.Check(err)
	return addr
}

// Run executes proc and encodes its outputs. Failures raised through the
// environment are returned as errors.
func (env *Environment) Run(proc func(env *Environment) []any) (data []byte, err error) {
	if env.host.ReadOnly() && !env.abi.Const() {
		return nil, ErrWriteProtection
	}
	if env.value.Sign() != 0 && !env.abi.Payable() {
		return nil, ErrNonPayable
	}

	defer func() {
		if e := recover(); e != nil {
			if rec, ok := e.(*vmError); ok {
				err = rec.cause
			} else {
				panic(e)
			}
		}
	}()
	output := proc(env)
	data, err = env.abi.EncodeOutput(output...)
	if err != nil {
		panic(errors.WithMessage(err, "encode native output"))
	}
	return
}
