// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/0xngmi/nft-collateral/abi"
	"github.com/0xngmi/nft-collateral/builtin"
	"github.com/0xngmi/nft-collateral/builtin/reverts"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/tx"
	"github.com/0xngmi/nft-collateral/xenv"
)

var errAddressCollision = errors.New("contract address collision")

// execution tracks what is shared by all frames of a clause.
type execution struct {
	rt          *Runtime
	txCtx       *xenv.TransactionContext
	gas         uint64
	createCount uint32
}

// frame is a contract call or creation. Events and transfers of a frame
// reach its parent only when the frame succeeds.
type frame struct {
	exec    *execution
	address nfc.Address
	method  *abi.Method
	depth   int
	static  bool

	events    tx.Events
	transfers tx.Transfers
}

var _ xenv.Host = (*frame)(nil)

func (f *frame) UseGas(gas uint64) bool {
	if f.exec.gas < gas {
		return false
	}
	f.exec.gas -= gas
	return true
}

func (f *frame) ReadOnly() bool {
	return f.static
}

func (f *frame) AddEvent(event *tx.Event) {
	f.events = append(f.events, event)
}

// childStatic reports whether calls made by this frame may not modify state.
func (f *frame) childStatic() bool {
	return f.static || (f.method != nil && f.method.Const())
}

func (f *frame) Transfer(to nfc.Address, amount *big.Int) error {
	if f.childStatic() {
		return xenv.ErrWriteProtection
	}
	return f.exec.transfer(f, f.address, to, amount)
}

func (f *frame) Call(to nfc.Address, value *big.Int, input []byte) ([]byte, error) {
	child, output, err := f.exec.call(f.address, to, value, input, f.depth+1, f.childStatic())
	if err != nil {
		return output, err
	}
	f.merge(child)
	return output, nil
}

func (f *frame) Create(value *big.Int, data []byte) (nfc.Address, error) {
	if f.childStatic() {
		return nfc.Address{}, xenv.ErrWriteProtection
	}
	child, addr, err := f.exec.create(f.address, value, data, f.depth+1)
	if err != nil {
		return nfc.Address{}, err
	}
	f.merge(child)
	return addr, nil
}

func (f *frame) merge(child *frame) {
	f.events = append(f.events, child.events...)
	f.transfers = append(f.transfers, child.transfers...)
}

// must panics on storage failures, they abort the whole transaction.
func must(err error) {
	if err != nil {
		panic(err)
	}
}

func (e *execution) transfer(f *frame, from, to nfc.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	st := e.rt.state
	ok, err := st.SubBalance(from, amount)
	must(err)
	if !ok {
		return xenv.ErrInsufficientBalance
	}
	must(st.AddBalance(to, amount))
	f.transfers = append(f.transfers, &tx.Transfer{
		Sender:    from,
		Recipient: to,
		Amount:    new(big.Int).Set(amount),
	})
	return nil
}

// call runs input against the contract at to. An account without code only receives value.
func (e *execution) call(caller, to nfc.Address, value *big.Int, input []byte, depth int, static bool) (*frame, []byte, error) {
	if depth > nfc.MaxCallDepth {
		return nil, nil, xenv.ErrDepth
	}
	if static && value.Sign() != 0 {
		return nil, nil, xenv.ErrWriteProtection
	}

	st := e.rt.state
	checkpoint := st.NewCheckpoint()
	fail := func(err error) (*frame, []byte, error) {
		st.RevertTo(checkpoint)
		return nil, revertData(err), err
	}

	f := &frame{exec: e, address: to, depth: depth, static: static}
	if err := e.transfer(f, caller, to, value); err != nil {
		return fail(err)
	}

	code, err := st.GetCode(to)
	must(err)
	if len(code) == 0 {
		return f, nil, nil
	}

	template, ok := builtin.FindTemplate(code)
	if !ok {
		return fail(xenv.ErrUnknownTemplate)
	}
	method, run, err := template.FindNativeMethod(input)
	if err != nil {
		return fail(err)
	}
	f.method = method

	env := xenv.New(method, st, e.rt.ctx, e.txCtx, f, caller, to, value, input)
	output, err := env.Run(run)
	if err != nil {
		return fail(err)
	}
	return f, output, nil
}

// create deploys a template named by the deploy data and runs its constructor.
func (e *execution) create(creator nfc.Address, value *big.Int, data []byte, depth int) (*frame, nfc.Address, error) {
	if depth > nfc.MaxCallDepth {
		return nil, nfc.Address{}, xenv.ErrDepth
	}
	template, ctorInput, err := builtin.FindDeployment(data)
	if err != nil {
		return nil, nfc.Address{}, err
	}

	addr := nfc.CreateContractAddress(e.txCtx.ID, e.txCtx.ClauseIndex, e.createCount)
	e.createCount++

	st := e.rt.state
	checkpoint := st.NewCheckpoint()
	fail := func(err error) (*frame, nfc.Address, error) {
		st.RevertTo(checkpoint)
		return nil, nfc.Address{}, err
	}

	code, err := st.GetCode(addr)
	must(err)
	if len(code) > 0 {
		return fail(errAddressCollision)
	}

	f := &frame{exec: e, address: addr, depth: depth}
	if err := e.transfer(f, creator, addr, value); err != nil {
		return fail(err)
	}
	must(st.SetCode(addr, template.Code()))

	method, run := template.NativeConstructor()
	if run == nil {
		run = func(*xenv.Environment) []any { return nil }
	}
	f.method = method

	env := xenv.New(method, st, e.rt.ctx, e.txCtx, f, creator, addr, value, ctorInput)
	if _, err := env.Run(run); err != nil {
		return fail(err)
	}
	return f, addr, nil
}

// revertData returns the output of a failed frame, the Error(string) encoding of a require failure.
func revertData(err error) []byte {
	var re *reverts.ErrRequire
	if errors.As(err, &re) {
		return re.Bytes()
	}
	return nil
}
