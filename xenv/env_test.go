// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xngmi/nft-collateral/abi"
	"github.com/0xngmi/nft-collateral/builtin/reverts"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/tx"
)

const testABI = `[
	{"type":"function","name":"get","stateMutability":"view","inputs":[{"name":"x","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"pay","stateMutability":"payable","inputs":[],"outputs":[]},
	{"type":"event","name":"Paid","inputs":[{"name":"from","type":"address","indexed":true},{"name":"amount","type":"uint256","indexed":false}]}
]`

type fakeHost struct {
	gas      uint64
	readOnly bool
	events   []*tx.Event
	callErr  error
}

func (h *fakeHost) UseGas(gas uint64) bool {
	if h.gas < gas {
		return false
	}
	h.gas -= gas
	return true
}

func (h *fakeHost) Call(nfc.Address, *big.Int, []byte) ([]byte, error) { return nil, h.callErr }
func (h *fakeHost) Create(*big.Int, []byte) (nfc.Address, error)       { return nfc.Address{9}, nil }
func (h *fakeHost) Transfer(nfc.Address, *big.Int) error               { return ErrInsufficientBalance }
func (h *fakeHost) AddEvent(ev *tx.Event)                              { h.events = append(h.events, ev) }
func (h *fakeHost) ReadOnly() bool                                     { return h.readOnly }

func newEnv(t *testing.T, method string, host *fakeHost, value int64, args ...any) *Environment {
	contractABI := abi.MustNew([]byte(testABI))
	m, ok := contractABI.MethodByName(method)
	require.True(t, ok)
	input, err := m.EncodeInput(args...)
	require.NoError(t, err)
	return New(m, nil, &BlockContext{Time: 100}, &TransactionContext{}, host,
		nfc.Address{1}, nfc.Address{2}, big.NewInt(value), input)
}

func TestRunOutput(t *testing.T) {
	host := &fakeHost{gas: 1000}
	env := newEnv(t, "get", host, 0, big.NewInt(21))

	out, err := env.Run(func(env *Environment) []any {
		var x *big.Int
		env.ParseArgs(&x)
		env.UseGas(10)
		return []any{new(big.Int).Mul(x, big.NewInt(2))}
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(990), host.gas)
	assert.Equal(t, nfc.BytesToBytes32(big.NewInt(42).Bytes()).Bytes(), out)
	assert.Equal(t, uint64(100), env.Now())
}

func TestRunFailures(t *testing.T) {
	_, err := newEnv(t, "get", &fakeHost{gas: 5}, 0, big.NewInt(1)).Run(func(env *Environment) []any {
		env.UseGas(10)
		return nil
	})
	assert.Equal(t, ErrOutOfGas, err)

	_, err = newEnv(t, "get", &fakeHost{}, 1, big.NewInt(1)).Run(func(*Environment) []any { return nil })
	assert.Equal(t, ErrNonPayable, err)

	_, err = newEnv(t, "pay", &fakeHost{readOnly: true}, 0).Run(func(*Environment) []any { return nil })
	assert.Equal(t, ErrWriteProtection, err)

	_, err = newEnv(t, "pay", &fakeHost{}, 1).Run(func(env *Environment) []any {
		env.Require(false, "not owner")
		return nil
	})
	assert.True(t, reverts.IsRevertErr(err))
	assert.Equal(t, "not owner", err.Error())

	_, err = newEnv(t, "pay", &fakeHost{}, 0).Run(func(env *Environment) []any {
		env.Transfer(nfc.Address{3}, big.NewInt(1))
		return nil
	})
	assert.Equal(t, ErrInsufficientBalance, err)

	callErr := errors.New("callee failed")
	_, err = newEnv(t, "pay", &fakeHost{gas: 10000, callErr: callErr}, 0).Run(func(env *Environment) []any {
		env.Call(nfc.Address{3}, big.NewInt(0), nil)
		return nil
	})
	assert.Equal(t, callErr, err)

	assert.Panics(t, func() {
		newEnv(t, "pay", &fakeHost{}, 0).Run(func(*Environment) []any { panic("boom") })
	})
}

func TestLog(t *testing.T) {
	host := &fakeHost{gas: 100000}
	env := newEnv(t, "pay", host, 5)
	contractABI := abi.MustNew([]byte(testABI))
	ev, _ := contractABI.EventByName("Paid")

	_, err := env.Run(func(env *Environment) []any {
		env.Log(ev, env.Caller(), env.Value())
		return nil
	})
	require.NoError(t, err)
	require.Len(t, host.events, 1)
	assert.Equal(t, nfc.Address{2}, host.events[0].Address)
	assert.Equal(t, ev.ID(), host.events[0].Topics[0])
	assert.Equal(t, nfc.BytesToBytes32(nfc.Address{1}.Bytes()), host.events[0].Topics[1])
	assert.Equal(t, uint64(100000)-(nfc.LogGas+2*nfc.LogTopicGas+32*nfc.LogDataGas), host.gas)
}
