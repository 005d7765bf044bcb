// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xngmi/nft-collateral/nfc"
)

const testABI = `[
	{"type":"constructor","inputs":[{"name":"greeting","type":"string"}]},
	{"type":"function","name":"greet","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
	{"type":"function","name":"setGreeting","stateMutability":"nonpayable","inputs":[{"name":"greeting","type":"string"}],"outputs":[]},
	{"type":"function","name":"lend","stateMutability":"payable","inputs":[{"name":"loanId","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"transferFrom","stateMutability":"nonpayable","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"tokenId","type":"uint256"}],"outputs":[]},
	{"type":"event","name":"Transfer","anonymous":false,"inputs":[{"name":"from","type":"address","indexed":true},{"name":"to","type":"address","indexed":true},{"name":"value","type":"uint256","indexed":false}]}
]`

func TestMethods(t *testing.T) {
	abi, err := New([]byte(testABI))
	require.NoError(t, err)

	greet, ok := abi.MethodByName("greet")
	require.True(t, ok)
	assert.True(t, greet.Const())
	assert.False(t, greet.Payable())
	assert.Equal(t, MethodID(common.FromHex("cfae3217")), greet.ID())

	lend, _ := abi.MethodByName("lend")
	assert.True(t, lend.Payable())
	assert.False(t, lend.Const())

	set, _ := abi.MethodByName("setGreeting")
	input, err := set.EncodeInput("Hola, mundo!")
	require.NoError(t, err)

	found, err := abi.MethodByInput(input)
	require.NoError(t, err)
	assert.Equal(t, "setGreeting", found.Name())

	var greeting string
	require.NoError(t, set.DecodeInput(input, &greeting))
	assert.Equal(t, "Hola, mundo!", greeting)

	assert.Error(t, greet.DecodeInput(input, &greeting), "prefix mismatch")

	_, err = abi.MethodByInput([]byte{1, 2, 3})
	assert.Error(t, err)
	_, err = abi.MethodByInput([]byte{1, 2, 3, 4})
	assert.Error(t, err)

	output, err := greet.EncodeOutput("Hello, world!")
	require.NoError(t, err)
	var out string
	require.NoError(t, greet.DecodeOutput(output, &out))
	assert.Equal(t, "Hello, world!", out)

	values, err := greet.DecodeOutputValues(output)
	require.NoError(t, err)
	assert.Equal(t, []any{"Hello, world!"}, values)
}

func TestConstructor(t *testing.T) {
	abi, err := New([]byte(testABI))
	require.NoError(t, err)

	ctor := abi.Constructor()
	require.NotNil(t, ctor)
	assert.True(t, ctor.ID().IsEmpty())

	data, err := ctor.EncodeInput("Hello, world!")
	require.NoError(t, err)
	assert.Zero(t, len(data)%32, "constructor args are not prefixed")

	var greeting string
	require.NoError(t, ctor.DecodeInput(data, &greeting))
	assert.Equal(t, "Hello, world!", greeting)
}

func TestLocalAddressArgs(t *testing.T) {
	abi, _ := New([]byte(testABI))
	m, _ := abi.MethodByName("transferFrom")

	from := nfc.BytesToAddress([]byte("from"))
	to := nfc.BytesToAddress([]byte("to"))
	input, err := m.EncodeInput(from, to, big.NewInt(7))
	require.NoError(t, err)

	var args struct {
		From    nfc.Address
		To      nfc.Address
		TokenId *big.Int
	}
	require.NoError(t, m.DecodeInput(input, &args))
	assert.Equal(t, from, args.From)
	assert.Equal(t, to, args.To)
	assert.Equal(t, big.NewInt(7), args.TokenId)
}

func TestEventLog(t *testing.T) {
	abi, _ := New([]byte(testABI))
	ev, ok := abi.EventByName("Transfer")
	require.True(t, ok)
	assert.Equal(t, "ddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef", fmt.Sprintf("%x", ev.ID().Bytes()))

	from := nfc.BytesToAddress([]byte("from"))
	to := nfc.BytesToAddress([]byte("to"))
	topics, data, err := ev.EncodeLog(from, to, big.NewInt(42))
	require.NoError(t, err)
	require.Len(t, topics, 3)
	assert.Equal(t, ev.ID(), topics[0])
	assert.Equal(t, nfc.BytesToBytes32(from.Bytes()), topics[1])

	var decoded struct {
		From  common.Address
		To    common.Address
		Value *big.Int
	}
	require.NoError(t, ev.DecodeLog(topics, data, &decoded))
	assert.Equal(t, common.Address(from), decoded.From)
	assert.Equal(t, common.Address(to), decoded.To)
	assert.Equal(t, big.NewInt(42), decoded.Value)

	m := map[string]any{}
	require.NoError(t, ev.DecodeLog(topics, data, m))
	assert.Equal(t, big.NewInt(42), m["value"])

	var value *big.Int
	require.NoError(t, ev.Decode(data, &value))
	assert.Equal(t, big.NewInt(42), value)

	found, ok := abi.EventByID(topics[0])
	assert.True(t, ok)
	assert.Equal(t, "Transfer", found.Name())

	_, _, err = ev.EncodeLog(from)
	assert.Error(t, err)
	assert.Error(t, ev.DecodeLog([]nfc.Bytes32{{}}, data, &decoded))
}

func TestDecodeInto(t *testing.T) {
	abi, _ := New([]byte(testABI))

	greet, _ := abi.MethodByName("greet")
	output, err := greet.EncodeOutput("gm")
	require.NoError(t, err)

	var out struct{ Greeting string }
	require.NoError(t, greet.DecodeOutput(output, &out))
	assert.Equal(t, "gm", out.Greeting)

	var str string
	assert.Error(t, greet.DecodeOutput(output, str), "non-pointer")
	assert.Error(t, greet.DecodeOutput(output[:32], &str), "truncated")

	lend, _ := abi.MethodByName("lend")
	input, err := lend.EncodeInput(big.NewInt(3))
	require.NoError(t, err)
	var loanID *big.Int
	require.NoError(t, lend.DecodeInput(input, &loanID))
	assert.Equal(t, big.NewInt(3), loanID)
	assert.Error(t, lend.DecodeInput(input[:4], &loanID), "no args")

	ev, _ := abi.EventByName("Transfer")
	_, data, err := ev.EncodeLog(nfc.Address{}, nfc.Address{}, big.NewInt(9))
	require.NoError(t, err)
	var decoded struct{ Value *big.Int }
	require.NoError(t, ev.Decode(data, &decoded))
	assert.Equal(t, big.NewInt(9), decoded.Value)
	assert.Error(t, ev.Decode(nil, &decoded))
}

func TestUnpackRevert(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input     string
		expect    string
		expectErr bool
	}{
		{"", "", true},
		{"08c379a1", "", true},
		{"08c379a00000000000000000000000000000000000000000000000000000000000000020000000000000000000000000000000000000000000000000000000000000000d72657665727420726561736f6e00000000000000000000000000000000000000", "revert reason", false},
		{"4e487b710000000000000000000000000000000000000000000000000000000000000000", "generic panic", false},
	}
	for index, c := range cases {
		t.Run(fmt.Sprintf("case %d", index), func(t *testing.T) {
			t.Parallel()
			got, err := UnpackRevert(common.Hex2Bytes(c.input))
			if c.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, c.expect, got)
		})
	}
}
