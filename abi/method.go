// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"bytes"
	"errors"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/0xngmi/nft-collateral/nfc"
)

// MethodID method id.
type MethodID [4]byte

// EmptyMethodID represents an empty method ID (used for constructors).
var EmptyMethodID = MethodID{}

// IsEmpty returns true if the MethodID is empty.
func (id MethodID) IsEmpty() bool {
	return id == EmptyMethodID
}

// Method see abi.Method in go-ethereum.
type Method struct {
	id     MethodID
	method *ethabi.Method
}

// ID returns method id.
func (m *Method) ID() MethodID {
	return m.id
}

// Name returns method name.
func (m *Method) Name() string {
	return m.method.Name
}

// Const returns if the method is read-only.
func (m *Method) Const() bool {
	return m.method.IsConstant()
}

// Payable returns if the method accepts value.
func (m *Method) Payable() bool {
	return m.method.IsPayable()
}

// EncodeInput encode args to data, and the data is prefixed with method id.
func (m *Method) EncodeInput(args ...any) ([]byte, error) {
	data, err := m.method.Inputs.Pack(normalize(args)...)
	if err != nil {
		return nil, err
	}

	// constructor input has no selector
	if m.id.IsEmpty() {
		return data, nil
	}
	return append(m.id[:], data...), nil
}

// DecodeInput decode input data into v, a pointer to a struct or to the single argument.
func (m *Method) DecodeInput(input []byte, v any) error {
	if m.id.IsEmpty() {
		if len(m.method.Inputs) == 0 {
			return nil
		}
		return unpackInto(m.method.Inputs, input, v)
	}

	if !bytes.HasPrefix(input, m.id[:]) {
		return errors.New("input has incorrect prefix")
	}
	if len(m.method.Inputs) == 0 {
		return nil
	}
	return unpackInto(m.method.Inputs, input[4:], v)
}

// EncodeOutput encode output args to data.
func (m *Method) EncodeOutput(args ...any) ([]byte, error) {
	return m.method.Outputs.Pack(normalize(args)...)
}

// DecodeOutput decode output data into v.
func (m *Method) DecodeOutput(output []byte, v any) error {
	if len(output)%32 != 0 {
		return errors.New("output has incorrect length")
	}
	if len(m.method.Outputs) == 0 {
		return nil
	}
	return unpackInto(m.method.Outputs, output, v)
}

// DecodeOutputValues decodes output data into a slice of go values.
func (m *Method) DecodeOutputValues(output []byte) ([]any, error) {
	if len(output)%32 != 0 {
		return nil, errors.New("output has incorrect length")
	}
	return m.method.Outputs.Unpack(output)
}

func unpackInto(args ethabi.Arguments, data []byte, v any) error {
	values, err := args.Unpack(data)
	if err != nil {
		return err
	}
	return args.Copy(v, values)
}

// ExtractMethodID extract method id from input data.
func ExtractMethodID(input []byte) (id MethodID, err error) {
	if len(input) < len(id) {
		err = errors.New("input data too short")
		return
	}
	copy(id[:], input)
	return
}

// normalize converts local address and hash types into the types go-ethereum packs.
func normalize(args []any) []any {
	out := make([]any, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case nfc.Address:
			out[i] = common.Address(v)
		case *nfc.Address:
			out[i] = common.Address(*v)
		case nfc.Bytes32:
			out[i] = [32]byte(v)
		case []nfc.Address:
			addrs := make([]common.Address, len(v))
			for j, a := range v {
				addrs[j] = common.Address(a)
			}
			out[i] = addrs
		default:
			out[i] = arg
		}
	}
	return out
}
