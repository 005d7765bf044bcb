// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bind

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/0xngmi/nft-collateral/abi"
	"github.com/0xngmi/nft-collateral/tx"
)

type MethodBuilder struct {
	contract *Contract
	method   string
	args     []any
	value    *big.Int
}

func (b *MethodBuilder) WithValue(value *big.Int) *MethodBuilder {
	b.value = value
	return b
}

// Call returns a builder of read operations.
func (b *MethodBuilder) Call() CallBuilder {
	return &callBuilder{op: b}
}

// Send returns a builder of transactions.
func (b *MethodBuilder) Send() SendBuilder {
	return &sendBuilder{op: b}
}

func (b *MethodBuilder) abiMethod() (*abi.Method, error) {
	method, ok := b.contract.abi.MethodByName(b.method)
	if !ok {
		return nil, fmt.Errorf("method not found: %s", b.method)
	}
	return method, nil
}

// Clause encodes the method call.
func (b *MethodBuilder) Clause() (*tx.Clause, error) {
	method, err := b.abiMethod()
	if err != nil {
		return nil, err
	}

	data, err := method.EncodeInput(b.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack method (%s): %w", b.method, err)
	}

	clause := tx.NewClause(b.contract.addr).WithData(data)
	if b.value != nil {
		clause = clause.WithValue(b.value)
	}
	return clause, nil
}

func (b *MethodBuilder) String() string {
	builder := strings.Builder{}
	builder.WriteString("contract=")
	builder.WriteString(b.contract.addr.String())
	builder.WriteString(", method=")
	builder.WriteString(b.method)
	if b.value != nil && b.value.Sign() != 0 {
		builder.WriteString(", value=")
		builder.WriteString(b.value.String())
	}
	if len(b.args) > 0 {
		builder.WriteString(", args=[")
		for i, arg := range b.args {
			if i > 0 {
				builder.WriteString(", ")
			}
			fmt.Fprintf(&builder, "%v", arg)
		}
		builder.WriteString("]")
	}
	return builder.String()
}
