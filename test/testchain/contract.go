// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testchain

import (
	"errors"
	"math/big"

	"github.com/0xngmi/nft-collateral/builtin"
	"github.com/0xngmi/nft-collateral/genesis"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/tx"
)

type Contract struct {
	chain    *Chain
	template *builtin.Template
	addr     nfc.Address
	acc      genesis.DevAccount
}

func NewContract(chain *Chain, acc genesis.DevAccount, addr nfc.Address, template *builtin.Template) *Contract {
	return &Contract{
		chain:    chain,
		template: template,
		addr:     addr,
		acc:      acc,
	}
}

func (c *Contract) Address() nfc.Address {
	return c.addr
}

func (c *Contract) Attach(acc genesis.DevAccount) *Contract {
	contract := *c
	contract.acc = acc
	return &contract
}

// Call calls a contract method and returns the result.
func (c *Contract) Call(method string, args ...any) ([]byte, error) {
	clause, err := c.BuildClause(method, args...)
	if err != nil {
		return nil, err
	}
	output, err := c.chain.ClauseCall(c.acc.Address, clause)
	if err != nil {
		return nil, err
	}
	if output.VMErr != nil {
		return nil, output.VMErr
	}
	return output.Data, nil
}

// CallInto calls a contract method and decodes the result into the result argument.
func (c *Contract) CallInto(method string, result any, args ...any) error {
	data, err := c.Call(method, args...)
	if err != nil {
		return err
	}
	methodABI, ok := c.template.ABI.MethodByName(method)
	if !ok {
		return errors.New("method not found")
	}
	return methodABI.DecodeOutput(data, result)
}

func (c *Contract) BuildClause(method string, args ...any) (*tx.Clause, error) {
	methodABI, ok := c.template.ABI.MethodByName(method)
	if !ok {
		return nil, errors.New("method not found")
	}
	data, err := methodABI.EncodeInput(args...)
	if err != nil {
		return nil, err
	}
	return tx.NewClause(&c.addr).WithData(data), nil
}

// MintTransaction sends a method call in a new block and returns its receipt.
func (c *Contract) MintTransaction(method string, value *big.Int, args ...any) (*tx.Receipt, error) {
	return c.chain.MintFromTemplate(c.acc, c.addr, c.template, value, method, args...)
}
