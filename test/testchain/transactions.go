// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testchain

import (
	"fmt"
	"math/big"

	"github.com/0xngmi/nft-collateral/builtin"
	"github.com/0xngmi/nft-collateral/genesis"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/test/datagen"
	"github.com/0xngmi/nft-collateral/tx"
)

// BuildTransaction signs a tx carrying the clauses.
func (c *Chain) BuildTransaction(account genesis.DevAccount, clauses ...*tx.Clause) *tx.Transaction {
	builder := new(tx.Builder).
		ChainTag(c.ChainTag()).
		Gas(10e6).
		Nonce(datagen.RandUint64())
	for _, clause := range clauses {
		builder.Clause(clause)
	}
	return tx.MustSign(builder.Build(), account.PrivateKey)
}

// MintClauses creates a transaction with the provided clauses and mints a block containing it.
func (c *Chain) MintClauses(account genesis.DevAccount, clauses ...*tx.Clause) (*tx.Receipt, error) {
	trx := c.BuildTransaction(account, clauses...)
	if err := c.MintBlock(trx); err != nil {
		return nil, err
	}
	return c.GetTxReceipt(trx.ID())
}

// MintFromTemplate creates a transaction calling method on a contract deployed from template.
func (c *Chain) MintFromTemplate(
	account genesis.DevAccount,
	addr nfc.Address,
	template *builtin.Template,
	value *big.Int,
	method string,
	args ...any,
) (*tx.Receipt, error) {
	m, ok := template.ABI.MethodByName(method)
	if !ok {
		return nil, fmt.Errorf("unable to find method %s in %s", method, template.Name())
	}
	callData, err := m.EncodeInput(args...)
	if err != nil {
		return nil, fmt.Errorf("unable to encode method %s input: %w", method, err)
	}
	clause := tx.NewClause(&addr).WithData(callData)
	if value != nil {
		clause = clause.WithValue(value)
	}
	return c.MintClauses(account, clause)
}

// Deploy mints a deployment of template and returns a handle of the new contract.
func (c *Chain) Deploy(account genesis.DevAccount, template *builtin.Template, args ...any) (*Contract, error) {
	data, err := template.DeployData(args...)
	if err != nil {
		return nil, err
	}
	receipt, err := c.MintClauses(account, tx.NewClause(nil).WithData(data))
	if err != nil {
		return nil, err
	}
	if receipt.Reverted {
		return nil, fmt.Errorf("deploy %s reverted: %s", template.Name(), receipt.RevertReason)
	}
	return NewContract(c, account, *receipt.Outputs[0].ContractAddress, template), nil
}
