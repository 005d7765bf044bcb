// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package bind drives deployed contract templates through the API client.
package bind

import (
	"context"
	"fmt"
	"time"

	"github.com/0xngmi/nft-collateral/abi"
	"github.com/0xngmi/nft-collateral/api/types"
	"github.com/0xngmi/nft-collateral/builtin"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/nfcclient"
	"github.com/0xngmi/nft-collateral/tx"
)

const (
	deployGas    = 10_000_000
	pollInterval = 100 * time.Millisecond
)

type Contract struct {
	client *nfcclient.Client
	abi    *abi.ABI
	addr   *nfc.Address
}

// NewContract creates a new contract instance with the given client, ABI and address.
func NewContract(client *nfcclient.Client, contractABI *abi.ABI, address *nfc.Address) (*Contract, error) {
	if address == nil {
		return nil, fmt.Errorf("empty contract address")
	}
	if contractABI == nil {
		return nil, fmt.Errorf("empty contract abi")
	}
	return &Contract{
		client: client,
		abi:    contractABI,
		addr:   address,
	}, nil
}

func NewContractFromTemplate(client *nfcclient.Client, template *builtin.Template, address *nfc.Address) (*Contract, error) {
	return NewContract(client, template.ABI, address)
}

// DeployContract deploys an instance of template and waits until it is mined.
func DeployContract(ctx context.Context, client *nfcclient.Client, signer Signer, template *builtin.Template, args ...any) (*Contract, error) {
	data, err := template.DeployData(args...)
	if err != nil {
		return nil, err
	}

	tag, err := client.ChainTag()
	if err != nil {
		return nil, err
	}

	nonce, err := randomNonce()
	if err != nil {
		return nil, err
	}
	trx := new(tx.Builder).
		ChainTag(tag).
		Clause(tx.NewClause(nil).WithData(data)).
		Gas(deployGas).
		Nonce(nonce).
		Build()
	trx, err = signer.SignTransaction(trx)
	if err != nil {
		return nil, err
	}

	signerAddr := signer.Address()
	results, err := client.InspectTxClauses(trx, &signerAddr)
	if err != nil {
		return nil, err
	}
	if len(results) != 1 || results[0].Reverted || results[0].VMError != "" {
		return nil, fmt.Errorf("unable to deploy %s: %+v", template.Name(), results)
	}

	res, err := client.SendTransaction(trx)
	if err != nil {
		return nil, err
	}

	receipt, err := waitReceipt(ctx, client, res.ID)
	if err != nil {
		return nil, err
	}
	if receipt.Reverted {
		return nil, fmt.Errorf("deploy %s reverted: %s", template.Name(), receipt.RevertReason)
	}
	if len(receipt.Outputs) == 0 || receipt.Outputs[0].ContractAddress == nil {
		return nil, fmt.Errorf("deploy %s: no contract address in receipt", template.Name())
	}

	return NewContractFromTemplate(client, template, receipt.Outputs[0].ContractAddress)
}

func waitReceipt(ctx context.Context, client *nfcclient.Client, id *nfc.Bytes32) (*types.Receipt, error) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		receipt, err := client.TransactionReceipt(id)
		if err == nil && receipt != nil {
			return receipt, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled while waiting for receipt (transaction ID: %s): %w", id, ctx.Err())
		case <-ticker.C:
		}
	}
}

// Method starts an operation on a contract method.
func (c *Contract) Method(method string, args ...any) *MethodBuilder {
	return &MethodBuilder{
		contract: c,
		method:   method,
		args:     args,
	}
}

// FilterEvent starts a log query for the named event emitted by the contract.
func (c *Contract) FilterEvent(eventName string) FilterBuilder {
	return &filterBuilder{
		contract: c,
		event:    eventName,
	}
}

func (c *Contract) Address() *nfc.Address {
	return c.addr
}

func (c *Contract) ABI() *abi.ABI {
	return c.abi
}

func (c *Contract) Client() *nfcclient.Client {
	return c.client
}
