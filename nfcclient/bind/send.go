// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bind

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/0xngmi/nft-collateral/api/types"
	"github.com/0xngmi/nft-collateral/tx"
)

// SendBuilder is the interface for write operations.
type SendBuilder interface {
	// WithSigner sets the signer for the transaction.
	WithSigner(signer Signer) SendBuilder

	// WithOptions sets the transaction options.
	WithOptions(opts *TxOptions) SendBuilder

	// IssueTx sends the transaction without waiting for receipt.
	IssueTx() (*tx.Transaction, error)

	// Receipt sends the transaction and waits for the receipt.
	Receipt(ctx context.Context) (*types.Receipt, *tx.Transaction, error)
}

// TxOptions overrides default transaction parameters.
type TxOptions struct {
	Gas   *uint64
	Nonce *uint64
}

type sendBuilder struct {
	op     *MethodBuilder
	signer Signer
	opts   *TxOptions
}

func (b *sendBuilder) WithSigner(signer Signer) SendBuilder {
	b.signer = signer
	return b
}

func (b *sendBuilder) WithOptions(opts *TxOptions) SendBuilder {
	b.opts = opts
	return b
}

func (b *sendBuilder) IssueTx() (*tx.Transaction, error) {
	if b.signer == nil {
		return nil, errors.New("signer not set")
	}

	clause, err := b.op.Clause()
	if err != nil {
		return nil, err
	}

	client := b.op.contract.client
	chainTag, err := client.ChainTag()
	if err != nil {
		return nil, fmt.Errorf("failed to get chain tag: %w", err)
	}

	var opts TxOptions
	if b.opts != nil {
		opts = *b.opts
	}

	if opts.Gas == nil {
		gas, err := tx.IntrinsicGas(clause)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate intrinsic gas: %w", err)
		}
		caller := b.signer.Address()
		simulation, err := client.InspectClause(clause, &caller)
		if err != nil {
			return nil, fmt.Errorf("simulation failed: %w", err)
		}
		if err := resultError(simulation); err != nil {
			return nil, fmt.Errorf("simulation failed (%s): %w", b.op, err)
		}
		gas += simulation.GasUsed
		opts.Gas = &gas
	}
	if opts.Nonce == nil {
		nonce, err := randomNonce()
		if err != nil {
			return nil, err
		}
		opts.Nonce = &nonce
	}

	transaction := new(tx.Builder).
		Clause(clause).
		Gas(*opts.Gas).
		ChainTag(chainTag).
		Nonce(*opts.Nonce).
		Build()
	transaction, err = b.signer.SignTransaction(transaction)
	if err != nil {
		return nil, err
	}

	if _, err = client.SendTransaction(transaction); err != nil {
		return nil, err
	}
	return transaction, nil
}

func (b *sendBuilder) Receipt(ctx context.Context) (*types.Receipt, *tx.Transaction, error) {
	transaction, err := b.IssueTx()
	if err != nil {
		return nil, nil, err
	}

	id := transaction.ID()
	receipt, err := waitReceipt(ctx, b.op.contract.client, &id)
	if err != nil {
		return nil, nil, fmt.Errorf("method %s: %w", b.op.method, err)
	}
	return receipt, transaction, nil
}

func randomNonce() (uint64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return binary.BigEndian.Uint64(b[:]), nil
}
