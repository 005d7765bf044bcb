// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bind

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/0xngmi/nft-collateral/abi"
	"github.com/0xngmi/nft-collateral/api/types"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/nfcclient"
)

// CallBuilder is the interface for read operations.
type CallBuilder interface {
	// AtRevision sets the revision for the call.
	AtRevision(rev string) CallBuilder

	// Into decodes the result into the provided value.
	Into(result any) error

	// Execute performs the call and returns the raw result.
	Execute() (*types.CallResult, error)

	// Simulate performs the call with the specified caller.
	Simulate(caller *nfc.Address) (*types.CallResult, error)
}

type callBuilder struct {
	op  *MethodBuilder
	rev string
}

func (b *callBuilder) AtRevision(rev string) CallBuilder {
	b.rev = rev
	return b
}

func (b *callBuilder) Into(result any) error {
	method, err := b.op.abiMethod()
	if err != nil {
		return err
	}

	res, err := b.Execute()
	if err != nil {
		return err
	}

	data, err := hexutil.Decode(res.Data)
	if err != nil {
		return err
	}
	return method.DecodeOutput(data, result)
}

func (b *callBuilder) Execute() (*types.CallResult, error) {
	return b.Simulate(nil)
}

func (b *callBuilder) Simulate(caller *nfc.Address) (*types.CallResult, error) {
	clause, err := b.op.Clause()
	if err != nil {
		return nil, err
	}

	var opts []nfcclient.Option
	if b.rev != "" {
		opts = append(opts, nfcclient.Revision(b.rev))
	}
	res, err := b.op.contract.client.InspectClause(clause, caller, opts...)
	if err != nil {
		return nil, err
	}
	if err := resultError(res); err != nil {
		return nil, err
	}
	return res, nil
}

func resultError(res *types.CallResult) error {
	if res.Reverted {
		message := "contract call reverted"
		if res.Data != "" && res.Data != "0x" {
			decoded, err := hexutil.Decode(res.Data)
			if err != nil {
				return fmt.Errorf("failed to decode revert data: %w", err)
			}
			if reason, err := abi.UnpackRevert(decoded); err == nil {
				message = fmt.Sprintf("contract call reverted: %s", reason)
			}
		}
		if res.VMError != "" {
			message = fmt.Sprintf("%s (%s)", message, res.VMError)
		}
		return errors.New(message)
	}
	if res.VMError != "" {
		return fmt.Errorf("VM error: %s", res.VMError)
	}
	return nil
}
