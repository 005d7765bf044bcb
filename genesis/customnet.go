// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/state"
)

// CustomGenesis is user customized genesis, usually loaded from a yaml file:
//
//	launchTime: 1700000000
//	gasLimit: 40000000
//	extraData: my chain
//	accounts:
//	  - address: "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed"
//	    balance: "0x21e19e0c9bab2400000"
type CustomGenesis struct {
	LaunchTime uint64    `yaml:"launchTime"`
	GasLimit   uint64    `yaml:"gasLimit"`
	ExtraData  string    `yaml:"extraData"`
	Accounts   []Account `yaml:"accounts"`
}

// Account is the account will set to the genesis block
type Account struct {
	Address nfc.Address      `yaml:"address"`
	Balance *HexOrDecimal256 `yaml:"balance"`
}

// HexOrDecimal256 is a big.Int written as hex or decimal.
type HexOrDecimal256 big.Int

// UnmarshalYAML implements yaml.Unmarshaler.
func (i *HexOrDecimal256) UnmarshalYAML(value *yaml.Node) error {
	n, ok := math.ParseBig256(value.Value)
	if !ok {
		return errors.Errorf("invalid hex or decimal integer %q", value.Value)
	}
	*i = HexOrDecimal256(*n)
	return nil
}

// FromFile loads a custom genesis from a yaml file.
func FromFile(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	var gen CustomGenesis
	if err := yaml.Unmarshal(data, &gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis file")
	}
	return NewCustomNet(&gen)
}

// NewCustomNet create custom network genesis.
func NewCustomNet(gen *CustomGenesis) (*Genesis, error) {
	if gen.LaunchTime == 0 {
		return nil, errors.New("launchTime must be set")
	}
	gasLimit := gen.GasLimit
	if gasLimit == 0 {
		gasLimit = nfc.InitialGasLimit
	}
	if gasLimit < nfc.MinGasLimit {
		return nil, errors.Errorf("gasLimit must not be less than %d", nfc.MinGasLimit)
	}

	var extra [28]byte
	if gen.ExtraData != "" {
		data := []byte(gen.ExtraData)
		if decoded, err := hexutil.Decode(gen.ExtraData); err == nil {
			data = decoded
		}
		if len(data) > len(extra) {
			return nil, errors.New("extraData too long")
		}
		copy(extra[:], data)
	}

	for _, acc := range gen.Accounts {
		if acc.Balance != nil && (*big.Int)(acc.Balance).Sign() < 0 {
			return nil, errors.Errorf("negative balance for %v", acc.Address)
		}
	}

	builder := new(Builder).
		Timestamp(gen.LaunchTime).
		GasLimit(gasLimit).
		ExtraData(extra).
		State(func(state *state.State) error {
			for _, acc := range gen.Accounts {
				if acc.Balance == nil {
					continue
				}
				if err := state.SetBalance(acc.Address, new(big.Int).Set((*big.Int)(acc.Balance))); err != nil {
					return err
				}
			}
			return nil
		})
	return newGenesis(builder, "customnet")
}
