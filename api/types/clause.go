// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package types holds the JSON shapes exchanged by the REST API and its client.
package types

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/tx"
)

// Clause for json marshal
type Clause struct {
	To    *nfc.Address          `json:"to"`
	Value *math.HexOrDecimal256 `json:"value"`
	Data  string                `json:"data"`
}

// Clauses array of clauses.
type Clauses []Clause

// ConvertClause convert a raw clause into a json format clause
func ConvertClause(c *tx.Clause) Clause {
	v := math.HexOrDecimal256(*c.Value())
	return Clause{
		To:    c.To(),
		Value: &v,
		Data:  hexutil.Encode(c.Data()),
	}
}

// ToClause converts back to a tx clause.
func (c *Clause) ToClause() (*tx.Clause, error) {
	clause := tx.NewClause(c.To)
	if c.Value != nil {
		clause = clause.WithValue((*big.Int)(c.Value))
	}
	if c.Data != "" {
		data, err := hexutil.Decode(c.Data)
		if err != nil {
			return nil, err
		}
		clause = clause.WithData(data)
	}
	return clause, nil
}

func (c *Clause) String() string {
	return fmt.Sprintf(`Clause(
		To    %v
		Value %v
		Data  %v
		)`, c.To,
		c.Value,
		c.Data)
}
