// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rug

import (
	"math/big"

	"github.com/0xngmi/nft-collateral/nfc"
)

// Status of a loan.
type Status uint8

const (
	StatusActive Status = iota
	StatusRepaid
	StatusRugged
	StatusSwept
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusRepaid:
		return "repaid"
	case StatusRugged:
		return "rugged"
	case StatusSwept:
		return "swept"
	default:
		return "unknown"
	}
}

// BasisPoints is the denominator of InterestBps.
var BasisPoints = big.NewInt(10000)

// Loan is an NFT locked in the contract against which lenders contribute value.
type Loan struct {
	Owner         nfc.Address
	NFT           nfc.Address
	TokenID       *big.Int
	IsERC721      bool
	BorrowCeiling *big.Int
	InterestBps   *big.Int
	Deadline      *big.Int
	TotalBorrowed *big.Int
	Status        Status
	Fraction      nfc.Address
	Repaid        *big.Int
}

// RepayAmount is what the owner must pay back: the borrowed total plus interest.
func (l *Loan) RepayAmount() *big.Int {
	interest := new(big.Int).Mul(l.TotalBorrowed, l.InterestBps)
	interest.Quo(interest, BasisPoints)
	return interest.Add(interest, l.TotalBorrowed)
}

// ExpectedSupply is the fraction token supply once every lender has claimed.
// Borrowing past the ceiling grows the supply. Otherwise the owner keeps the unborrowed part of the ceiling.
func (l *Loan) ExpectedSupply() *big.Int {
	if l.TotalBorrowed.Cmp(l.BorrowCeiling) > 0 {
		return new(big.Int).Set(l.TotalBorrowed)
	}
	return new(big.Int).Set(l.BorrowCeiling)
}

// OwnerShare is the amount of fraction tokens the previous owner receives on rug.
func (l *Loan) OwnerShare() *big.Int {
	if l.TotalBorrowed.Cmp(l.BorrowCeiling) >= 0 {
		return new(big.Int)
	}
	return new(big.Int).Sub(l.BorrowCeiling, l.TotalBorrowed)
}
