// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package rug implements lending against NFT collateral.
//
// An owner locks an NFT and lenders send value that is forwarded to the owner.
// Before the deadline the owner may repay with interest and lenders withdraw
// pro rata. After the deadline anyone may rug the loan: the NFT stays in the
// contract and a fraction token is issued to lenders, plus the unborrowed part
// of the ceiling to the owner. Whoever gathers the whole supply can sweep the NFT.
package rug

import (
	"math/big"

	"github.com/0xngmi/nft-collateral/builtin/reverts"
	"github.com/0xngmi/nft-collateral/builtin/solidity"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/state"
)

var (
	loanCountSlot     = solidity.Slot("loanCount")
	loansSlot         = solidity.Slot("loans")
	contributionsSlot = solidity.Slot("contributions")
)

// Rug implements native methods of `Rug` contract.
type Rug struct {
	loanCount     *solidity.Uint256
	loans         *solidity.Mapping[nfc.Bytes32, *Loan]
	contributions *solidity.Mapping[nfc.Bytes32, *big.Int]
}

// New create a new instance.
func New(addr nfc.Address, state *state.State, charger solidity.UseGasFunc) *Rug {
	ctx := solidity.NewContext(addr, state, charger)
	return &Rug{
		loanCount:     solidity.NewUint256(ctx, loanCountSlot),
		loans:         solidity.NewMapping[nfc.Bytes32, *Loan](ctx, loansSlot),
		contributions: solidity.NewMapping[nfc.Bytes32, *big.Int](ctx, contributionsSlot),
	}
}

func contributionKey(loanID *big.Int, lender nfc.Address) nfc.Bytes32 {
	return solidity.PairKey(solidity.BigKey(loanID), lender)
}

// LoanCount returns the number of loans created, ids count from 0.
func (r *Rug) LoanCount() (*big.Int, error) {
	return r.loanCount.Get()
}

// Loan returns the loan with the given id.
func (r *Rug) Loan(loanID *big.Int) (*Loan, error) {
	count, err := r.loanCount.Get()
	if err != nil {
		return nil, err
	}
	if loanID.Cmp(count) >= 0 {
		return nil, reverts.NewRequireError("loan does not exist")
	}
	return r.loans.Get(solidity.BigKey(loanID))
}

func (r *Rug) setLoan(loanID *big.Int, loan *Loan) error {
	return r.loans.Set(solidity.BigKey(loanID), loan)
}

// LentBy returns the outstanding contribution of lender.
func (r *Rug) LentBy(loanID *big.Int, lender nfc.Address) (*big.Int, error) {
	if _, err := r.Loan(loanID); err != nil {
		return nil, err
	}
	return r.contributions.Get(contributionKey(loanID, lender))
}

// CreateLoan records a new active loan and returns its id.
// Taking custody of the NFT is up to the caller.
func (r *Rug) CreateLoan(loan *Loan, now uint64) (*big.Int, error) {
	if loan.BorrowCeiling.Sign() <= 0 {
		return nil, reverts.NewRequireError("borrowCeiling must be positive")
	}
	if loan.Deadline.Cmp(new(big.Int).SetUint64(now)) <= 0 {
		return nil, reverts.NewRequireError("deadline must be in the future")
	}
	if loan.InterestBps.Cmp(BasisPoints) > 0 {
		return nil, reverts.NewRequireError("interest too high")
	}

	loanID, err := r.loanCount.Get()
	if err != nil {
		return nil, err
	}
	stored := *loan
	stored.TotalBorrowed = new(big.Int)
	stored.Repaid = new(big.Int)
	stored.Status = StatusActive
	stored.Fraction = nfc.Address{}
	if err := r.setLoan(loanID, &stored); err != nil {
		return nil, err
	}
	if err := r.loanCount.Set(new(big.Int).Add(loanID, big.NewInt(1))); err != nil {
		return nil, err
	}
	return loanID, nil
}

// Lend records amount contributed by lender. Lending past the ceiling is allowed.
// The returned loan tells whom to forward the value to.
func (r *Rug) Lend(loanID *big.Int, lender nfc.Address, amount *big.Int, now uint64) (*Loan, error) {
	loan, err := r.Loan(loanID)
	if err != nil {
		return nil, err
	}
	if loan.Status != StatusActive {
		return nil, reverts.NewRequireError("loan is not active")
	}
	if loan.Deadline.Cmp(new(big.Int).SetUint64(now)) <= 0 {
		return nil, reverts.NewRequireError("loan deadline passed")
	}
	if amount.Sign() <= 0 {
		return nil, reverts.NewRequireError("nothing lent")
	}

	key := contributionKey(loanID, lender)
	lent, err := r.contributions.Get(key)
	if err != nil {
		return nil, err
	}
	if err := r.contributions.Set(key, lent.Add(lent, amount)); err != nil {
		return nil, err
	}
	loan.TotalBorrowed.Add(loan.TotalBorrowed, amount)
	return loan, r.setLoan(loanID, loan)
}

// Repay closes an active loan paid back by its owner. It returns the loan and
// the part of value exceeding the repay amount, to be refunded.
func (r *Rug) Repay(loanID *big.Int, caller nfc.Address, value *big.Int) (*Loan, *big.Int, error) {
	loan, err := r.Loan(loanID)
	if err != nil {
		return nil, nil, err
	}
	if loan.Status != StatusActive {
		return nil, nil, reverts.NewRequireError("loan is not active")
	}
	if loan.Owner != caller {
		return nil, nil, reverts.NewRequireError("only owner can repay")
	}
	due := loan.RepayAmount()
	if value.Cmp(due) < 0 {
		return nil, nil, reverts.NewRequireError("repay amount too low")
	}

	loan.Status = StatusRepaid
	loan.Repaid = due
	if err := r.setLoan(loanID, loan); err != nil {
		return nil, nil, err
	}
	return loan, new(big.Int).Sub(value, due), nil
}

// Withdraw settles the share of a repaid loan owed to lender.
func (r *Rug) Withdraw(loanID *big.Int, lender nfc.Address) (*big.Int, error) {
	loan, err := r.Loan(loanID)
	if err != nil {
		return nil, err
	}
	if loan.Status != StatusRepaid {
		return nil, reverts.NewRequireError("loan is not repaid")
	}
	lent, err := r.takeContribution(loanID, lender)
	if err != nil {
		return nil, err
	}
	amount := new(big.Int).Mul(lent, loan.Repaid)
	return amount.Quo(amount, loan.TotalBorrowed), nil
}

// Rug marks an active loan past its deadline as rugged, with token as its fraction token.
func (r *Rug) Rug(loanID *big.Int, now uint64, token nfc.Address) (*Loan, error) {
	loan, err := r.Ruggable(loanID, now)
	if err != nil {
		return nil, err
	}
	loan.Status = StatusRugged
	loan.Fraction = token
	return loan, r.setLoan(loanID, loan)
}

// Ruggable returns the loan if it can be rugged at now.
func (r *Rug) Ruggable(loanID *big.Int, now uint64) (*Loan, error) {
	loan, err := r.Loan(loanID)
	if err != nil {
		return nil, err
	}
	if loan.Status != StatusActive {
		return nil, reverts.NewRequireError("loan is not active")
	}
	if loan.Deadline.Cmp(new(big.Int).SetUint64(now)) > 0 {
		return nil, reverts.NewRequireError("loan deadline not reached")
	}
	return loan, nil
}

// Claim settles the fraction tokens owed to lender of a rugged loan.
func (r *Rug) Claim(loanID *big.Int, lender nfc.Address) (*Loan, *big.Int, error) {
	loan, err := r.Loan(loanID)
	if err != nil {
		return nil, nil, err
	}
	if loan.Status != StatusRugged {
		return nil, nil, reverts.NewRequireError("loan is not rugged")
	}
	lent, err := r.takeContribution(loanID, lender)
	if err != nil {
		return nil, nil, err
	}
	return loan, lent, nil
}

// Sweep marks a rugged loan as swept. Checking the holdings of the sweeper is up to the caller.
func (r *Rug) Sweep(loanID *big.Int) (*Loan, error) {
	loan, err := r.Loan(loanID)
	if err != nil {
		return nil, err
	}
	if loan.Status != StatusRugged {
		return nil, reverts.NewRequireError("loan is not rugged")
	}
	loan.Status = StatusSwept
	return loan, r.setLoan(loanID, loan)
}

func (r *Rug) takeContribution(loanID *big.Int, lender nfc.Address) (*big.Int, error) {
	key := contributionKey(loanID, lender)
	lent, err := r.contributions.Get(key)
	if err != nil {
		return nil, err
	}
	if lent.Sign() == 0 {
		return nil, reverts.NewRequireError("nothing to settle")
	}
	r.contributions.Delete(key)
	return lent, nil
}
