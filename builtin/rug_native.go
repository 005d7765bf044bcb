// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/0xngmi/nft-collateral/builtin/rug"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/xenv"
)

// FractionSymbol is the symbol of every fraction token deployed by Rug.
const FractionSymbol = "RUGF"

func init() {
	var (
		loanCreatedEvent = mustEvent(Rug.ABI, "LoanCreated")
		lentEvent        = mustEvent(Rug.ABI, "Lent")
		repaidEvent      = mustEvent(Rug.ABI, "Repaid")
		withdrawnEvent   = mustEvent(Rug.ABI, "Withdrawn")
		ruggedEvent      = mustEvent(Rug.ABI, "Rugged")
		claimedEvent     = mustEvent(Rug.ABI, "Claimed")
		sweptEvent       = mustEvent(Rug.ABI, "Swept")

		erc721TransferFrom  = mustMethod(MockERC721.ABI, "transferFrom")
		erc1155TransferFrom = mustMethod(MockERC1155.ABI, "safeTransferFrom")
		fractionMint        = mustMethod(Fraction.ABI, "mint")
		fractionBurn        = mustMethod(Fraction.ABI, "burn")
		fractionBalanceOf   = mustMethod(Fraction.ABI, "balanceOf")
		onReceived          = mustMethod(Rug.ABI, "onERC1155Received")
	)

	// moveNFT transfers the collateral using the interface the loan was created with.
	// The wrong interface fails as the token does not implement the method.
	moveNFT := func(env *xenv.Environment, loan *rug.Loan, from, to nfc.Address) {
		var input []byte
		if loan.IsERC721 {
			input = mustEncode(erc721TransferFrom, from, to, loan.TokenID)
		} else {
			input = mustEncode(erc1155TransferFrom, from, to, loan.TokenID, big.NewInt(1), []byte{})
		}
		env.Call(loan.NFT, new(big.Int), input)
	}

	mintFraction := func(env *xenv.Environment, token, to nfc.Address, amount *big.Int) {
		env.Call(token, new(big.Int), mustEncode(fractionMint, to, amount))
	}

	transfer := func(env *xenv.Environment, to nfc.Address, amount *big.Int) {
		if amount.Sign() > 0 {
			env.Transfer(to, amount)
		}
	}

	loanOf := func(env *xenv.Environment) (*big.Int, *rug.Loan) {
		var loanID *big.Int
		env.ParseArgs(&loanID)
		loan, err := Rug.native(env).Loan(loanID)
		check(env, err)
		return loanID, loan
	}

	Rug.register([]nativeDefine{
		{"createLoan", func(env *xenv.Environment) []any {
			var args struct {
				Nft           common.Address
				TokenId       *big.Int
				IsERC721      bool
				BorrowCeiling *big.Int
				InterestBps   *big.Int
				Deadline      *big.Int
			}
			env.ParseArgs(&args)

			loan := &rug.Loan{
				Owner:         env.Caller(),
				NFT:           nfc.Address(args.Nft),
				TokenID:       args.TokenId,
				IsERC721:      args.IsERC721,
				BorrowCeiling: args.BorrowCeiling,
				InterestBps:   args.InterestBps,
				Deadline:      args.Deadline,
			}
			loanID, err := Rug.native(env).CreateLoan(loan, env.Now())
			check(env, err)

			moveNFT(env, loan, env.Caller(), env.To())
			env.Log(loanCreatedEvent, loanID, loan.Owner, loan.NFT, loan.TokenID, loan.IsERC721,
				loan.BorrowCeiling, loan.InterestBps, loan.Deadline)
			return []any{loanID}
		}},
		{"lend", func(env *xenv.Environment) []any {
			var loanID *big.Int
			env.ParseArgs(&loanID)
			loan, err := Rug.native(env).Lend(loanID, env.Caller(), env.Value(), env.Now())
			check(env, err)

			transfer(env, loan.Owner, env.Value())
			env.Log(lentEvent, loanID, env.Caller(), env.Value())
			return nil
		}},
		{"repayAmount", func(env *xenv.Environment) []any {
			_, loan := loanOf(env)
			return []any{loan.RepayAmount()}
		}},
		{"repay", func(env *xenv.Environment) []any {
			var loanID *big.Int
			env.ParseArgs(&loanID)
			loan, excess, err := Rug.native(env).Repay(loanID, env.Caller(), env.Value())
			check(env, err)

			transfer(env, env.Caller(), excess)
			moveNFT(env, loan, env.To(), loan.Owner)
			env.Log(repaidEvent, loanID, loan.Repaid)
			return nil
		}},
		{"withdraw", func(env *xenv.Environment) []any {
			var loanID *big.Int
			env.ParseArgs(&loanID)
			amount, err := Rug.native(env).Withdraw(loanID, env.Caller())
			check(env, err)

			transfer(env, env.Caller(), amount)
			env.Log(withdrawnEvent, loanID, env.Caller(), amount)
			return nil
		}},
		{"rug", func(env *xenv.Environment) []any {
			var loanID *big.Int
			env.ParseArgs(&loanID)
			_, err := Rug.native(env).Ruggable(loanID, env.Now())
			check(env, err)

			token := env.Create(new(big.Int), Fraction.MustDeployData(fmt.Sprintf("Rug Fraction #%v", loanID), FractionSymbol))
			loan, err := Rug.native(env).Rug(loanID, env.Now(), token)
			check(env, err)

			share := loan.OwnerShare()
			if share.Sign() > 0 {
				mintFraction(env, token, loan.Owner, share)
			}
			env.Log(ruggedEvent, loanID, token, loan.ExpectedSupply(), share)
			return []any{token}
		}},
		{"claim", func(env *xenv.Environment) []any {
			var loanID *big.Int
			env.ParseArgs(&loanID)
			loan, amount, err := Rug.native(env).Claim(loanID, env.Caller())
			check(env, err)

			mintFraction(env, loan.Fraction, env.Caller(), amount)
			env.Log(claimedEvent, loanID, env.Caller(), amount)
			return nil
		}},
		{"sweep", func(env *xenv.Environment) []any {
			var loanID *big.Int
			env.ParseArgs(&loanID)
			loan, err := Rug.native(env).Sweep(loanID)
			check(env, err)

			output := env.Call(loan.Fraction, new(big.Int), mustEncode(fractionBalanceOf, env.Caller()))
			var held *big.Int
			if err := fractionBalanceOf.DecodeOutput(output, &held); err != nil {
				panic(err)
			}
			env.Require(held.Cmp(loan.ExpectedSupply()) == 0, "caller must hold the whole supply")

			env.Call(loan.Fraction, new(big.Int), mustEncode(fractionBurn, env.Caller(), held))
			moveNFT(env, loan, env.To(), env.Caller())
			env.Log(sweptEvent, loanID, env.Caller())
			return nil
		}},
		{"loanCount", func(env *xenv.Environment) []any {
			count, err := Rug.native(env).LoanCount()
			check(env, err)
			return []any{count}
		}},
		{"getLoan", func(env *xenv.Environment) []any {
			_, loan := loanOf(env)
			return []any{
				loan.Owner, loan.NFT, loan.TokenID, loan.IsERC721,
				loan.BorrowCeiling, loan.InterestBps, loan.Deadline,
				loan.TotalBorrowed, uint8(loan.Status), loan.Fraction, loan.Repaid,
			}
		}},
		{"lentBy", func(env *xenv.Environment) []any {
			var args struct {
				LoanId *big.Int
				Lender common.Address
			}
			env.ParseArgs(&args)
			lent, err := Rug.native(env).LentBy(args.LoanId, nfc.Address(args.Lender))
			check(env, err)
			return []any{lent}
		}},
		{"fractionToken", func(env *xenv.Environment) []any {
			_, loan := loanOf(env)
			return []any{loan.Fraction}
		}},
		{"expectedSupply", func(env *xenv.Environment) []any {
			_, loan := loanOf(env)
			return []any{loan.ExpectedSupply()}
		}},
		{"onERC1155Received", func(env *xenv.Environment) []any {
			return []any{[4]byte(onReceived.ID())}
		}},
	})
}
