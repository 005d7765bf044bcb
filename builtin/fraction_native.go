// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/0xngmi/nft-collateral/builtin/fraction"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/xenv"
)

func init() {
	var (
		transferEvent = mustEvent(Fraction.ABI, "Transfer")
		approvalEvent = mustEvent(Fraction.ABI, "Approval")
	)

	type transferArgs struct {
		To     common.Address
		Amount *big.Int
	}

	Fraction.register([]nativeDefine{
		{constructorName, func(env *xenv.Environment) []any {
			var args struct {
				Name   string
				Symbol string
			}
			env.ParseArgs(&args)
			check(env, Fraction.native(env).Init(args.Name, args.Symbol, env.Caller()))
			return nil
		}},
		{"name", func(env *xenv.Environment) []any {
			name, err := Fraction.native(env).Name()
			check(env, err)
			return []any{name}
		}},
		{"symbol", func(env *xenv.Environment) []any {
			symbol, err := Fraction.native(env).Symbol()
			check(env, err)
			return []any{symbol}
		}},
		{"decimals", func(env *xenv.Environment) []any {
			return []any{fraction.Decimals}
		}},
		{"totalSupply", func(env *xenv.Environment) []any {
			supply, err := Fraction.native(env).TotalSupply()
			check(env, err)
			return []any{supply}
		}},
		{"balanceOf", func(env *xenv.Environment) []any {
			var account common.Address
			env.ParseArgs(&account)
			bal, err := Fraction.native(env).BalanceOf(nfc.Address(account))
			check(env, err)
			return []any{bal}
		}},
		{"allowance", func(env *xenv.Environment) []any {
			var args struct {
				Owner   common.Address
				Spender common.Address
			}
			env.ParseArgs(&args)
			allowance, err := Fraction.native(env).Allowance(nfc.Address(args.Owner), nfc.Address(args.Spender))
			check(env, err)
			return []any{allowance}
		}},
		{"minter", func(env *xenv.Environment) []any {
			minter, err := Fraction.native(env).Minter()
			check(env, err)
			return []any{minter}
		}},
		{"transfer", func(env *xenv.Environment) []any {
			var args transferArgs
			env.ParseArgs(&args)
			check(env, Fraction.native(env).Transfer(env.Caller(), nfc.Address(args.To), args.Amount))
			env.Log(transferEvent, env.Caller(), nfc.Address(args.To), args.Amount)
			return []any{true}
		}},
		{"approve", func(env *xenv.Environment) []any {
			var args struct {
				Spender common.Address
				Amount  *big.Int
			}
			env.ParseArgs(&args)
			check(env, Fraction.native(env).Approve(env.Caller(), nfc.Address(args.Spender), args.Amount))
			env.Log(approvalEvent, env.Caller(), nfc.Address(args.Spender), args.Amount)
			return []any{true}
		}},
		{"transferFrom", func(env *xenv.Environment) []any {
			var args struct {
				From   common.Address
				To     common.Address
				Amount *big.Int
			}
			env.ParseArgs(&args)
			check(env, Fraction.native(env).TransferFrom(env.Caller(), nfc.Address(args.From), nfc.Address(args.To), args.Amount))
			env.Log(transferEvent, nfc.Address(args.From), nfc.Address(args.To), args.Amount)
			return []any{true}
		}},
		{"mint", func(env *xenv.Environment) []any {
			var args transferArgs
			env.ParseArgs(&args)
			check(env, Fraction.native(env).Mint(env.Caller(), nfc.Address(args.To), args.Amount))
			env.Log(transferEvent, nfc.Address{}, nfc.Address(args.To), args.Amount)
			return nil
		}},
		{"burn", func(env *xenv.Environment) []any {
			var args struct {
				From   common.Address
				Amount *big.Int
			}
			env.ParseArgs(&args)
			check(env, Fraction.native(env).Burn(env.Caller(), nfc.Address(args.From), args.Amount))
			env.Log(transferEvent, nfc.Address(args.From), nfc.Address{}, args.Amount)
			return nil
		}},
	})
}
