// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/xenv"
)

func init() {
	var (
		transferEvent       = mustEvent(MockERC721.ABI, "Transfer")
		approvalEvent       = mustEvent(MockERC721.ABI, "Approval")
		approvalForAllEvent = mustEvent(MockERC721.ABI, "ApprovalForAll")
	)

	MockERC721.register([]nativeDefine{
		{constructorName, func(env *xenv.Environment) []any {
			var args struct {
				Name   string
				Symbol string
			}
			env.ParseArgs(&args)
			check(env, MockERC721.native(env).Init(args.Name, args.Symbol))
			return nil
		}},
		{"name", func(env *xenv.Environment) []any {
			name, err := MockERC721.native(env).Name()
			check(env, err)
			return []any{name}
		}},
		{"symbol", func(env *xenv.Environment) []any {
			symbol, err := MockERC721.native(env).Symbol()
			check(env, err)
			return []any{symbol}
		}},
		{"mint", func(env *xenv.Environment) []any {
			var args struct {
				To      common.Address
				TokenId *big.Int
			}
			env.ParseArgs(&args)
			check(env, MockERC721.native(env).Mint(nfc.Address(args.To), args.TokenId))
			env.Log(transferEvent, nfc.Address{}, nfc.Address(args.To), args.TokenId)
			return nil
		}},
		{"ownerOf", func(env *xenv.Environment) []any {
			var tokenID *big.Int
			env.ParseArgs(&tokenID)
			owner, err := MockERC721.native(env).OwnerOf(tokenID)
			check(env, err)
			return []any{owner}
		}},
		{"balanceOf", func(env *xenv.Environment) []any {
			var owner common.Address
			env.ParseArgs(&owner)
			bal, err := MockERC721.native(env).BalanceOf(nfc.Address(owner))
			check(env, err)
			return []any{bal}
		}},
		{"approve", func(env *xenv.Environment) []any {
			var args struct {
				To      common.Address
				TokenId *big.Int
			}
			env.ParseArgs(&args)
			owner, err := MockERC721.native(env).Approve(env.Caller(), nfc.Address(args.To), args.TokenId)
			check(env, err)
			env.Log(approvalEvent, owner, nfc.Address(args.To), args.TokenId)
			return nil
		}},
		{"getApproved", func(env *xenv.Environment) []any {
			var tokenID *big.Int
			env.ParseArgs(&tokenID)
			approved, err := MockERC721.native(env).GetApproved(tokenID)
			check(env, err)
			return []any{approved}
		}},
		{"setApprovalForAll", func(env *xenv.Environment) []any {
			var args struct {
				Operator common.Address
				Approved bool
			}
			env.ParseArgs(&args)
			check(env, MockERC721.native(env).SetApprovalForAll(env.Caller(), nfc.Address(args.Operator), args.Approved))
			env.Log(approvalForAllEvent, env.Caller(), nfc.Address(args.Operator), args.Approved)
			return nil
		}},
		{"isApprovedForAll", func(env *xenv.Environment) []any {
			var args struct {
				Owner    common.Address
				Operator common.Address
			}
			env.ParseArgs(&args)
			ok, err := MockERC721.native(env).IsApprovedForAll(nfc.Address(args.Owner), nfc.Address(args.Operator))
			check(env, err)
			return []any{ok}
		}},
		{"transferFrom", func(env *xenv.Environment) []any {
			var args struct {
				From    common.Address
				To      common.Address
				TokenId *big.Int
			}
			env.ParseArgs(&args)
			check(env, MockERC721.native(env).TransferFrom(env.Caller(), nfc.Address(args.From), nfc.Address(args.To), args.TokenId))
			env.Log(transferEvent, nfc.Address(args.From), nfc.Address(args.To), args.TokenId)
			return nil
		}},
	})
}
