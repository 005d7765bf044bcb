// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"bytes"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/xenv"
)

func init() {
	var (
		transferSingleEvent = mustEvent(MockERC1155.ABI, "TransferSingle")
		approvalForAllEvent = mustEvent(MockERC1155.ABI, "ApprovalForAll")
		onReceived          = mustMethod(Rug.ABI, "onERC1155Received")
	)

	MockERC1155.register([]nativeDefine{
		{"mint", func(env *xenv.Environment) []any {
			var args struct {
				To     common.Address
				Id     *big.Int
				Amount *big.Int
			}
			env.ParseArgs(&args)
			check(env, MockERC1155.native(env).Mint(nfc.Address(args.To), args.Id, args.Amount))
			env.Log(transferSingleEvent, env.Caller(), nfc.Address{}, nfc.Address(args.To), args.Id, args.Amount)
			return nil
		}},
		{"balanceOf", func(env *xenv.Environment) []any {
			var args struct {
				Account common.Address
				Id      *big.Int
			}
			env.ParseArgs(&args)
			bal, err := MockERC1155.native(env).BalanceOf(nfc.Address(args.Account), args.Id)
			check(env, err)
			return []any{bal}
		}},
		{"setApprovalForAll", func(env *xenv.Environment) []any {
			var args struct {
				Operator common.Address
				Approved bool
			}
			env.ParseArgs(&args)
			check(env, MockERC1155.native(env).SetApprovalForAll(env.Caller(), nfc.Address(args.Operator), args.Approved))
			env.Log(approvalForAllEvent, env.Caller(), nfc.Address(args.Operator), args.Approved)
			return nil
		}},
		{"isApprovedForAll", func(env *xenv.Environment) []any {
			var args struct {
				Account  common.Address
				Operator common.Address
			}
			env.ParseArgs(&args)
			ok, err := MockERC1155.native(env).IsApprovedForAll(nfc.Address(args.Account), nfc.Address(args.Operator))
			check(env, err)
			return []any{ok}
		}},
		{"safeTransferFrom", func(env *xenv.Environment) []any {
			var args struct {
				From   common.Address
				To     common.Address
				Id     *big.Int
				Amount *big.Int
				Data   []byte
			}
			env.ParseArgs(&args)
			from, to := nfc.Address(args.From), nfc.Address(args.To)
			check(env, MockERC1155.native(env).SafeTransferFrom(env.Caller(), from, to, args.Id, args.Amount))
			env.Log(transferSingleEvent, env.Caller(), from, to, args.Id, args.Amount)

			// contract receivers must acknowledge the transfer
			code, err := env.State().GetCode(to)
			check(env, err)
			if len(code) > 0 {
				output := env.Call(to, new(big.Int), mustEncode(onReceived, env.Caller(), from, args.Id, args.Amount, args.Data))
				id := onReceived.ID()
				env.Require(len(output) >= 4 && bytes.Equal(output[:4], id[:]),
					"ERC1155: ERC1155Receiver rejected tokens")
			}
			return nil
		}},
	})
}
