// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/0xngmi/nft-collateral/xenv"
)

func init() {
	Greeter.register([]nativeDefine{
		{constructorName, func(env *xenv.Environment) []any {
			var greeting string
			env.ParseArgs(&greeting)
			check(env, Greeter.native(env).SetGreeting(greeting))
			return nil
		}},
		{"greet", func(env *xenv.Environment) []any {
			greeting, err := Greeter.native(env).Greet()
			check(env, err)
			return []any{greeting}
		}},
		{"setGreeting", func(env *xenv.Environment) []any {
			var greeting string
			env.ParseArgs(&greeting)
			check(env, Greeter.native(env).SetGreeting(greeting))
			return nil
		}},
	})
}
