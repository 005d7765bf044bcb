// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/state"
)

// DevAccount account for development.
type DevAccount struct {
	Address    nfc.Address
	PrivateKey *ecdsa.PrivateKey
}

// DevAccounts returns pre-alloced accounts for solo mode.
var DevAccounts = sync.OnceValue(func() []DevAccount {
	privKeys := []string{
		"99f0500549792796c14fed62011a51081dc5b5e68fe8bd8a13b86be829c4fd36",
		"7b067f53d350f1cf20ec13df416b7b73e88a1dc7331bc904b92108b1e76a08b1",
		"f4a1a17039216f535d42ec23732c79943ffb45a089fbb78a14daad0dae93e991",
		"35b5cc144faca7d7f220fca7ad3420090861d5231d80eb23e1013426847371c4",
		"10c851d8d6c6ed9e6f625742063f292f4cf57c2dbeea8099fa3aca53ef90aef1",
		"2dd2c5b5d65913214783a6bd5679d8c6ef29ca9f2e2eae98b4add061d0b85ea0",
		"e1b72a1761ae189c10ec3783dd124b902ffd8c6b93cd9ff443d5490ce70047ff",
		"35cbc5ac0c3a2de0eb4f230ced958fd6a6c19ed36b5d2b1803a9f11978f96072",
		"b639c258292096306d2f60bc1a8da9bc434ad37f15cd44ee9a2526685f592220",
		"9d68178cdc934178cca0a0051f40ed46be153cf23cb1805b59cc612c0ad2bbe0",
	}
	accs := make([]DevAccount, 0, len(privKeys))
	for _, str := range privKeys {
		pk, err := crypto.HexToECDSA(str)
		if err != nil {
			panic(err)
		}
		accs = append(accs, DevAccount{nfc.Address(crypto.PubkeyToAddress(pk.PublicKey)), pk})
	}
	return accs
})

// DevLaunchTime is the genesis timestamp of devnet.
const DevLaunchTime = uint64(1700000000)

// NewDevnet create genesis for solo mode, funding every dev account.
func NewDevnet() *Genesis {
	builder := new(Builder).
		GasLimit(nfc.InitialGasLimit).
		Timestamp(DevLaunchTime).
		State(func(state *state.State) error {
			for _, a := range DevAccounts() {
				if err := state.SetBalance(a.Address, new(big.Int).Set(nfc.InitialDevBalance)); err != nil {
					return err
				}
			}
			return nil
		})

	gen, err := newGenesis(builder, "devnet")
	if err != nil {
		panic(err)
	}
	return gen
}
