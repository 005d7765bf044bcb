// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis_test

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xngmi/nft-collateral/genesis"
	"github.com/0xngmi/nft-collateral/lvldb"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/state"
)

func TestDevnet(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	gen := genesis.NewDevnet()
	assert.Equal(t, "devnet", gen.Name())

	stater := state.NewStater(db)
	b0, err := gen.Build(stater)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), b0.Header().Number())
	assert.Equal(t, gen.ID(), b0.Header().ID())
	assert.Equal(t, genesis.DevLaunchTime, b0.Header().Timestamp())
	assert.Equal(t, nfc.InitialGasLimit, b0.Header().GasLimit())

	accs := genesis.DevAccounts()
	require.Len(t, accs, 10)
	st := stater.NewState()
	for _, acc := range accs {
		bal, err := st.GetBalance(acc.Address)
		require.NoError(t, err)
		assert.Equal(t, nfc.InitialDevBalance, bal)
	}

	// deterministic across builds
	assert.Equal(t, gen.ID(), genesis.NewDevnet().ID())
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
launchTime: 1700000000
extraData: rug chain
accounts:
  - address: "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed"
    balance: "0x3e8"
  - address: "0xd3ae78222beadb038203be21ed5ce7c9b1bff602"
    balance: "2000"
`), 0o600))

	gen, err := genesis.FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "customnet", gen.Name())

	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	stater := state.NewStater(db)
	b0, err := gen.Build(stater)
	require.NoError(t, err)
	assert.Equal(t, nfc.InitialGasLimit, b0.Header().GasLimit())
	assert.NotEqual(t, genesis.NewDevnet().ID(), gen.ID())

	st := stater.NewState()
	bal, err := st.GetBalance(nfc.MustParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed"))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1000), bal)
	bal, err = st.GetBalance(nfc.MustParseAddress("0xd3ae78222beadb038203be21ed5ce7c9b1bff602"))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(2000), bal)
}

func TestCustomNetErrors(t *testing.T) {
	_, err := genesis.NewCustomNet(&genesis.CustomGenesis{})
	assert.EqualError(t, err, "launchTime must be set")

	_, err = genesis.NewCustomNet(&genesis.CustomGenesis{LaunchTime: 1, GasLimit: 1})
	assert.Error(t, err)

	_, err = genesis.NewCustomNet(&genesis.CustomGenesis{LaunchTime: 1, ExtraData: "this extra data is much longer than 28 bytes"})
	assert.EqualError(t, err, "extraData too long")
}
