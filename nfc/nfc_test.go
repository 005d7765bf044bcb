// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>
package nfc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"0x7567d83b7b8d80addcb281a71d54fc7b3364ffed", false},
		{"7567d83b7b8d80addcb281a71d54fc7b3364ffed", false},
		{"0X7567d83b7b8d80addcb281a71d54fc7b3364ffed", false},
		{"1x7567d83b7b8d80addcb281a71d54fc7b3364ffed", true},
		{"0x7567d83b7b8d80addcb281a71d54fc7b3364ff", true},
		{"0x7567d83b7b8d80addcb281a71d54fc7b3364ffzz", true},
	}
	for _, tt := range tests {
		addr, err := ParseAddress(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		assert.NoError(t, err, tt.in)
		assert.Equal(t, "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed", addr.String())
	}
}

func TestAddressJSON(t *testing.T) {
	type holder struct {
		Addr  Address
		Ptr   *Address
		Empty *Address
	}
	addr := BytesToAddress([]byte("owner"))
	data, err := json.Marshal(holder{Addr: addr, Ptr: &addr})
	require.NoError(t, err)
	assert.Equal(t, `{"Addr":"0x0000000000000000000000000000006f776e6572","Ptr":"0x0000000000000000000000000000006f776e6572","Empty":null}`, string(data))

	var decoded holder
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, addr, decoded.Addr)
	assert.Equal(t, addr, *decoded.Ptr)
	assert.Nil(t, decoded.Empty)
}

func TestBytes32JSON(t *testing.T) {
	originalHex := `"0x00000000000000000000000000000000000000000000000000006d6173746572"`

	var b Bytes32
	require.NoError(t, json.Unmarshal([]byte(originalHex), &b))
	assert.Equal(t, BytesToBytes32([]byte("master")), b)

	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, originalHex, string(data))

	assert.Error(t, json.Unmarshal([]byte(`"0x1234"`), &b))
	assert.Equal(t, "0x00000000…73746572", b.AbbrevString())
	assert.Error(t, json.Unmarshal([]byte(`"00000000000000000000000000000000000000000000000000006d6173746572"`), &b), "json needs the prefix")

	// usable as a map key
	data, err = json.Marshal(map[Bytes32]int{b: 1})
	require.NoError(t, err)
	assert.Equal(t, `{`+originalHex+`:1}`, string(data))
}

func TestParseBytes32(t *testing.T) {
	want := BytesToBytes32([]byte("master"))
	for _, s := range []string{
		"0x00000000000000000000000000000000000000000000000000006d6173746572",
		"00000000000000000000000000000000000000000000000000006d6173746572",
		"0X00000000000000000000000000000000000000000000000000006D6173746572",
	} {
		got, err := ParseBytes32(s)
		require.NoError(t, err, s)
		assert.Equal(t, want, got)
	}
	for _, s := range []string{"", "0x", "0x1234", "best", "0xzz000000000000000000000000000000000000000000000000006d6173746572"} {
		_, err := ParseBytes32(s)
		assert.Error(t, err, s)
	}
	assert.Panics(t, func() { MustParseBytes32("0x01") })
}

func TestHashes(t *testing.T) {
	// keccak256 of empty input
	assert.Equal(t,
		MustParseBytes32("0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"),
		Keccak256())
	assert.Equal(t, Keccak256([]byte("ab")), Keccak256([]byte("a"), []byte("b")))
	assert.Equal(t, Blake2b([]byte("ab")), Blake2b([]byte("a"), []byte("b")))
	assert.NotEqual(t, Blake2b([]byte("ab")), Keccak256([]byte("ab")))

	// pooled states are reset between uses
	first := Blake2b([]byte("a"), []byte("b"))
	for range 4 {
		assert.Equal(t, first, Blake2b([]byte("a"), []byte("b")))
		assert.Equal(t, Keccak256([]byte("ab")), Keccak256([]byte("a"), []byte("b")))
	}
	assert.Equal(t,
		MustParseBytes32("0x0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8"),
		Blake2b())
}

func TestCreateContractAddress(t *testing.T) {
	txID := Blake2b([]byte("tx"))
	a0 := CreateContractAddress(txID, 0, 0)
	a1 := CreateContractAddress(txID, 0, 1)
	b0 := CreateContractAddress(txID, 1, 0)

	assert.NotEqual(t, a0, a1)
	assert.NotEqual(t, a0, b0)
	assert.Equal(t, a0, CreateContractAddress(txID, 0, 0))
	assert.False(t, a0.IsZero())
}
