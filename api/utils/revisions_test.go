// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/test/testchain"
)

func TestParseRevision(t *testing.T) {
	id := nfc.MustParseBytes32("0x00000001c458949985a6d86b7139690b8811dd3b4647c02d4f41cdefb7d32327")
	testCases := []struct {
		revision string
		wantErr  bool
		expected *Revision
	}{
		{revision: "", expected: &Revision{revBest}},
		{revision: "best", expected: &Revision{revBest}},
		{revision: "1234", expected: &Revision{uint32(1234)}},
		{revision: "0x10", expected: &Revision{uint32(16)}},
		{revision: id.String(), expected: &Revision{id}},
		{revision: "4294967296", wantErr: true},
		{revision: "finalized", wantErr: true},
		{revision: "0xzz00000000000000000000000000000000000000000000000000000000000000", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.revision, func(t *testing.T) {
			rev, err := ParseRevision(tc.revision)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, rev)
		})
	}
}

func TestGetBlock(t *testing.T) {
	chain, err := testchain.NewDefault()
	require.NoError(t, err)
	defer chain.Close()
	require.NoError(t, chain.MintBlock())

	best := chain.BestBlock()
	genesis := chain.GenesisBlock()

	blk, err := GetBlock(&Revision{revBest}, chain.Repo())
	require.NoError(t, err)
	assert.Equal(t, best.Header().ID(), blk.Header().ID())

	blk, err = GetBlock(&Revision{uint32(0)}, chain.Repo())
	require.NoError(t, err)
	assert.Equal(t, genesis.Header().ID(), blk.Header().ID())

	blk, err = GetBlock(&Revision{best.Header().ID()}, chain.Repo())
	require.NoError(t, err)
	assert.Equal(t, best.Header().ID(), blk.Header().ID())

	_, err = GetBlock(&Revision{uint32(10)}, chain.Repo())
	assert.True(t, chain.Repo().IsNotFound(err))
}

func TestWrapHandlerFunc(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
	}{
		{"ok", nil, http.StatusOK},
		{"bad request", BadRequest(errors.New("bad")), http.StatusBadRequest},
		{"forbidden", Forbidden(errors.New("no")), http.StatusForbidden},
		{"not found", NotFound(errors.New("none")), http.StatusNotFound},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := WrapHandlerFunc(func(w http.ResponseWriter, _ *http.Request) error {
				return tc.err
			})
			rec := httptest.NewRecorder()
			handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tc.status, rec.Code)
			if tc.err != nil {
				assert.Equal(t, tc.status, StatusOf(tc.err))
			}
		})
	}
}
