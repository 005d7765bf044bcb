// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package wsclient

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xngmi/nft-collateral/api/types"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/nfcclient/common"
)

func TestNewClient(t *testing.T) {
	for url, expected := range map[string]*Client{
		"http://localhost:8669/": {host: "localhost:8669", scheme: "ws"},
		"ws://localhost:8669":    {host: "localhost:8669", scheme: "ws"},
		"https://example.com":    {host: "example.com", scheme: "wss"},
		"wss://example.com":      {host: "example.com", scheme: "wss"},
	} {
		client, err := NewClient(url)
		require.NoError(t, err, url)
		assert.Equal(t, expected, client, url)
	}

	_, err := NewClient("localhost:8669")
	assert.Error(t, err)
}

func TestClient_SubscribeBlocks(t *testing.T) {
	position := nfc.Bytes32{0x01}
	expectedBlock := &types.Block{Number: 2, ID: nfc.Bytes32{0x02}, ParentID: position}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subscriptions/block", r.URL.Path)
		assert.Equal(t, "pos="+position.String(), r.URL.RawQuery)

		upgrader := websocket.Upgrader{}

		conn, _ := upgrader.Upgrade(w, r, nil)
		defer conn.Close()

		conn.WriteJSON(expectedBlock)
	}))
	defer ts.Close()

	client, err := NewClient(ts.URL)
	require.NoError(t, err)
	sub, err := client.SubscribeBlocks(position.String())
	require.NoError(t, err)
	defer sub.Close()

	ev := <-sub.C()
	require.NoError(t, ev.Error)
	assert.Equal(t, expectedBlock, ev.Data)

	// the server hung up
	ev = <-sub.C()
	assert.ErrorIs(t, ev.Error, common.ErrUnexpectedMsg)
	_, ok := <-sub.C()
	assert.False(t, ok)
}

func TestClient_SubscriptionClose(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		conn, _ := upgrader.Upgrade(w, r, nil)
		defer conn.Close()
		<-release
	}))
	defer ts.Close()
	defer close(release)

	client, err := NewClient(ts.URL)
	require.NoError(t, err)
	sub, err := client.SubscribeBlocks("")
	require.NoError(t, err)

	require.NoError(t, sub.Close())
	assert.NoError(t, sub.Close())

	select {
	case _, ok := <-sub.C():
		if ok {
			// a pending read error may still be delivered before the channel closes
			_, ok = <-sub.C()
		}
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("subscription not closed")
	}
}

func TestClient_SubscribeBlocksRefused(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "pos: not found", http.StatusBadRequest)
	}))
	defer ts.Close()

	client, err := NewClient(ts.URL)
	require.NoError(t, err)
	_, err = client.SubscribeBlocks("0x01")
	assert.Error(t, err)
}
