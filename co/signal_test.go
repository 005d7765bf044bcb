// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/0xngmi/nft-collateral/co"
)

func TestBroadcastWakesAll(t *testing.T) {
	var (
		sig   co.Signal
		goes  co.Goes
		woken atomic.Int32
	)

	waiters := make([]co.Waiter, 5)
	for i := range waiters {
		waiters[i] = sig.NewWaiter()
	}
	for _, w := range waiters {
		goes.Go(func() {
			select {
			case <-w.C():
				woken.Add(1)
			case <-time.After(time.Second):
			}
		})
	}
	sig.Broadcast()
	goes.Wait()
	assert.Equal(t, int32(5), woken.Load())
}

func TestWaiterKeepsMissedBroadcast(t *testing.T) {
	var sig co.Signal
	w := sig.NewWaiter()

	sig.Broadcast()
	select {
	case <-w.C():
	default:
		t.Fatal("missed broadcast")
	}

	select {
	case <-w.C():
		t.Fatal("unexpected wake")
	default:
	}
}
