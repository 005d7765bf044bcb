// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import "sync"

// Waiter hands out the channel to wait on for the next broadcast.
type Waiter interface {
	C() <-chan struct{}
}

// Signal wakes every waiter when Broadcast is called. A waiter that missed a
// broadcast while it was busy is woken immediately on its next wait, so no
// event between two waits is lost.
type Signal struct {
	mu sync.Mutex
	ch chan struct{}
}

func (s *Signal) current() chan struct{} {
	if s.ch == nil {
		s.ch = make(chan struct{})
	}
	return s.ch
}

// Broadcast wakes all waiters.
func (s *Signal) Broadcast() {
	s.mu.Lock()
	close(s.current())
	s.ch = make(chan struct{})
	s.mu.Unlock()
}

// NewWaiter creates a Waiter bound to the current generation of s.
func (s *Signal) NewWaiter() Waiter {
	s.mu.Lock()
	w := &waiter{s: s, ch: s.current()}
	s.mu.Unlock()
	return w
}

type waiter struct {
	s  *Signal
	ch chan struct{}
}

func (w *waiter) C() <-chan struct{} {
	ch := w.ch
	w.s.mu.Lock()
	w.ch = w.s.current()
	w.s.mu.Unlock()
	return ch
}
