// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package packer

import (
	"sync/atomic"
	"time"
)

// Clock is the wall clock shifted by a developer controlled offset.
type Clock struct {
	offset atomic.Uint64
	now    func() time.Time
}

// NewClock creates a clock following the system time.
func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// Now returns the current unix timestamp plus the offset.
func (c *Clock) Now() uint64 {
	return uint64(c.now().Unix()) + c.offset.Load()
}

// IncreaseTime moves the clock forward, returning the new offset.
func (c *Clock) IncreaseTime(seconds uint64) uint64 {
	return c.offset.Add(seconds)
}

// Offset returns the total seconds the clock was moved forward.
func (c *Clock) Offset() uint64 {
	return c.offset.Load()
}
