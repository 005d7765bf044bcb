// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts carries require-style failures of built-in contracts.
package reverts

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// errorSelector is the 4-byte selector of Error(string).
var errorSelector = []byte{0x08, 0xc3, 0x79, 0xa0}

// ErrRequire is a failed require(cond, message) in a built-in contract.
type ErrRequire struct {
	message string
}

func NewRequireError(message string) *ErrRequire {
	return &ErrRequire{message: message}
}

// Errorf builds an ErrRequire with a formatted message.
func Errorf(format string, args ...any) *ErrRequire {
	return &ErrRequire{message: fmt.Sprintf(format, args...)}
}

func (e *ErrRequire) Error() string {
	return e.message
}

// Bytes returns the abi encoding of Error(message).
func (e *ErrRequire) Bytes() []byte {
	if e == nil {
		return nil
	}

	msg := []byte(e.message)
	padded := (len(msg) + 31) / 32 * 32

	encoded := make([]byte, 4+32+32+padded)
	copy(encoded, errorSelector)
	// offset of the string, always 0x20
	binary.BigEndian.PutUint64(encoded[4+24:], 32)
	binary.BigEndian.PutUint64(encoded[4+32+24:], uint64(len(msg)))
	copy(encoded[4+64:], msg)
	return encoded
}

// IsRevertErr reports whether err is, or wraps, an ErrRequire.
func IsRevertErr(err any) bool {
	e, ok := err.(error)
	if !ok || e == nil {
		return false
	}
	var ve *ErrRequire
	return errors.As(e, &ve) && ve != nil
}
