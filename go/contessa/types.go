// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package contessa

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
)

// Address represents the 160-bit (20 bytes) address of an account.
type Address [20]byte

// Hash represents the 256-bit (32 bytes) hash of a code blob, a storage
// namespace, an event topic or similar cryptographic summary information.
type Hash [32]byte

// Value represents an amount of chain currency in big-endian encoding.
type Value [32]byte

// Code represents the binary encoding of a contract module.
type Code []byte

// Data represents the input or output of contract invocations.
type Data []byte

func (a Address) String() string {
	return fmt.Sprintf("0x%x", a[:])
}

func (a Address) MarshalText() ([]byte, error) {
	return bytesToText(a[:])
}

func (a *Address) UnmarshalText(data []byte) error {
	return textToBytes(a[:], data)
}

func (h Hash) String() string {
	return fmt.Sprintf("0x%x", h[:])
}

func (h Hash) MarshalText() ([]byte, error) {
	return bytesToText(h[:])
}

func (h *Hash) UnmarshalText(data []byte) error {
	return textToBytes(h[:], data)
}

func (v Value) ToBig() *big.Int {
	return new(big.Int).SetBytes(v[:])
}

func (v Value) ToUint256() *uint256.Int {
	return new(uint256.Int).SetBytes(v[:])
}

func (v Value) String() string {
	return v.ToUint256().String()
}

func (v Value) Cmp(o Value) int {
	return bytes.Compare(v[:], o[:])
}

func (v Value) IsZero() bool {
	return v == Value{}
}

// IsUint64 reports whether the value fits into 64 bits.
func (v Value) IsUint64() bool {
	return v.ToUint256().IsUint64()
}

// Uint64 returns the lower 64 bits of the value.
func (v Value) Uint64() uint64 {
	return binary.BigEndian.Uint64(v[24:])
}

func (v Value) MarshalText() ([]byte, error) {
	return bytesToText(v[:])
}

func (v *Value) UnmarshalText(data []byte) error {
	return textToBytes(v[:], data)
}

// NewValue creates a new Value instance from up to 4 uint64 arguments. The
// arguments are given in the order from most significant to least significant
// by padding leading zeros as needed. No argument results in a value of zero.
func NewValue(args ...uint64) (result Value) {
	if len(args) > 4 {
		panic("Too many arguments")
	}
	offset := 4 - len(args)
	for i := 0; i < len(args) && i < 4; i++ {
		start := (offset * 8) + i*8
		end := start + 8
		binary.BigEndian.PutUint64(result[start:end], args[i])
	}
	return
}

// ValueFromUint256 converts a *uint256.Int to a Value.
// If the input is nil, it returns 0.
func ValueFromUint256(value *uint256.Int) (result Value) {
	if value == nil {
		return result
	}
	return value.Bytes32()
}

// Add returns a+b and whether the addition overflowed.
func Add(a, b Value) (Value, bool) {
	res, overflow := new(uint256.Int).AddOverflow(a.ToUint256(), b.ToUint256())
	return ValueFromUint256(res), overflow
}

// Sub returns a-b and whether the subtraction underflowed.
func Sub(a, b Value) (Value, bool) {
	res, underflow := new(uint256.Int).SubOverflow(a.ToUint256(), b.ToUint256())
	return ValueFromUint256(res), underflow
}

func bytesToText(data []byte) ([]byte, error) {
	return []byte(fmt.Sprintf("0x%x", data)), nil
}

func textToBytes(trg []byte, data []byte) error {
	s := strings.TrimPrefix(string(data), "0x")
	if len(s) != 2*len(trg) {
		return fmt.Errorf("invalid length of %d, wanted %d hex digits", len(s), 2*len(trg))
	}
	_, err := hex.Decode(trg, []byte(s))
	return err
}
