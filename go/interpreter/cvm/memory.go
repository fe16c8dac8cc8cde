// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package cvm

import (
	"encoding/binary"
	"math"

	"github.com/Fantom-foundation/Contessa/go/contessa/vm"
)

// memory is the linear memory of an instance. It is organized in pages and
// may grow up to a fixed maximum number of pages, but never shrinks.
type memory struct {
	store    []byte
	maxPages uint32
}

func newMemory(initialPages, maxPages uint32) *memory {
	return &memory{
		store:    make([]byte, vm.MaxMemoryBytes(initialPages)),
		maxPages: maxPages,
	}
}

func (m *memory) length() uint64 {
	return uint64(len(m.store))
}

func (m *memory) pages() uint32 {
	return uint32(m.length() / vm.PageSize)
}

// grow adds the given number of pages. It returns the previous number of pages
// or false if the maximum would be exceeded.
func (m *memory) grow(delta uint64) (uint32, bool) {
	previous := m.pages()
	if delta > uint64(m.maxPages) || uint64(previous)+delta > uint64(m.maxPages) {
		return 0, false
	}
	m.store = append(m.store, make([]byte, vm.MaxMemoryBytes(uint32(delta)))...)
	return previous, true
}

// slice returns the memory region [offset, offset+size) or an error if it is
// not within the bounds of the memory. The returned slice aliases the memory.
func (m *memory) slice(offset, size uint64) ([]byte, error) {
	end := offset + size
	if end < offset || end > m.length() {
		return nil, errMemoryOutOfBounds
	}
	return m.store[offset:end], nil
}

// effectiveAddress combines a dynamic address with a static offset.
func effectiveAddress(address, offset uint64) uint64 {
	res := address + offset
	if res < address {
		return math.MaxUint64
	}
	return res
}

func (m *memory) load64(address uint64) (uint64, error) {
	data, err := m.slice(address, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(data), nil
}

func (m *memory) store64(address, value uint64) error {
	data, err := m.slice(address, 8)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(data, value)
	return nil
}

func (m *memory) load8(address uint64) (uint64, error) {
	data, err := m.slice(address, 1)
	if err != nil {
		return 0, err
	}
	return uint64(data[0]), nil
}

func (m *memory) store8(address, value uint64) error {
	data, err := m.slice(address, 1)
	if err != nil {
		return err
	}
	data[0] = byte(value)
	return nil
}
