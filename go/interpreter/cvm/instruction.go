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
	"fmt"

	"github.com/Fantom-foundation/Contessa/go/contessa"
	"github.com/Fantom-foundation/Contessa/go/contessa/vm"
)

// CHARGE is an internal instruction inserted by the compiler at the start of
// every basic block. Its argument is the ref_time of the block.
const CHARGE vm.OpCode = 0xF0

// Instruction is the compiled form of a bytecode instruction. Immediates are
// decoded into arg; jump targets are translated into instruction indices.
type Instruction struct {
	opcode vm.OpCode
	arg    uint64
}

func (i Instruction) String() string {
	if i.opcode == CHARGE {
		return fmt.Sprintf("CHARGE %d", i.arg)
	}
	if i.opcode.ImmediateSize() > 0 {
		return fmt.Sprintf("%v %d", i.opcode, i.arg)
	}
	return i.opcode.String()
}

// function is the compiled form of a module function.
type function struct {
	params  int
	results int
	locals  int // < number of locals including parameters
	code    []Instruction
}

// Module is a validated and compiled module, ready to be instantiated. It is
// immutable and may be shared among concurrent instances.
type Module struct {
	hash          contessa.Hash
	memoryInitial uint32
	memoryMax     uint32
	imports       []string
	hostFunctions []*hostFunction
	functions     []function
	entries       map[string]int
	data          []vm.DataSegment
}

func (m *Module) Hash() contessa.Hash {
	return m.hash
}

func (m *Module) MemoryPages() (uint32, uint32) {
	return m.memoryInitial, m.memoryMax
}

func (m *Module) Imports() []string {
	return m.imports
}
