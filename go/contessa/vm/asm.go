// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package vm

import (
	"encoding/binary"
	"fmt"
)

// Assembler builds the code of a single function. Jump targets are referenced
// through labels that are resolved when the code is finished.
type Assembler struct {
	code   []byte
	labels map[string]int
	fixups []fixup
}

type fixup struct {
	label string
	pos   int
}

// NewAssembler creates an empty assembler.
func NewAssembler() *Assembler {
	return &Assembler{labels: map[string]int{}}
}

// Op appends an instruction without immediate.
func (a *Assembler) Op(ops ...OpCode) *Assembler {
	for _, op := range ops {
		a.code = append(a.code, byte(op))
	}
	return a
}

// Push appends a PUSH of the given constant.
func (a *Assembler) Push(value uint64) *Assembler {
	a.code = append(a.code, byte(PUSH))
	a.code = binary.LittleEndian.AppendUint64(a.code, value)
	return a
}

// Imm8 appends an instruction with a one byte immediate.
func (a *Assembler) Imm8(op OpCode, value uint8) *Assembler {
	a.code = append(a.code, byte(op), value)
	return a
}

// Imm32 appends an instruction with a four byte immediate.
func (a *Assembler) Imm32(op OpCode, value uint32) *Assembler {
	a.code = append(a.code, byte(op))
	a.code = binary.LittleEndian.AppendUint32(a.code, value)
	return a
}

func (a *Assembler) LocalGet(index uint8) *Assembler {
	return a.Imm8(LOCAL_GET, index)
}

func (a *Assembler) LocalSet(index uint8) *Assembler {
	return a.Imm8(LOCAL_SET, index)
}

func (a *Assembler) Dup(depth uint8) *Assembler {
	return a.Imm8(DUP, depth)
}

func (a *Assembler) Swap(depth uint8) *Assembler {
	return a.Imm8(SWAP, depth)
}

func (a *Assembler) Load(offset uint32) *Assembler {
	return a.Imm32(LOAD, offset)
}

func (a *Assembler) Store(offset uint32) *Assembler {
	return a.Imm32(STORE, offset)
}

// HostCall appends a call of the host function imported at the given index.
func (a *Assembler) HostCall(importIndex uint8) *Assembler {
	return a.Imm8(HOSTCALL, importIndex)
}

// Call appends a call of the function with the given index.
func (a *Assembler) Call(function uint16) *Assembler {
	a.code = append(a.code, byte(CALL))
	a.code = binary.LittleEndian.AppendUint16(a.code, function)
	return a
}

// Label marks the current position as the target of jumps to the given name.
func (a *Assembler) Label(name string) *Assembler {
	a.labels[name] = len(a.code)
	return a
}

// Jump appends an unconditional jump to the given label.
func (a *Assembler) Jump(label string) *Assembler {
	return a.jump(JUMP, label)
}

// JumpIf appends a jump to the given label taken if the top of the stack is
// not zero.
func (a *Assembler) JumpIf(label string) *Assembler {
	return a.jump(JUMPI, label)
}

func (a *Assembler) jump(op OpCode, label string) *Assembler {
	a.code = append(a.code, byte(op))
	a.fixups = append(a.fixups, fixup{label: label, pos: len(a.code)})
	a.code = append(a.code, 0, 0, 0, 0)
	return a
}

// Code resolves all labels and returns the assembled code.
func (a *Assembler) Code() ([]byte, error) {
	for _, f := range a.fixups {
		target, found := a.labels[f.label]
		if !found {
			return nil, fmt.Errorf("undefined label %q", f.label)
		}
		binary.LittleEndian.PutUint32(a.code[f.pos:], uint32(target))
	}
	return a.code, nil
}

// MustCode is like Code but panics on unresolved labels. It is intended for
// statically known programs.
func (a *Assembler) MustCode() []byte {
	code, err := a.Code()
	if err != nil {
		panic(err)
	}
	return code
}
