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
	"strings"
	"sync"

	"github.com/Fantom-foundation/Contessa/go/contessa/vm"
)

const maxStackSize = 1024 // Maximum number of operands on the stack.

// stack is the fixed-size operand stack of an instance, shared by all function
// frames. Boundaries are not checked by the stack itself; instructions must
// check them before using it. Stacks are pooled; use NewStack() to obtain a
// stack and ReturnStack(s) to hand it back.
type stack struct {
	data         [maxStackSize]uint64
	stackPointer int
}

func (s *stack) push(v uint64) {
	s.data[s.stackPointer] = v
	s.stackPointer++
}

func (s *stack) pop() uint64 {
	s.stackPointer--
	return s.data[s.stackPointer]
}

// peek returns a pointer to the top element, valid until the next push.
func (s *stack) peek() *uint64 {
	return &s.data[s.stackPointer-1]
}

// peekN returns the n-th element from the top, peekN(0) being the top.
func (s *stack) peekN(n int) uint64 {
	return s.data[s.stackPointer-n-1]
}

func (s *stack) len() int {
	return s.stackPointer
}

// truncate drops all elements above the given height.
func (s *stack) truncate(height int) {
	s.stackPointer = height
}

// swap exchanges the top element with the n-th element from the top.
func (s *stack) swap(n int) {
	top := s.stackPointer - 1
	s.data[top-n], s.data[top] = s.data[top], s.data[top-n]
}

// dup pushes a copy of the n-th element from the top, dup(0) duplicating the
// top element.
func (s *stack) dup(n int) {
	s.data[s.stackPointer] = s.data[s.stackPointer-n-1]
	s.stackPointer++
}

func (s *stack) String() string {
	b := strings.Builder{}
	for i := 0; i < s.len(); i++ {
		b.WriteString(fmt.Sprintf("    [%4d] 0x%016x\n", s.len()-i-1, s.peekN(i)))
	}
	return b.String()
}

// ------------------ Stack Pool ------------------

var stackPool = sync.Pool{
	New: func() interface{} {
		return &stack{}
	},
}

// NewStack returns a new stack instance from the reuse pool.
// This function is thread-safe.
func NewStack() *stack {
	return stackPool.Get().(*stack)
}

// ReturnStack returns the stack to the reuse pool. Any stack may only be
// returned once. This function is thread-safe.
func ReturnStack(s *stack) {
	s.stackPointer = 0
	stackPool.Put(s)
}

// ------------------ Stack Boundary ------------------

// stackEffect describes the operands consumed and produced by an instruction
// with a static stack effect. Calls and host calls are checked on execution.
type stackEffect struct {
	pops    int
	pushes  int
	checked bool
}

var staticStackEffects = [256]stackEffect{}

func init() {
	set := func(pops, pushes int, ops ...vm.OpCode) {
		for _, op := range ops {
			staticStackEffects[op] = stackEffect{pops: pops, pushes: pushes, checked: true}
		}
	}
	set(1, 0, vm.JUMPI, vm.DROP, vm.LOCAL_SET)
	set(0, 1, vm.PUSH, vm.LOCAL_GET, vm.MEMSIZE)
	set(2, 1, vm.ADD, vm.SUB, vm.MUL, vm.DIVU, vm.REMU, vm.AND, vm.OR, vm.XOR,
		vm.SHL, vm.SHRU, vm.EQ, vm.NE, vm.LTU, vm.GTU)
	set(1, 1, vm.EQZ, vm.LOAD, vm.LOAD8, vm.MEMGROW)
	set(2, 0, vm.STORE, vm.STORE8)
}

// checkStackLimits verifies that an instruction can be executed. Operands
// may only be taken from the part of the stack owned by the current function,
// which holds available elements; the whole stack holds size elements.
func checkStackLimits(available, size int, instruction Instruction) error {
	switch instruction.opcode {
	case vm.DUP:
		if uint64(available) <= instruction.arg {
			return errStackUnderflow
		}
		if size >= maxStackSize {
			return errStackOverflow
		}
		return nil
	case vm.SWAP:
		if uint64(available) <= instruction.arg {
			return errStackUnderflow
		}
		return nil
	}
	effect := staticStackEffects[instruction.opcode]
	if !effect.checked {
		return nil
	}
	if available < effect.pops {
		return errStackUnderflow
	}
	if size-effect.pops+effect.pushes > maxStackSize {
		return errStackOverflow
	}
	return nil
}
