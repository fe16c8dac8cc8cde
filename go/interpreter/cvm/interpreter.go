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

// status is enumeration of the execution state of an instance.
type status byte

const (
	statusRunning    status = iota // < all fine, ops are processed
	statusReturned                 // < entry point returned or return_value was called
	statusReverted                 // < return_value was called with the revert flag
	statusTerminated               // < terminate was called
	statusSuspended                // < a nested call or instantiation was requested
	statusFailed                   // < execution stopped with a trap
)

func (s status) String() string {
	switch s {
	case statusRunning:
		return "running"
	case statusReturned:
		return "returned"
	case statusReverted:
		return "reverted"
	case statusTerminated:
		return "terminated"
	case statusSuspended:
		return "suspended"
	case statusFailed:
		return "failed"
	}
	return fmt.Sprintf("status(%d)", byte(s))
}

// callFrame is an entry of the function call stack within an instance.
type callFrame struct {
	function   int
	pc         int
	localsBase int
	stackBase  int
}

// context is the execution environment of an instance. It contains the
// module, the host context, the gas meter, and all internal execution state
// such as program counter, stacks, and memory.
type context struct {
	// Inputs
	module   *Module
	schedule *contessa.Schedule
	host     contessa.HostContext
	meter    *contessa.GasMeter
	input    contessa.Data
	hashes   *keccakCache

	// Execution state
	function  int
	code      []Instruction
	pc        int
	frames    []callFrame
	locals    []uint64
	localBase int
	stackBase int
	stack     *stack
	memory    *memory

	// Results
	output  contessa.Data
	pending *pendingCall
	halt    status // < set by host functions ending or suspending the execution
}

// pendingCall records where the result of a nested call is to be delivered
// once the suspended execution resumes.
type pendingCall struct {
	request    contessa.NestedCall
	outPtr     uint64
	outLenPtr  uint64
	addressPtr uint64 // < only for instantiations
}

// runner executes instructions of a context until it is no longer running.
type runner interface {
	// run returns the final status of the execution. Traps are reported
	// through statusFailed and the trap reason as error.
	run(*context) (status, error)
}

// vanillaRunner is the default runner that executes the contract code without
// any additional features.
type vanillaRunner struct{}

func (vanillaRunner) run(c *context) (status, error) {
	return steps(c, false)
}

// steps executes the instructions of the given context. If oneStepOnly is
// true, only the instruction pointed to by the program counter is executed.
func steps(c *context, oneStepOnly bool) (status, error) {
	status := statusRunning
	for status == statusRunning {
		var err error
		status, err = step(c)
		if err != nil {
			return statusFailed, err
		}
		if oneStepOnly {
			break
		}
	}
	return status, nil
}

// step executes a single instruction.
func step(c *context) (status, error) {
	instruction := c.code[c.pc]
	if err := checkStackLimits(c.stack.len()-c.stackBase, c.stack.len(), instruction); err != nil {
		return statusFailed, err
	}

	var err error
	switch instruction.opcode {
	case CHARGE:
		err = c.charge(contessa.RefTimeOnly(instruction.arg))
	case vm.UNREACHABLE:
		err = errUnreachable
	case vm.NOP:
		// nothing
	case vm.JUMP:
		c.pc = int(instruction.arg)
		return statusRunning, nil
	case vm.JUMPI:
		if c.stack.pop() != 0 {
			c.pc = int(instruction.arg)
			return statusRunning, nil
		}
	case vm.CALL:
		err = opCall(c, int(instruction.arg))
		if err == nil {
			return statusRunning, nil
		}
	case vm.RETURN:
		return opReturn(c)
	case vm.HOSTCALL:
		return opHostCall(c, int(instruction.arg))
	case vm.DROP:
		c.stack.pop()
	case vm.DUP:
		c.stack.dup(int(instruction.arg))
	case vm.SWAP:
		c.stack.swap(int(instruction.arg))
	case vm.PUSH:
		c.stack.push(instruction.arg)
	case vm.LOCAL_GET:
		c.stack.push(c.locals[c.localBase+int(instruction.arg)])
	case vm.LOCAL_SET:
		c.locals[c.localBase+int(instruction.arg)] = c.stack.pop()
	case vm.ADD:
		opBinary(c, func(a, b uint64) uint64 { return a + b })
	case vm.SUB:
		opBinary(c, func(a, b uint64) uint64 { return a - b })
	case vm.MUL:
		opBinary(c, func(a, b uint64) uint64 { return a * b })
	case vm.DIVU:
		err = opDivision(c, func(a, b uint64) uint64 { return a / b })
	case vm.REMU:
		err = opDivision(c, func(a, b uint64) uint64 { return a % b })
	case vm.AND:
		opBinary(c, func(a, b uint64) uint64 { return a & b })
	case vm.OR:
		opBinary(c, func(a, b uint64) uint64 { return a | b })
	case vm.XOR:
		opBinary(c, func(a, b uint64) uint64 { return a ^ b })
	case vm.SHL:
		opBinary(c, func(a, b uint64) uint64 { return a << (b & 63) })
	case vm.SHRU:
		opBinary(c, func(a, b uint64) uint64 { return a >> (b & 63) })
	case vm.EQ:
		opBinary(c, func(a, b uint64) uint64 { return boolToUint(a == b) })
	case vm.NE:
		opBinary(c, func(a, b uint64) uint64 { return boolToUint(a != b) })
	case vm.LTU:
		opBinary(c, func(a, b uint64) uint64 { return boolToUint(a < b) })
	case vm.GTU:
		opBinary(c, func(a, b uint64) uint64 { return boolToUint(a > b) })
	case vm.EQZ:
		top := c.stack.peek()
		*top = boolToUint(*top == 0)
	case vm.LOAD:
		err = opLoad(c, instruction.arg, c.memory.load64)
	case vm.LOAD8:
		err = opLoad(c, instruction.arg, c.memory.load8)
	case vm.STORE:
		err = opStore(c, instruction.arg, c.memory.store64)
	case vm.STORE8:
		err = opStore(c, instruction.arg, c.memory.store8)
	case vm.MEMSIZE:
		c.stack.push(uint64(c.memory.pages()))
	case vm.MEMGROW:
		err = opMemGrow(c)
	default:
		err = fmt.Errorf("%w: %v", contessa.ErrInvalidModule, instruction.opcode)
	}
	if err != nil {
		return statusFailed, err
	}
	c.pc++
	return statusRunning, nil
}

// enter starts the execution of the given function, whose parameters have
// already been popped into the locals.
func (c *context) enter(function int, localBase int) {
	c.function = function
	c.code = c.module.functions[function].code
	c.pc = 0
	c.localBase = localBase
	c.stackBase = c.stack.len()
}

func opCall(c *context, function int) error {
	if len(c.frames)+1 >= c.schedule.Limits.FunctionDepth {
		return errStackOverflow
	}
	callee := &c.module.functions[function]
	if c.stack.len()-c.stackBase < callee.params {
		return errStackUnderflow
	}

	c.frames = append(c.frames, callFrame{
		function:   c.function,
		pc:         c.pc + 1,
		localsBase: c.localBase,
		stackBase:  c.stackBase,
	})

	base := len(c.locals)
	c.locals = append(c.locals, make([]uint64, callee.locals)...)
	for i := callee.params - 1; i >= 0; i-- {
		c.locals[base+i] = c.stack.pop()
	}
	c.enter(function, base)
	return nil
}

func opReturn(c *context) (status, error) {
	current := &c.module.functions[c.function]
	var result uint64
	if current.results > 0 {
		if c.stack.len() <= c.stackBase {
			return statusFailed, errStackUnderflow
		}
		result = c.stack.pop()
	}
	c.stack.truncate(c.stackBase)
	c.locals = c.locals[:c.localBase]

	if len(c.frames) == 0 {
		return statusReturned, nil
	}

	caller := c.frames[len(c.frames)-1]
	c.frames = c.frames[:len(c.frames)-1]
	c.function = caller.function
	c.code = c.module.functions[caller.function].code
	c.pc = caller.pc
	c.localBase = caller.localsBase
	c.stackBase = caller.stackBase
	if current.results > 0 {
		c.stack.push(result)
	}
	return statusRunning, nil
}

func opBinary(c *context, op func(a, b uint64) uint64) {
	b := c.stack.pop()
	a := c.stack.peek()
	*a = op(*a, b)
}

func opDivision(c *context, op func(a, b uint64) uint64) error {
	if c.stack.peekN(0) == 0 {
		return errDivisionByZero
	}
	opBinary(c, op)
	return nil
}

func opLoad(c *context, offset uint64, load func(uint64) (uint64, error)) error {
	top := c.stack.peek()
	value, err := load(effectiveAddress(*top, offset))
	if err != nil {
		return err
	}
	*top = value
	return nil
}

func opStore(c *context, offset uint64, store func(uint64, uint64) error) error {
	value := c.stack.pop()
	address := c.stack.pop()
	return store(effectiveAddress(address, offset), value)
}

// opMemGrow grows the memory by the number of pages on the top of the stack
// and replaces it by the previous number of pages, or by MaxUint64 if the
// memory could not be grown.
func opMemGrow(c *context) error {
	top := c.stack.peek()
	delta := *top
	if delta > uint64(c.memory.maxPages) {
		*top = ^uint64(0)
		return nil
	}
	cost := delta * c.schedule.InstructionWeights.MemoryPerPage
	if err := c.charge(contessa.RefTimeOnly(cost)); err != nil {
		return err
	}
	previous, ok := c.memory.grow(delta)
	if !ok {
		*top = ^uint64(0)
		return nil
	}
	*top = uint64(previous)
	return nil
}

func boolToUint(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
