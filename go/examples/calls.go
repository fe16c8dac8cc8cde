// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package examples

import (
	"encoding/binary"
	"fmt"

	"github.com/Fantom-foundation/Contessa/go/contessa"
	"github.com/Fantom-foundation/Contessa/go/contessa/vm"
)

// Flags of nested calls, as understood by the call host function.
const (
	CallReadOnly = 1
	CallDelegate = 2
)

const sentinel = 1<<32 - 1

// GetForwarderExample provides a contract calling another contract. The
// input consists of the call flags (1 byte), the callee (20 bytes), the gas
// limit of the nested call (ref_time and proof_size, 8 bytes each), and the
// input of the nested call. The output is the return code of the nested call
// (8 bytes) followed by its output.
func GetForwarderExample() Example {
	p := newProgram()
	call := p.readInput(vm.NewAssembler()).
		Push(outLenSlot).Push(outCapacity).Store(0).
		Push(inBuffer).Imm32(vm.LOAD8, 0).
		Push(inBuffer + 1).
		Push(inBuffer).Load(21).
		Push(inBuffer).Load(29).
		Push(valueSlot).Push(inBuffer + forwardHeader)
	pushInputLen(call, forwardHeader).
		Push(outBuffer).Push(outLenSlot).HostCall(p.host("call"))
	p.returnCallResult(call)

	return exampleSpec{
		Name:        "forwarder",
		Description: "forwards its input to another contract",
		Code:        p.build(noop(), call, 1),
	}.build()
}

const forwardHeader = 1 + 20 + 8 + 8

// ForwardInput creates the input of the forwarder example. Zero components of
// the gas limit grant all remaining gas to the nested call.
func ForwardInput(flags byte, callee contessa.Address, gas contessa.Weight, input []byte) []byte {
	res := append([]byte{flags}, callee[:]...)
	res = binary.LittleEndian.AppendUint64(res, gas.RefTime)
	res = binary.LittleEndian.AppendUint64(res, gas.ProofSize)
	return append(res, input...)
}

// DecodeCallResult splits the output of the forwarder, recursion, and factory
// examples into the return code of the nested call and its output.
func DecodeCallResult(output []byte) (contessa.ReturnCode, []byte, error) {
	if len(output) < 8 {
		return 0, nil, fmt.Errorf("output too short: %d bytes", len(output))
	}
	return contessa.ReturnCode(binary.LittleEndian.Uint64(output)), output[8:], nil
}

// returnCallResult ends the execution with the return code on the stack,
// followed by the output of the nested call if there is one.
func (p *program) returnCallResult(a *vm.Assembler) {
	a.LocalSet(0).
		Push(outBuffer - 8).LocalGet(0).Store(0).
		LocalGet(0).Op(vm.EQZ).JumpIf("output").
		LocalGet(0).Push(uint64(contessa.CalleeReverted)).Op(vm.EQ).JumpIf("output").
		Push(outLenSlot).Push(0).Store(0).
		Label("output").
		Push(outLenSlot).Load(0).Push(8).Op(vm.ADD)
	p.returnData(a, 0, outBuffer-8)
}

// GetProxyExample provides a contract delegating all calls to a library
// contract. The address of the library is the input of the deploy entry
// point. Outputs and reverts of the library are passed through.
func GetProxyExample() Example {
	const target = valueSlot + 32

	p := newProgram()
	p.constant(0, []byte("t"))
	deploy := p.readInput(vm.NewAssembler()).
		Push(0).Push(1).Push(inBuffer).Push(20).HostCall(p.host("set_storage")).Op(vm.DROP).
		Op(vm.RETURN)

	call := vm.NewAssembler().
		Push(outLenSlot).Push(20).Store(0).
		Push(0).Push(1).Push(target).Push(outLenSlot).HostCall(p.host("get_storage")).Op(vm.DROP)
	p.readInput(call).
		Push(outLenSlot).Push(outCapacity).Store(0).
		Push(CallDelegate).Push(target).Push(0).Push(0).Push(valueSlot).Push(inBuffer)
	pushInputLen(call, 0).
		Push(outBuffer).Push(outLenSlot).HostCall(p.host("call")).
		LocalSet(0).
		LocalGet(0).Op(vm.EQZ).JumpIf("ok").
		LocalGet(0).Push(uint64(contessa.CalleeReverted)).Op(vm.EQ).JumpIf("revert").
		Op(vm.UNREACHABLE).
		Label("ok").Push(outLenSlot).Load(0)
	p.returnData(call, 0, outBuffer)
	call.Label("revert").Push(outLenSlot).Load(0)
	p.returnData(call, 1, outBuffer)

	return exampleSpec{
		Name:        "proxy",
		Description: "delegates all calls to a library contract",
		Code:        p.build(deploy, call, 1),
	}.build()
}

// GetRecursionExample provides a contract calling itself until a nested call
// fails. The output consists of the number of frames that succeeded, counting
// the innermost one (8 bytes), and the return code of the failed call
// (8 bytes).
func GetRecursionExample() Example {
	p := newProgram()
	call := vm.NewAssembler().
		Push(0).HostCall(p.host("address")).Op(vm.DROP).
		Push(outLenSlot).Push(16).Store(0).
		Push(0).Push(0).Push(0).Push(0).Push(valueSlot).Push(inBuffer).Push(0).
		Push(outBuffer).Push(outLenSlot).HostCall(p.host("call")).
		LocalSet(0).
		LocalGet(0).JumpIf("failed").
		Push(outBuffer).Push(outBuffer).Load(0).Push(1).Op(vm.ADD).Store(0).
		Jump("done").
		Label("failed").
		Push(outBuffer).Push(1).Store(0).
		Push(outBuffer + 8).LocalGet(0).Store(0).
		Label("done").
		Push(16)
	p.returnData(call, 0, outBuffer)

	return exampleSpec{
		Name:        "recursion",
		Description: "calls itself until the call stack is exhausted",
		Code:        p.build(noop(), call, 1),
	}.build()
}

// DecodeRecursionOutput splits the output of the recursion example.
func DecodeRecursionOutput(output []byte) (depth uint64, code contessa.ReturnCode, err error) {
	if len(output) != 16 {
		return 0, 0, fmt.Errorf("unexpected length of output; wanted 16, got %d", len(output))
	}
	return binary.LittleEndian.Uint64(output), contessa.ReturnCode(binary.LittleEndian.Uint64(output[8:])), nil
}

// GetFactoryExample provides a contract instantiating other contracts. The
// input consists of the code hash (32 bytes) and the input of the deploy
// entry point. The value sent to the factory endows the new contract. The
// output is the return code of the instantiation (8 bytes) followed by the
// address of the new contract (20 bytes).
func GetFactoryExample() Example {
	p := newProgram()
	call := p.readInput(vm.NewAssembler()).
		Push(valueSlot).HostCall(p.host("value_transferred")).Op(vm.DROP).
		Push(inBuffer).Push(0).Push(0).Push(valueSlot).Push(inBuffer + 32)
	pushInputLen(call, 32).
		Push(outBuffer+8).Push(sentinel).Push(0).Push(0).Push(0).
		HostCall(p.host("instantiate")).
		Push(outBuffer).Swap(1).Store(0).
		Push(28)
	p.returnData(call, 0, outBuffer)

	return exampleSpec{
		Name:        "factory",
		Description: "instantiates contracts of a given code",
		Code:        p.build(noop(), call, 0),
	}.build()
}

// FactoryInput creates the input of the factory example.
func FactoryInput(code contessa.Hash, input []byte) []byte {
	return append(code[:], input...)
}

// DecodeFactoryOutput splits the output of the factory example.
func DecodeFactoryOutput(output []byte) (contessa.ReturnCode, contessa.Address, error) {
	code, rest, err := DecodeCallResult(output)
	if err != nil || len(rest) != 20 {
		return 0, contessa.Address{}, fmt.Errorf("unexpected output of %d bytes", len(output))
	}
	return code, contessa.Address(rest), nil
}

// GetMulticallExample provides a contract calling a sequence of contracts,
// continuing after failed calls. The input is a sequence of calls, each
// consisting of the callee (20 bytes), the length of the input (8 bytes), and
// the input. Outputs of the calls are discarded. The output is the sequence
// of return codes (8 bytes each).
func GetMulticallExample() Example {
	const (
		ptr   = 0
		end   = 1
		size  = 2
		count = 3
	)
	p := newProgram()
	call := p.readInput(vm.NewAssembler()).
		Push(inBuffer).LocalSet(ptr).
		Push(inBuffer)
	pushInputLen(call, 0).Op(vm.ADD).LocalSet(end).
		Label("loop").
		LocalGet(ptr).LocalGet(end).Op(vm.LTU).Op(vm.EQZ).JumpIf("done").
		LocalGet(ptr).Load(20).LocalSet(size).
		Push(0).LocalGet(ptr).Push(0).Push(0).Push(valueSlot).
		LocalGet(ptr).Push(28).Op(vm.ADD).LocalGet(size).
		Push(sentinel).Push(0).HostCall(p.host("call")).
		Push(outBuffer).LocalGet(count).Push(8).Op(vm.MUL).Op(vm.ADD).
		Swap(1).Store(0).
		LocalGet(count).Push(1).Op(vm.ADD).LocalSet(count).
		LocalGet(ptr).Push(28).Op(vm.ADD).LocalGet(size).Op(vm.ADD).LocalSet(ptr).
		Jump("loop").
		Label("done").
		LocalGet(count).Push(8).Op(vm.MUL)
	p.returnData(call, 0, outBuffer)

	return exampleSpec{
		Name:        "multicall",
		Description: "calls a sequence of contracts, ignoring failures",
		Code:        p.build(noop(), call, 4),
	}.build()
}

// Invocation is a single call of the multicall example.
type Invocation struct {
	Callee contessa.Address
	Input  []byte
}

// MulticallInput creates the input of the multicall example.
func MulticallInput(calls ...Invocation) []byte {
	res := []byte{}
	for _, call := range calls {
		res = append(res, call.Callee[:]...)
		res = binary.LittleEndian.AppendUint64(res, uint64(len(call.Input)))
		res = append(res, call.Input...)
	}
	return res
}

// DecodeMulticallOutput returns the return codes of the multicall example.
func DecodeMulticallOutput(output []byte) ([]contessa.ReturnCode, error) {
	if len(output)%8 != 0 {
		return nil, fmt.Errorf("unexpected length of output: %d", len(output))
	}
	res := make([]contessa.ReturnCode, 0, len(output)/8)
	for i := 0; i < len(output); i += 8 {
		res = append(res, contessa.ReturnCode(binary.LittleEndian.Uint64(output[i:])))
	}
	return res, nil
}
