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
	"github.com/Fantom-foundation/Contessa/go/contessa/vm"
)

// GetCounterExample provides a contract keeping a counter in its storage.
// The deploy entry point initializes the counter with its 8 byte argument,
// every call increments it and returns the new value.
func GetCounterExample() Example {
	p := newProgram()
	p.constant(0, []byte("c"))

	deploy := p.readInput(vm.NewAssembler()).
		Push(0).Push(1).Push(inBuffer).Push(8).HostCall(p.host("set_storage")).Op(vm.DROP).
		Op(vm.RETURN)

	call := vm.NewAssembler().
		Push(outLenSlot).Push(8).Store(0).
		Push(0).Push(1).Push(valueSlot).Push(outLenSlot).HostCall(p.host("get_storage")).Op(vm.DROP).
		Push(valueSlot).Push(valueSlot).Load(0).Push(1).Op(vm.ADD).Store(0).
		Push(0).Push(1).Push(valueSlot).Push(8).HostCall(p.host("set_storage")).Op(vm.DROP).
		Push(8)
	p.returnData(call, 0, valueSlot)

	return exampleSpec{
		Name:        "counter",
		Description: "increments a counter kept in storage",
		Code:        p.build(deploy, call, 0),
	}.build()
}

// Operations of the storage example, encoded in the first byte of the input.
const (
	storageSet   = 0
	storageClear = 1
	storageGet   = 2
)

// GetStorageExample provides a contract manipulating a single storage item.
// Set and clear return the length of the previous value, or the sentinel
// 2^32-1 if there was none. Get returns the value or reverts if it is absent.
func GetStorageExample() Example {
	p := newProgram()
	p.constant(0, []byte("k"))

	call := p.readInput(vm.NewAssembler()).
		Push(inBuffer).Imm32(vm.LOAD8, 0).
		Dup(0).Op(vm.EQZ).JumpIf("set").
		Dup(0).Push(storageClear).Op(vm.EQ).JumpIf("clear").
		Op(vm.DROP).
		Push(outLenSlot).Push(outCapacity).Store(0).
		Push(0).Push(1).Push(outBuffer).Push(outLenSlot).HostCall(p.host("get_storage")).
		JumpIf("missing").
		Push(outLenSlot).Load(0)
	p.returnData(call, 0, outBuffer)

	call.Label("missing").Push(0)
	p.returnData(call, 1, outBuffer)

	call.Label("set").Op(vm.DROP).
		Push(0).Push(1).Push(inBuffer + 1)
	pushInputLen(call, 1).
		HostCall(p.host("set_storage"))
	p.returnTop(call)

	call.Label("clear").Op(vm.DROP).
		Push(0).Push(1).HostCall(p.host("clear_storage"))
	p.returnTop(call)

	return exampleSpec{
		Name:        "storage",
		Description: "sets, clears, and gets a single storage item",
		Code:        p.build(noop(), call, 0),
	}.build()
}

// StorageSetInput creates the input of the storage example writing the value.
func StorageSetInput(value []byte) []byte {
	return append([]byte{storageSet}, value...)
}

// StorageClearInput creates the input of the storage example removing the item.
func StorageClearInput() []byte {
	return []byte{storageClear}
}

// StorageGetInput creates the input of the storage example reading the item.
func StorageGetInput() []byte {
	return []byte{storageGet}
}
