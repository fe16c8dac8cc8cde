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
	"github.com/Fantom-foundation/Contessa/go/contessa"
	"github.com/Fantom-foundation/Contessa/go/contessa/vm"
	"github.com/ethereum/go-ethereum/crypto"
)

// GetEchoExample provides a contract returning its input. The input is also
// reported as debug message.
func GetEchoExample() Example {
	p := newProgram()
	call := p.readInput(vm.NewAssembler()).
		Push(inBuffer)
	pushInputLen(call, 0).
		HostCall(p.host("debug_message")).Op(vm.DROP)
	pushInputLen(call, 0)
	p.returnData(call, 0, inBuffer)

	return exampleSpec{
		Name:        "echo",
		Description: "returns its input",
		Code:        p.build(noop(), call, 0),
	}.build()
}

// GetReverterExample provides a contract writing its input to storage and
// reverting with the input as output. The write never becomes visible.
func GetReverterExample() Example {
	p := newProgram()
	p.constant(0, []byte("r"))
	call := p.readInput(vm.NewAssembler()).
		Push(0).Push(1).Push(inBuffer)
	pushInputLen(call, 0).
		HostCall(p.host("set_storage")).Op(vm.DROP)
	pushInputLen(call, 0)
	p.returnData(call, 1, inBuffer)

	return exampleSpec{
		Name:        "reverter",
		Description: "writes storage and reverts with its input",
		Code:        p.build(noop(), call, 0),
	}.build()
}

// EmitterTopic is the single topic of the events of the emitter example.
var EmitterTopic = contessa.Hash(crypto.Keccak256Hash([]byte("Emitted(bytes)")))

// GetEmitterExample provides a contract emitting an event carrying its input.
func GetEmitterExample() Example {
	p := newProgram()
	p.constant(0, EmitterTopic[:])
	call := p.readInput(vm.NewAssembler()).
		Push(0).Push(1).Push(inBuffer)
	pushInputLen(call, 0).
		HostCall(p.host("deposit_event")).Op(vm.DROP).
		Op(vm.RETURN)

	return exampleSpec{
		Name:        "emitter",
		Description: "emits an event with its input as data",
		Code:        p.build(noop(), call, 0),
	}.build()
}
