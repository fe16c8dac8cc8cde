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
)

// GetPayerExample provides a contract transferring parts of its balance. The
// input consists of the recipient (20 bytes) and the value (32 bytes,
// little-endian). The output is the return code of the transfer.
func GetPayerExample() Example {
	p := newProgram()
	call := p.readInput(vm.NewAssembler()).
		Push(inBuffer).Push(inBuffer + 20).HostCall(p.host("transfer"))
	p.returnTop(call)

	return exampleSpec{
		Name:        "payer",
		Description: "transfers value to a given account",
		Code:        p.build(noop(), call, 0),
	}.build()
}

// PayInput creates the input of the payer example.
func PayInput(recipient contessa.Address, value uint64) []byte {
	res := append([]byte{}, recipient[:]...)
	return append(res, littleEndianValue(value)...)
}

func littleEndianValue(value uint64) []byte {
	return append(EncodeUint64(value), make([]byte, 24)...)
}

// GetTerminatorExample provides a contract removing itself. The input is the
// beneficiary receiving the remaining balance (20 bytes).
func GetTerminatorExample() Example {
	p := newProgram()
	call := p.readInput(vm.NewAssembler()).
		Push(inBuffer).HostCall(p.host("terminate")).
		Op(vm.UNREACHABLE)

	return exampleSpec{
		Name:        "terminator",
		Description: "terminates itself in favor of a beneficiary",
		Code:        p.build(noop(), call, 0),
	}.build()
}
