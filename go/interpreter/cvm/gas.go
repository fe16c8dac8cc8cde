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
	"github.com/Fantom-foundation/Contessa/go/contessa"
	"github.com/Fantom-foundation/Contessa/go/contessa/vm"
)

// instructionCost returns the ref_time charged for executing the given
// instruction. Costs of host calls and memory growth depending on runtime
// values are charged on execution.
func instructionCost(op vm.OpCode, weights *contessa.InstructionWeights) uint64 {
	switch op {
	case vm.MUL, vm.DIVU, vm.REMU:
		return weights.Multiply
	case vm.JUMP, vm.JUMPI:
		return weights.Branch
	case vm.CALL, vm.RETURN, vm.HOSTCALL:
		return weights.Call
	case vm.LOAD, vm.STORE, vm.LOAD8, vm.STORE8, vm.MEMSIZE:
		return weights.Memory
	case vm.MEMGROW:
		return weights.MemoryGrow
	case vm.NOP, vm.UNREACHABLE:
		return 0
	}
	return weights.Base
}

// charge debits the given weight from the meter of the current execution.
func (c *context) charge(weight contessa.Weight) error {
	return c.meter.Charge(weight)
}
