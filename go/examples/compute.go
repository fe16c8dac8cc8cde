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
	"math"

	"github.com/Fantom-foundation/Contessa/go/contessa/vm"
	"github.com/ethereum/go-ethereum/crypto"
)

// GetGasBurnerExample provides an example code for tests and benchmarks that
// runs a loop burning gas. The argument is the number of iterations and is
// returned unchanged.
func GetGasBurnerExample() Example {
	p := newProgram()
	call := p.readArgument(vm.NewAssembler()).
		Dup(0).LocalSet(0).
		Label("loop").
		LocalGet(0).Op(vm.EQZ).JumpIf("end").
		LocalGet(0).Push(1).Op(vm.SUB).LocalSet(0).
		Jump("loop").
		Label("end")
	p.returnTop(call)

	return exampleSpec{
		Name:        "gas_burner",
		Description: "burns gas in a loop of the given number of iterations",
		Code:        p.build(noop(), call, 1),
		reference:   burnGas,
	}.build()
}

func burnGas(x uint64) uint64 {
	return x
}

// GetFibExample provides a contract computing Fibonacci numbers through
// recursive function calls.
func GetFibExample() Example {
	p := newProgram()
	call := p.readArgument(vm.NewAssembler()).Call(2)
	p.returnTop(call)

	body := vm.NewAssembler().
		LocalGet(0).Push(2).Op(vm.LTU).JumpIf("base").
		LocalGet(0).Push(1).Op(vm.SUB).Call(2).
		LocalGet(0).Push(2).Op(vm.SUB).Call(2).
		Op(vm.ADD).Op(vm.RETURN).
		Label("base").
		LocalGet(0).Op(vm.RETURN)

	return exampleSpec{
		Name:        "fib",
		Description: "computes Fibonacci numbers recursively",
		Code:        p.build(noop(), call, 0, vm.Function{Params: 1, Results: 1, Code: body.MustCode()}),
		reference:   fib,
	}.build()
}

func fib(x uint64) uint64 {
	if x < 2 {
		return x
	}
	return fib(x-1) + fib(x-2)
}

// GetArithmeticExample provides a contract running a loop of mixed
// arithmetic operations.
func GetArithmeticExample() Example {
	const (
		n      = 0
		i      = 1
		result = 2
	)
	p := newProgram()
	call := p.readArgument(vm.NewAssembler()).LocalSet(n).
		Push(1).LocalSet(i).
		Label("loop").
		LocalGet(i).LocalGet(n).Op(vm.GTU).JumpIf("end").
		LocalGet(result).LocalGet(i).Op(vm.ADD).LocalSet(result).
		LocalGet(result).LocalGet(i).Op(vm.MUL).LocalSet(result).
		LocalGet(result).LocalGet(i).LocalGet(i).Op(vm.MUL).Op(vm.ADD).LocalSet(result).
		LocalGet(result).LocalGet(i).Op(vm.SUB).LocalSet(result).
		LocalGet(result).LocalGet(i).Op(vm.DIVU).LocalSet(result).
		LocalGet(result).LocalGet(i).Push(3).Op(vm.REMU).Push(1).Op(vm.ADD).Op(vm.MUL).LocalSet(result).
		LocalGet(result).LocalGet(i).LocalGet(i).Op(vm.MUL).LocalGet(i).Op(vm.MUL).Op(vm.ADD).LocalSet(result).
		LocalGet(i).Push(1).Op(vm.ADD).LocalSet(i).
		Jump("loop").
		Label("end").
		LocalGet(result).Push(math.MaxInt32).Op(vm.REMU)
	p.returnTop(call)

	return exampleSpec{
		Name:        "arithmetic",
		Description: "runs a loop of arithmetic operations",
		Code:        p.build(noop(), call, 3),
		reference:   arithmetic,
	}.build()
}

func arithmetic(n uint64) uint64 {
	result := uint64(0)
	for i := uint64(1); i <= n; i++ {
		result += i
		result *= i
		result += i * i
		result -= i
		result /= i
		result *= (i % 3) + 1
		result += i * i * i
	}
	return result % math.MaxInt32
}

// GetHasherExample provides a contract computing the given number of
// iterative Keccak-256 hashes, starting from 32 zero bytes. The result is the
// first 8 bytes of the final hash.
func GetHasherExample() Example {
	p := newProgram()
	call := p.readArgument(vm.NewAssembler()).LocalSet(0).
		Label("loop").
		LocalGet(0).Op(vm.EQZ).JumpIf("end").
		Push(valueSlot).Push(32).Push(valueSlot).HostCall(p.host("hash_keccak_256")).Op(vm.DROP).
		LocalGet(0).Push(1).Op(vm.SUB).LocalSet(0).
		Jump("loop").
		Label("end").
		Push(8)
	p.returnData(call, 0, valueSlot)

	return exampleSpec{
		Name:        "hasher",
		Description: "computes iterative Keccak-256 hashes",
		Code:        p.build(noop(), call, 1),
		reference:   iterativeKeccak,
	}.build()
}

func iterativeKeccak(n uint64) uint64 {
	hash := make([]byte, 32)
	for i := uint64(0); i < n; i++ {
		hash = crypto.Keccak256(hash)
	}
	return binary.LittleEndian.Uint64(hash)
}
