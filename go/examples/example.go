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
	"math"

	"github.com/Fantom-foundation/Contessa/go/contessa"
	"github.com/Fantom-foundation/Contessa/go/contessa/vm"
)

// Example is an executable description of a contract module. Examples with a
// reference function implement a (uint64)->uint64 computation in their call
// entry point, encoding argument and result as 8 byte little-endian values.
type Example struct {
	exampleSpec
	codeHash contessa.Hash // the hash of the code
}

// exampleSpec specifies a contract module and its behavior.
type exampleSpec struct {
	Name        string
	Description string
	Code        contessa.Code
	reference   func(uint64) uint64 // a reference function computing the same function, if any
}

func (s exampleSpec) build() Example {
	return Example{
		exampleSpec: s,
		codeHash:    contessa.HashCode(s.Code),
	}
}

// CodeHash returns the content address of the example's code.
func (e *Example) CodeHash() contessa.Hash {
	return e.codeHash
}

// HasReference returns true if the example computes a function that can be
// verified through RunReference.
func (e *Example) HasReference() bool {
	return e.reference != nil
}

type Result struct {
	Result  uint64
	UsedGas contessa.Weight
}

// RunOn runs the call entry point of this example on the given sandbox, using
// the given argument. The contract is executed without any chain state.
func (e *Example) RunOn(sandbox contessa.Sandbox, argument uint64) (Result, error) {
	module, err := sandbox.Compile(e.codeHash, e.Code)
	if err != nil {
		return Result{}, err
	}
	instance, err := sandbox.Instantiate(module, sandbox.Schedule().Limits.MemoryPages)
	if err != nil {
		return Result{}, err
	}
	defer instance.Release()

	meter := contessa.NewGasMeter(contessa.NewWeight(math.MaxUint64, math.MaxUint64))
	outcome := instance.Invoke(contessa.EntryCall, EncodeUint64(argument), noOpHostContext{}, meter)
	if outcome.Status != contessa.ExitReturned {
		return Result{}, fmt.Errorf("execution %v: %v", outcome.Status, outcome.Err)
	}
	result, err := DecodeUint64(outcome.Output)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Result:  result,
		UsedGas: meter.Consumed(),
	}, nil
}

// RunReference runs the reference function of this example to produce the
// expected result.
func (e *Example) RunReference(argument uint64) uint64 {
	return e.reference(argument)
}

// All returns all available examples.
func All() []Example {
	return []Example{
		GetCounterExample(),
		GetStorageExample(),
		GetEchoExample(),
		GetReverterExample(),
		GetEmitterExample(),
		GetForwarderExample(),
		GetProxyExample(),
		GetMulticallExample(),
		GetRecursionExample(),
		GetFactoryExample(),
		GetPayerExample(),
		GetTerminatorExample(),
		GetGasBurnerExample(),
		GetFibExample(),
		GetArithmeticExample(),
		GetHasherExample(),
	}
}

// Get looks up an example by name.
func Get(name string) (Example, bool) {
	for _, example := range All() {
		if example.Name == name {
			return example, true
		}
	}
	return Example{}, false
}

func EncodeUint64(value uint64) []byte {
	return binary.LittleEndian.AppendUint64(nil, value)
}

func DecodeUint64(output []byte) (uint64, error) {
	if len(output) != 8 {
		return 0, fmt.Errorf("unexpected length of output; wanted 8, got %d", len(output))
	}
	return binary.LittleEndian.Uint64(output), nil
}

// --- module construction ---

// Memory layout shared by all examples.
const (
	valueSlot   = 64   // 32 bytes, a zero value unless written
	inLenSlot   = 128  // capacity and length of the input buffer
	outLenSlot  = 136  // capacity and length of the output buffer
	inBuffer    = 256  // input of the current invocation
	inCapacity  = 3072
	outBuffer   = 4096 // output of nested calls
	outCapacity = 4096
)

// program assembles a module with a deploy and a call entry point, importing
// host functions on first use.
type program struct {
	imports []string
	index   map[string]uint8
	data    []vm.DataSegment
}

func newProgram() *program {
	return &program{index: map[string]uint8{}}
}

// host returns the import index of the named host function.
func (p *program) host(name string) uint8 {
	if index, found := p.index[name]; found {
		return index
	}
	index := uint8(len(p.imports))
	p.imports = append(p.imports, name)
	p.index[name] = index
	return index
}

// constant places the given bytes in memory at the given offset.
func (p *program) constant(offset uint32, data []byte) {
	p.data = append(p.data, vm.DataSegment{Offset: offset, Bytes: data})
}

// build creates the module binary. Additional functions get the indexes 2,
// 3, and so on.
func (p *program) build(deploy, call *vm.Assembler, locals uint8, functions ...vm.Function) contessa.Code {
	module := vm.Module{
		MemoryInitial: 1,
		MemoryMax:     1,
		Imports:       p.imports,
		Exports: []vm.Export{
			{Name: string(contessa.EntryDeploy), Function: 0},
			{Name: string(contessa.EntryCall), Function: 1},
		},
		Functions: append([]vm.Function{
			{Locals: locals, Code: deploy.MustCode()},
			{Locals: locals, Code: call.MustCode()},
		}, functions...),
		Data: p.data,
	}
	return module.Encode()
}

// noop is an entry point doing nothing.
func noop() *vm.Assembler {
	return vm.NewAssembler().Op(vm.RETURN)
}

// readInput copies up to inCapacity bytes of input to inBuffer and its
// length to inLenSlot.
func (p *program) readInput(a *vm.Assembler) *vm.Assembler {
	return a.
		Push(inLenSlot).Push(inCapacity).Store(0).
		Push(inBuffer).Push(inLenSlot).HostCall(p.host("input")).Op(vm.DROP)
}

// pushInputLen pushes the length of the input minus the given prefix.
func pushInputLen(a *vm.Assembler, prefix uint64) *vm.Assembler {
	a.Push(inLenSlot).Load(0)
	if prefix > 0 {
		a.Push(prefix).Op(vm.SUB)
	}
	return a
}

// returnData ends the execution with the given memory region as output.
// The length is taken from the top of the stack.
func (p *program) returnData(a *vm.Assembler, flags uint64, ptr uint64) *vm.Assembler {
	return a.
		Push(flags).Swap(1).Push(ptr).Swap(1).
		HostCall(p.host("return_value")).Op(vm.RETURN)
}

// returnTop ends the execution returning the top of the stack as 8 byte
// little-endian value.
func (p *program) returnTop(a *vm.Assembler) *vm.Assembler {
	a.Push(valueSlot).Swap(1).Store(0)
	return p.returnData(a.Push(8), 0, valueSlot)
}

// readArgument pushes the 8 byte argument of computing examples.
func (p *program) readArgument(a *vm.Assembler) *vm.Assembler {
	return p.readInput(a).Push(inBuffer).Load(0)
}

// noOpHostContext is a simple contessa.HostContext implementation for example
// codes not depending on any chain state. No operation has any effect.
type noOpHostContext struct{}

func (noOpHostContext) GetStorage([]byte) ([]byte, bool) {
	return nil, false
}

func (noOpHostContext) SetStorage([]byte, []byte) (int, bool, error) {
	return 0, false, nil
}

func (noOpHostContext) ClearStorage([]byte) (int, bool, error) {
	return 0, false, nil
}

func (noOpHostContext) Transfer(contessa.Address, contessa.Value) error {
	return contessa.ErrTransferFailed
}

func (noOpHostContext) Terminate(contessa.Address) error {
	return contessa.ErrTransferFailed
}

func (noOpHostContext) DepositEvent([]contessa.Hash, contessa.Data) {}

func (noOpHostContext) SetCodeHash(contessa.Hash) error {
	return contessa.ErrCodeNotFound
}

func (noOpHostContext) DebugMessage(string) bool {
	return false
}

func (noOpHostContext) Caller() contessa.Address {
	return contessa.Address{}
}

func (noOpHostContext) Address() contessa.Address {
	return contessa.Address{}
}

func (noOpHostContext) Balance() contessa.Value {
	return contessa.Value{}
}

func (noOpHostContext) ValueTransferred() contessa.Value {
	return contessa.Value{}
}

func (noOpHostContext) BlockNumber() uint64 {
	return 0
}

func (noOpHostContext) Now() uint64 {
	return 0
}

func (noOpHostContext) Random([]byte) (contessa.Hash, uint64) {
	return contessa.Hash{}, 0
}

func (noOpHostContext) CodeHash(contessa.Address) (contessa.Hash, bool) {
	return contessa.Hash{}, false
}

func (noOpHostContext) OwnCodeHash() contessa.Hash {
	return contessa.Hash{}
}

func (noOpHostContext) IsContract(contessa.Address) bool {
	return false
}

func (noOpHostContext) CallerIsOrigin() bool {
	return true
}

func (noOpHostContext) MinimumBalance() contessa.Value {
	return contessa.Value{}
}

func (noOpHostContext) ReadOnly() bool {
	return false
}
