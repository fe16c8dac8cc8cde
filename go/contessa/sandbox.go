// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package contessa

import "io"

//go:generate mockgen -source sandbox.go -destination sandbox_mock.go -package contessa

// Sandbox is a component capable of validating and executing contract
// modules. Modules are validated and compiled once and may be instantiated
// any number of times; every Instance is an isolated execution environment
// with its own linear memory and stacks. To obtain a Sandbox, client code
// should use NewSandbox() provided by the registry file in this package.
type Sandbox interface {
	// Compile validates the given code and translates it into its executable
	// form. The hash is the content address of the code and may be used by the
	// implementation to cache compilation results. Validation failures are
	// reported as one of ErrCodeTooLarge, ErrInvalidModule, ErrDisallowedImport,
	// ErrUnsupportedInstruction, or ErrMemoryLimit.
	Compile(hash Hash, code Code) (Module, error)

	// Instantiate creates a new instance of the given module whose linear
	// memory may not grow beyond the given number of pages. The instantiation
	// fails with ErrMemoryLimit if the module requires more initial memory.
	Instantiate(module Module, memoryLimitPages uint32) (Instance, error)

	// Schedule returns the limits and prices applied by this sandbox.
	Schedule() Schedule
}

// ProfilingSandbox is an optional extension to the Sandbox interface
// implemented by sandboxes collecting execution statistics.
type ProfilingSandbox interface {
	Sandbox

	// ResetProfile clears the statistics collected by the sandbox.
	ResetProfile()

	// DumpProfile writes a summary of the statistics collected since the
	// last reset to the given writer.
	DumpProfile(io.Writer)
}

// Module is a validated and compiled contract module. Modules are immutable
// and may be shared among instances.
type Module interface {
	// Hash returns the content address of the module's code.
	Hash() Hash
	// MemoryPages returns the initial and maximum number of memory pages.
	MemoryPages() (initial, maximum uint32)
	// Imports returns the names of the host functions used by the module.
	Imports() []string
}

// EntryPoint names an exported function of a module invoked by the host.
type EntryPoint string

const (
	EntryDeploy EntryPoint = "deploy" // invoked once when a contract is instantiated
	EntryCall   EntryPoint = "call"   // invoked by every call of a contract
)

// Instance is a running module. An instance is driven by a single thread.
type Instance interface {
	// Invoke starts the execution of the given entry point. Every executed
	// instruction and host function is charged on the given meter before it
	// takes effect. Host functions are served by the given context.
	Invoke(entry EntryPoint, input Data, context HostContext, meter *GasMeter) Outcome

	// Resume continues an execution suspended for a nested call, handing over
	// the result of the nested call.
	Resume(result CallResult) Outcome

	// Release returns the resources of the instance. The instance may not be
	// used afterwards.
	Release()
}

// ExitStatus enumerates the ways an execution may end or pause.
type ExitStatus byte

const (
	ExitReturned   ExitStatus = iota // < execution finished successfully
	ExitReverted                     // < execution finished with an explicit revert
	ExitTerminated                   // < the contract terminated itself
	ExitTrapped                      // < execution aborted by a trap or out-of-gas
	ExitSuspended                    // < execution paused for a nested call
)

func (s ExitStatus) String() string {
	switch s {
	case ExitReturned:
		return "returned"
	case ExitReverted:
		return "reverted"
	case ExitTerminated:
		return "terminated"
	case ExitTrapped:
		return "trapped"
	case ExitSuspended:
		return "suspended"
	}
	return "unknown"
}

// Outcome is the result of running an instance until it ends or pauses.
type Outcome struct {
	Status ExitStatus
	Output Data        // < for ExitReturned and ExitReverted
	Err    error       // < the trap reason for ExitTrapped
	Call   *NestedCall // < the requested call for ExitSuspended
}

// CallKind differentiates the nested invocations a contract may request.
type CallKind byte

const (
	Call CallKind = iota
	DelegateCall
	Instantiate
)

func (k CallKind) String() string {
	switch k {
	case Call:
		return "call"
	case DelegateCall:
		return "delegate_call"
	case Instantiate:
		return "instantiate"
	}
	return "unknown"
}

// NestedCall describes a nested invocation requested by a suspended instance.
type NestedCall struct {
	Kind     CallKind
	ReadOnly bool
	Callee   Address // < target of Call and DelegateCall
	CodeHash Hash    // < code of Instantiate
	Value    Value   // < ignored by DelegateCall
	Gas      Weight  // < zero components grant all remaining weight
	Input    Data
	Salt     Data // < only relevant for Instantiate
}

// CallResult is handed to a suspended instance when its nested call ended.
type CallResult struct {
	Code    ReturnCode
	Output  Data
	Address Address // < the created contract for successful Instantiate calls
}

// ReturnCode is the value returned by host functions to contract code. The
// numbering is part of the host ABI and may never change.
type ReturnCode uint64

const (
	Success                      ReturnCode = 0
	CalleeTrapped                ReturnCode = 1
	CalleeReverted               ReturnCode = 2
	KeyNotFound                  ReturnCode = 3
	TransferFailed               ReturnCode = 4
	CodeNotFound                 ReturnCode = 5
	NotCallable                  ReturnCode = 6
	CallStackOverflow            ReturnCode = 7
	OutOfGas                     ReturnCode = 8
	StorageDepositLimitExhausted ReturnCode = 9
	DuplicateContract            ReturnCode = 11
	LoggingDisabled              ReturnCode = 12
)

// HostContext is the view of the chain granted to an executing contract. It is
// provided by the call-stack manager for every frame and serves the host
// functions of the sandbox. Mutations are buffered in the frame and become
// visible outside of it only if the frame succeeds.
type HostContext interface {
	// GetStorage reads an item of the executing contract's storage.
	GetStorage(key []byte) ([]byte, bool)
	// SetStorage writes an item and charges or refunds the storage deposit.
	// It returns the length of the previous value, if there was one.
	SetStorage(key []byte, value []byte) (prevLen int, existed bool, err error)
	// ClearStorage removes an item and refunds its storage deposit.
	ClearStorage(key []byte) (prevLen int, existed bool, err error)

	Transfer(to Address, value Value) error
	Terminate(beneficiary Address) error
	DepositEvent(topics []Hash, data Data)
	SetCodeHash(hash Hash) error
	// DebugMessage records a message and reports whether it was retained.
	DebugMessage(message string) bool

	Caller() Address
	Address() Address
	Balance() Value
	ValueTransferred() Value
	BlockNumber() uint64
	Now() uint64
	// Random derives a seed from on-chain randomness and the given subject.
	// It also returns the block number from which the randomness originates.
	Random(subject []byte) (Hash, uint64)
	CodeHash(Address) (Hash, bool)
	OwnCodeHash() Hash
	IsContract(Address) bool
	CallerIsOrigin() bool
	MinimumBalance() Value
	ReadOnly() bool
}
