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

// Schedule summarizes all limits and prices applied by the execution core.
// All nodes of a network must use an identical schedule, since it directly
// affects the results of executions.
type Schedule struct {
	Limits             Limits
	InstructionWeights InstructionWeights
	HostFnWeights      HostFnWeights
	DepositCosts       DepositCosts
	// MinimumBalance is the existential deposit: accounts holding less than
	// this amount, other than zero, are not allowed to exist.
	MinimumBalance uint64
}

// Limits bounds the resources a single contract may use.
type Limits struct {
	// CallDepth is the maximum number of nested frames of an invocation,
	// including the root frame.
	CallDepth int
	// MemoryPages is the maximum number of linear memory pages of a module.
	MemoryPages uint32
	// CodeLen is the maximum size of a module binary in bytes.
	CodeLen int
	// FunctionDepth is the maximum depth of function calls within a sandbox.
	FunctionDepth int
	// StorageKeyLen is the maximum length of a storage key.
	StorageKeyLen int
	// StorageValueLen is the maximum length of a storage value.
	StorageValueLen int
	// EventTopics is the maximum number of topics of an event.
	EventTopics int
	// EventDataLen is the maximum length of the data of an event.
	EventDataLen int
	// DebugBufferLen is the maximum accumulated size of debug messages.
	DebugBufferLen int
}

// InstructionWeights lists the ref_time charged per executed instruction,
// grouped by instruction class.
type InstructionWeights struct {
	Base          uint64 // stack, local and arithmetic instructions
	Multiply      uint64 // multiplication and division
	Branch        uint64 // jumps and conditional jumps
	Call          uint64 // function calls and returns
	Memory        uint64 // loads and stores
	MemoryGrow    uint64 // base cost of growing memory
	MemoryPerPage uint64 // additional cost per grown page
}

// HostFnWeights lists the weights charged by host functions before they take
// effect.
type HostFnWeights struct {
	Base            Weight // every host function
	PerByte         uint64 // ref_time per byte copied between sandbox and host
	StorageRead     Weight // get_storage, contains_storage
	StorageWrite    Weight // set_storage, clear_storage
	StoragePerByte  Weight // per byte of key and value accessed
	Transfer        Weight
	Call            Weight
	Instantiate     Weight
	Terminate       Weight
	EventPerTopic   uint64
	HashPerByte     uint64
	Random          Weight
	CodeHash        Weight // code_hash, is_contract, set_code_hash lookups
	UploadPerByte   uint64 // validation of uploaded code, per byte
	UploadBase      Weight
}

// DepositCosts prices the storage a contract occupies.
type DepositCosts struct {
	// ContractBase is reserved for the existence of a contract account.
	ContractBase uint64
	// PerItem is reserved for every storage item.
	PerItem uint64
	// PerByte is reserved for every byte of key and value of a storage item.
	PerByte uint64
	// CodeBase is reserved for every uploaded code blob.
	CodeBase uint64
	// CodePerByte is reserved for every byte of an uploaded code blob.
	CodePerByte uint64
}

// ItemDeposit returns the deposit owed for a storage item of the given size.
func (c DepositCosts) ItemDeposit(keyLen, valueLen int) uint64 {
	return saturatingAdd(c.PerItem, saturatingMul(c.PerByte, uint64(keyLen)+uint64(valueLen)))
}

// CodeDeposit returns the deposit owed for a code blob of the given size.
func (c DepositCosts) CodeDeposit(codeLen int) uint64 {
	return saturatingAdd(c.CodeBase, saturatingMul(c.CodePerByte, uint64(codeLen)))
}

// MaxCallDepth is the default bound on nested frames of an invocation.
const MaxCallDepth = 32

// DefaultSchedule returns the schedule used for production.
func DefaultSchedule() Schedule {
	return Schedule{
		Limits: Limits{
			CallDepth:       MaxCallDepth,
			MemoryPages:     16,
			CodeLen:         128 * 1024,
			FunctionDepth:   256,
			StorageKeyLen:   128,
			StorageValueLen: 16 * 1024,
			EventTopics:     4,
			EventDataLen:    16 * 1024,
			DebugBufferLen:  2 * 1024 * 1024,
		},
		InstructionWeights: InstructionWeights{
			Base:          1_000,
			Multiply:      2_000,
			Branch:        1_500,
			Call:          5_000,
			Memory:        2_500,
			MemoryGrow:    10_000,
			MemoryPerPage: 500_000,
		},
		HostFnWeights: HostFnWeights{
			Base:            NewWeight(50_000, 0),
			PerByte:         100,
			StorageRead:     NewWeight(1_000_000, 128),
			StorageWrite:    NewWeight(2_000_000, 128),
			StoragePerByte:  NewWeight(50, 1),
			Transfer:        NewWeight(1_500_000, 64),
			Call:            NewWeight(3_000_000, 128),
			Instantiate:     NewWeight(8_000_000, 256),
			Terminate:       NewWeight(5_000_000, 256),
			EventPerTopic:   100_000,
			HashPerByte:     200,
			Random:          NewWeight(200_000, 32),
			CodeHash:        NewWeight(500_000, 64),
			UploadPerByte:   5_000,
			UploadBase:      NewWeight(10_000_000, 0),
		},
		DepositCosts: DepositCosts{
			ContractBase: 2_000,
			PerItem:      200,
			PerByte:      10,
			CodeBase:     1_000,
			CodePerByte:  1,
		},
		MinimumBalance: 100,
	}
}
