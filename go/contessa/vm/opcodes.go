// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package vm

import "fmt"

// OpCode is a single byte instruction of the contract bytecode.
type OpCode byte

const (
	// control flow
	UNREACHABLE   OpCode = 0x00
	NOP           OpCode = 0x01
	JUMP          OpCode = 0x02 // imm u32: byte offset of the target in the function
	JUMPI         OpCode = 0x03 // imm u32: byte offset of the target in the function
	CALL          OpCode = 0x04 // imm u16: function index
	RETURN        OpCode = 0x05
	HOSTCALL      OpCode = 0x06 // imm u8: import index
	CALL_INDIRECT OpCode = 0x07 // reserved, rejected by validation
	RETURN_CALL   OpCode = 0x08 // reserved, rejected by validation

	// stack and locals
	DROP      OpCode = 0x10
	DUP       OpCode = 0x11 // imm u8: depth, 0 duplicates the top
	SWAP      OpCode = 0x12 // imm u8: depth, swapped with the top
	PUSH      OpCode = 0x13 // imm u64
	LOCAL_GET OpCode = 0x14 // imm u8
	LOCAL_SET OpCode = 0x15 // imm u8

	// integer arithmetic on u64
	ADD  OpCode = 0x20
	SUB  OpCode = 0x21
	MUL  OpCode = 0x22
	DIVU OpCode = 0x23
	REMU OpCode = 0x24
	AND  OpCode = 0x25
	OR   OpCode = 0x26
	XOR  OpCode = 0x27
	SHL  OpCode = 0x28
	SHRU OpCode = 0x29
	EQ   OpCode = 0x2A
	NE   OpCode = 0x2B
	LTU  OpCode = 0x2C
	GTU  OpCode = 0x2D
	EQZ  OpCode = 0x2E

	// linear memory
	LOAD    OpCode = 0x30 // imm u32: static offset
	STORE   OpCode = 0x31 // imm u32: static offset
	LOAD8   OpCode = 0x32 // imm u32: static offset
	STORE8  OpCode = 0x33 // imm u32: static offset
	MEMSIZE OpCode = 0x34
	MEMGROW OpCode = 0x35

	// floating point instructions occupy 0x40-0x5F; they are not supported
	// since their results are not guaranteed to be deterministic.
	FloatFirst OpCode = 0x40
	FloatLast  OpCode = 0x5F
)

var opCodeNames = map[OpCode]string{
	UNREACHABLE:   "UNREACHABLE",
	NOP:           "NOP",
	JUMP:          "JUMP",
	JUMPI:         "JUMPI",
	CALL:          "CALL",
	RETURN:        "RETURN",
	HOSTCALL:      "HOSTCALL",
	CALL_INDIRECT: "CALL_INDIRECT",
	RETURN_CALL:   "RETURN_CALL",
	DROP:          "DROP",
	DUP:           "DUP",
	SWAP:          "SWAP",
	PUSH:          "PUSH",
	LOCAL_GET:     "LOCAL_GET",
	LOCAL_SET:     "LOCAL_SET",
	ADD:           "ADD",
	SUB:           "SUB",
	MUL:           "MUL",
	DIVU:          "DIVU",
	REMU:          "REMU",
	AND:           "AND",
	OR:            "OR",
	XOR:           "XOR",
	SHL:           "SHL",
	SHRU:          "SHRU",
	EQ:            "EQ",
	NE:            "NE",
	LTU:           "LTU",
	GTU:           "GTU",
	EQZ:           "EQZ",
	LOAD:          "LOAD",
	STORE:         "STORE",
	LOAD8:         "LOAD8",
	STORE8:        "STORE8",
	MEMSIZE:       "MEMSIZE",
	MEMGROW:       "MEMGROW",
}

func (op OpCode) String() string {
	if name, found := opCodeNames[op]; found {
		return name
	}
	if op.IsFloat() {
		return fmt.Sprintf("FLOAT(0x%02x)", byte(op))
	}
	return fmt.Sprintf("OpCode(%d)", byte(op))
}

// IsFloat returns true for the range of floating point instructions.
func (op OpCode) IsFloat() bool {
	return FloatFirst <= op && op <= FloatLast
}

// IsReserved returns true for instructions that are defined but may not be
// used by contracts.
func (op OpCode) IsReserved() bool {
	return op == CALL_INDIRECT || op == RETURN_CALL
}

// ImmediateSize returns the number of bytes following the opcode in the code.
func (op OpCode) ImmediateSize() int {
	switch op {
	case JUMP, JUMPI, LOAD, STORE, LOAD8, STORE8:
		return 4
	case CALL:
		return 2
	case HOSTCALL, DUP, SWAP, LOCAL_GET, LOCAL_SET:
		return 1
	case PUSH:
		return 8
	}
	return 0
}

// Width returns the total number of bytes of an instruction.
func (op OpCode) Width() int {
	return 1 + op.ImmediateSize()
}

// IsValid returns true for all instructions contracts may use.
func IsValid(op OpCode) bool {
	_, found := opCodeNames[op]
	return found && !op.IsReserved()
}

// ValidOpCodes returns all instructions contracts may use.
func ValidOpCodes() []OpCode {
	res := make([]OpCode, 0, len(opCodeNames))
	for i := 0; i < 256; i++ {
		if IsValid(OpCode(i)) {
			res = append(res, OpCode(i))
		}
	}
	return res
}
