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
	"encoding/binary"
	"fmt"

	"github.com/Fantom-foundation/Contessa/go/contessa"
	"github.com/Fantom-foundation/Contessa/go/contessa/vm"
	lru "github.com/hashicorp/golang-lru/v2"
)

// ConversionConfig configures the translation of module binaries into their
// executable form.
type ConversionConfig struct {
	// CacheSize is the maximum number of compiled modules retained in the
	// cache. If set to 0, a default size is used. If negative, no cache is used.
	CacheSize int
}

// Converter validates module binaries and compiles them into their executable
// form. Compiled modules are cached by their content hash. A Converter is
// thread-safe.
type Converter struct {
	schedule *contessa.Schedule
	cache    *lru.Cache[contessa.Hash, *Module]
}

const defaultCacheSize = 1 << 10

func NewConverter(config ConversionConfig, schedule *contessa.Schedule) (*Converter, error) {
	if config.CacheSize == 0 {
		config.CacheSize = defaultCacheSize
	}
	var cache *lru.Cache[contessa.Hash, *Module]
	if config.CacheSize > 0 {
		var err error
		cache, err = lru.New[contessa.Hash, *Module](config.CacheSize)
		if err != nil {
			return nil, err
		}
	}
	return &Converter{
		schedule: schedule,
		cache:    cache,
	}, nil
}

// Convert validates and compiles the given code. Results are cached under the
// given hash, which must be the content address of the code.
func (c *Converter) Convert(hash contessa.Hash, code contessa.Code) (*Module, error) {
	if c.cache == nil {
		return convert(hash, code, c.schedule)
	}
	if res, exists := c.cache.Get(hash); exists {
		return res, nil
	}
	res, err := convert(hash, code, c.schedule)
	if err != nil {
		return nil, err
	}
	c.cache.Add(hash, res)
	return res, nil
}

func convert(hash contessa.Hash, code contessa.Code, schedule *contessa.Schedule) (*Module, error) {
	limits := &schedule.Limits
	if len(code) > limits.CodeLen {
		return nil, fmt.Errorf("%w: %d bytes, limit is %d", contessa.ErrCodeTooLarge, len(code), limits.CodeLen)
	}

	decoded, err := vm.Decode(code)
	if err != nil {
		return nil, err
	}

	if decoded.MemoryInitial > decoded.MemoryMax {
		return nil, fmt.Errorf("%w: initial memory exceeds maximum", contessa.ErrInvalidModule)
	}
	if uint32(decoded.MemoryMax) > limits.MemoryPages {
		return nil, fmt.Errorf("%w: %d pages declared, limit is %d", contessa.ErrMemoryLimit, decoded.MemoryMax, limits.MemoryPages)
	}

	res := &Module{
		hash:          hash,
		memoryInitial: uint32(decoded.MemoryInitial),
		memoryMax:     uint32(decoded.MemoryMax),
		imports:       decoded.Imports,
		entries:       map[string]int{},
		data:          decoded.Data,
	}

	seen := map[string]bool{}
	for _, name := range decoded.Imports {
		host, found := hostFunctions[name]
		if !found {
			return nil, fmt.Errorf("%w: %q", contessa.ErrDisallowedImport, name)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: duplicate import %q", contessa.ErrInvalidModule, name)
		}
		seen[name] = true
		res.hostFunctions = append(res.hostFunctions, host)
	}

	for i, f := range decoded.Functions {
		compiled, err := convertFunction(f, decoded, &schedule.InstructionWeights)
		if err != nil {
			return nil, fmt.Errorf("function %d: %w", i, err)
		}
		res.functions = append(res.functions, compiled)
	}

	for _, entry := range []contessa.EntryPoint{contessa.EntryDeploy, contessa.EntryCall} {
		index, found := decoded.Export(string(entry))
		if !found {
			return nil, fmt.Errorf("%w: missing export %q", contessa.ErrInvalidModule, entry)
		}
		if int(index) >= len(res.functions) {
			return nil, fmt.Errorf("%w: export %q refers to unknown function %d", contessa.ErrInvalidModule, entry, index)
		}
		if f := res.functions[index]; f.params != 0 || f.results != 0 {
			return nil, fmt.Errorf("%w: entry point %q must not have parameters or results", contessa.ErrInvalidModule, entry)
		}
		res.entries[string(entry)] = int(index)
	}

	initialBytes := vm.MaxMemoryBytes(res.memoryInitial)
	for _, segment := range decoded.Data {
		if uint64(segment.Offset)+uint64(len(segment.Bytes)) > initialBytes {
			return nil, fmt.Errorf("%w: data segment exceeds initial memory", contessa.ErrInvalidModule)
		}
	}
	return res, nil
}

// convertFunction validates the code of a single function and translates it
// into instructions. Every basic block is prefixed by a CHARGE instruction
// debiting the static costs of the whole block.
func convertFunction(
	f vm.Function,
	module *vm.Module,
	weights *contessa.InstructionWeights,
) (function, error) {
	if f.Results > 1 {
		return function{}, fmt.Errorf("%w: at most one result supported", contessa.ErrInvalidModule)
	}
	numLocals := int(f.Params) + int(f.Locals)
	if numLocals > 255 {
		return function{}, fmt.Errorf("%w: too many locals", contessa.ErrInvalidModule)
	}
	if len(f.Code) == 0 {
		return function{}, fmt.Errorf("%w: empty function", contessa.ErrInvalidModule)
	}

	// Decode instructions and record their byte offsets.
	type decoded struct {
		op     vm.OpCode
		arg    uint64
		offset int
	}
	instructions := make([]decoded, 0, len(f.Code))
	indexOf := map[int]int{}
	for pos := 0; pos < len(f.Code); {
		op := vm.OpCode(f.Code[pos])
		if op.IsFloat() || op.IsReserved() {
			return function{}, fmt.Errorf("%w: %v at offset %d", contessa.ErrUnsupportedInstruction, op, pos)
		}
		if !vm.IsValid(op) {
			return function{}, fmt.Errorf("%w: unknown opcode 0x%02x at offset %d", contessa.ErrInvalidModule, byte(op), pos)
		}
		width := op.Width()
		if pos+width > len(f.Code) {
			return function{}, fmt.Errorf("%w: truncated immediate at offset %d", contessa.ErrInvalidModule, pos)
		}
		indexOf[pos] = len(instructions)
		instructions = append(instructions, decoded{
			op:     op,
			arg:    readImmediate(f.Code[pos+1 : pos+width]),
			offset: pos,
		})
		pos += width
	}

	last := instructions[len(instructions)-1].op
	if last != vm.RETURN && last != vm.JUMP && last != vm.UNREACHABLE {
		return function{}, fmt.Errorf("%w: function does not end with a terminating instruction", contessa.ErrInvalidModule)
	}

	// Validate immediates and determine the leaders of basic blocks.
	leaders := make([]bool, len(instructions))
	leaders[0] = true
	for i, cur := range instructions {
		switch cur.op {
		case vm.JUMP, vm.JUMPI:
			target, found := indexOf[int(cur.arg)]
			if !found {
				return function{}, fmt.Errorf("%w: invalid jump target %d at offset %d", contessa.ErrInvalidModule, cur.arg, cur.offset)
			}
			leaders[target] = true
		case vm.CALL:
			if cur.arg >= uint64(len(module.Functions)) {
				return function{}, fmt.Errorf("%w: call of unknown function %d", contessa.ErrInvalidModule, cur.arg)
			}
		case vm.HOSTCALL:
			if cur.arg >= uint64(len(module.Imports)) {
				return function{}, fmt.Errorf("%w: call of unknown import %d", contessa.ErrInvalidModule, cur.arg)
			}
		case vm.LOCAL_GET, vm.LOCAL_SET:
			if cur.arg >= uint64(numLocals) {
				return function{}, fmt.Errorf("%w: access of unknown local %d", contessa.ErrInvalidModule, cur.arg)
			}
		}
		if endsBlock(cur.op) && i+1 < len(instructions) {
			leaders[i+1] = true
		}
	}

	// Emit instructions, prefixing every block with a CHARGE.
	code := make([]Instruction, 0, len(instructions)+len(instructions)/4+1)
	position := make([]int, len(instructions))
	charge := -1
	for i, cur := range instructions {
		if leaders[i] {
			charge = len(code)
			code = append(code, Instruction{opcode: CHARGE})
		}
		position[i] = charge
		if !leaders[i] {
			position[i] = len(code)
		}
		code[charge].arg += instructionCost(cur.op, weights)
		code = append(code, Instruction{opcode: cur.op, arg: cur.arg})
	}
	for i := range code {
		if op := code[i].opcode; op == vm.JUMP || op == vm.JUMPI {
			code[i].arg = uint64(position[indexOf[int(code[i].arg)]])
		}
	}

	return function{
		params:  int(f.Params),
		results: int(f.Results),
		locals:  numLocals,
		code:    code,
	}, nil
}

// endsBlock returns true for instructions after which a new basic block starts.
func endsBlock(op vm.OpCode) bool {
	switch op {
	case vm.JUMP, vm.JUMPI, vm.RETURN, vm.UNREACHABLE:
		return true
	}
	return false
}

func readImmediate(data []byte) uint64 {
	switch len(data) {
	case 1:
		return uint64(data[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(data))
	case 4:
		return uint64(binary.LittleEndian.Uint32(data))
	case 8:
		return binary.LittleEndian.Uint64(data)
	}
	return 0
}
