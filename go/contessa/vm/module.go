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

import (
	"encoding/binary"
	"fmt"

	"github.com/Fantom-foundation/Contessa/go/contessa"
)

// Magic is the prefix of every module binary.
const Magic = "\x00cvm"

// Version is the only supported version of the module binary format.
const Version = 1

// PageSize is the size of a linear memory page in bytes.
const PageSize = 64 * 1024

// Module is the decoded, not yet validated, form of a module binary.
type Module struct {
	MemoryInitial uint16
	MemoryMax     uint16
	Imports       []string
	Exports       []Export
	Functions     []Function
	Data          []DataSegment
}

// Export binds a name to a function of the module.
type Export struct {
	Name     string
	Function uint16
}

// Function is a function of a module. Parameters are the first locals of a
// function, followed by Locals zero-initialized locals.
type Function struct {
	Params  uint8
	Results uint8
	Locals  uint8
	Code    []byte
}

// DataSegment is copied into linear memory when a module is instantiated.
type DataSegment struct {
	Offset uint32
	Bytes  []byte
}

// Export looks up the function exported under the given name.
func (m *Module) Export(name string) (uint16, bool) {
	for _, export := range m.Exports {
		if export.Name == name {
			return export.Function, true
		}
	}
	return 0, false
}

// Encode produces the binary representation of the module.
func (m *Module) Encode() []byte {
	res := make([]byte, 0, 64)
	res = append(res, Magic...)
	res = append(res, Version)
	res = binary.LittleEndian.AppendUint16(res, m.MemoryInitial)
	res = binary.LittleEndian.AppendUint16(res, m.MemoryMax)
	res = append(res, byte(len(m.Imports)))
	for _, name := range m.Imports {
		res = appendName(res, name)
	}
	res = append(res, byte(len(m.Exports)))
	for _, export := range m.Exports {
		res = appendName(res, export.Name)
		res = binary.LittleEndian.AppendUint16(res, export.Function)
	}
	res = binary.LittleEndian.AppendUint16(res, uint16(len(m.Functions)))
	for _, f := range m.Functions {
		res = append(res, f.Params, f.Results, f.Locals)
		res = binary.LittleEndian.AppendUint32(res, uint32(len(f.Code)))
		res = append(res, f.Code...)
	}
	res = append(res, byte(len(m.Data)))
	for _, segment := range m.Data {
		res = binary.LittleEndian.AppendUint32(res, segment.Offset)
		res = binary.LittleEndian.AppendUint32(res, uint32(len(segment.Bytes)))
		res = append(res, segment.Bytes...)
	}
	return res
}

func appendName(res []byte, name string) []byte {
	res = append(res, byte(len(name)))
	return append(res, name...)
}

// Decode parses a module binary. Only the structure of the binary is checked,
// the semantic validation of the code is left to the sandbox. All failures are
// reported as contessa.ErrInvalidModule.
func Decode(code []byte) (*Module, error) {
	r := reader{data: code}
	if magic := r.bytes(len(Magic)); string(magic) != Magic {
		return nil, fmt.Errorf("%w: missing magic prefix", contessa.ErrInvalidModule)
	}
	if version := r.u8(); version != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", contessa.ErrInvalidModule, version)
	}

	res := &Module{}
	res.MemoryInitial = r.u16()
	res.MemoryMax = r.u16()

	numImports := int(r.u8())
	for i := 0; i < numImports && r.err == nil; i++ {
		res.Imports = append(res.Imports, r.name())
	}

	numExports := int(r.u8())
	for i := 0; i < numExports && r.err == nil; i++ {
		res.Exports = append(res.Exports, Export{
			Name:     r.name(),
			Function: r.u16(),
		})
	}

	numFunctions := int(r.u16())
	for i := 0; i < numFunctions && r.err == nil; i++ {
		f := Function{
			Params:  r.u8(),
			Results: r.u8(),
			Locals:  r.u8(),
		}
		f.Code = r.bytes(int(r.u32()))
		res.Functions = append(res.Functions, f)
	}

	numSegments := int(r.u8())
	for i := 0; i < numSegments && r.err == nil; i++ {
		segment := DataSegment{Offset: r.u32()}
		segment.Bytes = r.bytes(int(r.u32()))
		res.Data = append(res.Data, segment)
	}

	if r.err != nil {
		return nil, r.err
	}
	if r.pos != len(r.data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", contessa.ErrInvalidModule, len(r.data)-r.pos)
	}
	return res, nil
}

// reader is a cursor on a module binary recording the first decoding error.
type reader struct {
	data []byte
	pos  int
	err  error
}

func (r *reader) bytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || n > len(r.data)-r.pos {
		r.err = fmt.Errorf("%w: unexpected end of module at offset %d", contessa.ErrInvalidModule, r.pos)
		return nil
	}
	res := r.data[r.pos : r.pos+n]
	r.pos += n
	return res
}

func (r *reader) u8() uint8 {
	if b := r.bytes(1); b != nil {
		return b[0]
	}
	return 0
}

func (r *reader) u16() uint16 {
	if b := r.bytes(2); b != nil {
		return binary.LittleEndian.Uint16(b)
	}
	return 0
}

func (r *reader) u32() uint32 {
	if b := r.bytes(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

func (r *reader) name() string {
	return string(r.bytes(int(r.u8())))
}

// MaxMemoryBytes returns the size of the given number of pages in bytes.
func MaxMemoryBytes(pages uint32) uint64 {
	return uint64(pages) * PageSize
}
