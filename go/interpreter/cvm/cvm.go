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
	"fmt"
	"io"
	"os"

	"github.com/Fantom-foundation/Contessa/go/contessa"
)

// Registers the contract VM as a possible sandbox implementation.
func init() {
	configs := map[string]Config{
		// The officially supported configuration for production purposes.
		"cvm": {WithHashCache: true},
		// Debugging configurations, tracing every instruction or collecting
		// instruction statistics.
		"cvm-logging": {WithHashCache: true, runner: newLogger(os.Stderr)},
		"cvm-stats":   {WithHashCache: true, runner: &statisticRunner{stats: newStatistics()}},
	}
	for name, config := range configs {
		config := config
		err := contessa.RegisterSandboxFactory(name, func(schedule any) (contessa.Sandbox, error) {
			config := config
			switch s := schedule.(type) {
			case nil:
			case contessa.Schedule:
				config.Schedule = &s
			case *contessa.Schedule:
				config.Schedule = s
			default:
				return nil, fmt.Errorf("unsupported configuration type %T", schedule)
			}
			return NewSandbox(config)
		})
		if err != nil {
			panic(err)
		}
	}
}

// Config configures a contract VM sandbox.
type Config struct {
	ConversionConfig
	// Schedule defines the costs and limits applied to executions. If nil,
	// the default schedule is used.
	Schedule      *contessa.Schedule
	WithHashCache bool
	runner        runner
}

type cvm struct {
	config    Config
	schedule  contessa.Schedule
	converter *Converter
	hashes    *keccakCache
}

// NewSandbox creates a sandbox executing contract modules with the contract
// VM.
func NewSandbox(config Config) (*cvm, error) {
	schedule := contessa.DefaultSchedule()
	if config.Schedule != nil {
		schedule = *config.Schedule
	}
	res := &cvm{config: config, schedule: schedule}
	converter, err := NewConverter(config.ConversionConfig, &res.schedule)
	if err != nil {
		return nil, fmt.Errorf("failed to create converter: %v", err)
	}
	res.converter = converter
	if config.WithHashCache {
		res.hashes = newKeccakCache(1<<10, 1<<10)
	}
	if res.config.runner == nil {
		res.config.runner = vanillaRunner{}
	}
	return res, nil
}

func (v *cvm) Schedule() contessa.Schedule {
	return v.schedule
}

func (v *cvm) Compile(hash contessa.Hash, code contessa.Code) (contessa.Module, error) {
	return v.converter.Convert(hash, code)
}

func (v *cvm) Instantiate(module contessa.Module, memoryLimit uint32) (contessa.Instance, error) {
	m, ok := module.(*Module)
	if !ok {
		return nil, fmt.Errorf("%w: module of type %T", contessa.ErrInvalidModule, module)
	}
	if m.memoryInitial > memoryLimit {
		return nil, fmt.Errorf("%w: %d initial pages exceed limit of %d", contessa.ErrMemoryLimit, m.memoryInitial, memoryLimit)
	}
	mem := newMemory(m.memoryInitial, min(m.memoryMax, memoryLimit))
	for _, segment := range m.data {
		target, err := mem.slice(uint64(segment.Offset), uint64(len(segment.Bytes)))
		if err != nil {
			return nil, fmt.Errorf("%w: data segment out of bounds", contessa.ErrInvalidModule)
		}
		copy(target, segment.Bytes)
	}
	return &instance{
		runner: v.config.runner,
		ctxt: context{
			module:   m,
			schedule: &v.schedule,
			hashes:   v.hashes,
			memory:   mem,
		},
	}, nil
}

var _ contessa.ProfilingSandbox = (*cvm)(nil)

// DumpProfile writes the instruction statistics of the cvm-stats
// configuration. Other configurations collect no profile.
func (v *cvm) DumpProfile(out io.Writer) {
	if statsRunner, ok := v.config.runner.(*statisticRunner); ok {
		fmt.Fprint(out, statsRunner.getSummary())
	}
}

func (v *cvm) ResetProfile() {
	if statsRunner, ok := v.config.runner.(*statisticRunner); ok {
		statsRunner.reset()
	}
}

// instance is a single instantiation of a module. It is used for exactly one
// invocation, which may be suspended and resumed for nested calls.
type instance struct {
	runner  runner
	ctxt    context
	invoked bool
}

func (i *instance) Invoke(
	entry contessa.EntryPoint,
	input contessa.Data,
	host contessa.HostContext,
	meter *contessa.GasMeter,
) contessa.Outcome {
	if i.invoked {
		return trapped(fmt.Errorf("instance already invoked"))
	}
	i.invoked = true
	function, found := i.ctxt.module.entries[string(entry)]
	if !found {
		return trapped(fmt.Errorf("%w: missing entry point %q", contessa.ErrInvalidModule, entry))
	}

	c := &i.ctxt
	c.host = host
	c.meter = meter
	c.input = input
	c.stack = NewStack()
	c.locals = make([]uint64, c.module.functions[function].locals)
	c.enter(function, 0)
	return i.run()
}

func (i *instance) Resume(result contessa.CallResult) contessa.Outcome {
	c := &i.ctxt
	pending := c.pending
	if pending == nil {
		return trapped(fmt.Errorf("no suspended call to resume"))
	}
	c.pending = nil
	if err := deliver(c, pending, result); err != nil {
		return trapped(err)
	}
	c.stack.push(uint64(result.Code))
	c.pc++
	return i.run()
}

func (i *instance) Release() {
	if i.ctxt.stack != nil {
		ReturnStack(i.ctxt.stack)
		i.ctxt.stack = nil
	}
}

func (i *instance) run() contessa.Outcome {
	c := &i.ctxt
	c.halt = statusRunning
	status, err := i.runner.run(c)
	if err != nil {
		return trapped(err)
	}
	switch status {
	case statusReturned:
		return contessa.Outcome{Status: contessa.ExitReturned, Output: c.output}
	case statusReverted:
		return contessa.Outcome{Status: contessa.ExitReverted, Output: c.output}
	case statusTerminated:
		return contessa.Outcome{Status: contessa.ExitTerminated}
	case statusSuspended:
		request := c.pending.request
		return contessa.Outcome{Status: contessa.ExitSuspended, Call: &request}
	}
	return trapped(fmt.Errorf("unexpected execution status %v", status))
}

func trapped(err error) contessa.Outcome {
	return contessa.Outcome{Status: contessa.ExitTrapped, Err: err}
}
