// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package fauna

import (
	"fmt"

	"github.com/Fantom-foundation/Contessa/go/contessa"
	"github.com/ethereum/go-ethereum/log"
)

func init() {
	contessa.RegisterProcessorFactory("fauna", newProcessor)
}

// Config customizes the behavior of a Processor.
type Config struct {
	// DebugMessages retains messages of the debug_message host function in
	// the receipts. If disabled, the host function reports LoggingDisabled.
	DebugMessages bool
	// AllowReentry permits calls of contracts already executing on the call
	// stack.
	AllowReentry bool
	// DryRun evaluates operations without committing their effects.
	DryRun bool
}

// DefaultConfig returns the configuration used by on-chain execution.
func DefaultConfig() Config {
	return Config{AllowReentry: true}
}

func newProcessor(sandbox contessa.Sandbox, config any) (contessa.Processor, error) {
	switch c := config.(type) {
	case nil:
		return NewProcessor(sandbox, DefaultConfig()), nil
	case Config:
		return NewProcessor(sandbox, c), nil
	case *Config:
		if c == nil {
			return NewProcessor(sandbox, DefaultConfig()), nil
		}
		return NewProcessor(sandbox, *c), nil
	}
	return nil, fmt.Errorf("unsupported configuration type %T", config)
}

// Processor implements the upward interface of the execution core on top of
// a Sandbox. The schedule of the sandbox determines all limits and prices.
type Processor struct {
	sandbox  contessa.Sandbox
	config   Config
	schedule contessa.Schedule
	codes    *codeStore
}

var _ contessa.Processor = (*Processor)(nil)

// NewProcessor creates a processor executing contracts on the given sandbox.
func NewProcessor(sandbox contessa.Sandbox, config Config) *Processor {
	p := &Processor{
		sandbox:  sandbox,
		config:   config,
		schedule: sandbox.Schedule(),
	}
	p.codes = &codeStore{sandbox: sandbox, schedule: &p.schedule}
	return p
}

func (p *Processor) UploadCode(state contessa.WorldState, request contessa.UploadRequest) (contessa.Receipt, error) {
	tx := newOverlay(state)
	receipt, err := p.uploadCode(tx, request)
	return p.conclude(state, tx, receipt, err)
}

func (p *Processor) uploadCode(tx *overlay, request contessa.UploadRequest) (contessa.Receipt, error) {
	receipt := contessa.Receipt{GasConsumed: p.uploadWeight(len(request.Code))}
	hash, deposit, err := p.codes.upload(tx, request.Origin, request.Code)
	if err != nil {
		return receipt, err
	}
	if request.DepositLimit != 0 && deposit > request.DepositLimit {
		return receipt, fmt.Errorf("%w: code deposit is %d, limit is %d", contessa.ErrStorageDepositLimitExhausted, deposit, request.DepositLimit)
	}
	if err := settle(tx, request.Origin, contessa.Charge(deposit)); err != nil {
		return receipt, err
	}
	receipt.CodeHash = hash
	receipt.Deposit = contessa.Charge(deposit)
	return receipt, nil
}

func (p *Processor) Instantiate(block contessa.BlockParameters, state contessa.WorldState, request contessa.InstantiateRequest) (contessa.Receipt, error) {
	tx := newOverlay(state)
	receipt, err := p.instantiate(block, tx, request)
	return p.conclude(state, tx, receipt, err)
}

func (p *Processor) instantiate(block contessa.BlockParameters, tx *overlay, request contessa.InstantiateRequest) (contessa.Receipt, error) {
	inv := p.newInvocation(block, request.Origin)
	origin := inv.newOrigin(tx, request.GasLimit, p.depositLimit(tx, request.Origin, request.Value, request.DepositLimit))

	hash := request.CodeHash
	if request.Code != nil {
		if err := origin.gas.Charge(p.uploadWeight(len(request.Code))); err != nil {
			return p.receipt(inv, origin, contessa.CallResult{}), err
		}
		uploaded, deposit, err := p.codes.upload(tx, request.Origin, request.Code)
		if err != nil {
			return p.receipt(inv, origin, contessa.CallResult{}), err
		}
		if err := origin.deposit.charge(contessa.Charge(deposit)); err != nil {
			return p.receipt(inv, origin, contessa.CallResult{}), err
		}
		hash = uploaded
	}

	root, err := inv.enter(origin, contessa.NestedCall{
		Kind:     contessa.Instantiate,
		CodeHash: hash,
		Value:    request.Value,
		Input:    request.Input,
		Salt:     request.Salt,
	})
	if err != nil {
		return p.receipt(inv, origin, contessa.CallResult{}), err
	}
	result, err := inv.execute(root)
	receipt, err := p.complete(inv, origin, result, err)
	receipt.CodeHash = hash
	return receipt, err
}

func (p *Processor) Call(block contessa.BlockParameters, state contessa.WorldState, request contessa.CallRequest) (contessa.Receipt, error) {
	tx := newOverlay(state)
	receipt, err := p.call(block, tx, request)
	return p.conclude(state, tx, receipt, err)
}

func (p *Processor) call(block contessa.BlockParameters, tx *overlay, request contessa.CallRequest) (contessa.Receipt, error) {
	inv := p.newInvocation(block, request.Origin)
	origin := inv.newOrigin(tx, request.GasLimit, p.depositLimit(tx, request.Origin, request.Value, request.DepositLimit))

	root, err := inv.enter(origin, contessa.NestedCall{
		Kind:   contessa.Call,
		Callee: request.Dest,
		Value:  request.Value,
		Input:  request.Input,
	})
	if err != nil {
		return p.receipt(inv, origin, contessa.CallResult{}), err
	}
	result, err := inv.execute(root)
	return p.complete(inv, origin, result, err)
}

func (p *Processor) RemoveCode(state contessa.WorldState, request contessa.RemoveCodeRequest) (contessa.Receipt, error) {
	receipt := contessa.Receipt{GasConsumed: p.schedule.HostFnWeights.CodeHash}
	tx := newOverlay(state)
	refund, err := p.codes.remove(tx, request.Origin, request.CodeHash)
	if err == nil {
		receipt.CodeHash = request.CodeHash
		receipt.Deposit = contessa.Refund(refund)
	}
	return p.conclude(state, tx, receipt, err)
}

func (p *Processor) newInvocation(block contessa.BlockParameters, origin contessa.Address) *invocation {
	return &invocation{
		config:   p.config,
		schedule: &p.schedule,
		sandbox:  p.sandbox,
		codes:    p.codes,
		block:    block,
		origin:   origin,
	}
}

// depositLimit computes the deposit the origin may be charged by an
// invocation: the requested limit, bounded by what remains of the origin's
// balance after the transferred value. A zero limit only applies the bound.
func (p *Processor) depositLimit(state contessa.WorldState, origin contessa.Address, value contessa.Value, limit uint64) uint64 {
	account, _ := state.GetAccount(origin)
	remainder, underflow := contessa.Sub(account.Balance, value)
	if underflow {
		return 0
	}
	available := ^uint64(0)
	if remainder.IsUint64() {
		available = remainder.Uint64()
	}
	if limit == 0 || limit > available {
		return available
	}
	return limit
}

func (p *Processor) uploadWeight(codeLen int) contessa.Weight {
	perByte := contessa.NewWeight(p.schedule.HostFnWeights.UploadPerByte, 1)
	return p.schedule.HostFnWeights.UploadBase.SaturatingAdd(perByte.SaturatingMul(uint64(codeLen)))
}

func (p *Processor) receipt(inv *invocation, origin *frame, result contessa.CallResult) contessa.Receipt {
	return contessa.Receipt{
		Output:        result.Output,
		Address:       result.Address,
		GasConsumed:   origin.gas.Consumed(),
		DebugMessages: inv.debug,
	}
}

// complete settles the deposit of a finished invocation. Its effects are
// committed by conclude if the root frame succeeded.
func (p *Processor) complete(inv *invocation, origin *frame, result contessa.CallResult, err error) (contessa.Receipt, error) {
	receipt := p.receipt(inv, origin, result)
	switch result.Code {
	case contessa.Success:
		deposit := origin.deposit.total
		if err := settle(origin.state, origin.account, deposit); err != nil {
			receipt.Address = contessa.Address{}
			return receipt, err
		}
		receipt.Deposit = deposit
		receipt.Events = origin.state.events
		log.Debug("Invocation succeeded", "origin", origin.account, "gas", receipt.GasConsumed, "deposit", deposit, "events", len(receipt.Events))
		return receipt, nil
	case contessa.CalleeReverted:
		log.Debug("Invocation reverted", "origin", origin.account, "gas", receipt.GasConsumed)
		return receipt, contessa.ErrContractReverted
	}
	log.Debug("Invocation trapped", "origin", origin.account, "gas", receipt.GasConsumed, "limit", origin.gas.Limit(), "err", err)
	return receipt, fmt.Errorf("%w: %w", contessa.ErrContractTrapped, err)
}

// conclude commits the effects of a successful operation to the given state
// and flushes persistent states. Storage failures take precedence over the
// outcome of the operation, since it may be based on incomplete reads.
func (p *Processor) conclude(state contessa.WorldState, tx *overlay, receipt contessa.Receipt, err error) (contessa.Receipt, error) {
	persistent, _ := state.(contessa.PersistentWorldState)
	if persistent != nil {
		if failure := persistent.Err(); failure != nil {
			log.Error("World state failed during operation", "err", failure)
			return stateFailure(receipt), fmt.Errorf("%w: %w", contessa.ErrStateFailure, failure)
		}
	}
	if err != nil || p.config.DryRun {
		return receipt, err
	}
	tx.commit()
	if persistent != nil {
		if failure := persistent.Flush(); failure != nil {
			log.Error("Failed to persist operation", "err", failure)
			return stateFailure(receipt), fmt.Errorf("%w: %w", contessa.ErrStateFailure, failure)
		}
	}
	return receipt, nil
}

// stateFailure strips the effects from the receipt of an operation that
// could not be applied.
func stateFailure(receipt contessa.Receipt) contessa.Receipt {
	return contessa.Receipt{GasConsumed: receipt.GasConsumed, DebugMessages: receipt.DebugMessages}
}
