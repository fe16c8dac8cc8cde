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
	"errors"
	"fmt"

	"github.com/Fantom-foundation/Contessa/go/contessa"
	"github.com/ethereum/go-ethereum/log"
)

// invocation is the call stack of a single top-level operation. Frames are
// driven iteratively: a frame requesting a nested call is suspended by the
// sandbox, the nested frame is pushed and run, and its result is handed back
// to the suspended frame once it ends.
type invocation struct {
	config   Config
	schedule *contessa.Schedule
	sandbox  contessa.Sandbox
	codes    *codeStore
	block    contessa.BlockParameters
	origin   contessa.Address
	frames   []*frame // < the active frames, the root frame first
	debug    []string
	debugLen int
}

// newOrigin creates the pseudo frame representing the origin of an
// invocation. It owns the transaction wide state and meters and is not part
// of the call stack.
func (inv *invocation) newOrigin(state *overlay, gas contessa.Weight, deposit uint64) *frame {
	return &frame{
		inv:     inv,
		account: inv.origin,
		caller:  inv.origin,
		state:   state,
		gas:     contessa.NewGasMeter(gas),
		deposit: newDepositMeter(deposit),
	}
}

// active returns true if the given account is executing in any frame.
func (inv *invocation) active(address contessa.Address) bool {
	for _, f := range inv.frames {
		if f.account == address {
			return true
		}
	}
	return false
}

// enter creates and pushes the frame of a nested call. If the call can not be
// started, no frame is pushed and the parent's state and meters are left
// untouched, except for the nonce consumed by an instantiation attempt.
func (inv *invocation) enter(parent *frame, request contessa.NestedCall) (*frame, error) {
	if len(inv.frames) >= inv.schedule.Limits.CallDepth {
		return nil, fmt.Errorf("%w: limit is %d", contessa.ErrCallStackOverflow, inv.schedule.Limits.CallDepth)
	}

	minimum := contessa.NewValue(inv.schedule.MinimumBalance)
	child := &frame{
		inv:      inv,
		parent:   parent,
		kind:     request.Kind,
		caller:   parent.account,
		value:    request.Value,
		input:    request.Input,
		readOnly: parent.readOnly || request.ReadOnly,
		state:    newOverlay(parent.state),
		deposit:  parent.deposit.nested(),
	}

	switch request.Kind {
	case contessa.Call:
		callee, found := child.state.GetAccount(request.Callee)
		if !found || !callee.IsContract() {
			return nil, fmt.Errorf("%w: %v", contessa.ErrContractNotFound, request.Callee)
		}
		if !inv.config.AllowReentry && inv.active(request.Callee) {
			return nil, fmt.Errorf("%w: %v", contessa.ErrReentranceDenied, request.Callee)
		}
		if err := transfer(child.state, parent.account, request.Callee, request.Value, minimum); err != nil {
			return nil, err
		}
		child.account = request.Callee
		child.codeHash = callee.Contract.CodeHash
		child.entry = contessa.EntryCall

	case contessa.DelegateCall:
		callee, found := child.state.GetAccount(request.Callee)
		if !found || !callee.IsContract() {
			return nil, fmt.Errorf("%w: %v", contessa.ErrNotCallable, request.Callee)
		}
		child.account = parent.account
		child.caller = parent.caller
		child.value = parent.value
		child.codeHash = callee.Contract.CodeHash
		child.entry = contessa.EntryCall

	case contessa.Instantiate:
		if child.readOnly {
			return nil, contessa.ErrReadOnlyViolation
		}
		if _, found := child.state.GetCode(request.CodeHash); !found {
			return nil, fmt.Errorf("%w: %v", contessa.ErrCodeNotFound, request.CodeHash)
		}

		// The nonce is consumed even if the instantiation fails.
		deployer, _ := parent.state.GetAccount(parent.account)
		nonce := deployer.Nonce
		deployer.Nonce++
		parent.state.SetAccount(parent.account, deployer)

		address := contractAddress(parent.account, nonce, request.CodeHash, request.Salt)
		account, _ := child.state.GetAccount(address)
		if account.IsContract() {
			return nil, fmt.Errorf("%w: %v", contessa.ErrDuplicateContract, address)
		}
		base := inv.schedule.DepositCosts.ContractBase
		if err := child.deposit.charge(contessa.Charge(base)); err != nil {
			return nil, err
		}
		account.Contract = &contessa.ContractInfo{
			CodeHash:        request.CodeHash,
			StorageID:       storageID(address, nonce),
			DepositReserved: base,
		}
		child.state.SetAccount(address, account)
		if err := inv.codes.acquire(child.state, request.CodeHash); err != nil {
			return nil, err
		}
		if err := transfer(child.state, parent.account, address, request.Value, minimum); err != nil {
			return nil, err
		}
		if endowed, _ := child.state.GetAccount(address); endowed.Balance.Cmp(minimum) < 0 {
			return nil, fmt.Errorf("%w: contract %v would hold %v, less than the minimum balance", contessa.ErrTransferFailed, address, endowed.Balance)
		}
		child.account = address
		child.codeHash = request.CodeHash
		child.entry = contessa.EntryDeploy

	default:
		return nil, fmt.Errorf("unsupported call kind %v", request.Kind)
	}

	child.gas = parent.gas.Nested(request.Gas)
	inv.frames = append(inv.frames, child)
	return child, nil
}

// start runs the entry point of a freshly entered frame.
func (inv *invocation) start(f *frame) contessa.Outcome {
	module, err := inv.codes.load(f.state, f.codeHash)
	if err != nil {
		return contessa.Outcome{Status: contessa.ExitTrapped, Err: err}
	}
	instance, err := inv.sandbox.Instantiate(module, inv.schedule.Limits.MemoryPages)
	if err != nil {
		return contessa.Outcome{Status: contessa.ExitTrapped, Err: err}
	}
	f.instance = instance
	return instance.Invoke(f.entry, f.input, f, f.gas)
}

// nested serves a nested call requested by the given frame. It either
// returns the entered child frame, or the result to hand back to the
// requesting frame immediately.
func (inv *invocation) nested(top *frame, request contessa.NestedCall) (*frame, contessa.CallResult) {
	if request.Kind == contessa.Call && !top.IsContract(request.Callee) {
		minimum := contessa.NewValue(inv.schedule.MinimumBalance)
		if err := transfer(top.state, top.account, request.Callee, request.Value, minimum); err != nil {
			log.Debug("Plain transfer failed", "from", top.account, "to", request.Callee, "err", err)
			return nil, contessa.CallResult{Code: contessa.TransferFailed}
		}
		return nil, contessa.CallResult{Code: contessa.Success}
	}
	child, err := inv.enter(top, request)
	if err != nil {
		log.Debug("Nested call rejected", "kind", request.Kind, "caller", top.account, "err", err)
		return nil, contessa.CallResult{Code: returnCode(err)}
	}
	return child, contessa.CallResult{}
}

// execute runs the given root frame and all frames nested in it. It returns
// the result of the root frame and, if the root frame trapped, the reason.
func (inv *invocation) execute(root *frame) (contessa.CallResult, error) {
	outcome := inv.start(root)
	for {
		top := inv.frames[len(inv.frames)-1]
		if outcome.Status == contessa.ExitSuspended {
			child, result := inv.nested(top, *outcome.Call)
			if child != nil {
				outcome = inv.start(child)
			} else {
				outcome = top.instance.Resume(result)
			}
			continue
		}
		result, err := inv.finish(top, outcome)
		if top == root {
			return result, err
		}
		outcome = top.parent.instance.Resume(result)
	}
}

// finish pops the given frame, merging its effects into its parent if it
// ended successfully. Unused weight is returned to the parent in any case.
func (inv *invocation) finish(f *frame, outcome contessa.Outcome) (contessa.CallResult, error) {
	if f.instance != nil {
		f.instance.Release()
		f.instance = nil
	}
	inv.frames = inv.frames[:len(inv.frames)-1]
	f.parent.gas.Absorb(f.gas)

	switch outcome.Status {
	case contessa.ExitReturned, contessa.ExitTerminated:
		f.state.commit()
		f.parent.deposit.absorb(f.deposit)
		result := contessa.CallResult{Code: contessa.Success, Output: outcome.Output}
		if f.kind == contessa.Instantiate {
			result.Address = f.account
		}
		return result, nil
	case contessa.ExitReverted:
		return contessa.CallResult{Code: contessa.CalleeReverted, Output: outcome.Output}, nil
	}

	err := outcome.Err
	if err == nil {
		err = fmt.Errorf("unexpected exit status %v", outcome.Status)
	}
	log.Debug("Frame trapped", "frame", f, "depth", len(inv.frames), "err", err)
	code := contessa.CalleeTrapped
	switch {
	case errors.Is(err, contessa.ErrOutOfGas):
		code = contessa.OutOfGas
	case errors.Is(err, contessa.ErrStorageDepositLimitExhausted):
		code = contessa.StorageDepositLimitExhausted
	}
	return contessa.CallResult{Code: code}, err
}

// returnCode maps the reason a nested call could not be entered to the code
// reported to the calling contract.
func returnCode(err error) contessa.ReturnCode {
	switch {
	case errors.Is(err, contessa.ErrCallStackOverflow):
		return contessa.CallStackOverflow
	case errors.Is(err, contessa.ErrContractNotFound), errors.Is(err, contessa.ErrNotCallable):
		return contessa.NotCallable
	case errors.Is(err, contessa.ErrCodeNotFound):
		return contessa.CodeNotFound
	case errors.Is(err, contessa.ErrDuplicateContract):
		return contessa.DuplicateContract
	case errors.Is(err, contessa.ErrTransferFailed):
		return contessa.TransferFailed
	case errors.Is(err, contessa.ErrStorageDepositLimitExhausted):
		return contessa.StorageDepositLimitExhausted
	}
	return contessa.CalleeTrapped
}
