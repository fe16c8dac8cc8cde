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
	"bytes"
	"errors"
	"testing"

	"github.com/Fantom-foundation/Contessa/go/contessa"
	"github.com/Fantom-foundation/Contessa/go/state"
	"go.uber.org/mock/gomock"
)

var (
	testOrigin = contessa.Address{0xA}
	testOwner  = contessa.Address{0xB}
)

type contractFn func(instance *contessa.MockInstance)

// testEnv runs a processor on a mocked sandbox. The behavior of contracts is
// scripted per code hash by setting up the expectations of fresh instances.
type testEnv struct {
	ctrl      *gomock.Controller
	sandbox   *contessa.MockSandbox
	state     *state.Memory
	schedule  contessa.Schedule
	contracts map[contessa.Hash]contractFn
}

func newTestEnv(t *testing.T) *testEnv {
	ctrl := gomock.NewController(t)
	env := &testEnv{
		ctrl:      ctrl,
		sandbox:   contessa.NewMockSandbox(ctrl),
		state:     state.NewMemory(),
		schedule:  contessa.DefaultSchedule(),
		contracts: map[contessa.Hash]contractFn{},
	}
	env.sandbox.EXPECT().Schedule().DoAndReturn(func() contessa.Schedule {
		return env.schedule
	}).AnyTimes()
	env.sandbox.EXPECT().Compile(gomock.Any(), gomock.Any()).DoAndReturn(
		func(hash contessa.Hash, _ contessa.Code) (contessa.Module, error) {
			module := contessa.NewMockModule(ctrl)
			module.EXPECT().Hash().Return(hash).AnyTimes()
			return module, nil
		}).AnyTimes()
	env.sandbox.EXPECT().Instantiate(gomock.Any(), gomock.Any()).DoAndReturn(
		func(module contessa.Module, _ uint32) (contessa.Instance, error) {
			setup, found := env.contracts[module.Hash()]
			if !found {
				return nil, contessa.ErrInvalidModule
			}
			instance := contessa.NewMockInstance(ctrl)
			instance.EXPECT().Release()
			setup(instance)
			return instance, nil
		}).AnyTimes()
	env.state.SetAccount(testOrigin, contessa.Account{Balance: contessa.NewValue(1_000_000)})
	return env
}

func (e *testEnv) processor(config Config) *Processor {
	return NewProcessor(e.sandbox, config)
}

// code registers the behavior of the given code and stores the code.
func (e *testEnv) code(name string, fn contractFn) contessa.Hash {
	code := contessa.Code(name)
	hash := contessa.HashCode(code)
	e.contracts[hash] = fn
	if _, found := e.state.GetCode(hash); !found {
		e.state.SetCode(hash, contessa.CodeInfo{Owner: testOwner, Code: code})
	}
	return hash
}

// deploy installs a contract running the given behavior at the given address.
func (e *testEnv) deploy(address contessa.Address, balance uint64, fn contractFn) {
	hash := e.code(address.String(), fn)
	info, _ := e.state.GetCode(hash)
	info.RefCount++
	e.state.SetCode(hash, info)
	e.state.SetAccount(address, contessa.Account{
		Balance: contessa.NewValue(balance),
		Contract: &contessa.ContractInfo{
			CodeHash:        hash,
			StorageID:       storageID(address, 0),
			DepositReserved: e.schedule.DepositCosts.ContractBase,
		},
	})
}

func (e *testEnv) balance(address contessa.Address) contessa.Value {
	account, _ := e.state.GetAccount(address)
	return account.Balance
}

func (e *testEnv) codeHash(address contessa.Address) contessa.Hash {
	account, _ := e.state.GetAccount(address)
	return account.Contract.CodeHash
}

func (e *testEnv) call(p *Processor, dest contessa.Address, input contessa.Data) (contessa.Receipt, error) {
	return p.Call(contessa.BlockParameters{BlockNumber: 1}, e.state, contessa.CallRequest{
		Origin:   testOrigin,
		Dest:     dest,
		GasLimit: contessa.NewWeight(1_000_000, 1_000_000),
		Input:    input,
	})
}

// running scripts a contract returning the outcome of the given function.
func running(fn func(ctx contessa.HostContext, input contessa.Data, meter *contessa.GasMeter) contessa.Outcome) contractFn {
	return func(instance *contessa.MockInstance) {
		instance.EXPECT().Invoke(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ contessa.EntryPoint, input contessa.Data, ctx contessa.HostContext, meter *contessa.GasMeter) contessa.Outcome {
				return fn(ctx, input, meter)
			})
	}
}

// calling scripts a contract running before, requesting the given nested
// call, and finishing with the outcome of after.
func calling(
	before func(ctx contessa.HostContext, meter *contessa.GasMeter),
	request contessa.NestedCall,
	after func(ctx contessa.HostContext, result contessa.CallResult) contessa.Outcome,
) contractFn {
	return func(instance *contessa.MockInstance) {
		var host contessa.HostContext
		instance.EXPECT().Invoke(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ contessa.EntryPoint, _ contessa.Data, ctx contessa.HostContext, meter *contessa.GasMeter) contessa.Outcome {
				host = ctx
				if before != nil {
					before(ctx, meter)
				}
				return contessa.Outcome{Status: contessa.ExitSuspended, Call: &request}
			})
		instance.EXPECT().Resume(gomock.Any()).DoAndReturn(func(result contessa.CallResult) contessa.Outcome {
			return after(host, result)
		})
	}
}

func returning(output string) contessa.Outcome {
	return contessa.Outcome{Status: contessa.ExitReturned, Output: contessa.Data(output)}
}

func trapped(err error) contessa.Outcome {
	return contessa.Outcome{Status: contessa.ExitTrapped, Err: err}
}

func returnCodeOutput(_ contessa.HostContext, result contessa.CallResult) contessa.Outcome {
	return contessa.Outcome{Status: contessa.ExitReturned, Output: append(contessa.Data{byte(result.Code)}, result.Output...)}
}

func TestProcessor_FactoryAcceptsConfigurations(t *testing.T) {
	env := newTestEnv(t)
	tests := map[string]struct {
		config any
		valid  bool
	}{
		"nil":         {config: nil, valid: true},
		"value":       {config: Config{DryRun: true}, valid: true},
		"pointer":     {config: &Config{DebugMessages: true}, valid: true},
		"nil pointer": {config: (*Config)(nil), valid: true},
		"other":       {config: "dry-run", valid: false},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			processor, err := contessa.NewProcessor("fauna", env.sandbox, test.config)
			if test.valid && (err != nil || processor == nil) {
				t.Errorf("failed to create processor: %v", err)
			}
			if !test.valid && err == nil {
				t.Errorf("expected configuration to be rejected")
			}
		})
	}
}

func TestProcessor_SuccessfulCallCommitsStorageAndCharges(t *testing.T) {
	env := newTestEnv(t)
	contract := contessa.Address{1}
	env.deploy(contract, 1000, running(func(ctx contessa.HostContext, input contessa.Data, _ *contessa.GasMeter) contessa.Outcome {
		if _, _, err := ctx.SetStorage([]byte("key"), input); err != nil {
			return trapped(err)
		}
		ctx.DepositEvent([]contessa.Hash{{1}}, contessa.Data("stored"))
		return returning("done")
	}))

	receipt, err := env.call(env.processor(DefaultConfig()), contract, contessa.Data("value"))
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	deposit := env.schedule.DepositCosts.ItemDeposit(3, 5)
	if want, got := contessa.Charge(deposit), receipt.Deposit; want != got {
		t.Errorf("unexpected deposit, wanted %v, got %v", want, got)
	}
	if want, got := "done", string(receipt.Output); want != got {
		t.Errorf("unexpected output, wanted %q, got %q", want, got)
	}
	if want, got := 1, len(receipt.Events); want != got || receipt.Events[0].Contract != contract {
		t.Errorf("unexpected events %v", receipt.Events)
	}
	if want, got := contessa.NewValue(1_000_000-deposit), env.balance(testOrigin); want != got {
		t.Errorf("unexpected origin balance, wanted %v, got %v", want, got)
	}
	account, _ := env.state.GetAccount(contract)
	if want, got := env.schedule.DepositCosts.ContractBase+deposit, account.Contract.DepositReserved; want != got {
		t.Errorf("unexpected reserved deposit, wanted %d, got %d", want, got)
	}
	if want, got := account.Contract.ExpectedDeposit(env.schedule.DepositCosts), account.Contract.DepositReserved; want != got {
		t.Errorf("reserved deposit does not match storage, wanted %d, got %d", want, got)
	}
	if value, found := env.state.GetStorage(account.Contract.StorageID, []byte("key")); !found || string(value) != "value" {
		t.Errorf("storage was not committed, got %q", value)
	}
}

func TestProcessor_FailedCallsDiscardAllEffects(t *testing.T) {
	tests := map[string]struct {
		outcome contessa.Outcome
		err     error
		output  string
	}{
		"reverted": {outcome: contessa.Outcome{Status: contessa.ExitReverted, Output: contessa.Data("reason")}, err: contessa.ErrContractReverted, output: "reason"},
		"trapped":  {outcome: trapped(contessa.ErrUnreachable), err: contessa.ErrUnreachable},
		"gas":      {outcome: trapped(contessa.ErrOutOfGas), err: contessa.ErrContractTrapped},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t)
			contract := contessa.Address{1}
			env.deploy(contract, 1000, running(func(ctx contessa.HostContext, _ contessa.Data, meter *contessa.GasMeter) contessa.Outcome {
				if err := meter.Charge(contessa.RefTimeOnly(500)); err != nil {
					return trapped(err)
				}
				if _, _, err := ctx.SetStorage([]byte("key"), []byte("value")); err != nil {
					return trapped(err)
				}
				if err := ctx.Transfer(contessa.Address{2}, contessa.NewValue(500)); err != nil {
					return trapped(err)
				}
				return test.outcome
			}))
			before := env.state.Clone()

			receipt, err := env.call(env.processor(DefaultConfig()), contract, nil)
			if !errors.Is(err, test.err) {
				t.Fatalf("unexpected error, wanted %v, got %v", test.err, err)
			}
			if !env.state.Equal(before) {
				t.Errorf("failed call modified the state")
			}
			if want, got := uint64(500), receipt.GasConsumed.RefTime; want != got {
				t.Errorf("unexpected gas consumption, wanted %d, got %d", want, got)
			}
			if want, got := test.output, string(receipt.Output); want != got {
				t.Errorf("unexpected output, wanted %q, got %q", want, got)
			}
		})
	}
}

func TestProcessor_CallOfNonContractFails(t *testing.T) {
	env := newTestEnv(t)
	env.state.SetAccount(contessa.Address{1}, contessa.Account{Balance: contessa.NewValue(100)})
	if _, err := env.call(env.processor(DefaultConfig()), contessa.Address{1}, nil); !errors.Is(err, contessa.ErrContractNotFound) {
		t.Errorf("expected contract not to be found, got %v", err)
	}
}

func TestProcessor_NestedCallResultIsHandedToCaller(t *testing.T) {
	tests := map[string]struct {
		callee contractFn
		want   contessa.ReturnCode
		output string
	}{
		"returned": {callee: running(func(contessa.HostContext, contessa.Data, *contessa.GasMeter) contessa.Outcome {
			return returning("pong")
		}), want: contessa.Success, output: "pong"},
		"reverted": {callee: running(func(contessa.HostContext, contessa.Data, *contessa.GasMeter) contessa.Outcome {
			return contessa.Outcome{Status: contessa.ExitReverted, Output: contessa.Data("no")}
		}), want: contessa.CalleeReverted, output: "no"},
		"trapped": {callee: running(func(contessa.HostContext, contessa.Data, *contessa.GasMeter) contessa.Outcome {
			return trapped(contessa.ErrDivisionByZero)
		}), want: contessa.CalleeTrapped},
		"out of gas": {callee: running(func(_ contessa.HostContext, _ contessa.Data, meter *contessa.GasMeter) contessa.Outcome {
			return trapped(meter.Charge(contessa.RefTimeOnly(1 << 30)))
		}), want: contessa.OutOfGas},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t)
			caller, callee := contessa.Address{1}, contessa.Address{2}
			env.deploy(callee, 1000, test.callee)
			env.deploy(caller, 1000, calling(nil, contessa.NestedCall{Kind: contessa.Call, Callee: callee}, returnCodeOutput))

			receipt, err := env.call(env.processor(DefaultConfig()), caller, nil)
			if err != nil {
				t.Fatalf("call failed: %v", err)
			}
			if want, got := append([]byte{byte(test.want)}, test.output...), receipt.Output; !bytes.Equal(want, got) {
				t.Errorf("unexpected output, wanted %v, got %v", want, got)
			}
		})
	}
}

func TestProcessor_FailedNestedCallRollsBackOnlyCallee(t *testing.T) {
	env := newTestEnv(t)
	caller, callee := contessa.Address{1}, contessa.Address{2}
	env.deploy(callee, 1000, running(func(ctx contessa.HostContext, _ contessa.Data, _ *contessa.GasMeter) contessa.Outcome {
		if _, _, err := ctx.SetStorage([]byte("callee"), []byte{1}); err != nil {
			return trapped(err)
		}
		ctx.DepositEvent(nil, contessa.Data("callee"))
		return contessa.Outcome{Status: contessa.ExitReverted}
	}))
	env.deploy(caller, 1000, calling(
		func(ctx contessa.HostContext, _ *contessa.GasMeter) {
			ctx.SetStorage([]byte("caller"), []byte{1})
			ctx.DepositEvent(nil, contessa.Data("caller"))
		},
		contessa.NestedCall{Kind: contessa.Call, Callee: callee, Value: contessa.NewValue(200)},
		returnCodeOutput,
	))

	receipt, err := env.call(env.processor(DefaultConfig()), caller, nil)
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if want, got := contessa.CalleeReverted, contessa.ReturnCode(receipt.Output[0]); want != got {
		t.Errorf("unexpected return code, wanted %v, got %v", want, got)
	}
	if want, got := 1, len(receipt.Events); want != got || string(receipt.Events[0].Data) != "caller" {
		t.Errorf("unexpected events %v", receipt.Events)
	}
	if want, got := contessa.NewValue(1000), env.balance(callee); want != got {
		t.Errorf("value transfer was not rolled back, wanted %v, got %v", want, got)
	}
	callerAccount, _ := env.state.GetAccount(caller)
	calleeAccount, _ := env.state.GetAccount(callee)
	if _, found := env.state.GetStorage(callerAccount.Contract.StorageID, []byte("caller")); !found {
		t.Errorf("caller storage was not committed")
	}
	if _, found := env.state.GetStorage(calleeAccount.Contract.StorageID, []byte("callee")); found {
		t.Errorf("callee storage was committed")
	}
	if want, got := env.schedule.DepositCosts.ContractBase, calleeAccount.Contract.DepositReserved; want != got {
		t.Errorf("callee deposit was not rolled back, wanted %d, got %d", want, got)
	}
}

func TestProcessor_CallDepthIsBounded(t *testing.T) {
	env := newTestEnv(t)
	contract := contessa.Address{1}
	invocations := 0
	codes := []contessa.ReturnCode{}
	env.deploy(contract, 1000, func(instance *contessa.MockInstance) {
		calling(
			func(contessa.HostContext, *contessa.GasMeter) { invocations++ },
			contessa.NestedCall{Kind: contessa.Call, Callee: contract},
			func(ctx contessa.HostContext, result contessa.CallResult) contessa.Outcome {
				codes = append(codes, result.Code)
				return returning("")
			},
		)(instance)
	})

	if _, err := env.call(env.processor(DefaultConfig()), contract, nil); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if want, got := env.schedule.Limits.CallDepth, invocations; want != got {
		t.Errorf("unexpected number of nested frames, wanted %d, got %d", want, got)
	}
	if want, got := contessa.CallStackOverflow, codes[0]; want != got {
		t.Errorf("unexpected result of deepest call, wanted %v, got %v", want, got)
	}
	for _, code := range codes[1:] {
		if code != contessa.Success {
			t.Errorf("unexpected result of intermediate call: %v", code)
		}
	}
}

func TestProcessor_ReentranceCanBeDenied(t *testing.T) {
	for _, allow := range []bool{true, false} {
		env := newTestEnv(t)
		contract := contessa.Address{1}
		env.deploy(contract, 1000, calling(nil, contessa.NestedCall{Kind: contessa.Call, Callee: contract}, returnCodeOutput))

		config := DefaultConfig()
		config.AllowReentry = allow
		receipt, err := env.call(env.processor(config), contract, nil)
		if err != nil {
			t.Fatalf("call failed: %v", err)
		}
		want := contessa.CalleeTrapped
		if allow {
			want = contessa.Success
		}
		if got := contessa.ReturnCode(receipt.Output[0]); want != got {
			t.Errorf("unexpected return code with reentry allowed=%t, wanted %v, got %v", allow, want, got)
		}
	}
}

func TestProcessor_NestedCallGasIsLimitedAndUnusedGasIsReturned(t *testing.T) {
	env := newTestEnv(t)
	caller, callee := contessa.Address{1}, contessa.Address{2}
	env.deploy(callee, 1000, running(func(_ contessa.HostContext, _ contessa.Data, meter *contessa.GasMeter) contessa.Outcome {
		if want, got := contessa.NewWeight(5_000, 999_000), meter.Limit(); want != got {
			t.Errorf("unexpected nested gas limit, wanted %v, got %v", want, got)
		}
		meter.Charge(contessa.NewWeight(100, 10))
		return returning("")
	}))
	env.deploy(caller, 1000, calling(
		func(_ contessa.HostContext, meter *contessa.GasMeter) {
			meter.Charge(contessa.NewWeight(1_000, 1_000))
		},
		contessa.NestedCall{Kind: contessa.Call, Callee: callee, Gas: contessa.RefTimeOnly(5_000)},
		returnCodeOutput,
	))

	receipt, err := env.call(env.processor(DefaultConfig()), caller, nil)
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if want, got := contessa.NewWeight(1_100, 1_010), receipt.GasConsumed; want != got {
		t.Errorf("unexpected gas consumption, wanted %v, got %v", want, got)
	}
}

func TestProcessor_ReadOnlyCallsCannotModifyState(t *testing.T) {
	env := newTestEnv(t)
	caller, callee := contessa.Address{1}, contessa.Address{2}
	env.deploy(callee, 1000, running(func(ctx contessa.HostContext, _ contessa.Data, _ *contessa.GasMeter) contessa.Outcome {
		if !ctx.ReadOnly() {
			t.Errorf("nested frame is not read-only")
		}
		if _, _, err := ctx.SetStorage([]byte("key"), []byte("value")); !errors.Is(err, contessa.ErrReadOnlyViolation) {
			t.Errorf("expected read-only violation, got %v", err)
		}
		if err := ctx.Transfer(contessa.Address{3}, contessa.NewValue(100)); !errors.Is(err, contessa.ErrReadOnlyViolation) {
			t.Errorf("expected read-only violation, got %v", err)
		}
		return returning("")
	}))
	env.deploy(caller, 1000, calling(nil, contessa.NestedCall{Kind: contessa.Call, Callee: callee, ReadOnly: true}, returnCodeOutput))

	receipt, err := env.call(env.processor(DefaultConfig()), caller, nil)
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if want, got := contessa.Success, contessa.ReturnCode(receipt.Output[0]); want != got {
		t.Errorf("unexpected return code, wanted %v, got %v", want, got)
	}
}

func TestProcessor_DelegateCallRunsInCallerContext(t *testing.T) {
	env := newTestEnv(t)
	proxy, library := contessa.Address{1}, contessa.Address{2}
	env.deploy(library, 1000, running(func(ctx contessa.HostContext, _ contessa.Data, _ *contessa.GasMeter) contessa.Outcome {
		if want, got := proxy, ctx.Address(); want != got {
			t.Errorf("unexpected address, wanted %v, got %v", want, got)
		}
		if want, got := testOrigin, ctx.Caller(); want != got {
			t.Errorf("unexpected caller, wanted %v, got %v", want, got)
		}
		ctx.SetStorage([]byte("key"), []byte("value"))
		return returning("")
	}))
	env.deploy(proxy, 1000, calling(nil, contessa.NestedCall{Kind: contessa.DelegateCall, Callee: library}, returnCodeOutput))

	if _, err := env.call(env.processor(DefaultConfig()), proxy, nil); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	proxyAccount, _ := env.state.GetAccount(proxy)
	libraryAccount, _ := env.state.GetAccount(library)
	if _, found := env.state.GetStorage(proxyAccount.Contract.StorageID, []byte("key")); !found {
		t.Errorf("delegate call did not write to caller storage")
	}
	if _, found := env.state.GetStorage(libraryAccount.Contract.StorageID, []byte("key")); found {
		t.Errorf("delegate call wrote to library storage")
	}
}

func TestProcessor_PlainTransferToNonContract(t *testing.T) {
	env := newTestEnv(t)
	contract, receiver := contessa.Address{1}, contessa.Address{2}
	env.deploy(contract, 1000, calling(nil, contessa.NestedCall{Kind: contessa.Call, Callee: receiver, Value: contessa.NewValue(300)}, returnCodeOutput))

	receipt, err := env.call(env.processor(DefaultConfig()), contract, nil)
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if want, got := contessa.Success, contessa.ReturnCode(receipt.Output[0]); want != got {
		t.Errorf("unexpected return code, wanted %v, got %v", want, got)
	}
	if want, got := contessa.NewValue(300), env.balance(receiver); want != got {
		t.Errorf("unexpected receiver balance, wanted %v, got %v", want, got)
	}
}

func TestProcessor_InstantiateCreatesContract(t *testing.T) {
	env := newTestEnv(t)
	p := env.processor(DefaultConfig())
	var deployed contessa.Address
	hash := env.code("template", func(instance *contessa.MockInstance) {
		instance.EXPECT().Invoke(contessa.EntryDeploy, contessa.Data("init"), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ contessa.EntryPoint, input contessa.Data, ctx contessa.HostContext, _ *contessa.GasMeter) contessa.Outcome {
				deployed = ctx.Address()
				return returning("")
			})
	})

	receipt, err := p.Instantiate(contessa.BlockParameters{}, env.state, contessa.InstantiateRequest{
		Origin:   testOrigin,
		CodeHash: hash,
		Value:    contessa.NewValue(500),
		GasLimit: contessa.NewWeight(1_000_000, 1_000_000),
		Input:    contessa.Data("init"),
	})
	if err != nil {
		t.Fatalf("instantiation failed: %v", err)
	}
	want := contractAddress(testOrigin, 0, hash, nil)
	if receipt.Address != want || deployed != want {
		t.Errorf("unexpected address, wanted %v, got %v and %v", want, receipt.Address, deployed)
	}
	if receipt.CodeHash != hash {
		t.Errorf("unexpected code hash, wanted %v, got %v", hash, receipt.CodeHash)
	}
	base := env.schedule.DepositCosts.ContractBase
	if want, got := contessa.Charge(base), receipt.Deposit; want != got {
		t.Errorf("unexpected deposit, wanted %v, got %v", want, got)
	}
	account, found := env.state.GetAccount(want)
	if !found || !account.IsContract() || account.Contract.CodeHash != hash {
		t.Fatalf("contract was not created: %v", account)
	}
	if want, got := contessa.NewValue(500), account.Balance; want != got {
		t.Errorf("unexpected contract balance, wanted %v, got %v", want, got)
	}
	origin, _ := env.state.GetAccount(testOrigin)
	if want, got := uint64(1), origin.Nonce; want != got {
		t.Errorf("unexpected origin nonce, wanted %d, got %d", want, got)
	}
	if want, got := contessa.NewValue(1_000_000-500-base), origin.Balance; want != got {
		t.Errorf("unexpected origin balance, wanted %v, got %v", want, got)
	}
	if info, _ := env.state.GetCode(hash); info.RefCount != 1 {
		t.Errorf("unexpected reference count %d", info.RefCount)
	}

	// A salted instantiation is deterministic, so it can not be repeated.
	request := contessa.InstantiateRequest{
		Origin:   testOrigin,
		CodeHash: hash,
		Value:    contessa.NewValue(env.schedule.MinimumBalance),
		GasLimit: contessa.NewWeight(1_000_000, 1_000_000),
		Input:    contessa.Data("init"),
		Salt:     contessa.Data("salt"),
	}
	if _, err := p.Instantiate(contessa.BlockParameters{}, env.state, request); err != nil {
		t.Fatalf("salted instantiation failed: %v", err)
	}
	if _, err := p.Instantiate(contessa.BlockParameters{}, env.state, request); !errors.Is(err, contessa.ErrDuplicateContract) {
		t.Errorf("expected duplicate contract, got %v", err)
	}
}

func TestProcessor_InstantiateWithCodeUploadsCode(t *testing.T) {
	env := newTestEnv(t)
	code := contessa.Code("fresh code")
	hash := contessa.HashCode(code)
	env.contracts[hash] = running(func(contessa.HostContext, contessa.Data, *contessa.GasMeter) contessa.Outcome {
		return returning("")
	})

	receipt, err := env.processor(DefaultConfig()).Instantiate(contessa.BlockParameters{}, env.state, contessa.InstantiateRequest{
		Origin:   testOrigin,
		Code:     code,
		Value:    contessa.NewValue(env.schedule.MinimumBalance),
		GasLimit: contessa.NewWeight(1_000_000_000, 1_000_000),
	})
	if err != nil {
		t.Fatalf("instantiation failed: %v", err)
	}
	costs := env.schedule.DepositCosts
	if want, got := contessa.Charge(costs.CodeDeposit(len(code))+costs.ContractBase), receipt.Deposit; want != got {
		t.Errorf("unexpected deposit, wanted %v, got %v", want, got)
	}
	info, found := env.state.GetCode(hash)
	if !found || info.Owner != testOrigin || info.RefCount != 1 {
		t.Errorf("unexpected code info %v, found %t", info, found)
	}
}

func TestProcessor_InstantiatedContractsHoldTheMinimumBalance(t *testing.T) {
	minimum := contessa.DefaultSchedule().MinimumBalance
	tests := map[string]struct {
		existing uint64
		value    uint64
		success  bool
	}{
		"no value":                    {0, 0, false},
		"value below minimum":         {0, minimum - 1, false},
		"minimum value":               {0, minimum, true},
		"funded account and no value": {minimum, 0, true},
		"short account topped up":     {1, minimum - 1, true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t)
			hash := env.code("template", running(func(contessa.HostContext, contessa.Data, *contessa.GasMeter) contessa.Outcome {
				return returning("")
			}))
			salt := contessa.Data("salt")
			address := contractAddress(testOrigin, 0, hash, salt)
			if test.existing > 0 {
				env.state.SetAccount(address, contessa.Account{Balance: contessa.NewValue(test.existing)})
			}
			before := env.state.Clone()

			_, err := env.processor(DefaultConfig()).Instantiate(contessa.BlockParameters{}, env.state, contessa.InstantiateRequest{
				Origin:   testOrigin,
				CodeHash: hash,
				Value:    contessa.NewValue(test.value),
				GasLimit: contessa.NewWeight(1_000_000, 1_000_000),
				Salt:     salt,
			})
			if !test.success {
				if !errors.Is(err, contessa.ErrTransferFailed) {
					t.Fatalf("expected transfer failure, got %v", err)
				}
				if !env.state.Equal(before) {
					t.Errorf("failed instantiation modified the state")
				}
				return
			}
			if err != nil {
				t.Fatalf("instantiation failed: %v", err)
			}
			if want, got := contessa.NewValue(test.existing+test.value), env.balance(address); want != got {
				t.Errorf("unexpected contract balance, wanted %v, got %v", want, got)
			}
		})
	}
}

func TestProcessor_PersistentStatesAreOnlyFlushedAfterSuccess(t *testing.T) {
	failure := errors.New("disk failure")
	tests := map[string]struct {
		dryRun   bool
		readErr  error
		flushErr error
		flushed  bool
		want     error
	}{
		"success":      {flushed: true},
		"dry run":      {dryRun: true},
		"failed read":  {readErr: failure, want: contessa.ErrStateFailure},
		"failed flush": {flushErr: failure, flushed: true, want: contessa.ErrStateFailure},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t)
			persistent := contessa.NewMockPersistentWorldState(env.ctrl)
			persistent.EXPECT().GetCode(gomock.Any()).Return(contessa.CodeInfo{}, false).AnyTimes()
			persistent.EXPECT().GetAccount(testOrigin).Return(contessa.Account{Balance: contessa.NewValue(1_000_000)}, true).AnyTimes()
			persistent.EXPECT().Err().Return(test.readErr).AnyTimes()
			if test.flushed {
				persistent.EXPECT().SetCode(gomock.Any(), gomock.Any())
				persistent.EXPECT().SetAccount(testOrigin, gomock.Any())
				persistent.EXPECT().Flush().Return(test.flushErr)
			}

			config := DefaultConfig()
			config.DryRun = test.dryRun
			code := contessa.Code("code")
			receipt, err := env.processor(config).UploadCode(persistent, contessa.UploadRequest{Origin: testOrigin, Code: code})
			if test.want != nil {
				if !errors.Is(err, test.want) || !errors.Is(err, failure) {
					t.Fatalf("expected %v caused by %v, got %v", test.want, failure, err)
				}
				if receipt.Deposit != (contessa.Deposit{}) || receipt.CodeHash != (contessa.Hash{}) {
					t.Errorf("failed operation reported effects: %v", receipt)
				}
				return
			}
			if err != nil {
				t.Fatalf("upload failed: %v", err)
			}
			if want, got := contessa.HashCode(code), receipt.CodeHash; want != got {
				t.Errorf("unexpected code hash, wanted %v, got %v", want, got)
			}
		})
	}
}

func TestProcessor_DatabaseFailuresAreNotReportedAsMissingData(t *testing.T) {
	env := newTestEnv(t)
	db, err := state.OpenLevelDb("")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	db.SetAccount(testOrigin, contessa.Account{Balance: contessa.NewValue(1_000_000)})
	if err := db.Close(); err != nil {
		t.Fatalf("failed to close database: %v", err)
	}

	_, err = env.processor(DefaultConfig()).UploadCode(db, contessa.UploadRequest{Origin: testOrigin, Code: contessa.Code("code")})
	if !errors.Is(err, contessa.ErrStateFailure) {
		t.Errorf("expected world state failure, got %v", err)
	}
	if errors.Is(err, contessa.ErrStorageDepositNotEnoughFunds) {
		t.Errorf("failure was reported as missing funds: %v", err)
	}
}

func TestProcessor_DepositLimitIsEnforced(t *testing.T) {
	env := newTestEnv(t)
	contract := contessa.Address{1}
	env.deploy(contract, 1000, running(func(ctx contessa.HostContext, _ contessa.Data, _ *contessa.GasMeter) contessa.Outcome {
		if _, _, err := ctx.SetStorage([]byte("key"), make([]byte, 100)); err != nil {
			return trapped(err)
		}
		return returning("")
	}))

	_, err := env.processor(DefaultConfig()).Call(contessa.BlockParameters{}, env.state, contessa.CallRequest{
		Origin:       testOrigin,
		Dest:         contract,
		GasLimit:     contessa.NewWeight(1_000_000, 1_000_000),
		DepositLimit: 10,
	})
	if !errors.Is(err, contessa.ErrStorageDepositLimitExhausted) {
		t.Errorf("expected deposit limit to be exhausted, got %v", err)
	}
}

func TestProcessor_TerminateRefundsDeposits(t *testing.T) {
	env := newTestEnv(t)
	contract, beneficiary := contessa.Address{1}, contessa.Address{2}
	env.deploy(contract, 1000, running(func(ctx contessa.HostContext, _ contessa.Data, _ *contessa.GasMeter) contessa.Outcome {
		if err := ctx.Terminate(beneficiary); err != nil {
			return trapped(err)
		}
		return contessa.Outcome{Status: contessa.ExitTerminated}
	}))
	hash := env.codeHash(contract)
	info, _ := env.state.GetCode(hash)
	info.Deposit = 70
	env.state.SetCode(hash, info)

	receipt, err := env.call(env.processor(DefaultConfig()), contract, nil)
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if want, got := contessa.Refund(env.schedule.DepositCosts.ContractBase), receipt.Deposit; want != got {
		t.Errorf("unexpected deposit, wanted %v, got %v", want, got)
	}
	if _, found := env.state.GetAccount(contract); found {
		t.Errorf("terminated contract still exists")
	}
	if want, got := contessa.NewValue(1000), env.balance(beneficiary); want != got {
		t.Errorf("unexpected beneficiary balance, wanted %v, got %v", want, got)
	}
	if _, found := env.state.GetCode(hash); found {
		t.Errorf("unused code was not evicted")
	}
	if want, got := contessa.NewValue(70), env.balance(testOwner); want != got {
		t.Errorf("code deposit was not refunded, wanted %v, got %v", want, got)
	}
}

func TestProcessor_DebugMessagesAreRetainedIfEnabled(t *testing.T) {
	for _, enabled := range []bool{true, false} {
		env := newTestEnv(t)
		contract := contessa.Address{1}
		env.deploy(contract, 1000, running(func(ctx contessa.HostContext, _ contessa.Data, _ *contessa.GasMeter) contessa.Outcome {
			if want, got := enabled, ctx.DebugMessage("hello"); want != got {
				t.Errorf("unexpected result of debug message, wanted %t, got %t", want, got)
			}
			return returning("")
		}))
		config := DefaultConfig()
		config.DebugMessages = enabled
		receipt, err := env.call(env.processor(config), contract, nil)
		if err != nil {
			t.Fatalf("call failed: %v", err)
		}
		if want, got := enabled, len(receipt.DebugMessages) == 1; want != got {
			t.Errorf("unexpected debug messages %v", receipt.DebugMessages)
		}
	}
}

func TestProcessor_DryRunDoesNotCommit(t *testing.T) {
	env := newTestEnv(t)
	contract := contessa.Address{1}
	env.deploy(contract, 1000, running(func(ctx contessa.HostContext, _ contessa.Data, _ *contessa.GasMeter) contessa.Outcome {
		ctx.SetStorage([]byte("key"), []byte("value"))
		return returning("result")
	}))
	before := env.state.Clone()

	config := DefaultConfig()
	config.DryRun = true
	receipt, err := env.call(env.processor(config), contract, nil)
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if want, got := "result", string(receipt.Output); want != got {
		t.Errorf("unexpected output, wanted %q, got %q", want, got)
	}
	if receipt.Deposit.Amount == 0 {
		t.Errorf("dry run did not report deposit")
	}
	if !env.state.Equal(before) {
		t.Errorf("dry run modified the state")
	}
}

func TestProcessor_UploadAndRemoveCode(t *testing.T) {
	env := newTestEnv(t)
	p := env.processor(DefaultConfig())
	code := contessa.Code("some code")
	deposit := env.schedule.DepositCosts.CodeDeposit(len(code))

	if _, err := p.UploadCode(env.state, contessa.UploadRequest{Origin: testOrigin, Code: code, DepositLimit: deposit - 1}); !errors.Is(err, contessa.ErrStorageDepositLimitExhausted) {
		t.Errorf("expected deposit limit to be exhausted, got %v", err)
	}
	poor := contessa.Address{9}
	if _, err := p.UploadCode(env.state, contessa.UploadRequest{Origin: poor, Code: code}); !errors.Is(err, contessa.ErrStorageDepositNotEnoughFunds) {
		t.Errorf("expected missing funds, got %v", err)
	}

	receipt, err := p.UploadCode(env.state, contessa.UploadRequest{Origin: testOrigin, Code: code})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if want, got := contessa.Charge(deposit), receipt.Deposit; want != got {
		t.Errorf("unexpected deposit, wanted %v, got %v", want, got)
	}
	if receipt.GasConsumed.IsZero() {
		t.Errorf("upload did not consume gas")
	}
	if want, got := contessa.NewValue(1_000_000-deposit), env.balance(testOrigin); want != got {
		t.Errorf("unexpected balance, wanted %v, got %v", want, got)
	}

	if _, err := p.RemoveCode(env.state, contessa.RemoveCodeRequest{Origin: poor, CodeHash: receipt.CodeHash}); !errors.Is(err, contessa.ErrNotCodeOwner) {
		t.Errorf("expected removal by non-owner to fail, got %v", err)
	}
	removal, err := p.RemoveCode(env.state, contessa.RemoveCodeRequest{Origin: testOrigin, CodeHash: receipt.CodeHash})
	if err != nil {
		t.Fatalf("removal failed: %v", err)
	}
	if want, got := contessa.Refund(deposit), removal.Deposit; want != got {
		t.Errorf("unexpected refund, wanted %v, got %v", want, got)
	}
	if want, got := contessa.NewValue(1_000_000), env.balance(testOrigin); want != got {
		t.Errorf("deposit was not refunded, wanted %v, got %v", want, got)
	}
}
