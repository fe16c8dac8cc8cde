// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package processor

import (
	"math"
	"testing"

	"github.com/Fantom-foundation/Contessa/go/contessa"
	"github.com/Fantom-foundation/Contessa/go/examples"
	"github.com/Fantom-foundation/Contessa/go/processor/fauna"
	"github.com/stretchr/testify/require"
)

func TestProcessor_ConfigurationsCoverAllProcessorsAndStates(t *testing.T) {
	configurations := getConfigurations()
	require.Len(t, configurations, len(contessa.GetAllRegisteredProcessorFactories())*len(sandboxes)*len(worldStates))
	for _, configuration := range configurations {
		require.NotNil(t, contessa.GetSandboxFactory(configuration.Sandbox), "sandbox %q not registered", configuration.Sandbox)
	}
}

// outcome is the observable result of an operation, comparable across
// configurations.
type outcome struct {
	Receipt contessa.Receipt
	Err     string
}

// runWorkload applies a fixed mix of operations to the given chain and
// returns their outcomes, followed by the final balances of all involved
// accounts.
func runWorkload(t *testing.T, c *Chain) ([]outcome, []uint64) {
	counter := c.Deploy(alice, examples.GetCounterExample(), examples.EncodeUint64(41))
	storage := c.Deploy(alice, examples.GetStorageExample(), nil)
	forwarder := c.Deploy(alice, examples.GetForwarderExample(), nil)
	multicall := c.Deploy(alice, examples.GetMulticallExample(), nil)
	emitter := c.Deploy(alice, examples.GetEmitterExample(), nil)
	reverter := c.Deploy(alice, examples.GetReverterExample(), nil)
	burner := c.Deploy(alice, examples.GetGasBurnerExample(), nil)

	requests := []contessa.CallRequest{
		{Dest: counter},
		{Dest: storage, Input: examples.StorageSetInput([]byte("some value"))},
		{Dest: storage, Input: examples.StorageGetInput()},
		{Dest: forwarder, Input: examples.ForwardInput(0, reverter, contessa.Weight{}, []byte("reverted"))},
		{Dest: multicall, Input: examples.MulticallInput(
			examples.Invocation{Callee: counter},
			examples.Invocation{Callee: emitter, Input: []byte("event")},
			examples.Invocation{Callee: reverter},
			examples.Invocation{Callee: burner, Input: examples.EncodeUint64(100)},
		)},
		{Dest: storage, Input: examples.StorageClearInput()},
		{Dest: burner, Input: examples.EncodeUint64(math.MaxUint64), GasLimit: contessa.NewWeight(50_000_000, 1_000)},
		{Dest: reverter, Input: []byte("fail")},
	}

	res := []outcome{}
	for _, request := range requests {
		request.Origin = alice
		receipt, err := c.CallWith(request)
		res = append(res, outcome{Receipt: receipt})
		if err != nil {
			res[len(res)-1].Err = err.Error()
		}
	}

	balances := []uint64{}
	for _, address := range []contessa.Address{alice, counter, storage, forwarder, multicall, emitter, reverter, burner} {
		balances = append(balances, c.Balance(address))
	}
	return res, balances
}

func TestProcessor_ResultsAreIdenticalInAllConfigurations(t *testing.T) {
	configurations := getConfigurations()
	require.NotEmpty(t, configurations)

	reference := newFundedChain(t, configurations[0])
	wantOutcomes, wantBalances := runWorkload(t, reference)

	for _, configuration := range configurations {
		t.Run(configuration.String(), func(t *testing.T) {
			for i := 0; i < 2; i++ {
				c := newFundedChain(t, configuration)
				gotOutcomes, gotBalances := runWorkload(t, c)
				require.Equal(t, wantOutcomes, gotOutcomes)
				require.Equal(t, wantBalances, gotBalances)
			}
		})
	}
}

func TestProcessor_GasConsumptionGrowsWithWork(t *testing.T) {
	forEachConfiguration(t, func(t *testing.T, configuration Configuration) {
		c := newFundedChain(t, configuration)
		burner := c.Deploy(alice, examples.GetGasBurnerExample(), nil)

		last := contessa.Weight{}
		for _, iterations := range []uint64{0, 1, 10, 100, 1000} {
			receipt, err := c.Call(alice, burner, examples.EncodeUint64(iterations))
			require.NoError(t, err)
			require.Greater(t, receipt.GasConsumed.RefTime, last.RefTime, "iterations %d", iterations)
			require.False(t, receipt.GasConsumed.AnyGt(DefaultGasLimit))
			last = receipt.GasConsumed
		}
	})
}

func TestProcessor_StorageDepositRoundTrip(t *testing.T) {
	forEachConfiguration(t, func(t *testing.T, configuration Configuration) {
		c := newFundedChain(t, configuration)
		c.Upload(alice, examples.GetStorageExample())
		costs := c.Schedule.DepositCosts
		before := c.Balance(alice)

		storage := c.Deploy(alice, examples.GetStorageExample(), nil)
		value := []byte("a value of some length")

		receipt, err := c.Call(alice, storage, examples.StorageSetInput(value))
		require.NoError(t, err)
		require.Equal(t, contessa.Charge(costs.ItemDeposit(1, len(value))), receipt.Deposit)

		// Shrinking the value refunds the deposit of the removed bytes.
		receipt, err = c.Call(alice, storage, examples.StorageSetInput(value[:4]))
		require.NoError(t, err)
		require.Equal(t, examples.EncodeUint64(uint64(len(value))), receipt.Output)
		require.Equal(t, contessa.Refund(costs.PerByte*uint64(len(value)-4)), receipt.Deposit)

		receipt, err = c.Call(alice, storage, examples.StorageClearInput())
		require.NoError(t, err)
		require.Equal(t, examples.EncodeUint64(4), receipt.Output)
		require.Equal(t, contessa.Refund(costs.ItemDeposit(1, 4)), receipt.Deposit)

		info, found := c.Contract(storage)
		require.True(t, found)
		require.Equal(t, costs.ContractBase, info.DepositReserved)
		require.Equal(t, uint64(0), info.StorageItems)
		require.Equal(t, uint64(0), info.StorageBytes)
		require.Equal(t, before-costs.ContractBase-c.Schedule.MinimumBalance, c.Balance(alice))
	})
}

func TestProcessor_FailedCallsOnlyRollBackTheirOwnFrame(t *testing.T) {
	forEachConfiguration(t, func(t *testing.T, configuration Configuration) {
		c := newFundedChain(t, configuration)
		counter := c.Deploy(alice, examples.GetCounterExample(), examples.EncodeUint64(0))
		reverter := c.Deploy(alice, examples.GetReverterExample(), nil)
		terminator := c.Deploy(alice, examples.GetTerminatorExample(), nil)
		forwarder := c.Deploy(alice, examples.GetForwarderExample(), nil)
		multicall := c.Deploy(alice, examples.GetMulticallExample(), nil)

		receipt, err := c.Call(alice, multicall, examples.MulticallInput(
			examples.Invocation{Callee: counter},
			examples.Invocation{Callee: reverter, Input: []byte("reverted")},
			// A contract can not be its own beneficiary, so this traps.
			examples.Invocation{Callee: terminator, Input: terminator[:]},
			examples.Invocation{Callee: forwarder, Input: examples.ForwardInput(0, reverter, contessa.Weight{}, []byte("nested"))},
			examples.Invocation{Callee: counter},
		))
		require.NoError(t, err)

		codes, err := examples.DecodeMulticallOutput(receipt.Output)
		require.NoError(t, err)
		require.Equal(t, []contessa.ReturnCode{
			contessa.Success,
			contessa.CalleeReverted,
			contessa.CalleeTrapped,
			contessa.Success,
			contessa.Success,
		}, codes)

		got, _ := c.Storage(counter, "c")
		require.Equal(t, examples.EncodeUint64(2), got)
		_, found := c.Storage(reverter, "r")
		require.False(t, found)
		_, found = c.Contract(terminator)
		require.True(t, found)
	})
}

func TestProcessor_ProxyKeepsStateOfLibraryCallsInOwnStorage(t *testing.T) {
	forEachConfiguration(t, func(t *testing.T, configuration Configuration) {
		c := newFundedChain(t, configuration)
		library := c.Deploy(alice, examples.GetCounterExample(), examples.EncodeUint64(100))
		proxy := c.Deploy(alice, examples.GetProxyExample(), library[:])

		for want := uint64(1); want <= 3; want++ {
			receipt, err := c.Call(alice, proxy, nil)
			require.NoError(t, err)
			require.Equal(t, examples.EncodeUint64(want), receipt.Output)
		}

		got, _ := c.Storage(proxy, "c")
		require.Equal(t, examples.EncodeUint64(3), got)
		got, _ = c.Storage(library, "c")
		require.Equal(t, examples.EncodeUint64(100), got)
	})
}

func TestProcessor_ReadOnlyCallsCanNotModifyState(t *testing.T) {
	forEachConfiguration(t, func(t *testing.T, configuration Configuration) {
		c := newFundedChain(t, configuration)
		forwarder := c.Deploy(alice, examples.GetForwarderExample(), nil)
		storage := c.Deploy(alice, examples.GetStorageExample(), nil)
		_, err := c.Call(alice, storage, examples.StorageSetInput([]byte("value")))
		require.NoError(t, err)

		receipt, err := c.Call(alice, forwarder, examples.ForwardInput(examples.CallReadOnly, storage, contessa.Weight{}, examples.StorageGetInput()))
		require.NoError(t, err)
		code, output, err := examples.DecodeCallResult(receipt.Output)
		require.NoError(t, err)
		require.Equal(t, contessa.Success, code)
		require.Equal(t, []byte("value"), output)

		receipt, err = c.Call(alice, forwarder, examples.ForwardInput(examples.CallReadOnly, storage, contessa.Weight{}, examples.StorageClearInput()))
		require.NoError(t, err)
		code, _, err = examples.DecodeCallResult(receipt.Output)
		require.NoError(t, err)
		require.Equal(t, contessa.CalleeTrapped, code)

		got, found := c.Storage(storage, "k")
		require.True(t, found)
		require.Equal(t, []byte("value"), got)
	})
}

func TestProcessor_FactoryInstantiatesContracts(t *testing.T) {
	forEachConfiguration(t, func(t *testing.T, configuration Configuration) {
		c := newFundedChain(t, configuration)
		counterHash := c.Upload(alice, examples.GetCounterExample())
		factory := c.Deploy(alice, examples.GetFactoryExample(), nil)
		costs := c.Schedule.DepositCosts

		addresses := map[contessa.Address]bool{}
		endowment := contessa.NewValue(c.Schedule.MinimumBalance)
		for i := uint64(1); i <= 2; i++ {
			receipt, err := c.CallWith(contessa.CallRequest{
				Origin: alice,
				Dest:   factory,
				Value:  endowment,
				Input:  examples.FactoryInput(counterHash, examples.EncodeUint64(10*i)),
			})
			require.NoError(t, err)
			code, address, err := examples.DecodeFactoryOutput(receipt.Output)
			require.NoError(t, err)
			require.Equal(t, contessa.Success, code)
			require.Equal(t, contessa.Charge(costs.ContractBase+costs.ItemDeposit(1, 8)), receipt.Deposit)

			info, found := c.Contract(address)
			require.True(t, found)
			require.Equal(t, counterHash, info.CodeHash)
			got, _ := c.Storage(address, "c")
			require.Equal(t, examples.EncodeUint64(10*i), got)
			require.Equal(t, c.Schedule.MinimumBalance, c.Balance(address))
			addresses[address] = true
		}
		require.Len(t, addresses, 2)
		require.Equal(t, uint64(2), c.RefCount(counterHash))
		require.Equal(t, c.Schedule.MinimumBalance, c.Balance(factory))

		receipt, err := c.Call(alice, factory, examples.FactoryInput(contessa.Hash{0x12}, nil))
		require.NoError(t, err)
		code, _, err := examples.DecodeFactoryOutput(receipt.Output)
		require.NoError(t, err)
		require.Equal(t, contessa.CodeNotFound, code)

		// Without an endowment, the new contract would hold less than the
		// minimum balance.
		receipt, err = c.Call(alice, factory, examples.FactoryInput(counterHash, examples.EncodeUint64(0)))
		require.NoError(t, err)
		code, _, err = examples.DecodeFactoryOutput(receipt.Output)
		require.NoError(t, err)
		require.Equal(t, contessa.TransferFailed, code)
		require.Equal(t, uint64(2), c.RefCount(counterHash))
	})
}

func TestProcessor_TransfersRespectMinimumBalance(t *testing.T) {
	forEachConfiguration(t, func(t *testing.T, configuration Configuration) {
		c := newFundedChain(t, configuration)
		hash := c.Upload(alice, examples.GetPayerExample())
		receipt, err := c.Instantiate(contessa.InstantiateRequest{
			Origin:   alice,
			CodeHash: hash,
			Value:    contessa.NewValue(1_000),
		})
		require.NoError(t, err)
		payer := receipt.Address
		minimum := c.Schedule.MinimumBalance

		// Transfers are applied in order, each one seeing the balances left
		// by its predecessors.
		transfers := []struct {
			name      string
			recipient contessa.Address
			value     uint64
			want      contessa.ReturnCode
		}{
			{"new account", bob, 500, contessa.Success},
			{"new account below minimum", carol, minimum - 1, contessa.TransferFailed},
			{"existing account", bob, 1, contessa.Success},
			{"draining the contract", bob, 499, contessa.TransferFailed},
		}
		for _, transfer := range transfers {
			receipt, err := c.Call(alice, payer, examples.PayInput(transfer.recipient, transfer.value))
			require.NoError(t, err, transfer.name)
			require.Equal(t, examples.EncodeUint64(uint64(transfer.want)), receipt.Output, transfer.name)
		}

		require.Equal(t, uint64(501), c.Balance(bob))
		require.Equal(t, uint64(499), c.Balance(payer))
		_, found := c.State.GetAccount(carol)
		require.False(t, found)
	})
}

func TestProcessor_UnusedCodeCanBeRemovedByItsOwner(t *testing.T) {
	forEachConfiguration(t, func(t *testing.T, configuration Configuration) {
		c := newFundedChain(t, configuration)
		example := examples.GetEchoExample()
		hash := c.Upload(alice, example)
		before := c.Balance(alice)

		_, err := c.Processor.RemoveCode(c.State, contessa.RemoveCodeRequest{Origin: bob, CodeHash: hash})
		require.ErrorIs(t, err, contessa.ErrNotCodeOwner)

		receipt, err := c.Processor.RemoveCode(c.State, contessa.RemoveCodeRequest{Origin: alice, CodeHash: hash})
		require.NoError(t, err)
		deposit := c.Schedule.DepositCosts.CodeDeposit(len(example.Code))
		require.Equal(t, contessa.Refund(deposit), receipt.Deposit)
		require.Equal(t, before+deposit, c.Balance(alice))
		_, found := c.State.GetCode(hash)
		require.False(t, found)

		_, err = c.Processor.RemoveCode(c.State, contessa.RemoveCodeRequest{Origin: alice, CodeHash: hash})
		require.ErrorIs(t, err, contessa.ErrCodeNotFound)
	})
}

func TestProcessor_TerminationRefundsDepositsAndReleasesCode(t *testing.T) {
	forEachConfiguration(t, func(t *testing.T, configuration Configuration) {
		c := newFundedChain(t, configuration)
		example := examples.GetTerminatorExample()
		hash := c.Upload(alice, example)
		receipt, err := c.Instantiate(contessa.InstantiateRequest{
			Origin:   alice,
			CodeHash: hash,
			Value:    contessa.NewValue(1_000),
		})
		require.NoError(t, err)
		terminator := receipt.Address
		costs := c.Schedule.DepositCosts

		_, err = c.Processor.RemoveCode(c.State, contessa.RemoveCodeRequest{Origin: alice, CodeHash: hash})
		require.ErrorIs(t, err, contessa.ErrCodeInUse)

		// The last contract using the code evicts it, refunding the code
		// deposit to its owner.
		before := c.Balance(alice)
		receipt, err = c.Call(alice, terminator, bob[:])
		require.NoError(t, err)
		require.Equal(t, contessa.Refund(costs.ContractBase), receipt.Deposit)
		require.Equal(t, before+costs.ContractBase+costs.CodeDeposit(len(example.Code)), c.Balance(alice))
		require.Equal(t, uint64(1_000), c.Balance(bob))
		_, found := c.State.GetAccount(terminator)
		require.False(t, found)
		_, found = c.State.GetCode(hash)
		require.False(t, found)

		_, err = c.Call(alice, terminator, bob[:])
		require.ErrorIs(t, err, contessa.ErrContractNotFound)
	})
}

func TestProcessor_EventsAreReportedForCommittedInvocations(t *testing.T) {
	forEachConfiguration(t, func(t *testing.T, configuration Configuration) {
		c := newFundedChain(t, configuration)
		emitter := c.Deploy(alice, examples.GetEmitterExample(), nil)
		burner := c.Deploy(alice, examples.GetGasBurnerExample(), nil)
		multicall := c.Deploy(alice, examples.GetMulticallExample(), nil)

		receipt, err := c.Call(alice, multicall, examples.MulticallInput(
			examples.Invocation{Callee: emitter, Input: []byte("first")},
			examples.Invocation{Callee: emitter, Input: []byte("second")},
		))
		require.NoError(t, err)
		require.Equal(t, []contessa.Event{
			{Contract: emitter, Topics: []contessa.Hash{examples.EmitterTopic}, Data: []byte("first")},
			{Contract: emitter, Topics: []contessa.Hash{examples.EmitterTopic}, Data: []byte("second")},
		}, receipt.Events)

		receipt, err = c.CallWith(contessa.CallRequest{
			Origin:   alice,
			Dest:     multicall,
			GasLimit: contessa.NewWeight(50_000_000, 1_000_000),
			Input: examples.MulticallInput(
				examples.Invocation{Callee: emitter, Input: []byte("lost")},
				examples.Invocation{Callee: burner, Input: examples.EncodeUint64(math.MaxUint64)},
			),
		})
		require.ErrorIs(t, err, contessa.ErrOutOfGas)
		require.Empty(t, receipt.Events)
	})
}

func TestProcessor_DebugMessagesAreOnlyRetainedIfEnabled(t *testing.T) {
	forEachConfiguration(t, func(t *testing.T, configuration Configuration) {
		for _, enabled := range []bool{false, true} {
			config := fauna.DefaultConfig()
			config.DebugMessages = enabled
			c := newFundedChain(t, configuration, config)
			echo := c.Deploy(alice, examples.GetEchoExample(), nil)

			receipt, err := c.Call(alice, echo, []byte("hello"))
			require.NoError(t, err)
			require.Equal(t, []byte("hello"), receipt.Output)
			if enabled {
				require.Equal(t, []string{"hello"}, receipt.DebugMessages)
			} else {
				require.Empty(t, receipt.DebugMessages)
			}
		}
	})
}

func TestProcessor_DryRunsLeaveStateUntouched(t *testing.T) {
	forEachConfiguration(t, func(t *testing.T, configuration Configuration) {
		c := newFundedChain(t, configuration)
		counter := c.Deploy(alice, examples.GetCounterExample(), examples.EncodeUint64(7))

		config := fauna.DefaultConfig()
		config.DryRun = true
		sandbox, err := contessa.NewSandbox(configuration.Sandbox)
		require.NoError(t, err)
		dryRun, err := contessa.NewProcessor(configuration.Processor, sandbox, config)
		require.NoError(t, err)

		receipt, err := dryRun.Call(c.Block, c.State, contessa.CallRequest{
			Origin:   alice,
			Dest:     counter,
			GasLimit: DefaultGasLimit,
		})
		require.NoError(t, err)
		require.Equal(t, examples.EncodeUint64(8), receipt.Output)

		got, _ := c.Storage(counter, "c")
		require.Equal(t, examples.EncodeUint64(7), got)
	})
}

func TestProcessor_FailedInstantiationHasNoEffect(t *testing.T) {
	forEachConfiguration(t, func(t *testing.T, configuration Configuration) {
		c := newFundedChain(t, configuration)
		hash := c.Upload(alice, examples.GetCounterExample())
		before, _ := c.State.GetAccount(alice)

		// The value is too small for the new contract account to exist.
		_, err := c.Instantiate(contessa.InstantiateRequest{
			Origin:   alice,
			CodeHash: hash,
			Value:    contessa.NewValue(c.Schedule.MinimumBalance - 1),
			Input:    examples.EncodeUint64(1),
		})
		require.ErrorIs(t, err, contessa.ErrTransferFailed)

		_, err = c.Instantiate(contessa.InstantiateRequest{
			Origin:   alice,
			CodeHash: contessa.Hash{0x12},
		})
		require.ErrorIs(t, err, contessa.ErrCodeNotFound)

		after, _ := c.State.GetAccount(alice)
		require.Equal(t, before, after)
		require.Equal(t, uint64(0), c.RefCount(hash))
	})
}
