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
	"fmt"
	"testing"

	"github.com/Fantom-foundation/Contessa/go/contessa"
	"github.com/Fantom-foundation/Contessa/go/examples"
	"github.com/Fantom-foundation/Contessa/go/state"
	"github.com/stretchr/testify/require"

	// Registers the processor and sandbox implementations under test.
	_ "github.com/Fantom-foundation/Contessa/go/interpreter/cvm"
	_ "github.com/Fantom-foundation/Contessa/go/processor/fauna"
)

// DefaultGasLimit is the gas limit of operations not specifying one.
var DefaultGasLimit = contessa.NewWeight(10_000_000_000, 10_000_000)

// Configuration names a combination of processor, sandbox, and world state
// implementations to be tested.
type Configuration struct {
	Processor string
	Sandbox   string
	State     string
}

func (c Configuration) String() string {
	return fmt.Sprintf("%s/%s/%s", c.Processor, c.Sandbox, c.State)
}

// sandboxes lists the sandboxes to be covered. The instruction tracing
// sandbox is excluded to keep test logs readable.
var sandboxes = []string{"cvm", "cvm-stats"}

var worldStates = map[string]func(testing.TB) contessa.WorldState{
	"memory": func(testing.TB) contessa.WorldState {
		return state.NewMemory()
	},
	"leveldb": func(t testing.TB) contessa.WorldState {
		db, err := state.OpenLevelDb("")
		require.NoError(t, err)
		t.Cleanup(func() {
			require.NoError(t, db.Close())
		})
		return db
	},
}

// getConfigurations returns all combinations of registered processors, the
// covered sandboxes, and the world state implementations.
func getConfigurations() []Configuration {
	res := []Configuration{}
	for processor := range contessa.GetAllRegisteredProcessorFactories() {
		for _, sandbox := range sandboxes {
			for state := range worldStates {
				res = append(res, Configuration{processor, sandbox, state})
			}
		}
	}
	return res
}

// forEachConfiguration runs the given test as a sub-test for every
// configuration.
func forEachConfiguration(t *testing.T, test func(*testing.T, Configuration)) {
	for _, configuration := range getConfigurations() {
		t.Run(configuration.String(), func(t *testing.T) {
			test(t, configuration)
		})
	}
}

// Chain executes operations of a processor on a world state. Setup helpers
// fail the test on unexpected errors.
type Chain struct {
	t         testing.TB
	Processor contessa.Processor
	State     contessa.WorldState
	Block     contessa.BlockParameters
	Schedule  contessa.Schedule
	salt      uint64
}

// NewChain creates a chain running the given configuration. The optional
// config is forwarded to the processor factory.
func NewChain(t testing.TB, configuration Configuration, config ...any) *Chain {
	t.Helper()
	sandbox, err := contessa.NewSandbox(configuration.Sandbox)
	require.NoError(t, err)
	processor, err := contessa.NewProcessor(configuration.Processor, sandbox, config...)
	require.NoError(t, err)
	newState, found := worldStates[configuration.State]
	require.True(t, found, "unknown world state %q", configuration.State)
	return &Chain{
		t:         t,
		Processor: processor,
		State:     newState(t),
		Block:     contessa.BlockParameters{BlockNumber: 1, Timestamp: 1_700_000_000},
		Schedule:  sandbox.Schedule(),
	}
}

// Fund sets the balance of the given account.
func (c *Chain) Fund(address contessa.Address, balance uint64) {
	account, _ := c.State.GetAccount(address)
	account.Balance = contessa.NewValue(balance)
	c.State.SetAccount(address, account)
}

// Balance returns the balance of the given account, which must fit into 64
// bits.
func (c *Chain) Balance(address contessa.Address) uint64 {
	account, _ := c.State.GetAccount(address)
	require.True(c.t, account.Balance.IsUint64(), "balance of %v exceeds 64 bits", address)
	return account.Balance.Uint64()
}

// Contract returns the contract bound to the given account.
func (c *Chain) Contract(address contessa.Address) (contessa.ContractInfo, bool) {
	account, found := c.State.GetAccount(address)
	if !found || !account.IsContract() {
		return contessa.ContractInfo{}, false
	}
	return *account.Contract, true
}

// Storage reads an item of the storage of the given contract.
func (c *Chain) Storage(address contessa.Address, key string) ([]byte, bool) {
	info, found := c.Contract(address)
	if !found {
		return nil, false
	}
	return c.State.GetStorage(info.StorageID, []byte(key))
}

// RefCount returns the number of contracts bound to the given code.
func (c *Chain) RefCount(hash contessa.Hash) uint64 {
	info, found := c.State.GetCode(hash)
	require.True(c.t, found, "code %v not found", hash)
	return info.RefCount
}

// Upload stores the code of the given example on behalf of the origin.
func (c *Chain) Upload(origin contessa.Address, example examples.Example) contessa.Hash {
	c.t.Helper()
	receipt, err := c.Processor.UploadCode(c.State, contessa.UploadRequest{
		Origin: origin,
		Code:   example.Code,
	})
	require.NoError(c.t, err)
	require.Equal(c.t, example.CodeHash(), receipt.CodeHash)
	return receipt.CodeHash
}

// Deploy instantiates the given example, uploading its code if needed, and
// returns the address of the new contract. The contract is endowed with the
// minimum balance.
func (c *Chain) Deploy(origin contessa.Address, example examples.Example, input []byte) contessa.Address {
	c.t.Helper()
	request := contessa.InstantiateRequest{
		Origin:   origin,
		CodeHash: example.CodeHash(),
		Value:    contessa.NewValue(c.Schedule.MinimumBalance),
		GasLimit: DefaultGasLimit,
		Input:    input,
		Salt:     c.nextSalt(),
	}
	if _, found := c.State.GetCode(request.CodeHash); !found {
		request.Code = example.Code
	}
	receipt, err := c.Processor.Instantiate(c.Block, c.State, request)
	require.NoError(c.t, err)
	return receipt.Address
}

// nextSalt gives repeated deployments of the same code distinct addresses.
func (c *Chain) nextSalt() []byte {
	c.salt++
	return examples.EncodeUint64(c.salt)
}

// Instantiate runs the given request on the chain.
func (c *Chain) Instantiate(request contessa.InstantiateRequest) (contessa.Receipt, error) {
	if request.GasLimit.IsZero() {
		request.GasLimit = DefaultGasLimit
	}
	return c.Processor.Instantiate(c.Block, c.State, request)
}

// Call calls the given contract with the default gas limit.
func (c *Chain) Call(origin, dest contessa.Address, input []byte) (contessa.Receipt, error) {
	return c.CallWith(contessa.CallRequest{
		Origin: origin,
		Dest:   dest,
		Input:  input,
	})
}

// CallWith runs the given request on the chain.
func (c *Chain) CallWith(request contessa.CallRequest) (contessa.Receipt, error) {
	if request.GasLimit.IsZero() {
		request.GasLimit = DefaultGasLimit
	}
	return c.Processor.Call(c.Block, c.State, request)
}
