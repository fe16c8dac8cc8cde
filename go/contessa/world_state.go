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

//go:generate mockgen -source world_state.go -destination world_state_mock.go -package contessa

// WorldState is an interface to access and manipulate the persistent state of
// the chain as seen by the execution core: accounts, contract storage
// namespaces, and content-addressed code blobs. Implementations are not
// required to be thread-safe; invocations are processed strictly sequentially.
type WorldState interface {
	GetAccount(Address) (Account, bool)
	SetAccount(Address, Account)
	DeleteAccount(Address)

	// GetStorage reads an item of the storage namespace with the given id.
	GetStorage(namespace Hash, key []byte) ([]byte, bool)
	// SetStorage writes an item. A nil value deletes the item.
	SetStorage(namespace Hash, key []byte, value []byte)
	// ClearStorage removes all items of the given namespace.
	ClearStorage(namespace Hash)

	GetCode(Hash) (CodeInfo, bool)
	SetCode(Hash, CodeInfo)
	DeleteCode(Hash)
}

// PersistentWorldState is a WorldState backed by storage that may fail.
// Updates are buffered and only become durable, all at once, when flushed.
type PersistentWorldState interface {
	WorldState
	// Err returns the first storage failure encountered. Results read after
	// a failure are not reliable.
	Err() error
	// Flush atomically persists all buffered updates. If a failure has been
	// recorded, the buffered updates are discarded and the failure returned.
	Flush() error
}

// Account is the persisted record of an account. Accounts without a contract
// are plain balance holders.
type Account struct {
	Balance  Value
	Nonce    uint64
	Contract *ContractInfo `rlp:"nil"`
}

// IsContract returns true if the account is bound to a contract.
func (a *Account) IsContract() bool {
	return a.Contract != nil
}

// Clone creates a deep copy of the account.
func (a Account) Clone() Account {
	if a.Contract != nil {
		info := *a.Contract
		a.Contract = &info
	}
	return a
}

// ContractInfo binds an account to its code and storage. DepositReserved is
// always the sum of the contract's base deposit and the deposits of its
// current storage items.
type ContractInfo struct {
	CodeHash        Hash
	StorageID       Hash
	DepositReserved uint64
	StorageItems    uint64
	StorageBytes    uint64
}

// ExpectedDeposit computes the deposit owed for the items of the contract.
func (c *ContractInfo) ExpectedDeposit(costs DepositCosts) uint64 {
	deposit := costs.ContractBase
	deposit = saturatingAdd(deposit, saturatingMul(costs.PerItem, c.StorageItems))
	deposit = saturatingAdd(deposit, saturatingMul(costs.PerByte, c.StorageBytes))
	return deposit
}

// CodeInfo is the persisted record of a code blob. RefCount is the number of
// contracts currently bound to the code.
type CodeInfo struct {
	Owner    Address
	Deposit  uint64
	RefCount uint64
	Code     Code
}
