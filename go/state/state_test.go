// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package state

import (
	"testing"

	"github.com/Fantom-foundation/Contessa/go/contessa"
	"github.com/stretchr/testify/require"
	"github.com/syndtr/goleveldb/leveldb"
)

func stateFactories(t *testing.T) map[string]func() contessa.WorldState {
	return map[string]func() contessa.WorldState{
		"memory": func() contessa.WorldState { return NewMemory() },
		"leveldb": func() contessa.WorldState {
			db, err := OpenLevelDb("")
			require.NoError(t, err)
			t.Cleanup(func() { require.NoError(t, db.Close()) })
			return db
		},
	}
}

func TestWorldState_Accounts(t *testing.T) {
	for name, factory := range stateFactories(t) {
		t.Run(name, func(t *testing.T) {
			state := factory()
			address := contessa.Address{1}

			_, found := state.GetAccount(address)
			require.False(t, found)

			plain := contessa.Account{Balance: contessa.NewValue(10), Nonce: 2}
			state.SetAccount(address, plain)
			got, found := state.GetAccount(address)
			require.True(t, found)
			require.Equal(t, plain.Balance, got.Balance)
			require.Equal(t, plain.Nonce, got.Nonce)
			require.False(t, got.IsContract())

			contract := contessa.Account{
				Balance: contessa.NewValue(1, 2),
				Contract: &contessa.ContractInfo{
					CodeHash:        contessa.Hash{1},
					StorageID:       contessa.Hash{2},
					DepositReserved: 2210,
					StorageItems:    1,
					StorageBytes:    1,
				},
			}
			state.SetAccount(address, contract)
			got, found = state.GetAccount(address)
			require.True(t, found)
			require.True(t, got.IsContract())
			require.Equal(t, *contract.Contract, *got.Contract)

			state.DeleteAccount(address)
			_, found = state.GetAccount(address)
			require.False(t, found)
		})
	}
}

func TestWorldState_AccountsAreNotAliased(t *testing.T) {
	for name, factory := range stateFactories(t) {
		t.Run(name, func(t *testing.T) {
			state := factory()
			account := contessa.Account{Contract: &contessa.ContractInfo{StorageItems: 1}}
			state.SetAccount(contessa.Address{}, account)
			account.Contract.StorageItems = 2

			got, _ := state.GetAccount(contessa.Address{})
			require.Equal(t, uint64(1), got.Contract.StorageItems)
			got.Contract.StorageItems = 3

			got, _ = state.GetAccount(contessa.Address{})
			require.Equal(t, uint64(1), got.Contract.StorageItems)
		})
	}
}

func TestWorldState_Storage(t *testing.T) {
	for name, factory := range stateFactories(t) {
		t.Run(name, func(t *testing.T) {
			state := factory()
			a, b := contessa.Hash{1}, contessa.Hash{2}

			state.SetStorage(a, []byte("x"), []byte("1"))
			state.SetStorage(a, []byte("y"), []byte("2"))
			state.SetStorage(b, []byte("x"), []byte("3"))

			value, found := state.GetStorage(a, []byte("x"))
			require.True(t, found)
			require.Equal(t, []byte("1"), value)

			state.SetStorage(a, []byte("x"), nil)
			_, found = state.GetStorage(a, []byte("x"))
			require.False(t, found)

			state.ClearStorage(a)
			_, found = state.GetStorage(a, []byte("y"))
			require.False(t, found)

			value, found = state.GetStorage(b, []byte("x"))
			require.True(t, found, "clearing a namespace must not affect others")
			require.Equal(t, []byte("3"), value)
		})
	}
}

func TestWorldState_Codes(t *testing.T) {
	for name, factory := range stateFactories(t) {
		t.Run(name, func(t *testing.T) {
			state := factory()
			info := contessa.CodeInfo{
				Owner:    contessa.Address{1},
				Deposit:  1005,
				RefCount: 2,
				Code:     contessa.Code{1, 2, 3, 4, 5},
			}
			hash := contessa.HashCode(info.Code)
			state.SetCode(hash, info)

			got, found := state.GetCode(hash)
			require.True(t, found)
			require.Equal(t, info, got)

			state.DeleteCode(hash)
			_, found = state.GetCode(hash)
			require.False(t, found)
		})
	}
}

func TestLevelDb_PersistsAcrossReopening(t *testing.T) {
	dir := t.TempDir()
	db, err := OpenLevelDb(dir)
	require.NoError(t, err)
	db.SetAccount(contessa.Address{1}, contessa.Account{Nonce: 7})
	db.SetStorage(contessa.Hash{1}, []byte("k"), []byte("v"))
	require.NoError(t, db.Close())

	db, err = OpenLevelDb(dir)
	require.NoError(t, err)
	defer db.Close()
	account, found := db.GetAccount(contessa.Address{1})
	require.True(t, found)
	require.Equal(t, uint64(7), account.Nonce)
	value, found := db.GetStorage(contessa.Hash{1}, []byte("k"))
	require.True(t, found)
	require.Equal(t, []byte("v"), value)
	require.NoError(t, db.Err())
}

func TestLevelDb_UpdatesAreWrittenOnFlush(t *testing.T) {
	db, err := OpenLevelDb("")
	require.NoError(t, err)
	defer db.Close()

	db.SetStorage(contessa.Hash{1}, []byte("old"), []byte("v"))
	require.NoError(t, db.Flush())

	db.SetAccount(contessa.Address{1}, contessa.Account{Nonce: 3})
	db.SetStorage(contessa.Hash{1}, []byte("new"), []byte("w"))
	db.ClearStorage(contessa.Hash{1})
	db.SetStorage(contessa.Hash{1}, []byte("kept"), []byte("x"))

	// Buffered updates are visible to readers before they are persisted.
	_, found := db.GetAccount(contessa.Address{1})
	require.True(t, found)
	_, err = db.db.Get(accountKey(contessa.Address{1}), nil)
	require.ErrorIs(t, err, leveldb.ErrNotFound)
	_, err = db.db.Get(storageKey(contessa.Hash{1}, []byte("old")), nil)
	require.NoError(t, err)

	require.NoError(t, db.Flush())
	_, err = db.db.Get(accountKey(contessa.Address{1}), nil)
	require.NoError(t, err)
	for key, want := range map[string]bool{"old": false, "new": false, "kept": true} {
		_, found := db.GetStorage(contessa.Hash{1}, []byte(key))
		require.Equal(t, want, found, key)
	}
}

func TestLevelDb_FailuresAreReportedAndDiscardUpdates(t *testing.T) {
	db, err := OpenLevelDb("")
	require.NoError(t, err)
	db.SetAccount(contessa.Address{1}, contessa.Account{Nonce: 1})
	require.NoError(t, db.Flush())
	require.NoError(t, db.db.Close())

	_, found := db.GetAccount(contessa.Address{1})
	require.False(t, found)
	require.ErrorIs(t, db.Err(), leveldb.ErrClosed)

	db.SetAccount(contessa.Address{2}, contessa.Account{Nonce: 2})
	require.ErrorIs(t, db.Flush(), leveldb.ErrClosed)
	require.Empty(t, db.pending)
	require.Error(t, db.Close())
}

func TestMemory_CloneAndEqual(t *testing.T) {
	state := NewMemory()
	state.SetAccount(contessa.Address{1}, contessa.Account{Contract: &contessa.ContractInfo{StorageItems: 1}})
	state.SetStorage(contessa.Hash{1}, []byte("k"), []byte("v"))
	state.SetCode(contessa.Hash{2}, contessa.CodeInfo{Code: contessa.Code{1}})

	clone := state.Clone()
	require.True(t, state.Equal(clone))
	require.Equal(t, 1, clone.StorageItems(contessa.Hash{1}))

	clone.SetStorage(contessa.Hash{1}, []byte("k"), []byte("w"))
	require.False(t, state.Equal(clone))

	clone = state.Clone()
	clone.SetAccount(contessa.Address{1}, contessa.Account{Contract: &contessa.ContractInfo{StorageItems: 2}})
	require.False(t, state.Equal(clone))
}
