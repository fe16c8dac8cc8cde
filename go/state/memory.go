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
	"bytes"
	"sync"

	"github.com/Fantom-foundation/Contessa/go/contessa"
	"golang.org/x/exp/maps"
)

// Memory is a WorldState kept entirely in memory. It is intended for tests
// and tools. Values handed in and out are copied, so callers may modify them
// freely. A Memory state is thread-safe.
type Memory struct {
	mutex    sync.Mutex
	accounts map[contessa.Address]contessa.Account
	storage  map[contessa.Hash]map[string][]byte
	codes    map[contessa.Hash]contessa.CodeInfo
}

func NewMemory() *Memory {
	return &Memory{
		accounts: map[contessa.Address]contessa.Account{},
		storage:  map[contessa.Hash]map[string][]byte{},
		codes:    map[contessa.Hash]contessa.CodeInfo{},
	}
}

func (m *Memory) GetAccount(address contessa.Address) (contessa.Account, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	account, found := m.accounts[address]
	return account.Clone(), found
}

func (m *Memory) SetAccount(address contessa.Address, account contessa.Account) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.accounts[address] = account.Clone()
}

func (m *Memory) DeleteAccount(address contessa.Address) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.accounts, address)
}

func (m *Memory) GetStorage(namespace contessa.Hash, key []byte) ([]byte, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	value, found := m.storage[namespace][string(key)]
	return bytes.Clone(value), found
}

func (m *Memory) SetStorage(namespace contessa.Hash, key []byte, value []byte) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	items := m.storage[namespace]
	if value == nil {
		delete(items, string(key))
		if len(items) == 0 {
			delete(m.storage, namespace)
		}
		return
	}
	if items == nil {
		items = map[string][]byte{}
		m.storage[namespace] = items
	}
	items[string(key)] = bytes.Clone(value)
}

func (m *Memory) ClearStorage(namespace contessa.Hash) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.storage, namespace)
}

func (m *Memory) GetCode(hash contessa.Hash) (contessa.CodeInfo, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	info, found := m.codes[hash]
	return info, found
}

func (m *Memory) SetCode(hash contessa.Hash, info contessa.CodeInfo) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	info.Code = bytes.Clone(info.Code)
	m.codes[hash] = info
}

func (m *Memory) DeleteCode(hash contessa.Hash) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.codes, hash)
}

// StorageItems returns the number of items in the given storage namespace.
func (m *Memory) StorageItems(namespace contessa.Hash) int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.storage[namespace])
}

// Clone creates an independent copy of this state.
func (m *Memory) Clone() *Memory {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	res := NewMemory()
	for address, account := range m.accounts {
		res.accounts[address] = account.Clone()
	}
	for namespace, items := range m.storage {
		res.storage[namespace] = maps.Clone(items)
	}
	res.codes = maps.Clone(m.codes)
	return res
}

// Equal returns true if both states contain the same accounts, storage items,
// and codes.
func (m *Memory) Equal(o *Memory) bool {
	a, b := m.Clone(), o.Clone()
	if len(a.accounts) != len(b.accounts) || len(a.storage) != len(b.storage) || len(a.codes) != len(b.codes) {
		return false
	}
	for address, account := range a.accounts {
		other, found := b.accounts[address]
		if !found || !accountsEqual(account, other) {
			return false
		}
	}
	for namespace, items := range a.storage {
		if !maps.EqualFunc(items, b.storage[namespace], bytes.Equal) {
			return false
		}
	}
	for hash, info := range a.codes {
		other, found := b.codes[hash]
		if !found || info.Owner != other.Owner || info.Deposit != other.Deposit ||
			info.RefCount != other.RefCount || !bytes.Equal(info.Code, other.Code) {
			return false
		}
	}
	return true
}

func accountsEqual(a, b contessa.Account) bool {
	if a.Balance != b.Balance || a.Nonce != b.Nonce || a.IsContract() != b.IsContract() {
		return false
	}
	return a.Contract == nil || *a.Contract == *b.Contract
}
