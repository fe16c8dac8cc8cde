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
	"strings"

	"github.com/Fantom-foundation/Contessa/go/contessa"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type storageKey struct {
	namespace contessa.Hash
	key       string
}

// overlay is a WorldState buffering modifications on top of a parent state.
// Reads fall through to the parent unless the overlay holds a newer version.
// A frame's overlay is merged into the overlay of its caller on success and
// dropped otherwise.
type overlay struct {
	parent   contessa.WorldState
	accounts map[contessa.Address]*contessa.Account   // < nil marks a deleted account
	storage  map[storageKey][]byte                    // < nil marks a deleted item
	cleared  map[contessa.Hash]bool                   // < namespaces cleared in this layer
	codes    map[contessa.Hash]*contessa.CodeInfo     // < nil marks a deleted code
	events   []contessa.Event
}

func newOverlay(parent contessa.WorldState) *overlay {
	return &overlay{
		parent:   parent,
		accounts: map[contessa.Address]*contessa.Account{},
		storage:  map[storageKey][]byte{},
		cleared:  map[contessa.Hash]bool{},
		codes:    map[contessa.Hash]*contessa.CodeInfo{},
	}
}

func (o *overlay) GetAccount(address contessa.Address) (contessa.Account, bool) {
	if account, found := o.accounts[address]; found {
		if account == nil {
			return contessa.Account{}, false
		}
		return account.Clone(), true
	}
	return o.parent.GetAccount(address)
}

func (o *overlay) SetAccount(address contessa.Address, account contessa.Account) {
	account = account.Clone()
	o.accounts[address] = &account
}

func (o *overlay) DeleteAccount(address contessa.Address) {
	o.accounts[address] = nil
}

func (o *overlay) GetStorage(namespace contessa.Hash, key []byte) ([]byte, bool) {
	if value, found := o.storage[storageKey{namespace, string(key)}]; found {
		if value == nil {
			return nil, false
		}
		return bytes.Clone(value), true
	}
	if o.cleared[namespace] {
		return nil, false
	}
	return o.parent.GetStorage(namespace, key)
}

func (o *overlay) SetStorage(namespace contessa.Hash, key []byte, value []byte) {
	if value != nil {
		value = append([]byte{}, value...)
	}
	o.storage[storageKey{namespace, string(key)}] = value
}

func (o *overlay) ClearStorage(namespace contessa.Hash) {
	for key := range o.storage {
		if key.namespace == namespace {
			delete(o.storage, key)
		}
	}
	o.cleared[namespace] = true
}

func (o *overlay) GetCode(hash contessa.Hash) (contessa.CodeInfo, bool) {
	if info, found := o.codes[hash]; found {
		if info == nil {
			return contessa.CodeInfo{}, false
		}
		return *info, true
	}
	return o.parent.GetCode(hash)
}

func (o *overlay) SetCode(hash contessa.Hash, info contessa.CodeInfo) {
	o.codes[hash] = &info
}

func (o *overlay) DeleteCode(hash contessa.Hash) {
	o.codes[hash] = nil
}

func (o *overlay) emit(event contessa.Event) {
	o.events = append(o.events, event)
}

// commit applies all modifications of this overlay to its parent. Changes are
// applied in a deterministic order.
func (o *overlay) commit() {
	target := o.parent

	cleared := maps.Keys(o.cleared)
	slices.SortFunc(cleared, func(a, b contessa.Hash) int { return bytes.Compare(a[:], b[:]) })
	for _, namespace := range cleared {
		target.ClearStorage(namespace)
	}

	addresses := maps.Keys(o.accounts)
	slices.SortFunc(addresses, func(a, b contessa.Address) int { return bytes.Compare(a[:], b[:]) })
	for _, address := range addresses {
		if account := o.accounts[address]; account == nil {
			target.DeleteAccount(address)
		} else {
			target.SetAccount(address, *account)
		}
	}

	keys := maps.Keys(o.storage)
	slices.SortFunc(keys, func(a, b storageKey) int {
		if res := bytes.Compare(a.namespace[:], b.namespace[:]); res != 0 {
			return res
		}
		return strings.Compare(a.key, b.key)
	})
	for _, key := range keys {
		target.SetStorage(key.namespace, []byte(key.key), o.storage[key])
	}

	hashes := maps.Keys(o.codes)
	slices.SortFunc(hashes, func(a, b contessa.Hash) int { return bytes.Compare(a[:], b[:]) })
	for _, hash := range hashes {
		if info := o.codes[hash]; info == nil {
			target.DeleteCode(hash)
		} else {
			target.SetCode(hash, *info)
		}
	}

	if parent, ok := target.(*overlay); ok {
		parent.events = append(parent.events, o.events...)
	}
}
