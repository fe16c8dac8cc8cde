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

// codeStore manages content addressed, reference counted code blobs kept in
// a WorldState. Compilation results are cached by the sandbox.
type codeStore struct {
	sandbox  contessa.Sandbox
	schedule *contessa.Schedule
}

// upload validates the given code and stores it if it is not yet known. It
// returns the code hash and the deposit owed by the owner, which is zero if
// the code was already stored.
func (s *codeStore) upload(state contessa.WorldState, owner contessa.Address, code contessa.Code) (contessa.Hash, uint64, error) {
	if len(code) > s.schedule.Limits.CodeLen {
		return contessa.Hash{}, 0, fmt.Errorf("%w: %d bytes, limit is %d", contessa.ErrCodeTooLarge, len(code), s.schedule.Limits.CodeLen)
	}
	hash := contessa.HashCode(code)
	if _, found := state.GetCode(hash); found {
		return hash, 0, nil
	}
	if _, err := s.sandbox.Compile(hash, code); err != nil {
		return contessa.Hash{}, 0, err
	}
	deposit := s.schedule.DepositCosts.CodeDeposit(len(code))
	state.SetCode(hash, contessa.CodeInfo{
		Owner:   owner,
		Deposit: deposit,
		Code:    code,
	})
	log.Debug("Code uploaded", "hash", hash, "size", len(code), "owner", owner)
	return hash, deposit, nil
}

// load fetches the compiled module of the given code.
func (s *codeStore) load(state contessa.WorldState, hash contessa.Hash) (contessa.Module, error) {
	info, found := state.GetCode(hash)
	if !found {
		return nil, fmt.Errorf("%w: %v", contessa.ErrCodeNotFound, hash)
	}
	return s.sandbox.Compile(hash, info.Code)
}

// acquire registers an additional contract using the given code.
func (s *codeStore) acquire(state contessa.WorldState, hash contessa.Hash) error {
	info, found := state.GetCode(hash)
	if !found {
		return fmt.Errorf("%w: %v", contessa.ErrCodeNotFound, hash)
	}
	info.RefCount++
	state.SetCode(hash, info)
	return nil
}

// release unregisters a contract using the given code. The last release
// evicts the code and refunds its deposit to the owner.
func (s *codeStore) release(state contessa.WorldState, hash contessa.Hash) error {
	info, found := state.GetCode(hash)
	if !found || info.RefCount == 0 {
		return fmt.Errorf("release of unreferenced code %v", hash)
	}
	info.RefCount--
	if info.RefCount > 0 {
		state.SetCode(hash, info)
		return nil
	}
	log.Debug("Code evicted", "hash", hash, "owner", info.Owner)
	return s.evict(state, hash, info)
}

// remove deletes unused code on request of its owner.
func (s *codeStore) remove(state contessa.WorldState, owner contessa.Address, hash contessa.Hash) (uint64, error) {
	info, found := state.GetCode(hash)
	if !found {
		return 0, fmt.Errorf("%w: %v", contessa.ErrCodeNotFound, hash)
	}
	if info.Owner != owner {
		return 0, fmt.Errorf("%w: %v is owned by %v", contessa.ErrNotCodeOwner, hash, info.Owner)
	}
	if info.RefCount > 0 {
		return 0, fmt.Errorf("%w: %v is used by %d contracts", contessa.ErrCodeInUse, hash, info.RefCount)
	}
	return info.Deposit, s.evict(state, hash, info)
}

func (s *codeStore) evict(state contessa.WorldState, hash contessa.Hash, info contessa.CodeInfo) error {
	state.DeleteCode(hash)
	if info.Deposit == 0 {
		return nil
	}
	account, _ := state.GetAccount(info.Owner)
	balance, overflow := contessa.Add(account.Balance, contessa.NewValue(info.Deposit))
	if overflow {
		return fmt.Errorf("balance overflow refunding code deposit to %v", info.Owner)
	}
	account.Balance = balance
	state.SetAccount(info.Owner, account)
	return nil
}
