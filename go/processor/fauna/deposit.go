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
)

// depositMeter tracks the net storage deposit charged by a frame and the
// frames nested in it. The net charge of a whole invocation must never
// exceed the limit of its root meter.
type depositMeter struct {
	limit uint64
	total contessa.Deposit
}

func newDepositMeter(limit uint64) *depositMeter {
	return &depositMeter{limit: limit}
}

// available returns the amount that may still be charged.
func (m *depositMeter) available() uint64 {
	if m.total.Refund {
		return saturatingAdd(m.limit, m.total.Amount)
	}
	return m.limit - m.total.Amount
}

// charge adds the given deposit change. Charges exceeding the limit are
// rejected without modifying the meter; refunds always succeed.
func (m *depositMeter) charge(deposit contessa.Deposit) error {
	next := m.total.Add(deposit)
	if next.ChargeOrZero() > m.limit {
		return fmt.Errorf("%w: %v exceeds limit of %d", contessa.ErrStorageDepositLimitExhausted, next, m.limit)
	}
	m.total = next
	return nil
}

// nested creates a meter for a child frame, limited to what this meter may
// still charge.
func (m *depositMeter) nested() *depositMeter {
	return newDepositMeter(m.available())
}

// absorb adds the total of a successfully completed nested meter.
func (m *depositMeter) absorb(nested *depositMeter) {
	m.total = m.total.Add(nested.total)
}

// itemDelta computes the change of deposit caused by replacing a storage item.
// Absent items are represented by a nil value and existed = false.
func itemDelta(costs *contessa.DepositCosts, keyLen int, old []byte, existed bool, value []byte, exists bool) contessa.Deposit {
	var before, after uint64
	if existed {
		before = costs.ItemDeposit(keyLen, len(old))
	}
	if exists {
		after = costs.ItemDeposit(keyLen, len(value))
	}
	if after >= before {
		return contessa.Charge(after - before)
	}
	return contessa.Refund(before - after)
}

// settle transfers the net deposit of an invocation between the origin and
// the reserved deposits held by contracts.
func settle(state contessa.WorldState, origin contessa.Address, deposit contessa.Deposit) error {
	if deposit.Amount == 0 {
		return nil
	}
	account, _ := state.GetAccount(origin)
	amount := contessa.NewValue(deposit.Amount)
	if deposit.Refund {
		balance, overflow := contessa.Add(account.Balance, amount)
		if overflow {
			return fmt.Errorf("balance overflow refunding deposit to %v", origin)
		}
		account.Balance = balance
	} else {
		balance, underflow := contessa.Sub(account.Balance, amount)
		if underflow {
			return fmt.Errorf("%w: %v required, %v available", contessa.ErrStorageDepositNotEnoughFunds, deposit.Amount, account.Balance)
		}
		account.Balance = balance
	}
	state.SetAccount(origin, account)
	return nil
}

func saturatingAdd(a, b uint64) uint64 {
	if res := a + b; res >= a {
		return res
	}
	return ^uint64(0)
}
