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

// transfer moves value between two accounts of the given state. Transfers
// fail if the sender's balance is insufficient, if the sender would be left
// with a balance below the minimum without being emptied, if a contract
// would drop below the minimum balance, or if a new account would be created
// with less than the minimum balance. Transfers of zero value always succeed.
func transfer(state contessa.WorldState, from, to contessa.Address, value contessa.Value, minimum contessa.Value) error {
	if value.IsZero() {
		return nil
	}
	sender, _ := state.GetAccount(from)
	remainder, underflow := contessa.Sub(sender.Balance, value)
	if underflow {
		return fmt.Errorf("%w: insufficient balance of %v", contessa.ErrTransferFailed, from)
	}
	if remainder.Cmp(minimum) < 0 && (!remainder.IsZero() || sender.IsContract()) {
		return fmt.Errorf("%w: %v would drop below minimum balance", contessa.ErrTransferFailed, from)
	}
	if from == to {
		return nil
	}
	return credit(state, from, sender, remainder, to, value, minimum)
}

// transferAll moves the whole balance of the sender to the recipient,
// leaving the sender with an empty balance.
func transferAll(state contessa.WorldState, from, to contessa.Address, minimum contessa.Value) error {
	sender, _ := state.GetAccount(from)
	if sender.Balance.IsZero() {
		return nil
	}
	return credit(state, from, sender, contessa.Value{}, to, sender.Balance, minimum)
}

func credit(
	state contessa.WorldState,
	from contessa.Address,
	sender contessa.Account,
	remainder contessa.Value,
	to contessa.Address,
	value contessa.Value,
	minimum contessa.Value,
) error {
	recipient, exists := state.GetAccount(to)
	if !exists && value.Cmp(minimum) < 0 {
		return fmt.Errorf("%w: %v is below minimum balance for new account %v", contessa.ErrTransferFailed, value, to)
	}
	balance, overflow := contessa.Add(recipient.Balance, value)
	if overflow {
		return fmt.Errorf("%w: balance overflow of %v", contessa.ErrTransferFailed, to)
	}
	sender.Balance = remainder
	recipient.Balance = balance
	state.SetAccount(from, sender)
	state.SetAccount(to, recipient)
	return nil
}
