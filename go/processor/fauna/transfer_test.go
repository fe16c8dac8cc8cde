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
	"errors"
	"testing"

	"github.com/Fantom-foundation/Contessa/go/contessa"
	"github.com/Fantom-foundation/Contessa/go/state"
)

func TestTransfer_BalancesAreUpdated(t *testing.T) {
	sender, recipient, contract := contessa.Address{1}, contessa.Address{2}, contessa.Address{3}
	minimum := contessa.NewValue(10)

	tests := map[string]struct {
		from, to   contessa.Address
		value      uint64
		wantFrom   uint64
		wantTo     uint64
		err        error
		newAccount bool
	}{
		"partial":                 {from: sender, to: recipient, value: 20, wantFrom: 80, wantTo: 70},
		"everything":              {from: sender, to: recipient, value: 100, wantFrom: 0, wantTo: 150},
		"zero":                    {from: sender, to: recipient, value: 0, wantFrom: 100, wantTo: 50},
		"insufficient":            {from: sender, to: recipient, value: 101, wantFrom: 100, wantTo: 50, err: contessa.ErrTransferFailed},
		"remainder below minimum": {from: sender, to: recipient, value: 95, wantFrom: 100, wantTo: 50, err: contessa.ErrTransferFailed},
		"contract keeps minimum":  {from: contract, to: recipient, value: 90, wantFrom: 10, wantTo: 140},
		"contract may not empty":  {from: contract, to: recipient, value: 100, wantFrom: 100, wantTo: 50, err: contessa.ErrTransferFailed},
		"to self":                 {from: sender, to: sender, value: 20, wantFrom: 100, wantTo: 100},
		"new account":             {from: sender, to: contessa.Address{9}, value: 10, wantFrom: 90, wantTo: 10, newAccount: true},
		"dust to new account":     {from: sender, to: contessa.Address{9}, value: 9, wantFrom: 100, wantTo: 0, err: contessa.ErrTransferFailed, newAccount: true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			s := state.NewMemory()
			s.SetAccount(sender, contessa.Account{Balance: contessa.NewValue(100)})
			s.SetAccount(recipient, contessa.Account{Balance: contessa.NewValue(50)})
			s.SetAccount(contract, contessa.Account{
				Balance:  contessa.NewValue(100),
				Contract: &contessa.ContractInfo{},
			})

			err := transfer(s, test.from, test.to, contessa.NewValue(test.value), minimum)
			if !errors.Is(err, test.err) {
				t.Fatalf("unexpected error, wanted %v, got %v", test.err, err)
			}
			from, _ := s.GetAccount(test.from)
			if want, got := contessa.NewValue(test.wantFrom), from.Balance; want != got {
				t.Errorf("unexpected sender balance, wanted %v, got %v", want, got)
			}
			to, found := s.GetAccount(test.to)
			if want, got := contessa.NewValue(test.wantTo), to.Balance; want != got {
				t.Errorf("unexpected recipient balance, wanted %v, got %v", want, got)
			}
			if test.newAccount && found != (test.err == nil) {
				t.Errorf("unexpected existence of new account: %t", found)
			}
		})
	}
}

func TestTransferAll_EmptiesSender(t *testing.T) {
	s := state.NewMemory()
	s.SetAccount(contessa.Address{1}, contessa.Account{
		Balance:  contessa.NewValue(100),
		Contract: &contessa.ContractInfo{},
	})
	if err := transferAll(s, contessa.Address{1}, contessa.Address{2}, contessa.NewValue(10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	from, _ := s.GetAccount(contessa.Address{1})
	to, _ := s.GetAccount(contessa.Address{2})
	if !from.Balance.IsZero() {
		t.Errorf("sender was not emptied, got %v", from.Balance)
	}
	if want, got := contessa.NewValue(100), to.Balance; want != got {
		t.Errorf("unexpected recipient balance, wanted %v, got %v", want, got)
	}
}
