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

func TestDepositMeter_ChargesAreLimited(t *testing.T) {
	meter := newDepositMeter(100)
	if err := meter.charge(contessa.Charge(60)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := meter.charge(contessa.Charge(50)); !errors.Is(err, contessa.ErrStorageDepositLimitExhausted) {
		t.Errorf("expected limit to be exhausted, got %v", err)
	}
	if want, got := contessa.Charge(60), meter.total; want != got {
		t.Errorf("rejected charge modified the meter, wanted %v, got %v", want, got)
	}
	if err := meter.charge(contessa.Refund(20)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := uint64(60), meter.available(); want != got {
		t.Errorf("unexpected available amount, wanted %d, got %d", want, got)
	}
}

func TestDepositMeter_RefundsIncreaseAvailableAmount(t *testing.T) {
	meter := newDepositMeter(10)
	if err := meter.charge(contessa.Refund(30)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := uint64(40), meter.available(); want != got {
		t.Errorf("unexpected available amount, wanted %d, got %d", want, got)
	}
	if err := meter.charge(contessa.Charge(40)); err != nil {
		t.Errorf("charge covered by refund was rejected: %v", err)
	}
}

func TestDepositMeter_NestedMetersAreBoundedByParent(t *testing.T) {
	parent := newDepositMeter(100)
	if err := parent.charge(contessa.Charge(30)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	child := parent.nested()
	if err := child.charge(contessa.Charge(71)); !errors.Is(err, contessa.ErrStorageDepositLimitExhausted) {
		t.Errorf("nested meter exceeded parent limit, got %v", err)
	}
	if err := child.charge(contessa.Charge(70)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	parent.absorb(child)
	if want, got := contessa.Charge(100), parent.total; want != got {
		t.Errorf("unexpected total, wanted %v, got %v", want, got)
	}
}

func TestItemDelta_ComputesDepositChanges(t *testing.T) {
	costs := &contessa.DepositCosts{PerItem: 100, PerByte: 10}
	tests := map[string]struct {
		old     []byte
		existed bool
		value   []byte
		exists  bool
		want    contessa.Deposit
	}{
		"create":       {value: []byte("abc"), exists: true, want: contessa.Charge(100 + 10*(3+3))},
		"grow":         {old: []byte("a"), existed: true, value: []byte("abc"), exists: true, want: contessa.Charge(20)},
		"shrink":       {old: []byte("abc"), existed: true, value: []byte("a"), exists: true, want: contessa.Refund(20)},
		"same size":    {old: []byte("abc"), existed: true, value: []byte("xyz"), exists: true, want: contessa.Charge(0)},
		"remove":       {old: []byte("abc"), existed: true, want: contessa.Refund(100 + 10*(3+3))},
		"empty create": {value: []byte{}, exists: true, want: contessa.Charge(100 + 10*3)},
		"absent":       {want: contessa.Charge(0)},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got := itemDelta(costs, 3, test.old, test.existed, test.value, test.exists)
			if test.want != got {
				t.Errorf("unexpected deposit, wanted %v, got %v", test.want, got)
			}
		})
	}
}

func TestSettle_MovesDepositBetweenOriginAndReserve(t *testing.T) {
	origin := contessa.Address{1}
	tests := map[string]struct {
		balance uint64
		deposit contessa.Deposit
		want    uint64
		err     error
	}{
		"charge":     {balance: 100, deposit: contessa.Charge(40), want: 60},
		"refund":     {balance: 100, deposit: contessa.Refund(40), want: 140},
		"zero":       {balance: 100, deposit: contessa.Charge(0), want: 100},
		"exhausting": {balance: 100, deposit: contessa.Charge(100), want: 0},
		"too large":  {balance: 100, deposit: contessa.Charge(101), want: 100, err: contessa.ErrStorageDepositNotEnoughFunds},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			s := state.NewMemory()
			s.SetAccount(origin, contessa.Account{Balance: contessa.NewValue(test.balance)})
			if err := settle(s, origin, test.deposit); !errors.Is(err, test.err) {
				t.Fatalf("unexpected error, wanted %v, got %v", test.err, err)
			}
			account, _ := s.GetAccount(origin)
			if want, got := contessa.NewValue(test.want), account.Balance; want != got {
				t.Errorf("unexpected balance, wanted %v, got %v", want, got)
			}
		})
	}
}
