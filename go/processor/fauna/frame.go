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

// frame is a single nested invocation of contract code. It serves as the
// host context of the instance executing its code.
type frame struct {
	inv      *invocation
	parent   *frame
	kind     contessa.CallKind
	entry    contessa.EntryPoint
	account  contessa.Address // < identity and storage owner
	caller   contessa.Address
	codeHash contessa.Hash // < the executed code
	value    contessa.Value
	input    contessa.Data
	readOnly bool

	state    *overlay
	gas      *contessa.GasMeter
	deposit  *depositMeter
	instance contessa.Instance
}

var _ contessa.HostContext = (*frame)(nil)

func (f *frame) String() string {
	return fmt.Sprintf("%v(%v)", f.kind, f.account)
}

// contract returns the account of the contract owning the frame.
func (f *frame) contract() (contessa.Account, error) {
	account, found := f.state.GetAccount(f.account)
	if !found || !account.IsContract() {
		return contessa.Account{}, fmt.Errorf("%w: %v", contessa.ErrContractNotFound, f.account)
	}
	return account, nil
}

func (f *frame) GetStorage(key []byte) ([]byte, bool) {
	account, err := f.contract()
	if err != nil {
		return nil, false
	}
	return f.state.GetStorage(account.Contract.StorageID, key)
}

func (f *frame) SetStorage(key []byte, value []byte) (int, bool, error) {
	if value == nil {
		value = []byte{}
	}
	return f.writeStorage(key, value, true)
}

func (f *frame) ClearStorage(key []byte) (int, bool, error) {
	return f.writeStorage(key, nil, false)
}

// writeStorage replaces a storage item and settles the deposit of the change
// before the item is modified.
func (f *frame) writeStorage(key []byte, value []byte, exists bool) (int, bool, error) {
	if f.readOnly {
		return 0, false, contessa.ErrReadOnlyViolation
	}
	account, err := f.contract()
	if err != nil {
		return 0, false, err
	}
	info := account.Contract
	old, existed := f.state.GetStorage(info.StorageID, key)
	if !existed && !exists {
		return 0, false, nil
	}

	costs := &f.inv.schedule.DepositCosts
	delta := itemDelta(costs, len(key), old, existed, value, exists)
	if err := f.deposit.charge(delta); err != nil {
		return 0, false, err
	}

	if existed {
		info.StorageItems--
		info.StorageBytes -= uint64(len(key) + len(old))
	}
	if exists {
		info.StorageItems++
		info.StorageBytes += uint64(len(key) + len(value))
	}
	if delta.Refund {
		info.DepositReserved -= delta.Amount
	} else {
		info.DepositReserved += delta.Amount
	}
	f.state.SetAccount(f.account, account)
	f.state.SetStorage(info.StorageID, key, value)
	return len(old), existed, nil
}

func (f *frame) Transfer(to contessa.Address, value contessa.Value) error {
	if f.readOnly {
		return contessa.ErrReadOnlyViolation
	}
	return transfer(f.state, f.account, to, value, f.MinimumBalance())
}

func (f *frame) Terminate(beneficiary contessa.Address) error {
	if f.readOnly {
		return contessa.ErrReadOnlyViolation
	}
	if beneficiary == f.account {
		return fmt.Errorf("%w: contract %v cannot be its own beneficiary", contessa.ErrTransferFailed, f.account)
	}
	for _, other := range f.inv.frames {
		if other != f && other.account == f.account {
			return fmt.Errorf("%w: %v", contessa.ErrTerminatedWhileReentrant, f.account)
		}
	}
	account, err := f.contract()
	if err != nil {
		return err
	}
	info := account.Contract
	if err := transferAll(f.state, f.account, beneficiary, f.MinimumBalance()); err != nil {
		return err
	}
	if err := f.deposit.charge(contessa.Refund(info.DepositReserved)); err != nil {
		return err
	}
	if err := f.inv.codes.release(f.state, info.CodeHash); err != nil {
		return err
	}
	f.state.ClearStorage(info.StorageID)
	f.state.DeleteAccount(f.account)
	log.Debug("Contract terminated", "contract", f.account, "beneficiary", beneficiary)
	return nil
}

func (f *frame) DepositEvent(topics []contessa.Hash, data contessa.Data) {
	f.state.emit(contessa.Event{
		Contract: f.account,
		Topics:   topics,
		Data:     data,
	})
}

func (f *frame) SetCodeHash(hash contessa.Hash) error {
	if f.readOnly {
		return contessa.ErrReadOnlyViolation
	}
	account, err := f.contract()
	if err != nil {
		return err
	}
	if err := f.inv.codes.acquire(f.state, hash); err != nil {
		return err
	}
	if err := f.inv.codes.release(f.state, account.Contract.CodeHash); err != nil {
		return err
	}
	// Releasing may have modified the account by refunding a code deposit.
	account, err = f.contract()
	if err != nil {
		return err
	}
	account.Contract.CodeHash = hash
	f.state.SetAccount(f.account, account)
	return nil
}

func (f *frame) DebugMessage(message string) bool {
	if !f.inv.config.DebugMessages {
		return false
	}
	if f.inv.debugLen+len(message) > f.inv.schedule.Limits.DebugBufferLen {
		return false
	}
	f.inv.debugLen += len(message)
	log.Debug("Contract debug message", "contract", f.account, "message", message)
	f.inv.debug = append(f.inv.debug, message)
	return true
}

func (f *frame) Caller() contessa.Address {
	return f.caller
}

func (f *frame) Address() contessa.Address {
	return f.account
}

func (f *frame) Balance() contessa.Value {
	account, _ := f.state.GetAccount(f.account)
	return account.Balance
}

func (f *frame) ValueTransferred() contessa.Value {
	return f.value
}

func (f *frame) BlockNumber() uint64 {
	return f.inv.block.BlockNumber
}

func (f *frame) Now() uint64 {
	return f.inv.block.Timestamp
}

func (f *frame) Random(subject []byte) (contessa.Hash, uint64) {
	return contessa.Blake2b256(f.inv.block.Randomness[:], subject), f.inv.block.BlockNumber
}

func (f *frame) CodeHash(address contessa.Address) (contessa.Hash, bool) {
	account, found := f.state.GetAccount(address)
	if !found || !account.IsContract() {
		return contessa.Hash{}, false
	}
	return account.Contract.CodeHash, true
}

func (f *frame) OwnCodeHash() contessa.Hash {
	hash, _ := f.CodeHash(f.account)
	return hash
}

func (f *frame) IsContract(address contessa.Address) bool {
	account, found := f.state.GetAccount(address)
	return found && account.IsContract()
}

func (f *frame) CallerIsOrigin() bool {
	return f.caller == f.inv.origin
}

func (f *frame) MinimumBalance() contessa.Value {
	return contessa.NewValue(f.inv.schedule.MinimumBalance)
}

func (f *frame) ReadOnly() bool {
	return f.readOnly
}
