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

// ConstError is an error type that can be used to define immutable
// error constants.
type ConstError string

func (e ConstError) Error() string {
	return string(e)
}

// Validation errors, reported when code is uploaded. Rejected code never
// enters execution.
const (
	ErrCodeTooLarge           = ConstError("code too large")
	ErrInvalidModule          = ConstError("invalid module")
	ErrDisallowedImport       = ConstError("disallowed import")
	ErrUnsupportedInstruction = ConstError("unsupported instruction")
	ErrMemoryLimit            = ConstError("memory limit exceeded")
)

// Traps, terminating a sandboxed execution abnormally.
const (
	ErrUnreachable          = ConstError("unreachable executed")
	ErrDivisionByZero       = ConstError("division by zero")
	ErrMemoryOutOfBounds    = ConstError("memory access out of bounds")
	ErrStackOverflow        = ConstError("stack overflow")
	ErrStackUnderflow       = ConstError("stack underflow")
	ErrOutputBufferTooSmall = ConstError("output buffer too small")
	ErrTrapRequested        = ConstError("trap requested")
	ErrDecode               = ConstError("malformed host function arguments")
	ErrOutOfGas             = ConstError("out of gas")
)

// Execution errors raised by the call-stack manager and the host functions.
const (
	ErrCallStackOverflow            = ConstError("call stack overflow")
	ErrStorageDepositLimitExhausted = ConstError("storage deposit limit exhausted")
	ErrStorageDepositNotEnoughFunds = ConstError("not enough funds to pay storage deposit")
	ErrReadOnlyViolation            = ConstError("state change in read-only frame")
	ErrTransferFailed               = ConstError("transfer failed")
	ErrCodeNotFound                 = ConstError("code not found")
	ErrContractNotFound             = ConstError("contract not found")
	ErrCodeInUse                    = ConstError("code in use")
	ErrNotCodeOwner                 = ConstError("not code owner")
	ErrDuplicateContract            = ConstError("duplicate contract")
	ErrNotCallable                  = ConstError("account is not callable")
	ErrTerminatedWhileReentrant     = ConstError("terminated while reentrant")
	ErrReentranceDenied             = ConstError("reentrance denied")
	ErrValueTooLarge                = ConstError("value too large")
	ErrKeyTooLarge                  = ConstError("storage key too large")
	ErrTooManyTopics                = ConstError("too many topics")
)

// Results of a top-level invocation.
const (
	ErrContractTrapped  = ConstError("contract trapped")
	ErrContractReverted = ConstError("contract reverted")
	ErrStateFailure     = ConstError("world state failure")
)
