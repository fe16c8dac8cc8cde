// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package cvm

import (
	"fmt"

	"github.com/Fantom-foundation/Contessa/go/contessa"
)

const (
	errOutOfGas             = contessa.ErrOutOfGas
	errStackOverflow        = contessa.ErrStackOverflow
	errStackUnderflow       = contessa.ErrStackUnderflow
	errUnreachable          = contessa.ErrUnreachable
	errDivisionByZero       = contessa.ErrDivisionByZero
	errMemoryOutOfBounds    = contessa.ErrMemoryOutOfBounds
	errOutputBufferTooSmall = contessa.ErrOutputBufferTooSmall
	errReadOnlyViolation    = contessa.ErrReadOnlyViolation
)

// errTrapRequested wraps the reason for rejecting the arguments of a host
// function.
func errTrapRequested(reason error) error {
	return fmt.Errorf("%w: %w", contessa.ErrTrapRequested, reason)
}
