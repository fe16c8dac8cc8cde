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

import (
	"fmt"
	"math"
)

// Weight is the two-dimensional resource budget of a contract execution.
// RefTime measures computation in picoseconds of reference hardware, while
// ProofSize measures the bytes of state proof a light client would need to
// validate the execution.
type Weight struct {
	RefTime   uint64
	ProofSize uint64
}

// NewWeight creates a Weight from its two components.
func NewWeight(refTime, proofSize uint64) Weight {
	return Weight{RefTime: refTime, ProofSize: proofSize}
}

// RefTimeOnly is a shortcut for weights without a proof component.
func RefTimeOnly(refTime uint64) Weight {
	return Weight{RefTime: refTime}
}

func (w Weight) String() string {
	return fmt.Sprintf("(ref_time: %d, proof_size: %d)", w.RefTime, w.ProofSize)
}

func (w Weight) IsZero() bool {
	return w == Weight{}
}

// AnyGt returns true if any component of w exceeds the respective
// component of o.
func (w Weight) AnyGt(o Weight) bool {
	return w.RefTime > o.RefTime || w.ProofSize > o.ProofSize
}

// SaturatingAdd adds both components, clamping at the maximum value.
func (w Weight) SaturatingAdd(o Weight) Weight {
	return Weight{
		RefTime:   saturatingAdd(w.RefTime, o.RefTime),
		ProofSize: saturatingAdd(w.ProofSize, o.ProofSize),
	}
}

// SaturatingSub subtracts both components, clamping at zero.
func (w Weight) SaturatingSub(o Weight) Weight {
	return Weight{
		RefTime:   saturatingSub(w.RefTime, o.RefTime),
		ProofSize: saturatingSub(w.ProofSize, o.ProofSize),
	}
}

// SaturatingMul scales both components by n, clamping at the maximum value.
func (w Weight) SaturatingMul(n uint64) Weight {
	return Weight{
		RefTime:   saturatingMul(w.RefTime, n),
		ProofSize: saturatingMul(w.ProofSize, n),
	}
}

// Min returns the component-wise minimum of w and o.
func (w Weight) Min(o Weight) Weight {
	return Weight{
		RefTime:   min(w.RefTime, o.RefTime),
		ProofSize: min(w.ProofSize, o.ProofSize),
	}
}

func saturatingAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}

func saturatingSub(a, b uint64) uint64 {
	if a < b {
		return 0
	}
	return a - b
}

func saturatingMul(a, b uint64) uint64 {
	if a != 0 && b > math.MaxUint64/a {
		return math.MaxUint64
	}
	return a * b
}

// GasMeter tracks the weight consumed by one frame of an invocation. A meter
// of a nested frame is obtained through Nested, which debits the granted
// budget from the parent up-front. Unused budget flows back through Absorb.
// The remaining budget never increases except through Absorb, and never
// drops below zero.
type GasMeter struct {
	limit    Weight
	consumed Weight
}

// NewGasMeter creates a meter with the given limit.
func NewGasMeter(limit Weight) *GasMeter {
	return &GasMeter{limit: limit}
}

// Limit returns the total budget of this meter.
func (m *GasMeter) Limit() Weight {
	return m.limit
}

// Consumed returns the weight consumed so far, including budgets currently
// granted to nested meters.
func (m *GasMeter) Consumed() Weight {
	return m.consumed
}

// Remaining returns the weight still available to this meter.
func (m *GasMeter) Remaining() Weight {
	return m.limit.SaturatingSub(m.consumed)
}

// Charge debits the given amount. If either component exceeds the remaining
// budget, the meter is exhausted and ErrOutOfGas is returned.
func (m *GasMeter) Charge(amount Weight) error {
	next := m.consumed.SaturatingAdd(amount)
	if next.AnyGt(m.limit) {
		m.consumed = m.limit
		return ErrOutOfGas
	}
	m.consumed = next
	return nil
}

// Nested creates a meter for a child frame. Zero components of the requested
// limit grant everything remaining in that dimension; non-zero components are
// clamped to what remains. The granted budget is debited from this meter.
func (m *GasMeter) Nested(requested Weight) *GasMeter {
	remaining := m.Remaining()
	if requested.RefTime == 0 {
		requested.RefTime = remaining.RefTime
	}
	if requested.ProofSize == 0 {
		requested.ProofSize = remaining.ProofSize
	}
	granted := requested.Min(remaining)
	m.consumed = m.consumed.SaturatingAdd(granted)
	return &GasMeter{limit: granted}
}

// Absorb credits the unused budget of a nested meter back to this meter. It
// must be called exactly once per nested meter.
func (m *GasMeter) Absorb(nested *GasMeter) {
	m.Refund(nested.Remaining())
}

// Refund credits the given amount back to this meter. The refund is capped by
// the weight consumed so far, so no meter can ever exceed its limit.
func (m *GasMeter) Refund(amount Weight) {
	m.consumed = m.consumed.SaturatingSub(amount)
}
