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

//go:generate mockgen -source processor.go -destination processor_mock.go -package contessa

// Processor is the upward interface of the execution core. Implementations
// upload and remove code, instantiate contracts, and call them, handling the
// nested calls of contracts, gas metering, and storage deposits. Fees for the
// consumed weight are charged by the surrounding layer.
//
// Every operation reports exactly one outcome: either a nil error and all its
// effects committed to the world state, or a typed error and no effects at
// all. In both cases the receipt reports the consumed weight.
type Processor interface {
	UploadCode(WorldState, UploadRequest) (Receipt, error)
	Instantiate(BlockParameters, WorldState, InstantiateRequest) (Receipt, error)
	Call(BlockParameters, WorldState, CallRequest) (Receipt, error)
	RemoveCode(WorldState, RemoveCodeRequest) (Receipt, error)
}

// BlockParameters contains information about the current block.
type BlockParameters struct {
	BlockNumber uint64
	Timestamp   uint64
	Randomness  Hash // < on-chain randomness of the block
}

// UploadRequest summarizes the parameters of a code upload.
type UploadRequest struct {
	Origin       Address // < the uploader, paying the code deposit
	Code         Code
	DepositLimit uint64
}

// InstantiateRequest summarizes the parameters of a contract instantiation.
// If Code is set, it is uploaded first and CodeHash is ignored.
type InstantiateRequest struct {
	Origin       Address
	CodeHash     Hash
	Code         Code
	Value        Value
	GasLimit     Weight
	DepositLimit uint64
	Input        Data
	Salt         Data
}

// CallRequest summarizes the parameters of a contract call.
type CallRequest struct {
	Origin       Address
	Dest         Address
	Value        Value
	GasLimit     Weight
	DepositLimit uint64
	Input        Data
}

// RemoveCodeRequest summarizes the parameters of a code removal.
type RemoveCodeRequest struct {
	Origin   Address // < must be the owner of the code
	CodeHash Hash
}

// Receipt summarizes the result of an operation of the Processor.
type Receipt struct {
	Output        Data     // < output of the executed entry point, also on revert
	Address       Address  // < the instantiated contract
	CodeHash      Hash     // < the uploaded or instantiated code
	GasConsumed   Weight   // < weight consumed, to be paid by the origin
	Deposit       Deposit  // < net storage deposit charged to or refunded to the origin
	Events        []Event  // < events of committed frames, in emission order
	DebugMessages []string // < only retained if enabled
}

// Event is emitted by a contract through the deposit_event host function.
type Event struct {
	Contract Address
	Topics   []Hash
	Data     Data
}

// Deposit is a signed storage deposit amount.
type Deposit struct {
	Amount uint64
	Refund bool // < true if the amount is returned to the payer
}

// Charge creates a deposit charging the given amount.
func Charge(amount uint64) Deposit {
	return Deposit{Amount: amount}
}

// Refund creates a deposit refunding the given amount.
func Refund(amount uint64) Deposit {
	return Deposit{Amount: amount, Refund: amount != 0}
}

// Add combines two deposits, saturating at the maximum amount.
func (d Deposit) Add(o Deposit) Deposit {
	if d.Refund == o.Refund {
		return Deposit{Amount: saturatingAdd(d.Amount, o.Amount), Refund: d.Refund}
	}
	if d.Amount >= o.Amount {
		return Deposit{Amount: d.Amount - o.Amount, Refund: d.Refund && d.Amount != o.Amount}
	}
	return Deposit{Amount: o.Amount - d.Amount, Refund: o.Refund}
}

// ChargeOrZero returns the charged amount, or zero for refunds.
func (d Deposit) ChargeOrZero() uint64 {
	if d.Refund {
		return 0
	}
	return d.Amount
}

func (d Deposit) String() string {
	if d.Refund {
		return "refund(" + uitoa(d.Amount) + ")"
	}
	return "charge(" + uitoa(d.Amount) + ")"
}
