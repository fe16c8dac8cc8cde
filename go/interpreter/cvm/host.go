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
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/Fantom-foundation/Contessa/go/contessa"
)

// hostFunction is an entry of the fixed table of functions contract code may
// import. Every function consumes its parameters from the operand stack and
// pushes a single result.
type hostFunction struct {
	name   string
	params int
	// weight is charged in addition to the base weight before the handler runs.
	weight func(*contessa.HostFnWeights) contessa.Weight
	// mutates marks functions forbidden in read-only frames.
	mutates bool
	handler func(c *context, args []uint64) (uint64, error)
}

// sentinel is used as return value for absent storage items and as out
// pointer for discarded outputs.
const sentinel = math.MaxUint32

// Flags of the call host function.
const (
	flagReadOnly = 1 << iota
	flagDelegate
)

const (
	maxSaltLen    = 128
	maxSubjectLen = 32
)

// hostFunctions is the whitelist of importable host functions.
var hostFunctions = map[string]*hostFunction{}

func init() {
	for _, f := range []*hostFunction{
		{name: "input", params: 2, handler: hostInput},
		{name: "return_value", params: 3, handler: hostReturnValue},
		{name: "get_storage", params: 4, weight: storageRead, handler: hostGetStorage},
		{name: "contains_storage", params: 2, weight: storageRead, handler: hostContainsStorage},
		{name: "set_storage", params: 4, weight: storageWrite, mutates: true, handler: hostSetStorage},
		{name: "clear_storage", params: 2, weight: storageWrite, mutates: true, handler: hostClearStorage},
		{name: "transfer", params: 2, weight: transfer, mutates: true, handler: hostTransfer},
		{name: "call", params: 9, weight: call, handler: hostCall},
		{name: "instantiate", params: 11, weight: instantiate, mutates: true, handler: hostInstantiate},
		{name: "terminate", params: 1, weight: terminate, mutates: true, handler: hostTerminate},
		{name: "deposit_event", params: 4, mutates: true, handler: hostDepositEvent},
		{name: "caller", params: 1, handler: hostCaller},
		{name: "address", params: 1, handler: hostAddress},
		{name: "balance", params: 1, handler: hostBalance},
		{name: "value_transferred", params: 1, handler: hostValueTransferred},
		{name: "minimum_balance", params: 1, handler: hostMinimumBalance},
		{name: "block_number", params: 0, handler: hostBlockNumber},
		{name: "now", params: 0, handler: hostNow},
		{name: "random", params: 3, weight: random, handler: hostRandom},
		{name: "debug_message", params: 2, handler: hostDebugMessage},
		{name: "weight_left", params: 1, handler: hostWeightLeft},
		{name: "hash_keccak_256", params: 3, handler: hostHashKeccak256},
		{name: "hash_blake2_256", params: 3, handler: hostHashBlake2256},
		{name: "code_hash", params: 2, weight: codeHash, handler: hostCodeHash},
		{name: "own_code_hash", params: 1, handler: hostOwnCodeHash},
		{name: "is_contract", params: 1, weight: codeHash, handler: hostIsContract},
		{name: "set_code_hash", params: 1, weight: codeHash, mutates: true, handler: hostSetCodeHash},
		{name: "caller_is_origin", params: 0, handler: hostCallerIsOrigin},
	} {
		hostFunctions[f.name] = f
	}
}

func storageRead(w *contessa.HostFnWeights) contessa.Weight  { return w.StorageRead }
func storageWrite(w *contessa.HostFnWeights) contessa.Weight { return w.StorageWrite }
func transfer(w *contessa.HostFnWeights) contessa.Weight     { return w.Transfer }
func call(w *contessa.HostFnWeights) contessa.Weight         { return w.Call }
func instantiate(w *contessa.HostFnWeights) contessa.Weight  { return w.Instantiate }
func terminate(w *contessa.HostFnWeights) contessa.Weight    { return w.Terminate }
func random(w *contessa.HostFnWeights) contessa.Weight       { return w.Random }
func codeHash(w *contessa.HostFnWeights) contessa.Weight     { return w.CodeHash }

// opHostCall dispatches a HOSTCALL instruction to the imported host function.
func opHostCall(c *context, index int) (status, error) {
	f := c.module.hostFunctions[index]
	if c.stack.len()-c.stackBase < f.params {
		return statusFailed, errStackUnderflow
	}
	if f.params == 0 && c.stack.len() >= maxStackSize {
		return statusFailed, errStackOverflow
	}
	var buffer [16]uint64
	args := buffer[:f.params]
	for i := f.params - 1; i >= 0; i-- {
		args[i] = c.stack.pop()
	}

	weight := c.schedule.HostFnWeights.Base
	if f.weight != nil {
		weight = weight.SaturatingAdd(f.weight(&c.schedule.HostFnWeights))
	}
	if err := c.charge(weight); err != nil {
		return statusFailed, err
	}
	if f.mutates && c.host.ReadOnly() {
		return statusFailed, errReadOnlyViolation
	}

	c.halt = statusRunning
	result, err := f.handler(c, args)
	if err != nil {
		return statusFailed, err
	}
	if c.halt != statusRunning {
		return c.halt, nil
	}
	c.stack.push(result)
	c.pc++
	return statusRunning, nil
}

// --- memory access ---

func checkPointer(values ...uint64) error {
	for _, v := range values {
		if v > math.MaxUint32 {
			return errTrapRequested(contessa.ErrDecode)
		}
	}
	return nil
}

// read copies a region of the instance memory.
func (c *context) read(ptr, length uint64) ([]byte, error) {
	if err := checkPointer(ptr, length); err != nil {
		return nil, err
	}
	data, err := c.memory.slice(ptr, length)
	if err != nil {
		return nil, errTrapRequested(err)
	}
	return bytes.Clone(data), nil
}

// write copies data into the instance memory.
func (c *context) write(ptr uint64, data []byte) error {
	if err := checkPointer(ptr); err != nil {
		return err
	}
	target, err := c.memory.slice(ptr, uint64(len(data)))
	if err != nil {
		return errTrapRequested(err)
	}
	copy(target, data)
	return nil
}

// chargeBytes charges the per-byte weight for copying the given number of
// bytes between instance and host.
func (c *context) chargeBytes(perByte uint64, length uint64) error {
	return c.charge(contessa.RefTimeOnly(perByte).SaturatingMul(length))
}

// writeOutput copies data into an output buffer. The buffer capacity is read
// from outLenPtr, which receives the written length. A sentinel outPtr
// discards the output.
func (c *context) writeOutput(outPtr, outLenPtr uint64, data []byte) error {
	if outPtr == sentinel {
		return nil
	}
	if err := c.chargeBytes(c.schedule.HostFnWeights.PerByte, uint64(len(data))); err != nil {
		return err
	}
	capacity, err := c.read(outLenPtr, 4)
	if err != nil {
		return err
	}
	if uint64(len(data)) > uint64(binary.LittleEndian.Uint32(capacity)) {
		return errOutputBufferTooSmall
	}
	if err := c.write(outPtr, data); err != nil {
		return err
	}
	return c.write(outLenPtr, binary.LittleEndian.AppendUint32(nil, uint32(len(data))))
}

func (c *context) readAddress(ptr uint64) (contessa.Address, error) {
	var res contessa.Address
	data, err := c.read(ptr, uint64(len(res)))
	copy(res[:], data)
	return res, err
}

func (c *context) readHash(ptr uint64) (contessa.Hash, error) {
	var res contessa.Hash
	data, err := c.read(ptr, uint64(len(res)))
	copy(res[:], data)
	return res, err
}

// Values are exchanged with contracts as 32 byte little-endian integers.
func (c *context) readValue(ptr uint64) (contessa.Value, error) {
	var res contessa.Value
	data, err := c.read(ptr, uint64(len(res)))
	if err != nil {
		return res, err
	}
	for i := range data {
		res[len(res)-1-i] = data[i]
	}
	return res, nil
}

func (c *context) writeValue(ptr uint64, value contessa.Value) error {
	var data [32]byte
	for i := range value {
		data[len(data)-1-i] = value[i]
	}
	return c.write(ptr, data[:])
}

// readKey reads a storage key, checking its length against the limits.
func (c *context) readKey(ptr, length uint64) ([]byte, error) {
	if length == 0 || length > uint64(c.schedule.Limits.StorageKeyLen) {
		return nil, errTrapRequested(contessa.ErrKeyTooLarge)
	}
	return c.read(ptr, length)
}

func (c *context) chargeStorageBytes(length int) error {
	return c.charge(c.schedule.HostFnWeights.StoragePerByte.SaturatingMul(uint64(length)))
}

// --- host functions ---

func hostInput(c *context, args []uint64) (uint64, error) {
	return uint64(contessa.Success), c.writeOutput(args[0], args[1], c.input)
}

func hostReturnValue(c *context, args []uint64) (uint64, error) {
	flags, ptr, length := args[0], args[1], args[2]
	if flags&^1 != 0 {
		return 0, errTrapRequested(contessa.ErrDecode)
	}
	if err := checkPointer(length); err != nil {
		return 0, err
	}
	if err := c.chargeBytes(c.schedule.HostFnWeights.PerByte, length); err != nil {
		return 0, err
	}
	data, err := c.read(ptr, length)
	if err != nil {
		return 0, err
	}
	c.output = data
	c.halt = statusReturned
	if flags&1 != 0 {
		c.halt = statusReverted
	}
	return 0, nil
}

func hostGetStorage(c *context, args []uint64) (uint64, error) {
	key, err := c.readKey(args[0], args[1])
	if err != nil {
		return 0, err
	}
	if err := c.chargeStorageBytes(len(key)); err != nil {
		return 0, err
	}
	value, found := c.host.GetStorage(key)
	if !found {
		return uint64(contessa.KeyNotFound), nil
	}
	if err := c.chargeStorageBytes(len(value)); err != nil {
		return 0, err
	}
	return uint64(contessa.Success), c.writeOutput(args[2], args[3], value)
}

func hostContainsStorage(c *context, args []uint64) (uint64, error) {
	key, err := c.readKey(args[0], args[1])
	if err != nil {
		return 0, err
	}
	if err := c.chargeStorageBytes(len(key)); err != nil {
		return 0, err
	}
	value, found := c.host.GetStorage(key)
	if !found {
		return sentinel, nil
	}
	return uint64(len(value)), nil
}

func hostSetStorage(c *context, args []uint64) (uint64, error) {
	key, err := c.readKey(args[0], args[1])
	if err != nil {
		return 0, err
	}
	if args[3] > uint64(c.schedule.Limits.StorageValueLen) {
		return 0, errTrapRequested(contessa.ErrValueTooLarge)
	}
	if err := c.chargeStorageBytes(len(key) + int(args[3])); err != nil {
		return 0, err
	}
	value, err := c.read(args[2], args[3])
	if err != nil {
		return 0, err
	}
	return storageResult(c.host.SetStorage(key, value))
}

func hostClearStorage(c *context, args []uint64) (uint64, error) {
	key, err := c.readKey(args[0], args[1])
	if err != nil {
		return 0, err
	}
	if err := c.chargeStorageBytes(len(key)); err != nil {
		return 0, err
	}
	return storageResult(c.host.ClearStorage(key))
}

// storageResult converts the result of a storage mutation into the size of
// the previous value or the sentinel. Failures of the mutation trap.
func storageResult(prevLen int, existed bool, err error) (uint64, error) {
	if err != nil {
		return 0, err
	}
	if !existed {
		return sentinel, nil
	}
	return uint64(prevLen), nil
}

func hostTransfer(c *context, args []uint64) (uint64, error) {
	to, err := c.readAddress(args[0])
	if err != nil {
		return 0, err
	}
	value, err := c.readValue(args[1])
	if err != nil {
		return 0, err
	}
	if err := c.host.Transfer(to, value); err != nil {
		if errors.Is(err, contessa.ErrTransferFailed) {
			return uint64(contessa.TransferFailed), nil
		}
		return 0, err
	}
	return uint64(contessa.Success), nil
}

func hostCall(c *context, args []uint64) (uint64, error) {
	flags, calleePtr, refTime, proofSize, valuePtr := args[0], args[1], args[2], args[3], args[4]
	inputPtr, inputLen, outPtr, outLenPtr := args[5], args[6], args[7], args[8]
	if flags&^(flagReadOnly|flagDelegate) != 0 {
		return 0, errTrapRequested(contessa.ErrDecode)
	}
	readOnly := flags&flagReadOnly != 0
	delegate := flags&flagDelegate != 0

	callee, err := c.readAddress(calleePtr)
	if err != nil {
		return 0, err
	}
	var value contessa.Value
	if !delegate {
		if value, err = c.readValue(valuePtr); err != nil {
			return 0, err
		}
	}
	if err := checkPointer(inputLen); err != nil {
		return 0, err
	}
	if err := c.chargeBytes(c.schedule.HostFnWeights.PerByte, inputLen); err != nil {
		return 0, err
	}
	input, err := c.read(inputPtr, inputLen)
	if err != nil {
		return 0, err
	}

	if c.host.ReadOnly() && !readOnly && !delegate {
		return 0, errReadOnlyViolation
	}
	if (readOnly || c.host.ReadOnly()) && !value.IsZero() {
		return 0, errReadOnlyViolation
	}

	kind := contessa.Call
	if delegate {
		kind = contessa.DelegateCall
	}
	c.pending = &pendingCall{
		request: contessa.NestedCall{
			Kind:     kind,
			ReadOnly: readOnly || c.host.ReadOnly(),
			Callee:   callee,
			Value:    value,
			Gas:      contessa.NewWeight(refTime, proofSize),
			Input:    input,
		},
		outPtr:    outPtr,
		outLenPtr: outLenPtr,
	}
	c.halt = statusSuspended
	return 0, nil
}

func hostInstantiate(c *context, args []uint64) (uint64, error) {
	codeHashPtr, refTime, proofSize, valuePtr := args[0], args[1], args[2], args[3]
	inputPtr, inputLen, addressPtr, outPtr, outLenPtr := args[4], args[5], args[6], args[7], args[8]
	saltPtr, saltLen := args[9], args[10]

	hash, err := c.readHash(codeHashPtr)
	if err != nil {
		return 0, err
	}
	value, err := c.readValue(valuePtr)
	if err != nil {
		return 0, err
	}
	if saltLen > maxSaltLen {
		return 0, errTrapRequested(contessa.ErrDecode)
	}
	if err := checkPointer(inputLen); err != nil {
		return 0, err
	}
	if err := c.chargeBytes(c.schedule.HostFnWeights.PerByte, inputLen+saltLen); err != nil {
		return 0, err
	}
	input, err := c.read(inputPtr, inputLen)
	if err != nil {
		return 0, err
	}
	salt, err := c.read(saltPtr, saltLen)
	if err != nil {
		return 0, err
	}
	c.pending = &pendingCall{
		request: contessa.NestedCall{
			Kind:     contessa.Instantiate,
			CodeHash: hash,
			Value:    value,
			Gas:      contessa.NewWeight(refTime, proofSize),
			Input:    input,
			Salt:     salt,
		},
		outPtr:     outPtr,
		outLenPtr:  outLenPtr,
		addressPtr: addressPtr,
	}
	c.halt = statusSuspended
	return 0, nil
}

// deliver writes the result of a nested call into the memory of the
// suspended instance.
func deliver(c *context, pending *pendingCall, result contessa.CallResult) error {
	if pending.request.Kind == contessa.Instantiate &&
		result.Code == contessa.Success &&
		pending.addressPtr != sentinel {
		if err := c.write(pending.addressPtr, result.Address[:]); err != nil {
			return err
		}
	}
	if result.Code == contessa.Success || result.Code == contessa.CalleeReverted {
		return c.writeOutput(pending.outPtr, pending.outLenPtr, result.Output)
	}
	return nil
}

func hostTerminate(c *context, args []uint64) (uint64, error) {
	beneficiary, err := c.readAddress(args[0])
	if err != nil {
		return 0, err
	}
	if err := c.host.Terminate(beneficiary); err != nil {
		return 0, err
	}
	c.halt = statusTerminated
	return 0, nil
}

func hostDepositEvent(c *context, args []uint64) (uint64, error) {
	topicsPtr, numTopics, dataPtr, dataLen := args[0], args[1], args[2], args[3]
	limits := &c.schedule.Limits
	if numTopics > uint64(limits.EventTopics) {
		return 0, errTrapRequested(contessa.ErrTooManyTopics)
	}
	if dataLen > uint64(limits.EventDataLen) {
		return 0, errTrapRequested(contessa.ErrValueTooLarge)
	}
	weights := &c.schedule.HostFnWeights
	cost := contessa.RefTimeOnly(weights.EventPerTopic).SaturatingMul(numTopics).
		SaturatingAdd(contessa.RefTimeOnly(weights.PerByte).SaturatingMul(dataLen))
	if err := c.charge(cost); err != nil {
		return 0, err
	}
	topics := make([]contessa.Hash, numTopics)
	for i := range topics {
		topic, err := c.readHash(topicsPtr + uint64(i)*32)
		if err != nil {
			return 0, err
		}
		topics[i] = topic
	}
	data, err := c.read(dataPtr, dataLen)
	if err != nil {
		return 0, err
	}
	c.host.DepositEvent(topics, data)
	return uint64(contessa.Success), nil
}

func hostCaller(c *context, args []uint64) (uint64, error) {
	caller := c.host.Caller()
	return uint64(contessa.Success), c.write(args[0], caller[:])
}

func hostAddress(c *context, args []uint64) (uint64, error) {
	address := c.host.Address()
	return uint64(contessa.Success), c.write(args[0], address[:])
}

func hostBalance(c *context, args []uint64) (uint64, error) {
	return uint64(contessa.Success), c.writeValue(args[0], c.host.Balance())
}

func hostValueTransferred(c *context, args []uint64) (uint64, error) {
	return uint64(contessa.Success), c.writeValue(args[0], c.host.ValueTransferred())
}

func hostMinimumBalance(c *context, args []uint64) (uint64, error) {
	return uint64(contessa.Success), c.writeValue(args[0], c.host.MinimumBalance())
}

func hostBlockNumber(c *context, _ []uint64) (uint64, error) {
	return c.host.BlockNumber(), nil
}

func hostNow(c *context, _ []uint64) (uint64, error) {
	return c.host.Now(), nil
}

func hostRandom(c *context, args []uint64) (uint64, error) {
	if args[1] > maxSubjectLen {
		return 0, errTrapRequested(contessa.ErrDecode)
	}
	subject, err := c.read(args[0], args[1])
	if err != nil {
		return 0, err
	}
	seed, block := c.host.Random(subject)
	return block, c.write(args[2], seed[:])
}

func hostDebugMessage(c *context, args []uint64) (uint64, error) {
	if err := checkPointer(args[1]); err != nil {
		return 0, err
	}
	if err := c.chargeBytes(c.schedule.HostFnWeights.PerByte, args[1]); err != nil {
		return 0, err
	}
	message, err := c.read(args[0], args[1])
	if err != nil {
		return 0, err
	}
	if !c.host.DebugMessage(string(message)) {
		return uint64(contessa.LoggingDisabled), nil
	}
	return uint64(contessa.Success), nil
}

func hostWeightLeft(c *context, args []uint64) (uint64, error) {
	left := c.meter.Remaining()
	data := binary.LittleEndian.AppendUint64(nil, left.RefTime)
	data = binary.LittleEndian.AppendUint64(data, left.ProofSize)
	return uint64(contessa.Success), c.write(args[0], data)
}

func hostHashKeccak256(c *context, args []uint64) (uint64, error) {
	return hostHash(c, args, c.hashes.hash)
}

func hostHashBlake2256(c *context, args []uint64) (uint64, error) {
	return hostHash(c, args, func(data []byte) contessa.Hash {
		return contessa.Blake2b256(data)
	})
}

func hostHash(c *context, args []uint64, hash func([]byte) contessa.Hash) (uint64, error) {
	if err := checkPointer(args[1]); err != nil {
		return 0, err
	}
	if err := c.chargeBytes(c.schedule.HostFnWeights.HashPerByte, args[1]); err != nil {
		return 0, err
	}
	data, err := c.read(args[0], args[1])
	if err != nil {
		return 0, err
	}
	res := hash(data)
	return uint64(contessa.Success), c.write(args[2], res[:])
}

func hostCodeHash(c *context, args []uint64) (uint64, error) {
	account, err := c.readAddress(args[0])
	if err != nil {
		return 0, err
	}
	hash, found := c.host.CodeHash(account)
	if !found {
		return uint64(contessa.KeyNotFound), nil
	}
	return uint64(contessa.Success), c.write(args[1], hash[:])
}

func hostOwnCodeHash(c *context, args []uint64) (uint64, error) {
	hash := c.host.OwnCodeHash()
	return uint64(contessa.Success), c.write(args[0], hash[:])
}

func hostIsContract(c *context, args []uint64) (uint64, error) {
	account, err := c.readAddress(args[0])
	if err != nil {
		return 0, err
	}
	return boolToUint(c.host.IsContract(account)), nil
}

func hostSetCodeHash(c *context, args []uint64) (uint64, error) {
	hash, err := c.readHash(args[0])
	if err != nil {
		return 0, err
	}
	if err := c.host.SetCodeHash(hash); err != nil {
		if errors.Is(err, contessa.ErrCodeNotFound) {
			return uint64(contessa.CodeNotFound), nil
		}
		return 0, err
	}
	return uint64(contessa.Success), nil
}

func hostCallerIsOrigin(c *context, _ []uint64) (uint64, error) {
	return boolToUint(c.host.CallerIsOrigin()), nil
}

func (f *hostFunction) String() string {
	return fmt.Sprintf("%s/%d", f.name, f.params)
}
