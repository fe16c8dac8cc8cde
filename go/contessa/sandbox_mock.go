// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package contessa is a generated GoMock package.
package contessa

import (
	io "io"
	reflect "reflect"

	gomock "go.uber.org/mock/gomock"
)

// MockSandbox is a mock of Sandbox interface.
type MockSandbox struct {
	ctrl     *gomock.Controller
	recorder *MockSandboxMockRecorder
}

// MockSandboxMockRecorder is the mock recorder for MockSandbox.
type MockSandboxMockRecorder struct {
	mock *MockSandbox
}

// NewMockSandbox creates a new mock instance.
func NewMockSandbox(ctrl *gomock.Controller) *MockSandbox {
	mock := &MockSandbox{ctrl: ctrl}
	mock.recorder = &MockSandboxMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockSandbox) EXPECT() *MockSandboxMockRecorder {
	return m.recorder
}

// Compile mocks base method.
func (m *MockSandbox) Compile(hash Hash, code Code) (Module, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Compile", hash, code)
	ret0, _ := ret[0].(Module)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Compile indicates an expected call of Compile.
func (mr *MockSandboxMockRecorder) Compile(hash, code any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Compile", reflect.TypeOf((*MockSandbox)(nil).Compile), hash, code)
}

// Instantiate mocks base method.
func (m *MockSandbox) Instantiate(module Module, memoryLimitPages uint32) (Instance, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Instantiate", module, memoryLimitPages)
	ret0, _ := ret[0].(Instance)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Instantiate indicates an expected call of Instantiate.
func (mr *MockSandboxMockRecorder) Instantiate(module, memoryLimitPages any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Instantiate", reflect.TypeOf((*MockSandbox)(nil).Instantiate), module, memoryLimitPages)
}

// Schedule mocks base method.
func (m *MockSandbox) Schedule() Schedule {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Schedule")
	ret0, _ := ret[0].(Schedule)
	return ret0
}

// Schedule indicates an expected call of Schedule.
func (mr *MockSandboxMockRecorder) Schedule() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Schedule", reflect.TypeOf((*MockSandbox)(nil).Schedule))
}

// MockProfilingSandbox is a mock of ProfilingSandbox interface.
type MockProfilingSandbox struct {
	ctrl     *gomock.Controller
	recorder *MockProfilingSandboxMockRecorder
}

// MockProfilingSandboxMockRecorder is the mock recorder for MockProfilingSandbox.
type MockProfilingSandboxMockRecorder struct {
	mock *MockProfilingSandbox
}

// NewMockProfilingSandbox creates a new mock instance.
func NewMockProfilingSandbox(ctrl *gomock.Controller) *MockProfilingSandbox {
	mock := &MockProfilingSandbox{ctrl: ctrl}
	mock.recorder = &MockProfilingSandboxMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockProfilingSandbox) EXPECT() *MockProfilingSandboxMockRecorder {
	return m.recorder
}

// Compile mocks base method.
func (m *MockProfilingSandbox) Compile(hash Hash, code Code) (Module, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Compile", hash, code)
	ret0, _ := ret[0].(Module)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Compile indicates an expected call of Compile.
func (mr *MockProfilingSandboxMockRecorder) Compile(hash, code any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Compile", reflect.TypeOf((*MockProfilingSandbox)(nil).Compile), hash, code)
}

// DumpProfile mocks base method.
func (m *MockProfilingSandbox) DumpProfile(arg0 io.Writer) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "DumpProfile", arg0)
}

// DumpProfile indicates an expected call of DumpProfile.
func (mr *MockProfilingSandboxMockRecorder) DumpProfile(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DumpProfile", reflect.TypeOf((*MockProfilingSandbox)(nil).DumpProfile), arg0)
}

// Instantiate mocks base method.
func (m *MockProfilingSandbox) Instantiate(module Module, memoryLimitPages uint32) (Instance, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Instantiate", module, memoryLimitPages)
	ret0, _ := ret[0].(Instance)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Instantiate indicates an expected call of Instantiate.
func (mr *MockProfilingSandboxMockRecorder) Instantiate(module, memoryLimitPages any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Instantiate", reflect.TypeOf((*MockProfilingSandbox)(nil).Instantiate), module, memoryLimitPages)
}

// ResetProfile mocks base method.
func (m *MockProfilingSandbox) ResetProfile() {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "ResetProfile")
}

// ResetProfile indicates an expected call of ResetProfile.
func (mr *MockProfilingSandboxMockRecorder) ResetProfile() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ResetProfile", reflect.TypeOf((*MockProfilingSandbox)(nil).ResetProfile))
}

// Schedule mocks base method.
func (m *MockProfilingSandbox) Schedule() Schedule {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Schedule")
	ret0, _ := ret[0].(Schedule)
	return ret0
}

// Schedule indicates an expected call of Schedule.
func (mr *MockProfilingSandboxMockRecorder) Schedule() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Schedule", reflect.TypeOf((*MockProfilingSandbox)(nil).Schedule))
}

// MockModule is a mock of Module interface.
type MockModule struct {
	ctrl     *gomock.Controller
	recorder *MockModuleMockRecorder
}

// MockModuleMockRecorder is the mock recorder for MockModule.
type MockModuleMockRecorder struct {
	mock *MockModule
}

// NewMockModule creates a new mock instance.
func NewMockModule(ctrl *gomock.Controller) *MockModule {
	mock := &MockModule{ctrl: ctrl}
	mock.recorder = &MockModuleMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockModule) EXPECT() *MockModuleMockRecorder {
	return m.recorder
}

// Hash mocks base method.
func (m *MockModule) Hash() Hash {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Hash")
	ret0, _ := ret[0].(Hash)
	return ret0
}

// Hash indicates an expected call of Hash.
func (mr *MockModuleMockRecorder) Hash() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Hash", reflect.TypeOf((*MockModule)(nil).Hash))
}

// Imports mocks base method.
func (m *MockModule) Imports() []string {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Imports")
	ret0, _ := ret[0].([]string)
	return ret0
}

// Imports indicates an expected call of Imports.
func (mr *MockModuleMockRecorder) Imports() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Imports", reflect.TypeOf((*MockModule)(nil).Imports))
}

// MemoryPages mocks base method.
func (m *MockModule) MemoryPages() (uint32, uint32) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MemoryPages")
	ret0, _ := ret[0].(uint32)
	ret1, _ := ret[1].(uint32)
	return ret0, ret1
}

// MemoryPages indicates an expected call of MemoryPages.
func (mr *MockModuleMockRecorder) MemoryPages() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MemoryPages", reflect.TypeOf((*MockModule)(nil).MemoryPages))
}

// MockInstance is a mock of Instance interface.
type MockInstance struct {
	ctrl     *gomock.Controller
	recorder *MockInstanceMockRecorder
}

// MockInstanceMockRecorder is the mock recorder for MockInstance.
type MockInstanceMockRecorder struct {
	mock *MockInstance
}

// NewMockInstance creates a new mock instance.
func NewMockInstance(ctrl *gomock.Controller) *MockInstance {
	mock := &MockInstance{ctrl: ctrl}
	mock.recorder = &MockInstanceMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockInstance) EXPECT() *MockInstanceMockRecorder {
	return m.recorder
}

// Invoke mocks base method.
func (m *MockInstance) Invoke(entry EntryPoint, input Data, context HostContext, meter *GasMeter) Outcome {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Invoke", entry, input, context, meter)
	ret0, _ := ret[0].(Outcome)
	return ret0
}

// Invoke indicates an expected call of Invoke.
func (mr *MockInstanceMockRecorder) Invoke(entry, input, context, meter any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Invoke", reflect.TypeOf((*MockInstance)(nil).Invoke), entry, input, context, meter)
}

// Release mocks base method.
func (m *MockInstance) Release() {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "Release")
}

// Release indicates an expected call of Release.
func (mr *MockInstanceMockRecorder) Release() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Release", reflect.TypeOf((*MockInstance)(nil).Release))
}

// Resume mocks base method.
func (m *MockInstance) Resume(result CallResult) Outcome {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Resume", result)
	ret0, _ := ret[0].(Outcome)
	return ret0
}

// Resume indicates an expected call of Resume.
func (mr *MockInstanceMockRecorder) Resume(result any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Resume", reflect.TypeOf((*MockInstance)(nil).Resume), result)
}

// MockHostContext is a mock of HostContext interface.
type MockHostContext struct {
	ctrl     *gomock.Controller
	recorder *MockHostContextMockRecorder
}

// MockHostContextMockRecorder is the mock recorder for MockHostContext.
type MockHostContextMockRecorder struct {
	mock *MockHostContext
}

// NewMockHostContext creates a new mock instance.
func NewMockHostContext(ctrl *gomock.Controller) *MockHostContext {
	mock := &MockHostContext{ctrl: ctrl}
	mock.recorder = &MockHostContextMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockHostContext) EXPECT() *MockHostContextMockRecorder {
	return m.recorder
}

// Address mocks base method.
func (m *MockHostContext) Address() Address {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Address")
	ret0, _ := ret[0].(Address)
	return ret0
}

// Address indicates an expected call of Address.
func (mr *MockHostContextMockRecorder) Address() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Address", reflect.TypeOf((*MockHostContext)(nil).Address))
}

// Balance mocks base method.
func (m *MockHostContext) Balance() Value {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Balance")
	ret0, _ := ret[0].(Value)
	return ret0
}

// Balance indicates an expected call of Balance.
func (mr *MockHostContextMockRecorder) Balance() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Balance", reflect.TypeOf((*MockHostContext)(nil).Balance))
}

// BlockNumber mocks base method.
func (m *MockHostContext) BlockNumber() uint64 {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "BlockNumber")
	ret0, _ := ret[0].(uint64)
	return ret0
}

// BlockNumber indicates an expected call of BlockNumber.
func (mr *MockHostContextMockRecorder) BlockNumber() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "BlockNumber", reflect.TypeOf((*MockHostContext)(nil).BlockNumber))
}

// Caller mocks base method.
func (m *MockHostContext) Caller() Address {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Caller")
	ret0, _ := ret[0].(Address)
	return ret0
}

// Caller indicates an expected call of Caller.
func (mr *MockHostContextMockRecorder) Caller() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Caller", reflect.TypeOf((*MockHostContext)(nil).Caller))
}

// CallerIsOrigin mocks base method.
func (m *MockHostContext) CallerIsOrigin() bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CallerIsOrigin")
	ret0, _ := ret[0].(bool)
	return ret0
}

// CallerIsOrigin indicates an expected call of CallerIsOrigin.
func (mr *MockHostContextMockRecorder) CallerIsOrigin() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CallerIsOrigin", reflect.TypeOf((*MockHostContext)(nil).CallerIsOrigin))
}

// ClearStorage mocks base method.
func (m *MockHostContext) ClearStorage(key []byte) (int, bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ClearStorage", key)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(bool)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

// ClearStorage indicates an expected call of ClearStorage.
func (mr *MockHostContextMockRecorder) ClearStorage(key any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ClearStorage", reflect.TypeOf((*MockHostContext)(nil).ClearStorage), key)
}

// CodeHash mocks base method.
func (m *MockHostContext) CodeHash(arg0 Address) (Hash, bool) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CodeHash", arg0)
	ret0, _ := ret[0].(Hash)
	ret1, _ := ret[1].(bool)
	return ret0, ret1
}

// CodeHash indicates an expected call of CodeHash.
func (mr *MockHostContextMockRecorder) CodeHash(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CodeHash", reflect.TypeOf((*MockHostContext)(nil).CodeHash), arg0)
}

// DebugMessage mocks base method.
func (m *MockHostContext) DebugMessage(message string) bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DebugMessage", message)
	ret0, _ := ret[0].(bool)
	return ret0
}

// DebugMessage indicates an expected call of DebugMessage.
func (mr *MockHostContextMockRecorder) DebugMessage(message any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DebugMessage", reflect.TypeOf((*MockHostContext)(nil).DebugMessage), message)
}

// DepositEvent mocks base method.
func (m *MockHostContext) DepositEvent(topics []Hash, data Data) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "DepositEvent", topics, data)
}

// DepositEvent indicates an expected call of DepositEvent.
func (mr *MockHostContextMockRecorder) DepositEvent(topics, data any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DepositEvent", reflect.TypeOf((*MockHostContext)(nil).DepositEvent), topics, data)
}

// GetStorage mocks base method.
func (m *MockHostContext) GetStorage(key []byte) ([]byte, bool) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetStorage", key)
	ret0, _ := ret[0].([]byte)
	ret1, _ := ret[1].(bool)
	return ret0, ret1
}

// GetStorage indicates an expected call of GetStorage.
func (mr *MockHostContextMockRecorder) GetStorage(key any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetStorage", reflect.TypeOf((*MockHostContext)(nil).GetStorage), key)
}

// IsContract mocks base method.
func (m *MockHostContext) IsContract(arg0 Address) bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "IsContract", arg0)
	ret0, _ := ret[0].(bool)
	return ret0
}

// IsContract indicates an expected call of IsContract.
func (mr *MockHostContextMockRecorder) IsContract(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "IsContract", reflect.TypeOf((*MockHostContext)(nil).IsContract), arg0)
}

// MinimumBalance mocks base method.
func (m *MockHostContext) MinimumBalance() Value {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MinimumBalance")
	ret0, _ := ret[0].(Value)
	return ret0
}

// MinimumBalance indicates an expected call of MinimumBalance.
func (mr *MockHostContextMockRecorder) MinimumBalance() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MinimumBalance", reflect.TypeOf((*MockHostContext)(nil).MinimumBalance))
}

// Now mocks base method.
func (m *MockHostContext) Now() uint64 {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Now")
	ret0, _ := ret[0].(uint64)
	return ret0
}

// Now indicates an expected call of Now.
func (mr *MockHostContextMockRecorder) Now() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Now", reflect.TypeOf((*MockHostContext)(nil).Now))
}

// OwnCodeHash mocks base method.
func (m *MockHostContext) OwnCodeHash() Hash {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "OwnCodeHash")
	ret0, _ := ret[0].(Hash)
	return ret0
}

// OwnCodeHash indicates an expected call of OwnCodeHash.
func (mr *MockHostContextMockRecorder) OwnCodeHash() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OwnCodeHash", reflect.TypeOf((*MockHostContext)(nil).OwnCodeHash))
}

// Random mocks base method.
func (m *MockHostContext) Random(subject []byte) (Hash, uint64) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Random", subject)
	ret0, _ := ret[0].(Hash)
	ret1, _ := ret[1].(uint64)
	return ret0, ret1
}

// Random indicates an expected call of Random.
func (mr *MockHostContextMockRecorder) Random(subject any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Random", reflect.TypeOf((*MockHostContext)(nil).Random), subject)
}

// ReadOnly mocks base method.
func (m *MockHostContext) ReadOnly() bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ReadOnly")
	ret0, _ := ret[0].(bool)
	return ret0
}

// ReadOnly indicates an expected call of ReadOnly.
func (mr *MockHostContextMockRecorder) ReadOnly() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ReadOnly", reflect.TypeOf((*MockHostContext)(nil).ReadOnly))
}

// SetCodeHash mocks base method.
func (m *MockHostContext) SetCodeHash(hash Hash) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetCodeHash", hash)
	ret0, _ := ret[0].(error)
	return ret0
}

// SetCodeHash indicates an expected call of SetCodeHash.
func (mr *MockHostContextMockRecorder) SetCodeHash(hash any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetCodeHash", reflect.TypeOf((*MockHostContext)(nil).SetCodeHash), hash)
}

// SetStorage mocks base method.
func (m *MockHostContext) SetStorage(key []byte, value []byte) (int, bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetStorage", key, value)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(bool)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

// SetStorage indicates an expected call of SetStorage.
func (mr *MockHostContextMockRecorder) SetStorage(key, value any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetStorage", reflect.TypeOf((*MockHostContext)(nil).SetStorage), key, value)
}

// Terminate mocks base method.
func (m *MockHostContext) Terminate(beneficiary Address) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Terminate", beneficiary)
	ret0, _ := ret[0].(error)
	return ret0
}

// Terminate indicates an expected call of Terminate.
func (mr *MockHostContextMockRecorder) Terminate(beneficiary any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Terminate", reflect.TypeOf((*MockHostContext)(nil).Terminate), beneficiary)
}

// Transfer mocks base method.
func (m *MockHostContext) Transfer(to Address, value Value) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Transfer", to, value)
	ret0, _ := ret[0].(error)
	return ret0
}

// Transfer indicates an expected call of Transfer.
func (mr *MockHostContextMockRecorder) Transfer(to, value any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Transfer", reflect.TypeOf((*MockHostContext)(nil).Transfer), to, value)
}

// ValueTransferred mocks base method.
func (m *MockHostContext) ValueTransferred() Value {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ValueTransferred")
	ret0, _ := ret[0].(Value)
	return ret0
}

// ValueTransferred indicates an expected call of ValueTransferred.
func (mr *MockHostContextMockRecorder) ValueTransferred() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ValueTransferred", reflect.TypeOf((*MockHostContext)(nil).ValueTransferred))
}
