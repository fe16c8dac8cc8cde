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
	reflect "reflect"

	gomock "go.uber.org/mock/gomock"
)

// MockWorldState is a mock of WorldState interface.
type MockWorldState struct {
	ctrl     *gomock.Controller
	recorder *MockWorldStateMockRecorder
}

// MockWorldStateMockRecorder is the mock recorder for MockWorldState.
type MockWorldStateMockRecorder struct {
	mock *MockWorldState
}

// NewMockWorldState creates a new mock instance.
func NewMockWorldState(ctrl *gomock.Controller) *MockWorldState {
	mock := &MockWorldState{ctrl: ctrl}
	mock.recorder = &MockWorldStateMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockWorldState) EXPECT() *MockWorldStateMockRecorder {
	return m.recorder
}

// ClearStorage mocks base method.
func (m *MockWorldState) ClearStorage(namespace Hash) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "ClearStorage", namespace)
}

// ClearStorage indicates an expected call of ClearStorage.
func (mr *MockWorldStateMockRecorder) ClearStorage(namespace any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ClearStorage", reflect.TypeOf((*MockWorldState)(nil).ClearStorage), namespace)
}

// DeleteAccount mocks base method.
func (m *MockWorldState) DeleteAccount(arg0 Address) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "DeleteAccount", arg0)
}

// DeleteAccount indicates an expected call of DeleteAccount.
func (mr *MockWorldStateMockRecorder) DeleteAccount(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeleteAccount", reflect.TypeOf((*MockWorldState)(nil).DeleteAccount), arg0)
}

// DeleteCode mocks base method.
func (m *MockWorldState) DeleteCode(arg0 Hash) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "DeleteCode", arg0)
}

// DeleteCode indicates an expected call of DeleteCode.
func (mr *MockWorldStateMockRecorder) DeleteCode(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeleteCode", reflect.TypeOf((*MockWorldState)(nil).DeleteCode), arg0)
}

// GetAccount mocks base method.
func (m *MockWorldState) GetAccount(arg0 Address) (Account, bool) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetAccount", arg0)
	ret0, _ := ret[0].(Account)
	ret1, _ := ret[1].(bool)
	return ret0, ret1
}

// GetAccount indicates an expected call of GetAccount.
func (mr *MockWorldStateMockRecorder) GetAccount(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetAccount", reflect.TypeOf((*MockWorldState)(nil).GetAccount), arg0)
}

// GetCode mocks base method.
func (m *MockWorldState) GetCode(arg0 Hash) (CodeInfo, bool) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetCode", arg0)
	ret0, _ := ret[0].(CodeInfo)
	ret1, _ := ret[1].(bool)
	return ret0, ret1
}

// GetCode indicates an expected call of GetCode.
func (mr *MockWorldStateMockRecorder) GetCode(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetCode", reflect.TypeOf((*MockWorldState)(nil).GetCode), arg0)
}

// GetStorage mocks base method.
func (m *MockWorldState) GetStorage(namespace Hash, key []byte) ([]byte, bool) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetStorage", namespace, key)
	ret0, _ := ret[0].([]byte)
	ret1, _ := ret[1].(bool)
	return ret0, ret1
}

// GetStorage indicates an expected call of GetStorage.
func (mr *MockWorldStateMockRecorder) GetStorage(namespace, key any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetStorage", reflect.TypeOf((*MockWorldState)(nil).GetStorage), namespace, key)
}

// SetAccount mocks base method.
func (m *MockWorldState) SetAccount(arg0 Address, arg1 Account) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "SetAccount", arg0, arg1)
}

// SetAccount indicates an expected call of SetAccount.
func (mr *MockWorldStateMockRecorder) SetAccount(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetAccount", reflect.TypeOf((*MockWorldState)(nil).SetAccount), arg0, arg1)
}

// SetCode mocks base method.
func (m *MockWorldState) SetCode(arg0 Hash, arg1 CodeInfo) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "SetCode", arg0, arg1)
}

// SetCode indicates an expected call of SetCode.
func (mr *MockWorldStateMockRecorder) SetCode(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetCode", reflect.TypeOf((*MockWorldState)(nil).SetCode), arg0, arg1)
}

// SetStorage mocks base method.
func (m *MockWorldState) SetStorage(namespace Hash, key []byte, value []byte) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "SetStorage", namespace, key, value)
}

// SetStorage indicates an expected call of SetStorage.
func (mr *MockWorldStateMockRecorder) SetStorage(namespace, key, value any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetStorage", reflect.TypeOf((*MockWorldState)(nil).SetStorage), namespace, key, value)
}

// MockPersistentWorldState is a mock of PersistentWorldState interface.
type MockPersistentWorldState struct {
	ctrl     *gomock.Controller
	recorder *MockPersistentWorldStateMockRecorder
}

// MockPersistentWorldStateMockRecorder is the mock recorder for MockPersistentWorldState.
type MockPersistentWorldStateMockRecorder struct {
	mock *MockPersistentWorldState
}

// NewMockPersistentWorldState creates a new mock instance.
func NewMockPersistentWorldState(ctrl *gomock.Controller) *MockPersistentWorldState {
	mock := &MockPersistentWorldState{ctrl: ctrl}
	mock.recorder = &MockPersistentWorldStateMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockPersistentWorldState) EXPECT() *MockPersistentWorldStateMockRecorder {
	return m.recorder
}

// ClearStorage mocks base method.
func (m *MockPersistentWorldState) ClearStorage(namespace Hash) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "ClearStorage", namespace)
}

// ClearStorage indicates an expected call of ClearStorage.
func (mr *MockPersistentWorldStateMockRecorder) ClearStorage(namespace any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ClearStorage", reflect.TypeOf((*MockPersistentWorldState)(nil).ClearStorage), namespace)
}

// DeleteAccount mocks base method.
func (m *MockPersistentWorldState) DeleteAccount(arg0 Address) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "DeleteAccount", arg0)
}

// DeleteAccount indicates an expected call of DeleteAccount.
func (mr *MockPersistentWorldStateMockRecorder) DeleteAccount(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeleteAccount", reflect.TypeOf((*MockPersistentWorldState)(nil).DeleteAccount), arg0)
}

// DeleteCode mocks base method.
func (m *MockPersistentWorldState) DeleteCode(arg0 Hash) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "DeleteCode", arg0)
}

// DeleteCode indicates an expected call of DeleteCode.
func (mr *MockPersistentWorldStateMockRecorder) DeleteCode(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeleteCode", reflect.TypeOf((*MockPersistentWorldState)(nil).DeleteCode), arg0)
}

// Err mocks base method.
func (m *MockPersistentWorldState) Err() error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Err")
	ret0, _ := ret[0].(error)
	return ret0
}

// Err indicates an expected call of Err.
func (mr *MockPersistentWorldStateMockRecorder) Err() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Err", reflect.TypeOf((*MockPersistentWorldState)(nil).Err))
}

// Flush mocks base method.
func (m *MockPersistentWorldState) Flush() error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Flush")
	ret0, _ := ret[0].(error)
	return ret0
}

// Flush indicates an expected call of Flush.
func (mr *MockPersistentWorldStateMockRecorder) Flush() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Flush", reflect.TypeOf((*MockPersistentWorldState)(nil).Flush))
}

// GetAccount mocks base method.
func (m *MockPersistentWorldState) GetAccount(arg0 Address) (Account, bool) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetAccount", arg0)
	ret0, _ := ret[0].(Account)
	ret1, _ := ret[1].(bool)
	return ret0, ret1
}

// GetAccount indicates an expected call of GetAccount.
func (mr *MockPersistentWorldStateMockRecorder) GetAccount(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetAccount", reflect.TypeOf((*MockPersistentWorldState)(nil).GetAccount), arg0)
}

// GetCode mocks base method.
func (m *MockPersistentWorldState) GetCode(arg0 Hash) (CodeInfo, bool) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetCode", arg0)
	ret0, _ := ret[0].(CodeInfo)
	ret1, _ := ret[1].(bool)
	return ret0, ret1
}

// GetCode indicates an expected call of GetCode.
func (mr *MockPersistentWorldStateMockRecorder) GetCode(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetCode", reflect.TypeOf((*MockPersistentWorldState)(nil).GetCode), arg0)
}

// GetStorage mocks base method.
func (m *MockPersistentWorldState) GetStorage(namespace Hash, key []byte) ([]byte, bool) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetStorage", namespace, key)
	ret0, _ := ret[0].([]byte)
	ret1, _ := ret[1].(bool)
	return ret0, ret1
}

// GetStorage indicates an expected call of GetStorage.
func (mr *MockPersistentWorldStateMockRecorder) GetStorage(namespace, key any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetStorage", reflect.TypeOf((*MockPersistentWorldState)(nil).GetStorage), namespace, key)
}

// SetAccount mocks base method.
func (m *MockPersistentWorldState) SetAccount(arg0 Address, arg1 Account) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "SetAccount", arg0, arg1)
}

// SetAccount indicates an expected call of SetAccount.
func (mr *MockPersistentWorldStateMockRecorder) SetAccount(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetAccount", reflect.TypeOf((*MockPersistentWorldState)(nil).SetAccount), arg0, arg1)
}

// SetCode mocks base method.
func (m *MockPersistentWorldState) SetCode(arg0 Hash, arg1 CodeInfo) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "SetCode", arg0, arg1)
}

// SetCode indicates an expected call of SetCode.
func (mr *MockPersistentWorldStateMockRecorder) SetCode(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetCode", reflect.TypeOf((*MockPersistentWorldState)(nil).SetCode), arg0, arg1)
}

// SetStorage mocks base method.
func (m *MockPersistentWorldState) SetStorage(namespace Hash, key []byte, value []byte) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "SetStorage", namespace, key, value)
}

// SetStorage indicates an expected call of SetStorage.
func (mr *MockPersistentWorldStateMockRecorder) SetStorage(namespace, key, value any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetStorage", reflect.TypeOf((*MockPersistentWorldState)(nil).SetStorage), namespace, key, value)
}
