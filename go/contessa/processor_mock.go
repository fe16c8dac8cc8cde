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

// MockProcessor is a mock of Processor interface.
type MockProcessor struct {
	ctrl     *gomock.Controller
	recorder *MockProcessorMockRecorder
}

// MockProcessorMockRecorder is the mock recorder for MockProcessor.
type MockProcessorMockRecorder struct {
	mock *MockProcessor
}

// NewMockProcessor creates a new mock instance.
func NewMockProcessor(ctrl *gomock.Controller) *MockProcessor {
	mock := &MockProcessor{ctrl: ctrl}
	mock.recorder = &MockProcessorMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockProcessor) EXPECT() *MockProcessorMockRecorder {
	return m.recorder
}

// Call mocks base method.
func (m *MockProcessor) Call(arg0 BlockParameters, arg1 WorldState, arg2 CallRequest) (Receipt, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Call", arg0, arg1, arg2)
	ret0, _ := ret[0].(Receipt)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Call indicates an expected call of Call.
func (mr *MockProcessorMockRecorder) Call(arg0, arg1, arg2 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Call", reflect.TypeOf((*MockProcessor)(nil).Call), arg0, arg1, arg2)
}

// Instantiate mocks base method.
func (m *MockProcessor) Instantiate(arg0 BlockParameters, arg1 WorldState, arg2 InstantiateRequest) (Receipt, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Instantiate", arg0, arg1, arg2)
	ret0, _ := ret[0].(Receipt)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Instantiate indicates an expected call of Instantiate.
func (mr *MockProcessorMockRecorder) Instantiate(arg0, arg1, arg2 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Instantiate", reflect.TypeOf((*MockProcessor)(nil).Instantiate), arg0, arg1, arg2)
}

// RemoveCode mocks base method.
func (m *MockProcessor) RemoveCode(arg0 WorldState, arg1 RemoveCodeRequest) (Receipt, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RemoveCode", arg0, arg1)
	ret0, _ := ret[0].(Receipt)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// RemoveCode indicates an expected call of RemoveCode.
func (mr *MockProcessorMockRecorder) RemoveCode(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RemoveCode", reflect.TypeOf((*MockProcessor)(nil).RemoveCode), arg0, arg1)
}

// UploadCode mocks base method.
func (m *MockProcessor) UploadCode(arg0 WorldState, arg1 UploadRequest) (Receipt, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UploadCode", arg0, arg1)
	ret0, _ := ret[0].(Receipt)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// UploadCode indicates an expected call of UploadCode.
func (mr *MockProcessorMockRecorder) UploadCode(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UploadCode", reflect.TypeOf((*MockProcessor)(nil).UploadCode), arg0, arg1)
}
