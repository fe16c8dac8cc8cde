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
	"slices"
	"testing"

	gomock "go.uber.org/mock/gomock"
	"golang.org/x/exp/maps"
)

func TestSandboxRegistry_CanListContent(t *testing.T) {
	name := "test-sandbox-1"
	if err := RegisterSandboxFactory(name, func(any) (Sandbox, error) { return nil, nil }); err != nil {
		t.Fatalf("failed to register factory: %v", err)
	}
	names := maps.Keys(GetAllRegisteredSandboxes())
	if !slices.Contains(names, name) {
		t.Errorf("%v not found in list of factories, found %v", name, names)
	}
}

func TestSandboxRegistry_NamesAreCaseInsensitive(t *testing.T) {
	ctrl := gomock.NewController(t)
	sandbox := NewMockSandbox(ctrl)
	if err := RegisterSandboxFactory("Test-Sandbox-2", func(any) (Sandbox, error) { return sandbox, nil }); err != nil {
		t.Fatalf("failed to register factory: %v", err)
	}
	got, err := NewSandbox("test-SANDBOX-2")
	if err != nil {
		t.Fatalf("failed to create sandbox: %v", err)
	}
	if got != sandbox {
		t.Errorf("unexpected sandbox instance")
	}
}

func TestSandboxRegistry_ConfigIsForwarded(t *testing.T) {
	var seen any
	if err := RegisterSandboxFactory("test-sandbox-3", func(config any) (Sandbox, error) {
		seen = config
		return nil, nil
	}); err != nil {
		t.Fatalf("failed to register factory: %v", err)
	}
	if _, err := NewSandbox("test-sandbox-3", 12); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen != 12 {
		t.Errorf("configuration not forwarded, got %v", seen)
	}
	if _, err := NewSandbox("test-sandbox-3", 1, 2); err == nil {
		t.Errorf("expected error for too many configurations")
	}
}

func TestSandboxRegistry_RejectsDuplicatesAndNil(t *testing.T) {
	factory := func(any) (Sandbox, error) { return nil, nil }
	if err := RegisterSandboxFactory("test-sandbox-4", factory); err != nil {
		t.Fatalf("failed to register factory: %v", err)
	}
	if err := RegisterSandboxFactory("TEST-sandbox-4", factory); err == nil {
		t.Errorf("expected error for duplicate registration")
	}
	if err := RegisterSandboxFactory("test-sandbox-5", nil); err == nil {
		t.Errorf("expected error for nil factory")
	}
	if _, err := NewSandbox("unknown-sandbox"); err == nil {
		t.Errorf("expected error for unknown sandbox")
	}
}

func TestProcessorRegistry_RegisteredFactoryIsUsedByNewProcessor(t *testing.T) {
	ctrl := gomock.NewController(t)
	sandbox := NewMockSandbox(ctrl)
	processor := NewMockProcessor(ctrl)

	RegisterProcessorFactory("test-processor-1", func(s Sandbox, _ any) (Processor, error) {
		if s != sandbox {
			t.Errorf("unexpected sandbox passed to factory")
		}
		return processor, nil
	})

	got, err := NewProcessor("Test-Processor-1", sandbox)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != processor {
		t.Errorf("unexpected processor instance")
	}
	if !slices.Contains(maps.Keys(GetAllRegisteredProcessorFactories()), "test-processor-1") {
		t.Errorf("factory not listed")
	}
}

func TestProcessorRegistry_DuplicateRegistrationPanics(t *testing.T) {
	factory := func(Sandbox, any) (Processor, error) { return nil, nil }
	RegisterProcessorFactory("test-processor-2", factory)
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic")
		}
	}()
	RegisterProcessorFactory("test-processor-2", factory)
}
