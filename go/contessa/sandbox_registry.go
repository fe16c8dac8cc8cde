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
	"strings"
	"sync"

	"golang.org/x/exp/maps"
)

// This file provides a registry for Sandbox implementations.
//
// For an implementation to be available it needs to be registered. Typically,
// this registration is part of the init code of the package providing an
// implementation. Thus, by including the implementation package, sandbox
// implementations become available in this central registry.

// NewSandbox performs a lookup for the given name (case-insensitive) in the
// registry and creates a new Sandbox using the given optional configuration.
// If no configuration is provided, the implementation uses its default
// configuration. An error is returned if no factory was registered under the
// given name.
func NewSandbox(name string, config ...any) (Sandbox, error) {
	if len(config) > 1 {
		return nil, fmt.Errorf("invalid configuration: too many arguments")
	}
	factory := GetSandboxFactory(name)
	if factory == nil {
		return nil, fmt.Errorf("sandbox not found: %s", name)
	}
	c := any(nil)
	if len(config) > 0 {
		c = config[0]
	}
	return factory(c)
}

// GetSandboxFactory performs a lookup for the given name (case-insensitive)
// in the registry. The result is nil if no factory was registered under the
// given name.
func GetSandboxFactory(name string) SandboxFactory {
	sandboxRegistryLock.Lock()
	defer sandboxRegistryLock.Unlock()
	return sandboxRegistry[strings.ToLower(name)]
}

// GetAllRegisteredSandboxes obtains all registered implementations.
func GetAllRegisteredSandboxes() map[string]SandboxFactory {
	sandboxRegistryLock.Lock()
	defer sandboxRegistryLock.Unlock()
	return maps.Clone(sandboxRegistry)
}

// RegisterSandboxFactory registers a new Sandbox implementation to be exported
// for general use in the binary. The name is not case-sensitive, and an error
// is returned if a factory was bound to the same name before, or the factory
// is nil. This function is mainly intended to be used by package
// initialization code.
func RegisterSandboxFactory(name string, factory SandboxFactory) error {
	key := strings.ToLower(name)
	if factory == nil {
		return fmt.Errorf("invalid initialization: cannot register nil-factory using `%s`", key)
	}
	sandboxRegistryLock.Lock()
	defer sandboxRegistryLock.Unlock()
	if _, found := sandboxRegistry[key]; found {
		return fmt.Errorf("invalid initialization: multiple factories registered for `%s`", key)
	}
	sandboxRegistry[key] = factory
	return nil
}

// SandboxFactory is the type of a function that creates a new Sandbox
// using a sandbox specific configuration.
type SandboxFactory func(config any) (Sandbox, error)

// sandboxRegistry is a global registry for Sandbox factories of
// different implementations and configurations.
var sandboxRegistry = map[string]SandboxFactory{}

// sandboxRegistryLock to protect access to the registry.
var sandboxRegistryLock sync.Mutex
