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

// NewProcessor performs a lookup for the given name (case-insensitive) in the
// registry and creates a new Processor executing contracts on the given
// sandbox, using the optional processor specific configuration.
func NewProcessor(name string, sandbox Sandbox, config ...any) (Processor, error) {
	if len(config) > 1 {
		return nil, fmt.Errorf("invalid configuration: too many arguments")
	}
	factory := GetProcessorFactory(name)
	if factory == nil {
		return nil, fmt.Errorf("processor not found: %s", name)
	}
	c := any(nil)
	if len(config) > 0 {
		c = config[0]
	}
	return factory(sandbox, c)
}

// GetProcessorFactory performs a lookup for the given name (case-insensitive)
// in the registry. The result is nil if no factory was registered under the
// given name.
func GetProcessorFactory(name string) ProcessorFactory {
	processorRegistryLock.Lock()
	defer processorRegistryLock.Unlock()
	return processorRegistry[strings.ToLower(name)]
}

// GetAllRegisteredProcessorFactories obtains all registered implementations.
func GetAllRegisteredProcessorFactories() map[string]ProcessorFactory {
	processorRegistryLock.Lock()
	defer processorRegistryLock.Unlock()
	return maps.Clone(processorRegistry)
}

// RegisterProcessorFactory registers a new Processor implementation to be
// exported for general use in the binary. The name is not case-sensitive,
// and a panic is triggered if a factory was bound to the same name before,
// or the factory is nil.
func RegisterProcessorFactory(name string, factory ProcessorFactory) {
	key := strings.ToLower(name)
	if factory == nil {
		panic(fmt.Sprintf("invalid initialization: cannot register nil-factory using `%s`", key))
	}
	processorRegistryLock.Lock()
	defer processorRegistryLock.Unlock()
	if _, found := processorRegistry[key]; found {
		panic(fmt.Sprintf("invalid initialization: multiple factories registered for `%s`", key))
	}
	processorRegistry[key] = factory
}

// ProcessorFactory is the type of a function that creates a new Processor
// executing contracts on the given sandbox.
type ProcessorFactory func(sandbox Sandbox, config any) (Processor, error)

var processorRegistry = map[string]ProcessorFactory{}

var processorRegistryLock sync.Mutex
