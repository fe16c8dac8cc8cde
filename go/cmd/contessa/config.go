// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Fantom-foundation/Contessa/go/contessa"
	"github.com/spf13/viper"
)

// envPrefix is the prefix of environment variables overriding entries of
// the schedule, e.g. CONTESSA_DEPOSITCOSTS_PERBYTE.
const envPrefix = "CONTESSA"

// loadSchedule builds the schedule from its defaults, an optional config file
// (YAML, TOML, or JSON), and environment variables, in increasing priority.
func loadSchedule(path string) (contessa.Schedule, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Environment variables are only consulted for known keys, so every entry
	// of the default schedule is registered.
	defaults, err := flatten(contessa.DefaultSchedule())
	if err != nil {
		return contessa.Schedule{}, err
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return contessa.Schedule{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var schedule contessa.Schedule
	if err := v.Unmarshal(&schedule); err != nil {
		return contessa.Schedule{}, fmt.Errorf("invalid schedule: %w", err)
	}
	if schedule.Limits.CallDepth <= 0 {
		return contessa.Schedule{}, fmt.Errorf("invalid schedule: call depth must be positive, got %d", schedule.Limits.CallDepth)
	}
	return schedule, nil
}

// flatten lists the leaves of the given struct under dot separated, lower
// case keys.
func flatten(value any) (map[string]any, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	tree := map[string]any{}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&tree); err != nil {
		return nil, err
	}
	res := map[string]any{}
	var visit func(prefix string, node map[string]any)
	visit = func(prefix string, node map[string]any) {
		for key, child := range node {
			key = prefix + strings.ToLower(key)
			if inner, ok := child.(map[string]any); ok {
				visit(key+".", inner)
			} else {
				res[key] = child
			}
		}
	}
	visit("", tree)
	return res, nil
}
