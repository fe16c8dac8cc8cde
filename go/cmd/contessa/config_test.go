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
	"os"
	"path/filepath"
	"testing"

	"github.com/Fantom-foundation/Contessa/go/contessa"
	"github.com/stretchr/testify/require"
)

func TestLoadSchedule_DefaultsToDefaultSchedule(t *testing.T) {
	schedule, err := loadSchedule("")
	require.NoError(t, err)
	require.Equal(t, contessa.DefaultSchedule(), schedule)
}

func TestLoadSchedule_ConfigFileOverridesDefaults(t *testing.T) {
	tests := map[string]string{
		"config.yaml": "depositcosts:\n  perbyte: 3\nhostfnweights:\n  call:\n    reftime: 42\n",
		"config.toml": "[depositcosts]\nperbyte = 3\n[hostfnweights.call]\nreftime = 42\n",
		"config.json": `{"DepositCosts": {"PerByte": 3}, "HostFnWeights": {"Call": {"RefTime": 42}}}`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, os.WriteFile(path, []byte(content), 0600))

			schedule, err := loadSchedule(path)
			require.NoError(t, err)

			want := contessa.DefaultSchedule()
			want.DepositCosts.PerByte = 3
			want.HostFnWeights.Call.RefTime = 42
			require.Equal(t, want, schedule)
		})
	}
}

func TestLoadSchedule_EnvironmentOverridesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("minimumbalance: 7\n"), 0600))
	t.Setenv("CONTESSA_MINIMUMBALANCE", "9")
	t.Setenv("CONTESSA_LIMITS_CALLDEPTH", "8")

	schedule, err := loadSchedule(path)
	require.NoError(t, err)
	require.Equal(t, uint64(9), schedule.MinimumBalance)
	require.Equal(t, 8, schedule.Limits.CallDepth)
}

func TestLoadSchedule_RejectsInvalidSchedules(t *testing.T) {
	_, err := loadSchedule(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	t.Setenv("CONTESSA_LIMITS_CALLDEPTH", "0")
	_, err = loadSchedule("")
	require.Error(t, err)
}
