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
	"fmt"
	"time"

	"github.com/Fantom-foundation/Contessa/go/contessa"
	"github.com/Fantom-foundation/Contessa/go/examples"
	"github.com/dsnet/golib/unitconv"
	"github.com/urfave/cli/v2"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var ExampleCmd = cli.Command{
	Action:    doExample,
	Name:      "example",
	Usage:     "List example contracts, or run one on the configured sandboxes",
	ArgsUsage: "[<example> [<argument>]]",
	Flags: []cli.Flag{
		configFlag,
		verbosityFlag,
		&cli.StringSliceFlag{
			Name:  "sandbox",
			Usage: "sandboxes to run the example on, all if empty",
		},
		&cli.IntFlag{
			Name:  "runs",
			Usage: "number of repetitions of the example",
			Value: 1,
		},
	},
}

func doExample(ctx *cli.Context) error {
	setupLogging(ctx.Int(verbosityFlag.Name))
	out := ctx.App.Writer
	if ctx.Args().Len() == 0 {
		for _, example := range examples.All() {
			fmt.Fprintf(out, "%-12s %v %s\n", example.Name, example.CodeHash(), example.Description)
		}
		return nil
	}

	example, found := examples.Get(ctx.Args().Get(0))
	if !found {
		return fmt.Errorf("unknown example %q", ctx.Args().Get(0))
	}
	if !example.HasReference() {
		return fmt.Errorf("example %s can only be run in a contract environment", example.Name)
	}
	var argument uint64
	if ctx.Args().Len() > 1 {
		if _, err := fmt.Sscan(ctx.Args().Get(1), &argument); err != nil {
			return fmt.Errorf("invalid argument %q: %w", ctx.Args().Get(1), err)
		}
	}
	schedule, err := loadSchedule(ctx.String(configFlag.Name))
	if err != nil {
		return err
	}

	names := ctx.StringSlice("sandbox")
	if len(names) == 0 {
		names = maps.Keys(contessa.GetAllRegisteredSandboxes())
		slices.Sort(names)
	}
	runs := max(ctx.Int("runs"), 1)
	want := example.RunReference(argument)
	for _, name := range names {
		sandbox, err := contessa.NewSandbox(name, schedule)
		if err != nil {
			return err
		}
		profiling, isProfiling := sandbox.(contessa.ProfilingSandbox)
		if isProfiling {
			profiling.ResetProfile()
		}
		var result examples.Result
		start := time.Now()
		for i := 0; i < runs; i++ {
			if result, err = example.RunOn(sandbox, argument); err != nil {
				return fmt.Errorf("failed to run %s on %s: %w", example.Name, name, err)
			}
		}
		duration := time.Since(start)
		if result.Result != want {
			return fmt.Errorf("unexpected result on %s, wanted %d, got %d", name, want, result.Result)
		}
		rate := float64(runs) / duration.Seconds()
		fmt.Fprintf(out, "%-12s %s(%d) = %d, gas %s, ~%s runs per second\n",
			name, example.Name, argument, result.Result, formatWeight(result.UsedGas),
			unitconv.FormatPrefix(rate, unitconv.SI, 0),
		)
		if isProfiling {
			profiling.DumpProfile(out)
		}
	}
	return nil
}
