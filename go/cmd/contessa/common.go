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
	"os"
	"runtime/pprof"

	"github.com/Fantom-foundation/Contessa/go/contessa"
	"github.com/Fantom-foundation/Contessa/go/processor/fauna"
	"github.com/Fantom-foundation/Contessa/go/state"
	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
)

var (
	dbFlag = &cli.StringFlag{
		Name:  "db",
		Usage: "directory of the LevelDB world state",
		Value: "contessa-db",
	}
	configFlag = &cli.StringFlag{
		Name:      "config",
		Usage:     "file overriding entries of the default schedule",
		TakesFile: true,
	}
	sandboxFlag = &cli.StringFlag{
		Name:  "sandbox",
		Usage: "sandbox executing contracts",
		Value: "cvm",
	}
	verbosityFlag = &cli.IntFlag{
		Name:  "verbosity",
		Usage: "log level, 0 (silent) to 5 (trace)",
		Value: 3,
	}
	cpuProfileFlag = &cli.StringFlag{
		Name:  "cpuprofile",
		Usage: "store CPU profile in the provided filename",
	}
)

var commonFlags = []cli.Flag{
	dbFlag,
	configFlag,
	sandboxFlag,
	verbosityFlag,
	cpuProfileFlag,
}

// AddCommonFlags equips the command with the flags shared by all commands,
// setting up logging and profiling before its action runs.
func AddCommonFlags(command cli.Command) *cli.Command {
	command.Flags = append(command.Flags, commonFlags...)

	action := command.Action
	command.Action = func(ctx *cli.Context) (err error) {
		setupLogging(ctx.Int(verbosityFlag.Name))

		if cpuprofileFilename := ctx.String(cpuProfileFlag.Name); cpuprofileFilename != "" {
			f, err := os.Create(cpuprofileFilename)
			if err != nil {
				return fmt.Errorf("could not create CPU profile: %w", err)
			}
			if err := pprof.StartCPUProfile(f); err != nil {
				return fmt.Errorf("could not start CPU profile: %w", err)
			}
			defer pprof.StopCPUProfile()
		}

		return action(ctx)
	}
	return &command
}

func setupLogging(verbosity int) {
	useColor := isatty.IsTerminal(os.Stderr.Fd())
	handler := log.NewTerminalHandlerWithLevel(os.Stderr, log.FromLegacyLevel(verbosity), useColor)
	log.SetDefault(log.NewLogger(handler))
}

// environment bundles the components operating on the persistent state.
type environment struct {
	db        *state.LevelDb
	sandbox   contessa.Sandbox
	processor contessa.Processor
	schedule  contessa.Schedule
}

// openEnvironment opens the world state and creates the processor as
// configured by the common flags.
func openEnvironment(ctx *cli.Context, config fauna.Config) (*environment, error) {
	schedule, err := loadSchedule(ctx.String(configFlag.Name))
	if err != nil {
		return nil, err
	}
	sandbox, err := contessa.NewSandbox(ctx.String(sandboxFlag.Name), schedule)
	if err != nil {
		return nil, err
	}
	processor, err := contessa.NewProcessor("fauna", sandbox, config)
	if err != nil {
		return nil, err
	}
	db, err := state.OpenLevelDb(ctx.String(dbFlag.Name))
	if err != nil {
		return nil, err
	}
	return &environment{
		db:        db,
		sandbox:   sandbox,
		processor: processor,
		schedule:  schedule,
	}, nil
}

// close releases the database, reporting any failure of the session.
func (e *environment) close() error {
	return e.db.Close()
}
