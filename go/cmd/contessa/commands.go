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
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Fantom-foundation/Contessa/go/contessa"
	"github.com/Fantom-foundation/Contessa/go/examples"
	"github.com/Fantom-foundation/Contessa/go/processor/fauna"
	"github.com/dsnet/golib/unitconv"
	"github.com/urfave/cli/v2"
)

var FundCmd = AddCommonFlags(cli.Command{
	Action:    doFund,
	Name:      "fund",
	Usage:     "Set the balance of an account",
	ArgsUsage: "<address> <value>",
})

var UploadCmd = AddCommonFlags(cli.Command{
	Action: doUpload,
	Name:   "upload",
	Usage:  "Upload a code blob",
	Flags: []cli.Flag{
		FromFlag,
		CodeFlag,
		ExampleFlag,
		DepositLimitFlag,
		DryRunFlag,
	},
})

var InstantiateCmd = AddCommonFlags(cli.Command{
	Action: doInstantiate,
	Name:   "instantiate",
	Usage:  "Create a contract from uploaded or given code",
	Flags: append([]cli.Flag{
		FromFlag,
		&cli.StringFlag{Name: "code-hash", Usage: "hash of uploaded code"},
		CodeFlag,
		ExampleFlag,
		ValueFlag,
		DepositLimitFlag,
		InputFlag,
		SaltFlag,
		DebugMessagesFlag,
		DryRunFlag,
	}, GasFlag.Flags()...),
})

var CallCmd = AddCommonFlags(cli.Command{
	Action: doCall,
	Name:   "call",
	Usage:  "Call a contract",
	Flags: append([]cli.Flag{
		FromFlag,
		ToFlag,
		ValueFlag,
		DepositLimitFlag,
		InputFlag,
		DebugMessagesFlag,
		DryRunFlag,
	}, GasFlag.Flags()...),
})

var RemoveCodeCmd = AddCommonFlags(cli.Command{
	Action:    doRemoveCode,
	Name:      "remove-code",
	Usage:     "Remove unused code, refunding its deposit",
	ArgsUsage: "<code hash>",
	Flags:     []cli.Flag{FromFlag},
})

var InspectCmd = AddCommonFlags(cli.Command{
	Action:    doInspect,
	Name:      "inspect",
	Usage:     "Print an account, or a code blob if given a hash",
	ArgsUsage: "<address or code hash>",
})

func processorConfig(ctx *cli.Context) fauna.Config {
	config := fauna.DefaultConfig()
	config.DebugMessages = ctx.Bool(DebugMessagesFlag.Name)
	config.DryRun = ctx.Bool(DryRunFlag.Name)
	return config
}

// withEnvironment runs the given action on an opened environment.
func withEnvironment(ctx *cli.Context, action func(*environment) error) (err error) {
	env, err := openEnvironment(ctx, processorConfig(ctx))
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, env.close())
	}()
	return action(env)
}

func doFund(ctx *cli.Context) error {
	if ctx.Args().Len() != 2 {
		return fmt.Errorf("expected address and value, got %d arguments", ctx.Args().Len())
	}
	address, err := parseAddress(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	value, err := parseValue(ctx.Args().Get(1))
	if err != nil {
		return err
	}
	return withEnvironment(ctx, func(env *environment) error {
		account, _ := env.db.GetAccount(address)
		account.Balance = value
		env.db.SetAccount(address, account)
		if err := env.db.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(ctx.App.Writer, "Balance of %v: %v\n", address, value)
		return nil
	})
}

// fetchCode obtains code from the code or example flag, if one is set.
func fetchCode(ctx *cli.Context) (contessa.Code, error) {
	if ExampleFlag.IsSetIn(ctx) {
		return ExampleFlag.Fetch(ctx)
	}
	return CodeFlag.Fetch(ctx)
}

func exampleCode(name string) (contessa.Code, error) {
	example, found := examples.Get(name)
	if !found {
		return nil, fmt.Errorf("unknown example %q", name)
	}
	return example.Code, nil
}

func doUpload(ctx *cli.Context) error {
	origin, err := FromFlag.Fetch(ctx)
	if err != nil {
		return err
	}
	code, err := fetchCode(ctx)
	if err != nil {
		return err
	}
	if len(code) == 0 {
		return fmt.Errorf("no code given, use --%s or --%s", CodeFlag.Name, ExampleFlag.Name)
	}
	return withEnvironment(ctx, func(env *environment) error {
		receipt, err := env.processor.UploadCode(env.db, contessa.UploadRequest{
			Origin:       origin,
			Code:         code,
			DepositLimit: ctx.Uint64(DepositLimitFlag.Name),
		})
		printReceipt(ctx.App.Writer, receipt, err)
		return err
	})
}

func doInstantiate(ctx *cli.Context) error {
	request := contessa.InstantiateRequest{
		GasLimit:     GasFlag.Fetch(ctx),
		DepositLimit: ctx.Uint64(DepositLimitFlag.Name),
	}
	var err error
	if request.Origin, err = FromFlag.Fetch(ctx); err != nil {
		return err
	}
	if request.Value, err = ValueFlag.Fetch(ctx); err != nil {
		return err
	}
	if request.Input, err = InputFlag.Fetch(ctx); err != nil {
		return err
	}
	if request.Salt, err = SaltFlag.Fetch(ctx); err != nil {
		return err
	}
	if request.Code, err = fetchCode(ctx); err != nil {
		return err
	}
	if len(request.Code) == 0 {
		if request.CodeHash, err = parseHash(ctx.String("code-hash")); err != nil {
			return err
		}
	}
	return withEnvironment(ctx, func(env *environment) error {
		receipt, err := env.processor.Instantiate(blockParameters(), env.db, request)
		printReceipt(ctx.App.Writer, receipt, err)
		return err
	})
}

func doCall(ctx *cli.Context) error {
	request := contessa.CallRequest{
		GasLimit:     GasFlag.Fetch(ctx),
		DepositLimit: ctx.Uint64(DepositLimitFlag.Name),
	}
	var err error
	if request.Origin, err = FromFlag.Fetch(ctx); err != nil {
		return err
	}
	if request.Dest, err = ToFlag.Fetch(ctx); err != nil {
		return err
	}
	if request.Value, err = ValueFlag.Fetch(ctx); err != nil {
		return err
	}
	if request.Input, err = InputFlag.Fetch(ctx); err != nil {
		return err
	}
	return withEnvironment(ctx, func(env *environment) error {
		receipt, err := env.processor.Call(blockParameters(), env.db, request)
		printReceipt(ctx.App.Writer, receipt, err)
		return err
	})
}

func doRemoveCode(ctx *cli.Context) error {
	origin, err := FromFlag.Fetch(ctx)
	if err != nil {
		return err
	}
	hash, err := parseHash(ctx.Args().First())
	if err != nil {
		return err
	}
	return withEnvironment(ctx, func(env *environment) error {
		receipt, err := env.processor.RemoveCode(env.db, contessa.RemoveCodeRequest{
			Origin:   origin,
			CodeHash: hash,
		})
		printReceipt(ctx.App.Writer, receipt, err)
		return err
	})
}

func doInspect(ctx *cli.Context) error {
	arg := ctx.Args().First()
	return withEnvironment(ctx, func(env *environment) error {
		out := ctx.App.Writer
		if hash, err := parseHash(arg); err == nil {
			info, found := env.db.GetCode(hash)
			if !found {
				return fmt.Errorf("code %v not found", hash)
			}
			fmt.Fprintf(out, "Code %v\n", hash)
			fmt.Fprintf(out, "  owner:     %v\n", info.Owner)
			fmt.Fprintf(out, "  size:      %sB\n", unitconv.FormatPrefix(float64(len(info.Code)), unitconv.IEC, 1))
			fmt.Fprintf(out, "  deposit:   %d\n", info.Deposit)
			fmt.Fprintf(out, "  refcount:  %d\n", info.RefCount)
			module, err := env.sandbox.Compile(hash, info.Code)
			if err != nil {
				return fmt.Errorf("stored code %v is not valid: %w", hash, err)
			}
			initial, maximum := module.MemoryPages()
			fmt.Fprintf(out, "  memory:    %d..%d pages\n", initial, maximum)
			fmt.Fprintf(out, "  imports:   %s\n", strings.Join(module.Imports(), ", "))
			return nil
		}
		address, err := parseAddress(arg)
		if err != nil {
			return err
		}
		account, found := env.db.GetAccount(address)
		if !found {
			return fmt.Errorf("account %v not found", address)
		}
		fmt.Fprintf(out, "Account %v\n", address)
		fmt.Fprintf(out, "  balance:   %v\n", account.Balance)
		fmt.Fprintf(out, "  nonce:     %d\n", account.Nonce)
		if info := account.Contract; info != nil {
			fmt.Fprintf(out, "  code:      %v\n", info.CodeHash)
			fmt.Fprintf(out, "  storage:   %v\n", info.StorageID)
			fmt.Fprintf(out, "  items:     %d (%sB)\n", info.StorageItems, unitconv.FormatPrefix(float64(info.StorageBytes), unitconv.IEC, 1))
			fmt.Fprintf(out, "  reserved:  %d\n", info.DepositReserved)
		}
		return nil
	})
}

// blockParameters describes the block operations issued by the CLI run in.
func blockParameters() contessa.BlockParameters {
	now := time.Now()
	return contessa.BlockParameters{
		BlockNumber: uint64(now.Unix()),
		Timestamp:   uint64(now.UnixMilli()),
	}
}

func printReceipt(out io.Writer, receipt contessa.Receipt, err error) {
	if err != nil {
		fmt.Fprintf(out, "Failed: %v\n", err)
	} else {
		fmt.Fprintf(out, "Succeeded\n")
	}
	fmt.Fprintf(out, "  gas:       %s\n", formatWeight(receipt.GasConsumed))
	if receipt.Deposit.Amount != 0 {
		fmt.Fprintf(out, "  deposit:   %v\n", receipt.Deposit)
	}
	if receipt.CodeHash != (contessa.Hash{}) {
		fmt.Fprintf(out, "  code hash: %v\n", receipt.CodeHash)
	}
	if receipt.Address != (contessa.Address{}) {
		fmt.Fprintf(out, "  address:   %v\n", receipt.Address)
	}
	if len(receipt.Output) > 0 {
		fmt.Fprintf(out, "  output:    0x%x\n", []byte(receipt.Output))
	}
	for _, event := range receipt.Events {
		fmt.Fprintf(out, "  event:     %v %v 0x%x\n", event.Contract, event.Topics, []byte(event.Data))
	}
	for _, message := range receipt.DebugMessages {
		fmt.Fprintf(out, "  debug:     %s\n", message)
	}
}

func formatWeight(w contessa.Weight) string {
	return fmt.Sprintf("%sps ref_time, %sB proof_size",
		unitconv.FormatPrefix(float64(w.RefTime), unitconv.SI, 2),
		unitconv.FormatPrefix(float64(w.ProofSize), unitconv.IEC, 2),
	)
}
