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
	"strings"

	"github.com/Fantom-foundation/Contessa/go/contessa"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/urfave/cli/v2"
)

type addressFlagType struct {
	cli.StringFlag
}

func newAddressFlag(name, usage string) *addressFlagType {
	return &addressFlagType{cli.StringFlag{Name: name, Usage: usage, Required: true}}
}

func (f *addressFlagType) Fetch(context *cli.Context) (contessa.Address, error) {
	return parseAddress(context.String(f.Name))
}

var (
	FromFlag = newAddressFlag("from", "the account issuing the operation")
	ToFlag   = newAddressFlag("to", "the contract to be called")
)

type valueFlagType struct {
	cli.StringFlag
}

var ValueFlag = &valueFlagType{
	cli.StringFlag{
		Name:  "value",
		Usage: "decimal amount transferred to the contract",
		Value: "0",
	},
}

func (f *valueFlagType) Fetch(context *cli.Context) (contessa.Value, error) {
	return parseValue(context.String(f.Name))
}

type gasFlagType struct {
	refTime   cli.Uint64Flag
	proofSize cli.Uint64Flag
}

var GasFlag = &gasFlagType{
	refTime: cli.Uint64Flag{
		Name:  "gas",
		Usage: "ref_time component of the gas limit",
		Value: 10_000_000_000,
	},
	proofSize: cli.Uint64Flag{
		Name:  "proof-size",
		Usage: "proof_size component of the gas limit",
		Value: 10_000_000,
	},
}

func (f *gasFlagType) Flags() []cli.Flag {
	return []cli.Flag{&f.refTime, &f.proofSize}
}

func (f *gasFlagType) Fetch(context *cli.Context) contessa.Weight {
	return contessa.NewWeight(context.Uint64(f.refTime.Name), context.Uint64(f.proofSize.Name))
}

var DepositLimitFlag = &cli.Uint64Flag{
	Name:  "deposit-limit",
	Usage: "maximum storage deposit charged to the origin, 0 for no limit",
}

type dataFlagType struct {
	cli.StringFlag
}

func newDataFlag(name, usage string) *dataFlagType {
	return &dataFlagType{cli.StringFlag{Name: name, Usage: usage}}
}

// Fetch decodes the flag's hex value. A value starting with @ names a file
// holding raw bytes.
func (f *dataFlagType) Fetch(context *cli.Context) ([]byte, error) {
	return parseData(context.String(f.Name))
}

var (
	InputFlag = newDataFlag("input", "hex encoded input of the contract, or @file")
	SaltFlag  = newDataFlag("salt", "hex encoded salt determining the contract address")
	CodeFlag  = newDataFlag("code", "hex encoded module to be uploaded, or @file")
)

type exampleFlagType struct {
	cli.StringFlag
}

var ExampleFlag = &exampleFlagType{
	cli.StringFlag{
		Name:  "example",
		Usage: "name of a built-in example contract providing the code",
	},
}

func (f *exampleFlagType) IsSetIn(context *cli.Context) bool {
	return context.IsSet(f.Name)
}

func (f *exampleFlagType) Fetch(context *cli.Context) (contessa.Code, error) {
	return exampleCode(context.String(f.Name))
}

var DebugMessagesFlag = &cli.BoolFlag{
	Name:  "debug-messages",
	Usage: "print debug messages of contracts",
}

var DryRunFlag = &cli.BoolFlag{
	Name:  "dry-run",
	Usage: "evaluate the operation without persisting its effects",
}

func parseAddress(s string) (contessa.Address, error) {
	var res contessa.Address
	if err := res.UnmarshalText([]byte(s)); err != nil {
		return res, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return res, nil
}

func parseHash(s string) (contessa.Hash, error) {
	var res contessa.Hash
	if err := res.UnmarshalText([]byte(s)); err != nil {
		return res, fmt.Errorf("invalid hash %q: %w", s, err)
	}
	return res, nil
}

func parseValue(s string) (contessa.Value, error) {
	value, err := uint256.FromDecimal(s)
	if err != nil {
		return contessa.Value{}, fmt.Errorf("invalid value %q: %w", s, err)
	}
	return contessa.ValueFromUint256(value), nil
}

func parseData(s string) ([]byte, error) {
	if file, found := strings.CutPrefix(s, "@"); found {
		return os.ReadFile(file)
	}
	if s == "" {
		return nil, nil
	}
	if !strings.HasPrefix(s, "0x") {
		s = "0x" + s
	}
	res, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex data %q: %w", s, err)
	}
	return res, nil
}
