// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package erase

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/penumbra/cmd/cmdstate"
	"github.com/matt-FFFFFF/penumbra/internal/console"
	"github.com/matt-FFFFFF/penumbra/internal/flasher"
	"github.com/matt-FFFFFF/penumbra/internal/launcher"
	"github.com/matt-FFFFFF/penumbra/internal/oplog"
	"github.com/matt-FFFFFF/penumbra/internal/prompt"
	"github.com/urfave/cli/v3"
)

const partitionArg = "partition"

// EraseCmd erases a device partition.
var EraseCmd = &cli.Command{
	Name:        "erase",
	Description: "Erase a device partition. The partition contents are lost.",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:      partitionArg,
			UsageText: "PARTITION",
			Config: cli.StringConfig{
				TrimSpace: true,
			},
		},
	},
	Flags:  append(cmdstate.AgentFlags(), cmdstate.ConfirmFlag()),
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	partition := cmd.StringArg(partitionArg)
	if partition == "" {
		return cli.Exit("Please provide a partition name to erase", 1)
	}

	a := cmdstate.App

	da, pl, err := cmdstate.AgentPaths(cmd)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if !cmd.Bool(cmdstate.YesFlag) {
		ok, err := prompt.Confirm(fmt.Sprintf("Erase partition %s? Its contents are lost", partition))
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}

		if !ok {
			return cli.Exit("Aborted", 1)
		}
	}

	exec, err := a.Flasher()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	outcome := console.Run(ctx, a, launcher.Spec{
		Label:   fmt.Sprintf("Erase %s", partition),
		Kind:    oplog.KindErase,
		Subject: partition,
		ShowLog: true,
		Run: func(ctx context.Context, id string) error {
			_, err := exec.ExecuteStreaming(ctx, id, flasher.EraseArgs(partition, da, pl))
			return err
		},
	}, cmd.Bool(cmdstate.NoTUIFlag))

	if !outcome.Success {
		return cli.Exit("", 1)
	}

	return nil
}
