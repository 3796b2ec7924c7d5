// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package write

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

const (
	partitionArg = "partition"
	imageArg     = "image"
)

// WriteCmd flashes a local image to a device partition.
var WriteCmd = &cli.Command{
	Name:        "write",
	Description: "Write a local image file to a device partition. Overwrites the partition contents.",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:      partitionArg,
			UsageText: "PARTITION",
			Config: cli.StringConfig{
				TrimSpace: true,
			},
		},
		&cli.StringArg{
			Name:      imageArg,
			UsageText: " IMAGEFILE",
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
	imagePath := cmd.StringArg(imageArg)

	if partition == "" || imagePath == "" {
		return cli.Exit("Please provide a partition name and an image file", 1)
	}

	a := cmdstate.App

	da, pl, err := cmdstate.AgentPaths(cmd)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if err := flasher.ValidateInputFile(a.Fs, imagePath); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if !cmd.Bool(cmdstate.YesFlag) {
		ok, err := prompt.Confirm(fmt.Sprintf("Write %s to partition %s? This overwrites its contents", imagePath, partition))
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
		Label:   fmt.Sprintf("Write %s", partition),
		Kind:    oplog.KindWrite,
		Subject: partition,
		ShowLog: true,
		Run: func(ctx context.Context, id string) error {
			_, err := exec.ExecuteStreaming(ctx, id, flasher.WriteArgs(partition, imagePath, da, pl))
			return err
		},
	}, cmd.Bool(cmdstate.NoTUIFlag))

	if !outcome.Success {
		return cli.Exit("", 1)
	}

	return nil
}
