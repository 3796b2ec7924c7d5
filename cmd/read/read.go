// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package read

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/matt-FFFFFF/penumbra/cmd/cmdstate"
	"github.com/matt-FFFFFF/penumbra/internal/console"
	"github.com/matt-FFFFFF/penumbra/internal/flasher"
	"github.com/matt-FFFFFF/penumbra/internal/launcher"
	"github.com/matt-FFFFFF/penumbra/internal/oplog"
	"github.com/urfave/cli/v3"
)

const (
	partitionArg = "partition"
	outArg       = "out"
)

// ReadCmd dumps a partition from the device to a local file.
var ReadCmd = &cli.Command{
	Name:        "read",
	Description: "Read a partition from the device into a local image file.",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:      partitionArg,
			UsageText: "PARTITION",
			Config: cli.StringConfig{
				TrimSpace: true,
			},
		},
		&cli.StringArg{
			Name:      outArg,
			UsageText: " [OUTFILE]",
			Config: cli.StringConfig{
				TrimSpace: true,
			},
		},
	},
	Flags:  cmdstate.AgentFlags(),
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	partition := cmd.StringArg(partitionArg)
	if partition == "" {
		return cli.Exit("Please provide a partition name to read", 1)
	}

	a := cmdstate.App

	da, pl, err := cmdstate.AgentPaths(cmd)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	outPath := cmd.StringArg(outArg)
	if outPath == "" {
		dir := a.Settings.DefaultOutputPath
		outPath = filepath.Join(dir, partition+".img")
	}

	if err := flasher.ValidateOutputParent(a.Fs, outPath); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	exec, err := a.Flasher()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	outcome := console.Run(ctx, a, launcher.Spec{
		Label:   fmt.Sprintf("Read %s", partition),
		Kind:    oplog.KindRead,
		Subject: partition,
		ShowLog: true,
		Run: func(ctx context.Context, id string) error {
			_, err := exec.ExecuteStreaming(ctx, id, flasher.ReadArgs(partition, outPath, da, pl))
			return err
		},
	}, cmd.Bool(cmdstate.NoTUIFlag))

	if !outcome.Success {
		return cli.Exit("", 1)
	}

	return nil
}
