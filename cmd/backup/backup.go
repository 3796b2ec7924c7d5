// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package backup

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/matt-FFFFFF/penumbra/cmd/cmdstate"
	"github.com/matt-FFFFFF/penumbra/internal/app"
	"github.com/matt-FFFFFF/penumbra/internal/batch"
	"github.com/matt-FFFFFF/penumbra/internal/console"
	"github.com/matt-FFFFFF/penumbra/internal/flasher"
	"github.com/matt-FFFFFF/penumbra/internal/launcher"
	"github.com/matt-FFFFFF/penumbra/internal/oplog"
	"github.com/urfave/cli/v3"
)

const (
	outDirArg      = "outdir"
	skipFlag       = "skip"
	singlePassFlag = "single-pass"
)

// BackupCmd dumps every partition to a local directory.
var BackupCmd = &cli.Command{
	Name:        "backup",
	Description: "Read every partition from the device into a local directory.",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:      outDirArg,
			UsageText: "OUTDIR",
			Config: cli.StringConfig{
				TrimSpace: true,
			},
		},
	},
	Flags: append(cmdstate.AgentFlags(),
		&cli.StringSliceFlag{
			Name:  skipFlag,
			Usage: "Partition names to skip, repeatable",
		},
		&cli.BoolFlag{
			Name:  singlePassFlag,
			Usage: "Use the flasher's own read-all verb in a single invocation",
		},
	),
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	outDir := cmd.StringArg(outDirArg)
	if outDir == "" {
		return cli.Exit("Please provide an output directory for the backup", 1)
	}

	a := cmdstate.App

	da, pl, err := cmdstate.AgentPaths(cmd)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if err := a.Fs.MkdirAll(outDir, 0o755); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if err := flasher.ValidateOutputDir(a.Fs, outDir); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	exec, err := a.Flasher()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	skip := cmd.StringSlice(skipFlag)
	noTUI := cmd.Bool(cmdstate.NoTUIFlag)

	if cmd.Bool(singlePassFlag) {
		return singlePass(ctx, cmd, exec, outDir, da, pl, skip, noTUI)
	}

	parts, err := readPartitionTable(ctx, a, exec, da, pl)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	units := make([]batch.Unit, 0, len(parts))
	for _, p := range parts {
		name := p.Name
		units = append(units, batch.Unit{
			Subject: name,
			Run: func(ctx context.Context, id string) error {
				out := filepath.Join(outDir, name+".img")
				_, err := exec.ExecuteStreaming(ctx, id, flasher.ReadArgs(name, out, da, pl))

				return err
			},
		})
	}

	summary := a.Batch.Run(ctx, "Backup", oplog.KindComposite, units, skip)

	fmt.Fprintf(cmd.Writer, "Backup finished: %d succeeded, %d failed, %d skipped\n", //nolint:errcheck
		summary.Succeeded, summary.Failed, summary.Skipped)

	if summary.Err != nil {
		return cli.Exit(summary.Err.Error(), 1)
	}

	return nil
}

// singlePass delegates the whole backup to one flasher invocation.
func singlePass(ctx context.Context, cmd *cli.Command, exec *flasher.Executor, outDir, da, pl string, skip []string, noTUI bool) error {
	a := cmdstate.App

	outcome := console.Run(ctx, a, launcher.Spec{
		Label:   "Backup",
		Kind:    oplog.KindComposite,
		Subject: "all partitions",
		ShowLog: true,
		Run: func(ctx context.Context, id string) error {
			_, err := exec.ExecuteStreaming(ctx, id, flasher.ReadAllArgs(outDir, da, pl, skip))
			return err
		},
	}, noTUI)

	if !outcome.Success {
		return cli.Exit("", 1)
	}

	return nil
}

// readPartitionTable fetches and parses the device partition table so the
// batch knows what to dump.
func readPartitionTable(ctx context.Context, a *app.App, exec *flasher.Executor, da, pl string) ([]flasher.Partition, error) {
	var output string

	outcome := a.Launcher.Execute(ctx, launcher.Spec{
		Label:        "Read partition table",
		Kind:         oplog.KindRead,
		Subject:      "partition table",
		QuietSuccess: true,
		Run: func(ctx context.Context, id string) error {
			out, err := exec.ExecuteStreaming(ctx, id, flasher.PartitionTableArgs(da, pl))
			output = out

			return err
		},
	})
	if !outcome.Success {
		return nil, errors.New("could not read the partition table")
	}

	return flasher.ParsePartitionTable(output)
}
