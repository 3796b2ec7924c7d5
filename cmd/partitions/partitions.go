// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package partitions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/TylerBrock/colorjson"
	"github.com/matt-FFFFFF/penumbra/cmd/cmdstate"
	"github.com/matt-FFFFFF/penumbra/internal/console"
	"github.com/matt-FFFFFF/penumbra/internal/flasher"
	"github.com/matt-FFFFFF/penumbra/internal/launcher"
	"github.com/matt-FFFFFF/penumbra/internal/oplog"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

const jsonFlag = "json"

// ErrRenderJSON is returned when the partition table cannot be rendered.
var ErrRenderJSON = errors.New("failed to render partition table as JSON")

// PartitionsCmd reads and prints the device partition table.
var PartitionsCmd = &cli.Command{
	Name:        "partitions",
	Description: "Read the device partition table and print it.",
	Flags: append(cmdstate.AgentFlags(),
		&cli.BoolFlag{
			Name:  jsonFlag,
			Usage: "Print the partition table as JSON",
		},
	),
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	a := cmdstate.App

	da, pl, err := cmdstate.AgentPaths(cmd)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	exec, err := a.Flasher()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	var output string

	outcome := console.Run(ctx, a, launcher.Spec{
		Label:        "Read partition table",
		Kind:         oplog.KindRead,
		Subject:      "partition table",
		QuietSuccess: true,
		Run: func(ctx context.Context, id string) error {
			out, err := exec.ExecuteStreaming(ctx, id, flasher.PartitionTableArgs(da, pl))
			output = out

			return err
		},
	}, true) // the table goes to stdout, never through the TUI

	if !outcome.Success {
		return cli.Exit("", 1)
	}

	parts, err := flasher.ParsePartitionTable(output)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if cmd.Bool(jsonFlag) {
		return writeJSON(cmd, parts)
	}

	w := tabwriter.NewWriter(cmd.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTART\tSIZE\t") //nolint:errcheck

	for _, p := range parts {
		fmt.Fprintf(w, "%s\t%s\t%s\t\n", p.Name, p.Start, p.DisplaySize) //nolint:errcheck
	}

	return w.Flush()
}

// writeJSON prints the rows as colored JSON on a terminal, plain JSON
// otherwise.
func writeJSON(cmd *cli.Command, parts []flasher.Partition) error {
	raw, err := json.Marshal(parts)
	if err != nil {
		return errors.Join(ErrRenderJSON, err)
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return errors.Join(ErrRenderJSON, err)
	}

	f := colorjson.NewFormatter()
	f.Indent = 2
	f.DisabledColor = !term.IsTerminal(int(os.Stdout.Fd()))

	out, err := f.Marshal(v)
	if err != nil {
		return errors.Join(ErrRenderJSON, err)
	}

	fmt.Fprintln(cmd.Writer, string(out)) //nolint:errcheck

	return nil
}
