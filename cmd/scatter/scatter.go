// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package scatter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/TylerBrock/colorjson"
	"github.com/matt-FFFFFF/penumbra/cmd/cmdstate"
	"github.com/matt-FFFFFF/penumbra/internal/scatter"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

const (
	fileArg  = "file"
	jsonFlag = "json"
)

// ErrRenderJSON is returned when the scatter contents cannot be rendered.
var ErrRenderJSON = errors.New("failed to render scatter file as JSON")

// ScatterCmd groups the scatter file verbs.
var ScatterCmd = &cli.Command{
	Name:        "scatter",
	Description: "Inspect MTK scatter files.",
	Commands: []*cli.Command{
		parseCmd,
		imagesCmd,
	},
}

var parseCmd = &cli.Command{
	Name:        "parse",
	Description: "Parse a scatter file and print its partitions.",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:      fileArg,
			UsageText: "SCATTERFILE",
			Config: cli.StringConfig{
				TrimSpace: true,
			},
		},
	},
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  jsonFlag,
			Usage: "Print the scatter contents as JSON",
		},
	},
	Action: parseAction,
}

var imagesCmd = &cli.Command{
	Name:        "images",
	Description: "Detect image files for the partitions of a scatter file.",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:      fileArg,
			UsageText: "SCATTERFILE",
			Config: cli.StringConfig{
				TrimSpace: true,
			},
		},
	},
	Action: imagesAction,
}

func parseAction(_ context.Context, cmd *cli.Command) error {
	path := cmd.StringArg(fileArg)
	if path == "" {
		return cli.Exit("Please provide a scatter file to parse", 1)
	}

	file, err := scatter.Parse(cmdstate.App.Fs, path)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if cmd.Bool(jsonFlag) {
		return writeJSON(cmd, file)
	}

	fmt.Fprintf(cmd.Writer, "Platform: %s\nProject: %s\nStorage: %s\n\n", //nolint:errcheck
		file.Platform, file.Project, file.StorageType)

	w := tabwriter.NewWriter(cmd.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTART\tSIZE\tFILE\tDOWNLOAD\t") //nolint:errcheck

	for _, p := range file.Partitions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t\n", //nolint:errcheck
			p.Name, p.PhysicalStartAddr, p.Size, p.FileName, p.IsDownload)
	}

	return w.Flush()
}

func imagesAction(_ context.Context, cmd *cli.Command) error {
	path := cmd.StringArg(fileArg)
	if path == "" {
		return cli.Exit("Please provide a scatter file", 1)
	}

	a := cmdstate.App

	file, err := scatter.Parse(a.Fs, path)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	images := scatter.DetectImages(a.Fs, path, file.Partitions)
	if len(images) == 0 {
		fmt.Fprintln(cmd.Writer, "No images found next to the scatter file") //nolint:errcheck
		return nil
	}

	names := make([]string, 0, len(images))
	for name := range images {
		names = append(names, name)
	}

	sort.Strings(names)

	w := tabwriter.NewWriter(cmd.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PARTITION\tIMAGE\t") //nolint:errcheck

	for _, name := range names {
		fmt.Fprintf(w, "%s\t%s\t\n", name, images[name]) //nolint:errcheck
	}

	return w.Flush()
}

func writeJSON(cmd *cli.Command, file *scatter.File) error {
	raw, err := json.Marshal(file)
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
