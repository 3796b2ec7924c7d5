// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmd contains the command-line interface (CLI) for the module.
package cmd

import (
	"os"

	"github.com/matt-FFFFFF/penumbra/cmd/backup"
	"github.com/matt-FFFFFF/penumbra/cmd/device"
	"github.com/matt-FFFFFF/penumbra/cmd/erase"
	"github.com/matt-FFFFFF/penumbra/cmd/format"
	"github.com/matt-FFFFFF/penumbra/cmd/partitions"
	"github.com/matt-FFFFFF/penumbra/cmd/read"
	"github.com/matt-FFFFFF/penumbra/cmd/scatter"
	"github.com/matt-FFFFFF/penumbra/cmd/update"
	"github.com/matt-FFFFFF/penumbra/cmd/version"
	"github.com/matt-FFFFFF/penumbra/cmd/write"
	"github.com/urfave/cli/v3"
)

// RootCmd is the root command for the CLI.
var RootCmd = &cli.Command{
	Commands: []*cli.Command{
		read.ReadCmd,
		write.WriteCmd,
		erase.EraseCmd,
		format.FormatCmd,
		partitions.PartitionsCmd,
		backup.BackupCmd,
		device.DeviceCmd,
		scatter.ScatterCmd,
		update.UpdateCmd,
		version.VersionCmd,
	},
	Writer:    os.Stdout,
	ErrWriter: os.Stderr,
	Name:      "penumbra",
	Description: `Penumbra is a command-line frontend for an external MediaTek
device-flashing tool. It reads, writes, erases and formats device partitions,
streams the flasher's output live into a terminal UI with progress tracking,
parses scatter files, and keeps the flasher binary itself up to date.`,
	Usage:     "penumbra read boot_a boot_a.img --da DA.bin",
	Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
	Authors: []any{
		"Matt White (matt-FFFFFF)",
	},
	EnableShellCompletion: true,
}
