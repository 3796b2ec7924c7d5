// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package version

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/penumbra"
	"github.com/matt-FFFFFF/penumbra/cmd/cmdstate"
	"github.com/urfave/cli/v3"
)

// VersionCmd prints the application and flasher versions.
var VersionCmd = &cli.Command{
	Name:        "version",
	Description: "Print the penumbra and flasher versions.",
	Action: func(ctx context.Context, cmd *cli.Command) error {
		fmt.Fprintf(cmd.Writer, "penumbra %s (%s)\n", penumbra.Version, penumbra.Commit) //nolint:errcheck

		exec, err := cmdstate.App.Flasher()
		if err != nil {
			fmt.Fprintln(cmd.Writer, "flasher: not installed") //nolint:errcheck
			return nil
		}

		v, err := exec.Version(ctx)
		if err != nil {
			fmt.Fprintf(cmd.Writer, "flasher: %s (version unknown)\n", exec.BinaryPath()) //nolint:errcheck
			return nil
		}

		fmt.Fprintf(cmd.Writer, "flasher: %s (%s)\n", v, exec.BinaryPath()) //nolint:errcheck

		return nil
	},
}
