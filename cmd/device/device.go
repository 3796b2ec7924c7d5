// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package device

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
	modeArg   = "mode"
	actionArg = "action"
)

// DeviceCmd groups the device control verbs.
var DeviceCmd = &cli.Command{
	Name:        "device",
	Description: "Control the connected device.",
	Commands: []*cli.Command{
		rebootCmd,
		shutdownCmd,
		seccfgCmd,
	},
}

var rebootCmd = &cli.Command{
	Name:        "reboot",
	Description: "Reboot the device, optionally into a specific mode such as recovery or fastboot.",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:      modeArg,
			UsageText: " [MODE]",
			Config: cli.StringConfig{
				TrimSpace: true,
			},
		},
	},
	Flags: cmdstate.AgentFlags(),
	Action: func(ctx context.Context, cmd *cli.Command) error {
		mode := cmd.StringArg(modeArg)

		label := "Reboot device"
		if mode != "" {
			label = fmt.Sprintf("Reboot device into %s", mode)
		}

		return runControl(ctx, cmd, label, func(da, pl string) []string {
			return flasher.RebootArgs(mode, da, pl)
		})
	},
}

var shutdownCmd = &cli.Command{
	Name:        "shutdown",
	Description: "Power the device off.",
	Flags:       cmdstate.AgentFlags(),
	Action: func(ctx context.Context, cmd *cli.Command) error {
		return runControl(ctx, cmd, "Shut down device", func(da, pl string) []string {
			return flasher.ShutdownArgs(da, pl)
		})
	},
}

var seccfgCmd = &cli.Command{
	Name:        "seccfg",
	Description: "Change the device security configuration, e.g. unlock or lock.",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:      actionArg,
			UsageText: "ACTION",
			Config: cli.StringConfig{
				TrimSpace: true,
			},
		},
	},
	Flags: append(cmdstate.AgentFlags(), cmdstate.ConfirmFlag()),
	Action: func(ctx context.Context, cmd *cli.Command) error {
		action := cmd.StringArg(actionArg)
		if action == "" {
			return cli.Exit("Please provide a seccfg action, e.g. unlock or lock", 1)
		}

		if !cmd.Bool(cmdstate.YesFlag) {
			ok, err := prompt.Confirm(fmt.Sprintf("Apply seccfg %s? This changes the device security state", action))
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			if !ok {
				return cli.Exit("Aborted", 1)
			}
		}

		return runControl(ctx, cmd, fmt.Sprintf("Seccfg %s", action), func(da, pl string) []string {
			return flasher.SeccfgArgs(action, da, pl)
		})
	},
}

// runControl executes one device control verb through the launcher.
func runControl(ctx context.Context, cmd *cli.Command, label string, args func(da, pl string) []string) error {
	a := cmdstate.App

	da, pl, err := cmdstate.AgentPaths(cmd)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	exec, err := a.Flasher()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	outcome := console.Run(ctx, a, launcher.Spec{
		Label:   label,
		Kind:    oplog.KindComposite,
		Subject: "device",
		ShowLog: true,
		Run: func(ctx context.Context, id string) error {
			_, err := exec.ExecuteStreaming(ctx, id, args(da, pl))
			return err
		},
	}, cmd.Bool(cmdstate.NoTUIFlag))

	if !outcome.Success {
		return cli.Exit("", 1)
	}

	return nil
}
