// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmdstate holds the application container shared by the
// subcommand packages. urfave commands are package-level values, so the
// container has to live in global state, set by main before the root
// command runs.
package cmdstate

import (
	"errors"

	"github.com/matt-FFFFFF/penumbra/internal/app"
	"github.com/matt-FFFFFF/penumbra/internal/flasher"
	"github.com/urfave/cli/v3"
)

// App is the assembled application container.
var App *app.App

const (
	// DAFlag names the download agent flag shared by the flashing verbs.
	DAFlag = "da"
	// PreloaderFlag names the optional preloader flag.
	PreloaderFlag = "preloader"
	// NoTUIFlag disables the terminal UI even on an interactive session.
	NoTUIFlag = "no-tui"
	// YesFlag skips interactive confirmation of destructive operations.
	YesFlag = "yes"
)

// ErrNoDA is returned when no download agent is configured or supplied.
var ErrNoDA = errors.New("no download agent configured, set da_path in settings or pass --da")

// AgentFlags returns the flags shared by every verb that talks to the
// device.
func AgentFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:      DAFlag,
			Usage:     "Download agent file, defaults to the da_path setting",
			TakesFile: true,
		},
		&cli.StringFlag{
			Name:      PreloaderFlag,
			Aliases:   []string{"p"},
			Usage:     "Preloader file, defaults to the preloader_path setting",
			TakesFile: true,
		},
		&cli.BoolFlag{
			Name:  NoTUIFlag,
			Usage: "Stream plain output instead of the terminal UI",
		},
	}
}

// ConfirmFlag returns the flag that skips interactive confirmation.
func ConfirmFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    YesFlag,
		Aliases: []string{"y"},
		Usage:   "Do not ask for confirmation",
	}
}

// AgentPaths resolves and validates the download agent and preloader
// paths from flags and settings.
func AgentPaths(cmd *cli.Command) (string, string, error) {
	da := cmd.String(DAFlag)
	if da == "" {
		da = App.Settings.DAPath
	}

	pl := cmd.String(PreloaderFlag)
	if pl == "" {
		pl = App.Settings.PreloaderPath
	}

	if da == "" {
		return "", "", ErrNoDA
	}

	if err := flasher.ValidateAgentPaths(App.Fs, da, pl); err != nil {
		return "", "", err
	}

	return da, pl, nil
}
