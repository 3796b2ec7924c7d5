// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/TylerBrock/colorjson"
	"github.com/matt-FFFFFF/penumbra/cmd/cmdstate"
	"github.com/matt-FFFFFF/penumbra/internal/ctxlog"
	"github.com/matt-FFFFFF/penumbra/internal/flasher"
	"github.com/matt-FFFFFF/penumbra/internal/settings"
	"github.com/matt-FFFFFF/penumbra/internal/updater"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

const jsonFlag = "json"

// ErrRenderJSON is returned when the update info cannot be rendered.
var ErrRenderJSON = errors.New("failed to render update info as JSON")

// UpdateCmd groups the flasher binary update verbs.
var UpdateCmd = &cli.Command{
	Name:        "update",
	Description: "Check for and install flasher binary updates.",
	Commands: []*cli.Command{
		checkCmd,
		installCmd,
	},
}

var checkCmd = &cli.Command{
	Name:        "check",
	Description: "Check whether a newer flasher binary is available.",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  jsonFlag,
			Usage: "Print the update info as JSON",
		},
	},
	Action: checkAction,
}

var installCmd = &cli.Command{
	Name:        "install",
	Description: "Download and install the latest flasher binary.",
	Action:      installAction,
}

func checkAction(ctx context.Context, cmd *cli.Command) error {
	a := cmdstate.App

	u, err := updater.New(updater.WithFs(a.Fs))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	installedPath, installedVersion := installedFlasher(ctx)

	info, err := u.Check(ctx, installedPath, installedVersion)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if cmd.Bool(jsonFlag) {
		return writeJSON(cmd, info)
	}

	if info.UpdateAvailable {
		fmt.Fprintf(cmd.Writer, "Update available: %s (installed: %s)\n", //nolint:errcheck
			info.LatestVersion, orNone(info.InstalledVersion))
		fmt.Fprintln(cmd.Writer, "Run 'penumbra update install' to install it") //nolint:errcheck

		return nil
	}

	fmt.Fprintf(cmd.Writer, "Flasher is up to date (%s)\n", info.LatestVersion) //nolint:errcheck

	return nil
}

func installAction(ctx context.Context, cmd *cli.Command) error {
	a := cmdstate.App

	u, err := updater.New(updater.WithFs(a.Fs))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	target, err := flasher.InstallPath()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	version, err := u.Install(ctx, target)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if _, err := settings.SyncFlasherVersion(a.Fs, &a.Settings, updater.NormalizeVersion(version)); err != nil {
		ctxlog.Warn(ctx, "could not record the installed flasher version", "error", err.Error())
	}

	fmt.Fprintf(cmd.Writer, "Installed flasher %s to %s\n", version, target) //nolint:errcheck

	return nil
}

// installedFlasher reports the current flasher path and version, empty
// when no binary is installed.
func installedFlasher(ctx context.Context) (string, string) {
	a := cmdstate.App

	exec, err := a.Flasher()
	if err != nil {
		return "", ""
	}

	version, err := exec.Version(ctx)
	if err != nil {
		version = a.Settings.FlasherVersion
	}

	return exec.BinaryPath(), updater.NormalizeVersion(version)
}

func writeJSON(cmd *cli.Command, info updater.Info) error {
	raw, err := json.Marshal(info)
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

func orNone(s string) string {
	if s == "" {
		return "none"
	}

	return s
}
