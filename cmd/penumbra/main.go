// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the penumbra command-line interface (CLI).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/penumbra"
	"github.com/matt-FFFFFF/penumbra/cmd"
	"github.com/matt-FFFFFF/penumbra/cmd/cmdstate"
	"github.com/matt-FFFFFF/penumbra/internal/app"
	"github.com/matt-FFFFFF/penumbra/internal/ctxlog"
	"github.com/matt-FFFFFF/penumbra/internal/notify"
	"github.com/matt-FFFFFF/penumbra/internal/signalbroker"
	"github.com/matt-FFFFFF/penumbra/internal/updater"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	defer cancel()

	a, err := app.New(ctx)
	if err != nil {
		ctxlog.Logger(ctx).Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	cmdstate.App = a

	sigCh := signalbroker.New(ctx)

	go signalbroker.Watch(ctx, sigCh, a.StopFlasher, cancel)

	// Best effort, like the original desktop app's startup check. The
	// notification only lands when the check beats the command's exit.
	if a.Settings.AutoCheckUpdates {
		go autoCheckUpdate(ctx, a)
	}

	cmd.RootCmd.Version = fmt.Sprintf("%s (commit: %s)", penumbra.Version, penumbra.Commit)

	err = cmd.RootCmd.Run(ctx, os.Args) // Err is handled by cli framework

	// Check if the context was cancelled (e.g., due to signals)
	if ctx.Err() != nil {
		ctxlog.Logger(ctx).Error("command terminated due to cancellation", "error", ctx.Err())
		a.Close()
		os.Exit(1)
	}

	if err != nil {
		ctxlog.Logger(ctx).Error("command execution failed", "error", err)
		a.Close()
		os.Exit(1)
	}
}

// autoCheckUpdate notifies when a newer flasher binary is available.
func autoCheckUpdate(ctx context.Context, a *app.App) {
	u, err := updater.New(updater.WithFs(a.Fs))
	if err != nil {
		return
	}

	var path, version string

	if exec, err := a.Flasher(); err == nil {
		path = exec.BinaryPath()
		version = a.Settings.FlasherVersion
	}

	info, err := u.Check(ctx, path, version)
	if err != nil || !info.UpdateAvailable {
		return
	}

	a.Notifier.Notify(notify.Notification{
		Severity: notify.SeverityInfo,
		Message:  fmt.Sprintf("Flasher update available: %s. Run 'penumbra update install' to get it.", info.LatestVersion),
		Duration: notify.DefaultDuration,
	})
}
