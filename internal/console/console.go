// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package console runs launcher specs with the right frontend for the
// session: the full TUI on an interactive terminal, plain line streaming
// otherwise.
package console

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/matt-FFFFFF/penumbra/internal/app"
	"github.com/matt-FFFFFF/penumbra/internal/ctxlog"
	"github.com/matt-FFFFFF/penumbra/internal/launcher"
	"github.com/matt-FFFFFF/penumbra/internal/tui"
	"golang.org/x/term"
)

// Interactive reports whether stdout is a terminal.
func Interactive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Run executes the spec with the TUI when the session is interactive and
// the caller did not opt out, falling back to plain streaming.
func Run(ctx context.Context, a *app.App, spec launcher.Spec, noTUI bool) launcher.Outcome {
	if !noTUI && Interactive() {
		return runTUI(ctx, a, spec)
	}

	return runPlain(ctx, a, spec, os.Stdout, os.Stderr)
}

func runTUI(ctx context.Context, a *app.App, spec launcher.Spec) launcher.Outcome {
	runner := tui.NewRunner(a.Registry, a.Broker)

	var outcome launcher.Outcome

	err := runner.Run(ctx, func(ctx context.Context) error {
		outcome = a.Launcher.Execute(ctx, spec)
		return nil
	})
	if err != nil {
		ctxlog.Error(ctx, "terminal ui failed", "error", err.Error())
	}

	return outcome
}

// runPlain streams output lines to the writers while the operation runs.
// Stderr lines keep their channel so scripted callers can separate them.
func runPlain(ctx context.Context, a *app.App, spec launcher.Spec, stdout, stderr io.Writer) launcher.Outcome {
	sub := a.Broker.SubscribeOutput()
	done := make(chan struct{})

	go func() {
		defer close(done)

		for e := range sub.Events() {
			w := stdout
			if e.IsStderr {
				w = stderr
			}

			fmt.Fprintln(w, e.Line) //nolint:errcheck
		}
	}()

	outcome := a.Launcher.Execute(ctx, spec)

	sub.Cancel()
	<-done

	return outcome
}
