// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package app assembles the long-lived services behind the CLI: settings,
// the operation registry, the event broker with its listener, the flasher
// executor and the error handler. Commands pull what they need from the
// App rather than constructing services themselves.
package app

import (
	"context"
	"sync"

	"github.com/matt-FFFFFF/penumbra/internal/apperr"
	"github.com/matt-FFFFFF/penumbra/internal/batch"
	"github.com/matt-FFFFFF/penumbra/internal/events"
	"github.com/matt-FFFFFF/penumbra/internal/flasher"
	"github.com/matt-FFFFFF/penumbra/internal/launcher"
	"github.com/matt-FFFFFF/penumbra/internal/notify"
	"github.com/matt-FFFFFF/penumbra/internal/oplog"
	"github.com/matt-FFFFFF/penumbra/internal/settings"
	"github.com/spf13/afero"
)

// App holds the assembled services for one process lifetime.
type App struct {
	Fs       afero.Fs
	Settings settings.Settings
	Registry *oplog.Registry
	Broker   *events.Broker
	Listener *events.Listener
	Notifier notify.Notifier
	Handler  *apperr.Handler
	Launcher *launcher.Launcher
	Batch    *batch.Runner

	flasherMu   sync.Mutex
	flasher     *flasher.Executor
	flasherErr  error
	settingsSet bool
}

// Option implements a functional options pattern for App.
type Option func(*App)

// WithFs overrides the filesystem, for tests.
func WithFs(fs afero.Fs) Option {
	return func(a *App) { a.Fs = fs }
}

// WithNotifier overrides the notifier.
func WithNotifier(n notify.Notifier) Option {
	return func(a *App) { a.Notifier = n }
}

// WithSettings skips loading settings from disk.
func WithSettings(s settings.Settings) Option {
	return func(a *App) {
		a.Settings = s
		a.settingsSet = true
	}
}

// New loads settings, wires the event pipeline and attaches the stream
// listener. Flasher binary resolution is deferred until a command needs
// it, so commands like update work when no flasher is installed yet.
func New(ctx context.Context, opts ...Option) (*App, error) {
	a := &App{
		Fs:       afero.NewOsFs(),
		Notifier: notify.NewTerminal(nil),
	}

	for _, opt := range opts {
		opt(a)
	}

	if !a.settingsSet {
		s, err := settings.Load(a.Fs)
		if err != nil {
			return nil, err
		}

		a.Settings = s
	}

	a.Registry = oplog.NewRegistry()
	a.Broker = events.NewBroker()
	a.Listener = events.NewListener(a.Broker, a.Registry)
	a.Handler = apperr.NewHandler(a.Registry, a.Notifier)
	a.Launcher = launcher.New(a.Registry, a.Handler)
	a.Batch = batch.NewRunner(a.Launcher)

	a.Listener.Attach(ctx)

	return a, nil
}

// Flasher resolves the flasher executor on first use. Resolution honours
// the settings override before searching the managed install path and PATH.
func (a *App) Flasher() (*flasher.Executor, error) {
	a.flasherMu.Lock()
	defer a.flasherMu.Unlock()

	if a.flasher != nil || a.flasherErr != nil {
		return a.flasher, a.flasherErr
	}

	var opts []flasher.Option
	if a.Settings.FlasherPath != "" {
		opts = append(opts, flasher.WithBinaryPath(a.Settings.FlasherPath))
	}

	a.flasher, a.flasherErr = flasher.New(a.Broker, opts...)

	return a.flasher, a.flasherErr
}

// StopFlasher kills the running flasher process, if one exists. Safe to
// call when the flasher was never resolved.
func (a *App) StopFlasher() {
	a.flasherMu.Lock()
	exec := a.flasher
	a.flasherMu.Unlock()

	if exec == nil {
		return
	}

	exec.Cancel() //nolint:errcheck
}

// Close detaches the stream listener and waits for its consumers.
func (a *App) Close() {
	if a.Listener != nil {
		a.Listener.Close()
	}
}
