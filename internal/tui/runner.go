// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matt-FFFFFF/penumbra/internal/events"
	"github.com/matt-FFFFFF/penumbra/internal/oplog"
)

// Runner owns the TUI program and the broker subscriptions feeding it.
type Runner struct {
	registry *oplog.Registry
	broker   *events.Broker
	mutex    sync.Mutex
}

// NewRunner creates a Runner over the given registry and broker.
func NewRunner(registry *oplog.Registry, broker *events.Broker) *Runner {
	return &Runner{
		registry: registry,
		broker:   broker,
	}
}

// Run starts the TUI, launches the operation via start, and keeps the
// view live until the user quits. It returns the operation's error, or
// the TUI's own error when the interface failed first.
func (r *Runner) Run(ctx context.Context, start func(ctx context.Context) error) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	model := NewModel(r.registry)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	output := r.broker.SubscribeOutput()
	complete := r.broker.SubscribeComplete()
	defer output.Cancel()
	defer complete.Cancel()

	// Forward broker events into the program. The goroutines end when the
	// subscriptions are cancelled on return.
	go func() {
		for range output.Events() {
			program.Send(OutputMsg{})
		}
	}()

	go func() {
		for e := range complete.Events() {
			program.Send(CompleteMsg{Success: e.Success, Error: e.Error})
		}
	}()

	opDone := make(chan error, 1)

	go func() {
		defer close(opDone)

		opDone <- start(ctx)
	}()

	_, tuiErr := program.Run()

	// The user may quit while the operation is still running; the launcher
	// surfaces the result either way, so just wait for it to settle.
	opErr := <-opDone

	if tuiErr != nil {
		return tuiErr
	}

	return opErr
}
