// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package notify delivers ephemeral user-facing notifications. The core
// engine only depends on the Notifier interface; the terminal notifier here
// is the default sink for CLI use.
package notify

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Severity selects the styling of a notification.
type Severity int

const (
	// SeverityInfo is a neutral notification.
	SeverityInfo Severity = iota
	// SeveritySuccess reports a completed operation.
	SeveritySuccess
	// SeverityWarning reports a recoverable problem.
	SeverityWarning
	// SeverityError reports a failure.
	SeverityError
)

// DefaultDuration is the base display duration for a notification.
// Sinks with a transient surface honor it; the terminal sink only records it.
const DefaultDuration = 5 * time.Second

// Notification is one ephemeral message shown to the user.
type Notification struct {
	Severity Severity
	Message  string
	Duration time.Duration
}

// Notifier is the sink for ephemeral notifications.
type Notifier interface {
	Notify(n Notification)
}

// Null is a no-op Notifier, used when notifications are not wanted.
type Null struct{}

// Notify implements Notifier by doing nothing.
func (Null) Notify(Notification) {}

// Terminal writes styled one-line notifications to a writer.
type Terminal struct {
	w      io.Writer
	styles map[Severity]lipgloss.Style
}

// NewTerminal creates a Terminal notifier writing to w.
// A nil writer defaults to stderr.
func NewTerminal(w io.Writer) *Terminal {
	if w == nil {
		w = os.Stderr
	}

	return &Terminal{
		w: w,
		styles: map[Severity]lipgloss.Style{
			SeverityInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
			SeveritySuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
			SeverityWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
			SeverityError:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		},
	}
}

// Notify implements Notifier.
func (t *Terminal) Notify(n Notification) {
	style, ok := t.styles[n.Severity]
	if !ok {
		style = t.styles[SeverityInfo]
	}

	fmt.Fprintln(t.w, style.Render(n.Message)) //nolint:errcheck
}
